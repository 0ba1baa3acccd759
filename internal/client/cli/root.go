package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/resumematch/internal/client/config"
	"github.com/dmitrijs2005/resumematch/internal/logging"
	"github.com/spf13/cobra"
)

// appKey stores the App built by the root pre-run in the command context.
type appKey struct{}

func appFrom(cmd *cobra.Command) *App {
	a, _ := cmd.Context().Value(appKey{}).(*App)
	return a
}

// Execute runs the command tree and closes the App on every path. cobra
// skips post-run hooks when a command fails, so the close cannot live there.
func Execute(ctx context.Context) error {
	root, closeApp := NewRootCmd()
	err := root.ExecuteContext(ctx)
	if cerr := closeApp(); err == nil {
		err = cerr
	}
	return err
}

// NewRootCmd builds the command tree. Without a subcommand the interactive
// shell starts. The returned func closes the App opened by the pre-run, if
// any, and is safe to call more than once.
func NewRootCmd() (*cobra.Command, func() error) {
	var (
		flags *config.Flags
		app   *App
	)
	closeApp := func() error {
		if app == nil {
			return nil
		}
		a := app
		app = nil
		return a.Close()
	}

	root := &cobra.Command{
		Use:           config.AppName,
		Short:         "Match a résumé against a job description",
		Long:          "resumematch uploads a résumé, sends it with a job description to the analysis backend and shows the match score, strengths, missing skills and suggestions.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags)
			if err != nil {
				return err
			}
			log, err := logging.New(os.Stderr, cfg.LogLevel)
			if err != nil {
				return err
			}
			a, err := NewApp(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			app = a
			cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, a))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			printlnFn("Welcome to resumematch (type 'help' for commands)")
			if !a.isLoggedIn() {
				_ = a.Login(cmd.Context())
			}
			runREPL(cmd.Context(), a, a.getStatus, a.reader)
			return nil
		},
	}
	flags = config.BindFlags(root.PersistentFlags())

	root.AddCommand(
		newLoginCmd(),
		newRegisterCmd(),
		newOAuthCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newProfileCmd(),
		newAnalyzeCmd(),
	)
	return root, closeApp
}

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return appFrom(cmd).Login(cmd.Context())
		},
	}
}

func newRegisterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return appFrom(cmd).Register(cmd.Context())
		},
	}
}

func newOAuthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "oauth [token]",
		Short: "Sign in with Google",
		Long:  "Without a token, prints the Google sign-in URL and waits for the browser to come back to the local callback listener. With a token, completes the sign-in directly.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token := ""
			if len(args) == 1 {
				token = args[0]
			}
			return appFrom(cmd).OAuth(cmd.Context(), token)
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return appFrom(cmd).Logout(cmd.Context())
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return appFrom(cmd).Whoami(cmd.Context())
		},
	}
}

func newProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the profile card and remaining analyses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			if !a.isLoggedIn() {
				return errNotLoggedIn
			}
			return a.Profile(cmd.Context())
		},
	}
}

var errNotLoggedIn = errors.New("not logged in, run 'resumematch login' first")

func newAnalyzeCmd() *cobra.Command {
	var resume, jd, jdFile string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Upload a résumé and analyze it against a job description",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			ctx := cmd.Context()
			if !a.isLoggedIn() {
				return errNotLoggedIn
			}
			if jd != "" && jdFile != "" {
				return fmt.Errorf("use either --jd or --jd-file, not both")
			}

			if err := a.Upload(ctx, resume); err != nil {
				return err
			}
			var err error
			if jdFile != "" {
				err = a.JobDescriptionFile(ctx, jdFile)
			} else {
				err = a.JobDescription(ctx, jd)
			}
			if err != nil {
				return err
			}
			return a.Analyze(ctx)
		},
	}
	cmd.Flags().StringVarP(&resume, "resume", "r", "", "path to a PDF or DOCX résumé")
	cmd.Flags().StringVar(&jd, "jd", "", "job description text")
	cmd.Flags().StringVar(&jdFile, "jd-file", "", "file holding the job description")
	_ = cmd.MarkFlagRequired("resume")
	return cmd
}
