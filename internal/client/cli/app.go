package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/resumematch/internal/client/analysis"
	"github.com/dmitrijs2005/resumematch/internal/client/api"
	"github.com/dmitrijs2005/resumematch/internal/client/auth"
	"github.com/dmitrijs2005/resumematch/internal/client/config"
	"github.com/dmitrijs2005/resumematch/internal/client/models"
	"github.com/dmitrijs2005/resumematch/internal/client/render"
	"github.com/dmitrijs2005/resumematch/internal/client/services"
	"github.com/dmitrijs2005/resumematch/internal/client/session"
	"github.com/dmitrijs2005/resumematch/internal/client/storage"
	"github.com/dmitrijs2005/resumematch/internal/client/upload"
	"github.com/dmitrijs2005/resumematch/internal/logging"
	"golang.org/x/term"
)

// Screen names double as route guard targets.
const (
	ScreenLogin    = auth.LoginTarget
	ScreenRegister = "register"
	ScreenAnalyze  = "analyze"
)

type App struct {
	config      *config.Config
	log         logging.Logger
	db          *sql.DB
	client      api.Client
	ac          *auth.Context
	authService services.AuthService
	widget      *upload.Widget
	screen      *analysis.Screen
	view        *render.ResultView
	style       render.Style

	reader  *bufio.Reader
	out     io.Writer
	current string
}

// NewApp opens the session database under cfg.DataDir and wires every
// component. The returned App must be closed.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := storage.OpenInDir(ctx, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	store, err := session.NewSQLiteStore(ctx, db, cfg.SessionKey)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	ac := auth.NewContext(store, log.With("component", "auth"))
	if err := ac.Init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	client := api.New(cfg.APIURL, store,
		api.WithTimeout(cfg.RequestTimeout),
		api.WithUnauthorizedPolicy(cfg.Policy()),
		api.WithUnauthorizedHook(ac.Logout),
		api.WithLogger(log.With("component", "api")),
	)

	a := &App{
		config:      cfg,
		log:         log,
		db:          db,
		client:      client,
		ac:          ac,
		authService: services.NewAuthService(client, ac, log),
		style:       render.Style{Color: term.IsTerminal(int(os.Stdout.Fd()))},
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
		current:     ScreenLogin,
	}
	a.view = render.NewResultView(a.style)
	a.screen = analysis.NewScreen(client, store, log.With("component", "analysis"), ac.SetAnalysisCount)
	a.widget = upload.NewWidget(client, log.With("component", "upload"), upload.Callbacks{
		OnPreview: a.showPreview,
		OnUploaded: func(id, fileName string) {
			a.screen.SetResume(&models.ResumeRef{ID: id, FileName: fileName})
		},
		OnCleared: func() { a.screen.SetResume(nil) },
	})

	if id, ok := ac.Identity(); ok {
		a.screen.SetUsed(id.AnalysisCount)
		a.current = ScreenAnalyze
	}
	return a, nil
}

// Close aborts any in-flight analysis and closes the database.
func (a *App) Close() error {
	if a.screen != nil {
		a.screen.Close()
	}
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.ac.State() == auth.StateAuthenticated
}

// Guard is the route guard for target.
func (a *App) Guard(target string) auth.Decision {
	return auth.Guard(a.ac, target)
}

func (a *App) navigate(screen string) {
	if a.current != screen {
		a.current = screen
		a.log.Debug(context.Background(), "navigate", "screen", screen)
	}
}

func (a *App) showPreview(p upload.Preview) {
	line := fmt.Sprintf("Selected %s (%s • %s)", p.Name, p.Size, p.Ext)
	if p.Words > 0 {
		line += fmt.Sprintf(", about %d words", p.Words)
	}
	printlnFn(line)
}

// getStatus renders the prompt status: screen, user and remaining quota.
func (a *App) getStatus() string {
	s := a.current
	if id, ok := a.ac.Identity(); ok {
		s += " " + id.DisplayName()
		s += fmt.Sprintf(" %d/%d", a.screen.State().Quota.Remaining(), analysis.Limit)
	}
	return s
}
