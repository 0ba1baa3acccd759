package cli

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/resumematch/internal/client/oauth"
	"github.com/dmitrijs2005/resumematch/internal/client/render"
	"github.com/dmitrijs2005/resumematch/internal/client/services"
	"github.com/dmitrijs2005/resumematch/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// oauthWait bounds how long the OAuth callback listener stays up.
var oauthWait = 5 * time.Minute

// Login prompts for email and password and signs in. On success the app
// moves to the analyze screen and the quota counter is seeded from the
// token. Failures are reported to the user and returned.
func (a *App) Login(ctx context.Context) error {
	a.navigate(ScreenLogin)

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Login(ctx, email, string(password)); err != nil {
		printlnFn(services.UserMessage(err, services.MsgLoginFailed))
		return err
	}
	a.afterLogin()
	return nil
}

// Register prompts for name, email and password and creates the account.
// It never signs in; on success the user is sent to the login screen.
func (a *App) Register(ctx context.Context) error {
	a.navigate(ScreenRegister)

	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Register(ctx, name, email, string(password)); err != nil {
		printlnFn(services.UserMessage(err, services.MsgRegisterFailed))
		return err
	}

	printlnFn(services.MsgRegistered)
	a.navigate(ScreenLogin)
	return nil
}

// OAuth signs in with a token pasted by the user, or, without one, prints
// the Google sign-in URL and waits for the backend to redirect the browser
// to the local callback listener.
func (a *App) OAuth(ctx context.Context, token string) error {
	if token != "" {
		return a.completeOAuth(a.authService.CompleteOAuth(ctx, token))
	}

	l, err := oauth.Listen(a.config.OAuthCallbackAddr, a.authService, a.log.With("component", "oauth"))
	if err != nil {
		printlnFn("Could not start the sign-in listener:", err)
		return err
	}

	printlnFn("Open this URL in your browser to sign in with Google:")
	printlnFn("  " + a.client.GoogleAuthURL())
	printlnFn("Waiting for the sign-in callback on " + l.CallbackURL() + " ...")

	waitCtx, cancel := context.WithTimeout(ctx, oauthWait)
	defer cancel()
	return a.completeOAuth(l.Wait(waitCtx))
}

func (a *App) completeOAuth(err error) error {
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			printlnFn("Sign-in cancelled.")
		} else {
			printlnFn(services.OAuthMessage(err))
		}
		a.navigate(ScreenLogin)
		return err
	}
	a.afterLogin()
	return nil
}

func (a *App) afterLogin() {
	if id, ok := a.ac.Identity(); ok {
		a.screen.SetUsed(id.AnalysisCount)
		printlnFn("Logged in as " + id.DisplayName())
	}
	a.screen.ClearError()
	a.navigate(ScreenAnalyze)
}

// Relogin is the explicit recovery action after a session expired. The
// stale session is dropped and the user signs in again; the uploaded
// résumé and the job description are kept.
func (a *App) Relogin(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	return a.Login(ctx)
}

// Logout clears the session and everything tied to it.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	a.widget.Remove()
	a.screen.SetUsed(0)
	a.navigate(ScreenLogin)
	printlnFn("Logged out")
	return nil
}

func (a *App) Whoami(ctx context.Context) error {
	id, ok := a.ac.Identity()
	if !ok {
		printlnFn("Not logged in")
		return nil
	}
	email := id.Email
	if email == "" {
		email = render.NoEmail
	}
	printlnFn(id.DisplayName() + " <" + email + ">")
	return nil
}

// Profile shows the profile card, enriching the identity from the
// backend first when the token lacks a name or an email.
func (a *App) Profile(ctx context.Context) error {
	id, err := a.authService.EnrichProfile(ctx)
	if err != nil {
		printlnFn("Not logged in")
		return err
	}
	q := a.screen.State().Quota
	return render.RenderProfile(a.out, a.style, render.Profile{Identity: *id, Used: q.Used, Remaining: q.Remaining()})
}
