// Package services contains the client's application services. This file
// defines the authentication service behind the login, register and OAuth
// screens plus the best-effort profile enrichment.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/resumematch/internal/client/api"
	"github.com/dmitrijs2005/resumematch/internal/client/auth"
	"github.com/dmitrijs2005/resumematch/internal/client/models"
	"github.com/dmitrijs2005/resumematch/internal/common"
	"github.com/dmitrijs2005/resumematch/internal/logging"
)

// User-facing outcomes of the auth screens.
const (
	MsgLoginFailed    = "Login failed. Please check your credentials and try again."
	MsgRegisterFailed = "Registration failed. Please try again."
	MsgRegistered     = "Registered successfully. Please login."
	MsgNoOAuthToken   = "No authentication token received"
	MsgOAuthFailed    = "Authentication failed"
)

// ErrNoToken is returned when the OAuth callback carried no token.
var ErrNoToken = errors.New("no authentication token received")

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: validate, exchange credentials for a token, store it.
//   - Register: validate and create the account; does not sign in.
//   - CompleteOAuth: accept a token delivered by the OAuth callback.
//   - Logout: drop the local session.
//   - EnrichProfile: fill in name and email from /users/profile when the
//     token lacks them.
type AuthService interface {
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, name, email, password string) error
	CompleteOAuth(ctx context.Context, token string) error
	Logout(ctx context.Context) error
	EnrichProfile(ctx context.Context) (*auth.Identity, error)
}

type authService struct {
	client api.Client
	ac     *auth.Context
	log    logging.Logger
}

func NewAuthService(client api.Client, ac *auth.Context, log logging.Logger) AuthService {
	return &authService{client: client, ac: ac, log: log}
}

func (a *authService) Login(ctx context.Context, email, password string) error {
	req := models.LoginRequest{Email: email, Password: password}
	req.Normalize()
	if err := models.Validate(req); err != nil {
		return err
	}

	token, err := a.client.Login(ctx, req)
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}
	return a.ac.Login(ctx, token, nil)
}

func (a *authService) Register(ctx context.Context, name, email, password string) error {
	req := models.RegisterRequest{Name: name, Email: email, Password: password}
	req.Normalize()
	if err := models.Validate(req); err != nil {
		return err
	}

	if err := a.client.Register(ctx, req); err != nil {
		return fmt.Errorf("register error: %w", err)
	}
	return nil
}

func (a *authService) CompleteOAuth(ctx context.Context, token string) error {
	if token == "" {
		return ErrNoToken
	}
	return a.ac.Login(ctx, token, nil)
}

func (a *authService) Logout(ctx context.Context) error {
	return a.ac.Logout(ctx)
}

// EnrichProfile returns the current identity, first fetching the profile
// when the token carries no name or no email. A failed fetch is logged and
// the claims-only identity is returned.
func (a *authService) EnrichProfile(ctx context.Context) (*auth.Identity, error) {
	id, ok := a.ac.Identity()
	if !ok {
		return nil, common.ErrNotAuthenticated
	}
	if id.Name != "" && id.Email != "" {
		return id, nil
	}

	profile, err := a.client.Profile(ctx)
	if err != nil {
		a.log.Warn(ctx, "profile enrichment failed", "error", err)
		return id, nil
	}
	if err := a.ac.UpdateProfile(ctx, profile); err != nil {
		a.log.Warn(ctx, "caching profile failed", "error", err)
		return id, nil
	}

	if fresh, ok := a.ac.Identity(); ok {
		return fresh, nil
	}
	return id, nil
}

// UserMessage picks the text to show for err: the validation summary, the
// server's message when it sent one, or fallback.
func UserMessage(err error, fallback string) string {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	if apiErr, ok := api.AsError(err); ok && apiErr.Message != "" && apiErr.Message != api.DefaultErrorMessage {
		return apiErr.Message
	}
	return fallback
}

// OAuthMessage maps a CompleteOAuth failure to what the user sees.
func OAuthMessage(err error) string {
	if errors.Is(err, ErrNoToken) {
		return MsgNoOAuthToken
	}
	return MsgOAuthFailed
}
