package auth

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/resumematch/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func mint(t *testing.T, c Claims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func validClaims() Claims {
	now := time.Now()
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		ID:    "u1",
		Email: "ada.lovelace@example.com",
	}
}

func intPtr(n int) *int { return &n }

// fakeStore is an in-memory session.Store.
type fakeStore struct {
	token    string
	profile  *models.Profile
	tokenErr error
	profErr  error
	setErr   error
	clearErr error
	clears   int
}

func (f *fakeStore) Token(context.Context) (string, error) { return f.token, f.tokenErr }

func (f *fakeStore) Profile(context.Context) (*models.Profile, error) {
	return f.profile, f.profErr
}

func (f *fakeStore) Set(_ context.Context, token string, p *models.Profile) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.token, f.profile = token, p
	return nil
}

func (f *fakeStore) Clear(context.Context) error {
	f.clears++
	if f.clearErr != nil {
		return f.clearErr
	}
	f.token, f.profile = "", nil
	return nil
}
