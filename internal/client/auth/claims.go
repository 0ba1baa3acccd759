package auth

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/resumematch/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload the backend puts in its bearer tokens.
type Claims struct {
	jwt.RegisteredClaims
	ID            string `json:"id,omitempty"`
	Email         string `json:"email,omitempty"`
	Name          string `json:"name,omitempty"`
	ProfileImage  string `json:"profileImage,omitempty"`
	AuthProvider  string `json:"authProvider,omitempty"`
	AnalysisCount *int   `json:"analysisCount,omitempty"`
}

// Decode reads the token's claims without verifying its signature. The
// result is only fit for display and UX shortcuts such as the expiry
// pre-flight; the server remains the authority on everything else.
func Decode(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}
	return claims, nil
}

// Expired reports whether the exp claim is set and not after now.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return !c.ExpiresAt.Time.After(now)
}

// CheckExpiry decodes token and returns common.ErrTokenExpired if its exp
// claim has passed. Tokens without exp are treated as current.
func CheckExpiry(token string, now time.Time) error {
	claims, err := Decode(token)
	if err != nil {
		return err
	}
	if claims.Expired(now) {
		return common.ErrTokenExpired
	}
	return nil
}
