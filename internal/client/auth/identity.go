package auth

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dmitrijs2005/resumematch/internal/client/models"
	"github.com/dmitrijs2005/resumematch/internal/timex"
)

// Identity is the read-only view of the signed-in user: decoded claims with
// the cached profile laid over them.
type Identity struct {
	Token         string
	ID            string
	Email         string
	Name          string
	ProfileImage  string
	AuthProvider  string
	AnalysisCount int
	IssuedAt      time.Time
	ExpiresAt     time.Time
}

func newIdentity(token string, c *Claims, p *models.Profile) *Identity {
	id := &Identity{
		Token:        token,
		ID:           c.ID,
		Email:        c.Email,
		Name:         c.Name,
		ProfileImage: c.ProfileImage,
		AuthProvider: c.AuthProvider,
	}
	if c.AnalysisCount != nil {
		id.AnalysisCount = *c.AnalysisCount
	}
	if c.IssuedAt != nil {
		id.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		id.ExpiresAt = c.ExpiresAt.Time
	}
	if p != nil {
		id.applyProfile(p)
	}
	return id
}

func (id *Identity) applyProfile(p *models.Profile) {
	if p.ID != "" {
		id.ID = p.ID
	}
	if p.Email != "" {
		id.Email = p.Email
	}
	if p.Name != "" {
		id.Name = p.Name
	}
	if p.ProfileImage != "" {
		id.ProfileImage = p.ProfileImage
	}
	if p.AuthProvider != "" {
		id.AuthProvider = p.AuthProvider
	}
	if p.AnalysisCount != nil {
		id.AnalysisCount = *p.AnalysisCount
	}
	switch {
	case p.IssuedAt != 0:
		id.IssuedAt = timex.FromUnix(p.IssuedAt)
	case p.CreatedAt != nil && !p.CreatedAt.IsZero():
		id.IssuedAt = p.CreatedAt.Time
	}
}

// DisplayName returns the name, or a name guessed from the email prefix
// ("ada.lovelace@x" -> "Ada Lovelace"), or "User".
func (id *Identity) DisplayName() string {
	if id.Name != "" {
		return id.Name
	}
	if id.Email != "" {
		prefix := strings.SplitN(id.Email, "@", 2)[0]
		parts := strings.FieldsFunc(prefix, func(r rune) bool { return r == '.' || r == '_' })
		for i, p := range parts {
			r, size := utf8.DecodeRuneInString(p)
			parts[i] = string(unicode.ToUpper(r)) + p[size:]
		}
		if len(parts) > 0 {
			return strings.Join(parts, " ")
		}
	}
	return "User"
}

// Initials returns up to two upper-case initials of DisplayName.
func (id *Identity) Initials() string {
	var b strings.Builder
	for _, w := range strings.Fields(id.DisplayName()) {
		r, _ := utf8.DecodeRuneInString(w)
		b.WriteRune(unicode.ToUpper(r))
		if utf8.RuneCountInString(b.String()) == 2 {
			break
		}
	}
	return b.String()
}

// IsGoogle reports whether the account was created through Google sign-in.
func (id *Identity) IsGoogle() bool {
	return id.AuthProvider == "google"
}
