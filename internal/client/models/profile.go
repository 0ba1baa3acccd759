package models

import "github.com/dmitrijs2005/resumematch/internal/timex"

// Profile is the cached user blob ("userData") and the payload of
// GET /users/profile. Every field is optional.
type Profile struct {
	ID            string       `json:"id,omitempty"`
	Name          string       `json:"name,omitempty"`
	Email         string       `json:"email,omitempty"`
	ProfileImage  string       `json:"profileImage,omitempty"`
	AuthProvider  string       `json:"authProvider,omitempty"`
	AnalysisCount *int         `json:"analysisCount,omitempty"`
	IssuedAt      int64        `json:"iat,omitempty"`
	CreatedAt     *timex.Stamp `json:"createdAt,omitempty"` // used when iat is missing
}

// ProfileResponse wraps the profile endpoint's {user: {...}} envelope.
type ProfileResponse struct {
	User Profile `json:"user"`
}
