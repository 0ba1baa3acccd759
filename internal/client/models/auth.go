package models

import (
	"encoding/json"
	"strings"
)

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Normalize trims the email the same way the login form does.
func (r *LoginRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func (r *RegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
}

// TokenResponse is the login response. The token is accepted either at the
// top level or nested under "data", both of which the backend has served.
type TokenResponse struct {
	Token string `json:"token"`
}

func (t *TokenResponse) UnmarshalJSON(b []byte) error {
	var raw struct {
		Token string `json:"token"`
		Data  *struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	t.Token = raw.Token
	if t.Token == "" && raw.Data != nil {
		t.Token = raw.Data.Token
	}
	return nil
}
