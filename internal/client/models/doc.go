// Package models defines the request and response shapes exchanged with the
// résumé analysis backend, plus client-side form validation.
package models
