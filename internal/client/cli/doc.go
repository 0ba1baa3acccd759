// Package cli provides the resumematch terminal client.
//
// It wires configuration, the local session database, the API client and
// the screens (login, register, OAuth, upload, analysis, result, profile)
// into a cobra command tree. Running the binary without a subcommand
// starts an interactive REPL that acts as the router between screens;
// protected commands consult the auth guard first and send anonymous users
// through login before resuming the command they asked for.
//
// One-shot subcommands (login, register, oauth, logout, whoami, profile,
// analyze) reuse the same screens without the REPL.
package cli
