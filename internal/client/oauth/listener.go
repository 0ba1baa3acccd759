// Package oauth receives the token at the end of the backend's Google
// sign-in flow. The backend redirects the browser to
// http://<callback addr>/auth-success?token=..., which this package serves
// on a short-lived local listener.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/resumematch/internal/client/services"
	"github.com/dmitrijs2005/resumematch/internal/logging"
	"github.com/gorilla/mux"
)

// CallbackPath is the route the backend redirects to.
const CallbackPath = "/auth-success"

const shutdownTimeout = 2 * time.Second

// Completer hands the received token to the auth layer.
type Completer interface {
	CompleteOAuth(ctx context.Context, token string) error
}

var page = template.Must(template.New("callback").Parse(`<!doctype html>
<html><head><meta charset="utf-8"><title>resumematch</title></head>
<body style="font-family:sans-serif;text-align:center;margin-top:15vh">
<h2>Completing Sign In...</h2>
<p>{{.}}</p>
</body></html>
`))

type Listener struct {
	ln      net.Listener
	srv     *http.Server
	results chan error
	log     logging.Logger
}

// Listen binds addr and starts serving the callback route. Call Wait to
// receive the outcome; Wait also stops the server.
func Listen(addr string, c Completer, log logging.Logger) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("oauth callback listen %s: %w", addr, err)
	}

	l := &Listener{ln: ln, results: make(chan error, 1), log: log}

	r := mux.NewRouter()
	r.HandleFunc(CallbackPath, l.callback(c)).Methods(http.MethodGet)
	l.srv = &http.Server{Handler: r, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := l.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(context.Background(), "oauth callback server stopped", "error", err)
		}
	}()
	log.Info(context.Background(), "oauth callback listening", "addr", ln.Addr().String())
	return l, nil
}

// Addr is the bound address, useful when Listen was given port 0.
func (l *Listener) Addr() string {
	return l.ln.Addr().String()
}

// CallbackURL is the full URL the backend should redirect to.
func (l *Listener) CallbackURL() string {
	return "http://" + l.Addr() + CallbackPath
}

func (l *Listener) callback(c Completer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		err := c.CompleteOAuth(r.Context(), token)

		msg := "You are signed in. You can close this window and return to the terminal."
		status := http.StatusOK
		if err != nil {
			msg = services.OAuthMessage(err)
			status = http.StatusBadRequest
			l.log.Warn(r.Context(), "oauth callback rejected", "error", err)
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_ = page.Execute(w, msg)

		select {
		case l.results <- err:
		default:
		}
	}
}

// Wait blocks until the first callback arrives or ctx is done, then shuts
// the server down. It returns the callback's CompleteOAuth error, or ctx's.
func (l *Listener) Wait(ctx context.Context) error {
	var err error
	select {
	case err = <-l.results:
	case <-ctx.Done():
		err = ctx.Err()
	}
	l.Close()
	return err
}

// Close stops the server without waiting for a callback.
func (l *Listener) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := l.srv.Shutdown(ctx); err != nil {
		l.log.Warn(ctx, "oauth callback shutdown", "error", err)
	}
	l.log.Info(ctx, "oauth callback closed")
}
