// Package auth holds the client's view of who is signed in.
//
// Context is constructed once at startup and passed to the screens that
// need it. It starts in StateLoading, moves to StateAuthenticated or
// StateAnonymous in Init, and changes afterwards only through Login and
// Logout. All writes go through the session store so the API client always
// sees the same token the context reports.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/resumematch/internal/client/models"
	"github.com/dmitrijs2005/resumematch/internal/client/session"
	"github.com/dmitrijs2005/resumematch/internal/logging"
)

type State int

const (
	StateLoading State = iota
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	}
	return "loading"
}

type Context struct {
	mu       sync.RWMutex
	store    session.Store
	log      logging.Logger
	state    State
	identity *Identity
}

func NewContext(store session.Store, log logging.Logger) *Context {
	return &Context{store: store, log: log, state: StateLoading}
}

// Init performs the startup transition. A stored token that cannot be
// decoded (or a session that cannot be unsealed) is treated as corrupt:
// the store is cleared and the context becomes anonymous. Only storage
// failures are returned.
func (c *Context) Init(ctx context.Context) error {
	token, err := c.store.Token(ctx)
	if err != nil {
		if errors.Is(err, session.ErrCorrupt) {
			return c.dropCorrupt(ctx, err)
		}
		return fmt.Errorf("read session: %w", err)
	}
	if token == "" {
		c.set(StateAnonymous, nil)
		return nil
	}

	claims, err := Decode(token)
	if err != nil {
		return c.dropCorrupt(ctx, err)
	}

	profile, err := c.store.Profile(ctx)
	if err != nil {
		if !errors.Is(err, session.ErrCorrupt) {
			return fmt.Errorf("read session profile: %w", err)
		}
		c.log.Warn(ctx, "ignoring unreadable cached profile", "error", err)
		profile = nil
	}

	c.set(StateAuthenticated, newIdentity(token, claims, profile))
	return nil
}

func (c *Context) dropCorrupt(ctx context.Context, cause error) error {
	c.log.Warn(ctx, "discarding invalid session", "error", cause)
	c.set(StateAnonymous, nil)
	if err := c.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear invalid session: %w", err)
	}
	return nil
}

// Login persists token (and profile, if any) and becomes authenticated.
// If the token cannot be decoded the session is cleared, the context becomes
// anonymous and the decode error (wrapping common.ErrInvalidToken) is returned.
func (c *Context) Login(ctx context.Context, token string, profile *models.Profile) error {
	claims, decodeErr := Decode(token)
	if decodeErr != nil {
		c.log.Warn(ctx, "login with undecodable token", "error", decodeErr)
		c.set(StateAnonymous, nil)
		if err := c.store.Clear(ctx); err != nil {
			return errors.Join(decodeErr, err)
		}
		return decodeErr
	}

	if err := c.store.Set(ctx, token, profile); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	c.set(StateAuthenticated, newIdentity(token, claims, profile))
	return nil
}

// Logout clears the session and becomes anonymous. The in-memory state is
// dropped even if clearing the store fails.
func (c *Context) Logout(ctx context.Context) error {
	c.set(StateAnonymous, nil)
	if err := c.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// UpdateProfile caches an enriched profile next to the current token and
// recomputes the identity. It is a no-op when nobody is signed in.
func (c *Context) UpdateProfile(ctx context.Context, profile *models.Profile) error {
	c.mu.RLock()
	current := c.identity
	c.mu.RUnlock()
	if current == nil || profile == nil {
		return nil
	}

	claims, err := Decode(current.Token)
	if err != nil {
		return err
	}
	if err := c.store.Set(ctx, current.Token, profile); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.identity != nil && c.identity.Token == current.Token {
		c.identity = newIdentity(current.Token, claims, profile)
	}
	return nil
}

// SetAnalysisCount mirrors a server-reported usage count into the identity.
func (c *Context) SetAnalysisCount(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.identity != nil {
		c.identity.AnalysisCount = n
	}
}

func (c *Context) set(state State, id *Identity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
	c.identity = id
}

func (c *Context) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Context) Loading() bool {
	return c.State() == StateLoading
}

// Identity returns a copy of the signed-in identity, or (nil, false).
func (c *Context) Identity() (*Identity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.identity == nil {
		return nil, false
	}
	id := *c.identity
	return &id, true
}
