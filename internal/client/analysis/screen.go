// Package analysis implements the analysis screen: it checks preconditions
// locally, pre-flights the token expiry, submits one analysis at a time and
// turns the outcome into a user-facing state.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/resumematch/internal/client/api"
	"github.com/dmitrijs2005/resumematch/internal/client/auth"
	"github.com/dmitrijs2005/resumematch/internal/client/models"
	"github.com/dmitrijs2005/resumematch/internal/client/session"
	"github.com/dmitrijs2005/resumematch/internal/common"
	"github.com/dmitrijs2005/resumematch/internal/logging"
)

var (
	MsgNoResume         = "Please upload a resume first"
	MsgNoJobDescription = "Please enter a job description"
	MsgQuota            = fmt.Sprintf("Analysis limit reached: you have used all %d analyses", Limit)
	MsgSessionExpired   = "Your session has expired. Please log in again."
	MsgForbidden        = "You do not have permission to run this analysis."
	MsgNetwork          = "Unable to reach the server. Check your connection and try again."
	MsgFailed           = "Analysis failed. Please try again."
)

// now is a test seam for the token expiry pre-flight.
var now = time.Now

// Failure classifies the last unsuccessful attempt.
type Failure int

const (
	FailureNone Failure = iota
	FailurePrecondition
	FailureQuota
	FailureSessionExpired
	FailureForbidden
	FailureNetwork
	FailureServer
)

// Analyzer is the API surface the screen needs.
type Analyzer interface {
	Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalyzeResponse, error)
}

// TokenSource reads the current session token.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// State is a snapshot of the screen.
type State struct {
	Resume         *models.ResumeRef
	JobDescription string
	Quota          Quota
	Submitting     bool
	Result         *models.AnalysisResult
	Failure        Failure
	Error          string
}

// CanRelogin reports whether the screen should offer a re-login action.
func (s State) CanRelogin() bool {
	return s.Failure == FailureSessionExpired
}

type Screen struct {
	api    Analyzer
	tokens TokenSource
	log    logging.Logger
	// onCount receives every quota update so the identity can mirror it.
	onCount func(used int)

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	closed bool
}

func NewScreen(a Analyzer, tokens TokenSource, log logging.Logger, onCount func(used int)) *Screen {
	return &Screen{api: a, tokens: tokens, log: log, onCount: onCount}
}

func (s *Screen) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	if st.Resume != nil {
		r := *st.Resume
		st.Resume = &r
	}
	return st
}

// SetResume records the uploaded résumé; nil clears it.
func (s *Screen) SetResume(ref *models.ResumeRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ref == nil {
		s.state.Resume = nil
		return
	}
	r := *ref
	s.state.Resume = &r
	s.clearErrorLocked()
}

func (s *Screen) SetJobDescription(jd string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.JobDescription = jd
	s.clearErrorLocked()
}

// SetUsed seeds the quota counter, typically from the identity after login.
func (s *Screen) SetUsed(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Quota.Used = n
}

// ClearError dismisses the current message (after a re-login, say).
func (s *Screen) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearErrorLocked()
}

func (s *Screen) clearErrorLocked() {
	s.state.Failure = FailureNone
	s.state.Error = ""
}

// CanSubmit reports whether the analyze action is enabled.
func (s *Screen) CanSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && !s.state.Submitting && s.preconditionLocked() == nil
}

func (s *Screen) preconditionLocked() error {
	switch {
	case s.state.Resume == nil, s.state.Resume.ID == "":
		return ErrNoResume
	case strings.TrimSpace(s.state.JobDescription) == "":
		return ErrNoJobDescription
	case s.state.Quota.Exhausted():
		return ErrQuotaExhausted
	}
	return nil
}

// Submit runs one analysis. It returns ErrInFlight without touching the
// network if a previous submission has not finished. Every other failure is
// also reflected in State().
func (s *Screen) Submit(ctx context.Context) (*models.AnalysisResult, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	if s.state.Submitting {
		s.mu.Unlock()
		return nil, ErrInFlight
	}
	if err := s.preconditionLocked(); err != nil {
		s.failLocked(preconditionFailure(err))
		s.mu.Unlock()
		return nil, err
	}
	req := models.AnalysisRequest{ResumeID: s.state.Resume.ID, JobDescription: s.state.JobDescription}
	s.state.Submitting = true
	s.mu.Unlock()

	token, err := s.tokens.Token(ctx)
	if err != nil && !errors.Is(err, session.ErrCorrupt) {
		s.mu.Lock()
		s.state.Submitting = false
		s.failLocked(outcome{FailureServer, MsgFailed})
		s.mu.Unlock()
		s.log.Error(ctx, "reading session token failed", "error", err)
		return nil, fmt.Errorf("read session token: %w", err)
	}
	if err == nil {
		err = preflight(token)
	}
	if err != nil {
		s.mu.Lock()
		s.state.Submitting = false
		s.failLocked(outcomeFor(common.ErrTokenExpired))
		s.mu.Unlock()
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", common.ErrTokenExpired, err)
	}

	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.closed {
		s.state.Submitting = false
		s.mu.Unlock()
		return nil, ErrClosed
	}
	s.cancel = cancel
	s.state.Result = nil
	s.clearErrorLocked()
	s.mu.Unlock()

	resp, callErr := s.api.Analyze(reqCtx, req)

	current, tokenErr := s.tokens.Token(ctx)

	s.mu.Lock()
	s.state.Submitting = false
	s.cancel = nil
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	if tokenErr != nil || (current != token && !rejectedSession(callErr, current)) {
		s.mu.Unlock()
		s.log.Info(ctx, "discarding analysis outcome after session change")
		return nil, ErrStale
	}

	if callErr != nil {
		s.applyFailureLocked(callErr)
		used := s.state.Quota.Used
		quota := errors.Is(callErr, api.ErrQuotaExceeded)
		s.mu.Unlock()
		if quota {
			s.notifyCount(used)
		}
		s.log.Warn(ctx, "analysis failed", "error", callErr)
		return nil, callErr
	}

	result := resp.Data
	s.state.Result = &result
	if resp.AnalysisCount != nil {
		s.state.Quota.Used = *resp.AnalysisCount
	} else {
		s.state.Quota.Used++
	}
	used := s.state.Quota.Used
	s.mu.Unlock()

	s.notifyCount(used)
	out := result
	return &out, nil
}

// preflight rejects tokens that are missing or already expired. It is a UX
// shortcut only; the server still decides.
func preflight(token string) error {
	if token == "" {
		return common.ErrNotAuthenticated
	}
	err := auth.CheckExpiry(token, now())
	if errors.Is(err, common.ErrTokenExpired) {
		return err
	}
	// An undecodable token is left for the server to reject.
	return nil
}

// rejectedSession reports whether the session went away because the server
// rejected the token this request carried. The store is emptied on a 401
// when the client runs with the clear policy; that is the same session
// expiring, not a new one taking over.
func rejectedSession(callErr error, current string) bool {
	return current == "" && errors.Is(callErr, api.ErrUnauthorized)
}

func (s *Screen) notifyCount(used int) {
	if s.onCount != nil {
		s.onCount(used)
	}
}

type outcome struct {
	failure Failure
	message string
}

func preconditionFailure(err error) outcome {
	switch {
	case errors.Is(err, ErrNoResume):
		return outcome{FailurePrecondition, MsgNoResume}
	case errors.Is(err, ErrNoJobDescription):
		return outcome{FailurePrecondition, MsgNoJobDescription}
	}
	return outcome{FailureQuota, MsgQuota}
}

func outcomeFor(err error) outcome {
	switch {
	case errors.Is(err, common.ErrTokenExpired), errors.Is(err, api.ErrUnauthorized):
		return outcome{FailureSessionExpired, MsgSessionExpired}
	case errors.Is(err, api.ErrQuotaExceeded):
		return outcome{FailureQuota, MsgQuota}
	case errors.Is(err, api.ErrForbidden):
		return outcome{FailureForbidden, MsgForbidden}
	case errors.Is(err, api.ErrUnavailable):
		return outcome{FailureNetwork, MsgNetwork}
	}
	if apiErr, ok := api.AsError(err); ok && apiErr.Message != "" && apiErr.Message != api.DefaultErrorMessage {
		return outcome{FailureServer, apiErr.Message}
	}
	return outcome{FailureServer, MsgFailed}
}

func (s *Screen) applyFailureLocked(err error) {
	if apiErr, ok := api.AsError(err); ok && apiErr.Kind == api.KindQuota {
		if apiErr.Used != nil {
			s.state.Quota.Used = *apiErr.Used
		} else {
			s.state.Quota.Used = max(s.state.Quota.Used, Limit)
		}
	}
	s.failLocked(outcomeFor(err))
}

func (s *Screen) failLocked(o outcome) {
	s.state.Failure = o.failure
	s.state.Error = o.message
}

// Close aborts any in-flight request and makes the screen discard its
// outcome. Further submissions return ErrClosed.
func (s *Screen) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
}
