package simulation

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownScope reports a scope name that is not recognised.
	ErrUnknownScope = errors.New("unknown simulation scope")
	// ErrSeriesRequired reports a next-game request without a series id.
	ErrSeriesRequired = errors.New("series id required")
	// ErrSeriesNotActive reports a next-game request for a pending or finished series.
	ErrSeriesNotActive = errors.New("series is not in progress")
	// ErrNoUserGame reports a play request when the user has nothing left to play.
	ErrNoUserGame = errors.New("no user game to play")
	// ErrNotReady reports a request before campaign state was loaded.
	ErrNotReady = errors.New("campaign state not loaded")
)

// EngineError is a failed simulation engine call. Nothing was refreshed and the
// shared state is as it was before the call.
type EngineError struct {
	Scope Scope
	Err   error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("simulate %s: %v", e.Scope, e.Err)
}

func (e *EngineError) Unwrap() error { return e.Err }

// AsEngineError unwraps an engine failure.
func AsEngineError(err error) (*EngineError, bool) {
	var engErr *EngineError
	if errors.As(err, &engErr) {
		return engErr, true
	}
	return nil, false
}

// RefreshError reports that reads after a successful engine call failed. The shared
// state was not written.
type RefreshError struct {
	Failed []string
	Err    error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("refresh %s: %v", strings.Join(e.Failed, ","), e.Err)
}

func (e *RefreshError) Unwrap() error { return e.Err }

// AsRefreshError unwraps a refresh failure.
func AsRefreshError(err error) (*RefreshError, bool) {
	var refErr *RefreshError
	if errors.As(err, &refErr) {
		return refErr, true
	}
	return nil, false
}
