// Package guard gates protected operations behind a resolved, authenticated
// session.
package guard

import (
	"context"
	"errors"

	"github.com/stevenajg93/orla3-marketing-suite-app-sub001/internal/session"
)

// ErrNotAuthenticated is returned when a protected operation runs without a
// logged-in user.
var ErrNotAuthenticated = errors.New("not authenticated: run 'orla login' first")

// Session is the slice of the session manager the guard reads.
type Session interface {
	State() session.State
	Restore(ctx context.Context)
	CurrentUser() *session.User
}

// Require resolves the session if it is still initializing, then returns
// the current user or ErrNotAuthenticated. Protected operations never run
// against an unresolved session.
func Require(ctx context.Context, s Session) (*session.User, error) {
	if s.State() == session.StateInitializing {
		s.Restore(ctx)
	}
	user := s.CurrentUser()
	if user == nil {
		return nil, ErrNotAuthenticated
	}
	return user, nil
}
