package mock

import (
	"context"

	"github.com/fwojciec/navigator"
)

var _ navigator.SessionService = (*SessionService)(nil)

// SessionService is a mock implementation of navigator.SessionService.
type SessionService struct {
	CreateSessionFn   func(ctx context.Context, session *navigator.Session) error
	FindSessionByIDFn func(ctx context.Context, id string) (*navigator.Session, error)
	FindSessionsFn    func(ctx context.Context, filter navigator.SessionFilter) ([]*navigator.Session, error)
	UpdateSessionFn   func(ctx context.Context, id string, upd navigator.SessionUpdate) (*navigator.Session, error)
	DeleteSessionFn   func(ctx context.Context, id string) error
}

func (s *SessionService) CreateSession(ctx context.Context, session *navigator.Session) error {
	return s.CreateSessionFn(ctx, session)
}

func (s *SessionService) FindSessionByID(ctx context.Context, id string) (*navigator.Session, error) {
	return s.FindSessionByIDFn(ctx, id)
}

func (s *SessionService) FindSessions(ctx context.Context, filter navigator.SessionFilter) ([]*navigator.Session, error) {
	return s.FindSessionsFn(ctx, filter)
}

func (s *SessionService) UpdateSession(ctx context.Context, id string, upd navigator.SessionUpdate) (*navigator.Session, error) {
	return s.UpdateSessionFn(ctx, id, upd)
}

func (s *SessionService) DeleteSession(ctx context.Context, id string) error {
	return s.DeleteSessionFn(ctx, id)
}
