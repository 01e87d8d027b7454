package shared

import (
	"context"

	"github.com/google/uuid"
)

// SessionContext identifies the UI session a call is made for.
// It is passed explicitly instead of being kept in process-wide state.
type SessionContext struct {
	SessionID uuid.UUID
	ClientID  string
	UserName  string
	UserType  string
}

// IsZero reports whether the session is unset
func (s SessionContext) IsZero() bool {
	return s.SessionID == uuid.Nil
}

type sessionKey struct{}

// WithSession returns a context carrying the session
func WithSession(ctx context.Context, s SessionContext) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the session carried by ctx
func SessionFromContext(ctx context.Context) (SessionContext, bool) {
	s, ok := ctx.Value(sessionKey{}).(SessionContext)
	return s, ok && !s.IsZero()
}
