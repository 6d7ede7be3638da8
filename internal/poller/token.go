package poller

import (
	"context"

	"github.com/google/uuid"
)

type requestIDKey struct{}

// Token identifies a single fetch and carries its cancellation signal.
//
// The coordinator compares tokens by identity to decide whether a resolving
// request is still current. Cancel is safe to call multiple times and on a
// nil Token.
type Token struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc
}

// NewToken creates a token whose context derives from parent.
// The token's ID is attached to the context for [RequestIDFromContext].
func NewToken(parent context.Context) *Token {
	if parent == nil {
		parent = context.Background()
	}
	id := uuid.NewString()
	ctx, cancel := context.WithCancel(context.WithValue(parent, requestIDKey{}, id))
	return &Token{id: id, ctx: ctx, cancel: cancel}
}

// ID returns the token's unique request identifier.
func (t *Token) ID() string {
	if t == nil {
		return ""
	}
	return t.id
}

// Context returns the context to pass to the transport.
func (t *Token) Context() context.Context {
	return t.ctx
}

// Cancel signals the request to stop.
func (t *Token) Cancel() {
	if t == nil {
		return
	}
	t.cancel()
}

// Cancelled reports whether the token (or its parent) has been cancelled.
func (t *Token) Cancelled() bool {
	if t == nil {
		return false
	}
	return t.ctx.Err() != nil
}

// RequestIDFromContext returns the request ID attached by [NewToken], if any.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
