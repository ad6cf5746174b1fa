package middleware

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	ctxActorID       contextKey = "actor_id"
	ctxDistributerID contextKey = "distributer_id"
	ctxIsAdmin       contextKey = "is_admin"
)

// ActorIDFromContext returns the authenticated actor, or uuid.Nil when the
// request is unauthenticated.
func ActorIDFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if v, ok := ctx.Value(ctxActorID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

// DistributerIDFromContext returns the distributer bound to the session, or
// nil for staff sessions.
func DistributerIDFromContext(ctx context.Context) *uuid.UUID {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxDistributerID).(uuid.UUID); ok {
		id := v
		return &id
	}
	return nil
}

func IsAdminFromContext(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	if v, ok := ctx.Value(ctxIsAdmin).(bool); ok {
		return v
	}
	return false
}

// WithActor seeds the context the way the auth middleware does. Exposed for
// handler tests.
func WithActor(ctx context.Context, actorID uuid.UUID, distributerID *uuid.UUID, isAdmin bool) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxActorID, actorID)
	if distributerID != nil {
		ctx = context.WithValue(ctx, ctxDistributerID, *distributerID)
	}
	return context.WithValue(ctx, ctxIsAdmin, isAdmin)
}
