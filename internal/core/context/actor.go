// Package context provides request-scoped value extraction.
package context

import (
	"context"
)

// ActorContext identifies the authenticated actor performing an operation.
// Core operations record the actor id on audit fields (sales, purchases)
// instead of creating implicit default users.
type ActorContext struct {
	ActorID string
	Email   string
	Name    string
	Role    string
}

type actorContextKey struct{}

// WithActor adds ActorContext to context.
func WithActor(ctx context.Context, actor *ActorContext) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// GetActor returns ActorContext from context.
func GetActor(ctx context.Context) *ActorContext {
	if v, ok := ctx.Value(actorContextKey{}).(*ActorContext); ok {
		return v
	}
	return nil
}

// GetActorID returns the actor id from context or empty string.
func GetActorID(ctx context.Context) string {
	if a := GetActor(ctx); a != nil {
		return a.ActorID
	}
	return ""
}

// IsAdmin reports whether the actor carries the admin role.
func IsAdmin(ctx context.Context) bool {
	a := GetActor(ctx)
	return a != nil && a.Role == "ADMIN"
}
