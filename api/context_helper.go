package api

import (
	"context"
	"time"

	"github.com/linesmerrill/party-cms-api/policy"
)

// QueryTimeout is the default timeout for database queries
const QueryTimeout = 10 * time.Second

// WithQueryTimeout creates a context with query timeout
func WithQueryTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, QueryTimeout)
}

type actorKey struct{}

// WithActor returns a copy of ctx carrying actor
func WithActor(ctx context.Context, actor policy.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the actor stored by the auth middleware. Requests that never passed
// through it are anonymous.
func ActorFrom(ctx context.Context) policy.Actor {
	if actor, ok := ctx.Value(actorKey{}).(policy.Actor); ok {
		return actor
	}
	return policy.AnonymousActor
}
