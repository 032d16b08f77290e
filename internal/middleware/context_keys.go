package middleware

import (
	"context"

	"github.com/SscSPs/travel_ledger/internal/core/domain"
)

const actorCtxKey = contextKey("actor")

// WithActor stores the caller identity used for audit records. An empty id
// keeps the id already present in ctx.
func WithActor(ctx context.Context, actorID, ipAddress string) context.Context {
	actor := GetActorFromCtx(ctx)
	if actorID != "" {
		actor.ID = actorID
	}
	if ipAddress != "" {
		actor.IPAddress = ipAddress
	}
	return context.WithValue(ctx, actorCtxKey, actor)
}

// GetActorFromCtx retrieves the caller identity, defaulting to the system actor.
func GetActorFromCtx(ctx context.Context) domain.Actor {
	if ctx != nil {
		if actor, ok := ctx.Value(actorCtxKey).(domain.Actor); ok {
			if actor.ID == "" {
				actor.ID = domain.SystemActor
			}
			return actor
		}
	}
	return domain.Actor{ID: domain.SystemActor}
}
