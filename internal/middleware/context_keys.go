package middleware

import (
	"context"

	"github.com/SscSPs/kudi_commerce/internal/core/domain"
	"github.com/gin-gonic/gin"
)

const (
	userIDKey = contextKey("userID")
	actorKey  = contextKey("actor")
)

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if userID, ok := c.Request.Context().Value(userIDKey).(string); ok && userID != "" {
		return userID, true
	}
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		return "", false
	}
	userID, ok := userIDVal.(string)
	return userID, ok
}

// GetActorFromContext retrieves the authenticated caller from the Gin context.
func GetActorFromContext(c *gin.Context) (domain.Actor, bool) {
	return ActorFromCtx(c.Request.Context())
}

// ActorFromCtx retrieves the authenticated caller from a standard context.
func ActorFromCtx(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(domain.Actor)
	if !ok || actor.UserID == "" {
		return domain.Actor{}, false
	}
	return actor, true
}

// withActor stores actor and its user id in ctx.
func withActor(ctx context.Context, actor domain.Actor) context.Context {
	ctx = context.WithValue(ctx, actorKey, actor)
	return context.WithValue(ctx, userIDKey, actor.UserID)
}
