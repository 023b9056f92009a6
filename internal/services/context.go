package services

import (
	"context"

	"classifieds-core/pkg/logger"
)

// Caller is the authenticated principal of a request.
type Caller struct {
	ID    string
	Name  string
	Admin bool
}

type ctxKey string

var callerKey ctxKey = "caller"

func WithUser(ctx context.Context, caller Caller) context.Context {
	ctx = context.WithValue(ctx, callerKey, caller)
	return context.WithValue(ctx, logger.UserIdKey, caller.ID)
}

func UserFromContext(ctx context.Context) (Caller, bool) {
	caller, ok := ctx.Value(callerKey).(Caller)
	if !ok || caller.ID == "" {
		return Caller{}, false
	}
	return caller, true
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	caller, ok := UserFromContext(ctx)
	return caller.ID, ok
}
