// Package actorctx carries the authenticated user id on a context.Context so
// code below the HTTP layer (logging, stores) can see who is acting.
package actorctx

import "context"

type ctxKey struct{}

func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

func UserIDFrom(ctx context.Context) (int64, bool) {
	v, ok := ctx.Value(ctxKey{}).(int64)

	return v, ok && v > 0
}
