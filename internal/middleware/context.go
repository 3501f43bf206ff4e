package middleware

import (
	"context"

	"github.com/PedroFNMDEV/SextoCommit/internal/auth"
)

type ctxKey string

const (
	ctxRequestID ctxKey = "request_id"
	ctxClaims    ctxKey = "claims"
)

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxRequestID, id)
}

func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(ctxRequestID).(string)
	return v
}

func WithClaims(ctx context.Context, c auth.Claims) context.Context {
	return context.WithValue(ctx, ctxClaims, c)
}

func ClaimsFrom(ctx context.Context) (auth.Claims, bool) {
	c, ok := ctx.Value(ctxClaims).(auth.Claims)
	return c, ok
}
