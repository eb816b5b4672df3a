package middlewarex

import (
	"context"

	"aigate/internal/services/auth"
)

type ctxKey string

const (
	ctxClaims ctxKey = "claims"
)

func WithClaims(ctx context.Context, c *auth.Claims) context.Context {
	return context.WithValue(ctx, ctxClaims, c)
}

func ClaimsFrom(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(ctxClaims).(*auth.Claims)
	return c, ok
}
