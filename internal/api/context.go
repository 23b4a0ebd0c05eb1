package api

import (
	"context"

	"eventmarket/internal/auth"
)

type ctxKey string

const ctxKeyPrincipal ctxKey = "principal"

func WithPrincipal(ctx context.Context, p *auth.Principal) context.Context {
	return context.WithValue(ctx, ctxKeyPrincipal, p)
}

func PrincipalFromContext(ctx context.Context) *auth.Principal {
	v := ctx.Value(ctxKeyPrincipal)
	if v == nil {
		return nil
	}
	p, _ := v.(*auth.Principal)
	return p
}
