package auth

import (
	"context"

	"github.com/fekuna/omnipos-bar-service/internal/apperr"
	"google.golang.org/grpc/metadata"
)

const (
	RoleAdmin      = "ADMIN"
	RoleSupervisor = "SUPERVISOR"
	RoleCashier    = "CASHIER"
	RoleBartender  = "BARTENDER"
	RoleInventory  = "INVENTORY"
)

type UserContext struct {
	UserID string
	Role   string
	Lang   string
}

type ctxKey struct{}

// WithUser stores u in ctx. Tests and the godog suite use it in place of
// gRPC metadata.
func WithUser(ctx context.Context, u UserContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

func fromMetadata(ctx context.Context, key string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if ok {
		if val := md.Get(key); len(val) > 0 {
			return val[0]
		}
	}
	return ""
}

func GetUserID(ctx context.Context) string {
	if u, ok := ctx.Value(ctxKey{}).(UserContext); ok {
		return u.UserID
	}
	return fromMetadata(ctx, "x-user-id")
}

func GetRole(ctx context.Context) string {
	if u, ok := ctx.Value(ctxKey{}).(UserContext); ok {
		return u.Role
	}
	return fromMetadata(ctx, "x-user-role")
}

// GetLang returns the preferred message language, empty when unset.
func GetLang(ctx context.Context) string {
	if u, ok := ctx.Value(ctxKey{}).(UserContext); ok && u.Lang != "" {
		return u.Lang
	}
	return fromMetadata(ctx, "x-lang")
}

// RequireRole fails with a forbidden error unless the caller holds one of roles.
func RequireRole(ctx context.Context, roles ...string) error {
	role := GetRole(ctx)
	for _, r := range roles {
		if r == role {
			return nil
		}
	}
	return apperr.Forbidden(role)
}
