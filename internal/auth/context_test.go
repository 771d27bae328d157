package auth

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-bar-service/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/metadata"
)

func TestMetadataLookup(t *testing.T) {
	md := metadata.Pairs("x-user-id", "u-1", "x-user-role", RoleCashier, "x-lang", "en")
	ctx := metadata.NewIncomingContext(context.Background(), md)

	assert.Equal(t, "u-1", GetUserID(ctx))
	assert.Equal(t, RoleCashier, GetRole(ctx))
	assert.Equal(t, "en", GetLang(ctx))
}

func TestRequireRole(t *testing.T) {
	ctx := WithUser(context.Background(), UserContext{UserID: "b-1", Role: RoleBartender})

	require.NoError(t, RequireRole(ctx, RoleBartender, RoleAdmin))

	err := RequireRole(ctx, RoleAdmin, RoleSupervisor)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))
}
