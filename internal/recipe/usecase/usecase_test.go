package usecase_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/fekuna/omnipos-bar-service/internal/apperr"
	"github.com/fekuna/omnipos-bar-service/internal/bartest"
	"github.com/fekuna/omnipos-bar-service/internal/model"
	"github.com/fekuna/omnipos-bar-service/internal/recipe"
	"github.com/fekuna/omnipos-bar-service/internal/recipe/usecase"
	"github.com/fekuna/omnipos-bar-service/pkg/cache"
	"github.com/fekuna/omnipos-bar-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type kit struct {
	w                    *bartest.World
	mr                   *miniredis.Miniredis
	uc                   recipe.UseCase
	gin, tonic, soda, gt string
}

func newKit(t *testing.T) *kit {
	t.Helper()
	mr := miniredis.RunT(t)
	rc, err := cache.NewRedisClient(&cache.Config{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Close() })

	w := bartest.New(true)
	k := &kit{w: w, mr: mr}
	k.gin = w.AddProduct("GIN", "Gin", model.KindBase, "0")
	k.tonic = w.AddProduct("TONIC", "Tonic", model.KindBase, "0")
	k.soda = w.AddProduct("SODA", "Soda", model.KindBase, "0")
	k.gt = w.AddProduct("GT", "Gin Tonic", model.KindComposite, "90")
	w.Store.SetRecipe(k.gt,
		bartest.Mandatory(k.gin, 1),
		bartest.Choice(k.tonic, "mixer", 2),
		bartest.Choice(k.soda, "mixer", 2),
	)
	k.uc = usecase.NewRecipeUseCase(w.Store.Products(), rc, logger.NewNop())
	return k
}

func key(productID string) string { return "recipes:view:" + productID }

func TestResolveRecipeReadsThroughCache(t *testing.T) {
	ctx := context.Background()
	k := newKit(t)

	v, err := k.uc.ResolveRecipe(ctx, k.gt)
	require.NoError(t, err)
	require.Len(t, v.Mandatory, 1)
	assert.Len(t, v.OptionalGroups["mixer"], 2)
	assert.True(t, k.mr.Exists(key(k.gt)))
	assert.Positive(t, k.mr.TTL(key(k.gt)))

	// Edits that skip invalidation stay hidden behind the cached view.
	k.w.Store.SetRecipe(k.gt, bartest.Mandatory(k.gin, 2))
	v, err = k.uc.ResolveRecipe(ctx, k.gt)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Mandatory[0].Quantity)
	assert.Len(t, v.OptionalGroups["mixer"], 2)

	k.uc.Invalidate(ctx, k.gt)
	assert.False(t, k.mr.Exists(key(k.gt)))

	v, err = k.uc.ResolveRecipe(ctx, k.gt)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Mandatory[0].Quantity)
	assert.Empty(t, v.OptionalGroups)
}

func TestInvalidateAllDropsEveryView(t *testing.T) {
	ctx := context.Background()
	k := newKit(t)
	mule := k.w.AddProduct("MULE", "Mule", model.KindComposite, "80")
	k.w.Store.SetRecipe(mule, bartest.Mandatory(k.soda, 3))
	require.NoError(t, k.mr.Set("other:key", "keep"))

	for _, id := range []string{k.gt, mule} {
		_, err := k.uc.ResolveRecipe(ctx, id)
		require.NoError(t, err)
		require.True(t, k.mr.Exists(key(id)))
	}

	k.uc.InvalidateAll(ctx)
	assert.False(t, k.mr.Exists(key(k.gt)))
	assert.False(t, k.mr.Exists(key(mule)))
	assert.True(t, k.mr.Exists("other:key"))
}

func TestExpandUsesCachedView(t *testing.T) {
	ctx := context.Background()
	k := newKit(t)
	p, err := k.w.Store.Products().FindByID(ctx, k.gt)
	require.NoError(t, err)

	reqs, opts, err := k.uc.Expand(ctx, p, map[string]string{"mixer": "SODA", "garnish": "LIME"}, 3)
	require.NoError(t, err)
	assert.Equal(t, model.Options{"mixer": "SODA"}, opts)
	got := map[string]int{}
	for _, r := range reqs {
		got[r.ProductID] = r.Quantity
	}
	assert.Equal(t, map[string]int{k.gin: 3, k.soda: 6}, got)
	assert.True(t, k.mr.Exists(key(k.gt)))

	_, _, err = k.uc.Expand(ctx, p, nil, 1)
	assert.True(t, apperr.HasCode(err, apperr.CodeMissingOption))
}

func TestResolveRecipeWithoutRedis(t *testing.T) {
	ctx := context.Background()
	k := newKit(t)
	k.mr.Close()

	v, err := k.uc.ResolveRecipe(ctx, k.gt)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Len(t, v.OptionalGroups["mixer"], 2)

	k.uc.Invalidate(ctx, k.gt)
	k.uc.InvalidateAll(ctx)
}

func TestResolveRecipeNonComposite(t *testing.T) {
	ctx := context.Background()
	k := newKit(t)

	v, err := k.uc.ResolveRecipe(ctx, k.gin)
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.False(t, k.mr.Exists(key(k.gin)))

	_, err = k.uc.ResolveRecipe(ctx, "missing")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}
