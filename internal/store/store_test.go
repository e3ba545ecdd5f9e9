package store_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LawrenceCirillo/Alan/internal/blueprint"
	"github.com/LawrenceCirillo/Alan/internal/config"
	"github.com/LawrenceCirillo/Alan/internal/store"
	"github.com/LawrenceCirillo/Alan/pkg/api"
)

func openStores(t *testing.T) map[string]store.Store {
	t.Helper()

	mr := miniredis.RunT(t)
	urls := map[string]string{
		"memory":   "memory://",
		"redis":    "redis://" + mr.Addr(),
		"memblob":  "mem://",
		"fileblob": "file://" + t.TempDir(),
	}

	res := map[string]store.Store{}
	for name, u := range urls {
		s, err := store.Open(context.Background(), config.StoreConfig{
			URL:       u,
			Prefix:    "workflows/",
			CacheSize: 16,
		})
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		res[name] = s
	}
	return res
}

func TestStores(t *testing.T) {
	ctx := context.Background()

	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			bp, err := blueprint.NewPlannerCatalog().Synthesize(
				ctx, "newsletter signups",
			)
			require.NoError(t, err)

			_, err = s.Get(ctx, bp.WorkflowID)
			assert.ErrorIs(t, err, store.ErrNotFound)

			assert.NoError(t, s.Put(ctx, bp))
			got, err := s.Get(ctx, bp.WorkflowID)
			assert.NoError(t, err)
			assert.Equal(t, bp.WorkflowID, got.WorkflowID)
			assert.Equal(t, bp.Goal, got.Goal)
			assert.Len(t, got.Steps, 3)
			assert.NoError(t, got.Validate())

			bp.Goal = "replaced"
			assert.NoError(t, s.Put(ctx, bp))
			got, err = s.Get(ctx, bp.WorkflowID)
			assert.NoError(t, err)
			assert.Equal(t, "replaced", got.Goal)

			err = s.Put(ctx, &api.WorkflowBlueprint{})
			assert.ErrorIs(t, err, api.ErrWorkflowIDRequired)
		})
	}
}

func TestRedisKeyFormat(t *testing.T) {
	mr := miniredis.RunT(t)
	s, err := store.NewRedisStore("redis://"+mr.Addr(), "alan/")
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	bp := &api.WorkflowBlueprint{WorkflowID: "wf-1", Goal: "goal"}
	require.NoError(t, s.Put(context.Background(), bp))
	assert.True(t, mr.Exists("alan/wf-1"))
}

func TestMemoryStoreEviction(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore(2)

	put := func(id api.WorkflowID) {
		require.NoError(t, s.Put(ctx, &api.WorkflowBlueprint{WorkflowID: id}))
	}

	put("a")
	put("b")
	_, err := s.Get(ctx, "a")
	assert.NoError(t, err)

	put("c")
	assert.Equal(t, 2, s.Len())

	_, err = s.Get(ctx, "b")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.Get(ctx, "a")
	assert.NoError(t, err)
	_, err = s.Get(ctx, "c")
	assert.NoError(t, err)
}

func TestMemoryStoreIsolation(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore(4)

	bp := &api.WorkflowBlueprint{WorkflowID: "wf", Goal: "original"}
	require.NoError(t, s.Put(ctx, bp))
	bp.Goal = "mutated"

	got, err := s.Get(ctx, "wf")
	require.NoError(t, err)
	assert.Equal(t, "original", got.Goal)
}

func TestOpenInvalid(t *testing.T) {
	_, err := store.Open(context.Background(), config.StoreConfig{
		URL: "not a url",
	})
	assert.ErrorIs(t, err, store.ErrInvalidStoreURL)
}
