package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandpulse/social-insights/internal/models"
)

func newTestRepository() *Repository {
	return NewRepository(NewMemoryStorage())
}

func TestRepository_RunRoundtrip(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()

	run := &models.AnalysisRun{
		ID:         "run-1",
		EntityType: models.EntityBrand,
		EntityID:   "b1",
		Status:     models.RunCompleted,
		StartedAt:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.SaveRun(ctx, run))

	loaded, err := repo.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, run, loaded)

	runs, err := repo.ListRuns(ctx)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestRepository_GetRunNotFound(t *testing.T) {
	repo := newTestRepository()

	_, err := repo.GetRun(context.Background(), "missing")

	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRepository_AllItemsSpansRunBatches(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()

	require.NoError(t, repo.SaveItems(ctx, "run-1", []models.AnalyzedItem{
		{ID: "a", PostURL: "https://x.com/1", AnalysisRunID: "run-1"},
		{ID: "b", PostURL: "https://x.com/2", AnalysisRunID: "run-1"},
	}))
	require.NoError(t, repo.SaveItems(ctx, "run-2", []models.AnalyzedItem{
		{ID: "c", PostURL: "https://x.com/1", AnalysisRunID: "run-2"},
	}))

	items, err := repo.AllItems(ctx)
	require.NoError(t, err)
	// Batches are immutable history; dedup is the resolver's job
	assert.Len(t, items, 3)
}

func TestRepository_EntityRoundtrip(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()

	campaign := &models.Campaign{ID: "c1", Name: "Spring", Active: true}
	require.NoError(t, repo.SaveEntity(ctx, models.EntityCampaign, "c1", campaign))

	loaded, err := repo.GetCampaign(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, campaign, loaded)

	campaigns, err := repo.ListCampaigns(ctx)
	require.NoError(t, err)
	assert.Len(t, campaigns, 1)

	require.NoError(t, repo.DeleteEntity(ctx, models.EntityCampaign, "c1"))
	_, err = repo.GetCampaign(ctx, "c1")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRepository_BrandLookupFallsBackToName(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()

	require.NoError(t, repo.SaveEntity(ctx, models.EntityBrand, "b1", &models.Brand{ID: "b1", Name: "Acme"}))

	byID, err := repo.GetBrand(ctx, "b1")
	require.NoError(t, err)
	byName, err := repo.GetBrand(ctx, "Acme")
	require.NoError(t, err)

	assert.Equal(t, byID, byName)
}

func TestRepository_EntityIDsAreKeyEscaped(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()

	// An id containing a path separator must not break the key layout
	id := "campaign/2025"
	require.NoError(t, repo.SaveEntity(ctx, models.EntityCampaign, id, &models.Campaign{ID: id, Name: "Slashy"}))

	loaded, err := repo.GetCampaign(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Slashy", loaded.Name)
}

func TestRepository_SnapshotRoundtrip(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()

	doc := []byte(`{"total_posts": 5}`)
	require.NoError(t, repo.SaveSnapshot(ctx, models.EntityBrand, "b1", "summary", doc))

	loaded, err := repo.GetSnapshot(ctx, models.EntityBrand, "b1", "summary")
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)

	// Replacement, not append
	updated := []byte(`{"total_posts": 9}`)
	require.NoError(t, repo.SaveSnapshot(ctx, models.EntityBrand, "b1", "summary", updated))
	loaded, err = repo.GetSnapshot(ctx, models.EntityBrand, "b1", "summary")
	require.NoError(t, err)
	assert.Equal(t, updated, loaded)
}

func TestRepository_SnapshotTypeRequired(t *testing.T) {
	repo := newTestRepository()

	err := repo.SaveSnapshot(context.Background(), models.EntityBrand, "b1", "  ", []byte(`{}`))

	assert.Error(t, err)
}

func TestMemoryStorage_ListIsPrefixScopedAndSorted(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	require.NoError(t, store.Store(ctx, "runs/b.json", []byte("1")))
	require.NoError(t, store.Store(ctx, "runs/a.json", []byte("2")))
	require.NoError(t, store.Store(ctx, "items/x.json", []byte("3")))

	keys, err := store.List(ctx, "runs/")
	require.NoError(t, err)
	assert.Equal(t, []string{"runs/a.json", "runs/b.json"}, keys)
}
