package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKrupin/go-stock-keeper/internal/logger"
	"github.com/MKrupin/go-stock-keeper/models"
)

func newCacheRepo(t *testing.T) CacheRepository {
	t.Helper()
	db := openTestDB(t, filepath.Join(t.TempDir(), "client.db"))
	return NewCacheRepository(db, logger.Nop())
}

func sampleSnapshot(pulledAt time.Time) models.CacheSnapshot {
	return models.CacheSnapshot{
		Items: []models.Item{
			{ID: "item-1", SKU: "SKU-1", Name: "Drill", CategoryID: "cat-1", Unit: "pcs"},
			{ID: "item-2", SKU: "SKU-2", Name: "Hammer", CategoryID: "cat-1", Unit: "pcs"},
		},
		Locations: []models.Location{
			{ID: "loc-1", Name: "Main warehouse", Zone: "A"},
		},
		Containers: []models.Container{
			{ID: "cont-1", Code: "BOX-01", LocationID: "loc-1"},
		},
		Inventory: []models.InventoryRecord{
			{ID: "inv-1", ItemID: "item-1", LocationID: "loc-1", ContainerID: "cont-1", Quantity: 12},
		},
		Categories: []models.Category{
			{ID: "cat-1", Name: "Tools"},
		},
		PulledAt: pulledAt,
	}
}

func TestCacheRepository_ReplaceAll_RoundTrip(t *testing.T) {
	repo := newCacheRepo(t)
	ctx := context.Background()

	pulledAt := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.ReplaceAll(ctx, sampleSnapshot(pulledAt)))

	items, err := repo.GetItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Drill", items[0].Name)

	locations, err := repo.GetLocations(ctx)
	require.NoError(t, err)
	assert.Len(t, locations, 1)

	containers, err := repo.GetContainers(ctx)
	require.NoError(t, err)
	require.Len(t, containers, 1)
	assert.Equal(t, "loc-1", containers[0].LocationID)

	inventory, err := repo.GetInventory(ctx)
	require.NoError(t, err)
	require.Len(t, inventory, 1)
	assert.EqualValues(t, 12, inventory[0].Quantity)

	categories, err := repo.GetCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 1)

	lastSync, err := repo.LastSync(ctx)
	require.NoError(t, err)
	require.NotNil(t, lastSync)
	assert.WithinDuration(t, pulledAt, *lastSync, time.Second)
}

// Повторный ReplaceAll полностью вытесняет прошлый снимок — от него не
// остаётся ни одной строки ни в одной из пяти коллекций.
func TestCacheRepository_ReplaceAll_DropsPreviousSnapshot(t *testing.T) {
	repo := newCacheRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceAll(ctx, sampleSnapshot(time.Now())))

	second := models.CacheSnapshot{
		Items:    []models.Item{{ID: "item-9", SKU: "SKU-9", Name: "Wrench"}},
		PulledAt: time.Now(),
	}
	require.NoError(t, repo.ReplaceAll(ctx, second))

	items, err := repo.GetItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "item-9", items[0].ID)

	inventory, err := repo.GetInventory(ctx)
	require.NoError(t, err)
	assert.Empty(t, inventory)

	locations, err := repo.GetLocations(ctx)
	require.NoError(t, err)
	assert.Empty(t, locations)
}

func TestCacheRepository_LastSync_EmptyCache(t *testing.T) {
	repo := newCacheRepo(t)

	lastSync, err := repo.LastSync(context.Background())
	require.NoError(t, err)
	assert.Nil(t, lastSync)
}

func TestCacheRepository_Clear(t *testing.T) {
	repo := newCacheRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceAll(ctx, sampleSnapshot(time.Now())))
	require.NoError(t, repo.Clear(ctx))

	items, err := repo.GetItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	lastSync, err := repo.LastSync(ctx)
	require.NoError(t, err)
	assert.Nil(t, lastSync)
}
