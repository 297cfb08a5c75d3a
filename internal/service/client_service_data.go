package service

import (
	"context"
	"time"

	"github.com/MKrupin/go-stock-keeper/internal/store"
	"github.com/MKrupin/go-stock-keeper/models"
)

// localDataService serves all reads from the cache so the UI works
// identically online and offline.
type localDataService struct {
	cache store.CacheRepository
}

func NewLocalDataService(cache store.CacheRepository) LocalDataService {
	return &localDataService{cache: cache}
}

func (s *localDataService) Items(ctx context.Context) ([]models.Item, error) {
	return s.cache.GetItems(ctx)
}

func (s *localDataService) Locations(ctx context.Context) ([]models.Location, error) {
	return s.cache.GetLocations(ctx)
}

func (s *localDataService) Containers(ctx context.Context) ([]models.Container, error) {
	return s.cache.GetContainers(ctx)
}

func (s *localDataService) Inventory(ctx context.Context) ([]models.InventoryRecord, error) {
	return s.cache.GetInventory(ctx)
}

func (s *localDataService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.cache.GetCategories(ctx)
}

func (s *localDataService) LastSync(ctx context.Context) (*time.Time, error) {
	return s.cache.LastSync(ctx)
}
