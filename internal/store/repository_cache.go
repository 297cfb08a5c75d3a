package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKrupin/go-stock-keeper/internal/logger"
	"github.com/MKrupin/go-stock-keeper/models"
)

type cacheRepository struct {
	*DB
	logger *logger.Logger
}

func NewCacheRepository(db *DB, logger *logger.Logger) CacheRepository {
	return &cacheRepository{
		DB:     db,
		logger: logger,
	}
}

var cacheTables = []string{
	"cache_items",
	"cache_locations",
	"cache_containers",
	"cache_inventory",
	"cache_categories",
}

// ReplaceAll swaps all five entity collections and the lastSync timestamp in
// a single transaction. Either the whole snapshot lands or none of it does:
// the cache must never mix a fresh item with a stale location or category.
func (r *cacheRepository) ReplaceAll(ctx context.Context, snap models.CacheSnapshot) error {
	log := logger.FromContext(ctx)

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin cache replace: %w", err)
	}
	defer tx.Rollback()

	for _, table := range cacheTables {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err = insertItems(ctx, tx, snap.Items); err != nil {
		return err
	}
	if err = insertLocations(ctx, tx, snap.Locations); err != nil {
		return err
	}
	if err = insertContainers(ctx, tx, snap.Containers); err != nil {
		return err
	}
	if err = insertInventory(ctx, tx, snap.Inventory); err != nil {
		return err
	}
	if err = insertCategories(ctx, tx, snap.Categories); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO sync_meta (id, last_sync_at) VALUES (1, $1)
		 ON CONFLICT (id) DO UPDATE SET last_sync_at = excluded.last_sync_at;`,
		snap.PulledAt,
	); err != nil {
		return fmt.Errorf("failed to record last sync time: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cache replace: %w", err)
	}

	log.Debug().
		Str("func", "cacheRepository.ReplaceAll").
		Int("items", len(snap.Items)).
		Int("locations", len(snap.Locations)).
		Int("containers", len(snap.Containers)).
		Int("inventory", len(snap.Inventory)).
		Int("categories", len(snap.Categories)).
		Msg("replaced cache snapshot")

	return nil
}

func insertItems(ctx context.Context, tx *sql.Tx, items []models.Item) error {
	if len(items) == 0 {
		return nil
	}

	b := sq.Insert("cache_items").
		Columns("id", "sku", "name", "description", "category_id", "barcode", "unit", "created_at", "updated_at")
	for _, it := range items {
		b = b.Values(it.ID, it.SKU, it.Name, it.Description, it.CategoryID, it.Barcode, it.Unit, it.CreatedAt, it.UpdatedAt)
	}

	return execInsert(ctx, tx, b, "cache_items")
}

func insertLocations(ctx context.Context, tx *sql.Tx, locations []models.Location) error {
	if len(locations) == 0 {
		return nil
	}

	b := sq.Insert("cache_locations").
		Columns("id", "name", "zone", "created_at", "updated_at")
	for _, l := range locations {
		b = b.Values(l.ID, l.Name, l.Zone, l.CreatedAt, l.UpdatedAt)
	}

	return execInsert(ctx, tx, b, "cache_locations")
}

func insertContainers(ctx context.Context, tx *sql.Tx, containers []models.Container) error {
	if len(containers) == 0 {
		return nil
	}

	b := sq.Insert("cache_containers").
		Columns("id", "code", "location_id", "created_at", "updated_at")
	for _, c := range containers {
		b = b.Values(c.ID, c.Code, c.LocationID, c.CreatedAt, c.UpdatedAt)
	}

	return execInsert(ctx, tx, b, "cache_containers")
}

func insertInventory(ctx context.Context, tx *sql.Tx, records []models.InventoryRecord) error {
	if len(records) == 0 {
		return nil
	}

	b := sq.Insert("cache_inventory").
		Columns("id", "item_id", "location_id", "container_id", "quantity", "created_at", "updated_at")
	for _, rec := range records {
		b = b.Values(rec.ID, rec.ItemID, rec.LocationID, rec.ContainerID, rec.Quantity, rec.CreatedAt, rec.UpdatedAt)
	}

	return execInsert(ctx, tx, b, "cache_inventory")
}

func insertCategories(ctx context.Context, tx *sql.Tx, categories []models.Category) error {
	if len(categories) == 0 {
		return nil
	}

	b := sq.Insert("cache_categories").
		Columns("id", "name", "parent_id", "created_at", "updated_at")
	for _, c := range categories {
		b = b.Values(c.ID, c.Name, c.ParentID, c.CreatedAt, c.UpdatedAt)
	}

	return execInsert(ctx, tx, b, "cache_categories")
}

func execInsert(ctx context.Context, tx *sql.Tx, b sq.InsertBuilder, table string) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build %s insert: %w", table, err)
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to fill %s: %w", table, err)
	}
	return nil
}

func (r *cacheRepository) GetItems(ctx context.Context) ([]models.Item, error) {
	query, _, err := sq.Select("id", "sku", "name", "description", "category_id", "barcode", "unit", "created_at", "updated_at").
		From("cache_items").OrderBy("name").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build items query: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query cached items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var it models.Item
		if err = rows.Scan(&it.ID, &it.SKU, &it.Name, &it.Description, &it.CategoryID, &it.Barcode, &it.Unit, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cached item: %w", err)
		}
		items = append(items, it)
	}

	return items, rows.Err()
}

func (r *cacheRepository) GetLocations(ctx context.Context) ([]models.Location, error) {
	query, _, err := sq.Select("id", "name", "zone", "created_at", "updated_at").
		From("cache_locations").OrderBy("name").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build locations query: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query cached locations: %w", err)
	}
	defer rows.Close()

	var locations []models.Location
	for rows.Next() {
		var l models.Location
		if err = rows.Scan(&l.ID, &l.Name, &l.Zone, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cached location: %w", err)
		}
		locations = append(locations, l)
	}

	return locations, rows.Err()
}

func (r *cacheRepository) GetContainers(ctx context.Context) ([]models.Container, error) {
	query, _, err := sq.Select("id", "code", "location_id", "created_at", "updated_at").
		From("cache_containers").OrderBy("code").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build containers query: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query cached containers: %w", err)
	}
	defer rows.Close()

	var containers []models.Container
	for rows.Next() {
		var c models.Container
		if err = rows.Scan(&c.ID, &c.Code, &c.LocationID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cached container: %w", err)
		}
		containers = append(containers, c)
	}

	return containers, rows.Err()
}

func (r *cacheRepository) GetInventory(ctx context.Context) ([]models.InventoryRecord, error) {
	query, _, err := sq.Select("id", "item_id", "location_id", "container_id", "quantity", "created_at", "updated_at").
		From("cache_inventory").OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build inventory query: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query cached inventory: %w", err)
	}
	defer rows.Close()

	var records []models.InventoryRecord
	for rows.Next() {
		var rec models.InventoryRecord
		if err = rows.Scan(&rec.ID, &rec.ItemID, &rec.LocationID, &rec.ContainerID, &rec.Quantity, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cached inventory record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

func (r *cacheRepository) GetCategories(ctx context.Context) ([]models.Category, error) {
	query, _, err := sq.Select("id", "name", "parent_id", "created_at", "updated_at").
		From("cache_categories").OrderBy("name").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build categories query: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query cached categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err = rows.Scan(&c.ID, &c.Name, &c.ParentID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cached category: %w", err)
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

func (r *cacheRepository) LastSync(ctx context.Context) (*time.Time, error) {
	var last sql.NullTime
	err := r.DB.QueryRowContext(ctx, `SELECT last_sync_at FROM sync_meta WHERE id = 1;`).Scan(&last)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read last sync time: %w", err)
	}
	if !last.Valid {
		return nil, nil
	}

	t := last.Time
	return &t, nil
}

func (r *cacheRepository) Clear(ctx context.Context) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin cache clear: %w", err)
	}
	defer tx.Rollback()

	for _, table := range cacheTables {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM sync_meta;`); err != nil {
		return fmt.Errorf("failed to clear sync meta: %w", err)
	}

	return tx.Commit()
}
