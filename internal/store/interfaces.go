package store

import (
	"context"
	"time"

	"github.com/MKrupin/go-stock-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// MutationQueueRepository is the durable on-device store for queued write
// operations. Every method is durable before it returns: a mutation accepted
// by Append survives a process kill.
type MutationQueueRepository interface {
	// Append persists a new mutation and returns its queue ID. IDs are
	// monotonically assigned; creation order defines replay order.
	Append(ctx context.Context, m models.QueuedMutation) (int64, error)

	// List returns all active (pending or syncing) mutations in creation
	// order. Failed entries are excluded.
	List(ctx context.Context) ([]models.QueuedMutation, error)

	// ListAll returns every stored mutation, including failed ones, in
	// creation order. Used by the queue-management view.
	ListAll(ctx context.Context) ([]models.QueuedMutation, error)

	// Get returns the mutation with the given queue ID.
	Get(ctx context.Context, id int64) (models.QueuedMutation, error)

	// UpdateStatus sets the lifecycle status of a single mutation.
	UpdateStatus(ctx context.Context, id int64, status models.MutationStatus) error

	// IncrementRetry bumps the retry counter, stamps the attempt time, and
	// returns the new counter value.
	IncrementRetry(ctx context.Context, id int64, at time.Time) (int, error)

	// ResetRetry zeroes the retry counter and returns the mutation to
	// pending, making it eligible for the next cycle.
	ResetRetry(ctx context.Context, id int64) error

	// Remove deletes the mutation from the store.
	Remove(ctx context.Context, id int64) error

	// RewriteTempID substitutes realID for tempID inside the payloads of all
	// non-failed entries. The scan and all updates run in one transaction so
	// a concurrently appended mutation never keeps a stale placeholder.
	RewriteTempID(ctx context.Context, tempID, realID string) error

	// Count returns the number of active (pending or syncing) mutations.
	Count(ctx context.Context) (int, error)

	// Clear removes every stored mutation.
	Clear(ctx context.Context) error
}

// CacheRepository is the read-optimised mirror of server entities. The five
// collections are only ever replaced together, atomically, with the lastSync
// timestamp recorded in the same transaction.
type CacheRepository interface {
	ReplaceAll(ctx context.Context, snap models.CacheSnapshot) error
	GetItems(ctx context.Context) ([]models.Item, error)
	GetLocations(ctx context.Context) ([]models.Location, error)
	GetContainers(ctx context.Context) ([]models.Container, error)
	GetInventory(ctx context.Context) ([]models.InventoryRecord, error)
	GetCategories(ctx context.Context) ([]models.Category, error)
	LastSync(ctx context.Context) (*time.Time, error)
	Clear(ctx context.Context) error
}

// SessionRepository persists the authenticated session so the client
// restores it on restart without a fresh login.
type SessionRepository interface {
	SaveSession(ctx context.Context, s models.Session) error
	GetSession(ctx context.Context) (models.Session, error)
	DeleteSession(ctx context.Context) error
}
