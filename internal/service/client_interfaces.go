// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Maxim Krupin

package service

import (
	"context"
	"time"

	"github.com/MKrupin/go-stock-keeper/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/service_mock.go -package=mock

// MutationQueueService is the write API of the client. Every operation is
// accepted immediately and durably queued; nothing here talks to the network.
// A queued mutation is dispatched later by the sync engine.
type MutationQueueService interface {
	// CreateItem queues the creation of a catalog item and returns the
	// temporary ID assigned to it. The temporary ID is usable in subsequent
	// queued operations and is rewritten to the server ID after a
	// successful push.
	CreateItem(ctx context.Context, p models.CreateItemPayload) (string, error)

	// CreateLocation queues the creation of a storage location and returns
	// its temporary ID.
	CreateLocation(ctx context.Context, p models.CreateLocationPayload) (string, error)

	// CreateContainer queues the creation of a container and returns its
	// temporary ID. p.LocationID may be a temporary ID of a queued location.
	CreateContainer(ctx context.Context, p models.CreateContainerPayload) (string, error)

	// CreateInventory queues a new stock record and returns its temporary
	// ID. Item, location and container references may be temporary IDs.
	CreateInventory(ctx context.Context, p models.CreateInventoryPayload) (string, error)

	// AdjustStock queues a signed quantity delta against an existing stock
	// record.
	AdjustStock(ctx context.Context, p models.AdjustStockPayload) error

	// UpdateInventory queues a rewrite of a stock record's mutable fields.
	UpdateInventory(ctx context.Context, p models.UpdateInventoryPayload) error

	// List returns the active queue (pending and syncing) in creation order.
	List(ctx context.Context) ([]models.QueuedMutation, error)

	// ListAll returns the whole queue including failed entries, in creation
	// order. This feeds the queue-management view.
	ListAll(ctx context.Context) ([]models.QueuedMutation, error)

	// Count returns the number of active mutations.
	Count(ctx context.Context) (int, error)

	// Retry returns a failed mutation to pending with a zeroed retry
	// counter and requests a sync attempt.
	Retry(ctx context.Context, id int64) error

	// Cancel drops a mutation from the queue. A syncing entry cannot be
	// cancelled: its remote call is already in flight, so the outcome has
	// to be settled by the running cycle first.
	Cancel(ctx context.Context, id int64) error

	// Clear empties the queue.
	Clear(ctx context.Context) error
}

// LocalDataService is the read API of the client. All reads are served from
// the local cache and never touch the network.
type LocalDataService interface {
	Items(ctx context.Context) ([]models.Item, error)
	Locations(ctx context.Context) ([]models.Location, error)
	Containers(ctx context.Context) ([]models.Container, error)
	Inventory(ctx context.Context) ([]models.InventoryRecord, error)
	Categories(ctx context.Context) ([]models.Category, error)

	// LastSync returns when the cache was last replaced by a successful
	// pull, or nil if no pull has completed yet.
	LastSync(ctx context.Context) (*time.Time, error)
}

// SyncEngine runs the push-then-pull synchronisation cycle.
type SyncEngine interface {
	// RunCycle performs one full cycle: replay the mutation queue in
	// creation order, then refresh the local cache from the server. At most
	// one cycle runs at a time; a call made while another cycle is active
	// returns ErrSyncAlreadyRunning and does nothing.
	RunCycle(ctx context.Context) error

	// State exposes the shared connectivity and progress state.
	State() *SyncState
}

// SyncJob owns the background goroutines that decide WHEN to sync: the
// periodic ticker, the explicit sync-now trigger, and the reconnect probe
// that fires a cycle as soon as the server becomes reachable again.
type SyncJob interface {
	// Start launches the background loop. The loop exits when ctx is
	// cancelled or Stop is called.
	Start(ctx context.Context)

	// SyncNow requests an immediate cycle. Requests arriving while a cycle
	// is running coalesce into at most one follow-up cycle.
	SyncNow()

	// Stop terminates the background loop and blocks until it has exited.
	Stop()
}

// AuthService manages the authenticated session against the warehouse server.
type AuthService interface {
	// Login authenticates with the server and persists the session locally
	// so it survives a restart.
	Login(ctx context.Context, creds models.Credentials) error

	// RestoreSession loads the persisted session, rejects it if the token
	// has expired, and arms the transport with the bearer token.
	RestoreSession(ctx context.Context) (models.Session, error)

	// Logout clears the session, the mutation queue and the local cache.
	Logout(ctx context.Context) error
}

// StatusService assembles presentation-ready views of the sync state and the
// mutation queue for the UI layer.
type StatusService interface {
	// Overview returns the current connectivity and queue summary.
	Overview(ctx context.Context) (models.SyncStatus, error)

	// QueueView returns one row per queued mutation, newest last, with a
	// human-readable operation label and payload preview.
	QueueView(ctx context.Context) ([]MutationView, error)
}
