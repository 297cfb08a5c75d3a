package models

import "time"

// CacheSnapshot is the full server read-state as of one successful pull.
// A snapshot always replaces all five collections at once; the cache is
// never updated partially across entity types.
type CacheSnapshot struct {
	Items      []Item            `json:"items"`
	Locations  []Location        `json:"locations"`
	Containers []Container       `json:"containers"`
	Inventory  []InventoryRecord `json:"inventory"`
	Categories []Category        `json:"categories"`
	PulledAt   time.Time         `json:"pulled_at"`
}

// SyncStatus is a read-only snapshot of the engine state handed to the
// presentation layer.
type SyncStatus struct {
	IsOnline     bool       `json:"is_online"`
	IsSyncing    bool       `json:"is_syncing"`
	PendingCount int        `json:"pending_count"`
	LastSync     *time.Time `json:"last_sync,omitempty"`
}
