// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Maxim Krupin

package models

import (
	"encoding/json"
	"time"
)

// OperationType identifies a kind of queued write operation. The set is
// closed: each value maps to exactly one remote endpoint and payload shape.
type OperationType string

const (
	OpCreateItem      OperationType = "create_item"
	OpCreateLocation  OperationType = "create_location"
	OpCreateContainer OperationType = "create_container"
	OpCreateInventory OperationType = "create_inventory"
	OpAdjustStock     OperationType = "adjust_stock"
	OpUpdateInventory OperationType = "update_inventory"
)

// IsCreation reports whether the operation produces a new server-side entity
// and therefore carries a temp ID until the server assigns the real one.
func (t OperationType) IsCreation() bool {
	switch t {
	case OpCreateItem, OpCreateLocation, OpCreateContainer, OpCreateInventory:
		return true
	}
	return false
}

// Valid reports whether t is one of the known operation types.
func (t OperationType) Valid() bool {
	switch t {
	case OpCreateItem, OpCreateLocation, OpCreateContainer,
		OpCreateInventory, OpAdjustStock, OpUpdateInventory:
		return true
	}
	return false
}

// MutationStatus is the lifecycle state of a queued mutation.
type MutationStatus string

const (
	// MutationPending — waiting for the next sync cycle.
	MutationPending MutationStatus = "pending"
	// MutationSyncing — its remote call is in flight.
	MutationSyncing MutationStatus = "syncing"
	// MutationFailed — retries exhausted; out of the active queue but kept
	// visible so the user can retry or discard it.
	MutationFailed MutationStatus = "failed"
)

// MaxMutationRetries bounds how many failed dispatch attempts a mutation
// gets before it is pulled out of the active queue.
const MaxMutationRetries = 3

// QueuedMutation is a single write intent recorded while offline (or
// speculatively while online) and not yet confirmed by the server.
type QueuedMutation struct {
	// ID is assigned by the queue store; creation order defines replay order.
	ID int64 `json:"id"`
	// IdempotencyKey lets the server recognise a re-submitted mutation after
	// a retried call. It is fixed at enqueue time and never changes.
	IdempotencyKey string          `json:"idempotency_key"`
	OperationType  OperationType   `json:"operation_type"`
	Payload        json.RawMessage `json:"payload"`
	// TempID is the client-side placeholder for creations whose server ID is
	// not known yet. Empty for non-creation operations.
	TempID     string         `json:"temp_id,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
	RetryCount int            `json:"retry_count"`
	Status     MutationStatus `json:"status"`
	// LastAttemptAt is the time of the most recent dispatch attempt, zero if
	// the mutation has never been dispatched. Used for retry spacing.
	LastAttemptAt time.Time `json:"last_attempt_at,omitempty"`
}

// CreateItemPayload is the payload shape for OpCreateItem.
type CreateItemPayload struct {
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CategoryID  string `json:"category_id,omitempty"`
	Barcode     string `json:"barcode,omitempty"`
	Unit        string `json:"unit,omitempty"`
}

// CreateLocationPayload is the payload shape for OpCreateLocation.
type CreateLocationPayload struct {
	Name string `json:"name"`
	Zone string `json:"zone,omitempty"`
}

// CreateContainerPayload is the payload shape for OpCreateContainer.
// LocationID may reference the temp ID of a queued location creation.
type CreateContainerPayload struct {
	Code       string `json:"code"`
	LocationID string `json:"location_id,omitempty"`
}

// CreateInventoryPayload is the payload shape for OpCreateInventory.
// ItemID, LocationID and ContainerID may reference temp IDs of queued
// creations enqueued earlier in the same offline session.
type CreateInventoryPayload struct {
	ItemID      string `json:"item_id"`
	LocationID  string `json:"location_id,omitempty"`
	ContainerID string `json:"container_id,omitempty"`
	Quantity    int64  `json:"quantity"`
}

// AdjustStockPayload is the payload shape for OpAdjustStock. Adjustment is a
// signed delta applied to the inventory record's quantity.
type AdjustStockPayload struct {
	ID         string `json:"id"`
	Adjustment int64  `json:"adjustment"`
}

// UpdateInventoryPayload is the payload shape for OpUpdateInventory.
type UpdateInventoryPayload struct {
	ID          string `json:"id"`
	LocationID  string `json:"location_id,omitempty"`
	ContainerID string `json:"container_id,omitempty"`
	Quantity    *int64 `json:"quantity,omitempty"`
}
