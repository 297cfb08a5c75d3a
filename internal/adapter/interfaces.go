// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Maxim Krupin

// Package adapter provides transport-layer abstractions for communicating with
// the GoStockKeeper warehouse server.
//
// The primary abstraction is [ServerAdapter], which decouples the sync engine
// and the services from the underlying protocol. The package ships an
// HTTP/REST implementation ([NewHTTPServerAdapter]).
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling. The distinction that matters to the sync engine is
// [ErrServerUnavailable] (a connection-level failure; the server never saw
// the request and the mutation stays pending) versus everything else —
// 4xx rejections, [ErrServerError] for 5xx responses and timeouts — where
// the attempt counts toward the retry budget.
package adapter

import (
	"context"

	"github.com/MKrupin/go-stock-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines transport-agnostic communication with the warehouse
// server. Implementations are responsible for serialisation, authentication
// header management, and mapping transport-level errors to the sentinel
// values defined in this package.
//
// Every mutating call accepts an idempotency key. Implementations must attach
// it to the request so the server can deduplicate a replay of the same queued
// mutation after an ambiguous failure.
type ServerAdapter interface {
	// SetToken stores the bearer token attached to all subsequent
	// authenticated requests. Called after a successful Login and on startup
	// when a persisted session is restored.
	SetToken(token string)

	// Token returns the bearer token currently held by the adapter, or an
	// empty string if none has been set.
	Token() string

	// Login authenticates with the server and returns the established
	// session. On success the bearer token is stored via SetToken.
	Login(ctx context.Context, creds models.Credentials) (models.Session, error)

	// Ping probes server reachability. A nil return means the server
	// answered; any error means it is unreachable or unhealthy.
	Ping(ctx context.Context) error

	// CreateItem registers a new catalog item and returns its server-assigned ID.
	CreateItem(ctx context.Context, p models.CreateItemPayload, idempotencyKey string) (models.MutationResult, error)

	// CreateLocation registers a new storage location.
	CreateLocation(ctx context.Context, p models.CreateLocationPayload, idempotencyKey string) (models.MutationResult, error)

	// CreateContainer registers a new container within a location.
	CreateContainer(ctx context.Context, p models.CreateContainerPayload, idempotencyKey string) (models.MutationResult, error)

	// CreateInventory creates a stock record placing an item at a location.
	CreateInventory(ctx context.Context, p models.CreateInventoryPayload, idempotencyKey string) (models.MutationResult, error)

	// AdjustStock applies a signed quantity delta to an existing stock record.
	AdjustStock(ctx context.Context, p models.AdjustStockPayload, idempotencyKey string) (models.MutationResult, error)

	// UpdateInventory rewrites the mutable fields of an existing stock record.
	UpdateInventory(ctx context.Context, p models.UpdateInventoryPayload, idempotencyKey string) (models.MutationResult, error)

	// ListItems fetches the full item catalog.
	ListItems(ctx context.Context) ([]models.Item, error)

	// ListLocations fetches all storage locations.
	ListLocations(ctx context.Context) ([]models.Location, error)

	// ListContainers fetches all containers.
	ListContainers(ctx context.Context) ([]models.Container, error)

	// ListInventory fetches all stock records.
	ListInventory(ctx context.Context) ([]models.InventoryRecord, error)

	// ListCategories fetches the category tree as a flat list.
	ListCategories(ctx context.Context) ([]models.Category, error)
}
