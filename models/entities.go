// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Maxim Krupin

package models

import "time"

// Item is a catalogued warehouse article as known by the server.
type Item struct {
	ID          string    `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CategoryID  string    `json:"category_id,omitempty"`
	Barcode     string    `json:"barcode,omitempty"`
	Unit        string    `json:"unit,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Location is a physical storage place (zone, aisle, shelf).
type Location struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Zone      string    `json:"zone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Container is a movable bin or pallet placed at a location.
type Container struct {
	ID         string    `json:"id"`
	Code       string    `json:"code"`
	LocationID string    `json:"location_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// InventoryRecord tracks the quantity of an item inside a container
// (or directly at a location when ContainerID is empty).
type InventoryRecord struct {
	ID          string    `json:"id"`
	ItemID      string    `json:"item_id"`
	LocationID  string    `json:"location_id,omitempty"`
	ContainerID string    `json:"container_id,omitempty"`
	Quantity    int64     `json:"quantity"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Category groups items for filtering and reporting.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  string    `json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
