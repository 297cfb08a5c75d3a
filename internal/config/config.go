// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Maxim Krupin

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// go-stock-keeper client. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line flags,
// and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as the version string.
	App App `envPrefix:"APP_"`

	// Storage holds configuration for the local durable store (the SQLite
	// file backing the mutation queue, cache, and session).
	Storage Storage `envPrefix:"STORAGE_"`

	// Adapter holds the remote warehouse API address and request timeout.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Workers holds background sync worker settings.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// Version is the semantic version string of the running application
	// (e.g. "1.2.3"). Shown in the status bar.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage groups the configuration for the local persistence backend.
type Storage struct {
	// DB holds the local database connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the local SQLite database.
type DB struct {
	// DSN is the SQLite file path used for the client's durable store
	// (e.g. "/home/user/.stock-keeper/client.db").
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Adapter holds network settings used by the client transport layer.
type Adapter struct {
	// HTTPAddress is the base URL of the remote warehouse API
	// (e.g. "https://stock.example.com").
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single outbound
	// request before the transport cancels it (e.g. "30s", "1m").
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Workers holds configuration for the background sync worker.
type Workers struct {
	// SyncInterval defines how often the periodic sync trigger fires.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`

	// RetryBackoffBase is the initial spacing between dispatch attempts of
	// the same failed mutation. Zero disables retry spacing: a failed
	// mutation becomes eligible again on the very next cycle.
	// Env: WORKERS_RETRY_BACKOFF_BASE
	RetryBackoffBase time.Duration `env:"RETRY_BACKOFF_BASE"`

	// RetryBackoffCap bounds the exponential growth of the retry spacing.
	// Env: WORKERS_RETRY_BACKOFF_CAP
	RetryBackoffCap time.Duration `env:"RETRY_BACKOFF_CAP"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (last source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults (fill remaining gaps only)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
