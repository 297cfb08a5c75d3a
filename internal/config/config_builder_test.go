// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Maxim Krupin

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()

	require.NotNil(t, b)
	assert.Empty(t, b.configs)
	assert.NoError(t, b.err)
}

func TestBuild_EmptyBuilder(t *testing.T) {
	cfg, err := newConfigBuilder().build()

	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = errors.New("boom")

	cfg, err := b.build()

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "error occured during building config")
}

func TestBuild_MergesMultipleConfigs(t *testing.T) {
	// первый конфиг имеет приоритет — mergo не перезаписывает непустые поля
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{Adapter: Adapter{HTTPAddress: "http://first:8080"}},
		&StructuredConfig{
			Adapter: Adapter{HTTPAddress: "http://second:9090", RequestTimeout: 30 * time.Second},
			Storage: Storage{DB: DB{DSN: "/tmp/client.db"}},
		},
	)

	cfg, err := b.build()

	require.NoError(t, err)
	assert.Equal(t, "http://first:8080", cfg.Adapter.HTTPAddress)
	assert.Equal(t, 30*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, "/tmp/client.db", cfg.Storage.DB.DSN)
}

func TestWithDefaults_FillsOnlyGaps(t *testing.T) {
	// явно заданные значения важнее дефолтов
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{Adapter: Adapter{HTTPAddress: "http://explicit:9090"}},
	)

	cfg, err := b.withDefaults().build()

	require.NoError(t, err)
	assert.Equal(t, "http://explicit:9090", cfg.Adapter.HTTPAddress)
	assert.Equal(t, 30*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Workers.SyncInterval)
	assert.NotEmpty(t, cfg.Storage.DB.DSN)
}

func TestWithEnv_ReadsEnvVars(t *testing.T) {
	setEnvVars(t, map[string]string{
		"ADAPTER_ADDRESS": "http://from-env:8080",
	})

	b := newConfigBuilder().withEnv()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 1)
	assert.Equal(t, "http://from-env:8080", b.configs[0].Adapter.HTTPAddress)
}

func TestWithEnv_NoErrorOnEmptyEnv(t *testing.T) {
	clearEnvVars(t)

	b := newConfigBuilder().withEnv()

	assert.NoError(t, b.err)
	assert.Len(t, b.configs, 1)
}

func TestWithJSON_NoOp_WhenNoPathSet(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{})

	b.withJSON()

	assert.NoError(t, b.err)
	assert.Len(t, b.configs, 1)
}

func TestWithJSON_AppendsConfig_WhenValidFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"adapter":{"http_address":"http://from-json"}}`), 0o600))

	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: p})

	b.withJSON()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 2)
	assert.Equal(t, "http://from-json", b.configs[1].Adapter.HTTPAddress)
}

func TestWithJSON_SetsError_WhenFileNotFound(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: "no-such-file.json"})

	b.withJSON()

	assert.Error(t, b.err)
	assert.Len(t, b.configs, 1)
}

func TestClientConfigValidate(t *testing.T) {
	valid := ClientConfig{
		Adapter: ClientAdapter{HTTPAddress: "http://localhost:8080", RequestTimeout: 30 * time.Second},
		Storage: ClientStorage{DB: ClientDB{DSN: "/tmp/client.db"}},
		Workers: ClientWorkers{SyncInterval: time.Minute},
	}

	tests := []struct {
		name    string
		mutate  func(*ClientConfig)
		wantErr error
	}{
		{name: "valid", mutate: func(c *ClientConfig) {}, wantErr: nil},
		{
			name:    "empty dsn",
			mutate:  func(c *ClientConfig) { c.Storage.DB.DSN = "" },
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name:    "in-memory dsn rejected",
			mutate:  func(c *ClientConfig) { c.Storage.DB.DSN = ":memory:" },
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name:    "missing adapter address",
			mutate:  func(c *ClientConfig) { c.Adapter.HTTPAddress = "" },
			wantErr: ErrInvalidAdapterConfigs,
		},
		{
			name:    "zero sync interval",
			mutate:  func(c *ClientConfig) { c.Workers.SyncInterval = 0 },
			wantErr: ErrInvalidWorkerConfigs,
		},
		{
			name: "backoff cap below base",
			mutate: func(c *ClientConfig) {
				c.Workers.RetryBackoffBase = time.Minute
				c.Workers.RetryBackoffCap = time.Second
			},
			wantErr: ErrInvalidWorkerConfigs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			err := cfg.validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
