// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Maxim Krupin

package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKrupin/go-stock-keeper/internal/config"
	"github.com/MKrupin/go-stock-keeper/internal/logger"
	"github.com/MKrupin/go-stock-keeper/models"
)

// openTestDB открывает реальную SQLite-базу во временном файле и гоняет
// миграции — durability-свойства очереди нельзя проверить на моках.
func openTestDB(t *testing.T, path string) *DB {
	t.Helper()

	db, err := NewConnectSQLite(context.Background(), config.ClientDB{DSN: path}, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func newQueueRepo(t *testing.T) (MutationQueueRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "client.db")
	db := openTestDB(t, path)
	return NewMutationQueueRepository(db, logger.Nop()), path
}

func newMutation(op models.OperationType, payload string) models.QueuedMutation {
	return models.QueuedMutation{
		IdempotencyKey: "idem-" + string(op) + "-" + payload,
		OperationType:  op,
		Payload:        json.RawMessage(payload),
		Timestamp:      time.Now().UTC().Truncate(time.Millisecond),
		Status:         models.MutationPending,
	}
}

// ── Append / List ────────────────────────────────────────────────────────────

func TestQueueRepository_Append_AssignsMonotonicIDs(t *testing.T) {
	repo, _ := newQueueRepo(t)
	ctx := context.Background()

	first, err := repo.Append(ctx, newMutation(models.OpCreateItem, `{"name":"Drill"}`))
	require.NoError(t, err)
	second, err := repo.Append(ctx, newMutation(models.OpAdjustStock, `{"id":"inv-1","adjustment":-2}`))
	require.NoError(t, err)

	assert.Greater(t, second, first)
}

func TestQueueRepository_List_CreationOrder(t *testing.T) {
	repo, _ := newQueueRepo(t)
	ctx := context.Background()

	payloads := []string{`{"name":"a"}`, `{"name":"b"}`, `{"name":"c"}`}
	for _, p := range payloads {
		_, err := repo.Append(ctx, newMutation(models.OpCreateItem, p))
		require.NoError(t, err)
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)

	for i, p := range payloads {
		assert.JSONEq(t, p, string(list[i].Payload))
	}
	assert.True(t, list[0].ID < list[1].ID && list[1].ID < list[2].ID)
}

func TestQueueRepository_List_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.db")
	db := openTestDB(t, path)
	repo := NewMutationQueueRepository(db, logger.Nop())
	ctx := context.Background()

	_, err := repo.Append(ctx, newMutation(models.OpCreateItem, `{"name":"Drill"}`))
	require.NoError(t, err)
	_, err = repo.Append(ctx, newMutation(models.OpCreateInventory, `{"item_id":"tmp-1","quantity":5}`))
	require.NoError(t, err)

	// имитируем перезапуск процесса: закрываем соединение и открываем заново
	require.NoError(t, db.Close())
	reopened := NewMutationQueueRepository(openTestDB(t, path), logger.Nop())

	list, err := reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, models.OpCreateItem, list[0].OperationType)
	assert.Equal(t, models.OpCreateInventory, list[1].OperationType)
}

func TestQueueRepository_List_ExcludesFailed(t *testing.T) {
	repo, _ := newQueueRepo(t)
	ctx := context.Background()

	id, err := repo.Append(ctx, newMutation(models.OpAdjustStock, `{"id":"inv-1","adjustment":1}`))
	require.NoError(t, err)
	_, err = repo.Append(ctx, newMutation(models.OpCreateItem, `{"name":"Drill"}`))
	require.NoError(t, err)

	require.NoError(t, repo.UpdateStatus(ctx, id, models.MutationFailed))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.OpCreateItem, list[0].OperationType)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

// ── Status / Retry ───────────────────────────────────────────────────────────

func TestQueueRepository_UpdateStatus(t *testing.T) {
	repo, _ := newQueueRepo(t)
	ctx := context.Background()

	id, err := repo.Append(ctx, newMutation(models.OpCreateItem, `{"name":"Drill"}`))
	require.NoError(t, err)

	require.NoError(t, repo.UpdateStatus(ctx, id, models.MutationSyncing))

	m, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.MutationSyncing, m.Status)
}

func TestQueueRepository_UpdateStatus_NotFound(t *testing.T) {
	repo, _ := newQueueRepo(t)

	err := repo.UpdateStatus(context.Background(), 999, models.MutationSyncing)
	assert.ErrorIs(t, err, ErrMutationNotFound)
}

func TestQueueRepository_IncrementRetry(t *testing.T) {
	repo, _ := newQueueRepo(t)
	ctx := context.Background()

	id, err := repo.Append(ctx, newMutation(models.OpAdjustStock, `{"id":"inv-1","adjustment":1}`))
	require.NoError(t, err)

	at := time.Now().UTC().Truncate(time.Second)
	for want := 1; want <= 3; want++ {
		got, incErr := repo.IncrementRetry(ctx, id, at)
		require.NoError(t, incErr)
		assert.Equal(t, want, got)
	}

	m, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 3, m.RetryCount)
	assert.False(t, m.LastAttemptAt.IsZero())
}

func TestQueueRepository_ResetRetry(t *testing.T) {
	repo, _ := newQueueRepo(t)
	ctx := context.Background()

	id, err := repo.Append(ctx, newMutation(models.OpAdjustStock, `{"id":"inv-1","adjustment":1}`))
	require.NoError(t, err)

	_, err = repo.IncrementRetry(ctx, id, time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.UpdateStatus(ctx, id, models.MutationFailed))

	require.NoError(t, repo.ResetRetry(ctx, id))

	m, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, m.RetryCount)
	assert.Equal(t, models.MutationPending, m.Status)
	assert.True(t, m.LastAttemptAt.IsZero())
}

// ── Remove / Count / Clear ───────────────────────────────────────────────────

func TestQueueRepository_Remove(t *testing.T) {
	repo, _ := newQueueRepo(t)
	ctx := context.Background()

	id, err := repo.Append(ctx, newMutation(models.OpCreateItem, `{"name":"Drill"}`))
	require.NoError(t, err)

	require.NoError(t, repo.Remove(ctx, id))

	_, err = repo.Get(ctx, id)
	assert.ErrorIs(t, err, ErrMutationNotFound)
	assert.ErrorIs(t, repo.Remove(ctx, id), ErrMutationNotFound)
}

func TestQueueRepository_Count_ActiveOnly(t *testing.T) {
	repo, _ := newQueueRepo(t)
	ctx := context.Background()

	id, err := repo.Append(ctx, newMutation(models.OpCreateItem, `{"name":"a"}`))
	require.NoError(t, err)
	_, err = repo.Append(ctx, newMutation(models.OpCreateItem, `{"name":"b"}`))
	require.NoError(t, err)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, repo.UpdateStatus(ctx, id, models.MutationFailed))

	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestQueueRepository_Clear(t *testing.T) {
	repo, _ := newQueueRepo(t)
	ctx := context.Background()

	_, err := repo.Append(ctx, newMutation(models.OpCreateItem, `{"name":"a"}`))
	require.NoError(t, err)

	require.NoError(t, repo.Clear(ctx))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

// ── RewriteTempID ────────────────────────────────────────────────────────────

func TestQueueRepository_RewriteTempID(t *testing.T) {
	repo, _ := newQueueRepo(t)
	ctx := context.Background()

	inv := newMutation(models.OpCreateInventory, `{"item_id":"tmp-1","quantity":5}`)
	invID, err := repo.Append(ctx, inv)
	require.NoError(t, err)

	// не ссылается на tmp-1 — не должен быть затронут
	other := newMutation(models.OpCreateInventory, `{"item_id":"srv-9","quantity":1}`)
	otherID, err := repo.Append(ctx, other)
	require.NoError(t, err)

	require.NoError(t, repo.RewriteTempID(ctx, "tmp-1", "srv-1"))

	got, err := repo.Get(ctx, invID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"item_id":"srv-1","quantity":5}`, string(got.Payload))

	untouched, err := repo.Get(ctx, otherID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"item_id":"srv-9","quantity":1}`, string(untouched.Payload))
}

func TestQueueRepository_RewriteTempID_SkipsFailed(t *testing.T) {
	repo, _ := newQueueRepo(t)
	ctx := context.Background()

	id, err := repo.Append(ctx, newMutation(models.OpCreateInventory, `{"item_id":"tmp-1","quantity":5}`))
	require.NoError(t, err)
	require.NoError(t, repo.UpdateStatus(ctx, id, models.MutationFailed))

	require.NoError(t, repo.RewriteTempID(ctx, "tmp-1", "srv-1"))

	m, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.JSONEq(t, `{"item_id":"tmp-1","quantity":5}`, string(m.Payload))
}

func TestReplaceJSONStringValues(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		changed bool
	}{
		{
			name:    "flat match",
			in:      `{"item_id":"tmp-1","quantity":5}`,
			want:    `{"item_id":"srv-1","quantity":5}`,
			changed: true,
		},
		{
			name:    "nested match",
			in:      `{"lines":[{"item_id":"tmp-1"},{"item_id":"srv-2"}]}`,
			want:    `{"lines":[{"item_id":"srv-1"},{"item_id":"srv-2"}]}`,
			changed: true,
		},
		{
			name:    "no match",
			in:      `{"item_id":"srv-2"}`,
			want:    `{"item_id":"srv-2"}`,
			changed: false,
		},
		{
			name:    "keys are never rewritten",
			in:      `{"tmp-1":"value"}`,
			want:    `{"tmp-1":"value"}`,
			changed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, changed, err := replaceJSONStringValues([]byte(tt.in), "tmp-1", "srv-1")
			require.NoError(t, err)
			assert.Equal(t, tt.changed, changed)
			assert.JSONEq(t, tt.want, string(out))
		})
	}
}
