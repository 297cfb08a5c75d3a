package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKrupin/go-stock-keeper/internal/logger"
	"github.com/MKrupin/go-stock-keeper/models"
)

type mutationQueueRepository struct {
	*DB
	logger *logger.Logger
}

func NewMutationQueueRepository(db *DB, logger *logger.Logger) MutationQueueRepository {
	return &mutationQueueRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *mutationQueueRepository) Append(ctx context.Context, m models.QueuedMutation) (int64, error) {
	log := logger.FromContext(ctx)

	res, err := r.DB.ExecContext(ctx, appendMutation,
		m.IdempotencyKey,
		string(m.OperationType),
		string(m.Payload),
		m.TempID,
		m.Timestamp,
		m.RetryCount,
		string(m.Status),
		nullableTime(m.LastAttemptAt),
	)
	if err != nil {
		log.Err(err).
			Str("func", "mutationQueueRepository.Append").
			Str("operation_type", string(m.OperationType)).
			Msg("failed to insert queued mutation")
		return 0, fmt.Errorf("failed to append mutation (op=%s): %w", m.OperationType, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read appended mutation id: %w", err)
	}

	return id, nil
}

func (r *mutationQueueRepository) List(ctx context.Context) ([]models.QueuedMutation, error) {
	return r.queryMutations(ctx, listActiveMutations, "mutationQueueRepository.List")
}

func (r *mutationQueueRepository) ListAll(ctx context.Context) ([]models.QueuedMutation, error) {
	return r.queryMutations(ctx, listAllMutations, "mutationQueueRepository.ListAll")
}

func (r *mutationQueueRepository) queryMutations(ctx context.Context, query, caller string) ([]models.QueuedMutation, error) {
	log := logger.FromContext(ctx)

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		log.Err(err).Str("func", caller).Msg("failed to query mutation queue")
		return nil, fmt.Errorf("failed to query mutation queue: %w", err)
	}
	defer rows.Close()

	var items []models.QueuedMutation
	for rows.Next() {
		m, scanErr := scanMutation(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", caller).Msg("failed to scan mutation row")
			return nil, fmt.Errorf("failed to scan mutation row: %w", scanErr)
		}
		items = append(items, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate mutation rows: %w", err)
	}

	return items, nil
}

func (r *mutationQueueRepository) Get(ctx context.Context, id int64) (models.QueuedMutation, error) {
	log := logger.FromContext(ctx)

	row := r.DB.QueryRowContext(ctx, getMutation, id)
	m, err := scanMutation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.QueuedMutation{}, ErrMutationNotFound
		}
		log.Err(err).
			Str("func", "mutationQueueRepository.Get").
			Int64("id", id).
			Msg("failed to get queued mutation")
		return models.QueuedMutation{}, fmt.Errorf("failed to get mutation %d: %w", id, err)
	}

	return m, nil
}

func (r *mutationQueueRepository) UpdateStatus(ctx context.Context, id int64, status models.MutationStatus) error {
	res, err := r.DB.ExecContext(ctx, updateMutationStatus, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update status of mutation %d: %w", id, err)
	}

	return requireRowAffected(res, id)
}

func (r *mutationQueueRepository) IncrementRetry(ctx context.Context, id int64, at time.Time) (int, error) {
	res, err := r.DB.ExecContext(ctx, incrementMutationRetry, at, id)
	if err != nil {
		return 0, fmt.Errorf("failed to increment retry of mutation %d: %w", id, err)
	}
	if err = requireRowAffected(res, id); err != nil {
		return 0, err
	}

	var count int
	if err = r.DB.QueryRowContext(ctx, getMutationRetry, id).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to read retry count of mutation %d: %w", id, err)
	}

	return count, nil
}

func (r *mutationQueueRepository) ResetRetry(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, resetMutationRetry, id)
	if err != nil {
		return fmt.Errorf("failed to reset retry of mutation %d: %w", id, err)
	}

	return requireRowAffected(res, id)
}

func (r *mutationQueueRepository) Remove(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, removeMutation, id)
	if err != nil {
		return fmt.Errorf("failed to remove mutation %d: %w", id, err)
	}

	return requireRowAffected(res, id)
}

// RewriteTempID runs entirely inside one transaction: concurrent Append calls
// are serialized by SQLite either before the scan (and get rewritten) or
// after the commit (and were enqueued with the real ID already).
func (r *mutationQueueRepository) RewriteTempID(ctx context.Context, tempID, realID string) error {
	log := logger.FromContext(ctx)

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin temp-id rewrite: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, selectPayloadsForRewrite)
	if err != nil {
		return fmt.Errorf("failed to scan payloads for temp-id rewrite: %w", err)
	}

	type rewrite struct {
		id      int64
		payload []byte
	}
	var rewrites []rewrite

	for rows.Next() {
		var id int64
		var payload []byte
		if err = rows.Scan(&id, &payload); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan payload row: %w", err)
		}

		replaced, changed, rErr := replaceJSONStringValues(payload, tempID, realID)
		if rErr != nil {
			rows.Close()
			return fmt.Errorf("failed to rewrite payload of mutation %d: %w", id, rErr)
		}
		if changed {
			rewrites = append(rewrites, rewrite{id: id, payload: replaced})
		}
	}
	if err = rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("failed to iterate payload rows: %w", err)
	}
	rows.Close()

	for _, rw := range rewrites {
		if _, err = tx.ExecContext(ctx, updateMutationPayload, string(rw.payload), rw.id); err != nil {
			return fmt.Errorf("failed to store rewritten payload of mutation %d: %w", rw.id, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit temp-id rewrite: %w", err)
	}

	if len(rewrites) > 0 {
		log.Debug().
			Str("func", "mutationQueueRepository.RewriteTempID").
			Str("temp_id", tempID).
			Str("real_id", realID).
			Int("rewritten", len(rewrites)).
			Msg("rewrote temp id in queued payloads")
	}

	return nil
}

func (r *mutationQueueRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.DB.QueryRowContext(ctx, countActiveMutations).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count queued mutations: %w", err)
	}

	return count, nil
}

func (r *mutationQueueRepository) Clear(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, clearMutations); err != nil {
		return fmt.Errorf("failed to clear mutation queue: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMutation(row rowScanner) (models.QueuedMutation, error) {
	var (
		m             models.QueuedMutation
		opType        string
		payload       string
		status        string
		lastAttemptAt sql.NullTime
	)

	err := row.Scan(
		&m.ID,
		&m.IdempotencyKey,
		&opType,
		&payload,
		&m.TempID,
		&m.Timestamp,
		&m.RetryCount,
		&status,
		&lastAttemptAt,
	)
	if err != nil {
		return models.QueuedMutation{}, err
	}

	m.OperationType = models.OperationType(opType)
	m.Payload = json.RawMessage(payload)
	m.Status = models.MutationStatus(status)
	if lastAttemptAt.Valid {
		m.LastAttemptAt = lastAttemptAt.Time
	}

	return m, nil
}

// replaceJSONStringValues substitutes newVal for every string value equal to
// oldVal anywhere in the JSON document. Keys are never touched.
func replaceJSONStringValues(raw []byte, oldVal, newVal string) ([]byte, bool, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, false, err
	}

	doc, changed := replaceInValue(doc, oldVal, newVal)
	if !changed {
		return raw, false, nil
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, false, err
	}

	return out, true, nil
}

func replaceInValue(v any, oldVal, newVal string) (any, bool) {
	switch val := v.(type) {
	case string:
		if val == oldVal {
			return newVal, true
		}
	case map[string]any:
		changed := false
		for k, item := range val {
			replaced, c := replaceInValue(item, oldVal, newVal)
			if c {
				val[k] = replaced
				changed = true
			}
		}
		return val, changed
	case []any:
		changed := false
		for i, item := range val {
			replaced, c := replaceInValue(item, oldVal, newVal)
			if c {
				val[i] = replaced
				changed = true
			}
		}
		return val, changed
	}
	return v, false
}

func requireRowAffected(res sql.Result, id int64) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows for mutation %d: %w", id, err)
	}
	if affected == 0 {
		return ErrMutationNotFound
	}
	return nil
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
