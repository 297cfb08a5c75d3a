// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Maxim Krupin

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MKrupin/go-stock-keeper/internal/adapter"
	"github.com/MKrupin/go-stock-keeper/internal/config"
	"github.com/MKrupin/go-stock-keeper/internal/logger"
	"github.com/MKrupin/go-stock-keeper/internal/store"
	"github.com/MKrupin/go-stock-keeper/internal/utils"
	"github.com/MKrupin/go-stock-keeper/models"
)

type syncEngine struct {
	queue    store.MutationQueueRepository
	cache    store.CacheRepository
	sessions store.SessionRepository
	adapter  adapter.ServerAdapter
	state    *SyncState

	backoffBase time.Duration
	backoffCap  time.Duration

	now func() time.Time

	logger *logger.Logger
}

// NewSyncEngine builds the push-then-pull engine. workersCfg supplies the
// retry spacing; a zero RetryBackoffBase disables spacing so retries happen
// on every cycle.
func NewSyncEngine(
	queue store.MutationQueueRepository,
	cache store.CacheRepository,
	sessions store.SessionRepository,
	serverAdapter adapter.ServerAdapter,
	state *SyncState,
	workersCfg config.ClientWorkers,
	logger *logger.Logger,
) SyncEngine {
	return &syncEngine{
		queue:       queue,
		cache:       cache,
		sessions:    sessions,
		adapter:     serverAdapter,
		state:       state,
		backoffBase: workersCfg.RetryBackoffBase,
		backoffCap:  workersCfg.RetryBackoffCap,
		now:         time.Now,
		logger:      logger,
	}
}

func (s *syncEngine) State() *SyncState { return s.state }

// RunCycle implements [SyncEngine].
//
// The cycle has two phases. Push replays the active queue in creation order;
// every queued mutation either reaches the server, stays queued (server
// unreachable or dependency unresolved), or burns one retry. Pull then
// fetches the five server collections and atomically replaces the cache.
// A push abort caused by connectivity skips the pull: the cache keeps the
// last known good snapshot.
func (s *syncEngine) RunCycle(ctx context.Context) error {
	if !s.state.TryBeginSync() {
		return ErrSyncAlreadyRunning
	}
	defer s.state.EndSync()

	if !s.state.Online() {
		return ErrOffline
	}

	if err := s.checkSession(ctx); err != nil {
		return err
	}

	if err := s.push(ctx); err != nil {
		return fmt.Errorf("push phase: %w", err)
	}

	if err := s.pull(ctx); err != nil {
		if isUnreachable(err) {
			s.state.SetOnline(false)
		}
		return fmt.Errorf("pull phase: %w", err)
	}

	s.state.SetOnline(true)
	return nil
}

// checkSession guards the cycle: without a live session every dispatch would
// bounce off the server with 401, charging retry budgets for nothing.
func (s *syncEngine) checkSession(ctx context.Context) error {
	session, err := s.sessions.GetSession(ctx)
	if errors.Is(err, store.ErrLocalSessionNotFound) {
		return ErrNoSession
	}
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	if utils.TokenExpired(session.Token, s.now()) {
		return ErrSessionExpired
	}
	return nil
}

// push walks the queue snapshot front to back. Entries are re-read just
// before dispatch because an earlier creation in the same cycle may have
// rewritten their temp-ID references.
func (s *syncEngine) push(ctx context.Context) error {
	log := s.logger.GetChildLogger()

	snapshot, err := s.queue.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list queue: %w", err)
	}
	defer s.refreshPending(ctx)

	// Temp IDs still owned by some queued creation, parked ones included: a
	// failed creation keeps its placeholder reserved until the user retries
	// or cancels it, so dependents wait instead of shipping the raw temp ID.
	unresolved := make(map[string]struct{}, len(snapshot))
	for _, m := range snapshot {
		if m.TempID != "" {
			unresolved[m.TempID] = struct{}{}
		}
	}

	for _, stale := range snapshot {
		m, err := s.queue.Get(ctx, stale.ID)
		if errors.Is(err, store.ErrMutationNotFound) {
			continue // cancelled mid-cycle
		}
		if err != nil {
			return fmt.Errorf("reload mutation %d: %w", stale.ID, err)
		}

		if m.Status == models.MutationFailed {
			continue // ждёт ручного retry
		}
		if s.inBackoffWindow(m) {
			continue
		}
		if dependsOnUnresolved(m, unresolved) {
			log.Debug().
				Str("func", "push").
				Int64("queue_id", m.ID).
				Msg("deferred, references an unsynced creation")
			continue
		}
		if ref, dangling := danglingTempRef(m, unresolved); dangling {
			// the creation that owned the placeholder is gone from the
			// queue, so the reference can never resolve
			if err = s.queue.UpdateStatus(ctx, m.ID, models.MutationFailed); err != nil {
				return fmt.Errorf("park orphaned %d: %w", m.ID, err)
			}
			log.Warn().
				Str("func", "push").
				Int64("queue_id", m.ID).
				Str("temp_id", ref).
				Msg("parked, references a placeholder no queued creation owns")
			continue
		}

		if err = s.queue.UpdateStatus(ctx, m.ID, models.MutationSyncing); err != nil {
			return fmt.Errorf("mark syncing %d: %w", m.ID, err)
		}

		res, dispatchErr := s.dispatch(ctx, m)
		if dispatchErr == nil && m.TempID != "" && res.ID == "" {
			// без серверного ID переписать ссылки зависимых нельзя
			dispatchErr = ErrMissingServerID
		}
		if dispatchErr == nil {
			if m.TempID != "" {
				if err = s.queue.RewriteTempID(ctx, m.TempID, res.ID); err != nil {
					return fmt.Errorf("rewrite temp id %s: %w", m.TempID, err)
				}
				delete(unresolved, m.TempID)
			}
			if err = s.queue.Remove(ctx, m.ID); err != nil {
				return fmt.Errorf("remove confirmed %d: %w", m.ID, err)
			}
			log.Info().
				Str("func", "push").
				Int64("queue_id", m.ID).
				Str("operation", string(m.OperationType)).
				Msg("mutation confirmed")
			continue
		}

		if errors.Is(dispatchErr, adapter.ErrServerUnavailable) || ctx.Err() != nil {
			// сервер не видел запрос — мутация остаётся как была
			if err = s.queue.UpdateStatus(ctx, m.ID, models.MutationPending); err != nil {
				return fmt.Errorf("unmark syncing %d: %w", m.ID, err)
			}
			s.state.SetOnline(false)
			return dispatchErr
		}

		// Failed attempt: charge the retry budget and keep draining so one
		// broken mutation never stalls the entries behind it. 5xx responses
		// and timeouts land here too; the idempotency key keeps the eventual
		// replay safe.
		if err = s.recordRejection(ctx, m, dispatchErr); err != nil {
			return err
		}
	}

	return nil
}

func (s *syncEngine) recordRejection(ctx context.Context, m models.QueuedMutation, cause error) error {
	retries, err := s.queue.IncrementRetry(ctx, m.ID, s.now().UTC())
	if err != nil {
		return fmt.Errorf("increment retry %d: %w", m.ID, err)
	}

	status := models.MutationPending
	if retries >= models.MaxMutationRetries {
		status = models.MutationFailed
	}
	if err = s.queue.UpdateStatus(ctx, m.ID, status); err != nil {
		return fmt.Errorf("set status %d: %w", m.ID, err)
	}

	s.logger.Warn().
		Str("func", "recordRejection").
		Int64("queue_id", m.ID).
		Str("operation", string(m.OperationType)).
		Int("retries", retries).
		Str("status", string(status)).
		Err(cause).
		Msg("mutation rejected by server")

	return nil
}

// dispatch unmarshals the payload and routes the mutation to the matching
// adapter call. The idempotency key travels with every request so a replay
// after an ambiguous failure cannot double-apply.
func (s *syncEngine) dispatch(ctx context.Context, m models.QueuedMutation) (models.MutationResult, error) {
	switch m.OperationType {
	case models.OpCreateItem:
		return dispatchAs(ctx, m, s.adapter.CreateItem)
	case models.OpCreateLocation:
		return dispatchAs(ctx, m, s.adapter.CreateLocation)
	case models.OpCreateContainer:
		return dispatchAs(ctx, m, s.adapter.CreateContainer)
	case models.OpCreateInventory:
		return dispatchAs(ctx, m, s.adapter.CreateInventory)
	case models.OpAdjustStock:
		return dispatchAs(ctx, m, s.adapter.AdjustStock)
	case models.OpUpdateInventory:
		return dispatchAs(ctx, m, s.adapter.UpdateInventory)
	default:
		return models.MutationResult{}, fmt.Errorf("%w: %s", ErrUnknownOperation, m.OperationType)
	}
}

func dispatchAs[P any](
	ctx context.Context,
	m models.QueuedMutation,
	call func(context.Context, P, string) (models.MutationResult, error),
) (models.MutationResult, error) {
	var payload P
	if err := json.Unmarshal(m.Payload, &payload); err != nil {
		return models.MutationResult{}, fmt.Errorf("decode %s payload: %w", m.OperationType, err)
	}
	return call(ctx, payload, m.IdempotencyKey)
}

// pull fetches the five collections concurrently and installs them as one
// atomic snapshot. Failure of any fetch keeps the previous cache intact.
func (s *syncEngine) pull(ctx context.Context) error {
	var snap models.CacheSnapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.Items, err = s.adapter.ListItems(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Locations, err = s.adapter.ListLocations(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Containers, err = s.adapter.ListContainers(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Inventory, err = s.adapter.ListInventory(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Categories, err = s.adapter.ListCategories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	snap.PulledAt = s.now().UTC()
	if err := s.cache.ReplaceAll(ctx, snap); err != nil {
		return fmt.Errorf("replace cache: %w", err)
	}

	s.state.SetLastSync(snap.PulledAt)
	return nil
}

// inBackoffWindow reports whether a previously rejected mutation must still
// wait before its next attempt. Spacing doubles per retry up to the cap.
func (s *syncEngine) inBackoffWindow(m models.QueuedMutation) bool {
	if m.RetryCount == 0 || s.backoffBase <= 0 || m.LastAttemptAt.IsZero() {
		return false
	}

	wait := s.backoffBase << (m.RetryCount - 1)
	if s.backoffCap > 0 && wait > s.backoffCap {
		wait = s.backoffCap
	}

	return s.now().Before(m.LastAttemptAt.Add(wait))
}

// dependsOnUnresolved reports whether the payload references a temp ID owned
// by another queued creation that has not been confirmed yet.
func dependsOnUnresolved(m models.QueuedMutation, unresolved map[string]struct{}) bool {
	for tempID := range unresolved {
		if tempID == m.TempID {
			continue
		}
		if bytes.Contains(m.Payload, []byte(`"`+tempID+`"`)) {
			return true
		}
	}
	return false
}

// danglingTempRef returns the first placeholder reference in the payload
// whose owning creation is no longer queued. Such a reference can never be
// rewritten to a real ID. Only values shaped like generated placeholders
// (prefix plus UUID) count, so a user string that merely starts with the
// prefix is left alone.
func danglingTempRef(m models.QueuedMutation, owned map[string]struct{}) (string, bool) {
	const refLen = len(utils.TempIDPrefix) + 36

	rest := m.Payload
	marker := []byte(`"` + utils.TempIDPrefix)
	for {
		i := bytes.Index(rest, marker)
		if i < 0 {
			return "", false
		}
		rest = rest[i+1:]
		j := bytes.IndexByte(rest, '"')
		if j < 0 {
			return "", false
		}
		ref := string(rest[:j])
		if len(ref) == refLen && ref != m.TempID {
			if _, ok := owned[ref]; !ok {
				return ref, true
			}
		}
		rest = rest[j:]
	}
}

func (s *syncEngine) refreshPending(ctx context.Context) {
	count, err := s.queue.Count(ctx)
	if err != nil {
		s.logger.Warn().Str("func", "refreshPending").Err(err).Msg("count failed")
		return
	}
	s.state.SetPending(count)
}

func isUnreachable(err error) bool {
	return errors.Is(err, adapter.ErrServerUnavailable) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
