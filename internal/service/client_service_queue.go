// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Maxim Krupin

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MKrupin/go-stock-keeper/internal/logger"
	"github.com/MKrupin/go-stock-keeper/internal/store"
	"github.com/MKrupin/go-stock-keeper/internal/utils"
	"github.com/MKrupin/go-stock-keeper/models"
)

type mutationQueueService struct {
	queue store.MutationQueueRepository
	ids   *utils.UUIDGenerator
	state *SyncState

	// requestSync asks the sync job for an immediate cycle. Wired after the
	// job exists; nil until then (startup ordering).
	requestSync func()

	logger *logger.Logger
}

// NewMutationQueueService builds the write API over the durable queue.
// The sync trigger is attached later via SetSyncTrigger once the sync job
// has been constructed.
func NewMutationQueueService(queue store.MutationQueueRepository, state *SyncState, logger *logger.Logger) MutationQueueService {
	return &mutationQueueService{
		queue:  queue,
		ids:    utils.NewUUIDGenerator(),
		state:  state,
		logger: logger,
	}
}

// SetSyncTrigger wires the callback used to request a sync attempt right
// after a successful enqueue.
func (s *mutationQueueService) SetSyncTrigger(trigger func()) {
	s.requestSync = trigger
}

func (s *mutationQueueService) CreateItem(ctx context.Context, p models.CreateItemPayload) (string, error) {
	if p.SKU == "" {
		return "", ErrValidationEmptySKU
	}
	if p.Name == "" {
		return "", ErrValidationEmptyName
	}

	return s.enqueueCreation(ctx, models.OpCreateItem, p)
}

func (s *mutationQueueService) CreateLocation(ctx context.Context, p models.CreateLocationPayload) (string, error) {
	if p.Name == "" {
		return "", ErrValidationEmptyName
	}

	return s.enqueueCreation(ctx, models.OpCreateLocation, p)
}

func (s *mutationQueueService) CreateContainer(ctx context.Context, p models.CreateContainerPayload) (string, error) {
	if p.Code == "" {
		return "", ErrValidationEmptyCode
	}
	if p.LocationID == "" {
		return "", ErrValidationEmptyLocation
	}

	return s.enqueueCreation(ctx, models.OpCreateContainer, p)
}

func (s *mutationQueueService) CreateInventory(ctx context.Context, p models.CreateInventoryPayload) (string, error) {
	if p.ItemID == "" {
		return "", ErrValidationEmptyItem
	}
	if p.LocationID == "" {
		return "", ErrValidationEmptyLocation
	}
	if p.Quantity < 0 {
		return "", ErrValidationNegativeQty
	}

	return s.enqueueCreation(ctx, models.OpCreateInventory, p)
}

func (s *mutationQueueService) AdjustStock(ctx context.Context, p models.AdjustStockPayload) error {
	if p.ID == "" {
		return ErrValidationEmptyRecordID
	}
	if p.Adjustment == 0 {
		return ErrValidationZeroAdjustment
	}

	_, err := s.enqueue(ctx, models.OpAdjustStock, p, "")
	return err
}

func (s *mutationQueueService) UpdateInventory(ctx context.Context, p models.UpdateInventoryPayload) error {
	if p.ID == "" {
		return ErrValidationEmptyRecordID
	}
	if p.LocationID == "" && p.ContainerID == "" && p.Quantity == nil {
		return ErrValidationNoFieldsToApply
	}
	if p.Quantity != nil && *p.Quantity < 0 {
		return ErrValidationNegativeQty
	}

	_, err := s.enqueue(ctx, models.OpUpdateInventory, p, "")
	return err
}

// enqueueCreation assigns a temp ID before queueing so the caller can refer
// to the not-yet-existing entity in later operations.
func (s *mutationQueueService) enqueueCreation(ctx context.Context, op models.OperationType, payload any) (string, error) {
	tempID := s.ids.GenerateTempID()
	if _, err := s.enqueue(ctx, op, payload, tempID); err != nil {
		return "", err
	}
	return tempID, nil
}

func (s *mutationQueueService) enqueue(ctx context.Context, op models.OperationType, payload any, tempID string) (int64, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("marshal %s payload: %w", op, err)
	}

	m := models.QueuedMutation{
		IdempotencyKey: s.ids.Generate(),
		OperationType:  op,
		Payload:        raw,
		TempID:         tempID,
		Timestamp:      time.Now().UTC(),
		Status:         models.MutationPending,
	}

	id, err := s.queue.Append(ctx, m)
	if err != nil {
		return 0, fmt.Errorf("append %s to queue: %w", op, err)
	}

	s.logger.Info().
		Str("func", "enqueue").
		Str("operation", string(op)).
		Int64("queue_id", id).
		Msg("mutation queued")

	s.refreshPending(ctx)
	s.triggerSync()

	return id, nil
}

func (s *mutationQueueService) List(ctx context.Context) ([]models.QueuedMutation, error) {
	return s.queue.List(ctx)
}

func (s *mutationQueueService) ListAll(ctx context.Context) ([]models.QueuedMutation, error) {
	return s.queue.ListAll(ctx)
}

func (s *mutationQueueService) Count(ctx context.Context) (int, error) {
	return s.queue.Count(ctx)
}

func (s *mutationQueueService) Retry(ctx context.Context, id int64) error {
	if err := s.queue.ResetRetry(ctx, id); err != nil {
		return fmt.Errorf("retry mutation %d: %w", id, err)
	}

	s.refreshPending(ctx)
	s.triggerSync()
	return nil
}

func (s *mutationQueueService) Cancel(ctx context.Context, id int64) error {
	m, err := s.queue.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("cancel mutation %d: %w", id, err)
	}
	if m.Status == models.MutationSyncing {
		// запрос уже ушёл на сервер — дождёмся исхода цикла
		return ErrMutationInFlight
	}

	if err := s.queue.Remove(ctx, id); err != nil {
		return fmt.Errorf("cancel mutation %d: %w", id, err)
	}

	s.refreshPending(ctx)
	return nil
}

func (s *mutationQueueService) Clear(ctx context.Context) error {
	if err := s.queue.Clear(ctx); err != nil {
		return fmt.Errorf("clear queue: %w", err)
	}

	s.state.SetPending(0)
	return nil
}

func (s *mutationQueueService) refreshPending(ctx context.Context) {
	count, err := s.queue.Count(ctx)
	if err != nil {
		s.logger.Warn().Str("func", "refreshPending").Err(err).Msg("count failed")
		return
	}
	s.state.SetPending(count)
}

func (s *mutationQueueService) triggerSync() {
	if s.requestSync != nil {
		s.requestSync()
	}
}
