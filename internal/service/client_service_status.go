package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MKrupin/go-stock-keeper/internal/store"
	"github.com/MKrupin/go-stock-keeper/models"
)

// MutationView is one presentation-ready row of the queue-management screen.
type MutationView struct {
	ID         int64
	Operation  string
	Preview    string
	Status     models.MutationStatus
	RetryCount int
	CreatedAt  time.Time
	// Retryable marks entries the user can return to the active queue.
	Retryable bool
}

type statusService struct {
	queue store.MutationQueueRepository
	state *SyncState
}

func NewStatusService(queue store.MutationQueueRepository, state *SyncState) StatusService {
	return &statusService{queue: queue, state: state}
}

// Overview implements [StatusService]. The pending count is recomputed from
// the store rather than trusted from the in-memory state, so the status bar
// is correct right after startup.
func (s *statusService) Overview(ctx context.Context) (models.SyncStatus, error) {
	count, err := s.queue.Count(ctx)
	if err != nil {
		return models.SyncStatus{}, fmt.Errorf("count queue: %w", err)
	}
	s.state.SetPending(count)

	return s.state.Snapshot(), nil
}

func (s *statusService) QueueView(ctx context.Context) ([]MutationView, error) {
	mutations, err := s.queue.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list queue: %w", err)
	}

	views := make([]MutationView, 0, len(mutations))
	for _, m := range mutations {
		views = append(views, MutationView{
			ID:         m.ID,
			Operation:  operationLabel(m.OperationType),
			Preview:    payloadPreview(m),
			Status:     m.Status,
			RetryCount: m.RetryCount,
			CreatedAt:  m.Timestamp,
			Retryable:  m.Status == models.MutationFailed,
		})
	}

	return views, nil
}

func operationLabel(op models.OperationType) string {
	switch op {
	case models.OpCreateItem:
		return "New item"
	case models.OpCreateLocation:
		return "New location"
	case models.OpCreateContainer:
		return "New container"
	case models.OpCreateInventory:
		return "New stock record"
	case models.OpAdjustStock:
		return "Stock adjustment"
	case models.OpUpdateInventory:
		return "Stock update"
	default:
		return string(op)
	}
}

// payloadPreview extracts a short human-readable hint from the payload: the
// entity name where there is one, otherwise the most specific identifier.
func payloadPreview(m models.QueuedMutation) string {
	var fields map[string]any
	if err := json.Unmarshal(m.Payload, &fields); err != nil {
		return ""
	}

	switch m.OperationType {
	case models.OpAdjustStock:
		adj, _ := fields["adjustment"].(float64)
		return fmt.Sprintf("%s %+d", stringField(fields, "id"), int64(adj))
	case models.OpCreateInventory:
		qty, _ := fields["quantity"].(float64)
		return fmt.Sprintf("%s x%d", stringField(fields, "item_id"), int64(qty))
	default:
		for _, key := range []string{"name", "sku", "code", "id"} {
			if v := stringField(fields, key); v != "" {
				return v
			}
		}
	}

	return ""
}

func stringField(fields map[string]any, key string) string {
	v, _ := fields[key].(string)
	return v
}
