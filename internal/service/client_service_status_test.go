package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKrupin/go-stock-keeper/internal/mock"
	"github.com/MKrupin/go-stock-keeper/models"
)

func TestStatusService_Overview(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mock.NewMockMutationQueueRepository(ctrl)
	state := NewSyncState()
	svc := NewStatusService(mockRepo, state)

	mockRepo.EXPECT().Count(gomock.Any()).Return(5, nil)

	status, err := svc.Overview(context.Background())
	require.NoError(t, err)

	assert.True(t, status.IsOnline)
	assert.Equal(t, 5, status.PendingCount)
	// Overview обязан пересчитать счётчик из стора, а не верить памяти
	assert.Equal(t, 5, state.Pending())
}

func TestStatusService_QueueView(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mock.NewMockMutationQueueRepository(ctrl)
	svc := NewStatusService(mockRepo, NewSyncState())

	now := time.Now()
	mockRepo.EXPECT().ListAll(gomock.Any()).Return([]models.QueuedMutation{
		{
			ID:            1,
			OperationType: models.OpCreateItem,
			Payload:       json.RawMessage(`{"sku":"SKU-1","name":"Cordless drill"}`),
			Status:        models.MutationPending,
			Timestamp:     now,
		},
		{
			ID:            2,
			OperationType: models.OpAdjustStock,
			Payload:       json.RawMessage(`{"id":"inv-7","adjustment":-3}`),
			Status:        models.MutationFailed,
			RetryCount:    3,
			Timestamp:     now,
		},
		{
			ID:            3,
			OperationType: models.OpCreateInventory,
			Payload:       json.RawMessage(`{"item_id":"tmp-9","quantity":12}`),
			Status:        models.MutationSyncing,
			Timestamp:     now,
		},
	}, nil)

	views, err := svc.QueueView(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 3)

	assert.Equal(t, "New item", views[0].Operation)
	assert.Equal(t, "Cordless drill", views[0].Preview)
	assert.False(t, views[0].Retryable)

	assert.Equal(t, "Stock adjustment", views[1].Operation)
	assert.Equal(t, "inv-7 -3", views[1].Preview)
	assert.True(t, views[1].Retryable, "failed-мутацию можно вернуть в очередь")
	assert.Equal(t, 3, views[1].RetryCount)

	assert.Equal(t, "New stock record", views[2].Operation)
	assert.Equal(t, "tmp-9 x12", views[2].Preview)
}

func TestPayloadPreview_MalformedPayload(t *testing.T) {
	preview := payloadPreview(models.QueuedMutation{
		OperationType: models.OpCreateItem,
		Payload:       json.RawMessage(`not json`),
	})
	assert.Empty(t, preview)
}
