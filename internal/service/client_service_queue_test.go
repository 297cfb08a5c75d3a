package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKrupin/go-stock-keeper/internal/logger"
	"github.com/MKrupin/go-stock-keeper/internal/mock"
	"github.com/MKrupin/go-stock-keeper/internal/utils"
	"github.com/MKrupin/go-stock-keeper/models"
)

// newTestQueueSvc — хелпер для создания mutationQueueService с мок-репозиторием
func newTestQueueSvc(t *testing.T, ctrl *gomock.Controller) (*mutationQueueService, *mock.MockMutationQueueRepository) {
	t.Helper()

	mockRepo := mock.NewMockMutationQueueRepository(ctrl)
	svc := NewMutationQueueService(mockRepo, NewSyncState(), logger.Nop()).(*mutationQueueService)

	return svc, mockRepo
}

// ── Validation ───────────────────────────────────────────────────────────────

func TestMutationQueueService_Validation(t *testing.T) {
	qty := int64(-1)

	tests := []struct {
		name    string
		call    func(ctx context.Context, svc MutationQueueService) error
		wantErr error
	}{
		{
			name: "item without sku",
			call: func(ctx context.Context, svc MutationQueueService) error {
				_, err := svc.CreateItem(ctx, models.CreateItemPayload{Name: "Drill"})
				return err
			},
			wantErr: ErrValidationEmptySKU,
		},
		{
			name: "item without name",
			call: func(ctx context.Context, svc MutationQueueService) error {
				_, err := svc.CreateItem(ctx, models.CreateItemPayload{SKU: "SKU-1"})
				return err
			},
			wantErr: ErrValidationEmptyName,
		},
		{
			name: "location without name",
			call: func(ctx context.Context, svc MutationQueueService) error {
				_, err := svc.CreateLocation(ctx, models.CreateLocationPayload{Zone: "A"})
				return err
			},
			wantErr: ErrValidationEmptyName,
		},
		{
			name: "container without code",
			call: func(ctx context.Context, svc MutationQueueService) error {
				_, err := svc.CreateContainer(ctx, models.CreateContainerPayload{LocationID: "loc-1"})
				return err
			},
			wantErr: ErrValidationEmptyCode,
		},
		{
			name: "container without location",
			call: func(ctx context.Context, svc MutationQueueService) error {
				_, err := svc.CreateContainer(ctx, models.CreateContainerPayload{Code: "BOX-1"})
				return err
			},
			wantErr: ErrValidationEmptyLocation,
		},
		{
			name: "inventory without item",
			call: func(ctx context.Context, svc MutationQueueService) error {
				_, err := svc.CreateInventory(ctx, models.CreateInventoryPayload{LocationID: "loc-1"})
				return err
			},
			wantErr: ErrValidationEmptyItem,
		},
		{
			name: "inventory with negative quantity",
			call: func(ctx context.Context, svc MutationQueueService) error {
				_, err := svc.CreateInventory(ctx, models.CreateInventoryPayload{ItemID: "item-1", LocationID: "loc-1", Quantity: -1})
				return err
			},
			wantErr: ErrValidationNegativeQty,
		},
		{
			name: "adjust without id",
			call: func(ctx context.Context, svc MutationQueueService) error {
				return svc.AdjustStock(ctx, models.AdjustStockPayload{Adjustment: 1})
			},
			wantErr: ErrValidationEmptyRecordID,
		},
		{
			name: "adjust by zero",
			call: func(ctx context.Context, svc MutationQueueService) error {
				return svc.AdjustStock(ctx, models.AdjustStockPayload{ID: "inv-1"})
			},
			wantErr: ErrValidationZeroAdjustment,
		},
		{
			name: "update without fields",
			call: func(ctx context.Context, svc MutationQueueService) error {
				return svc.UpdateInventory(ctx, models.UpdateInventoryPayload{ID: "inv-1"})
			},
			wantErr: ErrValidationNoFieldsToApply,
		},
		{
			name: "update to negative quantity",
			call: func(ctx context.Context, svc MutationQueueService) error {
				return svc.UpdateInventory(ctx, models.UpdateInventoryPayload{ID: "inv-1", Quantity: &qty})
			},
			wantErr: ErrValidationNegativeQty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			// невалидная мутация не должна попасть в очередь: Append не ожидается
			svc, _ := newTestQueueSvc(t, ctrl)

			err := tt.call(context.Background(), svc)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// ── Enqueue ──────────────────────────────────────────────────────────────────

func TestMutationQueueService_CreateItem_QueuesWithTempID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo := newTestQueueSvc(t, ctrl)
	ctx := context.Background()

	var queued models.QueuedMutation
	mockRepo.EXPECT().Append(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, m models.QueuedMutation) (int64, error) {
			queued = m
			return 1, nil
		},
	)
	mockRepo.EXPECT().Count(ctx).Return(1, nil)

	triggered := false
	svc.SetSyncTrigger(func() { triggered = true })

	tempID, err := svc.CreateItem(ctx, models.CreateItemPayload{SKU: "SKU-1", Name: "Drill"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(tempID, utils.TempIDPrefix))
	assert.Equal(t, tempID, queued.TempID)
	assert.Equal(t, models.OpCreateItem, queued.OperationType)
	assert.Equal(t, models.MutationPending, queued.Status)
	assert.NotEmpty(t, queued.IdempotencyKey)
	assert.False(t, queued.Timestamp.IsZero())
	assert.JSONEq(t, `{"sku":"SKU-1","name":"Drill"}`, string(queued.Payload))

	assert.True(t, triggered, "постановка в очередь должна запросить синхронизацию")
	assert.Equal(t, 1, svc.state.Pending())
}

func TestMutationQueueService_AdjustStock_NoTempID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo := newTestQueueSvc(t, ctrl)
	ctx := context.Background()

	mockRepo.EXPECT().Append(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, m models.QueuedMutation) (int64, error) {
			assert.Empty(t, m.TempID)
			assert.Equal(t, models.OpAdjustStock, m.OperationType)
			return 1, nil
		},
	)
	mockRepo.EXPECT().Count(ctx).Return(1, nil)

	require.NoError(t, svc.AdjustStock(ctx, models.AdjustStockPayload{ID: "inv-1", Adjustment: -5}))
}

// ── Queue management ─────────────────────────────────────────────────────────

func TestMutationQueueService_Retry_ResetsAndTriggers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo := newTestQueueSvc(t, ctrl)
	ctx := context.Background()

	mockRepo.EXPECT().ResetRetry(ctx, int64(7)).Return(nil)
	mockRepo.EXPECT().Count(ctx).Return(1, nil)

	triggered := false
	svc.SetSyncTrigger(func() { triggered = true })

	require.NoError(t, svc.Retry(ctx, 7))
	assert.True(t, triggered)
}

func TestMutationQueueService_Cancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo := newTestQueueSvc(t, ctrl)
	ctx := context.Background()

	mockRepo.EXPECT().Get(ctx, int64(7)).
		Return(models.QueuedMutation{ID: 7, Status: models.MutationPending}, nil)
	mockRepo.EXPECT().Remove(ctx, int64(7)).Return(nil)
	mockRepo.EXPECT().Count(ctx).Return(0, nil)

	require.NoError(t, svc.Cancel(ctx, 7))
	assert.Zero(t, svc.state.Pending())
}

func TestMutationQueueService_Cancel_InFlightRefused(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo := newTestQueueSvc(t, ctrl)
	ctx := context.Background()

	// запрос уже улетел на сервер — отменять поздно
	mockRepo.EXPECT().Get(ctx, int64(7)).
		Return(models.QueuedMutation{ID: 7, Status: models.MutationSyncing}, nil)

	err := svc.Cancel(ctx, 7)
	require.ErrorIs(t, err, ErrMutationInFlight)
}

func TestMutationQueueService_Clear(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo := newTestQueueSvc(t, ctrl)
	ctx := context.Background()

	svc.state.SetPending(4)
	mockRepo.EXPECT().Clear(ctx).Return(nil)

	require.NoError(t, svc.Clear(ctx))
	assert.Zero(t, svc.state.Pending())
}
