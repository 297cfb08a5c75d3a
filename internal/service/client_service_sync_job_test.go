package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKrupin/go-stock-keeper/internal/adapter"
	"github.com/MKrupin/go-stock-keeper/internal/config"
	"github.com/MKrupin/go-stock-keeper/internal/logger"
	"github.com/MKrupin/go-stock-keeper/internal/mock"
)

// stubEngine — простой счётчик циклов, не требует mockgen.
type stubEngine struct {
	state *SyncState

	mu    sync.Mutex
	calls int
	err   error
}

func (e *stubEngine) RunCycle(context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	return e.err
}

func (e *stubEngine) State() *SyncState { return e.state }

func (e *stubEngine) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

func newTestJob(t *testing.T, ctrl *gomock.Controller, engine *stubEngine) (*syncJob, *mock.MockServerAdapter) {
	t.Helper()

	mockAdapter := mock.NewMockServerAdapter(ctrl)
	job := NewSyncJob(engine, mockAdapter, config.ClientWorkers{SyncInterval: time.Hour}, logger.Nop()).(*syncJob)
	job.probeBase = time.Millisecond
	job.probeCap = 10 * time.Millisecond

	return job, mockAdapter
}

func TestSyncJob_StartRunsInitialCycle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	engine := &stubEngine{state: NewSyncState()}
	job, _ := newTestJob(t, ctrl, engine)

	job.Start(context.Background())
	defer job.Stop()

	// стартовый цикл подхватывает мутации, накопленные пока приложение не работало
	require.Eventually(t, func() bool { return engine.callCount() >= 1 }, time.Second, 5*time.Millisecond)
}

func TestSyncJob_SyncNowTriggersCycle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	engine := &stubEngine{state: NewSyncState()}
	job, _ := newTestJob(t, ctrl, engine)

	job.Start(context.Background())
	defer job.Stop()

	require.Eventually(t, func() bool { return engine.callCount() >= 1 }, time.Second, 5*time.Millisecond)

	job.SyncNow()
	require.Eventually(t, func() bool { return engine.callCount() >= 2 }, time.Second, 5*time.Millisecond)
}

// Переход в offline запускает пробу доступности; как только Ping отвечает,
// состояние возвращается в online и стартует внеочередной цикл.
func TestSyncJob_ReconnectProbe(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	engine := &stubEngine{state: NewSyncState()}
	job, mockAdapter := newTestJob(t, ctrl, engine)

	gomock.InOrder(
		mockAdapter.EXPECT().Ping(gomock.Any()).Return(adapter.ErrServerUnavailable),
		mockAdapter.EXPECT().Ping(gomock.Any()).Return(nil),
	)

	job.Start(context.Background())
	defer job.Stop()

	require.Eventually(t, func() bool { return engine.callCount() >= 1 }, time.Second, 5*time.Millisecond)
	before := engine.callCount()

	engine.state.SetOnline(false)

	require.Eventually(t, func() bool { return engine.state.Online() }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return engine.callCount() > before }, time.Second, 5*time.Millisecond)
}

func TestSyncJob_StopTerminatesLoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	engine := &stubEngine{state: NewSyncState()}
	job, _ := newTestJob(t, ctrl, engine)

	job.Start(context.Background())
	require.Eventually(t, func() bool { return engine.callCount() >= 1 }, time.Second, 5*time.Millisecond)

	job.Stop()
	after := engine.callCount()

	job.SyncNow()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, engine.callCount(), "после Stop циклы не запускаются")
}

func TestSyncJob_StopWithoutStart(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	engine := &stubEngine{state: NewSyncState()}
	job, _ := newTestJob(t, ctrl, engine)

	assert.NotPanics(t, job.Stop)
}
