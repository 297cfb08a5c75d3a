package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/MKrupin/go-stock-keeper/internal/adapter"
	"github.com/MKrupin/go-stock-keeper/internal/config"
	"github.com/MKrupin/go-stock-keeper/internal/logger"
)

type syncJob struct {
	engine  SyncEngine
	adapter adapter.ServerAdapter
	state   *SyncState

	interval  time.Duration
	probeBase time.Duration
	probeCap  time.Duration

	syncNow chan struct{}

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *logger.Logger
}

// NewSyncJob creates the background trigger loop around engine. The job is
// idle until Start is called.
func NewSyncJob(engine SyncEngine, serverAdapter adapter.ServerAdapter, workersCfg config.ClientWorkers, logger *logger.Logger) SyncJob {
	return &syncJob{
		engine:    engine,
		adapter:   serverAdapter,
		state:     engine.State(),
		interval:  workersCfg.SyncInterval,
		probeBase: 2 * time.Second,
		probeCap:  time.Minute,
		syncNow:   make(chan struct{}, 1),
		logger:    logger,
	}
}

// Start implements [SyncJob]. It stops any previously running loop, then
// launches the trigger goroutine: a periodic ticker, the SyncNow channel and
// the offline-transition watcher all funnel into runCycle. If the configured
// interval is zero or negative it defaults to 5 minutes.
func (j *syncJob) Start(ctx context.Context) {
	interval := j.interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		// initial cycle covers mutations queued while the app was down
		j.runCycle(jobCtx)

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.runCycle(jobCtx)
			case <-j.syncNow:
				j.runCycle(jobCtx)
			case <-j.state.WentOffline():
				j.probeUntilReachable(jobCtx)
			}
		}
	}()
}

// SyncNow implements [SyncJob]. The buffered channel coalesces bursts of
// requests into at most one queued trigger.
func (j *syncJob) SyncNow() {
	select {
	case j.syncNow <- struct{}{}:
	default:
	}
}

// Stop implements [SyncJob]. Safe to call when the job is not running.
func (j *syncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

func (j *syncJob) runCycle(ctx context.Context) {
	err := j.engine.RunCycle(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrSyncAlreadyRunning):
		// конкурентный триггер — цикл уже идёт, ничего не делаем
	case errors.Is(err, ErrOffline):
		// переподключение запустит цикл само
	case errors.Is(err, ErrNoSession), errors.Is(err, ErrSessionExpired):
		j.logger.Info().Str("func", "runCycle").Msg("sync skipped, no live session")
	default:
		j.logger.Warn().Str("func", "runCycle").Err(err).Msg("sync cycle failed")
	}
}

// probeUntilReachable pings the server with exponential backoff until it
// answers or the job context ends, then flips the state back to online and
// requests an immediate cycle.
func (j *syncJob) probeUntilReachable(ctx context.Context) {
	backoff := retry.WithCappedDuration(j.probeCap, retry.NewExponential(j.probeBase))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if pingErr := j.adapter.Ping(ctx); pingErr != nil {
			return retry.RetryableError(pingErr)
		}
		return nil
	})
	if err != nil {
		return // context cancelled while offline
	}

	j.logger.Info().Str("func", "probeUntilReachable").Msg("server reachable again")
	j.state.SetOnline(true)
	j.SyncNow()
}
