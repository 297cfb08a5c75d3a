package service

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKrupin/go-stock-keeper/models"
)

// SyncState is the single shared holder of connectivity and sync-progress
// flags. The engine, the job and the UI all observe the same instance; only
// the engine and the job mutate it.
//
// The syncing flag doubles as the mutual-exclusion guard for sync cycles:
// TryBeginSync is a compare-and-swap, so concurrent triggers collapse into
// one running cycle.
type SyncState struct {
	online  atomic.Bool
	syncing atomic.Bool
	pending atomic.Int64

	mu       sync.RWMutex
	lastSync *time.Time

	changed     chan struct{}
	wentOffline chan struct{}
}

// NewSyncState returns a state that assumes the server is reachable. The
// first failed request flips it to offline.
func NewSyncState() *SyncState {
	s := &SyncState{
		changed:     make(chan struct{}, 1),
		wentOffline: make(chan struct{}, 1),
	}
	s.online.Store(true)
	return s
}

// TryBeginSync marks a cycle as running. Returns false if one already is.
func (s *SyncState) TryBeginSync() bool {
	if !s.syncing.CompareAndSwap(false, true) {
		return false
	}
	s.notify()
	return true
}

// EndSync marks the running cycle as finished.
func (s *SyncState) EndSync() {
	s.syncing.Store(false)
	s.notify()
}

func (s *SyncState) Syncing() bool { return s.syncing.Load() }

// SetOnline records the observed connectivity. A transition to offline also
// signals the reconnect-probe channel.
func (s *SyncState) SetOnline(online bool) {
	if s.online.Swap(online) == online {
		return
	}
	if !online {
		select {
		case s.wentOffline <- struct{}{}:
		default:
		}
	}
	s.notify()
}

func (s *SyncState) Online() bool { return s.online.Load() }

// SetPending records the number of active queued mutations.
func (s *SyncState) SetPending(n int) {
	if s.pending.Swap(int64(n)) != int64(n) {
		s.notify()
	}
}

func (s *SyncState) Pending() int { return int(s.pending.Load()) }

// SetLastSync records the completion time of the latest successful pull.
func (s *SyncState) SetLastSync(t time.Time) {
	s.mu.Lock()
	s.lastSync = &t
	s.mu.Unlock()
	s.notify()
}

func (s *SyncState) LastSync() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastSync == nil {
		return nil
	}
	t := *s.lastSync
	return &t
}

// Snapshot returns the state as a single value for presentation.
func (s *SyncState) Snapshot() models.SyncStatus {
	return models.SyncStatus{
		IsOnline:     s.Online(),
		IsSyncing:    s.Syncing(),
		PendingCount: s.Pending(),
		LastSync:     s.LastSync(),
	}
}

// Changed delivers a coalesced signal whenever any field changes. Intended
// for the UI event loop.
func (s *SyncState) Changed() <-chan struct{} { return s.changed }

// WentOffline delivers a coalesced signal on every online-to-offline
// transition. Consumed by the sync job's reconnect probe.
func (s *SyncState) WentOffline() <-chan struct{} { return s.wentOffline }

func (s *SyncState) notify() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}
