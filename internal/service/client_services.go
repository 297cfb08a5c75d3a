package service

import (
	"github.com/MKrupin/go-stock-keeper/internal/adapter"
	"github.com/MKrupin/go-stock-keeper/internal/config"
	"github.com/MKrupin/go-stock-keeper/internal/logger"
	"github.com/MKrupin/go-stock-keeper/internal/store"
)

// ClientServices bundles every client-side service around one shared
// [SyncState].
type ClientServices struct {
	State        *SyncState
	AuthService  AuthService
	QueueService MutationQueueService
	DataService  LocalDataService
	SyncEngine   SyncEngine
	SyncJob      SyncJob
	Status       StatusService
}

// NewClientServices wires the services together. Enqueueing a mutation
// requests an immediate sync attempt through the job; the circular
// dependency between queue service and job is resolved with a post-hoc
// trigger hookup.
func NewClientServices(
	storages *store.ClientStorages,
	serverAdapter adapter.ServerAdapter,
	workersCfg config.ClientWorkers,
	log *logger.Logger,
) *ClientServices {
	state := NewSyncState()

	queueSvc := NewMutationQueueService(storages.MutationQueue, state, log.GetChildLogger())
	engine := NewSyncEngine(storages.MutationQueue, storages.Cache, storages.Session, serverAdapter, state, workersCfg, log.GetChildLogger())
	job := NewSyncJob(engine, serverAdapter, workersCfg, log.GetChildLogger())

	queueSvc.(*mutationQueueService).SetSyncTrigger(job.SyncNow)

	return &ClientServices{
		State:        state,
		AuthService:  NewClientAuthService(storages, serverAdapter, state, log.GetChildLogger()),
		QueueService: queueSvc,
		DataService:  NewLocalDataService(storages.Cache),
		SyncEngine:   engine,
		SyncJob:      job,
		Status:       NewStatusService(storages.MutationQueue, state),
	}
}
