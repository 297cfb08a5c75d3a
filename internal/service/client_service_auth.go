package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKrupin/go-stock-keeper/internal/adapter"
	"github.com/MKrupin/go-stock-keeper/internal/logger"
	"github.com/MKrupin/go-stock-keeper/internal/store"
	"github.com/MKrupin/go-stock-keeper/internal/utils"
	"github.com/MKrupin/go-stock-keeper/models"
)

type clientAuthService struct {
	storages *store.ClientStorages
	adapter  adapter.ServerAdapter
	state    *SyncState

	now func() time.Time

	logger *logger.Logger
}

func NewClientAuthService(storages *store.ClientStorages, serverAdapter adapter.ServerAdapter, state *SyncState, logger *logger.Logger) AuthService {
	return &clientAuthService{
		storages: storages,
		adapter:  serverAdapter,
		state:    state,
		now:      time.Now,
		logger:   logger,
	}
}

// Login implements [AuthService]. A persisted session lets the next start of
// the app skip the login screen; work queued offline under the old session
// keeps its queue untouched.
func (s *clientAuthService) Login(ctx context.Context, creds models.Credentials) error {
	session, err := s.adapter.Login(ctx, creds)
	if err != nil {
		if errors.Is(err, adapter.ErrUnauthorized) {
			return ErrWrongCredentials
		}
		return fmt.Errorf("login on server: %w", err)
	}

	if err = s.storages.Session.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	s.state.SetOnline(true)
	s.logger.Info().Str("func", "Login").Str("login", creds.Login).Msg("authenticated")

	return nil
}

// RestoreSession implements [AuthService]. An expired token is discarded so
// the UI falls back to the login screen instead of collecting 401s on every
// sync cycle.
func (s *clientAuthService) RestoreSession(ctx context.Context) (models.Session, error) {
	session, err := s.storages.Session.GetSession(ctx)
	if errors.Is(err, store.ErrLocalSessionNotFound) {
		return models.Session{}, ErrNoSession
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("load session: %w", err)
	}

	if utils.TokenExpired(session.Token, s.now()) {
		if delErr := s.storages.Session.DeleteSession(ctx); delErr != nil {
			s.logger.Warn().Str("func", "RestoreSession").Err(delErr).Msg("drop expired session failed")
		}
		return models.Session{}, ErrSessionExpired
	}

	s.adapter.SetToken(session.Token)
	return session, nil
}

// Logout implements [AuthService]. Queued mutations belong to the session
// that recorded them, so they are dropped together with the cache.
func (s *clientAuthService) Logout(ctx context.Context) error {
	var errs []error

	if err := s.storages.MutationQueue.Clear(ctx); err != nil {
		errs = append(errs, fmt.Errorf("clear queue: %w", err))
	}
	if err := s.storages.Cache.Clear(ctx); err != nil {
		errs = append(errs, fmt.Errorf("clear cache: %w", err))
	}
	if err := s.storages.Session.DeleteSession(ctx); err != nil {
		errs = append(errs, fmt.Errorf("delete session: %w", err))
	}

	s.adapter.SetToken("")
	s.state.SetPending(0)
	s.logger.Info().Str("func", "Logout").Msg("session closed")

	return errors.Join(errs...)
}
