package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKrupin/go-stock-keeper/internal/logger"
	"github.com/MKrupin/go-stock-keeper/models"
)

func newSessionRepo(t *testing.T) SessionRepository {
	t.Helper()
	db := openTestDB(t, filepath.Join(t.TempDir(), "client.db"))
	return NewSessionRepository(db, logger.Nop())
}

func TestSessionRepository_SaveAndGet(t *testing.T) {
	repo := newSessionRepo(t)
	ctx := context.Background()

	s := models.Session{
		Login:     "storekeeper",
		Token:     "jwt-token",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, repo.SaveSession(ctx, s))

	got, err := repo.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, s.Login, got.Login)
	assert.Equal(t, s.Token, got.Token)
}

// Сохранение поверх существующей сессии заменяет её — строка всегда одна.
func TestSessionRepository_Save_Overwrites(t *testing.T) {
	repo := newSessionRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveSession(ctx, models.Session{Login: "first", Token: "t1", CreatedAt: time.Now()}))
	require.NoError(t, repo.SaveSession(ctx, models.Session{Login: "second", Token: "t2", CreatedAt: time.Now()}))

	got, err := repo.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", got.Login)
	assert.Equal(t, "t2", got.Token)
}

func TestSessionRepository_Get_NotFound(t *testing.T) {
	repo := newSessionRepo(t)

	_, err := repo.GetSession(context.Background())
	assert.ErrorIs(t, err, ErrLocalSessionNotFound)
}

func TestSessionRepository_Delete(t *testing.T) {
	repo := newSessionRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveSession(ctx, models.Session{Login: "storekeeper", Token: "t", CreatedAt: time.Now()}))
	require.NoError(t, repo.DeleteSession(ctx))

	_, err := repo.GetSession(ctx)
	assert.ErrorIs(t, err, ErrLocalSessionNotFound)

	// удаление пустой сессии не считается ошибкой
	assert.NoError(t, repo.DeleteSession(ctx))
}
