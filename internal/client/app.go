package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKrupin/go-stock-keeper/internal/logger"
	"github.com/MKrupin/go-stock-keeper/internal/service"
	"github.com/MKrupin/go-stock-keeper/internal/tui"
)

// App ties the TUI flows and the background sync job into one process
// lifecycle: restore or establish a session, start the job, run the main
// loop, and on logout wipe local state and return to the login screen.
type App struct {
	services *service.ClientServices
	tui      *tui.TUI
	logger   *logger.Logger
}

func NewApp(services *service.ClientServices, ui *tui.TUI, log *logger.Logger) (*App, error) {
	if services == nil || ui == nil {
		return nil, errors.New("client app: nil dependency")
	}
	return &App{services: services, tui: ui, logger: log}, nil
}

func (a *App) Run() error {
	ctx := context.Background()

	_, err := a.services.AuthService.RestoreSession(ctx)
	switch {
	case err == nil:
		a.logger.Info().Str("func", "Run").Msg("session restored")
	case errors.Is(err, service.ErrNoSession), errors.Is(err, service.ErrSessionExpired):
		if loginErr := a.tui.LoginFlow(ctx); loginErr != nil {
			if errors.Is(loginErr, tui.ErrUserQuit) {
				return nil
			}
			return loginErr
		}
	default:
		return fmt.Errorf("restore session: %w", err)
	}

	// Первый цикл запускает сам job — он подхватит мутации, накопленные
	// за время, пока приложение не работало.
	a.services.SyncJob.Start(ctx)
	defer a.services.SyncJob.Stop()

	logout, err := a.tui.MainLoop(ctx)
	if err != nil {
		return err
	}
	if logout {
		a.services.SyncJob.Stop()
		if err := a.services.AuthService.Logout(ctx); err != nil {
			return fmt.Errorf("logout: %w", err)
		}
		return a.Run()
	}

	return nil
}
