package tui

import (
	"context"
	"errors"

	"github.com/MKrupin/go-stock-keeper/internal/logger"
	"github.com/MKrupin/go-stock-keeper/internal/service"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUserQuit = errors.New("вышел из программы")

type TUI struct {
	services *service.ClientServices
}

func New(services *service.ClientServices, _ *logger.Logger) (*TUI, error) {
	return &TUI{services: services}, nil
}

// LoginFlow runs the authentication program. Returns ErrUserQuit when the
// user leaves without logging in.
func (t *TUI) LoginFlow(ctx context.Context) error {
	model := newLoginModel(ctx, t.services.AuthService)
	finalModel, runErr := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if runErr != nil {
		return runErr
	}

	result, ok := finalModel.(loginModel)
	if !ok {
		return tea.ErrProgramKilled
	}
	if result.quitByUser || !result.authenticated {
		return ErrUserQuit
	}
	return nil
}

// MainLoop runs the authenticated session program until the user quits or
// logs out. logout=true means the caller should clear local state and show
// the login flow again.
func (t *TUI) MainLoop(ctx context.Context) (logout bool, err error) {
	model := newMainLoopModel(ctx, t.services)
	finalModel, runErr := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if runErr != nil {
		return false, runErr
	}

	result, ok := finalModel.(mainLoopModel)
	if !ok {
		return false, tea.ErrProgramKilled
	}
	return result.logout, nil
}
