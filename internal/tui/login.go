// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Maxim Krupin

package tui

import (
	"context"
	"strings"

	"github.com/MKrupin/go-stock-keeper/internal/service"
	"github.com/MKrupin/go-stock-keeper/models"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// loginModel is the authentication screen: two text inputs and an async
// login command. Authentication needs the server, so this screen is the one
// part of the client that cannot work offline.
type loginModel struct {
	ctx  context.Context
	auth service.AuthService

	inputs     []textinput.Model
	focus      int
	submitting bool
	errMsg     string

	authenticated bool
	quitByUser    bool
}

func newLoginModel(ctx context.Context, auth service.AuthService) loginModel {
	login := textinput.New()
	login.Placeholder = "login"
	login.CharLimit = 64
	login.Width = 40
	login.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 256
	password.Width = 40
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	return loginModel{
		ctx:    ctx,
		auth:   auth,
		inputs: []textinput.Model{login, password},
	}
}

func (m loginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m loginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if done, ok := msg.(loginDoneMsg); ok {
		m.submitting = false
		if done.err != nil {
			m.errMsg = humanizeError(done.err)
			return m, nil
		}
		m.authenticated = true
		return m, tea.Quit
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "ctrl+c", "esc":
			m.quitByUser = true
			return m, tea.Quit
		case "tab", "down":
			m.moveFocus(1)
			return m, nil
		case "shift+tab", "up":
			m.moveFocus(-1)
			return m, nil
		case "enter":
			if m.submitting {
				return m, nil
			}

			login := strings.TrimSpace(m.inputs[0].Value())
			pass := m.inputs[1].Value()
			if login == "" || pass == "" {
				m.errMsg = "Логин и пароль обязательны"
				return m, nil
			}

			m.errMsg = ""
			m.submitting = true
			return m, m.cmdLogin(login, pass)
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m loginModel) View() string {
	var b strings.Builder
	b.WriteString("Поле    │ Значение\n")
	b.WriteString("────────┼────────────────────────────────────────────\n")
	b.WriteString("Логин   │ [" + m.inputs[0].View() + "]\n")
	b.WriteString("Пароль  │ [" + m.inputs[1].View() + "]\n")

	if m.submitting {
		b.WriteString("\n[Вход...]\n")
	} else {
		b.WriteString("\n[Войти]\n")
	}

	if m.errMsg != "" {
		b.WriteString("\n" + errorStyle.Render("Ошибка: "+m.errMsg))
	}

	return renderPage("ВХОД — GO STOCK KEEPER", strings.TrimRight(b.String(), "\n"), "tab: след. поле │ enter: войти │ esc: выход")
}

func (m *loginModel) moveFocus(delta int) {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
}

func (m loginModel) cmdLogin(login, password string) tea.Cmd {
	ctx := m.ctx
	auth := m.auth

	return func() tea.Msg {
		err := auth.Login(ctx, models.Credentials{Login: login, Password: password})
		return loginDoneMsg{err: err}
	}
}
