// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Maxim Krupin

package tui

import (
	"context"
	"time"

	"github.com/MKrupin/go-stock-keeper/internal/service"
	"github.com/MKrupin/go-stock-keeper/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type mainScreen int

const (
	screenQueue mainScreen = iota
	screenData
	screenAdd
)

// mainLoopModel is the root model of the authenticated session: the queue
// screen, the cached-data browser and the enqueue forms, under a shared
// connectivity status bar. All reads come from the local cache; all writes
// go through the mutation queue, so every screen works offline.
type mainLoopModel struct {
	ctx      context.Context
	services *service.ClientServices

	screen mainScreen
	status models.SyncStatus
	spin   spinner.Model

	queueRows []service.MutationView
	queueIdx  int

	data     dataLoadedMsg
	dataKind dataKind
	dataIdx  int

	add addFlow

	statusLine string
	errMsg     string
	logout     bool
}

func newMainLoopModel(ctx context.Context, services *service.ClientServices) mainLoopModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot

	return mainLoopModel{
		ctx:      ctx,
		services: services,
		spin:     s,
	}
}

func (m mainLoopModel) Init() tea.Cmd {
	return tea.Batch(
		m.cmdLoadOverview(),
		m.cmdLoadQueue(),
		m.cmdLoadData(),
		m.cmdWaitStateChange(),
		m.spin.Tick,
	)
}

func (m mainLoopModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case overviewLoadedMsg:
		if msg.err == nil {
			m.status = msg.status
		}
		return m, nil

	case stateChangedMsg:
		// Состояние двигает фоновый sync job — перечитываем всё и снова
		// подписываемся на следующий сигнал.
		return m, tea.Batch(
			m.cmdLoadOverview(),
			m.cmdLoadQueue(),
			m.cmdLoadData(),
			m.cmdWaitStateChange(),
		)

	case queueLoadedMsg:
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}
		m.queueRows = msg.rows
		m.queueIdx = clampIndex(m.queueIdx, len(m.queueRows))
		return m, nil

	case dataLoadedMsg:
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}
		m.data = msg
		m.dataIdx = clampIndex(m.dataIdx, m.dataLen())
		return m, nil

	case enqueueDoneMsg:
		m.add.saving = false
		if msg.err != nil {
			m.add.errMsg = humanizeError(msg.err)
			return m, nil
		}
		m.screen = screenQueue
		m.add = addFlow{}
		if msg.tempID != "" {
			m.statusLine = "Добавлено в очередь, временный ID: " + msg.tempID
		} else {
			m.statusLine = "Добавлено в очередь"
		}
		m.errMsg = ""
		return m, tea.Batch(m.cmdLoadQueue(), m.cmdLoadOverview(), m.cmdClearStatusLater())

	case queueActionDoneMsg:
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}
		m.errMsg = ""
		return m, tea.Batch(m.cmdLoadQueue(), m.cmdLoadOverview())

	case copiedMsg:
		if msg.err != nil {
			m.errMsg = "Ошибка копирования: " + msg.err.Error()
			return m, nil
		}
		m.statusLine = "Скопировано"
		return m, m.cmdClearStatusLater()

	case clearStatusMsg:
		m.statusLine = ""
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.screen == screenAdd {
			return m.updateAddFlow(msg)
		}
		return m, nil
	}

	if keyMsg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.screen == screenAdd {
		return m.updateAddFlow(msg)
	}

	switch {
	case key.Matches(keyMsg, keys.quit):
		return m, tea.Quit
	case key.Matches(keyMsg, keys.logout):
		m.logout = true
		return m, tea.Quit
	case key.Matches(keyMsg, keys.tab):
		if m.screen == screenQueue {
			m.screen = screenData
		} else {
			m.screen = screenQueue
		}
		m.errMsg = ""
		return m, nil
	case key.Matches(keyMsg, keys.newOp):
		m.screen = screenAdd
		m.add = newAddFlow()
		m.errMsg = ""
		return m, nil
	case key.Matches(keyMsg, keys.sync):
		m.services.SyncJob.SyncNow()
		m.statusLine = "Синхронизация запрошена"
		return m, m.cmdClearStatusLater()
	}

	switch m.screen {
	case screenQueue:
		return m.updateQueueScreen(keyMsg)
	case screenData:
		return m.updateDataScreen(keyMsg)
	}
	return m, nil
}

func (m mainLoopModel) View() string {
	switch m.screen {
	case screenAdd:
		return m.viewAddFlow()
	case screenData:
		return m.viewDataScreen()
	default:
		return m.viewQueueScreen()
	}
}

// header is the shared first block of every main-mode screen.
func (m mainLoopModel) header() string {
	out := renderStatusBar(m.status)
	if m.status.IsSyncing {
		out = m.spin.View() + " " + out
	}
	out += "\n"

	if m.statusLine != "" {
		out += statusStyle.Render(m.statusLine) + "\n"
	}
	if m.errMsg != "" {
		out += errorStyle.Render("Ошибка: "+m.errMsg) + "\n"
	}
	return out
}

// ── commands ──

func (m mainLoopModel) cmdLoadOverview() tea.Cmd {
	ctx := m.ctx
	svc := m.services.Status

	return func() tea.Msg {
		status, err := svc.Overview(ctx)
		return overviewLoadedMsg{status: status, err: err}
	}
}

func (m mainLoopModel) cmdLoadQueue() tea.Cmd {
	ctx := m.ctx
	svc := m.services.Status

	return func() tea.Msg {
		rows, err := svc.QueueView(ctx)
		return queueLoadedMsg{rows: rows, err: err}
	}
}

func (m mainLoopModel) cmdLoadData() tea.Cmd {
	ctx := m.ctx
	svc := m.services.DataService

	return func() tea.Msg {
		var out dataLoadedMsg
		if out.items, out.err = svc.Items(ctx); out.err != nil {
			return out
		}
		if out.locations, out.err = svc.Locations(ctx); out.err != nil {
			return out
		}
		if out.containers, out.err = svc.Containers(ctx); out.err != nil {
			return out
		}
		if out.inventory, out.err = svc.Inventory(ctx); out.err != nil {
			return out
		}
		out.categories, out.err = svc.Categories(ctx)
		return out
	}
}

// cmdWaitStateChange blocks on the shared state's change signal. The channel
// coalesces, so a burst of engine progress produces a single redraw.
func (m mainLoopModel) cmdWaitStateChange() tea.Cmd {
	ctx := m.ctx
	state := m.services.State

	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case <-state.Changed():
			return stateChangedMsg{}
		}
	}
}

func (m mainLoopModel) cmdClearStatusLater() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func clampIndex(idx, length int) int {
	if idx >= length {
		idx = length - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}
