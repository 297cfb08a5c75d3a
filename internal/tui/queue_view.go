package tui

import (
	"fmt"
	"strings"

	"github.com/MKrupin/go-stock-keeper/internal/service"
	"github.com/MKrupin/go-stock-keeper/models"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m mainLoopModel) updateQueueScreen(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(keyMsg, keys.up):
		if m.queueIdx > 0 {
			m.queueIdx--
		}
	case key.Matches(keyMsg, keys.down):
		if m.queueIdx < len(m.queueRows)-1 {
			m.queueIdx++
		}
	case key.Matches(keyMsg, keys.retry):
		row, ok := m.currentQueueRow()
		if !ok {
			return m, nil
		}
		if !row.Retryable {
			m.statusLine = "Повторить можно только мутацию со статусом «ошибка»"
			return m, m.cmdClearStatusLater()
		}
		return m, m.cmdRetry(row.ID)
	case key.Matches(keyMsg, keys.cancel):
		row, ok := m.currentQueueRow()
		if !ok {
			return m, nil
		}
		return m, m.cmdCancel(row.ID)
	case key.Matches(keyMsg, keys.clear):
		if len(m.queueRows) == 0 {
			return m, nil
		}
		return m, m.cmdClearQueue()
	case key.Matches(keyMsg, keys.copy):
		row, ok := m.currentQueueRow()
		if !ok {
			return m, nil
		}
		return m, cmdCopy(fmt.Sprintf("%d", row.ID))
	}
	return m, nil
}

func (m mainLoopModel) viewQueueScreen() string {
	out := m.header() + "\n"

	if len(m.queueRows) == 0 {
		out += "Очередь пуста — все изменения на сервере."
		return renderPage("ОЧЕРЕДЬ ИЗМЕНЕНИЙ", strings.TrimRight(out, "\n"),
			"a: новая операция │ s: синхр. │ tab: данные │ L: разлогин")
	}

	out += "    Операция            │ Детали                     │ Статус   │ Попытки │ Создано\n"
	out += "  ──────────────────────┼────────────────────────────┼──────────┼─────────┼─────────────\n"

	for i, row := range m.queueRows {
		cursor := "  "
		if i == m.queueIdx {
			cursor = cursorStyle.Render("> ")
		}

		retries := fmt.Sprintf("%d/%d", row.RetryCount, models.MaxMutationRetries)
		line := fmt.Sprintf("%s%s │ %s │ %s │ %s │ %s",
			cursor,
			padText(row.Operation, 20),
			padText(row.Preview, 26),
			renderMutationStatus(row.Status, 8),
			padText(retries, 7),
			formatWhen(row.CreatedAt),
		)
		out += line + "\n"
	}

	return renderPage("ОЧЕРЕДЬ ИЗМЕНЕНИЙ", strings.TrimRight(out, "\n"),
		"r: повторить │ ctrl+d: убрать │ X: очистить всё │ c: копировать ID │ a: новая │ s: синхр. │ tab: данные │ L: разлогин")
}

func (m mainLoopModel) currentQueueRow() (service.MutationView, bool) {
	if m.queueIdx < 0 || m.queueIdx >= len(m.queueRows) {
		return service.MutationView{}, false
	}
	return m.queueRows[m.queueIdx], true
}

func (m mainLoopModel) cmdRetry(id int64) tea.Cmd {
	ctx := m.ctx
	svc := m.services.QueueService

	return func() tea.Msg {
		return queueActionDoneMsg{err: svc.Retry(ctx, id)}
	}
}

func (m mainLoopModel) cmdCancel(id int64) tea.Cmd {
	ctx := m.ctx
	svc := m.services.QueueService

	return func() tea.Msg {
		return queueActionDoneMsg{err: svc.Cancel(ctx, id)}
	}
}

func (m mainLoopModel) cmdClearQueue() tea.Cmd {
	ctx := m.ctx
	svc := m.services.QueueService

	return func() tea.Msg {
		return queueActionDoneMsg{err: svc.Clear(ctx)}
	}
}

func cmdCopy(text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: clipboard.WriteAll(text)}
	}
}
