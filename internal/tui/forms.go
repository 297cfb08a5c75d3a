package tui

import (
	"errors"
	"strconv"
	"strings"

	"github.com/MKrupin/go-stock-keeper/models"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type addStage int

const (
	addStageType addStage = iota
	addStageFields
)

// addFlow is the two-step enqueue form: pick an operation, fill its fields.
// Submission never waits for the network — the operation lands in the local
// queue and the form closes immediately.
type addFlow struct {
	stage   addStage
	typeIdx int
	op      models.OperationType
	inputs  []textinput.Model
	focus   int
	saving  bool
	errMsg  string
}

var addTypeOptions = []struct {
	op    models.OperationType
	label string
}{
	{models.OpCreateItem, "Новый товар"},
	{models.OpCreateLocation, "Новая локация"},
	{models.OpCreateContainer, "Новый контейнер"},
	{models.OpCreateInventory, "Новая запись остатка"},
	{models.OpAdjustStock, "Корректировка остатка"},
	{models.OpUpdateInventory, "Изменение записи остатка"},
}

func newAddFlow() addFlow {
	return addFlow{stage: addStageType}
}

func (m mainLoopModel) updateAddFlow(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.add.stage == addStageType {
		return m.updateAddType(msg)
	}
	return m.updateAddFields(msg)
}

func (m mainLoopModel) updateAddType(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		m.screen = screenQueue
		m.add = addFlow{}
		return m, nil
	case "up", "k":
		if m.add.typeIdx > 0 {
			m.add.typeIdx--
		}
	case "down", "j":
		if m.add.typeIdx < len(addTypeOptions)-1 {
			m.add.typeIdx++
		}
	case "1", "2", "3", "4", "5", "6":
		m.add.typeIdx = int(keyMsg.String()[0] - '1')
		m.selectAddType()
		return m, textinput.Blink
	case "enter":
		m.selectAddType()
		return m, textinput.Blink
	}

	return m, nil
}

func (m *mainLoopModel) selectAddType() {
	m.add.op = addTypeOptions[m.add.typeIdx].op
	m.add.stage = addStageFields
	m.add.errMsg = ""
	m.add.inputs = newOpInputs(m.add.op)
	m.add.focus = 0
}

func newOpInputs(op models.OperationType) []textinput.Model {
	var labels []string
	switch op {
	case models.OpCreateItem:
		labels = []string{"SKU", "Название", "Описание", "ID категории", "Штрихкод", "Ед. изм."}
	case models.OpCreateLocation:
		labels = []string{"Название", "Зона"}
	case models.OpCreateContainer:
		labels = []string{"Код", "ID локации"}
	case models.OpCreateInventory:
		labels = []string{"ID товара", "ID локации", "ID контейнера", "Количество"}
	case models.OpAdjustStock:
		labels = []string{"ID записи", "Дельта (+/-)"}
	case models.OpUpdateInventory:
		labels = []string{"ID записи", "ID локации", "ID контейнера", "Количество"}
	}

	inputs := make([]textinput.Model, 0, len(labels))
	for i, label := range labels {
		in := textinput.New()
		in.Placeholder = label
		in.CharLimit = 128
		in.Width = 40
		if i == 0 {
			in.Focus()
		}
		inputs = append(inputs, in)
	}
	return inputs
}

func (m mainLoopModel) updateAddFields(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			m.add.stage = addStageType
			m.add.errMsg = ""
			return m, nil
		case "tab", "down":
			m.add.inputs[m.add.focus].Blur()
			m.add.focus = (m.add.focus + 1) % len(m.add.inputs)
			m.add.inputs[m.add.focus].Focus()
			return m, nil
		case "shift+tab", "up":
			m.add.inputs[m.add.focus].Blur()
			m.add.focus = (m.add.focus - 1 + len(m.add.inputs)) % len(m.add.inputs)
			m.add.inputs[m.add.focus].Focus()
			return m, nil
		case "enter":
			if m.add.saving {
				return m, nil
			}
			cmd, err := m.buildEnqueueCmd()
			if err != nil {
				m.add.errMsg = err.Error()
				return m, nil
			}
			m.add.saving = true
			m.add.errMsg = ""
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.add.inputs[m.add.focus], cmd = m.add.inputs[m.add.focus].Update(msg)
	return m, cmd
}

// buildEnqueueCmd parses the form inputs into the operation payload and
// returns the async enqueue command. Field-level validation lives in the
// queue service; here only numeric fields are parsed.
func (m mainLoopModel) buildEnqueueCmd() (tea.Cmd, error) {
	ctx := m.ctx
	svc := m.services.QueueService
	val := func(i int) string { return strings.TrimSpace(m.add.inputs[i].Value()) }

	switch m.add.op {
	case models.OpCreateItem:
		p := models.CreateItemPayload{
			SKU: val(0), Name: val(1), Description: val(2),
			CategoryID: val(3), Barcode: val(4), Unit: val(5),
		}
		return func() tea.Msg {
			tempID, err := svc.CreateItem(ctx, p)
			return enqueueDoneMsg{tempID: tempID, err: err}
		}, nil

	case models.OpCreateLocation:
		p := models.CreateLocationPayload{Name: val(0), Zone: val(1)}
		return func() tea.Msg {
			tempID, err := svc.CreateLocation(ctx, p)
			return enqueueDoneMsg{tempID: tempID, err: err}
		}, nil

	case models.OpCreateContainer:
		p := models.CreateContainerPayload{Code: val(0), LocationID: val(1)}
		return func() tea.Msg {
			tempID, err := svc.CreateContainer(ctx, p)
			return enqueueDoneMsg{tempID: tempID, err: err}
		}, nil

	case models.OpCreateInventory:
		qty, err := parseQty(val(3))
		if err != nil {
			return nil, err
		}
		p := models.CreateInventoryPayload{
			ItemID: val(0), LocationID: val(1), ContainerID: val(2), Quantity: qty,
		}
		return func() tea.Msg {
			tempID, err := svc.CreateInventory(ctx, p)
			return enqueueDoneMsg{tempID: tempID, err: err}
		}, nil

	case models.OpAdjustStock:
		delta, err := parseQty(val(1))
		if err != nil {
			return nil, err
		}
		p := models.AdjustStockPayload{ID: val(0), Adjustment: delta}
		return func() tea.Msg {
			return enqueueDoneMsg{err: svc.AdjustStock(ctx, p)}
		}, nil

	case models.OpUpdateInventory:
		p := models.UpdateInventoryPayload{ID: val(0), LocationID: val(1), ContainerID: val(2)}
		if raw := val(3); raw != "" {
			qty, err := parseQty(raw)
			if err != nil {
				return nil, err
			}
			p.Quantity = &qty
		}
		return func() tea.Msg {
			return enqueueDoneMsg{err: svc.UpdateInventory(ctx, p)}
		}, nil
	}

	return nil, errUnknownForm
}

var (
	errUnknownForm = errors.New("неизвестная операция")
	errNotANumber  = errors.New("нужно целое число")
)

func parseQty(raw string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimPrefix(raw, "+"), 10, 64)
	if err != nil {
		return 0, errNotANumber
	}
	return n, nil
}

func (m mainLoopModel) viewAddFlow() string {
	if m.add.stage == addStageType {
		out := m.header() + "\n"
		for i, opt := range addTypeOptions {
			cursor := "  "
			if i == m.add.typeIdx {
				cursor = cursorStyle.Render("> ")
			}
			out += cursor + strconv.Itoa(i+1) + ". " + opt.label + "\n"
		}
		return renderPage("НОВАЯ ОПЕРАЦИЯ", strings.TrimRight(out, "\n"),
			"↑/↓ или 1-6: выбор │ enter: далее │ esc: назад")
	}

	out := m.header() + "\n"
	out += titleStyle.Render(addTypeOptions[m.add.typeIdx].label) + "\n\n"
	for _, in := range m.add.inputs {
		out += padText(in.Placeholder, 14) + " │ [" + in.View() + "]\n"
	}

	if m.add.saving {
		out += "\n[Сохранение...]\n"
	} else {
		out += "\n[В очередь]\n"
	}

	if m.add.errMsg != "" {
		out += "\n" + errorStyle.Render("Ошибка: "+m.add.errMsg)
	}

	return renderPage("НОВАЯ ОПЕРАЦИЯ", strings.TrimRight(out, "\n"),
		"tab: след. поле │ enter: в очередь │ esc: назад")
}
