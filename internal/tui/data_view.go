package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type dataKind int

const (
	kindItems dataKind = iota
	kindLocations
	kindContainers
	kindInventory
	kindCategories
	dataKindCount
)

func (k dataKind) title() string {
	switch k {
	case kindItems:
		return "Товары"
	case kindLocations:
		return "Локации"
	case kindContainers:
		return "Контейнеры"
	case kindInventory:
		return "Остатки"
	case kindCategories:
		return "Категории"
	}
	return "?"
}

func (m mainLoopModel) updateDataScreen(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(keyMsg, keys.up):
		if m.dataIdx > 0 {
			m.dataIdx--
		}
	case key.Matches(keyMsg, keys.down):
		if m.dataIdx < m.dataLen()-1 {
			m.dataIdx++
		}
	case key.Matches(keyMsg, keys.left):
		m.dataKind = (m.dataKind - 1 + dataKindCount) % dataKindCount
		m.dataIdx = 0
	case key.Matches(keyMsg, keys.right):
		m.dataKind = (m.dataKind + 1) % dataKindCount
		m.dataIdx = 0
	case key.Matches(keyMsg, keys.copy):
		// Копирование ID кэшированной сущности — чтобы сослаться на неё
		// в форме новой операции.
		if id, ok := m.currentDataID(); ok {
			return m, cmdCopy(id)
		}
	}
	return m, nil
}

func (m mainLoopModel) viewDataScreen() string {
	out := m.header() + "\n"

	var tabs []string
	for k := dataKind(0); k < dataKindCount; k++ {
		label := k.title()
		if k == m.dataKind {
			label = titleStyle.Render("[" + label + "]")
		}
		tabs = append(tabs, label)
	}
	out += strings.Join(tabs, "  ") + "\n\n"

	rows := m.dataRows()
	if len(rows) == 0 {
		out += "Нет данных — выполните синхронизацию."
	}
	for i, row := range rows {
		cursor := "  "
		if i == m.dataIdx {
			cursor = cursorStyle.Render("> ")
		}
		out += cursor + row + "\n"
	}

	return renderPage("ЛОКАЛЬНЫЕ ДАННЫЕ", strings.TrimRight(out, "\n"),
		"←/→: раздел │ c: копировать ID │ a: новая операция │ s: синхр. │ tab: очередь │ L: разлогин")
}

func (m mainLoopModel) dataLen() int {
	switch m.dataKind {
	case kindItems:
		return len(m.data.items)
	case kindLocations:
		return len(m.data.locations)
	case kindContainers:
		return len(m.data.containers)
	case kindInventory:
		return len(m.data.inventory)
	case kindCategories:
		return len(m.data.categories)
	}
	return 0
}

func (m mainLoopModel) dataRows() []string {
	var rows []string
	switch m.dataKind {
	case kindItems:
		for _, it := range m.data.items {
			rows = append(rows, fmt.Sprintf("%s │ %s │ %s",
				padText(it.SKU, 14), padText(it.Name, 28), padText(it.ID, 36)))
		}
	case kindLocations:
		for _, loc := range m.data.locations {
			rows = append(rows, fmt.Sprintf("%s │ %s │ %s",
				padText(loc.Name, 22), padText(loc.Zone, 10), padText(loc.ID, 36)))
		}
	case kindContainers:
		for _, c := range m.data.containers {
			rows = append(rows, fmt.Sprintf("%s │ %s │ %s",
				padText(c.Code, 14), padText(c.LocationID, 36), padText(c.ID, 36)))
		}
	case kindInventory:
		for _, rec := range m.data.inventory {
			rows = append(rows, fmt.Sprintf("%s │ %6d шт │ %s",
				padText(m.itemName(rec.ItemID), 28), rec.Quantity, padText(rec.ID, 36)))
		}
	case kindCategories:
		for _, cat := range m.data.categories {
			rows = append(rows, fmt.Sprintf("%s │ %s",
				padText(cat.Name, 28), padText(cat.ID, 36)))
		}
	}
	return rows
}

func (m mainLoopModel) currentDataID() (string, bool) {
	if m.dataIdx < 0 || m.dataIdx >= m.dataLen() {
		return "", false
	}
	switch m.dataKind {
	case kindItems:
		return m.data.items[m.dataIdx].ID, true
	case kindLocations:
		return m.data.locations[m.dataIdx].ID, true
	case kindContainers:
		return m.data.containers[m.dataIdx].ID, true
	case kindInventory:
		return m.data.inventory[m.dataIdx].ID, true
	case kindCategories:
		return m.data.categories[m.dataIdx].ID, true
	}
	return "", false
}

// itemName resolves an item reference for the inventory view; falls back to
// the raw ID for temp references the cache does not know yet.
func (m mainLoopModel) itemName(itemID string) string {
	for _, it := range m.data.items {
		if it.ID == itemID {
			return it.Name
		}
	}
	return itemID
}
