package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/MKrupin/go-stock-keeper/models"
)

const uiDivider = "──────────────────────────────────────────────────────"

func renderPage(title, data, hotKeys string) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString("  ")
	b.WriteString(uiDivider)
	b.WriteString("\n\n")

	if strings.TrimSpace(data) != "" {
		for _, line := range strings.Split(data, "\n") {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	} else {
		b.WriteString("  -\n")
	}

	b.WriteString("\n")
	b.WriteString("  ")
	b.WriteString(uiDivider)
	b.WriteString("\n")

	if strings.TrimSpace(hotKeys) != "" {
		b.WriteString("  ")
		b.WriteString(helpStyle.Render(hotKeys))
		b.WriteString("\n")
	}
	b.WriteString("  ")
	b.WriteString(helpStyle.Render("ctrl+c: выход"))

	return b.String()
}

// renderStatusBar builds the one-line connectivity summary shown on top of
// every main-mode screen.
func renderStatusBar(s models.SyncStatus) string {
	var b strings.Builder

	if s.IsOnline {
		b.WriteString(onlineStyle.Render("● онлайн"))
	} else {
		b.WriteString(offlineStyle.Render("● офлайн"))
	}

	if s.IsSyncing {
		b.WriteString(" │ ")
		b.WriteString(syncingStyle.Render("синхронизация..."))
	}

	b.WriteString(fmt.Sprintf(" │ в очереди: %d", s.PendingCount))

	b.WriteString(" │ синхр.: ")
	if s.LastSync == nil {
		b.WriteString("никогда")
	} else {
		b.WriteString(s.LastSync.Local().Format("02.01 15:04:05"))
	}

	return b.String()
}

func fitText(v string, max int) string {
	if max <= 0 || len([]rune(v)) <= max {
		return v
	}
	r := []rune(v)
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

func padText(v string, width int) string {
	v = fitText(v, width)
	if pad := width - len([]rune(v)); pad > 0 {
		return v + strings.Repeat(" ", pad)
	}
	return v
}

func formatWhen(t time.Time) string {
	return t.Local().Format("02.01 15:04")
}
