package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/pickup/internal/logging"
)

// renderActivity shows the newest log records that fit, newest at the bottom.
func (m Model) renderActivity(height int) string {
	styles := m.theme.Styles()
	switch {
	case m.activityErr != "":
		return styles.DangerText.Render("  Could not read log: " + m.activityErr)
	case m.logPath == "":
		return styles.MutedText.Render("  Logging to file is disabled.")
	case len(m.activity) == 0:
		return styles.MutedText.Render("  No activity recorded yet.")
	}

	entries := m.activity
	if len(entries) > height {
		entries = entries[len(entries)-height:]
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, m.renderEntry(e, styles))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderEntry(e logging.Entry, styles Styles) string {
	width := max(m.width-2, 20)
	if e.Raw != "" {
		return " " + styles.FaintText.Render(truncate(e.Raw, width))
	}

	var level lipgloss.Style
	switch e.Level {
	case "ERROR":
		level = styles.DangerText
	case "WARN":
		level = styles.WarningText
	case "DEBUG":
		level = styles.FaintText
	default:
		level = styles.InfoText
	}

	stamp := "--:--:--"
	if !e.Time.IsZero() {
		stamp = e.Time.Local().Format("15:04:05")
	}
	rest := e.Message
	if len(e.Attrs) > 0 {
		rest += "  " + strings.Join(e.Attrs, " ")
	}
	return " " + styles.FaintText.Render(stamp) + " " +
		level.Render(padRight(e.Level, 5)) + " " +
		styles.Text.Render(truncate(rest, max(width-16, 10)))
}
