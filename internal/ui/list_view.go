package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/pickup/internal/listing"
	"github.com/five82/pickup/internal/registry"
)

// visibleItems returns the list in the current sort order.
func (m Model) visibleItems() []registry.Item {
	return listing.Sorted(m.list.Items(), m.order)
}

func (m Model) selectedItem() (registry.Item, bool) {
	items := m.visibleItems()
	if m.selected < 0 || m.selected >= len(items) {
		return registry.Item{}, false
	}
	return items[m.selected], true
}

func (m *Model) clampSelection() {
	n := m.list.Len()
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m *Model) selectItem(id int64) {
	for i, item := range m.visibleItems() {
		if item.ID == id {
			m.selected = i
			return
		}
	}
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := m.list.Len()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selected < n-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selected = max(n-1, 0)
	case key.Matches(msg, m.keys.CycleSort):
		current, ok := m.selectedItem()
		m.order = m.order.Next()
		if ok {
			m.selectItem(current.ID)
		}
		m.notify(noticeInfo, "Sorted by "+m.order.String())
		m.savePrefs()
	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, m.refreshCmd()
	case key.Matches(msg, m.keys.Profile):
		if m.screen != screenAccount || m.loader == nil {
			return m, nil
		}
		m.screen = screenProfile
		m.form = profileForm(m.loader.Profile())
	case key.Matches(msg, m.keys.Open):
		item, ok := m.selectedItem()
		if !ok {
			return m, nil
		}
		return m.openDetail(item.ID)
	case key.Matches(msg, m.keys.Toggle):
		item, ok := m.selectedItem()
		if !ok {
			return m, nil
		}
		return m.toggleItem(item)
	}
	return m, nil
}

// toggleItem flips an owned item's availability through the synchronizer.
func (m Model) toggleItem(item registry.Item) (tea.Model, tea.Cmd) {
	userID, ok := m.userID()
	if !ok {
		return m.toLogin("User not logged in")
	}
	if item.OwnerID != userID {
		m.notify(noticeWarning, "Only the owner can change availability")
		return m, nil
	}
	if m.toggler == nil {
		return m, nil
	}
	return m, m.toggleCmd(item.ID, !item.Availability)
}

func (m Model) renderList(height int) string {
	styles := m.theme.Styles()
	items := m.visibleItems()

	if len(items) == 0 {
		msg := "No items yet. Press n to post one."
		if m.loading {
			msg = "Loading items..."
		}
		return styles.MutedText.Render("  " + msg)
	}

	var b strings.Builder
	rows := height
	if m.screen == screenAccount {
		b.WriteString(m.renderProfileLine(styles))
		b.WriteString("\n")
		rows--
	}
	rows = max(rows, 1)

	start := 0
	if m.selected >= rows {
		start = m.selected - rows + 1
	}
	end := min(start+rows, len(items))

	userID, _ := m.userID()
	for i := start; i < end; i++ {
		line := m.renderRow(items[i], userID, styles)
		if i == m.selected {
			line = styles.Selected.Width(m.width).Render(line)
		}
		b.WriteString(line)
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderRow(item registry.Item, userID int64, styles Styles) string {
	badge := "○ Unavailable"
	if item.Availability {
		badge = "● Available  "
	}
	owner := ""
	if item.OwnerID == userID {
		owner = "you"
	}

	titleWidth := 24
	detailWidth := max(m.width-titleWidth-32, 8)
	return fmt.Sprintf("%s %s  %s  %s  %s",
		styles.AvailabilityStyle(item.Availability).Render(badge),
		styles.Text.Render(padRight(truncate(item.Title, titleWidth), titleWidth)),
		styles.MutedText.Render(padRight(truncate(singleLine(item.Details), detailWidth), detailWidth)),
		styles.FaintText.Render(padRight(age(m.now(), item.ParsedCreatedAt()), 6)),
		styles.AccentText.Render(owner),
	)
}

func (m Model) renderProfileLine(styles Styles) string {
	if m.loader == nil {
		return ""
	}
	user := m.loader.Profile()
	if user.Username == "" && user.Email == "" {
		return styles.MutedText.Render("  Loading profile...")
	}
	return "  " + styles.Title.Render(user.Username) + "  " + styles.MutedText.Render(user.Email)
}
