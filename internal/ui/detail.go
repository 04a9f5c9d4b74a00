package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) openDetail(itemID int64) (tea.Model, tea.Cmd) {
	m.back = m.listScreen()
	m.screen = screenDetail
	m.detailID = itemID
	m.comments = nil
	m.commentsErr = ""
	m.composing = false
	return m, m.commentsCmd(itemID)
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.screen = m.back
		m.selectItem(m.detailID)
		return m, nil
	case key.Matches(msg, m.keys.Toggle):
		item, ok := m.list.Get(m.detailID)
		if !ok {
			m.notify(noticeWarning, "Item is no longer in this list")
			return m, nil
		}
		return m.toggleItem(item)
	case key.Matches(msg, m.keys.Refresh):
		return m, m.commentsCmd(m.detailID)
	case key.Matches(msg, m.keys.Comment):
		if m.poster == nil {
			return m, nil
		}
		m.composing = true
		m.commentInput.SetValue("")
		return m, m.commentInput.Focus()
	}
	return m, nil
}

func (m Model) handleComposeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.composing = false
		m.commentInput.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		text := strings.TrimSpace(m.commentInput.Value())
		if text == "" {
			return m, nil
		}
		m.composing = false
		m.commentInput.Blur()
		return m, m.commentCmd(m.detailID, text)
	}
	var cmd tea.Cmd
	m.commentInput, cmd = m.commentInput.Update(msg)
	return m, cmd
}

func (m Model) renderDetail(height int) string {
	styles := m.theme.Styles()
	item, ok := m.list.Get(m.detailID)
	if !ok {
		return styles.MutedText.Render("  Item is no longer in this list. Press esc to go back.")
	}

	userID, _ := m.userID()
	owner := fmt.Sprintf("user #%d", item.OwnerID)
	if item.OwnerID == userID {
		owner = "you"
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render(item.Title))
	b.WriteString("  ")
	b.WriteString(styles.AvailabilityStyle(item.Availability).Render(item.AvailabilityLabel()))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render(item.Details))
	b.WriteString("\n\n")

	rows := [][2]string{
		{"Posted by", owner},
		{"Posted", age(m.now(), item.ParsedCreatedAt())},
		{"Location", fmt.Sprintf("%.5f, %.5f", item.Latitude, item.Longitude)},
		{"General", yesNo(item.IsGeneral)},
	}
	if item.ImageURL != "" {
		rows = append(rows, [2]string{"Photo", item.ImageURL})
	}
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		b.WriteString(styles.MutedText.Render(padRight(row[0], 10)))
		b.WriteString(" ")
		b.WriteString(styles.Text.Render(row[1]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.AccentText.Render(fmt.Sprintf("Comments (%d)", len(m.comments))))
	b.WriteString("\n")
	if m.composing {
		b.WriteString(styles.AccentText.Render("> "))
		b.WriteString(m.commentInput.View())
		b.WriteString("\n")
	}
	switch {
	case m.commentsErr != "":
		b.WriteString(styles.DangerText.Render("Could not load comments: " + m.commentsErr))
	case len(m.comments) == 0:
		b.WriteString(styles.FaintText.Render("No comments yet. Press c to add one."))
	default:
		for _, c := range m.comments {
			name := c.Username
			if name == "" {
				name = fmt.Sprintf("user #%d", c.UserID)
			}
			b.WriteString(styles.InfoText.Render(name))
			if when := age(m.now(), c.ParsedCreatedAt()); when != "" {
				b.WriteString(styles.FaintText.Render(" · " + when))
			}
			b.WriteString("\n  ")
			b.WriteString(styles.Text.Render(truncate(singleLine(c.Text), max(m.width-4, 20))))
			b.WriteString("\n")
		}
	}
	return fitHeight(strings.TrimRight(b.String(), "\n"), height)
}
