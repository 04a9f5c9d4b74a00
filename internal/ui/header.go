package ui

import (
	"fmt"
	"strings"
)

func (m Model) renderHeader() string {
	styles := m.theme.Styles()

	segments := []string{styles.Logo.Render("Pick Me Up"), styles.Text.Render(m.screen.title())}
	switch m.screen {
	case screenFeed, screenAccount:
		segments = append(segments,
			styles.MutedText.Render(fmt.Sprintf("%d items", m.list.Len())),
			styles.MutedText.Render("sort: "+m.order.String()))
	}
	if m.loading {
		segments = append(segments, styles.InfoText.Render("loading"))
	}
	if id, ok := m.userID(); ok {
		segments = append(segments, styles.FaintText.Render(fmt.Sprintf("user #%d", id)))
	}
	return styles.Header.Width(m.width).Render(strings.Join(segments, "  "))
}

func (m Model) renderNotice() string {
	if m.notice.text == "" {
		return ""
	}
	styles := m.theme.Styles()
	style := styles.InfoText
	switch m.notice.level {
	case noticeSuccess:
		style = styles.SuccessText
	case noticeWarning:
		style = styles.WarningText
	case noticeError:
		style = styles.DangerText
	}
	return " " + style.Render(truncate(m.notice.text, max(m.width-2, 10)))
}

// renderCommandBar renders the key hints for the current screen.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()

	type cmd struct{ key, desc string }
	var commands []cmd
	switch m.screen {
	case screenLogin:
		commands = []cmd{{"enter", "Next/Submit"}, {"tab", "Field"}, {"ctrl+r", "Register"}, {"ctrl+c", "Quit"}}
	case screenRegister, screenNewItem, screenProfile:
		commands = []cmd{{"enter", "Next/Submit"}, {"tab", "Field"}, {"esc", "Cancel"}}
	case screenActivity:
		commands = []cmd{{"r", "Reload"}, {"esc", "Back"}, {"?", "More"}}
	case screenDetail:
		if m.composing {
			commands = []cmd{{"enter", "Send"}, {"esc", "Cancel"}}
		} else {
			commands = []cmd{{"space", "Toggle"}, {"c", "Comment"}, {"r", "Reload"}, {"esc", "Back"}, {"?", "More"}}
		}
	default:
		commands = []cmd{
			{"space", "Toggle"},
			{"enter", "Open"},
			{"s", m.order.String()},
			{"f/a", "Feed/Mine"},
			{"n", "Post"},
			{"r", "Refresh"},
		}
		if m.screen == screenAccount {
			commands = append(commands, cmd{"p", "Profile"})
		}
		commands = append(commands, cmd{"L", "Logout"}, cmd{"?", "More"})
	}

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments, styles.AccentText.Render(c.key)+":"+styles.MutedText.Render(c.desc))
	}
	segments = append(segments, styles.AccentText.Render("T")+":"+styles.FaintText.Render(m.theme.Name))
	return styles.Footer.Width(m.width).Render(strings.Join(segments, "  "))
}

func (m Model) renderForm() string {
	styles := m.theme.Styles()
	return "\n" + m.form.view(styles, m.width)
}
