package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type fieldSpec struct {
	label       string
	placeholder string
	value       string
	secret      bool
}

type formField struct {
	label string
	input textinput.Model
}

// form is a vertical stack of text inputs. Enter advances to the next field
// and submits from the last one.
type form struct {
	title  string
	fields []formField
	focus  int
	err    string
	busy   bool
}

func newForm(title string, specs ...fieldSpec) form {
	f := form{title: title, fields: make([]formField, 0, len(specs))}
	for _, spec := range specs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = spec.placeholder
		in.CharLimit = 256
		in.Width = 40
		in.SetValue(spec.value)
		if spec.secret {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		f.fields = append(f.fields, formField{label: spec.label, input: in})
	}
	f.focusField(0)
	return f
}

func (f *form) focusField(i int) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	i = (i + len(f.fields)) % len(f.fields)
	var cmd tea.Cmd
	for idx := range f.fields {
		if idx == i {
			cmd = f.fields[idx].input.Focus()
		} else {
			f.fields[idx].input.Blur()
		}
	}
	f.focus = i
	return cmd
}

// update routes msg to the focused input. submitted is true when enter was
// pressed on the last field.
func (f form) update(msg tea.Msg, keys keyMap) (form, tea.Cmd, bool) {
	if f.busy {
		return f, nil, false
	}
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, keys.Submit):
			if f.focus == len(f.fields)-1 {
				return f, nil, true
			}
			return f, f.focusField(f.focus + 1), false
		case key.Matches(k, keys.NextField):
			return f, f.focusField(f.focus + 1), false
		case key.Matches(k, keys.PrevField):
			return f, f.focusField(f.focus - 1), false
		}
	}
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return f, cmd, false
}

func (f form) value(i int) string {
	if i < 0 || i >= len(f.fields) {
		return ""
	}
	return f.fields[i].input.Value()
}

func (f form) view(styles Styles, width int) string {
	labelWidth := 0
	for _, field := range f.fields {
		labelWidth = max(labelWidth, len(field.label))
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render(f.title))
	b.WriteString("\n\n")
	for i, field := range f.fields {
		label := padRight(field.label, labelWidth)
		if i == f.focus {
			b.WriteString(styles.AccentText.Render("▸ " + label))
		} else {
			b.WriteString(styles.MutedText.Render("  " + label))
		}
		b.WriteString("  ")
		b.WriteString(field.input.View())
		b.WriteString("\n")
	}
	if f.busy {
		b.WriteString("\n")
		b.WriteString(styles.InfoText.Render("Working..."))
	}
	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(styles.DangerText.Render(truncate(f.err, max(width-4, 10))))
	}
	return styles.Panel.Render(b.String())
}
