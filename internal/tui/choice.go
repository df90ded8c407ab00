package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// choiceModel is an inline single-select list for a short fixed set of
// options.
type choiceModel struct {
	title    string
	options  []string
	cursor   int
	answered bool
	result   int // index into options; -1 means aborted
}

var (
	choiceUpKey    = key.NewBinding(key.WithKeys("up", "k"))
	choiceDownKey  = key.NewBinding(key.WithKeys("down", "j"))
	choiceEnterKey = key.NewBinding(key.WithKeys("enter"))
	choiceAbortKey = key.NewBinding(key.WithKeys("esc", "q", "ctrl+c"))
)

func newChoiceModel(title string, options []string) choiceModel {
	return choiceModel{title: title, options: options, result: -1}
}

func (m choiceModel) Init() tea.Cmd { return nil }

func (m choiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, choiceAbortKey):
		m.answered = true
		m.result = -1
		return m, tea.Quit
	case key.Matches(keyMsg, choiceUpKey):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, choiceDownKey):
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, choiceEnterKey):
		m.answered = true
		m.result = m.cursor
		return m, tea.Quit
	}
	return m, nil
}

func (m choiceModel) View() string {
	if m.answered {
		if m.result < 0 {
			return fmt.Sprintf("%s aborted\n", titleStyle.Render(m.title))
		}
		return fmt.Sprintf("%s %s\n", titleStyle.Render(m.title), m.options[m.result])
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")
	for i, opt := range m.options {
		if i == m.cursor {
			b.WriteString(focusedStyle.Render("> " + opt))
		} else {
			b.WriteString(blurredStyle.Render("  " + opt))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("↑/↓ move · enter select · esc cancel"))
	b.WriteString("\n")
	return b.String()
}

// Choose shows an inline selector and returns the chosen index, or -1
// when the user aborted.
func Choose(title string, options []string) (int, error) {
	p := tea.NewProgram(newChoiceModel(title, options))
	final, err := p.Run()
	if err != nil {
		return -1, fmt.Errorf("running prompt: %w", err)
	}
	m, ok := final.(choiceModel)
	if !ok {
		return -1, fmt.Errorf("unexpected prompt model")
	}
	return m.result, nil
}
