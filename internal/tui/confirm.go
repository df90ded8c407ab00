package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// confirmModel is an inline yes/no prompt.
//
// Navigation: left/right/tab move focus between Yes and No. Enter
// activates the focused button; y/n/esc are shortcut accelerators.
type confirmModel struct {
	message  string
	focusYes bool
	answered bool
	result   bool
}

var (
	confirmYesKey = key.NewBinding(key.WithKeys("y", "Y"))
	confirmNoKey  = key.NewBinding(key.WithKeys("n", "N", "esc"))
	confirmMove   = key.NewBinding(key.WithKeys("left", "right", "tab", "shift+tab", "h", "l"))
	confirmEnter  = key.NewBinding(key.WithKeys("enter"))
	confirmQuit   = key.NewBinding(key.WithKeys("ctrl+c"))
)

func newConfirmModel(message string, defaultYes bool) confirmModel {
	return confirmModel{message: message, focusYes: defaultYes}
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, confirmQuit):
		m.answered = true
		m.result = false
		return m, tea.Quit
	case key.Matches(keyMsg, confirmYesKey):
		m.answered = true
		m.result = true
		return m, tea.Quit
	case key.Matches(keyMsg, confirmNoKey):
		m.answered = true
		m.result = false
		return m, tea.Quit
	case key.Matches(keyMsg, confirmMove):
		m.focusYes = !m.focusYes
		return m, nil
	case key.Matches(keyMsg, confirmEnter):
		m.answered = true
		m.result = m.focusYes
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.answered {
		answer := "no"
		if m.result {
			answer = "yes"
		}
		return fmt.Sprintf("%s %s\n", titleStyle.Render(m.message), answer)
	}

	yes := blurredStyle.Render("[ Yes ]")
	no := blurredStyle.Render("[ No ]")
	if m.focusYes {
		yes = focusedStyle.Render("[ Yes ]")
	} else {
		no = focusedStyle.Render("[ No ]")
	}

	return fmt.Sprintf("%s\n\n  %s  %s\n\n%s\n",
		titleStyle.Render(m.message),
		yes, no,
		hintStyle.Render("←/→ move · enter select · y/n shortcuts"))
}

// Confirm shows an inline yes/no prompt and blocks for the answer.
func Confirm(message string, defaultYes bool) (bool, error) {
	p := tea.NewProgram(newConfirmModel(message, defaultYes))
	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("running prompt: %w", err)
	}
	m, ok := final.(confirmModel)
	if !ok {
		return false, fmt.Errorf("unexpected prompt model")
	}
	return m.result, nil
}
