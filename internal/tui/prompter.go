// Package tui implements the installer's interactive prompts with
// bubbletea. Non-interactive runs use core.PolicyPrompter instead.
package tui

import (
	"github.com/barysiuk/forgeup/internal/core"
)

// Prompter answers the installer's questions through inline terminal
// prompts. It implements core.Prompter.
type Prompter struct{}

func NewPrompter() Prompter { return Prompter{} }

func (Prompter) ChooseUpgrade() (core.UpgradeChoice, error) {
	idx, err := Choose("An existing AgentForge installation was found.", []string{
		"Upgrade it in place",
		"Remove it and install fresh",
		"Cancel",
	})
	if err != nil {
		return CancelChoice(), err
	}
	switch idx {
	case 0:
		return core.UpgradeExisting, nil
	case 1:
		return core.FreshInstall, nil
	default:
		return core.CancelInstall, nil
	}
}

func (Prompter) ConfirmPlatformInstall() (bool, error) {
	return Confirm("Install the OpenClaw agent platform? (recommended)", true)
}

// CancelChoice is the safe answer when a prompt fails.
func CancelChoice() core.UpgradeChoice { return core.CancelInstall }
