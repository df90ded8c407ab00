// Package core provides the business logic for forgeup.
// It has zero UI dependencies and is independently testable.
package core

import "path/filepath"

// InstallTarget describes where the installation lives and which
// repository feeds it.
type InstallTarget struct {
	Home    string // install home, e.g. ~/.agentforge
	RepoURL string // application clone URL
	Ref     string // remote branch the local clone is hard-synced to
}

// RepoDir returns the path of the application clone under the home.
func (t InstallTarget) RepoDir() string {
	return filepath.Join(t.Home, "repo")
}

// VenvDir returns the path of the isolated runtime environment.
func (t InstallTarget) VenvDir() string {
	return filepath.Join(t.Home, "venv")
}

// PlatformChoice is the agent platform integration resolved for a run.
// Exactly one value is selected per run.
type PlatformChoice string

const (
	// PlatformCompanion means the OpenClaw companion runtime is installed
	// and configured; the application is initialized against it.
	PlatformCompanion PlatformChoice = "openclaw"

	// PlatformFallback means the companion was declined or unavailable but
	// the crewai library is importable in the target interpreter.
	PlatformFallback PlatformChoice = "crewai"

	// PlatformStandalone means the application runs without any platform
	// integration.
	PlatformStandalone PlatformChoice = "standalone"
)

// UpgradeChoice is the user's answer when an existing installation is found.
type UpgradeChoice int

const (
	UpgradeExisting UpgradeChoice = iota
	FreshInstall
	CancelInstall
)

// Prompter answers the two interactive questions the installer can ask.
// The TUI implements it for attached terminals; non-interactive runs use
// a policy-driven implementation instead.
type Prompter interface {
	// ChooseUpgrade is asked when an existing installation is detected.
	ChooseUpgrade() (UpgradeChoice, error)

	// ConfirmPlatformInstall is asked before installing the companion
	// platform.
	ConfirmPlatformInstall() (bool, error)
}
