package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/barysiuk/forgeup/internal/core"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

const (
	// envInstallHome overrides the install home directory.
	envInstallHome = "AGENTFORGE_HOME"
	// envQuiet suppresses decorative output.
	envQuiet = "FORGEUP_QUIET"
	// envPlatformOptIn forces the companion platform install in
	// automation runs, which otherwise skip it.
	envPlatformOptIn = "FORGEUP_INSTALL_PLATFORM"
	// envAutomation marks an unattended run; CI systems set it.
	envAutomation = "CI"
	// envProfileDir redirects the system-wide profile drop-in directory
	// (DESTDIR-style; for packaging and sandboxed runs).
	envProfileDir = "FORGEUP_PROFILE_DIR"
)

// profileDir returns the system profile drop-in directory, honoring the
// override.
func profileDir() string {
	return os.Getenv(envProfileDir)
}

// deps holds shared dependencies for CLI commands.
type deps struct {
	settings *core.SettingsManager
}

// newDeps creates shared dependencies. Called lazily by commands that need them.
func newDeps() (*deps, error) {
	settings, err := core.NewSettingsManager()
	if err != nil {
		return nil, fmt.Errorf("initializing settings: %w", err)
	}
	return &deps{settings: settings}, nil
}

// resolveInstallHome picks the install home: --home flag, then
// AGENTFORGE_HOME, then ~/.agentforge.
func resolveInstallHome(cmd *cobra.Command) (string, error) {
	if flag, _ := cmd.Flags().GetString("home"); flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(envInstallHome); env != "" {
		return filepath.Abs(env)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".agentforge"), nil
}

// stdinIsTerminal reports whether the run has an attached terminal.
func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func envTruthy(name string) bool {
	switch os.Getenv(name) {
	case "", "0", "false", "no":
		return false
	}
	return true
}
