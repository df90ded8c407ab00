package core

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	companionBin     = "openclaw"
	companionPackage = "openclaw"
	fallbackImport   = "crewai"

	// companionSetupCmd is what the user runs by hand when the guided
	// configuration cannot complete.
	companionSetupCmd = "openclaw models setup"

	configPollInterval = 2 * time.Second
)

// npmPrefixMarker tags the PATH line added when the npm global prefix is
// redirected to a user-writable location.
const npmPrefixMarker = "# added by forgeup (npm prefix)"

// Selection is the outcome of platform resolution.
type Selection struct {
	Choice   PlatformChoice
	Warnings []string
}

// PlatformSelector resolves which agent platform integration to use,
// installing and configuring the OpenClaw companion when appropriate.
type PlatformSelector struct {
	runner   Runner
	prompter Prompter
	homeDir  string
	python   string
	out      io.Writer

	// Interactive is true when stdin is an attached terminal.
	Interactive bool

	// ControlTTY reports whether a live control terminal is reachable even
	// though stdin is not a TTY (stdin piped, but the user is watching).
	// Defaults to probing /dev/tty.
	ControlTTY func() bool

	// PollInterval for the deferred-configuration wait. The wait itself is
	// unbounded: it ends when the config file appears or ctx is cancelled.
	PollInterval time.Duration

	// ProfileDir overrides the system profile drop-in directory
	// (DESTDIR-style; used by packaging and tests).
	ProfileDir string
}

func NewPlatformSelector(runner Runner, prompter Prompter, homeDir, pythonBin string, out io.Writer) *PlatformSelector {
	if pythonBin == "" {
		pythonBin = "python3"
	}
	return &PlatformSelector{
		runner:       runner,
		prompter:     prompter,
		homeDir:      homeDir,
		python:       pythonBin,
		out:          out,
		ControlTTY:   controlTTYReachable,
		PollInterval: configPollInterval,
		ProfileDir:   defaultProfileDir,
	}
}

// configPath is the sentinel file whose presence means the companion has
// been configured.
func (ps *PlatformSelector) configPath() string {
	return filepath.Join(ps.homeDir, ".openclaw", "openclaw.json")
}

// Select walks the state machine: Detect -> Prompt -> Installing ->
// Configuring, or the Skipped path with a fallback probe. Exactly one
// terminal choice comes back per run.
func (ps *PlatformSelector) Select(ctx context.Context) (Selection, error) {
	// Detect: an installed and configured companion short-circuits
	// everything, including the prompt.
	if ps.companionReady() {
		fmt.Fprintln(ps.out, "OpenClaw is already installed and configured.")
		return Selection{Choice: PlatformCompanion}, nil
	}

	install, err := ps.prompter.ConfirmPlatformInstall()
	if err != nil {
		return Selection{}, fmt.Errorf("platform prompt: %w", err)
	}
	if !install {
		return ps.skipped(ctx), nil
	}

	sel := Selection{Choice: PlatformCompanion}
	if err := ps.installCompanion(ctx, &sel); err != nil {
		return Selection{}, err
	}
	if err := ps.configureCompanion(ctx, &sel); err != nil {
		return Selection{}, err
	}
	return sel, nil
}

// companionReady means the binary is on PATH and the config file exists.
func (ps *PlatformSelector) companionReady() bool {
	if _, err := ps.runner.LookPath(companionBin); err != nil {
		return false
	}
	return fileExists(ps.configPath())
}

// skipped runs the fallback probe: the companion was declined, but a
// known alternative framework may already be importable.
func (ps *PlatformSelector) skipped(ctx context.Context) Selection {
	if _, err := ps.runner.Output(ctx, ps.python, "-c", "import "+fallbackImport); err == nil {
		fmt.Fprintf(ps.out, "Using the %s library found in the interpreter.\n", fallbackImport)
		return Selection{Choice: PlatformFallback}
	}
	return Selection{Choice: PlatformStandalone}
}

// installCompanion installs the OpenClaw package globally through npm,
// redirecting the global prefix to a user-writable location when needed,
// and repairs a missing binary entry point before giving up.
func (ps *PlatformSelector) installCompanion(ctx context.Context, sel *Selection) error {
	prefix, err := ps.npmPrefix(ctx)
	if err != nil {
		return err
	}

	if !dirWritable(prefix) {
		userPrefix := filepath.Join(ps.homeDir, ".npm-global")
		fmt.Fprintf(ps.out, "npm prefix %s is not writable; using %s\n", prefix, userPrefix)

		if err := os.MkdirAll(filepath.Join(userPrefix, "bin"), 0o755); err != nil {
			return fmt.Errorf("creating npm prefix: %w", err)
		}
		if out, err := ps.runner.Output(ctx, "npm", "config", "set", "prefix", userPrefix); err != nil {
			return fmt.Errorf("setting npm prefix: %v\n%s", err, lastLines(out, 2))
		}

		// Persist the redirected bin dir on PATH the same way the
		// launcher does, so the shell can find openclaw afterwards.
		line := fmt.Sprintf(`export PATH="%s:$PATH" %s`, filepath.Join(userPrefix, "bin"), npmPrefixMarker)
		for _, name := range shellInitFiles {
			if err := ensureLineInFile(filepath.Join(ps.homeDir, name), npmPrefixMarker, line); err != nil {
				return fmt.Errorf("persisting npm prefix PATH: %w", err)
			}
		}
		snippet := fmt.Sprintf("# npm user prefix for openclaw\n%s\n", line)
		snippetPath := filepath.Join(ps.ProfileDir, "npm-global.sh")
		if err := writeIfChanged(snippetPath, snippet, 0o644); err != nil {
			sel.Warnings = append(sel.Warnings, fmt.Sprintf("could not write %s (needs root, skipped): %v", snippetPath, err))
		}

		prefix = userPrefix
	}

	fmt.Fprintln(ps.out, "Installing OpenClaw...")
	if out, err := ps.runner.Output(ctx, "npm", "install", "-g", companionPackage); err != nil {
		return fmt.Errorf("installing %s: %v\n%s", companionPackage, err, lastLines(out, 3))
	}

	return ps.verifyCompanionBinary(prefix)
}

// verifyCompanionBinary checks the installed entry point is present and
// executable; when npm left the script behind without a bin link, it
// writes one manually before declaring failure.
func (ps *PlatformSelector) verifyCompanionBinary(prefix string) error {
	binPath := filepath.Join(prefix, "bin", companionBin)

	if _, err := ps.runner.LookPath(companionBin); err == nil {
		return nil
	}
	if isExecutableFile(binPath) {
		return nil
	}

	// Manual repair: npm sometimes installs the package but fails to link
	// the executable. The script artifact lives under lib/node_modules.
	script := filepath.Join(prefix, "lib", "node_modules", companionPackage, "bin", companionBin+".js")
	if fileExists(script) {
		wrapper := fmt.Sprintf("#!/bin/sh\nexec node %q \"$@\"\n", script)
		if err := os.WriteFile(binPath, []byte(wrapper), 0o755); err == nil {
			fmt.Fprintf(ps.out, "Repaired missing %s entry point at %s\n", companionBin, binPath)
			return nil
		}
	}

	return fmt.Errorf("%s installed but its binary is missing or not executable at %s; reinstall with: npm install -g %s", companionBin, binPath, companionPackage)
}

// configureCompanion gates on the companion's config file existing.
//
// With a terminal attached it drives the companion's own interactive
// setup, retrying once. Without one it prints instructions and, when a
// control terminal is reachable, polls until the user completes setup in
// another session (bounded by user action, not by a timeout).
func (ps *PlatformSelector) configureCompanion(ctx context.Context, sel *Selection) error {
	if fileExists(ps.configPath()) {
		return nil
	}

	if ps.Interactive {
		for attempt := 0; attempt < 2; attempt++ {
			fmt.Fprintln(ps.out, "Launching OpenClaw model configuration...")
			if err := ps.runner.Interactive(ctx, companionBin, "models", "setup"); err != nil {
				fmt.Fprintf(ps.out, "warning: configuration command failed: %v\n", err)
			}
			if fileExists(ps.configPath()) {
				return nil
			}
		}
		return fmt.Errorf("OpenClaw configuration did not complete; run `%s` manually and re-run the installer", companionSetupCmd)
	}

	fmt.Fprintf(ps.out, "OpenClaw needs one-time configuration. In another terminal run:\n\n    %s\n\n", companionSetupCmd)

	if ps.ControlTTY == nil || !ps.ControlTTY() {
		sel.Warnings = append(sel.Warnings, fmt.Sprintf("OpenClaw is installed but not configured; run `%s` before first use", companionSetupCmd))
		return nil
	}

	fmt.Fprintln(ps.out, "Waiting for configuration to appear (Ctrl-C to abort)...")
	ticker := time.NewTicker(ps.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for OpenClaw configuration: %w", ctx.Err())
		case <-ticker.C:
			if fileExists(ps.configPath()) {
				fmt.Fprintln(ps.out, "Configuration detected.")
				return nil
			}
		}
	}
}

// npmPrefix asks npm for its global prefix.
func (ps *PlatformSelector) npmPrefix(ctx context.Context) (string, error) {
	out, err := ps.runner.Output(ctx, "npm", "prefix", "-g")
	if err != nil {
		return "", fmt.Errorf("querying npm prefix: %v\n%s", err, lastLines(out, 2))
	}
	prefix := strings.TrimSpace(out)
	if prefix == "" {
		return "", fmt.Errorf("npm returned an empty global prefix")
	}
	return prefix, nil
}

// dirWritable probes writability by creating and removing a temp file.
func dirWritable(dir string) bool {
	f, err := os.CreateTemp(dir, ".forgeup-w-*")
	if err != nil {
		return false
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return true
}

// controlTTYReachable reports whether /dev/tty can be opened, meaning a
// human is attached even though stdin is redirected.
func controlTTYReachable() bool {
	f, err := os.Open("/dev/tty")
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}
