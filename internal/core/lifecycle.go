package core

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Lifecycle drives the installed application's own subcommands after the
// filesystem work is done. The application is an opaque collaborator
// reached purely through its CLI contract: --version, init, start,
// status, doctor.
type Lifecycle struct {
	runner Runner
	shim   string // launcher shim path
	out    io.Writer
}

func NewLifecycle(runner Runner, shimPath string, out io.Writer) *Lifecycle {
	return &Lifecycle{runner: runner, shim: shimPath, out: out}
}

// VerifyVersion confirms the shim responds to a version query. A failure
// here means the install is corrupt; nothing downstream can work.
func (lc *Lifecycle) VerifyVersion(ctx context.Context) (string, error) {
	out, err := lc.runner.Output(ctx, lc.shim, "--version")
	if err != nil {
		return "", fmt.Errorf("launcher does not respond to --version (corrupt install; run `forgeup uninstall` and reinstall): %v", err)
	}
	return strings.TrimSpace(out), nil
}

// Init runs the application's workspace initialization with the resolved
// platform choice. --no-install tells it not to re-provision dependencies
// the installer already handled.
func (lc *Lifecycle) Init(ctx context.Context, choice PlatformChoice) error {
	if err := lc.runner.Interactive(ctx, lc.shim, "init", "--platform", string(choice), "--no-install"); err != nil {
		return fmt.Errorf("initializing workspace: %w", err)
	}
	return nil
}

// Start attempts to start the application's services. Callers downgrade a
// failure to a warning with a manual-start hint.
func (lc *Lifecycle) Start(ctx context.Context) error {
	if out, err := lc.runner.Output(ctx, lc.shim, "start"); err != nil {
		return fmt.Errorf("service start failed (start manually with `agentforge start`): %v\n%s", err, lastLines(out, 3))
	}
	return nil
}

// StatusRunning queries status and reports whether the service looks up.
// This is a best-effort textual heuristic against the collaborator's
// human-oriented output, isolated here so a structured status contract
// can replace it in one place.
func (lc *Lifecycle) StatusRunning(ctx context.Context) (bool, string) {
	out, err := lc.runner.Output(ctx, lc.shim, "status")
	if err != nil {
		return false, strings.TrimSpace(out)
	}
	return statusLooksRunning(out), strings.TrimSpace(out)
}

// Doctor runs the application's self-diagnostic, streaming its output to
// the user. Always executed, never fatal.
func (lc *Lifecycle) Doctor(ctx context.Context) {
	if err := lc.runner.Interactive(ctx, lc.shim, "doctor"); err != nil {
		fmt.Fprintf(lc.out, "warning: doctor reported problems: %v\n", err)
	}
}

// statusLooksRunning strips terminal styling and scans for the keywords
// the application prints when its services are up.
func statusLooksRunning(out string) bool {
	plain := strings.ToLower(ansi.Strip(out))
	return strings.Contains(plain, "running") || strings.Contains(plain, "online")
}
