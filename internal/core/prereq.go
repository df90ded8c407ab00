package core

import (
	"context"
	"fmt"
	"io"
)

// PrereqInstaller installs missing prerequisite tools through the detected
// package manager.
type PrereqInstaller struct {
	runner Runner
	probe  *Probe
	out    io.Writer
}

func NewPrereqInstaller(runner Runner, probe *Probe, out io.Writer) *PrereqInstaller {
	return &PrereqInstaller{runner: runner, probe: probe, out: out}
}

// EnsureAll walks the requirement list and installs whatever is missing or
// below the minimum version. Success is judged by re-probing the tool
// afterwards, not by the package manager's exit code: managers are noisy
// and a nonzero exit does not always mean the tool is unusable, while a
// zero exit does not guarantee the right version landed on PATH.
func (pi *PrereqInstaller) EnsureAll(ctx context.Context, report *Report) (*Report, error) {
	var attempted bool

	for _, req := range Requirements() {
		status := report.Tools[req.Name]
		if status.Satisfied {
			continue
		}

		if report.Manager == nil {
			return report, fmt.Errorf("unsupported platform: %s is required but no supported package manager was found; see the manual install docs", req.Name)
		}

		pkg, ok := req.Packages[report.Manager.Name]
		if !ok {
			return report, fmt.Errorf("no %s package mapping for %s", report.Manager.Name, req.Name)
		}

		if status.Found {
			fmt.Fprintf(pi.out, "Upgrading %s (found %s, need %d.%d+)...\n", req.Name, status.Version, req.MinMajor, req.MinMinor)
		} else {
			fmt.Fprintf(pi.out, "Installing %s via %s...\n", req.Name, report.Manager.Name)
		}

		pi.install(ctx, report.Manager, pkg)
		attempted = true
	}

	if !attempted {
		return report, nil
	}

	// Re-probe to verify effect. A required tool still missing after the
	// attempt is the fatal condition, regardless of what the manager said.
	fresh, err := pi.probe.Detect(ctx)
	if err != nil {
		return report, err
	}
	for _, req := range Requirements() {
		if !fresh.Tools[req.Name].Satisfied {
			return fresh, fmt.Errorf("%s is still unavailable after installation; install it manually and re-run", req.Name)
		}
	}
	return fresh, nil
}

// install runs one package install. Its error is deliberately not
// escalated here; the follow-up re-probe decides whether the run fails.
func (pi *PrereqInstaller) install(ctx context.Context, mgr *PkgManager, pkg string) {
	name := mgr.Bin
	args := append(append([]string{}, mgr.InstallArgs...), pkg)
	if mgr.NeedsSudo {
		args = append([]string{name}, args...)
		name = "sudo"
	}

	out, err := pi.runner.Output(ctx, name, args...)
	if err != nil {
		fmt.Fprintf(pi.out, "warning: %s install reported an error (verifying anyway): %v\n", pkg, err)
		if trimmed := lastLines(out, 3); trimmed != "" {
			fmt.Fprintln(pi.out, trimmed)
		}
	}
}
