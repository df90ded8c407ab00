package core

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
)

// auxPackages are optional add-ons installed into the venv after the
// application itself. Each one failing is a warning, never a fatal error.
var auxPackages = []string{
	"agentforge-memory",
	"agentforge-monitor",
}

// Provisioner creates the isolated runtime environment under the install
// home and installs the application into it.
type Provisioner struct {
	runner Runner
	python string // interpreter binary, resolved by the probe
	out    io.Writer
}

func NewProvisioner(runner Runner, pythonBin string, out io.Writer) *Provisioner {
	if pythonBin == "" {
		pythonBin = "python3"
	}
	return &Provisioner{runner: runner, python: pythonBin, out: out}
}

// Provision ensures the venv exists, upgrades pip, installs the
// application from the local clone, and installs the optional aux
// packages. It returns the warnings produced by non-fatal aux failures.
//
// Venv creation is skipped when the directory already exists. The
// directory is not validated as a working venv; a half-created one
// surfaces later as a pip failure.
func (pv *Provisioner) Provision(ctx context.Context, target InstallTarget, extras []string) ([]string, error) {
	venv := target.VenvDir()

	if !dirExists(venv) {
		fmt.Fprintf(pv.out, "Creating virtual environment in %s...\n", venv)
		if out, err := pv.runner.Output(ctx, pv.python, "-m", "venv", venv); err != nil {
			return nil, fmt.Errorf("creating virtual environment: %v\n%s", err, lastLines(out, 3))
		}
	}

	pip := filepath.Join(venv, "bin", "pip")

	if out, err := pv.runner.Output(ctx, pip, "install", "--upgrade", "pip"); err != nil {
		// An old pip can still install the app; note it and continue.
		fmt.Fprintf(pv.out, "warning: pip self-upgrade failed: %v\n%s\n", err, lastLines(out, 2))
	}

	fmt.Fprintln(pv.out, "Installing AgentForge into the environment...")
	if out, err := pv.runner.Output(ctx, pip, "install", "-e", target.RepoDir()); err != nil {
		return nil, fmt.Errorf("installing application package: %v\n%s", err, lastLines(out, 5))
	}

	var warnings []string
	for _, pkg := range append(append([]string{}, auxPackages...), extras...) {
		if pkg == "" {
			continue
		}
		if out, err := pv.runner.Output(ctx, pip, "install", pkg); err != nil {
			w := fmt.Sprintf("optional package %s failed to install: %v", pkg, err)
			if tail := lastLines(out, 1); tail != "" {
				w += " (" + tail + ")"
			}
			warnings = append(warnings, w)
			fmt.Fprintf(pv.out, "warning: %s\n", w)
		}
	}

	return warnings, nil
}

// AppBinary returns the path of the application's entry point inside the
// venv.
func AppBinary(target InstallTarget) string {
	return filepath.Join(target.VenvDir(), "bin", "agentforge")
}
