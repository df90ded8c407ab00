package core

import (
	"context"
	"fmt"
	"regexp"
	"runtime"
	"strconv"
	"strings"
)

// OSFamily groups hosts by the package manager ecosystem they use.
type OSFamily string

const (
	OSDarwin  OSFamily = "darwin"
	OSDebian  OSFamily = "debian"
	OSFedora  OSFamily = "fedora"
	OSArch    OSFamily = "arch"
	OSUnknown OSFamily = "unknown"
)

// PkgManager describes a supported system package manager.
type PkgManager struct {
	Name        string   // display name, e.g. "apt"
	Bin         string   // binary probed for existence (not version-checked)
	InstallArgs []string // arguments preceding the package name
	NeedsSudo   bool
}

// supportedManagers is the fixed detection order. Homebrew wins on any
// host where it is present so user-local installs are preferred.
var supportedManagers = []PkgManager{
	{Name: "brew", Bin: "brew", InstallArgs: []string{"install"}},
	{Name: "apt", Bin: "apt-get", InstallArgs: []string{"install", "-y"}, NeedsSudo: true},
	{Name: "dnf", Bin: "dnf", InstallArgs: []string{"install", "-y"}, NeedsSudo: true},
	{Name: "pacman", Bin: "pacman", InstallArgs: []string{"-S", "--noconfirm"}, NeedsSudo: true},
}

// ToolRequirement is one prerequisite the installer must be able to run.
type ToolRequirement struct {
	Name        string            // logical name, e.g. "python3"
	Candidates  []string          // binary names tried in order
	VersionArgs []string          // arguments that print a version
	MinMajor    int               // zero means any version is accepted
	MinMinor    int
	Packages    map[string]string // package manager name -> package name
}

// Requirements returns the fixed prerequisite set, in install order.
func Requirements() []ToolRequirement {
	return []ToolRequirement{
		{
			Name:        "git",
			Candidates:  []string{"git"},
			VersionArgs: []string{"--version"},
			Packages:    map[string]string{"brew": "git", "apt": "git", "dnf": "git", "pacman": "git"},
		},
		{
			Name:        "python3",
			Candidates:  []string{"python3.12", "python3.11", "python3", "python"},
			VersionArgs: []string{"--version"},
			MinMajor:    3,
			MinMinor:    10,
			Packages:    map[string]string{"brew": "python@3.12", "apt": "python3", "dnf": "python3", "pacman": "python"},
		},
		{
			Name:        "node",
			Candidates:  []string{"node"},
			VersionArgs: []string{"--version"},
			MinMajor:    20,
			Packages:    map[string]string{"brew": "node", "apt": "nodejs", "dnf": "nodejs", "pacman": "nodejs"},
		},
	}
}

// ToolStatus is the probe result for one requirement.
type ToolStatus struct {
	Name      string
	Bin       string // resolved binary name, empty when not found
	Path      string
	Version   string
	Found     bool
	Satisfied bool // found and meets the minimum version
}

// Report is a snapshot of the host environment. It is recomputed on every
// probe; nothing is cached between calls.
type Report struct {
	OS      OSFamily
	Manager *PkgManager // nil when no supported manager is present
	Tools   map[string]ToolStatus
}

// Probe detects the host environment.
type Probe struct {
	runner Runner
}

func NewProbe(runner Runner) *Probe {
	return &Probe{runner: runner}
}

// Detect probes OS family, package manager, and every tool requirement.
// It returns a terminal error only when the host has neither a supported
// package manager nor a usable interpreter: there is no degraded mode.
func (p *Probe) Detect(ctx context.Context) (*Report, error) {
	report := &Report{
		OS:    p.osFamily(),
		Tools: make(map[string]ToolStatus),
	}

	for i := range supportedManagers {
		if _, err := p.runner.LookPath(supportedManagers[i].Bin); err == nil {
			report.Manager = &supportedManagers[i]
			break
		}
	}

	for _, req := range Requirements() {
		report.Tools[req.Name] = p.probeTool(ctx, req)
	}

	if report.Manager == nil && !report.Tools["python3"].Found {
		return nil, fmt.Errorf("unsupported platform: no package manager (brew/apt/dnf/pacman) and no Python interpreter found; install Python 3.10+ manually and re-run")
	}

	return report, nil
}

// probeTool tries each candidate binary in order and accepts the first
// whose reported version meets the minimum.
func (p *Probe) probeTool(ctx context.Context, req ToolRequirement) ToolStatus {
	status := ToolStatus{Name: req.Name}

	for _, bin := range req.Candidates {
		path, err := p.runner.LookPath(bin)
		if err != nil {
			continue
		}

		out, err := p.runner.Output(ctx, bin, req.VersionArgs...)
		if err != nil {
			continue
		}

		version, major, minor, ok := parseVersion(out)
		if !ok {
			continue
		}

		// Record the first found candidate even if too old, so callers
		// can distinguish "missing" from "needs upgrade".
		if !status.Found {
			status.Found = true
			status.Bin = bin
			status.Path = path
			status.Version = version
		}

		if meetsMinimum(major, minor, req.MinMajor, req.MinMinor) {
			status.Bin = bin
			status.Path = path
			status.Version = version
			status.Satisfied = true
			return status
		}
	}

	return status
}

func (p *Probe) osFamily() OSFamily {
	switch runtime.GOOS {
	case "darwin":
		return OSDarwin
	case "linux":
		switch {
		case p.exists("apt-get"):
			return OSDebian
		case p.exists("dnf"):
			return OSFedora
		case p.exists("pacman"):
			return OSArch
		}
	}
	return OSUnknown
}

func (p *Probe) exists(bin string) bool {
	_, err := p.runner.LookPath(bin)
	return err == nil
}

var versionPattern = regexp.MustCompile(`(\d+)\.(\d+)(?:\.(\d+))?`)

// parseVersion pulls a major.minor[.patch] out of arbitrary version output
// ("git version 2.39.2", "Python 3.11.4", "v20.11.0").
func parseVersion(out string) (version string, major, minor int, ok bool) {
	m := versionPattern.FindStringSubmatch(strings.TrimSpace(out))
	if m == nil {
		return "", 0, 0, false
	}
	major, _ = strconv.Atoi(m[1])
	minor, _ = strconv.Atoi(m[2])
	return m[0], major, minor, true
}

func meetsMinimum(major, minor, minMajor, minMinor int) bool {
	if minMajor == 0 {
		return true
	}
	if major != minMajor {
		return major > minMajor
	}
	return minor >= minMinor
}
