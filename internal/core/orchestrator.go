package core

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Options configures a full installation run.
type Options struct {
	Target  InstallTarget
	HomeDir string // user home (shell init files, launcher, ~/.openclaw)

	Upgrade   bool // skip the upgrade/fresh/cancel prompt on existing installs
	Mailbox   bool // also clone the companion mailbox repo
	AssumeYes bool // answer yes to every prompt
	Quiet     bool

	Interactive bool // stdin is an attached terminal

	DashboardRepoURL string
	MailboxRepoURL   string
	ExtraPackages    []string

	// ProfileDir overrides the system profile drop-in directory.
	ProfileDir string
}

// Orchestrator sequences the installation stages. Each stage is a
// precondition for the next; failures abort except where a step is
// explicitly non-fatal, in which case the problem is collected and
// surfaced in the final summary.
type Orchestrator struct {
	runner   Runner
	prompter Prompter
	out      io.Writer
	opts     Options

	warnings []string
}

func NewOrchestrator(runner Runner, prompter Prompter, out io.Writer, opts Options) *Orchestrator {
	return &Orchestrator{runner: runner, prompter: prompter, out: out, opts: opts}
}

func (o *Orchestrator) warnf(format string, args ...any) {
	o.warnings = append(o.warnings, fmt.Sprintf(format, args...))
}

// Run executes the pipeline: probe, prerequisites, platform selection,
// repository sync, environment provisioning, launcher install, and the
// application's own lifecycle commands.
func (o *Orchestrator) Run(ctx context.Context) error {
	target := o.opts.Target

	// The phase is computed once, from directory presence alone, and
	// passed through; later stages never re-derive it.
	phase := DetectPhase(target)
	if proceed, err := o.handlePhase(phase, target); err != nil || !proceed {
		return err
	}

	probe := NewProbe(o.runner)
	report, err := probe.Detect(ctx)
	if err != nil {
		return err
	}

	report, err = NewPrereqInstaller(o.runner, probe, o.out).EnsureAll(ctx, report)
	if err != nil {
		return err
	}

	selector := NewPlatformSelector(o.runner, o.prompter, o.opts.HomeDir, report.Tools["python3"].Bin, o.out)
	selector.Interactive = o.opts.Interactive
	if o.opts.ProfileDir != "" {
		selector.ProfileDir = o.opts.ProfileDir
	}
	selection, err := selector.Select(ctx)
	if err != nil {
		return err
	}
	o.warnings = append(o.warnings, selection.Warnings...)

	syncer := NewRepoSyncer(o.runner, report.Tools["git"].Bin, o.out)
	if err := syncer.Sync(ctx, target); err != nil {
		return err
	}

	provWarnings, err := NewProvisioner(o.runner, report.Tools["python3"].Bin, o.out).
		Provision(ctx, target, o.opts.ExtraPackages)
	if err != nil {
		return err
	}
	o.warnings = append(o.warnings, provWarnings...)

	o.cloneCompanionRepos(ctx, syncer, target)

	launcher := NewLauncherInstaller(o.opts.HomeDir, o.out)
	if o.opts.ProfileDir != "" {
		launcher.ProfileDir = o.opts.ProfileDir
	}
	launcherWarnings, err := launcher.Install(target)
	if err != nil {
		return err
	}
	o.warnings = append(o.warnings, launcherWarnings...)

	lifecycle := NewLifecycle(o.runner, launcher.ShimPath(), o.out)

	version, err := lifecycle.VerifyVersion(ctx)
	if err != nil {
		return err
	}
	if err := lifecycle.Init(ctx, selection.Choice); err != nil {
		return err
	}
	if err := lifecycle.Start(ctx); err != nil {
		o.warnf("%v", err)
	}
	running, statusOut := lifecycle.StatusRunning(ctx)
	if !running {
		o.warnf("service does not look running; check with `agentforge status` and start it with `agentforge start`")
	}
	lifecycle.Doctor(ctx)

	manifest := &Manifest{Phase: phase, Platform: selection.Choice}
	for _, stage := range []string{"prerequisites", "platform", "repository", "environment", "launcher", "lifecycle"} {
		manifest.MarkCompleted(stage)
	}
	if err := manifest.Save(target.Home); err != nil {
		o.warnf("could not record install state: %v", err)
	}

	o.printSummary(SummaryData{
		Version:  version,
		Platform: selection.Choice,
		Running:  running,
		Status:   statusOut,
		Home:     target.Home,
		Warnings: o.warnings,
	})
	return nil
}

// handlePhase resolves what to do with a pre-existing or partial
// installation before any stage mutates the host. The false return means
// the user cancelled; that is a clean exit, not an error.
func (o *Orchestrator) handlePhase(phase InstallPhase, target InstallTarget) (bool, error) {
	switch phase {
	case PhaseFresh:
		return true, nil

	case PhaseCorrupt:
		// A partial install is repaired by re-running the missing stages;
		// both sync and provisioning are idempotent.
		fmt.Fprintln(o.out, "Found a partial installation; repairing it.")
		return true, nil

	case PhaseUpgrade:
		if o.opts.Upgrade || o.opts.AssumeYes {
			return true, nil
		}
		choice, err := o.prompter.ChooseUpgrade()
		if err != nil {
			return false, fmt.Errorf("upgrade prompt: %w", err)
		}
		switch choice {
		case CancelInstall:
			fmt.Fprintln(o.out, "Cancelled.")
			return false, nil
		case FreshInstall:
			fmt.Fprintln(o.out, "Removing the existing installation...")
			if err := os.RemoveAll(target.RepoDir()); err != nil {
				return false, fmt.Errorf("removing old clone: %w", err)
			}
			if err := os.RemoveAll(target.VenvDir()); err != nil {
				return false, fmt.Errorf("removing old environment: %w", err)
			}
		}
		return true, nil
	}
	return true, nil
}

// cloneCompanionRepos fetches the optional dashboard and mailbox repos.
// Every failure here is a warning; these are conveniences, not
// prerequisites.
func (o *Orchestrator) cloneCompanionRepos(ctx context.Context, syncer *RepoSyncer, target InstallTarget) {
	if o.opts.DashboardRepoURL != "" {
		dir := filepath.Join(target.Home, "dashboard")
		if err := syncer.CloneAux(ctx, o.opts.DashboardRepoURL, dir); err != nil {
			o.warnf("dashboard clone failed (optional): %v", err)
		}
	}
	if o.opts.Mailbox && o.opts.MailboxRepoURL != "" {
		dir := filepath.Join(target.Home, "mailbox")
		if err := syncer.CloneAux(ctx, o.opts.MailboxRepoURL, dir); err != nil {
			o.warnf("mailbox clone failed (optional): %v", err)
		}
	}
}

func (o *Orchestrator) printSummary(data SummaryData) {
	fmt.Fprintln(o.out)
	fmt.Fprint(o.out, RenderSummary(data, o.opts.Quiet))
}
