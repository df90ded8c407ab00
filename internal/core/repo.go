package core

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
)

// RepoSyncer keeps the application clone in lockstep with the remote
// branch tip.
//
// The sync is destructive by contract: fetch followed by a hard reset to
// the remote branch discards any local commits or edits under the repo
// directory. Users who want to hack on the application source are expected
// to work from their own clone, not the installer-managed one.
type RepoSyncer struct {
	runner Runner
	git    string // git binary, resolved by the probe
	out    io.Writer
}

func NewRepoSyncer(runner Runner, gitBin string, out io.Writer) *RepoSyncer {
	if gitBin == "" {
		gitBin = "git"
	}
	return &RepoSyncer{runner: runner, git: gitBin, out: out}
}

// Sync ensures target.RepoDir() is a clone of target.RepoURL hard-reset to
// the tip of the remote ref. A fresh clone is followed by the same
// fetch+reset pass, which covers branch drift between clone and fetch.
func (rs *RepoSyncer) Sync(ctx context.Context, target InstallTarget) error {
	repoDir := target.RepoDir()

	if !dirExists(filepath.Join(repoDir, ".git")) {
		fmt.Fprintf(rs.out, "Cloning %s...\n", target.RepoURL)
		out, err := rs.runner.Output(ctx, rs.git, "clone", "--branch", target.Ref, target.RepoURL, repoDir)
		if err != nil {
			return classifyGitError("clone", target.RepoURL, out)
		}
	} else {
		fmt.Fprintf(rs.out, "Updating existing clone in %s...\n", repoDir)
	}

	if out, err := rs.runner.Output(ctx, rs.git, "-C", repoDir, "fetch", "origin", target.Ref); err != nil {
		return classifyGitError("sync", target.RepoURL, out)
	}
	if out, err := rs.runner.Output(ctx, rs.git, "-C", repoDir, "reset", "--hard", "origin/"+target.Ref); err != nil {
		return classifyGitError("sync", target.RepoURL, out)
	}

	return nil
}

// CloneAux clones an auxiliary companion repository (dashboard, mailbox)
// into dir if it is not already present. Aux clones are shallow and
// failures are the caller's to downgrade to warnings.
func (rs *RepoSyncer) CloneAux(ctx context.Context, url, dir string) error {
	if dirExists(filepath.Join(dir, ".git")) {
		out, err := rs.runner.Output(ctx, rs.git, "-C", dir, "pull", "--ff-only")
		if err != nil {
			return classifyGitError("sync", url, out)
		}
		return nil
	}

	out, err := rs.runner.Output(ctx, rs.git, "clone", "--depth", "1", url, dir)
	if err != nil {
		return classifyGitError("clone", url, out)
	}
	return nil
}
