package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestClassifyGitError(t *testing.T) {
	tests := []struct {
		name   string
		output string
		kind   GitErrorKind
	}{
		{
			name:   "auth failed",
			output: "remote: Invalid username or password.\nfatal: Authentication failed for 'https://example.com/repo.git/'",
			kind:   GitErrAuth,
		},
		{
			name:   "prompts disabled",
			output: "fatal: could not read Username for 'https://example.com': terminal prompts disabled",
			kind:   GitErrAuth,
		},
		{
			name:   "ssh permission denied",
			output: "git@example.com: Permission denied (publickey).",
			kind:   GitErrAuth,
		},
		{
			name:   "repo not found",
			output: "remote: Repository not found.\nfatal: repository 'https://example.com/nope.git/' not found",
			kind:   GitErrRepoNotFound,
		},
		{
			name:   "dns failure",
			output: "fatal: unable to access 'https://example.com/': Could not resolve host: example.com",
			kind:   GitErrNetwork,
		},
		{
			name:   "connection refused",
			output: "fatal: unable to access 'https://example.com/': Failed to connect: Connection refused",
			kind:   GitErrNetwork,
		},
		{
			name:   "timeout",
			output: "error: operation timed out",
			kind:   GitErrTimeout,
		},
		{
			name:   "unclassified",
			output: "fatal: something entirely novel",
			kind:   GitErrUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ge := classifyGitError("clone", "https://example.com/repo.git", tt.output)
			if ge.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", ge.Kind, tt.kind)
			}
		})
	}
}

func TestGitErrorMessageSkipsCloningBanner(t *testing.T) {
	ge := classifyGitError("clone", "https://example.com/repo.git",
		"Cloning into '/tmp/x'...\nfatal: repository not found")
	if !strings.Contains(ge.Error(), "repository not found") {
		t.Errorf("Error() = %q, should surface the fatal line", ge.Error())
	}
	if strings.Contains(ge.Error(), "Cloning into") {
		t.Errorf("Error() = %q, should skip the progress banner", ge.Error())
	}
}

func TestGitErrorHints(t *testing.T) {
	auth := classifyGitError("clone", "https://example.com/repo.git", "Authentication failed")
	if len(auth.Hints) == 0 {
		t.Error("auth errors should carry hints")
	}

	unknown := classifyGitError("clone", "https://example.com/repo.git", "mystery")
	if len(unknown.Hints) != 0 {
		t.Errorf("unknown errors should not invent hints, got %v", unknown.Hints)
	}
}

func TestGitErrorDetailsIncludeHints(t *testing.T) {
	ge := classifyGitError("clone", "https://example.com/x.git",
		"fatal: unable to access: Could not resolve host: example.com")

	details := ge.Details()
	if !strings.Contains(details, ge.Error()) {
		t.Errorf("Details() = %q, should start with the error", details)
	}
	for _, hint := range ge.Hints {
		if !strings.Contains(details, hint) {
			t.Errorf("Details() = %q, missing hint %q", details, hint)
		}
	}
	if !strings.Contains(details, "check your internet connection and retry") {
		t.Errorf("Details() = %q, want the network remediation hint", details)
	}
}

func TestIsGitErrorUnwraps(t *testing.T) {
	ge := classifyGitError("sync", "https://example.com/repo.git", "timed out")
	wrapped := fmt.Errorf("syncing repository: %w", ge)

	got, ok := IsGitError(wrapped)
	if !ok {
		t.Fatal("IsGitError should unwrap through fmt.Errorf")
	}
	if got.Kind != GitErrTimeout {
		t.Errorf("Kind = %v, want GitErrTimeout", got.Kind)
	}

	if _, ok := IsGitError(errors.New("plain")); ok {
		t.Error("plain errors are not git errors")
	}
}
