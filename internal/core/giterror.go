package core

import (
	"errors"
	"fmt"
	"strings"
)

// GitErrorKind classifies why a git operation against the remote failed.
type GitErrorKind int

const (
	// GitErrUnknown is an unclassified failure.
	GitErrUnknown GitErrorKind = iota
	// GitErrAuth means authentication failed (credentials missing or invalid).
	GitErrAuth
	// GitErrRepoNotFound means the URL is wrong or the user has no access.
	GitErrRepoNotFound
	// GitErrNetwork means the host could not be reached (DNS, connectivity).
	GitErrNetwork
	// GitErrTimeout means the operation hit the installer's timeout.
	GitErrTimeout
)

func (k GitErrorKind) String() string {
	switch k {
	case GitErrAuth:
		return "authentication required"
	case GitErrRepoNotFound:
		return "repository not found"
	case GitErrNetwork:
		return "network error"
	case GitErrTimeout:
		return "timeout"
	default:
		return "unknown error"
	}
}

// GitError wraps raw git output with classification and actionable hints.
type GitError struct {
	Kind      GitErrorKind
	Op        string // "clone" or "sync"
	URL       string
	RawOutput string
	Hints     []string
}

func (e *GitError) Error() string {
	return fmt.Sprintf("git %s failed (%s): %s", e.Op, e.Kind, e.firstLine())
}

// firstLine returns the first meaningful line of git output.
func (e *GitError) firstLine() string {
	for _, line := range strings.Split(e.RawOutput, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "Cloning into") {
			return line
		}
	}
	return "no output"
}

// Details returns the full user-facing message: the classified error
// followed by its remediation hints, one per line.
func (e *GitError) Details() string {
	var b strings.Builder
	b.WriteString(e.Error())
	for _, h := range e.Hints {
		b.WriteString("\n  hint: ")
		b.WriteString(h)
	}
	return b.String()
}

// IsGitError unwraps err looking for a *GitError.
func IsGitError(err error) (*GitError, bool) {
	var ge *GitError
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}

// classifyGitError examines git output and returns a structured GitError.
func classifyGitError(op, url, rawOutput string) *GitError {
	lower := strings.ToLower(rawOutput)

	kind := GitErrUnknown
	switch {
	case strings.Contains(lower, "timed out"):
		kind = GitErrTimeout
	case strings.Contains(lower, "could not resolve host"),
		strings.Contains(lower, "connection refused"),
		strings.Contains(lower, "network is unreachable"):
		kind = GitErrNetwork
	case strings.Contains(lower, "authentication failed"),
		strings.Contains(lower, "permission denied"),
		strings.Contains(lower, "terminal prompts disabled"):
		kind = GitErrAuth
	case strings.Contains(lower, "repository not found"),
		strings.Contains(lower, "not found"):
		kind = GitErrRepoNotFound
	}

	return &GitError{
		Kind:      kind,
		Op:        op,
		URL:       url,
		RawOutput: strings.TrimSpace(rawOutput),
		Hints:     gitHints(kind, url),
	}
}

func gitHints(kind GitErrorKind, url string) []string {
	switch kind {
	case GitErrNetwork, GitErrTimeout:
		return []string{
			"check your internet connection and retry",
			fmt.Sprintf("verify the host in %s is reachable", url),
		}
	case GitErrAuth:
		return []string{
			"configure git credentials for " + url,
			"for private repos, set up a credential helper or an SSH key",
		}
	case GitErrRepoNotFound:
		return []string{"verify the repository URL in ~/.forgeup/settings.json"}
	default:
		return nil
	}
}
