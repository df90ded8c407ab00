package core

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// commandTimeout bounds every non-interactive subprocess. Package installs
// and clones can be slow on a cold cache, so this is generous.
const commandTimeout = 10 * time.Minute

// Runner abstracts subprocess execution so stages can be tested without a
// real host.
type Runner interface {
	// LookPath resolves a binary on PATH.
	LookPath(name string) (string, error)

	// Output runs a command and returns its combined output.
	Output(ctx context.Context, name string, args ...string) (string, error)

	// Interactive runs a command wired to the user's terminal.
	Interactive(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs real subprocesses.
type ExecRunner struct {
	// Env entries appended to the inherited environment.
	Env []string
}

func NewExecRunner() *ExecRunner {
	return &ExecRunner{
		// Never hang on a credential prompt inside a non-interactive git
		// subprocess; fail instead so the error can be classified.
		Env: []string{"GIT_TERMINAL_PROMPT=0"},
	}
}

func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Output runs the command with a timeout and returns combined output.
func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Env = append(os.Environ(), r.Env...)
	return runWithTimeout(ctx, cmd, commandTimeout)
}

// Interactive runs the command attached to the caller's stdio, with no
// timeout: it ends when the user (or the command) decides.
func (r *ExecRunner) Interactive(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), r.Env...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// runWithTimeout runs a command with a timeout.
func runWithTimeout(ctx context.Context, cmd *exec.Cmd, timeout time.Duration) (string, error) {
	done := make(chan struct{})
	var output []byte
	var cmdErr error

	go func() {
		output, cmdErr = cmd.CombinedOutput()
		close(done)
	}()

	select {
	case <-done:
		return string(output), cmdErr
	case <-ctx.Done():
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		return "", ctx.Err()
	case <-time.After(timeout):
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		return "", fmt.Errorf("command timed out after %s", timeout)
	}
}
