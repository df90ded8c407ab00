package core

import (
	"context"
	"fmt"
	"strings"
)

// fakeRunner scripts subprocess behavior for tests. Commands are keyed by
// the joined command line; unscripted lookups fail and unscripted
// commands succeed with empty output.
type fakeRunner struct {
	paths   map[string]string // binary name -> resolved path
	outputs map[string]fakeResult
	calls   []string

	interactiveErrs map[string]error

	// onCall fires side effects when a command runs, e.g. a package
	// install making a binary appear on PATH.
	onCall map[string]func()
}

type fakeResult struct {
	out string
	err error
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		paths:           map[string]string{},
		outputs:         map[string]fakeResult{},
		interactiveErrs: map[string]error{},
		onCall:          map[string]func(){},
	}
}

func (f *fakeRunner) givePath(name string) {
	f.paths[name] = "/usr/bin/" + name
}

func (f *fakeRunner) giveOutput(cmdline, out string) {
	f.outputs[cmdline] = fakeResult{out: out}
}

func (f *fakeRunner) giveError(cmdline, out string) {
	f.outputs[cmdline] = fakeResult{out: out, err: fmt.Errorf("exit status 1")}
}

func (f *fakeRunner) LookPath(name string) (string, error) {
	if p, ok := f.paths[name]; ok {
		return p, nil
	}
	return "", fmt.Errorf("exec: %q: executable file not found in $PATH", name)
}

func (f *fakeRunner) Output(_ context.Context, name string, args ...string) (string, error) {
	cmdline := strings.Join(append([]string{name}, args...), " ")
	f.calls = append(f.calls, cmdline)
	if fn, ok := f.onCall[cmdline]; ok {
		fn()
	}
	if res, ok := f.outputs[cmdline]; ok {
		return res.out, res.err
	}
	return "", nil
}

func (f *fakeRunner) Interactive(_ context.Context, name string, args ...string) error {
	cmdline := strings.Join(append([]string{name}, args...), " ")
	f.calls = append(f.calls, cmdline)
	if fn, ok := f.onCall[cmdline]; ok {
		fn()
	}
	return f.interactiveErrs[cmdline]
}

// called reports whether any recorded call contains substr.
func (f *fakeRunner) called(substr string) bool {
	for _, c := range f.calls {
		if strings.Contains(c, substr) {
			return true
		}
	}
	return false
}
