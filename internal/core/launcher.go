package core

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	// pathMarker identifies lines this tool owns in shell init files.
	// Idempotency contract: after any number of runs, a file contains at
	// most one line with this marker.
	pathMarker = "# added by forgeup"

	shimName = "agentforge"
)

// shellInitFiles are the per-user files that receive the PATH line.
// Missing files are created; the user's shell decides which ones it reads.
var shellInitFiles = []string{".bashrc", ".zshrc", ".profile"}

// defaultProfileDir is where the best-effort system-wide PATH drop-in
// goes.
const defaultProfileDir = "/etc/profile.d"

// LauncherInstaller writes the launcher shim and makes its directory
// reachable from the user's PATH.
type LauncherInstaller struct {
	homeDir string // user home, overridable for tests
	out     io.Writer

	// ProfileDir overrides the system profile drop-in directory
	// (DESTDIR-style; used by packaging and tests).
	ProfileDir string
}

func NewLauncherInstaller(homeDir string, out io.Writer) *LauncherInstaller {
	return &LauncherInstaller{homeDir: homeDir, out: out, ProfileDir: defaultProfileDir}
}

// systemSnippetPath is the system-wide profile drop-in location.
func (li *LauncherInstaller) systemSnippetPath() string {
	return filepath.Join(li.ProfileDir, "agentforge.sh")
}

// BinDir returns the directory the shim is written to.
func (li *LauncherInstaller) BinDir() string {
	return filepath.Join(li.homeDir, ".local", "bin")
}

// ShimPath returns the launcher shim location.
func (li *LauncherInstaller) ShimPath() string {
	return filepath.Join(li.BinDir(), shimName)
}

// Install writes the shim and ensures the PATH mutation in every shell
// init file. The system-wide snippet is attempted last and its failure is
// returned as a warning string, not an error.
func (li *LauncherInstaller) Install(target InstallTarget) ([]string, error) {
	if err := os.MkdirAll(li.BinDir(), 0o755); err != nil {
		return nil, fmt.Errorf("creating launcher directory: %w", err)
	}

	shim := fmt.Sprintf("#!/bin/sh\nexec %q \"$@\"\n", AppBinary(target))
	if err := os.WriteFile(li.ShimPath(), []byte(shim), 0o755); err != nil {
		return nil, fmt.Errorf("writing launcher shim: %w", err)
	}

	line := fmt.Sprintf(`export PATH="%s:$PATH" %s`, li.BinDir(), pathMarker)
	for _, name := range shellInitFiles {
		path := filepath.Join(li.homeDir, name)
		if err := ensureLineInFile(path, pathMarker, line); err != nil {
			return nil, fmt.Errorf("updating %s: %w", name, err)
		}
	}

	var warnings []string
	snippet := fmt.Sprintf("%s\n%s\n", "# agentforge launcher directory", line)
	if err := writeIfChanged(li.systemSnippetPath(), snippet, 0o644); err != nil {
		warnings = append(warnings, fmt.Sprintf("could not write %s (needs root, skipped): %v", li.systemSnippetPath(), err))
	}

	return warnings, nil
}

// Remove deletes the shim and strips the PATH lines this tool added.
func (li *LauncherInstaller) Remove() error {
	if err := os.Remove(li.ShimPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing launcher shim: %w", err)
	}
	for _, name := range shellInitFiles {
		path := filepath.Join(li.homeDir, name)
		if err := removeLineFromFile(path, pathMarker); err != nil {
			return fmt.Errorf("cleaning %s: %w", name, err)
		}
	}
	// Best effort; usually not writable without root.
	_ = os.Remove(li.systemSnippetPath())
	return nil
}

// EnsureLine returns content with exactly one line carrying marker. When
// the marker is absent the line is appended; when present (even multiple
// times, from older buggy runs) the content collapses to a single
// occurrence. The boolean reports whether content changed.
func EnsureLine(content, marker, line string) (string, bool) {
	lines := strings.Split(content, "\n")

	var kept []string
	seen := false
	for _, l := range lines {
		if strings.Contains(l, marker) {
			if !seen && l == line {
				kept = append(kept, l)
				seen = true
			}
			// Drop stale or duplicate marker lines.
			continue
		}
		kept = append(kept, l)
	}

	if seen {
		result := strings.Join(kept, "\n")
		return result, result != content
	}

	// Append, keeping a trailing newline.
	for len(kept) > 0 && kept[len(kept)-1] == "" {
		kept = kept[:len(kept)-1]
	}
	kept = append(kept, line, "")
	result := strings.Join(kept, "\n")
	return result, true
}

// RemoveLine returns content with every marker line removed.
func RemoveLine(content, marker string) (string, bool) {
	lines := strings.Split(content, "\n")
	var kept []string
	removed := false
	for _, l := range lines {
		if strings.Contains(l, marker) {
			removed = true
			continue
		}
		kept = append(kept, l)
	}
	if !removed {
		return content, false
	}
	return strings.Join(kept, "\n"), true
}

// ensureLineInFile applies EnsureLine to a file, creating it when absent.
func ensureLineInFile(path, marker, line string) error {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	updated, changed := EnsureLine(string(data), marker, line)
	if !changed {
		return nil
	}
	return os.WriteFile(path, []byte(updated), 0o644)
}

// removeLineFromFile applies RemoveLine to a file; a missing file is fine.
func removeLineFromFile(path, marker string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	updated, changed := RemoveLine(string(data), marker)
	if !changed {
		return nil
	}
	return os.WriteFile(path, []byte(updated), 0o644)
}

// writeIfChanged writes content to path unless it already matches.
func writeIfChanged(path, content string, perm os.FileMode) error {
	if existing, err := os.ReadFile(path); err == nil && string(existing) == content {
		return nil
	}
	return os.WriteFile(path, []byte(content), perm)
}
