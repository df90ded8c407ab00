package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEnsureLineAppends(t *testing.T) {
	got, changed := EnsureLine("export EDITOR=vim\n", "# added by forgeup", `export PATH="/x:$PATH" # added by forgeup`)
	if !changed {
		t.Fatal("first run should change content")
	}
	want := "export EDITOR=vim\nexport PATH=\"/x:$PATH\" # added by forgeup\n"
	if got != want {
		t.Errorf("content = %q, want %q", got, want)
	}
}

func TestEnsureLineIdempotent(t *testing.T) {
	marker := "# added by forgeup"
	line := `export PATH="/x:$PATH" ` + marker

	content := "alias ll='ls -l'\n"
	for i := 0; i < 5; i++ {
		content, _ = EnsureLine(content, marker, line)
	}
	if n := strings.Count(content, marker); n != 1 {
		t.Errorf("after 5 runs, marker appears %d times, want 1:\n%s", n, content)
	}

	// A no-op run must report no change.
	if _, changed := EnsureLine(content, marker, line); changed {
		t.Error("repeated EnsureLine should report no change")
	}
}

func TestEnsureLineReplacesStaleLine(t *testing.T) {
	marker := "# added by forgeup"
	stale := `export PATH="/old/bin:$PATH" ` + marker
	line := `export PATH="/new/bin:$PATH" ` + marker

	got, changed := EnsureLine("top\n"+stale+"\nbottom\n", marker, line)
	if !changed {
		t.Fatal("stale line should be replaced")
	}
	if strings.Contains(got, "/old/bin") {
		t.Errorf("stale line survived:\n%s", got)
	}
	if n := strings.Count(got, marker); n != 1 {
		t.Errorf("marker appears %d times, want 1:\n%s", n, got)
	}
}

func TestEnsureLineCollapsesDuplicates(t *testing.T) {
	marker := "# added by forgeup"
	line := `export PATH="/x:$PATH" ` + marker

	// Two copies, as an older buggy run might have left.
	content := line + "\nmiddle\n" + line + "\n"
	got, changed := EnsureLine(content, marker, line)
	if !changed {
		t.Fatal("duplicates should be collapsed")
	}
	if n := strings.Count(got, marker); n != 1 {
		t.Errorf("marker appears %d times, want 1:\n%s", n, got)
	}
	if !strings.Contains(got, "middle") {
		t.Errorf("unrelated lines must survive:\n%s", got)
	}
}

func TestRemoveLine(t *testing.T) {
	marker := "# added by forgeup"
	content := "top\nexport PATH=\"/x:$PATH\" " + marker + "\nbottom\n"

	got, removed := RemoveLine(content, marker)
	if !removed {
		t.Fatal("marker line should be removed")
	}
	if strings.Contains(got, marker) {
		t.Errorf("marker survived:\n%s", got)
	}
	if !strings.Contains(got, "top") || !strings.Contains(got, "bottom") {
		t.Errorf("unrelated lines must survive:\n%s", got)
	}

	if _, removed := RemoveLine(got, marker); removed {
		t.Error("second RemoveLine should be a no-op")
	}
}

func TestLauncherInstall(t *testing.T) {
	home := t.TempDir()
	target := InstallTarget{Home: filepath.Join(home, ".agentforge")}

	li := NewLauncherInstaller(home, &strings.Builder{})
	li.ProfileDir = t.TempDir()

	warnings, err := li.Install(target)
	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none with a writable profile dir", warnings)
	}

	shim, err := os.ReadFile(li.ShimPath())
	if err != nil {
		t.Fatalf("reading shim: %v", err)
	}
	if !strings.HasPrefix(string(shim), "#!/bin/sh\n") {
		t.Errorf("shim = %q, want a sh wrapper", shim)
	}
	if !strings.Contains(string(shim), AppBinary(target)) {
		t.Errorf("shim = %q, should exec %s", shim, AppBinary(target))
	}
	info, err := os.Stat(li.ShimPath())
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm()&0o111 == 0 {
		t.Errorf("shim mode = %v, want executable", info.Mode())
	}

	for _, name := range []string{".bashrc", ".zshrc", ".profile"} {
		data, err := os.ReadFile(filepath.Join(home, name))
		if err != nil {
			t.Fatalf("reading %s: %v", name, err)
		}
		if n := strings.Count(string(data), pathMarker); n != 1 {
			t.Errorf("%s has %d marker lines, want 1", name, n)
		}
	}

	if _, err := os.Stat(filepath.Join(li.ProfileDir, "agentforge.sh")); err != nil {
		t.Errorf("system snippet missing: %v", err)
	}
}

func TestLauncherInstallTwiceIsIdempotent(t *testing.T) {
	home := t.TempDir()
	target := InstallTarget{Home: filepath.Join(home, ".agentforge")}

	li := NewLauncherInstaller(home, &strings.Builder{})
	li.ProfileDir = t.TempDir()

	for i := 0; i < 3; i++ {
		if _, err := li.Install(target); err != nil {
			t.Fatalf("Install() run %d error = %v", i+1, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(home, ".bashrc"))
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), pathMarker); n != 1 {
		t.Errorf(".bashrc has %d marker lines after 3 installs, want 1", n)
	}
}

func TestLauncherInstallPreservesExistingContent(t *testing.T) {
	home := t.TempDir()
	existing := "# my settings\nexport EDITOR=vim\n"
	if err := os.WriteFile(filepath.Join(home, ".bashrc"), []byte(existing), 0o644); err != nil {
		t.Fatal(err)
	}

	li := NewLauncherInstaller(home, &strings.Builder{})
	li.ProfileDir = t.TempDir()
	if _, err := li.Install(InstallTarget{Home: filepath.Join(home, ".agentforge")}); err != nil {
		t.Fatalf("Install() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(home, ".bashrc"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "export EDITOR=vim") {
		t.Errorf("existing content lost:\n%s", data)
	}
}

func TestLauncherRemove(t *testing.T) {
	home := t.TempDir()
	target := InstallTarget{Home: filepath.Join(home, ".agentforge")}

	li := NewLauncherInstaller(home, &strings.Builder{})
	li.ProfileDir = t.TempDir()
	if _, err := li.Install(target); err != nil {
		t.Fatalf("Install() error = %v", err)
	}

	if err := li.Remove(); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	if fileExists(li.ShimPath()) {
		t.Error("shim should be gone")
	}
	for _, name := range []string{".bashrc", ".zshrc", ".profile"} {
		data, err := os.ReadFile(filepath.Join(home, name))
		if err != nil {
			t.Fatalf("reading %s: %v", name, err)
		}
		if strings.Contains(string(data), pathMarker) {
			t.Errorf("%s still has a marker line", name)
		}
	}

	// Removing again must not fail.
	if err := li.Remove(); err != nil {
		t.Errorf("second Remove() error = %v", err)
	}
}
