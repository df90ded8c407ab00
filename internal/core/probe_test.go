package core

import (
	"context"
	"runtime"
	"strings"
	"testing"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in      string
		version string
		major   int
		minor   int
		ok      bool
	}{
		{"git version 2.39.2", "2.39.2", 2, 39, true},
		{"Python 3.11.4", "3.11.4", 3, 11, true},
		{"v20.11.0", "20.11.0", 20, 11, true},
		{"v22.1", "22.1", 22, 1, true},
		{"git version 2.39.2 (Apple Git-143)", "2.39.2", 2, 39, true},
		{"no digits here", "", 0, 0, false},
		{"", "", 0, 0, false},
	}

	for _, tt := range tests {
		version, major, minor, ok := parseVersion(tt.in)
		if ok != tt.ok {
			t.Errorf("parseVersion(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if version != tt.version || major != tt.major || minor != tt.minor {
			t.Errorf("parseVersion(%q) = (%q, %d, %d), want (%q, %d, %d)",
				tt.in, version, major, minor, tt.version, tt.major, tt.minor)
		}
	}
}

func TestMeetsMinimum(t *testing.T) {
	tests := []struct {
		major, minor       int
		minMajor, minMinor int
		want               bool
	}{
		{3, 10, 3, 10, true},
		{3, 11, 3, 10, true},
		{3, 9, 3, 10, false},
		{4, 0, 3, 10, true},
		{2, 99, 3, 10, false},
		{20, 0, 20, 0, true},
		{18, 19, 20, 0, false},
		{2, 39, 0, 0, true}, // no minimum: anything passes
	}

	for _, tt := range tests {
		got := meetsMinimum(tt.major, tt.minor, tt.minMajor, tt.minMinor)
		if got != tt.want {
			t.Errorf("meetsMinimum(%d, %d, %d, %d) = %v, want %v",
				tt.major, tt.minor, tt.minMajor, tt.minMinor, got, tt.want)
		}
	}
}

func TestDetectAllSatisfied(t *testing.T) {
	r := newFakeRunner()
	r.givePath("apt-get")
	r.givePath("git")
	r.giveOutput("git --version", "git version 2.39.2\n")
	r.givePath("python3")
	r.giveOutput("python3 --version", "Python 3.11.4\n")
	r.givePath("node")
	r.giveOutput("node --version", "v20.11.0\n")

	report, err := NewProbe(r).Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}

	if report.Manager == nil || report.Manager.Name != "apt" {
		t.Fatalf("Manager = %+v, want apt", report.Manager)
	}
	for _, name := range []string{"git", "python3", "node"} {
		st := report.Tools[name]
		if !st.Satisfied {
			t.Errorf("%s not satisfied: %+v", name, st)
		}
	}
	if report.Tools["python3"].Version != "3.11.4" {
		t.Errorf("python3 version = %q, want 3.11.4", report.Tools["python3"].Version)
	}
}

func TestDetectPrefersBrew(t *testing.T) {
	r := newFakeRunner()
	r.givePath("brew")
	r.givePath("apt-get")
	r.givePath("python3")
	r.giveOutput("python3 --version", "Python 3.12.1\n")

	report, err := NewProbe(r).Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if report.Manager.Name != "brew" {
		t.Errorf("Manager = %q, want brew to win over apt", report.Manager.Name)
	}
}

func TestDetectPythonCandidateOrder(t *testing.T) {
	// python3.12 present and new enough: it should win over plain python3.
	r := newFakeRunner()
	r.givePath("apt-get")
	r.givePath("python3.12")
	r.giveOutput("python3.12 --version", "Python 3.12.3\n")
	r.givePath("python3")
	r.giveOutput("python3 --version", "Python 3.8.10\n")

	report, err := NewProbe(r).Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	st := report.Tools["python3"]
	if st.Bin != "python3.12" || !st.Satisfied {
		t.Errorf("python3 status = %+v, want python3.12 satisfied", st)
	}
}

func TestDetectRecordsTooOldTool(t *testing.T) {
	// Only an old node: Found but not Satisfied, so callers can report
	// "needs upgrade" instead of "missing".
	r := newFakeRunner()
	r.givePath("apt-get")
	r.givePath("python3")
	r.giveOutput("python3 --version", "Python 3.11.0\n")
	r.givePath("node")
	r.giveOutput("node --version", "v18.19.0\n")

	report, err := NewProbe(r).Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	st := report.Tools["node"]
	if !st.Found {
		t.Fatal("old node should be Found")
	}
	if st.Satisfied {
		t.Error("node 18 should not satisfy the 20 minimum")
	}
	if st.Version != "18.19.0" {
		t.Errorf("node version = %q, want 18.19.0", st.Version)
	}
}

func TestDetectUnsupportedPlatform(t *testing.T) {
	// No manager and no interpreter: the one terminal detect error.
	r := newFakeRunner()

	_, err := NewProbe(r).Detect(context.Background())
	if err == nil {
		t.Fatal("Detect() should fail with no manager and no python")
	}
	if !strings.Contains(err.Error(), "unsupported platform") {
		t.Errorf("error = %v, want unsupported platform", err)
	}
}

func TestDetectNoManagerButPython(t *testing.T) {
	// Python alone keeps the host supported; missing tools become the
	// prerequisite stage's problem.
	r := newFakeRunner()
	r.givePath("python3")
	r.giveOutput("python3 --version", "Python 3.10.12\n")

	report, err := NewProbe(r).Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if report.Manager != nil {
		t.Errorf("Manager = %+v, want nil", report.Manager)
	}
	if report.Tools["git"].Found {
		t.Error("git should not be found")
	}
}

func TestOSFamilyLinux(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("linux-only")
	}
	r := newFakeRunner()
	r.givePath("pacman")
	p := NewProbe(r)
	if got := p.osFamily(); got != OSArch {
		t.Errorf("osFamily() = %q, want %q", got, OSArch)
	}
}
