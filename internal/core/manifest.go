package core

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// InstallPhase is the installation state, computed once at startup from
// filesystem presence and then passed explicitly through every stage.
type InstallPhase string

const (
	// PhaseFresh: no prior installation under the home.
	PhaseFresh InstallPhase = "fresh"
	// PhaseUpgrade: a valid clone and environment already exist.
	PhaseUpgrade InstallPhase = "upgrade"
	// PhaseCorrupt: a partial installation, where one of clone and
	// environment exists without the other.
	PhaseCorrupt InstallPhase = "corrupt"
)

// Manifest records what the installer last did. It lives under the
// install home and is rewritten at the end of every successful run.
type Manifest struct {
	Phase     InstallPhase   `yaml:"phase"`
	Platform  PlatformChoice `yaml:"platform"`
	Completed []string       `yaml:"completedStages"`
	UpdatedAt time.Time      `yaml:"updatedAt"`
}

// manifestPath returns the manifest location under the install home.
func manifestPath(home string) string {
	return filepath.Join(home, ".forgeup", "state.yaml")
}

// DetectPhase inspects the filesystem under home. The branch taken must
// follow directory presence alone; no cached flag is consulted.
func DetectPhase(target InstallTarget) InstallPhase {
	hasRepo := dirExists(filepath.Join(target.RepoDir(), ".git"))
	hasVenv := dirExists(target.VenvDir())

	switch {
	case hasRepo && hasVenv:
		return PhaseUpgrade
	case !hasRepo && !hasVenv:
		return PhaseFresh
	default:
		return PhaseCorrupt
	}
}

// LoadManifest reads the manifest, returning nil (no error) when absent.
func LoadManifest(home string) (*Manifest, error) {
	data, err := os.ReadFile(manifestPath(home))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}

// Save writes the manifest atomically under home.
func (m *Manifest) Save(home string) error {
	path := manifestPath(home)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	m.UpdatedAt = time.Now().UTC()
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("saving manifest: %w", err)
	}
	return nil
}

// MarkCompleted appends a stage name once.
func (m *Manifest) MarkCompleted(stage string) {
	for _, s := range m.Completed {
		if s == stage {
			return
		}
	}
	m.Completed = append(m.Completed, stage)
}
