package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/tailscale/hujson"
)

const (
	settingsDirName  = ".forgeup"
	settingsFileName = "settings.json"

	defaultRepoURL = "https://github.com/agentforge/agentforge.git"
	defaultRef     = "main"

	defaultDashboardRepoURL = "https://github.com/agentforge/agentforge-dashboard.git"
	defaultMailboxRepoURL   = "https://github.com/agentforge/agentforge-mailbox.git"
)

// Settings holds user-editable installer preferences. The file is JSONC
// (comments and trailing commas allowed) so users can annotate overrides.
type Settings struct {
	RepoURL          string   `json:"repoUrl,omitempty"`
	Ref              string   `json:"ref,omitempty"`
	DashboardRepoURL string   `json:"dashboardRepoUrl,omitempty"`
	MailboxRepoURL   string   `json:"mailboxRepoUrl,omitempty"`
	ExtraPackages    []string `json:"extraPackages,omitempty"`
	Quiet            bool     `json:"quiet,omitempty"`
}

// SettingsManager reads and writes ~/.forgeup/settings.json.
type SettingsManager struct {
	dir string
	mu  sync.RWMutex
}

// NewSettingsManager uses the default settings path under the user home.
func NewSettingsManager() (*SettingsManager, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting home directory: %w", err)
	}
	return &SettingsManager{dir: filepath.Join(home, settingsDirName)}, nil
}

// NewSettingsManagerWithDir uses a custom directory. Useful for testing.
func NewSettingsManagerWithDir(dir string) *SettingsManager {
	return &SettingsManager{dir: dir}
}

// Path returns the full settings file path.
func (sm *SettingsManager) Path() string {
	return filepath.Join(sm.dir, settingsFileName)
}

// Load reads the settings. A missing file yields defaults.
func (sm *SettingsManager) Load() (*Settings, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	data, err := os.ReadFile(sm.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return defaultSettings(), nil
		}
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	// Standardize JSONC to plain JSON before unmarshaling, so comments in
	// the user's file survive round trips of reading.
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}

	s := defaultSettings()
	if err := json.Unmarshal(std, s); err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}
	return s, nil
}

// LoadOrInit reads the settings, first writing the defaults to disk when
// no file exists yet, so users have a file to edit before the next run.
func (sm *SettingsManager) LoadOrInit() (*Settings, error) {
	if _, err := os.Stat(sm.Path()); os.IsNotExist(err) {
		if err := sm.Save(defaultSettings()); err != nil {
			return nil, err
		}
	}
	return sm.Load()
}

// Save writes the settings atomically, creating the directory if needed.
// Saving normalizes the file to plain JSON.
func (sm *SettingsManager) Save(s *Settings) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if err := os.MkdirAll(sm.dir, 0o755); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}

	tmp := sm.Path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	if err := os.Rename(tmp, sm.Path()); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}

func defaultSettings() *Settings {
	return &Settings{
		RepoURL:          defaultRepoURL,
		Ref:              defaultRef,
		DashboardRepoURL: defaultDashboardRepoURL,
		MailboxRepoURL:   defaultMailboxRepoURL,
	}
}
