package core

import (
	"fmt"
	"io"
	"os"
)

// Remover undoes what the installer did: the install home, the launcher
// shim, and the PATH lines in shell init files. It does not touch the
// companion platform or any system packages; those were installed into
// shared locations the user may rely on elsewhere.
type Remover struct {
	homeDir string
	out     io.Writer

	// ProfileDir overrides the system profile drop-in directory.
	ProfileDir string
}

func NewRemover(homeDir string, out io.Writer) *Remover {
	return &Remover{homeDir: homeDir, out: out, ProfileDir: defaultProfileDir}
}

// Remove deletes the installation under target.Home and the launcher
// wiring. Safe to run repeatedly; missing pieces are skipped.
func (r *Remover) Remove(target InstallTarget) error {
	launcher := NewLauncherInstaller(r.homeDir, r.out)
	launcher.ProfileDir = r.ProfileDir
	if err := launcher.Remove(); err != nil {
		return err
	}

	if fileExists(target.Home) {
		fmt.Fprintf(r.out, "Removing %s...\n", target.Home)
		if err := os.RemoveAll(target.Home); err != nil {
			return fmt.Errorf("removing install home: %w", err)
		}
	}

	return nil
}
