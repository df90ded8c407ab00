package cmd

import (
	"fmt"
	"os"

	"github.com/barysiuk/forgeup/internal/core"
	"github.com/barysiuk/forgeup/internal/tui"
	"github.com/spf13/cobra"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the AgentForge installation",
	Long: `Uninstall removes the install home (repository clone, environment,
state), the launcher shim, and the PATH lines this tool added to your
shell init files.

System packages and the OpenClaw platform are left alone; other tools
may depend on them.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		installHome, err := resolveInstallHome(cmd)
		if err != nil {
			return err
		}
		userHome, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("getting home directory: %w", err)
		}

		force, _ := cmd.Flags().GetBool("force")
		if !force && stdinIsTerminal() {
			ok, err := tui.Confirm(fmt.Sprintf("Remove %s and the agentforge launcher?", installHome), false)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(os.Stdout, "Cancelled.")
				return nil
			}
		}

		remover := core.NewRemover(userHome, os.Stdout)
		if dir := profileDir(); dir != "" {
			remover.ProfileDir = dir
		}
		target := core.InstallTarget{Home: installHome}
		if err := remover.Remove(target); err != nil {
			return err
		}

		fmt.Fprintln(os.Stdout, "AgentForge removed. Open a new shell for PATH changes to apply.")
		return nil
	},
}

func init() {
	uninstallCmd.Flags().BoolP("force", "f", false, "Do not ask for confirmation")
	uninstallCmd.Flags().String("home", "", "Install home directory (default: $AGENTFORGE_HOME or ~/.agentforge)")
	rootCmd.AddCommand(uninstallCmd)
}
