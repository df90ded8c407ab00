package cmd

import (
	"fmt"
	"os"

	"github.com/barysiuk/forgeup/internal/core"
	"github.com/barysiuk/forgeup/internal/tui"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install or upgrade AgentForge on this machine",
	Long: `Install runs the full bootstrap pipeline:

  1. Probe the host (OS family, package manager, git/Python/Node versions)
  2. Install missing prerequisites via the system package manager
  3. Resolve the agent platform (OpenClaw companion, crewai fallback,
     or standalone)
  4. Clone or hard-sync the AgentForge repository
  5. Provision the isolated Python environment and install the app
  6. Put the "agentforge" launcher on your PATH
  7. Run the app's own init/start/status/doctor to verify the result

An existing installation triggers an upgrade/fresh/cancel prompt unless
--upgrade is given. The sync is destructive: local changes under
<home>/repo are discarded.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}
		settings, err := d.settings.LoadOrInit()
		if err != nil {
			return err
		}

		installHome, err := resolveInstallHome(cmd)
		if err != nil {
			return err
		}
		userHome, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("getting home directory: %w", err)
		}

		upgrade, _ := cmd.Flags().GetBool("upgrade")
		mailbox, _ := cmd.Flags().GetBool("mailbox")
		assumeYes, _ := cmd.Flags().GetBool("yes")

		interactive := stdinIsTerminal()
		quiet := settings.Quiet || envTruthy(envQuiet)

		var prompter core.Prompter
		if interactive && !assumeYes {
			prompter = tui.NewPrompter()
		} else {
			prompter = core.PolicyPrompter{
				Automation:    envTruthy(envAutomation),
				PlatformOptIn: envTruthy(envPlatformOptIn),
				AssumeYes:     assumeYes,
			}
		}

		orch := core.NewOrchestrator(core.NewExecRunner(), prompter, os.Stdout, core.Options{
			Target: core.InstallTarget{
				Home:    installHome,
				RepoURL: settings.RepoURL,
				Ref:     settings.Ref,
			},
			HomeDir:          userHome,
			Upgrade:          upgrade,
			Mailbox:          mailbox,
			AssumeYes:        assumeYes,
			Quiet:            quiet,
			Interactive:      interactive,
			DashboardRepoURL: settings.DashboardRepoURL,
			MailboxRepoURL:   settings.MailboxRepoURL,
			ExtraPackages:    settings.ExtraPackages,
			ProfileDir:       profileDir(),
		})

		return orch.Run(cmd.Context())
	},
}

func init() {
	installCmd.Flags().Bool("upgrade", false, "Upgrade an existing installation without prompting")
	installCmd.Flags().Bool("mailbox", false, "Also clone the companion mailbox repository")
	installCmd.Flags().String("home", "", "Install home directory (default: $AGENTFORGE_HOME or ~/.agentforge)")
	installCmd.Flags().BoolP("yes", "y", false, "Assume yes for all prompts")
	rootCmd.AddCommand(installCmd)
}
