package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "forgeup",
	Short: "Bootstrap an AgentForge installation",
	Long: `Forgeup bootstraps AgentForge on a developer machine.

It probes the host, installs missing prerequisites (git, Python, Node),
clones or updates the AgentForge repository, provisions an isolated
environment, optionally installs the OpenClaw agent platform, puts an
"agentforge" launcher on your PATH, and verifies the result with the
application's own init/start/status/doctor commands.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("forgeup %s (commit: %s, built: %s)\n", Version, Commit, Date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
