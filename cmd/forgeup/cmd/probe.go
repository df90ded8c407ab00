package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/barysiuk/forgeup/internal/core"
	"github.com/spf13/cobra"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Show what the installer would find on this host",
	Long: `Probe detects the OS family, the package manager, and the versions of
the required tools (git, Python, Node), then prints a report without
changing anything.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		probe := core.NewProbe(core.NewExecRunner())
		report, err := probe.Detect(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "OS family: %s\n", report.OS)
		if report.Manager != nil {
			fmt.Fprintf(os.Stdout, "Package manager: %s\n", report.Manager.Name)
		} else {
			fmt.Fprintln(os.Stdout, "Package manager: none found")
		}

		for _, req := range core.Requirements() {
			status := report.Tools[req.Name]
			switch {
			case status.Satisfied:
				fmt.Fprintf(os.Stdout, "  ok %s %s (%s)\n", req.Name, status.Version, status.Path)
			case status.Found:
				fmt.Fprintf(os.Stdout, "  !! %s %s (needs %d.%d+)\n", req.Name, status.Version, req.MinMajor, req.MinMinor)
			default:
				fmt.Fprintf(os.Stdout, "  -- %s not found\n", req.Name)
			}
		}

		// Report what the last install run recorded, if any.
		installHome, err := resolveInstallHome(cmd)
		if err != nil {
			return err
		}
		if m, err := core.LoadManifest(installHome); err == nil && m != nil {
			fmt.Fprintf(os.Stdout, "Recorded install: phase %s, platform %s (updated %s)\n",
				m.Phase, m.Platform, m.UpdatedAt.Format(time.RFC3339))
		}
		return nil
	},
}

func init() {
	probeCmd.Flags().String("home", "", "Install home directory (default: $AGENTFORGE_HOME or ~/.agentforge)")
	rootCmd.AddCommand(probeCmd)
}
