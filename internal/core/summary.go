package core

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// SummaryData feeds the final report shown after a run.
type SummaryData struct {
	Version  string
	Platform PlatformChoice
	Running  bool
	Status   string
	Home     string
	Warnings []string
}

// RenderSummary produces the closing banner. The markdown is rendered
// with terminal styling unless quiet is set, in which case the raw
// markdown text is returned (it reads fine as plain text).
func RenderSummary(data SummaryData, quiet bool) string {
	md := buildSummaryMarkdown(data)
	if quiet {
		return md
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func buildSummaryMarkdown(data SummaryData) string {
	var b strings.Builder

	b.WriteString("# AgentForge installed\n\n")
	fmt.Fprintf(&b, "- Version: %s\n", data.Version)
	fmt.Fprintf(&b, "- Platform: %s\n", data.Platform)
	fmt.Fprintf(&b, "- Home: %s\n", data.Home)
	if data.Running {
		b.WriteString("- Service: running\n")
	} else {
		b.WriteString("- Service: **not running**\n")
	}

	if len(data.Warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, w := range data.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	b.WriteString("\n## Next steps\n\n")
	b.WriteString("1. Open a new shell (or `source` your shell rc) so PATH updates apply.\n")
	b.WriteString("2. Run `agentforge status` to check the service.\n")
	if !data.Running {
		b.WriteString("3. Start it with `agentforge start`.\n")
	}
	b.WriteString("\n")

	return b.String()
}
