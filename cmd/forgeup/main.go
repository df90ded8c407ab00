package main

import (
	"fmt"
	"os"

	"github.com/barysiuk/forgeup/cmd/forgeup/cmd"
	"github.com/barysiuk/forgeup/internal/core"
)

func main() {
	if err := cmd.Execute(); err != nil {
		// Classified git failures carry remediation hints; show them.
		if ge, ok := core.IsGitError(err); ok {
			fmt.Fprintf(os.Stderr, "Error: %s\n", ge.Details())
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
