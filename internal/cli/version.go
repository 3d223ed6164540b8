package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/workmate-dev/workmate/internal/version"
)

// NewVersionCmd creates the version command
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "workmate %s (commit %s, built %s)\n",
				version.Version, version.Commit, version.Date)
		},
	}
}
