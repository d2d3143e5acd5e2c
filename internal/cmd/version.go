package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adamancini/tlaplus-cli/internal/output"
)

func (b BuildInfo) String() string {
	return fmt.Sprintf("tlaplus version %s (commit %s, built %s)", b.Version, b.Commit, b.Date)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Display the tlaplus version. Use 'tlaplus status' for the installed
tla2tools version.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return output.NewWriter(cmd.OutOrStdout(), outputWriterFormat()).Write(buildInfo)
		},
	}
}
