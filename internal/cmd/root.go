package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/adamancini/tlaplus-cli/internal/logging"
	"github.com/adamancini/tlaplus-cli/internal/output"
)

var (
	// Global flags
	outputFormat string
	configPath   string
	homeDir      string
	logFormat    string
	verbose      bool
	quiet        bool
)

// buildInfo is set from main through Execute.
var buildInfo = BuildInfo{Version: "dev", Commit: "none", Date: "unknown"}

// BuildInfo identifies the running binary.
type BuildInfo struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
}

// Execute runs the command tree against os.Args.
func Execute(ctx context.Context, version, commit, date string) error {
	buildInfo = BuildInfo{Version: version, Commit: commit, Date: date}
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tlaplus",
		Short: "Install, update and run the TLA+ tools",
		Long: `tlaplus keeps a local copy of tla2tools.jar up to date and runs its tools
through the Java runtime.

Run 'tlaplus update' once to install the tools, then use 'tlaplus translate'
to run the PlusCal translator.`,
		Version:       buildInfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := output.ParseFormat(outputFormat); err != nil {
				return err
			}
			logger := logging.New(logLevel(), logFormat, cmd.ErrOrStderr())
			cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "Output format: text, json, yaml")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: search standard locations)")
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "Install root for tla2tools archives (default: $TLAPLUS_HOME or the user data dir)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	// Add subcommands
	rootCmd.AddCommand(newUpdateCmd())
	rootCmd.AddCommand(newTranslateCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	// Register completion functions for enum flags
	_ = rootCmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return output.Formats(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("log-format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "json"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.MarkPersistentFlagDirname("home")

	return rootCmd
}

func logLevel() string {
	switch {
	case verbose:
		return logging.LevelDebug
	case quiet:
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

// progressWriter returns where user-facing progress lines go: stdout for
// text output, stderr when stdout carries structured output, nowhere when
// quiet.
func progressWriter(cmd *cobra.Command) io.Writer {
	switch {
	case quiet:
		return io.Discard
	case outputWriterFormat() == output.FormatText:
		return cmd.OutOrStdout()
	default:
		return cmd.ErrOrStderr()
	}
}
