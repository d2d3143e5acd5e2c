package cmd

import (
	"github.com/spf13/cobra"

	"github.com/adamancini/tlaplus-cli/internal/config"
	"github.com/adamancini/tlaplus-cli/internal/invoke"
	"github.com/adamancini/tlaplus-cli/internal/manifest"
	"github.com/adamancini/tlaplus-cli/internal/output"
)

// resolveRoot returns the install root: --home, then the platform default.
func resolveRoot() (string, error) {
	if homeDir != "" {
		return homeDir, nil
	}
	return manifest.DefaultRoot()
}

// resolveConfigPath returns --config, or the first config file found in the
// standard locations, or "" when there is none.
func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.FindConfig()
}

func outputWriterFormat() output.Format {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return output.FormatText
	}
	return format
}

// getRunner returns the process runner for tool invocations, attached to the
// command's streams. Tests replace it.
var getRunner = func(cmd *cobra.Command) invoke.Runner {
	return &invoke.ExecRunner{
		Stdin:  cmd.InOrStdin(),
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	}
}
