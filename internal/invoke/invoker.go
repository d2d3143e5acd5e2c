// Package invoke runs the installed tla2tools archive under the configured
// Java runtime.
package invoke

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/adamancini/tlaplus-cli/internal/config"
	"github.com/adamancini/tlaplus-cli/internal/logging"
	"github.com/adamancini/tlaplus-cli/internal/manifest"
)

// Invoker composes and runs tool command lines.
type Invoker struct {
	Store *manifest.Store
	// ConfigPath is passed to config.Load; empty searches the standard
	// locations.
	ConfigPath string
	Runner     Runner
	Logger     *slog.Logger
}

// New creates an invoker for the install root using the real process runner.
func New(root, configPath string, logger *slog.Logger) *Invoker {
	return &Invoker{
		Store:      manifest.NewStore(root),
		ConfigPath: configPath,
		Runner:     NewExecRunner(),
		Logger:     logger,
	}
}

// ComposeArgv builds the runtime command line. Launcher arguments always
// precede tool arguments.
func ComposeArgv(runtime, toolPath string, launcherArgs, toolArgs []string) []string {
	argv := make([]string, 0, 3+len(launcherArgs)+len(toolArgs))
	argv = append(argv, runtime, "-cp", toolPath)
	argv = append(argv, launcherArgs...)
	argv = append(argv, toolArgs...)
	return argv
}

// Exec runs the current tool with toolArgs. Manifest and config are read on
// every call, and a recorded version whose archive is gone counts as not
// installed. A tool that fails returns *ExternalToolFailedError.
func (i *Invoker) Exec(ctx context.Context, toolArgs []string) error {
	m, err := i.Store.Load()
	if err != nil {
		return fmt.Errorf("load manifest: %w", err)
	}
	toolPath, err := m.CurrentToolPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(toolPath); err != nil {
		return fmt.Errorf("%w: tla2tools %s archive %s: %v", manifest.ErrNoToolInstalled, m.CurrentVersion(), toolPath, err)
	}

	cfg, err := config.Load(i.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	argv := ComposeArgv(cfg.Runtime(), toolPath, cfg.LauncherArgs(), toolArgs)
	i.logger().Info("running", "version", m.CurrentVersion(), "command", quoteArgv(argv))

	status, err := i.Runner.Run(ctx, argv)
	if err != nil {
		return err
	}
	if !status.Success() {
		return failure(status)
	}
	return nil
}

func (i *Invoker) logger() *slog.Logger {
	if i.Logger != nil {
		return i.Logger
	}
	return logging.Discard()
}

// quoteArgv renders argv so it can be pasted back into a shell.
func quoteArgv(argv []string) string {
	parts := make([]string, len(argv))
	for n, arg := range argv {
		if arg == "" || strings.ContainsAny(arg, " \t\n'\"\\$`*?[]{}()<>|&;#~") {
			parts[n] = "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
		} else {
			parts[n] = arg
		}
	}
	return strings.Join(parts, " ")
}
