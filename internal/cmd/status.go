package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/adamancini/tlaplus-cli/internal/config"
	"github.com/adamancini/tlaplus-cli/internal/manifest"
	"github.com/adamancini/tlaplus-cli/internal/output"
)

// ArchiveStatus describes one manifest slot.
type ArchiveStatus struct {
	Version string `json:"version" yaml:"version"`
	Path    string `json:"path" yaml:"path"`
	Present bool   `json:"present" yaml:"present"` // archive exists on disk
}

// StatusReport summarizes the installed tools and effective configuration.
type StatusReport struct {
	Root         string         `json:"root" yaml:"root"`
	Current      *ArchiveStatus `json:"current,omitempty" yaml:"current,omitempty"`
	Previous     *ArchiveStatus `json:"previous,omitempty" yaml:"previous,omitempty"`
	UpdatedAt    *time.Time     `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
	ConfigFile   string         `json:"config_file,omitempty" yaml:"config_file,omitempty"`
	Runtime      string         `json:"runtime" yaml:"runtime"`
	LauncherArgs []string       `json:"launcher_args" yaml:"launcher_args"`
}

func (r StatusReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Install root: %s\n", r.Root)
	if r.Current == nil {
		b.WriteString("tla2tools:    not installed (run 'tlaplus update')\n")
	} else {
		fmt.Fprintf(&b, "tla2tools:    %s\n", describeArchive(r.Current))
		if r.Previous != nil {
			fmt.Fprintf(&b, "Previous:     %s\n", describeArchive(r.Previous))
		}
		if r.UpdatedAt != nil {
			fmt.Fprintf(&b, "Updated:      %s\n", r.UpdatedAt.Local().Format(time.RFC1123))
		}
	}
	if r.ConfigFile == "" {
		b.WriteString("Config:       none (defaults)\n")
	} else {
		fmt.Fprintf(&b, "Config:       %s\n", r.ConfigFile)
	}
	fmt.Fprintf(&b, "Runtime:      %s", r.Runtime)
	if len(r.LauncherArgs) > 0 {
		fmt.Fprintf(&b, " %s", strings.Join(r.LauncherArgs, " "))
	}
	return b.String()
}

func describeArchive(a *ArchiveStatus) string {
	s := fmt.Sprintf("%s (%s)", a.Version, a.Path)
	if !a.Present {
		s += " [missing]"
	}
	return s
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the installed tla2tools version and configuration",
		Long: `Status shows which tla2tools version is installed, the rollback version,
and the runtime command line that 'tlaplus translate' will use.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := buildStatus()
			if err != nil {
				return err
			}
			return output.NewWriter(cmd.OutOrStdout(), outputWriterFormat()).Write(report)
		},
	}
}

func buildStatus() (*StatusReport, error) {
	root, err := resolveRoot()
	if err != nil {
		return nil, err
	}
	m, err := manifest.NewStore(root).Load()
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}

	cfgPath, err := resolveConfigPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfgPath != "" {
		if _, err := os.Stat(cfgPath); err != nil {
			cfgPath = ""
		}
	}

	report := &StatusReport{
		Root:         root,
		UpdatedAt:    m.UpdatedAt,
		ConfigFile:   cfgPath,
		Runtime:      cfg.Runtime(),
		LauncherArgs: cfg.LauncherArgs(),
	}
	if report.LauncherArgs == nil {
		report.LauncherArgs = []string{}
	}
	if path, err := m.CurrentToolPath(); err == nil {
		report.Current = archiveStatus(m.CurrentVersion(), path)
	}
	if path, ok := m.PreviousToolPath(); ok {
		report.Previous = archiveStatus(m.PreviousVersion(), path)
	}
	return report, nil
}

func archiveStatus(version, path string) *ArchiveStatus {
	_, err := os.Stat(path)
	return &ArchiveStatus{Version: version, Path: path, Present: err == nil}
}
