package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adamancini/tlaplus-cli/internal/config"
	"github.com/adamancini/tlaplus-cli/internal/logging"
	"github.com/adamancini/tlaplus-cli/internal/manifest"
	"github.com/adamancini/tlaplus-cli/internal/output"
	"github.com/adamancini/tlaplus-cli/internal/update"
)

var checkOnly bool

func newUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "update",
		Aliases: []string{"u"},
		Short:   "Install or update tla2tools.jar",
		Long: `Check GitHub for the latest tla2tools release and install it if it is newer
than the installed one. The previously installed version is kept for rollback.

Examples:
  tlaplus update            # Install or update
  tlaplus update --check    # Only report whether an update is available
  GITHUB_TOKEN=... tlaplus update`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if checkOnly {
				return runUpdateCheck(cmd)
			}
			return runUpdate(cmd)
		},
	}

	cmd.Flags().BoolVar(&checkOnly, "check", false, "Check for updates without installing")

	return cmd
}

// newChecker builds the release checker from config and environment.
func newChecker(cfg *config.Config) (*update.GitHubChecker, error) {
	checker, err := update.NewGitHubChecker(cfg.Repository())
	if err != nil {
		return nil, err
	}
	if cfg.Update.APIURL != "" {
		checker = checker.WithBaseURL(cfg.Update.APIURL)
	}
	// Use GITHUB_TOKEN if available
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		checker = checker.WithToken(token)
	}
	return checker, nil
}

func runUpdate(cmd *cobra.Command) error {
	root, err := resolveRoot()
	if err != nil {
		return err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	checker, err := newChecker(cfg)
	if err != nil {
		return err
	}

	progress := progressWriter(cmd)
	downloader := update.NewHTTPDownloader()
	if !quiet {
		downloader = downloader.WithProgress(cmd.ErrOrStderr())
	}

	u := &update.Updater{
		Store:      manifest.NewStore(root),
		Checker:    checker,
		Downloader: downloader,
		Installer:  update.NewArchiveInstaller(root),
		Out:        progress,
		Logger:     logging.FromContext(cmd.Context()),
	}

	result, err := u.Run(cmd.Context())
	if err != nil {
		return err
	}

	// Text output is the progress stream itself.
	if format := outputWriterFormat(); format != output.FormatText {
		return output.NewWriter(cmd.OutOrStdout(), format).Write(result)
	}
	return nil
}

// CheckResult reports whether a newer release is available.
type CheckResult struct {
	Installed       string `json:"installed" yaml:"installed"`
	Latest          string `json:"latest" yaml:"latest"`
	UpdateAvailable bool   `json:"update_available" yaml:"update_available"`
	ReleaseURL      string `json:"release_url,omitempty" yaml:"release_url,omitempty"`
}

func (r CheckResult) String() string {
	installed := r.Installed
	if installed == "" {
		installed = "none"
	}
	if !r.UpdateAvailable {
		return fmt.Sprintf("tla2tools %s is the latest version", installed)
	}
	return fmt.Sprintf("Installed: %s\nLatest: %s available\n\nRun 'tlaplus update' to install", installed, r.Latest)
}

func runUpdateCheck(cmd *cobra.Command) error {
	root, err := resolveRoot()
	if err != nil {
		return err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	m, err := manifest.NewStore(root).Load()
	if err != nil {
		return fmt.Errorf("load manifest: %w", err)
	}
	checker, err := newChecker(cfg)
	if err != nil {
		return err
	}

	rel, err := checker.LatestRelease(cmd.Context())
	if err != nil {
		return fmt.Errorf("%w: %w", update.ErrUpdateCheckFailed, err)
	}

	result := CheckResult{
		Installed:       m.CurrentVersion(),
		Latest:          rel.Version,
		UpdateAvailable: update.NeedsUpdate(m.CurrentVersion(), rel.Version),
		ReleaseURL:      rel.URL,
	}
	return output.NewWriter(cmd.OutOrStdout(), outputWriterFormat()).Write(result)
}
