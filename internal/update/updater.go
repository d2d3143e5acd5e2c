package update

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/adamancini/tlaplus-cli/internal/logging"
	"github.com/adamancini/tlaplus-cli/internal/manifest"
)

// Updater fetches the latest tla2tools release into the install root and
// records it in the manifest.
type Updater struct {
	Store      *manifest.Store
	Checker    Checker
	Downloader Downloader
	Installer  Installer
	Out        io.Writer // user-facing progress lines
	Logger     *slog.Logger
}

// Run performs one update. When the installed version is already the
// latest it returns a Result with UpToDate set and writes nothing.
func (u *Updater) Run(ctx context.Context) (*Result, error) {
	out := u.Out
	if out == nil {
		out = io.Discard
	}
	logger := u.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	m, err := u.Store.Load()
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}
	installed := m.CurrentVersion()
	if path, err := m.CurrentToolPath(); err == nil {
		if _, statErr := os.Stat(path); statErr != nil {
			// A removed archive is re-fetched even if the release is unchanged.
			logger.Warn("current archive is missing; fetching it again", "version", installed, "path", path, "error", statErr)
			installed = ""
		}
	}

	fmt.Fprintln(out, "Checking for updates...")
	rel, err := u.Checker.LatestRelease(ctx)
	if err != nil {
		if errors.Is(err, ErrUpdateCheckFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrUpdateCheckFailed, err)
	}
	logger.Debug("latest release", "tag", rel.Tag, "size", rel.Size, "url", rel.AssetURL)

	if !NeedsUpdate(installed, rel.Version) {
		path, _ := m.CurrentToolPath()
		fmt.Fprintf(out, "Already up to date (tla2tools %s)\n", installed)
		return &Result{UpToDate: true, Version: installed, PreviousVersion: m.PreviousVersion(), Path: path}, nil
	}

	if installed == "" {
		fmt.Fprintf(out, "Installing tla2tools %s\n", rel.Version)
	} else {
		fmt.Fprintf(out, "Updating tla2tools %s -> %s\n", installed, rel.Version)
	}

	fmt.Fprintf(out, "Downloading %s...\n", AssetName)
	tmpPath, err := u.Downloader.Download(ctx, rel, u.Store.Root())
	if err != nil {
		return nil, fmt.Errorf("download tla2tools %s: %w", rel.Version, err)
	}
	fmt.Fprintln(out, "✓ Downloaded")

	path, err := u.Installer.Install(tmpPath, rel.Version)
	if err != nil {
		return nil, fmt.Errorf("%w: install tla2tools %s: %w", ErrUpdateWriteFailed, rel.Version, err)
	}
	fmt.Fprintf(out, "✓ Installed to %s\n", path)

	if err := u.Store.RecordNewVersion(m, rel.Version); err != nil {
		// The archive is in place but unrecorded; Prune on a later
		// update removes it if it is never recorded.
		return nil, fmt.Errorf("%w: record tla2tools %s: %w", ErrUpdateWriteFailed, rel.Version, err)
	}

	result := &Result{
		Version:         m.CurrentVersion(),
		PreviousVersion: m.PreviousVersion(),
		Path:            path,
	}

	pruned, err := u.pruneIfUnchanged(m)
	if err != nil {
		logger.Warn("failed to prune old archives", "root", u.Store.Root(), "error", err)
	}
	if pruned != nil {
		result.Pruned = pruned.Deleted
		for _, name := range pruned.Deleted {
			logger.Debug("pruned archive", "name", name)
		}
	}

	fmt.Fprintf(out, "\nSuccessfully updated to tla2tools %s!\n", result.Version)
	return result, nil
}

// errManifestChanged means another update recorded a version after this
// run did.
var errManifestChanged = errors.New("manifest changed by a concurrent update")

// pruneIfUnchanged prunes against the manifest as it is on disk now, and
// only when it still matches what this run recorded. It never deletes an
// archive the on-disk manifest references.
func (u *Updater) pruneIfUnchanged(recorded *manifest.Manifest) (*PruneResult, error) {
	onDisk, err := u.Store.Load()
	if err != nil {
		return nil, fmt.Errorf("reload manifest: %w", err)
	}
	if onDisk.CurrentVersion() != recorded.CurrentVersion() || onDisk.PreviousVersion() != recorded.PreviousVersion() {
		return nil, errManifestChanged
	}
	return Prune(onDisk)
}
