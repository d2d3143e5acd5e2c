// Package update checks for new tla2tools releases and installs them into the
// install root.
package update

import (
	"context"
	"errors"
)

var (
	// ErrUpdateCheckFailed covers network failures while looking up the
	// latest release or downloading it. The installed state is untouched.
	ErrUpdateCheckFailed = errors.New("update check failed")

	// ErrUpdateWriteFailed covers local failures while writing the archive
	// or the manifest. The installed state is untouched.
	ErrUpdateWriteFailed = errors.New("update write failed")

	// ErrIncompleteDownload is joined with ErrUpdateCheckFailed when fewer
	// bytes arrived than the release advertised.
	ErrIncompleteDownload = errors.New("incomplete download")

	// ErrChecksumMismatch is joined with ErrUpdateCheckFailed when the
	// downloaded bytes do not match the advertised digest.
	ErrChecksumMismatch = errors.New("checksum mismatch")
)

// Release describes the latest published tla2tools archive.
type Release struct {
	Version  string // Normalized version, e.g. "1.8.0"
	Tag      string // Release tag as published, e.g. "v1.8.0"
	URL      string // Release page
	Notes    string // Release notes
	AssetURL string // Direct download URL for tla2tools.jar
	Size     int64  // Advertised archive size in bytes, 0 if unknown
	SHA256   string // Advertised hex digest, "" if unknown
}

// Result describes the outcome of an update run.
type Result struct {
	UpToDate        bool     `json:"up_to_date" yaml:"up_to_date"`
	Version         string   `json:"version" yaml:"version"`
	PreviousVersion string   `json:"previous_version,omitempty" yaml:"previous_version,omitempty"`
	Path            string   `json:"path" yaml:"path"`
	Pruned          []string `json:"pruned,omitempty" yaml:"pruned,omitempty"`
}

// Checker looks up the latest available release.
type Checker interface {
	LatestRelease(ctx context.Context) (*Release, error)
}

// Downloader fetches a release archive into a temp file inside dir and
// returns the temp file path. The temp file never outlives a failure.
type Downloader interface {
	Download(ctx context.Context, rel *Release, dir string) (string, error)
}

// Installer moves a verified temp archive into its version-named location.
type Installer interface {
	Install(tmpPath, version string) (string, error)
}
