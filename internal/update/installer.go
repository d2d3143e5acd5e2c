package update

import (
	"archive/zip"
	"fmt"
	"os"

	"github.com/adamancini/tlaplus-cli/internal/fsutil"
	"github.com/adamancini/tlaplus-cli/internal/manifest"
)

// ArchiveInstaller moves downloaded archives into the install root
type ArchiveInstaller struct {
	root string
}

// NewArchiveInstaller creates an installer for the given install root
func NewArchiveInstaller(root string) *ArchiveInstaller {
	return &ArchiveInstaller{root: root}
}

// Install verifies the archive at tmpPath and renames it to the
// version-named location. tmpPath is removed if anything fails.
func (i *ArchiveInstaller) Install(tmpPath, version string) (string, error) {
	// 1. Verify the archive is a readable jar
	if err := verifyArchive(tmpPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("archive verification failed: %w", err)
	}

	// 2. Set read permissions
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to set permissions: %w", err)
	}

	// 3. Atomic rename into place
	dst := manifest.Path(i.root, version)
	if err := fsutil.Promote(tmpPath, dst); err != nil {
		return "", fmt.Errorf("failed to install archive: %w", err)
	}

	return dst, nil
}

// verifyArchive checks that path is a zip archive with at least one entry
func verifyArchive(path string) error {
	r, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("not a jar archive: %w", err)
	}
	defer r.Close()

	if len(r.File) == 0 {
		return fmt.Errorf("jar archive is empty")
	}
	return nil
}
