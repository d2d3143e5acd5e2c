package update

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adamancini/tlaplus-cli/internal/manifest"
)

// staleDownloadAge is how old a download temp file must be before Prune
// treats it as abandoned rather than belonging to a running update.
const staleDownloadAge = 24 * time.Hour

// PruneResult contains information about what was pruned.
type PruneResult struct {
	Deleted []string
	Kept    int
}

// Prune removes archives and stale temp files from the install root that
// are neither the current nor the previous version of m.
func Prune(m *manifest.Manifest) (*PruneResult, error) {
	entries, err := os.ReadDir(m.Root())
	if err != nil {
		if os.IsNotExist(err) {
			return &PruneResult{}, nil
		}
		return nil, fmt.Errorf("failed to list install root: %w", err)
	}

	keep := make(map[string]bool, 2)
	for _, v := range []string{m.CurrentVersion(), m.PreviousVersion()} {
		if v != "" {
			keep[manifest.ArchiveName(v)] = true
		}
	}

	result := &PruneResult{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if keep[name] {
			result.Kept++
			continue
		}
		if !manifest.IsArchiveName(name) && !isStaleDownload(e) {
			continue
		}
		if err := os.Remove(filepath.Join(m.Root(), name)); err != nil {
			return result, fmt.Errorf("failed to delete %s: %w", name, err)
		}
		result.Deleted = append(result.Deleted, name)
	}

	return result, nil
}

// isStaleDownload matches old temp files left by an interrupted download.
func isStaleDownload(e os.DirEntry) bool {
	name := e.Name()
	if !strings.HasPrefix(name, "."+AssetName+"-") || !strings.HasSuffix(name, ".tmp") {
		return false
	}
	info, err := e.Info()
	if err != nil {
		return false
	}
	return time.Since(info.ModTime()) > staleDownloadAge
}
