// Package manifest tracks which tla2tools version is installed and where it
// lives in the install root.
package manifest

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const (
	// SchemaVersion is the only manifest schema this build understands.
	SchemaVersion = 1

	// FileName is the manifest file name inside the install root.
	FileName = "manifest.json"

	archivePrefix = "tla2tools-"
	archiveSuffix = ".jar"
)

// versionPattern mirrors the slot version pattern in manifest.schema.json.
var versionPattern = regexp.MustCompile(`^[0-9A-Za-z][0-9A-Za-z.+-]*$`)

var (
	// ErrNoToolInstalled is returned when no current version is recorded.
	ErrNoToolInstalled = errors.New("tla2tools is not installed")

	// ErrManifestUnreadable is returned when the manifest file exists but
	// cannot be parsed or has an incompatible schema.
	ErrManifestUnreadable = errors.New("manifest is unreadable")
)

// Slot records one installed version. Paths are derived, never stored.
type Slot struct {
	Version string `json:"version" yaml:"version"`
}

// Manifest is the persisted record of installed versions.
type Manifest struct {
	Schema    int        `json:"schema" yaml:"schema"`
	Current   *Slot      `json:"current,omitempty" yaml:"current,omitempty"`
	Previous  *Slot      `json:"previous,omitempty" yaml:"previous,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`

	root string
}

// New returns an empty manifest for the given install root.
func New(root string) *Manifest {
	return &Manifest{Schema: SchemaVersion, root: root}
}

// Root returns the install root the manifest paths are resolved against.
func (m *Manifest) Root() string {
	return m.root
}

// CurrentVersion returns the current version, or "" if nothing is installed.
func (m *Manifest) CurrentVersion() string {
	if m.Current == nil {
		return ""
	}
	return m.Current.Version
}

// PreviousVersion returns the rollback version, or "" if there is none.
func (m *Manifest) PreviousVersion() string {
	if m.Previous == nil {
		return ""
	}
	return m.Previous.Version
}

// CurrentToolPath resolves the archive path of the current version.
func (m *Manifest) CurrentToolPath() (string, error) {
	v := m.CurrentVersion()
	if v == "" {
		return "", ErrNoToolInstalled
	}
	return Path(m.root, v), nil
}

// PreviousToolPath resolves the archive path of the rollback version.
func (m *Manifest) PreviousToolPath() (string, bool) {
	v := m.PreviousVersion()
	if v == "" {
		return "", false
	}
	return Path(m.root, v), true
}

// Path is the fixed naming convention for archives in the install root,
// e.g. <root>/tla2tools-1.8.0.jar.
func Path(root, version string) string {
	return filepath.Join(root, ArchiveName(version))
}

// ArchiveName returns the file name of the archive for version.
func ArchiveName(version string) string {
	return archivePrefix + strings.TrimPrefix(version, "v") + archiveSuffix
}

// IsArchiveName reports whether name follows the archive naming convention.
func IsArchiveName(name string) bool {
	return strings.HasPrefix(name, archivePrefix) && strings.HasSuffix(name, archiveSuffix) &&
		len(name) > len(archivePrefix)+len(archiveSuffix)
}

// validate checks invariants the JSON schema cannot express.
func (m *Manifest) validate() error {
	for _, slot := range []*Slot{m.Current, m.Previous} {
		if slot != nil && !versionPattern.MatchString(slot.Version) {
			return fmt.Errorf("invalid version identifier %q", slot.Version)
		}
	}
	if m.Current == nil && m.Previous != nil {
		return fmt.Errorf("previous version %s recorded without a current version", m.Previous.Version)
	}
	if m.Current != nil && m.Previous != nil && sameVersion(m.Current.Version, m.Previous.Version) {
		return fmt.Errorf("current and previous both record version %s", m.Current.Version)
	}
	return nil
}

func sameVersion(a, b string) bool {
	return strings.TrimPrefix(a, "v") == strings.TrimPrefix(b, "v")
}
