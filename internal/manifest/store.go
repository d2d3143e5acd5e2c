package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/adamancini/tlaplus-cli/internal/fsutil"
)

//go:embed manifest.schema.json
var schemaJSON string

const schemaURL = "manifest.schema.json"

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("parse manifest schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("add manifest schema: %w", err)
	}
	return c.Compile(schemaURL)
})

// Store reads and writes the manifest file of one install root.
type Store struct {
	root      string
	now       func() time.Time
	writeFile func(path string, data []byte, perm os.FileMode) error
}

// NewStore creates a store for the given install root.
func NewStore(root string) *Store {
	return &Store{
		root:      root,
		now:       time.Now,
		writeFile: fsutil.WriteFileAtomic,
	}
}

// Root returns the install root.
func (s *Store) Root() string {
	return s.root
}

// Path returns the manifest file location.
func (s *Store) Path() string {
	return filepath.Join(s.root, FileName)
}

// Load reads the manifest. A missing file yields an empty manifest.
func (s *Store) Load() (*Manifest, error) {
	path := s.Path()
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(s.root), nil
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrManifestUnreadable, path, err)
	}

	m, err := decode(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v; remove it and run 'tlaplus update'", ErrManifestUnreadable, path, err)
	}
	m.root = s.root
	return m, nil
}

func decode(content []byte) (*Manifest, error) {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	sch, err := compileSchema()
	if err != nil {
		return nil, err
	}
	if err := sch.Validate(inst); err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(content, &m); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Save persists m by atomically replacing the manifest file.
func (s *Store) Save(m *Manifest) error {
	if err := m.validate(); err != nil {
		return fmt.Errorf("refusing to save manifest: %w", err)
	}
	m.Schema = SchemaVersion

	buf, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	buf = append(buf, '\n')

	if err := s.writeFile(s.Path(), buf, 0o644); err != nil {
		return fmt.Errorf("save manifest: %w", err)
	}
	return nil
}

// RecordNewVersion makes version current, demotes the old current to
// previous and saves. The archive for version must already be in place.
func (s *Store) RecordNewVersion(m *Manifest, version string) error {
	version = strings.TrimPrefix(version, "v")
	if version == "" {
		return fmt.Errorf("record version: empty version")
	}

	next := *m
	next.root = s.root
	if cur := m.CurrentVersion(); cur != "" && !sameVersion(cur, version) {
		next.Previous = &Slot{Version: cur}
	}
	next.Current = &Slot{Version: version}
	now := s.now().UTC()
	next.UpdatedAt = &now

	if err := s.Save(&next); err != nil {
		return err
	}
	*m = next
	return nil
}
