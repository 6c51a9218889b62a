package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/beaconx/disaster-predict/internal/domain"
)

// Store resolves a key to a loaded, validated artifact.
type Store interface {
	Load(key Key) (*Artifact, error)
}

// FileStore loads artifact bundles from one JSON file per key under a
// read-only directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Path returns the bundle file path for a key, e.g. "<dir>/cyclone_path.json".
func (s *FileStore) Path(key Key) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s.json", key.Domain, key.Kind))
}

// Load reads and validates the bundle for key. A missing file is
// domain.ErrModelNotFound; an unreadable or inconsistent bundle is
// domain.ErrModelLoad.
func (s *FileStore) Load(key Key) (*Artifact, error) {
	path := s.Path(key)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s (%s)", domain.ErrModelNotFound, key, path)
		}
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrModelLoad, path, err)
	}

	var art Artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrModelLoad, path, err)
	}
	if art.Domain != key.Domain || art.Kind != key.Kind {
		return nil, fmt.Errorf("%w: %s declares %s/%s", domain.ErrModelLoad, path, art.Domain, art.Kind)
	}
	if err := art.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrModelLoad, path, err)
	}
	return &art, nil
}
