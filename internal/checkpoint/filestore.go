package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps one JSON document per source key under a state directory.
// Saves go through a temp file and rename, so a crash mid-write cannot
// corrupt the previously durable checkpoint.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("checkpoint: state dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("checkpoint: create state dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Load(sourceKey string) (Checkpoint, bool, error) {
	raw, err := os.ReadFile(s.path(sourceKey))
	if err != nil {
		if os.IsNotExist(err) {
			return Checkpoint{}, false, nil
		}
		return Checkpoint{}, false, fmt.Errorf("checkpoint: read %s: %w", sourceKey, err)
	}

	var cp Checkpoint
	if err := json.Unmarshal(raw, &cp); err != nil {
		// A corrupt checkpoint restarts the stream rather than aborting it.
		return Checkpoint{}, false, nil
	}
	return cp, true, nil
}

func (s *FileStore) Save(sourceKey string, cp Checkpoint) error {
	raw, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return fmt.Errorf("checkpoint: marshal %s: %w", sourceKey, err)
	}

	target := s.path(sourceKey)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("checkpoint: write %s: %w", sourceKey, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("checkpoint: replace %s: %w", sourceKey, err)
	}
	return nil
}

func (s *FileStore) path(sourceKey string) string {
	name := strings.NewReplacer(":", "_", "/", "_", "\\", "_").Replace(sourceKey)
	return filepath.Join(s.dir, name+".json")
}
