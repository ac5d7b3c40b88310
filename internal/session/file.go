package session

import (
	"fmt"
	"os"
	"path/filepath"

	"DigitalWhiteboard/internal/scene"
)

// DefaultFile is the session loaded on startup when no other path is configured.
const DefaultFile = "whiteboard_session.wb"

// Load decodes the session stored at path.
func Load(path string) ([]scene.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	items, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return items, nil
}

// Save writes items to path through a temp file in the same directory so a
// failed write never leaves a half-written session behind.
func Save(path string, items []scene.Item) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".wb-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, items); err != nil {
		tmp.Close()
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
