package reconciler

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"TrendScanner/internal/model"
)

// SnapshotStore loads and saves one symbol set.
type SnapshotStore interface {
	// Load returns the stored set. ok is false when nothing has been stored yet.
	Load() (set model.SymbolSet, ok bool, err error)
	Save(set model.SymbolSet) error
}

// FileStore keeps a symbol set as a JSON array of strings.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (f *FileStore) Load() (model.SymbolSet, bool, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewSymbolSet(), false, nil
		}
		return nil, false, fmt.Errorf("read %s: %w", f.Path, err)
	}
	var symbols []string
	if err := json.Unmarshal(data, &symbols); err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", f.Path, err)
	}
	return model.NewSymbolSet(symbols...), true, nil
}

// Save replaces the file contents. It writes a temp file and renames it so a crash
// never leaves a truncated snapshot behind.
func (f *FileStore) Save(set model.SymbolSet) error {
	data, err := json.Marshal(set.Sorted())
	if err != nil {
		return err
	}
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		return fmt.Errorf("replace %s: %w", f.Path, err)
	}
	return nil
}
