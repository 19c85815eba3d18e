package statefile

import (
	"errors"
	"os"
	"path/filepath"
)

// DefaultPath is the state file used when none is configured.
const DefaultPath = "toggl_config.json"

// File implements ports.StateBackend on a JSON file. Writes go to a temp file
// in the same directory and are renamed into place.
type File struct {
	path string
}

func New(path string) *File {
	if path == "" {
		path = DefaultPath
	}
	return &File{path: path}
}

func (f *File) Location() string { return f.path }

// Load returns the raw file contents; a missing file yields an error matching fs.ErrNotExist.
func (f *File) Load() ([]byte, error) {
	return os.ReadFile(f.path)
}

func (f *File) Save(data []byte) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	// The file holds the API token.
	if err := os.Chmod(name, 0o600); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Rename(name, f.path); err != nil {
		return errors.Join(err, os.Remove(name))
	}
	return nil
}
