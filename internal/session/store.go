package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var (
	// ErrNoSession is returned by Load when no status file exists on disk.
	ErrNoSession = errors.New("no active session")
	// ErrCorrupt is returned by Load when the status file cannot be decoded
	// or names no host process.
	ErrCorrupt = errors.New("corrupt status file")
)

// Store persists a Status to disk.
type Store interface {
	Save(s *Status) error
	Load() (*Status, error) // returns ErrNoSession if none exists
	Delete() error
}

// fileStore keeps the status of the one running session in a single file.
type fileStore struct {
	path string
}

// NewStore returns a Store writing
// $XDG_DATA_HOME/pomodouroboros/status.json (or ~/.local/share/...).
func NewStore() (Store, error) {
	dir, err := dataDir()
	if err != nil {
		return nil, fmt.Errorf("resolving data directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &fileStore{path: filepath.Join(dir, "status.json")}, nil
}

func dataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "pomodouroboros"), nil
}

// Save replaces the status file. Readers never see a half-written status.
func (f *fileStore) Save(s *Status) error {
	if s.PID <= 0 {
		return fmt.Errorf("saving status: pid %d does not name a session host", s.PID)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding status of pid %d: %w", s.PID, err)
	}
	if err := replaceFile(f.path, data); err != nil {
		return fmt.Errorf("saving status of pid %d: %w", s.PID, err)
	}
	return nil
}

// Load returns the published status of the running session.
func (f *fileStore) Load() (*Status, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.path, err)
	}

	var s Status
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", f.path, ErrCorrupt, err)
	}
	if s.PID <= 0 {
		return nil, fmt.Errorf("%s: %w: no pid", f.path, ErrCorrupt)
	}
	return &s, nil
}

// Delete removes the status file. A missing file is not an error.
func (f *fileStore) Delete() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", f.path, err)
	}
	return nil
}

// replaceFile writes data next to path and renames it into place.
func replaceFile(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
