package inbox

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Path returns the inbox location under $XDG_DATA_HOME (or ~/.local/share).
func Path() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "pomodouroboros", "inbox.log"), nil
}

// Append queues c at path, creating the file and its directory as needed.
func Append(path string, c Command) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(c.Encode() + "\n"); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Truncate empties the inbox. A missing file is not an error.
func Truncate(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return os.WriteFile(path, nil, 0o644)
}

// Tail reads commands appended to an inbox since the previous call.
// Only complete lines are consumed; a partially written line is left for
// the next call. Malformed lines are logged and skipped.
type Tail struct {
	path   string
	offset int64
	log    *zap.Logger
}

// NewTail starts reading path at its current end, so commands queued before
// the session started are ignored.
func NewTail(path string, log *zap.Logger) (*Tail, error) {
	if log == nil {
		log = zap.NewNop()
	}
	t := &Tail{path: path, log: log}
	info, err := os.Stat(path)
	switch {
	case err == nil:
		t.offset = info.Size()
	case !errors.Is(err, os.ErrNotExist):
		return nil, err
	}
	return t, nil
}

// Path returns the file being tailed.
func (t *Tail) Path() string { return t.path }

// Next returns the commands appended since the last call.
func (t *Tail) Next() ([]Command, error) {
	f, err := os.Open(t.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			t.offset = 0
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() < t.offset {
		// Truncated by someone else; start over.
		t.offset = 0
	}
	if _, err := f.Seek(t.offset, io.SeekStart); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	end := bytes.LastIndexByte(data, '\n')
	if end < 0 {
		return nil, nil
	}
	t.offset += int64(end + 1)

	var cmds []Command
	for _, line := range bytes.Split(data[:end], []byte{'\n'}) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		c, err := Parse(string(line))
		if err != nil {
			t.log.Warn("skipping inbox line", zap.String("path", t.path), zap.Error(err))
			continue
		}
		cmds = append(cmds, c)
	}
	return cmds, nil
}
