// Package lock reads and writes the application lock sentinel.
//
// An administrator locks the application by writing a Unix timestamp to the
// sentinel file.  A missing file, an empty file, unparsable content, or a
// value of 0 all mean unlocked.
package lock

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/yanizio/reqboot/internal/memo"
)

// DefaultPath is relative to the application root.
const DefaultPath = "runtime/app.lock"

// Lock is owned by one context; State is memoized.
type Lock struct {
	FS   afero.Fs
	Path string

	state memo.Value[int64]
}

// New returns a Lock at path on fsys.  An empty path uses DefaultPath.
func New(fsys afero.Fs, path string) *Lock {
	if path == "" {
		path = DefaultPath
	}
	return &Lock{FS: fsys, Path: path}
}

// State returns the lock timestamp, 0 when unlocked.  Read errors other
// than a missing file are returned and not remembered.
func (l *Lock) State() (int64, error) {
	return l.state.Get(func() (int64, error) {
		b, err := afero.ReadFile(l.FS, l.Path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return 0, nil
			}
			return 0, fmt.Errorf("read lock %s: %w", l.Path, err)
		}
		ts, err := strconv.ParseInt(strings.TrimSpace(string(b)), 10, 64)
		if err != nil || ts < 0 {
			return 0, nil
		}
		return ts, nil
	})
}

// Locked reports whether State is non-zero.
func (l *Lock) Locked() (bool, error) {
	ts, err := l.State()
	return ts != 0, err
}

// Set writes ts to the sentinel, or removes it when ts is 0.  The memoized
// state is updated to match.
func (l *Lock) Set(ts int64) error {
	if ts == 0 {
		if err := l.FS.Remove(l.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove lock %s: %w", l.Path, err)
		}
		l.state.Set(0)
		return nil
	}
	if err := l.FS.MkdirAll(filepath.Dir(l.Path), 0o755); err != nil {
		return fmt.Errorf("mkdir for lock: %w", err)
	}
	if err := afero.WriteFile(l.FS, l.Path, []byte(strconv.FormatInt(ts, 10)), 0o644); err != nil {
		return fmt.Errorf("write lock %s: %w", l.Path, err)
	}
	l.state.Set(ts)
	return nil
}
