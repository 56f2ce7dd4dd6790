// Package filesystem provides the directory operations the downloaders need,
// backed by an [afero.Fs] so tests can run against memory.
package filesystem

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/drupalprojects/composer/pkg/errors"
)

// Filesystem manipulates installation directories.
type Filesystem struct {
	fs afero.Fs
}

// New wraps fs.
func New(fs afero.Fs) *Filesystem {
	return &Filesystem{fs: fs}
}

// NewOS returns a Filesystem over the real operating-system filesystem.
func NewOS() *Filesystem {
	return New(afero.NewOsFs())
}

// EnsureDirectoryExists creates dir and its parents if needed. It fails when
// dir exists but is not a directory.
func (f *Filesystem) EnsureDirectoryExists(dir string) error {
	info, err := f.fs.Stat(dir)
	switch {
	case err == nil && info.IsDir():
		return nil
	case err == nil:
		return errors.New(errors.ErrCodeInvalidPath, "%s exists and is not a directory", dir)
	case !os.IsNotExist(err):
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "cannot access %s", dir)
	}
	if err := f.fs.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "%s does not exist and could not be created", dir)
	}
	return nil
}

// RemoveDirectory deletes dir recursively. A missing directory is not an
// error.
func (f *Filesystem) RemoveDirectory(dir string) error {
	if dir == "" || filepath.Clean(dir) == string(filepath.Separator) {
		return errors.New(errors.ErrCodeInvalidPath, "refusing to remove %q", dir)
	}
	if err := f.fs.RemoveAll(dir); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "could not remove %s", dir)
	}
	return nil
}

// Exists reports whether path exists.
func (f *Filesystem) Exists(path string) bool {
	ok, _ := afero.Exists(f.fs, path)
	return ok
}

// IsAbsolutePath reports whether path is absolute on any supported platform:
// rooted, a Windows drive path, or a URL-like stream path.
func (f *Filesystem) IsAbsolutePath(path string) bool {
	if strings.HasPrefix(path, "/") || strings.HasPrefix(path, `\`) {
		return true
	}
	if len(path) > 2 && path[1] == ':' && (path[2] == '/' || path[2] == '\\') && isLetter(path[0]) {
		return true
	}
	return strings.Contains(path, "://")
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
