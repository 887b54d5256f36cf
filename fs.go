package regmv

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// NewOSFS returns the filesystem backed by the operating system.
func NewOSFS() afero.Fs {
	return afero.NewOsFs()
}

// joinPath joins dir and name without cleaning, so "./" roots keep their
// prefix ("./a.txt") the way the user typed and sees them.
func joinPath(dir, name string) string {
	if dir == "" {
		return name
	}
	if strings.HasSuffix(dir, string(filepath.Separator)) || strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + string(filepath.Separator) + name
}

func lstat(fsys afero.Fs, path string) (os.FileInfo, error) {
	if l, ok := fsys.(afero.Lstater); ok {
		fi, _, err := l.LstatIfPossible(path)
		return fi, err
	}
	return fsys.Stat(path)
}

// exists reports whether something occupies path. A dangling symlink counts.
func exists(fsys afero.Fs, path string) (bool, error) {
	_, err := lstat(fsys, path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// isDir follows symlinks, so a link to a directory is a directory.
func isDir(fsys afero.Fs, path string) bool {
	fi, err := fsys.Stat(path)
	return err == nil && fi.IsDir()
}

func isSymlink(fsys afero.Fs, path string) bool {
	fi, err := lstat(fsys, path)
	return err == nil && fi.Mode()&os.ModeSymlink != 0
}

// ensureDir creates dir and its parents. Existing directories are fine.
func ensureDir(fsys afero.Fs, dir string) error {
	if dir == "" || dir == "." || dir == string(filepath.Separator) {
		return nil
	}
	if isDir(fsys, dir) {
		return nil
	}
	return fsys.MkdirAll(dir, 0o755)
}

// canonicalPath returns the absolute form of path. On the OS filesystem the
// longest existing ancestor has its symlinks resolved, which makes two
// spellings of the same location compare equal.
func canonicalPath(fsys afero.Fs, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", withStackTrace(err)
	}
	if _, ok := fsys.(*afero.OsFs); !ok {
		return abs, nil
	}

	existing := abs
	var rest []string
	for {
		if _, err := os.Lstat(existing); err == nil {
			break
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			return abs, nil
		}
		rest = append([]string{filepath.Base(existing)}, rest...)
		existing = parent
	}

	resolved, err := filepath.EvalSymlinks(existing)
	if err != nil {
		return abs, nil
	}
	return filepath.Join(append([]string{resolved}, rest...)...), nil
}
