package regmv

import (
	"iter"
	"os"
	"strings"

	"github.com/spf13/afero"
)

const hiddenPrefix = "."

type EnumerateOptions struct {
	Root           string
	Recursive      bool
	FollowSymlinks bool
	IncludeHidden  bool
	IncludeFiles   bool
	IncludeDirs    bool
}

// Enumerator lists the entries a batch may rename.
type Enumerator struct {
	fs  afero.Fs
	msg Messenger
}

func NewEnumerator(fsys afero.Fs, msg Messenger) *Enumerator {
	if msg == nil {
		msg = Discard()
	}
	return &Enumerator{fs: fsys, msg: msg}
}

// Enumerate returns the entries below opts.Root in discovery order. The
// sequence reads one directory at a time and can only be consumed once
// in a meaningful way: every range over it walks the tree again.
//
// An unreadable root yields a single error. Unreadable subdirectories are
// reported as warnings and skipped.
func (e *Enumerator) Enumerate(opts EnumerateOptions) iter.Seq2[DirEntry, error] {
	if opts.Root == "" {
		opts.Root = "./"
	}
	if opts.Recursive {
		e.msg.Debugf("Chose recursive find")
	} else {
		// FollowSymlinks is irrelevant here: nothing is descended into.
		e.msg.Debugf("Chose non-recursive find")
	}

	return func(yield func(DirEntry, error) bool) {
		if opts.Recursive {
			e.walk(opts, opts.Root, yield)
			return
		}
		e.list(opts, yield)
	}
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, hiddenPrefix)
}

// readDir splits the children of dir into directories and everything
// else. Symlinks are classified by what they point to.
func (e *Enumerator) readDir(opts EnumerateOptions, dir string) (dirs, files []string, err error) {
	infos, err := afero.ReadDir(e.fs, dir)
	if err != nil {
		return nil, nil, withStackTrace(err)
	}
	for _, fi := range infos {
		name := fi.Name()
		if !opts.IncludeHidden && isHidden(name) {
			e.msg.Tracef("Skip hidden element: %s", joinPath(dir, name))
			continue
		}
		if e.entryIsDir(fi, joinPath(dir, name)) {
			dirs = append(dirs, name)
		} else {
			files = append(files, name)
		}
	}
	return dirs, files, nil
}

func (e *Enumerator) entryIsDir(fi os.FileInfo, path string) bool {
	if fi.Mode()&os.ModeSymlink != 0 {
		return isDir(e.fs, path)
	}
	return fi.IsDir()
}

func (e *Enumerator) list(opts EnumerateOptions, yield func(DirEntry, error) bool) {
	e.msg.Debugf("List the directory %s only", opts.Root)
	dirs, files, err := e.readDir(opts, opts.Root)
	if err != nil {
		yield(DirEntry{}, err)
		return
	}
	e.emit(opts, opts.Root, dirs, files, yield)
}

func (e *Enumerator) emit(opts EnumerateOptions, dir string, dirs, files []string, yield func(DirEntry, error) bool) bool {
	if opts.IncludeDirs {
		for _, name := range dirs {
			e.msg.Tracef("Yield a directory from the results: %s, %s", dir, name)
			if !yield(DirEntry{Dir: dir, Name: name}, nil) {
				return false
			}
		}
	}
	if opts.IncludeFiles {
		for _, name := range files {
			e.msg.Tracef("Yield a file from the results: %s, %s", dir, name)
			if !yield(DirEntry{Dir: dir, Name: name}, nil) {
				return false
			}
		}
	}
	return true
}

// walk visits dir top-down: its own entries first, then each
// subdirectory in name order.
func (e *Enumerator) walk(opts EnumerateOptions, dir string, yield func(DirEntry, error) bool) bool {
	e.msg.Debugf("List the following directory recursively: %s", dir)
	dirs, files, err := e.readDir(opts, dir)
	if err != nil {
		if dir == opts.Root {
			yield(DirEntry{}, err)
			return false
		}
		e.msg.Warnf("Cannot list %s, skipping: %v", dir, err)
		return true
	}

	if !e.emit(opts, dir, dirs, files, yield) {
		return false
	}

	for _, name := range dirs {
		sub := joinPath(dir, name)
		if !opts.FollowSymlinks && isSymlink(e.fs, sub) {
			e.msg.Tracef("Do not follow symbolic link: %s", sub)
			continue
		}
		if !e.walk(opts, sub, yield) {
			return false
		}
	}
	return true
}
