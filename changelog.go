package regmv

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/gofrs/flock"
	"github.com/spf13/afero"
)

// DefaultChangeLogPath is where an aborted batch leaves its trail,
// relative to the working directory.
const DefaultChangeLogPath = "REGMV.LOG"

// ChangeLog records the renames applied so far in this process.
type ChangeLog struct {
	entries []RenamePair
}

func NewChangeLog() *ChangeLog {
	return &ChangeLog{}
}

// Record appends a rename that has physically happened.
func (l *ChangeLog) Record(pair RenamePair) {
	l.entries = append(l.entries, pair)
}

func (l *ChangeLog) Len() int { return len(l.entries) }

// Entries returns a copy of the recorded pairs in application order.
func (l *ChangeLog) Entries() []RenamePair {
	return append([]RenamePair(nil), l.entries...)
}

// Flush writes one "SOURCE -> DESTINATION" line per entry to w.
func (l *ChangeLog) Flush(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, pair := range l.entries {
		if _, err := fmt.Fprintln(bw, pair.String()); err != nil {
			return withStackTrace(err)
		}
	}
	return withStackTrace(bw.Flush())
}

// Save appends the log to path, creating it if needed, and syncs it to
// disk. On the OS filesystem the file is locked while it is written so
// concurrent aborts in one directory keep whole lines.
func (l *ChangeLog) Save(fsys afero.Fs, path string) (err error) {
	if _, ok := fsys.(*afero.OsFs); ok {
		lock := flock.New(path)
		if err := lock.Lock(); err != nil {
			return withStackTrace(err)
		}
		defer func() {
			if unlockErr := lock.Unlock(); err == nil {
				err = withStackTrace(unlockErr)
			}
		}()
	}

	f, err := fsys.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return withStackTrace(err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = withStackTrace(closeErr)
		}
	}()

	if err := l.Flush(f); err != nil {
		return err
	}
	return withStackTrace(f.Sync())
}
