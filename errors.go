package regmv

import (
	"errors"
	"fmt"
	"strings"

	goerrors "github.com/go-errors/errors"
	"github.com/hashicorp/go-multierror"
)

// Exit statuses returned by the regmv command.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitConflict = 2
	ExitDeclined = 3
	ExitAborted  = 4
)

// PatternError reports a MATCH expression that does not compile.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid regular expression %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// DuplicateDestinationError names one canonical destination that several
// sources would be renamed to.
type DuplicateDestinationError struct {
	Destination string
	Canonical   string
	Sources     []string
}

func (e *DuplicateDestinationError) Error() string {
	return fmt.Sprintf("%d paths would be renamed to %s: %s", len(e.Sources), e.Destination, strings.Join(e.Sources, ", "))
}

// Pairs returns the offending pairs in plan order.
func (e *DuplicateDestinationError) Pairs() []RenamePair {
	pairs := make([]RenamePair, 0, len(e.Sources))
	for _, src := range e.Sources {
		pairs = append(pairs, RenamePair{Source: src, Destination: e.Destination})
	}
	return pairs
}

// DestinationExistsError names a pair whose destination is already taken.
type DestinationExistsError struct {
	Pair RenamePair
}

func (e *DestinationExistsError) Error() string {
	return fmt.Sprintf("destination already exists: %s", e.Pair)
}

type ConflictKind string

const (
	ConflictDuplicate ConflictKind = "duplicate destination"
	ConflictExisting  ConflictKind = "destination exists"
)

// ConflictError is returned by Validate. It holds every offending entry of
// the failed check, never just the first one.
type ConflictError struct {
	Kind ConflictKind
	errs *multierror.Error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %d offending entries", e.Kind, e.Len())
}

func (e *ConflictError) Unwrap() error {
	if e.errs == nil {
		return nil
	}
	return e.errs
}

func (e *ConflictError) Len() int {
	if e.errs == nil {
		return 0
	}
	return len(e.errs.Errors)
}

// Pairs flattens the conflict into the pairs the user has to look at.
func (e *ConflictError) Pairs() []RenamePair {
	var pairs []RenamePair
	if e.errs == nil {
		return nil
	}
	for _, err := range e.errs.Errors {
		var dup *DuplicateDestinationError
		var ex *DestinationExistsError
		switch {
		case errors.As(err, &dup):
			pairs = append(pairs, dup.Pairs()...)
		case errors.As(err, &ex):
			pairs = append(pairs, ex.Pair)
		}
	}
	return pairs
}

// Duplicates returns the duplicate-destination entries, if any.
func (e *ConflictError) Duplicates() []*DuplicateDestinationError {
	var dups []*DuplicateDestinationError
	if e.errs == nil {
		return nil
	}
	for _, err := range e.errs.Errors {
		var dup *DuplicateDestinationError
		if errors.As(err, &dup) {
			dups = append(dups, dup)
		}
	}
	return dups
}

// EmergencyAbort describes the partial state left by an aborted batch.
type EmergencyAbort struct {
	Applied []RenamePair
	LogPath string
	LogErr  error
}

// RaceConflictError is returned when a destination appeared between
// validation and the rename of its pair.
type RaceConflictError struct {
	EmergencyAbort
	Pair RenamePair
}

func (e *RaceConflictError) Error() string {
	return fmt.Sprintf("destination %s appeared during execution (%d renames already applied)", e.Pair.Destination, len(e.Applied))
}

// ExecutionError is returned when a filesystem primitive failed mid-batch.
type ExecutionError struct {
	EmergencyAbort
	Pair RenamePair
	Op   string
	Err  error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s failed for %s: %v (%d renames already applied)", e.Op, e.Pair, e.Err, len(e.Applied))
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// ConfirmationDeclinedError is returned when the user refuses a bypassed
// execution. Nothing has been touched.
type ConfirmationDeclinedError struct{}

func (ConfirmationDeclinedError) Error() string { return "execution declined by user" }

// ErrorWithExitCode forces the exit status of the wrapped error.
type ErrorWithExitCode struct {
	Err      error
	ExitCode int
}

func (err ErrorWithExitCode) Error() string { return err.Err.Error() }

func (err ErrorWithExitCode) Unwrap() error { return err.Err }

// ExitCode maps an error returned by the pipeline to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var withCode ErrorWithExitCode
	if errors.As(err, &withCode) {
		return withCode.ExitCode
	}

	var (
		race     *RaceConflictError
		exec     *ExecutionError
		conflict *ConflictError
		declined ConfirmationDeclinedError
	)
	switch {
	case errors.As(err, &race), errors.As(err, &exec):
		return ExitAborted
	case errors.As(err, &conflict):
		return ExitConflict
	case errors.As(err, &declined):
		return ExitDeclined
	}
	return ExitFailure
}

// withStackTrace wraps err with the caller's stack unless err is nil.
func withStackTrace(err error) error {
	if err == nil {
		return nil
	}
	return goerrors.Wrap(err, 1)
}

// ErrorStack returns the message and call stack of the innermost wrapped
// stack trace, or just the message if err carries none.
func ErrorStack(err error) string {
	if err == nil {
		return ""
	}
	var goerr *goerrors.Error
	if errors.As(err, &goerr) {
		return goerr.ErrorStack()
	}
	return err.Error()
}
