package regmv

import (
	"path/filepath"

	"github.com/spf13/afero"
)

type ExecuteOptions struct {
	// DryRun reports the plan as ready without touching the filesystem.
	DryRun bool
	// Bypass skips the per-pair existence check and requires confirmation.
	Bypass        bool
	ChangeLogPath string
}

// Executor applies a validated plan one rename at a time, in order.
type Executor struct {
	fs       afero.Fs
	msg      Messenger
	prompter Prompter
	log      *ChangeLog
}

func NewExecutor(fsys afero.Fs, msg Messenger, prompter Prompter) *Executor {
	if msg == nil {
		msg = Discard()
	}
	if prompter == nil {
		prompter = StaticPrompter{}
	}
	return &Executor{fs: fsys, msg: msg, prompter: prompter, log: NewChangeLog()}
}

// ChangeLog returns the renames applied by this executor so far.
func (e *Executor) ChangeLog() *ChangeLog { return e.log }

// Execute runs plan. If a destination turns out to be occupied or a
// filesystem call fails midway, every rename done so far is appended to
// the change log file and a *RaceConflictError or *ExecutionError is
// returned; nothing is rolled back.
func (e *Executor) Execute(plan Plan, opts ExecuteOptions) error {
	if opts.ChangeLogPath == "" {
		opts.ChangeLogPath = DefaultChangeLogPath
	}

	if opts.DryRun {
		e.msg.Debugf("Not execute mode")
		e.msg.Successf("The listed changes seem to be OK for execution")
		e.msg.Successf("If you agree, pass argument '-E' to execute them")
		if opts.Bypass {
			e.msg.Fatalf("Using flag '-B' can result in a loss of information")
		}
		return nil
	}

	if opts.Bypass {
		e.msg.Fatalf("Using flag '-B' can result in a loss of information")
		ok, err := e.prompter.Confirm("Continue anyway")
		if err != nil {
			return err
		}
		if !ok {
			e.msg.Infof("Aborting")
			return ConfirmationDeclinedError{}
		}
	}

	e.msg.Debugf("Execute mode")
	for _, pair := range plan {
		if err := e.apply(pair, opts); err != nil {
			return err
		}
	}

	e.msg.Successf("All changes seem to be executed correctly")
	return nil
}

func (e *Executor) apply(pair RenamePair, opts ExecuteOptions) error {
	e.msg.Debugf("Treating: %s", pair)

	dir := filepath.Dir(pair.Destination)
	e.msg.Tracef("Check for existence of path to: %s", dir)
	if err := ensureDir(e.fs, dir); err != nil {
		return e.abortOnError(pair, "create directory", err, opts)
	}

	if !opts.Bypass {
		e.msg.Tracef("Check for existence of path: %s", pair.Destination)
		taken, err := exists(e.fs, pair.Destination)
		if err != nil {
			return e.abortOnError(pair, "stat", err, opts)
		}
		if taken {
			e.msg.Errorf("Ahem, the file %s already exists. This must not happen without the '-B' flag. Saving the log into %q and exiting", pair.Destination, opts.ChangeLogPath)
			return &RaceConflictError{EmergencyAbort: e.emergencyAbort(opts), Pair: pair}
		}
	}

	e.msg.Debugf("Renaming: %s", pair)
	if err := e.fs.Rename(pair.Source, pair.Destination); err != nil {
		return e.abortOnError(pair, "rename", err, opts)
	}
	e.log.Record(pair)
	return nil
}

func (e *Executor) abortOnError(pair RenamePair, op string, err error, opts ExecuteOptions) error {
	e.msg.Errorf("Cannot %s for %s: %v. Saving the log into %q and exiting", op, pair, err, opts.ChangeLogPath)
	return &ExecutionError{
		EmergencyAbort: e.emergencyAbort(opts),
		Pair:           pair,
		Op:             op,
		Err:            withStackTrace(err),
	}
}

// emergencyAbort writes the change log to disk. A failure to do so is kept
// on the returned value rather than hiding the original problem.
func (e *Executor) emergencyAbort(opts ExecuteOptions) EmergencyAbort {
	abort := EmergencyAbort{Applied: e.log.Entries(), LogPath: opts.ChangeLogPath}
	if err := e.log.Save(e.fs, opts.ChangeLogPath); err != nil {
		e.msg.Errorf("Cannot write the change log %s: %v", opts.ChangeLogPath, err)
		abort.LogErr = err
	}
	return abort
}
