package regmv

import (
	"errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
	"github.com/spf13/afero"
)

// App wires the pipeline: enumerate, plan, check, display, execute.
type App struct {
	cfg       *Config
	fs        afero.Fs
	msg       Messenger
	prompter  Prompter
	clipboard ClipboardWriter
}

type Option func(*App)

func WithFS(fsys afero.Fs) Option             { return func(a *App) { a.fs = fsys } }
func WithMessenger(msg Messenger) Option      { return func(a *App) { a.msg = msg } }
func WithPrompter(p Prompter) Option          { return func(a *App) { a.prompter = p } }
func WithClipboard(cb ClipboardWriter) Option { return func(a *App) { a.clipboard = cb } }

func NewApp(cfg *Config, opts ...Option) *App {
	a := &App{
		cfg:       cfg,
		fs:        NewOSFS(),
		msg:       Discard(),
		prompter:  StaticPrompter{},
		clipboard: SystemClipboard(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run executes one batch. The returned Summary is filled even when err is
// not nil so callers can report partial progress.
func (a *App) Run() (summary Summary, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = goerrors.Wrap(fmt.Errorf("panic: %v", r), 2)
		}
	}()

	if err := a.cfg.Validate(); err != nil {
		return Summary{}, err
	}

	planner, err := NewPlanner(a.cfg.Match, a.cfg.Replace, a.cfg.MatchFullPath, a.msg)
	if err != nil {
		return Summary{}, err
	}

	plan, err := a.buildPlan(planner)
	if err != nil {
		return Summary{}, err
	}
	summary.Planned = len(plan)

	if len(plan) == 0 {
		a.msg.Warnf("There is no changes")
		summary.Message = "No changes"
		return summary, nil
	}

	a.msg.Infof("Check final paths for files/directories conflicts")
	if err := NewChecker(a.fs, a.msg).Validate(plan, a.cfg.BypassChecks); err != nil {
		a.reportConflict(err)
		return summary, err
	}

	a.msg.Infof("Display the changes")
	a.displayChanges(plan)
	if a.cfg.Copy {
		if err := copyPlan(a.clipboard, plan); err != nil {
			a.msg.Warnf("Cannot copy the changes to the clipboard: %v", err)
		} else {
			a.msg.Infof("Changes copied to the clipboard")
		}
	}

	a.msg.Infof("Analyze and/or apply the changes")
	executor := NewExecutor(a.fs, a.msg, a.prompter)
	err = executor.Execute(plan, a.cfg.ExecuteOptions())
	summary.Executed = a.cfg.Execute && err == nil
	summary.Renamed = Plan(executor.ChangeLog().Entries()).Lines()
	if err != nil {
		a.reportAbort(err)
		return summary, err
	}
	return summary, nil
}

func (a *App) buildPlan(planner *Planner) (Plan, error) {
	a.msg.Infof("Find all files/directories matching given flags")
	entries := NewEnumerator(a.fs, a.msg).Enumerate(a.cfg.EnumerateOptions())

	a.msg.Infof("Filter files/directories matching the regular expression")
	return Collect(planner.Plan(entries))
}

func (a *App) displayChanges(plan Plan) {
	a.msg.Separator("-", LevelInfo)
	for _, line := range plan.Lines() {
		a.msg.Print(line)
	}
	a.msg.Separator("-", LevelInfo)
}

func (a *App) reportConflict(err error) {
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		return
	}
	switch conflict.Kind {
	case ConflictDuplicate:
		a.msg.Errorf("Several files will end-up with the same path:")
	default:
		a.msg.Errorf("The following paths already exist in filesystem:")
	}
	a.msg.Separator("=", LevelError)
	for _, pair := range conflict.Pairs() {
		a.msg.Print(pair.String())
	}
	a.msg.Separator("=", LevelError)
}

func (a *App) reportAbort(err error) {
	var (
		race  *RaceConflictError
		exec  *ExecutionError
		abort EmergencyAbort
	)
	switch {
	case errors.As(err, &race):
		abort = race.EmergencyAbort
	case errors.As(err, &exec):
		abort = exec.EmergencyAbort
	default:
		return
	}
	if abort.LogErr != nil {
		a.msg.Fatalf("%d renames were applied and the log could not be written, listing them here", len(abort.Applied))
	} else {
		a.msg.Fatalf("%d renames were applied before the abort, appended to %s", len(abort.Applied), abort.LogPath)
	}
	a.msg.Separator("=", LevelError)
	for _, pair := range abort.Applied {
		a.msg.Print(pair.String())
	}
	a.msg.Separator("=", LevelError)
}
