package regmv

import "github.com/spf13/afero"

// PlanRenames enumerates and plans like the command line does, then runs
// the checks, without touching anything.
func PlanRenames(fsys afero.Fs, cfg Config) (Plan, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	planner, err := NewPlanner(cfg.Match, cfg.Replace, cfg.MatchFullPath, nil)
	if err != nil {
		return nil, err
	}
	entries := NewEnumerator(fsys, nil).Enumerate(cfg.EnumerateOptions())
	plan, err := Collect(planner.Plan(entries))
	if err != nil {
		return nil, err
	}
	if err := NewChecker(fsys, nil).Validate(plan, cfg.BypassChecks); err != nil {
		return plan, err
	}
	return plan, nil
}

// Apply runs one batch on the OS filesystem with output discarded. A
// bypassed execution is declined unless a prompter is supplied through
// opts.
func Apply(cfg Config, opts ...Option) (Summary, error) {
	return NewApp(&cfg, opts...).Run()
}
