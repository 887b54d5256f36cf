package regmv

import (
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
)

// Checker validates a whole plan before anything is renamed.
type Checker struct {
	fs  afero.Fs
	msg Messenger
}

func NewChecker(fsys afero.Fs, msg Messenger) *Checker {
	if msg == nil {
		msg = Discard()
	}
	return &Checker{fs: fsys, msg: msg}
}

// Validate runs the duplicate-destination check and then the
// existing-destination check over the entire plan. The first failing check
// returns a *ConflictError listing every offending entry. With bypass set
// nothing is checked.
func (c *Checker) Validate(plan Plan, bypass bool) error {
	if bypass {
		c.msg.Warnf("Skip checkings")
		return nil
	}

	c.msg.Debugf("Check for duplicate in ending paths")
	if err := c.checkDuplicates(plan); err != nil {
		return err
	}

	c.msg.Debugf("Check for already existing paths")
	return c.checkExisting(plan)
}

func (c *Checker) checkDuplicates(plan Plan) error {
	c.msg.Tracef("Resolve canonical destinations to find duplicates")

	type group struct {
		destination string
		sources     []string
	}
	groups := make(map[string]*group, len(plan))
	var order []string

	for _, pair := range plan {
		canonical, err := canonicalPath(c.fs, pair.Destination)
		if err != nil {
			return err
		}
		g, ok := groups[canonical]
		if !ok {
			g = &group{destination: pair.Destination}
			groups[canonical] = g
			order = append(order, canonical)
		}
		g.sources = append(g.sources, pair.Source)
	}

	if len(groups) == len(plan) {
		return nil
	}

	var errs *multierror.Error
	for _, canonical := range order {
		g := groups[canonical]
		if len(g.sources) < 2 {
			continue
		}
		errs = multierror.Append(errs, &DuplicateDestinationError{
			Destination: g.destination,
			Canonical:   canonical,
			Sources:     g.sources,
		})
	}
	return &ConflictError{Kind: ConflictDuplicate, errs: errs}
}

func (c *Checker) checkExisting(plan Plan) error {
	var errs *multierror.Error
	for _, pair := range plan {
		taken, err := exists(c.fs, pair.Destination)
		if err != nil {
			return withStackTrace(err)
		}
		if taken {
			c.msg.Tracef("Destination already exists: %s", pair.Destination)
			errs = multierror.Append(errs, &DestinationExistsError{Pair: pair})
		}
	}
	if errs == nil {
		return nil
	}
	return &ConflictError{Kind: ConflictExisting, errs: errs}
}
