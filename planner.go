package regmv

import (
	"iter"
	"regexp"
	"strings"
)

// Planner applies a match/replace rule to enumerated entries.
type Planner struct {
	re       *regexp.Regexp
	replace  string
	fullPath bool
	msg      Messenger
}

// NewPlanner compiles match. A bad expression fails here, before any
// entry is looked at.
func NewPlanner(match, replace string, fullPath bool, msg Messenger) (*Planner, error) {
	re, err := regexp.Compile(match)
	if err != nil {
		return nil, &PatternError{Pattern: match, Err: err}
	}
	if msg == nil {
		msg = Discard()
	}
	if fullPath {
		msg.Debugf("Chose path matching")
	} else {
		msg.Debugf("Chose name matching")
	}
	return &Planner{
		re:       re,
		replace:  ExpandReplacement(replace),
		fullPath: fullPath,
		msg:      msg,
	}, nil
}

// Rename computes the pair for one entry. ok is false when the rule leaves
// the path unchanged.
func (p *Planner) Rename(entry DirEntry) (pair RenamePair, ok bool) {
	current := entry.Path()

	if p.fullPath {
		p.msg.Debugf("Starting to match regex on path: %s", current)
		newPath := p.re.ReplaceAllString(current, p.replace)
		if newPath == current {
			p.msg.Tracef("No matching regexp on path: %s", current)
			return RenamePair{}, false
		}
		p.msg.Tracef("Matching regexp on path: %s -> %s", current, newPath)
		return RenamePair{Source: current, Destination: newPath}, true
	}

	p.msg.Debugf("Starting to match regex on name: %s", current)
	newName := p.re.ReplaceAllString(entry.Name, p.replace)
	if newName == entry.Name {
		p.msg.Tracef("No matching regexp on name: %s", current)
		return RenamePair{}, false
	}
	p.msg.Tracef("Matching regexp on name: %s -> %s", entry.Name, newName)
	return RenamePair{Source: current, Destination: joinPath(entry.Dir, newName)}, true
}

// Plan lazily maps entries to the pairs that actually change something.
// Enumeration errors are passed through and end the sequence.
func (p *Planner) Plan(entries iter.Seq2[DirEntry, error]) iter.Seq2[RenamePair, error] {
	return func(yield func(RenamePair, error) bool) {
		for entry, err := range entries {
			if err != nil {
				yield(RenamePair{}, err)
				return
			}
			pair, ok := p.Rename(entry)
			if !ok {
				continue
			}
			if !yield(pair, nil) {
				return
			}
		}
	}
}

// Collect materializes a pair sequence into a Plan.
func Collect(pairs iter.Seq2[RenamePair, error]) (Plan, error) {
	var plan Plan
	for pair, err := range pairs {
		if err != nil {
			return nil, err
		}
		plan = append(plan, pair)
	}
	return plan, nil
}

// ExpandReplacement rewrites back references written as \1 or \g<name>
// into the ${1} / ${name} form understood by regexp. A doubled backslash
// stands for one literal backslash; other escapes are left alone.
func ExpandReplacement(replace string) string {
	if !strings.Contains(replace, `\`) {
		return replace
	}

	var b strings.Builder
	for i := 0; i < len(replace); i++ {
		c := replace[i]
		if c != '\\' || i+1 >= len(replace) {
			b.WriteByte(c)
			continue
		}

		next := replace[i+1]
		switch {
		case next == '\\':
			b.WriteByte('\\')
			i++
		case next >= '1' && next <= '9':
			j := i + 2
			if j < len(replace) && replace[j] >= '0' && replace[j] <= '9' {
				j++
			}
			b.WriteString("${" + replace[i+1:j] + "}")
			i = j - 1
		case next == 'g' && i+2 < len(replace) && replace[i+2] == '<':
			end := strings.IndexByte(replace[i+3:], '>')
			if end <= 0 {
				b.WriteByte(c)
				continue
			}
			b.WriteString("${" + replace[i+3:i+3+end] + "}")
			i = i + 3 + end
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
