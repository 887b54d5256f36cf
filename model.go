package regmv

import "fmt"

// DirEntry is one filesystem object found by the enumerator, not yet
// joined into a path.
type DirEntry struct {
	Dir  string
	Name string
}

// Path returns Dir and Name joined the way they are shown to the user.
func (e DirEntry) Path() string { return joinPath(e.Dir, e.Name) }

// RenamePair is one planned rename. Source and Destination always differ.
type RenamePair struct {
	Source      string
	Destination string
}

func (p RenamePair) String() string {
	return fmt.Sprintf("%s -> %s", p.Source, p.Destination)
}

// Plan is the ordered list of renames of one batch, in discovery order.
type Plan []RenamePair

// Lines renders the plan as "SOURCE -> DESTINATION" lines.
func (p Plan) Lines() []string {
	lines := make([]string, 0, len(p))
	for _, pair := range p {
		lines = append(lines, pair.String())
	}
	return lines
}

type TargetKind string

const (
	TargetFiles       TargetKind = "files"
	TargetDirectories TargetKind = "directories"
)

type Summary struct {
	Planned  int
	Renamed  []string
	Executed bool
	Message  string
}
