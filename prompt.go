package regmv

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Prompter asks the user a single yes/no question.
type Prompter interface {
	Confirm(question string) (bool, error)
}

// NewPrompter picks an interactive prompt when in is a terminal and a
// line-based one otherwise.
func NewPrompter(in *os.File, out io.Writer) Prompter {
	if in == nil {
		return &LinePrompter{Out: out}
	}
	if isatty.IsTerminal(in.Fd()) || isatty.IsCygwinTerminal(in.Fd()) {
		return &TeaPrompter{In: in, Out: out}
	}
	return &LinePrompter{In: in, Out: out}
}

// LinePrompter reads the answer as one line. Only "y" or "yes" confirm.
type LinePrompter struct {
	In  io.Reader
	Out io.Writer
}

func (p *LinePrompter) Confirm(question string) (bool, error) {
	if p.Out != nil {
		fmt.Fprintf(p.Out, "%s [y/N] ", question)
	}
	if p.In == nil {
		return false, nil
	}

	text, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, withStackTrace(err)
	}
	return isAffirmative(text), nil
}

func isAffirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// StaticPrompter answers every question with Answer. Used by callers that
// already obtained consent.
type StaticPrompter struct {
	Answer bool
}

func (p StaticPrompter) Confirm(string) (bool, error) { return p.Answer, nil }
