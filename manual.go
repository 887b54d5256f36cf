package regmv

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

//go:embed manual.md
var manualSource []byte

const manualWidth = 80

type ManualSection struct {
	Title string
	Level int
	Body  string
}

// Manual returns the complete embedded manual as markdown.
func Manual() string { return string(manualSource) }

// ManualSections splits source at every heading below the document title.
// A section runs until the next heading of the same or a higher level.
func ManualSections(source []byte) []ManualSection {
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	type mark struct {
		title string
		level int
		start int
	}
	var marks []mark
	for node := root.FirstChild(); node != nil; node = node.NextSibling() {
		heading, ok := node.(*ast.Heading)
		if !ok || heading.Level < 2 || heading.Lines().Len() == 0 {
			continue
		}
		start := heading.Lines().At(0).Start
		start = bytes.LastIndexByte(source[:start], '\n') + 1
		marks = append(marks, mark{
			title: strings.TrimSpace(string(heading.Text(source))),
			level: heading.Level,
			start: start,
		})
	}

	sections := make([]ManualSection, 0, len(marks))
	for i, m := range marks {
		end := len(source)
		for _, next := range marks[i+1:] {
			if next.level <= m.level {
				end = next.start
				break
			}
		}
		sections = append(sections, ManualSection{
			Title: m.title,
			Level: m.level,
			Body:  strings.TrimRight(string(source[m.start:end]), "\n") + "\n",
		})
	}
	return sections
}

// ManualSectionByTitle finds a section of the embedded manual, ignoring case.
func ManualSectionByTitle(title string) (ManualSection, error) {
	sections := ManualSections(manualSource)
	titles := make([]string, 0, len(sections))
	for _, s := range sections {
		if strings.EqualFold(s.Title, strings.TrimSpace(title)) {
			return s, nil
		}
		titles = append(titles, strings.ToLower(s.Title))
	}
	return ManualSection{}, fmt.Errorf("unknown manual section %q (known: %s)", title, strings.Join(titles, ", "))
}

// RenderMarkdown formats markdown for the terminal. Without colors the
// plain "notty" style is used.
func RenderMarkdown(markdown string, colored bool) (string, error) {
	style := glamour.WithAutoStyle()
	if !colored {
		style = glamour.WithStandardStyle("notty")
	}
	renderer, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(manualWidth))
	if err != nil {
		return "", withStackTrace(err)
	}
	out, err := renderer.Render(markdown)
	if err != nil {
		return "", withStackTrace(err)
	}
	return out, nil
}
