package regmv

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
)

// Level is the severity of a message. Messages below the configured
// minimum are dropped.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarning
	LevelSuccess
	LevelError
	LevelFatal
)

const (
	tagWidth   = 11
	ruleWidth  = 80
	levelField = "regmv_level"
)

var levelNames = map[Level]string{
	LevelTrace:   "trace",
	LevelDebug:   "debug",
	LevelInfo:    "info",
	LevelWarning: "warning",
	LevelSuccess: "success",
	LevelError:   "error",
	LevelFatal:   "fatal",
}

var levelAliases = map[string]Level{
	"warn":   LevelWarning,
	"danger": LevelFatal,
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return strconv.Itoa(int(l))
}

// ParseLevel accepts a level number (0-6) or a level name.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n < int(LevelTrace) || n > int(LevelFatal) {
			return LevelInfo, fmt.Errorf("verbosity %d out of range (use 0-6)", n)
		}
		return Level(n), nil
	}
	for level, name := range levelNames {
		if name == s {
			return level, nil
		}
	}
	if level, ok := levelAliases[s]; ok {
		return level, nil
	}
	return LevelInfo, fmt.Errorf("unknown verbosity %q (use 0-6 or trace, debug, info, warning, success, error, fatal)", s)
}

// Messenger receives all user-facing narration of the pipeline.
type Messenger interface {
	Logf(level Level, format string, args ...any)
	Tracef(format string, args ...any)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Successf(format string, args ...any)
	Errorf(format string, args ...any)
	Fatalf(format string, args ...any)
	// Separator prints a full-width rule of ch colored like level.
	Separator(ch string, level Level)
	// Print writes line to stdout regardless of the minimum level.
	Print(line string)
}

type MessengerOptions struct {
	MinLevel Level
	Colored  bool
	Stdout   io.Writer
	Stderr   io.Writer
}

type levelStyle struct {
	tag  lipgloss.Style
	text lipgloss.Style
}

type messenger struct {
	min     Level
	colored bool
	stdout  io.Writer
	out     *logrus.Logger
	err     *logrus.Logger
	rules   map[Level]lipgloss.Style
}

// NewMessenger builds a Messenger writing INFO and above to Stdout and
// TRACE/DEBUG to Stderr.
func NewMessenger(opts MessengerOptions) Messenger {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	outRenderer := lipgloss.NewRenderer(opts.Stdout)
	errRenderer := lipgloss.NewRenderer(opts.Stderr)

	return &messenger{
		min:     opts.MinLevel,
		colored: opts.Colored,
		stdout:  opts.Stdout,
		out:     newLogrus(opts.Stdout, &tagFormatter{colored: opts.Colored, styles: levelStyles(outRenderer)}),
		err:     newLogrus(opts.Stderr, &tagFormatter{colored: opts.Colored, styles: levelStyles(errRenderer)}),
		rules:   ruleStyles(outRenderer),
	}
}

func newLogrus(w io.Writer, f logrus.Formatter) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(f)
	l.SetLevel(logrus.TraceLevel)
	return l
}

func levelColor(level Level) (fg, bg string) {
	switch level {
	case LevelTrace:
		return "5", ""
	case LevelDebug:
		return "6", ""
	case LevelInfo:
		return "4", ""
	case LevelWarning:
		return "3", ""
	case LevelSuccess:
		return "2", ""
	case LevelError:
		return "1", ""
	default:
		return "7", "1"
	}
}

func levelStyles(r *lipgloss.Renderer) map[Level]levelStyle {
	styles := make(map[Level]levelStyle, len(levelNames))
	for level := range levelNames {
		fg, bg := levelColor(level)
		text := r.NewStyle().Foreground(lipgloss.Color(fg))
		if bg != "" {
			text = text.Background(lipgloss.Color(bg))
		}
		styles[level] = levelStyle{tag: text.Bold(true), text: text}
	}
	return styles
}

func ruleStyles(r *lipgloss.Renderer) map[Level]lipgloss.Style {
	rules := make(map[Level]lipgloss.Style, len(levelNames))
	for level := range levelNames {
		fg, _ := levelColor(level)
		rules[level] = r.NewStyle().Bold(true).Foreground(lipgloss.Color(fg))
	}
	return rules
}

// tagFormatter renders entries as "[ LEVEL ]  text".
type tagFormatter struct {
	colored bool
	styles  map[Level]levelStyle
}

func (f *tagFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	level, ok := entry.Data[levelField].(Level)
	if !ok {
		level = LevelInfo
	}
	tag := fmt.Sprintf("%-*s", tagWidth, "[ "+strings.ToUpper(level.String())+" ]")
	text := entry.Message
	if f.colored {
		st := f.styles[level]
		tag = st.tag.Render(tag)
		text = st.text.Render(text)
	}
	return []byte(tag + " " + text + "\n"), nil
}

func logrusLevel(level Level) logrus.Level {
	switch level {
	case LevelTrace:
		return logrus.TraceLevel
	case LevelDebug:
		return logrus.DebugLevel
	case LevelWarning:
		return logrus.WarnLevel
	case LevelError, LevelFatal:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

func (m *messenger) Logf(level Level, format string, args ...any) {
	if level < m.min {
		return
	}
	logger := m.out
	if level <= LevelDebug {
		logger = m.err
	}
	logger.WithField(levelField, level).Log(logrusLevel(level), fmt.Sprintf(format, args...))
}

func (m *messenger) Tracef(format string, args ...any)   { m.Logf(LevelTrace, format, args...) }
func (m *messenger) Debugf(format string, args ...any)   { m.Logf(LevelDebug, format, args...) }
func (m *messenger) Infof(format string, args ...any)    { m.Logf(LevelInfo, format, args...) }
func (m *messenger) Warnf(format string, args ...any)    { m.Logf(LevelWarning, format, args...) }
func (m *messenger) Successf(format string, args ...any) { m.Logf(LevelSuccess, format, args...) }
func (m *messenger) Errorf(format string, args ...any)   { m.Logf(LevelError, format, args...) }
func (m *messenger) Fatalf(format string, args ...any)   { m.Logf(LevelFatal, format, args...) }

func (m *messenger) Separator(ch string, level Level) {
	rule := strings.Repeat(ch, ruleWidth)
	if m.colored {
		rule = m.rules[level].Render(rule)
	}
	fmt.Fprintln(m.stdout, rule)
}

func (m *messenger) Print(line string) {
	fmt.Fprintln(m.stdout, line)
}

// Discard returns a Messenger that drops everything.
func Discard() Messenger { return discard{} }

type discard struct{}

func (discard) Logf(Level, string, ...any) {}
func (discard) Tracef(string, ...any)      {}
func (discard) Debugf(string, ...any)      {}
func (discard) Infof(string, ...any)       {}
func (discard) Warnf(string, ...any)       {}
func (discard) Successf(string, ...any)    {}
func (discard) Errorf(string, ...any)      {}
func (discard) Fatalf(string, ...any)      {}
func (discard) Separator(string, Level)    {}
func (discard) Print(string)               {}
