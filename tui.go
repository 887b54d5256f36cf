package regmv

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	dangerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")).Background(lipgloss.Color("1"))
	answerStyle   = lipgloss.NewStyle().Bold(true)
	hintStyle     = lipgloss.NewStyle().Faint(true)
	confirmPrompt = " [y/N] "
)

// confirmModel is a one-question bubbletea program.
type confirmModel struct {
	question  string
	answered  bool
	confirmed bool
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y":
		m.answered, m.confirmed = true, true
		return m, tea.Quit
	case "n", "N", "enter", "esc", "q", "ctrl+c", "ctrl+d":
		m.answered, m.confirmed = true, false
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	if !m.answered {
		return dangerStyle.Render(m.question) + confirmPrompt + hintStyle.Render("(y to continue)")
	}
	answer := "no"
	if m.confirmed {
		answer = "yes"
	}
	return dangerStyle.Render(m.question) + confirmPrompt + answerStyle.Render(answer) + "\n"
}

// TeaPrompter asks through a bubbletea program, so a single key press
// answers.
type TeaPrompter struct {
	In  io.Reader
	Out io.Writer
}

func (p *TeaPrompter) Confirm(question string) (bool, error) {
	var opts []tea.ProgramOption
	if p.In != nil {
		opts = append(opts, tea.WithInput(p.In))
	}
	if p.Out != nil {
		opts = append(opts, tea.WithOutput(p.Out))
	}

	final, err := tea.NewProgram(confirmModel{question: question}, opts...).Run()
	if err != nil {
		return false, withStackTrace(err)
	}
	m, ok := final.(confirmModel)
	return ok && m.confirmed, nil
}
