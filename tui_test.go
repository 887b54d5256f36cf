package regmv

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmModelKeys(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		key       tea.KeyMsg
		confirmed bool
	}{
		{"y", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")}, true},
		{"Y", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Y")}, true},
		{"n", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")}, false},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, false},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, false},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			next, cmd := confirmModel{question: "Continue anyway"}.Update(tc.key)
			require.NotNil(t, cmd)
			m := next.(confirmModel)
			assert.True(t, m.answered)
			assert.Equal(t, tc.confirmed, m.confirmed)
			assert.Contains(t, m.View(), "Continue anyway")
		})
	}
}

func TestConfirmModelIgnoresOtherInput(t *testing.T) {
	t.Parallel()

	m := confirmModel{question: "Continue anyway"}
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.Nil(t, cmd)
	assert.False(t, next.(confirmModel).answered)

	next, cmd = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.Nil(t, cmd)
	assert.False(t, next.(confirmModel).answered)
	assert.Contains(t, next.View(), "y to continue")
}
