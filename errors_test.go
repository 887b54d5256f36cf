package regmv_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/sokinpui/regmv"
	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil", nil, regmv.ExitOK},
		{"plain", errors.New("boom"), regmv.ExitFailure},
		{"pattern", &regmv.PatternError{Pattern: "(", Err: errors.New("missing )")}, regmv.ExitFailure},
		{"conflict", &regmv.ConflictError{Kind: regmv.ConflictExisting}, regmv.ExitConflict},
		{"declined", regmv.ConfirmationDeclinedError{}, regmv.ExitDeclined},
		{"race", &regmv.RaceConflictError{}, regmv.ExitAborted},
		{"execution", &regmv.ExecutionError{Err: errors.New("EIO")}, regmv.ExitAborted},
		{"wrapped race", fmt.Errorf("batch: %w", &regmv.RaceConflictError{}), regmv.ExitAborted},
		{"forced", regmv.ErrorWithExitCode{Err: errors.New("x"), ExitCode: 42}, 42},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, regmv.ExitCode(tc.err))
		})
	}
}

func TestConflictErrorWithoutEntries(t *testing.T) {
	t.Parallel()

	err := &regmv.ConflictError{Kind: regmv.ConflictDuplicate}
	assert.Equal(t, 0, err.Len())
	assert.Nil(t, err.Pairs())
	assert.Nil(t, err.Duplicates())
	assert.NoError(t, err.Unwrap())
	assert.Contains(t, err.Error(), "duplicate destination")
}

func TestDuplicateDestinationPairs(t *testing.T) {
	t.Parallel()

	err := &regmv.DuplicateDestinationError{Destination: "./same.txt", Sources: []string{"./x.txt", "./y.txt"}}
	assert.Equal(t, []regmv.RenamePair{
		{Source: "./x.txt", Destination: "./same.txt"},
		{Source: "./y.txt", Destination: "./same.txt"},
	}, err.Pairs())
	assert.Contains(t, err.Error(), "./same.txt")
}

func TestErrorStack(t *testing.T) {
	t.Parallel()

	assert.Empty(t, regmv.ErrorStack(nil))
	assert.Equal(t, "plain", regmv.ErrorStack(errors.New("plain")))
}
