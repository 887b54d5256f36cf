package regmv_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sokinpui/regmv"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testLog = "/work/REGMV.LOG"

func assertExists(t *testing.T, fs afero.Fs, paths ...string) {
	t.Helper()
	for _, p := range paths {
		ok, err := afero.Exists(fs, p)
		require.NoError(t, err)
		assert.True(t, ok, "%s should exist", p)
	}
}

func assertMissing(t *testing.T, fs afero.Fs, paths ...string) {
	t.Helper()
	for _, p := range paths {
		ok, err := afero.Exists(fs, p)
		require.NoError(t, err)
		assert.False(t, ok, "%s should not exist", p)
	}
}

func TestExecuteDryRun(t *testing.T) {
	t.Parallel()

	fs := newTree(t, "/work/a.txt")
	var stdout bytes.Buffer
	msg := regmv.NewMessenger(regmv.MessengerOptions{MinLevel: regmv.LevelTrace, Stdout: &stdout, Stderr: &bytes.Buffer{}})

	plan := regmv.Plan{{Source: "/work/a.txt", Destination: "/work/out/a.md"}}
	require.NoError(t, regmv.NewExecutor(fs, msg, nil).Execute(plan, regmv.ExecuteOptions{DryRun: true, ChangeLogPath: testLog}))

	assertExists(t, fs, "/work/a.txt")
	assertMissing(t, fs, "/work/out", "/work/out/a.md", testLog)
	assert.Contains(t, stdout.String(), "pass argument '-E'")
	assert.NotContains(t, stdout.String(), "[ FATAL ]")
}

func TestExecuteDryRunWarnsAboutBypass(t *testing.T) {
	t.Parallel()

	fs := newTree(t, "/work/a.txt")
	var stdout bytes.Buffer
	msg := regmv.NewMessenger(regmv.MessengerOptions{MinLevel: regmv.LevelInfo, Stdout: &stdout, Stderr: &bytes.Buffer{}})

	plan := regmv.Plan{{Source: "/work/a.txt", Destination: "/work/b.txt"}}
	require.NoError(t, regmv.NewExecutor(fs, msg, nil).Execute(plan, regmv.ExecuteOptions{DryRun: true, Bypass: true}))

	assertExists(t, fs, "/work/a.txt")
	assert.Contains(t, stdout.String(), "[ FATAL ]")
	assert.Contains(t, stdout.String(), "loss of information")
}

func TestExecuteRenames(t *testing.T) {
	t.Parallel()

	fs := newTree(t, "/work/a.txt", "/work/b.txt", "/work/c.md")
	plan := regmv.Plan{
		{Source: "/work/a.txt", Destination: "/work/a.md"},
		{Source: "/work/b.txt", Destination: "/work/b.md"},
	}

	executor := regmv.NewExecutor(fs, nil, nil)
	require.NoError(t, executor.Execute(plan, regmv.ExecuteOptions{ChangeLogPath: testLog}))

	assertExists(t, fs, "/work/a.md", "/work/b.md", "/work/c.md")
	assertMissing(t, fs, "/work/a.txt", "/work/b.txt", testLog)
	assert.Equal(t, []regmv.RenamePair(plan), executor.ChangeLog().Entries())

	content, err := afero.ReadFile(fs, "/work/a.md")
	require.NoError(t, err)
	assert.Equal(t, "/work/a.txt", string(content))
}

func TestExecuteCreatesParentDirectories(t *testing.T) {
	t.Parallel()

	fs := newTree(t, "/work/a.txt")
	plan := regmv.Plan{{Source: "/work/a.txt", Destination: "/work/out/deep/renamed.txt"}}

	require.NoError(t, regmv.NewExecutor(fs, nil, nil).Execute(plan, regmv.ExecuteOptions{ChangeLogPath: testLog}))

	isDir, err := afero.IsDir(fs, "/work/out/deep")
	require.NoError(t, err)
	assert.True(t, isDir)
	assertExists(t, fs, "/work/out/deep/renamed.txt")
	assertMissing(t, fs, "/work/a.txt")
}

func TestExecuteRaceConflictSavesLog(t *testing.T) {
	t.Parallel()

	fs := newTree(t, "/work/a", "/work/c")
	plan := regmv.Plan{
		{Source: "/work/a", Destination: "/work/b"},
		{Source: "/work/c", Destination: "/work/b"},
	}

	executor := regmv.NewExecutor(fs, nil, nil)
	err := executor.Execute(plan, regmv.ExecuteOptions{ChangeLogPath: testLog})
	require.Error(t, err)

	var race *regmv.RaceConflictError
	require.ErrorAs(t, err, &race)
	assert.Equal(t, plan[1], race.Pair)
	assert.Equal(t, []regmv.RenamePair{plan[0]}, race.Applied)
	assert.Equal(t, testLog, race.LogPath)
	assert.NoError(t, race.LogErr)
	assert.Equal(t, regmv.ExitAborted, regmv.ExitCode(err))

	log, err := afero.ReadFile(fs, testLog)
	require.NoError(t, err)
	assert.Equal(t, "/work/a -> /work/b\n", string(log))

	assertExists(t, fs, "/work/b", "/work/c")
	assertMissing(t, fs, "/work/a")
}

func TestExecuteFailureSavesLog(t *testing.T) {
	t.Parallel()

	fs := newTree(t, "/work/a")
	plan := regmv.Plan{
		{Source: "/work/a", Destination: "/work/a2"},
		{Source: "/work/gone", Destination: "/work/gone2"},
		{Source: "/work/never", Destination: "/work/never2"},
	}

	err := regmv.NewExecutor(fs, nil, nil).Execute(plan, regmv.ExecuteOptions{ChangeLogPath: testLog})

	var execErr *regmv.ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, "rename", execErr.Op)
	assert.Equal(t, plan[1], execErr.Pair)
	assert.Equal(t, []regmv.RenamePair{plan[0]}, execErr.Applied)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, regmv.ExitAborted, regmv.ExitCode(err))

	log, err := afero.ReadFile(fs, testLog)
	require.NoError(t, err)
	assert.Equal(t, "/work/a -> /work/a2\n", string(log))
}

func TestExecuteFailureOnOS(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a"), nil, 0o644))
	logPath := filepath.Join(root, "REGMV.LOG")
	plan := regmv.Plan{
		{Source: filepath.Join(root, "a"), Destination: filepath.Join(root, "sub", "a")},
		{Source: filepath.Join(root, "missing"), Destination: filepath.Join(root, "b")},
	}

	err := regmv.NewExecutor(regmv.NewOSFS(), nil, nil).Execute(plan, regmv.ExecuteOptions{ChangeLogPath: logPath})

	var execErr *regmv.ExecutionError
	require.ErrorAs(t, err, &execErr)
	require.NoError(t, execErr.LogErr)

	log, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, plan[0].String()+"\n", string(log))
	assert.FileExists(t, filepath.Join(root, "sub", "a"))
}

func TestExecuteBypassDeclined(t *testing.T) {
	t.Parallel()

	fs := newTree(t, "/work/a", "/work/b")
	plan := regmv.Plan{{Source: "/work/a", Destination: "/work/b"}}

	err := regmv.NewExecutor(fs, nil, regmv.StaticPrompter{Answer: false}).
		Execute(plan, regmv.ExecuteOptions{Bypass: true, ChangeLogPath: testLog})

	require.ErrorAs(t, err, &regmv.ConfirmationDeclinedError{})
	assert.Equal(t, regmv.ExitDeclined, regmv.ExitCode(err))
	assertExists(t, fs, "/work/a", "/work/b")
	assertMissing(t, fs, testLog)
}

func TestExecuteBypassConfirmed(t *testing.T) {
	t.Parallel()

	fs := newTree(t, "/work/a")
	plan := regmv.Plan{{Source: "/work/a", Destination: "/work/z"}}

	executor := regmv.NewExecutor(fs, nil, regmv.StaticPrompter{Answer: true})
	require.NoError(t, executor.Execute(plan, regmv.ExecuteOptions{Bypass: true, ChangeLogPath: testLog}))

	assertExists(t, fs, "/work/z")
	assertMissing(t, fs, "/work/a", testLog)
	assert.Equal(t, 1, executor.ChangeLog().Len())
}
