package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/etreport/internal/cli"
	"github.com/specialistvlad/etreport/internal/trace"
)

func writeInputs(t *testing.T, tasks, log string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	tasksPath := filepath.Join(dir, "n00_tasks.map")
	logPath := filepath.Join(dir, "mon_all.log")
	require.NoError(t, os.WriteFile(tasksPath, []byte(tasks), 0600), "failed to set up test file")
	require.NoError(t, os.WriteFile(logPath, []byte(log), 0600), "failed to set up test file")
	return tasksPath, logPath
}

func TestRun_Report(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	tasksPath, logPath := writeInputs(t,
		"1 :p0:b1 workerA 0\n",
		"100 1 disp 1 st R et 1000000000 creat 0\n250 1 disp 2 st Z et 1500000000\n",
	)
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

	// --- Act ---
	err := run(out, errOut, []string{"-t", tasksPath, "--log-format", "text", logPath})

	// --- Assert ---
	require.NoError(t, err)
	require.Contains(t, out.String(), "[ ROOT ] 2.500000\n")
	require.Contains(t, out.String(), "*** workerA: total 2.500000, avg 2.500000\n")
	require.Contains(t, errOut.String(), "Event log ingested.", "logs go to the error writer")
	require.NotContains(t, out.String(), "level=")
}

func TestRun_ValidationError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The dispatch counter jumps from 1 to 3.
	tasksPath, logPath := writeInputs(t,
		"1 :p0 workerA 0\n",
		"100 1 disp 1 et 1\n200 1 disp 3 et 1\n",
	)
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, &bytes.Buffer{}, []string{"-t", tasksPath, logPath})

	// --- Assert ---
	require.Error(t, err)
	require.True(t, errors.Is(err, trace.ErrSequenceViolation))
	var exitErr *cli.ExitError
	require.False(t, errors.As(err, &exitErr), "input errors exit with the generic code")
	require.Empty(t, out.String(), "nothing is printed when the run fails")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	args := []string{"-h"}
	out := &bytes.Buffer{}

	// --- Act ---
	// The run function should see `shouldExit=true` and return a nil error.
	err := run(out, &bytes.Buffer{}, args)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Providing an unknown flag will cause cli.Parse to return an error.
	args := []string{"--this-is-not-a-valid-flag"}
	out := &bytes.Buffer{}

	// --- Act ---
	// The run function should propagate the error from cli.Parse.
	err := run(out, &bytes.Buffer{}, args)

	// --- Assert ---
	require.Error(t, err, "run() should return an error when argument parsing fails")
	var exitErr *cli.ExitError
	require.True(t, errors.As(err, &exitErr))
	require.Equal(t, 2, exitErr.Code)
	require.Contains(t, err.Error(), "unknown flag: --this-is-not-a-valid-flag")
}
