package hooks

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExecute_RunsHooksInOrder(t *testing.T) {
	dir := t.TempDir()
	runner := &Runner{}

	err := runner.Execute(context.Background(), "before_run", []Hook{
		{Command: "touch first", WorkingDirectory: dir},
		{Command: "touch second", WorkingDirectory: dir},
	})
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dir, "first"))
	require.FileExists(t, filepath.Join(dir, "second"))
}

func TestExecute_EmptyCommand(t *testing.T) {
	runner := &Runner{}
	err := runner.Execute(context.Background(), "before_run", []Hook{{Command: "  "}})
	require.ErrorContains(t, err, "empty command")
}

func TestExecute_FailureIsWarningByDefault(t *testing.T) {
	runner := &Runner{}
	err := runner.Execute(context.Background(), "after_run", []Hook{{Command: "false"}})
	require.NoError(t, err)
}

func TestExecute_ErrorOnFail(t *testing.T) {
	runner := &Runner{}
	err := runner.Execute(context.Background(), "before_run", []Hook{
		{Command: "false", ErrorOnFail: true},
	})
	require.ErrorContains(t, err, "exited with code 1")
}

func TestExecute_AcceptableExitCodes(t *testing.T) {
	runner := &Runner{}
	err := runner.Execute(context.Background(), "before_run", []Hook{
		{Command: "false", ErrorOnFail: true, ExitCodes: []int{1}},
	})
	require.NoError(t, err)
}

func TestExecute_MissingCommand(t *testing.T) {
	runner := &Runner{}

	t.Run("warning by default", func(t *testing.T) {
		err := runner.Execute(context.Background(), "before_run", []Hook{
			{Command: "definitely-not-a-real-command-xyz"},
		})
		require.NoError(t, err)
	})

	t.Run("hard error when requested", func(t *testing.T) {
		err := runner.Execute(context.Background(), "before_run", []Hook{
			{Command: "definitely-not-a-real-command-xyz", ErrorOnFail: true},
		})
		require.Error(t, err)
	})
}

func TestExecute_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := &Runner{}
	err := runner.Execute(ctx, "before_run", []Hook{{Command: "true"}})
	require.ErrorContains(t, err, "context canceled")
}

func TestExecute_WorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker"), nil, 0o644))

	runner := &Runner{}
	err := runner.Execute(context.Background(), "before_run", []Hook{
		{Command: "ls marker", WorkingDirectory: dir, ErrorOnFail: true},
	})
	require.NoError(t, err)
}
