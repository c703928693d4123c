// Package caserunner executes the built analyzer against one test case at a
// time, in total isolation: a fresh output file per case, no shared state
// between invocations, and a hard per-case timeout that kills the analyzer and
// any children it spawned.
package caserunner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"github.com/amitnovick/compilation-ex4-testers/internal/models"
)

// ErrTimeout marks a case whose analyzer process exceeded the time bound and
// was killed. A timed-out case is never compared against its expected output.
var ErrTimeout = errors.New("analyzer timed out")

// ErrNoReport marks a case where the analyzer exited cleanly but never wrote
// its output file.
var ErrNoReport = errors.New("analyzer did not create its output file")

// waitDelay bounds how long Wait blocks on I/O pipes after the process group
// has been killed.
const waitDelay = 5 * time.Second

// Run invokes the artifact for one test case: launcher + artifact + input
// path + output file path, executed from the artifact's directory (the
// analyzer writes debug files into an output/ directory there, which is
// ensured first). The produced report is read back from the per-case output
// file, which lives in its own temporary directory and is removed afterward.
//
// Returns ErrTimeout when the timeout elapsed, ErrNoReport when the analyzer
// exited zero without writing its report, or a launch error. A non-zero
// analyzer exit is not an error here; callers classify it from ExitCode.
func Run(ctx context.Context, artifact *models.BuildArtifact, tc *models.TestCase, timeout time.Duration) (*models.ExecutionResult, error) {
	artifactDir := filepath.Dir(artifact.Path)

	// The analyzer requires an output directory relative to its cwd.
	if err := os.MkdirAll(filepath.Join(artifactDir, "output"), 0o755); err != nil {
		return nil, fmt.Errorf("preparing analyzer output directory: %w", err)
	}

	caseDir, err := os.MkdirTemp("", "ex4-case-*")
	if err != nil {
		return nil, fmt.Errorf("creating case directory: %w", err)
	}
	defer os.RemoveAll(caseDir)

	outputFile := filepath.Join(caseDir, tc.CaseName+".out")

	inputPath, err := filepath.Abs(tc.InputPath)
	if err != nil {
		return nil, fmt.Errorf("resolving input path: %w", err)
	}

	argv := append(append([]string{}, artifact.Launcher...), artifact.Path, inputPath, outputFile)

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	cmd.Dir = artifactDir

	// Run the analyzer in its own process group so cancellation kills any
	// children too, not just the immediate process.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	duration := time.Since(start)

	result := &models.ExecutionResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: duration,
	}

	if runCtx.Err() == context.DeadlineExceeded {
		return result, fmt.Errorf("%w after %v", ErrTimeout, timeout)
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, fmt.Errorf("launching analyzer: %w", runErr)
	}

	report, err := os.ReadFile(outputFile)
	if err != nil {
		if os.IsNotExist(err) {
			return result, ErrNoReport
		}
		return result, fmt.Errorf("reading analyzer report: %w", err)
	}
	result.Report = string(report)

	return result, nil
}
