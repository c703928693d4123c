// Package builder invokes the submission's build tool and locates the
// resulting analyzer executable.
package builder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/amitnovick/compilation-ex4-testers/internal/archive"
	"github.com/amitnovick/compilation-ex4-testers/internal/models"
)

// BuildError reports a failed build: a non-zero build-tool exit, a build
// timeout, or a missing artifact afterward. Output carries the build tool's
// combined stdout/stderr verbatim so the failure is diagnosable; the harness
// never reformats or interprets it.
type BuildError struct {
	Reason string
	Output string
}

func (e *BuildError) Error() string {
	if e.Output == "" {
		return "build failed: " + e.Reason
	}
	return fmt.Sprintf("build failed: %s\n%s", e.Reason, e.Output)
}

// Build runs the build tool with the submission's source subdirectory as the
// working directory, bounded by the suite spec's build timeout, then verifies the
// expected executable exists. Build-tool diagnostics are never inspected; a
// non-zero exit is escalated to *BuildError immediately.
func Build(ctx context.Context, root *archive.SourceRoot, spec *models.SuiteSpec) (*models.BuildArtifact, error) {
	timeout := time.Duration(spec.BuildTimeoutSec) * time.Second
	buildCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(buildCtx, "make")
	cmd.Dir = root.SourceDir

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()

	if buildCtx.Err() == context.DeadlineExceeded {
		return nil, &BuildError{
			Reason: fmt.Sprintf("build timed out after %v", timeout),
			Output: output.String(),
		}
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &BuildError{
				Reason: fmt.Sprintf("make exited with code %d", exitErr.ExitCode()),
				Output: output.String(),
			}
		}
		return nil, &BuildError{Reason: err.Error(), Output: output.String()}
	}

	artifactPath := filepath.Join(root.SourceDir, spec.ExecutableName)
	info, statErr := os.Stat(artifactPath)
	if statErr != nil || info.IsDir() {
		return nil, &BuildError{
			Reason: fmt.Sprintf("%s not created by build", spec.ExecutableName),
			Output: output.String(),
		}
	}

	abs, err := filepath.Abs(artifactPath)
	if err != nil {
		return nil, fmt.Errorf("resolving artifact path: %w", err)
	}

	return &models.BuildArtifact{Path: abs, Launcher: spec.Launcher}, nil
}

// Locate returns the artifact from an already-built source directory without
// invoking the build tool, for running the suite against a local checkout.
func Locate(sourceDir string, spec *models.SuiteSpec) (*models.BuildArtifact, error) {
	artifactPath := filepath.Join(sourceDir, spec.ExecutableName)
	info, err := os.Stat(artifactPath)
	if err != nil || info.IsDir() {
		return nil, &BuildError{
			Reason: fmt.Sprintf("%s not found in %s (build the analyzer first: cd %s && make)",
				spec.ExecutableName, sourceDir, sourceDir),
		}
	}
	abs, err := filepath.Abs(artifactPath)
	if err != nil {
		return nil, fmt.Errorf("resolving artifact path: %w", err)
	}
	return &models.BuildArtifact{Path: abs, Launcher: spec.Launcher}, nil
}
