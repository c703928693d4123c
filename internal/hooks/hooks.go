package hooks

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Hook defines a single lifecycle command configured in suite.yaml.
type Hook struct {
	Command          string `yaml:"command" json:"command"`
	WorkingDirectory string `yaml:"working_directory,omitempty" json:"working_directory,omitempty"`
	// ExitCodes lists additional acceptable exit codes besides 0.
	ExitCodes []int `yaml:"exit_codes,omitempty" json:"exit_codes,omitempty"`
	// ErrorOnFail turns an unacceptable exit into a hard error instead of a
	// warning.
	ErrorOnFail bool `yaml:"error_on_fail,omitempty" json:"error_on_fail,omitempty"`
}

// Config holds the lifecycle hooks of a suite run.
type Config struct {
	BeforeRun []Hook `yaml:"before_run,omitempty" json:"before_run,omitempty"`
	AfterRun  []Hook `yaml:"after_run,omitempty" json:"after_run,omitempty"`
}

// Runner executes hook commands at lifecycle points.
type Runner struct {
	Verbose bool
}

// Execute runs all hooks for a lifecycle point. name identifies the point
// (e.g. "before_run") for logging and error context.
func (r *Runner) Execute(ctx context.Context, name string, hooks []Hook) error {
	for i, h := range hooks {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("hook %s: context canceled: %w", name, err)
		}
		if err := r.runHook(ctx, name, i, h); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) runHook(ctx context.Context, name string, index int, h Hook) error {
	if strings.TrimSpace(h.Command) == "" {
		return fmt.Errorf("hook %s[%d]: empty command", name, index)
	}

	parts := strings.Fields(h.Command)
	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	if h.WorkingDirectory != "" {
		cmd.Dir = h.WorkingDirectory
	}

	output, err := cmd.CombinedOutput()

	if r.Verbose && len(output) > 0 {
		fmt.Printf("[hook:%s] %s\n", name, string(output))
	}

	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if isAcceptableExit(code, h.ExitCodes) {
			return nil
		}
		if h.ErrorOnFail {
			return fmt.Errorf("hook %s[%d]: command exited with code %d", name, index, code)
		}
		fmt.Printf("[WARN] hook %s[%d] exited with code %d (continuing)\n", name, index, code)
		return nil
	}

	// Non-exit error, e.g. command not found.
	if h.ErrorOnFail {
		return fmt.Errorf("hook %s[%d]: %w", name, index, err)
	}
	fmt.Printf("[WARN] hook %s[%d]: %v (continuing)\n", name, index, err)
	return nil
}

func isAcceptableExit(code int, acceptable []int) bool {
	if code == 0 {
		return true
	}
	for _, a := range acceptable {
		if code == a {
			return true
		}
	}
	return false
}
