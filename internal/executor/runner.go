// Package executor provides bounded child-process execution for provisioning steps.
package executor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"syscall"
	"time"
)

// Result captures the outcome of one child-process run.
type Result struct {
	ExitCode int           // Process exit code (-1 if killed or never ran)
	Stdout   string        // Captured standard output
	Stderr   string        // Captured standard error
	TimedOut bool          // True when the bound elapsed before exit
	Duration time.Duration // Wall-clock time the process ran
}

// Ok reports whether the process exited zero within its bound.
func (r *Result) Ok() bool {
	return !r.TimedOut && r.ExitCode == 0
}

// Runner executes argv commands with a bounded wait.
type Runner struct {
	// Env, when non-empty, is appended to the inherited environment.
	Env []string
	// Dir, when set, is the working directory for spawned commands.
	Dir string
}

// NewRunner creates a Runner with default settings.
func NewRunner() *Runner {
	return &Runner{}
}

// Run spawns argv[0] with the remaining args and waits at most timeout.
// A timeout is reported in the Result, not as an error; the error return
// is reserved for spawn-level failures (binary missing, permission denied).
// When the bound elapses the process group receives SIGTERM, then SIGKILL
// after a 3s grace period.
func (r *Runner) Run(ctx context.Context, timeout time.Duration, argv ...string) (*Result, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	runCtx := ctx
	var cancel context.CancelFunc
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	// Not CommandContext - cancellation is handled manually to support
	// graceful SIGTERM before SIGKILL on the whole process group.
	cmd := exec.Command(argv[0], argv[1:]...)
	if r.Dir != "" {
		cmd.Dir = r.Dir
	}
	if len(r.Env) > 0 {
		cmd.Env = append(cmd.Environ(), r.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting command: %w", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	result := &Result{}

	select {
	case <-runCtx.Done():
		if cmd.Process != nil {
			_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGTERM)

			select {
			case <-done:
				// Process exited on SIGTERM
			case <-time.After(3 * time.Second):
				_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
				<-done
			}
		}
		result.ExitCode = -1
		result.TimedOut = true

	case err := <-done:
		if err != nil {
			if exitErr, ok := err.(*exec.ExitError); ok {
				result.ExitCode = exitErr.ExitCode()
			} else {
				return nil, err
			}
		} else {
			result.ExitCode = 0
		}
	}

	result.Duration = time.Since(start)
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	return result, nil
}
