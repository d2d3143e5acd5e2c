package invoke

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
)

// ErrEmptyCommand is returned when a runner is asked to run nothing.
var ErrEmptyCommand = errors.New("empty command line")

// Runner starts a process and waits for it to finish.
// This allows for mocking in tests.
type Runner interface {
	Run(ctx context.Context, argv []string) (ExitStatus, error)
}

// ExecRunner runs commands with os/exec, attached to the given streams.
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner creates a runner attached to the current process's streams.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run starts argv and blocks until it exits. The child is not killed when
// ctx ends; an interrupt from the terminal reaches it through the process
// group, and this process keeps waiting so the child's status is reported.
func (r *ExecRunner) Run(ctx context.Context, argv []string) (ExitStatus, error) {
	if len(argv) == 0 {
		return nil, ErrEmptyCommand
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	// Catch interrupts for the child's lifetime. Handled signals are reset to
	// their defaults in the child, unlike ignored ones.
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", argv[0], err)
	}

	err := cmd.Wait()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return nil, fmt.Errorf("wait for %s: %w", argv[0], err)
	}
	return StatusOf(cmd.ProcessState), nil
}
