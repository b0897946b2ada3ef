package sysmonitor

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// CommandResult is the captured outcome of one command invocation.
// A non-zero exit is reported here with Success set to false, not as an error.
type CommandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Success  bool
}

// CommandExecutor is an interface for executing system commands, allowing for dependency injection and testing.
// Execute returns an error only when the command could not be started.
type CommandExecutor interface {
	Execute(ctx context.Context, name string, args ...string) (CommandResult, error)
}

// defaultCommandExecutor implements CommandExecutor using actual system command execution.
type defaultCommandExecutor struct {
	// Timeout bounds each command. Zero leaves commands unbounded.
	Timeout time.Duration
}

// Execute runs a system command with stdin closed and both output streams captured.
// On Windows the child is started without a console window.
func (e *defaultCommandExecutor) Execute(ctx context.Context, name string, args ...string) (CommandResult, error) {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = nil
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	hideWindow(cmd)

	if err := cmd.Start(); err != nil {
		return CommandResult{}, &CommandError{Command: name, Err: err}
	}

	err := cmd.Wait()
	result := CommandResult{
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
		Success: err == nil,
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return CommandResult{}, &CommandError{Command: name, Err: err}
		}
		result.ExitCode = exitErr.ExitCode()
	}

	return result, nil
}

// executeCommand is a convenience wrapper that falls back to the default executor.
func executeCommand(ctx context.Context, executor CommandExecutor, name string, args ...string) (CommandResult, error) {
	if executor == nil {
		executor = &defaultCommandExecutor{}
	}

	return executor.Execute(ctx, name, args...)
}
