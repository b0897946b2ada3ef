package sysmonitor

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by resolvers and the relay.
var (
	// ErrAllStrategiesFailed is wrapped by a [FactError] when every strategy
	// in a fallback chain was exhausted without producing a valid value.
	ErrAllStrategiesFailed = errors.New("all strategies failed")

	// ErrEmptyValue is recorded when a strategy ran successfully but its
	// extracted value was empty.
	ErrEmptyValue = errors.New("empty value returned")

	// ErrInvalidValue is recorded when a strategy produced a value rejected
	// by the chain's validity predicate, such as an OEM placeholder.
	ErrInvalidValue = errors.New("value rejected by validity check")

	// ErrInvalidEndpoint is returned by [Relay.Send] when the endpoint URL
	// cannot be turned into a request.
	ErrInvalidEndpoint = errors.New("invalid endpoint")
)

// CommandError records a command that could not be spawned at all.
// Use [errors.As] to extract the command name from wrapped errors.
type CommandError struct {
	Command string // command name, e.g. "powershell", "wmic", "hostname"
	Err     error  // underlying error from exec
}

// Error returns a human-readable description of the command failure.
func (e *CommandError) Error() string {
	return fmt.Sprintf("command %q failed: %v", e.Command, e.Err)
}

// Unwrap returns the underlying error.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExitError records a command that ran but exited unsuccessfully.
type ExitError struct {
	Command  string
	ExitCode int
	Stderr   string // trimmed excerpt
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("command %q exited with status %d", e.Command, e.ExitCode)
	}

	return fmt.Sprintf("command %q exited with status %d: %s", e.Command, e.ExitCode, e.Stderr)
}

// StrategyError records why a single strategy of a fallback chain was skipped.
type StrategyError struct {
	Strategy string // strategy name, e.g. "Win32_BIOS", "WMIC"
	Err      error
}

// Error returns a human-readable description of the strategy failure.
func (e *StrategyError) Error() string {
	return fmt.Sprintf("strategy %q: %v", e.Strategy, e.Err)
}

// Unwrap returns the underlying error.
func (e *StrategyError) Unwrap() error {
	return e.Err
}

// FactError records a failure to resolve a fact after its whole chain ran.
// Err joins [ErrAllStrategiesFailed] with one [StrategyError] per attempt.
type FactError struct {
	Fact string // fact name, e.g. "hostname", "serial_number"
	Err  error
}

// Error returns a human-readable description of the fact failure.
func (e *FactError) Error() string {
	return fmt.Sprintf("fact %q: %v", e.Fact, e.Err)
}

// Unwrap returns the underlying error.
func (e *FactError) Unwrap() error {
	return e.Err
}

// TransportError records a relay request that never produced an HTTP response.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError records a relay response with a non-success HTTP status.
type StatusError struct {
	StatusCode int
	Reason     string // canonical reason phrase, "Unknown" if there is none
	Body       string
}

// Error formats the status as "HTTP <code>: <reason>".
func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Reason)
}

// BodyError records a success response whose body could not be read.
type BodyError struct {
	Err error
}

func (e *BodyError) Error() string {
	return fmt.Sprintf("reading response body: %v", e.Err)
}

func (e *BodyError) Unwrap() error {
	return e.Err
}
