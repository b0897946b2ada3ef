package sysmonitor

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"
)

// stderrExcerptLen caps how much stderr is carried into logs and errors.
const stderrExcerptLen = 200

// Strategy is one named, ordered attempt at producing a fact. A strategy
// either runs Command or, when Path is set, reads the file at Path.
type Strategy struct {
	Name    string
	Command string
	Args    []string
	Path    string
	Extract Extractor // nil means Plain
}

// source names what the strategy reads from, for logs.
func (s Strategy) source() string {
	if s.Path != "" {
		return s.Path
	}

	return s.Command
}

// Validator reports whether an extracted value is acceptable.
type Validator func(string) bool

// isNonEmpty checks if value is not empty
func isNonEmpty(value string) bool {
	return value != ""
}

// firstValid runs strategies in order and returns the first value accepted by
// valid, along with the name of the strategy that produced it. Later
// strategies are never executed once one succeeds.
func (c *Collector) firstValid(ctx context.Context, fact string, strategies []Strategy, valid Validator) (string, string, error) {
	attempts := []error{ErrAllStrategiesFailed}

	for _, s := range strategies {
		c.logDebug("trying strategy", "fact", fact, "strategy", s.Name, "source", s.source())

		value, err := c.runStrategy(ctx, s, valid)
		if err != nil {
			c.logDebug("strategy failed", "fact", fact, "strategy", s.Name, "error", err)
			attempts = append(attempts, &StrategyError{Strategy: s.Name, Err: err})

			continue
		}

		c.logInfo("fact resolved", "fact", fact, "strategy", s.Name)
		c.logDebug("fact value", "fact", fact, "strategy", s.Name, "value", value)

		return value, s.Name, nil
	}

	return "", "", &FactError{Fact: fact, Err: errors.Join(attempts...)}
}

// resolve is firstValid with a sentinel: exhaustion is logged and def returned.
func (c *Collector) resolve(ctx context.Context, fact string, strategies []Strategy, valid Validator, def string) string {
	value, _, err := c.firstValid(ctx, fact, strategies, valid)
	if err != nil {
		c.logWarn("no strategy produced a valid value, using default",
			"fact", fact,
			"strategies", len(strategies),
			"default", def,
		)

		return def
	}

	return value
}

// runStrategy executes one strategy and applies its extractor and validator.
func (c *Collector) runStrategy(ctx context.Context, s Strategy, valid Validator) (string, error) {
	output, err := c.readSource(ctx, s)
	if err != nil {
		return "", err
	}

	extract := s.Extract
	if extract == nil {
		extract = Plain()
	}

	value := extract(output)
	if value == "" {
		return "", ErrEmptyValue
	}

	if valid != nil && !valid(value) {
		c.logDebug("value rejected", "strategy", s.Name, "value", value)

		return "", ErrInvalidValue
	}

	return value, nil
}

// readSource returns the raw output of s: file contents for file strategies,
// stdout of a successful run otherwise.
func (c *Collector) readSource(ctx context.Context, s Strategy) (string, error) {
	if s.Path != "" {
		b, err := c.readFile(s.Path)
		if err != nil {
			return "", err
		}

		return string(b), nil
	}

	result, err := executeCommand(ctx, c.commandExecutor, s.Command, s.Args...)
	if err != nil {
		return "", err
	}

	if !result.Success {
		return "", &ExitError{
			Command:  s.Command,
			ExitCode: result.ExitCode,
			Stderr:   excerpt(result.Stderr),
		}
	}

	if stderr := excerpt(result.Stderr); stderr != "" {
		c.logDebug("strategy wrote to stderr", "strategy", s.Name, "stderr", stderr)
	}

	return result.Stdout, nil
}

// excerpt trims s and caps it at stderrExcerptLen bytes without splitting a rune.
func excerpt(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= stderrExcerptLen {
		return s
	}

	n := stderrExcerptLen
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}

	return s[:n] + "..."
}
