// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Common application errors.
var (
	// Netlist errors.
	ErrNetlistNotFound  = errors.New("netlist file not found")
	ErrInvalidEncoding  = errors.New("invalid text encoding")
	ErrUnreadableSource = errors.New("netlist source unreadable")

	// Configuration errors.
	ErrMissingConfig  = errors.New("missing configuration")
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrMissingSection = errors.New("missing required configuration section")
	ErrMissingField   = errors.New("missing required field")
	ErrInvalidPattern = errors.New("invalid pattern")

	// Output errors.
	ErrTemplateInvalid = errors.New("template missing required columns")
	ErrWriteFailed     = errors.New("spreadsheet write failed")

	// Storage errors.
	ErrNotFound = errors.New("not found")
)

// ParseError reports a netlist that could not be read or decoded.
type ParseError struct {
	Err  error
	Path string
	Line int
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("failed to parse netlist")
	if e.Path != "" {
		fmt.Fprintf(&b, " %s", e.Path)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " (line %d)", e.Line)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ClassificationError reports a malformed classification rule.
type ClassificationError struct {
	Err   error
	Rule  string
	Field string
}

func (e *ClassificationError) Error() string {
	return ruleError("classification", e.Rule, e.Field, e.Err)
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}

// RuleEngineError reports a malformed layout rule.
type RuleEngineError struct {
	Err   error
	Rule  string
	Field string
}

func (e *RuleEngineError) Error() string {
	return ruleError("layout", e.Rule, e.Field, e.Err)
}

func (e *RuleEngineError) Unwrap() error {
	return e.Err
}

// TemplateMappingError reports a failure to produce the output spreadsheet.
type TemplateMappingError struct {
	Err  error
	Path string
}

func (e *TemplateMappingError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to map data to template %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("failed to map data to template: %v", e.Err)
}

func (e *TemplateMappingError) Unwrap() error {
	return e.Err
}

// ConfigurationError reports a configuration file that could not be loaded or validated.
type ConfigurationError struct {
	Err     error
	Path    string
	Section string
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("configuration error")
	if e.Path != "" {
		fmt.Fprintf(&b, " in %s", e.Path)
	}
	if e.Section != "" {
		fmt.Fprintf(&b, " [%s]", e.Section)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func ruleError(kind, rule, field string, err error) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s rule", kind)
	if rule != "" {
		fmt.Fprintf(&b, " %q", rule)
	}
	if field != "" {
		fmt.Fprintf(&b, " field %q", field)
	}
	if err != nil {
		fmt.Fprintf(&b, ": %v", err)
	}
	return b.String()
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimit) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
