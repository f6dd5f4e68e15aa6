package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// Source errors
	ErrStreamOpen        = errors.New("stream open failed")
	ErrStreamRead        = errors.New("stream read failed")
	ErrUnsupportedSource = errors.New("unsupported source")
	ErrUnexpectedStatus  = errors.New("unexpected status")

	// Queue errors
	ErrQueueInterrupted = errors.New("queue interrupted")

	// Configuration errors
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrConfigValidation = errors.New("configuration validation failed")

	// Authentication errors
	ErrAuthenticationFailed = errors.New("authentication failed")

	// General errors
	ErrInvalidArgument = errors.New("invalid argument")
)

// Kind classifies a per-source failure.
type Kind int

const (
	// StreamOpen means the source could not be resolved or opened.
	StreamOpen Kind = iota
	// StreamRead means the stream failed after it was opened.
	StreamRead
)

func (k Kind) String() string {
	switch k {
	case StreamOpen:
		return "open"
	case StreamRead:
		return "read"
	default:
		return "unknown"
	}
}

// SourceError is the typed failure a producer reports for its source.
type SourceError struct {
	Source string
	Kind   Kind
	Err    error
}

// NewSourceError wraps err as a failure of the given kind for source.
func NewSourceError(source string, kind Kind, err error) *SourceError {
	return &SourceError{Source: source, Kind: kind, Err: err}
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Source, e.sentinel(), e.Err)
}

// Unwrap returns the underlying cause.
func (e *SourceError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrStreamOpen) and errors.Is(err, ErrStreamRead)
// match on the error kind.
func (e *SourceError) Is(target error) bool {
	return target == e.sentinel()
}

func (e *SourceError) sentinel() error {
	if e.Kind == StreamRead {
		return ErrStreamRead
	}
	return ErrStreamOpen
}

// Error wrapping functions

// Wrap wraps an error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// New creates a new error with formatted message
func New(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As attempts to extract a specific error type
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Multi-error support for operations that can have multiple failures

// MultiError represents multiple errors
type MultiError struct {
	errors []error
}

// NewMultiError creates a new MultiError
func NewMultiError() *MultiError {
	return &MultiError{
		errors: make([]error, 0),
	}
}

// Add adds an error to the MultiError
func (m *MultiError) Add(err error) {
	if err != nil {
		m.errors = append(m.errors, err)
	}
}

// HasErrors returns true if there are any errors
func (m *MultiError) HasErrors() bool {
	return len(m.errors) > 0
}

// Error implements the error interface
func (m *MultiError) Error() string {
	if len(m.errors) == 0 {
		return ""
	}
	if len(m.errors) == 1 {
		return m.errors[0].Error()
	}
	return fmt.Sprintf("multiple errors occurred: %v", m.errors)
}

// Errors returns all collected errors
func (m *MultiError) Errors() []error {
	return m.errors
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (m *MultiError) Unwrap() []error {
	return m.errors
}

// ErrorOrNil returns nil if no errors, otherwise returns the MultiError
func (m *MultiError) ErrorOrNil() error {
	if m.HasErrors() {
		return m
	}
	return nil
}
