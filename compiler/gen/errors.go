package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrUnsupportedShape indicates that derive was applied to something that is not an enum.
	ErrUnsupportedShape = errors.New("pathstr: unsupported item")
	// ErrMissingConfig indicates a configuration error.
	ErrMissingConfig = errors.New("pathstr: missing configuration")
	// ErrInvalidDirective indicates a malformed directive.
	ErrInvalidDirective = errors.New("pathstr: invalid directive")
	// ErrGenerationFailed indicates a code generation failure.
	ErrGenerationFailed = errors.New("pathstr: code generation failed")
	// ErrStale indicates that a generated file is out of date.
	ErrStale = errors.New("pathstr: generated file is out of date")
)

// ShapeError is returned when derive is applied to a declaration
// that is not an enum.
type ShapeError struct {
	Type string // Declared name
	Kind string // Kind of the declaration, e.g. "struct"
	Pos  string
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	var b strings.Builder
	b.WriteString("pathstr: ")
	if e.Pos != "" {
		b.WriteString(e.Pos)
		b.WriteString(": ")
	}
	b.WriteString("derive supports only enums")
	if e.Type != "" {
		fmt.Fprintf(&b, ", %s is a %s", e.Type, e.Kind)
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for ShapeError.
func (e *ShapeError) Is(target error) bool {
	return target == ErrUnsupportedShape
}

// NewShapeError creates a new ShapeError.
func NewShapeError(typeName, kind, pos string) *ShapeError {
	return &ShapeError{Type: typeName, Kind: kind, Pos: pos}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Type    string // Enum type the option belongs to, if any
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("pathstr: config error")
	if e.Type != "" {
		b.WriteString(" on type ")
		b.WriteString(e.Type)
	}
	fmt.Fprintf(&b, " for %q", e.Option)
	if e.Value != nil {
		fmt.Fprintf(&b, " (value: %v)", e.Value)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// DirectiveError represents a malformed directive.
type DirectiveError struct {
	Type      string
	Directive string // Directive text as written
	Pos       string
	Message   string
	Cause     error
}

// Error implements the error interface.
func (e *DirectiveError) Error() string {
	var b strings.Builder
	b.WriteString("pathstr: ")
	if e.Pos != "" {
		b.WriteString(e.Pos)
		b.WriteString(": ")
	}
	b.WriteString("invalid directive")
	if e.Directive != "" {
		b.WriteString(" ")
		b.WriteString(e.Directive)
	}
	if e.Type != "" {
		b.WriteString(" on type ")
		b.WriteString(e.Type)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *DirectiveError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for DirectiveError.
func (e *DirectiveError) Is(target error) bool {
	return target == ErrInvalidDirective
}

// GenerationError represents a code generation error.
type GenerationError struct {
	Phase   string // "render", "format", "write", ...
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("pathstr: generation error")
	if e.Phase != "" {
		b.WriteString(" in phase ")
		b.WriteString(e.Phase)
	}
	if e.File != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.File)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(phase, file, message string, cause error) *GenerationError {
	return &GenerationError{
		Phase:   phase,
		File:    file,
		Message: message,
		Cause:   cause,
	}
}

// StaleError is returned in check mode for a file whose content
// differs from what the generator would write.
type StaleError struct {
	File string
	Diff string // unified diff from the file on disk to the expected content
}

// Error implements the error interface.
func (e *StaleError) Error() string {
	return fmt.Sprintf("pathstr: %s is out of date, run go generate", e.File)
}

// Is reports whether the target matches the sentinel error for StaleError.
func (e *StaleError) Is(target error) bool {
	return target == ErrStale
}

// IsShapeError reports whether the error is a ShapeError.
func IsShapeError(err error) bool {
	var shapeErr *ShapeError
	return errors.As(err, &shapeErr)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsDirectiveError reports whether the error is a DirectiveError.
func IsDirectiveError(err error) bool {
	var dirErr *DirectiveError
	return errors.As(err, &dirErr)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}

// IsStaleError reports whether the error is a StaleError.
func IsStaleError(err error) bool {
	var staleErr *StaleError
	return errors.As(err, &staleErr)
}
