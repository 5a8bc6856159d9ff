package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrEmptyInput         = errors.New("input is empty or contains only whitespace")
	ErrInvalidJSON        = errors.New("invalid JSON format")
	ErrInvalidYAML        = errors.New("invalid YAML format")
	ErrInvalidTOML        = errors.New("invalid TOML format")
	ErrMultipleJSON       = errors.New("multiple JSON values found at the root, only one is allowed")
	ErrMultipleDocuments  = errors.New("multiple documents found, only one is allowed")
	ErrFileNotFound       = errors.New("file not found")
	ErrFileEmpty          = errors.New("file is empty")
	ErrNoInput            = errors.New("no input provided: please specify a file with -i or pipe data to stdin")
	ErrInvalidFilePath    = errors.New("invalid file path")
	ErrUnsupportedFormat  = errors.New("unsupported input format")
	ErrMaxDepthExceeded   = errors.New("maximum nesting depth exceeded")
	ErrCyclicValue        = errors.New("value contains a reference cycle")
	ErrInvalidTypeName    = errors.New("type name is not a valid identifier")
	ErrExportWithoutName  = errors.New("export requires a type name")
	ErrInvalidIndentation = errors.New("indent size must not be negative")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput     ErrorType = "input"
	ErrorTypeParsing   ErrorType = "parsing"
	ErrorTypeInference ErrorType = "inference"
	ErrorTypeGenerate  ErrorType = "generate"
	ErrorTypeFormat    ErrorType = "format"
	ErrorTypeOutput    ErrorType = "output"
	ErrorTypeConfig    ErrorType = "config"
	ErrorTypeUnknown   ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// UnknownTypeError reports a value that has no JSON shape.
type UnknownTypeError struct {
	// TypeName is the runtime type of the offending value.
	TypeName string
	// Path locates the value inside the input, e.g. "$.user.callback".
	Path string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("Unknown JSON type: %s", e.TypeName)
}

// MaxDepthError reports input nested deeper than the configured limit.
type MaxDepthError struct {
	Limit int
	Path  string
}

func (e *MaxDepthError) Error() string {
	return fmt.Sprintf("maximum nesting depth %d exceeded at %s", e.Limit, e.Path)
}

// Unwrap lets errors.Is match ErrMaxDepthExceeded.
func (e *MaxDepthError) Unwrap() error {
	return ErrMaxDepthExceeded
}

// NewInputError creates a new error related to input processing
func NewInputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInput,
		Message: message,
		Err:     err,
	}
}

// NewParsingError creates a new error related to document parsing
func NewParsingError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeParsing,
		Message: message,
		Err:     err,
	}
}

// NewInferenceError creates a new error related to type inference
func NewInferenceError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInference,
		Message: message,
		Err:     err,
	}
}

// NewGenerateError creates a new error related to rendering type expressions
func NewGenerateError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeGenerate,
		Message: message,
		Err:     err,
	}
}

// NewFormatError creates a new error related to output formatting
func NewFormatError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeFormat,
		Message: message,
		Err:     err,
	}
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeOutput,
		Message: message,
		Err:     err,
	}
}

// NewConfigError creates a new error related to configuration
func NewConfigError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeConfig,
		Message: message,
		Err:     err,
	}
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var unknownErr *UnknownTypeError
	if errors.As(err, &unknownErr) {
		if unknownErr.Path != "" {
			return fmt.Sprintf("Type inference error: unsupported value of type %s at %s", unknownErr.TypeName, unknownErr.Path)
		}
		return fmt.Sprintf("Type inference error: unsupported value of type %s", unknownErr.TypeName)
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeParsing:
			return fmt.Sprintf("Parsing error: %s", appErr.Message)
		case ErrorTypeInference:
			return fmt.Sprintf("Type inference error: %s", appErr.Message)
		case ErrorTypeGenerate:
			return fmt.Sprintf("Type generation error: %s", appErr.Message)
		case ErrorTypeFormat:
			return fmt.Sprintf("Output formatting error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	// Handle standard errors
	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide a JSON, YAML or TOML document."
	}
	if errors.Is(err, ErrInvalidJSON) {
		return "Error: The input contains invalid JSON. Please check your JSON syntax."
	}
	if errors.Is(err, ErrMultipleJSON) {
		return "Error: Multiple JSON values found. Please provide a single JSON value."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrFileEmpty) {
		return "Error: The specified file is empty. Please provide a file with content."
	}
	if errors.Is(err, ErrNoInput) {
		return "Error: No input provided. Please specify a file with -i or pipe data to stdin."
	}
	if errors.Is(err, ErrInvalidFilePath) {
		return "Error: Invalid file path. Please provide a valid file path."
	}
	if errors.Is(err, ErrMaxDepthExceeded) {
		return "Error: The input is nested deeper than the configured maximum depth."
	}
	if errors.Is(err, ErrCyclicValue) {
		return "Error: The value refers to itself and cannot be described as JSON."
	}

	// Generic error message for unknown errors
	return fmt.Sprintf("Error: %v", err)
}
