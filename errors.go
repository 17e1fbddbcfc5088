package dynabuild

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a category of error for logging and programmatic handling.
type ErrorCode string

// Error codes for categorization.
const (
	ErrCodeConfig     ErrorCode = "CONFIG"     // Construction/configuration errors
	ErrCodeShape      ErrorCode = "SHAPE"      // Shape description errors
	ErrCodeMember     ErrorCode = "MEMBER"     // Member resolution/dispatch errors
	ErrCodeClone      ErrorCode = "CLONE"      // Deep-clone errors
	ErrCodeValidation ErrorCode = "VALIDATION" // Record validation errors
)

// BuilderError is the common interface for all errors produced by this package.
// Use it to handle errors generically while still accessing error-specific
// information.
//
// Example:
//
//	var bErr dynabuild.BuilderError
//	if errors.As(err, &bErr) {
//	    if bErr.Fatal() {
//	        // Programmer error: fix the call site, do not retry.
//	    }
//	    log.Printf("error code: %s", bErr.Code())
//	}
type BuilderError interface {
	error

	// Code returns a machine-readable error code for categorization.
	Code() ErrorCode

	// Fatal reports whether the error is a programmer error (bad member name,
	// non-string member key, uncloneable value) as opposed to a recoverable
	// validation failure.
	Fatal() bool
}

// IsFatal returns true if the error represents a programmer error rather than
// a recoverable validation failure. This works with any error in the package.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var bErr BuilderError
	if errors.As(err, &bErr) {
		return bErr.Fatal()
	}
	return false
}

// ConfigError reports invalid construction input to New.
type ConfigError struct {
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "dynabuild: " + e.Message
}

// Code returns the error code for the configuration error.
func (e *ConfigError) Code() ErrorCode {
	return ErrCodeConfig
}

// Fatal returns true: a construction error means the call site is wrong.
func (e *ConfigError) Fatal() bool {
	return true
}

var _ BuilderError = (*ConfigError)(nil)

// Sentinel errors for construction validation. Both are *ConfigError values,
// so they carry the CONFIG code and compare with errors.Is.
var (
	ErrNilShape   error = &ConfigError{Message: "shape is required"}
	ErrEmptyShape error = &ConfigError{Message: "shape declares no fields"}
)

// ValidationError represents a single validation failure for a field.
// Validators may return these, but any error type is accepted.
type ValidationError struct {
	Field   string
	Message string
	Err     error // Underlying error for wrapping
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("dynabuild: validation error for field %q: %s", e.Field, e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Code returns the error code for the validation error.
func (e *ValidationError) Code() ErrorCode {
	return ErrCodeValidation
}

// Fatal returns false: validation errors are reported through Result, never thrown.
func (e *ValidationError) Fatal() bool {
	return false
}

// Ensure ValidationError implements BuilderError.
var _ BuilderError = (*ValidationError)(nil)

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewValidationErrorWithCause creates a new validation error with an underlying cause.
func NewValidationErrorWithCause(field, message string, cause error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     cause,
	}
}

// ValidationFailedError aggregates every error a validator produced for one
// Build attempt. It carries the attempted candidate object so callers can
// inspect what would have been built.
//
// The message lists each underlying error as "CODE: message", one per line,
// in the order the validator produced them.
type ValidationFailedError struct {
	// Attempted is the candidate object Build produced before validation
	// rejected it (post-transform when a transformer is installed).
	Attempted any

	// Errors holds the validator's errors in production order. Never empty.
	Errors []error
}

// Error implements the error interface.
func (e *ValidationFailedError) Error() string {
	lines := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		code := ErrCodeValidation
		var bErr BuilderError
		if errors.As(err, &bErr) {
			code = bErr.Code()
		}
		lines[i] = fmt.Sprintf("%s: %s", code, err.Error())
	}
	return strings.Join(lines, "\n")
}

// Unwrap returns the underlying errors for errors.Is/As traversal.
func (e *ValidationFailedError) Unwrap() []error {
	return e.Errors
}

// Code returns the error code for the aggregated failure.
func (e *ValidationFailedError) Code() ErrorCode {
	return ErrCodeValidation
}

// Fatal returns false: build failures are recoverable by fixing the data.
func (e *ValidationFailedError) Fatal() bool {
	return false
}

var _ BuilderError = (*ValidationFailedError)(nil)

// MemberError represents a member-resolution failure: a requested member name
// that matches neither a builder operation nor a generated field accessor, or
// a member key that is not a string.
type MemberError struct {
	Member  string
	Message string
}

// Error implements the error interface.
func (e *MemberError) Error() string {
	return fmt.Sprintf("dynabuild: %s: %q", e.Message, e.Member)
}

// Code returns the error code for the member error.
func (e *MemberError) Code() ErrorCode {
	return ErrCodeMember
}

// Fatal returns true: member errors are programmer errors.
func (e *MemberError) Fatal() bool {
	return true
}

var _ BuilderError = (*MemberError)(nil)

// newUnknownMemberError reports a member name that resolved to nothing.
func newUnknownMemberError(name string) *MemberError {
	return &MemberError{Member: name, Message: "unknown member"}
}

// newMemberTypeError reports a member key that is not a string.
func newMemberTypeError(member any) *MemberError {
	return &MemberError{
		Member:  fmt.Sprintf("%v (%T)", member, member),
		Message: "member name must be a string",
	}
}

// ArgumentError reports an operation invoked with arguments it cannot accept,
// such as add on a field whose current value is not a sequence.
type ArgumentError struct {
	Op      string
	Message string
}

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	return fmt.Sprintf("dynabuild: %s: %s", e.Op, e.Message)
}

// Code returns the error code for the argument error.
func (e *ArgumentError) Code() ErrorCode {
	return ErrCodeMember
}

// Fatal returns true: argument errors are programmer errors.
func (e *ArgumentError) Fatal() bool {
	return true
}

var _ BuilderError = (*ArgumentError)(nil)

// CloneError reports a value graph that DeepClone cannot duplicate, such as a
// reachable function value. Path locates the offending value within the graph.
type CloneError struct {
	Path    string
	Message string
}

// Error implements the error interface.
func (e *CloneError) Error() string {
	return fmt.Sprintf("dynabuild: %s at %s", e.Message, e.Path)
}

// Code returns the error code for the clone error.
func (e *CloneError) Code() ErrorCode {
	return ErrCodeClone
}

// Fatal returns true: handing a function to the clone boundary is a programmer error.
func (e *CloneError) Fatal() bool {
	return true
}

var _ BuilderError = (*CloneError)(nil)

// ShapeError reports a malformed shape description, typically from the YAML loader.
type ShapeError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	if e.Field == "" {
		return "dynabuild: invalid shape: " + e.Message
	}
	return fmt.Sprintf("dynabuild: invalid shape: field %q: %s", e.Field, e.Message)
}

// Code returns the error code for the shape error.
func (e *ShapeError) Code() ErrorCode {
	return ErrCodeShape
}

// Fatal returns true.
func (e *ShapeError) Fatal() bool {
	return true
}

var _ BuilderError = (*ShapeError)(nil)

// AsValidationFailed extracts a ValidationFailedError from the error chain.
// Returns the error and true if found, nil and false otherwise.
//
// Example:
//
//	if failure, ok := dynabuild.AsValidationFailed(err); ok {
//	    for _, e := range failure.Errors {
//	        log.Println(e)
//	    }
//	}
func AsValidationFailed(err error) (*ValidationFailedError, bool) {
	var vErr *ValidationFailedError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}

// AsValidationError extracts a ValidationError from the error chain.
// Returns the error and true if found, nil and false otherwise.
func AsValidationError(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}

// AsMemberError extracts a MemberError from the error chain.
// Returns the error and true if found, nil and false otherwise.
func AsMemberError(err error) (*MemberError, bool) {
	var mErr *MemberError
	if errors.As(err, &mErr) {
		return mErr, true
	}
	return nil, false
}

// AsCloneError extracts a CloneError from the error chain.
// Returns the error and true if found, nil and false otherwise.
func AsCloneError(err error) (*CloneError, bool) {
	var cErr *CloneError
	if errors.As(err, &cErr) {
		return cErr, true
	}
	return nil, false
}
