package dynabuild

// Result is the two-case outcome of Build: success carrying the finished
// object, or failure carrying a *ValidationFailedError. This pattern forces
// callers to handle validation by requiring explicit unwrapping.
type Result struct {
	value   any
	failure *ValidationFailedError
}

// NewSuccess creates a successful Result carrying the finished object.
func NewSuccess(value any) Result {
	return Result{value: value}
}

// NewFailure creates a failed Result carrying the attempted object and the
// validator's errors.
func NewFailure(attempted any, errs []error) Result {
	return Result{
		value:   attempted,
		failure: &ValidationFailedError{Attempted: attempted, Errors: errs},
	}
}

// Unwrap returns the finished object and any validation error, forcing error
// handling. This is the recommended way to use Result.
//
// Example:
//
//	obj, err := builder.Build().Unwrap()
//	if err != nil {
//	    log.Printf("build failed: %v", err)
//	    return
//	}
func (r Result) Unwrap() (any, error) {
	return r.value, r.Err()
}

// Must returns the finished object or panics on a failed build.
// Use only in tests or when validation is guaranteed.
func (r Result) Must() any {
	if r.failure != nil {
		panic(r.failure)
	}
	return r.value
}

// Ok returns true if the build succeeded.
func (r Result) Ok() bool {
	return r.failure == nil
}

// Err returns the validation failure as an error, or nil on success.
func (r Result) Err() error {
	if r.failure == nil {
		return nil
	}
	return r.failure
}

// Failure returns the structured validation failure, or nil on success.
// The failure exposes the attempted object and the ordered error list for
// programmatic handling.
func (r Result) Failure() *ValidationFailedError {
	return r.failure
}

// Value returns the payload without checking the case: the finished object on
// success, the attempted object on failure. Prefer Unwrap for safe access.
func (r Result) Value() any {
	return r.value
}
