package errors

import (
	stderrors "errors"
	"fmt"
	"maps"
)

// ClassifiedError represents a structured error with category, severity, and context.
type ClassifiedError struct {
	category ErrorCategory
	severity ErrorSeverity
	retry    RetryStrategy
	message  string
	cause    error
	context  ErrorContext
}

// Error implements the standard error interface.
func (e *ClassifiedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.category, e.message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.category, e.message)
}

// Unwrap exposes the cause to errors.Is / errors.As.
func (e *ClassifiedError) Unwrap() error {
	return e.cause
}

func (e *ClassifiedError) Category() ErrorCategory { return e.category }
func (e *ClassifiedError) Severity() ErrorSeverity { return e.severity }
func (e *ClassifiedError) RetryStrategy() RetryStrategy { return e.retry }
func (e *ClassifiedError) Message() string { return e.message }
func (e *ClassifiedError) Cause() error { return e.cause }
func (e *ClassifiedError) Context() ErrorContext { return e.context }

// WithContext returns a copy of the error with key set in its context.
func (e *ClassifiedError) WithContext(key string, value any) *ClassifiedError {
	ctx := make(ErrorContext, len(e.context)+1)
	maps.Copy(ctx, e.context)
	ctx[key] = value
	clone := *e
	clone.context = ctx
	return &clone
}

// Is reports equality on category and message so sentinel ClassifiedErrors work with errors.Is.
func (e *ClassifiedError) Is(target error) bool {
	if other, ok := target.(*ClassifiedError); ok {
		return e.category == other.category && e.message == other.message
	}
	return false
}

// IsCategory checks if the error belongs to a specific category.
func (e *ClassifiedError) IsCategory(category ErrorCategory) bool {
	return e.category == category
}

// CanRetry checks if the error allows retry operations.
func (e *ClassifiedError) CanRetry() bool {
	return e.retry != RetryNever && e.retry != RetryUserAction
}

// IsFatal checks if the error is fatal (should stop execution).
func (e *ClassifiedError) IsFatal() bool {
	return e.severity == SeverityFatal
}

// AsClassified returns the outermost ClassifiedError in err's chain.
func AsClassified(err error) (*ClassifiedError, bool) {
	var classified *ClassifiedError
	if stderrors.As(err, &classified) {
		return classified, true
	}
	return nil, false
}

// IsClassified checks if err's chain contains a ClassifiedError.
func IsClassified(err error) bool {
	_, ok := AsClassified(err)
	return ok
}

// HasCategory checks whether the outermost classified error in the chain has category.
func HasCategory(err error, category ErrorCategory) bool {
	if classified, ok := AsClassified(err); ok {
		return classified.IsCategory(category)
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal.
func GetCategory(err error) ErrorCategory {
	if classified, ok := AsClassified(err); ok {
		return classified.Category()
	}
	return CategoryInternal
}

// ContextString looks up a string context value on the outermost classified error.
func ContextString(err error, key string) (string, bool) {
	if classified, ok := AsClassified(err); ok {
		return classified.Context().GetString(key)
	}
	return "", false
}
