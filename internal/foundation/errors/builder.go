package errors

// ErrorBuilder provides a fluent API for creating ClassifiedError instances.
type ErrorBuilder struct {
	category ErrorCategory
	severity ErrorSeverity
	retry    RetryStrategy
	message  string
	cause    error
	context  ErrorContext
}

// NewError creates a new ErrorBuilder with the specified category and message.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{
		category: category,
		severity: SeverityError,
		retry:    RetryNever,
		message:  message,
		context:  make(ErrorContext),
	}
}

// WrapError creates a new ErrorBuilder that wraps an existing error.
func WrapError(err error, category ErrorCategory, message string) *ErrorBuilder {
	b := NewError(category, message)
	b.cause = err
	return b
}

// WithSeverity sets the error severity.
func (b *ErrorBuilder) WithSeverity(severity ErrorSeverity) *ErrorBuilder {
	b.severity = severity
	return b
}

// WithRetry sets the retry strategy.
func (b *ErrorBuilder) WithRetry(strategy RetryStrategy) *ErrorBuilder {
	b.retry = strategy
	return b
}

// WithCause sets the wrapped error.
func (b *ErrorBuilder) WithCause(err error) *ErrorBuilder {
	b.cause = err
	return b
}

// WithContext adds a context key-value pair.
func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.context = b.context.Set(key, value)
	return b
}

// WithCategory overrides the category chosen at construction.
func (b *ErrorBuilder) WithCategory(category ErrorCategory) *ErrorBuilder {
	b.category = category
	return b
}

func (b *ErrorBuilder) Fatal() *ErrorBuilder   { return b.WithSeverity(SeverityFatal) }
func (b *ErrorBuilder) Warning() *ErrorBuilder { return b.WithSeverity(SeverityWarning) }

// Retryable sets the retry strategy to backoff.
func (b *ErrorBuilder) Retryable() *ErrorBuilder {
	return b.WithRetry(RetryBackoff)
}

// UserAction marks the error as requiring the user to change something before retrying.
func (b *ErrorBuilder) UserAction() *ErrorBuilder {
	return b.WithRetry(RetryUserAction)
}

// Build creates the final ClassifiedError.
func (b *ErrorBuilder) Build() *ClassifiedError {
	return &ClassifiedError{
		category: b.category,
		severity: b.severity,
		retry:    b.retry,
		message:  b.message,
		cause:    b.cause,
		context:  b.context,
	}
}

// Convenience constructors for the categories used by the core packages.

// ConfigError creates a configuration error. Configuration errors are reported
// before any resolution work starts.
func ConfigError(message string) *ErrorBuilder {
	return NewError(CategoryConfig, message).Fatal().UserAction()
}

// ValidationError creates a validation error.
func ValidationError(message string) *ErrorBuilder {
	return NewError(CategoryValidation, message).Fatal().UserAction()
}

// PluginError creates a plugin lifecycle error.
func PluginError(message string) *ErrorBuilder {
	return NewError(CategoryPlugin, message).Fatal()
}

// ResolutionError creates a page graph resolution error.
func ResolutionError(message string) *ErrorBuilder {
	return NewError(CategoryResolution, message).UserAction()
}

// HistoryError creates a commit-history lookup error.
func HistoryError(message string) *ErrorBuilder {
	return NewError(CategoryHistory, message)
}

// BuildError creates a build processing error.
func BuildError(message string) *ErrorBuilder {
	return NewError(CategoryBuild, message).Fatal()
}

// FileSystemError creates a filesystem error.
func FileSystemError(message string) *ErrorBuilder {
	return NewError(CategoryFileSystem, message).Retryable()
}

// EventsError creates an event publishing error.
func EventsError(message string) *ErrorBuilder {
	return NewError(CategoryEvents, message).Warning().Retryable()
}

// InternalError creates an internal error.
func InternalError(message string) *ErrorBuilder {
	return NewError(CategoryInternal, message).Fatal()
}
