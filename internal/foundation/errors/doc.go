// Package errors provides the classified error primitives used across ignite.
//
// Every failure that crosses a package boundary is a ClassifiedError carrying a
// category (config, plugin, resolution, history, ...), a severity, a retry hint,
// and structured context such as the offending path or plugin name.
//
// Example usage:
//
//	err := errors.WrapError(readErr, errors.CategoryResolution, "document cannot be read").
//		WithContext("path", docPath).
//		WithContext("referenced_from", parent).
//		Build()
package errors
