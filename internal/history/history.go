// Package history answers commit-history questions about source documents.
package history

import (
	"context"
	"errors"
	"time"
)

// ErrNoHistory is returned when no commit touches the requested path.
var ErrNoHistory = errors.New("no commit touches path")

// Oracle reports when a document first entered version control.
type Oracle interface {
	// EarliestCommit returns the author time of the oldest commit that touches path.
	EarliestCommit(ctx context.Context, path string) (time.Time, error)
}

// OracleFunc adapts a function to the Oracle interface.
type OracleFunc func(ctx context.Context, path string) (time.Time, error)

func (f OracleFunc) EarliestCommit(ctx context.Context, path string) (time.Time, error) {
	return f(ctx, path)
}
