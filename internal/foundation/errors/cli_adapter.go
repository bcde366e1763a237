package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
)

// CLIErrorAdapter handles error presentation and exit code determination for the CLI.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
	exit    func(int)
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
		out:     os.Stderr,
		exit:    os.Exit,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	classified, ok := AsClassified(err)
	if !ok {
		return 1
	}
	switch classified.Category() {
	case CategoryValidation:
		return 2
	case CategoryConfig:
		return 7
	case CategoryPlugin:
		return 9
	case CategoryResolution, CategoryHistory, CategoryBuild, CategoryFileSystem:
		return 11
	case CategoryRuntime:
		return 12
	case CategoryInternal:
		return 10
	default:
		return 1
	}
}

// FormatError formats an error for user-friendly display. Non-verbose output
// names the offending path or plugin so a broken link can be found without -v.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	classified, ok := AsClassified(err)
	if !ok {
		return fmt.Sprintf("Error: %v", err)
	}
	if a.verbose {
		return "Error: " + classified.Error()
	}

	var b strings.Builder
	b.WriteString("Error: ")
	b.WriteString(classified.Message())
	keys := make([]string, 0, len(classified.Context()))
	for k := range classified.Context() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, classified.Context()[k])
	}
	return b.String()
}

// HandleError reports err and exits with the matching code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}
	a.logError(err)
	_, _ = fmt.Fprintln(a.out, a.FormatError(err))
	a.exit(a.ExitCodeFor(err))
}

func (a *CLIErrorAdapter) logError(err error) {
	classified, ok := AsClassified(err)
	if !ok {
		a.logger.Error("Unclassified error", "error", err)
		return
	}
	if !a.verbose && !classified.IsFatal() {
		return
	}
	attrs := []slog.Attr{slog.String("category", string(classified.Category()))}
	for k, v := range classified.Context() {
		attrs = append(attrs, slog.Any(k, v))
	}
	if classified.Cause() != nil {
		attrs = append(attrs, slog.String("cause", classified.Cause().Error()))
	}
	a.logger.LogAttrs(context.Background(), levelFor(classified.Severity()), classified.Message(), attrs...)
}

func levelFor(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
