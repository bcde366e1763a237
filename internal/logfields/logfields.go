package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyRoot       = "root"
	KeyPlugin     = "plugin"
	KeyModule     = "module"
	KeyDocID      = "doc_id"
	KeyCount      = "count"
	KeyURL        = "url"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr { return slog.String(KeyPath, p) }
func Root(label string) slog.Attr { return slog.String(KeyRoot, label) }
func Plugin(name string) slog.Attr { return slog.String(KeyPlugin, name) }
func Module(path string) slog.Attr { return slog.String(KeyModule, path) }
func DocID(id string) slog.Attr { return slog.String(KeyDocID, id) }
func Count(n int) slog.Attr { return slog.Int(KeyCount, n) }
func URL(u string) slog.Attr { return slog.String(KeyURL, u) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
