package logger

import (
	"log/slog"
	"time"
)

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

func Database(name string) slog.Attr {
	return slog.String("database", name)
}

func Collection(name string) slog.Attr {
	return slog.String("collection", name)
}

// RunID records the identifier of one probe run under the key "run_id".
func RunID(id string) slog.Attr {
	return slog.String("run_id", id)
}

func Count(n int64) slog.Attr {
	return slog.Int64("count", n)
}

// Duration records the elapsed time in milliseconds under "duration_ms".
func Duration(d time.Duration) slog.Attr {
	return slog.Int64("duration_ms", d.Milliseconds())
}
