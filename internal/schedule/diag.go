package schedule

import "log/slog"

// Diag receives structured diagnostic events from the import pipelines: a
// level, a message and a free-form context dictionary. The transport behind
// it is out of scope here.
type Diag interface {
	Info(msg string, ctx map[string]any)
	Warn(msg string, ctx map[string]any)
	Error(msg string, ctx map[string]any)
}

// SlogDiag adapts a *slog.Logger to the Diag interface. A nil logger is a
// valid no-op sink, and a panicking handler is swallowed so a broken sink
// can never mask the import outcome it is reporting on.
type SlogDiag struct {
	Logger *slog.Logger
}

func (d SlogDiag) Info(msg string, ctx map[string]any)  { d.log(slog.LevelInfo, msg, ctx) }
func (d SlogDiag) Warn(msg string, ctx map[string]any)  { d.log(slog.LevelWarn, msg, ctx) }
func (d SlogDiag) Error(msg string, ctx map[string]any) { d.log(slog.LevelError, msg, ctx) }

func (d SlogDiag) log(level slog.Level, msg string, ctx map[string]any) {
	if d.Logger == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	args := make([]any, 0, len(ctx)*2)
	for k, v := range ctx {
		args = append(args, k, v)
	}
	switch level {
	case slog.LevelWarn:
		d.Logger.Warn(msg, args...)
	case slog.LevelError:
		d.Logger.Error(msg, args...)
	default:
		d.Logger.Info(msg, args...)
	}
}

// diagOrNop lets pipeline code log unconditionally.
func diagOrNop(d Diag) Diag {
	if d == nil {
		return SlogDiag{}
	}
	return d
}
