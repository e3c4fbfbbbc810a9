package ptsim

// Logger receives the MMU's process lifecycle events: creation and
// termination at Info, pages left behind by a failed create at Warn, and
// rollback or free failures at Error. The method set is that of
// *slog.Logger; package logger adapts zap and logrus to it.
type Logger interface {
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
	Info(msg string, args ...any)
}

// DiscardLogger drops every event. It is the MMU's default.
type DiscardLogger struct{}

func (DiscardLogger) Error(string, ...any) {}

func (DiscardLogger) Warn(string, ...any) {}

func (DiscardLogger) Info(string, ...any) {}
