package logger

import "log/slog"

// NewNope returns a logger that drops every record.
// Library types use it when no logger is supplied.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
