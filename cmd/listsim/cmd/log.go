package cmd

import (
	"io"
	"log/slog"

	"github.com/go-drift/datacontroller/pkg/errors"
)

// newLogger builds the CLI logger and routes controller errors through it.
func newLogger(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	logger := slog.New(handler).With(slog.String("component", "listsim"))
	errors.SetHandler(&errors.LogHandler{Logger: logger, Verbose: level <= slog.LevelDebug})
	return logger
}
