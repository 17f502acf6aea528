package logger

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// New creates a structured slog.Logger for the given level string.
// Console output is text for readability; everything is also written as
// JSON to logs/engine.log, with errors duplicated to logs/error.log.
func New(level string) (*slog.Logger, error) {
	handlerLevel, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll("logs", 0755); err != nil {
		return nil, err
	}

	mainFile, err := os.OpenFile(filepath.Join("logs", "engine.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, err
	}

	errorFile, err := os.OpenFile(filepath.Join("logs", "error.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, err
	}

	handler := &fanoutHandler{
		all: []slog.Handler{
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: handlerLevel}),
			slog.NewJSONHandler(mainFile, &slog.HandlerOptions{Level: handlerLevel}),
		},
		errorsOnly: slog.NewJSONHandler(errorFile, &slog.HandlerOptions{Level: slog.LevelError}),
		level:      handlerLevel,
	}

	return slog.New(handler), nil
}

// fanoutHandler writes every record to the main handlers and duplicates
// error records to a dedicated handler.
type fanoutHandler struct {
	all        []slog.Handler
	errorsOnly slog.Handler
	level      slog.Leveler
}

func (h *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, handler := range h.all {
		if err := handler.Handle(ctx, r); err != nil {
			return err
		}
	}

	if r.Level >= slog.LevelError {
		return h.errorsOnly.Handle(ctx, r)
	}

	return nil
}

func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	all := make([]slog.Handler, len(h.all))
	for i, handler := range h.all {
		all[i] = handler.WithAttrs(attrs)
	}
	return &fanoutHandler{
		all:        all,
		errorsOnly: h.errorsOnly.WithAttrs(attrs),
		level:      h.level,
	}
}

func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	all := make([]slog.Handler, len(h.all))
	for i, handler := range h.all {
		all[i] = handler.WithGroup(name)
	}
	return &fanoutHandler{
		all:        all,
		errorsOnly: h.errorsOnly.WithGroup(name),
		level:      h.level,
	}
}

func parseLevel(level string) (slog.Leveler, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return nil, errors.New("invalid log level")
	}
}
