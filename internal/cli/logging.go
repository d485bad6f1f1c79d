package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// setupLogging installs the default slog logger: text to stderr, plus a
// rotating JSON file when log.file is configured.
func (a *app) setupLogging(stderr io.Writer) error {
	level, err := a.cfg.Log.SlogLevel()
	if err != nil {
		return err
	}
	if a.verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewTextHandler(stderr, opts)
	if file := a.cfg.Log.File; file != "" {
		if !filepath.IsAbs(file) {
			file = filepath.Join(a.cfg.Home, file)
		}
		rotator := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    a.cfg.Log.MaxSizeMB,
			MaxBackups: a.cfg.Log.MaxBackups,
		}
		a.logFile = rotator
		handler = fanoutHandler{handler, slog.NewJSONHandler(rotator, opts)}
	}

	a.prevLog = slog.Default()
	slog.SetDefault(slog.New(handler))
	return nil
}

// fanoutHandler sends each record to every handler that accepts its level.
type fanoutHandler []slog.Handler

func (f fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (f fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanoutHandler, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanoutHandler) WithGroup(name string) slog.Handler {
	out := make(fanoutHandler, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
