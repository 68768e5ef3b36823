// Copyright The WellnessHQ Authors.
// SPDX-License-Identifier: MIT

// Package logging contains the structured logging setup for the meeting
// pool service.
package logging

import (
	"context"
	"log"
	"log/slog"
	"os"
)

type ctxKey string

// ErrKey is the log attribute key used for errors across the service.
const ErrKey = "error"

const (
	slogFields      ctxKey = "slog_fields"
	logLevelDefault        = slog.LevelInfo

	// Log field for critical errors, i.e. the ones that should page someone.
	priorityCritical = "critical"
)

type contextHandler struct {
	slog.Handler
}

// Handle adds contextual attributes to the Record before calling the
// underlying handler.
func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(slogFields).([]slog.Attr); ok {
		for _, v := range attrs {
			r.AddAttrs(v)
		}
	}

	return h.Handler.Handle(ctx, r)
}

// AppendCtx adds an slog attribute to the provided context so that it will
// be included in any Record created with such context.
func AppendCtx(parent context.Context, attr slog.Attr) context.Context {
	if parent == nil {
		parent = context.Background()
	}

	if v, ok := parent.Value(slogFields).([]slog.Attr); ok {
		v = append(v, attr)
		return context.WithValue(parent, slogFields, v)
	}

	return context.WithValue(parent, slogFields, []slog.Attr{attr})
}

// InitStructureLogConfig sets the structured log behavior.
func InitStructureLogConfig() slog.Handler {
	logOptions := &slog.HandlerOptions{}

	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		logOptions.Level = slog.LevelDebug
	case "info":
		logOptions.Level = slog.LevelInfo
	case "warn":
		logOptions.Level = slog.LevelWarn
	case "error":
		logOptions.Level = slog.LevelError
	default:
		logOptions.Level = logLevelDefault
	}

	addSource := os.Getenv("LOG_ADD_SOURCE")
	logOptions.AddSource = addSource == "true" || addSource == "t" || addSource == "1"

	h := slog.NewJSONHandler(os.Stdout, logOptions)
	log.SetFlags(log.Llongfile)
	slog.SetDefault(slog.New(contextHandler{h}))

	slog.Info("log config",
		"logLevel", logOptions.Level,
		"addSource", logOptions.AddSource,
	)

	return h
}

// Priority creates a slog.Attr for error priority classification.
func Priority(level string) slog.Attr {
	return slog.String("priority", level)
}

// PriorityCritical creates a slog.Attr for critical errors, used to
// identify log entries that should be escalated to the team.
func PriorityCritical() slog.Attr {
	return Priority(priorityCritical)
}
