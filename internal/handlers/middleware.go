// Copyright The WellnessHQ Authors.
// SPDX-License-Identifier: MIT

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/wellnesshq/meeting-pool-service/internal/logging"
)

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if w.statusCode == 0 {
		w.statusCode = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

// RequestLogger logs HTTP requests and tags each with a request ID.
// Health check endpoints are excluded to reduce noise.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now().UTC()
		isHealthCheck := r.URL.Path == "/livez" || r.URL.Path == "/readyz"

		ctx := r.Context()
		ctx = logging.AppendCtx(ctx, slog.String("request_id", uuid.NewString()))
		ctx = logging.AppendCtx(ctx, slog.String("method", r.Method))
		ctx = logging.AppendCtx(ctx, slog.String("path", r.URL.Path))
		ctx = logging.AppendCtx(ctx, slog.String("remote_addr", r.RemoteAddr))
		r = r.WithContext(ctx)

		ww := &responseWriter{ResponseWriter: w}

		if !isHealthCheck {
			slog.InfoContext(ctx, "HTTP request")
		}

		next.ServeHTTP(ww, r)

		if !isHealthCheck {
			slog.InfoContext(ctx, "HTTP response",
				"status", ww.statusCode,
				"duration", time.Since(start).String(),
			)
		}
	})
}
