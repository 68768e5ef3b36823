// Copyright The WellnessHQ Authors.
// SPDX-License-Identifier: MIT

package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/wellnesshq/meeting-pool-service/internal/handlers"
)

// setupHTTPServer builds the router and configures the HTTP server using
// the provided command line parameters.
func setupHTTPServer(flags flags, handler *handlers.MeetingsHandler) *http.Server {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(handlers.RequestLogger)
	handler.Routes(r)

	var addr string
	if flags.Bind == "*" {
		addr = ":" + flags.Port
	} else {
		addr = flags.Bind + ":" + flags.Port
	}

	return &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
