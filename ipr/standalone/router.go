// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package standalone

import (
	"context"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go.aton.dev/ipr/core/statejson"
	"go.aton.dev/ipr/interop"
	"go.aton.dev/ipr/overrides"
	"go.aton.dev/ipr/telemetry"
)

// SessionServer is the session control surface exposed over HTTP.
type SessionServer interface {
	Start(o overrides.OverrideSet) error
	Restart(o overrides.OverrideSet) error
	Stop() error
	ApplyOverrides(o overrides.OverrideSet, group overrides.Group) error
	Running() bool
	Current() overrides.OverrideSet
	Description() statejson.SessionDescription
}

// SequenceServer is the frame sequence control surface exposed over HTTP.
type SequenceServer interface {
	Start(frames []int) error
	Stop()
	Wait(ctx context.Context) error
	Running() bool
	Description() statejson.SequenceDescription
}

func NewHTTPRouter(s SessionServer, seq SequenceServer, scene interop.Scene, eventsAPI *telemetry.StandaloneEventsAPI, hub *Hub) *chi.Mux {
	r := chi.NewRouter()
	r.Use(standaloneAccessLogDecorator)

	r.Get("/test/ping", func(w http.ResponseWriter, r *http.Request) { PingHandler(w, r) })
	r.Get("/session", func(w http.ResponseWriter, r *http.Request) { SessionStateHandler(w, r, s, seq) })
	r.Post("/session/start", func(w http.ResponseWriter, r *http.Request) { StartHandler(w, r, s, seq, scene) })
	r.Post("/session/restart", func(w http.ResponseWriter, r *http.Request) { RestartHandler(w, r, s, seq, scene) })
	r.Post("/session/stop", func(w http.ResponseWriter, r *http.Request) { StopHandler(w, r, s, seq) })
	r.Post("/session/overrides/{group}", func(w http.ResponseWriter, r *http.Request) { OverridesHandler(w, r, s, seq, scene) })
	r.Post("/sequence/start", func(w http.ResponseWriter, r *http.Request) { SequenceStartHandler(w, r, s, seq) })
	r.Post("/sequence/stop", func(w http.ResponseWriter, r *http.Request) { SequenceStopHandler(w, r, seq) })
	r.Get("/scene", func(w http.ResponseWriter, r *http.Request) { SceneHandler(w, r, scene) })
	r.Post("/region/nuke", func(w http.ResponseWriter, r *http.Request) { NukeRegionHandler(w, r) })
	r.Get("/events", func(w http.ResponseWriter, r *http.Request) { EventLogHandler(w, r, eventsAPI) })
	r.Get("/events/stream", hub.ServeHTTP)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return r
}
