// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"go.aton.dev/ipr/telemetry"
)

// Session Metrics
var (
	// SessionsStartedTotal counts sessions that reached Running
	SessionsStartedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aton_ipr_sessions_started_total",
			Help: "Total IPR sessions started",
		},
	)

	// SessionActive is 1 while a session is running
	SessionActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "aton_ipr_session_active",
			Help: "Whether an IPR session is currently running",
		},
	)

	// OverrideGroupsAppliedTotal counts override group updates by group
	OverrideGroupsAppliedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aton_ipr_override_groups_applied_total",
			Help: "Total override group updates applied to a running session",
		},
		[]string{"group"},
	)
)

// Sequence Metrics
var (
	// SequenceFramesTotal counts frames that finished rendering in a sequence
	SequenceFramesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aton_ipr_sequence_frames_total",
			Help: "Total frames rendered by frame sequences",
		},
	)

	// SequencesTotal counts finished sequences by outcome (completed/cancelled)
	SequencesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aton_ipr_sequences_total",
			Help: "Total frame sequences by outcome",
		},
		[]string{"outcome"},
	)
)

// HTTP Metrics
var (
	// HTTPRequestsTotal counts control API requests by method, route and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aton_ipr_http_requests_total",
			Help: "Total control API requests",
		},
		[]string{"method", "route", "status_code"},
	)

	// StreamClientsCurrent tracks connected event stream clients
	StreamClientsCurrent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "aton_ipr_stream_clients_current",
			Help: "Current event stream websocket clients",
		},
	)
)

// typecheck interface compliance
var _ telemetry.EventsAPI = (*Recorder)(nil)

// Recorder updates the session and sequence metrics from events.
type Recorder struct{}

func (r *Recorder) SendSessionStarted(telemetry.SessionStartedData) error {
	SessionsStartedTotal.Inc()
	SessionActive.Set(1)
	return nil
}

func (r *Recorder) SendSessionStopped(telemetry.SessionStoppedData) error {
	SessionActive.Set(0)
	return nil
}

func (r *Recorder) SendOverridesApplied(data telemetry.OverridesAppliedData) error {
	for _, group := range data.Groups {
		OverrideGroupsAppliedTotal.WithLabelValues(group).Inc()
	}
	return nil
}

func (r *Recorder) SendSequenceStarted(telemetry.SequenceStartedData) error {
	return nil
}

func (r *Recorder) SendSequenceStepped(telemetry.SequenceSteppedData) error {
	SequenceFramesTotal.Inc()
	return nil
}

func (r *Recorder) SendSequenceStopped(data telemetry.SequenceStoppedData) error {
	outcome := "completed"
	if data.Cancelled {
		outcome = "cancelled"
	}
	SequencesTotal.WithLabelValues(outcome).Inc()
	return nil
}
