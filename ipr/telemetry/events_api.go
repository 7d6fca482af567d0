// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package telemetry

// SessionStartedData is sent once a session reaches Running.
type SessionStartedData struct {
	SessionID string
	Camera    string
	Width     int
	Height    int
}

// SessionStoppedData is sent when a running session is torn down.
type SessionStoppedData struct {
	SessionID string
}

// OverridesAppliedData is sent after a group update reached the engine.
type OverridesAppliedData struct {
	SessionID string
	Groups    []string
}

// SequenceStartedData ...
type SequenceStartedData struct {
	Frames []int
}

// SequenceSteppedData is sent after each frame finished rendering.
type SequenceSteppedData struct {
	Index int
	Frame int
	Total int
}

// SequenceStoppedData is sent exactly once per sequence run.
type SequenceStoppedData struct {
	Cancelled bool
	Stepped   int
	Total     int
}

// EventsAPI receives session and sequence progress.
type EventsAPI interface {
	SendSessionStarted(SessionStartedData) error
	SendSessionStopped(SessionStoppedData) error
	SendOverridesApplied(OverridesAppliedData) error
	SendSequenceStarted(SequenceStartedData) error
	SendSequenceStepped(SequenceSteppedData) error
	SendSequenceStopped(SequenceStoppedData) error
}

// NoOpEventsAPI drops every event.
type NoOpEventsAPI struct{}

func (s *NoOpEventsAPI) SendSessionStarted(SessionStartedData) error     { return nil }
func (s *NoOpEventsAPI) SendSessionStopped(SessionStoppedData) error     { return nil }
func (s *NoOpEventsAPI) SendOverridesApplied(OverridesAppliedData) error { return nil }
func (s *NoOpEventsAPI) SendSequenceStarted(SequenceStartedData) error   { return nil }
func (s *NoOpEventsAPI) SendSequenceStepped(SequenceSteppedData) error   { return nil }
func (s *NoOpEventsAPI) SendSequenceStopped(SequenceStoppedData) error   { return nil }

// Fanout forwards every event to each API in order and returns the first
// error after all of them were called.
type Fanout []EventsAPI

func (f Fanout) each(send func(EventsAPI) error) error {
	var first error
	for _, api := range f {
		if err := send(api); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (f Fanout) SendSessionStarted(data SessionStartedData) error {
	return f.each(func(api EventsAPI) error { return api.SendSessionStarted(data) })
}

func (f Fanout) SendSessionStopped(data SessionStoppedData) error {
	return f.each(func(api EventsAPI) error { return api.SendSessionStopped(data) })
}

func (f Fanout) SendOverridesApplied(data OverridesAppliedData) error {
	return f.each(func(api EventsAPI) error { return api.SendOverridesApplied(data) })
}

func (f Fanout) SendSequenceStarted(data SequenceStartedData) error {
	return f.each(func(api EventsAPI) error { return api.SendSequenceStarted(data) })
}

func (f Fanout) SendSequenceStepped(data SequenceSteppedData) error {
	return f.each(func(api EventsAPI) error { return api.SendSequenceStepped(data) })
}

func (f Fanout) SendSequenceStopped(data SequenceStoppedData) error {
	return f.each(func(api EventsAPI) error { return api.SendSequenceStopped(data) })
}
