// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
)

type EventType = string

const (
	SessionStart     = EventType("session.start")
	SessionStop      = EventType("session.stop")
	SessionOverrides = EventType("session.overrides")
	SequenceStart    = EventType("sequence.start")
	SequenceStep     = EventType("sequence.step")
	SequenceStop     = EventType("sequence.stop")
)

/*
Event is one entry of the event log, for example:

	{
		"id": "4b1e0f3c-6f5e-4c55-9d7d-1f0e2f7f4a51",
		"time": "2024-03-16T13:10:42Z",
		"type": "sequence.step",
		"record": { "index": 2, "frame": 14, "total": 5 }
	}
*/
type Event struct {
	ID     string                 `json:"id"`
	Time   string                 `json:"time"`
	Type   EventType              `json:"type"`
	Record map[string]interface{} `json:"record"`
}

// EventLog ...
type EventLog struct {
	Events []Event `json:"events"`
}

// StandaloneEventsAPI keeps every event in memory and hands it to listeners.
type StandaloneEventsAPI struct {
	lock      sync.Mutex
	clock     clockwork.Clock
	eventLog  EventLog
	listeners []func(Event)
}

func NewStandaloneEventsAPI(clock clockwork.Clock) *StandaloneEventsAPI {
	return &StandaloneEventsAPI{clock: clock}
}

// AddListener registers a callback invoked for every event after it was
// logged. Listeners must not block.
func (s *StandaloneEventsAPI) AddListener(listener func(Event)) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.listeners = append(s.listeners, listener)
}

// EventLog returns a copy of the logged events.
func (s *StandaloneEventsAPI) EventLog() EventLog {
	s.lock.Lock()
	defer s.lock.Unlock()
	return EventLog{Events: append([]Event(nil), s.eventLog.Events...)}
}

// Reset empties the event log.
func (s *StandaloneEventsAPI) Reset() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.eventLog.Events = nil
}

func (s *StandaloneEventsAPI) SendSessionStarted(data SessionStartedData) error {
	return s.sendEvent(SessionStart, map[string]interface{}{
		"sessionId": data.SessionID,
		"camera":    data.Camera,
		"width":     data.Width,
		"height":    data.Height,
	})
}

func (s *StandaloneEventsAPI) SendSessionStopped(data SessionStoppedData) error {
	return s.sendEvent(SessionStop, map[string]interface{}{"sessionId": data.SessionID})
}

func (s *StandaloneEventsAPI) SendOverridesApplied(data OverridesAppliedData) error {
	return s.sendEvent(SessionOverrides, map[string]interface{}{
		"sessionId": data.SessionID,
		"groups":    data.Groups,
	})
}

func (s *StandaloneEventsAPI) SendSequenceStarted(data SequenceStartedData) error {
	return s.sendEvent(SequenceStart, map[string]interface{}{
		"frames": data.Frames,
		"total":  len(data.Frames),
	})
}

func (s *StandaloneEventsAPI) SendSequenceStepped(data SequenceSteppedData) error {
	return s.sendEvent(SequenceStep, map[string]interface{}{
		"index": data.Index,
		"frame": data.Frame,
		"total": data.Total,
	})
}

func (s *StandaloneEventsAPI) SendSequenceStopped(data SequenceStoppedData) error {
	return s.sendEvent(SequenceStop, map[string]interface{}{
		"cancelled": data.Cancelled,
		"stepped":   data.Stepped,
		"total":     data.Total,
	})
}

func (s *StandaloneEventsAPI) sendEvent(eventType EventType, record map[string]interface{}) error {
	e := Event{
		ID:     uuid.New().String(),
		Time:   s.clock.Now().UTC().Format(time.RFC3339),
		Type:   eventType,
		Record: record,
	}

	s.lock.Lock()
	s.eventLog.Events = append(s.eventLog.Events, e)
	listeners := append(([]func(Event))(nil), s.listeners...)
	s.lock.Unlock()

	log.WithField("event", e).Info("ipr event")
	for _, listener := range listeners {
		listener(e)
	}
	return nil
}
