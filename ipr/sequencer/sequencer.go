// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package sequencer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"go.aton.dev/ipr/core"
	"go.aton.dev/ipr/core/statejson"
	"go.aton.dev/ipr/interop"
	"go.aton.dev/ipr/session"
	"go.aton.dev/ipr/telemetry"
)

// Session is the part of the session controller the sequencer drives. Every
// call after SessionID is scoped to the session the run started under, so a
// run that outlives its session never touches a newer one.
type Session interface {
	SessionID() string
	AttachSequence(sessionID string, sequence session.SequenceStopper) error
	DetachSequence(sequence session.SequenceStopper)
	PushSequenceFrame(sessionID string, frame float64) error
	StopSession(sessionID string) bool
}

// Sequencer renders an ordered list of frames unattended. For each frame it
// moves the session to the frame, waits for the engine to start rendering
// and then waits for it to finish. The session is stopped when the run ends.
type Sequencer struct {
	mutex sync.Mutex

	ctrl      Session
	monitor   interop.RenderMonitor
	eventsAPI telemetry.EventsAPI
	poller    core.Poller

	startTimeout  time.Duration
	finishTimeout time.Duration

	lifecycle *core.Lifecycle
	canceled  int32

	frames  []int
	current int
	stepped int
	done    chan struct{}
}

// New returns an idle sequencer. Waits never time out until SetTimeouts.
func New(ctrl Session, monitor interop.RenderMonitor, poller core.Poller) *Sequencer {
	done := make(chan struct{})
	close(done)
	return &Sequencer{
		ctrl:      ctrl,
		monitor:   monitor,
		eventsAPI: &telemetry.NoOpEventsAPI{},
		poller:    poller,
		lifecycle: core.NewLifecycle(poller.Clock),
		done:      done,
	}
}

func (s *Sequencer) SetEventsAPI(eventsAPI telemetry.EventsAPI) *Sequencer {
	s.eventsAPI = eventsAPI
	return s
}

// SetTimeouts bounds the two waits of every frame. Zero waits forever.
func (s *Sequencer) SetTimeouts(start, finish time.Duration) *Sequencer {
	s.startTimeout = start
	s.finishTimeout = finish
	return s
}

// Start begins rendering frames in order on the running session. frames is
// copied. Progressive rendering stays off until the session stops.
func (s *Sequencer) Start(frames []int) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	sessionID := s.ctrl.SessionID()
	if sessionID == "" {
		return interop.ErrSessionNotRunning
	}
	if s.lifecycle.Running() {
		return interop.ErrSequenceRunning
	}
	if len(frames) == 0 {
		return interop.ErrNoFrames
	}

	atomic.StoreInt32(&s.canceled, 0)
	if err := s.ctrl.AttachSequence(sessionID, s); err != nil {
		return err
	}

	s.frames = append([]int(nil), frames...)
	s.current = 0
	s.stepped = 0
	s.done = make(chan struct{})
	if err := s.lifecycle.Start(); err != nil {
		log.WithError(err).Panic("Sequence state transition failed")
	}

	log.Infof("Sequence of %d frames started", len(s.frames))
	if err := s.eventsAPI.SendSequenceStarted(telemetry.SequenceStartedData{Frames: append([]int(nil), s.frames...)}); err != nil {
		log.WithError(err).Warn("Failed to send sequence started event")
	}

	go s.run(sessionID, s.frames, s.done)
	return nil
}

// Stop cancels the running sequence. The run observes it at its next poll
// boundary. Safe to call while idle.
func (s *Sequencer) Stop() {
	atomic.StoreInt32(&s.canceled, 1)
}

func (s *Sequencer) isCanceled() bool {
	return atomic.LoadInt32(&s.canceled) == 1
}

// Running reports whether a sequence is in progress.
func (s *Sequencer) Running() bool {
	return s.lifecycle.Running()
}

// Done returns a channel closed when the current or last run finished.
func (s *Sequencer) Done() <-chan struct{} {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.done
}

// Wait blocks until the current run finished.
func (s *Sequencer) Wait(ctx context.Context) error {
	select {
	case <-s.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Description returns the sequence progress for the control API.
func (s *Sequencer) Description() statejson.SequenceDescription {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	desc := statejson.SequenceDescription{
		State:   s.lifecycle.GetDescription(),
		Total:   len(s.frames),
		Stepped: s.stepped,
	}
	if s.current < len(s.frames) {
		desc.Frame = s.frames[s.current]
	}
	return desc
}

func (s *Sequencer) run(sessionID string, frames []int, done chan struct{}) {
	defer close(done)

	total := len(frames)
	cancelled := false
	stepped := 0

	for i, frame := range frames {
		if s.isCanceled() {
			cancelled = true
			break
		}
		s.mutex.Lock()
		s.current = i
		s.mutex.Unlock()

		if err := s.ctrl.PushSequenceFrame(sessionID, float64(frame)); err != nil {
			if errors.Is(err, interop.ErrSessionNotRunning) {
				log.Debugf("Session %s ended before frame %d", sessionID, frame)
			} else {
				log.WithError(err).Warnf("Failed to move to frame %d, stopping sequence", frame)
			}
			cancelled = true
			break
		}
		if !s.wait("start", frame, s.monitor.Rendering, s.startTimeout) {
			cancelled = true
			break
		}
		if !s.wait("finish", frame, func() bool { return !s.monitor.Rendering() }, s.finishTimeout) {
			cancelled = true
			break
		}

		stepped++
		s.mutex.Lock()
		s.stepped = stepped
		s.mutex.Unlock()

		if err := s.eventsAPI.SendSequenceStepped(telemetry.SequenceSteppedData{Index: i, Frame: frame, Total: total}); err != nil {
			log.WithError(err).Warn("Failed to send sequence stepped event")
		}
	}

	s.finish(sessionID, cancelled, stepped, total)
}

// wait returns false when the run was cancelled. Timeouts are logged and the
// run carries on with the next phase.
func (s *Sequencer) wait(phase string, frame int, cond func() bool, timeout time.Duration) bool {
	err := s.poller.Wait(context.Background(), cond, s.isCanceled, timeout)
	switch err {
	case nil:
		return true
	case core.ErrWaitTimeout:
		log.Warnf("Frame %d did not %s rendering within %s", frame, phase, timeout)
		return true
	}
	log.Debugf("Sequence cancelled while waiting for frame %d to %s", frame, phase)
	return false
}

// finish stops the session the run started under. A session that was
// stopped or restarted meanwhile already restored its driver settings and is
// not touched.
func (s *Sequencer) finish(sessionID string, cancelled bool, stepped, total int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.ctrl.DetachSequence(s)
	if !s.ctrl.StopSession(sessionID) {
		log.Debugf("Session %s already stopped", sessionID)
	}

	if err := s.lifecycle.Stop(); err != nil {
		log.WithError(err).Panic("Sequence state transition failed")
	}

	log.Infof("Sequence finished: %d of %d frames, cancelled=%t", stepped, total, cancelled)
	if err := s.eventsAPI.SendSequenceStopped(telemetry.SequenceStoppedData{
		Cancelled: cancelled,
		Stepped:   stepped,
		Total:     total,
	}); err != nil {
		log.WithError(err).Warn("Failed to send sequence stopped event")
	}
}
