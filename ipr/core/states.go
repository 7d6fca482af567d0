// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"go.aton.dev/ipr/core/statejson"
)

// ErrNotAllowed returned on illegal state transition
var ErrNotAllowed = errors.New("State transition is not allowed")

// LifecycleState is the state machine interface shared by render sessions and
// frame sequences. Pause/resume of the engine is not a state.
type LifecycleState interface {
	Start() error
	Stop() error
	Name() string
}

type disallowEveryTransitionByDefault struct{}

func (s *disallowEveryTransitionByDefault) Start() error { return ErrNotAllowed }
func (s *disallowEveryTransitionByDefault) Stop() error  { return ErrNotAllowed }

// Lifecycle is an Idle/Running state machine.
type Lifecycle struct {
	mutex sync.Mutex
	clock clockwork.Clock

	currentState      LifecycleState
	stateLastModified time.Time

	IdleState    LifecycleState
	RunningState LifecycleState
}

// NewLifecycle returns a state machine in the Idle state.
func NewLifecycle(clock clockwork.Clock) *Lifecycle {
	l := &Lifecycle{clock: clock}
	l.IdleState = &IdleState{lifecycle: l}
	l.RunningState = &RunningState{lifecycle: l}
	l.setStateUnsafe(l.IdleState)
	return l
}

func (l *Lifecycle) setStateUnsafe(state LifecycleState) {
	l.currentState = state
	l.stateLastModified = l.clock.Now()
}

// SetState ...
func (l *Lifecycle) SetState(state LifecycleState) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.setStateUnsafe(state)
}

// GetState ...
func (l *Lifecycle) GetState() LifecycleState {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.currentState
}

// Running reports whether the current state is Running.
func (l *Lifecycle) Running() bool {
	return l.GetState() == l.RunningState
}

// Start delegates to state implementation.
func (l *Lifecycle) Start() error {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.currentState.Start()
}

// Stop delegates to state implementation.
func (l *Lifecycle) Stop() error {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.currentState.Stop()
}

// GetDescription returns the state description for debugging purposes
func (l *Lifecycle) GetDescription() statejson.StateDescription {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return statejson.StateDescription{
		Name:         l.currentState.Name(),
		LastModified: l.stateLastModified.UnixNano() / int64(time.Millisecond),
	}
}

// IdleState nothing is running.
type IdleState struct {
	disallowEveryTransitionByDefault
	lifecycle *Lifecycle
}

// Start moves to Running.
func (s *IdleState) Start() error {
	s.lifecycle.setStateUnsafe(s.lifecycle.RunningState)
	return nil
}

// Name ...
func (s *IdleState) Name() string {
	return IdleStateName
}

// RunningState a session or sequence is active.
type RunningState struct {
	disallowEveryTransitionByDefault
	lifecycle *Lifecycle
}

// Stop moves back to Idle.
func (s *RunningState) Stop() error {
	s.lifecycle.setStateUnsafe(s.lifecycle.IdleState)
	return nil
}

// Name ...
func (s *RunningState) Name() string {
	return RunningStateName
}
