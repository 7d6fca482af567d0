// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"errors"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultPollInterval is how often engine state is sampled while waiting.
const DefaultPollInterval = 50 * time.Millisecond

// ErrWaitTimeout returned when the condition did not hold before the deadline
var ErrWaitTimeout = errors.New("WaitTimeout")

// ErrWaitCanceled returned when the wait was canceled
var ErrWaitCanceled = errors.New("WaitCanceled")

// Poller waits for a condition by sampling it on a ticker. Cancellation and
// the deadline are only checked at poll boundaries.
type Poller struct {
	Clock    clockwork.Clock
	Interval time.Duration
}

// NewPoller returns a poller on the given clock. A non-positive interval
// selects DefaultPollInterval.
func NewPoller(clock clockwork.Clock, interval time.Duration) Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return Poller{Clock: clock, Interval: interval}
}

// Wait blocks until cond returns true. canceled may be nil. A zero timeout
// waits forever. Returns nil, ErrWaitTimeout or ErrWaitCanceled.
func (p Poller) Wait(ctx context.Context, cond func() bool, canceled func() bool, timeout time.Duration) error {
	start := p.Clock.Now()
	ticker := p.Clock.NewTicker(p.Interval)
	defer ticker.Stop()

	for {
		if ctx.Err() != nil || (canceled != nil && canceled()) {
			return ErrWaitCanceled
		}
		if cond() {
			return nil
		}
		if timeout > 0 && p.Clock.Since(start) >= timeout {
			return ErrWaitTimeout
		}

		select {
		case <-ticker.Chan():
		case <-ctx.Done():
			return ErrWaitCanceled
		}
	}
}
