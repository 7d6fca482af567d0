// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package simengine

import (
	"fmt"
	"sync"

	"go.aton.dev/ipr/interop"
)

// typecheck interface compliance
var _ interop.HostEvents = (*HostEvents)(nil)

type subscription struct {
	kind     interop.EventKind
	callback func()
}

// HostEvents dispatches host events synchronously to subscribers.
type HostEvents struct {
	mutex sync.Mutex
	next  interop.SubscriptionID
	subs  map[interop.SubscriptionID]subscription
}

func NewHostEvents() *HostEvents {
	return &HostEvents{subs: map[interop.SubscriptionID]subscription{}}
}

func (h *HostEvents) Subscribe(kind interop.EventKind, callback func()) (interop.SubscriptionID, error) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.next++
	h.subs[h.next] = subscription{kind: kind, callback: callback}
	return h.next, nil
}

func (h *HostEvents) Unsubscribe(id interop.SubscriptionID) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.subs[id]; !ok {
		return fmt.Errorf("unknown subscription %d", id)
	}
	delete(h.subs, id)
	return nil
}

// Active returns the number of live subscriptions for kind.
func (h *HostEvents) Active(kind interop.EventKind) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	n := 0
	for _, s := range h.subs {
		if s.kind == kind {
			n++
		}
	}
	return n
}

// Fire calls every subscriber of kind. Callbacks run without the lock held
// so they may subscribe or unsubscribe.
func (h *HostEvents) Fire(kind interop.EventKind) {
	h.mutex.Lock()
	var callbacks []func()
	for _, s := range h.subs {
		if s.kind == kind {
			callbacks = append(callbacks, s.callback)
		}
	}
	h.mutex.Unlock()

	for _, cb := range callbacks {
		cb()
	}
}
