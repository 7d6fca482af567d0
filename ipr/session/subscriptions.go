// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package session

import (
	log "github.com/sirupsen/logrus"

	"go.aton.dev/ipr/interop"
)

// subscriptionOrder is the order host callbacks are registered in.
var subscriptionOrder = []interop.EventKind{interop.TimeChanged, interop.SelectionChanged}

// subscriptions owns the host callbacks registered for one session. Release
// is idempotent so every exit path can call it.
type subscriptions struct {
	events interop.HostEvents
	ids    []interop.SubscriptionID
}

func subscribe(events interop.HostEvents, handlers map[interop.EventKind]func()) (*subscriptions, error) {
	s := &subscriptions{events: events}
	for _, kind := range subscriptionOrder {
		handler, ok := handlers[kind]
		if !ok {
			continue
		}
		id, err := events.Subscribe(kind, handler)
		if err != nil {
			s.release()
			return nil, err
		}
		s.ids = append(s.ids, id)
	}
	return s, nil
}

func (s *subscriptions) release() {
	if s == nil {
		return
	}
	for _, id := range s.ids {
		if err := s.events.Unsubscribe(id); err != nil {
			log.WithError(err).Warnf("Failed to unsubscribe host callback %d", id)
		}
	}
	s.ids = nil
}
