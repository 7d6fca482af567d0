// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"github.com/jonboulle/clockwork"

	"go.aton.dev/ipr/core"
	"go.aton.dev/ipr/interop"
	"go.aton.dev/ipr/shading"
	"go.aton.dev/ipr/telemetry"
)

// DefaultTranslator is the display driver translator that streams pixels to
// the Aton viewer.
const DefaultTranslator = "aton"

type Builder struct {
	controller *Controller
}

func NewBuilder(engine interop.Engine, scene interop.Scene, driver interop.DisplayDriver, hostEvents interop.HostEvents) *Builder {
	return &Builder{
		controller: &Controller{
			engine:     engine,
			scene:      scene,
			driver:     driver,
			hostEvents: hostEvents,
			eventsAPI:  &telemetry.NoOpEventsAPI{},
			translator: DefaultTranslator,
			clock:      clockwork.NewRealClock(),
		},
	}
}

func (b *Builder) SetEventsAPI(eventsAPI telemetry.EventsAPI) *Builder {
	b.controller.eventsAPI = eventsAPI
	return b
}

func (b *Builder) SetTranslator(translator string) *Builder {
	b.controller.translator = translator
	return b
}

func (b *Builder) SetClock(clock clockwork.Clock) *Builder {
	b.controller.clock = clock
	return b
}

func (b *Builder) Build() *Controller {
	c := b.controller
	c.lifecycle = core.NewLifecycle(c.clock)
	c.shading = shading.NewManager(c.engine)
	return c
}
