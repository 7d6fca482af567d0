// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"time"

	"github.com/jonboulle/clockwork"

	"go.aton.dev/ipr/simengine"
)

// world is the simulated host application the server controls.
type world struct {
	engine *simengine.Engine
	scene  *simengine.Scene
	driver *simengine.Driver
	events *simengine.HostEvents
}

func newWorld(clock clockwork.Clock, renderTime time.Duration) *world {
	w := &world{
		engine: simengine.NewEngine(clock, renderTime),
		scene:  simengine.NewScene(),
		driver: simengine.NewDriver(),
		events: simengine.NewHostEvents(),
	}
	w.scene.Events = w.events

	w.scene.AddCamera("front", "frontShape", true)
	w.scene.AddCamera("top", "topShape", false)
	w.scene.AddCamera("renderCam", "renderCamShape", false)

	w.engine.AddShape("groundShape", "groundSG")
	w.engine.AddShape("teapotShape", "ceramicSG")
	w.engine.AddShape("lidShape", "ceramicSG")
	w.engine.AddShape("curveShape", "")
	return w
}
