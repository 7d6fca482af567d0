// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package standalone

import (
	"net/http"

	"github.com/go-chi/render"
	log "github.com/sirupsen/logrus"

	"go.aton.dev/ipr/interop"
	"go.aton.dev/ipr/overrides"
)

type sceneDescription struct {
	Cameras      []string               `json:"cameras"`
	Width        int                    `json:"width"`
	Height       int                    `json:"height"`
	FrameStart   int                    `json:"frameStart"`
	FrameEnd     int                    `json:"frameEnd"`
	CurrentFrame float64                `json:"currentFrame"`
	Defaults     overrides.OverrideSet  `json:"defaults"`
	Options      map[string]interface{} `json:"options,omitempty"`
}

// SceneHandler describes the host scene. Options are only listed while the
// engine is the host's active renderer.
func SceneHandler(w http.ResponseWriter, r *http.Request, scene interop.Scene) {
	width, height := scene.Resolution()
	start, end := scene.FrameRange()
	options, err := interop.SceneOptionValues(scene)
	if err != nil {
		log.WithError(err).Debug("Scene options unavailable")
	}
	render.JSON(w, r, &sceneDescription{
		Cameras:      scene.Cameras(),
		Width:        width,
		Height:       height,
		FrameStart:   start,
		FrameEnd:     end,
		CurrentFrame: scene.CurrentFrame(),
		Defaults:     overrides.Defaults(scene),
		Options:      options,
	})
}
