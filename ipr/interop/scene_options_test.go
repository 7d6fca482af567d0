// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package interop_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.aton.dev/ipr/interop"
	"go.aton.dev/ipr/simengine"
)

func TestSceneOptionValues(t *testing.T) {
	scene := simengine.NewScene()
	scene.SetIgnoreDefaults(interop.IgnoreDefaults{Bump: true})
	scene.SetFrameRange(10, 20)

	values, err := interop.SceneOptionValues(scene)
	require.NoError(t, err)
	assert.Len(t, values, len(interop.SceneOptions))
	assert.Equal(t, simengine.DefaultDriverHost, values["host"])
	assert.Equal(t, simengine.DefaultDriverPort, values["port"])
	assert.Equal(t, "perspShape", values["activeCamera"])
	assert.Equal(t, 1920, values["resX"])
	assert.Equal(t, true, values["ignoreBump"])
	assert.Equal(t, false, values["ignoreSss"])
	assert.Equal(t, 10, values["startFrame"])
	assert.Equal(t, 20, values["endFrame"])
}

func TestSceneOptionValuesRequireActiveRenderer(t *testing.T) {
	scene := simengine.NewScene()
	scene.SetActiveRenderer(false)
	_, err := interop.SceneOptionValues(scene)
	assert.ErrorIs(t, err, interop.ErrEngineUnavailable)
}

func TestActiveCameraNameWithoutViewportCamera(t *testing.T) {
	scene := simengine.NewScene()
	scene.SetActiveCamera("")
	v, err := interop.SceneOptionValue(scene, interop.SceneActiveCamera)
	require.NoError(t, err)
	assert.Equal(t, "None", v)
}

func TestOptionNames(t *testing.T) {
	assert.Equal(t, "AA_samples", interop.OptionAASamples.String())
	assert.Equal(t, "region_max_y", interop.OptionRegionMaxY.String())
	assert.Equal(t, "selectionChanged", interop.SelectionChanged.String())
	_, err := interop.SceneOptionValue(simengine.NewScene(), interop.SceneOption(99))
	assert.Error(t, err)
}
