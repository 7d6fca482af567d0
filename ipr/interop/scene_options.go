// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package interop

import "fmt"

// SceneOption names a value read from the host scene.
type SceneOption int

const (
	SceneHost SceneOption = iota
	ScenePort
	SceneCameras
	SceneActiveCamera
	SceneResX
	SceneResY
	SceneAASamples
	SceneIgnoreMotionBlur
	SceneIgnoreSubdivision
	SceneIgnoreDisplacement
	SceneIgnoreBump
	SceneIgnoreSSS
	SceneStartFrame
	SceneEndFrame
)

// SceneOptions lists every option in display order.
var SceneOptions = []SceneOption{
	SceneHost,
	ScenePort,
	SceneCameras,
	SceneActiveCamera,
	SceneResX,
	SceneResY,
	SceneAASamples,
	SceneIgnoreMotionBlur,
	SceneIgnoreSubdivision,
	SceneIgnoreDisplacement,
	SceneIgnoreBump,
	SceneIgnoreSSS,
	SceneStartFrame,
	SceneEndFrame,
}

func (o SceneOption) String() string {
	switch o {
	case SceneHost:
		return "host"
	case ScenePort:
		return "port"
	case SceneCameras:
		return "cameras"
	case SceneActiveCamera:
		return "activeCamera"
	case SceneResX:
		return "resX"
	case SceneResY:
		return "resY"
	case SceneAASamples:
		return "AASamples"
	case SceneIgnoreMotionBlur:
		return "ignoreMotionBlur"
	case SceneIgnoreSubdivision:
		return "ignoreSubdivision"
	case SceneIgnoreDisplacement:
		return "ignoreDisplacement"
	case SceneIgnoreBump:
		return "ignoreBump"
	case SceneIgnoreSSS:
		return "ignoreSss"
	case SceneStartFrame:
		return "startFrame"
	case SceneEndFrame:
		return "endFrame"
	}
	return fmt.Sprintf("SceneOption(%d)", int(o))
}

func DriverHost(s Scene) string {
	host, _ := s.DriverDefaults()
	return host
}

func DriverPort(s Scene) int {
	_, port := s.DriverDefaults()
	return port
}

func ResX(s Scene) int {
	w, _ := s.Resolution()
	return w
}

func ResY(s Scene) int {
	_, h := s.Resolution()
	return h
}

func StartFrame(s Scene) int {
	start, _ := s.FrameRange()
	return start
}

func EndFrame(s Scene) int {
	_, end := s.FrameRange()
	return end
}

// ActiveCameraName returns the active viewport camera, or "None" when the
// viewport has no camera.
func ActiveCameraName(s Scene) string {
	camera, err := s.ActiveCamera()
	if err != nil {
		return "None"
	}
	return string(camera)
}

// SceneOptionValue reads a single scene option. Every option maps to one
// typed accessor.
func SceneOptionValue(s Scene, opt SceneOption) (interface{}, error) {
	switch opt {
	case SceneHost:
		return DriverHost(s), nil
	case ScenePort:
		return DriverPort(s), nil
	case SceneCameras:
		return s.Cameras(), nil
	case SceneActiveCamera:
		return ActiveCameraName(s), nil
	case SceneResX:
		return ResX(s), nil
	case SceneResY:
		return ResY(s), nil
	case SceneAASamples:
		return s.AASamples(), nil
	case SceneIgnoreMotionBlur:
		return s.IgnoreDefaults().MotionBlur, nil
	case SceneIgnoreSubdivision:
		return s.IgnoreDefaults().Subdivision, nil
	case SceneIgnoreDisplacement:
		return s.IgnoreDefaults().Displacement, nil
	case SceneIgnoreBump:
		return s.IgnoreDefaults().Bump, nil
	case SceneIgnoreSSS:
		return s.IgnoreDefaults().SSS, nil
	case SceneStartFrame:
		return StartFrame(s), nil
	case SceneEndFrame:
		return EndFrame(s), nil
	}
	return nil, fmt.Errorf("unknown scene option %d", int(opt))
}

// SceneOptionValues reads every scene option. The active renderer check
// comes first: a host rendering with another engine has no meaningful
// options and ErrEngineUnavailable is returned.
func SceneOptionValues(s Scene) (map[string]interface{}, error) {
	if !s.IsActiveRenderer() {
		return nil, ErrEngineUnavailable
	}
	values := make(map[string]interface{}, len(SceneOptions))
	for _, opt := range SceneOptions {
		v, err := SceneOptionValue(s, opt)
		if err != nil {
			return nil, err
		}
		values[opt.String()] = v
	}
	return values, nil
}
