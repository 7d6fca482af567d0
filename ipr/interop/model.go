// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package interop

import "fmt"

// NodeID identifies a node in the render engine's scene graph. Shape nodes,
// shaders, textures and cameras all share this identifier space and stay
// stable for the lifetime of a session.
type NodeID string

// Option is a writable attribute of the engine's live options node.
type Option int

const (
	OptionXRes Option = iota
	OptionYRes
	OptionAASamples
	OptionIgnoreMotionBlur
	OptionIgnoreSubdivision
	OptionIgnoreDisplacement
	OptionIgnoreBump
	OptionIgnoreSSS
	OptionRegionMinX
	OptionRegionMinY
	OptionRegionMaxX
	OptionRegionMaxY
	OptionFrame
	OptionCamera
)

// String returns the engine attribute name of the option.
func (o Option) String() string {
	switch o {
	case OptionXRes:
		return "xres"
	case OptionYRes:
		return "yres"
	case OptionAASamples:
		return "AA_samples"
	case OptionIgnoreMotionBlur:
		return "ignore_motion_blur"
	case OptionIgnoreSubdivision:
		return "ignore_subdivision"
	case OptionIgnoreDisplacement:
		return "ignore_displacement"
	case OptionIgnoreBump:
		return "ignore_bump"
	case OptionIgnoreSSS:
		return "ignore_sss"
	case OptionRegionMinX:
		return "region_min_x"
	case OptionRegionMinY:
		return "region_min_y"
	case OptionRegionMaxX:
		return "region_max_x"
	case OptionRegionMaxY:
		return "region_max_y"
	case OptionFrame:
		return "frame"
	case OptionCamera:
		return "camera"
	}
	return fmt.Sprintf("Option(%d)", int(o))
}

// SessionControl opens, closes and serializes access to the live session.
type SessionControl interface {
	// Available reports whether the engine API is loaded and reachable.
	Available() bool
	SessionStart(camera NodeID, width, height int) error
	SessionStop() error
	SessionPause() error
	SessionUnpause() error
}

// RenderMonitor reports whether the engine is currently producing pixels.
type RenderMonitor interface {
	Rendering() bool
}

// Options writes attributes of the live options node.
type Options interface {
	SetInt(opt Option, value int) error
	SetBool(opt Option, value bool) error
	SetFloat(opt Option, value float64) error
	SetNode(opt Option, node NodeID) error
}

// ShaderEngine is the part of the engine the shader override bookkeeping needs.
type ShaderEngine interface {
	// ShapeNodes lists every renderable shape in the active scene graph.
	ShapeNodes() []NodeID
	// Shader returns the shader bound to a shape, or an error when the
	// shape has no resolvable shading assignment.
	Shader(shape NodeID) (NodeID, error)
	SetShader(shape NodeID, shader NodeID) error

	CreateNode(nodeType, name string) (NodeID, error)
	SetNodeFloat(node NodeID, param string, value float64) error
	SetNodeBool(node NodeID, param string, value bool) error
	SetNodeString(node NodeID, param string, value string) error
	SetNodeVec2(node NodeID, param string, x, y float64) error
	LinkNode(src NodeID, dst NodeID, param string) error
}

// Engine is the render engine control surface used by the session controller.
type Engine interface {
	SessionControl
	RenderMonitor
	Options
	ShaderEngine
}

// DriverSettings is the display driver configuration that a session
// overrides temporarily.
type DriverSettings struct {
	Translator  string `json:"translator"`
	Host        string `json:"host"`
	Port        int    `json:"port"`
	ExtraHost   string `json:"extraHost"`
	MergeAOVs   bool   `json:"mergeAOVs"`
	Progressive bool   `json:"progressive"`
}

// DisplayDriver reads and writes the engine's display driver configuration.
type DisplayDriver interface {
	// Settings returns ErrDriverNotInstalled when the driver attribute is missing.
	Settings() (DriverSettings, error)
	Apply(settings DriverSettings) error
}

// Scene is the host application's view of the scene being rendered.
type Scene interface {
	// IsActiveRenderer reports whether the engine is the host's current renderer.
	IsActiveRenderer() bool
	// ActiveCamera returns the camera shape of the current viewport.
	ActiveCamera() (NodeID, error)
	// Cameras lists camera transforms by name.
	Cameras() []string
	// ResolveCamera maps a camera name to its renderable shape.
	ResolveCamera(name string) (NodeID, error)
	// Resolution is the base output resolution.
	Resolution() (width, height int)
	AASamples() int
	IgnoreDefaults() IgnoreDefaults
	FrameRange() (start, end int)
	CurrentFrame() float64
	// HiddenCameras lists cameras the engine cannot resolve until shown.
	HiddenCameras() []NodeID
	SetCameraVisible(camera NodeID, visible bool) error
	// Selection returns the currently selected shapes.
	Selection() []NodeID
	// DriverDefaults is the display driver host/port configured in the scene.
	DriverDefaults() (host string, port int)
}

// IgnoreDefaults mirrors the scene's ignore settings.
type IgnoreDefaults struct {
	MotionBlur   bool
	Subdivision  bool
	Displacement bool
	Bump         bool
	SSS          bool
}

// EventKind is a host event the controller subscribes to.
type EventKind int

const (
	TimeChanged EventKind = iota
	SelectionChanged
)

func (k EventKind) String() string {
	switch k {
	case TimeChanged:
		return "timeChanged"
	case SelectionChanged:
		return "selectionChanged"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// SubscriptionID is a handle returned by HostEvents.Subscribe.
type SubscriptionID int

// HostEvents registers callbacks for host events.
type HostEvents interface {
	Subscribe(kind EventKind, callback func()) (SubscriptionID, error)
	Unsubscribe(id SubscriptionID) error
}
