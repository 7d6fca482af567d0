// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package overrides

import (
	"errors"
	"fmt"

	"go.aton.dev/ipr/interop"
	"go.aton.dev/ipr/region"
)

const (
	// ActiveCamera selects the camera of the current viewport.
	ActiveCamera = ""

	MinResolution = 1
	MaxResolution = 900
	MinAASamples  = -64
	MaxAASamples  = 64

	// MaxSequenceFrames bounds the frame list a range may expand to.
	MaxSequenceFrames = 100000
)

// ErrInvalidOverrides returned when an override value is outside its domain
var ErrInvalidOverrides = errors.New("InvalidOverrides")

// IgnoreFlags is the set of engine features skipped while previewing.
type IgnoreFlags struct {
	MotionBlur   bool `json:"motionBlur" yaml:"motionBlur"`
	Subdivision  bool `json:"subdivision" yaml:"subdivision"`
	Displacement bool `json:"displacement" yaml:"displacement"`
	Bump         bool `json:"bump" yaml:"bump"`
	SSS          bool `json:"sss" yaml:"sss"`
}

// DriverConfig is the network identity of the display receiving pixels.
// A zero Port means the scene's driver port plus PortOffset.
type DriverConfig struct {
	Host       string `json:"host" yaml:"host"`
	Port       int    `json:"port" yaml:"port"`
	PortOffset int    `json:"portOffset,omitempty" yaml:"portOffset,omitempty"`
	ExtraHost  string `json:"extraHost,omitempty" yaml:"extraHost,omitempty"`
}

// Resolve fills unset host and port from the scene's driver defaults.
func (d DriverConfig) Resolve(defaultHost string, defaultPort int) DriverConfig {
	if d.Host == "" {
		d.Host = defaultHost
	}
	if d.Port == 0 {
		d.Port = defaultPort + d.PortOffset
	}
	d.PortOffset = 0
	return d
}

// Sequence is the frame range rendered unattended. Enabled starts the
// sequence together with the session.
type Sequence struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
	Start   int  `json:"start" yaml:"start"`
	End     int  `json:"end" yaml:"end"`
	Step    int  `json:"step" yaml:"step"`
}

// Frames expands the range into an ordered frame list.
func (s Sequence) Frames() ([]int, error) {
	if s.Step <= 0 {
		return nil, fmt.Errorf("%w: sequence step %d must be positive", ErrInvalidOverrides, s.Step)
	}
	if s.End < s.Start {
		return nil, fmt.Errorf("%w: sequence ends (%d) before it starts (%d)", ErrInvalidOverrides, s.End, s.Start)
	}
	// unsigned arithmetic keeps wide ranges from overflowing
	span := uint64(s.End) - uint64(s.Start)
	count := span/uint64(s.Step) + 1
	if count > MaxSequenceFrames {
		return nil, fmt.Errorf("%w: sequence of %d frames exceeds %d", ErrInvalidOverrides, count, MaxSequenceFrames)
	}
	frames := make([]int, count)
	for i := range frames {
		frames[i] = int(uint64(s.Start) + uint64(i)*uint64(s.Step))
	}
	return frames, nil
}

// OverrideSet holds every user tunable parameter of a preview session.
type OverrideSet struct {
	Camera        string       `json:"camera" yaml:"camera"`
	Resolution    int          `json:"resolution" yaml:"resolution"`
	AASamples     int          `json:"aaSamples" yaml:"aaSamples"`
	Ignore        IgnoreFlags  `json:"ignore" yaml:"ignore"`
	Region        region.Box   `json:"region" yaml:"region"`
	Overscan      int          `json:"overscan" yaml:"overscan"`
	Shader        ShaderMode   `json:"shader" yaml:"shader"`
	ShaderScope   Scope        `json:"shaderScope" yaml:"shaderScope"`
	TextureRepeat int          `json:"textureRepeat" yaml:"textureRepeat"`
	Driver        DriverConfig `json:"driver" yaml:"driver"`
	Sequence      Sequence     `json:"sequence" yaml:"sequence"`
}

// Validate checks every value against its domain.
func (o OverrideSet) Validate() error {
	if o.Resolution < MinResolution || o.Resolution > MaxResolution {
		return fmt.Errorf("%w: resolution %d%% outside [%d,%d]", ErrInvalidOverrides, o.Resolution, MinResolution, MaxResolution)
	}
	if o.AASamples < MinAASamples || o.AASamples > MaxAASamples {
		return fmt.Errorf("%w: AA samples %d outside [%d,%d]", ErrInvalidOverrides, o.AASamples, MinAASamples, MaxAASamples)
	}
	if o.Overscan < 0 {
		return fmt.Errorf("%w: negative overscan %d", ErrInvalidOverrides, o.Overscan)
	}
	if o.TextureRepeat < 1 {
		return fmt.Errorf("%w: texture repeat %d must be positive", ErrInvalidOverrides, o.TextureRepeat)
	}
	if !o.Shader.valid() {
		return fmt.Errorf("%w: shader mode %d", ErrInvalidOverrides, int(o.Shader))
	}
	if !o.ShaderScope.valid() {
		return fmt.Errorf("%w: shader scope %d", ErrInvalidOverrides, int(o.ShaderScope))
	}
	if o.Driver.Port < 0 || o.Driver.Port > 65535 {
		return fmt.Errorf("%w: driver port %d", ErrInvalidOverrides, o.Driver.Port)
	}
	if o.Sequence.Enabled {
		if _, err := o.Sequence.Frames(); err != nil {
			return err
		}
	}
	return nil
}

// Defaults builds the override set matching the scene's own settings.
func Defaults(scene interop.Scene) OverrideSet {
	width, height := scene.Resolution()
	start, end := scene.FrameRange()
	ignore := scene.IgnoreDefaults()
	host, port := scene.DriverDefaults()

	return OverrideSet{
		Camera:     ActiveCamera,
		Resolution: 100,
		AASamples:  scene.AASamples(),
		Ignore: IgnoreFlags{
			MotionBlur:   ignore.MotionBlur,
			Subdivision:  ignore.Subdivision,
			Displacement: ignore.Displacement,
			Bump:         ignore.Bump,
			SSS:          ignore.SSS,
		},
		Region:        region.Full(width, height),
		Overscan:      0,
		Shader:        ShaderDisabled,
		ShaderScope:   ScopeAllNodes,
		TextureRepeat: 1,
		Driver:        DriverConfig{Host: host, Port: port},
		Sequence:      Sequence{Start: start, End: end, Step: 1},
	}
}

// Changed returns the groups whose values differ between two sets, in
// application order.
func Changed(prev, next OverrideSet) []Group {
	var groups []Group
	for _, g := range ApplicationOrder {
		if !sameGroup(g, prev, next) {
			groups = append(groups, g)
		}
	}
	return groups
}

// Merge copies the values of groups from next onto base. Fields outside
// every group (driver, sequence) keep the base values.
func Merge(base, next OverrideSet, groups []Group) OverrideSet {
	for _, g := range groups {
		switch g {
		case GroupAll:
			return Merge(base, next, ApplicationOrder)
		case GroupCamera:
			base.Camera = next.Camera
		case GroupResolution:
			base.Resolution = next.Resolution
			base.Region = next.Region
			base.Overscan = next.Overscan
		case GroupAASamples:
			base.AASamples = next.AASamples
		case GroupIgnore:
			base.Ignore = next.Ignore
		case GroupShader:
			base.Shader = next.Shader
			base.ShaderScope = next.ShaderScope
		case GroupTextureRepeat:
			base.TextureRepeat = next.TextureRepeat
		}
	}
	return base
}

func sameGroup(g Group, a, b OverrideSet) bool {
	switch g {
	case GroupCamera:
		return a.Camera == b.Camera
	case GroupResolution:
		return a.Resolution == b.Resolution && a.Region == b.Region && a.Overscan == b.Overscan
	case GroupAASamples:
		return a.AASamples == b.AASamples
	case GroupIgnore:
		return a.Ignore == b.Ignore
	case GroupShader:
		return a.Shader == b.Shader && a.ShaderScope == b.ShaderScope
	case GroupTextureRepeat:
		return a.TextureRepeat == b.TextureRepeat
	}
	return false
}

// ResolutionLabel formats the scaled output size, e.g. "960x540".
func ResolutionLabel(width, height, percent int) string {
	return fmt.Sprintf("%dx%d", region.ScaleResolution(width, percent), region.ScaleResolution(height, percent))
}
