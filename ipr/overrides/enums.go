// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package overrides

import (
	"fmt"
	"strings"
)

// ShaderMode selects the diagnostic material forced onto shapes.
type ShaderMode int

const (
	ShaderDisabled ShaderMode = iota
	ShaderChecker
	ShaderGrey
	ShaderMirror
	ShaderNormal
	ShaderOcclusion
	ShaderUV
)

// ShaderModes lists every mode in menu order.
var ShaderModes = []ShaderMode{
	ShaderDisabled,
	ShaderChecker,
	ShaderGrey,
	ShaderMirror,
	ShaderNormal,
	ShaderOcclusion,
	ShaderUV,
}

func (m ShaderMode) String() string {
	switch m {
	case ShaderDisabled:
		return "disabled"
	case ShaderChecker:
		return "checker"
	case ShaderGrey:
		return "grey"
	case ShaderMirror:
		return "mirror"
	case ShaderNormal:
		return "normal"
	case ShaderOcclusion:
		return "occlusion"
	case ShaderUV:
		return "uv"
	}
	return fmt.Sprintf("ShaderMode(%d)", int(m))
}

func (m ShaderMode) valid() bool {
	return m >= ShaderDisabled && m <= ShaderUV
}

// ParseShaderMode parses a mode name, case insensitive.
func ParseShaderMode(s string) (ShaderMode, error) {
	for _, m := range ShaderModes {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return ShaderDisabled, fmt.Errorf("%w: unknown shader mode %q", ErrInvalidOverrides, s)
}

func (m ShaderMode) MarshalText() ([]byte, error) {
	if !m.valid() {
		return nil, fmt.Errorf("%w: shader mode %d", ErrInvalidOverrides, int(m))
	}
	return []byte(m.String()), nil
}

func (m *ShaderMode) UnmarshalText(text []byte) error {
	mode, err := ParseShaderMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// Scope selects which shapes receive the shader override.
type Scope int

const (
	ScopeAllNodes Scope = iota
	ScopeSelectedOnly
)

func (s Scope) String() string {
	switch s {
	case ScopeAllNodes:
		return "all"
	case ScopeSelectedOnly:
		return "selected"
	}
	return fmt.Sprintf("Scope(%d)", int(s))
}

func (s Scope) valid() bool {
	return s == ScopeAllNodes || s == ScopeSelectedOnly
}

func (s Scope) MarshalText() ([]byte, error) {
	if !s.valid() {
		return nil, fmt.Errorf("%w: shader scope %d", ErrInvalidOverrides, int(s))
	}
	return []byte(s.String()), nil
}

func (s *Scope) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "all", "":
		*s = ScopeAllNodes
	case "selected":
		*s = ScopeSelectedOnly
	default:
		return fmt.Errorf("%w: unknown shader scope %q", ErrInvalidOverrides, string(text))
	}
	return nil
}

// Group is a set of overrides applied to the engine together.
type Group int

const (
	GroupAll Group = iota
	GroupCamera
	GroupResolution
	GroupAASamples
	GroupIgnore
	GroupShader
	GroupTextureRepeat
)

// ApplicationOrder is the order groups are applied in during a full pass.
// Region computation reads the resolution configured by earlier groups and
// shader capture must precede any shader assignment.
var ApplicationOrder = []Group{
	GroupCamera,
	GroupResolution,
	GroupAASamples,
	GroupIgnore,
	GroupShader,
	GroupTextureRepeat,
}

func (g Group) String() string {
	switch g {
	case GroupAll:
		return "all"
	case GroupCamera:
		return "camera"
	case GroupResolution:
		return "resolution"
	case GroupAASamples:
		return "aaSamples"
	case GroupIgnore:
		return "ignore"
	case GroupShader:
		return "shader"
	case GroupTextureRepeat:
		return "textureRepeat"
	}
	return fmt.Sprintf("Group(%d)", int(g))
}

// Groups expands GroupAll into every group in application order.
func (g Group) Groups() []Group {
	if g == GroupAll {
		return ApplicationOrder
	}
	return []Group{g}
}

// ParseGroup parses a group name, case insensitive.
func ParseGroup(s string) (Group, error) {
	if strings.EqualFold(s, GroupAll.String()) || s == "" {
		return GroupAll, nil
	}
	for _, g := range ApplicationOrder {
		if strings.EqualFold(s, g.String()) {
			return g, nil
		}
	}
	return GroupAll, fmt.Errorf("%w: unknown override group %q", ErrInvalidOverrides, s)
}
