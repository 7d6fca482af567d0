// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package shading

import (
	"fmt"

	"go.aton.dev/ipr/interop"
	"go.aton.dev/ipr/overrides"
)

// Node names of the preset networks.
const (
	CheckerShaderName   = "aton_checker_shader"
	CheckerTextureName  = "aton_checker"
	PlacementName       = "aton_place2d"
	GreyShaderName      = "aton_grey"
	MirrorShaderName    = "aton_mirror"
	NormalShaderName    = "aton_normal"
	OcclusionShaderName = "aton_occlusion"
	UVShaderName        = "aton_uv"
)

type standardParams struct {
	kd, ks, roughness float64
	ior               float64
}

type floatParam struct {
	param string
	value float64
}

func (m *Manager) build(mode overrides.ShaderMode) (interop.NodeID, error) {
	switch mode {
	case overrides.ShaderChecker:
		return m.buildChecker()
	case overrides.ShaderGrey:
		return m.buildStandard(GreyShaderName, standardParams{kd: 0.225, ks: 1.0, roughness: 0.3, ior: 1.3})
	case overrides.ShaderMirror:
		return m.buildStandard(MirrorShaderName, standardParams{kd: 0, ks: 1.0, roughness: 0.005})
	case overrides.ShaderNormal:
		return m.buildUtility(NormalShaderName, "color_mode", "n")
	case overrides.ShaderOcclusion:
		return m.buildUtility(OcclusionShaderName, "shade_mode", "ao")
	case overrides.ShaderUV:
		return m.buildUtility(UVShaderName, "color_mode", "uv")
	}
	return "", fmt.Errorf("no preset for shader mode %s", mode)
}

// createNode returns the node created under name earlier in the session, so
// a preset whose build failed halfway can be built again.
func (m *Manager) createNode(nodeType, name string) (interop.NodeID, error) {
	if node, ok := m.nodes[name]; ok {
		return node, nil
	}
	node, err := m.engine.CreateNode(nodeType, name)
	if err != nil {
		return "", err
	}
	m.nodes[name] = node
	return node, nil
}

func (m *Manager) buildChecker() (interop.NodeID, error) {
	place, err := m.createNode("place2dTexture", PlacementName)
	if err != nil {
		return "", err
	}
	if err := m.engine.SetNodeVec2(place, "repeatUV", float64(m.repeat), float64(m.repeat)); err != nil {
		return "", err
	}
	texture, err := m.createNode("checkerboard", CheckerTextureName)
	if err != nil {
		return "", err
	}
	if err := m.engine.LinkNode(place, texture, "uvcoords"); err != nil {
		return "", err
	}
	shader, err := m.createNode("standard", CheckerShaderName)
	if err != nil {
		return "", err
	}
	if err := m.engine.LinkNode(texture, shader, "Kd_color"); err != nil {
		return "", err
	}
	m.placement = place
	return shader, nil
}

func (m *Manager) buildStandard(name string, p standardParams) (interop.NodeID, error) {
	shader, err := m.createNode("standard", name)
	if err != nil {
		return "", err
	}
	floats := []floatParam{
		{"Kd", p.kd},
		{"Ks", p.ks},
		{"specular_roughness", p.roughness},
	}
	if p.ior > 0 {
		floats = append(floats, floatParam{"IOR", p.ior})
	}
	for _, f := range floats {
		if err := m.engine.SetNodeFloat(shader, f.param, f.value); err != nil {
			return "", err
		}
	}
	if err := m.engine.SetNodeBool(shader, "specular_Fresnel", true); err != nil {
		return "", err
	}
	return shader, nil
}

func (m *Manager) buildUtility(name, param, value string) (interop.NodeID, error) {
	shader, err := m.createNode("utility", name)
	if err != nil {
		return "", err
	}
	if err := m.engine.SetNodeString(shader, param, value); err != nil {
		return "", err
	}
	return shader, nil
}
