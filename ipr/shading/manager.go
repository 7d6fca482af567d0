// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package shading

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"go.aton.dev/ipr/interop"
	"go.aton.dev/ipr/overrides"
)

// Manager swaps shape shaders for diagnostic presets and back. It keeps the
// original assignment of every shape, captured once per session.
//
// Manager is not safe for concurrent use; the session controller serializes
// access to it together with every other engine mutation.
type Manager struct {
	engine interop.ShaderEngine

	captured bool
	order    []interop.NodeID
	snapshot map[interop.NodeID]interop.NodeID

	presets   map[overrides.ShaderMode]interop.NodeID
	nodes     map[string]interop.NodeID
	placement interop.NodeID
	repeat    int
}

// NewManager returns a manager with an empty snapshot.
func NewManager(engine interop.ShaderEngine) *Manager {
	m := &Manager{engine: engine}
	m.Reset()
	return m
}

// Reset drops the snapshot and presets. Nodes created for presets belong to
// the engine session and are not deleted.
func (m *Manager) Reset() {
	m.captured = false
	m.order = nil
	m.snapshot = map[interop.NodeID]interop.NodeID{}
	m.presets = map[overrides.ShaderMode]interop.NodeID{}
	m.nodes = map[string]interop.NodeID{}
	m.placement = ""
	m.repeat = 1
}

// Captured reports whether the snapshot was taken.
func (m *Manager) Captured() bool {
	return m.captured
}

// Capture records the current shader of every shape and returns how many
// shapes were recorded. Shapes without a resolvable shader are skipped.
// Later calls are no-ops until Reset.
func (m *Manager) Capture() int {
	if m.captured {
		return len(m.order)
	}
	m.captured = true

	for _, shape := range m.engine.ShapeNodes() {
		shader, err := m.engine.Shader(shape)
		if err != nil {
			log.WithError(err).Debugf("Skipping shape %s", shape)
			continue
		}
		if _, seen := m.snapshot[shape]; seen {
			continue
		}
		m.order = append(m.order, shape)
		m.snapshot[shape] = shader
	}
	log.Debugf("Captured %d shader assignments", len(m.order))
	return len(m.order)
}

// Original returns the captured shader of a shape.
func (m *Manager) Original(shape interop.NodeID) (interop.NodeID, bool) {
	shader, ok := m.snapshot[shape]
	return shader, ok
}

// Apply assigns the preset for mode to every captured shape. With
// ScopeSelectedOnly, shapes outside selection get their original shader back.
// ShaderDisabled restores every original shader.
func (m *Manager) Apply(mode overrides.ShaderMode, scope overrides.Scope, selection []interop.NodeID) error {
	if len(m.order) == 0 {
		return nil
	}

	selected := make(map[interop.NodeID]bool, len(selection))
	for _, node := range selection {
		selected[node] = true
	}

	for _, shape := range m.order {
		original := m.snapshot[shape]
		target := original
		if scope == overrides.ScopeAllNodes || selected[shape] {
			var err error
			if target, err = m.target(mode, original); err != nil {
				return err
			}
		}
		if err := m.engine.SetShader(shape, target); err != nil {
			return fmt.Errorf("assigning %s to %s: %w", target, shape, err)
		}
	}
	return nil
}

func (m *Manager) target(mode overrides.ShaderMode, original interop.NodeID) (interop.NodeID, error) {
	switch mode {
	case overrides.ShaderDisabled:
		return original, nil
	case overrides.ShaderChecker,
		overrides.ShaderGrey,
		overrides.ShaderMirror,
		overrides.ShaderNormal,
		overrides.ShaderOcclusion,
		overrides.ShaderUV:
		return m.preset(mode)
	}
	return "", fmt.Errorf("unknown shader mode %d", int(mode))
}

func (m *Manager) preset(mode overrides.ShaderMode) (interop.NodeID, error) {
	if shader, ok := m.presets[mode]; ok {
		return shader, nil
	}
	shader, err := m.build(mode)
	if err != nil {
		return "", fmt.Errorf("building %s preset: %w", mode, err)
	}
	m.presets[mode] = shader
	return shader, nil
}

// SetTextureRepeat sets the checker tiling. The value is kept for a checker
// preset that does not exist yet.
func (m *Manager) SetTextureRepeat(repeat int) error {
	m.repeat = repeat
	if m.placement == "" {
		return nil
	}
	return m.engine.SetNodeVec2(m.placement, "repeatUV", float64(repeat), float64(repeat))
}
