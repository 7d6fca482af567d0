// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package mockengine

import (
	"fmt"
	"strings"
	"sync"

	"go.aton.dev/ipr/interop"
)

// typecheck interface compliance
var _ interop.Engine = (*MockEngine)(nil)

// Never disables a scripted phase of Rendering.
const Never = -1

// MockEngine implements interop.Engine, records every call in order and
// reports rendering according to a per frame script.
type MockEngine struct {
	mutex sync.Mutex
	calls []string

	Unavailable bool
	StartErr    error
	PauseErr    error
	UnpauseErr  error
	// OptionErr fails writes to the given options.
	OptionErr map[interop.Option]error
	// ParamErr fails parameter writes and links keyed "node.param".
	ParamErr map[string]error

	// Each frame write reports StartPolls times not rendering, then
	// RenderPolls times rendering, then idle. Never keeps a phase forever.
	StartPolls  int
	RenderPolls int
	// OnFrame is called after every frame write, without locks held.
	OnFrame func(frame float64)

	shapes  []interop.NodeID
	shaders map[interop.NodeID]interop.NodeID
	nodes   map[interop.NodeID]string
	params  map[string]interface{}
	options map[interop.Option]interface{}
	frames  []float64

	framePending bool
	startLeft    int
	renderLeft   int
}

// New returns an engine that renders every frame for one poll.
func New() *MockEngine {
	return &MockEngine{
		RenderPolls: 1,
		OptionErr:   map[interop.Option]error{},
		ParamErr:    map[string]error{},
		shaders:     map[interop.NodeID]interop.NodeID{},
		nodes:       map[interop.NodeID]string{},
		params:      map[string]interface{}{},
		options:     map[interop.Option]interface{}{},
	}
}

// AddShape adds a shape; an empty shader makes it unresolvable.
func (m *MockEngine) AddShape(shape, shader interop.NodeID) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.shapes = append(m.shapes, shape)
	if shader != "" {
		m.shaders[shape] = shader
	}
}

func (m *MockEngine) record(format string, args ...interface{}) {
	m.calls = append(m.calls, fmt.Sprintf(format, args...))
}

// Calls returns the recorded calls.
func (m *MockEngine) Calls() []string {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return append([]string(nil), m.calls...)
}

// CallsWithPrefix returns the recorded calls starting with prefix.
func (m *MockEngine) CallsWithPrefix(prefix string) []string {
	var out []string
	for _, c := range m.Calls() {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

// IndexOf returns the position of the first call starting with prefix, or -1.
func (m *MockEngine) IndexOf(prefix string) int {
	for i, c := range m.Calls() {
		if strings.HasPrefix(c, prefix) {
			return i
		}
	}
	return -1
}

// ResetCalls clears the call log.
func (m *MockEngine) ResetCalls() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.calls = nil
}

// Frames returns every frame written, in order.
func (m *MockEngine) Frames() []float64 {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return append([]float64(nil), m.frames...)
}

// Option returns the last value written to opt.
func (m *MockEngine) Option(opt interop.Option) (interface{}, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	v, ok := m.options[opt]
	return v, ok
}

// Param returns a node parameter written through the node API.
func (m *MockEngine) Param(node interop.NodeID, param string) (interface{}, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	v, ok := m.params[string(node)+"."+param]
	return v, ok
}

// NodeType returns the type of a created node.
func (m *MockEngine) NodeType(node interop.NodeID) string {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.nodes[node]
}

// NodeCount returns the number of created nodes.
func (m *MockEngine) NodeCount() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.nodes)
}

func (m *MockEngine) Available() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return !m.Unavailable
}

func (m *MockEngine) SessionStart(camera interop.NodeID, width, height int) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.record("SessionStart(%s,%d,%d)", camera, width, height)
	return m.StartErr
}

func (m *MockEngine) SessionStop() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.record("SessionStop")
	m.framePending = false
	return nil
}

func (m *MockEngine) SessionPause() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.record("SessionPause")
	return m.PauseErr
}

func (m *MockEngine) SessionUnpause() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.record("SessionUnpause")
	return m.UnpauseErr
}

func (m *MockEngine) Rendering() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if !m.framePending {
		return false
	}
	if m.startLeft != 0 {
		if m.startLeft > 0 {
			m.startLeft--
		}
		return false
	}
	if m.renderLeft != 0 {
		if m.renderLeft > 0 {
			m.renderLeft--
		}
		return true
	}
	m.framePending = false
	return false
}

func (m *MockEngine) setOption(opt interop.Option, value interface{}) error {
	m.mutex.Lock()
	m.record("Set(%s,%v)", opt, value)
	if err := m.OptionErr[opt]; err != nil {
		m.mutex.Unlock()
		return err
	}
	m.options[opt] = value
	var onFrame func(float64)
	var frame float64
	if opt == interop.OptionFrame {
		frame, _ = value.(float64)
		m.frames = append(m.frames, frame)
		m.framePending = true
		m.startLeft = m.StartPolls
		m.renderLeft = m.RenderPolls
		onFrame = m.OnFrame
	}
	m.mutex.Unlock()

	if onFrame != nil {
		onFrame(frame)
	}
	return nil
}

func (m *MockEngine) SetInt(opt interop.Option, value int) error            { return m.setOption(opt, value) }
func (m *MockEngine) SetBool(opt interop.Option, value bool) error          { return m.setOption(opt, value) }
func (m *MockEngine) SetFloat(opt interop.Option, value float64) error      { return m.setOption(opt, value) }
func (m *MockEngine) SetNode(opt interop.Option, node interop.NodeID) error { return m.setOption(opt, node) }

func (m *MockEngine) ShapeNodes() []interop.NodeID {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return append([]interop.NodeID(nil), m.shapes...)
}

func (m *MockEngine) Shader(shape interop.NodeID) (interop.NodeID, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	shader, ok := m.shaders[shape]
	if !ok {
		return "", interop.ErrShaderUnresolved
	}
	return shader, nil
}

// ShaderOf returns the current shader of a shape.
func (m *MockEngine) ShaderOf(shape interop.NodeID) interop.NodeID {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.shaders[shape]
}

func (m *MockEngine) SetShader(shape, shader interop.NodeID) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.record("SetShader(%s,%s)", shape, shader)
	m.shaders[shape] = shader
	return nil
}

func (m *MockEngine) CreateNode(nodeType, name string) (interop.NodeID, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.record("CreateNode(%s,%s)", nodeType, name)
	id := interop.NodeID(name)
	m.nodes[id] = nodeType
	return id, nil
}

func (m *MockEngine) setParam(node interop.NodeID, param string, value interface{}) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.record("SetParam(%s.%s,%v)", node, param, value)
	key := string(node) + "." + param
	if err := m.ParamErr[key]; err != nil {
		return err
	}
	m.params[key] = value
	return nil
}

func (m *MockEngine) SetNodeFloat(node interop.NodeID, param string, value float64) error {
	return m.setParam(node, param, value)
}

func (m *MockEngine) SetNodeBool(node interop.NodeID, param string, value bool) error {
	return m.setParam(node, param, value)
}

func (m *MockEngine) SetNodeString(node interop.NodeID, param string, value string) error {
	return m.setParam(node, param, value)
}

func (m *MockEngine) SetNodeVec2(node interop.NodeID, param string, x, y float64) error {
	return m.setParam(node, param, [2]float64{x, y})
}

func (m *MockEngine) LinkNode(src, dst interop.NodeID, param string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.record("Link(%s,%s.%s)", src, dst, param)
	key := string(dst) + "." + param
	if err := m.ParamErr[key]; err != nil {
		return err
	}
	m.params[key] = src
	return nil
}
