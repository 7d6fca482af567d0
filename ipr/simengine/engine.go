// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package simengine

import (
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"

	"go.aton.dev/ipr/interop"
)

// typecheck interface compliance
var _ interop.Engine = (*Engine)(nil)

// Node is a node created through the engine API.
type Node struct {
	Type   string
	Params map[string]interface{}
	Links  map[string]interop.NodeID
}

// Engine is an in-memory render engine. Every unpause or frame change
// restarts a render that lasts renderTime on the engine's clock.
type Engine struct {
	mutex      sync.Mutex
	clock      clockwork.Clock
	renderTime time.Duration

	available bool
	running   bool
	paused    bool
	camera    interop.NodeID
	options   map[interop.Option]interface{}

	shapes  []interop.NodeID
	shaders map[interop.NodeID]interop.NodeID
	nodes   map[interop.NodeID]*Node

	renderUntil time.Time
	renders     int
}

// NewEngine returns an available engine without shapes.
func NewEngine(clock clockwork.Clock, renderTime time.Duration) *Engine {
	return &Engine{
		clock:      clock,
		renderTime: renderTime,
		available:  true,
		options:    map[interop.Option]interface{}{},
		shaders:    map[interop.NodeID]interop.NodeID{},
		nodes:      map[interop.NodeID]*Node{},
	}
}

// SetAvailable toggles whether the engine API is reachable.
func (e *Engine) SetAvailable(available bool) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.available = available
}

// AddShape adds a shape bound to shader. An empty shader leaves the shape
// without a resolvable shading assignment.
func (e *Engine) AddShape(shape, shader interop.NodeID) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.shapes = append(e.shapes, shape)
	if shader != "" {
		e.shaders[shape] = shader
	}
}

func (e *Engine) Available() bool {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.available
}

func (e *Engine) SessionStart(camera interop.NodeID, width, height int) error {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	if !e.available {
		return interop.ErrEngineUnavailable
	}
	if e.running {
		return interop.ErrSessionRunning
	}
	e.running = true
	e.paused = false
	e.camera = camera
	e.options[interop.OptionCamera] = camera
	e.options[interop.OptionXRes] = width
	e.options[interop.OptionYRes] = height
	e.kickUnsafe()
	log.Debugf("simengine: session started camera=%s %dx%d", camera, width, height)
	return nil
}

func (e *Engine) SessionStop() error {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	if !e.running {
		return interop.ErrSessionNotRunning
	}
	e.running = false
	e.paused = false
	e.renderUntil = time.Time{}
	// nodes created during the session die with it
	e.nodes = map[interop.NodeID]*Node{}
	log.Debug("simengine: session stopped")
	return nil
}

func (e *Engine) SessionPause() error {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	if !e.running {
		return interop.ErrSessionNotRunning
	}
	e.paused = true
	e.renderUntil = time.Time{}
	return nil
}

func (e *Engine) SessionUnpause() error {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	if !e.running {
		return interop.ErrSessionNotRunning
	}
	e.paused = false
	e.kickUnsafe()
	return nil
}

func (e *Engine) kickUnsafe() {
	e.renders++
	e.renderUntil = e.clock.Now().Add(e.renderTime)
}

// Rendering reports whether the current render is still in progress.
func (e *Engine) Rendering() bool {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.running && !e.paused && e.clock.Now().Before(e.renderUntil)
}

// Renders returns how many renders were started.
func (e *Engine) Renders() int {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.renders
}

func (e *Engine) setOption(opt interop.Option, value interface{}) error {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	if !e.running {
		return interop.ErrSessionNotRunning
	}
	e.options[opt] = value
	if opt == interop.OptionFrame && !e.paused {
		e.kickUnsafe()
	}
	return nil
}

func (e *Engine) SetInt(opt interop.Option, value int) error            { return e.setOption(opt, value) }
func (e *Engine) SetBool(opt interop.Option, value bool) error          { return e.setOption(opt, value) }
func (e *Engine) SetFloat(opt interop.Option, value float64) error      { return e.setOption(opt, value) }
func (e *Engine) SetNode(opt interop.Option, node interop.NodeID) error { return e.setOption(opt, node) }

// Option returns the last value written to opt.
func (e *Engine) Option(opt interop.Option) (interface{}, bool) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	v, ok := e.options[opt]
	return v, ok
}

func (e *Engine) ShapeNodes() []interop.NodeID {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return append([]interop.NodeID(nil), e.shapes...)
}

func (e *Engine) Shader(shape interop.NodeID) (interop.NodeID, error) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	shader, ok := e.shaders[shape]
	if !ok {
		return "", fmt.Errorf("%w: %s", interop.ErrShaderUnresolved, shape)
	}
	return shader, nil
}

func (e *Engine) SetShader(shape, shader interop.NodeID) error {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	if _, ok := e.shaders[shape]; !ok {
		return fmt.Errorf("%w: %s", interop.ErrShaderUnresolved, shape)
	}
	e.shaders[shape] = shader
	return nil
}

func (e *Engine) CreateNode(nodeType, name string) (interop.NodeID, error) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	id := interop.NodeID(name)
	if _, exists := e.nodes[id]; exists {
		return "", fmt.Errorf("node %s already exists", name)
	}
	e.nodes[id] = &Node{Type: nodeType, Params: map[string]interface{}{}, Links: map[string]interop.NodeID{}}
	return id, nil
}

func (e *Engine) node(id interop.NodeID) (*Node, error) {
	n, ok := e.nodes[id]
	if !ok {
		return nil, fmt.Errorf("unknown node %s", id)
	}
	return n, nil
}

func (e *Engine) setParam(id interop.NodeID, param string, value interface{}) error {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	n, err := e.node(id)
	if err != nil {
		return err
	}
	n.Params[param] = value
	return nil
}

func (e *Engine) SetNodeFloat(node interop.NodeID, param string, value float64) error {
	return e.setParam(node, param, value)
}

func (e *Engine) SetNodeBool(node interop.NodeID, param string, value bool) error {
	return e.setParam(node, param, value)
}

func (e *Engine) SetNodeString(node interop.NodeID, param string, value string) error {
	return e.setParam(node, param, value)
}

func (e *Engine) SetNodeVec2(node interop.NodeID, param string, x, y float64) error {
	return e.setParam(node, param, [2]float64{x, y})
}

func (e *Engine) LinkNode(src, dst interop.NodeID, param string) error {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	if _, err := e.node(src); err != nil {
		return err
	}
	n, err := e.node(dst)
	if err != nil {
		return err
	}
	n.Links[param] = src
	return nil
}

// Node returns a copy of a node created during the session.
func (e *Engine) Node(id interop.NodeID) (Node, bool) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	n, ok := e.nodes[id]
	if !ok {
		return Node{}, false
	}
	cp := Node{Type: n.Type, Params: map[string]interface{}{}, Links: map[string]interop.NodeID{}}
	for k, v := range n.Params {
		cp.Params[k] = v
	}
	for k, v := range n.Links {
		cp.Links[k] = v
	}
	return cp, true
}
