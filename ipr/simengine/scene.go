// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package simengine

import (
	"fmt"
	"sort"
	"sync"

	"go.aton.dev/ipr/interop"
)

// typecheck interface compliance
var _ interop.Scene = (*Scene)(nil)

const (
	DefaultDriverHost = "127.0.0.1"
	DefaultDriverPort = 9201
)

type camera struct {
	shape   interop.NodeID
	visible bool
}

// Scene is an in-memory host scene. Frame and selection changes are
// reported through Events when set.
type Scene struct {
	Events *HostEvents

	mutex          sync.Mutex
	activeRenderer bool
	cameras        map[string]*camera
	activeCamera   string
	width, height  int
	aaSamples      int
	ignore         interop.IgnoreDefaults
	start, end     int
	current        float64
	selection      []interop.NodeID
	driverHost     string
	driverPort     int
}

// NewScene returns a scene with the default persp camera at 1920x1080,
// frames 1-24.
func NewScene() *Scene {
	s := &Scene{
		activeRenderer: true,
		cameras:        map[string]*camera{},
		width:          1920,
		height:         1080,
		aaSamples:      3,
		start:          1,
		end:            24,
		current:        1,
		driverHost:     DefaultDriverHost,
		driverPort:     DefaultDriverPort,
	}
	s.AddCamera("persp", "perspShape", true)
	s.activeCamera = "persp"
	return s
}

func (s *Scene) SetActiveRenderer(active bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.activeRenderer = active
}

func (s *Scene) IsActiveRenderer() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.activeRenderer
}

// AddCamera registers a camera transform and its shape.
func (s *Scene) AddCamera(name string, shape interop.NodeID, visible bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.cameras[name] = &camera{shape: shape, visible: visible}
}

// SetActiveCamera selects the viewport camera; an empty name leaves the
// viewport without one.
func (s *Scene) SetActiveCamera(name string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.activeCamera = name
}

func (s *Scene) ActiveCamera() (interop.NodeID, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	cam, ok := s.cameras[s.activeCamera]
	if !ok {
		return "", interop.ErrInvalidCamera
	}
	return cam.shape, nil
}

func (s *Scene) Cameras() []string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	names := make([]string, 0, len(s.cameras))
	for name := range s.cameras {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Scene) ResolveCamera(name string) (interop.NodeID, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if cam, ok := s.cameras[name]; ok {
		return cam.shape, nil
	}
	// shapes resolve to themselves
	for _, cam := range s.cameras {
		if string(cam.shape) == name {
			return cam.shape, nil
		}
	}
	return "", fmt.Errorf("%w: %s", interop.ErrInvalidCamera, name)
}

func (s *Scene) SetResolution(width, height int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.width, s.height = width, height
}

func (s *Scene) Resolution() (int, int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.width, s.height
}

func (s *Scene) AASamples() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.aaSamples
}

func (s *Scene) SetIgnoreDefaults(ignore interop.IgnoreDefaults) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.ignore = ignore
}

func (s *Scene) IgnoreDefaults() interop.IgnoreDefaults {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.ignore
}

func (s *Scene) SetFrameRange(start, end int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.start, s.end = start, end
}

func (s *Scene) FrameRange() (int, int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.start, s.end
}

func (s *Scene) CurrentFrame() float64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.current
}

// SetCurrentFrame moves the timeline and fires TimeChanged.
func (s *Scene) SetCurrentFrame(frame float64) {
	s.mutex.Lock()
	s.current = frame
	events := s.Events
	s.mutex.Unlock()

	if events != nil {
		events.Fire(interop.TimeChanged)
	}
}

func (s *Scene) HiddenCameras() []interop.NodeID {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	var hidden []interop.NodeID
	for _, cam := range s.cameras {
		if !cam.visible {
			hidden = append(hidden, cam.shape)
		}
	}
	sort.Slice(hidden, func(i, j int) bool { return hidden[i] < hidden[j] })
	return hidden
}

func (s *Scene) SetCameraVisible(shape interop.NodeID, visible bool) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for _, cam := range s.cameras {
		if cam.shape == shape {
			cam.visible = visible
			return nil
		}
	}
	return fmt.Errorf("%w: %s", interop.ErrInvalidCamera, shape)
}

// CameraVisible reports the visibility of a camera shape.
func (s *Scene) CameraVisible(shape interop.NodeID) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for _, cam := range s.cameras {
		if cam.shape == shape {
			return cam.visible
		}
	}
	return false
}

func (s *Scene) Selection() []interop.NodeID {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return append([]interop.NodeID(nil), s.selection...)
}

// Select replaces the selection and fires SelectionChanged.
func (s *Scene) Select(nodes ...interop.NodeID) {
	s.mutex.Lock()
	s.selection = append([]interop.NodeID(nil), nodes...)
	events := s.Events
	s.mutex.Unlock()

	if events != nil {
		events.Fire(interop.SelectionChanged)
	}
}

func (s *Scene) SetDriverDefaults(host string, port int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.driverHost, s.driverPort = host, port
}

func (s *Scene) DriverDefaults() (string, int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.driverHost, s.driverPort
}
