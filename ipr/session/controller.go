// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"

	"go.aton.dev/ipr/core"
	"go.aton.dev/ipr/core/statejson"
	"go.aton.dev/ipr/interop"
	"go.aton.dev/ipr/overrides"
	"go.aton.dev/ipr/region"
	"go.aton.dev/ipr/shading"
	"go.aton.dev/ipr/telemetry"
)

// SequenceStopper is a frame sequence attached to the session. Stopping the
// session stops the sequence at its next poll boundary and detaches it.
type SequenceStopper interface {
	Stop()
}

// Controller owns the lifecycle of the IPR session and is the only writer of
// engine state. Every mutation of a running session is bracketed by
// pause/unpause. Calls from the control API, host callbacks and the frame
// sequencer are serialized by mutex, which is never held while waiting for
// a frame to render.
type Controller struct {
	mutex sync.Mutex

	engine     interop.Engine
	scene      interop.Scene
	driver     interop.DisplayDriver
	hostEvents interop.HostEvents
	eventsAPI  telemetry.EventsAPI
	translator string
	clock      clockwork.Clock

	lifecycle *core.Lifecycle
	shading   *shading.Manager

	subs      *subscriptions
	saved     *interop.DriverSettings
	current   overrides.OverrideSet
	camera    interop.NodeID
	rect      region.Rect
	sessionID string
	sequence  SequenceStopper
}

// Running reports whether a session is running.
func (c *Controller) Running() bool {
	return c.lifecycle.Running()
}

// Current returns the most recently applied override set.
func (c *Controller) Current() overrides.OverrideSet {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.current
}

// Start opens a session with o and performs the full override application.
// Any failure leaves the controller Idle with host callbacks, camera
// visibility and driver configuration restored.
func (c *Controller) Start(o overrides.OverrideSet) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.startUnsafe(o)
}

func (c *Controller) startUnsafe(o overrides.OverrideSet) error {
	if c.lifecycle.Running() {
		return interop.ErrSessionRunning
	}
	if err := o.Validate(); err != nil {
		return err
	}
	if !c.scene.IsActiveRenderer() || !c.engine.Available() {
		return interop.ErrEngineUnavailable
	}

	camera, err := c.resolveCamera(o.Camera)
	if err != nil {
		return err
	}

	saved, err := c.driver.Settings()
	if err != nil {
		return err
	}
	if err := c.driver.Apply(c.sessionDriverSettings(saved, o.Driver)); err != nil {
		return err
	}

	subs, err := subscribe(c.hostEvents, map[interop.EventKind]func(){
		interop.TimeChanged:      c.onTimeChanged,
		interop.SelectionChanged: c.onSelectionChanged,
	})
	if err != nil {
		c.restoreDriver(saved)
		return fmt.Errorf("subscribing to host events: %w", err)
	}

	hidden := c.showCameras()
	rollback := func() {
		subs.release()
		c.hideCameras(hidden)
		c.restoreDriver(saved)
	}

	width, height := c.scene.Resolution()
	xres := region.ScaleResolution(width, o.Resolution)
	yres := region.ScaleResolution(height, o.Resolution)
	if err := c.engine.SessionStart(camera, xres, yres); err != nil {
		rollback()
		return fmt.Errorf("starting session: %w", err)
	}
	c.camera = camera

	err = c.applyUnsafe(o, overrides.ApplicationOrder, true)
	if err == nil {
		err = c.pushFrameUnsafe(c.scene.CurrentFrame())
	}
	if err != nil {
		if stopErr := c.engine.SessionStop(); stopErr != nil {
			log.WithError(stopErr).Warn("Failed to stop session after failed start")
		}
		c.shading.Reset()
		rollback()
		return err
	}

	c.hideCameras(hidden)
	c.restoreDriver(saved)

	c.subs = subs
	c.saved = &saved
	c.current = o
	c.sessionID = uuid.New().String()
	if err := c.lifecycle.Start(); err != nil {
		log.WithError(err).Panic("Session state transition failed")
	}

	log.Infof("IPR session %s started: camera=%s %s", c.sessionID, camera, c.rect)
	if err := c.eventsAPI.SendSessionStarted(telemetry.SessionStartedData{
		SessionID: c.sessionID,
		Camera:    string(camera),
		Width:     xres,
		Height:    yres,
	}); err != nil {
		log.WithError(err).Warn("Failed to send session started event")
	}
	return nil
}

// ApplyOverrides pushes one group of o (every group for GroupAll) to the
// running session. Only the applied groups replace the values of Current.
// It is a no-op while Idle.
func (c *Controller) ApplyOverrides(o overrides.OverrideSet, group overrides.Group) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if !c.lifecycle.Running() {
		log.Debugf("Ignoring %s overrides, no session running", group)
		return nil
	}

	groups := group.Groups()
	merged := overrides.Merge(c.current, o, groups)
	if err := merged.Validate(); err != nil {
		return err
	}
	if err := c.applyUnsafe(merged, groups, false); err != nil {
		return err
	}
	c.current = merged

	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.String()
	}
	if err := c.eventsAPI.SendOverridesApplied(telemetry.OverridesAppliedData{
		SessionID: c.sessionID,
		Groups:    names,
	}); err != nil {
		log.WithError(err).Warn("Failed to send overrides applied event")
	}
	return nil
}

// PushFrame moves the running session to frame. It is a no-op while Idle.
func (c *Controller) PushFrame(frame float64) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if !c.lifecycle.Running() {
		return nil
	}
	return c.pushFrameUnsafe(frame)
}

// PushSequenceFrame moves the session to frame if it is still the session
// identified by sessionID.
func (c *Controller) PushSequenceFrame(sessionID string, frame float64) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if !c.isSessionUnsafe(sessionID) {
		return interop.ErrSessionNotRunning
	}
	return c.pushFrameUnsafe(frame)
}

// Stop tears the session down. It is idempotent.
func (c *Controller) Stop() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.stopUnsafe()
	return nil
}

// StopSession stops the session identified by sessionID and reports whether
// it did. A session stopped earlier, or replaced by a newer one, is left
// alone.
func (c *Controller) StopSession(sessionID string) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if !c.isSessionUnsafe(sessionID) {
		return false
	}
	return c.stopUnsafe()
}

func (c *Controller) isSessionUnsafe(sessionID string) bool {
	return c.lifecycle.Running() && c.sessionID == sessionID
}

func (c *Controller) stopUnsafe() bool {
	c.subs.release()
	c.subs = nil

	if c.sequence != nil {
		c.sequence.Stop()
		c.sequence = nil
	}

	if !c.lifecycle.Running() {
		return false
	}

	if err := c.engine.SessionStop(); err != nil {
		log.WithError(err).Warn("Engine failed to stop session")
	}
	c.shading.Reset()
	if c.saved != nil {
		c.restoreDriver(*c.saved)
	}
	if err := c.lifecycle.Stop(); err != nil {
		log.WithError(err).Panic("Session state transition failed")
	}

	log.Infof("IPR session %s stopped", c.sessionID)
	if err := c.eventsAPI.SendSessionStopped(telemetry.SessionStoppedData{SessionID: c.sessionID}); err != nil {
		log.WithError(err).Warn("Failed to send session stopped event")
	}
	return true
}

// Restart stops a running session and starts a new one with o. No other
// call can run between the two.
func (c *Controller) Restart(o overrides.OverrideSet) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.stopUnsafe()
	return c.startUnsafe(o)
}

// SessionID returns the id of the running session, "" while Idle.
func (c *Controller) SessionID() string {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if !c.lifecycle.Running() {
		return ""
	}
	return c.sessionID
}

// AttachSequence ties a frame sequence to the session identified by
// sessionID and turns progressive rendering off for it. Stopping the
// session restores the driver settings saved at start, progressive flag
// included.
func (c *Controller) AttachSequence(sessionID string, sequence SequenceStopper) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if !c.isSessionUnsafe(sessionID) {
		return interop.ErrSessionNotRunning
	}
	if c.sequence != nil && c.sequence != sequence {
		return interop.ErrSequenceRunning
	}

	settings, err := c.driver.Settings()
	if err != nil {
		return err
	}
	settings.Progressive = false
	if err := c.driver.Apply(settings); err != nil {
		return err
	}
	c.sequence = sequence
	return nil
}

// DetachSequence removes sequence if it is still attached.
func (c *Controller) DetachSequence(sequence SequenceStopper) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.sequence == sequence {
		c.sequence = nil
	}
}

// Description returns the session state for the control API.
func (c *Controller) Description() statejson.SessionDescription {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	desc := statejson.SessionDescription{State: c.lifecycle.GetDescription()}
	if !c.lifecycle.Running() {
		return desc
	}
	desc.SessionID = c.sessionID
	desc.Camera = string(c.camera)
	desc.Resolution = fmt.Sprintf("%dx%d", c.rect.XRes, c.rect.YRes)
	desc.Region = &statejson.RegionDescription{
		XRes: c.rect.XRes,
		YRes: c.rect.YRes,
		MinX: c.rect.MinX,
		MinY: c.rect.MinY,
		MaxX: c.rect.MaxX,
		MaxY: c.rect.MaxY,
	}
	desc.Shader = c.current.Shader.String()
	return desc
}

func (c *Controller) onTimeChanged() {
	if err := c.PushFrame(c.scene.CurrentFrame()); err != nil {
		log.WithError(err).Warn("Failed to update frame")
	}
}

func (c *Controller) onSelectionChanged() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if !c.lifecycle.Running() {
		return
	}
	o := c.current
	if o.Shader == overrides.ShaderDisabled || o.ShaderScope != overrides.ScopeSelectedOnly {
		return
	}
	if err := c.applyUnsafe(o, []overrides.Group{overrides.GroupShader}, false); err != nil {
		log.WithError(err).Warn("Failed to apply shader override to selection")
	}
}

func (c *Controller) sessionDriverSettings(saved interop.DriverSettings, cfg overrides.DriverConfig) interop.DriverSettings {
	host, port := c.scene.DriverDefaults()
	cfg = cfg.Resolve(host, port)

	settings := saved
	settings.Translator = c.translator
	settings.Host = cfg.Host
	settings.Port = cfg.Port
	if cfg.ExtraHost != "" {
		settings.ExtraHost = cfg.ExtraHost
	}
	return settings
}

func (c *Controller) restoreDriver(saved interop.DriverSettings) {
	if err := c.driver.Apply(saved); err != nil {
		log.WithError(err).Warn("Failed to restore display driver settings")
	}
}

// showCameras makes hidden cameras visible so the engine can resolve them
// and returns the cameras that were changed.
func (c *Controller) showCameras() []interop.NodeID {
	var shown []interop.NodeID
	for _, cam := range c.scene.HiddenCameras() {
		if err := c.scene.SetCameraVisible(cam, true); err != nil {
			log.WithError(err).Warnf("Failed to show camera %s", cam)
			continue
		}
		shown = append(shown, cam)
	}
	return shown
}

func (c *Controller) hideCameras(cameras []interop.NodeID) {
	for _, cam := range cameras {
		if err := c.scene.SetCameraVisible(cam, false); err != nil {
			log.WithError(err).Warnf("Failed to hide camera %s", cam)
		}
	}
}

func (c *Controller) resolveCamera(name string) (interop.NodeID, error) {
	var (
		camera interop.NodeID
		err    error
	)
	if name == overrides.ActiveCamera {
		camera, err = c.scene.ActiveCamera()
	} else {
		camera, err = c.scene.ResolveCamera(name)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", interop.ErrInvalidCamera, name, err)
	}
	return camera, nil
}
