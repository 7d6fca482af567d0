// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"go.aton.dev/ipr/interop"
	"go.aton.dev/ipr/overrides"
	"go.aton.dev/ipr/region"
)

func (c *Controller) pause() error {
	if err := c.engine.SessionPause(); err != nil {
		log.WithError(err).Warn("Engine refused to pause")
		return fmt.Errorf("%w: pause: %v", interop.ErrEngineBusy, err)
	}
	return nil
}

func (c *Controller) unpause() error {
	if err := c.engine.SessionUnpause(); err != nil {
		log.WithError(err).Warn("Engine refused to unpause")
		return fmt.Errorf("%w: unpause: %v", interop.ErrEngineBusy, err)
	}
	return nil
}

// applyUnsafe writes groups inside a pause/unpause bracket. The engine is
// unpaused even when a group fails. initial marks the full application
// right after start, the only pass that captures original shaders.
func (c *Controller) applyUnsafe(o overrides.OverrideSet, groups []overrides.Group, initial bool) error {
	if err := c.pause(); err != nil {
		return err
	}
	applyErr := c.applyGroupsUnsafe(o, groups, initial)
	if err := c.unpause(); err != nil && applyErr == nil {
		applyErr = err
	}
	return applyErr
}

func (c *Controller) pushFrameUnsafe(frame float64) error {
	if err := c.pause(); err != nil {
		return err
	}
	setErr := c.engine.SetFloat(interop.OptionFrame, frame)
	if setErr != nil {
		setErr = fmt.Errorf("setting frame %v: %w", frame, setErr)
	}
	if err := c.unpause(); err != nil && setErr == nil {
		setErr = err
	}
	return setErr
}

func (c *Controller) applyGroupsUnsafe(o overrides.OverrideSet, groups []overrides.Group, initial bool) error {
	for _, g := range groups {
		if err := c.applyGroupUnsafe(o, g, initial); err != nil {
			return fmt.Errorf("applying %s overrides: %w", g, err)
		}
	}
	return nil
}

func (c *Controller) applyGroupUnsafe(o overrides.OverrideSet, g overrides.Group, initial bool) error {
	switch g {
	case overrides.GroupCamera:
		camera, err := c.resolveCamera(o.Camera)
		if err != nil {
			return err
		}
		if err := c.engine.SetNode(interop.OptionCamera, camera); err != nil {
			return err
		}
		c.camera = camera
		return nil

	case overrides.GroupResolution:
		width, height := c.scene.Resolution()
		rect := region.Compute(width, height, o.Resolution, o.Region, o.Overscan)
		ints := []struct {
			opt   interop.Option
			value int
		}{
			{interop.OptionXRes, rect.XRes},
			{interop.OptionYRes, rect.YRes},
			{interop.OptionRegionMinX, rect.MinX},
			{interop.OptionRegionMinY, rect.MinY},
			{interop.OptionRegionMaxX, rect.MaxX},
			{interop.OptionRegionMaxY, rect.MaxY},
		}
		for _, v := range ints {
			if err := c.engine.SetInt(v.opt, v.value); err != nil {
				return err
			}
		}
		c.rect = rect
		return nil

	case overrides.GroupAASamples:
		return c.engine.SetInt(interop.OptionAASamples, o.AASamples)

	case overrides.GroupIgnore:
		bools := []struct {
			opt   interop.Option
			value bool
		}{
			{interop.OptionIgnoreMotionBlur, o.Ignore.MotionBlur},
			{interop.OptionIgnoreSubdivision, o.Ignore.Subdivision},
			{interop.OptionIgnoreDisplacement, o.Ignore.Displacement},
			{interop.OptionIgnoreBump, o.Ignore.Bump},
			{interop.OptionIgnoreSSS, o.Ignore.SSS},
		}
		for _, v := range bools {
			if err := c.engine.SetBool(v.opt, v.value); err != nil {
				return err
			}
		}
		return nil

	case overrides.GroupShader:
		if initial {
			c.shading.Capture()
		}
		return c.shading.Apply(o.Shader, o.ShaderScope, c.scene.Selection())

	case overrides.GroupTextureRepeat:
		return c.shading.SetTextureRepeat(o.TextureRepeat)

	case overrides.GroupAll:
		return c.applyGroupsUnsafe(o, overrides.ApplicationOrder, initial)
	}
	return fmt.Errorf("unknown override group %d", int(g))
}
