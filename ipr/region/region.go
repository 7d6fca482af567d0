// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package region

import "fmt"

// Box is a raw render region in full (unscaled) resolution pixels,
// origin bottom-left as Nuke reports it: X/Y is the lower-left corner,
// R/T the upper-right one.
type Box struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
	R int `json:"r" yaml:"r"`
	T int `json:"t" yaml:"t"`
}

// Full returns the box covering the whole base frame.
func Full(width, height int) Box {
	return Box{X: 0, Y: 0, R: width, T: height}
}

// Rect is an engine-space region. Max bounds are inclusive.
type Rect struct {
	XRes int `json:"xres"`
	YRes int `json:"yres"`
	MinX int `json:"minX"`
	MinY int `json:"minY"`
	MaxX int `json:"maxX"`
	MaxY int `json:"maxY"`
}

// FullFrame returns the rectangle covering every pixel of an xres*yres image.
func FullFrame(xres, yres int) Rect {
	return Rect{XRes: xres, YRes: yres, MinX: 0, MinY: 0, MaxX: xres - 1, MaxY: yres - 1}
}

// Valid reports whether the rectangle lies inside the image and is not inverted.
func (r Rect) Valid() bool {
	if r.MinX < 0 || r.MinY < 0 {
		return false
	}
	if r.MaxX > r.XRes-1 || r.MaxY > r.YRes-1 {
		return false
	}
	return r.MinX <= r.MaxX && r.MinY <= r.MaxY
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d [%d,%d %d,%d]", r.XRes, r.YRes, r.MinX, r.MinY, r.MaxX, r.MaxY)
}

// Scale applies a resolution percentage to a full resolution value.
func Scale(v, percent int) int {
	return v * percent / 100
}

// ScaleResolution is Scale for image dimensions, which never drop below one pixel.
func ScaleResolution(v, percent int) int {
	if s := Scale(v, percent); s > 0 {
		return s
	}
	return 1
}

// Compute converts a raw region box into an engine region for the scaled
// output resolution. Regions that would fall outside the scaled image, or
// that end up inverted, are replaced by the full frame.
func Compute(baseWidth, baseHeight, percent int, raw Box, overscan int) Rect {
	xres := ScaleResolution(baseWidth, percent)
	yres := ScaleResolution(baseHeight, percent)
	ovr := Scale(overscan, percent)

	rect := Rect{
		XRes: xres,
		YRes: yres,
		MinX: Scale(raw.X, percent) - ovr,
		MinY: yres - Scale(raw.T, percent) - ovr,
		MaxX: Scale(raw.R, percent) - 1 + ovr,
		MaxY: yres - Scale(raw.Y, percent) - 1 + ovr,
	}

	if !rect.Valid() {
		return FullFrame(xres, yres)
	}
	return rect
}
