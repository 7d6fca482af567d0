// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package region

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	nukeCopyHeader = "set cut_paste_input [stack 0]"
	nukeCropNode   = "Crop {"
	nukeBoxOpen    = "box {"
	nukeBoxClose   = "}"
)

// ErrNotNukeCrop returned when clipboard text is not a copied Nuke Crop node
var ErrNotNukeCrop = errors.New("NotNukeCrop")

// ParseNukeCrop extracts the crop box from a Nuke Crop node copied to the
// clipboard. Nuke writes the paste header on the first line, the node on
// the fourth and its box knob on the fifth.
func ParseNukeCrop(text string) (Box, error) {
	lines := strings.SplitN(text, "\n", 11)
	if len(lines) < 5 {
		return Box{}, ErrNotNukeCrop
	}
	if !strings.Contains(lines[0], nukeCopyHeader) || !strings.Contains(lines[3], nukeCropNode) {
		return Box{}, ErrNotNukeCrop
	}

	knob := lines[4]
	start := strings.Index(knob, nukeBoxOpen)
	if start < 0 {
		return Box{}, ErrNotNukeCrop
	}
	knob = knob[start+len(nukeBoxOpen):]
	end := strings.Index(knob, nukeBoxClose)
	if end < 0 {
		return Box{}, ErrNotNukeCrop
	}

	fields := strings.Fields(knob[:end])
	if len(fields) != 4 {
		return Box{}, fmt.Errorf("%w: box has %d values", ErrNotNukeCrop, len(fields))
	}

	var values [4]int
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Box{}, fmt.Errorf("%w: %s", ErrNotNukeCrop, err)
		}
		values[i] = int(v)
	}

	return Box{X: values[0], Y: values[1], R: values[2], T: values[3]}, nil
}
