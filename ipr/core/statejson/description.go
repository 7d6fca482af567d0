// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package statejson

import (
	"encoding/json"

	log "github.com/sirupsen/logrus"
)

// StateDescription ...
type StateDescription struct {
	Name         string `json:"name"`
	LastModified int64  `json:"lastModified"`
}

// RegionDescription is the engine region of the last applied overrides.
type RegionDescription struct {
	XRes int `json:"xres"`
	YRes int `json:"yres"`
	MinX int `json:"minX"`
	MinY int `json:"minY"`
	MaxX int `json:"maxX"`
	MaxY int `json:"maxY"`
}

// SequenceDescription ...
type SequenceDescription struct {
	State   StateDescription `json:"state"`
	Total   int              `json:"total"`
	Stepped int              `json:"stepped"`
	Frame   int              `json:"frame"`
}

// SessionDescription describes the preview session for debugging and the
// control API.
type SessionDescription struct {
	State      StateDescription     `json:"state"`
	SessionID  string               `json:"sessionId,omitempty"`
	Camera     string               `json:"camera,omitempty"`
	Resolution string               `json:"resolution,omitempty"`
	Region     *RegionDescription   `json:"region,omitempty"`
	Shader     string               `json:"shader,omitempty"`
	Sequence   *SequenceDescription `json:"sequence,omitempty"`
}

func (s *SessionDescription) AsJSON() []byte {
	bytes, err := json.Marshal(s)
	if err != nil {
		log.Panicf("Failed to marshall session description: %s", err)
	}
	return bytes
}
