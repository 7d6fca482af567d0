// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package standalone

import (
	"encoding/json"
	"net/http"

	"go.aton.dev/ipr/overrides"
)

type sequenceStartRequest struct {
	// Frames wins over Range when both are set.
	Frames []int               `json:"frames"`
	Range  *overrides.Sequence `json:"range"`
}

// SequenceStartHandler starts rendering explicit frames, a range, or the
// sequence range of the session's current overrides.
func SequenceStartHandler(w http.ResponseWriter, r *http.Request, s SessionServer, seq SequenceServer) {
	req := sequenceStartRequest{}
	if lerr := readBodyAndUnmarshalJSON(r, &req); lerr != nil {
		lerr.Send(w, r)
		return
	}

	frames := req.Frames
	if len(frames) == 0 {
		rng := s.Current().Sequence
		if req.Range != nil {
			rng = *req.Range
		}
		var err error
		if frames, err = rng.Frames(); err != nil {
			newErrorReplyFromError(err).Send(w, r)
			return
		}
	}

	if err := seq.Start(frames); err != nil {
		newErrorReplyFromError(err).Send(w, r)
		return
	}
	writeSequenceState(w, seq)
}

func SequenceStopHandler(w http.ResponseWriter, r *http.Request, seq SequenceServer) {
	seq.Stop()
	writeSequenceState(w, seq)
}

func writeSequenceState(w http.ResponseWriter, seq SequenceServer) {
	desc := seq.Description()
	bytes, err := json.Marshal(&desc)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Write(bytes)
}
