// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package standalone

import (
	"net/http"

	"go.aton.dev/ipr/interop"
	"go.aton.dev/ipr/overrides"
)

func writeSessionState(w http.ResponseWriter, s SessionServer, seq SequenceServer) {
	desc := s.Description()
	seqDesc := seq.Description()
	if seq.Running() || seqDesc.Total > 0 {
		desc.Sequence = &seqDesc
	}
	w.Write(desc.AsJSON())
}

func SessionStateHandler(w http.ResponseWriter, r *http.Request, s SessionServer, seq SequenceServer) {
	writeSessionState(w, s, seq)
}

// requestedOverrides decodes the body onto the scene defaults, so clients
// only send the values they change.
func requestedOverrides(r *http.Request, scene interop.Scene) (overrides.OverrideSet, *ErrorReply) {
	o := overrides.Defaults(scene)
	if lerr := readBodyAndUnmarshalJSON(r, &o); lerr != nil {
		return o, lerr
	}
	return o, nil
}

// startRequestedSequence starts the sequence of o when it is enabled. A run
// of the previous session may still be winding down and is waited for.
func startRequestedSequence(r *http.Request, o overrides.OverrideSet, seq SequenceServer) error {
	if !o.Sequence.Enabled {
		return nil
	}
	frames, err := o.Sequence.Frames()
	if err != nil {
		return err
	}
	if err := seq.Wait(r.Context()); err != nil {
		return err
	}
	return seq.Start(frames)
}

func StartHandler(w http.ResponseWriter, r *http.Request, s SessionServer, seq SequenceServer, scene interop.Scene) {
	o, lerr := requestedOverrides(r, scene)
	if lerr != nil {
		lerr.Send(w, r)
		return
	}
	if err := s.Start(o); err != nil {
		newErrorReplyFromError(err).Send(w, r)
		return
	}
	if err := startRequestedSequence(r, o, seq); err != nil {
		newErrorReplyFromError(err).Send(w, r)
		return
	}
	writeSessionState(w, s, seq)
}

func RestartHandler(w http.ResponseWriter, r *http.Request, s SessionServer, seq SequenceServer, scene interop.Scene) {
	o, lerr := requestedOverrides(r, scene)
	if lerr != nil {
		lerr.Send(w, r)
		return
	}
	if err := s.Restart(o); err != nil {
		newErrorReplyFromError(err).Send(w, r)
		return
	}
	if err := startRequestedSequence(r, o, seq); err != nil {
		newErrorReplyFromError(err).Send(w, r)
		return
	}
	writeSessionState(w, s, seq)
}

func StopHandler(w http.ResponseWriter, r *http.Request, s SessionServer, seq SequenceServer) {
	if err := s.Stop(); err != nil {
		newErrorReplyFromError(err).Send(w, r)
		return
	}
	writeSessionState(w, s, seq)
}
