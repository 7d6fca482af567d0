// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package standalone

import (
	"net/http"

	"github.com/go-chi/chi"

	"go.aton.dev/ipr/interop"
	"go.aton.dev/ipr/overrides"
)

// OverridesHandler applies one override group to the running session. The
// body is decoded onto the session's current overrides.
func OverridesHandler(w http.ResponseWriter, r *http.Request, s SessionServer, seq SequenceServer, scene interop.Scene) {
	group, err := overrides.ParseGroup(chi.URLParam(r, "group"))
	if err != nil {
		newErrorReplyFromError(err).Send(w, r)
		return
	}
	if !s.Running() {
		newErrorReplyFromError(interop.ErrSessionNotRunning).Send(w, r)
		return
	}

	o := s.Current()
	if lerr := readBodyAndUnmarshalJSON(r, &o); lerr != nil {
		lerr.Send(w, r)
		return
	}
	if err := s.ApplyOverrides(o, group); err != nil {
		newErrorReplyFromError(err).Send(w, r)
		return
	}
	writeSessionState(w, s, seq)
}
