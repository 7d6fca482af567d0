// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package standalone

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/render"

	"go.aton.dev/ipr/region"
)

// NukeRegionHandler converts a copied Nuke Crop node into a region box.
func NukeRegionHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		newErrorReply(ClientInvalidRequest, fmt.Sprintf("Failed to read full body: %s", err)).Send(w, r)
		return
	}
	box, err := region.ParseNukeCrop(string(body))
	if err != nil {
		newErrorReplyFromError(err).Send(w, r)
		return
	}
	render.JSON(w, r, &box)
}
