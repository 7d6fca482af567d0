// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package standalone

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/render"

	"go.aton.dev/ipr/fatalerror"
)

// ClientInvalidRequest is reported for requests that cannot be decoded.
const ClientInvalidRequest = fatalerror.ErrorType("Client.InvalidRequest")

// ErrorResponse is the body of every failed control API request.
type ErrorResponse struct {
	ErrorMessage string `json:"errorMessage"`
	ErrorType    string `json:"errorType"`
}

type ErrorReply struct {
	ErrorResponse
	status int
}

func newErrorReply(errType fatalerror.ErrorType, errMsg string) *ErrorReply {
	return &ErrorReply{
		ErrorResponse: ErrorResponse{ErrorType: string(errType), ErrorMessage: errMsg},
		status:        statusFor(errType),
	}
}

// newErrorReplyFromError classifies err through fatalerror.
func newErrorReplyFromError(err error) *ErrorReply {
	return newErrorReply(fatalerror.GetErrorType(err), err.Error())
}

func (e *ErrorReply) Send(w http.ResponseWriter, r *http.Request) {
	render.Status(r, e.status)
	render.JSON(w, r, &e.ErrorResponse)
}

func statusFor(errType fatalerror.ErrorType) int {
	switch errType {
	case ClientInvalidRequest,
		fatalerror.InvalidOverrides,
		fatalerror.InvalidCamera,
		fatalerror.NoFrames,
		fatalerror.NotNukeCrop:
		return http.StatusBadRequest
	case fatalerror.SessionRunning,
		fatalerror.SessionNotRunning,
		fatalerror.SequenceRunning,
		fatalerror.InvalidTransition:
		return http.StatusConflict
	case fatalerror.EngineUnavailable,
		fatalerror.EngineBusy,
		fatalerror.DriverNotInstalled:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// readBodyAndUnmarshalJSON decodes the body onto dst. An empty body leaves
// dst untouched.
func readBodyAndUnmarshalJSON(r *http.Request, dst interface{}) *ErrorReply {
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		return newErrorReply(ClientInvalidRequest, fmt.Sprintf("Failed to read full body: %s", err))
	}
	if len(bytes.TrimSpace(bodyBytes)) == 0 {
		return nil
	}

	if err = json.Unmarshal(bodyBytes, dst); err != nil {
		return newErrorReply(ClientInvalidRequest, fmt.Sprintf("Invalid json %s: %s", string(bodyBytes), err))
	}

	return nil
}
