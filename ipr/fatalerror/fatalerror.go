// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package fatalerror

import (
	"errors"

	"go.aton.dev/ipr/core"
	"go.aton.dev/ipr/interop"
	"go.aton.dev/ipr/overrides"
	"go.aton.dev/ipr/region"
)

// ErrorType is returned to control API clients in error replies
type ErrorType string

const (
	EngineUnavailable  ErrorType = "Engine.Unavailable"
	EngineBusy         ErrorType = "Engine.Busy"
	DriverNotInstalled ErrorType = "Driver.NotInstalled"
	SessionNotRunning  ErrorType = "Session.NotRunning"
	SessionRunning     ErrorType = "Session.AlreadyRunning"
	InvalidCamera      ErrorType = "Session.InvalidCamera"
	InvalidOverrides   ErrorType = "Overrides.Invalid"
	SequenceRunning    ErrorType = "Sequence.AlreadyRunning"
	NoFrames           ErrorType = "Sequence.NoFrames"
	NotNukeCrop        ErrorType = "Region.NotNukeCrop"
	InvalidTransition  ErrorType = "State.TransitionNotAllowed"
	Unknown            ErrorType = "Unknown"
)

var knownErrors = []struct {
	err       error
	errorType ErrorType
}{
	{interop.ErrEngineUnavailable, EngineUnavailable},
	{interop.ErrEngineBusy, EngineBusy},
	{interop.ErrDriverNotInstalled, DriverNotInstalled},
	{interop.ErrSessionNotRunning, SessionNotRunning},
	{interop.ErrSessionRunning, SessionRunning},
	{interop.ErrInvalidCamera, InvalidCamera},
	{interop.ErrSequenceRunning, SequenceRunning},
	{interop.ErrNoFrames, NoFrames},
	{overrides.ErrInvalidOverrides, InvalidOverrides},
	{region.ErrNotNukeCrop, NotNukeCrop},
	{core.ErrNotAllowed, InvalidTransition},
}

// GetErrorType maps an error chain to its ErrorType, Unknown if none matches.
func GetErrorType(err error) ErrorType {
	for _, known := range knownErrors {
		if errors.Is(err, known.err) {
			return known.errorType
		}
	}
	return Unknown
}
