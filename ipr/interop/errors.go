// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package interop

import "errors"

// ErrEngineUnavailable returned when the active renderer is not the engine or its API is unreachable
var ErrEngineUnavailable = errors.New("EngineUnavailable")

// ErrDriverNotInstalled returned when the display driver attribute is missing
var ErrDriverNotInstalled = errors.New("DriverNotInstalled")

// ErrSessionNotRunning returned when a mutation is requested while no session is running
var ErrSessionNotRunning = errors.New("SessionNotRunning")

// ErrSessionRunning returned when a session is started twice
var ErrSessionRunning = errors.New("SessionAlreadyRunning")

// ErrInvalidCamera returned when the selected camera cannot be resolved to a renderable shape
var ErrInvalidCamera = errors.New("InvalidCamera")

// ErrEngineBusy returned when the engine refuses to pause or unpause
var ErrEngineBusy = errors.New("EngineBusy")

// ErrShaderUnresolved returned by engines for shapes without a resolvable shading assignment
var ErrShaderUnresolved = errors.New("ShaderUnresolved")

// ErrSequenceRunning returned when a sequence is started twice
var ErrSequenceRunning = errors.New("SequenceAlreadyRunning")

// ErrNoFrames returned when a sequence is started with an empty frame list
var ErrNoFrames = errors.New("NoFrames")
