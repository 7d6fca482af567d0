// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

// String values of possible lifecycle states
const (
	IdleStateName    = "Idle"
	RunningStateName = "Running"
)
