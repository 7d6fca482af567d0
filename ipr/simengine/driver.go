// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package simengine

import (
	"sync"

	"go.aton.dev/ipr/interop"
)

// typecheck interface compliance
var _ interop.DisplayDriver = (*Driver)(nil)

// Driver is an in-memory display driver configuration that keeps every
// applied configuration.
type Driver struct {
	mutex     sync.Mutex
	installed bool
	settings  interop.DriverSettings
	history   []interop.DriverSettings
}

// NewDriver returns an installed driver writing EXR files with
// progressive rendering enabled.
func NewDriver() *Driver {
	return &Driver{
		installed: true,
		settings: interop.DriverSettings{
			Translator:  "exr",
			Host:        DefaultDriverHost,
			Port:        DefaultDriverPort,
			MergeAOVs:   true,
			Progressive: true,
		},
	}
}

// SetInstalled toggles whether the driver attribute exists.
func (d *Driver) SetInstalled(installed bool) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.installed = installed
}

func (d *Driver) Settings() (interop.DriverSettings, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if !d.installed {
		return interop.DriverSettings{}, interop.ErrDriverNotInstalled
	}
	return d.settings, nil
}

func (d *Driver) Apply(settings interop.DriverSettings) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if !d.installed {
		return interop.ErrDriverNotInstalled
	}
	d.settings = settings
	d.history = append(d.history, settings)
	return nil
}

// History returns every applied configuration in order.
func (d *Driver) History() []interop.DriverSettings {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return append([]interop.DriverSettings(nil), d.history...)
}
