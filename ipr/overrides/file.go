// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package overrides

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Decode reads a YAML override document. Keys missing from the document keep
// the values of base, so a document only needs to list what it overrides.
func Decode(r io.Reader, base OverrideSet) (OverrideSet, error) {
	set := base
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&set); err != nil && err != io.EOF {
		return base, fmt.Errorf("%w: %s", ErrInvalidOverrides, err)
	}
	if err := set.Validate(); err != nil {
		return base, err
	}
	return set, nil
}

// Load reads and validates the override document at path.
func Load(path string, base OverrideSet) (OverrideSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, err
	}
	return Decode(bytes.NewReader(data), base)
}

// Save writes the override set as a YAML document.
func Save(path string, set OverrideSet) error {
	data, err := yaml.Marshal(&set)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
