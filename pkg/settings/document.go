// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package settings reconstructs a function app's local settings file from its
// deployed configuration.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
)

// FileName is the well-known name the Functions host and Core Tools use for
// local configuration.
const FileName = "local.settings.json"

// Document is the structured form of a local.settings.json file. Substitution
// happens on individual value strings, never on the raw document text, so a
// pattern can not match across field boundaries.
type Document struct {
	IsEncrypted       bool              `json:"IsEncrypted"`
	Values            map[string]string `json:"Values"`
	ConnectionStrings map[string]string `json:"ConnectionStrings,omitempty"`
	Host              map[string]any    `json:"Host,omitempty"`
}

func Load(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading settings file: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("parsing settings file %s: %w", path, err)
	}

	return &doc, nil
}

func (d *Document) Save(path string) error {
	content, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing settings: %w", err)
	}

	if err := os.WriteFile(path, append(content, '\n'), 0600); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}

	return nil
}

// eachValue visits every substitutable string field in the document.
func (d *Document) eachValue(visit func(current string) string) {
	for key, value := range d.Values {
		d.Values[key] = visit(value)
	}

	for key, value := range d.ConnectionStrings {
		d.ConnectionStrings[key] = visit(value)
	}
}
