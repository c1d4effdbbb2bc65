// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package linkmanager

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/tankpkg/tank/pkg/errors"
	"github.com/tankpkg/tank/pkg/fileutils"
)

// FileName is links.json's fixed basename under <root>/.tank/.
const FileName = "links.json"

// Version is the only links.json schema version this package understands.
const Version = 1

// Source names where a linked skill's files actually live.
type Source string

const (
	SourceLocal Source = "local"
	SourceGlobal Source = "global"
	SourceDev   Source = "dev"
)

// LinkEntry is one skill's linking record.
type LinkEntry struct {
	Source      Source            `json:"source"`
	SourceDir   string            `json:"sourceDir"`
	InstalledAt time.Time         `json:"installedAt"`
	AgentLinks  map[string]string `json:"agentLinks"`
}

// Manifest is the in-memory form of links.json.
type Manifest struct {
	Version int                  `json:"version"`
	Links   map[string]LinkEntry `json:"links"`
}

// New returns an empty Manifest at the current Version.
func New() *Manifest {
	return &Manifest{Version: Version, Links: map[string]LinkEntry{}}
}

// tankDir returns <root>/.tank.
func tankDir(root string) string {
	return filepath.Join(root, ".tank")
}

// Load reads and parses <root>/.tank/links.json. A missing file returns an
// empty Manifest, not an error. Malformed JSON is fatal.
func Load(root string) (*Manifest, error) {
	path := filepath.Join(tankDir(root), FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, errors.NewLinkError("failed to read "+FileName, err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.NewLinkError(FileName+" is malformed", err)
	}
	if m.Links == nil {
		m.Links = map[string]LinkEntry{}
	}
	return &m, nil
}

// Save writes m to <root>/.tank/links.json, creating the .tank directory
// if necessary.
func Save(root string, m *Manifest) error {
	dir := tankDir(root)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.NewLinkError("failed to create .tank directory", err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.NewLinkError("failed to marshal "+FileName, err)
	}
	data = append(data, '\n')

	path := filepath.Join(dir, FileName)
	if err := fileutils.AtomicWriteFile(path, data, 0o644); err != nil {
		return errors.NewLinkError("failed to write "+FileName, err)
	}
	return nil
}
