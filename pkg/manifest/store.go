// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"os"
	"path/filepath"

	"github.com/tankpkg/tank/pkg/errors"
	"github.com/tankpkg/tank/pkg/fileutils"
)

// FileName is the manifest's fixed basename within a project root.
const FileName = "skills.json"

// Load reads and parses the skills.json manifest at dir/skills.json.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewConfigError(FileName+" not found: run `tank init` first", err)
		}
		return nil, errors.NewConfigError("failed to read "+FileName, err)
	}
	return Parse(data)
}

// Save writes m to dir/skills.json atomically.
func Save(dir string, m *Manifest) error {
	data, err := m.Marshal()
	if err != nil {
		return err
	}
	path := filepath.Join(dir, FileName)
	if err := fileutils.AtomicWriteFile(path, data, 0o644); err != nil {
		return errors.NewConfigError("failed to write "+FileName, err)
	}
	return nil
}

// Exists reports whether dir already has a skills.json.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, FileName))
	return err == nil
}

// AddDependency upserts a dependency's version range into m.Skills.
func (m *Manifest) AddDependency(name, versionRange string) {
	if m.Skills == nil {
		m.Skills = make(map[string]string)
	}
	m.Skills[name] = versionRange
}

// RemoveDependency removes a dependency from m.Skills, if present.
func (m *Manifest) RemoveDependency(name string) {
	delete(m.Skills, name)
}
