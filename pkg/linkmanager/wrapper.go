// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package linkmanager

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/tankpkg/tank/pkg/errors"
)

// agentSkillsDir returns <root>/.tank/agent-skills.
func agentSkillsDir(root string) string {
	return filepath.Join(tankDir(root), "agent-skills")
}

// WrapperDir returns the wrapper directory for a skill's flat name under
// root: <root>/.tank/agent-skills/<flat-name>/.
func WrapperDir(root, flatName string) string {
	return filepath.Join(agentSkillsDir(root), flatName)
}

// frontmatter is the YAML frontmatter stamped into a dev-linked skill's
// stub SKILL.md.
type frontmatter struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// renderStub renders a dev-link stub SKILL.md: YAML frontmatter delimited
// by "---" lines, followed by a short human-readable body.
func renderStub(name, version string) ([]byte, error) {
	meta, err := yaml.Marshal(frontmatter{Name: name, Version: version})
	if err != nil {
		return nil, fmt.Errorf("failed to render skill frontmatter: %w", err)
	}
	body := fmt.Sprintf("---\n%s---\nThis skill is dev-linked from its source directory.\n", meta)
	return []byte(body), nil
}

// createWrapper creates the wrapper directory for source at root/flatName.
// For dev sources, it writes a stub SKILL.md with frontmatter and symlinks
// the skill's real source files alongside it. For local/global sources it
// is itself a symlink straight to sourceDir, so a path resolving through
// the wrapper always yields the skill's on-disk content.
func createWrapper(root, flatName, name, version string, source Source, sourceDir string) (string, error) {
	wrapperDir := WrapperDir(root, flatName)
	if err := os.RemoveAll(wrapperDir); err != nil {
		return "", errors.NewLinkError("failed to clear existing wrapper directory", err)
	}

	if source == SourceDev {
		if err := os.MkdirAll(wrapperDir, 0o755); err != nil {
			return "", errors.NewLinkError("failed to create wrapper directory", err)
		}
		stub, err := renderStub(name, version)
		if err != nil {
			return "", errors.NewLinkError("failed to render dev-link stub", err)
		}
		if err := os.WriteFile(filepath.Join(wrapperDir, "SKILL.md"), stub, 0o644); err != nil {
			return "", errors.NewLinkError("failed to write dev-link stub", err)
		}
		entries, err := os.ReadDir(sourceDir)
		if err != nil {
			return "", errors.NewLinkError("failed to read dev-link source directory", err)
		}
		for _, entry := range entries {
			if entry.Name() == "SKILL.md" {
				continue
			}
			if err := os.Symlink(filepath.Join(sourceDir, entry.Name()), filepath.Join(wrapperDir, entry.Name())); err != nil {
				return "", errors.NewLinkError("failed to symlink dev-link source file", err)
			}
		}
		return wrapperDir, nil
	}

	if err := os.MkdirAll(agentSkillsDir(root), 0o755); err != nil {
		return "", errors.NewLinkError("failed to create agent-skills directory", err)
	}
	if err := os.Symlink(sourceDir, wrapperDir); err != nil {
		return "", errors.NewLinkError("failed to symlink wrapper to source directory", err)
	}
	return wrapperDir, nil
}

// removeWrapper deletes the wrapper directory for flatName under root.
func removeWrapper(root, flatName string) error {
	wrapperDir := WrapperDir(root, flatName)
	if err := os.RemoveAll(wrapperDir); err != nil {
		return errors.NewLinkError("failed to remove wrapper directory", err)
	}
	return nil
}
