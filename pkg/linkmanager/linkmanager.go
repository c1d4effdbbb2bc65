// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package linkmanager

import (
	"os"
	"path/filepath"
	"time"

	"github.com/tankpkg/tank/pkg/errors"
)

// Manager links installed or dev skills into host agent skills directories
// and tracks the result in links.json under root.
type Manager struct {
	// root is the project root for local links, the directory `tank link`
	// runs in for dev links, or the Tank config directory for global links.
	root string
	// home is the user home directory, used to resolve agent descriptors
	// regardless of which root a link belongs to.
	home string
	now  func() time.Time
}

// New returns a Manager rooted at root, resolving agent descriptors under
// home.
func New(root, home string) *Manager {
	return &Manager{root: root, home: home, now: time.Now}
}

// UnlinkResult reports how many agent symlinks failed to remove during an
// Unlink call; individual failures are ignored (the entry is removed
// regardless) but counted for the caller to report.
type UnlinkResult struct {
	FailedSymlinks int
}

// Link creates the wrapper directory for name, fans a symlink out to every
// agent whose config directory is present, and upserts the links.json
// entry with all paths absolute. version is used only to stamp dev-link
// stub frontmatter.
func (m *Manager) Link(name, version string, source Source, sourceDir string) error {
	absSourceDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return errors.NewLinkError("failed to resolve absolute source directory", err)
	}

	flatName := FlatName(name)
	wrapperDir, err := createWrapper(m.root, flatName, name, version, source, absSourceDir)
	if err != nil {
		return err
	}

	manifest, err := Load(m.root)
	if err != nil {
		return err
	}

	agentLinks := map[string]string{}
	for _, agent := range installedAgents(m.home, dirExists) {
		if err := os.MkdirAll(agent.SkillsDir, 0o755); err != nil {
			return errors.NewLinkError("failed to create agent skills directory for "+agent.ID, err)
		}
		linkPath := filepath.Join(agent.SkillsDir, flatName)
		_ = os.Remove(linkPath)
		if err := os.Symlink(wrapperDir, linkPath); err != nil {
			return errors.NewLinkError("failed to create agent symlink for "+agent.ID, err)
		}
		agentLinks[agent.ID] = linkPath
	}

	manifest.Links[name] = LinkEntry{
		Source:      source,
		SourceDir:   absSourceDir,
		InstalledAt: m.now(),
		AgentLinks:  agentLinks,
	}
	return Save(m.root, manifest)
}

// Unlink removes every agent symlink for name (ignoring individual
// failures but counting them), removes the wrapper directory, and removes
// the links.json entry. It never touches the entry's sourceDir.
func (m *Manager) Unlink(name string) (UnlinkResult, error) {
	manifest, err := Load(m.root)
	if err != nil {
		return UnlinkResult{}, err
	}

	entry, ok := manifest.Links[name]
	if !ok {
		return UnlinkResult{}, errors.NewLinkError("no link entry for "+name, nil)
	}

	var result UnlinkResult
	for _, linkPath := range entry.AgentLinks {
		if err := os.Remove(linkPath); err != nil && !os.IsNotExist(err) {
			result.FailedSymlinks++
		}
	}

	if err := removeWrapper(m.root, FlatName(name)); err != nil {
		return result, err
	}

	delete(manifest.Links, name)
	if err := Save(m.root, manifest); err != nil {
		return result, err
	}
	return result, nil
}

// dirExists reports whether path exists and is a directory.
func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Check walks every links.json entry and reports any whose listed agent
// symlinks do not exist or do not resolve (through zero or more hops) to
// the entry's wrapper directory, or whose wrapper directory is missing.
// It is the read-only half of the doctor invariant in spec §4.7.
func Check(root string) ([]Violation, error) {
	manifest, err := Load(root)
	if err != nil {
		return nil, err
	}

	var violations []Violation
	for name, entry := range manifest.Links {
		wrapperDir := WrapperDir(root, FlatName(name))
		if _, err := os.Stat(wrapperDir); err != nil {
			violations = append(violations, Violation{Skill: name, Detail: "wrapper directory missing: " + wrapperDir})
			continue
		}
		for agentID, linkPath := range entry.AgentLinks {
			resolved, err := filepath.EvalSymlinks(linkPath)
			if err != nil {
				violations = append(violations, Violation{Skill: name, Detail: "symlink for " + agentID + " is dangling: " + linkPath})
				continue
			}
			wrapperResolved, err := filepath.EvalSymlinks(wrapperDir)
			if err == nil && resolved != wrapperResolved {
				violations = append(violations, Violation{Skill: name, Detail: "symlink for " + agentID + " does not resolve to its wrapper: " + linkPath})
			}
		}
	}
	return violations, nil
}

// Violation describes a links.json entry that fails the §4.7 invariant.
type Violation struct {
	Skill  string
	Detail string
}
