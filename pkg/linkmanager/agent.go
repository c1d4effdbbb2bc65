// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package linkmanager makes an installed or dev-linked skill discoverable
// to host AI agents by maintaining a wrapper directory and a fan-out of
// agent-specific symbolic links, tracked in links.json.
package linkmanager

import "path/filepath"

// Agent describes a host AI agent Tank can link skills into.
type Agent struct {
	// ID is the agent's identifier, one of the closed set recognized by
	// pkg/validation.KnownAgentIDs.
	ID string
	// ConfigDir is the agent's own config directory under the user's home.
	// Its presence is how Tank detects the agent is installed.
	ConfigDir string
	// SkillsDir is where Tank creates the per-skill symlink for this
	// agent. It is created on demand; its parent ConfigDir is not.
	SkillsDir string
}

// KnownAgents returns the closed set of recognized agent descriptors,
// with ConfigDir/SkillsDir resolved under home.
func KnownAgents(home string) []Agent {
	return []Agent{
		{ID: "claude", ConfigDir: filepath.Join(home, ".claude"), SkillsDir: filepath.Join(home, ".claude", "skills")},
		{ID: "opencode", ConfigDir: filepath.Join(home, ".config", "opencode"), SkillsDir: filepath.Join(home, ".config", "opencode", "skills")},
		{ID: "cursor", ConfigDir: filepath.Join(home, ".cursor"), SkillsDir: filepath.Join(home, ".cursor", "skills")},
		{ID: "codex", ConfigDir: filepath.Join(home, ".codex"), SkillsDir: filepath.Join(home, ".codex", "skills")},
		{ID: "openclaw", ConfigDir: filepath.Join(home, ".openclaw"), SkillsDir: filepath.Join(home, ".openclaw", "skills")},
		{ID: "universal", ConfigDir: filepath.Join(home, ".agent-skills"), SkillsDir: filepath.Join(home, ".agent-skills", "skills")},
	}
}

// installedAgents returns the subset of KnownAgents(home) whose ConfigDir
// currently exists on disk.
func installedAgents(home string, statFunc func(string) bool) []Agent {
	var installed []Agent
	for _, agent := range KnownAgents(home) {
		if statFunc(agent.ConfigDir) {
			installed = append(installed, agent)
		}
	}
	return installed
}
