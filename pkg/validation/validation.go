// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package validation holds the low-level string-pattern validators used
// by pkg/manifest: skill names, agent IDs, and the glob patterns used in
// permission budgets.
package validation

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// unscopedNamePattern matches an unscoped skill name: lowercase letters,
// digits, and hyphens, not starting with a hyphen.
var unscopedNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// scopePattern matches the scope portion of a scoped name (the part after
// '@' and before '/'), which follows the same alphabet as an unscoped name.
var scopePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// agentIDPattern matches a recognized agent identifier: lowercase letters
// and digits only, no separators.
var agentIDPattern = regexp.MustCompile(`^[a-z0-9]+$`)

// ValidateSkillName checks name against the unscoped `[a-z0-9][a-z0-9-]*`
// pattern or the scoped `@scope/name` pattern.
func ValidateSkillName(name string) error {
	if name == "" {
		return fmt.Errorf("skill name cannot be empty")
	}

	if strings.HasPrefix(name, "@") {
		parts := strings.SplitN(name[1:], "/", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return fmt.Errorf("scoped skill name %q must be in the form @scope/name", name)
		}
		if !scopePattern.MatchString(parts[0]) {
			return fmt.Errorf("invalid scope %q in skill name %q", parts[0], name)
		}
		if !unscopedNamePattern.MatchString(parts[1]) {
			return fmt.Errorf("invalid name %q in scoped skill name %q", parts[1], name)
		}
		return nil
	}

	if !unscopedNamePattern.MatchString(name) {
		return fmt.Errorf("invalid skill name %q: must match [a-z0-9][a-z0-9-]* or @scope/name", name)
	}
	return nil
}

// KnownAgentIDs is the closed set of agent descriptors Tank knows how to
// link skills into.
var KnownAgentIDs = []string{"claude", "opencode", "cursor", "codex", "openclaw", "universal"}

// ValidateAgentID checks id against the recognized agent identifier
// alphabet and the closed set of known agents.
func ValidateAgentID(id string) error {
	if !agentIDPattern.MatchString(id) {
		return fmt.Errorf("invalid agent id %q", id)
	}
	for _, known := range KnownAgentIDs {
		if id == known {
			return nil
		}
	}
	return fmt.Errorf("unknown agent id %q: must be one of %s", id, strings.Join(KnownAgentIDs, ", "))
}

// ValidateVersion checks that version parses as a strict semantic version.
func ValidateVersion(version string) error {
	if _, err := semver.StrictNewVersion(version); err != nil {
		return fmt.Errorf("invalid version %q: %w", version, err)
	}
	return nil
}

// ValidatePermissionPattern checks that pattern is a well-formed glob
// pattern for a permission budget's network.outbound or filesystem.read /
// filesystem.write slot: non-empty, free of null bytes and line breaks,
// and syntactically valid per path.Match's pattern grammar.
func ValidatePermissionPattern(pattern string) error {
	if pattern == "" {
		return fmt.Errorf("permission pattern cannot be empty")
	}
	if strings.ContainsRune(pattern, 0) {
		return fmt.Errorf("permission pattern %q contains a null byte", pattern)
	}
	if strings.ContainsAny(pattern, "\r\n") {
		return fmt.Errorf("permission pattern %q contains a line break", pattern)
	}
	if _, err := path.Match(pattern, ""); err != nil {
		return fmt.Errorf("invalid permission pattern %q: %w", pattern, err)
	}
	return nil
}
