// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package manifest parses and validates a skill's skills.json: identity,
// version, optional dependency ranges, and the permission budget a skill
// requests or a consumer project grants.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tankpkg/tank/pkg/errors"
	"github.com/tankpkg/tank/pkg/validation"
)

// Manifest is the parsed, validated form of skills.json.
type Manifest struct {
	// Name is the skill's identity: unscoped "name" or scoped "@scope/name".
	Name string `json:"name"`
	// Version is a strict semantic version string.
	Version string `json:"version"`
	// Description is a short human-readable summary.
	Description string `json:"description"`
	// RepositoryURL optionally points at the skill's source repository.
	RepositoryURL string `json:"repository_url,omitempty"`
	// Skills maps a dependency skill name to a semver range. Present only
	// in consumer projects, absent in a published skill's own manifest.
	Skills map[string]string `json:"skills,omitempty"`
	// Permissions declares the three-slot permission budget this skill
	// requests (as a dependency) or grants (as a consumer project).
	Permissions *Permissions `json:"permissions,omitempty"`
}

// Permissions is the three-slot permission budget/request record.
type Permissions struct {
	Network    *NetworkPermissions    `json:"network,omitempty"`
	Filesystem *FilesystemPermissions `json:"filesystem,omitempty"`
	Subprocess bool                   `json:"subprocess,omitempty"`
}

// NetworkPermissions holds the outbound host glob patterns a slot covers.
type NetworkPermissions struct {
	Outbound []string `json:"outbound,omitempty"`
}

// FilesystemPermissions holds the path glob patterns a slot covers.
type FilesystemPermissions struct {
	Read  []string `json:"read,omitempty"`
	Write []string `json:"write,omitempty"`
}

// Parse decodes and validates a skills.json document. Unknown top-level
// fields are rejected, the name is lowercased, and the version is checked
// against strict semver.
func Parse(data []byte) (*Manifest, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, errors.NewValidationError("skills.json is not valid JSON or contains unknown fields", err)
	}

	m.Name = strings.ToLower(m.Name)

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the manifest's identity, version, dependency ranges, and
// permission patterns.
func (m *Manifest) Validate() error {
	if err := validation.ValidateSkillName(m.Name); err != nil {
		return errors.NewValidationError(fmt.Sprintf("invalid manifest name: %v", err), err)
	}
	if err := validation.ValidateVersion(m.Version); err != nil {
		return errors.NewValidationError(fmt.Sprintf("invalid manifest version: %v", err), err)
	}
	for dep, rng := range m.Skills {
		if err := validation.ValidateSkillName(dep); err != nil {
			return errors.NewValidationError(fmt.Sprintf("invalid dependency name %q: %v", dep, err), err)
		}
		if strings.TrimSpace(rng) == "" {
			return errors.NewValidationError(fmt.Sprintf("dependency %q has an empty version range", dep), nil)
		}
	}
	if m.Permissions != nil {
		if err := m.Permissions.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks every glob pattern in the permission budget.
func (p *Permissions) Validate() error {
	if p.Network != nil {
		for _, pattern := range p.Network.Outbound {
			if err := validation.ValidatePermissionPattern(pattern); err != nil {
				return errors.NewValidationError(fmt.Sprintf("invalid network.outbound pattern: %v", err), err)
			}
		}
	}
	if p.Filesystem != nil {
		for _, pattern := range p.Filesystem.Read {
			if err := validation.ValidatePermissionPattern(pattern); err != nil {
				return errors.NewValidationError(fmt.Sprintf("invalid filesystem.read pattern: %v", err), err)
			}
		}
		for _, pattern := range p.Filesystem.Write {
			if err := validation.ValidatePermissionPattern(pattern); err != nil {
				return errors.NewValidationError(fmt.Sprintf("invalid filesystem.write pattern: %v", err), err)
			}
		}
	}
	return nil
}

// Marshal renders the manifest back to its canonical JSON form: 2-space
// indent, trailing newline.
func (m *Manifest) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return append(data, '\n'), nil
}

// IsScoped reports whether name is a scoped skill name ("@scope/name"),
// returning the scope and bare name when it is.
func IsScoped(name string) (scope, bare string, ok bool) {
	if !strings.HasPrefix(name, "@") {
		return "", "", false
	}
	parts := strings.SplitN(name[1:], "/", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}
