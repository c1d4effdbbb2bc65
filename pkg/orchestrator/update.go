// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"context"

	"github.com/tankpkg/tank/pkg/lockfile"
	"github.com/tankpkg/tank/pkg/manifest"
)

// UpdateResult reports one skill's update outcome.
type UpdateResult struct {
	Name           string
	PreviousVersion string
	NewVersion     string
	Updated        bool
}

// Update re-resolves one skill (or every skill in skills.json if name is
// empty) against the registry's current version listings and installs
// only those whose resolved version differs from the lockfile. A skill
// already at the highest matching version is a non-error no-op. A global
// update reads/writes the user-home lockfile and does not require
// skills.json.
func (o *Orchestrator) Update(ctx context.Context, root, name string, global bool) ([]UpdateResult, error) {
	lockDir := root
	if global {
		lockDir = o.ctx.ConfigDir
	}

	names, ranges, err := o.updateCandidates(root, lockDir, name, global)
	if err != nil {
		return nil, err
	}

	lf, err := lockfile.Load(lockDir)
	if err != nil {
		return nil, err
	}

	var results []UpdateResult
	for _, skillName := range names {
		versionRange := ranges[skillName]
		previous := previousVersion(lf, skillName)

		install, err := o.Install(ctx, lockDir, skillName, versionRange, global)
		if err != nil {
			return results, err
		}
		results = append(results, UpdateResult{
			Name:            skillName,
			PreviousVersion: previous,
			NewVersion:      install.Version,
			Updated:         previous != install.Version,
		})
	}
	return results, nil
}

// updateCandidates returns the skill names to consider and their version
// ranges. With a name given, it is the sole candidate at range "*" (track
// latest). Without one, every entry in skills.json is a candidate; a
// missing manifest (e.g. a global update) falls back to every lockfile
// entry at "*".
func (o *Orchestrator) updateCandidates(root, lockDir, name string, global bool) ([]string, map[string]string, error) {
	if name != "" {
		return []string{name}, map[string]string{name: "*"}, nil
	}

	if !global && manifest.Exists(root) {
		m, err := manifest.Load(root)
		if err != nil {
			return nil, nil, err
		}
		names := make([]string, 0, len(m.Skills))
		for skillName := range m.Skills {
			names = append(names, skillName)
		}
		return names, m.Skills, nil
	}

	lf, err := lockfile.Load(lockDir)
	if err != nil {
		return nil, nil, err
	}
	ranges := map[string]string{}
	var names []string
	for key := range lf.Skills {
		skillName, _ := splitKey(key)
		if _, seen := ranges[skillName]; seen {
			continue
		}
		ranges[skillName] = "*"
		names = append(names, skillName)
	}
	return names, ranges, nil
}

// previousVersion looks up skillName's currently locked version, if any.
func previousVersion(lf *lockfile.Lockfile, skillName string) string {
	for key := range lf.Skills {
		entryName, version := splitKey(key)
		if entryName == skillName {
			return version
		}
	}
	return ""
}
