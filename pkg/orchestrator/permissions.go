// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import "github.com/tankpkg/tank/pkg/lockfile"

// SkillPermissions names a single installed skill's declared permission
// request, as recorded in the lockfile at install time.
type SkillPermissions struct {
	Name        string
	Version     string
	Permissions *lockfile.Permissions
}

// Permissions folds every installed skill's declared permissions into one
// per-skill listing, a purely local read of the lockfile with no network
// calls. It does not union the individual glob patterns into a single
// budget shape: the point is to show what each skill is asking for, not
// to compute coverage (that's pkg/budget.Check, run at install time).
func (o *Orchestrator) Permissions(root string) ([]SkillPermissions, error) {
	lf, err := lockfile.Load(root)
	if err != nil {
		return nil, err
	}

	var result []SkillPermissions
	for key, entry := range lf.Skills {
		name, version := splitKey(key)
		result = append(result, SkillPermissions{Name: name, Version: version, Permissions: entry.Permissions})
	}
	return result, nil
}
