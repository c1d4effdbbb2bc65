// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"fmt"
	"os"

	"github.com/tankpkg/tank/pkg/download"
	"github.com/tankpkg/tank/pkg/errors"
	"github.com/tankpkg/tank/pkg/lockfile"
)

// VerifyResult reports one lockfile entry's presence check.
type VerifyResult struct {
	Name    string
	Version string
	Present bool
}

// Verify confirms every lockfile entry's extraction directory exists.
// Presence is the only thing checked; the lockfile's integrity hash was
// already confirmed once at install time and is not re-read from disk
// here. Any missing skill is reported and the call fails overall.
func (o *Orchestrator) Verify(root string) ([]VerifyResult, error) {
	lf, err := lockfile.Load(root)
	if err != nil {
		return nil, err
	}

	var results []VerifyResult
	var missing []string
	for key := range lf.Skills {
		name, version := splitKey(key)
		extractDir := download.TargetDir(root, name)
		_, statErr := os.Stat(extractDir)
		present := statErr == nil
		results = append(results, VerifyResult{Name: name, Version: version, Present: present})
		if !present {
			missing = append(missing, fmt.Sprintf("%s@%s", name, version))
		}
	}

	if len(missing) > 0 {
		return results, errors.NewLockfileError(fmt.Sprintf("missing extraction directories for: %v", missing), nil)
	}
	return results, nil
}
