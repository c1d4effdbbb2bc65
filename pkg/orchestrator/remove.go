// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"os"

	"github.com/tankpkg/tank/pkg/download"
	"github.com/tankpkg/tank/pkg/errors"
	"github.com/tankpkg/tank/pkg/linkmanager"
	"github.com/tankpkg/tank/pkg/lockfile"
	"github.com/tankpkg/tank/pkg/manifest"
)

// Remove deletes a skill's extracted directory, its lockfile and
// skills.json entries, and unlinks it from every host agent. A global
// remove operates on the user-home lockfile and skips the skills.json
// update (a global install has none).
func (o *Orchestrator) Remove(root, name string, global bool) error {
	lockDir := root
	if global {
		lockDir = o.ctx.ConfigDir
	}

	lf, err := lockfile.Load(lockDir)
	if err != nil {
		return err
	}

	version := previousVersion(lf, name)
	if version == "" {
		return errors.NewValidationError("skill "+name+" is not installed", nil)
	}

	extractDir := download.TargetDir(lockDir, name)
	if err := os.RemoveAll(extractDir); err != nil {
		return errors.NewLinkError("failed to remove extracted skill directory", err)
	}

	lf.Remove(name, version)
	if err := lockfile.Save(lockDir, lf); err != nil {
		return err
	}

	if !global && manifest.Exists(root) {
		m, err := manifest.Load(root)
		if err != nil {
			return err
		}
		m.RemoveDependency(name)
		if err := manifest.Save(root, m); err != nil {
			return err
		}
	}

	linkRoot := root
	if global {
		linkRoot = o.ctx.ConfigDir
	}
	mgr := linkmanager.New(linkRoot, o.ctx.Home)
	if _, err := mgr.Unlink(name); err != nil && !errors.IsLink(err) {
		return err
	}
	return nil
}
