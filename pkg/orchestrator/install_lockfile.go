// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tankpkg/tank/pkg/download"
	"github.com/tankpkg/tank/pkg/lockfile"
)

// maxConcurrentFetches bounds how many skills InstallFromLockfile
// downloads and extracts at once.
const maxConcurrentFetches = 8

// InstallFromLockfile installs every entry already recorded in
// <root>/skills.lock, without consulting the registry's version listing
// (the lockfile has already pinned an exact version and integrity per
// entry). Any single entry's download or extraction failure rolls back
// the entire <root>/.tank/skills tree, so the tree never reflects a
// partial multi-skill install.
func (o *Orchestrator) InstallFromLockfile(ctx context.Context, root string, global bool) error {
	lf, err := lockfile.Load(root)
	if err != nil {
		return err
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentFetches)

	httpClient := o.client.HTTPClient()
	for key, entry := range lf.Skills {
		key, entry := key, entry
		name, version := splitKey(key)
		group.Go(func() error {
			extractDir := download.TargetDir(root, name)
			data, err := download.Fetch(groupCtx, httpClient, entry.Resolved, entry.Integrity)
			if err != nil {
				return err
			}
			if err := download.Extract(data, extractDir); err != nil {
				return err
			}
			return o.linkInstalled(root, global, name, version, extractDir)
		})
	}

	if err := group.Wait(); err != nil {
		if rollbackErr := download.RollbackAll(root); rollbackErr != nil {
			return rollbackErr
		}
		return err
	}
	return nil
}

// splitKey splits a lockfile "<name>@<version>" key back into its parts.
// A scoped name's own "@" (e.g. "@acme/pdf-reader@1.0.0") is not the
// separator: the separator is the last "@" in the key.
func splitKey(key string) (name, version string) {
	idx := strings.LastIndex(key, "@")
	if idx <= 0 {
		return key, ""
	}
	return key[:idx], key[idx+1:]
}
