// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/tankpkg/tank/pkg/budget"
	"github.com/tankpkg/tank/pkg/download"
	"github.com/tankpkg/tank/pkg/errors"
	"github.com/tankpkg/tank/pkg/linkmanager"
	"github.com/tankpkg/tank/pkg/lockfile"
	"github.com/tankpkg/tank/pkg/manifest"
	"github.com/tankpkg/tank/pkg/resolver"
)

// InstallResult reports the outcome of a single-skill Install.
type InstallResult struct {
	Name            string
	Version         string
	AlreadyInstalled bool
	Warnings        []string
}

// Install runs the RESOLVE → META → POLICY_CHECK → DOWNLOAD → EXTRACT →
// RECORD → LINK state machine for one skill against root. If the
// requested name@version already sits in the lockfile with its extraction
// directory present, the machine short-circuits straight to LINK.
func (o *Orchestrator) Install(ctx context.Context, root, name, versionRange string, global bool) (*InstallResult, error) {
	if versionRange == "" {
		versionRange = "*"
	}

	summaries, err := o.client.ListVersions(ctx, name)
	if err != nil {
		return nil, err
	}
	entries := make([]resolver.VersionEntry, 0, len(summaries))
	published := map[string]time.Time{}
	for _, s := range summaries {
		t, parseErr := time.Parse(time.RFC3339, s.PublishedAt)
		if parseErr != nil {
			continue
		}
		entries = append(entries, resolver.VersionEntry{Version: s.Version, PublishedAt: t})
		published[s.Version] = t
	}

	resolved, err := resolver.Resolve(name, versionRange, entries)
	if err != nil {
		return nil, err
	}

	lf, err := lockfile.Load(root)
	if err != nil {
		return nil, err
	}

	extractDir := download.TargetDir(root, name)
	if _, ok := lf.Get(name, resolved.Version); ok {
		if _, statErr := os.Stat(extractDir); statErr == nil {
			if err := o.linkInstalled(root, global, name, resolved.Version, extractDir); err != nil {
				return nil, err
			}
			return &InstallResult{Name: name, Version: resolved.Version, AlreadyInstalled: true}, nil
		}
	}

	detail, err := o.client.GetVersion(ctx, name, resolved.Version)
	if err != nil {
		return nil, err
	}

	projectBudget, err := budget.Load(root)
	if err != nil {
		return nil, err
	}
	checkResult := budget.Check(registryPermissionsToBudget(detail.Permissions), projectBudget)
	if !checkResult.OK() {
		return nil, errors.NewPermissionViolationError(
			fmt.Sprintf("skill %s@%s violates project budget in %s: %s", name, resolved.Version, checkResult.Violation.Slot, checkResult.Violation.Detail), nil)
	}

	httpClient := o.client.HTTPClient()
	data, err := download.Fetch(ctx, httpClient, detail.DownloadURL, detail.Integrity)
	if err != nil {
		return nil, err
	}

	if err := download.Extract(data, extractDir); err != nil {
		return nil, err
	}

	lf.Set(name, resolved.Version, lockfile.Entry{
		Resolved:    detail.DownloadURL,
		Integrity:   detail.Integrity,
		Permissions: registryPermissionsToLockfile(detail.Permissions),
		AuditScore:  detail.AuditScore,
	})
	if err := lockfile.Save(root, lf); err != nil {
		return nil, err
	}

	if manifest.Exists(root) {
		m, err := manifest.Load(root)
		if err != nil {
			return nil, err
		}
		m.AddDependency(name, versionRange)
		if err := manifest.Save(root, m); err != nil {
			return nil, err
		}
	}

	if err := o.linkInstalled(root, global, name, resolved.Version, extractDir); err != nil {
		return nil, err
	}

	result := &InstallResult{Name: name, Version: resolved.Version}
	if checkResult.Warning != "" {
		result.Warnings = append(result.Warnings, checkResult.Warning)
	}
	return result, nil
}

// linkInstalled fans the skill out to every present host agent via
// linkmanager, using the local or global source mode per the global flag.
func (o *Orchestrator) linkInstalled(root string, global bool, name, version, extractDir string) error {
	source := linkmanager.SourceLocal
	linkRoot := root
	if global {
		source = linkmanager.SourceGlobal
		linkRoot = o.ctx.ConfigDir
	}
	mgr := linkmanager.New(linkRoot, o.ctx.Home)
	return mgr.Link(name, version, source, extractDir)
}
