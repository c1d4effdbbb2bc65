// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"os"

	"github.com/tankpkg/tank/pkg/linkmanager"
	"github.com/tankpkg/tank/pkg/lockfile"
)

// DoctorReport is the diagnostics Doctor produces: detected agent
// installations, local/global/dev link status, and any dangling
// links.json entries.
type DoctorReport struct {
	InstalledAgents []string
	LocalSkills     []DoctorSkill
	GlobalSkills    []DoctorSkill
	DevLinks        []DoctorSkill
	Violations      []linkmanager.Violation
}

// DoctorSkill is one skill's link status as seen by Doctor.
type DoctorSkill struct {
	Name    string
	Version string
	Linked  bool
}

// Doctor reports detected agent installations, every local/global/dev
// skill's linked status, and any links.json entries whose symlinks or
// wrapper are missing or dangling.
func (o *Orchestrator) Doctor(root string) (*DoctorReport, error) {
	report := &DoctorReport{}

	for _, agent := range linkmanager.KnownAgents(o.ctx.Home) {
		if info, err := os.Stat(agent.ConfigDir); err == nil && info.IsDir() {
			report.InstalledAgents = append(report.InstalledAgents, agent.ID)
		}
	}

	localManifest, err := linkmanager.Load(root)
	if err != nil {
		return nil, err
	}
	localLock, err := lockfile.Load(root)
	if err != nil {
		return nil, err
	}
	for key := range localLock.Skills {
		name, version := splitKey(key)
		_, linked := localManifest.Links[name]
		report.LocalSkills = append(report.LocalSkills, DoctorSkill{Name: name, Version: version, Linked: linked})
	}

	for name, entry := range localManifest.Links {
		if entry.Source == linkmanager.SourceDev {
			report.DevLinks = append(report.DevLinks, DoctorSkill{Name: name, Linked: true})
		}
	}

	globalLock, err := lockfile.Load(o.ctx.ConfigDir)
	if err != nil {
		return nil, err
	}
	globalManifest, err := linkmanager.Load(o.ctx.ConfigDir)
	if err != nil {
		return nil, err
	}
	for key := range globalLock.Skills {
		name, version := splitKey(key)
		_, linked := globalManifest.Links[name]
		report.GlobalSkills = append(report.GlobalSkills, DoctorSkill{Name: name, Version: version, Linked: linked})
	}

	localViolations, err := linkmanager.Check(root)
	if err != nil {
		return nil, err
	}
	globalViolations, err := linkmanager.Check(o.ctx.ConfigDir)
	if err != nil {
		return nil, err
	}
	report.Violations = append(localViolations, globalViolations...)

	return report, nil
}
