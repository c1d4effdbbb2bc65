// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package resolver picks the highest version satisfying a requested semver
// range from a registry's version listing.
package resolver

import (
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/tankpkg/tank/pkg/errors"
)

// prereleaseVersionPattern matches a semver core immediately followed by a
// prerelease component (e.g. "1.0.0-beta.1"), with no space before the
// hyphen. That excludes Masterminds/semver's hyphen-range syntax
// ("1.2.3 - 2.3.4"), whose separating hyphen is always space-delimited and
// names no prerelease at all.
var prereleaseVersionPattern = regexp.MustCompile(`\d+\.\d+\.\d+-[0-9A-Za-z.-]+`)

// VersionEntry is the subset of a registry version listing the resolver
// needs: the version string and its publish time, used to break ties
// between equal versions, most recently published first. Versions that
// differ only in build metadata (e.g. "1.0.0" and "1.0.0+build.1") compare
// equal.
type VersionEntry struct {
	Version     string
	PublishedAt time.Time
}

// Resolve picks the highest version in versions that satisfies rng. "*"
// matches everything. Prerelease versions are excluded unless rng itself
// references a prerelease. Ties are broken by PublishedAt descending.
// Fails with a ResolverError::NoMatch if nothing satisfies rng.
func Resolve(name, rng string, versions []VersionEntry) (*VersionEntry, error) {
	constraint, err := semver.NewConstraint(rng)
	if err != nil {
		return nil, errors.NewResolverNoMatchError(
			fmt.Sprintf("invalid version range %q for %s", rng, name), err)
	}

	rangeWantsPrerelease := constraintReferencesPrerelease(rng)

	type candidate struct {
		entry   VersionEntry
		version *semver.Version
	}
	var candidates []candidate

	for _, v := range versions {
		parsed, err := semver.NewVersion(v.Version)
		if err != nil {
			continue
		}
		if parsed.Prerelease() != "" && !rangeWantsPrerelease {
			continue
		}
		if !constraint.Check(parsed) {
			continue
		}
		candidates = append(candidates, candidate{entry: v, version: parsed})
	}

	if len(candidates) == 0 {
		return nil, errors.NewResolverNoMatchError(
			fmt.Sprintf("no version of %s satisfies range %q", name, rng), nil)
	}

	sort.Slice(candidates, func(i, j int) bool {
		cmp := candidates[i].version.Compare(candidates[j].version)
		if cmp != 0 {
			return cmp > 0
		}
		return candidates[i].entry.PublishedAt.After(candidates[j].entry.PublishedAt)
	})

	return &candidates[0].entry, nil
}

// constraintReferencesPrerelease reports whether rng itself names a
// prerelease version (e.g. "^1.0.0-beta.1"), the only case in which
// prerelease versions are considered eligible matches.
func constraintReferencesPrerelease(rng string) bool {
	v, err := semver.NewVersion(rng)
	if err == nil {
		return v.Prerelease() != ""
	}
	// rng may be a compound constraint (">=1.0.0-beta.1 <2.0.0"); look for a
	// version-attached prerelease component rather than parsing the
	// constraint's internal AST.
	return prereleaseVersionPattern.MatchString(rng)
}
