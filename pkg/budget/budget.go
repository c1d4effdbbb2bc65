// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package budget implements the consumer-side permission engine: it checks
// a skill's declared permissions against a project's permission budget and
// reports the first covering violation, if any.
package budget

import (
	"fmt"
	"strings"
)

// Permissions is the set of capabilities a skill (or a budget) declares.
// A nil slot means "unspecified": for a skill, "does not request"; for a
// budget, "no opinion" (covers nothing, but also forbids nothing until a
// skill actually asks for something in that slot).
type Permissions struct {
	Network    *NetworkPermissions
	Filesystem *FilesystemPermissions
	Subprocess bool
}

// NetworkPermissions holds outbound host glob patterns.
type NetworkPermissions struct {
	Outbound []string
}

// FilesystemPermissions holds path glob patterns.
type FilesystemPermissions struct {
	Read  []string
	Write []string
}

// Slot names a single permission channel, used in Violation and warnings.
type Slot string

const (
	SlotNetworkOutbound   Slot = "network.outbound"
	SlotFilesystemRead    Slot = "filesystem.read"
	SlotFilesystemWrite   Slot = "filesystem.write"
	SlotSubprocess        Slot = "subprocess"
	WarningMissingBudget       = "missing-budget"
)

// Violation describes why a skill's permission request was rejected.
type Violation struct {
	Slot   Slot
	Detail string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("permission violation in %s: %s", v.Slot, v.Detail)
}

// Result is the outcome of a Check: either OK (with an optional warning,
// e.g. missing-budget) or a Violation.
type Result struct {
	Violation *Violation
	Warning   string
}

// OK reports whether the check passed (no violation, warning or not).
func (r Result) OK() bool {
	return r.Violation == nil
}

// Check compares a skill's requested permissions against a project's
// budget. A nil budget is OK with a missing-budget warning. Otherwise,
// for each slot the skill requests, the corresponding budget slot must
// exist and cover every requested value; an uncovered or budget-absent
// slot is a Violation.
func Check(skill *Permissions, projectBudget *Permissions) Result {
	if projectBudget == nil {
		return Result{Warning: WarningMissingBudget}
	}
	if skill == nil {
		return Result{}
	}

	if skill.Network != nil {
		for _, pattern := range skill.Network.Outbound {
			var budgetPatterns []string
			if projectBudget.Network != nil {
				budgetPatterns = projectBudget.Network.Outbound
			}
			if !coveredByAny(pattern, budgetPatterns) {
				return Result{Violation: &Violation{
					Slot:   SlotNetworkOutbound,
					Detail: fmt.Sprintf("requested host pattern %q is not covered by the project budget", pattern),
				}}
			}
		}
	}

	if skill.Filesystem != nil {
		for _, pattern := range skill.Filesystem.Read {
			var budgetPatterns []string
			if projectBudget.Filesystem != nil {
				budgetPatterns = projectBudget.Filesystem.Read
			}
			if !coveredByAny(pattern, budgetPatterns) {
				return Result{Violation: &Violation{
					Slot:   SlotFilesystemRead,
					Detail: fmt.Sprintf("requested read pattern %q is not covered by the project budget", pattern),
				}}
			}
		}
		for _, pattern := range skill.Filesystem.Write {
			var budgetPatterns []string
			if projectBudget.Filesystem != nil {
				budgetPatterns = projectBudget.Filesystem.Write
			}
			if !coveredByAny(pattern, budgetPatterns) {
				return Result{Violation: &Violation{
					Slot:   SlotFilesystemWrite,
					Detail: fmt.Sprintf("requested write pattern %q is not covered by the project budget", pattern),
				}}
			}
		}
	}

	if skill.Subprocess && !projectBudget.Subprocess {
		return Result{Violation: &Violation{
			Slot:   SlotSubprocess,
			Detail: "skill requests subprocess execution, which the project budget does not grant",
		}}
	}

	return Result{}
}

// coveredByAny reports whether requested is covered by at least one
// pattern in budgetPatterns: exact equality, or budget wildcard-prefix
// containment (a budget pattern ending in "*" covers any requested
// string sharing its literal prefix, including a requested pattern that
// is itself a narrower "*"-suffixed glob).
func coveredByAny(requested string, budgetPatterns []string) bool {
	for _, budgetPattern := range budgetPatterns {
		if covers(budgetPattern, requested) {
			return true
		}
	}
	return false
}

// covers reports whether budgetPattern covers requested: exact equality,
// or a wildcard-anchored containment check. The only glob shapes the
// defined pattern syntax needs to support are a leading "*" (e.g.
// "*.example.com", matching any host sharing that suffix) and a trailing
// "*" (e.g. "/tmp/*", matching any path sharing that prefix); a
// requested pattern that is itself wildcarded is covered only when its
// literal anchor sits within the budget pattern's anchor.
func covers(budgetPattern, requested string) bool {
	if budgetPattern == requested {
		return true
	}
	switch {
	case strings.HasPrefix(budgetPattern, "*"):
		budgetSuffix := strings.TrimPrefix(budgetPattern, "*")
		requestedSuffix := strings.TrimPrefix(requested, "*")
		return strings.HasSuffix(requestedSuffix, budgetSuffix)
	case strings.HasSuffix(budgetPattern, "*"):
		budgetPrefix := strings.TrimSuffix(budgetPattern, "*")
		requestedPrefix := strings.TrimSuffix(requested, "*")
		return strings.HasPrefix(requestedPrefix, budgetPrefix)
	default:
		return false
	}
}
