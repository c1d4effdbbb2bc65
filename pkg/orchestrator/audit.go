// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/tankpkg/tank/pkg/lockfile"
)

// AuditVerdict classifies an audited skill's current registry-reported
// scan status for the caller's exit-code decision.
type AuditVerdict string

const (
	VerdictPassed  AuditVerdict = "passed"
	VerdictFlagged AuditVerdict = "flagged"
	VerdictFailed  AuditVerdict = "failed"
	VerdictPending AuditVerdict = "pending"
)

// AuditResult is one skill's current audit standing.
type AuditResult struct {
	Name        string
	Version     string
	AuditScore  *float64
	AuditStatus string
	Verdict     AuditVerdict
}

// Audit fetches the current registry audit score for name (or, if empty,
// every skill in the local lockfile), fanning requests out across up to
// maxConcurrentFetches concurrent HTTP calls.
func (o *Orchestrator) Audit(ctx context.Context, root, name string) ([]AuditResult, error) {
	type target struct{ name, version string }
	var targets []target

	if name != "" {
		lf, err := lockfile.Load(root)
		if err != nil {
			return nil, err
		}
		version := previousVersion(lf, name)
		targets = append(targets, target{name: name, version: version})
	} else {
		lf, err := lockfile.Load(root)
		if err != nil {
			return nil, err
		}
		for key := range lf.Skills {
			n, v := splitKey(key)
			targets = append(targets, target{name: n, version: v})
		}
	}

	results := make([]AuditResult, len(targets))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentFetches)

	for i, t := range targets {
		i, t := i, t
		group.Go(func() error {
			detail, err := o.client.GetVersion(groupCtx, t.name, t.version)
			if err != nil {
				return err
			}
			results[i] = AuditResult{
				Name:        t.name,
				Version:     t.version,
				AuditScore:  detail.AuditScore,
				AuditStatus: detail.AuditStatus,
				Verdict:     verdictFor(detail.AuditStatus),
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// verdictFor maps a registry auditStatus to an exit-code-relevant verdict.
func verdictFor(status string) AuditVerdict {
	switch status {
	case "flagged":
		return VerdictFlagged
	case "failed", "scan-failed":
		return VerdictFailed
	case "completed", "published":
		return VerdictPassed
	default:
		return VerdictPending
	}
}
