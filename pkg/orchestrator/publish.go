// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/tankpkg/tank/pkg/manifest"
	"github.com/tankpkg/tank/pkg/packer"
	"github.com/tankpkg/tank/pkg/registryclient"
)

// PublishStage names a step in the publish state machine, for callers
// that want to report progress or confirm where a dry run stopped.
type PublishStage string

const (
	StageReady     PublishStage = "READY"
	StageValidated PublishStage = "VALIDATED"
	StagePacked    PublishStage = "PACKED"
	StageReserved  PublishStage = "RESERVED"
	StageUploaded  PublishStage = "UPLOADED"
	StageComplete  PublishStage = "COMPLETE"
)

// PublishResult reports how far a publish got.
type PublishResult struct {
	Stage   PublishStage
	Version string
	DryRun  bool
	// SkillID and VersionID are the registry-assigned identifiers
	// returned by PublishInit, empty until the RESERVED stage.
	SkillID   string
	VersionID string
}

// Publish runs the READY → VALIDATED → PACKED → RESERVED → UPLOADED →
// COMPLETE state machine against dir. Any step failing stops the machine
// with no lockfile or registry side effects from later steps. dryRun
// stops the machine after PACKED with no network calls at all.
func (o *Orchestrator) Publish(ctx context.Context, dir string, dryRun bool) (*PublishResult, error) {
	result := &PublishResult{Stage: StageReady, DryRun: dryRun}

	m, err := manifest.Load(dir)
	if err != nil {
		return result, err
	}
	if err := m.Validate(); err != nil {
		return result, err
	}
	result.Stage = StageValidated
	result.Version = m.Version

	packed, err := packer.Pack(dir)
	if err != nil {
		return result, err
	}
	result.Stage = StagePacked

	if dryRun {
		return result, nil
	}

	manifestJSON, err := m.Marshal()
	if err != nil {
		return result, err
	}

	initResp, err := o.client.PublishInit(ctx, manifestJSON)
	if err != nil {
		return result, err
	}
	result.Stage = StageReserved
	result.SkillID = initResp.SkillID
	result.VersionID = initResp.VersionID

	if err := uploadTarball(ctx, o.client.HTTPClient(), initResp.UploadURL, packed.Tarball); err != nil {
		return result, err
	}
	result.Stage = StageUploaded

	if _, err := o.client.PublishConfirm(ctx, registryclient.PublishConfirmRequest{
		VersionID:   initResp.VersionID,
		Integrity:   packed.Integrity,
		FileCount:   packed.FileCount,
		TarballSize: packed.TotalSize,
	}); err != nil {
		return result, err
	}
	result.Stage = StageComplete

	return result, nil
}

// uploadTarball PUTs tarball to the pre-signed uploadURL PublishInit
// returned. uploadURL comes from the registry, not the caller, so the
// request goes through the same hardened client as every other
// registry-supplied URL instead of http.DefaultClient.
func uploadTarball(ctx context.Context, client *http.Client, uploadURL string, tarball []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(tarball))
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/gzip")
	req.ContentLength = int64(len(tarball))

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("tarball upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("tarball upload returned HTTP %d", resp.StatusCode)
	}
	return nil
}
