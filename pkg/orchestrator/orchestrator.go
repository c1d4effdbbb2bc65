// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package orchestrator composes the packer, registry client, resolver,
// permission engine, downloader/extractor, lockfile manager, and link
// manager into the install/publish/update/remove/verify/audit/doctor
// command state machines.
package orchestrator

import (
	"net/http"

	"github.com/tankpkg/tank/pkg/budget"
	"github.com/tankpkg/tank/pkg/lockfile"
	"github.com/tankpkg/tank/pkg/networking"
	"github.com/tankpkg/tank/pkg/registryclient"
	"github.com/tankpkg/tank/pkg/tankctx"
)

// registryPermissionsToBudget converts a getVersion response's declared
// permissions to the budget package's input shape. The permission check
// runs against registry metadata alone (POLICY_CHECK precedes DOWNLOAD in
// the install state machine), so this, not the local manifest shape, is
// the conversion Install actually needs.
func registryPermissionsToBudget(p *registryclient.Permissions) *budget.Permissions {
	if p == nil {
		return nil
	}
	out := &budget.Permissions{Subprocess: p.Subprocess}
	if p.Network != nil {
		out.Network = &budget.NetworkPermissions{Outbound: p.Network.Outbound}
	}
	if p.Filesystem != nil {
		out.Filesystem = &budget.FilesystemPermissions{Read: p.Filesystem.Read, Write: p.Filesystem.Write}
	}
	return out
}

// registryPermissionsToLockfile converts a getVersion response's declared
// permissions to the lockfile package's storage shape.
func registryPermissionsToLockfile(p *registryclient.Permissions) *lockfile.Permissions {
	if p == nil {
		return nil
	}
	out := &lockfile.Permissions{Subprocess: p.Subprocess}
	if p.Network != nil {
		out.Network = &lockfile.NetworkPermissions{Outbound: p.Network.Outbound}
	}
	if p.Filesystem != nil {
		out.Filesystem = &lockfile.FilesystemPermissions{Read: p.Filesystem.Read, Write: p.Filesystem.Write}
	}
	return out
}

// Orchestrator ties a tankctx.Context to a concrete registry client.
type Orchestrator struct {
	ctx    *tankctx.Context
	client *registryclient.Client
}

// New builds an Orchestrator for ctx, constructing its registry client
// from ctx.Registry/ctx.Token via the shared HttpClientBuilder.
func New(ctx *tankctx.Context) (*Orchestrator, error) {
	httpClient, err := networking.NewHttpClientBuilder().Build()
	if err != nil {
		return nil, err
	}
	return &Orchestrator{ctx: ctx, client: registryclient.New(ctx.Registry, ctx.Token, httpClient)}, nil
}

// NewWithClient builds an Orchestrator against an already-constructed HTTP
// client, for tests that want to point at an httptest.Server without
// going through HttpClientBuilder's HTTPS-only transport.
func NewWithClient(ctx *tankctx.Context, httpClient *http.Client) *Orchestrator {
	return &Orchestrator{ctx: ctx, client: registryclient.New(ctx.Registry, ctx.Token, httpClient)}
}

// Client returns the registry client backing this Orchestrator, for
// callers (search, info, login, whoami) that need a registry operation
// with no lockfile or budget side effects of its own.
func (o *Orchestrator) Client() *registryclient.Client {
	return o.client
}

