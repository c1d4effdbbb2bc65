// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package budget

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/tankpkg/tank/pkg/errors"
)

// FileName is the project budget's fixed basename under <root>/.tank/.
const FileName = "budget.json"

// budgetDoc is budget.json's on-disk shape, mirroring Permissions with
// JSON tags (Permissions itself carries none, since pkg/budget's own API
// never serializes it directly — only this file format does).
type budgetDoc struct {
	Network    *networkDoc    `json:"network,omitempty"`
	Filesystem *filesystemDoc `json:"filesystem,omitempty"`
	Subprocess bool           `json:"subprocess,omitempty"`
}

type networkDoc struct {
	Outbound []string `json:"outbound,omitempty"`
}

type filesystemDoc struct {
	Read  []string `json:"read,omitempty"`
	Write []string `json:"write,omitempty"`
}

// Load reads <root>/.tank/budget.json, returning nil (no error) if the
// file does not exist — a project with no budget file at all means "no
// opinion", per spec's "projectBudget is absent entirely" rule.
func Load(root string) (*Permissions, error) {
	path := filepath.Join(root, ".tank", FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewConfigError("failed to read "+FileName, err)
	}

	var doc budgetDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewConfigError(FileName+" is malformed", err)
	}

	perms := &Permissions{Subprocess: doc.Subprocess}
	if doc.Network != nil {
		perms.Network = &NetworkPermissions{Outbound: doc.Network.Outbound}
	}
	if doc.Filesystem != nil {
		perms.Filesystem = &FilesystemPermissions{Read: doc.Filesystem.Read, Write: doc.Filesystem.Write}
	}
	return perms, nil
}
