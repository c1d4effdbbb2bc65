// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package lockfile reads and writes skills.lock: the resolved, integrity-
// checked record of every installed skill version.
package lockfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/tankpkg/tank/pkg/errors"
	"github.com/tankpkg/tank/pkg/fileutils"
)

// FileName is the lockfile's fixed basename within a project or user-home
// .tank directory.
const FileName = "skills.lock"

// Version is the only lockfileVersion this package understands.
const Version = 1

// Entry is the per-skill record keyed by "<name>@<version>" in Lockfile.Skills.
type Entry struct {
	Resolved    string       `json:"resolved"`
	Integrity   string       `json:"integrity"`
	Permissions *Permissions `json:"permissions,omitempty"`
	AuditScore  *float64     `json:"audit_score,omitempty"`
}

// Permissions mirrors the shape of manifest.Permissions for storage in the
// lockfile without importing pkg/manifest, keeping the lockfile's on-disk
// shape independent of the manifest parser's internals.
type Permissions struct {
	Network    *NetworkPermissions    `json:"network,omitempty"`
	Filesystem *FilesystemPermissions `json:"filesystem,omitempty"`
	Subprocess bool                   `json:"subprocess,omitempty"`
}

// NetworkPermissions holds the outbound host glob patterns a slot covers.
type NetworkPermissions struct {
	Outbound []string `json:"outbound,omitempty"`
}

// FilesystemPermissions holds the path glob patterns a slot covers.
type FilesystemPermissions struct {
	Read  []string `json:"read,omitempty"`
	Write []string `json:"write,omitempty"`
}

// Lockfile is the in-memory form of skills.lock.
type Lockfile struct {
	LockfileVersion int              `json:"lockfileVersion"`
	Skills          map[string]Entry `json:"skills"`
}

// New returns an empty Lockfile at the current Version.
func New() *Lockfile {
	return &Lockfile{LockfileVersion: Version, Skills: map[string]Entry{}}
}

// Key builds the "<name>@<version>" key used in Lockfile.Skills.
func Key(name, version string) string {
	return name + "@" + version
}

// Load reads and parses dir/skills.lock. A missing file returns an empty
// Lockfile, not an error. Malformed JSON is fatal.
func Load(dir string) (*Lockfile, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, errors.NewLockfileError("failed to read "+FileName, err)
	}

	var lf Lockfile
	if err := json.Unmarshal(data, &lf); err != nil {
		return nil, errors.NewLockfileError(FileName+" is malformed", err)
	}
	if lf.Skills == nil {
		lf.Skills = map[string]Entry{}
	}
	return &lf, nil
}

// Save writes lf to dir/skills.lock in canonical form: keys emitted in
// lexicographic order, 2-space indent, trailing newline.
func Save(dir string, lf *Lockfile) error {
	data, err := lf.marshal()
	if err != nil {
		return err
	}
	path := filepath.Join(dir, FileName)
	if err := fileutils.AtomicWriteFile(path, data, 0o644); err != nil {
		return errors.NewLockfileError("failed to write "+FileName, err)
	}
	return nil
}

// marshal renders lf with explicit key ordering, since Go's encoding/json
// always sorts map keys when marshaling a map[string]T — relying on that
// built-in behavior directly would be an accident of implementation, so
// this builds the object by hand to make the ordering contract explicit
// and stable regardless of future json package changes.
func (lf *Lockfile) marshal() ([]byte, error) {
	keys := make([]string, 0, len(lf.Skills))
	for k := range lf.Skills {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteString("{\n")
	fmt.Fprintf(&buf, "  \"lockfileVersion\": %d,\n", lf.LockfileVersion)
	buf.WriteString("  \"skills\": {")
	if len(keys) == 0 {
		buf.WriteString("}\n")
	} else {
		buf.WriteString("\n")
		for i, k := range keys {
			entryJSON, err := json.MarshalIndent(lf.Skills[k], "    ", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal lockfile entry %s: %w", k, err)
			}
			fmt.Fprintf(&buf, "    %q: %s", k, entryJSON)
			if i < len(keys)-1 {
				buf.WriteString(",")
			}
			buf.WriteString("\n")
		}
		buf.WriteString("  }\n")
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

// Set upserts the entry for name@version.
func (lf *Lockfile) Set(name, version string, entry Entry) {
	if lf.Skills == nil {
		lf.Skills = map[string]Entry{}
	}
	lf.Skills[Key(name, version)] = entry
}

// Get returns the entry for name@version, if present.
func (lf *Lockfile) Get(name, version string) (Entry, bool) {
	entry, ok := lf.Skills[Key(name, version)]
	return entry, ok
}

// Remove deletes the entry for name@version.
func (lf *Lockfile) Remove(name, version string) {
	delete(lf.Skills, Key(name, version))
}
