// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package fileutils

import (
	"fmt"
	"regexp"
	"strings"
)

// pathSegmentPattern matches the characters Tank allows in any string that
// is later joined onto a filesystem path: skill names once scope/slash has
// been stripped, flat names, and agent IDs.
var pathSegmentPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// ValidatePathSegment rejects any string unsafe to join onto a filesystem
// path: empty strings, path separators, traversal sequences, null bytes, and
// shell metacharacters. It is the last line of defense before a name derived
// from a manifest, tarball entry, or registry response is used to build a
// path under .tank/.
func ValidatePathSegment(name string) error {
	if name == "" {
		return fmt.Errorf("invalid path segment: empty")
	}
	if strings.Contains(name, "..") {
		return fmt.Errorf("invalid path segment: %q contains '..'", name)
	}
	if strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("invalid path segment: %q contains a path separator", name)
	}
	if !pathSegmentPattern.MatchString(name) {
		return fmt.Errorf("invalid path segment: %q contains disallowed characters", name)
	}
	return nil
}
