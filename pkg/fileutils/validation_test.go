// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package fileutils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tankpkg/tank/pkg/fileutils"
)

func TestValidatePathSegment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		segment     string
		expectError bool
	}{
		{name: "valid simple name", segment: "my-skill", expectError: false},
		{name: "valid with underscores", segment: "my_skill", expectError: false},
		{name: "valid with dots", segment: "my.skill", expectError: false},
		{name: "valid alphanumeric", segment: "skill123", expectError: false},
		{name: "valid flat name", segment: "scope--name", expectError: false},

		{name: "path traversal", segment: "../test", expectError: true},
		{name: "path traversal nested", segment: "../../etc/passwd", expectError: true},
		{name: "forward slash", segment: "test/workload", expectError: true},
		{name: "backslash", segment: "test\\workload", expectError: true},
		{name: "absolute path", segment: "/etc/passwd", expectError: true},
		{name: "empty", segment: "", expectError: true},
		{name: "command injection semicolon", segment: "test; rm -rf /", expectError: true},
		{name: "command injection pipe", segment: "test | cat /etc/passwd", expectError: true},
		{name: "null byte", segment: "test\x00workload", expectError: true},
		{name: "special characters", segment: "test@workload!", expectError: true},
		{name: "spaces", segment: "test workload", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := fileutils.ValidatePathSegment(tt.segment)
			if tt.expectError {
				assert.Error(t, err, "expected error for %q", tt.segment)
				assert.Contains(t, err.Error(), "invalid path segment")
			} else {
				assert.NoError(t, err, "did not expect error for %q", tt.segment)
			}
		})
	}
}

// TestValidatePathSegment_AttackPatterns checks real-world traversal/injection
// patterns are always rejected, independent of the table above.
func TestValidatePathSegment_AttackPatterns(t *testing.T) {
	t.Parallel()

	attackPatterns := []string{
		"../../../etc/passwd",
		"./../../../etc/passwd",
		"/etc/shadow",
		"..\\..\\Windows\\System32",
		"test && cat /etc/passwd",
		"test$(whoami)",
		"test`whoami`",
		"test\x00workload",
		"test/subdir",
	}

	for _, pattern := range attackPatterns {
		t.Run("reject_"+pattern, func(t *testing.T) {
			t.Parallel()
			err := fileutils.ValidatePathSegment(pattern)
			assert.Error(t, err, "should reject attack pattern: %q", pattern)
		})
	}
}
