// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package download

import (
	"fmt"
	"os"
	"path/filepath"
)

// SkillsRoot returns the shared ".tank/skills" directory under root that
// every extracted skill lives beneath.
func SkillsRoot(root string) string {
	return filepath.Join(root, ".tank", "skills")
}

// RollbackAll removes the entire skills tree under root, so a failed
// multi-skill install never leaves a partially-extracted tree behind.
func RollbackAll(root string) error {
	if err := os.RemoveAll(SkillsRoot(root)); err != nil {
		return fmt.Errorf("failed to roll back skills tree: %w", err)
	}
	return nil
}
