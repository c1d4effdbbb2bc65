// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package download

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tankpkg/tank/pkg/errors"
	"github.com/tankpkg/tank/pkg/manifest"
)

// packagePrefix is an npm-compatible leading directory stripped from
// every archive entry name before it is extracted.
const packagePrefix = "package/"

// TargetDir returns the extraction directory for name under root's
// .tank/skills tree: scoped names extract to ".../skills/@scope/name/",
// unscoped names extract to ".../skills/name/".
func TargetDir(root, name string) string {
	if scope, bare, ok := manifest.IsScoped(name); ok {
		return filepath.Join(root, ".tank", "skills", "@"+scope, bare)
	}
	return filepath.Join(root, ".tank", "skills", name)
}

// Extract cleans targetDir and extracts tarball (a gzip-compressed tar
// archive) into it. Every entry is validated before being written: no
// symlinks, no absolute paths, no path traversal, no device/fifo entries.
// An npm-style leading "package/" prefix is stripped from entry names.
// File modes default to 0644, directories to 0755.
func Extract(tarball []byte, targetDir string) error {
	if err := os.RemoveAll(targetDir); err != nil {
		return fmt.Errorf("failed to clean extraction target: %w", err)
	}
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return fmt.Errorf("failed to create extraction target: %w", err)
	}

	gzReader, err := gzip.NewReader(bytes.NewReader(tarball))
	if err != nil {
		return errors.NewIntegrityMismatchError("tarball is not valid gzip", err)
	}
	defer gzReader.Close()

	tarReader := tar.NewReader(gzReader)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read tar entry: %w", err)
		}

		name := strings.TrimPrefix(header.Name, packagePrefix)
		if name == "" {
			continue
		}

		target, err := secureTargetPath(targetDir, name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", name, err)
			}
		case tar.TypeReg, tar.TypeRegA:
			if err := extractFile(tarReader, target); err != nil {
				return err
			}
		case tar.TypeSymlink, tar.TypeLink:
			return errors.NewPackSymlinkPresentError(fmt.Sprintf("archive entry %s is a link", name), nil)
		default:
			return errors.NewPackInvalidManifestError(
				fmt.Sprintf("archive entry %s has unsupported type", name), nil)
		}
	}

	return nil
}

func extractFile(r io.Reader, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", target, err)
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	return out.Close()
}

// secureTargetPath resolves name against targetDir, rejecting absolute
// paths and any entry whose cleaned, joined path escapes targetDir.
func secureTargetPath(targetDir, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.NewPackPathTraversalError("archive entry name is empty", nil)
	}
	if filepath.IsAbs(name) {
		return "", errors.NewPackPathTraversalError(fmt.Sprintf("archive entry has an absolute path: %s", name), nil)
	}

	cleanName := filepath.Clean(name)
	if cleanName == ".." || strings.HasPrefix(cleanName, ".."+string(filepath.Separator)) {
		return "", errors.NewPackPathTraversalError(fmt.Sprintf("archive entry escapes destination: %s", name), nil)
	}

	target := filepath.Join(targetDir, cleanName)
	rel, err := filepath.Rel(filepath.Clean(targetDir), target)
	if err != nil {
		return "", fmt.Errorf("failed to resolve archive entry path: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", errors.NewPackPathTraversalError(fmt.Sprintf("archive entry escapes destination: %s", name), nil)
	}

	return target, nil
}
