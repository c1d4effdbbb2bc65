// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package packer builds a deterministic, gzip-compressed tarball from a
// skill's source directory for publishing to the registry.
package packer

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tankpkg/tank/pkg/errors"
	"github.com/tankpkg/tank/pkg/ignore"
	"github.com/tankpkg/tank/pkg/manifest"
)

// MaxFileCount is the maximum number of files a packed skill may contain
// after ignore resolution.
const MaxFileCount = 1000

// SkillMDFileName is the required human-readable instructions file every
// skill must ship alongside skills.json.
const SkillMDFileName = "SKILL.md"

// Result is the output of Pack.
type Result struct {
	Tarball   []byte
	Integrity string
	FileCount int
	TotalSize int64
}

// Pack builds a tarball from dir. It fails fast with a typed *errors.Error
// if skills.json or SKILL.md is missing, if skills.json does not parse, if
// any entry is a symbolic link, if any path escapes dir, or if the
// post-ignore file count exceeds MaxFileCount.
func Pack(dir string) (*Result, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, errors.NewPackDirMissingError(fmt.Sprintf("directory does not exist: %s", dir), err)
	}

	manifestPath := filepath.Join(dir, manifest.FileName)
	manifestData, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, errors.NewPackMissingRequiredError(manifest.FileName+" is required", err)
	}
	if _, err := os.Stat(filepath.Join(dir, SkillMDFileName)); err != nil {
		return nil, errors.NewPackMissingRequiredError(SkillMDFileName+" is required", err)
	}
	if _, err := manifest.Parse(manifestData); err != nil {
		return nil, errors.NewPackInvalidManifestError(manifest.FileName+" failed to parse", err)
	}

	processor := ignore.NewProcessor(&ignore.Config{LoadGlobal: false})
	if err := processor.LoadLocal(dir); err != nil {
		return nil, fmt.Errorf("failed to load ignore patterns: %w", err)
	}

	paths, err := collectPaths(dir, processor)
	if err != nil {
		return nil, err
	}
	if len(paths) > MaxFileCount {
		return nil, errors.NewPackTooManyFilesError(
			fmt.Sprintf("skill contains %d files, exceeding the %d file limit", len(paths), MaxFileCount), nil)
	}

	tarball, totalSize, err := buildTarball(dir, paths)
	if err != nil {
		return nil, err
	}

	sum := sha512.Sum512(tarball)
	integrity := "sha512-" + base64.StdEncoding.EncodeToString(sum[:])

	return &Result{
		Tarball:   tarball,
		Integrity: integrity,
		FileCount: len(paths),
		TotalSize: totalSize,
	}, nil
}

// collectPaths walks dir, returning every included file's path relative to
// dir, sorted lexicographically. It rejects symbolic links and any path
// traversal outside dir.
func collectPaths(dir string, processor *ignore.Processor) ([]string, error) {
	var paths []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == dir {
			return nil
		}

		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if strings.Contains(rel, "..") {
			return errors.NewPackPathTraversalError(fmt.Sprintf("entry escapes root: %s", rel), nil)
		}

		if info.Mode()&os.ModeSymlink != 0 {
			return errors.NewPackSymlinkPresentError(fmt.Sprintf("symbolic link not allowed: %s", rel), nil)
		}

		if info.IsDir() {
			if processor.ShouldIgnore(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if processor.ShouldIgnore(rel) {
			return nil
		}

		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}

// buildTarball writes a gzip-compressed tar archive containing every path
// in paths (relative to dir), added in the order given, with fixed
// modification time and owner/group so the output is byte-reproducible.
func buildTarball(dir string, paths []string) ([]byte, int64, error) {
	var buf bytes.Buffer
	gzWriter := gzip.NewWriter(&buf)
	tarWriter := tar.NewWriter(gzWriter)

	var totalSize int64
	for _, rel := range paths {
		fullPath := filepath.Join(dir, filepath.FromSlash(rel))
		info, err := os.Lstat(fullPath)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to stat %s: %w", rel, err)
		}

		header := &tar.Header{
			Name:     rel,
			Mode:     0o644,
			Size:     info.Size(),
			Typeflag: tar.TypeReg,
			Uid:      0,
			Gid:      0,
			Uname:    "",
			Gname:    "",
			ModTime:  time.Unix(0, 0),
		}
		if err := tarWriter.WriteHeader(header); err != nil {
			return nil, 0, fmt.Errorf("failed to write tar header for %s: %w", rel, err)
		}

		file, err := os.Open(fullPath) // #nosec G304 -- path is derived from a directory walk over the caller's own skill root.
		if err != nil {
			return nil, 0, fmt.Errorf("failed to open %s: %w", rel, err)
		}
		written, copyErr := io.Copy(tarWriter, file)
		closeErr := file.Close()
		if copyErr != nil {
			return nil, 0, fmt.Errorf("failed to write %s into tarball: %w", rel, copyErr)
		}
		if closeErr != nil {
			return nil, 0, fmt.Errorf("failed to close %s: %w", rel, closeErr)
		}
		totalSize += written
	}

	if err := tarWriter.Close(); err != nil {
		return nil, 0, fmt.Errorf("failed to finalize tar archive: %w", err)
	}
	if err := gzWriter.Close(); err != nil {
		return nil, 0, fmt.Errorf("failed to finalize gzip stream: %w", err)
	}

	return buf.Bytes(), totalSize, nil
}
