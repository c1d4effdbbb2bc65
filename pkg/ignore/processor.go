// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package ignore resolves which files under a skill directory are excluded
// from a tarball built by pkg/packer. Resolution order is fixed: a baseline
// of always-ignored patterns that cannot be overridden, then .tankignore if
// present, else .gitignore, else a small built-in default list. The ignore
// file itself is always excluded from its own result.
package ignore

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/tankpkg/tank/pkg/logger"
)

// baselinePatterns can never be overridden by a .tankignore or .gitignore
// file; they are always excluded.
var baselinePatterns = []string{
	"node_modules/**",
	".git/**",
	".tank/**",
	".DS_Store",
}

// defaultPatterns apply when neither .tankignore nor .gitignore is present.
var defaultPatterns = []string{
	"node_modules",
	".env",
	".env.*",
	"*.log",
}

// Config controls Processor construction.
type Config struct {
	// LoadGlobal, when true, also loads a user-level ignore file so a
	// single set of personal exclusions applies across every skill
	// directory packed on this machine.
	LoadGlobal bool
}

// Processor resolves the effective ignore pattern set for a skill directory.
type Processor struct {
	cfg            *Config
	GlobalPatterns []string
	LocalPatterns  []string

	// ignoreFileName is the local ignore file LocalPatterns was loaded
	// from (".tankignore", ".gitignore", or "" for the built-in default),
	// so ShouldIgnore can exclude it from its own result.
	ignoreFileName string
}

// NewProcessor builds a Processor. If cfg.LoadGlobal is set, the caller
// should populate GlobalPatterns via LoadGlobal before calling Resolve.
func NewProcessor(cfg *Config) *Processor {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Processor{
		cfg:            cfg,
		GlobalPatterns: nil,
		LocalPatterns:  nil,
	}
}

// loadIgnoreFile reads path and returns its non-comment, non-blank lines as
// patterns.
func (p *Processor) loadIgnoreFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return patterns, nil
}

// LoadGlobal loads a user-level ignore file (e.g. $HOME/.tank/ignore) into
// GlobalPatterns. A missing file is not an error: it simply contributes no
// patterns.
func (p *Processor) LoadGlobal(path string) error {
	patterns, err := p.loadIgnoreFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	p.GlobalPatterns = patterns
	return nil
}

// LoadLocal resolves the per-skill ignore file for dir following the fixed
// precedence: .tankignore, else .gitignore, else the built-in default list.
func (p *Processor) LoadLocal(dir string) error {
	tankIgnore := filepath.Join(dir, ".tankignore")
	if patterns, err := p.loadIgnoreFile(tankIgnore); err == nil {
		p.LocalPatterns = patterns
		p.ignoreFileName = ".tankignore"
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	gitIgnore := filepath.Join(dir, ".gitignore")
	if patterns, err := p.loadIgnoreFile(gitIgnore); err == nil {
		p.LocalPatterns = patterns
		p.ignoreFileName = ".gitignore"
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	p.LocalPatterns = append([]string(nil), defaultPatterns...)
	p.ignoreFileName = ""
	return nil
}

// patternMatchesInDirectory reports whether pattern, evaluated relative to
// dir, matches an existing file or directory. A trailing slash restricts
// the match to directories.
func (p *Processor) patternMatchesInDirectory(dir, pattern string) bool {
	wantDir := strings.HasSuffix(pattern, "/")
	clean := strings.TrimSuffix(pattern, "/")

	matches, err := filepath.Glob(filepath.Join(dir, clean))
	if err != nil {
		logger.Debugw("invalid ignore pattern", "pattern", pattern, "error", err)
		return false
	}
	if len(matches) == 0 {
		if _, err := os.Stat(filepath.Join(dir, clean)); err == nil {
			matches = []string{filepath.Join(dir, clean)}
		} else {
			return false
		}
	}

	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			continue
		}
		if wantDir && !info.IsDir() {
			continue
		}
		return true
	}
	return false
}

// ShouldIgnore reports whether path matches any baseline, local, or global
// pattern. path may be absolute or relative; matching is by base name and
// by glob against the full path, mirroring .gitignore-style semantics
// closely enough for the patterns Tank actually needs to support.
func (p *Processor) ShouldIgnore(path string) bool {
	base := filepath.Base(path)

	if p.ignoreFileName != "" && base == p.ignoreFileName {
		return true
	}

	all := make([]string, 0, len(baselinePatterns)+len(p.GlobalPatterns)+len(p.LocalPatterns))
	all = append(all, baselinePatterns...)
	all = append(all, p.GlobalPatterns...)
	all = append(all, p.LocalPatterns...)

	for _, pattern := range all {
		clean := strings.TrimSuffix(strings.TrimSuffix(pattern, "/**"), "/")
		if clean == base {
			return true
		}
		if ok, err := filepath.Match(clean, base); err == nil && ok {
			return true
		}
		if strings.Contains(path, "/"+clean+"/") || strings.HasPrefix(path, clean+"/") {
			return true
		}
	}
	return false
}
