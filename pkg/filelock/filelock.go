// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package filelock provides OS-level advisory file locking for the files
// Tank mutates from multiple processes: config.json and the auth
// credentials file (skills.lock and links.json are written without a
// lock). Every lock taken through NewTrackedLock is registered in a
// process-wide registry so a crashed or interrupted command still leaves
// behind a way to find and release its locks, and so CleanupStaleLocks can
// reclaim lock files abandoned by a process that died without unlocking.
package filelock

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/tankpkg/tank/pkg/logger"
)

// lockRegistry tracks every *flock.Flock currently held by this process, so
// it can be released and its backing file removed on cleanup.
type lockRegistry struct {
	locks map[string]*flock.Flock
	mu    sync.RWMutex
}

// RegisterLock records lock as held for path.
func (r *lockRegistry) RegisterLock(path string, lock *flock.Flock) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locks[path] = lock
}

// UnregisterLock removes path from the registry without touching the lock
// itself.
func (r *lockRegistry) UnregisterLock(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.locks, path)
}

// CleanupAll unlocks and removes every lock file currently tracked, then
// empties the registry. It is best-effort: a failure to unlock or remove one
// lock does not stop the rest from being cleaned up.
func (r *lockRegistry) CleanupAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for path, lock := range r.locks {
		if err := lock.Unlock(); err != nil {
			logger.Debugw("failed to unlock file during cleanup", "path", path, "error", err)
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Debugw("failed to remove lock file during cleanup", "path", path, "error", err)
		}
	}
	r.locks = make(map[string]*flock.Flock)
}

// globalRegistry is the process-wide set of locks acquired through
// NewTrackedLock. Tests may swap it out to observe registration without
// racing the real registry.
var globalRegistry = &lockRegistry{
	locks: make(map[string]*flock.Flock),
}

// NewTrackedLock creates a *flock.Flock for lockPath and registers it in the
// global registry. The caller is still responsible for calling Lock/TryLock
// and, eventually, ReleaseTrackedLock.
func NewTrackedLock(lockPath string) *flock.Flock {
	lock := flock.New(lockPath)
	globalRegistry.RegisterLock(lockPath, lock)
	return lock
}

// ReleaseTrackedLock unlocks lock, removes its backing file, and unregisters
// it from the global registry. It tolerates lock already being unlocked.
func ReleaseTrackedLock(lockPath string, lock *flock.Flock) {
	if err := lock.Unlock(); err != nil {
		logger.Debugw("failed to unlock file", "path", lockPath, "error", err)
	}
	if err := os.Remove(lockPath); err != nil && !os.IsNotExist(err) {
		logger.Debugw("failed to remove lock file", "path", lockPath, "error", err)
	}
	globalRegistry.UnregisterLock(lockPath)
}

// CleanupAllLocks releases every lock held by this process and removes
// its lock file. The CLI does not call it; each store releases its own
// lock with ReleaseTrackedLock.
func CleanupAllLocks() {
	globalRegistry.CleanupAll()
}

// CleanupStaleLocks removes lock files under dirs that are older than
// maxAge and not currently held by any process. A lock file is considered
// stale only if a non-blocking TryLock on it succeeds (proving no other
// process holds it); the trial lock is released again immediately whether
// or not the file is removed, so this never disturbs an active lock.
func CleanupStaleLocks(dirs []string, maxAge time.Duration) {
	cutoff := time.Now().Add(-maxAge)

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != ".lock" {
				continue
			}

			path := filepath.Join(dir, entry.Name())
			info, err := entry.Info()
			if err != nil || info.ModTime().After(cutoff) {
				continue
			}

			lock := flock.New(path)
			locked, err := lock.TryLock()
			if err != nil || !locked {
				continue
			}

			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				logger.Debugw("failed to remove stale lock file", "path", path, "error", err)
			}
			if err := lock.Unlock(); err != nil {
				logger.Debugw("failed to release trial lock", "path", path, "error", err)
			}
		}
	}
}
