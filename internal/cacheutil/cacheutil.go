// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/tfctl/datdiff/internal/log"
)

// Entry represents a cached payload on disk.
// Key is the clear-text key; EncodedKey is the hashed filename.
type Entry struct {
	Key        string
	EncodedKey string
	Path       string
	Data       []byte
}

// Disk is a directory of raw payloads keyed by the sha256 of a clear-text
// key (the manifest URL). Entries live beneath Base/<subdir>/.
type Disk struct {
	Base   string
	Subdir string
}

// Dir resolves the base cache directory.
// Precedence:
//  1. DATDIFF_CACHE_DIR, if set and non-empty
//  2. os.UserCacheDir()/datdiff
//
// Returns ("", false) if a base cannot be resolved (treat as disabled).
func Dir() (string, bool) {
	if c, ok := os.LookupEnv("DATDIFF_CACHE_DIR"); ok && c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "datdiff"), true
	}
	return "", false
}

// Enabled returns true unless DATDIFF_CACHE explicitly disables it
// ("0"/"false").
func Enabled() bool {
	enabled, _ := os.LookupEnv("DATDIFF_CACHE")
	return enabled == "" || (enabled != "0" && enabled != "false")
}

// New returns a Disk rooted at the resolved cache directory, or nil when
// caching is disabled or no directory can be resolved. A nil *Disk is safe to
// use; every method is a no-op.
func New(subdir string) *Disk {
	if !Enabled() {
		return nil
	}
	base, ok := Dir()
	if !ok {
		return nil
	}
	return &Disk{Base: base, Subdir: subdir}
}

// EnsureBaseDir creates the base cache directory if caching is enabled and
// a base path can be resolved. Returns the path, whether it is usable, and an
// error if creation failed.
func EnsureBaseDir() (string, bool, error) {
	if !Enabled() {
		return "", false, nil
	}

	base, ok := Dir()
	if !ok {
		return "", false, nil
	}

	if err := os.MkdirAll(base, 0o755); err != nil { //nolint:mnd
		return base, false, fmt.Errorf("failed to create cache base directory: %w", err)
	}
	log.Debugf("created cache dir: path=%s", base)
	return base, true, nil
}

// EntryPath returns the absolute path where the entry for clearKey would live
// and whether a file currently exists there.
func (d *Disk) EntryPath(clearKey string) (string, bool) {
	if d == nil {
		return "", false
	}
	p := filepath.Join(d.Base, d.Subdir, encodeKey(clearKey))
	if _, err := os.Stat(p); err == nil {
		return p, true
	}
	return p, false
}

// Read attempts to read a cached entry.
func (d *Disk) Read(clearKey string) (*Entry, bool) {
	p, ok := d.EntryPath(clearKey)
	if !ok {
		return nil, false
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, false
	}
	log.Debugf("cache hit: key=%s", clearKey)
	return &Entry{
		Key:        clearKey,
		EncodedKey: encodeKey(clearKey),
		Path:       p,
		Data:       bytes.TrimSpace(b),
	}, true
}

// Write stores data for the given key. Creates directories as needed. The
// payload lands under a temporary name first so a concurrent Read never sees
// a partial entry.
func (d *Disk) Write(clearKey string, data []byte) error {
	if d == nil {
		return nil
	}
	dir := filepath.Join(d.Base, d.Subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".write-*")
	if err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, encodeKey(clearKey))); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	log.Debugf("cache write: key=%s bytes=%d", clearKey, len(data))
	return nil
}

// Usage reports the number of entries beneath the cache base and their total
// size. A missing base is an empty cache.
func (d *Disk) Usage() (files int, size int64, err error) {
	if d == nil {
		return 0, 0, nil
	}
	err = filepath.WalkDir(d.Base, func(_ string, e fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrNotExist) {
				return nil
			}
			return walkErr
		}
		if e.IsDir() {
			return nil
		}
		info, err := e.Info()
		if err != nil {
			return nil //nolint:nilerr
		}
		files++
		size += info.Size()
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to size cache: %w", err)
	}
	return files, size, nil
}

// Purge removes files beneath the cache base older than the provided number of
// hours. If hours <= 0 it is a no-op.
func (d *Disk) Purge(hours int) error {
	if d == nil {
		return nil
	}
	if hours <= 0 {
		log.Debug("cache cleaning disabled")
		return nil
	}

	maxAge := time.Duration(hours) * time.Hour
	if err := filepath.Walk(d.Base, func(path string, info os.FileInfo, walkErr error) error {
		// Files can vanish underneath us when two processes purge at once.
		if walkErr != nil {
			if os.IsNotExist(walkErr) {
				return nil
			}
			return walkErr
		}

		if info == nil {
			return nil
		}

		if !info.IsDir() && time.Since(info.ModTime()) > maxAge {
			if err := os.Remove(path); err == nil {
				log.Debugf("removed cache file %s", path)
			} else {
				log.WithError(err).Warnf("failed to remove cache file %s", path)
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}
	return nil
}

// Clear removes every entry beneath the cache base.
func (d *Disk) Clear() error {
	if d == nil {
		return nil
	}
	if err := os.RemoveAll(d.Base); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	log.Debugf("cache cleared: path=%s", d.Base)
	return nil
}

// encodeKey returns the hex sha256 of input.
func encodeKey(input string) string {
	h := sha256.New()
	h.Write([]byte(input))
	return hex.EncodeToString(h.Sum(nil))
}
