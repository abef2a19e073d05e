// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"

	awsx "github.com/tfctl/datdiff/internal/aws"
	"github.com/tfctl/datdiff/internal/cacheutil"
	"github.com/tfctl/datdiff/internal/config"
	"github.com/tfctl/datdiff/internal/log"
)

// ErrNotFound marks a resource that the source answered for but does not
// have. For manifests this usually means the build predates DAT64 files or has
// not been ingested yet.
var ErrNotFound = errors.New("resource not found")

// StatusError is a non-success HTTP response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Is lets errors.Is(err, ErrNotFound) match a 404.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Source retrieves raw JSON documents by a path relative to its base.
type Source interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
	// Location returns the absolute location of path, used for cache keys and
	// error messages.
	Location(path string) string
	String() string
}

// IndexPath is the path of the global build index.
const IndexPath = "global.json"

// ManifestPath returns the path of the manifest of buildID.
func ManifestPath(buildID string) string {
	return "builds/build-" + buildID + ".json"
}

// New returns the Source for base, wrapped in the on-disk cache when the base
// is remote and caching is enabled. Supported forms are http(s)://,
// s3://bucket/prefix, file://dir and bare directory paths.
func New(ctx context.Context, base string) (Source, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid source %q: %w", base, err)
	}

	// Single letter schemes are Windows drive letters.
	if len(u.Scheme) <= 1 {
		return NewLocal(base), nil
	}

	var src Source
	var subdir string

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		timeout, _ := config.GetInt("http.timeout", 30) //nolint:mnd
		src = NewHTTP(u, WithTimeout(timeout))
		subdir = u.Host
	case "s3":
		s3src, err := newS3FromConfig(ctx, u)
		if err != nil {
			return nil, err
		}
		src = s3src
		subdir = u.Host
	case "file":
		return NewLocal(filepath.FromSlash(u.Path)), nil
	default:
		return nil, fmt.Errorf("unsupported source scheme %q in %s", u.Scheme, base)
	}

	disk := cacheutil.New(subdir)
	if disk == nil {
		log.Debugf("disk cache disabled: source=%s", src)
		return src, nil
	}

	cleanHours, _ := config.GetInt("cache.clean", 0)
	if err := disk.Purge(cleanHours); err != nil {
		log.WithError(err).Warn("failed to purge cache")
	}

	return WithDiskCache(src, disk), nil
}

func newS3FromConfig(ctx context.Context, u *url.URL) (*S3Source, error) {
	client, err := awsx.NewManifestClient(ctx, awsx.SettingsFromConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewS3(client, u.Host, strings.TrimPrefix(u.Path, "/")), nil
}

// cached serves documents from the disk cache and fills it on a miss. Only
// payloads that parse as JSON are written. The index grows as builds are
// ingested, so it always goes to the underlying source.
type cached struct {
	Source
	disk *cacheutil.Disk
}

// WithDiskCache wraps src with disk.
func WithDiskCache(src Source, disk *cacheutil.Disk) Source {
	return &cached{Source: src, disk: disk}
}

func (c *cached) Fetch(ctx context.Context, path string) ([]byte, error) {
	if path == IndexPath {
		return c.Source.Fetch(ctx, path)
	}

	key := c.Location(path)
	if entry, ok := c.disk.Read(key); ok {
		return entry.Data, nil
	}

	data, err := c.Source.Fetch(ctx, path)
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(data) {
		log.WithFields(log.Fields{"key": key, "bytes": len(data)}).Debug("payload not cached")
		return data, nil
	}
	if err := c.disk.Write(key, data); err != nil {
		log.WithFields(log.Fields{"key": key}).WithError(err).Warn("failed to write payload to cache")
	}
	return data, nil
}
