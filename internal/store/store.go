// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/tfctl/datdiff/internal/log"
	"github.com/tfctl/datdiff/internal/manifest"
	"github.com/tfctl/datdiff/internal/source"
)

// FetchError reports that a manifest (or the index, when BuildID is empty)
// could not be retrieved or was not JSON. NotFound is set when the source
// positively answered that the document does not exist.
type FetchError struct {
	BuildID    string
	URL        string
	StatusCode int
	NotFound   bool
	Err        error
}

func (e *FetchError) Error() string {
	what := "index"
	if e.BuildID != "" {
		what = "manifest for build " + e.BuildID
	}
	if e.NotFound {
		return fmt.Sprintf("failed to fetch %s: not found at %s", what, e.URL)
	}
	return fmt.Sprintf("failed to fetch %s: %v", what, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError classifies err from fetching loc.
func NewFetchError(buildID, loc string, err error) *FetchError {
	fe := &FetchError{
		BuildID:  buildID,
		URL:      loc,
		NotFound: errors.Is(err, source.ErrNotFound),
		Err:      err,
	}
	var se *source.StatusError
	if errors.As(err, &se) {
		fe.StatusCode = se.StatusCode
	}
	return fe
}

// Getter is what comparisons need from a store.
type Getter interface {
	Get(ctx context.Context, buildID string) (*manifest.Manifest, error)
}

// Store memoizes manifests by build id for its own lifetime. Concurrent Gets
// for the same uncached id share one fetch. Failures are not cached.
type Store struct {
	src source.Source

	mu        sync.RWMutex
	manifests map[string]*manifest.Manifest
	group     singleflight.Group
}

// New returns an empty Store reading from src.
func New(src source.Source) *Store {
	return &Store{
		src:       src,
		manifests: map[string]*manifest.Manifest{},
	}
}

// Source returns the source the store reads from.
func (s *Store) Source() source.Source {
	return s.src
}

// Get returns the manifest of buildID, fetching and parsing it on first use.
// Errors are *FetchError or *manifest.MalformedManifestError.
func (s *Store) Get(ctx context.Context, buildID string) (*manifest.Manifest, error) {
	if m, ok := s.cached(buildID); ok {
		log.Tracef("manifest cache hit: build=%s", buildID)
		return m, nil
	}

	ch := s.group.DoChan(buildID, func() (interface{}, error) {
		// Another caller may have finished between the check and DoChan.
		if m, ok := s.cached(buildID); ok {
			return m, nil
		}

		// The fetch outlives any single caller's cancellation so that joined
		// callers still get a result.
		m, err := s.load(context.WithoutCancel(ctx), buildID)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.manifests[buildID] = m
		s.mu.Unlock()
		return m, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			log.Debugf("manifest fetch shared: build=%s", buildID)
		}
		return res.Val.(*manifest.Manifest), nil //nolint:forcetypeassert
	}
}

// Len returns the number of cached manifests.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.manifests)
}

// Reset drops every cached manifest.
func (s *Store) Reset() {
	s.mu.Lock()
	s.manifests = map[string]*manifest.Manifest{}
	s.mu.Unlock()
}

func (s *Store) cached(buildID string) (*manifest.Manifest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.manifests[buildID]
	return m, ok
}

func (s *Store) load(ctx context.Context, buildID string) (*manifest.Manifest, error) {
	path := source.ManifestPath(buildID)
	loc := s.src.Location(path)
	log.Debugf("fetching manifest: build=%s url=%s", buildID, loc)

	raw, err := s.src.Fetch(ctx, path)
	if err != nil {
		return nil, NewFetchError(buildID, loc, err)
	}

	m, err := manifest.Parse(buildID, raw)
	if err != nil {
		// An unparseable body is a failed fetch, not a malformed manifest.
		if errors.Is(err, manifest.ErrInvalidJSON) {
			return nil, NewFetchError(buildID, loc, err)
		}
		return nil, err
	}

	return m, nil
}
