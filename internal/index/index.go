// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package index

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/tfctl/datdiff/internal/log"
	"github.com/tfctl/datdiff/internal/manifest"
	"github.com/tfctl/datdiff/internal/source"
	"github.com/tfctl/datdiff/internal/store"
)

// UnknownBuildError reports an identifier that the index does not list.
type UnknownBuildError struct {
	ID string
}

func (e *UnknownBuildError) Error() string {
	return fmt.Sprintf("unknown build %q", e.ID)
}

// ErrTooFewBuilds is returned by DefaultPair when the index lists fewer than
// two builds.
var ErrTooFewBuilds = errors.New("index lists fewer than two builds")

// Build is one entry of the index.
type Build struct {
	ID          string `json:"id" yaml:"id"`
	GameVersion string `json:"game_version" yaml:"game_version"`

	raw string
}

// Label returns the display label used by pickers and headers.
func (b Build) Label() string {
	return fmt.Sprintf("%s (build %s)", b.GameVersion, b.ID)
}

// Meta reads any other metadata of the entry by gjson path.
func (b Build) Meta(path string) gjson.Result {
	return gjson.Get(b.raw, path)
}

// Index is the parsed global.json of a source.
type Index struct {
	builds []Build
	byID   map[string]int
}

// Load fetches and parses the index of src.
func Load(ctx context.Context, src source.Source) (*Index, error) {
	loc := src.Location(source.IndexPath)
	log.Debugf("fetching index: url=%s", loc)

	raw, err := src.Fetch(ctx, source.IndexPath)
	if err != nil {
		return nil, store.NewFetchError("", loc, err)
	}
	if !gjson.ValidBytes(raw) {
		return nil, store.NewFetchError("", loc, manifest.ErrInvalidJSON)
	}

	return Parse(raw)
}

// Parse builds an Index from a raw global.json payload.
func Parse(raw []byte) (*Index, error) {
	builds := gjson.GetBytes(raw, "builds")
	if !builds.IsObject() {
		return nil, fmt.Errorf("index has no builds object")
	}

	idx := &Index{byID: map[string]int{}}
	builds.ForEach(func(k, v gjson.Result) bool {
		idx.builds = append(idx.builds, Build{
			ID:          k.String(),
			GameVersion: v.Get("game_version").String(),
			raw:         v.Raw,
		})
		return true
	})

	sort.SliceStable(idx.builds, func(i, j int) bool {
		return newer(idx.builds[i].ID, idx.builds[j].ID)
	})
	for i, b := range idx.builds {
		idx.byID[b.ID] = i
	}

	log.Debugf("index parsed: builds=%d", len(idx.builds))
	return idx, nil
}

// newer orders build ids newest first. Numeric ids compare numerically and
// sort ahead of anything else, which compares lexicographically.
func newer(a, b string) bool {
	an, aerr := strconv.ParseInt(a, 10, 64)
	bn, berr := strconv.ParseInt(b, 10, 64)
	switch {
	case aerr == nil && berr == nil:
		return an > bn
	case aerr == nil:
		return true
	case berr == nil:
		return false
	}
	return a < b
}

// Len returns the number of builds.
func (idx *Index) Len() int {
	return len(idx.builds)
}

// Builds returns every build, newest first.
func (idx *Index) Builds() []Build {
	out := make([]Build, len(idx.builds))
	copy(out, idx.builds)
	return out
}

// Lookup resolves id to its index entry.
func (idx *Index) Lookup(id string) (Build, error) {
	i, ok := idx.byID[id]
	if !ok {
		return Build{}, &UnknownBuildError{ID: id}
	}
	return idx.builds[i], nil
}

// DefaultPair returns the second newest build as from and the newest as to.
func (idx *Index) DefaultPair() (from Build, to Build, err error) {
	if len(idx.builds) < 2 { //nolint:mnd
		return Build{}, Build{}, ErrTooFewBuilds
	}
	return idx.builds[1], idx.builds[0], nil
}

// Resolve fills in missing specs from the default pair and resolves both with
// Find.
func (idx *Index) Resolve(fromID, toID string) (from Build, to Build, err error) {
	if fromID == "" || toID == "" {
		defFrom, defTo, err := idx.DefaultPair()
		if err != nil {
			return Build{}, Build{}, err
		}
		if fromID == "" {
			fromID = defFrom.ID
		}
		if toID == "" {
			toID = defTo.ID
		}
	}

	if from, err = idx.Find(fromID); err != nil {
		return Build{}, Build{}, err
	}
	if to, err = idx.Find(toID); err != nil {
		return Build{}, Build{}, err
	}
	return from, to, nil
}
