// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/tfctl/datdiff/internal/log"
)

// MalformedManifestError reports a payload that is valid JSON but not shaped
// like a manifest. Key is empty for document-level problems.
type MalformedManifestError struct {
	BuildID string
	Key     string
	Reason  string
}

func (e *MalformedManifestError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("malformed manifest for build %s: %s", e.BuildID, e.Reason)
	}
	return fmt.Sprintf("malformed manifest for build %s: file %q: %s", e.BuildID, e.Key, e.Reason)
}

// ErrInvalidJSON is returned by Parse when the payload is not JSON at all.
var ErrInvalidJSON = errors.New("payload is not valid JSON")

// Manifest is the immutable set of file records of one build.
type Manifest struct {
	BuildID string

	files map[string]*FileRecord
	keys  []string
	raw   []byte
}

// Parse builds a Manifest from a raw build-<id>.json payload. Any entry whose
// key or stats are malformed fails the whole manifest.
func Parse(buildID string, raw []byte) (*Manifest, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("build %s: %w", buildID, ErrInvalidJSON)
	}

	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return nil, &MalformedManifestError{BuildID: buildID, Reason: "payload is not an object"}
	}

	files := doc.Get("files")
	if !files.IsObject() {
		return nil, &MalformedManifestError{BuildID: buildID, Reason: "missing files object"}
	}

	m := &Manifest{
		BuildID: buildID,
		files:   map[string]*FileRecord{},
		raw:     raw,
	}

	var perr error
	files.ForEach(func(k, v gjson.Result) bool {
		rawKey := k.String()

		stats, err := parseStats(v)
		if err != nil {
			perr = &MalformedManifestError{BuildID: buildID, Key: rawKey, Reason: err.Error()}
			return false
		}

		rec, err := NewFileRecord(rawKey, stats)
		if err != nil {
			perr = &MalformedManifestError{BuildID: buildID, Key: rawKey, Reason: err.Error()}
			return false
		}

		m.add(rec)
		return true
	})
	if perr != nil {
		return nil, perr
	}

	m.keys = make([]string, 0, len(m.files))
	for k := range m.files {
		m.keys = append(m.keys, k)
	}
	sort.Strings(m.keys)

	log.Debugf("manifest parsed: build=%s files=%d", buildID, len(m.files))
	return m, nil
}

// New assembles a Manifest from already normalized records. It exists for
// callers that build manifests in code rather than from a payload.
func New(buildID string, records ...*FileRecord) *Manifest {
	m := &Manifest{BuildID: buildID, files: map[string]*FileRecord{}}
	for _, r := range records {
		m.add(r)
	}
	for k := range m.files {
		m.keys = append(m.keys, k)
	}
	sort.Strings(m.keys)
	return m
}

// add indexes rec by its canonical key. When both extension variants of a
// file are present the .dat64 record is kept.
func (m *Manifest) add(rec *FileRecord) {
	if prev, ok := m.files[rec.Key]; ok {
		log.Debugf("duplicate file key: build=%s key=%s have=%s got=%s", m.BuildID, rec.Key, prev.RawKey, rec.RawKey)
		if prev.Wide() && !rec.Wide() {
			return
		}
	}
	m.files[rec.Key] = rec
}

func parseStats(v gjson.Result) (Stats, error) {
	var stats Stats
	if !v.IsObject() {
		return stats, fmt.Errorf("stats is not an object")
	}
	for _, f := range Fields {
		r := v.Get(string(f))
		if !r.Exists() {
			return stats, fmt.Errorf("missing %s", f)
		}
		if r.Type != gjson.Number {
			return stats, fmt.Errorf("%s is not a number: %s", f, r.Raw)
		}
		n, err := strconv.ParseInt(r.Raw, 10, 64)
		if err != nil {
			return stats, fmt.Errorf("%s is not an integer: %s", f, r.Raw)
		}
		stats.set(f, n)
	}
	return stats, nil
}

// Len returns the number of files.
func (m *Manifest) Len() int {
	return len(m.keys)
}

// Keys returns the canonical file keys in lexicographic order.
func (m *Manifest) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Record returns the record stored under the canonical key.
func (m *Manifest) Record(key string) (*FileRecord, bool) {
	r, ok := m.files[key]
	return r, ok
}

// Records returns every record ordered by key.
func (m *Manifest) Records() []*FileRecord {
	out := make([]*FileRecord, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, m.files[k])
	}
	return out
}

// Raw returns the payload the manifest was parsed from. It is nil for
// manifests built with New.
func (m *Manifest) Raw() []byte {
	return m.raw
}

// Meta reads opaque top-level metadata by gjson path. The files object is not
// metadata and always yields an empty result.
func (m *Manifest) Meta(path string) gjson.Result {
	if m.raw == nil || path == "files" || strings.HasPrefix(path, "files.") {
		return gjson.Result{}
	}
	return gjson.GetBytes(m.raw, path)
}

// Version returns the human readable game version label, if present.
func (m *Manifest) Version() string {
	return m.Meta("game_version").String()
}
