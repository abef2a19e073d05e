// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"sort"

	"github.com/tfctl/datdiff/internal/manifest"
)

// Status tags a FileDiff.
type Status string

const (
	Added   Status = "added"
	Removed Status = "removed"
	Changed Status = "changed"
)

// FieldChange is one differing statistic of a changed file.
type FieldChange struct {
	Field manifest.Field `json:"field" yaml:"field"`
	From  int64          `json:"from" yaml:"from"`
	To    int64          `json:"to" yaml:"to"`
}

// FileDiff is the outcome of comparing one canonical key across two
// manifests. From is nil for added files and To is nil for removed ones.
// Changes is non-empty exactly when Status is Changed.
type FileDiff struct {
	Status  Status               `json:"status" yaml:"status"`
	Key     string               `json:"key" yaml:"key"`
	From    *manifest.FileRecord `json:"from,omitempty" yaml:"from,omitempty"`
	To      *manifest.FileRecord `json:"to,omitempty" yaml:"to,omitempty"`
	Changes []FieldChange        `json:"changes,omitempty" yaml:"changes,omitempty"`
}

// Name returns the display name of the file, preferring the newer record.
func (d FileDiff) Name() string {
	if d.To != nil {
		return d.To.DisplayName
	}
	if d.From != nil {
		return d.From.DisplayName
	}
	return d.Key
}

// Fields returns the names of the changed fields in canonical order.
func (d FileDiff) Fields() []manifest.Field {
	out := make([]manifest.Field, 0, len(d.Changes))
	for _, c := range d.Changes {
		out = append(out, c.Field)
	}
	return out
}

// Invert returns the diff as seen from the other direction.
func (d FileDiff) Invert() FileDiff {
	inv := FileDiff{
		Status: d.Status,
		Key:    d.Key,
		From:   d.To,
		To:     d.From,
	}
	switch d.Status {
	case Added:
		inv.Status = Removed
	case Removed:
		inv.Status = Added
	}
	if d.Changes != nil {
		inv.Changes = make([]FieldChange, len(d.Changes))
		for i, c := range d.Changes {
			inv.Changes[i] = FieldChange{Field: c.Field, From: c.To, To: c.From}
		}
	}
	return inv
}

// Invert inverts every element of diffs, keeping their order.
func Invert(diffs []FileDiff) []FileDiff {
	out := make([]FileDiff, len(diffs))
	for i, d := range diffs {
		out[i] = d.Invert()
	}
	return out
}

// Diff compares two manifests. The result is ordered by canonical key and
// omits files whose statistics are all equal, so Diff(m, m) is empty.
func Diff(from, to *manifest.Manifest) []FileDiff {
	keys := union(from.Keys(), to.Keys())
	diffs := make([]FileDiff, 0, len(keys))

	for _, key := range keys {
		fr, inFrom := from.Record(key)
		tr, inTo := to.Record(key)

		switch {
		case inFrom && !inTo:
			diffs = append(diffs, FileDiff{Status: Removed, Key: key, From: fr})
		case !inFrom && inTo:
			diffs = append(diffs, FileDiff{Status: Added, Key: key, To: tr})
		default:
			changes := compareStats(fr.Stats, tr.Stats)
			if len(changes) == 0 {
				continue
			}
			diffs = append(diffs, FileDiff{Status: Changed, Key: key, From: fr, To: tr, Changes: changes})
		}
	}

	return diffs
}

func compareStats(a, b manifest.Stats) []FieldChange {
	var changes []FieldChange
	for _, f := range manifest.Fields {
		if av, bv := a.Get(f), b.Get(f); av != bv {
			changes = append(changes, FieldChange{Field: f, From: av, To: bv})
		}
	}
	return changes
}

// union merges two key lists into one sorted, duplicate free list.
func union(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, k := range list {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// Summary counts diffs by status.
type Summary struct {
	Added   int `json:"added" yaml:"added"`
	Removed int `json:"removed" yaml:"removed"`
	Changed int `json:"changed" yaml:"changed"`
}

// Summarize counts diffs by status.
func Summarize(diffs []FileDiff) Summary {
	var s Summary
	for _, d := range diffs {
		switch d.Status {
		case Added:
			s.Added++
		case Removed:
			s.Removed++
		case Changed:
			s.Changed++
		}
	}
	return s
}
