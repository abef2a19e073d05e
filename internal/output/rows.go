// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"github.com/tfctl/datdiff/internal/differ"
	"github.com/tfctl/datdiff/internal/index"
	"github.com/tfctl/datdiff/internal/manifest"
)

// DiffRow is the rendered form of a differ.FileDiff.
type DiffRow struct {
	Status  differ.Status        `json:"status" yaml:"status"`
	Name    string               `json:"name" yaml:"name"`
	Key     string               `json:"key" yaml:"key"`
	Fields  []manifest.Field     `json:"fields" yaml:"fields"`
	From    *manifest.FileRecord `json:"from,omitempty" yaml:"from,omitempty"`
	To      *manifest.FileRecord `json:"to,omitempty" yaml:"to,omitempty"`
	Changes []differ.FieldChange `json:"changes,omitempty" yaml:"changes,omitempty"`
}

// DiffRows converts diffs to rows, keeping their order.
func DiffRows(diffs []differ.FileDiff) []DiffRow {
	rows := make([]DiffRow, 0, len(diffs))
	for _, d := range diffs {
		rows = append(rows, DiffRow{
			Status:  d.Status,
			Name:    d.Name(),
			Key:     d.Key,
			Fields:  d.Fields(),
			From:    d.From,
			To:      d.To,
			Changes: d.Changes,
		})
	}
	return rows
}

// BuildRow is the rendered form of an index entry.
type BuildRow struct {
	ID          string `json:"id" yaml:"id"`
	GameVersion string `json:"game_version" yaml:"game_version"`
	Label       string `json:"label" yaml:"label"`
}

// BuildRows converts index entries to rows.
func BuildRows(builds []index.Build) []BuildRow {
	rows := make([]BuildRow, 0, len(builds))
	for _, b := range builds {
		rows = append(rows, BuildRow{ID: b.ID, GameVersion: b.GameVersion, Label: b.Label()})
	}
	return rows
}
