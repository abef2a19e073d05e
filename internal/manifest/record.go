// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"fmt"
	"regexp"
	"strings"
)

// Field names one of the per-file statistics carried by a manifest.
type Field string

const (
	FixedSize Field = "fixed_size"
	RowCount  Field = "row_count"
	RowWidth  Field = "row_width"
	VarOffset Field = "var_offset"
	VarSize   Field = "var_size"
)

// Fields is the canonical comparison and display order.
var Fields = []Field{FixedSize, RowCount, RowWidth, VarOffset, VarSize}

var fieldLabels = map[Field]string{
	FixedSize: "Fixed section size",
	RowCount:  "Fixed row count",
	RowWidth:  "Fixed row width",
	VarOffset: "Variable section offset",
	VarSize:   "Variable section size",
}

// Label returns the human readable name of f.
func (f Field) Label() string {
	if l, ok := fieldLabels[f]; ok {
		return l
	}
	return string(f)
}

// ParseField resolves a field name, case-insensitively.
func ParseField(s string) (Field, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, f := range Fields {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// Stats are the structural statistics of one DAT file.
type Stats struct {
	FixedSize int64 `json:"fixed_size" yaml:"fixed_size"`
	RowCount  int64 `json:"row_count" yaml:"row_count"`
	RowWidth  int64 `json:"row_width" yaml:"row_width"`
	VarOffset int64 `json:"var_offset" yaml:"var_offset"`
	VarSize   int64 `json:"var_size" yaml:"var_size"`
}

// Get returns the value of f. Unknown fields panic; callers iterate Fields.
func (s Stats) Get(f Field) int64 {
	switch f {
	case FixedSize:
		return s.FixedSize
	case RowCount:
		return s.RowCount
	case RowWidth:
		return s.RowWidth
	case VarOffset:
		return s.VarOffset
	case VarSize:
		return s.VarSize
	}
	panic(fmt.Sprintf("unknown stats field %q", f))
}

func (s *Stats) set(f Field, v int64) {
	switch f {
	case FixedSize:
		s.FixedSize = v
	case RowCount:
		s.RowCount = v
	case RowWidth:
		s.RowWidth = v
	case VarOffset:
		s.VarOffset = v
	case VarSize:
		s.VarSize = v
	}
}

// FileRecord is one normalized DAT file entry of a manifest.
type FileRecord struct {
	// Key is the canonical, extension-less key ("data/mods"). Both extension
	// variants of a logical file share it.
	Key string `json:"key" yaml:"key"`
	// RawKey is the manifest's own key, lowercased ("data/mods.dat64").
	RawKey      string `json:"raw_key" yaml:"raw_key"`
	DisplayName string `json:"name" yaml:"name"`
	Stats       Stats  `json:"stats" yaml:"stats"`
}

// Wide reports whether the record came from the 64-bit variant of the file.
func (r *FileRecord) Wide() bool {
	return strings.HasSuffix(r.RawKey, ".dat64")
}

// datKeyRegex matches manifest keys. The captured group is the display name.
var datKeyRegex = regexp.MustCompile(`(?i)^data/(\w+)\.dat(?:64)?$`)

// Normalize derives the canonical key and display name from a raw manifest
// key. Keys outside data/ or without a .dat/.dat64 extension are rejected.
func Normalize(rawKey string) (key string, displayName string, err error) {
	m := datKeyRegex.FindStringSubmatch(rawKey)
	if m == nil {
		return "", "", fmt.Errorf("key %q does not match %s", rawKey, datKeyRegex)
	}
	return "data/" + strings.ToLower(m[1]), m[1], nil
}

// NewFileRecord builds a record from a raw manifest key and its stats.
func NewFileRecord(rawKey string, stats Stats) (*FileRecord, error) {
	key, name, err := Normalize(rawKey)
	if err != nil {
		return nil, err
	}
	return &FileRecord{
		Key:         key,
		RawKey:      strings.ToLower(rawKey),
		DisplayName: name,
		Stats:       stats,
	}, nil
}
