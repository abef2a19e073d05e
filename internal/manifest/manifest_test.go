// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw     string
		key     string
		name    string
		wantErr bool
	}{
		{raw: "Data/Mods.dat", key: "data/mods", name: "Mods"},
		{raw: "Data/Mods.dat64", key: "data/mods", name: "Mods"},
		{raw: "data/mods.DAT64", key: "data/mods", name: "mods"},
		{raw: "DATA/BaseItemTypes.Dat", key: "data/baseitemtypes", name: "BaseItemTypes"},
		{raw: "Data/Mods.datc64", wantErr: true},
		{raw: "Data/Mods.dat32", wantErr: true},
		{raw: "Data/Sub/Mods.dat", wantErr: true},
		{raw: "Metadata/Mods.dat", wantErr: true},
		{raw: "Data/Mods", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			key, name, err := Normalize(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.key, key)
			assert.Equal(t, tt.name, name)
		})
	}
}

func TestParseField(t *testing.T) {
	f, ok := ParseField(" Row_Count ")
	assert.True(t, ok)
	assert.Equal(t, RowCount, f)
	assert.Equal(t, "Fixed row count", f.Label())

	_, ok = ParseField("rows")
	assert.False(t, ok)
	assert.Equal(t, "rows", Field("rows").Label())
}

func TestStatsGet(t *testing.T) {
	s := Stats{FixedSize: 1, RowCount: 2, RowWidth: 3, VarOffset: 4, VarSize: 5}
	for i, f := range Fields {
		assert.Equal(t, int64(i+1), s.Get(f))
	}
	assert.Panics(t, func() { s.Get("bogus") })
}

func TestParse(t *testing.T) {
	raw := []byte(`{
		"game_version": "3.25.1",
		"files": {
			"Data/Mods.dat64": {"fixed_size":10,"row_count":5,"row_width":2,"var_offset":0,"var_size":0},
			"Data/ActiveSkills.dat64": {"fixed_size":100,"row_count":50,"row_width":2,"var_offset":100,"var_size":8}
		}
	}`)

	m, err := Parse("12345", raw)
	require.NoError(t, err)

	assert.Equal(t, "12345", m.BuildID)
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, []string{"data/activeskills", "data/mods"}, m.Keys())
	assert.Equal(t, "3.25.1", m.Version())
	assert.Equal(t, raw, m.Raw())

	rec, ok := m.Record("data/mods")
	require.True(t, ok)
	assert.Equal(t, "Mods", rec.DisplayName)
	assert.Equal(t, "data/mods.dat64", rec.RawKey)
	assert.True(t, rec.Wide())
	assert.Equal(t, Stats{FixedSize: 10, RowCount: 5, RowWidth: 2}, rec.Stats)

	records := m.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "ActiveSkills", records[0].DisplayName)

	assert.False(t, m.Meta("files").Exists())
	assert.False(t, m.Meta("files.Data/Mods\\.dat64").Exists())
}

func TestParse_KeysIsACopy(t *testing.T) {
	m, err := Parse("1", []byte(`{"files":{"Data/A.dat":{"fixed_size":1,"row_count":1,"row_width":1,"var_offset":0,"var_size":0}}}`))
	require.NoError(t, err)

	keys := m.Keys()
	keys[0] = "mutated"
	assert.Equal(t, []string{"data/a"}, m.Keys())
}

func TestParse_PrefersWideVariant(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "narrow first",
			raw:  `{"files":{"Data/Mods.dat":{"fixed_size":1,"row_count":1,"row_width":1,"var_offset":0,"var_size":0},"Data/Mods.dat64":{"fixed_size":2,"row_count":1,"row_width":2,"var_offset":0,"var_size":0}}}`,
		},
		{
			name: "wide first",
			raw:  `{"files":{"Data/Mods.dat64":{"fixed_size":2,"row_count":1,"row_width":2,"var_offset":0,"var_size":0},"Data/Mods.dat":{"fixed_size":1,"row_count":1,"row_width":1,"var_offset":0,"var_size":0}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse("1", []byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, 1, m.Len())

			rec, ok := m.Record("data/mods")
			require.True(t, ok)
			assert.Equal(t, "data/mods.dat64", rec.RawKey)
			assert.Equal(t, int64(2), rec.Stats.FixedSize)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		key    string
		reason string
	}{
		{name: "array", raw: `[1,2]`, reason: "not an object"},
		{name: "no files", raw: `{"game_version":"1"}`, reason: "missing files"},
		{name: "files not object", raw: `{"files":[]}`, reason: "missing files"},
		{
			name:   "bad key",
			raw:    `{"files":{"Data/Mods.dat":{"fixed_size":1,"row_count":1,"row_width":1,"var_offset":0,"var_size":0},"Art/Thing.png":{"fixed_size":1,"row_count":1,"row_width":1,"var_offset":0,"var_size":0}}}`,
			key:    "Art/Thing.png",
			reason: "does not match",
		},
		{
			name:   "missing field",
			raw:    `{"files":{"Data/Mods.dat":{"fixed_size":1,"row_count":1,"row_width":1,"var_offset":0}}}`,
			key:    "Data/Mods.dat",
			reason: "missing var_size",
		},
		{
			name:   "string field",
			raw:    `{"files":{"Data/Mods.dat":{"fixed_size":"1","row_count":1,"row_width":1,"var_offset":0,"var_size":0}}}`,
			key:    "Data/Mods.dat",
			reason: "fixed_size is not a number",
		},
		{
			name:   "fractional field",
			raw:    `{"files":{"Data/Mods.dat":{"fixed_size":1,"row_count":1.5,"row_width":1,"var_offset":0,"var_size":0}}}`,
			key:    "Data/Mods.dat",
			reason: "row_count is not an integer",
		},
		{
			name:   "stats not object",
			raw:    `{"files":{"Data/Mods.dat":42}}`,
			key:    "Data/Mods.dat",
			reason: "stats is not an object",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse("77", []byte(tt.raw))
			assert.Nil(t, m)

			var merr *MalformedManifestError
			require.True(t, errors.As(err, &merr), "got %v", err)
			assert.Equal(t, "77", merr.BuildID)
			assert.Equal(t, tt.key, merr.Key)
			assert.Contains(t, merr.Reason, tt.reason)
			assert.Contains(t, err.Error(), "build 77")
		})
	}
}

func TestParse_InvalidJSON(t *testing.T) {
	_, err := Parse("77", []byte(`{"files":`))
	assert.ErrorIs(t, err, ErrInvalidJSON)

	var merr *MalformedManifestError
	assert.False(t, errors.As(err, &merr))
}

func TestNew(t *testing.T) {
	a, err := NewFileRecord("Data/B.dat", Stats{RowCount: 1})
	require.NoError(t, err)
	b, err := NewFileRecord("Data/A.dat64", Stats{RowCount: 2})
	require.NoError(t, err)

	m := New("9", a, b)
	assert.Equal(t, []string{"data/a", "data/b"}, m.Keys())
	assert.Nil(t, m.Raw())
	assert.Empty(t, m.Version())

	_, err = NewFileRecord("nope.txt", Stats{})
	assert.Error(t, err)
}
