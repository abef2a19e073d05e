// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package index

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/datdiff/internal/source"
	"github.com/tfctl/datdiff/internal/store"
)

const globalJSON = `{
  "builds": {
    "9830145": {"game_version": "3.24.0", "manifest_id": "a"},
    "21125830": {"game_version": "3.25.1"},
    "beta": {"game_version": "4.0.0"},
    "10962371": {"game_version": "3.25.0"}
  }
}`

type memSource struct {
	docs map[string]string
	err  error
}

func (m memSource) Fetch(_ context.Context, path string) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	doc, ok := m.docs[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, source.ErrNotFound)
	}
	return []byte(doc), nil
}

func (m memSource) Location(path string) string { return "mem://" + path }
func (m memSource) String() string              { return "mem://" }

func TestParse_Order(t *testing.T) {
	idx, err := Parse([]byte(globalJSON))
	require.NoError(t, err)

	var ids []string
	for _, b := range idx.Builds() {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []string{"21125830", "10962371", "9830145", "beta"}, ids)
	assert.Equal(t, 4, idx.Len())
}

func TestLookup(t *testing.T) {
	idx, err := Parse([]byte(globalJSON))
	require.NoError(t, err)

	b, err := idx.Lookup("9830145")
	require.NoError(t, err)
	assert.Equal(t, "3.24.0", b.GameVersion)
	assert.Equal(t, "3.24.0 (build 9830145)", b.Label())
	assert.Equal(t, "a", b.Meta("manifest_id").String())

	_, err = idx.Lookup("1")
	var ue *UnknownBuildError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "1", ue.ID)
	assert.EqualError(t, err, `unknown build "1"`)
}

func TestDefaultPair(t *testing.T) {
	idx, err := Parse([]byte(globalJSON))
	require.NoError(t, err)

	from, to, err := idx.DefaultPair()
	require.NoError(t, err)
	assert.Equal(t, "10962371", from.ID)
	assert.Equal(t, "21125830", to.ID)

	one, err := Parse([]byte(`{"builds":{"1":{"game_version":"1.0"}}}`))
	require.NoError(t, err)
	_, _, err = one.DefaultPair()
	assert.ErrorIs(t, err, ErrTooFewBuilds)
}

func TestResolve(t *testing.T) {
	idx, err := Parse([]byte(globalJSON))
	require.NoError(t, err)

	tests := []struct {
		name     string
		fromID   string
		toID     string
		wantFrom string
		wantTo   string
		unknown  string
	}{
		{name: "defaults", wantFrom: "10962371", wantTo: "21125830"},
		{name: "from only", fromID: "9830145", wantFrom: "9830145", wantTo: "21125830"},
		{name: "to only", toID: "beta", wantFrom: "10962371", wantTo: "beta"},
		{name: "both", fromID: "beta", toID: "9830145", wantFrom: "beta", wantTo: "9830145"},
		{name: "unknown from", fromID: "42", unknown: "42"},
		{name: "unknown to", fromID: "beta", toID: "43", unknown: "43"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, err := idx.Resolve(tt.fromID, tt.toID)
			if tt.unknown != "" {
				var ue *UnknownBuildError
				require.ErrorAs(t, err, &ue)
				assert.Equal(t, tt.unknown, ue.ID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFrom, from.ID)
			assert.Equal(t, tt.wantTo, to.ID)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte(`{"versions":[]}`))
	assert.ErrorContains(t, err, "no builds object")
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	idx, err := Load(ctx, memSource{docs: map[string]string{source.IndexPath: globalJSON}})
	require.NoError(t, err)
	assert.Equal(t, 4, idx.Len())

	_, err = Load(ctx, memSource{docs: map[string]string{}})
	var fe *store.FetchError
	require.ErrorAs(t, err, &fe)
	assert.True(t, fe.NotFound)
	assert.Empty(t, fe.BuildID)
	assert.Equal(t, "mem://global.json", fe.URL)

	_, err = Load(ctx, memSource{docs: map[string]string{source.IndexPath: "<html>"}})
	require.ErrorAs(t, err, &fe)
	assert.False(t, fe.NotFound)

	_, err = Load(ctx, memSource{err: errors.New("dial tcp: timeout")})
	require.ErrorAs(t, err, &fe)
	assert.ErrorContains(t, err, "failed to fetch index")
}
