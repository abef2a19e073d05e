// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/datdiff/internal/config"
)

func TestDeduplicateFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "empty args",
			args:     []string{},
			expected: []string{},
		},
		{
			name:     "only program and command",
			args:     []string{"datdiff", "diff"},
			expected: []string{"datdiff", "diff"},
		},
		{
			name:     "no duplicates",
			args:     []string{"datdiff", "diff", "--output", "text", "--titles"},
			expected: []string{"datdiff", "diff", "--output", "text", "--titles"},
		},
		{
			name:     "duplicate flag with value - last wins",
			args:     []string{"datdiff", "diff", "--output", "json", "--titles", "--output", "text"},
			expected: []string{"datdiff", "diff", "--titles", "--output", "text"},
		},
		{
			name:     "duplicate boolean flag",
			args:     []string{"datdiff", "diff", "--titles", "--debug", "--titles"},
			expected: []string{"datdiff", "diff", "--debug", "--titles"},
		},
		{
			name:     "duplicate flag with equals syntax",
			args:     []string{"datdiff", "diff", "--output=json", "--titles", "--output=text"},
			expected: []string{"datdiff", "diff", "--titles", "--output=text"},
		},
		{
			name:     "mixed equals and space syntax - same flag",
			args:     []string{"datdiff", "diff", "--output=json", "--output", "text"},
			expected: []string{"datdiff", "diff", "--output", "text"},
		},
		{
			name:     "multiple different flags with duplicates",
			args:     []string{"datdiff", "diff", "--source", "a", "--filter", "name=Mods", "--source", "b", "--filter", "status=added"},
			expected: []string{"datdiff", "diff", "--source", "b", "--filter", "status=added"},
		},
		{
			name:     "positional args preserved",
			args:     []string{"datdiff", "diff", "1", "2", "--output", "json", "--output", "text"},
			expected: []string{"datdiff", "diff", "1", "2", "--output", "text"},
		},
		{
			name:     "boolean flag does not swallow positional",
			args:     []string{"datdiff", "diff", "--titles", "1", "2", "--titles"},
			expected: []string{"datdiff", "diff", "1", "2", "--titles"},
		},
		{
			name:     "short flags deduplicated",
			args:     []string{"datdiff", "diff", "-o", "json", "-o", "text"},
			expected: []string{"datdiff", "diff", "-o", "text"},
		},
		{
			name:     "different flags not affected",
			args:     []string{"datdiff", "diff", "--color", "--no-color"},
			expected: []string{"datdiff", "diff", "--color", "--no-color"},
		},
		{
			name:     "triple duplicate",
			args:     []string{"datdiff", "diff", "--output", "a", "--output", "b", "--output", "c"},
			expected: []string{"datdiff", "diff", "--output", "c"},
		},
		{
			name:     "everything after terminator kept",
			args:     []string{"datdiff", "diff", "-o", "json", "--", "-o", "-o"},
			expected: []string{"datdiff", "diff", "-o", "json", "--", "-o", "-o"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, deduplicateFlags(tt.args))
		})
	}
}

func TestDeduplicateFlagsWithPositionalAfterFlags(t *testing.T) {
	args := []string{"datdiff", "show", "--output", "json", "21125830", "--output", "text"}
	expected := []string{"datdiff", "show", "21125830", "--output", "text"}
	assert.Equal(t, expected, deduplicateFlags(args))
}

func TestProcessSetOnly(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "datdiff.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(`diff:
  defaults:
    - --titles
  ci:
    - --output json
    - --filter status=changed
`), 0o600))
	t.Setenv("DATDIFF_CFG_FILE", cfg)

	saved := config.Config
	t.Cleanup(func() { config.Config = saved })
	config.Config.Namespace = ""
	_, err := config.Load()
	require.NoError(t, err)

	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "no set",
			args:     []string{"datdiff", "diff", "--color"},
			expected: []string{"datdiff", "diff", "--color"},
		},
		{
			name:     "named set expanded in place",
			args:     []string{"datdiff", "diff", "@ci", "1", "2"},
			expected: []string{"datdiff", "diff", "--output", "json", "--filter", "status=changed", "1", "2"},
		},
		{
			name:     "defaults set",
			args:     []string{"datdiff", "diff", "--color", "@defaults"},
			expected: []string{"datdiff", "diff", "--color", "--titles"},
		},
		{
			name:     "unknown set is dropped",
			args:     []string{"datdiff", "diff", "@nope", "1"},
			expected: []string{"datdiff", "diff", "1"},
		},
		{
			name:     "naked command",
			args:     []string{"datdiff"},
			expected: []string{"datdiff"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, processSetOnly(tt.args))
		})
	}
}

func TestProcessCommandArgs(t *testing.T) {
	t.Setenv("DATDIFF_CFG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	args := []string{"datdiff", "diff", "--output", "json", "--output", "yaml"}
	assert.Equal(t, []string{"datdiff", "diff", "--output", "yaml"}, processCommandArgs(args))

	args = []string{"datdiff", "completion", "bash"}
	assert.Equal(t, args, processCommandArgs(args))
}

func TestHandleNakedCommand(t *testing.T) {
	assert.Equal(t, []string{"datdiff", "--help"}, handleNakedCommand([]string{"datdiff"}))
	assert.Equal(t, []string{"datdiff", "builds"}, handleNakedCommand([]string{"datdiff", "builds"}))
}
