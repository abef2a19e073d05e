// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeFlags(t *testing.T) {
	common := []Flag{{ID: "output"}, {ID: "attrs"}}
	own := []Flag{{ID: "interactive"}}

	merged := mergeFlags(common, own)
	ids := make([]string, 0, len(merged))
	for _, f := range merged {
		ids = append(ids, f.ID)
	}
	assert.Equal(t, []string{"attrs", "interactive", "output"}, ids)
	assert.Equal(t, "output", common[0].ID, "common flags are not reordered in place")
}

// TestGenerate renders the real templates into a scratch copy of docs.
func TestGenerate(t *testing.T) {
	docs := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(docs, "templates"), 0o755))

	for _, name := range []string{"datdiff.yaml", "datdiff.md.tmpl", "datdiff.man.tmpl", "datdiff.tldr.tmpl"} {
		data, err := os.ReadFile(filepath.Join("..", "..", "docs", "templates", name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(docs, "templates", name), data, 0o600))
	}

	now := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	require.NoError(t, generate(docs, "1.2.3", now))

	md, err := os.ReadFile(filepath.Join(docs, "commands", "diff.md"))
	require.NoError(t, err)
	assert.Contains(t, string(md), "--interactive")
	assert.Contains(t, string(md), "--filter")

	man, err := os.ReadFile(filepath.Join(docs, "man", "share", "man1", "datdiff-diff.1"))
	require.NoError(t, err)
	assert.Contains(t, string(man), "DATDIFF-DIFF")
	assert.Contains(t, string(man), "October 19, 2026")
	assert.Contains(t, string(man), "1.2.3")

	assert.FileExists(t, filepath.Join(docs, "tldr", "datdiff-builds.md"))
	assert.FileExists(t, filepath.Join(docs, "tldr", "datdiff-show.md"))
}

func TestGenerate_MissingCatalog(t *testing.T) {
	assert.Error(t, generate(t.TempDir(), "dev", time.Now()))
}
