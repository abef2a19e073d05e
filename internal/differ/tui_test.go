// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"context"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/datdiff/internal/index"
)

var (
	keySpace = tea.KeyMsg{Type: tea.KeySpace}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyQuit  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}
)

func testPicker(t *testing.T) picker {
	t.Helper()
	idx, err := index.Parse([]byte(`{"builds":{
		"1":{"game_version":"3.24.0"},
		"2":{"game_version":"3.25.0"},
		"3":{"game_version":"3.25.1"}}}`))
	require.NoError(t, err)
	return newPicker(context.Background(), idx.Builds(), testGetter(t))
}

func press(t *testing.T, m picker, msgs ...tea.Msg) (picker, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(picker) //nolint:forcetypeassert
	}
	return m, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestPicker_SelectsOlderThenNewer(t *testing.T) {
	m := testPicker(t)

	// Builds are listed 3, 2, 1. Mark 3 then 1.
	m, _ = press(t, m, keySpace, keyDown, keyDown)
	m, cmd := press(t, m, keySpace)
	require.NotNil(t, cmd, "two marks start a preview")
	assert.Equal(t, "comparing...", m.preview)

	m, _ = press(t, m, cmd())
	assert.Equal(t, "0 added, 0 removed, 1 changed", m.preview)
	assert.Contains(t, m.View(), "1 changed")

	m, cmd = press(t, m, keyEnter)
	assert.True(t, isQuit(cmd))

	got := m.result()
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)
}

func TestPicker_EnterNeedsTwo(t *testing.T) {
	m := testPicker(t)

	m, cmd := press(t, m, keySpace, keyEnter)
	assert.Nil(t, cmd)
	assert.False(t, m.accepted)
	assert.Nil(t, m.result())
}

func TestPicker_AtMostTwo(t *testing.T) {
	m := testPicker(t)

	m, _ = press(t, m, keySpace, keyDown, keySpace, keyDown, keySpace)
	assert.Equal(t, []int{0, 1}, m.selected)

	// Toggling a mark off clears it and the preview.
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyUp}, keySpace)
	assert.Equal(t, []int{0}, m.selected)
	assert.Empty(t, m.preview)
}

func TestPicker_Quit(t *testing.T) {
	m := testPicker(t)

	m, _ = press(t, m, keySpace, keyDown)
	m, cmd := press(t, m, keySpace)
	require.NotNil(t, cmd)

	m, cmd = press(t, m, keyQuit)
	assert.True(t, isQuit(cmd))
	assert.Nil(t, m.result())
}

func TestPicker_StalePreviewIgnored(t *testing.T) {
	m := testPicker(t)

	m, _ = press(t, m, keySpace, keyDown)
	m, stale := press(t, m, keySpace)
	require.NotNil(t, stale)

	// Unmark and mark again: the first preview is superseded.
	m, _ = press(t, m, keySpace)
	m, fresh := press(t, m, keySpace)
	require.NotNil(t, fresh)

	m, _ = press(t, m, stale())
	assert.Equal(t, "comparing...", m.preview)

	m, _ = press(t, m, fresh())
	assert.Equal(t, IdenticalMessage, m.preview)
}

func TestPicker_Unobtainable(t *testing.T) {
	idx, err := index.Parse([]byte(`{"builds":{"1":{"game_version":"a"},"404":{"game_version":"b"}}}`))
	require.NoError(t, err)
	m := newPicker(context.Background(), idx.Builds(), testGetter(t))

	m, _ = press(t, m, keySpace, keyDown)
	m, cmd := press(t, m, keySpace)
	require.NotNil(t, cmd)
	m, _ = press(t, m, cmd())
	assert.Equal(t, UnobtainableMessage, m.preview)
}

func TestSelectBuilds_TooFew(t *testing.T) {
	_, err := SelectBuilds(context.Background(), nil, testGetter(t))
	assert.ErrorIs(t, err, ErrPickerNeedsTwo)
}

func TestSelectBuilds_QuitAborts(t *testing.T) {
	idx, err := index.Parse([]byte(`{"builds":{"1":{"game_version":"a"},"2":{"game_version":"b"}}}`))
	require.NoError(t, err)

	for _, input := range []string{"q", " q", " j q"} {
		picked, err := selectBuilds(context.Background(), idx.Builds(), testGetter(t),
			tea.WithInput(strings.NewReader(input)), tea.WithOutput(io.Discard))
		assert.ErrorIs(t, err, ErrPickerAborted, "input %q", input)
		assert.Nil(t, picked)
	}
}

func TestSelectBuilds_Accepts(t *testing.T) {
	idx, err := index.Parse([]byte(`{"builds":{"1":{"game_version":"a"},"2":{"game_version":"b"}}}`))
	require.NoError(t, err)

	picked, err := selectBuilds(context.Background(), idx.Builds(), testGetter(t),
		tea.WithInput(strings.NewReader(" j \r")), tea.WithOutput(io.Discard))
	require.NoError(t, err)
	require.Len(t, picked, 2)
	assert.Equal(t, "1", picked[0].ID)
	assert.Equal(t, "2", picked[1].ID)
}
