// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package log

import (
	"bytes"
	"errors"
	"testing"

	"github.com/apex/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"trace", log.DebugLevel},
		{"DEBUG", log.DebugLevel},
		{"info", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"fatal", log.FatalLevel},
		{"bogus", log.ErrorLevel},
		{"", log.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

// TestCustomHandler_Format verifies the single letter level and the TRACE
// prefix handling.
func TestCustomHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	h := &CustomHandler{Writer: &buf}

	require.NoError(t, h.HandleLog(&log.Entry{Level: log.WarnLevel, Message: "careful"}))
	assert.Contains(t, buf.String(), " W careful\n")

	buf.Reset()
	require.NoError(t, h.HandleLog(&log.Entry{Level: log.DebugLevel, Message: "TRACE: deep"}))
	assert.Contains(t, buf.String(), " T deep\n")

	buf.Reset()
	entry := &log.Entry{
		Level:   log.ErrorLevel,
		Message: "boom",
		Fields:  log.Fields{"error": errors.New("bad")},
	}
	require.NoError(t, h.HandleLog(entry))
	assert.Contains(t, buf.String(), " E boom: error=bad\n")

	buf.Reset()
	entry = &log.Entry{
		Level:   log.InfoLevel,
		Message: "fetched",
		Fields:  log.Fields{"path": "global.json", "bytes": 12, "error": "none"},
	}
	require.NoError(t, h.HandleLog(entry))
	assert.Contains(t, buf.String(), " I fetched: error=none bytes=12 path=global.json\n")

	buf.Reset()
	require.NoError(t, h.HandleLog(&log.Entry{Level: log.Level(42), Message: "odd"}))
	assert.Contains(t, buf.String(), " ? odd\n")
}
