// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/tfctl/datdiff/internal/log"
)

// ErrNoPayload is returned by RawDiff when a manifest was not built from a
// payload.
var ErrNoPayload = errors.New("manifest has no raw payload")

// RawDiff writes an unfiltered, structural diff of two raw manifest payloads.
// Unlike Diff it covers every field of the documents, metadata included, and
// does not apply key normalization.
func RawDiff(w io.Writer, from, to []byte, color bool) error {
	log.Debugf("raw diff: len(from)=%d len(to)=%d", len(from), len(to))

	if len(from) == 0 || len(to) == 0 {
		return ErrNoPayload
	}

	delta, err := gojsondiff.New().Compare(from, to)
	if err != nil {
		return fmt.Errorf("failed to compare manifests: %w", err)
	}

	if !delta.Modified() {
		fmt.Fprintln(w, IdenticalMessage)
		return nil
	}

	var jdoc map[string]interface{}
	if err := json.Unmarshal(from, &jdoc); err != nil {
		return fmt.Errorf("failed to unmarshal manifest: %w", err)
	}

	config := formatter.AsciiFormatterConfig{
		ShowArrayIndex: false,
		Coloring:       color,
	}

	diffString, err := formatter.NewAsciiFormatter(jdoc, config).Format(delta)
	if err != nil {
		return fmt.Errorf("failed to format diff: %w", err)
	}

	fmt.Fprintln(w, diffString)
	return nil
}
