// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/tfctl/datdiff/internal/log"
	"github.com/tfctl/datdiff/internal/manifest"
	"github.com/tfctl/datdiff/internal/store"
)

// UnobtainableMessage is what users are told when a comparison fails.
const UnobtainableMessage = "Could not obtain one of the builds. They may either be old enough to not have DAT64 files or new enough that the system has not ingested them yet."

// IdenticalMessage is what users are told when two builds do not differ.
const IdenticalMessage = "The builds are identical."

// UnobtainableError is the single outcome of a comparison where either
// manifest could not be obtained. Err is the first failure, kept for logging.
type UnobtainableError struct {
	FromID string
	ToID   string
	Err    error
}

func (e *UnobtainableError) Error() string {
	return fmt.Sprintf("could not obtain builds %s and %s: %v", e.FromID, e.ToID, e.Err)
}

func (e *UnobtainableError) Unwrap() error {
	return e.Err
}

// Result is a completed comparison.
type Result struct {
	From  *manifest.Manifest
	To    *manifest.Manifest
	Diffs []FileDiff
}

// Empty reports whether the builds had no differences.
func (r *Result) Empty() bool {
	return len(r.Diffs) == 0
}

// Compare fetches the manifests of fromID and toID concurrently and diffs
// them. Either fetch failing fails the whole comparison with
// *UnobtainableError. A canceled ctx returns the context's error instead.
func Compare(ctx context.Context, g store.Getter, fromID, toID string) (*Result, error) {
	log.Debugf("comparing builds: from=%s to=%s", fromID, toID)

	var from, to *manifest.Manifest
	eg, egctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		m, err := g.Get(egctx, fromID)
		from = m
		return err
	})
	eg.Go(func() error {
		m, err := g.Get(egctx, toID)
		to = m
		return err
	})

	if err := eg.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.WithError(err).Debugf("comparison failed: from=%s to=%s", fromID, toID)
		return nil, &UnobtainableError{FromID: fromID, ToID: toID, Err: err}
	}

	diffs := Diff(from, to)
	log.Debugf("comparison done: from=%s to=%s diffs=%d", fromID, toID, len(diffs))

	return &Result{From: from, To: to, Diffs: diffs}, nil
}
