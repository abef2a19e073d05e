// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package differ compares the manifests of two builds.
//
// Diff is a pure function from two manifests to the ordered list of files that
// were added, removed or changed. Compare fetches both manifests concurrently
// and diffs them as a unit, failing with UnobtainableError when either build
// cannot be obtained. Session discards the results of comparisons that a newer
// one superseded. RawDiff and SelectBuilds support the command line.
package differ
