// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output renders command results as text tables, JSON or YAML.
//
// Listings (builds, manifest records) go through SliceDiceSpit, which filters,
// transforms and sorts JSON rows according to the --attrs, --filter and --sort
// flags. Diffs have their own row type and text layout in DiffWriter, where a
// changed file is followed by one line per changed field.
package output
