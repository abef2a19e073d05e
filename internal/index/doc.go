// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package index reads the global build index of a manifest source. The index
// enumerates the known build identifiers with their game versions and supplies
// the default from/to pair when the caller names none.
package index
