// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package manifest holds the strongly typed form of a build manifest: the
// per-file DAT statistics of one game build, keyed by a canonical file key
// that treats the .dat and .dat64 variants of a file as the same file.
package manifest
