// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package attrs parses --attrs specifications. Each attribute names a gjson
// path into an output row, the key it is emitted under and an optional
// transform applied at render time.
//
// A spec is "path[:outputKey[:transform]]", comma separated. A leading ! keeps
// the attribute for filtering and sorting but hides it from output. The path *
// carries a transform applied to every attribute. Transforms:
//
//   - l, u : lower or upper case strings
//   - N, -N : truncate strings to N, or elide the middle down to N
//   - c : thousands separators for numbers
//   - b : numbers as IEC byte sizes
package attrs
