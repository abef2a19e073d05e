// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters selects output rows with --filter expressions.
//
// Filters are key-operator-target expressions separated by commas (or by
// DATDIFF_FILTER_DELIM). Keys are attribute output keys (see the attrs
// package), so a filter can only test what a command knows how to extract.
// A row is kept when every filter matches.
//
// Operators, each negatable with a leading !:
//
//   - = : equal (numeric when the value is a number)
//   - ~ : equal, ignoring case
//   - ^ : prefix
//   - @ : substring, or membership for lists
//   - / : regular expression
//   - < : less than (numeric when the value is a number)
//   - > : greater than (numeric when the value is a number)
//
// Examples:
//
//   - "status=changed" : only changed files
//   - "name^Mod" : files whose name starts with Mod
//   - "fields@row_count" : files whose row count changed
//   - "row_count.to>1000" : files with more than 1000 rows in the newer build
//   - "name!/^Client" : files whose name does not match ^Client
//
// Unknown keys are reported once on stderr and otherwise ignored.
package filters
