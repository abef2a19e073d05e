// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for datdiff's user
// configuration. The configuration is a YAML document located in the user's
// configuration directory, typically:
//   - Linux: $XDG_CONFIG_HOME/datdiff.yaml or $HOME/.config/datdiff.yaml
//   - macOS: $HOME/Library/Application Support/datdiff.yaml
//   - Windows: %APPDATA%/datdiff.yaml
//
// DATDIFF_CFG_FILE overrides the location.
package config
