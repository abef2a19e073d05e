// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"context"

	"github.com/tfctl/datdiff/internal/config"
)

// Meta contains runtime metadata shared by commands. It carries CLI arguments,
// loaded configuration and the startup context.
type Meta struct {
	Args    []string
	Config  config.Type
	Context context.Context
}

// ConfigFile returns the path of the loaded config file, or "" when none was
// found.
func (m Meta) ConfigFile() string {
	return m.Config.Source
}
