// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/datdiff/internal/index"
	"github.com/tfctl/datdiff/internal/manifest"
	"github.com/tfctl/datdiff/internal/meta"
	"github.com/tfctl/datdiff/internal/store"
)

// showDefaultAttrs specifies the default attributes displayed for the file
// records of a manifest.
var showDefaultAttrs = []string{
	"name",
	"stats.fixed_size,stats.row_count,stats.row_width,stats.var_offset,stats.var_size",
}

// showCommandAction is the action handler for the "show" subcommand. It lists
// the file records of one build's manifest, the newest build when no id is
// given. Relative specs such as ~1 resolve through the index.
func showCommandAction(ctx context.Context, cmd *cli.Command) error {
	fetch := func(ctx context.Context, cmd *cli.Command, s *store.Store) ([]*manifest.FileRecord, error) {
		args := cmd.Args().Slice()
		if len(args) > 1 {
			return nil, fmt.Errorf("expected at most one build id, got %d", len(args))
		}

		spec := "latest"
		if len(args) == 1 {
			spec = args[0]
			if err := FlagValidators(spec, BuildIDValidator); err != nil {
				return nil, err
			}
		}

		id := spec
		if index.IsRelative(spec) {
			idx, err := LoadIndex(ctx, s)
			if err != nil {
				return nil, err
			}
			b, err := idx.Find(spec)
			if err != nil {
				return nil, err
			}
			id = b.ID
		}

		m, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		if cmd.Bool("titles") {
			cmd.Metadata["header"] = buildLabel(m)
			cmd.Metadata["footer"] = fmt.Sprintf("%d files", m.Len())
		}
		return m.Records(), nil
	}

	return NewQueryActionRunner(
		"show",
		showDefaultAttrs,
		fetch,
	).Run(ctx, cmd)
}

// showCommandBuilder constructs the cli.Command for "show".
func showCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "show",
		Usage:     "list the DAT file statistics of one build",
		UsageText: "datdiff show [id] [options]",
		Action:    showCommandAction,
		Meta:      meta,
	}).Build()
}
