// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/datdiff/internal/meta"
	"github.com/tfctl/datdiff/internal/output"
	"github.com/tfctl/datdiff/internal/store"
)

// buildsDefaultAttrs specifies the default attributes displayed for index
// entries in the "builds" command output.
var buildsDefaultAttrs = []string{"id", "game_version:version"}

// buildsCommandAction is the action handler for the "builds" subcommand. It
// lists the builds of the index, newest first.
func buildsCommandAction(ctx context.Context, cmd *cli.Command) error {
	fetch := func(ctx context.Context, cmd *cli.Command, s *store.Store) ([]output.BuildRow, error) {
		idx, err := LoadIndex(ctx, s)
		if err != nil {
			return nil, err
		}

		builds := idx.Builds()
		if limit := cmd.Int("limit"); limit > 0 && limit < len(builds) {
			builds = builds[:limit]
		}
		return output.BuildRows(builds), nil
	}

	return NewQueryActionRunner(
		"builds",
		buildsDefaultAttrs,
		fetch,
	).Run(ctx, cmd)
}

// buildsCommandBuilder constructs the cli.Command for "builds".
func buildsCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "builds",
		Usage:     "list the builds of the index",
		UsageText: "datdiff builds [options]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				Usage:   "limit to the newest n builds",
				Validator: func(value int) error {
					return FlagValidators(value, NonNegativeValidator)
				},
			},
		},
		Action: buildsCommandAction,
		Meta:   meta,
	}).Build()
}
