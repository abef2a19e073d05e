// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/datdiff/internal/config"
	"github.com/tfctl/datdiff/internal/meta"
)

// QueryCommandBuilder constructs the subcommands that read manifests (diff,
// builds, show). Every one of them gets the source, tldr, schema and global
// flags, and a Before hook that scopes config lookups to the subcommand and
// validates the global flags.
type QueryCommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
}

// Build returns the configured cli.Command.
func (qcb *QueryCommandBuilder) Build() *cli.Command {
	flags := slices.Concat(
		qcb.Flags,
		[]cli.Flag{NewSourceFlag(qcb.Name, qcb.Meta.ConfigFile()), tldrFlag, schemaFlag},
		NewGlobalFlags(qcb.Name),
	)

	return &cli.Command{
		Name:      qcb.Name,
		Usage:     qcb.Usage,
		UsageText: qcb.UsageText,
		Metadata: map[string]any{
			"meta": qcb.Meta,
		},
		Flags: flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			config.Config.Namespace = qcb.Name
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: qcb.Action,
	}
}
