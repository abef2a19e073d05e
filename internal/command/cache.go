// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/datdiff/internal/cacheutil"
	"github.com/tfctl/datdiff/internal/meta"
)

// cacheDisk returns the whole on-disk cache, or an error when caching is
// disabled.
func cacheDisk() (*cacheutil.Disk, error) {
	disk := cacheutil.New("")
	if disk == nil {
		return nil, fmt.Errorf("disk cache is disabled")
	}
	return disk, nil
}

func cacheClearAction(_ context.Context, cmd *cli.Command) error {
	disk, err := cacheDisk()
	if err != nil {
		return err
	}
	if err := disk.Clear(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.Root().Writer, "cleared %s\n", disk.Base)
	return nil
}

func cachePurgeAction(_ context.Context, cmd *cli.Command) error {
	disk, err := cacheDisk()
	if err != nil {
		return err
	}
	return disk.Purge(cmd.Int("hours"))
}

func cachePathAction(_ context.Context, cmd *cli.Command) error {
	dir, ok := cacheutil.Dir()
	if !ok || !cacheutil.Enabled() {
		return fmt.Errorf("disk cache is disabled")
	}
	fmt.Fprintln(cmd.Root().Writer, dir)
	return nil
}

func cacheStatsAction(_ context.Context, cmd *cli.Command) error {
	disk, err := cacheDisk()
	if err != nil {
		return err
	}
	files, size, err := disk.Usage()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.Root().Writer, "%d files, %s\n", files, humanize.IBytes(uint64(size))) //nolint:gosec
	return nil
}

// cacheCommandBuilder constructs the cli.Command for "cache", which manages
// the on-disk copies of fetched manifests.
func cacheCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "cache",
		Usage:     "manage the manifest disk cache",
		UsageText: "datdiff cache [clear|purge|path|stats]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Commands: []*cli.Command{
			{
				Name:   "clear",
				Usage:  "remove every cached manifest",
				Action: cacheClearAction,
			},
			{
				Name:  "purge",
				Usage: "remove cached manifests older than --hours",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "hours",
						Usage: "age in hours",
						Value: 24, //nolint:mnd
						Validator: func(value int) error {
							return FlagValidators(value, NonNegativeValidator)
						},
					},
				},
				Action: cachePurgeAction,
			},
			{
				Name:   "path",
				Usage:  "print the cache directory",
				Action: cachePathAction,
			},
			{
				Name:   "stats",
				Usage:  "print the number and size of cached manifests",
				Action: cacheStatsAction,
			},
		},
	}
}
