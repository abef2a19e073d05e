// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/tfctl/datdiff/internal/differ"
	"github.com/tfctl/datdiff/internal/index"
	"github.com/tfctl/datdiff/internal/log"
	"github.com/tfctl/datdiff/internal/manifest"
	"github.com/tfctl/datdiff/internal/meta"
	"github.com/tfctl/datdiff/internal/output"
	"github.com/tfctl/datdiff/internal/store"
)

// diffDefaultAttrs are the attributes of a diff row that --filter can address.
// The per-field before and after values are filterable but never projected;
// diff rows always render whole.
func diffDefaultAttrs() []string {
	specs := []string{"status,name,key,fields"}
	for _, f := range manifest.Fields {
		specs = append(specs, fmt.Sprintf("!from.stats.%s:%s.from,!to.stats.%s:%s.to", f, f, f, f))
	}
	return specs
}

// diffCommandAction is the action handler for the "diff" subcommand. It
// resolves the two builds, compares their manifests and renders the result.
func diffCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	if len(m.Args) > 1 {
		log.Debugf("executing action for %v", m.Args[1:])
	}

	if ShortCircuitTLDR(ctx, cmd, "diff") {
		return nil
	}
	if DumpSchemaIfRequested(cmd, reflect.TypeOf(output.DiffRow{})) {
		return nil
	}

	al, err := BuildAttrs(cmd, diffDefaultAttrs()...)
	if err != nil {
		return err
	}

	s, err := OpenStore(ctx, cmd)
	if err != nil {
		return err
	}

	fromID, toID, err := resolvePair(ctx, cmd, s)
	if err != nil {
		return err
	}

	res, err := differ.Compare(ctx, s, fromID, toID)
	if err != nil {
		return err
	}

	w := cmd.Root().Writer
	out := cmd.String("output")

	if out == "raw" {
		return differ.RawDiff(w, res.From.Raw(), res.To.Raw(), cmd.Bool("color"))
	}

	if res.Empty() && out == "text" {
		fmt.Fprintln(w, differ.IdenticalMessage)
		return nil
	}

	if spec := cmd.String("sort"); spec != "" {
		log.Debugf("diff rows keep key order: sort=%s ignored", spec)
	}

	rows, err := output.FilterDiffRows(output.DiffRows(res.Diffs), al, cmd.String("filter"))
	if err != nil {
		return err
	}

	if cmd.Bool("titles") {
		sum := differ.Summarize(res.Diffs)
		cmd.Metadata["header"] = fmt.Sprintf("%s -> %s", buildLabel(res.From), buildLabel(res.To))
		cmd.Metadata["footer"] = fmt.Sprintf("%d added, %d removed, %d changed", sum.Added, sum.Removed, sum.Changed)
	}

	return output.RenderDiff(rows, cmd, w)
}

// resolvePair returns the builds to compare. Two plain ids are used as given,
// so builds the index does not list yet can still be compared. Otherwise the
// index resolves the specs and fills the gaps, or the picker chooses both when
// --interactive is set.
func resolvePair(ctx context.Context, cmd *cli.Command, s *store.Store) (string, string, error) {
	args := cmd.Args().Slice()
	if len(args) > 2 {
		return "", "", fmt.Errorf("expected at most two build ids, got %d", len(args))
	}
	for _, a := range args {
		if err := FlagValidators(a, BuildIDValidator); err != nil {
			return "", "", err
		}
	}

	interactive := cmd.Bool("interactive")
	if interactive && len(args) > 0 {
		return "", "", errors.New("--interactive does not take build ids")
	}
	if interactive && !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", "", errors.New("--interactive requires a terminal")
	}

	if len(args) == 2 && !index.IsRelative(args[0]) && !index.IsRelative(args[1]) {
		return args[0], args[1], nil
	}

	idx, err := LoadIndex(ctx, s)
	if err != nil {
		return "", "", err
	}

	if interactive {
		picked, err := differ.SelectBuilds(ctx, idx.Builds(), s)
		if err != nil {
			return "", "", err
		}
		if len(picked) != 2 { //nolint:mnd
			return "", "", differ.ErrPickerAborted
		}
		return picked[0].ID, picked[1].ID, nil
	}

	var fromID, toID string
	if len(args) > 0 {
		fromID = args[0]
	}
	if len(args) > 1 {
		toID = args[1]
	}

	from, to, err := idx.Resolve(fromID, toID)
	if err != nil {
		return "", "", err
	}
	log.Debugf("resolved pair: from=%s to=%s", from.Label(), to.Label())
	return from.ID, to.ID, nil
}

// buildLabel names a manifest the way the index labels its builds.
func buildLabel(m *manifest.Manifest) string {
	if v := m.Version(); v != "" {
		return index.Build{ID: m.BuildID, GameVersion: v}.Label()
	}
	return "build " + m.BuildID
}

// diffCommandBuilder constructs the cli.Command for "diff", wiring metadata,
// flags, and action handlers.
func diffCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "diff",
		Usage:     "compare the DAT file statistics of two builds",
		UsageText: "datdiff diff [from] [to] [options]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "interactive",
				Aliases: []string{"i"},
				Usage:   "pick the two builds from the index",
			},
		},
		Action: diffCommandAction,
		Meta:   meta,
	}).Build()
}

// UserMessage is what the user is shown for err.
func UserMessage(err error) string {
	var ue *differ.UnobtainableError
	if errors.As(err, &ue) {
		return differ.UnobtainableMessage
	}
	return err.Error()
}
