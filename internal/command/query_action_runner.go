// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/datdiff/internal/log"
	"github.com/tfctl/datdiff/internal/store"
)

// QueryActionRunner[T] is the action of the listing subcommands (builds,
// show). It handles --tldr and --schema, builds the attribute list, opens the
// manifest store and emits whatever Fetch returns as rows of T.
type QueryActionRunner[T any] struct {
	CommandName  string
	SchemaType   reflect.Type
	DefaultAttrs []string
	Fetch        func(context.Context, *cli.Command, *store.Store) ([]T, error)
}

// Run executes the listing.
func (qar *QueryActionRunner[T]) Run(ctx context.Context, cmd *cli.Command) error {
	if m := GetMeta(cmd); len(m.Args) > 1 {
		log.Debugf("executing action for %v", m.Args[1:])
	}

	if ShortCircuitTLDR(ctx, cmd, qar.CommandName) {
		return nil
	}
	if DumpSchemaIfRequested(cmd, qar.SchemaType) {
		return nil
	}

	al, err := BuildAttrs(cmd, qar.DefaultAttrs...)
	if err != nil {
		return err
	}
	log.Debugf("attrs: %v", al)

	s, err := OpenStore(ctx, cmd)
	if err != nil {
		return err
	}

	rows, err := qar.Fetch(ctx, cmd, s)
	if err != nil {
		return err
	}
	log.Debugf("%s: rows=%d manifests=%d", qar.CommandName, len(rows), s.Len())

	return EmitRows(rows, al, cmd)
}

// NewQueryActionRunner returns a runner listing rows of T, whose schema is
// reflected from T itself.
func NewQueryActionRunner[T any](
	commandName string,
	defaultAttrs []string,
	fetch func(context.Context, *cli.Command, *store.Store) ([]T, error),
) *QueryActionRunner[T] {
	return &QueryActionRunner[T]{
		CommandName:  commandName,
		SchemaType:   reflect.TypeFor[T](),
		DefaultAttrs: defaultAttrs,
		Fetch:        fetch,
	}
}
