// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/datdiff/internal/attrs"
	"github.com/tfctl/datdiff/internal/config"
	"github.com/tfctl/datdiff/internal/index"
	"github.com/tfctl/datdiff/internal/log"
	"github.com/tfctl/datdiff/internal/meta"
	"github.com/tfctl/datdiff/internal/output"
	"github.com/tfctl/datdiff/internal/source"
	"github.com/tfctl/datdiff/internal/store"
)

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs, then applies the global transform spec.
func BuildAttrs(cmd *cli.Command, defaults ...string) (al attrs.AttrList, err error) {
	for _, d := range defaults {
		if err = al.Set(d); err != nil {
			return nil, err
		}
	}
	if cmd != nil {
		if extras := cmd.String("attrs"); extras != "" {
			if err = al.Set(extras); err != nil {
				return nil, fmt.Errorf("invalid --attrs: %w", err)
			}
		}
	}
	err = al.SetGlobalTransformSpec()
	return
}

// DumpSchemaIfRequested writes the attribute paths of the provided type to
// stdout when --schema is set, and returns true if it handled the request.
func DumpSchemaIfRequested(cmd *cli.Command, t reflect.Type) bool {
	if cmd.Bool("schema") {
		output.DumpSchema(t, cmd.Root().Writer)
		return true
	}
	return false
}

// EmitRows marshals rows to JSON and passes them to the common output routine.
func EmitRows(rows any, al attrs.AttrList, cmd *cli.Command) error {
	raw, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal rows: %w", err)
	}
	return output.SliceDiceSpit(raw, al, cmd, cmd.Root().Writer, nil)
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// OpenSource returns the manifest source named by --source.
func OpenSource(ctx context.Context, cmd *cli.Command) (source.Source, error) {
	base := cmd.String("source")
	if base == "" {
		base = config.SourceBase()
	}
	log.Debugf("source: base=%s", base)
	return source.New(ctx, base)
}

// OpenStore returns a manifest store reading from --source.
func OpenStore(ctx context.Context, cmd *cli.Command) (*store.Store, error) {
	src, err := OpenSource(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return store.New(src), nil
}

// LoadIndex fetches the build index from the store's source.
func LoadIndex(ctx context.Context, s *store.Store) (*index.Index, error) {
	idx, err := index.Load(ctx, s.Source())
	if err != nil {
		return nil, err
	}
	log.Debugf("index loaded: builds=%d", idx.Len())
	return idx, nil
}

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr datdiff <subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "datdiff", subcmd)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			_ = c.Run()
		}
		return true
	}
	return false
}
