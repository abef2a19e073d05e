// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"io"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/dustin/go-humanize"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/datdiff/internal/attrs"
	"github.com/tfctl/datdiff/internal/differ"
	"github.com/tfctl/datdiff/internal/filters"
)

// diffHeaders are the column titles of the diff table.
var diffHeaders = []string{"status", "file", "field", "from", "to", "delta"}

// FilterDiffRows returns the rows that pass spec. Filter keys resolve through
// al the same way they do for SliceDiceSpit.
func FilterDiffRows(rows []DiffRow, al attrs.AttrList, spec string) ([]DiffRow, error) {
	if spec == "" || len(rows) == 0 {
		return rows, nil
	}

	raw, err := jsonMarshal(rows)
	if err != nil {
		return nil, err
	}

	keep := filters.Matches(gjson.ParseBytes(raw), al, spec)
	out := make([]DiffRow, 0, len(rows))
	for i, row := range rows {
		if keep[i] {
			out = append(out, row)
		}
	}
	return out, nil
}

// RenderDiff writes rows in the format named by the output flag. Text output
// is a table with one line per file and, for changed files, one indented line
// per differing statistic.
func RenderDiff(rows []DiffRow, cmd *cli.Command, w io.Writer) error {
	switch output := cmd.String("output"); output {
	case "json", "yaml":
		return Emit(w, output, rows)
	default:
		DiffWriter(rows, cmd, w)
		return nil
	}
}

// DiffWriter renders rows as a table: one line per file and, for changed
// files, one indented line per differing statistic. With --color every line
// takes the color of its file's status.
func DiffWriter(rows []DiffRow, cmd *cli.Command, w io.Writer) {
	if len(rows) == 0 {
		return
	}

	var cells [][]string
	var statuses []differ.Status
	for _, row := range rows {
		cells = append(cells, []string{string(row.Status), row.Name, "", "", "", ""})
		statuses = append(statuses, row.Status)

		for _, c := range row.Changes {
			cells = append(cells, []string{"", "", c.Field.Label(), humanize.Comma(c.From), humanize.Comma(c.To), Delta(c.From, c.To)})
			statuses = append(statuses, row.Status)
		}
	}

	p := newPalette(cmd.Bool("color"))
	renderTable(cmd, w, diffHeaders, cells, p, func(i int) lipgloss.Style {
		if i >= 0 && i < len(statuses) {
			return p.status[statuses[i]]
		}
		return p.even
	})
}

// Delta formats to-from with an explicit sign.
func Delta(from, to int64) string {
	d := to - from
	if d > 0 {
		return "+" + humanize.Comma(d)
	}
	return humanize.Comma(d)
}
