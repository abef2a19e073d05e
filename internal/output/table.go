// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/datdiff/internal/config"
	"github.com/tfctl/datdiff/internal/differ"
)

// palette holds the text styles of a table. Without --color every style is
// plain.
type palette struct {
	title  lipgloss.Style
	even   lipgloss.Style
	odd    lipgloss.Style
	status map[differ.Status]lipgloss.Style
}

func newPalette(colored bool) palette {
	cell := lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
	p := palette{
		title: lipgloss.NewStyle().Align(lipgloss.Left).Bold(true),
		even:  cell,
		odd:   cell,
		status: map[differ.Status]lipgloss.Style{
			differ.Added:   cell,
			differ.Removed: cell,
			differ.Changed: cell,
		},
	}
	if !colored {
		return p
	}

	// Defaults are picked for the terminal background; colors.* in the config
	// file override them.
	isDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)
	pick := func(key, light, dark string) color.Color {
		if c, err := config.GetString("colors." + key); err == nil {
			return lipgloss.Color(c)
		}
		if isDark {
			return lipgloss.Color(dark)
		}
		return lipgloss.Color(light)
	}

	p.title = p.title.Foreground(pick("title", "#b08800", "#f6be00"))
	p.even = cell.Foreground(pick("even", "#333333", "#ffffff"))
	p.odd = cell.Foreground(pick("odd", "#0088a0", "#00c8f0"))
	p.status[differ.Added] = cell.Foreground(pick("added", "#008700", "#5fd75f"))
	p.status[differ.Removed] = cell.Foreground(pick("removed", "#af0000", "#ff5f5f"))
	p.status[differ.Changed] = cell.Foreground(pick("changed", "#b08800", "#f6be00"))
	return p
}

// renderTable writes cells as a borderless table framed by the header and
// footer left in cmd.Metadata. headers are shown with --titles. rowStyle
// styles data row i.
func renderTable(cmd *cli.Command, w io.Writer, headers []string, cells [][]string, p palette, rowStyle func(i int) lipgloss.Style) {
	if w == nil {
		w = os.Stdout
	}

	writeMetadata(cmd, w, "header", p.title)

	pad := cmd.Int("padding")
	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := p.title
			if row != table.HeaderRow {
				style = rowStyle(row)
			}
			if col > 0 {
				style = style.PaddingLeft(pad)
			}
			return style
		}).
		Headers().
		Rows(cells...)

	if cmd.Bool("titles") {
		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(headers...).BorderHeader(false)
	}
	fmt.Fprintln(w, t)

	writeMetadata(cmd, w, "footer", p.title)
}

// writeMetadata prints the string stored under key in cmd.Metadata, if any.
func writeMetadata(cmd *cli.Command, w io.Writer, key string, style lipgloss.Style) {
	if s, ok := cmd.Metadata[key].(string); ok && s != "" {
		fmt.Fprintln(w, style.Render(s))
	}
}
