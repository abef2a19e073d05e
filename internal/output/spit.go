// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	"github.com/tfctl/datdiff/internal/attrs"
	"github.com/tfctl/datdiff/internal/filters"
	"github.com/tfctl/datdiff/internal/log"
)

// InterfaceToString converts supported primitive or composite values to a
// string. A custom empty value may be provided.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	if len(emptyValue) == 0 {
		emptyValue = []string{""}
	}

	if value == nil || reflect.ValueOf(value).IsZero() {
		return emptyValue[0]
	}

	switch value := value.(type) {
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		// Manifest statistics are integers.
		return fmt.Sprintf("%.0f", value)
	case bool:
		return strconv.FormatBool(value)
	default:
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(jsonBytes)
	}
}

// Emit writes v as JSON or YAML. It is used for results that keep their own
// structure rather than going through SliceDiceSpit.
func Emit(w io.Writer, format string, v any) error {
	if w == nil {
		w = os.Stdout
	}

	var out []byte
	var err error
	switch format {
	case "yaml":
		out, err = yaml.Marshal(v)
	default:
		out, err = json.Marshal(v)
		out = append(out, '\n')
	}
	if err != nil {
		return fmt.Errorf("failed to marshal %s output: %w", format, err)
	}

	_, err = w.Write(out)
	return err
}

func jsonMarshal(v any) ([]byte, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rows: %w", err)
	}
	return out, nil
}

// SliceDiceSpit orchestrates filtering, transforming, sorting and rendering
// of a JSON array of rows according to command flags and attribute
// specifications. The optional postProcess callback allows commands to adjust
// the filtered dataset before text rendering.
func SliceDiceSpit(raw []byte,
	al attrs.AttrList,
	cmd *cli.Command,
	w io.Writer,
	postProcess func([]map[string]interface{}) error) error {

	if w == nil {
		w = os.Stdout
	}

	// If raw, just dump it and go home.
	output := cmd.String("output")
	if output == "raw" {
		_, err := w.Write(raw)
		return err
	}

	// Filter out the rows we don't want. Do it here so that the following
	// processes work on a smaller dataset.
	filteredDataset := filters.FilterDataset(gjson.ParseBytes(raw), al, cmd.String("filter"))

	// Transform each value in each row.
	for _, row := range filteredDataset {
		for _, attr := range al {
			if attr.Key != "*" && attr.TransformSpec != "" {
				row[attr.OutputKey] = attr.Transform(row[attr.OutputKey])
			}
		}
	}

	SortDataset(filteredDataset, cmd.String("sort"))

	switch output {
	case "json", "yaml":
		// Only included attributes are emitted.
		included := al.Included()
		projected := make([]map[string]interface{}, 0, len(filteredDataset))
		for _, row := range filteredDataset {
			p := make(map[string]interface{}, len(included))
			for _, attr := range included {
				p[attr.OutputKey] = row[attr.OutputKey]
			}
			projected = append(projected, p)
		}
		return Emit(w, output, projected)
	default:
		if postProcess != nil {
			if err := postProcess(filteredDataset); err != nil {
				log.Errorf("post process: %v", err)
			}
		}
		TableWriter(filteredDataset, al, cmd, w)
	}

	return nil
}

// TableWriter renders the result set as a table of the included attributes,
// rows alternating between the even and odd styles.
func TableWriter(resultSet []map[string]interface{}, al attrs.AttrList, cmd *cli.Command, w io.Writer) {
	if len(resultSet) == 0 {
		return
	}

	included := al.Included()
	headers := make([]string, 0, len(included))
	for _, attr := range included {
		headers = append(headers, attr.OutputKey)
	}

	cells := make([][]string, 0, len(resultSet))
	for _, result := range resultSet {
		row := make([]string, 0, len(included))
		for _, attr := range included {
			row = append(row, InterfaceToString(result[attr.OutputKey], "-"))
		}
		cells = append(cells, row)
	}

	p := newPalette(cmd.Bool("color"))
	renderTable(cmd, w, headers, cells, p, func(i int) lipgloss.Style {
		if i%2 == 0 {
			return p.even
		}
		return p.odd
	})
}
