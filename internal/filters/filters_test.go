// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package filters

import (
	"bytes"
	"embed"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/tfctl/datdiff/internal/attrs"
)

//go:embed testdata/*.yaml
var testDataFS embed.FS

// testBuildFiltersCase represents a single test case for TestBuildFilters.
type testBuildFiltersCase struct {
	Name      string   `yaml:"name"`
	Spec      string   `yaml:"spec"`
	Delimiter string   `yaml:"delimiter"`
	Want      []Filter `yaml:"want"`
	WantCount int      `yaml:"wantCount"`
}

// testStringOperandCase represents a single test case for
// TestCheckStringOperand.
type testStringOperandCase struct {
	Name   string `yaml:"name"`
	Value  string `yaml:"value"`
	Filter Filter `yaml:"filter"`
	Want   bool   `yaml:"want"`
}

// testNumericOperandCase represents a single test case for
// TestCheckNumericOperand.
type testNumericOperandCase struct {
	Name   string  `yaml:"name"`
	Value  float64 `yaml:"value"`
	Filter Filter  `yaml:"filter"`
	Want   bool    `yaml:"want"`
}

// testFilterDatasetCase represents a single test case for TestFilterDataset.
type testFilterDatasetCase struct {
	Name      string   `yaml:"name"`
	Spec      string   `yaml:"spec"`
	WantNames []string `yaml:"wantNames"`
}

func loadTestData(t *testing.T, filename string, v any) {
	t.Helper()
	data, err := testDataFS.ReadFile("testdata/" + filename)
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(data, v))
}

// rows mirrors the shape of rendered diff rows.
const rows = `[
  {"status":"added","name":"BaseItemTypes","key":"data/baseitemtypes","fields":[],
   "to":{"stats":{"row_count":5000}}},
  {"status":"changed","name":"Mods","key":"data/mods","fields":["row_count"],
   "from":{"stats":{"row_count":5}},"to":{"stats":{"row_count":6}}},
  {"status":"changed","name":"Words","key":"data/words","fields":["var_size","row_count"],
   "from":{"stats":{"row_count":100}},"to":{"stats":{"row_count":101}}},
  {"status":"removed","name":"Zones","key":"data/zones","fields":[],
   "from":{"stats":{"row_count":12}}}
]`

func rowAttrs(t *testing.T) attrs.AttrList {
	t.Helper()
	var al attrs.AttrList
	require.NoError(t, al.Set("status,name,!key,!fields,!from.stats.row_count:row_count.from,!to.stats.row_count:row_count.to"))
	return al
}

func TestBuildFilters(t *testing.T) {
	var tests []testBuildFiltersCase
	loadTestData(t, "build_filters_cases.yaml", &tests)

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			if tt.Delimiter != "" {
				t.Setenv("DATDIFF_FILTER_DELIM", tt.Delimiter)
			}

			got := BuildFilters(tt.Spec)
			assert.Len(t, got, tt.WantCount)
			for i, want := range tt.Want {
				assert.Equal(t, want, got[i], "filter[%d]", i)
			}
		})
	}
}

func TestCheckStringOperand(t *testing.T) {
	var tests []testStringOperandCase
	loadTestData(t, "string_operand_cases.yaml", &tests)

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			assert.Equal(t, tt.Want, checkStringOperand(tt.Value, tt.Filter))
		})
	}
}

func TestCheckNumericOperand(t *testing.T) {
	var tests []testNumericOperandCase
	loadTestData(t, "numeric_operand_cases.yaml", &tests)

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			assert.Equal(t, tt.Want, checkNumericOperand(tt.Value, tt.Filter))
		})
	}
}

func TestCheckContainsOperand(t *testing.T) {
	list := []any{"row_count", "var_size"}
	assert.True(t, checkContainsOperand(list, Filter{Operand: "@", Value: "var_size"}))
	assert.False(t, checkContainsOperand(list, Filter{Operand: "@", Value: "row_width"}))
	assert.True(t, checkContainsOperand(list, Filter{Operand: "@", Negate: true, Value: "row_width"}))

	m := map[string]any{"game_version": "3.25.0"}
	assert.True(t, checkContainsOperand(m, Filter{Operand: "@", Value: "game_version"}))
	assert.False(t, checkContainsOperand(m, Filter{Operand: "@", Negate: true, Value: "game_version"}))

	assert.False(t, checkContainsOperand(42, Filter{Operand: "@", Value: "4"}))
}

func TestFilterDataset(t *testing.T) {
	var tests []testFilterDatasetCase
	loadTestData(t, "filter_dataset_cases.yaml", &tests)

	var warnings bytes.Buffer
	Warnings = &warnings
	t.Cleanup(func() { Warnings = os.Stderr })

	candidates := gjson.Parse(rows)
	al := rowAttrs(t)

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			got := FilterDataset(candidates, al, tt.Spec)

			var names []string
			for _, row := range got {
				names = append(names, row["name"].(string)) //nolint:forcetypeassert
			}
			assert.Equal(t, tt.WantNames, names)
		})
	}

	assert.Equal(t, 1, bytes.Count(warnings.Bytes(), []byte("filter key not found: bogus")))
}

func TestFilterDataset_ProjectsAttrs(t *testing.T) {
	got := FilterDataset(gjson.Parse(rows), rowAttrs(t), "name=Mods")
	require.Len(t, got, 1)

	row := got[0]
	assert.Equal(t, "changed", row["status"])
	assert.Equal(t, "data/mods", row["key"])
	assert.Equal(t, []interface{}{"row_count"}, row["fields"])
	assert.Equal(t, 5.0, row["row_count.from"])
	assert.Equal(t, 6.0, row["row_count.to"])
}

func TestMatches(t *testing.T) {
	got := Matches(gjson.Parse(rows), rowAttrs(t), "status!=changed")
	assert.Equal(t, []bool{true, false, false, true}, got)

	assert.Equal(t, []bool{true, true, true, true}, Matches(gjson.Parse(rows), rowAttrs(t), ""))
	assert.Empty(t, Matches(gjson.Parse(`[]`), rowAttrs(t), "status=added"))
}

func TestMatches_Regex(t *testing.T) {
	candidates := gjson.Parse(rows)
	al := rowAttrs(t)

	assert.Equal(t, []bool{false, false, true, false}, Matches(candidates, al, "name/^W"))
	assert.Equal(t, []bool{true, true, false, true}, Matches(candidates, al, "name!/^W"))
	assert.Equal(t, []bool{false, false, false, false}, Matches(candidates, al, "name/("), "a bad regex matches nothing")
	assert.Equal(t, []bool{false, true, true, false}, Matches(candidates, al, "fields@row_count"))
}
