// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/tfctl/datdiff/internal/attrs"
	"github.com/tfctl/datdiff/internal/log"
)

// filterRegex is the pattern used to parse filter expressions into key,
// operator, and target components. Operators are one of = ^ ~ < > @ or /,
// optionally prefixed with '!'. Examples: "name" (key only), "name=value"
// (key + operator + target), "name=" (key + operator, no target).
var filterRegex = regexp.MustCompile(`^([^!?=^~<>@/]*)(!?[=^~<>@/])?(.*)$`)

// Filter is a single parsed --filter expression.
type Filter struct {
	Key     string `yaml:"key" json:"Key"`
	Negate  bool   `yaml:"negate" json:"Negate"`
	Operand string `yaml:"operand" json:"Operand"`
	Value   string `yaml:"value" json:"Value"`
}

// Warnings receives the unknown key report. Tests swap it out.
var Warnings io.Writer = os.Stderr

// BuildFilters parses a filter specification string into a slice of Filter.
// Malformed expressions are skipped.
func BuildFilters(spec string) []Filter {
	//nolint:prealloc
	var filters []Filter

	if spec == "" {
		return filters
	}

	// Allow an override for situations where the value contains commas.
	delim := ","
	if d, ok := os.LookupEnv("DATDIFF_FILTER_DELIM"); ok && d != "" {
		delim = d
	}

	for _, filterSpec := range strings.Split(spec, delim) {
		filterSpec = strings.TrimSpace(filterSpec)
		if filterSpec == "" {
			continue
		}

		// parts[1] is the key, parts[2] the optional operator (may include
		// negation) and parts[3] the optional target.
		parts := filterRegex.FindStringSubmatch(filterSpec)
		if parts == nil {
			log.Errorf("invalid filter: %s", filterSpec)
			continue
		}

		key := strings.TrimSpace(parts[1])
		if key == "" {
			log.Errorf("invalid filter: empty key in %s", filterSpec)
			continue
		}

		operand := parts[2]
		negate := strings.HasPrefix(operand, "!")
		operand = strings.TrimPrefix(operand, "!")

		filters = append(filters, Filter{
			Key:     key,
			Negate:  negate,
			Operand: operand,
			Value:   parts[3],
		})
	}

	return filters
}

// FilterDataset returns the candidate rows that pass spec, each reduced to a
// map of attribute output key to value. Transforms are not applied here; they
// belong to rendering.
func FilterDataset(candidates gjson.Result, al attrs.AttrList, spec string) []map[string]interface{} {
	//nolint:prealloc
	var filteredResults []map[string]interface{}

	filters := resolve(BuildFilters(spec), al)

	for _, candidate := range candidates.Array() {
		if !applyFilters(candidate, filters) {
			continue
		}

		result := make(map[string]interface{})
		for _, attr := range al {
			if attr.Key == "*" {
				continue
			}
			result[attr.OutputKey] = candidate.Get(attr.Key).Value()
		}
		filteredResults = append(filteredResults, result)
	}

	return filteredResults
}

// Matches reports, per candidate row, whether it passes spec. Callers that
// render their own row types use it instead of FilterDataset.
func Matches(candidates gjson.Result, al attrs.AttrList, spec string) []bool {
	filters := resolve(BuildFilters(spec), al)

	rows := candidates.Array()
	keep := make([]bool, len(rows))
	for i, candidate := range rows {
		keep[i] = applyFilters(candidate, filters)
	}
	return keep
}

type resolvedFilter struct {
	Filter
	path string
	// re is the compiled target of a / filter; nil when it does not compile,
	// in which case the filter matches nothing.
	re *regexp.Regexp
}

// resolve maps each filter key to the gjson path of its attribute and
// compiles regex targets once. Filters on unknown keys are reported once and
// dropped.
func resolve(filters []Filter, al attrs.AttrList) []resolvedFilter {
	resolved := make([]resolvedFilter, 0, len(filters))
	for _, f := range filters {
		attr, ok := al.Lookup(f.Key)
		if !ok {
			msg := fmt.Sprintf("filter key not found: %s", f.Key)
			log.Errorf("%s", msg)
			fmt.Fprintf(Warnings, "warning: %s\n", msg)
			continue
		}

		rf := resolvedFilter{Filter: f, path: attr.Key}
		if f.Operand == "/" {
			re, err := regexp.Compile(f.Value)
			if err != nil {
				log.Errorf("invalid regex: %s", f.Value)
			}
			rf.re = re
		}
		resolved = append(resolved, rf)
	}
	return resolved
}

// applyFilters returns true if the candidate row matches all of the filters.
func applyFilters(candidate gjson.Result, filters []resolvedFilter) bool {
	for _, filter := range filters {
		if !applyFilter(candidate, filter) {
			return false
		}
	}
	return true
}

func applyFilter(candidate gjson.Result, filter resolvedFilter) bool {
	field := candidate.Get(filter.path)

	// A bare key tests for presence.
	if filter.Operand == "" {
		return field.Exists() != filter.Negate
	}

	if filter.Operand == "/" && filter.re == nil {
		return false
	}

	switch value := field.Value().(type) {
	case nil:
		return false
	case string:
		return matchString(value, filter.Filter, filter.re)
	case bool:
		return matchString(strconv.FormatBool(value), filter.Filter, filter.re)
	case float64:
		return checkNumericOperand(value, filter.Filter)
	default:
		if filter.Operand == "@" {
			return checkContainsOperand(value, filter.Filter)
		}
		return true
	}
}

// checkContainsOperand evaluates a membership style filter (operand '@')
// against slice or map values.
func checkContainsOperand(value interface{}, filter Filter) bool {
	switch val := value.(type) {
	case []any:
		for _, item := range val {
			if fmt.Sprint(item) == filter.Value {
				return !filter.Negate
			}
		}
		return filter.Negate
	case map[string]any:
		_, found := val[filter.Value]
		return found != filter.Negate
	default:
		log.Errorf("unsupported type for contains filtering: %T", value)
		return false
	}
}

// numericOps and stringOps compare a value with a filter target. Negation is
// applied by the caller.
var (
	numericOps = map[string]func(value, target float64) bool{
		"=": func(v, t float64) bool { return v == t },
		">": func(v, t float64) bool { return v > t },
		"<": func(v, t float64) bool { return v < t },
	}
	stringOps = map[string]func(value, target string) bool{
		"=": func(v, t string) bool { return v == t },
		"~": strings.EqualFold,
		"^": strings.HasPrefix,
		"@": strings.Contains,
		">": func(v, t string) bool { return v > t },
		"<": func(v, t string) bool { return v < t },
	}
)

// checkNumericOperand compares a numeric value against the filter value using
// numeric semantics.
func checkNumericOperand(value float64, filter Filter) bool {
	op, ok := numericOps[filter.Operand]
	if !ok {
		log.Errorf("unsupported numeric operand: %s", filter.Operand)
		return false
	}

	tgt, err := strconv.ParseFloat(strings.TrimSpace(filter.Value), 64)
	if err != nil {
		log.Errorf("invalid numeric value: %s", filter.Value)
		return false
	}
	return op(value, tgt) != filter.Negate
}

// checkStringOperand evaluates a string comparison style filter against the
// provided value using the operand semantics.
func checkStringOperand(value string, filter Filter) bool {
	return matchString(value, filter, nil)
}

// matchString is checkStringOperand with an optional precompiled regex for
// the / operand.
func matchString(value string, filter Filter, re *regexp.Regexp) bool {
	if filter.Operand == "/" {
		if re == nil {
			var err error
			if re, err = regexp.Compile(filter.Value); err != nil {
				log.Errorf("invalid regex: %s", filter.Value)
				return false
			}
		}
		return re.MatchString(value) != filter.Negate
	}

	op, ok := stringOps[filter.Operand]
	if !ok {
		log.Errorf("unsupported filtering operand: %s", filter.Operand)
		return false
	}
	return op(value, filter.Value) != filter.Negate
}
