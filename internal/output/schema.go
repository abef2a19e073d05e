// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/tfctl/datdiff/internal/log"
)

// maxSchemaDepth limits the depth of schema walking to prevent infinite
// recursion.
const maxSchemaDepth = 3

// DumpSchema writes the sorted gjson paths that the --attrs and --filter flags
// accept for rows of typ. If w is nil, os.Stdout is used.
func DumpSchema(typ reflect.Type, w io.Writer) {
	if w == nil {
		w = os.Stdout
	}

	fmt.Fprintln(w,
		`Row attributes that are directly available to the --attrs and --filter flags.
Nested values are addressed with dots, list items with #.`)
	fmt.Fprintln(w, "")

	for typ.Kind() == reflect.Ptr || typ.Kind() == reflect.Slice {
		typ = typ.Elem()
	}

	paths := dumpSchemaWalker("", typ, 0)
	if len(paths) == 0 {
		log.Debugf("no tags found for type: %s", typ.Name())
		return
	}

	sort.Strings(paths)
	for _, p := range paths {
		fmt.Fprintln(w, p)
	}
}

// dumpSchemaWalker recursively walks a struct type discovering json tags.
func dumpSchemaWalker(holder string, typ reflect.Type, depth int) []string {
	paths := make([]string, 0)

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}

		tagValue, ok := field.Tag.Lookup("json")
		if !ok {
			continue
		}
		name, _, _ := strings.Cut(tagValue, ",")
		if name == "" || name == "-" {
			continue
		}
		if holder != "" {
			name = holder + "." + name
		}

		paths = append(paths, name)

		if depth >= maxSchemaDepth {
			continue
		}

		ft := field.Type
		if ft.Kind() == reflect.Slice {
			if elem := ft.Elem(); elem.Kind() == reflect.Struct {
				paths = append(paths, dumpSchemaWalker(name+".#", elem, depth+1)...)
			}
			continue
		}
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		if ft.Kind() == reflect.Struct {
			paths = append(paths, dumpSchemaWalker(name, ft, depth+1)...)
		}
	}

	return paths
}
