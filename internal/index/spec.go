// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package index

import (
	"fmt"
	"strconv"
	"strings"
)

// Find resolves a build spec. A spec can be
//
//	latest  - the newest build.
//	~N      - the Nth build counting back from the newest (~0 is the newest).
//	id      - the build with that identifier.
//	prefix  - the newest build whose identifier starts with prefix.
func (idx *Index) Find(spec string) (Build, error) {
	spec = strings.TrimSpace(spec)

	switch {
	case strings.EqualFold(spec, "latest"):
		return idx.relative(0, spec)

	case strings.HasPrefix(spec, "~"):
		n, err := strconv.Atoi(spec[1:])
		if err != nil {
			return Build{}, fmt.Errorf("invalid relative build spec: %s", spec)
		}
		return idx.relative(n, spec)
	}

	if b, err := idx.Lookup(spec); err == nil {
		return b, nil
	}

	if spec != "" {
		for _, b := range idx.builds {
			if strings.HasPrefix(b.ID, spec) {
				return b, nil
			}
		}
	}

	return Build{}, &UnknownBuildError{ID: spec}
}

func (idx *Index) relative(n int, spec string) (Build, error) {
	if n < 0 || n > len(idx.builds)-1 {
		return Build{}, fmt.Errorf("%s: index %d out of range for %d builds", spec, n, len(idx.builds))
	}
	return idx.builds[n], nil
}

// IsRelative reports whether spec can only be resolved against an index.
func IsRelative(spec string) bool {
	return strings.EqualFold(spec, "latest") || strings.HasPrefix(spec, "~")
}
