// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalSource reads documents from a checkout of the manifest repository.
type LocalSource struct {
	Dir string
}

// NewLocal returns a LocalSource rooted at dir.
func NewLocal(dir string) *LocalSource {
	return &LocalSource{Dir: dir}
}

func (s *LocalSource) Location(path string) string {
	return filepath.Join(s.Dir, filepath.FromSlash(path))
}

func (s *LocalSource) String() string {
	return s.Dir
}

// Fetch reads path from disk. A missing file satisfies
// errors.Is(err, ErrNotFound).
func (s *LocalSource) Fetch(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Location(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", s.Location(path), ErrNotFound)
		}
		return nil, err
	}
	return data, nil
}
