// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tfctl/datdiff/internal/log"
	"github.com/tfctl/datdiff/internal/version"
)

// HTTPSource fetches documents with plain GETs beneath Base.
type HTTPSource struct {
	Base   *url.URL
	Client *http.Client
}

// HTTPOption customizes an HTTPSource.
type HTTPOption func(*HTTPSource)

// WithTimeout sets the whole-request timeout in seconds. Values <= 0 leave the
// client without a timeout.
func WithTimeout(seconds int) HTTPOption {
	return func(s *HTTPSource) {
		if seconds > 0 {
			s.Client.Timeout = time.Duration(seconds) * time.Second
		}
	}
}

// WithClient replaces the HTTP client, e.g. with an httptest server's.
func WithClient(c *http.Client) HTTPOption {
	return func(s *HTTPSource) { s.Client = c }
}

// NewHTTP returns an HTTPSource rooted at base. A trailing slash is added so
// relative paths resolve beneath it rather than beside it.
func NewHTTP(base *url.URL, opts ...HTTPOption) *HTTPSource {
	b := *base
	if !strings.HasSuffix(b.Path, "/") {
		b.Path += "/"
	}
	s := &HTTPSource{Base: &b, Client: &http.Client{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *HTTPSource) Location(path string) string {
	return s.Base.ResolveReference(&url.URL{Path: path}).String()
}

func (s *HTTPSource) String() string {
	return s.Base.String()
}

// Fetch GETs path. Transport failures and non-2xx responses are errors; a 404
// satisfies errors.Is(err, ErrNotFound).
func (s *HTTPSource) Fetch(ctx context.Context, path string) ([]byte, error) {
	loc := s.Location(path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	log.Debugf("GET %s: status=%d", loc, resp.StatusCode)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: loc, StatusCode: resp.StatusCode}
	}

	var doc bytes.Buffer
	if _, err := doc.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return doc.Bytes(), nil
}
