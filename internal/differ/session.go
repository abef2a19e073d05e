// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"context"
	"sync"

	"github.com/tfctl/datdiff/internal/log"
	"github.com/tfctl/datdiff/internal/store"
)

// Session tracks comparisons where a newer request supersedes any in-flight
// one. Each request gets a generation; only the latest generation may
// deliver a result.
type Session struct {
	getter store.Getter

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// NewSession returns a Session comparing manifests from g.
func NewSession(g store.Getter) *Session {
	return &Session{getter: g}
}

// Begin starts a new generation, cancels the context of the previous one and
// returns the generation with a context derived from ctx.
func (s *Session) Begin(ctx context.Context) (uint64, context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	s.gen++

	var cctx context.Context
	cctx, s.cancel = context.WithCancel(ctx)
	return s.gen, cctx
}

// Current reports whether gen is the latest generation.
func (s *Session) Current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen == s.gen
}

// Deliver calls fn if gen is still the latest generation and reports whether
// it did. fn runs under the session lock and must not call back into s.
func (s *Session) Deliver(gen uint64, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		log.Debugf("dropping stale comparison: gen=%d latest=%d", gen, s.gen)
		return false
	}
	fn()
	return true
}

// Close cancels the in-flight comparison, if any, and invalidates its
// generation so nothing more is delivered.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
}
