// Copyright The xstats-sampler Authors
// SPDX-License-Identifier: Apache-2.0

package sampler

import "sync"

// Registry is a process-wide collection of live sessions, used only by
// the polling driver. Discipline: like Session, Source, and Sink,
// Registry is mutated only by the single thread that drives Poll/Sample,
// or by a caller that otherwise externally serializes access -- it holds
// no internal lock on its session list for that path.
//
// The package-level DefaultRegistry is initialized lazily on first use,
// per spec.md's "global registry" design note. Tests and callers that
// want isolation from that global state should create their own Registry
// with NewRegistry and pass it to NewSessionIn.
type Registry struct {
	sessions []*Session
}

// NewRegistry creates an empty, private session registry.
func NewRegistry() *Registry {
	return &Registry{}
}

var (
	defaultRegistryOnce sync.Once
	defaultRegistry     *Registry
)

// DefaultRegistry returns the process-wide registry that the no-argument
// Poll function walks.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

func (r *Registry) add(s *Session) {
	r.sessions = append(r.sessions, s)
}

func (r *Registry) remove(s *Session) {
	for i, existing := range r.sessions {
		if existing == s {
			r.sessions = append(r.sessions[:i], r.sessions[i+1:]...)
			return
		}
	}
}

// Sessions returns the registry's current sessions. The returned slice is
// borrowed and must not be mutated by the caller.
func (r *Registry) Sessions() []*Session {
	return r.sessions
}
