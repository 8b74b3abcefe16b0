// Copyright The xstats-sampler Authors
// SPDX-License-Identifier: Apache-2.0

package sampler

import "fmt"

// Source is a registered source record: a source-ops handle bound to one
// owning session, plus the runtime's cached name/ID/value table and
// filter state for it.
//
// A Source must only be mutated by the goroutine that drives the owning
// session's Sample/Poll calls, or by a caller that otherwise externally
// serializes access (the same discipline Registry documents).
type Source struct {
	session  *Session
	name     string
	sourceID uint16
	ops      SourceOps
	valid    bool

	cached bool
	names  []StatName
	ids    []StatID
	values []int64

	filterActive   bool
	filterPatterns []string
	filteredIDs    []StatID
	filteredNames  []StatName
}

// Name returns the source's display name.
func (s *Source) Name() string { return s.name }

// SourceID returns the source's numeric identifier, unique within its
// session.
func (s *Source) SourceID() uint16 { return s.sourceID }

// Valid reports whether the source is still registered.
func (s *Source) Valid() bool { return s.valid }

// CachedCount returns the number of stats frozen in the name cache, or 0
// if the source has not yet been successfully sampled once.
func (s *Source) CachedCount() int { return len(s.ids) }

// registerSource implements Session.RegisterSource; split out so Session
// can validate session-level state before allocating the record.
func registerSource(session *Session, name string, sourceID uint16, ops SourceOps) (*Source, error) {
	if ops == nil {
		return nil, fmt.Errorf("%w: source ops is nil", ErrInvalidArgument)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: source name is empty", ErrInvalidArgument)
	}
	if err := StatName(name).Validate(); err != nil {
		return nil, err
	}

	src := &Source{
		session:  session,
		name:     name,
		sourceID: sourceID,
		ops:      ops,
		valid:    true,
	}
	return src, nil
}

// SetFilter replaces the source's active filter patterns with copies of
// patterns and recomputes filteredIDs/filteredNames from the cached name
// table (if the source has been cached already). An empty pattern list is
// an error; more than MaxFilterPatterns is ErrResourceExhausted.
func (s *Source) SetFilter(patterns []string) error {
	if !s.valid {
		return ErrInvalidSession
	}
	if len(patterns) == 0 {
		return fmt.Errorf("%w: filter pattern list is empty", ErrInvalidArgument)
	}
	if len(patterns) > MaxFilterPatterns {
		return fmt.Errorf("%w: %d patterns exceeds limit of %d",
			ErrResourceExhausted, len(patterns), MaxFilterPatterns)
	}

	owned := make([]string, len(patterns))
	copy(owned, patterns)
	s.filterPatterns = owned
	s.filterActive = true
	s.recomputeFilter()
	return nil
}

// ClearFilter releases the active filter patterns and restores
// filteredIDs to the full cached set.
func (s *Source) ClearFilter() {
	s.filterPatterns = nil
	s.filterActive = false
	s.recomputeFilter()
}

// GetFilter returns the source's active filter patterns. The returned
// slice is borrowed and is only valid until the next call to SetFilter or
// ClearFilter.
func (s *Source) GetFilter() []string {
	return s.filterPatterns
}

// recomputeFilter rebuilds filteredIDs/filteredNames from the current
// name cache and filter state. It is called eagerly from SetFilter and
// ClearFilter, and again by the sampling engine whenever the name cache
// is (re)populated, since a filter set before the first successful
// sample has nothing to filter yet.
func (s *Source) recomputeFilter() {
	if !s.filterActive {
		s.filteredIDs = s.ids
		s.filteredNames = s.names
		return
	}

	ids := make([]StatID, 0, len(s.ids))
	names := make([]StatName, 0, len(s.names))
	for i, name := range s.names {
		if MatchAny(s.filterPatterns, string(name)) {
			ids = append(ids, s.ids[i])
			names = append(names, name)
		}
	}
	s.filteredIDs = ids
	s.filteredNames = names
}

// Count returns the filtered stat count if a filter is active, else the
// full cached count.
func (s *Source) Count() (int, error) {
	if !s.valid {
		return 0, ErrInvalidSession
	}
	if s.filterActive {
		return len(s.filteredIDs), nil
	}
	return len(s.ids), nil
}

// NameByID scans the cached name table for id and returns its name.
// Exported so a sink that opted out of names (SinkNoNames) can look one
// up on demand.
func (s *Source) NameByID(id StatID) (StatName, error) {
	if !s.valid {
		return "", ErrInvalidSession
	}
	for i, cid := range s.ids {
		if cid == id {
			return s.names[i], nil
		}
	}
	return "", fmt.Errorf("%w: id %d", ErrNotFound, id)
}

// ensureCached performs the lazy, one-shot name/ID/value cache population
// described by the sampling engine: a size query followed by a populating
// call. It returns false (without error) if the source is not ready to be
// cached yet; the engine simply retries on the next pass.
func (s *Source) ensureCached() bool {
	if s.cached {
		return true
	}

	n, err := s.ops.NamesGet(nil, nil)
	if err != nil || n <= 0 {
		return false
	}

	names := make([]StatName, n)
	ids := make([]StatID, n)
	count, err := s.ops.NamesGet(names, ids)
	if err != nil || count <= 0 {
		return false
	}

	s.names = names[:count]
	s.ids = ids[:count]
	s.values = make([]int64, count)
	s.cached = true
	s.recomputeFilter()
	return true
}
