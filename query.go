// Copyright The xstats-sampler Authors
// SPDX-License-Identifier: Apache-2.0

package sampler

import "fmt"

// validSources returns src in a one-element slice, or every valid source
// of the session if src is nil ("source_or_all" in spec.md's terms).
func (s *Session) validSources(src *Source) []*Source {
	if src != nil {
		return []*Source{src}
	}
	out := make([]*Source, 0, len(s.sources))
	for _, candidate := range s.sources {
		if candidate.valid {
			out = append(out, candidate)
		}
	}
	return out
}

// NamesGet returns the cache-snapshot names for src, or for every valid
// source if src is nil (concatenated in registration order). If out is
// nil, it returns the count only, without copying.
func (s *Session) NamesGet(src *Source, out []StatName) (int, error) {
	if !s.valid {
		return 0, ErrInvalidSession
	}

	sources := s.validSources(src)
	if out == nil {
		total := 0
		for _, source := range sources {
			total += len(source.names)
		}
		return total, nil
	}

	n := 0
	for _, source := range sources {
		for _, name := range source.names {
			if n >= len(out) {
				return n, nil
			}
			out[n] = name
			n++
		}
	}
	return n, nil
}

// ValuesGet reads from the cached values (i.e. the last successful
// sample), not from the adapter. If ids is nil, the first
// min(len(out), cached_count) values are returned in cache order (the
// filtered order of the last sampling pass, if a filter is active). If
// ids is given, each id is looked up against the source's full cached
// name table; an id present in the cache but outside the last pass's
// filtered set yields 0, matching the "values buffer content is
// undefined" rule for data that was never fetched.
func (s *Session) ValuesGet(src *Source, ids []StatID, out []int64) (int, error) {
	if !s.valid {
		return 0, ErrInvalidSession
	}

	sources := s.validSources(src)

	if ids == nil {
		n := 0
		for _, source := range sources {
			view := source.ids
			values := source.values
			if source.filterActive {
				view = source.filteredIDs
				values = source.values[:len(source.filteredIDs)]
			}
			for i := range view {
				if n >= len(out) {
					return n, nil
				}
				out[n] = values[i]
				n++
			}
		}
		return n, nil
	}

	for i, id := range ids {
		if i >= len(out) {
			break
		}
		val, err := s.valueByID(sources, id)
		if err != nil {
			return i, err
		}
		out[i] = val
	}
	if len(ids) < len(out) {
		return len(ids), nil
	}
	return len(out), nil
}

func (s *Session) valueByID(sources []*Source, id StatID) (int64, error) {
	for _, source := range sources {
		for _, cid := range source.ids {
			if cid != id {
				continue
			}
			for j, fid := range source.filteredIDs {
				if fid == id {
					return source.values[j], nil
				}
			}
			return 0, nil
		}
	}
	return 0, fmt.Errorf("%w: id %d", ErrNotFound, id)
}

// Reset calls Reset on the adapter of every targeted source (if it
// implements Resetter), then zeroes the cached values on success. For an
// all-sources call, a failure on one source does not abort the others;
// Reset returns the first error encountered, if any, after attempting
// every source.
func (s *Session) Reset(src *Source, ids []StatID) error {
	if !s.valid {
		return ErrInvalidSession
	}

	sources := s.validSources(src)
	var firstErr error
	for _, source := range sources {
		resetter, ok := source.ops.(Resetter)
		if !ok {
			continue
		}
		if err := resetter.Reset(ids); err != nil {
			if firstErr == nil {
				firstErr = &AdapterError{Op: OpReset, Name: source.name, Err: err}
			}
			s.log.Debug("reset failed", "source", source.name, "error", err)
			continue
		}
		for i := range source.values {
			source.values[i] = 0
		}
	}
	return firstErr
}
