// Copyright The xstats-sampler Authors
// SPDX-License-Identifier: Apache-2.0

// Package ebpfsource implements sampler.SourceOps over a pinned eBPF map,
// exposing its entries as xstats. It is an example adapter; the core
// sampler package has no dependency on it.
package ebpfsource

import (
	"fmt"
	"sort"

	"github.com/cilium/ebpf"

	"github.com/sriramy/xstats-sampler"
)

// Source reads 32-bit-keyed, 64-bit-valued counters from a pinned eBPF
// map and presents them as xstats. The map is expected to hold one entry
// per counter, keyed by a small dense integer (e.g. a per-CPU event type
// or queue index), mirroring the counter layout the original repo's
// event-device source collects from hardware/software counters.
type Source struct {
	values *ebpf.Map
	names  map[uint32]string
}

// Open loads the pinned map at path and wires it to names, a caller-owned
// mapping from the map's integer keys to stable stat names. names is
// typically produced once from the same BPF program's counter
// definitions (e.g. generated alongside the .bpf.o), not read back from
// the map itself, since eBPF map values carry no string metadata by
// default.
func Open(path string, names map[uint32]string) (*Source, error) {
	m, err := ebpf.LoadPinnedMap(path, nil)
	if err != nil {
		return nil, fmt.Errorf("ebpfsource: load pinned map %s: %w", path, err)
	}
	return &Source{values: m, names: names}, nil
}

// Close releases the underlying map file descriptor.
func (s *Source) Close() error {
	return s.values.Close()
}

// sortedKeys returns the configured counter keys in ascending order, so
// that NamesGet's two calls (size query, then fill) observe the same
// ordering within one sampling pass.
func (s *Source) sortedKeys() []uint32 {
	keys := make([]uint32, 0, len(s.names))
	for k := range s.names {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// NamesGet implements sampler.SourceOps.
func (s *Source) NamesGet(names []sampler.StatName, ids []sampler.StatID) (int, error) {
	keys := s.sortedKeys()
	if names == nil {
		return len(keys), nil
	}
	n := 0
	for _, key := range keys {
		if n >= len(names) {
			break
		}
		names[n] = sampler.StatName(s.names[key])
		ids[n] = sampler.StatID(key)
		n++
	}
	return n, nil
}

// ValuesGet implements sampler.SourceOps by looking up each requested ID
// (map key) in the pinned map.
func (s *Source) ValuesGet(ids []sampler.StatID, values []int64) (int, error) {
	for i, id := range ids {
		key := uint32(id)
		var v uint64
		if err := s.values.Lookup(&key, &v); err != nil {
			return i, fmt.Errorf("ebpfsource: lookup key %d: %w", key, err)
		}
		values[i] = int64(v)
	}
	return len(ids), nil
}

// Reset implements sampler.Resetter by zeroing the requested keys (or
// every configured key, if ids is nil).
func (s *Source) Reset(ids []sampler.StatID) error {
	keys := ids
	if keys == nil {
		for _, k := range s.sortedKeys() {
			keys = append(keys, sampler.StatID(k))
		}
	}
	var zero uint64
	for _, id := range keys {
		key := uint32(id)
		if err := s.values.Update(&key, &zero, ebpf.UpdateExist); err != nil {
			return fmt.Errorf("ebpfsource: reset key %d: %w", key, err)
		}
	}
	return nil
}
