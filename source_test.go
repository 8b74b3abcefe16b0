// Copyright The xstats-sampler Authors
// SPDX-License-Identifier: Apache-2.0

package sampler

import (
	"errors"
	"testing"
)

func newCachedSource(t *testing.T, s *Session, names []StatName, ids []StatID, values []int64) *Source {
	t.Helper()
	src, err := s.RegisterSource("src", 1, &fakeSource{names: names, ids: ids, values: values})
	if err != nil {
		t.Fatalf("RegisterSource: %v", err)
	}
	if !src.ensureCached() {
		t.Fatalf("ensureCached should succeed with %d advertised names", len(names))
	}
	return src
}

func TestSource_FilterSemantics(t *testing.T) {
	reg := NewRegistry()
	s, err := NewSessionIn(reg, nil)
	if err != nil {
		t.Fatal(err)
	}

	names := []StatName{"rx_pkts", "rx_bytes", "tx_pkts", "tx_bytes", "errors"}
	ids := []StatID{0, 1, 2, 3, 4}
	values := []int64{1, 2, 3, 4, 5}
	src := newCachedSource(t, s, names, ids, values)

	if err := src.SetFilter([]string{"rx_*", "errors"}); err != nil {
		t.Fatalf("SetFilter: %v", err)
	}

	wantIDs := []StatID{0, 1, 4}
	wantNames := []StatName{"rx_pkts", "rx_bytes", "errors"}
	if len(src.filteredIDs) != len(wantIDs) {
		t.Fatalf("filteredIDs = %v, want %v", src.filteredIDs, wantIDs)
	}
	for i := range wantIDs {
		if src.filteredIDs[i] != wantIDs[i] || src.filteredNames[i] != wantNames[i] {
			t.Errorf("filtered[%d] = (%v,%v), want (%v,%v)", i, src.filteredIDs[i], src.filteredNames[i], wantIDs[i], wantNames[i])
		}
	}

	count, err := src.Count()
	if err != nil || count != 3 {
		t.Errorf("Count() = (%d, %v), want (3, nil)", count, err)
	}

	src.ClearFilter()
	if src.filterActive {
		t.Error("filterActive should be false after ClearFilter")
	}
	if len(src.filteredIDs) != len(ids) {
		t.Errorf("after ClearFilter, filteredIDs should equal full ids, got %v", src.filteredIDs)
	}
	count, err = src.Count()
	if err != nil || count != len(ids) {
		t.Errorf("Count() after clear = (%d, %v), want (%d, nil)", count, err, len(ids))
	}
}

func TestSource_SetFilterValidation(t *testing.T) {
	reg := NewRegistry()
	s, err := NewSessionIn(reg, nil)
	if err != nil {
		t.Fatal(err)
	}
	src := newCachedSource(t, s, []StatName{"a"}, []StatID{0}, []int64{1})

	if err := src.SetFilter(nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("empty filter should be ErrInvalidArgument, got %v", err)
	}

	tooMany := make([]string, MaxFilterPatterns+1)
	for i := range tooMany {
		tooMany[i] = "*"
	}
	if err := src.SetFilter(tooMany); !errors.Is(err, ErrResourceExhausted) {
		t.Errorf("too many patterns should be ErrResourceExhausted, got %v", err)
	}
}

func TestSource_GetFilterIsBorrowed(t *testing.T) {
	reg := NewRegistry()
	s, err := NewSessionIn(reg, nil)
	if err != nil {
		t.Fatal(err)
	}
	src := newCachedSource(t, s, []StatName{"a", "b"}, []StatID{0, 1}, []int64{1, 2})

	if err := src.SetFilter([]string{"a"}); err != nil {
		t.Fatal(err)
	}
	got := src.GetFilter()
	if len(got) != 1 || got[0] != "a" {
		t.Fatalf("GetFilter() = %v, want [a]", got)
	}
	if &got[0] != &src.filterPatterns[0] {
		t.Error("GetFilter() should return the source's own pattern slice, not a copy")
	}
}

func TestSource_NameByID(t *testing.T) {
	reg := NewRegistry()
	s, err := NewSessionIn(reg, nil)
	if err != nil {
		t.Fatal(err)
	}
	src := newCachedSource(t, s, []StatName{"s0", "s1"}, []StatID{10, 20}, []int64{1, 2})

	name, err := src.NameByID(20)
	if err != nil || name != "s1" {
		t.Errorf("NameByID(20) = (%q, %v), want (s1, nil)", name, err)
	}

	_, err = src.NameByID(999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("NameByID(999) error = %v, want ErrNotFound", err)
	}
}

func TestSource_CacheFreeze(t *testing.T) {
	reg := NewRegistry()
	s, err := NewSessionIn(reg, nil)
	if err != nil {
		t.Fatal(err)
	}

	fake := &fakeSource{
		names:  []StatName{"a", "b", "c", "d"},
		ids:    []StatID{0, 1, 2, 3},
		values: []int64{1, 2, 3, 4},
	}
	src, err := s.RegisterSource("src", 1, fake)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}

	if err := s.Sample(); err != nil {
		t.Fatal(err)
	}
	if got := src.CachedCount(); got != 4 {
		t.Fatalf("CachedCount() = %d, want 4", got)
	}

	// Adapter now advertises a 5th stat; the cache must stay frozen.
	fake.names = append(fake.names, "e")
	fake.ids = append(fake.ids, 4)
	fake.values = append(fake.values, 5)

	if err := s.Sample(); err != nil {
		t.Fatal(err)
	}
	if got := src.CachedCount(); got != 4 {
		t.Errorf("CachedCount() after adapter grew = %d, want frozen at 4", got)
	}

	if err := s.UnregisterSource(src); err != nil {
		t.Fatal(err)
	}
	src2, err := s.RegisterSource("src", 1, fake)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Sample(); err != nil {
		t.Fatal(err)
	}
	if got := src2.CachedCount(); got != 5 {
		t.Errorf("re-registered source should observe the new count, got %d want 5", got)
	}
}
