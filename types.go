// Copyright The xstats-sampler Authors
// SPDX-License-Identifier: Apache-2.0

package sampler

import "fmt"

// MaxNameLength is the maximum length, in bytes, of a stat name or a
// session display name, including the space a C string would reserve for
// its NUL terminator. Go strings carry no terminator, so the usable
// length is MaxNameLength-1.
const MaxNameLength = 128

// MaxFilterPatterns bounds the number of glob patterns a single source
// filter may hold. Call sites that need more should combine patterns
// (e.g. "rx_*" rather than "rx_pkts", "rx_bytes", ...).
const MaxFilterPatterns = 32

// StatName is an opaque, fixed-capacity stat name. The runtime never
// interprets a name beyond glob matching and pass-through to sinks.
type StatName string

// Validate reports ErrResourceExhausted if n exceeds the name capacity
// contract.
func (n StatName) Validate() error {
	if len(n) > MaxNameLength-1 {
		return fmt.Errorf("%w: stat name %q is %d bytes, limit is %d",
			ErrResourceExhausted, n, len(n), MaxNameLength-1)
	}
	return nil
}

// StatID is a 64-bit identifier, unique within a single source's name
// table but not globally unique. The addressable unit is the pair
// (source, id).
type StatID uint64

// SourceOps is the capability set a source adapter must provide.
type SourceOps interface {
	// NamesGet reports the names and IDs of the stats a source exposes.
	//
	// When names is nil, NamesGet must not touch any buffer and should
	// return the total number of stats currently available (a size
	// query). Otherwise it fills up to len(names) (name, id) pairs,
	// ids[i] corresponding to names[i], and returns the count filled.
	NamesGet(names []StatName, ids []StatID) (int, error)

	// ValuesGet fetches the current values of the given ids, in the same
	// order, into values (len(values) >= len(ids)). It returns the
	// number of values filled. An ID unknown to the source is the
	// adapter's choice to treat as an error or report a zero value.
	ValuesGet(ids []StatID, values []int64) (int, error)
}

// Resetter is an optional capability a SourceOps may additionally
// implement to support xstats reset.
type Resetter interface {
	// Reset resets the given ids (or every stat the source exposes, if
	// ids is nil).
	Reset(ids []StatID) error
}

// SinkFlags is a bit-set of sink capabilities/preferences.
type SinkFlags uint32

// SinkNoNames, when set, tells the sampling engine to pass nil for the
// names argument of Output, letting a high-frequency sink skip the
// bandwidth of repeating names it has already cached on its own side.
const SinkNoNames SinkFlags = 1 << 0

// SinkOps is the capability set a sink adapter must provide.
type SinkOps interface {
	// Output delivers one source's fan-out for the current sampling
	// pass. names is nil iff the sink's Flags() has SinkNoNames set;
	// otherwise names[i]/ids[i]/values[i] describe the i-th delivered
	// stat, n entries in total, in filtered-ID order. Output must not
	// retain names, ids, or values beyond the call: the engine may reuse
	// the backing arrays on the next pass.
	Output(sourceName string, sourceID uint16, names []StatName, ids []StatID, values []int64, n int) error

	// Flags reports this sink's capability/preference bits.
	Flags() SinkFlags
}
