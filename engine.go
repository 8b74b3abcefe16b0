// Copyright The xstats-sampler Authors
// SPDX-License-Identifier: Apache-2.0

package sampler

// Sample runs one sampling pass over the session: for each valid source,
// in registration order, it lazily discovers names/IDs, applies the
// active filter, fetches values, and fans out to every valid sink, in
// registration order. Per-source and per-sink failures are isolated --
// absorbed and logged at debug level -- and never short-circuit the rest
// of the pass. Sample returns a non-nil error only if the session itself
// is invalid.
func (s *Session) Sample() error {
	if !s.valid {
		return ErrInvalidSession
	}

	for _, src := range s.sources {
		if !src.valid {
			continue
		}
		s.sampleSource(src)
	}

	s.lastSampleTime = s.clock()
	return nil
}

func (s *Session) sampleSource(src *Source) {
	if !src.ensureCached() {
		s.log.Debug("source not yet cached, skipping this pass", "source", src.name)
		return
	}

	if _, err := src.ops.ValuesGet(src.filteredIDs, src.values[:len(src.filteredIDs)]); err != nil {
		s.log.Debug("values_get failed, skipping fan-out", "source", src.name,
			"error", &AdapterError{Op: OpValuesGet, Name: src.name, Err: err})
		return
	}

	for _, sink := range s.sinks {
		if !sink.valid {
			continue
		}
		s.fanOut(src, sink)
	}
}

func (s *Session) fanOut(src *Source, sink *Sink) {
	var names []StatName
	if sink.ops.Flags()&SinkNoNames == 0 {
		names = src.filteredNames
	}

	err := sink.ops.Output(src.name, src.sourceID, names, src.filteredIDs, src.values[:len(src.filteredIDs)], len(src.filteredIDs))
	if err != nil {
		s.log.Debug("sink output failed, other sinks unaffected",
			"sink", sink.name, "source", src.name,
			"error", &AdapterError{Op: OpOutput, Name: sink.name, Err: err})
	}
}
