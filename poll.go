// Copyright The xstats-sampler Authors
// SPDX-License-Identifier: Apache-2.0

package sampler

import "time"

// Poll walks the default process-wide registry and calls Sample on every
// session that is valid, active, and whose interval has elapsed. It
// returns the number of sessions sampled this call.
func Poll() int {
	return DefaultRegistry().Poll()
}

// Poll walks r's sessions and calls Sample on every session that is
// valid, active, and whose interval has elapsed. A session with
// IntervalMS == 0 is skipped -- it is only sampled by explicit calls to
// Sample. An expired session (duration elapsed) is observed inactive by
// IsActive and is skipped too; it will not be sampled again without a
// fresh Start. The interval is a lower bound, not a schedule: if the
// caller invokes Poll late, the next sample fires immediately and missed
// windows are dropped, never caught up.
func (r *Registry) Poll() int {
	polled := 0
	for _, s := range r.sessions {
		if !s.valid || s.intervalMS == 0 {
			continue
		}
		if !s.IsActive() {
			continue
		}

		elapsed := s.clock().Sub(s.lastSampleTime)
		if elapsed >= time.Duration(s.intervalMS)*time.Millisecond {
			_ = s.Sample()
			polled++
		}
	}
	return polled
}
