// Copyright The xstats-sampler Authors
// SPDX-License-Identifier: Apache-2.0

// Package sampler implements a statistics sampling runtime: it periodically
// harvests named extended statistics ("xstats") from pluggable producers
// (sources) and delivers the collected values to pluggable consumers
// (sinks), organized into independent sessions with their own timing
// policy.
//
// A Session owns a set of Sources and Sinks. Sample runs one sampling pass
// over a session: for each registered source it lazily discovers the
// source's stat names and IDs, applies any active glob filter, fetches the
// current values, and fans them out to every registered sink. Poll walks
// the process-wide Registry and calls Sample on every session whose
// interval has elapsed.
//
// Concrete source and sink implementations (an eBPF-map source, a
// Prometheus sink, an OTLP log sink) live under sampler/adapters and are
// not required to use the core runtime; the runtime only depends on the
// SourceOps and SinkOps interfaces.
package sampler
