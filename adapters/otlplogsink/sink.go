// Copyright The xstats-sampler Authors
// SPDX-License-Identifier: Apache-2.0

// Package otlplogsink implements sampler.SinkOps by emitting every
// sampled stat as an OpenTelemetry log record. It is an example adapter;
// the core sampler package has no dependency on it.
package otlplogsink

import (
	"context"
	"fmt"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"github.com/sriramy/xstats-sampler"
)

// Sink turns each Output call into one log record per sampled stat,
// carrying the source name, the stat name (unless SinkNoNames is set),
// and the stat's int64 value as structured attributes. Records are
// emitted through an otel/sdk/log.Logger, which batches and exports them
// according to however its processor was configured.
type Sink struct {
	logger otellog.Logger
	flags  sampler.SinkFlags
}

// Config selects the emission mode.
type Config struct {
	// NoNames drops stat names from emitted records, relying on the
	// numeric stat ID instead. Use when a source's names are large or
	// rarely needed, to cut payload size the way the sampler's
	// SinkNoNames flag is meant for.
	NoNames bool
}

// New wraps an already-configured *sdklog.LoggerProvider's Logger.
// Constructing the provider (choosing otlploggrpc vs otlploghttp,
// batch vs simple processor) is the caller's responsibility, the same
// way the sampler's own Session construction leaves transport choice to
// its caller.
func New(provider *sdklog.LoggerProvider, instrumentationName string, cfg Config) *Sink {
	flags := sampler.SinkFlags(0)
	if cfg.NoNames {
		flags = sampler.SinkNoNames
	}
	return &Sink{
		logger: provider.Logger(instrumentationName),
		flags:  flags,
	}
}

// Flags implements sampler.SinkOps.
func (s *Sink) Flags() sampler.SinkFlags {
	return s.flags
}

// Output implements sampler.SinkOps.
func (s *Sink) Output(sourceName string, sourceID uint16, names []sampler.StatName, ids []sampler.StatID, values []int64, n int) error {
	ctx := context.Background()
	for i := 0; i < n; i++ {
		var rec otellog.Record
		rec.SetBody(otellog.StringValue(fmt.Sprintf("xstat sample: source=%s id=%d", sourceName, sourceID)))
		rec.AddAttributes(
			otellog.String("sampler.source", sourceName),
			otellog.Int64("sampler.source_id", int64(sourceID)),
			otellog.Int64("sampler.stat_id", int64(ids[i])),
			otellog.Int64("sampler.value", values[i]),
		)
		if names != nil {
			rec.AddAttributes(otellog.String("sampler.stat_name", string(names[i])))
		}
		s.logger.Emit(ctx, rec)
	}
	return nil
}
