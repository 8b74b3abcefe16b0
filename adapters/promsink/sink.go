// Copyright The xstats-sampler Authors
// SPDX-License-Identifier: Apache-2.0

// Package promsink implements sampler.SinkOps by exposing each sampled
// source as a set of Prometheus gauges. It is an example adapter; the
// core sampler package has no dependency on it.
package promsink

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/model"

	"github.com/sriramy/xstats-sampler"
)

// Sink collects the last value of every xstat it has seen, per source
// name, and reports them as a single gauge vector labeled by source and
// stat name. Registering Sink with a prometheus.Registry turns every
// Output call into updated gauge state for the next /metrics scrape.
type Sink struct {
	namespace string
	flags     sampler.SinkFlags

	mu     sync.Mutex
	values map[string]map[string]int64 // source name -> stat name -> value
	desc   *prometheus.Desc
}

// New returns a Sink whose gauges are named "<namespace>_xstat" and
// labeled by "source" and "stat". namespace is sanitized the way
// Prometheus requires metric name components to be.
func New(namespace string) *Sink {
	return &Sink{
		namespace: namespace,
		values:    make(map[string]map[string]int64),
		desc: prometheus.NewDesc(
			fmt.Sprintf("%s_xstat", namespace),
			"Last sampled value of an extended statistic.",
			[]string{"source", "stat"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (s *Sink) Describe(ch chan<- *prometheus.Desc) {
	ch <- s.desc
}

// Collect implements prometheus.Collector.
func (s *Sink) Collect(ch chan<- prometheus.Metric) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for source, stats := range s.values {
		for stat, v := range stats {
			ch <- prometheus.MustNewConstMetric(s.desc, prometheus.GaugeValue, float64(v), source, stat)
		}
	}
}

// Flags implements sampler.SinkOps. promsink needs names to label its
// gauges, so it never sets SinkNoNames.
func (s *Sink) Flags() sampler.SinkFlags {
	return s.flags
}

// Output implements sampler.SinkOps, recording the latest value of each
// named stat for later collection.
func (s *Sink) Output(sourceName string, _ uint16, names []sampler.StatName, _ []sampler.StatID, values []int64, n int) error {
	if names == nil {
		return fmt.Errorf("promsink: sink requires stat names, got none for source %q", sourceName)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bucket := s.values[sourceName]
	if bucket == nil {
		bucket = make(map[string]int64, n)
		s.values[sourceName] = bucket
	}
	for i := 0; i < n; i++ {
		label := model.LabelValue(string(names[i]))
		if !label.IsValid() {
			continue
		}
		bucket[string(names[i])] = values[i]
	}
	return nil
}
