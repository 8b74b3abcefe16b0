// Copyright The xstats-sampler Authors
// SPDX-License-Identifier: Apache-2.0

package promsink

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sriramy/xstats-sampler"
)

func TestOutput_RequiresNames(t *testing.T) {
	s := New("test")
	err := s.Output("eth0", 0, nil, []sampler.StatID{0}, []int64{1}, 1)
	if err == nil {
		t.Fatal("expected error when names is nil")
	}
}

func TestOutput_CollectsGauges(t *testing.T) {
	s := New("test")
	names := []sampler.StatName{"rx_pkts", "tx_pkts"}
	ids := []sampler.StatID{0, 1}
	values := []int64{10, 20}

	if err := s.Output("eth0", 0, names, ids, values, 2); err != nil {
		t.Fatal(err)
	}

	reg := prometheus.NewRegistry()
	if err := reg.Register(s); err != nil {
		t.Fatal(err)
	}
	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	if len(families) != 1 {
		t.Fatalf("expected 1 metric family, got %d", len(families))
	}
	metrics := families[0].GetMetric()
	if len(metrics) != 2 {
		t.Fatalf("expected 2 metrics, got %d", len(metrics))
	}

	seen := map[string]float64{}
	for _, m := range metrics {
		var stat string
		for _, lp := range m.GetLabel() {
			if lp.GetName() == "stat" {
				stat = lp.GetValue()
			}
		}
		seen[stat] = m.GetGauge().GetValue()
	}
	if seen["rx_pkts"] != 10 || seen["tx_pkts"] != 20 {
		t.Errorf("unexpected gauge values: %v", seen)
	}
}
