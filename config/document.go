// Copyright The xstats-sampler Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads declarative session/source/sink layouts from YAML
// and applies them against a sampler.Registry. It is an example adapter;
// the core sampler package has no dependency on it.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sriramy/xstats-sampler"
)

// SessionDoc declares one session and the filters applied to its
// sources. Source and sink wiring itself -- which concrete SourceOps or
// SinkOps a name maps to -- is supplied by the caller through a
// Builders table, since those are Go values (often holding live
// handles, like an *ebpf.Map) that cannot be expressed in YAML.
type SessionDoc struct {
	Name       string      `yaml:"name"`
	IntervalMS uint64      `yaml:"interval_ms"`
	DurationMS uint64      `yaml:"duration_ms"`
	Sources    []SourceDoc `yaml:"sources"`
	Sinks      []string    `yaml:"sinks"`
}

// SourceDoc declares one source attachment within a session, along with
// an optional glob filter.
type SourceDoc struct {
	Name   string   `yaml:"name"`
	ID     uint16   `yaml:"id"`
	Filter []string `yaml:"filter"`
}

// Document is the root of a config file: a list of independent
// sessions, mirroring the sampler's own model of independent sessions
// with their own timing policy.
type Document struct {
	Sessions []SessionDoc `yaml:"sessions"`
}

// Load reads and parses a Document from path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &doc, nil
}

// Builders supplies the live Go values a Document's names refer to.
// SourceOps/SinkOps are looked up by the names used in the YAML; a name
// with no matching builder is a configuration error at Apply time.
type Builders struct {
	Sources map[string]sampler.SourceOps
	Sinks   map[string]sampler.SinkOps
}

// Apply constructs one sampler.Session per SessionDoc in doc, wires its
// declared sources and sinks from builders, and starts it if its
// IntervalMS is non-zero (a manual-only session is left inactive). It returns
// the created sessions in document order; on any error it does not
// leave partially-applied sessions behind, it frees everything it
// already created.
func Apply(reg *sampler.Registry, doc *Document, builders Builders) ([]*sampler.Session, error) {
	sessions := make([]*sampler.Session, 0, len(doc.Sessions))

	rollback := func() {
		for _, s := range sessions {
			s.Free()
		}
	}

	for _, sd := range doc.Sessions {
		session, err := sampler.NewSessionIn(reg, &sampler.SessionConfig{
			Name:       sd.Name,
			IntervalMS: sd.IntervalMS,
			DurationMS: sd.DurationMS,
		})
		if err != nil {
			rollback()
			return nil, fmt.Errorf("config: session %q: %w", sd.Name, err)
		}
		sessions = append(sessions, session)

		for _, src := range sd.Sources {
			ops, ok := builders.Sources[src.Name]
			if !ok {
				rollback()
				return nil, fmt.Errorf("config: session %q: no source builder registered for %q", sd.Name, src.Name)
			}
			source, err := session.RegisterSource(src.Name, src.ID, ops)
			if err != nil {
				rollback()
				return nil, fmt.Errorf("config: session %q: register source %q: %w", sd.Name, src.Name, err)
			}
			if len(src.Filter) > 0 {
				if err := source.SetFilter(src.Filter); err != nil {
					rollback()
					return nil, fmt.Errorf("config: session %q: filter on %q: %w", sd.Name, src.Name, err)
				}
			}
		}

		for _, sinkName := range sd.Sinks {
			ops, ok := builders.Sinks[sinkName]
			if !ok {
				rollback()
				return nil, fmt.Errorf("config: session %q: no sink builder registered for %q", sd.Name, sinkName)
			}
			if _, err := session.RegisterSink(sinkName, ops); err != nil {
				rollback()
				return nil, fmt.Errorf("config: session %q: register sink %q: %w", sd.Name, sinkName, err)
			}
		}

		if sd.IntervalMS > 0 {
			if err := session.Start(); err != nil {
				rollback()
				return nil, fmt.Errorf("config: session %q: start: %w", sd.Name, err)
			}
		}
	}

	return sessions, nil
}
