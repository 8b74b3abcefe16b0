// Copyright The xstats-sampler Authors
// SPDX-License-Identifier: Apache-2.0

package sampler

import (
	"fmt"
	"log/slog"
	"time"
)

// Clock returns the current time. Sessions use it instead of calling
// time.Now directly so tests can drive sampling/polling deterministically
// without real sleeps. It plays the role spec.md assigns to the external
// "monotonic-cycle clock" collaborator.
type Clock func() time.Time

// SessionConfig configures a new session. A nil SessionConfig is
// equivalent to &SessionConfig{} (manual-only session, auto-generated
// name).
type SessionConfig struct {
	// IntervalMS is the minimum spacing between sample passes under the
	// polling driver. Zero means the session is manual-only: Poll will
	// never call Sample on it.
	IntervalMS uint64

	// DurationMS is the session's total active lifetime after Start.
	// Zero means infinite.
	DurationMS uint64

	// Name is the session's display name. If empty, an name is
	// generated from a package-wide counter.
	Name string

	// Logger receives structured logs for absorbed adapter failures and
	// lifecycle events. Defaults to slog.Default().
	Logger *slog.Logger

	// Clock supplies the current time. Defaults to time.Now.
	Clock Clock
}

// Session binds a set of sources and sinks together with a timing policy.
type Session struct {
	name       string
	intervalMS uint64
	durationMS uint64

	startTime      time.Time
	lastSampleTime time.Time
	active         bool
	valid          bool

	sources []*Source
	sinks   []*Sink

	log   *slog.Logger
	clock Clock

	registry *Registry
}

var sessionAutoNameSeq int

func autoSessionName() string {
	sessionAutoNameSeq++
	return fmt.Sprintf("session-%d", sessionAutoNameSeq)
}

// NewSession creates a session, inactive, and inserts it into the default
// process-wide registry so Poll (with no argument) can find it. Use
// NewSessionIn to register into a private Registry instead (tests should
// prefer that to avoid cross-test interference through global state).
func NewSession(conf *SessionConfig) (*Session, error) {
	return NewSessionIn(DefaultRegistry(), conf)
}

// NewSessionIn creates a session exactly like NewSession but inserts it
// into reg instead of the default registry.
func NewSessionIn(reg *Registry, conf *SessionConfig) (*Session, error) {
	if conf == nil {
		conf = &SessionConfig{}
	}

	name := conf.Name
	if name == "" {
		name = autoSessionName()
	}
	if err := StatName(name).Validate(); err != nil {
		return nil, err
	}

	logger := conf.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := conf.Clock
	if clock == nil {
		clock = time.Now
	}

	s := &Session{
		name:       name,
		intervalMS: conf.IntervalMS,
		durationMS: conf.DurationMS,
		valid:      true,
		log:        logger.With("session", name),
		clock:      clock,
		registry:   reg,
	}

	if reg != nil {
		reg.add(s)
	}

	return s, nil
}

// Name returns the session's display name.
func (s *Session) Name() string { return s.name }

// Valid reports whether the session has not yet been freed.
func (s *Session) Valid() bool { return s.valid }

// Start marks the session active and records the current time as both
// its start time and its last-sample time. Start is repeatable: calling
// it again resets the clock.
func (s *Session) Start() error {
	if !s.valid {
		return ErrInvalidSession
	}
	now := s.clock()
	s.startTime = now
	s.lastSampleTime = now
	s.active = true
	return nil
}

// Stop marks the session inactive. Stop is idempotent.
func (s *Session) Stop() {
	s.active = false
}

// IsActive reports whether the session is active. If DurationMS has
// elapsed since Start, IsActive first transitions the session to
// inactive and then reports false -- duration expiry is checked lazily
// here and by Poll, never by an internal timer.
func (s *Session) IsActive() bool {
	if !s.active {
		return false
	}
	if s.durationMS > 0 {
		elapsed := s.clock().Sub(s.startTime)
		if elapsed >= time.Duration(s.durationMS)*time.Millisecond {
			s.active = false
			return false
		}
	}
	return true
}

// RegisterSource creates and attaches a source record to the session. It
// performs no I/O against ops; name discovery is deferred to the first
// sampling pass.
func (s *Session) RegisterSource(name string, sourceID uint16, ops SourceOps) (*Source, error) {
	if !s.valid {
		return nil, ErrInvalidSession
	}
	src, err := registerSource(s, name, sourceID, ops)
	if err != nil {
		return nil, err
	}
	s.sources = append(s.sources, src)
	return src, nil
}

// UnregisterSource marks src invalid. Its cached arrays and filter
// patterns are reclaimed when the session is freed. Unregistering a
// source while a sample is in flight is undefined; callers must
// serialize unregistration outside of Sample/Poll.
func (s *Session) UnregisterSource(src *Source) error {
	if src == nil {
		return fmt.Errorf("%w: source is nil", ErrInvalidArgument)
	}
	src.valid = false
	return nil
}

// RegisterSink creates and attaches a sink record to the session.
func (s *Session) RegisterSink(name string, ops SinkOps) (*Sink, error) {
	if !s.valid {
		return nil, ErrInvalidSession
	}
	sink, err := registerSink(s, name, ops)
	if err != nil {
		return nil, err
	}
	s.sinks = append(s.sinks, sink)
	return sink, nil
}

// UnregisterSink marks sink invalid. There is no guarantee the sink
// receives a final "drain" notification; it is simply skipped by the
// engine on every subsequent pass.
func (s *Session) UnregisterSink(sink *Sink) error {
	if sink == nil {
		return fmt.Errorf("%w: sink is nil", ErrInvalidArgument)
	}
	sink.valid = false
	return nil
}

// Free stops the session if active, releases its sources and sinks, and
// removes it from its registry. The Session value must not be used after
// Free returns.
func (s *Session) Free() {
	if s.active {
		s.Stop()
	}
	s.sources = nil
	s.sinks = nil
	s.valid = false
	if s.registry != nil {
		s.registry.remove(s)
	}
}
