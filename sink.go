// Copyright The xstats-sampler Authors
// SPDX-License-Identifier: Apache-2.0

package sampler

import "fmt"

// Sink is a registered sink record: a sink-ops handle bound to one owning
// session.
type Sink struct {
	session *Session
	name    string
	ops     SinkOps
	valid   bool
}

// Name returns the sink's display name.
func (k *Sink) Name() string { return k.name }

// Valid reports whether the sink is still registered.
func (k *Sink) Valid() bool { return k.valid }

func registerSink(session *Session, name string, ops SinkOps) (*Sink, error) {
	if ops == nil {
		return nil, fmt.Errorf("%w: sink ops is nil", ErrInvalidArgument)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: sink name is empty", ErrInvalidArgument)
	}
	if err := StatName(name).Validate(); err != nil {
		return nil, err
	}

	return &Sink{
		session: session,
		name:    name,
		ops:     ops,
		valid:   true,
	}, nil
}
