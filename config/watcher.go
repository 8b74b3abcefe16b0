// Copyright The xstats-sampler Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"time"
)

// Watch polls path's content hash every interval and calls fn with the
// freshly parsed Document whenever the content changes. It blocks until
// ctx is canceled, fn returns an error, or the file can no longer be
// read or parsed, and returns that error (nil on clean cancellation).
//
// Watch does not reconcile the change against any live *sampler.Session:
// adapter identities (SourceOps/SinkOps) cannot be invented from a
// reload, so it is fn's job to decide what's safe to re-apply -- in
// practice, filter patterns via SetFilter/ClearFilter, never a blind
// re-Apply. A live session's interval and duration cannot be changed
// after creation. This also keeps the file from performing any
// mutation on the caller's behalf, honoring the single-owner-thread
// discipline the sampler's core types require.
func Watch(ctx context.Context, path string, interval time.Duration, fn func(*Document) error) error {
	hash, err := hashFile(path)
	if err != nil {
		return fmt.Errorf("config: read initial %s: %w", path, err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			next, err := hashFile(path)
			if err != nil {
				return fmt.Errorf("config: rehash %s: %w", path, err)
			}
			if next == hash {
				continue
			}
			hash = next

			doc, err := Load(path)
			if err != nil {
				return fmt.Errorf("config: reload %s: %w", path, err)
			}
			if err := fn(doc); err != nil {
				return err
			}
		}
	}
}

func hashFile(path string) ([32]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return [32]byte{}, err
	}
	return sha256.Sum256(data), nil
}
