// Copyright The xstats-sampler Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

func TestWatch_DetectsChangeAndStopsOnCancel(t *testing.T) {
	p := writeTempYAML(t, `
sessions:
  - name: "nic"
    interval_ms: 1000
`)

	changed := make(chan *Document, 1)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, p, 10*time.Millisecond, func(doc *Document) error {
			changed <- doc
			cancel()
			return nil
		})
	}()

	time.Sleep(10 * time.Millisecond)
	if err := os.WriteFile(p, []byte(`
sessions:
  - name: "nic"
    interval_ms: 2000
`), 0o600); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case doc := <-changed:
		if doc.Sessions[0].IntervalMS != 2000 {
			t.Errorf("reloaded IntervalMS = %d, want 2000", doc.Sessions[0].IntervalMS)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change callback")
	}

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch() error = %v, want nil on cancellation", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for Watch to return after cancel")
	}
}

func TestWatch_PropagatesCallbackError(t *testing.T) {
	p := writeTempYAML(t, `
sessions:
  - name: "nic"
    interval_ms: 1000
`)

	wantErr := errors.New("callback refused reload")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- Watch(ctx, p, 10*time.Millisecond, func(*Document) error {
			return wantErr
		})
	}()

	time.Sleep(10 * time.Millisecond)
	if err := os.WriteFile(p, []byte(`
sessions:
  - name: "nic"
    interval_ms: 3000
`), 0o600); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case err := <-errCh:
		if !errors.Is(err, wantErr) {
			t.Errorf("Watch() error = %v, want %v", err, wantErr)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for Watch to return the callback error")
	}
}

func TestWatch_MissingFileReturnsError(t *testing.T) {
	ctx := context.Background()
	err := Watch(ctx, "/nonexistent/path/cfg.yaml", time.Second, func(*Document) error { return nil })
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}
