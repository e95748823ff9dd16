package config

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestWatcher_InvokesCallbackOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Server.xml")
	if err := os.WriteFile(path, []byte("<Server/>"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	changed := make(chan struct{}, 1)
	w := NewWatcher(zerolog.Nop(), 50*time.Millisecond)
	go func() {
		_ = w.Watch(ctx, path, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	// Give the watcher a moment to register before modifying the file.
	time.Sleep(200 * time.Millisecond)
	if err := os.WriteFile(path, []byte("<Server><Name>x</Name></Server>"), 0644); err != nil {
		t.Fatalf("failed to modify config file: %v", err)
	}

	select {
	case <-changed:
	case <-ctx.Done():
		t.Fatal("watcher did not report the change in time")
	}
}

func TestWatcher_DebounceCoalescesBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Server.xml")
	if err := os.WriteFile(path, []byte("<Server/>"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var calls atomic.Int32
	w := NewWatcher(zerolog.Nop(), 200*time.Millisecond)
	go func() {
		_ = w.Watch(ctx, path, func() {
			calls.Add(1)
		})
	}()

	time.Sleep(200 * time.Millisecond)
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("<Server><Name>x</Name></Server>"), 0644); err != nil {
			t.Fatalf("failed to modify config file: %v", err)
		}
		time.Sleep(30 * time.Millisecond)
	}

	// Wait until well past the debounce window of the last write.
	time.Sleep(800 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("got %d callbacks for a burst of writes, want 1", got)
	}
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Server.xml")
	if err := os.WriteFile(path, []byte("<Server/>"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	changed := make(chan struct{}, 1)
	w := NewWatcher(zerolog.Nop(), 50*time.Millisecond)
	go func() {
		_ = w.Watch(ctx, path, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	time.Sleep(200 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "other.xml"), []byte("<x/>"), 0644); err != nil {
		t.Fatalf("failed to write sibling file: %v", err)
	}

	select {
	case <-changed:
		t.Fatal("watcher reported a change for an unrelated file")
	case <-ctx.Done():
	}
}
