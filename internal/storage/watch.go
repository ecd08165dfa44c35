// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce coalesces the burst of events one atomic write
// produces.
const DefaultWatchDebounce = 150 * time.Millisecond

// Watch calls fn with the key of every value file changed by another
// process (or this one) until ctx is done. Events for the same key within
// debounce are reported once. fn runs on the caller's goroutine, one call
// at a time, and never after Watch returns. Watch blocks; it returns nil
// when ctx is cancelled.
func (f *FileBackend) Watch(ctx context.Context, debounce time.Duration, fn func(key string)) error {
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(f.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", f.dir, err)
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]*time.Timer)
		ready   = make(chan string)
		stop    = make(chan struct{})
	)
	defer func() {
		close(stop)
		mu.Lock()
		for _, t := range pending {
			t.Stop()
		}
		mu.Unlock()
	}()

	// Timers only hand the key to the loop below.
	schedule := func(key string) {
		mu.Lock()
		defer mu.Unlock()
		if t, ok := pending[key]; ok {
			t.Reset(debounce)
			return
		}
		pending[key] = time.AfterFunc(debounce, func() {
			mu.Lock()
			delete(pending, key)
			mu.Unlock()
			select {
			case ready <- key:
			case <-stop:
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case key := <-ready:
			if ctx.Err() != nil {
				return nil
			}
			fn(key)

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if key, ok := keyFromPath(event.Name); ok {
				schedule(key)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch error: %w", err)
		}
	}
}

// keyFromPath maps a value file path back to its key, ignoring temp files.
func keyFromPath(path string) (string, bool) {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || !strings.HasSuffix(base, FileExt) {
		return "", false
	}
	key := strings.TrimSuffix(base, FileExt)
	if ValidateKey(key) != nil {
		return "", false
	}
	return key, true
}
