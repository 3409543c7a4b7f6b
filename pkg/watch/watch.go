// Copyright 2026 Joel Scholl
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package watch organizes files in real time as they appear in the source
// directory. Events only feed the single organizer loop; the one-entry-at-a-
// time model of a normal pass is preserved.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jescholl/downsort/pkg/organize"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// defaultSettleDelay is how long a file must sit unchanged before it is
// organized, so partially written downloads are not moved mid-transfer.
const defaultSettleDelay = 2 * time.Second

// tempExtensions are in-progress download artifacts browsers produce;
// they are renamed to their final name when the download completes.
var tempExtensions = map[string]struct{}{
	".tmp":        {},
	".temp":       {},
	".crdownload": {},
	".part":       {},
	".partial":    {},
	".download":   {},
}

// 👀 Watcher feeds newly settled files to the organizer
type Watcher struct {
	org    *organize.Organizer
	stats  *organize.Stats
	settle time.Duration
}

// 🏭 New creates a watcher over the organizer's source directory.
// settle <= 0 uses the default settle delay.
func New(org *organize.Organizer, settle time.Duration) *Watcher {
	if settle <= 0 {
		settle = defaultSettleDelay
	}
	return &Watcher{
		org:    org,
		stats:  organize.NewStats(),
		settle: settle,
	}
}

// 📊 Stats returns the cumulative statistics across all handled events.
func (w *Watcher) Stats() *organize.Stats {
	return w.stats
}

// 🏃 Run watches the source directory until the context is cancelled.
// Create and Write events mark a file pending; a pending file untouched for
// the settle delay is classified and moved like any entry of a normal pass.
func (w *Watcher) Run(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Errorf("creating filesystem watcher: %w", err)
	}
	defer fw.Close()

	src := w.org.SourceDirectory()
	if err := fw.Add(src); err != nil {
		return errors.Errorf("watching %s: %w", src, err)
	}

	logger.Info().Str("source", src).Dur("settle", w.settle).Msg("watching for new downloads")

	ticker := time.NewTicker(w.settle / 2)
	defer ticker.Stop()

	pending := make(map[string]time.Time)

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("stopping watcher")
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event, pending)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Error().Err(err).Msg("watcher error")

		case now := <-ticker.C:
			w.flush(ctx, pending, now)
		}
	}
}

// handleEvent marks a file pending, or refreshes its pending time so the
// settle clock restarts on every write. Chmod is a no-op: download managers
// often fix permissions after the final write, and that must not cancel the
// pending entry.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event, pending map[string]time.Time) {
	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		delete(pending, event.Name)
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}

	name := filepath.Base(event.Name)
	if IsTemporary(name) {
		zerolog.Ctx(ctx).Debug().Str("name", name).Msg("ignoring temporary download file")
		return
	}

	info, err := os.Lstat(event.Name)
	if err != nil || info.IsDir() {
		return
	}

	pending[event.Name] = time.Now()
}

// flush organizes every pending file that has settled.
func (w *Watcher) flush(ctx context.Context, pending map[string]time.Time, now time.Time) {
	for path, seen := range pending {
		if now.Sub(seen) < w.settle {
			continue
		}
		delete(pending, path)

		zerolog.Ctx(ctx).Info().Str("name", filepath.Base(path)).Msg("new download detected")
		w.org.OrganizeFile(ctx, path, w.stats)
	}
}

// 🔍 IsTemporary reports whether a file name looks like an in-progress
// download: a known temporary extension, a hidden name, or an editor
// backup ("~" suffix).
func IsTemporary(name string) bool {
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~") {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	_, ok := tempExtensions[ext]
	return ok
}
