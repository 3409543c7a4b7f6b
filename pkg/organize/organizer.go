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

// Package organize moves the entries of a source directory into category
// destinations. One pass, one entry at a time; per-entry failures are
// recorded and never abort the pass.
package organize

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/jescholl/downsort/pkg/classify"
	"github.com/jescholl/downsort/pkg/config"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Options contains the collaborators for an Organizer
type Options struct {
	// Config is the validated run configuration
	Config *config.Config
	// Index is the extension classifier
	Index *classify.Index
	// Detector decides whether folders count as compressed
	Detector *classify.Detector
	// Reporter receives user-facing per-entry notifications (optional)
	Reporter Reporter
	// IncludeFolders enables the folder-organization pass
	IncludeFolders bool
	// DryRun previews actions without mutating the filesystem; also enabled
	// by the configuration's settings
	DryRun bool
}

// 🏭 New creates an organizer with the given options
func New(opts Options) (*Organizer, error) {
	if opts.Config == nil {
		return nil, errors.Errorf("config is required")
	}
	if opts.Index == nil {
		return nil, errors.Errorf("classifier index is required")
	}
	if opts.Detector == nil {
		opts.Detector = classify.NewDetector(opts.Config.Folders.CompressedExtensions)
	}
	if opts.Reporter == nil {
		opts.Reporter = NopReporter{}
	}

	dryRun := opts.DryRun || opts.Config.Settings.DryRun

	return &Organizer{
		cfg:            opts.Config,
		index:          opts.Index,
		detector:       opts.Detector,
		reporter:       opts.Reporter,
		includeFolders: opts.IncludeFolders,
		dryRun:         dryRun,
		mover: &Mover{
			CreateDirs:      opts.Config.Settings.CreateDirectories,
			HandleConflicts: opts.Config.Settings.HandleConflicts,
			DryRun:          dryRun,
		},
	}, nil
}

// 🎮 Organizer drives one pass over the source directory
type Organizer struct {
	cfg            *config.Config
	index          *classify.Index
	detector       *classify.Detector
	reporter       Reporter
	mover          *Mover
	includeFolders bool
	dryRun         bool
}

// DryRun reports whether this organizer only previews actions.
func (o *Organizer) DryRun() bool {
	return o.dryRun
}

// SourceDirectory returns the directory this organizer watches over.
func (o *Organizer) SourceDirectory() string {
	return o.cfg.SourceDirectory
}

// 🏃 Run enumerates the source directory's immediate children exactly once
// and processes each in turn. A missing or unreadable source is the only
// fatal condition; everything else lands in the returned statistics.
func (o *Organizer) Run(ctx context.Context) (*Stats, error) {
	logger := zerolog.Ctx(ctx)

	entries, err := os.ReadDir(o.cfg.SourceDirectory)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Errorf("%w: %s", ErrSourceNotFound, o.cfg.SourceDirectory)
		}
		return nil, errors.Errorf("%w: reading %s: %w", ErrSourceNotFound, o.cfg.SourceDirectory, err)
	}

	logger.Info().
		Str("source", o.cfg.SourceDirectory).
		Int("entries", len(entries)).
		Bool("dry_run", o.dryRun).
		Msg("starting organization pass")

	stats := NewStats()
	for _, entry := range entries {
		o.processEntry(ctx, entry.Name(), entry.IsDir(), stats)
	}

	logger.Info().
		Int("files_moved", stats.FilesMoved).
		Int("folders_moved", stats.FoldersMoved).
		Int("errors", stats.Errors).
		Msg("organization pass completed")

	return stats, nil
}

// 📄 OrganizeFile classifies and moves a single file from the source
// directory, used by watch mode for entries as they appear. The path must
// name a file directly inside the source directory.
func (o *Organizer) OrganizeFile(ctx context.Context, path string, stats *Stats) {
	info, err := os.Lstat(path)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Str("path", path).Err(err).Msg("entry vanished before processing")
		return
	}
	o.processEntry(ctx, filepath.Base(path), info.IsDir(), stats)
}

// processEntry handles one immediate child of the source directory. Every
// outcome ends in stats; nothing here aborts the pass.
func (o *Organizer) processEntry(ctx context.Context, name string, isDir bool, stats *Stats) {
	logger := zerolog.Ctx(ctx)

	// With folder organization off, directories are left entirely alone and
	// never counted, even when an ignore pattern or hidden check would
	// otherwise apply.
	if isDir && !o.includeFolders {
		logger.Debug().Str("name", name).Msg("folder organization disabled, leaving untouched")
		return
	}

	if o.matchesIgnorePattern(ctx, name) {
		stats.Skipped++
		o.reporter.Skipped(name, "ignored by pattern")
		return
	}

	if strings.HasPrefix(name, ".") && o.cfg.Settings.SkipHiddenFiles {
		logger.Debug().Str("name", name).Msg("skipping hidden entry")
		stats.Skipped++
		o.reporter.Skipped(name, "hidden")
		return
	}

	path := filepath.Join(o.cfg.SourceDirectory, name)
	if isDir {
		o.processFolder(ctx, name, path, stats)
		return
	}
	o.processFile(ctx, name, path, stats)
}

func (o *Organizer) processFile(ctx context.Context, name, path string, stats *Stats) {
	match, ok := o.index.Lookup(name)
	category := "other"
	destName := o.cfg.OtherDestination
	if ok {
		category = match.Category
		destName = match.Destination
	} else {
		zerolog.Ctx(ctx).Debug().Str("name", name).Msg("no category matched, using fallback destination")
	}

	destDir := filepath.Join(o.cfg.BaseDestination, destName)
	res, err := o.mover.Move(ctx, path, destDir)
	if err != nil {
		o.recordError(ctx, name, err, stats)
		return
	}

	stats.FilesMoved++
	stats.Categories[category]++
	if res.Conflicted {
		stats.ConflictsResolved++
	}
	o.reporter.Moved(KindFile, name, res.Dest, res.Conflicted, o.dryRun)
}

func (o *Organizer) processFolder(ctx context.Context, name, path string, stats *Stats) {
	compressed, err := o.detector.IsCompressed(path)
	if err != nil {
		o.recordError(ctx, name, err, stats)
		return
	}

	destName := o.cfg.Folders.RegularDestination
	if compressed {
		destName = o.cfg.Folders.CompressedDestination
	}

	destDir := filepath.Join(o.cfg.BaseDestination, destName)
	res, err := o.mover.Move(ctx, path, destDir)
	if err != nil {
		o.recordError(ctx, name, err, stats)
		return
	}

	stats.FoldersMoved++
	if res.Conflicted {
		stats.ConflictsResolved++
	}
	o.reporter.Moved(KindFolder, name, res.Dest, res.Conflicted, o.dryRun)
}

func (o *Organizer) recordError(ctx context.Context, name string, err error, stats *Stats) {
	zerolog.Ctx(ctx).Error().Str("name", name).Err(err).Msg("entry failed")
	stats.Errors++
	o.reporter.Failed(name, err)
}

func (o *Organizer) matchesIgnorePattern(ctx context.Context, name string) bool {
	for _, pattern := range o.cfg.Settings.IgnorePatterns {
		matched, err := doublestar.Match(pattern, name)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Str("pattern", pattern).Str("name", name).Err(err).Msg("error matching pattern")
			continue
		}
		if matched {
			zerolog.Ctx(ctx).Debug().Str("name", name).Str("pattern", pattern).Msg("entry ignored by pattern")
			return true
		}
	}
	return false
}
