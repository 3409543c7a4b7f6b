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

package organize_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jescholl/downsort/pkg/classify"
	"github.com/jescholl/downsort/pkg/config"
	"github.com/jescholl/downsort/pkg/organize"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

// 🧪 newTestEnv creates a source/destination pair and a minimal config
// mapping .pdf to PDF and .jpg to Images.
func newTestEnv(t *testing.T) (context.Context, *config.Config) {
	t.Helper()
	tmp := t.TempDir()

	cfg := config.Default()
	cfg.SourceDirectory = filepath.Join(tmp, "downloads")
	cfg.BaseDestination = filepath.Join(tmp, "storage")
	cfg.FileTypes = map[string]config.Category{
		"documents": {Extensions: []string{".pdf"}, Destination: "PDF"},
		"images":    {Extensions: []string{".jpg"}, Destination: "Images"},
	}
	require.NoError(t, os.MkdirAll(cfg.SourceDirectory, 0755))

	logger := zerolog.New(zerolog.NewTestWriter(t))
	ctx := logger.WithContext(context.Background())
	require.NoError(t, cfg.Validate(ctx))

	return ctx, cfg
}

func newOrganizer(t *testing.T, cfg *config.Config, opts organize.Options) *organize.Organizer {
	t.Helper()
	index, err := classify.NewIndex(cfg.FileTypes)
	require.NoError(t, err)
	opts.Config = cfg
	opts.Index = index
	org, err := organize.New(opts)
	require.NoError(t, err)
	return org
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func TestRunClassifiesAndMoves(t *testing.T) {
	ctx, cfg := newTestEnv(t)

	touch(t, filepath.Join(cfg.SourceDirectory, "doc.pdf"))
	touch(t, filepath.Join(cfg.SourceDirectory, "photo.JPG"))
	touch(t, filepath.Join(cfg.SourceDirectory, "notes.txt"))
	touch(t, filepath.Join(cfg.SourceDirectory, "proj", "readme.md"))

	org := newOrganizer(t, cfg, organize.Options{})
	stats, err := org.Run(ctx)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(cfg.BaseDestination, "PDF", "doc.pdf"))
	assert.FileExists(t, filepath.Join(cfg.BaseDestination, "Images", "photo.JPG"), "case-insensitive match keeps the original name")
	assert.FileExists(t, filepath.Join(cfg.BaseDestination, "Other", "notes.txt"), "unconfigured extension goes to the fallback")
	assert.FileExists(t, filepath.Join(cfg.SourceDirectory, "proj", "readme.md"), "folders stay untouched when folder mode is off")

	assert.Equal(t, 3, stats.FilesMoved)
	assert.Equal(t, 0, stats.FoldersMoved)
	assert.Equal(t, 0, stats.Errors)
	assert.Equal(t, map[string]int{"documents": 1, "images": 1, "other": 1}, stats.Categories)
}

func TestRunResolvesConflicts(t *testing.T) {
	ctx, cfg := newTestEnv(t)

	touch(t, filepath.Join(cfg.BaseDestination, "PDF", "doc.pdf"))
	touch(t, filepath.Join(cfg.SourceDirectory, "doc.pdf"))

	org := newOrganizer(t, cfg, organize.Options{})
	stats, err := org.Run(ctx)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(cfg.BaseDestination, "PDF", "doc (1).pdf"))
	assert.Equal(t, 1, stats.FilesMoved)
	assert.Equal(t, 1, stats.ConflictsResolved)
}

func TestRunOrganizesFolders(t *testing.T) {
	ctx, cfg := newTestEnv(t)

	touch(t, filepath.Join(cfg.SourceDirectory, "bundle", "data.zip"))
	touch(t, filepath.Join(cfg.SourceDirectory, "plain", "readme.md"))
	// An archive buried two levels down does not make the folder compressed.
	touch(t, filepath.Join(cfg.SourceDirectory, "deep", "a", "archive.zip"))

	org := newOrganizer(t, cfg, organize.Options{IncludeFolders: true})
	stats, err := org.Run(ctx)
	require.NoError(t, err)

	assert.DirExists(t, filepath.Join(cfg.BaseDestination, "Compressed Folders", "bundle"))
	assert.DirExists(t, filepath.Join(cfg.BaseDestination, "Folders", "plain"))
	assert.DirExists(t, filepath.Join(cfg.BaseDestination, "Folders", "deep"), "shallow scan must not see nested archives")
	assert.Equal(t, 3, stats.FoldersMoved)
	assert.Equal(t, 0, stats.Errors)
}

func TestRunSkipsHiddenFiles(t *testing.T) {
	ctx, cfg := newTestEnv(t)

	touch(t, filepath.Join(cfg.SourceDirectory, ".hidden.pdf"))
	touch(t, filepath.Join(cfg.SourceDirectory, "doc.pdf"))

	org := newOrganizer(t, cfg, organize.Options{})
	stats, err := org.Run(ctx)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(cfg.SourceDirectory, ".hidden.pdf"), "hidden file stays put")
	assert.Equal(t, 1, stats.FilesMoved)
	assert.Equal(t, 1, stats.Skipped)
}

func TestRunMovesHiddenFilesWhenSkippingDisabled(t *testing.T) {
	ctx, cfg := newTestEnv(t)
	cfg.Settings.SkipHiddenFiles = false

	touch(t, filepath.Join(cfg.SourceDirectory, ".hidden.pdf"))

	org := newOrganizer(t, cfg, organize.Options{})
	stats, err := org.Run(ctx)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(cfg.BaseDestination, "PDF", ".hidden.pdf"))
	assert.Equal(t, 1, stats.FilesMoved)
	assert.Equal(t, 0, stats.Skipped)
}

func TestRunIgnorePatterns(t *testing.T) {
	ctx, cfg := newTestEnv(t)
	cfg.Settings.IgnorePatterns = []string{"*.part"}

	touch(t, filepath.Join(cfg.SourceDirectory, "movie.part"))
	touch(t, filepath.Join(cfg.SourceDirectory, "doc.pdf"))

	org := newOrganizer(t, cfg, organize.Options{})
	stats, err := org.Run(ctx)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(cfg.SourceDirectory, "movie.part"), "ignored entry stays put")
	assert.Equal(t, 1, stats.FilesMoved)
	assert.Equal(t, 1, stats.Skipped)
}

func TestRunUntouchedFolderNotCountedAsSkipped(t *testing.T) {
	ctx, cfg := newTestEnv(t)
	cfg.Settings.IgnorePatterns = []string{"build*"}

	// With folder organization off, a directory contributes to no statistic
	// even when it matches an ignore pattern.
	touch(t, filepath.Join(cfg.SourceDirectory, "build", "out.bin"))
	touch(t, filepath.Join(cfg.SourceDirectory, "doc.pdf"))

	org := newOrganizer(t, cfg, organize.Options{})
	stats, err := org.Run(ctx)
	require.NoError(t, err)

	assert.DirExists(t, filepath.Join(cfg.SourceDirectory, "build"), "folder stays put with folder mode off")
	assert.Equal(t, 1, stats.FilesMoved)
	assert.Equal(t, 0, stats.Skipped)
}

func TestRunDryRunMutatesNothing(t *testing.T) {
	ctx, cfg := newTestEnv(t)

	touch(t, filepath.Join(cfg.SourceDirectory, "doc.pdf"))
	touch(t, filepath.Join(cfg.SourceDirectory, "photo.JPG"))
	touch(t, filepath.Join(cfg.SourceDirectory, "notes.txt"))

	before, err := os.ReadDir(cfg.SourceDirectory)
	require.NoError(t, err)

	dry := newOrganizer(t, cfg, organize.Options{DryRun: true})
	dryStats, err := dry.Run(ctx)
	require.NoError(t, err)

	after, err := os.ReadDir(cfg.SourceDirectory)
	require.NoError(t, err)
	require.Len(t, after, len(before), "dry run must not change the source entry set")
	for i := range before {
		assert.Equal(t, before[i].Name(), after[i].Name())
	}
	assert.NoDirExists(t, cfg.BaseDestination, "dry run must not create destinations")

	// A real pass over the same tree produces the same counts.
	live := newOrganizer(t, cfg, organize.Options{})
	liveStats, err := live.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, liveStats, dryStats, "dry-run statistics should match the real run")
}

func TestRunContinuesPastFailingEntries(t *testing.T) {
	ctx, cfg := newTestEnv(t)
	cfg.Settings.HandleConflicts = false

	// doc.pdf will collide with an existing destination and fail; photo.JPG
	// must still be processed.
	touch(t, filepath.Join(cfg.BaseDestination, "PDF", "doc.pdf"))
	touch(t, filepath.Join(cfg.SourceDirectory, "doc.pdf"))
	touch(t, filepath.Join(cfg.SourceDirectory, "photo.JPG"))

	org := newOrganizer(t, cfg, organize.Options{})
	stats, err := org.Run(ctx)
	require.NoError(t, err, "per-entry failures never abort the pass")

	assert.Equal(t, 1, stats.Errors)
	assert.Equal(t, 1, stats.FilesMoved)
	assert.FileExists(t, filepath.Join(cfg.BaseDestination, "Images", "photo.JPG"))
	assert.FileExists(t, filepath.Join(cfg.SourceDirectory, "doc.pdf"), "failed entry stays in the source")
}

func TestRunSourceMissing(t *testing.T) {
	ctx, cfg := newTestEnv(t)
	require.NoError(t, os.Remove(cfg.SourceDirectory))

	org := newOrganizer(t, cfg, organize.Options{})
	_, err := org.Run(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, organize.ErrSourceNotFound), "missing source is fatal, got %v", err)
}

func TestOrganizeFile(t *testing.T) {
	ctx, cfg := newTestEnv(t)

	path := filepath.Join(cfg.SourceDirectory, "doc.pdf")
	touch(t, path)

	org := newOrganizer(t, cfg, organize.Options{})
	stats := organize.NewStats()
	org.OrganizeFile(ctx, path, stats)

	assert.FileExists(t, filepath.Join(cfg.BaseDestination, "PDF", "doc.pdf"))
	assert.Equal(t, 1, stats.FilesMoved)

	// A vanished path is quietly ignored; watch mode sees plenty of those.
	org.OrganizeFile(ctx, filepath.Join(cfg.SourceDirectory, "gone.pdf"), stats)
	assert.Equal(t, 0, stats.Errors)
}
