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

package organize

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrSourceNotFound means the source directory is missing or unreadable.
	ErrSourceNotFound = errors.New("source directory not found")

	// ErrDestinationExists means the destination path appeared between the
	// conflict check and the rename. Recorded per entry, never retried.
	ErrDestinationExists = errors.New("destination already exists")

	// ErrTooManyConflicts means the conflict resolver hit its iteration cap.
	ErrTooManyConflicts = errors.New("too many name conflicts")
)

// 🚚 Mover relocates a single filesystem entry into a destination directory
type Mover struct {
	CreateDirs      bool // Create the destination directory if absent
	HandleConflicts bool // Resolve name collisions with a numeric suffix
	DryRun          bool // Compute everything, mutate nothing
}

// 📦 MoveResult describes one completed (or previewed) relocation
type MoveResult struct {
	Dest       string // Resolved destination path
	Conflicted bool   // Whether a numeric suffix was needed
}

// 🏃 Move relocates source into destDir. The relocation is a single rename;
// only when the destination is on a different device does it fall back to
// copy-then-remove, which is not atomic. A destination that appears between
// the conflict check and the rename surfaces as ErrDestinationExists.
func (m *Mover) Move(ctx context.Context, source, destDir string) (MoveResult, error) {
	logger := zerolog.Ctx(ctx)

	if m.CreateDirs {
		if !m.DryRun {
			if err := os.MkdirAll(destDir, 0755); err != nil {
				return MoveResult{}, errors.Errorf("creating destination directory: %w", err)
			}
		}
	} else {
		info, err := os.Stat(destDir)
		if err != nil {
			return MoveResult{}, errors.Errorf("destination directory unavailable: %w", err)
		}
		if !info.IsDir() {
			return MoveResult{}, errors.Errorf("destination %s is not a directory", destDir)
		}
	}

	dest := filepath.Join(destDir, filepath.Base(source))
	conflicted := false
	if m.HandleConflicts {
		var err error
		dest, conflicted, err = ResolveConflict(dest)
		if err != nil {
			return MoveResult{}, err
		}
	}

	// Without conflict resolution an occupied destination is an error, and a
	// dry run must classify it the same way a live run would.
	if !m.HandleConflicts {
		if exists, err := pathExists(dest); err != nil {
			return MoveResult{}, err
		} else if exists {
			return MoveResult{}, errors.Errorf("moving %s: %w", source, ErrDestinationExists)
		}
	}

	if m.DryRun {
		logger.Info().Str("source", source).Str("dest", dest).Msg("dry run, would move")
		return MoveResult{Dest: dest, Conflicted: conflicted}, nil
	}

	// os.Rename silently replaces an existing file, so re-check right before
	// moving. The remaining window is the documented race.
	if exists, err := pathExists(dest); err != nil {
		return MoveResult{}, err
	} else if exists {
		return MoveResult{}, errors.Errorf("moving %s: %w", source, ErrDestinationExists)
	}

	logger.Info().Str("source", source).Str("dest", dest).Msg("moving")

	if err := os.Rename(source, dest); err != nil {
		if isCrossDevice(err) {
			logger.Debug().Str("source", source).Msg("cross-device move, copying then removing")
			if err := moveCrossDevice(source, dest); err != nil {
				return MoveResult{}, err
			}
			return MoveResult{Dest: dest, Conflicted: conflicted}, nil
		}
		if os.IsExist(err) || errors.Is(err, syscall.ENOTEMPTY) {
			return MoveResult{}, errors.Errorf("moving %s: %w", source, ErrDestinationExists)
		}
		return MoveResult{}, errors.Errorf("moving %s: %w", source, err)
	}

	return MoveResult{Dest: dest, Conflicted: conflicted}, nil
}

func isCrossDevice(err error) bool {
	return errors.Is(err, syscall.EXDEV)
}

// moveCrossDevice copies source to dest then removes source. Used only when
// rename fails with EXDEV; not atomic.
func moveCrossDevice(source, dest string) error {
	info, err := os.Lstat(source)
	if err != nil {
		return errors.Errorf("inspecting source: %w", err)
	}

	if info.IsDir() {
		if err := copyTree(source, dest); err != nil {
			return err
		}
	} else {
		if err := copyEntry(source, dest, info); err != nil {
			return err
		}
	}

	if err := os.RemoveAll(source); err != nil {
		return errors.Errorf("removing source after copy: %w", err)
	}
	return nil
}

func copyTree(source, dest string) error {
	return filepath.Walk(source, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return errors.Errorf("walking %s: %w", path, err)
		}
		rel, err := filepath.Rel(source, path)
		if err != nil {
			return errors.Errorf("relativizing %s: %w", path, err)
		}
		target := filepath.Join(dest, rel)
		if info.IsDir() {
			if err := os.MkdirAll(target, info.Mode().Perm()); err != nil {
				return errors.Errorf("creating directory %s: %w", target, err)
			}
			return nil
		}
		return copyEntry(path, target, info)
	})
}

func copyEntry(source, dest string, info os.FileInfo) error {
	if info.Mode()&os.ModeSymlink != 0 {
		link, err := os.Readlink(source)
		if err != nil {
			return errors.Errorf("reading symlink %s: %w", source, err)
		}
		if err := os.Symlink(link, dest); err != nil {
			return errors.Errorf("recreating symlink %s: %w", dest, err)
		}
		return nil
	}

	src, err := os.Open(source)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer src.Close()

	dst, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return errors.Errorf("creating destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return errors.Errorf("copying file content: %w", err)
	}

	return nil
}
