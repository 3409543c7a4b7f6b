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

package classify

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jescholl/downsort/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// 📦 Detector decides whether a directory counts as compressed
type Detector struct {
	exts map[string]struct{}
}

// 🏭 NewDetector builds a detector for the given archive extensions.
func NewDetector(archiveExts []string) *Detector {
	exts := make(map[string]struct{}, len(archiveExts))
	for _, ext := range archiveExts {
		ext = config.NormalizeExtension(ext)
		if ext != "" {
			exts[ext] = struct{}{}
		}
	}
	return &Detector{exts: exts}
}

// 🔍 IsCompressed reports whether the directory at path is a compressed
// folder: its own name carries an archive extension, or any entry directly
// inside it does. The scan never descends into subdirectories; descending
// into large trees is prohibitively slow and irrelevant to the decision.
// An unreadable directory is an error for the caller, not a silent false.
func (d *Detector) IsCompressed(path string) (bool, error) {
	if d.hasArchiveExt(filepath.Base(path)) {
		return true, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return false, errors.Errorf("reading directory %s: %w", path, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if d.hasArchiveExt(entry.Name()) {
			return true, nil
		}
	}

	return false, nil
}

func (d *Detector) hasArchiveExt(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}
	_, ok := d.exts[ext]
	return ok
}
