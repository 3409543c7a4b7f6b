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

// Package classify maps file names to categories and decides whether a
// directory counts as compressed.
package classify

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/jescholl/downsort/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Match is the result of classifying a file name
type Match struct {
	Category    string // Category name from the configuration
	Destination string // Destination directory name for the category
}

// 📇 Index maps lowercased extensions to categories. Built once from the
// configuration and read-only afterwards.
type Index struct {
	byExt map[string]Match
}

// 🏭 NewIndex builds the extension index from the configured categories.
// An extension claimed by two categories is a startup error, never a
// runtime tie-break.
func NewIndex(fileTypes map[string]config.Category) (*Index, error) {
	idx := &Index{byExt: make(map[string]Match)}

	// Sorted iteration keeps the reported pair stable across runs.
	names := make([]string, 0, len(fileTypes))
	for name := range fileTypes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cat := fileTypes[name]
		dest := cat.Destination
		if dest == "" {
			dest = name
		}
		for _, ext := range cat.Extensions {
			ext = config.NormalizeExtension(ext)
			if ext == "" {
				continue
			}
			if prev, ok := idx.byExt[ext]; ok && prev.Category != name {
				return nil, errors.Errorf("extension %q mapped to both %q and %q", ext, prev.Category, name)
			}
			idx.byExt[ext] = Match{Category: name, Destination: dest}
		}
	}

	return idx, nil
}

// 🔍 Lookup returns the category for a file name's extension. The extension
// is lowercased before lookup so "A.PDF" and "a.pdf" classify identically.
// ok is false for files with no extension or no matching category.
func (idx *Index) Lookup(name string) (Match, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return Match{}, false
	}
	m, ok := idx.byExt[ext]
	return m, ok
}

// Len returns the number of indexed extensions.
func (idx *Index) Len() int {
	return len(idx.byExt)
}
