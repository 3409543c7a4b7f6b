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

import "sort"

// 📊 Stats tracks the outcome counters for one run. One instance per
// invocation, mutated sequentially, never persisted.
type Stats struct {
	FilesMoved        int
	FoldersMoved      int
	ConflictsResolved int
	Skipped           int
	Errors            int
	Categories        map[string]int // category name -> files moved into it
}

// 🏭 NewStats creates an empty statistics instance.
func NewStats() *Stats {
	return &Stats{Categories: make(map[string]int)}
}

// CategoryNames returns the tracked category names in sorted order, for
// stable summary output.
func (s *Stats) CategoryNames() []string {
	names := make([]string, 0, len(s.Categories))
	for name := range s.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
