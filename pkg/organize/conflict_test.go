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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveConflict(t *testing.T) {
	dir := t.TempDir()
	desired := filepath.Join(dir, "report.pdf")

	// Free name comes back untouched.
	got, conflicted, err := ResolveConflict(desired)
	require.NoError(t, err)
	assert.False(t, conflicted, "free name is not a conflict")
	assert.Equal(t, desired, got)

	// Occupied name gets " (1)".
	require.NoError(t, os.WriteFile(desired, []byte("x"), 0644))
	got, conflicted, err = ResolveConflict(desired)
	require.NoError(t, err)
	assert.True(t, conflicted, "occupied name is a conflict")
	assert.Equal(t, filepath.Join(dir, "report (1).pdf"), got)

	// " (1)" occupied too gets " (2)".
	require.NoError(t, os.WriteFile(got, []byte("x"), 0644))
	got, conflicted, err = ResolveConflict(desired)
	require.NoError(t, err)
	assert.True(t, conflicted)
	assert.Equal(t, filepath.Join(dir, "report (2).pdf"), got)
}

func TestResolveConflictDirectory(t *testing.T) {
	dir := t.TempDir()
	desired := filepath.Join(dir, "proj")
	require.NoError(t, os.Mkdir(desired, 0755))

	got, conflicted, err := ResolveConflict(desired)
	require.NoError(t, err)
	assert.True(t, conflicted)
	assert.Equal(t, filepath.Join(dir, "proj (1)"), got, "directories without extensions get a plain suffix")
}

func TestResolveConflictNameWithoutExtension(t *testing.T) {
	dir := t.TempDir()
	desired := filepath.Join(dir, "Makefile")
	require.NoError(t, os.WriteFile(desired, []byte("x"), 0644))

	got, conflicted, err := ResolveConflict(desired)
	require.NoError(t, err)
	assert.True(t, conflicted)
	assert.Equal(t, filepath.Join(dir, "Makefile (1)"), got)
}
