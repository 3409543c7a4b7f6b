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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// maxConflictAttempts bounds the suffix search so a pathological destination
// cannot loop forever.
const maxConflictAttempts = 10000

// 🔢 ResolveConflict returns a destination path that did not exist at check
// time, inserting " (1)", " (2)", … before the extension until a free name
// is found. conflicted reports whether the desired name was taken.
//
// The result is advisory only: the existence check and the subsequent move
// are separate steps, and another process may claim the path in between.
// Callers handle that as ErrDestinationExists from the move itself.
func ResolveConflict(desired string) (path string, conflicted bool, err error) {
	exists, err := pathExists(desired)
	if err != nil {
		return "", false, err
	}
	if !exists {
		return desired, false, nil
	}

	ext := filepath.Ext(desired)
	base := strings.TrimSuffix(desired, ext)

	for i := 1; i <= maxConflictAttempts; i++ {
		candidate := fmt.Sprintf("%s (%d)%s", base, i, ext)
		exists, err := pathExists(candidate)
		if err != nil {
			return "", false, err
		}
		if !exists {
			return candidate, true, nil
		}
	}

	return "", false, errors.Errorf("resolving name for %s: %w", desired, ErrTooManyConflicts)
}

func pathExists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Errorf("checking path existence: %w", err)
}
