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

// Package report renders user-facing move lines and the end-of-run summary.
// Structured logging stays with zerolog; this is the pretty console side.
package report

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/jescholl/downsort/pkg/organize"
	"github.com/pterm/pterm"
)

// 📢 Logger prints per-entry feedback and the summary block
type Logger struct {
	out io.Writer
	mu  sync.Mutex

	moved   *pterm.PrefixPrinter
	preview *pterm.PrefixPrinter
	skipped *pterm.PrefixPrinter
	failed  *pterm.PrefixPrinter
}

// 🎯 New creates a report logger writing to out
func New(out io.Writer) *Logger {
	return &Logger{
		out:     out,
		moved:   pterm.Success.WithPrefix(pterm.Prefix{Text: "✓", Style: pterm.Success.Prefix.Style}).WithWriter(out),
		preview: pterm.Info.WithPrefix(pterm.Prefix{Text: "→", Style: pterm.Info.Prefix.Style}).WithWriter(out),
		skipped: pterm.Info.WithPrefix(pterm.Prefix{Text: "-", Style: pterm.Info.Prefix.Style}).WithWriter(out),
		failed:  pterm.Error.WithPrefix(pterm.Prefix{Text: "✗", Style: pterm.Error.Prefix.Style}).WithWriter(out),
	}
}

// 📝 Moved reports one completed (or previewed) move
func (l *Logger) Moved(kind organize.EntryKind, name, dest string, conflicted, dryRun bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := FormatMove(kind, name, dest, conflicted, dryRun)
	if dryRun {
		l.preview.Println(msg)
		return
	}
	l.moved.Println(msg)
}

// 📝 Skipped reports an entry that was left alone
func (l *Logger) Skipped(name, reason string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.skipped.Println(FormatSkip(name, reason))
}

// 📝 Failed reports a per-entry error
func (l *Logger) Failed(name string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failed.Println(FormatFailure(name, err))
}

// 📊 Summary prints the end-of-run statistics block
func (l *Logger) Summary(stats *organize.Stats) {
	l.mu.Lock()
	defer l.mu.Unlock()

	bold := color.New(color.Bold)
	divider := strings.Repeat("=", 60)

	fmt.Fprintln(l.out, divider)
	bold.Fprintln(l.out, "ORGANIZATION SUMMARY")
	fmt.Fprintln(l.out, divider)
	fmt.Fprintf(l.out, "Files moved:        %d\n", stats.FilesMoved)
	fmt.Fprintf(l.out, "Folders moved:      %d\n", stats.FoldersMoved)
	fmt.Fprintf(l.out, "Conflicts resolved: %d\n", stats.ConflictsResolved)
	fmt.Fprintf(l.out, "Skipped:            %d\n", stats.Skipped)

	if stats.Errors > 0 {
		color.New(color.FgRed).Fprintf(l.out, "Errors:             %d\n", stats.Errors)
	} else {
		fmt.Fprintf(l.out, "Errors:             %d\n", stats.Errors)
	}

	if len(stats.Categories) > 0 {
		fmt.Fprintln(l.out)
		bold.Fprintln(l.out, "Files by category:")
		for _, name := range stats.CategoryNames() {
			fmt.Fprintf(l.out, "  %s: %d\n", name, stats.Categories[name])
		}
	}

	fmt.Fprintln(l.out, divider)
}
