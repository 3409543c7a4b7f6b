package report

import (
	"fmt"

	"github.com/jescholl/downsort/pkg/organize"
)

// FormatMove formats the console line for one completed or previewed move.
func FormatMove(kind organize.EntryKind, name, dest string, conflicted, dryRun bool) string {
	label := "Moved"
	if kind == organize.KindFolder {
		label = "Moved folder"
	}
	if dryRun {
		label = "Would move"
		if kind == organize.KindFolder {
			label = "Would move folder"
		}
	}

	msg := fmt.Sprintf("%s %s -> %s", label, name, dest)
	if conflicted {
		msg += " (renamed)"
	}
	return msg
}

// FormatSkip formats the console line for a skipped entry.
func FormatSkip(name, reason string) string {
	return fmt.Sprintf("Skipped %s (%s)", name, reason)
}

// FormatFailure formats the console line for a failed entry.
func FormatFailure(name string, err error) string {
	return fmt.Sprintf("Failed %s: %v", name, err)
}
