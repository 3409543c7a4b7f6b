package organize

// EntryKind distinguishes file moves from folder moves in reports.
type EntryKind string

const (
	KindFile   EntryKind = "file"
	KindFolder EntryKind = "folder"
)

// 📈 Reporter receives user-facing notifications for each processed entry.
// The zerolog context logger stays the structured record; a Reporter is the
// pretty console companion.
type Reporter interface {
	Moved(kind EntryKind, name, dest string, conflicted, dryRun bool)
	Skipped(name, reason string)
	Failed(name string, err error)
}

// NopReporter discards all notifications.
type NopReporter struct{}

func (NopReporter) Moved(EntryKind, string, string, bool, bool) {}
func (NopReporter) Skipped(string, string)                      {}
func (NopReporter) Failed(string, error)                        {}
