// Package session resolves work-directory sessions against two sources of
// truth: the metadata index (fast path) and the on-disk session file
// layout (ground truth). When the index is silent or stale, resolution
// falls back to the filesystem and writes the discovery back to the index.
package session

// historyExt is the suffix of every session history file. The file holds
// newline-delimited records, but nothing here ever parses it; the only
// managed properties are existence and truncation.
const historyExt = ".jsonl"

// Session is a resolved session. It is reconstructed on every resolution
// and never cached; only the history file it points at persists.
type Session struct {
	ID          string // opaque unique identifier
	WorkDir     string // canonical path of the owning work directory
	HistoryFile string // absolute path of the append-only history file
}

func historyFileName(id string) string {
	return id + historyExt
}
