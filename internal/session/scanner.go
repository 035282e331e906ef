package session

import (
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/sessio-dev/sessio/internal/metadata"
)

// Entry describes one history file found under the storage root.
type Entry struct {
	Session Session
	ModTime time.Time
	Size    int64
	// Indexed reports whether the owning work directory is known to the
	// index. Unindexed entries are files in session dirs no record owns;
	// they are listed but cannot be resolved to a work directory.
	Indexed bool
}

// Scanner enumerates session history files under the storage root.
type Scanner struct {
	store *metadata.Store
	root  string
}

// NewScanner returns a scanner over the given index store and storage root.
func NewScanner(store *metadata.Store, root string) *Scanner {
	return &Scanner{store: store, root: root}
}

// List walks the storage root and returns an entry per history file,
// attributing each to its work directory via the derived-dir reverse map.
// History file contents are never read. A missing root yields an empty
// list.
func (s *Scanner) List() ([]Entry, error) {
	m, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	// Reverse map: derived sessions dir -> canonical work dir path.
	owners := make(map[string]string, len(m.WorkDirs))
	for _, wd := range m.WorkDirs {
		owners[wd.SessionsDir(s.root)] = wd.Path
	}

	var entries []Entry
	// Walk errors (including a storage root that does not exist yet) are
	// skipped rather than fatal: a listing is best-effort.
	err = filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if !strings.HasSuffix(d.Name(), historyExt) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}

		workDir, indexed := owners[filepath.Dir(path)]
		entries = append(entries, Entry{
			Session: Session{
				ID:          strings.TrimSuffix(d.Name(), historyExt),
				WorkDir:     workDir,
				HistoryFile: path,
			},
			ModTime: info.ModTime(),
			Size:    info.Size(),
			Indexed: indexed,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}
