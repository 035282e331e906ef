// Package metadata persists the session index: the known work directories
// and the session-to-workdir shortcut map.
//
// The index is a plain JSON file. Every operation loads a fresh snapshot
// and saves at most once; there is no cross-call transaction and no
// locking, so concurrent writers race and the last save wins. The
// filesystem remains the ground truth for which history files exist — the
// index may carry records with no files behind them, and that garbage is
// tolerated, never cleaned here.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"

	serrors "github.com/sessio-dev/sessio/internal/errors"
)

// WorkDir is the index record for one work directory. Path is the
// canonical absolute form and is the record's identity; callers search
// linearly and must not insert duplicates.
type WorkDir struct {
	Path          string `json:"path"`
	LastSessionID string `json:"last_session_id,omitempty"`
}

// SessionsDir returns the derived per-work-directory directory under root
// that holds this work directory's session history files. The name is a
// content hash of the canonical path, so distinct paths essentially never
// collide. It is never stored in the index.
func (w *WorkDir) SessionsDir(root string) string {
	return filepath.Join(root, hashPath(w.Path))
}

func hashPath(path string) string {
	sum := sha256.Sum256([]byte(path))
	return hex.EncodeToString(sum[:])
}

// Metadata is one loaded snapshot of the index.
type Metadata struct {
	WorkDirs         []*WorkDir        `json:"work_dirs"`
	SessionToWorkDir map[string]string `json:"session_to_workdir"`
}

// FindWorkDir returns the record whose Path equals the canonical path, or
// nil when the work directory is unknown.
func (m *Metadata) FindWorkDir(path string) *WorkDir {
	for _, wd := range m.WorkDirs {
		if wd.Path == path {
			return wd
		}
	}
	return nil
}

// AddWorkDir appends a fresh record for path and returns it. The caller is
// responsible for having checked FindWorkDir first.
func (m *Metadata) AddWorkDir(path string) *WorkDir {
	wd := &WorkDir{Path: path}
	m.WorkDirs = append(m.WorkDirs, wd)
	return wd
}

// ensureInitialized makes sure slices and maps are non-nil after
// unmarshaling an older or empty index file.
func (m *Metadata) ensureInitialized() {
	if m.WorkDirs == nil {
		m.WorkDirs = []*WorkDir{}
	}
	if m.SessionToWorkDir == nil {
		m.SessionToWorkDir = make(map[string]string)
	}
}

// Store loads and saves the index file.
type Store struct {
	path string
}

// NewStore returns a store backed by the index file at path. Nothing is
// read until Load.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the index file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads a fresh snapshot. A missing index file yields an initialized
// empty snapshot, not an error.
func (s *Store) Load() (*Metadata, error) {
	m := &Metadata{}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		m.ensureInitialized()
		return m, nil
	}
	if err != nil {
		return nil, serrors.StorageUnavailable("metadata.Load", s.path, err)
	}

	if err := json.Unmarshal(data, m); err != nil {
		return nil, serrors.StorageUnavailable("metadata.Load", s.path, err)
	}
	m.ensureInitialized()
	return m, nil
}

// Save atomically overwrites the index with m: the snapshot is written to
// a temp file in the same directory and renamed into place, so readers
// observe either the old or the new index, never a partial write. A Load
// in the same process after a successful Save sees the saved state.
func (s *Store) Save(m *Metadata) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return serrors.StorageUnavailable("metadata.Save", dir, err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return serrors.StorageUnavailable("metadata.Save", s.path, err)
	}

	tmp, err := os.CreateTemp(dir, ".metadata-*.json")
	if err != nil {
		return serrors.StorageUnavailable("metadata.Save", dir, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return serrors.StorageUnavailable("metadata.Save", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return serrors.StorageUnavailable("metadata.Save", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return serrors.StorageUnavailable("metadata.Save", s.path, err)
	}
	return nil
}

// SetLastSession marks sessionID as the current session for workDir and
// persists the index. This is the external mutation the resolver's
// Continue operation reads back; the resolver itself never writes it.
// The work directory must already be known to the index.
func (s *Store) SetLastSession(workDir, sessionID string) error {
	m, err := s.Load()
	if err != nil {
		return err
	}
	wd := m.FindWorkDir(workDir)
	if wd == nil {
		return serrors.E(serrors.Op("metadata.SetLastSession"), serrors.KindNotFound,
			"unknown work directory "+workDir)
	}
	wd.LastSessionID = sessionID
	return s.Save(m)
}
