package session

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	serrors "github.com/sessio-dev/sessio/internal/errors"
	"github.com/sessio-dev/sessio/internal/metadata"
	"github.com/sessio-dev/sessio/internal/pathutil"
)

// Resolver creates and resolves sessions. Every operation is a single
// load-mutate-save unit against the index store; nothing is cached across
// calls. The storage root is the directory holding all per-work-directory
// session dirs and is passed in explicitly.
type Resolver struct {
	store *metadata.Store
	root  string
	log   *slog.Logger
}

// NewResolver returns a resolver over the given index store and storage
// root. A nil logger disables logging.
func NewResolver(store *metadata.Store, root string, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Resolver{store: store, root: root, log: log}
}

// Root returns the storage root the resolver scans.
func (r *Resolver) Root() string {
	return r.root
}

// Create starts a new session for workDir with the default history file
// location under the derived sessions dir. The history file itself is not
// created — only its parent directory — so a session with no history yet
// leaves no file behind. The new session is not marked current; that is a
// separate mutation owned by the caller.
func (r *Resolver) Create(workDir string) (*Session, error) {
	return r.create(workDir, "")
}

// CreateWithHistoryFile starts a new session whose history lives at the
// caller-supplied path instead of the derived location. Missing parent
// directories are created. An existing regular file at the path is
// truncated; anything else there is an InvalidHistoryTarget error. This
// variant exists for compatibility callers that reuse a known path while
// still needing fresh-history semantics.
func (r *Resolver) CreateWithHistoryFile(workDir, historyFile string) (*Session, error) {
	abs, err := filepath.Abs(historyFile)
	if err != nil {
		return nil, err
	}
	return r.create(workDir, abs)
}

func (r *Resolver) create(workDir, overrideFile string) (*Session, error) {
	canon, err := pathutil.Canonicalize(workDir)
	if err != nil {
		return nil, err
	}
	r.log.Debug("creating new session", "workDir", canon)

	m, err := r.store.Load()
	if err != nil {
		return nil, err
	}

	wd := m.FindWorkDir(canon)
	if wd == nil {
		wd = m.AddWorkDir(canon)
	}

	id := uuid.New().String()

	var historyFile string
	if overrideFile == "" {
		dir := wd.SessionsDir(r.root)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, serrors.StorageUnavailable("session.Create", dir, err)
		}
		historyFile = filepath.Join(dir, historyFileName(id))
	} else {
		r.log.Warn("using caller-provided history file", "historyFile", overrideFile)
		if pathutil.FileExists(overrideFile) && !pathutil.IsRegularFile(overrideFile) {
			return nil, serrors.InvalidHistoryTarget(overrideFile)
		}
		parent := filepath.Dir(overrideFile)
		if err := os.MkdirAll(parent, 0755); err != nil {
			return nil, serrors.StorageUnavailable("session.CreateWithHistoryFile", parent, err)
		}
		historyFile = overrideFile
	}

	// Creation guarantees an empty history file: a leftover file at the
	// resolved path is truncated, never appended to.
	if pathutil.FileExists(historyFile) {
		r.log.Warn("history file already exists, truncating", "historyFile", historyFile)
		if err := os.Truncate(historyFile, 0); err != nil {
			return nil, serrors.StorageUnavailable("session.Create", historyFile, err)
		}
	}

	m.SessionToWorkDir[id] = canon
	if err := r.store.Save(m); err != nil {
		return nil, err
	}

	return &Session{ID: id, WorkDir: canon, HistoryFile: historyFile}, nil
}

// Continue returns the last session marked current for workDir, or
// (nil, nil) when the work directory is unknown or never had a current
// session. It trusts the index and does not verify that the history file
// still exists; existence repair happens only on the by-id path.
func (r *Resolver) Continue(workDir string) (*Session, error) {
	canon, err := pathutil.Canonicalize(workDir)
	if err != nil {
		return nil, err
	}
	r.log.Debug("continuing session", "workDir", canon)

	m, err := r.store.Load()
	if err != nil {
		return nil, err
	}

	wd := m.FindWorkDir(canon)
	if wd == nil {
		r.log.Debug("work directory never used", "workDir", canon)
		return nil, nil
	}
	if wd.LastSessionID == "" {
		r.log.Debug("work directory has no current session", "workDir", canon)
		return nil, nil
	}

	return &Session{
		ID:          wd.LastSessionID,
		WorkDir:     canon,
		HistoryFile: filepath.Join(wd.SessionsDir(r.root), historyFileName(wd.LastSessionID)),
	}, nil
}

// LoadByID resolves a session by its identifier alone, or (nil, nil) when
// nothing on disk backs it.
//
// The index shortcut is used first, but only when the history file it
// implies actually exists. Otherwise every per-work-directory session dir
// under the root is scanned for <id>.jsonl; a match owned by a known work
// dir record repairs the index and resolves. A match inside a directory no
// record owns cannot be attached to a work directory and is skipped.
func (r *Resolver) LoadByID(id string) (*Session, error) {
	r.log.Debug("loading session by id", "id", id)

	m, err := r.store.Load()
	if err != nil {
		return nil, err
	}

	if wdPath, ok := m.SessionToWorkDir[id]; ok {
		if wd := m.FindWorkDir(wdPath); wd != nil {
			historyFile := filepath.Join(wd.SessionsDir(r.root), historyFileName(id))
			if pathutil.FileExists(historyFile) {
				return &Session{ID: id, WorkDir: wd.Path, HistoryFile: historyFile}, nil
			}
			r.log.Debug("index entry present but history file missing",
				"id", id, "historyFile", historyFile)
		}
	}

	entries, err := os.ReadDir(r.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, serrors.StorageUnavailable("session.LoadByID", r.root, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(r.root, entry.Name())
		historyFile := filepath.Join(dir, historyFileName(id))
		if !pathutil.FileExists(historyFile) {
			continue
		}
		for _, wd := range m.WorkDirs {
			if wd.SessionsDir(r.root) != dir {
				continue
			}
			r.log.Debug("found session on disk, repairing index", "id", id, "workDir", wd.Path)
			m.SessionToWorkDir[id] = wd.Path
			if err := r.store.Save(m); err != nil {
				// The lookup already succeeded; a failed repair save must
				// not fail the read it was trying to speed up next time.
				r.log.Warn("failed to repair session index", "id", id, "error", err)
			}
			return &Session{ID: id, WorkDir: wd.Path, HistoryFile: historyFile}, nil
		}
	}

	r.log.Debug("session not found", "id", id)
	return nil, nil
}
