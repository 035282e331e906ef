package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/koki-develop/go-fzf"

	"github.com/sessio-dev/sessio/internal/session"
)

// QuickPick presents a one-shot fuzzy finder over session entries and
// returns the chosen entry, or nil when the user cancels.
func QuickPick(entries []session.Entry) (*session.Entry, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("no sessions found")
	}

	f, err := fzf.New(
		fzf.WithPrompt("Sessions > "),
		fzf.WithInputPosition(fzf.InputPositionTop),
		fzf.WithLimit(1),
	)
	if err != nil {
		return nil, err
	}

	idxs, err := f.Find(
		entries,
		func(i int) string {
			return formatEntryLine(entries[i])
		},
		fzf.WithPreviewWindow(func(i, w, h int) string {
			if i < 0 || i >= len(entries) {
				return ""
			}
			return formatEntryPreview(entries[i])
		}),
	)
	if err != nil {
		return nil, err
	}
	if len(idxs) == 0 {
		return nil, nil // User cancelled
	}

	return &entries[idxs[0]], nil
}

func formatEntryLine(e session.Entry) string {
	return fmt.Sprintf("%s  %-20s  %s",
		e.ModTime.Format("2006-01-02 15:04"),
		workDirName(e),
		e.Session.ID)
}

func formatEntryPreview(e session.Entry) string {
	var b strings.Builder

	b.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	b.WriteString(fmt.Sprintf("Session:  %s\n", e.Session.ID))
	b.WriteString(fmt.Sprintf("Work dir: %s\n", workDirLabel(e)))
	b.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	b.WriteString(fmt.Sprintf("History file: %s\n", e.Session.HistoryFile))
	b.WriteString(fmt.Sprintf("Size: %d bytes\n", e.Size))
	b.WriteString(fmt.Sprintf("Last modified: %s\n", e.ModTime.Format("2006-01-02 15:04:05")))
	if !e.Indexed {
		b.WriteString("\n⚠ not in the index: work directory unknown\n")
	}

	return b.String()
}

func workDirName(e session.Entry) string {
	if !e.Indexed || e.Session.WorkDir == "" {
		return "(unknown)"
	}
	name := filepath.Base(e.Session.WorkDir)
	if name == "" || name == "." {
		return "(unknown)"
	}
	return name
}

func workDirLabel(e session.Entry) string {
	if !e.Indexed || e.Session.WorkDir == "" {
		return "(unknown)"
	}
	return e.Session.WorkDir
}
