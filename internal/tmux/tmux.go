// Package tmux opens resolved sessions inside tmux: one tmux session per
// work directory, with the agent running in a dedicated window.
package tmux

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/GianlucaP106/gotmux/gotmux"

	"github.com/sessio-dev/sessio/internal/config"
)

// agentWindow is the window the chat agent runs in.
const agentWindow = "agent"

// Manager handles tmux operations
type Manager struct {
	tmux *gotmux.Tmux
}

// New creates a tmux manager
func New() (*Manager, error) {
	t, err := gotmux.DefaultTmux()
	if err != nil {
		return nil, err
	}
	return &Manager{tmux: t}, nil
}

// IsInsideTmux checks if we're running inside tmux
func IsInsideTmux() bool {
	return os.Getenv("TMUX") != ""
}

// SessionExists checks if a tmux session exists
func (m *Manager) SessionExists(name string) bool {
	return m.tmux.HasSession(name)
}

// CreateWorkDirSession creates a tmux session rooted at workDir: the agent
// window plus the configured extra windows.
func (m *Manager) CreateWorkDirSession(name, workDir string, windows []config.Window) error {
	sess, err := m.tmux.NewSession(&gotmux.SessionOptions{
		Name:           name,
		StartDirectory: workDir,
	})
	if err != nil {
		return err
	}

	// The first window becomes the agent window.
	existing, err := sess.ListWindows()
	if err == nil && len(existing) > 0 {
		existing[0].Rename(agentWindow)
	}

	for _, win := range windows {
		_, err := sess.NewWindow(&gotmux.NewWindowOptions{
			WindowName:     win.Name,
			StartDirectory: workDir,
		})
		if err != nil {
			return err
		}
		if win.Command != "" {
			if err := m.SendKeysToWindow(name, win.Name, win.Command); err != nil {
				return err
			}
		}
	}

	w, err := sess.GetWindowByName(agentWindow)
	if err == nil {
		w.Select()
	}

	return nil
}

// SwitchToSession switches the client to a session
func (m *Manager) SwitchToSession(name string) error {
	return m.tmux.SwitchClient(&gotmux.SwitchClientOptions{
		TargetSession: name,
	})
}

// SendKeysToWindow sends keys to a specific window and executes them
func (m *Manager) SendKeysToWindow(sessionName, windowName, keys string) error {
	sess, err := m.tmux.GetSessionByName(sessionName)
	if err != nil {
		return err
	}

	w, err := sess.GetWindowByName(windowName)
	if err != nil {
		return fmt.Errorf("window not found: %s", windowName)
	}

	panes, err := w.ListPanes()
	if err != nil || len(panes) == 0 {
		return fmt.Errorf("no panes in window: %s", windowName)
	}

	pane := panes[0]
	if err := pane.SendKeys(keys); err != nil {
		return err
	}
	return pane.SendKeys("Enter")
}

// RespawnAgentWindow kills whatever runs in the agent window and starts
// command there, without visible typing.
func (m *Manager) RespawnAgentWindow(sessionName, command string) error {
	target := fmt.Sprintf("%s:%s", sessionName, agentWindow)
	_, err := m.tmux.Command("respawn-pane", "-k", "-t", target, command)
	return err
}

// WorkDirToSessionName converts a work directory path to a tmux session name
func WorkDirToSessionName(workDir string) string {
	name := filepath.Base(workDir)
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "sessio"
	}
	return name
}
