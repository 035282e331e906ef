package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/sessio-dev/sessio/internal/logger"
	"github.com/sessio-dev/sessio/internal/session"
	"github.com/sessio-dev/sessio/internal/tmux"
)

// resumeEntry marks the entry's session current for its work directory and
// launches the agent. Unindexed entries have no work directory to mark or
// chdir into, so they launch from the current directory.
func resumeEntry(e *session.Entry) error {
	if e.Indexed {
		_, store := newResolver()
		if err := store.SetLastSession(e.Session.WorkDir, e.Session.ID); err != nil {
			// Marking is a convenience; the launch is what the user asked for.
			logger.ComponentLogger("cli").Warn("failed to mark session current",
				"id", e.Session.ID, "error", err)
		}
	}
	return launchSession(e.Session.WorkDir, e.Session.ID)
}

// launchSession starts the configured agent for a session, inside a tmux
// session named after the work directory when running under tmux,
// otherwise directly in the foreground.
func launchSession(workDir, id string) error {
	if tmux.IsInsideTmux() {
		return launchInTmux(workDir, id)
	}
	return launchDirectly(workDir, id)
}

func launchDirectly(workDir, id string) error {
	cmd := exec.Command(cfg.Agent.Command, cfg.Agent.ResumeFlag, id)
	if workDir != "" {
		cmd.Dir = workDir
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func launchInTmux(workDir, id string) error {
	mgr, err := tmux.New()
	if err != nil {
		return launchDirectly(workDir, id)
	}

	name := tmux.WorkDirToSessionName(workDir)
	agentCmd := fmt.Sprintf("%s %s %s", cfg.Agent.Command, cfg.Agent.ResumeFlag, id)

	if !mgr.SessionExists(name) {
		if err := mgr.CreateWorkDirSession(name, workDir, cfg.Tmux.Windows); err != nil {
			return fmt.Errorf("creating tmux session: %w", err)
		}
	}

	if err := mgr.SwitchToSession(name); err != nil {
		return fmt.Errorf("switching to tmux session: %w", err)
	}

	// Keep the pane alive if the agent exits.
	wrapped := fmt.Sprintf("cd %q && %s; exec $SHELL", workDir, agentCmd)
	if workDir == "" {
		wrapped = fmt.Sprintf("%s; exec $SHELL", agentCmd)
	}
	if err := mgr.RespawnAgentWindow(name, wrapped); err != nil {
		return fmt.Errorf("starting agent: %w", err)
	}
	return nil
}
