package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/sessio-dev/sessio/internal/config"
	"github.com/sessio-dev/sessio/internal/logger"
	"github.com/sessio-dev/sessio/internal/metadata"
	"github.com/sessio-dev/sessio/internal/session"
	"github.com/sessio-dev/sessio/internal/ui"
)

var (
	cfg   *config.Config
	debug bool
)

var rootCmd = &cobra.Command{
	Use:   "sessio",
	Short: "Manage persistent chat sessions per work directory",
	Long: fmt.Sprintf(`sessio tracks chat sessions per work directory: each session owns an
append-only .jsonl history file under a shared storage root, and a JSON
index maps sessions to their work directories. Stale index entries are
repaired from the filesystem automatically.

Run without arguments for the interactive picker.

Config file: %s`, config.Path()),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		if cfg.LogFile != "" {
			if err := logger.Init(cfg.LogFile); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			}
		}
		logger.SetDebug(debug)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		showEmpty, _ := cmd.Flags().GetBool("all")
		return runPicker(showEmpty)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.Flags().BoolP("all", "a", false, "include sessions with empty history")
	rootCmd.AddCommand(newNewCmd())
	rootCmd.AddCommand(newContinueCmd())
	rootCmd.AddCommand(newResolveCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newPickCmd())
}

func main() {
	defer logger.Close()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "sessio: %v\n", err)
		os.Exit(1)
	}
}

func newResolver() (*session.Resolver, *metadata.Store) {
	store := metadata.NewStore(cfg.MetadataPath())
	resolver := session.NewResolver(store, cfg.SessionsRoot(), logger.ComponentLogger("session"))
	return resolver, store
}

func newNewCmd() *cobra.Command {
	var (
		historyFile string
		printOnly   bool
	)

	cmd := &cobra.Command{
		Use:   "new [work-dir]",
		Short: "Create a session for a work directory and launch the agent",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workDir := "."
			if len(args) == 1 {
				workDir = args[0]
			}

			resolver, store := newResolver()
			var (
				sess *session.Session
				err  error
			)
			if historyFile != "" {
				sess, err = resolver.CreateWithHistoryFile(workDir, historyFile)
			} else {
				sess, err = resolver.Create(workDir)
			}
			if err != nil {
				return err
			}

			if err := store.SetLastSession(sess.WorkDir, sess.ID); err != nil {
				return err
			}

			if printOnly {
				printSession(sess)
				return nil
			}
			return launchSession(sess.WorkDir, sess.ID)
		},
	}
	cmd.Flags().StringVar(&historyFile, "history-file", "", "store history at this path instead of the derived location (truncates an existing file)")
	cmd.Flags().BoolVar(&printOnly, "print", false, "print the session instead of launching the agent")
	return cmd
}

func newContinueCmd() *cobra.Command {
	var printOnly bool

	cmd := &cobra.Command{
		Use:   "continue [work-dir]",
		Short: "Resume the last session of a work directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workDir := "."
			if len(args) == 1 {
				workDir = args[0]
			}

			resolver, _ := newResolver()
			sess, err := resolver.Continue(workDir)
			if err != nil {
				return err
			}
			if sess == nil {
				return fmt.Errorf("no previous session for %s", workDir)
			}

			if printOnly {
				printSession(sess)
				return nil
			}
			return launchSession(sess.WorkDir, sess.ID)
		},
	}
	cmd.Flags().BoolVar(&printOnly, "print", false, "print the session instead of launching the agent")
	return cmd
}

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <session-id>",
		Short: "Resolve a session by id, repairing the index if needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, _ := newResolver()
			sess, err := resolver.LoadByID(args[0])
			if err != nil {
				return err
			}
			if sess == nil {
				return fmt.Errorf("session %s not found", args[0])
			}
			printSession(sess)
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	var showEmpty bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print all sessions (for scripting)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := loadEntries(showEmpty)
			if err != nil {
				return err
			}
			for _, e := range entries {
				workDir := e.Session.WorkDir
				if !e.Indexed {
					workDir = "(unknown)"
				}
				fmt.Printf("%s|%s|%s\n",
					e.Session.ID,
					e.ModTime.Format("2006-01-02 15:04"),
					workDir)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&showEmpty, "all", "a", false, "include sessions with empty history")
	return cmd
}

func newPickCmd() *cobra.Command {
	var showEmpty bool

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Pick a session with a fuzzy finder and resume it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := loadEntries(showEmpty)
			if err != nil {
				return err
			}
			entry, err := ui.QuickPick(entries)
			if err != nil {
				return err
			}
			if entry == nil {
				return nil // cancelled
			}
			return resumeEntry(entry)
		},
	}
	cmd.Flags().BoolVarP(&showEmpty, "all", "a", false, "include sessions with empty history")
	return cmd
}

func runPicker(showEmpty bool) error {
	entries, err := loadEntries(true)
	if err != nil {
		return err
	}

	result, err := ui.SelectEntry(entries, showEmpty)
	if err != nil {
		return err
	}

	switch result.Action {
	case ui.ActionNew:
		resolver, store := newResolver()
		sess, err := resolver.Create(result.WorkDir)
		if err != nil {
			return err
		}
		if err := store.SetLastSession(sess.WorkDir, sess.ID); err != nil {
			return err
		}
		return launchSession(sess.WorkDir, sess.ID)
	case ui.ActionResume:
		if result.Entry != nil {
			return resumeEntry(result.Entry)
		}
	}
	return nil
}

func loadEntries(showEmpty bool) ([]session.Entry, error) {
	_, store := newResolver()
	scanner := session.NewScanner(store, cfg.SessionsRoot())

	entries, err := scanner.List()
	if err != nil {
		return nil, err
	}

	if !showEmpty {
		var filtered []session.Entry
		for _, e := range entries {
			if e.Size > 0 {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ModTime.After(entries[j].ModTime)
	})
	return entries, nil
}

func printSession(sess *session.Session) {
	fmt.Printf("id: %s\nwork_dir: %s\nhistory_file: %s\n", sess.ID, sess.WorkDir, sess.HistoryFile)
}
