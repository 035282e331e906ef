package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sessio-dev/sessio/internal/session"
)

// Action represents what the user wants to do with the selected entry
type Action int

const (
	ActionNone Action = iota
	ActionResume
	ActionNew
)

// Result holds the selected entry and action
type Result struct {
	Entry   *session.Entry
	Action  Action
	WorkDir string // for ActionNew
}

// pickerModel is the bubbletea model for the session picker
type pickerModel struct {
	allEntries      []session.Entry
	filteredEntries []session.Entry
	cursor          int
	filter          textinput.Model
	showEmpty       bool
	width           int
	height          int
	result          Result
	confirmDelete   bool
	quitting        bool
	newSessionMode  bool     // are we in new-session path entry mode?
	existingDirs    []string // directories under $HOME (for new-session mode)
}

// Styles
var (
	selectedStyle = lipgloss.NewStyle().Background(lipgloss.Color("240")).Foreground(lipgloss.Color("229"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	previewHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	confirmStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

func newPickerModel(entries []session.Entry, showEmpty bool) pickerModel {
	ti := textinput.New()
	ti.Placeholder = "Filter..."
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 40

	m := pickerModel{
		allEntries: entries,
		filter:     ti,
		showEmpty:  showEmpty,
		width:      80,
		height:     24,
	}
	m.applyFilter()
	return m
}

func (m *pickerModel) applyFilter() {
	query := strings.ToLower(m.filter.Value())
	m.filteredEntries = nil

	for _, e := range m.allEntries {
		// Sessions whose history is still empty are hidden by default
		if !m.showEmpty && e.Size == 0 {
			continue
		}

		if query != "" {
			searchText := strings.ToLower(e.Session.WorkDir + " " + e.Session.ID)
			if !strings.Contains(searchText, query) {
				continue
			}
		}

		m.filteredEntries = append(m.filteredEntries, e)
	}

	// Reset cursor if out of bounds
	if m.cursor >= len(m.filteredEntries) {
		m.cursor = max(0, len(m.filteredEntries)-1)
	}
}

func (m pickerModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Handle delete confirmation mode
		if m.confirmDelete {
			switch msg.String() {
			case "y", "Y":
				if len(m.filteredEntries) > 0 {
					// Remove the history file; the index keeps its record
					// (garbage there is tolerated and never cleaned here)
					entry := m.filteredEntries[m.cursor]
					os.Remove(entry.Session.HistoryFile)

					for i, e := range m.allEntries {
						if e.Session.HistoryFile == entry.Session.HistoryFile {
							m.allEntries = append(m.allEntries[:i], m.allEntries[i+1:]...)
							break
						}
					}

					m.applyFilter()
				}
				m.confirmDelete = false
				return m, nil
			case "n", "N", "esc":
				m.confirmDelete = false
				return m, nil
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "esc":
			if m.newSessionMode {
				m.newSessionMode = false
				m.filter.SetValue("")
				m.filter.Placeholder = "Filter..."
				return m, nil
			}
			m.quitting = true
			return m, tea.Quit

		case "enter":
			if m.newSessionMode {
				path := m.filter.Value()
				if path != "" {
					m.result = Result{
						Action:  ActionNew,
						WorkDir: expandPath(path),
					}
					m.quitting = true
					return m, tea.Quit
				}
				return m, nil
			}
			if len(m.filteredEntries) > 0 {
				m.result = Result{
					Entry:  &m.filteredEntries[m.cursor],
					Action: ActionResume,
				}
			}
			m.quitting = true
			return m, tea.Quit

		case "ctrl+n":
			m.newSessionMode = true
			m.loadExistingDirs()
			m.filter.Placeholder = "Work directory (e.g. ~/projects/my-app)..."
			m.filter.SetValue("~/")
			return m, nil

		case "ctrl+d":
			if len(m.filteredEntries) > 0 {
				m.confirmDelete = true
			}
			return m, nil

		case "ctrl+a":
			m.showEmpty = !m.showEmpty
			m.applyFilter()
			return m, nil

		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case "down":
			if m.cursor < len(m.filteredEntries)-1 {
				m.cursor++
			}
			return m, nil

		case "pgup":
			m.cursor = max(0, m.cursor-10)
			return m, nil

		case "pgdown":
			m.cursor = min(len(m.filteredEntries)-1, m.cursor+10)
			return m, nil

		case "home", "ctrl+home":
			m.cursor = 0
			return m, nil

		case "end", "ctrl+end":
			m.cursor = max(0, len(m.filteredEntries)-1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filter.Width = min(40, msg.Width-20)
		return m, nil
	}

	// Handle text input for filtering
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if !m.newSessionMode {
		m.applyFilter()
	}
	return m, cmd
}

func (m pickerModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	// Header with filter
	if m.newSessionMode {
		b.WriteString(fmt.Sprintf("New Session %s\n\n", m.filter.View()))
	} else {
		emptyIndicator := ""
		if m.showEmpty {
			emptyIndicator = " [+empty]"
		}
		b.WriteString(fmt.Sprintf("Sessions %d/%d%s %s\n\n",
			len(m.filteredEntries), len(m.allEntries), emptyIndicator, m.filter.View()))
	}

	// Calculate layout
	listWidth := m.width / 2
	previewWidth := m.width - listWidth - 3
	listHeight := m.height - 6

	var listLines []string
	var previewLines []string

	if m.newSessionMode {
		contentWidth := listWidth - 2

		for i := 0; i < len(m.existingDirs) && i < listHeight; i++ {
			line := fixedWidth("  "+m.existingDirs[i], contentWidth+2)
			listLines = append(listLines, line)
		}

		emptyLine := strings.Repeat(" ", listWidth)
		for len(listLines) < listHeight {
			listLines = append(listLines, emptyLine)
		}

		previewLines = m.formatNewSessionPreview()
	} else {
		visibleStart := 0
		if m.cursor >= listHeight {
			visibleStart = m.cursor - listHeight + 1
		}

		// Fixed content width (excluding cursor prefix "  " or "> ")
		contentWidth := listWidth - 2

		for i := visibleStart; i < len(m.filteredEntries) && i < visibleStart+listHeight; i++ {
			e := m.filteredEntries[i]
			line := fixedWidth(formatListLine(e, contentWidth), contentWidth)

			if i == m.cursor {
				line = cursorStyle.Render("> ") + selectedStyle.Render(line)
			} else {
				line = "  " + line
			}
			listLines = append(listLines, line)
		}

		emptyLine := strings.Repeat(" ", listWidth)
		for len(listLines) < listHeight {
			listLines = append(listLines, emptyLine)
		}

		if len(m.filteredEntries) > 0 && m.cursor < len(m.filteredEntries) {
			previewLines = formatPreviewLines(m.filteredEntries[m.cursor], previewWidth)
		}
	}

	for len(previewLines) < listHeight {
		previewLines = append(previewLines, "")
	}

	// Combine list and preview side by side
	for i := 0; i < listHeight; i++ {
		b.WriteString(fmt.Sprintf("%s │ %s\n", listLines[i], previewLines[i]))
	}

	// Footer with help
	b.WriteString("\n")
	if m.confirmDelete {
		b.WriteString(confirmStyle.Render("Delete this session's history file? (y/n)"))
	} else if m.newSessionMode {
		b.WriteString(helpStyle.Render("enter: create session • esc: cancel"))
	} else {
		b.WriteString(helpStyle.Render("enter: resume • ctrl-d: delete • ctrl-a: toggle empty • ctrl-n: new • esc: quit"))
	}

	return b.String()
}

func formatListLine(e session.Entry, maxWidth int) string {
	date := e.ModTime.Format("01/02 15:04")
	line := fmt.Sprintf("%s  %-18s  %s", date, truncate(workDirName(e), 18), e.Session.ID)
	if len(line) > maxWidth {
		line = line[:maxWidth-1] + "…"
	}
	return line
}

func formatPreviewLines(e session.Entry, width int) []string {
	var lines []string

	lines = append(lines, previewHeader.Render("Session: ")+e.Session.ID)
	lines = append(lines, previewHeader.Render("Work dir: ")+workDirLabel(e))
	lines = append(lines, "")

	lines = append(lines, previewHeader.Render("History:"))
	lines = append(lines, wordWrap(e.Session.HistoryFile, width)...)
	lines = append(lines, fmt.Sprintf("%d bytes", e.Size))
	lines = append(lines, "")

	if !e.Indexed {
		lines = append(lines, confirmStyle.Render("⚠ not in the index"))
	}
	lines = append(lines, dimStyle.Render("Modified: "+e.ModTime.Format("2006-01-02 15:04:05")))

	return lines
}

func (m *pickerModel) formatNewSessionPreview() []string {
	var lines []string

	input := m.filter.Value()
	if input == "" {
		lines = append(lines, dimStyle.Render("Enter a work directory..."))
		return lines
	}

	fullPath := expandPath(input)

	lines = append(lines, previewHeader.Render("Will create a session for:"))
	lines = append(lines, "")
	lines = append(lines, "  "+fullPath)
	lines = append(lines, "")
	lines = append(lines, previewHeader.Render("Actions:"))
	lines = append(lines, "  • Register the work directory")
	lines = append(lines, "  • Start a fresh history file")
	lines = append(lines, "  • Launch the agent")

	if _, err := os.Stat(fullPath); err != nil {
		lines = append(lines, "")
		lines = append(lines, confirmStyle.Render("⚠ Directory does not exist yet"))
	}

	return lines
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-1] + "…"
}

// fixedWidth ensures a string is exactly the given width (truncate or pad)
func fixedWidth(s string, width int) string {
	// Handle runes properly for unicode
	runes := []rune(s)
	if len(runes) > width {
		return string(runes[:width-1]) + "…"
	}
	if len(runes) < width {
		return s + strings.Repeat(" ", width-len(runes))
	}
	return s
}

func wordWrap(s string, width int) []string {
	var lines []string
	words := strings.Fields(s)
	var line string

	for _, word := range words {
		if line == "" {
			line = word
		} else if len(line)+1+len(word) <= width {
			line += " " + word
		} else {
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

func expandPath(input string) string {
	if strings.HasPrefix(input, "~/") {
		home, _ := os.UserHomeDir()
		input = filepath.Join(home, input[2:])
	}
	return input
}

func (m *pickerModel) loadExistingDirs() {
	m.existingDirs = nil

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	entries, err := os.ReadDir(home)
	if err != nil {
		return
	}

	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			m.existingDirs = append(m.existingDirs, entry.Name())
		}
	}
}

// SelectEntry runs the interactive picker and returns the result
func SelectEntry(entries []session.Entry, showEmpty bool) (Result, error) {
	if len(entries) == 0 {
		return Result{}, fmt.Errorf("no sessions found")
	}

	m := newPickerModel(entries, showEmpty)
	p := tea.NewProgram(m, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return Result{}, err
	}

	result := finalModel.(pickerModel).result
	return result, nil
}
