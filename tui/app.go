// ABOUTME: Bubble Tea model for browsing snippet entries in the terminal with filtering and a detail pane.
// ABOUTME: Read-only: navigation with j/k or arrows, / to filter, q or esc to quit.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/willf/snippets/snippet"
)

// AppModel is the Bubble Tea model for the snippet browser. It holds the
// full entry list plus the currently visible (filtered) view of it.
type AppModel struct {
	entries []snippet.Entry
	visible []int // indexes into entries matching the filter

	cursor    int
	filter    string
	filtering bool
	width     int
	height    int
}

// NewAppModel creates a browser over the given entries.
func NewAppModel(entries []snippet.Entry) AppModel {
	m := AppModel{entries: entries}
	m.applyFilter()
	return m
}

// Run starts the Bubble Tea program over the given entries and blocks until
// the user quits.
func Run(entries []snippet.Entry) error {
	_, err := tea.NewProgram(NewAppModel(entries), tea.WithAltScreen()).Run()
	return err
}

// Init implements tea.Model.
func (m AppModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// handleKey routes key presses; filter mode captures text input first.
func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering {
		switch msg.Type {
		case tea.KeyEsc:
			m.filtering = false
			m.filter = ""
			m.applyFilter()
		case tea.KeyEnter:
			m.filtering = false
		case tea.KeyBackspace:
			if m.filter != "" {
				runes := []rune(m.filter)
				m.filter = string(runes[:len(runes)-1])
				m.applyFilter()
			}
		case tea.KeyRunes:
			m.filter += string(msg.Runes)
			m.applyFilter()
		case tea.KeyCtrlC:
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
	case "g":
		m.cursor = 0
	case "G":
		if len(m.visible) > 0 {
			m.cursor = len(m.visible) - 1
		}
	case "/":
		m.filtering = true
	}
	return m, nil
}

// applyFilter rebuilds the visible index list from the current filter text.
// Matching is a case-insensitive substring test over filename and title.
func (m *AppModel) applyFilter() {
	needle := strings.ToLower(m.filter)
	m.visible = m.visible[:0]
	for i, e := range m.entries {
		if needle == "" ||
			strings.Contains(strings.ToLower(e.Filename), needle) ||
			strings.Contains(strings.ToLower(e.Title), needle) {
			m.visible = append(m.visible, i)
		}
	}
	if m.cursor >= len(m.visible) {
		m.cursor = 0
	}
}

// Selected returns the entry under the cursor, or false when the visible
// list is empty.
func (m AppModel) Selected() (snippet.Entry, bool) {
	if len(m.visible) == 0 {
		return snippet.Entry{}, false
	}
	return m.entries[m.visible[m.cursor]], true
}

// View implements tea.Model. Renders the list pane, detail pane, and status bar.
func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	listWidth := m.width * 2 / 5
	detailWidth := m.width - listWidth - 6
	bodyHeight := m.height - 4

	list := BorderStyle.Width(listWidth).Height(bodyHeight).Render(m.listView(bodyHeight))
	detail := BorderStyle.Width(detailWidth).Height(bodyHeight).Render(m.detailView())
	body := lipgloss.JoinHorizontal(lipgloss.Top, list, detail)

	return lipgloss.JoinVertical(lipgloss.Left, body, m.statusView())
}

// listView renders the filtered entry list with the cursor marker.
func (m AppModel) listView(height int) string {
	var sb strings.Builder
	sb.WriteString(TitleStyle.Render("Snippets"))
	sb.WriteString("\n\n")

	if len(m.visible) == 0 {
		sb.WriteString(DimStyle.Render("no snippets match"))
		return sb.String()
	}

	// Keep the cursor on screen for long lists.
	rows := height - 3
	if rows < 1 {
		rows = 1
	}
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}

	for i := start; i < len(m.visible) && i < start+rows; i++ {
		entry := m.entries[m.visible[i]]
		if i == m.cursor {
			sb.WriteString(CursorStyle.Render("> " + entry.Filename))
		} else {
			sb.WriteString(RowStyle.Render("  " + entry.Filename))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// detailView renders the selected entry's metadata.
func (m AppModel) detailView() string {
	entry, ok := m.Selected()
	if !ok {
		return DimStyle.Render("nothing selected")
	}

	desc := entry.Description
	if desc == "" {
		desc = DimStyle.Render("(no description)")
	} else {
		desc = ValueStyle.Render(desc)
	}

	return strings.Join([]string{
		TitleStyle.Render(entry.Title),
		"",
		LabelStyle.Render("File") + ValueStyle.Render(entry.Filename),
		LabelStyle.Render("Description") + desc,
	}, "\n")
}

// statusView renders the bottom bar with counts, filter state, and key hints.
func (m AppModel) statusView() string {
	left := fmt.Sprintf("%d/%d snippets", len(m.visible), len(m.entries))
	if m.filtering {
		left += "  " + FilterStyle.Render("/"+m.filter+"▌")
	} else if m.filter != "" {
		left += "  " + FilterStyle.Render("/"+m.filter)
	}
	hints := DimStyle.Render("j/k move · / filter · q quit")
	return StatusBarStyle.Width(m.width).Render(left + "  " + hints)
}
