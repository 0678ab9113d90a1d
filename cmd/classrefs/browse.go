package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/classrefs/scan"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	parentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse <archive>",
		Short: "Interactively browse the classes of one archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return fmt.Errorf("browse needs a terminal; use classrefs %s instead", args[0])
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			// The alternate screen owns the terminal; keep logs out of it.
			scan.SetLogger(zap.NewNop())

			m := newBrowseModel(cmd.Context(), args[0], cfg.ScanOptions())
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}

type browseState int

const (
	stateList browseState = iota
	stateFilter
	stateDetail
)

type browseModel struct {
	ctx      context.Context
	err      error
	archive  string
	opts     scan.Options
	items    []scan.Item
	visible  []int
	filter   textinput.Model
	selected int
	offset   int
	height   int
	loaded   bool
	state    browseState
}

type loadedMsg struct {
	err   error
	items []scan.Item
}

func newBrowseModel(ctx context.Context, archive string, opts scan.Options) *browseModel {
	ti := textinput.New()
	ti.Placeholder = "filter by name"
	ti.Prompt = "/ "
	ti.Width = 40

	return &browseModel{
		ctx:     ctx,
		archive: archive,
		opts:    opts,
		filter:  ti,
		height:  20,
		state:   stateList,
	}
}

func (m *browseModel) Init() tea.Cmd {
	return m.load
}

func (m *browseModel) load() tea.Msg {
	items, err := scan.Archive(m.ctx, m.archive, m.opts)
	return loadedMsg{items: items, err: err}
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-6, 1)
		m.scroll()

	case loadedMsg:
		m.loaded = true
		m.err = msg.err
		m.items = msg.items
		m.applyFilter()

	case tea.KeyMsg:
		if m.state == stateFilter {
			return m.updateFilter(msg)
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.state == stateList && m.selected > 0 {
				m.selected--
				m.scroll()
			}

		case "down", "j":
			if m.state == stateList && m.selected < len(m.visible)-1 {
				m.selected++
				m.scroll()
			}

		case "/":
			if m.state == stateList {
				m.state = stateFilter
				return m, m.filter.Focus()
			}

		case "enter":
			switch m.state {
			case stateList:
				if len(m.visible) > 0 {
					m.state = stateDetail
				}
			case stateDetail:
				m.state = stateList
			}

		case "esc":
			if m.state == stateDetail {
				m.state = stateList
			}
		}
	}

	return m, nil
}

func (m *browseModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter", "esc":
		m.filter.Blur()
		m.state = stateList
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *browseModel) applyFilter() {
	query := strings.ToLower(m.filter.Value())
	m.visible = m.visible[:0]
	for i, item := range m.items {
		if query == "" || strings.Contains(strings.ToLower(item.Name), query) {
			m.visible = append(m.visible, i)
		}
	}
	m.selected = min(m.selected, max(len(m.visible)-1, 0))
	m.scroll()
}

// scroll keeps the selected row inside the window.
func (m *browseModel) scroll() {
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+m.height {
		m.offset = m.selected - m.height + 1
	}
}

func (m *browseModel) current() (scan.Item, bool) {
	if m.selected >= len(m.visible) {
		return scan.Item{}, false
	}
	return m.items[m.visible[m.selected]], true
}

func (m *browseModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if !m.loaded {
		return "Loading " + m.archive + "..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("classrefs"))
	b.WriteString(" ")
	b.WriteString(m.archive)
	b.WriteString(fmt.Sprintf(" (%d of %d classes)\n\n", len(m.visible), len(m.items)))

	switch m.state {
	case stateList, stateFilter:
		if m.state == stateFilter || m.filter.Value() != "" {
			b.WriteString(m.filter.View())
			b.WriteString("\n\n")
		}
		end := min(m.offset+m.height, len(m.visible))
		for row := m.offset; row < end; row++ {
			item := m.items[m.visible[row]]
			line := item.Name
			if item.Err != nil {
				line += " " + errorStyle.Render("(failed)")
			}
			if row == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • / filter • enter details • q quit"))

	case stateDetail:
		item, ok := m.current()
		if !ok {
			break
		}
		b.WriteString(nameStyle.Render(item.Name))
		b.WriteString("\n\n")
		if item.Err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", item.Err)))
		} else {
			parent := item.Refs.Parent
			if parent == "" {
				parent = "(none)"
			}
			b.WriteString("extends ")
			b.WriteString(parentStyle.Render(parent))
			b.WriteString("\n\n")
			b.WriteString(fmt.Sprintf("%d referenced types:\n", len(item.Refs.Names)))
			for _, name := range item.Refs.Names {
				b.WriteString("  ")
				b.WriteString(name)
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter/esc back • q quit"))
	}

	return b.String()
}
