package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/s0up4200/cinemactl/cinema"
	"github.com/s0up4200/cinemactl/screen"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	activeTab     = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("5"))
	inactiveTab   = lipgloss.NewStyle().Faint(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	hintStyle     = lipgloss.NewStyle().Faint(true)
)

type loadedMsg struct {
	pane int
	ok   bool
}

type deletedMsg struct {
	pane int
	id   string
	ok   bool
}

// Model is the tabbed terminal UI over every screen
type Model struct {
	ctx   context.Context
	panes []pane

	active  int
	cursors []int
	// pending holds the row id awaiting delete confirmation
	pending string
	status  string

	spinner spinner.Model
	width   int
	height  int
}

// New builds the UI over a client. Screens share opts.
func New(ctx context.Context, client *cinema.Client, opts ...screen.Option) Model {
	return newModel(ctx, panesFor(client, opts...))
}

func newModel(ctx context.Context, panes []pane) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))

	return Model{
		ctx:     ctx,
		panes:   panes,
		cursors: make([]int, len(panes)),
		spinner: sp,
	}
}

// Run starts the program and blocks until the user quits
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.panes)+1)
	for i := range m.panes {
		cmds = append(cmds, m.loadCmd(i))
	}
	cmds = append(cmds, m.spinner.Tick)
	return tea.Batch(cmds...)
}

func (m Model) loadCmd(i int) tea.Cmd {
	p := m.panes[i]
	ctx := m.ctx
	return func() tea.Msg {
		return loadedMsg{pane: i, ok: p.Load(ctx)}
	}
}

func (m Model) deleteCmd(i int, id string) tea.Cmd {
	p := m.panes[i]
	ctx := m.ctx
	return func() tea.Msg {
		return deletedMsg{pane: i, id: id, ok: p.Remove(ctx, id)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case loadedMsg:
		m.clampCursor(msg.pane)
		return m, nil

	case deletedMsg:
		p := m.panes[msg.pane]
		if msg.ok {
			m.status = fmt.Sprintf("Deleted %s from %s", msg.id, p.Name())
		} else {
			m.status = p.Err()
		}
		m.clampCursor(msg.pane)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	if m.pending != "" {
		id := m.pending
		m.pending = ""
		if key == "y" || key == "Y" {
			m.status = "Deleting " + id + "..."
			return m, m.deleteCmd(m.active, id)
		}
		m.status = "Deletion cancelled"
		return m, nil
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "tab", "right", "l":
		m.active = (m.active + 1) % len(m.panes)
		m.status = ""
	case "shift+tab", "left", "h":
		m.active = (m.active - 1 + len(m.panes)) % len(m.panes)
		m.status = ""
	case "down", "j":
		if m.cursors[m.active] < len(m.panes[m.active].Rows())-1 {
			m.cursors[m.active]++
		}
	case "up", "k":
		if m.cursors[m.active] > 0 {
			m.cursors[m.active]--
		}
	case "r":
		m.status = ""
		return m, m.loadCmd(m.active)
	case "d":
		p := m.panes[m.active]
		rows := p.Rows()
		if !p.Deletable() || len(rows) == 0 {
			return m, nil
		}
		r := rows[min(m.cursors[m.active], len(rows)-1)]
		m.pending = r.id
		m.status = fmt.Sprintf("Delete %q? [y/N]", r.title)
	}

	return m, nil
}

func (m *Model) clampCursor(i int) {
	n := len(m.panes[i].Rows())
	switch {
	case n == 0:
		m.cursors[i] = 0
	case m.cursors[i] >= n:
		m.cursors[i] = n - 1
	}
}

func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("cinemactl"))
	sb.WriteString("\n\n")
	sb.WriteString(m.tabsView())
	sb.WriteString("\n\n")
	sb.WriteString(m.paneView())
	sb.WriteString("\n")

	if m.status != "" {
		style := hintStyle
		if m.pending != "" {
			style = warnStyle
		}
		sb.WriteString(style.Render(m.status))
		sb.WriteString("\n")
	}
	sb.WriteString(hintStyle.Render("tab/←→ switch • ↑↓/jk move • r refresh • d delete • q quit"))
	return sb.String()
}

func (m Model) tabsView() string {
	tabs := make([]string, len(m.panes))
	for i, p := range m.panes {
		if i == m.active {
			tabs[i] = activeTab.Render(p.Name())
		} else {
			tabs[i] = inactiveTab.Render(p.Name())
		}
	}
	return strings.Join(tabs, "  ")
}

func (m Model) paneView() string {
	p := m.panes[m.active]
	rows := p.Rows()

	var sb strings.Builder
	switch p.State() {
	case screen.StateIdle:
		return hintStyle.Render("Not loaded yet. Press r to load.") + "\n"
	case screen.StateLoading:
		if len(rows) == 0 {
			return m.spinner.View() + " Loading " + strings.ToLower(p.Name()) + "...\n"
		}
	case screen.StateError:
		// The previous collection stays visible below the error
		sb.WriteString(errorStyle.Render(p.Err()))
		sb.WriteString("\n\n")
	}

	if len(rows) == 0 {
		sb.WriteString(hintStyle.Render("Nothing here yet."))
		sb.WriteString("\n")
		return sb.String()
	}

	for i, r := range rows {
		if i == m.cursors[m.active] {
			sb.WriteString(selectedStyle.Render("> " + r.title))
		} else {
			sb.WriteString("  " + r.title)
		}
		if r.desc != "" {
			sb.WriteString(hintStyle.Render("  " + r.desc))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
