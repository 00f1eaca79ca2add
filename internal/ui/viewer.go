package ui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/myfetch/internal/report"
)

// Viewer shows one section at a time. Sections are scanned when first
// shown and again only when the user presses r.
type Viewer struct {
	ctx      context.Context
	reporter *report.Reporter
	fmt      Formatter
	sections []Section

	active  int
	bodies  map[int]string
	loading bool
	offset  int
	width   int
	height  int
}

func NewViewer(ctx context.Context, r *report.Reporter, f Formatter) *Viewer {
	return &Viewer{
		ctx:      ctx,
		reporter: r,
		fmt:      f,
		sections: Sections,
		bodies:   make(map[int]string),
		width:    100,
		height:   40,
	}
}

// Messages
type renderedMsg struct {
	index int
	body  string
}

func (v *Viewer) scan(i int) tea.Cmd {
	v.loading = true
	sec, ctx, r, f := v.sections[i], v.ctx, v.reporter, v.fmt
	return func() tea.Msg {
		return renderedMsg{index: i, body: sec.Render(ctx, r, f)}
	}
}

func (v *Viewer) Init() tea.Cmd { return v.scan(v.active) }

func (v *Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width, v.height = msg.Width, msg.Height
	case renderedMsg:
		v.bodies[msg.index] = msg.body
		if msg.index == v.active {
			v.loading = false
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return v, tea.Quit
		case "tab", "right", "l":
			return v, v.show((v.active + 1) % len(v.sections))
		case "shift+tab", "left", "h":
			return v, v.show((v.active + len(v.sections) - 1) % len(v.sections))
		case "down", "j":
			v.offset++
			v.clampOffset()
		case "up", "k":
			if v.offset > 0 {
				v.offset--
			}
		case "r":
			return v, v.scan(v.active)
		}
	}
	return v, nil
}

func (v *Viewer) show(i int) tea.Cmd {
	v.active, v.offset = i, 0
	if _, ok := v.bodies[i]; ok {
		v.loading = false
		return nil
	}
	return v.scan(i)
}

func (v *Viewer) clampOffset() {
	lines := strings.Count(v.bodies[v.active], "\n")
	if limit := lines - v.bodyHeight(); v.offset > limit {
		v.offset = limit
	}
	if v.offset < 0 {
		v.offset = 0
	}
}

// bodyHeight leaves room for the tab bar and the help line.
func (v *Viewer) bodyHeight() int {
	if h := v.height - 4; h > 1 {
		return h
	}
	return 1
}

// Styles
var (
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("244"))
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("45"))
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

func (v *Viewer) View() string {
	tabs := make([]string, 0, len(v.sections))
	for i, s := range v.sections {
		if i == v.active {
			tabs = append(tabs, activeTabStyle.Render(s.Title))
		} else {
			tabs = append(tabs, tabStyle.Render(s.Title))
		}
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	body := v.bodies[v.active]
	if v.loading && body == "" {
		body = "\nscanning..."
	}
	lines := strings.Split(body, "\n")
	if v.offset < len(lines) {
		lines = lines[v.offset:]
	}
	if len(lines) > v.bodyHeight() {
		lines = lines[:v.bodyHeight()]
	}

	help := "tab/←→ section  ↑↓ scroll  r rescan  q quit"
	if v.loading {
		help = "scanning...  " + help
	}
	return lipgloss.JoinVertical(lipgloss.Left, bar, strings.Join(lines, "\n"), helpStyle.Render(help))
}

// RunViewer starts the interactive viewer on the alternate screen.
func RunViewer(ctx context.Context, r *report.Reporter, f Formatter) error {
	prog := tea.NewProgram(NewViewer(ctx, r, f), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := prog.Run()
	return err
}
