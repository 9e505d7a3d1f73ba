package main

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/spektr-org/dreamlight/config"
	"github.com/spektr-org/dreamlight/dashboard"
	"github.com/spektr-org/dreamlight/engine"
	"github.com/spektr-org/dreamlight/views"
)

// ── browse ───────────────────────────────────────────────────────────────────

func newBrowseCommand(loadPage pageLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Explore the dashboard in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := loadPage(cmd.Context())
			if err != nil {
				return err
			}
			defer page.Close()

			_, err = tea.NewProgram(newModel(page), tea.WithAltScreen()).Run()
			return err
		},
	}
}

// target is one highlightable category.
type target struct {
	category string
	group    string
}

type model struct {
	widgets   []*dashboard.Widget
	active    int
	highlight int // index into targets, -1 for none
	width     int
	status    string
}

func newModel(page *dashboard.Page) model {
	return model{widgets: page.Widgets(), highlight: -1, width: 80}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	w := m.widgets[m.active]
	m.status = ""

	var err error
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.active = (m.active + 1) % len(m.widgets)
		m.highlight = -1
	case "shift+tab":
		m.active = (m.active + len(m.widgets) - 1) % len(m.widgets)
		m.highlight = -1
	case "left", "h":
		err = stepMonth(w, -1)
	case "right", "l":
		err = stepMonth(w, 1)
	case "c":
		err = nextCity(w)
	case "down", "j":
		err = m.stepHighlight(w, 1)
	case "up", "k":
		err = m.stepHighlight(w, -1)
	case "esc":
		m.highlight = -1
		err = w.Dispatch(dashboard.ClearHighlight())
	}
	if err != nil {
		m.status = err.Error()
	}
	return m, nil
}

// stepMonth moves the committed month. Pointer widgets click on the
// neighbouring month; the city widget walks its month options.
func stepMonth(w *dashboard.Widget, delta int) error {
	snap := w.Snapshot()
	switch w.Name {
	case dashboard.WidgetLight:
		return nil
	case dashboard.WidgetCity:
		i := slices.Index(snap.MonthOptions, snap.Month)
		if i < 0 || len(snap.MonthOptions) == 0 {
			return nil
		}
		i = (i + delta + len(snap.MonthOptions)) % len(snap.MonthOptions)
		return w.Dispatch(dashboard.SelectMonth(snap.MonthOptions[i]))
	}
	month := snap.Month
	if month == 0 {
		month = 1 - delta
	}
	return w.Dispatch(dashboard.Click(w.Axis().Position(month + delta)))
}

func nextCity(w *dashboard.Widget) error {
	c, ok := w.Controller(config.CityRadial)
	if !ok {
		return nil
	}
	radial, ok := c.(*views.CityRadial)
	if !ok {
		return nil
	}
	cities := radial.Table().Cities()
	if len(cities) == 0 {
		return nil
	}
	i := slices.Index(cities, w.Snapshot().City)
	return w.Dispatch(dashboard.SelectCity(cities[(i+1)%len(cities)]))
}

func (m *model) stepHighlight(w *dashboard.Widget, delta int) error {
	targets := highlightTargets(w)
	if len(targets) == 0 {
		return nil
	}
	m.highlight = (m.highlight + delta + len(targets)) % len(targets)
	t := targets[m.highlight]
	return w.Dispatch(dashboard.HighlightCategory(t.category, t.group))
}

// highlightTargets lists the categories currently drawn by w.
func highlightTargets(w *dashboard.Widget) []target {
	var out []target
	var groups []string
	if c, ok := w.Controller(config.LightGroups); ok {
		if lg, ok := c.(*views.LightGroups); ok {
			groups = lg.Groups()
		}
	}
	for _, name := range w.ViewNames() {
		cmds, _ := w.Frame(name)
		for _, c := range cmds {
			switch {
			case c.Shape == views.ShapeRect && strings.HasPrefix(c.ID, "bar-"):
				out = append(out, target{category: strings.TrimPrefix(c.ID, "bar-")})
			case c.Shape == views.ShapeArc && strings.HasPrefix(c.ID, "slice-"):
				id := strings.TrimPrefix(c.ID, "slice-")
				t := target{category: id}
				for _, g := range groups {
					if rest, ok := strings.CutPrefix(id, g+"-"); ok {
						t = target{category: rest, group: g}
						break
					}
				}
				out = append(out, t)
			}
		}
	}
	return out
}

func (m model) View() string {
	var tabs []string
	for i, w := range m.widgets {
		style := tabStyle
		if i == m.active {
			style = activeTab
		}
		tabs = append(tabs, style.Render(w.Name))
	}

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	w := m.widgets[m.active]
	if !w.Loaded() {
		b.WriteString(errorStyle.Render("failed to load: " + w.Err.Error()))
		b.WriteString("\n")
	} else {
		b.WriteString(mutedStyle.Render(describe(w)))
		b.WriteString("\n\n")
		for _, name := range w.ViewNames() {
			cmds, _ := w.Frame(name)
			b.WriteString(preview(name, cmds, max(10, m.width/2)))
			b.WriteString("\n")
		}
	}

	if m.status != "" {
		b.WriteString(errorStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render("tab widget · ←/→ month · ↑/↓ highlight · esc clear · c city · q quit"))
	return b.String()
}

// describe summarises a widget's selection in one line.
func describe(w *dashboard.Widget) string {
	snap := w.Snapshot()
	var parts []string
	if snap.City != "" {
		parts = append(parts, "city "+snap.City)
	}
	if snap.Month != 0 {
		state := "unlocked"
		if snap.Locked {
			state = "locked"
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", engine.MonthName(snap.Month), state))
	}
	if snap.Highlight != "" {
		h := snap.Highlight
		if snap.HighlightGroup != "" {
			h += " in " + snap.HighlightGroup
		}
		parts = append(parts, "highlight "+h)
	}
	if len(parts) == 0 {
		return "no selection"
	}
	return strings.Join(parts, " · ")
}
