// Package tui renders a live moisture monitor in the terminal.
//
// The model subscribes to a [Source] (normally a *moistureboard.Monitor),
// shows the current page of readings with their statistics, and maps keys
// onto the monitor's setters.
package tui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jpalmerr/moistureboard"
)

// limitSteps are the page sizes cycled by + and -.
var limitSteps = []int{10, 20, 50, 100}

// Source is the monitor surface the view drives.
type Source interface {
	State() moistureboard.State
	Updates() <-chan moistureboard.State
	SetPage(page float64)
	UpdatePage(fn func(current int) float64)
	SetLimit(limit float64)
	SetEnabled(enabled bool)
	Refetch(ctx context.Context) *moistureboard.Page
}

type stateMsg moistureboard.State

type closedMsg struct{}

type refetchDoneMsg struct {
	ok bool
}

// Model is the bubbletea model for the watch view.
type Model struct {
	src   Source
	ctx   context.Context
	title string

	state   moistureboard.State
	spinner spinner.Model
	table   table.Model
	width   int
	height  int

	// lastRefetch is the outcome of the most recent manual refresh.
	lastRefetch string
	quitting    bool
}

// New creates a Model over src. ctx bounds manual refreshes.
func New(ctx context.Context, src Source, title string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorInfo)

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Timestamp", Width: 28},
			{Title: "Moisture", Width: 12},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
		table.WithWidth(44),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorMuted).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("255")).
		Background(colorPrimary)
	t.SetStyles(styles)

	m := Model{
		src:     src,
		ctx:     ctx,
		title:   title,
		spinner: s,
		table:   t,
	}
	m.setState(src.State())
	return m
}

// Init starts the spinner and the update subscription.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForState(m.src.Updates()))
}

func waitForState(ch <-chan moistureboard.State) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-ch
		if !ok {
			return closedMsg{}
		}
		return stateMsg(st)
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		m.setState(moistureboard.State(msg))
		return m, waitForState(m.src.Updates())

	case closedMsg:
		m.quitting = true
		return m, tea.Quit

	case refetchDoneMsg:
		if msg.ok {
			m.lastRefetch = "refreshed " + time.Now().Format(time.TimeOnly)
		} else {
			m.lastRefetch = "refresh did not complete"
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// title, status, stats box, help and margins
		if h := msg.Height - 14; h > 3 {
			m.table.SetHeight(h)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "n", "right":
		if total := m.state.TotalPages(); total > 0 && m.state.Page >= total {
			return m, nil
		}
		m.src.UpdatePage(func(current int) float64 { return float64(current + 1) })
		return m, nil

	case "p", "left":
		if m.state.Page <= 1 {
			return m, nil
		}
		m.src.UpdatePage(func(current int) float64 { return float64(current - 1) })
		return m, nil

	case "+", "=":
		return m.stepLimit(1), nil

	case "-", "_":
		return m.stepLimit(-1), nil

	case "r":
		m.lastRefetch = ""
		src, ctx := m.src, m.ctx
		return m, func() tea.Msg {
			return refetchDoneMsg{ok: src.Refetch(ctx) != nil}
		}

	case "e":
		m.src.SetEnabled(!m.state.Enabled)
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// stepLimit moves to the next page size in dir and goes back to page 1.
func (m Model) stepLimit(dir int) Model {
	next := nextLimit(m.state.Limit, dir)
	if next == m.state.Limit {
		return m
	}
	m.src.SetLimit(float64(next))
	m.src.SetPage(1)
	return m
}

func nextLimit(current, dir int) int {
	if dir > 0 {
		for _, l := range limitSteps {
			if l > current {
				return l
			}
		}
		return current
	}
	for i := len(limitSteps) - 1; i >= 0; i-- {
		if limitSteps[i] < current {
			return limitSteps[i]
		}
	}
	return current
}

func (m *Model) setState(st moistureboard.State) {
	m.state = st

	rows := make([]table.Row, 0, len(st.Data))
	for _, r := range st.Data {
		rows = append(rows, table.Row{r.Timestamp, formatMoisture(r)})
	}
	m.table.SetRows(rows)
}

// View renders the watch screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("  ")
	b.WriteString(m.statusLine())
	b.WriteString("\n\n")

	if m.state.Error != nil {
		b.WriteString(errorStyle.Render("✗ " + m.state.Error.Error()))
		b.WriteString("\n\n")
	}

	b.WriteString(statsBoxStyle.Render(m.statsView()))
	b.WriteString("\n")
	b.WriteString(m.pageLine())
	b.WriteString("\n")
	b.WriteString(m.table.View())
	b.WriteString("\n\n")
	b.WriteString(helpView())

	return b.String()
}

func (m Model) statusLine() string {
	phase := m.state.Phase()
	style := phaseStyles[phase.String()]

	var text string
	switch phase {
	case moistureboard.PhaseLoading:
		text = m.spinner.View() + " Loading"
	case moistureboard.PhaseRefreshing:
		text = m.spinner.View() + " Refreshing"
	case moistureboard.PhaseError:
		text = "● Error"
	case moistureboard.PhaseUpToDate:
		text = "● Up to date"
	default:
		text = "○ Idle"
	}

	line := style.Render(text)
	if !m.state.FetchedAt.IsZero() {
		line += mutedStyle.Render("  fetched " + humanize.Time(m.state.FetchedAt))
	}
	if !m.state.Enabled {
		line += mutedStyle.Render("  (paused)")
	}
	if m.lastRefetch != "" {
		line += mutedStyle.Render("  " + m.lastRefetch)
	}
	return line
}

func (m Model) statsView() string {
	stats := m.state.Stats()

	row := func(label, value string) string {
		return statLabelStyle.Render(label) + statValueStyle.Render(value)
	}

	lines := []string{
		row("Average", formatFloat(stats.Average)),
		row("Min", formatFloat(stats.Min)),
		row("Max", formatFloat(stats.Max)),
		row("Range", formatFloat(stats.Range)),
		row("Trend", formatTrend(stats.Trend)),
		row("Readings", humanize.Comma(int64(stats.Count))),
	}
	if stats.LastUpdated != nil {
		lines = append(lines, row("Latest", *stats.LastUpdated))
	}
	return strings.Join(lines, "\n")
}

func (m Model) pageLine() string {
	page := fmt.Sprintf("Page %d", m.state.Page)
	if total := m.state.TotalPages(); total > 0 {
		page = fmt.Sprintf("Page %d of %s", m.state.Page, humanize.Comma(int64(total)))
	}
	line := page + fmt.Sprintf(" · %d per page", m.state.Limit)
	if m.state.Meta != nil && m.state.Meta.TotalItems > 0 {
		line += " · " + humanize.Comma(int64(m.state.Meta.TotalItems)) + " readings"
	}
	return mutedStyle.Render(line)
}

func helpView() string {
	keys := []struct{ key, desc string }{
		{"n/p", "page"},
		{"+/-", "page size"},
		{"r", "refresh"},
		{"e", "pause/resume"},
		{"q", "quit"},
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, helpKeyStyle.Render(k.key)+" "+mutedStyle.Render(k.desc))
	}
	return strings.Join(parts, "  ")
}

func formatMoisture(r moistureboard.Reading) string {
	if !r.HasFiniteMoisture() {
		return "n/a"
	}
	return humanize.FormatFloat("#,###.##", *r.Moisture)
}

func formatFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return humanize.FormatFloat("#,###.##", *v)
}

func formatTrend(v *float64) string {
	if v == nil {
		return "-"
	}
	switch {
	case *v > 0:
		return "▲ +" + humanize.FormatFloat("#,###.##", *v)
	case *v < 0:
		return "▼ -" + humanize.FormatFloat("#,###.##", math.Abs(*v))
	default:
		return "■ 0"
	}
}
