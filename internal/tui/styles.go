package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("62")  // purple
	colorMuted   = lipgloss.Color("241") // gray
	colorSuccess = lipgloss.Color("78")  // green
	colorError   = lipgloss.Color("203") // red
	colorInfo    = lipgloss.Color("39")  // blue
)

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

var mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)

var errorStyle = lipgloss.NewStyle().
	Foreground(colorError).
	Bold(true)

var statLabelStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Width(9)

var statValueStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Bold(true)

var statsBoxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(0, 1)

var helpKeyStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("212")).
	Bold(true)

// phaseStyles colors the status line per phase.
var phaseStyles = map[string]lipgloss.Style{
	"loading":    lipgloss.NewStyle().Foreground(colorInfo),
	"refreshing": lipgloss.NewStyle().Foreground(colorInfo),
	"error":      lipgloss.NewStyle().Foreground(colorError),
	"up_to_date": lipgloss.NewStyle().Foreground(colorSuccess),
	"idle":       mutedStyle,
}
