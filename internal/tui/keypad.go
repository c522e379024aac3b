package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/timesdrill/internal/session"
)

const keyWidth = 5

var keypadRows = [][]string{
	{"7", "8", "9"},
	{"4", "5", "6"},
	{"1", "2", "3"},
	{"", "0", session.ClearToken},
}

var (
	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D0D0D0")).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	blankKeyStyle = keyStyle.BorderForeground(lipgloss.Color("#262626"))
)

// renderKeypad draws the on-screen keypad. The blank key is a filler.
func renderKeypad() string {
	rows := make([]string, 0, len(keypadRows))
	for _, row := range keypadRows {
		keys := make([]string, 0, len(row))
		for _, label := range row {
			style := keyStyle
			if label == "" {
				style = blankKeyStyle
			}
			keys = append(keys, style.Render(centerLabel(label, keyWidth)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, keys...))
	}
	return lipgloss.JoinVertical(lipgloss.Center, rows...)
}

func centerLabel(label string, width int) string {
	w := runewidth.StringWidth(label)
	if w >= width {
		return label
	}
	left := (width - w) / 2
	return runewidth.FillRight(runewidth.FillLeft(label, left+w), width)
}
