package output

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/logsentinel/logsentinel/pkg/model"
)

// Style names handed to renderers.
const (
	StyleRed    = "red"
	StyleYellow = "yellow"
	StyleGreen  = "green"
	StyleBlue   = "blue"
	StyleDim    = "dim"
)

// MaxMessageWidth is the longest message displayed without truncation.
const MaxMessageWidth = 80

// Ellipsis marks a truncated message.
const Ellipsis = "…"

var levelStyles = map[model.Level]string{
	model.LevelError:    StyleRed,
	model.LevelCritical: StyleRed,
	model.LevelWarning:  StyleYellow,
	model.LevelInfo:     StyleGreen,
	model.LevelDebug:    StyleBlue,
}

// LevelStyle returns the display style name for a level. Levels without a
// dedicated style, UNKNOWN included, are dim.
func LevelStyle(level model.Level) string {
	if s, ok := levelStyles[level]; ok {
		return s
	}
	return StyleDim
}

// Truncate shortens messages longer than MaxMessageWidth characters to
// MaxMessageWidth-1 characters followed by an ellipsis.
func Truncate(message string) string {
	runes := []rune(message)
	if len(runes) <= MaxMessageWidth {
		return message
	}
	return string(runes[:MaxMessageWidth-1]) + Ellipsis
}

// terminalStyle maps a style name to a lipgloss style on r.
func terminalStyle(r *lipgloss.Renderer, name string) lipgloss.Style {
	s := r.NewStyle()
	switch name {
	case StyleRed:
		return s.Foreground(lipgloss.Color("1"))
	case StyleYellow:
		return s.Foreground(lipgloss.Color("3"))
	case StyleGreen:
		return s.Foreground(lipgloss.Color("2"))
	case StyleBlue:
		return s.Foreground(lipgloss.Color("4"))
	default:
		return s.Faint(true)
	}
}
