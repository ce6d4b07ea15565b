package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// ══════════════════════════════════════════════════════════════════════════════
// COLOR PALETTE - Dracula-inspired
// ══════════════════════════════════════════════════════════════════════════════

var (
	ColorBg          = lipgloss.Color("#282A36")
	ColorBgSubtle    = lipgloss.Color("#363949")
	ColorBgHighlight = lipgloss.Color("#44475A")
	ColorText        = lipgloss.Color("#F8F8F2")
	ColorSubtext     = lipgloss.Color("#BFBFBF")
	ColorMuted       = lipgloss.Color("#6272A4")

	ColorPrimary = lipgloss.Color("#BD93F9")
	ColorInfo    = lipgloss.Color("#8BE9FD")
	ColorSuccess = lipgloss.Color("#50FA7B")
	ColorWarning = lipgloss.Color("#FFB86C")
	ColorDanger  = lipgloss.Color("#FF5555")
)

// Theme carries the renderer and the adaptive colors every view uses
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Sheet     lipgloss.AdaptiveColor // sheet body background
	Indicator lipgloss.AdaptiveColor
	Gated     lipgloss.AdaptiveColor // bottom inset band
	Success   lipgloss.AdaptiveColor
	Warning   lipgloss.AdaptiveColor
}

// DefaultTheme builds the stock theme for r; nil uses the default renderer
func DefaultTheme(r *lipgloss.Renderer) Theme {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return Theme{
		Renderer:  r,
		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"},
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"},
		Border:    lipgloss.AdaptiveColor{Light: "#DDDDDD", Dark: "#44475A"},
		Sheet:     lipgloss.AdaptiveColor{Light: "#EEEEF5", Dark: "#363949"},
		Indicator: lipgloss.AdaptiveColor{Light: "#999999", Dark: "#6272A4"},
		Gated:     lipgloss.AdaptiveColor{Light: "#F5E6E6", Dark: "#3D1A1A"},
		Success:   lipgloss.AdaptiveColor{Light: "#1A7F37", Dark: "#50FA7B"},
		Warning:   lipgloss.AdaptiveColor{Light: "#B35900", Dark: "#FFB86C"},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// BADGES AND BARS
// ══════════════════════════════════════════════════════════════════════════════

// RenderDetentBadge renders a detent label, highlighted when it is current
func RenderDetentBadge(label string, current bool, t Theme) string {
	style := t.Renderer.NewStyle().Padding(0, 1)
	if current {
		return style.Bold(true).Foreground(t.Primary).Background(ColorBgHighlight).Render(label)
	}
	return style.Foreground(t.Subtext).Render(label)
}

// RenderMiniBar renders a mini horizontal bar for a value between 0 and 1
func RenderMiniBar(value float64, width int, t Theme) string {
	if width <= 0 {
		return ""
	}
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}

	filled := int(value * float64(width))
	if filled > width {
		filled = width
	}

	var barColor lipgloss.AdaptiveColor
	switch {
	case value >= 0.75:
		barColor = t.Success
	case value >= 0.25:
		barColor = t.Primary
	default:
		barColor = t.Secondary
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return t.Renderer.NewStyle().Foreground(barColor).Render(bar)
}

// RenderDivider renders a horizontal divider line
func RenderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return lipgloss.NewStyle().
		Foreground(ColorBgHighlight).
		Render(strings.Repeat("─", width))
}

// truncate shortens s to at most width cells
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// center pads s on both sides to width cells
func center(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return truncate(s, width)
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-w-left)
}
