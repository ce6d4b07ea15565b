package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// HelpOverlayModel shows the playground help as rendered markdown
type HelpOverlayModel struct {
	visible bool
	width   int
	height  int
	theme   Theme
	keys    keyMap

	// rendered caches the glamour output for the current width
	rendered      string
	renderedWidth int
}

// NewHelpOverlayModel creates a new help overlay
func NewHelpOverlayModel(theme Theme, keys keyMap) HelpOverlayModel {
	return HelpOverlayModel{
		theme: theme,
		keys:  keys,
	}
}

// Show makes the help overlay visible
func (m *HelpOverlayModel) Show() {
	m.visible = true
}

// Hide makes the help overlay invisible
func (m *HelpOverlayModel) Hide() {
	m.visible = false
}

// Toggle toggles visibility
func (m *HelpOverlayModel) Toggle() {
	m.visible = !m.visible
}

// IsVisible returns true if overlay is showing
func (m HelpOverlayModel) IsVisible() bool {
	return m.visible
}

// SetSize sets dimensions
func (m *HelpOverlayModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles input
func (m HelpOverlayModel) Update(msg tea.Msg) (HelpOverlayModel, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	switch msg.(type) {
	case tea.KeyMsg:
		// Any key closes help
		m.visible = false
	}

	return m, nil
}

// Markdown returns the help text before rendering
func (m HelpOverlayModel) Markdown() string {
	var b strings.Builder
	b.WriteString("# Bottom sheet playground\n\n")
	b.WriteString("Drag the sheet with the mouse. Rows are points scaled by the row size; ")
	b.WriteString("a release faster than the velocity threshold moves exactly one detent, ")
	b.WriteString("a slower one settles on the nearest detent.\n\n")

	b.WriteString("## Keys\n\n")
	b.WriteString("| key | action |\n|---|---|\n")
	for _, group := range m.keys.FullHelp() {
		for _, binding := range group {
			writeBinding(&b, binding)
		}
	}

	b.WriteString("\n## Mouse\n\n")
	b.WriteString("- drag the sheet body to resize it\n")
	b.WriteString("- click the indicator bar to step through detents\n")
	b.WriteString("- drags that start in the shaded bottom band are gated unless the config allows them\n")
	return b.String()
}

func writeBinding(b *strings.Builder, binding key.Binding) {
	h := binding.Help()
	fmt.Fprintf(b, "| `%s` | %s |\n", h.Key, h.Desc)
}

// render produces the glamour output, falling back to the raw markdown
func (m *HelpOverlayModel) render() string {
	wrap := m.width - 8
	if wrap < 30 {
		wrap = 30
	}
	if m.rendered != "" && m.renderedWidth == wrap {
		return m.rendered
	}

	md := m.Markdown()
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	m.rendered = strings.TrimRight(out, "\n")
	m.renderedWidth = wrap
	return m.rendered
}

// View renders the help overlay
func (m *HelpOverlayModel) View() string {
	if !m.visible {
		return ""
	}

	body := m.render()
	hintStyle := m.theme.Renderer.NewStyle().Faint(true).Italic(true)
	body += "\n\n" + hintStyle.Render("[Press any key to close]")

	boxStyle := m.theme.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Border).
		Padding(0, 1)

	return boxStyle.Render(body)
}
