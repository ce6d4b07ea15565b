package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/Dicklesworthstone/bottomsheet/pkg/model"
)

// JumpItem is one detent offered by the jump prompt
type JumpItem struct {
	Detent model.Detent
	Label  string
}

// JumpPromptModel is the "/" overlay that picks a detent by fuzzy label
type JumpPromptModel struct {
	allItems      []JumpItem
	filteredItems []JumpItem

	searchInput   textinput.Model
	selectedIndex int

	width int
	theme Theme

	confirmed    bool
	selectedItem *JumpItem
}

// NewJumpPromptModel creates a prompt over items
func NewJumpPromptModel(items []JumpItem, theme Theme) JumpPromptModel {
	ti := textinput.New()
	ti.Placeholder = "detent label or size..."
	ti.Focus()
	ti.CharLimit = 32
	ti.Width = 30

	return JumpPromptModel{
		allItems:      items,
		filteredItems: items,
		searchInput:   ti,
		theme:         theme,
		width:         40,
	}
}

// SetSize sets the prompt width
func (m *JumpPromptModel) SetSize(width int) {
	m.width = width
	inputWidth := width - 10
	if inputWidth < 10 {
		inputWidth = 10
	}
	if inputWidth > 40 {
		inputWidth = 40
	}
	m.searchInput.Width = inputWidth
}

// Update handles a key and reports whether it was consumed
func (m *JumpPromptModel) Update(key string) (handled bool) {
	switch key {
	case "up", "ctrl+p":
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}
		return true
	case "down", "ctrl+n", "tab":
		if m.selectedIndex < len(m.filteredItems)-1 {
			m.selectedIndex++
		}
		return true
	case "enter":
		if len(m.filteredItems) > 0 && m.selectedIndex < len(m.filteredItems) {
			item := m.filteredItems[m.selectedIndex]
			m.selectedItem = &item
			m.confirmed = true
		}
		return true
	case "esc":
		m.confirmed = false
		m.selectedItem = nil
		return true
	case "backspace":
		if v := m.searchInput.Value(); len(v) > 0 {
			m.searchInput.SetValue(v[:len(v)-1])
			m.filterItems()
		}
		return true
	default:
		if IsPrintableKey(key) {
			m.searchInput.SetValue(m.searchInput.Value() + key)
			m.filterItems()
			return true
		}
	}
	return false
}

// IsPrintableKey returns true if the key is a printable ASCII character
func IsPrintableKey(key string) bool {
	return len(key) == 1 && key[0] >= 32 && key[0] < 127
}

func (m *JumpPromptModel) filterItems() {
	query := strings.TrimSpace(m.searchInput.Value())
	m.selectedIndex = 0
	if query == "" {
		m.filteredItems = m.allItems
		return
	}

	searchStrings := make([]string, len(m.allItems))
	for i, item := range m.allItems {
		searchStrings[i] = item.Label + " " + item.Detent.String()
	}

	matches := fuzzy.Find(query, searchStrings)
	m.filteredItems = make([]JumpItem, 0, len(matches))
	for _, match := range matches {
		m.filteredItems = append(m.filteredItems, m.allItems[match.Index])
	}
}

// IsConfirmed returns true if user confirmed a selection
func (m *JumpPromptModel) IsConfirmed() bool {
	return m.confirmed
}

// SelectedItem returns the chosen item, or nil
func (m *JumpPromptModel) SelectedItem() *JumpItem {
	return m.selectedItem
}

// Filtered returns the items matching the current query
func (m *JumpPromptModel) Filtered() []JumpItem {
	return m.filteredItems
}

// Reset clears the query and selection for reuse
func (m *JumpPromptModel) Reset() {
	m.confirmed = false
	m.selectedItem = nil
	m.searchInput.SetValue("")
	m.filteredItems = m.allItems
	m.selectedIndex = 0
}

// View renders the prompt box
func (m *JumpPromptModel) View() string {
	t := m.theme
	var b strings.Builder

	titleStyle := t.Renderer.NewStyle().Bold(true).Foreground(t.Primary)
	b.WriteString(titleStyle.Render("Jump to detent"))
	b.WriteString("\n")
	b.WriteString(m.searchInput.View())
	b.WriteString("\n\n")

	inner := m.width - 6
	if len(m.filteredItems) == 0 {
		b.WriteString(t.Renderer.NewStyle().Faint(true).Render("no matching detent"))
	}
	for i, item := range m.filteredItems {
		line := truncate(item.Label+"  "+item.Detent.String(), inner)
		if i == m.selectedIndex {
			b.WriteString(t.Renderer.NewStyle().Bold(true).Foreground(t.Primary).Render("▸ " + line))
		} else {
			b.WriteString(t.Renderer.NewStyle().Foreground(t.Subtext).Render("  " + line))
		}
		b.WriteString("\n")
	}

	return t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(0, 1).
		Width(m.width).
		Render(strings.TrimRight(b.String(), "\n"))
}
