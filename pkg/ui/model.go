// Package ui is the terminal playground: a bottom sheet drawn from the
// bottom of the terminal that follows mouse drags through the snap engine.
package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/bottomsheet/pkg/config"
	"github.com/Dicklesworthstone/bottomsheet/pkg/gesture"
	"github.com/Dicklesworthstone/bottomsheet/pkg/journal"
	"github.com/Dicklesworthstone/bottomsheet/pkg/model"
	"github.com/Dicklesworthstone/bottomsheet/pkg/snap"
)

// Terminal cells are mapped to points so the engine's point-based defaults
// (minimum distance, velocity threshold) stay meaningful.
const (
	RowPoints    = 20.0
	ColPoints    = 10.0
	headerRows   = 1
	footerRows   = 1
	indicatorBar = "━━━━━━"
)

// ConfigMsg delivers a reloaded configuration. A non-nil Err keeps the
// current behavior and is shown in the status line.
type ConfigMsg struct {
	Config config.File
	Err    error
}

type frameMsg struct{}

type statusClearMsg struct{ seq int }

// Model is the playground's bubbletea model
type Model struct {
	cfg      config.File
	session  *snap.Session
	source   snap.Source
	recorder *journal.Recorder

	theme       Theme
	keys        keyMap
	help        help.Model
	helpOverlay HelpOverlayModel
	jump        JumpPromptModel
	jumpOpen    bool

	width  int
	height int

	spring           settleSpring
	dragging         bool
	pressOnIndicator bool
	lastOutcome      *snap.Outcome

	status    string
	statusSeq int

	now    func() time.Time
	copyFn func(string) error
}

// NewModel creates the playground for cfg
func NewModel(cfg config.File, theme Theme) Model {
	keys := defaultKeyMap()
	session := snap.NewSession(cfg.Behavior(model.DefaultReferenceHeight), model.DefaultReferenceHeight)
	m := Model{
		cfg:         cfg,
		session:     session,
		source:      session,
		theme:       theme,
		keys:        keys,
		help:        help.New(),
		helpOverlay: NewHelpOverlayModel(theme, keys),
		spring:      newSettleSpring(),
		now:         time.Now,
		copyFn:      clipboard.WriteAll,
	}
	m.jump = NewJumpPromptModel(m.jumpItems(), theme)
	m.spring.jump(session.RestingHeight())
	return m
}

// WithJournal records every recognized gesture in db
func (m Model) WithJournal(db *journal.DB) Model {
	m.recorder = journal.NewRecorder(db, m.session)
	m.source = m.recorder
	return m
}

// Session exposes the underlying snap session
func (m Model) Session() *snap.Session {
	return m.session
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.session.Resize(m.availableHeight())
		m.help.Width = msg.Width
		m.helpOverlay.SetSize(msg.Width, msg.Height)
		m.jump.SetSize(min(msg.Width-4, 48))
		if !m.dragging {
			m.spring.jump(m.session.RestingHeight())
		}
		return m, nil

	case ConfigMsg:
		if msg.Err != nil {
			return m, m.setStatus("config error: " + msg.Err.Error())
		}
		m.applyConfig(msg.Config)
		return m, tea.Batch(m.settle(0), m.setStatus("config reloaded"))

	case frameMsg:
		if m.spring.step() {
			return m, tick()
		}
		return m, nil

	case statusClearMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}

func (m *Model) setStatus(s string) tea.Cmd {
	m.status = s
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg { return statusClearMsg{seq: seq} })
}

// settle animates toward the current detent. velocity is the finger
// velocity, positive downward.
func (m *Model) settle(velocity float64) tea.Cmd {
	m.spring.settle(m.session.RestingHeight(), -velocity)
	return tick()
}

func (m *Model) applyConfig(cfg config.File) {
	m.cfg = cfg
	m.session.SetBehavior(cfg.Behavior(m.availableHeight()))
	if m.recorder != nil {
		m.recorder.SetInset(cfg.BottomInset)
	}
	m.dragging = false
	m.jump = NewJumpPromptModel(m.jumpItems(), m.theme)
	m.jump.SetSize(min(m.width-4, 48))
}

func (m Model) jumpItems() []JumpItem {
	values := m.session.Behavior().Detents.Values()
	items := make([]JumpItem, len(values))
	for i, d := range values {
		items[i] = JumpItem{Detent: d, Label: m.cfg.LabelFor(d)}
	}
	return items
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.helpOverlay.IsVisible() {
		m.helpOverlay, _ = m.helpOverlay.Update(msg)
		return m, nil
	}

	if m.jumpOpen {
		m.jump.Update(msg.String())
		switch {
		case m.jump.IsConfirmed():
			item := m.jump.SelectedItem()
			m.jumpOpen = false
			m.jump.Reset()
			if item != nil && m.session.JumpTo(item.Detent) {
				return m, m.settle(0)
			}
		case msg.String() == "esc":
			m.jumpOpen = false
			m.jump.Reset()
		}
		return m, nil
	}

	set := m.session.Behavior().Detents
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.helpOverlay.Toggle()
	case key.Matches(msg, m.keys.Grow):
		if m.session.JumpTo(snap.Snap(snap.SnapNext, set)) {
			return m, m.settle(0)
		}
	case key.Matches(msg, m.keys.Shrink):
		if m.session.JumpTo(snap.Snap(snap.SnapPrevious, set)) {
			return m, m.settle(0)
		}
	case key.Matches(msg, m.keys.Advance):
		if m.session.Advance() {
			return m, m.settle(0)
		}
	case key.Matches(msg, m.keys.Jump):
		m.jumpOpen = true
		m.jump.Reset()
	case key.Matches(msg, m.keys.Toggle):
		b := m.session.Behavior()
		b.Drag = b.Drag.WithEnabled(!b.Drag.IsEnabled())
		m.session.SetBehavior(b)
		state := "off"
		if b.Drag.IsEnabled() {
			state = "on"
		}
		return m, m.setStatus("dragging " + state)
	case key.Matches(msg, m.keys.Copy):
		if err := m.copyFn(m.Summary()); err != nil {
			return m, m.setStatus("copy failed: " + err.Error())
		}
		return m, m.setStatus("copied state to clipboard")
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.helpOverlay.IsVisible() || m.jumpOpen {
		return m, nil
	}
	sample := m.sampleAt(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !m.onSheet(msg.X, msg.Y) {
			return m, nil
		}
		m.dragging = true
		m.pressOnIndicator = msg.Y == m.sheetTopRow()
		m.source.Begin(sample)
		m.spring.jump(m.session.Height())

	case tea.MouseActionMotion:
		if !m.dragging {
			return m, nil
		}
		m.spring.jump(m.source.Change(sample))

	case tea.MouseActionRelease:
		if !m.dragging {
			return m, nil
		}
		m.dragging = false
		m.spring.jump(m.session.Height())
		out := m.source.End(sample)
		m.lastOutcome = &out
		if !out.Recognized && m.pressOnIndicator {
			m.session.Advance()
		}
		cmds := []tea.Cmd{m.settle(out.Velocity)}
		if m.recorder != nil && m.recorder.Err() != nil {
			cmds = append(cmds, m.setStatus(m.recorder.Err().Error()))
		}
		return m, tea.Batch(cmds...)
	}
	return m, nil
}

// containerRows is the number of rows the sheet can occupy
func (m Model) containerRows() int {
	return max(m.height-headerRows-footerRows, 1)
}

func (m Model) availableHeight() float64 {
	return float64(m.containerRows()) * RowPoints
}

func (m Model) availableWidth() float64 {
	return float64(max(m.width, 1)) * ColPoints
}

// sampleAt converts a terminal cell to container points, using the centre
// of the cell
func (m Model) sampleAt(col, row int) gesture.Sample {
	return gesture.Sample{
		At: m.now(),
		X:  (float64(col) + 0.5) * ColPoints,
		Y:  (float64(row-headerRows) + 0.5) * RowPoints,
	}
}

// sheetRows is the drawn sheet height in rows
func (m Model) sheetRows() int {
	rows := int(math.Round(m.spring.pos / RowPoints))
	return max(0, min(rows, m.containerRows()))
}

// sheetTopRow is the terminal row of the indicator
func (m Model) sheetTopRow() int {
	return headerRows + m.containerRows() - m.sheetRows()
}

// sheetColumns returns the first column and width of the sheet
func (m Model) sheetColumns() (int, int) {
	b := m.session.Behavior()
	avail := m.availableWidth()
	w := b.Width.ToAbsolute(avail)
	left := int(math.Round(b.Alignment.Offset(avail, w) / ColPoints))
	cols := int(math.Round(w / ColPoints))
	cols = max(1, min(cols, m.width-left))
	return left, cols
}

func (m Model) onSheet(col, row int) bool {
	if row < m.sheetTopRow() || row >= headerRows+m.containerRows() {
		return false
	}
	left, cols := m.sheetColumns()
	return col >= left && col < left+cols
}

// Summary describes the sheet state in one line
func (m Model) Summary() string {
	b := m.session.Behavior()
	cur := b.Detents.Current()
	labels := make([]string, 0, b.Detents.Len())
	for _, d := range b.Detents.Values() {
		labels = append(labels, m.cfg.LabelFor(d))
	}
	drag := "on"
	if !b.Drag.IsEnabled() {
		drag = "off"
	}
	return fmt.Sprintf("current=%s (%s) height=%.0fpt of %.0fpt detents=[%s] drag=%s",
		m.cfg.LabelFor(cur), cur.String(), m.session.RestingHeight(), m.availableHeight(),
		strings.Join(labels, ","), drag)
}

// View implements tea.Model
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "loading…"
	}
	if m.helpOverlay.IsVisible() {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.helpOverlay.View())
	}
	if m.jumpOpen {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.jump.View())
	}

	lines := make([]string, 0, m.height)
	lines = append(lines, m.renderHeader())
	lines = append(lines, m.renderContainer()...)
	lines = append(lines, m.renderFooter())
	return strings.Join(lines, "\n")
}

func (m Model) renderHeader() string {
	t := m.theme
	b := m.session.Behavior()
	var parts []string
	parts = append(parts, t.Renderer.NewStyle().Bold(true).Foreground(t.Primary).Render("bottomsheet"))
	for _, d := range b.Detents.Values() {
		parts = append(parts, RenderDetentBadge(m.cfg.LabelFor(d), d.Equal(b.Detents.Current()), t))
	}
	fraction := m.spring.pos / m.availableHeight()
	parts = append(parts, RenderMiniBar(fraction, 10, t))
	parts = append(parts, t.Renderer.NewStyle().Foreground(t.Subtext).Render(fmt.Sprintf("%.0fpt", m.spring.pos)))
	header := strings.Join(parts, " ")
	return lipgloss.NewStyle().MaxWidth(m.width).Render(header)
}

func (m Model) renderFooter() string {
	if m.status != "" {
		return m.theme.Renderer.NewStyle().Foreground(m.theme.Warning).Render(truncate(m.status, m.width))
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(m.help.View(m.keys))
}

// guideRows maps a container row to the label of the detent whose top edge
// falls on it
func (m Model) guideRows() map[int]string {
	rows := m.containerRows()
	guides := make(map[int]string)
	for _, d := range m.session.Behavior().Detents.Values() {
		h := int(math.Round(d.ToAbsolute(m.availableHeight()) / RowPoints))
		r := rows - h
		if r < 0 || r >= rows {
			continue
		}
		if _, taken := guides[r]; !taken {
			guides[r] = m.cfg.LabelFor(d)
		}
	}
	return guides
}

func (m Model) renderContainer() []string {
	t := m.theme
	b := m.session.Behavior()
	rows := m.containerRows()
	sheetStart := rows - m.sheetRows()
	left, cols := m.sheetColumns()
	right := max(m.width-left-cols, 0)
	gate := model.GateBoundary(m.availableHeight(), b.BottomInset)
	guides := m.guideRows()

	sheetStyle := t.Renderer.NewStyle().Background(t.Sheet).Foreground(ColorText)
	gatedStyle := t.Renderer.NewStyle().Background(t.Gated)
	guideStyle := t.Renderer.NewStyle().Foreground(t.Secondary).Faint(true)

	lines := make([]string, rows)
	for r := 0; r < rows; r++ {
		gated := (float64(r)+0.5)*RowPoints >= gate
		pad := func(n int) string {
			s := strings.Repeat(" ", n)
			if gated {
				return gatedStyle.Render(s)
			}
			return s
		}

		if r < sheetStart {
			line := strings.Repeat(" ", m.width)
			if label, ok := guides[r]; ok {
				guide := "── " + truncate(label, max(m.width/3, 1))
				line = lipgloss.PlaceHorizontal(m.width, lipgloss.Right, guideStyle.Render(guide))
			}
			if gated {
				line = gatedStyle.Render(strings.Repeat(" ", m.width))
			}
			lines[r] = line
			continue
		}

		var content string
		switch r - sheetStart {
		case 0:
			content = center(indicatorBar, cols)
		case 1:
			content = center(m.sheetCaption(), cols)
		case 2:
			content = center(m.outcomeCaption(), cols)
		default:
			content = strings.Repeat(" ", cols)
		}
		body := sheetStyle.Render(content)
		if r-sheetStart == 0 {
			body = sheetStyle.Foreground(t.Indicator).Render(content)
		}
		lines[r] = pad(left) + body + pad(right)
	}
	return lines
}

func (m Model) sheetCaption() string {
	cur := m.session.Behavior().Detents.Current()
	s := fmt.Sprintf("%s · %s", m.cfg.LabelFor(cur), cur.String())
	if dir := m.session.Engine().State().Direction(); m.dragging && dir != model.DirectionNone {
		s += " · " + dir.String()
	}
	return s
}

func (m Model) outcomeCaption() string {
	out := m.lastOutcome
	if out == nil {
		return ""
	}
	kind := "settle"
	switch {
	case !out.Recognized:
		kind = "tap"
	case out.Flick:
		kind = "flick"
	}
	return fmt.Sprintf("last %s: %s → %s  %.0fpt/s", kind, m.cfg.LabelFor(out.From), m.cfg.LabelFor(out.Target), out.Velocity)
}
