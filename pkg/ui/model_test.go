package ui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/bottomsheet/pkg/config"
	"github.com/Dicklesworthstone/bottomsheet/pkg/journal"
	"github.com/Dicklesworthstone/bottomsheet/pkg/model"
)

// keyMsg creates a tea.KeyMsg for testing
func keyMsg(key string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func mouse(action tea.MouseAction, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft}
}

// fakeClock advances by step every time it is read
type fakeClock struct {
	t    time.Time
	step time.Duration
}

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

// newTestModel builds an 80x42 playground: 40 container rows, 800 points
func newTestModel(t *testing.T) Model {
	t.Helper()
	m := NewModel(config.Default(), DefaultTheme(lipgloss.DefaultRenderer()))
	clock := &fakeClock{t: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC), step: 100 * time.Millisecond}
	m.now = clock.now
	return update(t, m, tea.WindowSizeMsg{Width: 80, Height: 42})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func current(m Model) model.Detent {
	return m.Session().Behavior().Detents.Current()
}

// settleFully runs animation frames until the spring rests
func settleFully(t *testing.T, m Model) Model {
	t.Helper()
	for i := 0; i < 2000; i++ {
		if !m.spring.moving {
			return m
		}
		m = update(t, m, frameMsg{})
	}
	t.Fatal("spring did not settle")
	return m
}

func TestLayoutMapsRowsToPoints(t *testing.T) {
	m := newTestModel(t)
	if got := m.availableHeight(); got != 800 {
		t.Fatalf("expected 800pt container, got %v", got)
	}
	if m.Session().AvailableHeight() != 800 {
		t.Fatal("session was not resized")
	}
	// The peek detent is 120pt: six rows at the bottom.
	if m.sheetRows() != 6 || m.sheetTopRow() != 35 {
		t.Fatalf("expected 6 sheet rows from row 35, got %d from %d", m.sheetRows(), m.sheetTopRow())
	}
	if !m.onSheet(40, 36) || m.onSheet(40, 20) {
		t.Fatal("onSheet disagrees with the drawn sheet")
	}
}

func TestMouseDragCommitsNearestDetent(t *testing.T) {
	m := newTestModel(t)

	// Press inside the sheet, below the indicator, then drag up 20 rows
	// (400pt) one row per 100ms: 200pt/s, a slow release.
	m = update(t, m, mouse(tea.MouseActionPress, 40, 36))
	if !m.dragging {
		t.Fatal("press on the sheet should start a drag")
	}
	for row := 35; row >= 16; row-- {
		m = update(t, m, mouse(tea.MouseActionMotion, 40, row))
	}
	if m.spring.pos <= 120 {
		t.Fatalf("sheet should follow the finger, drawn at %v", m.spring.pos)
	}
	m = update(t, m, mouse(tea.MouseActionRelease, 40, 16))

	if m.dragging {
		t.Fatal("release should end the drag")
	}
	if current(m) != model.Relative(0.5) {
		t.Fatalf("expected half detent, got %v", current(m))
	}
	if m.lastOutcome == nil || !m.lastOutcome.Committed || m.lastOutcome.Flick {
		t.Fatalf("unexpected outcome %+v", m.lastOutcome)
	}

	m = settleFully(t, m)
	if m.spring.pos != 400 {
		t.Fatalf("expected to settle at 400pt, got %v", m.spring.pos)
	}
}

func TestPressOutsideSheetIsIgnored(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, mouse(tea.MouseActionPress, 40, 10))
	if m.dragging {
		t.Fatal("press above the sheet must not start a drag")
	}
	m = update(t, m, mouse(tea.MouseActionRelease, 40, 10))
	if current(m) != model.Absolute(120) {
		t.Fatalf("detent changed to %v", current(m))
	}
}

func TestIndicatorClickAdvances(t *testing.T) {
	m := newTestModel(t)
	want := []model.Detent{model.Relative(0.5), model.Relative(1), model.Relative(0.5)}
	for i, w := range want {
		row := m.sheetTopRow()
		m = update(t, m, mouse(tea.MouseActionPress, 40, row))
		m = update(t, m, mouse(tea.MouseActionRelease, 40, row))
		if current(m) != w {
			t.Fatalf("click %d: expected %v, got %v", i, w, current(m))
		}
		m = settleFully(t, m)
	}
}

func TestKeysNavigateDetents(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if current(m) != model.Relative(0.5) {
		t.Fatalf("up should grow to half, got %v", current(m))
	}
	m = update(t, m, keyMsg("k"))
	m = update(t, m, keyMsg("k"))
	if current(m) != model.Relative(1) {
		t.Fatalf("growing past the last detent clamps, got %v", current(m))
	}
	m = update(t, m, keyMsg("j"))
	if current(m) != model.Relative(0.5) {
		t.Fatalf("down should shrink to half, got %v", current(m))
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if current(m) != model.Relative(1) {
		t.Fatalf("space should advance to full, got %v", current(m))
	}
}

func TestJumpPromptSelectsByLabel(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, keyMsg("/"))
	if !m.jumpOpen {
		t.Fatal("/ should open the jump prompt")
	}
	for _, r := range "ful" {
		m = update(t, m, keyMsg(string(r)))
	}
	if got := m.jump.Filtered(); len(got) != 1 || got[0].Label != "full" {
		t.Fatalf("expected only full to match, got %+v", got)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.jumpOpen {
		t.Fatal("enter should close the prompt")
	}
	if current(m) != model.Relative(1) {
		t.Fatalf("expected full detent, got %v", current(m))
	}

	m = update(t, m, keyMsg("/"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.jumpOpen || current(m) != model.Relative(1) {
		t.Fatal("esc should close the prompt without changes")
	}
}

func TestToggleDisablesDragging(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, keyMsg("d"))
	if m.Session().Behavior().Drag.IsEnabled() {
		t.Fatal("d should disable dragging")
	}
	m = update(t, m, mouse(tea.MouseActionPress, 40, 36))
	for row := 35; row >= 16; row-- {
		m = update(t, m, mouse(tea.MouseActionMotion, 40, row))
	}
	if m.spring.pos != 120 {
		t.Fatalf("a disabled sheet stays at its resting height, got %v", m.spring.pos)
	}
	m = update(t, m, mouse(tea.MouseActionRelease, 40, 16))
	if current(m) != model.Absolute(120) {
		t.Fatalf("disabled drags never commit, got %v", current(m))
	}
}

func TestCopySummary(t *testing.T) {
	m := newTestModel(t)
	var copied string
	m.copyFn = func(s string) error {
		copied = s
		return nil
	}
	m = update(t, m, keyMsg("y"))
	if !strings.Contains(copied, "current=peek (120pt)") || !strings.Contains(copied, "detents=[peek,half,full]") {
		t.Fatalf("unexpected summary %q", copied)
	}

	m.copyFn = func(string) error { return errors.New("no clipboard") }
	m = update(t, m, keyMsg("y"))
	if !strings.Contains(m.status, "no clipboard") {
		t.Fatalf("expected copy failure in status, got %q", m.status)
	}
}

func TestConfigReloadReplacesBehavior(t *testing.T) {
	m := newTestModel(t)
	cfg, err := config.LoadBytes([]byte("detents: [\"25%\", \"75%\"]\nlabels: [low, high]\ncurrent: \"75%\"\n"))
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	m = update(t, m, ConfigMsg{Config: cfg})
	if current(m) != model.Relative(0.75) {
		t.Fatalf("expected 75%% after reload, got %v", current(m))
	}
	if m.Session().Behavior().Detents.Len() != 2 {
		t.Fatal("detent set was not replaced")
	}
	m = settleFully(t, m)
	if m.spring.pos != 600 {
		t.Fatalf("expected to settle at 600pt, got %v", m.spring.pos)
	}

	m = update(t, m, ConfigMsg{Err: errors.New("bad yaml")})
	if current(m) != model.Relative(0.75) || !strings.Contains(m.status, "bad yaml") {
		t.Fatal("a failed reload must keep the current behavior")
	}
}

func TestJournalRecordsMouseDrags(t *testing.T) {
	db, err := journal.Open(filepath.Join(t.TempDir(), "gestures.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	m := newTestModel(t).WithJournal(db)
	m = update(t, m, mouse(tea.MouseActionPress, 40, 36))
	for row := 35; row >= 16; row-- {
		m = update(t, m, mouse(tea.MouseActionMotion, 40, row))
	}
	update(t, m, mouse(tea.MouseActionRelease, 40, 16))

	n, err := db.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 journaled gesture, got %d", n)
	}
}

func TestViewShowsSheetAndOverlays(t *testing.T) {
	m := newTestModel(t)
	view := m.View()
	for _, want := range []string{"bottomsheet", "peek", indicatorBar, "── half"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if got := strings.Count(view, "\n") + 1; got != 42 {
		t.Errorf("expected 42 lines, got %d", got)
	}

	m = update(t, m, keyMsg("?"))
	if !m.helpOverlay.IsVisible() {
		t.Fatal("? should open help")
	}
	if !strings.Contains(m.helpOverlay.Markdown(), "jump to detent") {
		t.Fatal("help should list the key bindings")
	}
	m = update(t, m, keyMsg("x"))
	if m.helpOverlay.IsVisible() {
		t.Fatal("any key should close help")
	}
}
