package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moshez/Pomodouroboros/internal/inbox"
	"github.com/moshez/Pomodouroboros/internal/intention"
	"github.com/moshez/Pomodouroboros/internal/interval"
	"github.com/moshez/Pomodouroboros/internal/nexus"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func newModel(t *testing.T, commands <-chan inbox.Command) (Model, *nexus.Nexus) {
	t.Helper()
	feed := NewFeed()
	n := nexus.New(nexus.DefaultOptions(), func(*nexus.Nexus) nexus.UIEventListener { return feed })
	return New(n, feed, commands, time.Second, nil), n
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok, "Update returned %T", next)
	return nm, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m, _ = update(t, m, runes(string(r)))
	}
	return m
}

func TestAddStartEvaluateWithKeys(t *testing.T) {
	m, n := newModel(t, nil)
	m, cmd := update(t, m, tickMsg(t0))
	assert.NotNil(t, cmd, "ticks reschedule themselves")

	m, _ = update(t, m, runes("a"))
	require.True(t, m.adding)
	m = typeText(t, m, "Write report")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.False(t, m.adding)
	require.Len(t, n.Selectable(), 1)
	assert.Equal(t, "Write report", n.Selectable()[0].Description)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	cur, ok := n.Current()
	require.True(t, ok)
	assert.Equal(t, interval.KindPomodoro, cur.Kind())
	assert.Equal(t, 1, n.StreakCount())
	assert.Contains(t, m.View(), "Working on:")

	m, _ = update(t, m, tickMsg(t0.Add(nexus.DefaultPomodoroDuration)))
	require.True(t, n.AwaitingEvaluation())
	assert.Contains(t, m.View(), "Time's up!")

	m, _ = update(t, m, runes("4"))
	assert.Equal(t, 1.25, n.ScoreTotal(m.now))
	cur, _ = n.Current()
	assert.Equal(t, interval.KindGracePeriod, cur.Kind())
	assert.True(t, m.statusOK, m.status)
}

func TestEscapeCancelsAdd(t *testing.T) {
	m, n := newModel(t, nil)
	m, _ = update(t, m, runes("a"))
	m = typeText(t, m, "never mind")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.False(t, m.adding)
	assert.Empty(t, n.Intentions())
	assert.Equal(t, "", m.input.Value())
}

func TestRejectedCommandShowsError(t *testing.T) {
	m, _ := newModel(t, nil)
	m, _ = update(t, m, tickMsg(t0))
	m, _ = update(t, m, runes("3"))

	assert.False(t, m.statusOK)
	assert.Contains(t, m.View(), "invalid state")
}

func TestCursorSelectsAndRetires(t *testing.T) {
	m, n := newModel(t, nil)
	m, _ = update(t, m, tickMsg(t0))
	for _, d := range []string{"one", "two", "three"} {
		_, err := n.AddIntention(d, nil, t0)
		require.NoError(t, err)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, m.cursor, "cursor stops at the last row")

	m, _ = update(t, m, runes("c"))
	assert.Equal(t, intention.Completed, n.Intentions()[2].Status)
	assert.Equal(t, 1, m.cursor, "cursor clamps after the row disappears")

	m, _ = update(t, m, runes("k"))
	m, _ = update(t, m, runes("x"))
	assert.Equal(t, intention.Abandoned, n.Intentions()[0].Status)

	view := m.View()
	assert.Contains(t, view, "two")
	assert.Contains(t, view, "Intentions (1)")
}

func TestInboxCommandsAreApplied(t *testing.T) {
	ch := make(chan inbox.Command, 1)
	m, n := newModel(t, ch)
	m, _ = update(t, m, tickMsg(t0))

	ch <- inbox.Command{Verb: inbox.VerbAdd, Arg: "from the shell"}
	msg := waitForCommand(ch)()
	m, cmd := update(t, m, msg)
	assert.NotNil(t, cmd, "keeps listening")
	require.Len(t, n.Intentions(), 1)
	assert.Contains(t, m.View(), "from the shell")

	close(ch)
	assert.Nil(t, waitForCommand(ch)())
	assert.Nil(t, waitForCommand(nil))
}

func TestCancelKey(t *testing.T) {
	m, n := newModel(t, nil)
	m, _ = update(t, m, tickMsg(t0))
	_, err := n.AddIntention("focus", nil, t0)
	require.NoError(t, err)
	m, _ = update(t, m, runes("s"))
	m, _ = update(t, m, tickMsg(t0.Add(time.Minute)))
	m, _ = update(t, m, runes("z"))

	cur, _ := n.Current()
	assert.Equal(t, interval.KindStartPrompt, cur.Kind())
	assert.Equal(t, 0, n.StreakCount())
	assert.True(t, m.statusOK)
}

func TestFeedKeepsRecentLines(t *testing.T) {
	f := NewFeed()
	for i := 0; i < feedSize+3; i++ {
		f.IntentionAdded(intention.Intention{Description: strings.Repeat("x", i+1)})
	}
	lines := f.Lines()
	require.Len(t, lines, feedSize)
	assert.Contains(t, lines[len(lines)-1], strings.Repeat("x", feedSize+3))
}

func TestQuit(t *testing.T) {
	m, _ := newModel(t, nil)
	_, cmd := update(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
