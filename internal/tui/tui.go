// Package tui provides a Bubble Tea front end that owns a Nexus and drives
// it from clock ticks, key presses and inbox commands.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/moshez/Pomodouroboros/internal/inbox"
	"github.com/moshez/Pomodouroboros/internal/interval"
	"github.com/moshez/Pomodouroboros/internal/nexus"
	"github.com/moshez/Pomodouroboros/internal/runner"
)

// ── Styles ────────────

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	kindStyles = map[interval.Kind]lipgloss.Style{
		interval.KindStartPrompt: badge("240"),
		interval.KindPomodoro:    badge("160"),
		interval.KindGracePeriod: badge("178"),
		interval.KindBreak:       badge("35"),
	}

	sectionHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	alertStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("237"))
)

func badge(bg string) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color(bg)).
		Padding(0, 1)
}

// ── Messages ────────────

type tickMsg time.Time

type commandMsg inbox.Command

// ── Model ────────────

// Model is the root Bubble Tea model. All Nexus calls happen in Update.
type Model struct {
	n        *nexus.Nexus
	feed     *Feed
	commands <-chan inbox.Command
	log      *zap.Logger

	tickEvery time.Duration
	now       time.Time

	cursor   int
	adding   bool
	input    textinput.Model
	bar      progress.Model
	help     help.Model
	status   string
	statusOK bool
	width    int
}

// New returns a model driving n. feed must be the Feed n notifies; commands
// may be nil.
func New(n *nexus.Nexus, feed *Feed, commands <-chan inbox.Command, tickEvery time.Duration, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}
	in := textinput.New()
	in.Placeholder = "what will you do?"
	in.CharLimit = 200

	return Model{
		n:         n,
		feed:      feed,
		commands:  commands,
		log:       log.Named("tui"),
		tickEvery: tickEvery,
		input:     in,
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		help:      help.New(),
	}
}

// ── Bubble Tea interface ───────────────

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return tickMsg(time.Now()) },
		waitForCommand(m.commands),
	)
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.tickEvery, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func waitForCommand(ch <-chan inbox.Command) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return commandMsg(c)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.now = time.Time(msg)
		if err := m.n.Tick(m.now); err != nil {
			m.log.Warn("tick failed", zap.Error(err))
			m.setStatus("", err)
		}
		return m, m.tick()

	case commandMsg:
		m.apply(inbox.Command(msg))
		return m, waitForCommand(m.commands)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.adding {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.adding = false
		m.input.Blur()
		m.apply(inbox.Command{Verb: inbox.VerbAdd, Arg: m.input.Value()})
		m.input.Reset()
		return m, nil
	case tea.KeyEsc:
		m.adding = false
		m.input.Blur()
		m.input.Reset()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	selectable := m.n.Selectable()
	selected := func() string {
		if m.cursor < len(selectable) {
			return selectable[m.cursor].ID
		}
		return ""
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, keys.Add):
		m.adding = true
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(selectable)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Start):
		if id := selected(); id != "" {
			m.apply(inbox.Command{Verb: inbox.VerbStart, Arg: id})
		}
	case key.Matches(msg, keys.Complete):
		if id := selected(); id != "" {
			m.apply(inbox.Command{Verb: inbox.VerbComplete, Arg: id})
		}
	case key.Matches(msg, keys.Abandon):
		if id := selected(); id != "" {
			m.apply(inbox.Command{Verb: inbox.VerbAbandon, Arg: id})
		}
	case key.Matches(msg, keys.Evaluate):
		r := interval.Evaluations[msg.Runes[0]-'1']
		m.apply(inbox.Command{Verb: inbox.VerbEval, Arg: string(r)})
	case key.Matches(msg, keys.Cancel):
		m.apply(inbox.Command{Verb: inbox.VerbCancel})
	}
	return m, nil
}

// apply runs c at the time of the last tick, or wall time before the first.
func (m *Model) apply(c inbox.Command) {
	now := m.now
	if now.IsZero() {
		now = time.Now()
	}
	msg, err := runner.Apply(m.n, c, now)
	if err != nil {
		m.log.Info("command rejected", zap.String("verb", string(c.Verb)), zap.Error(err))
	}
	m.setStatus(msg, err)

	if n := len(m.n.Selectable()); m.cursor >= n && n > 0 {
		m.cursor = n - 1
	}
}

func (m *Model) setStatus(msg string, err error) {
	if err != nil {
		m.status, m.statusOK = err.Error(), false
		return
	}
	m.status, m.statusOK = msg, true
}

func (m Model) View() string {
	var sb strings.Builder

	title := titleStyle.Render("  pomodouroboros  ")
	if m.width > 0 {
		title = titleStyle.Width(m.width).Render("  pomodouroboros  ")
	}
	sb.WriteString(title + "\n\n")

	sb.WriteString(m.renderInterval())
	sb.WriteString("\n")
	sb.WriteString(m.renderIntentions())
	sb.WriteString("\n")

	sb.WriteString(sectionHeader.Render("  Recent") + "\n")
	for _, line := range m.feed.Lines() {
		sb.WriteString(dimStyle.Render("  "+line) + "\n")
	}
	sb.WriteString("\n")

	if m.adding {
		sb.WriteString("  " + m.input.View() + "\n\n")
	}
	if m.status != "" {
		style := dimStyle
		if !m.statusOK {
			style = errorStyle
		}
		sb.WriteString(style.Render("  "+m.status) + "\n\n")
	}
	sb.WriteString("  " + m.help.View(keys) + "\n")
	return sb.String()
}

func (m Model) renderInterval() string {
	cur, ok := m.n.Current()
	if !ok {
		return dimStyle.Render("  starting…") + "\n"
	}
	var sb strings.Builder
	sb.WriteString("  " + kindStyles[cur.Kind()].Render(string(cur.Kind())))

	if target, ok := interval.Target(cur); ok {
		sb.WriteString("  " + m.bar.ViewAs(m.feed.fraction))
		if !m.now.IsZero() {
			left := cur.Bounds().Start.Add(target).Sub(m.now)
			if left < 0 {
				left = 0
			}
			sb.WriteString(dimStyle.Render(fmt.Sprintf("  %s left", left.Round(time.Second))))
		}
	}
	if p, ok := cur.(interval.Pomodoro); ok {
		if in, err := m.n.FindIntention(p.IntentionID); err == nil {
			sb.WriteString("\n  " + labelStyle.Render("Working on:") + " " + in.Description)
		}
	}
	sb.WriteString("\n")

	if m.n.AwaitingEvaluation() {
		sb.WriteString("  " + alertStyle.Render("Time's up! How did it go? 1 distracted  2 interrupted  3 focused  4 achieved") + "\n")
	}
	sb.WriteString(fmt.Sprintf("  %s %d   %s %.2f\n",
		labelStyle.Render("Streak:"), m.n.StreakCount(),
		labelStyle.Render("Score:"), m.n.ScoreTotal(m.scoreTime()),
	))
	return sb.String()
}

func (m Model) scoreTime() time.Time {
	if m.now.IsZero() {
		return time.Now()
	}
	return m.now
}

func (m Model) renderIntentions() string {
	var sb strings.Builder
	selectable := m.n.Selectable()
	sb.WriteString(sectionHeader.Render(fmt.Sprintf("  Intentions (%d)", len(selectable))) + "\n")
	if len(selectable) == 0 {
		sb.WriteString(dimStyle.Render("  (none, press a to add one)") + "\n")
		return sb.String()
	}
	for i, in := range selectable {
		row := fmt.Sprintf("  %s  %s", dimStyle.Render(in.ShortID()), in.Description)
		if in.Estimate != nil {
			row += dimStyle.Render(fmt.Sprintf("  (~%d)", *in.Estimate))
		}
		if i == m.cursor {
			row = selectedRowStyle.Render(row)
		}
		sb.WriteString(row + "\n")
	}
	return sb.String()
}

// Run starts the TUI in the alternate screen until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
