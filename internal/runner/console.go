package runner

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/moshez/Pomodouroboros/internal/intention"
	"github.com/moshez/Pomodouroboros/internal/interval"
)

var (
	badgeBase = lipgloss.NewStyle().Bold(true).Padding(0, 1)

	badges = map[interval.Kind]lipgloss.Style{
		interval.KindStartPrompt: badgeBase.Background(lipgloss.Color("8")),
		interval.KindPomodoro:    badgeBase.Background(lipgloss.Color("1")),
		interval.KindGracePeriod: badgeBase.Background(lipgloss.Color("3")),
		interval.KindBreak:       badgeBase.Background(lipgloss.Color("2")),
	}
	intentionBadge = badgeBase.Background(lipgloss.Color("4"))
	dim            = lipgloss.NewStyle().Faint(true)
)

// Console prints one line per interval or intention event. Progress is
// printed once per quarter.
type Console struct {
	w       io.Writer
	current interval.Kind
	quarter int
}

// NewConsole returns a Console writing to w.
func NewConsole(w io.Writer) *Console { return &Console{w: w} }

func (c *Console) badge(k interval.Kind) string {
	return badges[k].Render(string(k))
}

func (c *Console) IntervalStart(iv interval.Interval) {
	c.current = iv.Kind()
	c.quarter = 0
	line := c.badge(iv.Kind()) + " started " + iv.Bounds().Start.Format(time.Kitchen)
	if d, ok := interval.Target(iv); ok {
		line += dim.Render(fmt.Sprintf(" (%s)", d))
	}
	fmt.Fprintln(c.w, line)
}

func (c *Console) IntervalProgress(fraction float64) {
	q := int(fraction * 4)
	if q <= c.quarter {
		return
	}
	c.quarter = q
	fmt.Fprintf(c.w, "%s %3d%%\n", c.badge(c.current), q*25)
}

func (c *Console) IntervalEnd() {
	fmt.Fprintln(c.w, c.badge(c.current)+" ended")
}

func (c *Console) intention(verb string, in intention.Intention) {
	fmt.Fprintf(c.w, "%s %s %s %q\n", intentionBadge.Render("intention"), verb, in.ShortID(), in.Description)
}

func (c *Console) IntentionAdded(in intention.Intention)     { c.intention("added", in) }
func (c *Console) IntentionAbandoned(in intention.Intention) { c.intention("abandoned", in) }
func (c *Console) IntentionCompleted(in intention.Intention) { c.intention("completed", in) }
