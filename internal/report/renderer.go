package report

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Renderer serializes a Summary to bytes.
type Renderer interface {
	Render(s *Summary) ([]byte, error)
}

// ForFormat returns the renderer for "markdown" or "json".
func ForFormat(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "markdown", "md":
		return &MarkdownRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown report format %q (want markdown or json)", format)
	}
}

// JSONRenderer renders a Summary as indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(s *Summary) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// MarkdownRenderer renders a Summary as human-readable Markdown.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(s *Summary) ([]byte, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Session %s\n\n", s.Started.Format("2006-01-02 15:04"))

	sb.WriteString("## Summary\n\n")
	fmt.Fprintf(&sb, "- Duration: %s\n", s.Duration)
	fmt.Fprintf(&sb, "- Pomodoros: %d\n", len(s.Pomodoros))
	fmt.Fprintf(&sb, "- Streak: %d\n", s.Streak)
	fmt.Fprintf(&sb, "- Score: %.2f\n", s.Score)
	sb.WriteString("\n")

	sb.WriteString("## Pomodoros\n\n")
	if len(s.Pomodoros) == 0 {
		sb.WriteString("_No pomodoros finished._\n")
	} else {
		sb.WriteString("| Start | End | Intention | Evaluation |\n")
		sb.WriteString("|-------|-----|-----------|------------|\n")
		for _, p := range s.Pomodoros {
			eval := "cancelled"
			if p.Evaluation != nil {
				eval = string(*p.Evaluation)
			}
			fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n",
				p.Start.Format("15:04:05"),
				p.End.Format("15:04:05"),
				cell(p.Intention),
				eval,
			)
		}
	}
	sb.WriteString("\n")

	sb.WriteString("## Intentions\n\n")
	if len(s.Intentions) == 0 {
		sb.WriteString("_No intentions declared._\n")
	} else {
		for _, in := range s.Intentions {
			fmt.Fprintf(&sb, "- [%s] %s", in.Status, in.Description)
			if in.Estimate != nil {
				fmt.Fprintf(&sb, " (estimate %d)", *in.Estimate)
			}
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\n")

	sb.WriteString("## Score\n\n")
	if len(s.Events) == 0 {
		sb.WriteString("_No points earned._\n")
	} else {
		for i, e := range s.Events {
			fmt.Fprintf(&sb, "%d. %s %s +%.2f\n", i+1, e.Time.Format("15:04:05"), e.Result, e.Points)
		}
	}

	return []byte(sb.String()), nil
}

// cell keeps a description from breaking the table row.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
