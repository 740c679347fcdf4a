package player

import (
	"fmt"
	"strings"

	practicesession "github.com/himanshubalani/gate-2025-mock-test-platform/internal/domain/practice_session"
	"github.com/himanshubalani/gate-2025-mock-test-platform/internal/markup"
	"github.com/himanshubalani/gate-2025-mock-test-platform/internal/timer"
)

const paletteColumns = 10

var statusGlyph = map[practicesession.Status]string{
	practicesession.NotVisited:        "-",
	practicesession.Visited:           "v",
	practicesession.Answered:          "A",
	practicesession.MarkedForReview:   "M",
	practicesession.AnsweredAndMarked: "*",
}

func (p *Player) clockLine() string {
	if p.session.Practice() {
		return "elapsed " + timer.FormatClock(p.clock.Display())
	}
	return "time left " + timer.FormatClock(p.clock.Display())
}

func (p *Player) renderQuestion() {
	q, resp := p.session.Current()
	w := p.out

	fmt.Fprintf(w, "\nQuestion %d/%d  [%s]  %s  marks %d", p.session.Cursor()+1, p.session.Len(), q.SourceGroup, q.Kind, q.Marks)
	if pen := q.Penalty(); pen > 0 {
		fmt.Fprintf(w, " (-%.2f)", pen)
	}
	fmt.Fprintf(w, "  %s\n\n", p.clockLine())

	fmt.Fprintln(w, markup.ToText(q.Body))
	if len(q.Options) > 0 {
		fmt.Fprintln(w)
		for _, opt := range q.Options {
			fmt.Fprintf(w, "  %s) %s\n", opt.Label, markup.ToText(opt.Content))
		}
	}

	answer := resp.Answer
	if answer == "" {
		answer = "none"
	}
	fmt.Fprintf(w, "\nStatus: %s  Answer: %s\n", resp.Status, answer)
}

func (p *Player) renderPalette() {
	var b strings.Builder
	b.WriteString("\n")
	for i := range p.session.Len() {
		resp, _ := p.session.Response(i)
		cursor := " "
		if i == p.session.Cursor() {
			cursor = ">"
		}
		fmt.Fprintf(&b, "%s%3d %s ", cursor, i+1, statusGlyph[resp.Status])
		if (i+1)%paletteColumns == 0 {
			b.WriteString("\n")
		}
	}
	if p.session.Len()%paletteColumns != 0 {
		b.WriteString("\n")
	}

	counts := p.session.StatusCounts()
	b.WriteString("\n")
	for _, st := range practicesession.Statuses {
		fmt.Fprintf(&b, "  %s %-22s %d\n", statusGlyph[st], st, counts[st])
	}
	fmt.Fprintf(&b, "  %s\n", p.clockLine())

	fmt.Fprint(p.out, b.String())
}

func (p *Player) renderHelp() {
	fmt.Fprint(p.out, `
  n          next question
  p          previous question
  g <n>      go to question n
  a <value>  answer (option label or number)
  c          clear answer and review mark
  m          toggle review mark
  l          question palette
  s          submit
  q          quit without submitting
`)
}
