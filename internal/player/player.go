// Package player drives a practice session from a line-oriented terminal.
package player

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	practicesession "github.com/himanshubalani/gate-2025-mock-test-platform/internal/domain/practice_session"
	"github.com/himanshubalani/gate-2025-mock-test-platform/internal/timer"
)

// ErrAbandoned is returned when the test-taker quits without submitting.
var ErrAbandoned = errors.New("player: session abandoned")

// Player owns a session and its clock for the length of Run. User commands
// and timer ticks are applied one at a time from a single loop.
type Player struct {
	session *practicesession.PracticeSession
	clock   *timer.Coordinator
	in      io.Reader
	out     io.Writer
	ticker  timer.Ticker
	logger  *slog.Logger
}

type Option func(*Player)

// WithTicker replaces the wall-clock ticker.
func WithTicker(t timer.Ticker) Option {
	return func(p *Player) { p.ticker = t }
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Player) { p.logger = logger }
}

func New(session *practicesession.PracticeSession, in io.Reader, out io.Writer, opts ...Option) (*Player, error) {
	clock, err := timer.New(session.Budget, nil)
	if err != nil {
		return nil, err
	}

	p := &Player{
		session: session,
		clock:   clock,
		in:      in,
		out:     out,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run plays the session until it is submitted, the budget runs out, the
// input ends or ctx is cancelled. End of input submits; cancellation and the
// quit command return without a submission. Callers that pass a reader which
// never ends, such as a pipe, close it after Run returns.
func (p *Player) Run(ctx context.Context) (practicesession.Submission, error) {
	ticker := p.ticker
	if ticker == nil {
		ticker = timer.NewTicker()
	}
	defer ticker.Stop()

	done := make(chan struct{})
	defer close(done)
	lines := p.readLines(done)

	p.logger.Info("session running",
		"session_id", p.session.ID,
		"questions", p.session.Len(),
		"budget", p.session.Budget.String(),
	)
	p.renderQuestion()
	fmt.Fprint(p.out, "> ")

	for {
		select {
		case <-ctx.Done():
			p.clock.Stop()
			p.logger.Info("session interrupted", "session_id", p.session.ID, "elapsed_seconds", p.clock.Elapsed())
			return practicesession.Submission{}, ctx.Err()

		case <-ticker.C():
			p.session.Tick()
			if p.clock.Tick() {
				p.logger.Info("session expired", "session_id", p.session.ID, "elapsed_seconds", p.clock.Elapsed())
				fmt.Fprintln(p.out, "\nTime is up. Submitting.")
				return p.submit()
			}

		case line, ok := <-lines:
			if !ok {
				return p.submit()
			}
			sub, finished, err := p.handle(line)
			if finished {
				return sub, err
			}
			if err != nil {
				fmt.Fprintf(p.out, "! %v\n", err)
			}
			fmt.Fprint(p.out, "> ")
		}
	}
}

// readLines feeds input lines to the loop. The goroutine stays blocked in
// Read after Run returns until the reader is closed or ends.
func (p *Player) readLines(done <-chan struct{}) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(p.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()
	return lines
}

func (p *Player) handle(line string) (practicesession.Submission, bool, error) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	var err error
	switch strings.ToLower(cmd) {
	case "":
		return practicesession.Submission{}, false, nil
	case "n":
		err = p.session.Next()
	case "p":
		err = p.session.Prev()
	case "g":
		var n int
		n, err = strconv.Atoi(arg)
		if err != nil {
			return practicesession.Submission{}, false, fmt.Errorf("g needs a question number, got %q", arg)
		}
		err = p.session.NavigateTo(n - 1)
	case "a":
		err = p.session.SetAnswer(arg)
	case "c":
		err = p.session.ClearAnswer()
	case "m":
		err = p.session.ToggleMark()
	case "l":
		p.renderPalette()
		return practicesession.Submission{}, false, nil
	case "h", "?":
		p.renderHelp()
		return practicesession.Submission{}, false, nil
	case "s":
		sub, err := p.submit()
		return sub, true, err
	case "q":
		p.clock.Stop()
		p.logger.Info("session abandoned", "session_id", p.session.ID, "elapsed_seconds", p.clock.Elapsed())
		return practicesession.Submission{}, true, ErrAbandoned
	default:
		return practicesession.Submission{}, false, fmt.Errorf("unknown command %q, h for help", cmd)
	}

	if err != nil {
		return practicesession.Submission{}, false, err
	}
	p.renderQuestion()
	return practicesession.Submission{}, false, nil
}

func (p *Player) submit() (practicesession.Submission, error) {
	p.clock.Stop()
	sub, err := p.session.Submit(p.clock.Elapsed())
	if err != nil {
		return practicesession.Submission{}, err
	}
	p.logger.Info("session submitted",
		"session_id", sub.SessionID,
		"elapsed_seconds", sub.ElapsedSeconds,
		"expired", p.clock.Exhausted(),
	)
	return sub, nil
}
