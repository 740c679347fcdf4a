// Package timer advances session time on a fixed cadence and fires a single
// expiry when a timed budget runs out.
package timer

import (
	"errors"
	"fmt"
	"time"
)

// Interval is the tick cadence.
const Interval = time.Second

// Budget is the session time allowance in seconds. Untimed marks a practice
// session with no allowance.
type Budget int

const Untimed Budget = -1

var ErrInvalidBudget = errors.New("timer: budget must be positive or Untimed")

// BudgetOf converts a duration into a timed budget, rounding down to whole
// seconds.
func BudgetOf(d time.Duration) Budget {
	return Budget(d / time.Second)
}

// Practice reports whether b is the untimed sentinel.
func (b Budget) Practice() bool { return b == Untimed }

// Validate rejects zero and negative budgets other than Untimed.
func (b Budget) Validate() error {
	if b == Untimed || b > 0 {
		return nil
	}
	return fmt.Errorf("%w: got %d", ErrInvalidBudget, int(b))
}

func (b Budget) String() string {
	if b.Practice() {
		return "untimed"
	}
	return FormatClock(int(b))
}

// Coordinator owns the elapsed-seconds counter. It is not safe for
// concurrent use; the session loop that owns it serializes ticks with user
// actions.
type Coordinator struct {
	budget   Budget
	elapsed  int
	stopped  bool
	expired  bool
	onExpire func(elapsed int)
}

// New creates a Coordinator. onExpire may be nil; it runs at most once, on
// the tick that exhausts a timed budget.
func New(budget Budget, onExpire func(elapsed int)) (*Coordinator, error) {
	if err := budget.Validate(); err != nil {
		return nil, err
	}
	return &Coordinator{budget: budget, onExpire: onExpire}, nil
}

// Tick advances elapsed time by one interval. It returns true only on the
// tick that exhausted the budget. Ticks after Stop or expiry are ignored.
func (c *Coordinator) Tick() bool {
	if c.stopped {
		return false
	}
	c.elapsed++

	if c.budget.Practice() || c.elapsed < int(c.budget) {
		return false
	}

	c.stopped = true
	c.expired = true
	if c.onExpire != nil {
		c.onExpire(c.elapsed)
	}
	return true
}

// Stop disarms the coordinator. Used on manual submission or teardown.
func (c *Coordinator) Stop() { c.stopped = true }

func (c *Coordinator) Stopped() bool { return c.stopped }

func (c *Coordinator) Budget() Budget { return c.budget }

func (c *Coordinator) Elapsed() int { return c.elapsed }

// Exhausted reports whether a timed budget ran out.
func (c *Coordinator) Exhausted() bool { return c.expired }

// Display returns the seconds to show on a clock: remaining time for timed
// sessions (never below zero) and elapsed time for practice sessions.
func (c *Coordinator) Display() int {
	if c.budget.Practice() {
		return c.elapsed
	}
	if rem := int(c.budget) - c.elapsed; rem > 0 {
		return rem
	}
	return 0
}

// FormatClock renders seconds as HH:MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
