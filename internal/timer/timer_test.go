package timer_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/himanshubalani/gate-2025-mock-test-platform/internal/timer"
)

func TestBudget_Validate(t *testing.T) {
	assert.NoError(t, timer.Untimed.Validate())
	assert.NoError(t, timer.Budget(1).Validate())
	assert.ErrorIs(t, timer.Budget(0).Validate(), timer.ErrInvalidBudget)
	assert.ErrorIs(t, timer.Budget(-5).Validate(), timer.ErrInvalidBudget)
}

func TestBudgetOf(t *testing.T) {
	assert.Equal(t, timer.Budget(1800), timer.BudgetOf(30*time.Minute))
	assert.Equal(t, timer.Budget(1), timer.BudgetOf(1500*time.Millisecond))
}

func TestCoordinator_TimedExpiresExactlyOnce(t *testing.T) {
	var fired []int
	c, err := timer.New(5, func(elapsed int) { fired = append(fired, elapsed) })
	require.NoError(t, err)

	for i := 1; i <= 4; i++ {
		assert.False(t, c.Tick(), "tick %d should not expire", i)
		assert.False(t, c.Exhausted())
	}

	assert.True(t, c.Tick())
	assert.True(t, c.Exhausted())
	assert.Equal(t, 5, c.Elapsed())

	for i := 0; i < 10; i++ {
		assert.False(t, c.Tick())
	}
	assert.Equal(t, []int{5}, fired)
	assert.Equal(t, 5, c.Elapsed(), "elapsed stops advancing after expiry")
}

func TestCoordinator_PracticeNeverExpires(t *testing.T) {
	called := false
	c, err := timer.New(timer.Untimed, func(int) { called = true })
	require.NoError(t, err)

	for i := 0; i < 100000; i++ {
		c.Tick()
	}

	assert.False(t, called)
	assert.False(t, c.Exhausted())
	assert.Equal(t, 100000, c.Elapsed())
	assert.Equal(t, 100000, c.Display())
}

func TestCoordinator_StopPreventsExpiry(t *testing.T) {
	called := false
	c, err := timer.New(3, func(int) { called = true })
	require.NoError(t, err)

	c.Tick()
	c.Stop()
	for i := 0; i < 5; i++ {
		assert.False(t, c.Tick())
	}

	assert.False(t, called)
	assert.True(t, c.Stopped())
	assert.Equal(t, 1, c.Elapsed())
}

func TestCoordinator_Display(t *testing.T) {
	c, err := timer.New(3, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, c.Display())
	c.Tick()
	assert.Equal(t, 2, c.Display())
	c.Tick()
	c.Tick()
	assert.Equal(t, 0, c.Display())
}

func TestNew_RejectsInvalidBudget(t *testing.T) {
	_, err := timer.New(0, nil)
	assert.ErrorIs(t, err, timer.ErrInvalidBudget)
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00:00", timer.FormatClock(0))
	assert.Equal(t, "00:01:05", timer.FormatClock(65))
	assert.Equal(t, "03:00:00", timer.FormatClock(3*60*60))
	assert.Equal(t, "00:00:00", timer.FormatClock(-4))
	assert.Equal(t, "untimed", timer.Untimed.String())
	assert.Equal(t, "00:30:00", timer.Budget(1800).String())
}
