package practicesession

import (
	"time"

	"github.com/himanshubalani/gate-2025-mock-test-platform/internal/timer"
)

// SessionConfig holds the constraints a session is started with.
type SessionConfig struct {
	Budget       timer.Budget // timer.Untimed = practice mode
	MaxQuestions *int         // nil = every matching question
	Sources      []string     // source groups to draw from; at least one
}

// DefaultConfig returns the full-length timed exam over no sources. Callers
// fill in Sources.
func DefaultConfig() SessionConfig {
	p, _ := PresetByName("180m")
	return p.Config(nil)
}

// Preset is a named exam length offered on the start screen.
type Preset struct {
	Name      string
	Budget    timer.Budget
	Questions int
}

var Presets = []Preset{
	{Name: "30m", Budget: timer.BudgetOf(30 * time.Minute), Questions: 20},
	{Name: "60m", Budget: timer.BudgetOf(60 * time.Minute), Questions: 30},
	{Name: "90m", Budget: timer.BudgetOf(90 * time.Minute), Questions: 40},
	{Name: "180m", Budget: timer.BudgetOf(180 * time.Minute), Questions: 65},
	{Name: "practice", Budget: timer.Untimed, Questions: 50},
}

func PresetByName(name string) (Preset, bool) {
	for _, p := range Presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

func (p Preset) Config(sources []string) SessionConfig {
	n := p.Questions
	return SessionConfig{
		Budget:       p.Budget,
		MaxQuestions: &n,
		Sources:      sources,
	}
}
