package timer

import "time"

// Ticker delivers tick events. It exists so session loops can be driven by
// a fake channel in tests.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type wallTicker struct{ t *time.Ticker }

// NewTicker returns a Ticker firing every Interval.
func NewTicker() Ticker {
	return &wallTicker{t: time.NewTicker(Interval)}
}

func (w *wallTicker) C() <-chan time.Time { return w.t.C }
func (w *wallTicker) Stop()               { w.t.Stop() }

// ManualTicker is a Ticker whose ticks are sent by the caller.
type ManualTicker struct {
	ch chan time.Time
}

func NewManualTicker() *ManualTicker {
	return &ManualTicker{ch: make(chan time.Time)}
}

func (m *ManualTicker) C() <-chan time.Time { return m.ch }

// Stop is a no-op; the channel stays open, matching time.Ticker.
func (m *ManualTicker) Stop() {}

// Fire delivers one tick, blocking until the loop receives it.
func (m *ManualTicker) Fire() { m.ch <- time.Time{} }
