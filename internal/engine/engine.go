// Package engine provides the real-time loop that drives day boundaries.
package engine

import (
	"log/slog"
	"time"
)

// DefaultDayInterval is the wall-clock length of one in-game day at
// speed 1.
const DefaultDayInterval = 5 * time.Second

// Engine fires the OnDay callback once per in-game day boundary, scaled by
// a speed multiplier. Speed 0 pauses.
type Engine struct {
	Speed    float64       // multiplier: 1.0 = real-time, 0 = paused
	Interval time.Duration // wall-clock per day at speed 1
	Running  bool

	OnDay func() // invoked at each day boundary
}

// New creates an engine with default settings.
func New() *Engine {
	return &Engine{
		Speed:    1.0,
		Interval: DefaultDayInterval,
	}
}

// Run starts the loop. Blocks until Stop() is called.
func (e *Engine) Run() {
	e.Running = true
	slog.Info("simulation engine started", "speed", e.Speed, "day_interval", e.Interval)

	for e.Running {
		if e.Speed <= 0 {
			// Paused. Sleep briefly and check again.
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()

		if e.OnDay != nil {
			e.OnDay()
		}

		// Sleep for the remainder of the day interval, adjusted for speed.
		elapsed := time.Since(start)
		target := time.Duration(float64(e.Interval) / e.Speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("simulation engine stopped")
}

// Stop halts the loop after the current day completes.
func (e *Engine) Stop() {
	e.Running = false
}
