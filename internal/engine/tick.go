// Package engine provides the colony world, its per-tick update rule and the
// paced loop that drives it.
package engine

import (
	"log/slog"
	"sync"
	"time"
)

// Engine drives the simulation forward.
type Engine struct {
	Tick        uint64        // Current tick counter (monotonic, never resets)
	Interval    time.Duration // Base tick interval at speed 1
	MaxTicks    uint64        // Stop after this many ticks (0 = never)
	ReportEvery uint64        // Ticks between OnReport calls

	// Callbacks, populated during setup.
	OnTick   func(tick uint64) // Every tick
	OnReport func(tick uint64) // Every ReportEvery ticks

	mu      sync.Mutex
	speed   float64 // Multiplier: 1.0 = Interval per tick, 0 = paused
	running bool
	stopped bool // Set by Stop; a later Run returns at once
}

// NewEngine creates an engine running ticksPerSecond ticks per second at speed 1.
func NewEngine(ticksPerSecond int) *Engine {
	if ticksPerSecond < 1 {
		ticksPerSecond = 1
	}
	return &Engine{
		Interval:    time.Second / time.Duration(ticksPerSecond),
		ReportEvery: 100,
		speed:       1.0,
	}
}

// Speed returns the current speed multiplier.
func (e *Engine) Speed() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.speed
}

// SetSpeed changes the speed multiplier. Zero pauses the loop.
func (e *Engine) SetSpeed(speed float64) {
	e.mu.Lock()
	e.speed = speed
	e.mu.Unlock()
}

// Running reports whether Run is active.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Run starts the simulation loop. Blocks until Stop() is called or MaxTicks
// is reached. Run returns immediately if Stop was already called.
func (e *Engine) Run() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		slog.Info("simulation engine stopped before start", "tick", e.Tick)
		return
	}
	e.running = true
	e.mu.Unlock()
	slog.Info("simulation engine started", "tick", e.Tick, "speed", e.Speed())

	for e.Running() {
		speed := e.Speed()
		if speed <= 0 {
			// Paused: sleep briefly and check again.
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()

		e.step()
		if e.MaxTicks > 0 && e.Tick >= e.MaxTicks {
			slog.Info("tick limit reached", "tick", e.Tick)
			e.Stop()
			break
		}

		// Sleep for the remainder of the tick interval, adjusted for speed.
		elapsed := time.Since(start)
		target := time.Duration(float64(e.Interval) / speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("simulation engine stopped", "tick", e.Tick)
}

// Stop halts the simulation loop after the current tick. It may be called
// before Run.
func (e *Engine) Stop() {
	e.mu.Lock()
	e.running = false
	e.stopped = true
	e.mu.Unlock()
}

// step advances the simulation by one tick.
func (e *Engine) step() {
	e.Tick++

	if e.OnTick != nil {
		e.OnTick(e.Tick)
	}

	if e.ReportEvery > 0 && e.Tick%e.ReportEvery == 0 && e.OnReport != nil {
		e.OnReport(e.Tick)
	}
}
