// Simulation wraps a World for use from several goroutines: the engine loop
// writes, the API and viewers read published per-tick results.
package engine

import (
	"image"
	"image/draw"
	"log/slog"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/talgya/colonysim/internal/colony"
)

// Simulation holds the world, its rendered colony layer and the most recent
// tick report.
type Simulation struct {
	mu    sync.RWMutex
	world *World
	layer *image.RGBA // Colony colors, transparent where empty
	last  TickReport

	subMu   sync.Mutex
	subs    map[int]chan TickReport
	nextSub int
}

// Status is a point-in-time summary for observers.
type Status struct {
	Tick       uint64 `json:"tick"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Colonies   int    `json:"colonies"`
	Population int    `json:"population"`
	Alive      int    `json:"alive_colonies"`
	LandCells  int    `json:"land_cells"`
}

// NewSimulation wraps w and renders its starting state.
func NewSimulation(w *World) *Simulation {
	t := w.Terrain()
	s := &Simulation{
		world: w,
		layer: image.NewRGBA(image.Rect(0, 0, t.Width(), t.Height())),
		subs:  make(map[int]chan TickReport),
	}
	w.tally(w.people, s.layer)
	s.last = TickReport{
		Tick:       w.Tick(),
		Population: w.Population(),
		Colonies:   w.Registry().Snapshot(),
	}
	return s
}

// TickOnce runs one world tick and publishes the result. Its signature
// matches Engine.OnTick.
func (s *Simulation) TickOnce(uint64) {
	s.mu.Lock()
	rep := s.world.Update(s.layer)
	s.last = rep
	s.mu.Unlock()

	s.broadcast(rep)
}

// LastReport returns the report of the most recent tick.
func (s *Simulation) LastReport() TickReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// Colonies returns the colony descriptors, sentinel excluded.
func (s *Simulation) Colonies() []colony.Colony {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.world.Registry().Colonies()
	out := make([]colony.Colony, len(all)-1)
	copy(out, all[1:])
	return out
}

// Status returns a summary of the current state.
func (s *Simulation) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	alive := 0
	for _, c := range s.last.Colonies {
		if c.Population > 0 {
			alive++
		}
	}
	t := s.world.Terrain()
	return Status{
		Tick:       s.world.Tick(),
		Width:      t.Width(),
		Height:     t.Height(),
		Colonies:   s.world.Registry().Len() - 1,
		Population: s.world.Population(),
		Alive:      alive,
		LandCells:  t.LandCount(),
	}
}

// CopyLayer copies the colony layer into dst, which must match its bounds.
func (s *Simulation) CopyLayer(dst *image.RGBA) {
	s.mu.RLock()
	copy(dst.Pix, s.layer.Pix)
	s.mu.RUnlock()
}

// Composite draws the terrain with the colony layer over it.
func (s *Simulation) Composite() *image.RGBA {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b := s.layer.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, s.world.Terrain().Image(), image.Point{}, draw.Src)
	draw.Draw(out, b, s.layer, image.Point{}, draw.Over)
	return out
}

// Subscribe registers a channel that receives every tick report. Slow
// subscribers miss reports rather than stall the tick loop.
func (s *Simulation) Subscribe() (int, <-chan TickReport) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan TickReport, 16)
	s.subs[id] = ch
	return id, ch
}

// Unsubscribe removes and closes a subscription.
func (s *Simulation) Unsubscribe(id int) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	if ch, ok := s.subs[id]; ok {
		delete(s.subs, id)
		close(ch)
	}
}

func (s *Simulation) broadcast(rep TickReport) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- rep:
		default:
		}
	}
}

// LogReport writes the periodic summary.
func (s *Simulation) LogReport(tick uint64) {
	rep := s.LastReport()

	slog.Info("colony report",
		"tick", tick,
		"population", humanize.Comma(int64(rep.Population)),
		"births", rep.Births,
		"deaths", rep.Deaths,
		"fights", rep.Fights,
		"collisions", rep.Collisions,
	)
	for _, c := range rep.Colonies {
		if c.Population == 0 {
			continue
		}
		slog.Debug("colony",
			"name", c.Name,
			"population", humanize.Comma(int64(c.Population)),
			"avg_strength", humanize.FormatFloat("#,###.##", c.AvgStrength),
		)
	}
}
