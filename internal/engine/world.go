package engine

import (
	"fmt"
	"image/color"
	"log/slog"
	"math/rand"

	"github.com/talgya/colonysim/internal/agents"
	"github.com/talgya/colonysim/internal/colony"
	"github.com/talgya/colonysim/internal/entropy"
	"github.com/talgya/colonysim/internal/world"
)

// Canvas receives one color per cell per tick. *image.RGBA satisfies it.
type Canvas interface {
	Set(x, y int, c color.Color)
}

// Options are the per-world tunables.
type Options struct {
	ReproductionThreshold uint32
	Rules                 agents.Rules
}

// World owns the current people grid and applies the per-tick update rule.
// It is not safe for concurrent use; Simulation guards it.
type World struct {
	terrain  *world.Terrain
	people   *world.Grid[agents.Person]
	registry *colony.Registry
	opts     Options
	rng      *rand.Rand

	order      []int  // Visitation permutation, reshuffled every tick
	visited    []bool // Cells already resolved this tick
	tick       uint64 // Ticks completed
	population int    // Live people after the last tick
	extinct    []bool
}

// NewWorld places the colonies produced by placer onto terrain and seeds
// each with its starting population.
func NewWorld(terrain *world.Terrain, placer colony.Placer, opts Options, src *entropy.Source) (*World, error) {
	width, height := terrain.Width(), terrain.Height()

	locations, colonies, err := placer.Place(width, height, terrain)
	if err != nil {
		return nil, fmt.Errorf("place colonies: %w", err)
	}
	if len(locations) != len(colonies) {
		return nil, fmt.Errorf("placement returned %d locations for %d colonies", len(locations)-1, len(colonies)-1)
	}
	registry, err := colony.NewRegistry(colonies)
	if err != nil {
		return nil, fmt.Errorf("colony registry: %w", err)
	}

	people := world.NewGrid[agents.Person](width, height)
	spawner := agents.NewSpawner(src.Stream(entropy.StreamSpawn))
	for i := 1; i < len(colonies); i++ {
		c := colonies[i]
		res := spawner.SpawnColony(people, terrain, locations[i], c.ID, c.StartPeople, c.Strength)
		slog.Debug("colony seeded",
			"colony", c.Name,
			"x", locations[i].X,
			"y", locations[i].Y,
			"placed", res.Placed,
			"skipped", res.Skipped,
		)
	}

	return newWorld(terrain, people, registry, opts, src.Stream(entropy.StreamTick)), nil
}

func newWorld(terrain *world.Terrain, people *world.Grid[agents.Person], registry *colony.Registry, opts Options, rng *rand.Rand) *World {
	w := &World{
		terrain:  terrain,
		people:   people,
		registry: registry,
		opts:     opts,
		rng:      rng,
		order:    make([]int, people.Len()),
		visited:  make([]bool, people.Len()),
		extinct:  make([]bool, registry.Len()),
	}
	for i := range w.order {
		w.order[i] = i
	}
	w.tally(people, nil)
	return w
}

// Tick returns the number of completed ticks.
func (w *World) Tick() uint64 { return w.tick }

// Population returns the number of live people after the last tick.
func (w *World) Population() int { return w.population }

// Terrain returns the static terrain map.
func (w *World) Terrain() *world.Terrain { return w.terrain }

// Registry returns the colony registry.
func (w *World) Registry() *colony.Registry { return w.registry }

// PersonAt returns a copy of the person at (x, y).
func (w *World) PersonAt(x, y int) agents.Person {
	return w.people.Get(x, y)
}

// Update runs one full tick. Every cell is visited once in a fresh random
// order; neighbor state is always read from the pre-tick grid and results are
// written into a new grid, which replaces the current one when the pass ends.
// canvas may be nil.
func (w *World) Update(canvas Canvas) TickReport {
	next := world.NewGrid[agents.Person](w.people.Width(), w.people.Height())
	rep := TickReport{Tick: w.tick + 1}

	for i := range w.visited {
		w.visited[i] = false
	}
	w.rng.Shuffle(len(w.order), func(i, j int) {
		w.order[i], w.order[j] = w.order[j], w.order[i]
	})

	for _, idx := range w.order {
		x, y := w.people.Coords(idx)
		w.updateCell(x, y, next, &rep)
		w.visited[idx] = true
	}

	prev := w.population
	w.people = next
	w.tick++
	w.tally(next, canvas)

	rep.Population = w.population
	rep.Deaths = prev + rep.Births - w.population
	rep.Colonies = w.registry.Snapshot()
	for _, s := range rep.Colonies {
		if s.Population == 0 && !w.extinct[s.ID] {
			w.extinct[s.ID] = true
			rep.Extinct = append(rep.Extinct, s.ID)
			slog.Info("colony extinct", "colony", s.Name, "tick", w.tick)
		}
	}
	return rep
}

// updateCell resolves the person at (x, y) for this tick.
func (w *World) updateCell(x, y int, next *world.Grid[agents.Person], rep *TickReport) {
	person := w.people.At(x, y)
	if !person.Alive {
		return
	}

	switch person.Update(w.rng, w.opts.Rules) {
	case agents.CauseAge:
		rep.DeathsAge++
		return
	case agents.CauseDisease:
		rep.DeathsDisease++
		return
	}

	move := person.NextMove(w.rng)
	tx, ty := w.people.Wrap(x+move.X, y+move.Y)

	// Water blocks movement.
	if w.terrain.IsWaterAt(tx, ty) {
		w.write(next, x, y, *person, rep)
		rep.Stayed++
		return
	}

	target := w.people.At(tx, ty)

	// Never displace a live member of the same colony; catch its disease.
	if target.Alive && target.Colony == person.Colony {
		if target.Diseased && !person.Diseased {
			person.GiveDisease()
			rep.Infections++
		}
		w.write(next, x, y, *person, rep)
		rep.Stayed++
		return
	}

	if target.Alive {
		rep.Fights++
		// A defender resolved earlier this tick already has its copy in the
		// next grid, and the fight result must reach that copy too. If the
		// copy was since overwritten, its loss is already a collision.
		slot := next.At(tx, ty)
		resolved := w.visited[w.people.Index(tx, ty)]
		mirrored := resolved && *slot == *target
		defenderCounted := !resolved || mirrored

		outcome := person.Fight(target)
		if mirrored {
			*slot = *target
		}
		switch outcome {
		case agents.OutcomeWin:
			if defenderCounted {
				rep.DeathsCombat++
			}
		case agents.OutcomeLoss:
			rep.DeathsCombat++
			return
		case agents.OutcomeMutual:
			rep.DeathsCombat++
			if defenderCounted {
				rep.DeathsCombat++
			}
			return
		}
	}

	reproduce := person.ReadyToReproduce(w.opts.ReproductionThreshold)
	var child agents.ChildData
	if reproduce {
		child = person.Child(w.rng, w.registry.Colony(person.Colony).Strength)
	}

	w.write(next, tx, ty, *person, rep)
	rep.Moves++

	// The person now lives only at its destination. Its old slot either
	// holds its newborn or is cleared.
	if reproduce {
		person.Init(child)
		w.write(next, x, y, *person, rep)
		rep.Births++
	} else {
		person.Kill()
	}
}

// write stores p in the next grid. A later write to the same slot replaces
// an earlier one; such collisions are counted.
func (w *World) write(next *world.Grid[agents.Person], x, y int, p agents.Person, rep *TickReport) {
	slot := next.At(x, y)
	if slot.Alive {
		rep.Collisions++
	}
	*slot = p
}

// tally recounts the colony aggregates from g and rasterizes every cell.
func (w *World) tally(g *world.Grid[agents.Person], canvas Canvas) {
	w.registry.Reset()
	cells := g.Cells()
	for i := range cells {
		p := &cells[i]
		c := colony.EmptyColor
		if p.Alive {
			w.registry.RecordSurvivor(p.Colony, p.Strength)
			c = w.registry.Color(p.Colony)
		}
		if canvas != nil {
			x, y := g.Coords(i)
			canvas.Set(x, y, c)
		}
	}
	w.population = w.registry.Total()
}
