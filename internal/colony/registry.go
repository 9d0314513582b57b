package colony

import (
	"fmt"
	"image/color"

	"github.com/talgya/colonysim/internal/agents"
)

// Registry holds the static colony descriptors and the running per-tick
// aggregates. Slot 0 is the "no colony" sentinel.
type Registry struct {
	colonies      []Colony
	population    []int
	totalStrength []uint64
}

// NewRegistry builds a registry from colonies, which must start with the
// sentinel at index 0 and be numbered by position.
func NewRegistry(colonies []Colony) (*Registry, error) {
	if len(colonies) == 0 || colonies[0].ID != agents.NoColony {
		return nil, fmt.Errorf("colony list must start with the sentinel")
	}
	for i, c := range colonies {
		if int(c.ID) != i {
			return nil, fmt.Errorf("colony at index %d has id %d", i, c.ID)
		}
		if c.Strength.High < c.Strength.Low {
			return nil, fmt.Errorf("colony %d: strength range [%d, %d] is inverted", c.ID, c.Strength.Low, c.Strength.High)
		}
	}
	return &Registry{
		colonies:      colonies,
		population:    make([]int, len(colonies)),
		totalStrength: make([]uint64, len(colonies)),
	}, nil
}

// Len returns the number of slots including the sentinel.
func (r *Registry) Len() int {
	return len(r.colonies)
}

// Colony returns the descriptor for id.
func (r *Registry) Colony(id agents.ColonyID) Colony {
	return r.colonies[id]
}

// Colonies returns all descriptors including the sentinel.
func (r *Registry) Colonies() []Colony {
	return r.colonies
}

// Color returns the render color for id.
func (r *Registry) Color(id agents.ColonyID) color.RGBA {
	return r.colonies[id].Color
}

// Reset zeroes every aggregate at the start of a tick.
func (r *Registry) Reset() {
	for i := range r.population {
		r.population[i] = 0
		r.totalStrength[i] = 0
	}
}

// RecordSurvivor counts one living person. Call it once per survivor, after
// its final disposition for the tick is known.
func (r *Registry) RecordSurvivor(id agents.ColonyID, strength uint32) {
	if id == agents.NoColony || int(id) >= len(r.population) {
		return
	}
	r.population[id]++
	r.totalStrength[id] += uint64(strength)
}

// Population returns the current population of id.
func (r *Registry) Population(id agents.ColonyID) int {
	return r.population[id]
}

// Total returns the summed population of all colonies.
func (r *Registry) Total() int {
	n := 0
	for _, p := range r.population[1:] {
		n += p
	}
	return n
}

// Snapshot returns a copy of the aggregates for colonies 1..n.
func (r *Registry) Snapshot() []Stats {
	out := make([]Stats, 0, len(r.colonies)-1)
	for _, c := range r.colonies[1:] {
		s := Stats{
			ID:            c.ID,
			Name:          c.Name,
			Color:         c.ColorHex(),
			Population:    r.population[c.ID],
			TotalStrength: r.totalStrength[c.ID],
		}
		if s.Population > 0 {
			s.AvgStrength = float64(s.TotalStrength) / float64(s.Population)
		}
		out = append(out, s)
	}
	return out
}
