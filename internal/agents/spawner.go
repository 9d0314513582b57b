// Agent spawning: scatters a colony's starting population around its seed point.
package agents

import (
	"image"
	"math/rand"

	"github.com/talgya/colonysim/internal/world"
)

// SeedRadius is how far from its seed point a starting person may land.
const SeedRadius = 5

// Land reports whether a cell can hold a person.
type Land interface {
	IsWaterAt(x, y int) bool
}

// SpawnResult counts what happened while seeding a colony.
type SpawnResult struct {
	Placed  int
	Skipped int // Offsets that fell outside the grid or on water
}

// Spawner creates the initial population of each colony.
type Spawner struct {
	rng    *rand.Rand
	radius int
}

// NewSpawner creates a spawner drawing from rng.
func NewSpawner(rng *rand.Rand) *Spawner {
	return &Spawner{rng: rng, radius: SeedRadius}
}

// SpawnColony attempts count placements within the seed radius of center.
// Offsets outside the grid (no wrap at seeding time) or on water are skipped,
// so a colony may start with fewer people than requested.
func (s *Spawner) SpawnColony(g *world.Grid[Person], land Land, center image.Point, id ColonyID, count int, strength StrengthRange) SpawnResult {
	var res SpawnResult

	for i := 0; i < count; i++ {
		x := center.X + s.rng.Intn(2*s.radius+1) - s.radius
		y := center.Y + s.rng.Intn(2*s.radius+1) - s.radius

		if x < 0 || x >= g.Width() || y < 0 || y >= g.Height() {
			res.Skipped++
			continue
		}
		if land.IsWaterAt(x, y) {
			res.Skipped++
			continue
		}

		g.At(x, y).Init(ChildData{
			Colony:   id,
			Strength: strength.Roll(s.rng),
			Diseased: false,
		})
		res.Placed++
	}

	return res
}
