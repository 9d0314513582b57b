// Package agents provides the per-cell person model: aging, disease,
// production toward reproduction, movement choice and combat.
package agents

import "math/rand"

// ColonyID identifies a colony. Zero is the "no colony" sentinel.
type ColonyID uint16

// NoColony marks an empty cell.
const NoColony ColonyID = 0

// Person is the occupant of one grid cell. The zero value is an empty, dead cell.
// Persons are plain values: copying one into the next-generation grid moves it.
type Person struct {
	Alive      bool     `json:"alive"`
	Colony     ColonyID `json:"colony"`
	Strength   uint32   `json:"strength"`   // Combat currency and lifespan in ticks
	Diseased   bool     `json:"diseased"`
	Production uint32   `json:"production"` // Accrues toward the reproduction threshold
	Age        uint32   `json:"age"`        // Ticks lived
}

// ChildData is everything needed to bring a person to life.
type ChildData struct {
	Colony   ColonyID
	Strength uint32
	Diseased bool
}

// StrengthRange is a colony's inclusive birth-strength interval.
type StrengthRange struct {
	Low  uint32 `json:"low"`
	High uint32 `json:"high"`
}

// Roll returns a strength uniformly drawn from the range.
func (r StrengthRange) Roll(rng *rand.Rand) uint32 {
	if r.High <= r.Low {
		return r.Low
	}
	return r.Low + uint32(rng.Int63n(int64(r.High-r.Low)+1))
}

// Contains reports whether s lies within the range.
func (r StrengthRange) Contains(s uint32) bool {
	return s >= r.Low && s <= r.High
}

// Move is a movement delta to a neighboring cell (or the same cell).
type Move struct {
	X int
	Y int
}

// Outcome is the result of a fight from the attacker's point of view.
type Outcome uint8

const (
	OutcomeWin    Outcome = iota // Defender dies, attacker survives weakened
	OutcomeLoss                  // Attacker dies, defender survives weakened
	OutcomeMutual                // Equal strength: both die
)

// String returns a human-readable outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "win"
	case OutcomeLoss:
		return "loss"
	case OutcomeMutual:
		return "mutual"
	default:
		return "unknown"
	}
}

// DeathCause records why a person stopped being alive during Update.
type DeathCause uint8

const (
	CauseNone DeathCause = iota
	CauseAge
	CauseDisease
)
