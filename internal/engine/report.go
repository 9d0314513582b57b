package engine

import (
	"github.com/talgya/colonysim/internal/agents"
	"github.com/talgya/colonysim/internal/colony"
)

// TickReport summarizes one tick.
type TickReport struct {
	Tick       uint64 `json:"tick"`
	Population int    `json:"population"`

	Births int `json:"births"`
	Deaths int `json:"deaths"` // Net losses: previous population + births - population

	// Death causes. Deaths equals their sum plus Collisions: a person
	// overwritten in the next grid is lost without a cause.
	DeathsAge     int `json:"deaths_age"`
	DeathsDisease int `json:"deaths_disease"`
	DeathsCombat  int `json:"deaths_combat"`

	Moves      int `json:"moves"`
	Stayed     int `json:"stayed"`
	Fights     int `json:"fights"`
	Infections int `json:"infections"`
	Collisions int `json:"collisions"` // Writes that replaced a person already in the next grid

	Colonies []colony.Stats    `json:"colonies"`
	Extinct  []agents.ColonyID `json:"extinct,omitempty"`
}
