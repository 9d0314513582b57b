// Package colony provides colony descriptors, the per-tick aggregate registry,
// and the strategies that decide where colonies start.
package colony

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/talgya/colonysim/internal/agents"
)

// EmptyColor is the color of the sentinel colony 0 (empty or dead cells).
// It is transparent so the terrain shows through when layers are composed.
var EmptyColor = color.RGBA{}

// Colony is a faction of people sharing an id, a color and a strength range.
type Colony struct {
	ID          agents.ColonyID      `json:"id"`
	Name        string               `json:"name"`
	Color       color.RGBA           `json:"-"`
	StartPeople int                  `json:"start_people"`
	Strength    agents.StrengthRange `json:"strength"`
}

// ColorHex returns the colony color as "#rrggbb".
func (c Colony) ColorHex() string {
	cf, _ := colorful.MakeColor(c.Color)
	return cf.Hex()
}

// Stats is one colony's aggregate for a single tick.
type Stats struct {
	ID            agents.ColonyID `json:"id"`
	Name          string          `json:"name"`
	Color         string          `json:"color"`
	Population    int             `json:"population"`
	TotalStrength uint64          `json:"total_strength"`
	AvgStrength   float64         `json:"avg_strength"`
}

// sentinel returns the colony-0 descriptor.
func sentinel() Colony {
	return Colony{ID: agents.NoColony, Name: "Unclaimed", Color: EmptyColor}
}
