// Colony placement: decides where each colony starts and what its stats are.
package colony

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // colony images may be JPEG
	_ "image/png"
	"math/rand"
	"os"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/talgya/colonysim/internal/agents"
)

// Mode selects a placement strategy.
type Mode string

const (
	ModeRandom Mode = "random"
	ModeCustom Mode = "custom"
)

// ErrNoLand is returned when there is nowhere to put a colony.
var ErrNoLand = errors.New("no land cells to place colonies on")

// Placer produces colony seed locations and the parallel colony list.
// Both slices have the sentinel at index 0; locations[0] is unused.
type Placer interface {
	Place(width, height int, land agents.Land) ([]image.Point, []Colony, error)
}

// Defaults are the stat ranges a placer draws colony stats from.
type Defaults struct {
	StrengthMin    uint32 // Lowest possible StrLow
	StrengthMax    uint32 // Highest possible StrHigh
	StartPeopleMin int
	StartPeopleMax int
	FastPalette    bool // Use go-colorful's fast palette instead of the iterative one
}

// DefaultDefaults returns the stock stat ranges.
func DefaultDefaults() Defaults {
	return Defaults{
		StrengthMin:    50,
		StrengthMax:    650,
		StartPeopleMin: 30,
		StartPeopleMax: 120,
	}
}

// PlacerConfig selects and parameterizes a placement strategy.
type PlacerConfig struct {
	Mode      Mode
	ImagePath string // ModeCustom only
	Count     int    // Colony count; for ModeCustom 0 means "whatever the image holds"
	Defaults  Defaults
}

// NewPlacer returns the placement strategy for cfg.
func NewPlacer(cfg PlacerConfig, rng *rand.Rand) (Placer, error) {
	switch cfg.Mode {
	case ModeRandom, "":
		if cfg.Count < 1 {
			return nil, fmt.Errorf("Colonies = %d; must be > 0 for random placement", cfg.Count)
		}
		return &RandomPlacer{Count: cfg.Count, Defaults: cfg.Defaults, rng: rng}, nil
	case ModeCustom:
		if cfg.ImagePath == "" {
			return nil, fmt.Errorf("custom placement requires an image path")
		}
		return &ImagePlacer{Path: cfg.ImagePath, Count: cfg.Count, Defaults: cfg.Defaults, rng: rng}, nil
	default:
		return nil, fmt.Errorf("Placement = %s; must be one of: %s, %s", cfg.Mode, ModeRandom, ModeCustom)
	}
}

// RandomPlacer scatters Count seed points uniformly over land.
type RandomPlacer struct {
	Count    int
	Defaults Defaults
	rng      *rand.Rand
}

// Place picks a random land cell for every colony and rolls its stats.
func (p *RandomPlacer) Place(width, height int, land agents.Land) ([]image.Point, []Colony, error) {
	locations := make([]image.Point, p.Count+1)
	maxAttempts := width * height * 4

	for i := 1; i <= p.Count; i++ {
		found := false
		for attempt := 0; attempt < maxAttempts; attempt++ {
			pt := image.Point{X: p.rng.Intn(width), Y: p.rng.Intn(height)}
			if !land.IsWaterAt(pt.X, pt.Y) {
				locations[i] = pt
				found = true
				break
			}
		}
		if !found {
			return nil, nil, ErrNoLand
		}
	}

	colors := palette(p.Count, p.Defaults.FastPalette)
	names := generateNames(p.rng, p.Count)

	colonies := make([]Colony, p.Count+1)
	colonies[0] = sentinel()
	for i := 1; i <= p.Count; i++ {
		colonies[i] = rollColony(p.rng, agents.ColonyID(i), names[i-1], colors[i-1], p.Defaults)
	}
	return locations, colonies, nil
}

// ImagePlacer reads colony seeds from an image the size of the grid. Every
// opaque pixel that is neither black nor white marks a seed; each distinct
// color is one colony, numbered in row-major scan order of first appearance.
type ImagePlacer struct {
	Path     string
	Count    int
	Defaults Defaults
	rng      *rand.Rand
}

// Place decodes the image and derives locations and colonies from it.
func (p *ImagePlacer) Place(width, height int, land agents.Land) ([]image.Point, []Colony, error) {
	f, err := os.Open(p.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open colony image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, nil, fmt.Errorf("decode colony image %s: %w", p.Path, err)
	}
	return p.placeFromImage(img, width, height)
}

func (p *ImagePlacer) placeFromImage(img image.Image, width, height int) ([]image.Point, []Colony, error) {
	b := img.Bounds()
	if b.Dx() != width || b.Dy() != height {
		return nil, nil, fmt.Errorf("colony image is %dx%d; grid is %dx%d", b.Dx(), b.Dy(), width, height)
	}

	locations := []image.Point{{}}
	colors := []color.RGBA{}
	seen := make(map[color.RGBA]bool)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.RGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA)
			if !isSeedColor(c) || seen[c] {
				continue
			}
			seen[c] = true
			locations = append(locations, image.Point{X: x, Y: y})
			colors = append(colors, c)
		}
	}

	found := len(colors)
	if found == 0 {
		return nil, nil, fmt.Errorf("colony image %s holds no colony seeds", p.Path)
	}
	if p.Count > 0 && found != p.Count {
		return nil, nil, fmt.Errorf("colony image %s holds %d colonies; config asks for %d", p.Path, found, p.Count)
	}

	names := generateNames(p.rng, found)
	colonies := make([]Colony, found+1)
	colonies[0] = sentinel()
	for i := 1; i <= found; i++ {
		colonies[i] = rollColony(p.rng, agents.ColonyID(i), names[i-1], colors[i-1], p.Defaults)
	}
	return locations, colonies, nil
}

func isSeedColor(c color.RGBA) bool {
	if c.A != 255 {
		return false
	}
	black := c.R == 0 && c.G == 0 && c.B == 0
	white := c.R == 255 && c.G == 255 && c.B == 255
	return !black && !white
}

// rollColony draws a strength range inside [StrengthMin, StrengthMax] and a
// starting population.
func rollColony(rng *rand.Rand, id agents.ColonyID, name string, c color.RGBA, d Defaults) Colony {
	span := int(d.StrengthMax - d.StrengthMin)
	low := d.StrengthMin
	if span > 0 {
		low += uint32(rng.Intn(span/2 + 1))
	}
	high := low
	if rest := int(d.StrengthMax - low); rest > 0 {
		high += uint32(rng.Intn(rest + 1))
	}

	people := d.StartPeopleMin
	if d.StartPeopleMax > d.StartPeopleMin {
		people += rng.Intn(d.StartPeopleMax - d.StartPeopleMin + 1)
	}

	return Colony{
		ID:          id,
		Name:        name,
		Color:       c,
		StartPeople: people,
		Strength:    agents.StrengthRange{Low: low, High: high},
	}
}

// palette returns n visually distinct opaque colors.
func palette(n int, fast bool) []color.RGBA {
	var colors []colorful.Color

	if !fast {
		var err error
		colors, err = colorful.HappyPalette(n)
		if err != nil {
			fast = true
		}
	}
	if fast {
		colors = colorful.FastHappyPalette(n)
	}

	out := make([]color.RGBA, len(colors))
	for i, c := range colors {
		r, g, b := c.Clamped().RGB255()
		out[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return out
}

// generateNames produces procedural colony names by combining syllables.
func generateNames(rng *rand.Rand, count int) []string {
	prefixes := []string{
		"Iron", "Green", "Ash", "Stone", "Mill", "Cross", "Black",
		"Silver", "Red", "White", "Dark", "Bright", "High", "Low",
		"Old", "New", "Far", "Deep", "Long", "Broad", "Gold", "Frost",
		"Storm", "Thorn", "Elm", "Oak", "Pine", "Copper", "River",
	}
	suffixes := []string{
		"haven", "ford", "hollow", "wick", "bridge", "gate", "keep",
		"stead", "wood", "field", "dale", "crest", "vale", "port",
		"town", "bury", "marsh", "well", "brook", "cliff", "moor",
		"ridge", "watch", "fall", "rest", "point", "reach", "helm",
	}

	used := make(map[string]bool)
	names := make([]string, 0, count)

	for len(names) < count {
		name := prefixes[rng.Intn(len(prefixes))] + suffixes[rng.Intn(len(suffixes))]
		if used[name] && len(used) < len(prefixes)*len(suffixes) {
			continue
		}
		if used[name] {
			name = fmt.Sprintf("%s %d", name, len(names)+1)
		}
		used[name] = true
		names = append(names, name)
	}

	return names
}
