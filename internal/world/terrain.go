// Terrain generation using layered simplex noise, or loading from a map image.
// The terrain is fixed once built; nothing in the simulation writes to it.
package world

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // map images may be JPEG
	_ "image/png"
	"math"
	"math/rand"
	"os"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Terrain is the static land/water classification of every cell.
type Terrain struct {
	width  int
	height int
	water  []bool
	img    *image.RGBA
}

// GenConfig holds terrain generation parameters.
type GenConfig struct {
	Width     int
	Height    int
	Seed      int64   // Random seed (0 = random)
	SeaLevel  float64 // Elevation threshold for water (0.0-1.0)
	Frequency float64 // Base noise frequency per cell
	Octaves   int
}

// DefaultGenConfig returns a reasonable starting configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Width:     320,
		Height:    240,
		SeaLevel:  0.42,
		Frequency: 0.012,
		Octaves:   5,
	}
}

var (
	deepWater    = color.RGBA{R: 24, G: 60, B: 130, A: 255}
	shallowWater = color.RGBA{R: 52, G: 110, B: 190, A: 255}
	lowland      = color.RGBA{R: 86, G: 150, B: 72, A: 255}
	highland     = color.RGBA{R: 150, G: 140, B: 96, A: 255}
)

// GenerateTerrain builds a terrain map from octave simplex noise.
func GenerateTerrain(cfg GenConfig) *Terrain {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	octaves := cfg.Octaves
	if octaves < 1 {
		octaves = 1
	}

	noise := opensimplex.NewNormalized(seed)
	t := newTerrain(cfg.Width, cfg.Height)

	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			elev := octaveNoise(noise, float64(x), float64(y), octaves, cfg.Frequency, 0.5)
			i := y*cfg.Width + x
			if elev < cfg.SeaLevel {
				t.water[i] = true
				t.img.SetRGBA(x, y, blend(deepWater, shallowWater, elev/cfg.SeaLevel))
			} else {
				t.img.SetRGBA(x, y, blend(lowland, highland, (elev-cfg.SeaLevel)/(1-cfg.SeaLevel)))
			}
		}
	}
	return t
}

// LoadTerrain reads a map image. Blue-dominant pixels are water.
// The image must match the grid dimensions exactly.
func LoadTerrain(path string, width, height int) (*Terrain, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open terrain image: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode terrain image %s: %w", path, err)
	}
	return TerrainFromImage(src, width, height)
}

// TerrainFromImage classifies every pixel of src as land or water.
func TerrainFromImage(src image.Image, width, height int) (*Terrain, error) {
	b := src.Bounds()
	if b.Dx() != width || b.Dy() != height {
		return nil, fmt.Errorf("terrain image is %dx%d; grid is %dx%d", b.Dx(), b.Dy(), width, height)
	}

	t := newTerrain(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.RGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA)
			t.img.SetRGBA(x, y, c)
			t.water[y*width+x] = isWaterColor(c)
		}
	}
	return t, nil
}

func newTerrain(width, height int) *Terrain {
	return &Terrain{
		width:  width,
		height: height,
		water:  make([]bool, width*height),
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

func isWaterColor(c color.RGBA) bool {
	return c.B > c.R && c.B > c.G
}

// Width returns the terrain width in cells.
func (t *Terrain) Width() int { return t.width }

// Height returns the terrain height in cells.
func (t *Terrain) Height() int { return t.height }

// IsWaterAt reports whether the cell is water. Coordinates wrap like the grid.
func (t *Terrain) IsWaterAt(x, y int) bool {
	return t.water[Wrap(y, t.height)*t.width+Wrap(x, t.width)]
}

// Image returns the drawable terrain. Callers must not modify it.
func (t *Terrain) Image() image.Image {
	return t.img
}

// LandCount returns the number of land cells.
func (t *Terrain) LandCount() int {
	n := 0
	for _, w := range t.water {
		if !w {
			n++
		}
	}
	return n
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

func blend(a, b color.RGBA, t float64) color.RGBA {
	t = math.Max(0, math.Min(1, t))
	mix := func(p, q uint8) uint8 {
		return uint8(float64(p) + (float64(q)-float64(p))*t)
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}
