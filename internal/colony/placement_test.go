package colony

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/talgya/colonysim/internal/agents"
)

type leftWater struct{ cols int }

func (l leftWater) IsWaterAt(x, y int) bool { return x < l.cols }

func seedImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			img.SetRGBA(x, y, color.RGBA{A: 255}) // black = nothing
		}
	}
	img.SetRGBA(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255}) // white = nothing
	img.SetRGBA(5, 1, color.RGBA{R: 255, A: 255})
	img.SetRGBA(2, 3, color.RGBA{G: 255, A: 255})
	img.SetRGBA(6, 4, color.RGBA{R: 255, A: 255}) // repeat of the first color
	img.SetRGBA(7, 5, color.RGBA{B: 255, A: 128}) // translucent = nothing
	return img
}

func TestPlaceFromImage(t *testing.T) {
	p := &ImagePlacer{Path: "seeds.png", Defaults: DefaultDefaults(), rng: rand.New(rand.NewSource(1))}

	locations, colonies, err := p.placeFromImage(seedImage(), 8, 6)
	if err != nil {
		t.Fatal(err)
	}
	if len(colonies) != 3 || len(locations) != 3 {
		t.Fatalf("got %d colonies, %d locations; want 3, 3", len(colonies), len(locations))
	}
	if colonies[0].ID != agents.NoColony {
		t.Error("index 0 is not the sentinel")
	}
	if locations[1] != (image.Point{X: 5, Y: 1}) || locations[2] != (image.Point{X: 2, Y: 3}) {
		t.Errorf("locations = %v; want scan order [(5,1) (2,3)]", locations[1:])
	}
	if colonies[1].Color != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("colony 1 color = %v", colonies[1].Color)
	}
	if _, err := NewRegistry(colonies); err != nil {
		t.Errorf("placed colonies rejected by registry: %v", err)
	}
}

func TestPlaceFromImageErrors(t *testing.T) {
	p := &ImagePlacer{Path: "seeds.png", Count: 5, Defaults: DefaultDefaults(), rng: rand.New(rand.NewSource(1))}
	if _, _, err := p.placeFromImage(seedImage(), 8, 6); err == nil {
		t.Error("expected error when the image holds fewer colonies than configured")
	}

	p.Count = 0
	if _, _, err := p.placeFromImage(seedImage(), 9, 6); err == nil {
		t.Error("expected error for mismatched dimensions")
	}

	blank := image.NewRGBA(image.Rect(0, 0, 8, 6))
	if _, _, err := p.placeFromImage(blank, 8, 6); err == nil {
		t.Error("expected error for an image without seeds")
	}
}

func TestRandomPlacer(t *testing.T) {
	d := DefaultDefaults()
	pl, err := NewPlacer(PlacerConfig{Mode: ModeRandom, Count: 6, Defaults: d}, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatal(err)
	}

	locations, colonies, err := pl.Place(40, 30, leftWater{cols: 20})
	if err != nil {
		t.Fatal(err)
	}
	if len(colonies) != 7 {
		t.Fatalf("len(colonies) = %d; want 7", len(colonies))
	}

	names := make(map[string]bool)
	colors := make(map[color.RGBA]bool)
	for i := 1; i < len(colonies); i++ {
		c := colonies[i]
		if locations[i].X < 20 {
			t.Errorf("colony %d placed on water at %v", i, locations[i])
		}
		if int(c.ID) != i {
			t.Errorf("colony %d has id %d", i, c.ID)
		}
		if c.Strength.Low < d.StrengthMin || c.Strength.High > d.StrengthMax || c.Strength.Low > c.Strength.High {
			t.Errorf("colony %d strength %v outside [%d, %d]", i, c.Strength, d.StrengthMin, d.StrengthMax)
		}
		if c.StartPeople < d.StartPeopleMin || c.StartPeople > d.StartPeopleMax {
			t.Errorf("colony %d start people = %d", i, c.StartPeople)
		}
		if c.Color.A != 255 {
			t.Errorf("colony %d color is not opaque", i)
		}
		names[c.Name] = true
		colors[c.Color] = true
	}
	if len(names) != 6 {
		t.Errorf("%d distinct names; want 6", len(names))
	}
	if len(colors) != 6 {
		t.Errorf("%d distinct colors; want 6", len(colors))
	}
}

func TestRandomPlacerNoLand(t *testing.T) {
	pl, err := NewPlacer(PlacerConfig{Mode: ModeRandom, Count: 1, Defaults: DefaultDefaults()}, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := pl.Place(4, 4, leftWater{cols: 4}); err != ErrNoLand {
		t.Errorf("err = %v; want ErrNoLand", err)
	}
}

func TestNewPlacerModes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if _, err := NewPlacer(PlacerConfig{Mode: "scattered", Count: 2}, rng); err == nil {
		t.Error("expected error for unknown mode")
	}
	if _, err := NewPlacer(PlacerConfig{Mode: ModeCustom}, rng); err == nil {
		t.Error("expected error for custom mode without an image")
	}
	if _, err := NewPlacer(PlacerConfig{Mode: ModeRandom}, rng); err == nil {
		t.Error("expected error for random mode with zero colonies")
	}
}
