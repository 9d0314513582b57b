package world

import (
	"image"
	"image/color"
	"testing"
)

var (
	testLand  = color.RGBA{R: 40, G: 160, B: 40, A: 255}
	testWater = color.RGBA{R: 20, G: 40, B: 200, A: 255}
)

func TestTerrainFromImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			img.SetRGBA(x, y, testLand)
		}
	}
	img.SetRGBA(1, 0, testWater)
	img.SetRGBA(3, 1, testWater)

	tr, err := TerrainFromImage(img, 4, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !tr.IsWaterAt(1, 0) || !tr.IsWaterAt(3, 1) {
		t.Error("water pixels not classified as water")
	}
	if tr.IsWaterAt(0, 0) {
		t.Error("land pixel classified as water")
	}
	// Lookups wrap like the grid.
	if !tr.IsWaterAt(-1, -1) {
		t.Error("IsWaterAt(-1, -1) should wrap to (3, 1)")
	}
	if got := tr.LandCount(); got != 6 {
		t.Errorf("LandCount() = %d; want 6", got)
	}
}

func TestTerrainFromImageSizeMismatch(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	if _, err := TerrainFromImage(img, 5, 2); err == nil {
		t.Error("expected error for mismatched dimensions")
	}
}

func TestGenerateTerrainDeterministic(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Width, cfg.Height = 64, 48
	cfg.Seed = 1234

	a := GenerateTerrain(cfg)
	b := GenerateTerrain(cfg)

	if a.Width() != 64 || a.Height() != 48 {
		t.Fatalf("size = %dx%d; want 64x48", a.Width(), a.Height())
	}
	for i := range a.water {
		if a.water[i] != b.water[i] {
			t.Fatalf("cell %d differs between runs with the same seed", i)
		}
	}
}

func TestGenerateTerrainSeaLevel(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Width, cfg.Height = 32, 32
	cfg.Seed = 99

	cfg.SeaLevel = 0
	if got := GenerateTerrain(cfg).LandCount(); got != 32*32 {
		t.Errorf("sea level 0: LandCount() = %d; want %d", got, 32*32)
	}
	cfg.SeaLevel = 1.01
	if got := GenerateTerrain(cfg).LandCount(); got != 0 {
		t.Errorf("sea level above 1: LandCount() = %d; want 0", got)
	}
}
