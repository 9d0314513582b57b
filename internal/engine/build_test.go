package engine

import (
	"errors"
	"testing"

	"github.com/talgya/colonysim/internal/colony"
	"github.com/talgya/colonysim/internal/config"
)

func TestBuild(t *testing.T) {
	cfg := config.Default()
	cfg.World.Width, cfg.World.Height = 60, 40
	cfg.World.Seed = 3
	cfg.World.SeaLevel = 0
	cfg.Colonies.Count = 5

	w, src, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if src.Seed() != 3 {
		t.Errorf("Seed() = %d; want 3", src.Seed())
	}
	if w.Registry().Len() != 6 {
		t.Errorf("registry holds %d slots; want 6", w.Registry().Len())
	}
	if w.Population() == 0 {
		t.Error("no people seeded")
	}
}

func TestBuildAllWater(t *testing.T) {
	cfg := config.Default()
	cfg.World.Width, cfg.World.Height = 20, 20
	cfg.World.Seed = 3
	cfg.World.SeaLevel = 1.01

	if _, _, err := Build(cfg); !errors.Is(err, colony.ErrNoLand) {
		t.Errorf("err = %v; want ErrNoLand", err)
	}
}

func TestBuildMissingTerrainImage(t *testing.T) {
	cfg := config.Default()
	cfg.World.Terrain = "does-not-exist.png"
	if _, _, err := Build(cfg); err == nil {
		t.Error("expected error for a missing terrain image")
	}
}
