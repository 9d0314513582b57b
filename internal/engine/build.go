package engine

import (
	"fmt"
	"log/slog"

	"github.com/talgya/colonysim/internal/colony"
	"github.com/talgya/colonysim/internal/config"
	"github.com/talgya/colonysim/internal/entropy"
	"github.com/talgya/colonysim/internal/world"
)

// Build creates the terrain and the seeded world described by cfg.
// Every returned error is a configuration error; the simulation cannot start.
func Build(cfg *config.Config) (*World, *entropy.Source, error) {
	src := entropy.New(cfg.World.Seed)

	var terrain *world.Terrain
	if cfg.GeneratedTerrain() {
		gen := world.DefaultGenConfig()
		gen.Width = cfg.World.Width
		gen.Height = cfg.World.Height
		gen.Seed = src.Seed() + entropy.StreamTerrain
		gen.SeaLevel = cfg.World.SeaLevel
		terrain = world.GenerateTerrain(gen)
	} else {
		var err error
		terrain, err = world.LoadTerrain(cfg.World.Terrain, cfg.World.Width, cfg.World.Height)
		if err != nil {
			return nil, nil, err
		}
	}
	if terrain.LandCount() == 0 {
		return nil, nil, fmt.Errorf("terrain has no land: %w", colony.ErrNoLand)
	}
	slog.Info("terrain ready",
		"width", terrain.Width(),
		"height", terrain.Height(),
		"land", terrain.LandCount(),
		"generated", cfg.GeneratedTerrain(),
	)

	placer, err := colony.NewPlacer(cfg.PlacerConfig(), src.Stream(entropy.StreamPlacement))
	if err != nil {
		return nil, nil, err
	}

	w, err := NewWorld(terrain, placer, Options{
		ReproductionThreshold: uint32(cfg.Colonies.ReproductionThreshold),
		Rules:                 cfg.AgentRules(),
	}, src)
	if err != nil {
		return nil, nil, err
	}
	return w, src, nil
}
