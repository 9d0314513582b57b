// Package config loads the simulation settings from an INI file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/go-ini/ini"

	"github.com/talgya/colonysim/internal/agents"
	"github.com/talgya/colonysim/internal/colony"
)

// DefaultPath is used when COLONYSIM_CONFIG is unset.
const DefaultPath = "colonysim.ini"

// TerrainGenerate selects noise-generated terrain instead of a map image.
const TerrainGenerate = "generate"

var placementModes = []string{
	string(colony.ModeRandom),
	string(colony.ModeCustom),
}

// World is the [World] section.
type World struct {
	Width    int
	Height   int
	Seed     int64
	Terrain  string  // "generate" or a map image path
	SeaLevel float64 // Generated terrain only
}

// Colonies is the [Colonies] section.
type Colonies struct {
	Count                 int
	Placement             string
	Image                 string
	ReproductionThreshold int
	StrengthMin           int
	StrengthMax           int
	StartPeopleMin        int
	StartPeopleMax        int
	FastPalette           bool
}

// Rules is the [Rules] section.
type Rules struct {
	DiseaseDrain    int
	RecoveryChance  float64
	InfectionChance float64
}

// Engine is the [Engine] section.
type Engine struct {
	TicksPerSecond int
	MaxTicks       int // 0 = run until stopped
	ReportEvery    int // Ticks between reports and history rows
}

// Server is the [Server] section.
type Server struct {
	Enabled  bool
	Port     int
	Database string // Empty disables stats history

	AdminKey string `ini:"-"` // From COLONYSIM_ADMIN_KEY only
}

// Config is the complete, read-only simulation configuration.
type Config struct {
	World    World
	Colonies Colonies
	Rules    Rules
	Engine   Engine
	Server   Server
}

// Default returns the stock configuration.
func Default() *Config {
	d := colony.DefaultDefaults()
	r := agents.DefaultRules()
	return &Config{
		World: World{
			Width:    320,
			Height:   240,
			Terrain:  TerrainGenerate,
			SeaLevel: 0.42,
		},
		Colonies: Colonies{
			Count:                 8,
			Placement:             string(colony.ModeRandom),
			ReproductionThreshold: 30,
			StrengthMin:           int(d.StrengthMin),
			StrengthMax:           int(d.StrengthMax),
			StartPeopleMin:        d.StartPeopleMin,
			StartPeopleMax:        d.StartPeopleMax,
		},
		Rules: Rules{
			DiseaseDrain:    int(r.DiseaseDrain),
			RecoveryChance:  r.RecoveryChance,
			InfectionChance: r.InfectionChance,
		},
		Engine: Engine{
			TicksPerSecond: 30,
			ReportEvery:    100,
		},
		Server: Server{
			Enabled:  true,
			Port:     8080,
			Database: "data/colonysim.db",
		},
	}
}

// Path returns the config path, honoring COLONYSIM_CONFIG. The bool is true
// when the path came from the environment.
func Path() (string, bool) {
	if v, ok := os.LookupEnv("COLONYSIM_CONFIG"); ok {
		return v, true
	}
	return DefaultPath, false
}

// LoadDefault loads the file at Path(). A missing default file is not an
// error; a missing file named by COLONYSIM_CONFIG is.
func LoadDefault() (*Config, error) {
	path, fromEnv := Path()
	return load(path, fromEnv)
}

func load(path string, required bool) (*Config, error) {
	c := Default()
	if _, err := os.Stat(path); err != nil {
		if required || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
		slog.Info("no config file, using defaults", "path", path)
		c.Server.AdminKey = os.Getenv("COLONYSIM_ADMIN_KEY")
		return c, c.Validate()
	}

	if err := c.Load(path); err != nil {
		return nil, err
	}
	c.Server.AdminKey = os.Getenv("COLONYSIM_ADMIN_KEY")
	return c, nil
}

// Load reads path over the current values and validates the result.
func (c *Config) Load(path string) error {
	slog.Debug("loading config file", "path", path)

	f, err := ini.Load(path)
	if err != nil {
		return err
	}
	if err := c.mapFile(f); err != nil {
		return fmt.Errorf("failed to parse file '%s': %w", path, err)
	}
	return c.Validate()
}

func (c *Config) mapFile(f *ini.File) error {
	return f.MapTo(c)
}

// Validate checks every field and reports the first violation.
func (c *Config) Validate() error {
	w := c.World
	if w.Width < 1 {
		return fmt.Errorf("World.Width = %d; must be > 0", w.Width)
	}
	if w.Height < 1 {
		return fmt.Errorf("World.Height = %d; must be > 0", w.Height)
	}
	if w.Terrain == "" {
		return errors.New("World.Terrain is empty; use 'generate' or an image path")
	}
	if w.SeaLevel < 0 || w.SeaLevel > 1 {
		return fmt.Errorf("World.SeaLevel = %f; must be in range [0.0, 1.0]", w.SeaLevel)
	}

	col := c.Colonies
	if !contains(placementModes, col.Placement) {
		return fmt.Errorf("Colonies.Placement = %s; must be one of: %s",
			col.Placement, strings.Join(placementModes, ", "))
	}
	if col.Placement == string(colony.ModeRandom) && col.Count < 1 {
		return fmt.Errorf("Colonies.Count = %d; must be > 0", col.Count)
	}
	if col.Count < 0 {
		return fmt.Errorf("Colonies.Count = %d; must be positive", col.Count)
	}
	if col.Count > 65534 {
		return fmt.Errorf("Colonies.Count = %d; must be < 65535", col.Count)
	}
	if col.Placement == string(colony.ModeCustom) && col.Image == "" {
		return errors.New("Colonies.Image is required when Placement = custom")
	}
	if col.ReproductionThreshold < 1 {
		return fmt.Errorf("Colonies.ReproductionThreshold = %d; must be > 0", col.ReproductionThreshold)
	}
	if col.StrengthMin < 1 {
		return fmt.Errorf("Colonies.StrengthMin = %d; must be > 0", col.StrengthMin)
	}
	if col.StrengthMax < col.StrengthMin {
		return fmt.Errorf("Colonies.StrengthMax = %d; must be >= StrengthMin (%d)", col.StrengthMax, col.StrengthMin)
	}
	if col.StartPeopleMin < 0 {
		return fmt.Errorf("Colonies.StartPeopleMin = %d; must be positive", col.StartPeopleMin)
	}
	if col.StartPeopleMax < col.StartPeopleMin {
		return fmt.Errorf("Colonies.StartPeopleMax = %d; must be >= StartPeopleMin (%d)", col.StartPeopleMax, col.StartPeopleMin)
	}

	r := c.Rules
	if r.DiseaseDrain < 0 {
		return fmt.Errorf("Rules.DiseaseDrain = %d; must be positive", r.DiseaseDrain)
	}
	if r.RecoveryChance < 0 || r.RecoveryChance > 1 {
		return fmt.Errorf("Rules.RecoveryChance = %f; must be in range [0.0, 1.0]", r.RecoveryChance)
	}
	if r.InfectionChance < 0 || r.InfectionChance > 1 {
		return fmt.Errorf("Rules.InfectionChance = %f; must be in range [0.0, 1.0]", r.InfectionChance)
	}

	e := c.Engine
	if e.TicksPerSecond < 1 {
		return fmt.Errorf("Engine.TicksPerSecond = %d; must be > 0", e.TicksPerSecond)
	}
	if e.MaxTicks < 0 {
		return fmt.Errorf("Engine.MaxTicks = %d; must be positive", e.MaxTicks)
	}
	if e.ReportEvery < 1 {
		return fmt.Errorf("Engine.ReportEvery = %d; must be > 0", e.ReportEvery)
	}

	if c.Server.Enabled && (c.Server.Port < 1 || c.Server.Port > 65535) {
		return fmt.Errorf("Server.Port = %d; must be in range [1, 65535]", c.Server.Port)
	}
	return nil
}

// GeneratedTerrain reports whether terrain comes from noise rather than an image.
func (c *Config) GeneratedTerrain() bool {
	return c.World.Terrain == TerrainGenerate
}

// AgentRules converts the [Rules] section.
func (c *Config) AgentRules() agents.Rules {
	return agents.Rules{
		DiseaseDrain:      uint32(c.Rules.DiseaseDrain),
		RecoveryChance:    c.Rules.RecoveryChance,
		InfectionChance:   c.Rules.InfectionChance,
		ProductionPerTick: 1,
	}
}

// PlacerConfig converts the [Colonies] section.
func (c *Config) PlacerConfig() colony.PlacerConfig {
	col := c.Colonies
	return colony.PlacerConfig{
		Mode:      colony.Mode(col.Placement),
		ImagePath: col.Image,
		Count:     col.Count,
		Defaults: colony.Defaults{
			StrengthMin:    uint32(col.StrengthMin),
			StrengthMax:    uint32(col.StrengthMax),
			StartPeopleMin: col.StartPeopleMin,
			StartPeopleMax: col.StartPeopleMax,
			FastPalette:    col.FastPalette,
		},
	}
}

func contains(slice []string, str string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}
