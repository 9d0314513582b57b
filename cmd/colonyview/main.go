// Command colonyview runs the colony simulation in a window.
//
// Usage:
//
//	colonyview [-scale n]
//
// Space pauses and resumes. Tab toggles the colony overlay. Settings come
// from the same INI file as colonysim.
package main

import (
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/talgya/colonysim/internal/config"
	"github.com/talgya/colonysim/internal/engine"
)

var scale = flag.Int("scale", 3, "Window pixels per cell.")

// Game implements ebiten.Game over a Simulation.
type Game struct {
	sim     *engine.Simulation
	terrain *ebiten.Image
	layer   *ebiten.Image
	buf     *image.RGBA // CPU copy of the colony layer
	width   int
	height  int
	tick    uint64
	paused  bool
	overlay bool
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.overlay = !g.overlay
	}
	if g.paused {
		return nil
	}
	g.tick++
	g.sim.TickOnce(g.tick)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.DrawImage(g.terrain, nil)

	g.sim.CopyLayer(g.buf)
	g.layer.WritePixels(g.buf.Pix)
	screen.DrawImage(g.layer, nil)

	if !g.overlay {
		return
	}
	rep := g.sim.LastReport()
	var sb strings.Builder
	fmt.Fprintf(&sb, "tick %d  population %s", rep.Tick, humanize.Comma(int64(rep.Population)))
	if g.paused {
		sb.WriteString("  [paused]")
	}
	sb.WriteByte('\n')
	for _, c := range rep.Colonies {
		if c.Population == 0 {
			continue
		}
		fmt.Fprintf(&sb, "%-12s %7s  avg %.0f\n", c.Name, humanize.Comma(int64(c.Population)), c.AvgStrength)
	}
	ebitenutil.DebugPrint(screen, sb.String())
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return g.width, g.height
}

func main() {
	flag.Parse()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg, err := config.LoadDefault()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	w, src, err := engine.Build(cfg)
	if err != nil {
		slog.Error("failed to build world", "error", err)
		os.Exit(1)
	}
	sim := engine.NewSimulation(w)
	slog.Info("world ready", "seed", src.Seed(), "population", w.Population())

	t := w.Terrain()
	g := &Game{
		sim:     sim,
		terrain: ebiten.NewImageFromImage(t.Image()),
		layer:   ebiten.NewImage(t.Width(), t.Height()),
		buf:     image.NewRGBA(image.Rect(0, 0, t.Width(), t.Height())),
		width:   t.Width(),
		height:  t.Height(),
		overlay: true,
	}

	ebiten.SetWindowSize(t.Width()*(*scale), t.Height()*(*scale))
	ebiten.SetWindowTitle("Colonies")
	ebiten.SetTPS(cfg.Engine.TicksPerSecond)

	if err := ebiten.RunGame(g); err != nil {
		slog.Error("viewer", "error", err)
		os.Exit(1)
	}
}
