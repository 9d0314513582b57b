// Command colonysim runs the colony simulation headless, with an HTTP API,
// a websocket stream and a SQLite statistics history.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/talgya/colonysim/internal/api"
	"github.com/talgya/colonysim/internal/config"
	"github.com/talgya/colonysim/internal/engine"
	"github.com/talgya/colonysim/internal/persistence"
)

func main() {
	level := slog.LevelInfo
	if _, ok := os.LookupEnv("COLONYSIM_DEBUG"); ok {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// ── Config ────────────────────────────────────────────────────────
	cfg, err := config.LoadDefault()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	// ── World ─────────────────────────────────────────────────────────
	w, src, err := engine.Build(cfg)
	if err != nil {
		slog.Error("failed to build world", "error", err)
		os.Exit(1)
	}
	sim := engine.NewSimulation(w)

	for _, c := range sim.Colonies() {
		slog.Info("colony",
			"id", c.ID,
			"name", c.Name,
			"color", c.ColorHex(),
			"strength_low", c.Strength.Low,
			"strength_high", c.Strength.High,
			"start_people", c.StartPeople,
		)
	}
	slog.Info("world ready",
		"seed", src.Seed(),
		"population", humanize.Comma(int64(w.Population())),
		"colonies", len(sim.Colonies()),
	)

	// ── Database ──────────────────────────────────────────────────────
	var db *persistence.DB
	var runID string
	if cfg.Server.Database != "" {
		db, err = persistence.Open(cfg.Server.Database)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		runID, err = db.StartRun(persistence.RunInfo{
			Seed:      src.Seed(),
			Width:     cfg.World.Width,
			Height:    cfg.World.Height,
			Colonies:  len(sim.Colonies()),
			Placement: cfg.Colonies.Placement,
		})
		if err != nil {
			slog.Error("failed to start run", "error", err)
			os.Exit(1)
		}
	}

	// ── Engine ────────────────────────────────────────────────────────
	eng := engine.NewEngine(cfg.Engine.TicksPerSecond)
	eng.MaxTicks = uint64(cfg.Engine.MaxTicks)
	eng.ReportEvery = uint64(cfg.Engine.ReportEvery)
	eng.OnTick = sim.TickOnce
	eng.OnReport = func(tick uint64) {
		sim.LogReport(tick)
		if db == nil {
			return
		}
		if err := db.SaveReport(runID, sim.LastReport()); err != nil {
			slog.Error("history save failed", "tick", tick, "error", err)
		}
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	if cfg.Server.Enabled {
		if cfg.Server.AdminKey == "" {
			slog.Warn("COLONYSIM_ADMIN_KEY not set, admin POST endpoints will be disabled")
		}
		apiServer := &api.Server{
			Sim:      sim,
			Eng:      eng,
			DB:       db,
			RunID:    runID,
			Port:     cfg.Server.Port,
			AdminKey: cfg.Server.AdminKey,
		}
		apiServer.Start()
		fmt.Printf("API: http://localhost:%d/api/v1/status\n", cfg.Server.Port)
	}

	// ── Start ─────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		eng.Stop()
	}()

	fmt.Printf("\n%d colonies, %s people on %s land cells.\n",
		len(sim.Colonies()), humanize.Comma(int64(w.Population())), humanize.Comma(int64(w.Terrain().LandCount())))
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

	eng.Run()

	final := sim.LastReport()
	if db != nil {
		if err := db.SaveReport(runID, final); err != nil {
			slog.Error("final history save failed", "error", err)
		}
	}
	fmt.Printf("Simulation stopped at tick %d with %s people.\n", final.Tick, humanize.Comma(int64(final.Population)))
}
