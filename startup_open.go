package main

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spacebird/cosmicflight/internal/config"
	"github.com/spacebird/cosmicflight/internal/playlist"
	"github.com/spacebird/cosmicflight/internal/render"
	"github.com/spacebird/cosmicflight/internal/space"
	"github.com/spacebird/cosmicflight/internal/ui"
)

// launchStatus reports progress while the flight is being prepared.
type launchStatus struct {
	Phase   string
	Percent float64
}

// Initial render area until the first WindowSizeMsg arrives.
const (
	initialCols = 80
	initialRows = 24
)

// buildFlight generates the scene, loads the track list into controller and
// assembles the flight model. Track loading problems are logged and leave the
// playlist empty; they never stop the flight.
func buildFlight(cfg *config.Config, controller *playlist.Controller, source string, status func(launchStatus)) ui.Model {
	seed := cfg.Scene.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger := slog.With("component", "space")
	logger.Info("Generating scene", "seed", seed, "galaxies", cfg.Scene.Galaxies, "star_layers", cfg.Scene.StarLayers)

	status(launchStatus{Phase: "Charting stars", Percent: 0})
	start := time.Now()
	scene := space.New(rand.New(rand.NewSource(seed)), cfg.Scene.Space(), logger)
	logger.Info("Scene ready", "elapsed", time.Since(start).Round(time.Millisecond))

	status(launchStatus{Phase: "Loading tracks", Percent: 0.7})
	tracks := playlist.LoadTracks(source)
	if err := controller.Load(tracks); err != nil {
		slog.Error("Failed to cue first track", "error", err)
	}

	status(launchStatus{Phase: "Launching", Percent: 1})
	renderer := render.New(lipgloss.ColorProfile(), initialCols, initialRows)
	scene.Camera.Resize(renderer.DotSize())
	return ui.New(scene, renderer, controller, cfg.Display)
}
