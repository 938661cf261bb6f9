package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spacebird/cosmicflight/internal/config"
	"github.com/spacebird/cosmicflight/internal/logger"
	"github.com/spacebird/cosmicflight/internal/player"
	"github.com/spacebird/cosmicflight/internal/playlist"
	"github.com/spacebird/cosmicflight/internal/storage"
	"github.com/spacebird/cosmicflight/internal/ui"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("usage: cosmicflight [playlist-or-directory]")
	}
	var source string
	if len(args) == 1 {
		source = args[0]
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logCloser, err := logger.Init(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logCloser.Close()

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return err
	}
	likes, err := playlist.LoadLikes(store)
	if err != nil {
		return err
	}

	controller := playlist.NewController(player.NewSession(), likes)
	defer controller.Close()

	startup := newStartupModel(func(status func(launchStatus)) ui.Model {
		return buildFlight(cfg, controller, source, status)
	})
	program := tea.NewProgram(startup, tea.WithAltScreen(), tea.WithMouseCellMotion())

	slog.Info("Starting cosmic flight", "source", source, "storage", store.Path())
	if _, err := program.Run(); err != nil {
		return err
	}
	slog.Info("Flight ended")
	return nil
}
