package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/spacebird/cosmicflight/internal/space"
	"github.com/spacebird/cosmicflight/internal/util"
)

const appName = "cosmicflight"

type Config struct {
	Scene   SceneConfig
	Display DisplayConfig
	Storage StorageConfig
	Logging LoggingConfig
}

type SceneConfig struct {
	StarLayers    int
	StarsPerLayer int
	Nebulae       int
	Galaxies      int
	GalaxyPoints  int
	GalaxyRadius  float64
	// Seed fixes the random source. Zero means seed from the clock.
	Seed int64
}

type DisplayConfig struct {
	FPS int
	// HoldWindow is how long a key counts as held after an auto-repeat.
	HoldWindow time.Duration
	// RepeatDelay is how long a first press counts as held, covering the
	// terminal's delay before auto-repeat starts (typically 250-600ms).
	RepeatDelay time.Duration
	ShowHUD     bool
}

type StorageConfig struct {
	Path string
}

type LoggingConfig struct {
	Level      string
	Format     string
	JSONFormat bool
	// File receives log records; "off" disables logging.
	File string
}

// Load reads configuration from the environment, after merging in a .env
// file from the working directory when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	config, err := load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func load() (*Config, error) {
	storage, err := loadStorageConfig()
	if err != nil {
		return nil, err
	}
	logging, err := loadLoggingConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Scene:   loadSceneConfig(),
		Display: loadDisplayConfig(),
		Storage: storage,
		Logging: logging,
	}, nil
}

func loadSceneConfig() SceneConfig {
	defaults := space.DefaultConfig()

	layers, _ := strconv.Atoi(util.GetEnv("STAR_LAYERS", strconv.Itoa(defaults.StarLayers)))
	stars, _ := strconv.Atoi(util.GetEnv("STAR_COUNT", strconv.Itoa(defaults.StarsPerLayer)))
	nebulae, _ := strconv.Atoi(util.GetEnv("NEBULA_COUNT", strconv.Itoa(defaults.Nebulae)))
	galaxies, _ := strconv.Atoi(util.GetEnv("GALAXY_COUNT", strconv.Itoa(defaults.Galaxies)))
	points, _ := strconv.Atoi(util.GetEnv("GALAXY_POINTS", strconv.Itoa(defaults.GalaxyPoints)))
	radius, _ := strconv.ParseFloat(util.GetEnv("GALAXY_RADIUS", "500"), 64)
	seed, _ := strconv.ParseInt(util.GetEnv("SEED", "0"), 10, 64)

	return SceneConfig{
		StarLayers:    layers,
		StarsPerLayer: stars,
		Nebulae:       nebulae,
		Galaxies:      galaxies,
		GalaxyPoints:  points,
		GalaxyRadius:  radius,
		Seed:          seed,
	}
}

func loadDisplayConfig() DisplayConfig {
	fps, _ := strconv.Atoi(util.GetEnv("FPS", "30"))
	holdMs, _ := strconv.Atoi(util.GetEnv("HOLD_WINDOW_MS", "120"))
	delayMs, _ := strconv.Atoi(util.GetEnv("REPEAT_DELAY_MS", "500"))

	return DisplayConfig{
		FPS:         fps,
		HoldWindow:  time.Duration(holdMs) * time.Millisecond,
		RepeatDelay: time.Duration(delayMs) * time.Millisecond,
		ShowHUD:     util.GetEnv("SHOW_HUD", "true") == "true",
	}
}

func loadStorageConfig() (StorageConfig, error) {
	path := util.GetEnv("STORAGE_PATH", "")
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return StorageConfig{}, fmt.Errorf("failed to locate config directory: %w", err)
		}
		path = filepath.Join(dir, appName, "storage.json")
	}
	return StorageConfig{Path: path}, nil
}

func loadLoggingConfig() (LoggingConfig, error) {
	format := util.GetEnv("LOG_FORMAT", "text")

	file := util.GetEnv("LOG_FILE", "")
	if file == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			return LoggingConfig{}, fmt.Errorf("failed to locate cache directory: %w", err)
		}
		file = filepath.Join(dir, appName, appName+".log")
	}

	return LoggingConfig{
		Level:      util.GetEnv("LOG_LEVEL", "info"),
		Format:     format,
		JSONFormat: format == "json",
		File:       file,
	}, nil
}

func (c *Config) validate() error {
	s := c.Scene
	if s.StarLayers < 0 || s.StarsPerLayer < 0 || s.Nebulae < 0 || s.Galaxies < 0 {
		return fmt.Errorf("STAR_LAYERS, STAR_COUNT, NEBULA_COUNT and GALAXY_COUNT must not be negative")
	}

	if s.Galaxies > 0 && s.GalaxyPoints <= 0 {
		return fmt.Errorf("GALAXY_POINTS must be positive")
	}

	if s.GalaxyRadius <= 0 {
		return fmt.Errorf("GALAXY_RADIUS must be positive")
	}

	if c.Display.FPS <= 0 || c.Display.FPS > 240 {
		return fmt.Errorf("FPS must be between 1 and 240")
	}

	if c.Display.HoldWindow <= 0 {
		return fmt.Errorf("HOLD_WINDOW_MS must be positive")
	}

	if c.Display.RepeatDelay < 0 {
		return fmt.Errorf("REPEAT_DELAY_MS must not be negative")
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.Logging.Format)
	}

	return nil
}

// Space returns the scene generator configuration.
func (s SceneConfig) Space() space.Config {
	return space.Config{
		StarLayers:    s.StarLayers,
		StarsPerLayer: s.StarsPerLayer,
		Nebulae:       s.Nebulae,
		Galaxies:      s.Galaxies,
		GalaxyPoints:  s.GalaxyPoints,
		GalaxyRadius:  s.GalaxyRadius,
	}
}

// FrameInterval returns the time between animation frames.
func (d DisplayConfig) FrameInterval() time.Duration {
	return time.Second / time.Duration(d.FPS)
}
