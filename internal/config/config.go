// internal/config/config.go
//
// Host configuration.
// Sources, later ones win:
//   1. Defaults.
//   2. YAML file named by SQUAREGAME_CONFIG (optional).
//   3. Environment variables, after loading .env if present.

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/hasrax/SquaregameIOS/internal/game"
)

// Leaderboard backends.
const (
	BackendMemory = "memory"
	BackendGdata  = "gdata"
	BackendSQLite = "sqlite"
)

const maxTickInterval = 200 * time.Millisecond

type Config struct {
	LogLevel     string        `yaml:"logLevel"`
	PlayerName   string        `yaml:"playerName"`
	Mode         game.Mode     `yaml:"mode"`
	ShapeMode    bool          `yaml:"shapeMode"`
	Backend      string        `yaml:"backend"`
	DatabasePath string        `yaml:"databasePath"`
	AppName      string        `yaml:"appName"`
	Seed         int64         `yaml:"seed"`
	Daily        bool          `yaml:"daily"`
	DailySalt    string        `yaml:"dailySalt"`
	Taps         int           `yaml:"taps"`
	Accuracy     float64       `yaml:"accuracy"`
	ReactionTime time.Duration `yaml:"reactionTime"`
	TickInterval time.Duration `yaml:"tickInterval"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:     "info",
		PlayerName:   "Player",
		Mode:         game.ModeEasy,
		Backend:      BackendMemory,
		DatabasePath: "./data/squaregame.db",
		AppName:      "squaregame",
		DailySalt:    "squaregame",
		Taps:         50,
		Accuracy:     0.85,
		ReactionTime: 1500 * time.Millisecond,
		TickInterval: game.DefaultTickInterval,
	}
}

// Load builds the configuration from defaults, the optional YAML file and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, reading from environment")
	}

	cfg := Default()
	if path := os.Getenv("SQUAREGAME_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.PlayerName = getEnv("PLAYER_NAME", c.PlayerName)
	c.Mode = game.Mode(getEnv("GAME_MODE", string(c.Mode)))
	c.ShapeMode = getEnvAsBool("SHAPE_MODE", c.ShapeMode)
	c.Backend = getEnv("STORE_BACKEND", c.Backend)
	c.DatabasePath = getEnv("DATABASE_PATH", c.DatabasePath)
	c.AppName = getEnv("APP_NAME", c.AppName)
	c.Seed = int64(getEnvAsInt("GAME_SEED", int(c.Seed)))
	c.Daily = getEnvAsBool("DAILY", c.Daily)
	c.DailySalt = getEnv("DAILY_SALT", c.DailySalt)
	c.Taps = getEnvAsInt("AUTOPLAY_TAPS", c.Taps)
	c.Accuracy = getEnvAsFloat("AUTOPLAY_ACCURACY", c.Accuracy)
	c.ReactionTime = getEnvAsDuration("AUTOPLAY_REACTION", c.ReactionTime)
	c.TickInterval = getEnvAsDuration("TICK_INTERVAL", c.TickInterval)
}

// Validate normalizes the mode, clamps accuracy and rejects unusable values.
func (c *Config) Validate() error {
	mode, err := game.ParseMode(string(c.Mode))
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	c.Mode = mode

	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case BackendMemory, BackendGdata, BackendSQLite:
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}

	if c.TickInterval <= 0 || c.TickInterval > maxTickInterval {
		return fmt.Errorf("config: tick interval %s must be in (0, %s]", c.TickInterval, maxTickInterval)
	}
	if c.Taps < 0 {
		return errors.New("config: taps must not be negative")
	}
	c.Accuracy = min(max(c.Accuracy, 0), 1)
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
