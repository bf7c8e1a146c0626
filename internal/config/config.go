package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// ErrInvalidConfiguration is wrapped by every validation failure. These are
// startup errors, never retried.
var ErrInvalidConfiguration = errors.New("config: invalid configuration")

// Config holds the startup configuration. All values are immutable for the
// lifetime of a generated map; changing the seed replaces the grid wholesale.
type Config struct {
	GridWidth         int     // cells along x
	GridHeight        int     // cells along y
	Seed              uint32  // map seed
	CellSize          float64 // world units per cell
	WallHeight        float64 // world units, consumed by renderers only
	CorridorThreshold float64 // open/wall balance for generation
	AgentSpeed        float64 // world units per second
	CollisionRadius   float64 // agent collision circle

	ObserveAddr string // listen address for the observe stream server
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		GridWidth:         64,
		GridHeight:        64,
		Seed:              1337,
		CellSize:          2.0,
		WallHeight:        3.0,
		CorridorThreshold: 0.45,
		AgentSpeed:        6.0,
		CollisionRadius:   1.0,
		ObserveAddr:       ":8970",
	}
}

// Load builds the configuration from the environment, starting from
// Default. A .env file is honoured when present. The result is validated;
// an invalid value fails here rather than surfacing mid-simulation.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := Default()
	cfg.GridWidth = envInt("MAZE_WIDTH", cfg.GridWidth)
	cfg.GridHeight = envInt("MAZE_HEIGHT", cfg.GridHeight)
	cfg.Seed = envUint32("MAZE_SEED", cfg.Seed)
	cfg.CellSize = envFloat("MAZE_CELL_SIZE", cfg.CellSize)
	cfg.WallHeight = envFloat("MAZE_WALL_HEIGHT", cfg.WallHeight)
	cfg.CorridorThreshold = envFloat("MAZE_CORRIDOR_THRESHOLD", cfg.CorridorThreshold)
	cfg.AgentSpeed = envFloat("AGENT_SPEED", cfg.AgentSpeed)
	cfg.CollisionRadius = envFloat("AGENT_RADIUS", cfg.CollisionRadius)
	if v, ok := os.LookupEnv("OBSERVE_ADDR"); ok {
		cfg.ObserveAddr = v
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field that generation or stepping relies on.
// Dimension lower bounds are enforced again by maze.Generate; catching them
// here keeps the failure at startup.
func (c Config) Validate() error {
	if c.GridWidth < 3 || c.GridHeight < 3 {
		return fmt.Errorf("%w: grid %dx%d, need at least 3x3", ErrInvalidConfiguration, c.GridWidth, c.GridHeight)
	}
	if c.CellSize <= 0 {
		return fmt.Errorf("%w: cell size %v must be positive", ErrInvalidConfiguration, c.CellSize)
	}
	if c.WallHeight <= 0 {
		return fmt.Errorf("%w: wall height %v must be positive", ErrInvalidConfiguration, c.WallHeight)
	}
	if c.CorridorThreshold <= 0 || c.CorridorThreshold >= 2 {
		return fmt.Errorf("%w: corridor threshold %v outside (0,2)", ErrInvalidConfiguration, c.CorridorThreshold)
	}
	if c.AgentSpeed <= 0 {
		return fmt.Errorf("%w: agent speed %v must be positive", ErrInvalidConfiguration, c.AgentSpeed)
	}
	if c.CollisionRadius <= 0 {
		return fmt.Errorf("%w: collision radius %v must be positive", ErrInvalidConfiguration, c.CollisionRadius)
	}
	return nil
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("environment variable %s=%q is not an integer", key, v)
	}
	return n
}

func envUint32(key string, def uint32) uint32 {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		log.Fatalf("environment variable %s=%q is not a uint32", key, v)
	}
	return uint32(n)
}

func envFloat(key string, def float64) float64 {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Fatalf("environment variable %s=%q is not a number", key, v)
	}
	return f
}
