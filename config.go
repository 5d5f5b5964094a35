package droplet

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every Config validation failure
var ErrInvalidConfig = errors.New("droplet: invalid config")

// DampingMode selects how velocity damping is applied once per tick
type DampingMode string

const (
	// DampingMultiplicative scales both velocity components by (1 - Drag)
	DampingMultiplicative DampingMode = "multiplicative"
	// DampingAir removes a drag force of magnitude |v|*Drag along the velocity direction
	DampingAir DampingMode = "air"
)

const (
	DEFAULT_SUBSTEPS     = 10
	DEFAULT_ELASTICITY   = 0.7
	DEFAULT_DRAG         = 0.005
	DEFAULT_RADIUS_DECAY = 0.998
	DEFAULT_MIN_RADIUS   = 0.5
	DEFAULT_GRAVITY      = 0.2
	DEFAULT_CELL_SIZE    = 50.0
	DEFAULT_TICK_RATE    = 120
	MAX_TICK_RATE        = 10_000
	DEFAULT_QUEUE_SIZE   = 100
	DEFAULT_WIDTH        = 800.0
	DEFAULT_HEIGHT       = 480.0
)

// Config holds the tunables of a World. It is copied into the world at
// construction, so several worlds can run with independent configurations.
type Config struct {
	// Sub-steps per tick
	Substeps int `yaml:"substeps"`
	// Fraction of velocity kept after a wall or obstacle bounce, 0..1
	Elasticity float64     `yaml:"elasticity"`
	Drag       float64     `yaml:"drag"`
	Damping    DampingMode `yaml:"damping"`
	// Radius multiplier applied once per tick
	RadiusDecay float64 `yaml:"radius_decay"`
	// Circles below this radius are removed
	MinRadius float64 `yaml:"min_radius"`
	// Vertical acceleration, in units per tick²
	Gravity  float64 `yaml:"gravity"`
	CellSize float64 `yaml:"cell_size"`
	// Ticks per second, used by the driver
	TickRate  int `yaml:"tick_rate"`
	QueueSize int `yaml:"queue_size"`

	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// DefaultConfig returns the reference tuning
func DefaultConfig() Config {
	return Config{
		Substeps:    DEFAULT_SUBSTEPS,
		Elasticity:  DEFAULT_ELASTICITY,
		Drag:        DEFAULT_DRAG,
		Damping:     DampingMultiplicative,
		RadiusDecay: DEFAULT_RADIUS_DECAY,
		MinRadius:   DEFAULT_MIN_RADIUS,
		Gravity:     DEFAULT_GRAVITY,
		CellSize:    DEFAULT_CELL_SIZE,
		TickRate:    DEFAULT_TICK_RATE,
		QueueSize:   DEFAULT_QUEUE_SIZE,
		Width:       DEFAULT_WIDTH,
		Height:      DEFAULT_HEIGHT,
	}
}

// Validate checks the configuration ranges
func (c Config) Validate() error {
	if c.Substeps <= 0 {
		return fmt.Errorf("%w: substeps must be positive, got %d", ErrInvalidConfig, c.Substeps)
	}
	if c.Elasticity < 0 || c.Elasticity > 1 {
		return fmt.Errorf("%w: elasticity must be within [0,1], got %v", ErrInvalidConfig, c.Elasticity)
	}
	if c.Drag < 0 || c.Drag > 1 {
		return fmt.Errorf("%w: drag must be within [0,1], got %v", ErrInvalidConfig, c.Drag)
	}
	if c.Damping != DampingMultiplicative && c.Damping != DampingAir {
		return fmt.Errorf("%w: unknown damping mode %q", ErrInvalidConfig, c.Damping)
	}
	if c.RadiusDecay <= 0 {
		return fmt.Errorf("%w: radius_decay must be positive, got %v", ErrInvalidConfig, c.RadiusDecay)
	}
	if c.MinRadius < 0 {
		return fmt.Errorf("%w: min_radius must not be negative, got %v", ErrInvalidConfig, c.MinRadius)
	}
	if c.CellSize <= 0 {
		return fmt.Errorf("%w: cell_size must be positive, got %v", ErrInvalidConfig, c.CellSize)
	}
	if c.TickRate <= 0 || c.TickRate > MAX_TICK_RATE {
		return fmt.Errorf("%w: tick_rate must be within [1,%d], got %d", ErrInvalidConfig, MAX_TICK_RATE, c.TickRate)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("%w: queue_size must be positive, got %d", ErrInvalidConfig, c.QueueSize)
	}
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("%w: world bounds must not be negative, got %vx%v", ErrInvalidConfig, c.Width, c.Height)
	}

	return nil
}

// LoadYAML decodes a configuration, fields missing from the document keep their default value
func LoadYAML(r io.Reader) (Config, error) {
	c := DefaultConfig()

	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// LoadFile reads a YAML configuration file
func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	return LoadYAML(f)
}
