package swarm

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrConfig is wrapped by every configuration load or validation failure.
var ErrConfig = errors.New("invalid config")

type Config struct {
	Log       LogConfig      `toml:"log" yaml:"log"`
	Window    WindowConfig   `toml:"window" yaml:"window"`
	Camera    CameraConfig   `toml:"camera" yaml:"camera"`
	Instances InstanceConfig `toml:"instances" yaml:"instances"`
}

type LogConfig struct {
	Prefix string `toml:"prefix" yaml:"prefix"`
	Level  string `toml:"level" yaml:"level"`
}

type WindowConfig struct {
	Width  int    `toml:"width" yaml:"width"`
	Height int    `toml:"height" yaml:"height"`
	Title  string `toml:"title" yaml:"title"`
}

type CameraConfig struct {
	Position []float32 `toml:"position" yaml:"position"`
	Yaw      float32   `toml:"yaw" yaml:"yaw"`
	Pitch    float32   `toml:"pitch" yaml:"pitch"`
	Fov      float32   `toml:"fov" yaml:"fov"`
}

type InstanceConfig struct {
	Initial    int       `toml:"initial" yaml:"initial"`
	AddBatch   int       `toml:"add_batch" yaml:"add_batch"`
	Seed       uint64    `toml:"seed" yaml:"seed"`
	Side       float32   `toml:"side" yaml:"side"`
	Saturation float32   `toml:"saturation" yaml:"saturation"`
	Lightness  float32   `toml:"lightness" yaml:"lightness"`
	PickRadius float32   `toml:"pick_radius" yaml:"pick_radius"`
	Highlight  []float32 `toml:"highlight" yaml:"highlight"`
	// CheckInvariants validates every snapshot the store commits.
	CheckInvariants bool `toml:"check_invariants" yaml:"check_invariants"`
}

func DefaultConfig() Config {
	return Config{
		Log: LogConfig{
			Prefix: "swarm",
			Level:  "info",
		},
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "Swarm",
		},
		Camera: CameraConfig{
			Position: []float32{0, 0, 35},
			Fov:      60,
		},
		Instances: InstanceConfig{
			Initial:    10000,
			AddBatch:   1000,
			Seed:       1,
			Side:       20,
			Saturation: 0.7,
			Lightness:  0.5,
			PickRadius: 0.25,
			Highlight:  []float32{1, 1, 0},
		},
	}
}

// LoadConfig reads a TOML or YAML file on top of DefaultConfig. An empty path or a
// missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("%w: read %s: %v", ErrConfig, path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return cfg, fmt.Errorf("%w: unsupported config extension %q", ErrConfig, ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("%w: parse %s: %v", ErrConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Instances.Initial < 0 {
		errs = append(errs, fmt.Errorf("instances.initial must be >= 0, got %d", c.Instances.Initial))
	}
	if c.Instances.AddBatch < 0 {
		errs = append(errs, fmt.Errorf("instances.add_batch must be >= 0, got %d", c.Instances.AddBatch))
	}
	if c.Instances.Side <= 0 {
		errs = append(errs, fmt.Errorf("instances.side must be > 0, got %g", c.Instances.Side))
	}
	if c.Instances.PickRadius <= 0 {
		errs = append(errs, fmt.Errorf("instances.pick_radius must be > 0, got %g", c.Instances.PickRadius))
	}
	if len(c.Instances.Highlight) != 3 {
		errs = append(errs, fmt.Errorf("instances.highlight needs 3 components, got %d", len(c.Instances.Highlight)))
	}
	if len(c.Camera.Position) != 3 {
		errs = append(errs, fmt.Errorf("camera.position needs 3 components, got %d", len(c.Camera.Position)))
	}
	if c.Camera.Fov <= 0 || c.Camera.Fov >= 180 {
		errs = append(errs, fmt.Errorf("camera.fov must be in (0,180), got %g", c.Camera.Fov))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrConfig, errors.Join(errs...))
	}
	return nil
}

func (c InstanceConfig) HighlightColor() mgl32.Vec3 {
	if len(c.Highlight) != 3 {
		return mgl32.Vec3{1, 1, 0}
	}
	return mgl32.Vec3{c.Highlight[0], c.Highlight[1], c.Highlight[2]}
}

func (c CameraConfig) PositionVec() mgl32.Vec3 {
	if len(c.Position) != 3 {
		return mgl32.Vec3{0, 0, 35}
	}
	return mgl32.Vec3{c.Position[0], c.Position[1], c.Position[2]}
}
