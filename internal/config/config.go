package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/tomz197/starfield/internal/palette"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable holding the config file path.
const EnvConfigPath = "STARFIELD_CONFIG"

// Config is the full settings tree shared by both hosts.
type Config struct {
	Starfield StarfieldConfig `toml:"starfield" yaml:"starfield"`
	Viewport  ViewportConfig  `toml:"viewport" yaml:"viewport"`
	Clock     ClockConfig     `toml:"clock" yaml:"clock"`
	Display   DisplayConfig   `toml:"display" yaml:"display"`
	SSH       SSHConfig       `toml:"ssh" yaml:"ssh"`
	Logging   LoggingConfig   `toml:"logging" yaml:"logging"`
}

// StarfieldConfig tunes the particle engine. Zero values are filled from the variant preset.
type StarfieldConfig struct {
	Variant       string        `toml:"variant" yaml:"variant"` // "color" or "mono"
	Capacity      int           `toml:"capacity" yaml:"capacity"`
	FrameInterval time.Duration `toml:"frame_interval" yaml:"frame_interval"`
	MaxStarRadius int           `toml:"max_star_radius" yaml:"max_star_radius"`
	Planets       *bool         `toml:"planets" yaml:"planets"`
	Seed          int64         `toml:"seed" yaml:"seed"` // 0 = time based
}

// ViewportConfig is the logical drawing area in engine units.
type ViewportConfig struct {
	Width  int `toml:"width" yaml:"width"`
	Height int `toml:"height" yaml:"height"`
}

// ClockConfig controls the time and date labels.
type ClockConfig struct {
	Placement string `toml:"placement" yaml:"placement"` // "overlay" or "separate"
	Hour24    bool   `toml:"hour24" yaml:"hour24"`
	ShowDate  *bool  `toml:"show_date" yaml:"show_date"`
}

// DisplayConfig selects the terminal backend and caps its size.
type DisplayConfig struct {
	Backend string `toml:"backend" yaml:"backend"` // "ansi" or "tcell"
	MaxCols int    `toml:"max_cols" yaml:"max_cols"`
	MaxRows int    `toml:"max_rows" yaml:"max_rows"`
}

// SSHConfig configures the SSH server.
type SSHConfig struct {
	Host        string        `toml:"host" yaml:"host"`
	Port        string        `toml:"port" yaml:"port"`
	HostKeyPath string        `toml:"host_key_path" yaml:"host_key_path"`
	IdleTimeout time.Duration `toml:"idle_timeout" yaml:"idle_timeout"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"` // "json" or "console"
	File   string `toml:"file" yaml:"file"`     // empty = stderr
}

// Variant presets.
type preset struct {
	capacity      int
	interval      time.Duration
	maxStarRadius int
	planets       bool
	placement     string
	showDate      bool
}

var presets = map[palette.Mode]preset{
	palette.Full: {
		capacity:      27,
		interval:      50 * time.Millisecond,
		maxStarRadius: 6,
		planets:       true,
		placement:     PlacementSeparate,
		showDate:      true,
	},
	palette.Mono: {
		capacity:      60,
		interval:      33 * time.Millisecond,
		maxStarRadius: 4,
		planets:       false,
		placement:     PlacementOverlay,
		showDate:      false,
	},
}

const (
	PlacementOverlay  = "overlay"
	PlacementSeparate = "separate"

	BackendANSI  = "ansi"
	BackendTcell = "tcell"
)

// Frame interval bounds accepted by Validate.
const (
	MinFrameInterval = time.Millisecond
	MaxFrameInterval = time.Second
)

// Load reads path over the defaults. TOML is assumed unless the extension is .yaml or .yml.
// An empty path returns the defaults. Environment overrides and the variant preset are applied
// before returning; the result is not validated.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			err = yaml.Unmarshal(data, cfg)
		default:
			err = toml.Unmarshal(data, cfg)
		}
		if err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	cfg.ApplyVariant()
	return cfg, nil
}

// Defaults returns the color watch configuration served on localhost:1234.
func Defaults() *Config {
	return &Config{
		Starfield: StarfieldConfig{
			Variant: "color",
		},
		Viewport: ViewportConfig{
			Width:  144,
			Height: 168,
		},
		Clock: ClockConfig{
			Hour24: true,
		},
		Display: DisplayConfig{
			Backend: BackendANSI,
		},
		SSH: SSHConfig{
			Host:        "localhost",
			Port:        "1234",
			HostKeyPath: ".ssh/id_ed25519",
			IdleTimeout: 30 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func (c *Config) applyEnv() {
	c.SSH.Host = GetEnv("SSH_HOST", c.SSH.Host)
	c.SSH.Port = GetEnv("SSH_PORT", c.SSH.Port)
	c.SSH.HostKeyPath = GetEnv("SSH_HOST_KEY", c.SSH.HostKeyPath)
}

// Mode reports the palette mode selected by the variant. Unknown variants read as mono.
func (c *Config) Mode() palette.Mode {
	m, _ := palette.ParseMode(c.Starfield.Variant)
	return m
}

// ApplyVariant fills unset engine and clock fields from the variant preset.
func (c *Config) ApplyVariant() {
	p, ok := presets[c.Mode()]
	if !ok {
		return
	}
	s := &c.Starfield
	if s.Capacity == 0 {
		s.Capacity = p.capacity
	}
	if s.FrameInterval == 0 {
		s.FrameInterval = p.interval
	}
	if s.MaxStarRadius == 0 {
		s.MaxStarRadius = p.maxStarRadius
	}
	if s.Planets == nil {
		s.Planets = &p.planets
	}
	if c.Clock.Placement == "" {
		c.Clock.Placement = p.placement
	}
	if c.Clock.ShowDate == nil {
		c.Clock.ShowDate = &p.showDate
	}
}

// PlanetsEnabled reports whether planet promotion is on.
func (c *Config) PlanetsEnabled() bool {
	return c.Starfield.Planets != nil && *c.Starfield.Planets
}

// DateEnabled reports whether the date line is drawn.
func (c *Config) DateEnabled() bool {
	return c.Clock.ShowDate != nil && *c.Clock.ShowDate
}

// Addr returns the SSH listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.SSH.Host, c.SSH.Port)
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error
	if _, err := palette.ParseMode(c.Starfield.Variant); err != nil {
		errs = append(errs, fmt.Errorf("starfield.variant: %w", err))
	}
	if c.Starfield.Capacity < 1 {
		errs = append(errs, fmt.Errorf("starfield.capacity: %d < 1", c.Starfield.Capacity))
	}
	if iv := c.Starfield.FrameInterval; iv < MinFrameInterval || iv > MaxFrameInterval {
		errs = append(errs, fmt.Errorf("starfield.frame_interval: %v outside [%v, %v]", iv, MinFrameInterval, MaxFrameInterval))
	}
	if c.Starfield.MaxStarRadius < 0 {
		errs = append(errs, fmt.Errorf("starfield.max_star_radius: %d < 0", c.Starfield.MaxStarRadius))
	}
	if c.Viewport.Width < 1 || c.Viewport.Height < 1 {
		errs = append(errs, fmt.Errorf("viewport: %dx%d is empty", c.Viewport.Width, c.Viewport.Height))
	}
	switch c.Clock.Placement {
	case PlacementOverlay, PlacementSeparate:
	default:
		errs = append(errs, fmt.Errorf("clock.placement: unknown value %q", c.Clock.Placement))
	}
	switch c.Display.Backend {
	case BackendANSI, BackendTcell:
	default:
		errs = append(errs, fmt.Errorf("display.backend: unknown value %q", c.Display.Backend))
	}
	if c.Display.MaxCols < 0 || c.Display.MaxRows < 0 {
		errs = append(errs, errors.New("display: max_cols and max_rows must not be negative"))
	}
	if port, err := strconv.Atoi(c.SSH.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("ssh.port: invalid port %q", c.SSH.Port))
	}
	return errors.Join(errs...)
}
