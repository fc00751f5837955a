// Package config loads the YAML strip roster the daemon reconciles
// against. Load clamps knob ranges in place; name fields (chip, layout,
// pattern, device) stay strings here and are resolved when strips are
// built, so a typo disables one strip instead of failing the whole file.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// StripConfig is one strip entry. Pointer fields distinguish "absent"
// from an explicit zero: an unset color is no color at all, an unset
// speed means the documented default.
type StripConfig struct {
	Name        string `yaml:"name"`
	Pin         int    `yaml:"pin"`
	Length      int    `yaml:"length"` // logical LEDs
	Chip        string `yaml:"chip"`   // ws2812 | sk6812 | ws2814 | flipdot
	Rows        int    `yaml:"rows"`
	Cols        int    `yaml:"cols"`
	Layout      string `yaml:"layout"` // column_major | row_major | serpentine_column | serpentine_row | flipdot_grid
	SegmentRows int    `yaml:"segment_rows,omitempty"`
	DMA         *bool  `yaml:"dma,omitempty"`
	EnablePin   *int   `yaml:"enable_pin,omitempty"` // power-enable gpio
	Device      string `yaml:"device"`               // spi | serial | console | fake
	Port        string `yaml:"port,omitempty"`       // spireg name or serial path

	Pattern    string `yaml:"pattern"`
	Transition string `yaml:"transition,omitempty"`
	Speed      *int   `yaml:"speed,omitempty"`      // 0-100
	Brightness *int   `yaml:"brightness,omitempty"` // 0-100
	R          *int   `yaml:"r,omitempty"`
	G          *int   `yaml:"g,omitempty"`
	B          *int   `yaml:"b,omitempty"`
	W          *int   `yaml:"w,omitempty"`
	Start      string `yaml:"start,omitempty"`   // marquee text, life seed mode
	Restart    *bool  `yaml:"restart,omitempty"` // life auto-reseed
}

// Config is the full daemon snapshot.
type Config struct {
	Listen   string        `yaml:"listen,omitempty"` // status server address, empty disables
	LogLevel string        `yaml:"log_level,omitempty"`
	Strips   []StripConfig `yaml:"strips"`
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	c.normalize()
	return &c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	return errors.Wrap(os.WriteFile(path, b, 0644), "write config")
}

// normalize clamps every ranged knob; out-of-range values are user
// intent for the nearest bound, never an error.
func (c *Config) normalize() {
	for i := range c.Strips {
		s := &c.Strips[i]
		if s.Length < 0 {
			s.Length = 0
		}
		if s.SegmentRows < 0 {
			s.SegmentRows = 0
		}
		clampPtr(s.Speed, 0, 100)
		clampPtr(s.Brightness, 0, 100)
		clampPtr(s.R, 0, 255)
		clampPtr(s.G, 0, 255)
		clampPtr(s.B, 0, 255)
		clampPtr(s.W, 0, 255)
	}
}

func clampPtr(p *int, lo, hi int) {
	if p == nil {
		return
	}
	if *p < lo {
		*p = lo
	}
	if *p > hi {
		*p = hi
	}
}

// EffectiveSpeed is the speed knob with its unset default.
func (s StripConfig) EffectiveSpeed() int {
	if s.Speed == nil {
		return 50
	}
	return *s.Speed
}

// EffectiveBrightness is the brightness knob with its unset default.
func (s StripConfig) EffectiveBrightness() int {
	if s.Brightness == nil {
		return 100
	}
	return *s.Brightness
}

// EffectiveRestart is the restart knob; unset means auto-reseed.
func (s StripConfig) EffectiveRestart() bool {
	if s.Restart == nil {
		return true
	}
	return *s.Restart
}

// WantsDMA reports an explicit dma request.
func (s StripConfig) WantsDMA() bool { return s.DMA != nil && *s.DMA }

// HasColor reports whether any color channel was configured; a color is
// pushed to patterns only when at least one channel is present.
func (s StripConfig) HasColor() bool {
	return s.R != nil || s.G != nil || s.B != nil || s.W != nil
}

// Color flattens the channel fields, absent channels reading zero.
func (s StripConfig) Color() (r, g, b, w uint8) {
	return channel(s.R), channel(s.G), channel(s.B), channel(s.W)
}

func channel(p *int) uint8 {
	if p == nil {
		return 0
	}
	return uint8(*p)
}

// SameHardware reports whether two entries build the identical strip.
// Any difference here forces a full rebuild instead of an in-place
// knob update.
func (s StripConfig) SameHardware(o StripConfig) bool {
	return s.Name == o.Name &&
		s.Pin == o.Pin &&
		s.Length == o.Length &&
		s.Chip == o.Chip &&
		s.Rows == o.Rows &&
		s.Cols == o.Cols &&
		s.Layout == o.Layout &&
		s.SegmentRows == o.SegmentRows &&
		eqBool(s.DMA, o.DMA) &&
		eqInt(s.EnablePin, o.EnablePin) &&
		s.Device == o.Device &&
		s.Port == o.Port
}

// Equal reports a full entry match, letting reconciliation skip strips
// whose configuration did not move at all.
func (s StripConfig) Equal(o StripConfig) bool {
	return s.SameHardware(o) &&
		s.Pattern == o.Pattern &&
		s.Transition == o.Transition &&
		eqInt(s.Speed, o.Speed) &&
		eqInt(s.Brightness, o.Brightness) &&
		eqInt(s.R, o.R) &&
		eqInt(s.G, o.G) &&
		eqInt(s.B, o.B) &&
		eqInt(s.W, o.W) &&
		s.Start == o.Start &&
		eqBool(s.Restart, o.Restart)
}

func eqInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func eqBool(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
