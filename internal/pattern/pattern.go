// Package pattern holds the animation state machines that paint strips.
//
// Each pattern is a small wall-clock driven state machine: the manager
// calls Update once per tick with the current time and the pattern
// repaints whatever changed. Patterns never block and never talk to
// hardware; they only write pixels through the strip interface.
package pattern

import (
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/glowshed/stripctl/internal/strip"
	"github.com/glowshed/stripctl/internal/telemetry"
)

// RGBW is one pixel's worth of channel values. The white channel is
// dropped by the strip when the chip has no white LED.
type RGBW struct {
	R, G, B, W uint8
}

// Zero reports whether every channel is zero.
func (c RGBW) Zero() bool { return c.R == 0 && c.G == 0 && c.B == 0 && c.W == 0 }

// Knobs carries the per-strip tuning values the manager pushes into a
// pattern. Patterns ignore the knobs they do not honor.
type Knobs struct {
	SpeedPercent      int
	BrightnessPercent int
	Color             RGBW
	ColorSet          bool   // at least one channel was configured
	Start             string // free text: LIFE seed mode, MARQUEE message
	Restart           bool   // LIFE reseeds automatically on steady state
}

// DefaultKnobs returns the values used for knobs the configuration
// leaves unset.
func DefaultKnobs() Knobs {
	return Knobs{SpeedPercent: 50, BrightnessPercent: 100, Restart: true}
}

// Clamp forces the percent knobs into 0..100. Out-of-range values are
// folded in, never rejected.
func (k Knobs) Clamp() Knobs {
	k.SpeedPercent = clampPercent(k.SpeedPercent)
	k.BrightnessPercent = clampPercent(k.BrightnessPercent)
	return k
}

// Pattern renders one animation into one strip. Implementations keep
// their own state per strip entry; the manager is the sole caller of
// Reset and Update, always from the same goroutine.
type Pattern interface {
	// Name reports the canonical registry name, e.g. "SOLID".
	Name() string
	// Reset reinitializes state for the strip's current geometry and
	// paints a first frame where the pattern has one.
	Reset(s strip.Strip, now time.Time)
	// Update advances the animation to now and repaints changed pixels.
	Update(s strip.Strip, now time.Time)
	// ApplyKnobs pushes new tuning values without disturbing run state.
	ApplyKnobs(k Knobs)
}

// ReporterAware is implemented by patterns that emit telemetry.
type ReporterAware interface {
	SetReporter(r telemetry.Reporter)
}

// Factory builds a fresh pattern instance for one strip entry.
type Factory func() Pattern

var factories = map[string]Factory{}

// Register adds a factory under its canonical name. Called from init in
// each pattern file; duplicate names panic.
func Register(name string, f Factory) {
	key := Canonical(name)
	if _, dup := factories[key]; dup {
		panic("pattern: duplicate registration for " + key)
	}
	factories[key] = f
}

// New builds a pattern by name, case-insensitively. Unknown names list
// the whole catalog so config typos are easy to spot.
func New(name string) (Pattern, error) {
	f, ok := factories[Canonical(name)]
	if !ok {
		return nil, errors.Errorf("unknown pattern %q (known: %s)", name, strings.Join(Names(), " "))
	}
	return f(), nil
}

// Names lists every registered pattern name, sorted.
func Names() []string {
	out := make([]string, 0, len(factories))
	for name := range factories {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Canonical normalizes a configured pattern name for registry lookup.
func Canonical(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
