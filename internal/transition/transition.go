// Package transition animates pattern swaps. While one runs, the
// outgoing and incoming patterns render into off-screen buffers and a
// per-LED ownership rule decides which of the two each pixel shows, so
// the real strip only ever receives complete frames.
package transition

import (
	"strings"
	"time"

	"github.com/glowshed/stripctl/internal/pattern"
	"github.com/glowshed/stripctl/internal/strip"
)

// Transition composites two patterns onto one strip over a timed window.
type Transition interface {
	Name() string
	// Start arms the transition and resets both patterns against
	// scratch geometry cloned from the strip.
	Start(s strip.Strip, from, to pattern.Pattern, now time.Time)
	// Update renders one composite frame and reports whether the
	// transition has completed. On the completing call the incoming
	// pattern has already drawn directly to the strip.
	Update(s strip.Strip, from, to pattern.Pattern, now time.Time) bool
	// SetSpeed adjusts the window; percent clamps to 1..100.
	SetSpeed(percent int)
	Duration() time.Duration
}

// New returns the named transition. Unrecognized names fall back to
// SWEEP, the same default the config layer documents.
func New(name string) Transition {
	switch Normalize(name) {
	case "BACKSWEEP":
		return &backsweepTransition{base: newBase()}
	case "EXPAND":
		return &expandTransition{base: newBase()}
	case "CONTRACT":
		return &contractTransition{base: newBase()}
	default:
		return &sweepTransition{base: newBase()}
	}
}

// Normalize maps a config string onto the canonical transition name;
// anything unknown normalizes to SWEEP.
func Normalize(name string) string {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "BACKSWEEP":
		return "BACKSWEEP"
	case "EXPAND":
		return "EXPAND"
	case "CONTRACT":
		return "CONTRACT"
	default:
		return "SWEEP"
	}
}

// base carries the timing and scratch state every kind shares.
type base struct {
	speed  int
	start  time.Time
	length int

	fromBuf *strip.Buffer
	toBuf   *strip.Buffer
}

func newBase() base { return base{speed: 50} }

func (b *base) SetSpeed(percent int) {
	if percent < 1 {
		percent = 1
	}
	if percent > 100 {
		percent = 100
	}
	b.speed = percent
}

// Duration runs 4s at speed 1 down to 40ms at speed 100.
func (b *base) Duration() time.Duration {
	return 2 * time.Second * time.Duration(101-b.speed) / 50
}

func (b *base) Start(s strip.Strip, from, to pattern.Pattern, now time.Time) {
	b.start = now
	b.length = s.Len()
	b.fromBuf = strip.NewBuffer(s)
	b.toBuf = strip.NewBuffer(s)
	from.Reset(b.fromBuf, now)
	to.Reset(b.toBuf, now)
}

// run renders both patterns off-screen and copies the composite to the
// strip, the only write that touches real pixels. claim reports whether
// pixel i belongs to the incoming pattern at progress p.
func (b *base) run(s strip.Strip, from, to pattern.Pattern, now time.Time, claim func(i int, p float64) bool) bool {
	if b.fromBuf == nil {
		b.Start(s, from, to, now)
	}
	if b.length == 0 {
		return true
	}

	p := b.progress(now)
	if p >= 1 {
		to.Update(s, now)
		return true
	}

	from.Update(b.fromBuf, now)
	to.Update(b.toBuf, now)
	for i := 0; i < b.length; i++ {
		src := b.fromBuf
		if claim(i, p) {
			src = b.toBuf
		}
		r, g, bl, w, ok := src.Pixel(i)
		if !ok {
			continue
		}
		s.SetPixel(i, r, g, bl, w)
	}
	return false
}

func (b *base) progress(now time.Time) float64 {
	d := b.Duration()
	if d <= 0 {
		return 1
	}
	p := float64(now.Sub(b.start)) / float64(d)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
