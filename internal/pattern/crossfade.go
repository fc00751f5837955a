package pattern

import (
	"time"

	"github.com/glowshed/stripctl/internal/strip"
)

func init() { Register("CROSS_FADE", func() Pattern { return &crossFadePattern{brightness: 100} }) }

// crossFadePattern alternates two perpendicular wipes: rows switch off
// top to bottom, then columns switch back on left to right. The speed
// knob is the duration of one wipe in seconds.
type crossFadePattern struct {
	durationSeconds int
	brightness      int
	color           RGBW
	colorSet        bool

	colsUp     bool // false: rows turning off, true: columns turning on
	phaseStart time.Time
}

func (p *crossFadePattern) Name() string { return "CROSS_FADE" }

func (p *crossFadePattern) ApplyKnobs(k Knobs) {
	p.durationSeconds = k.SpeedPercent
	if p.durationSeconds < 0 {
		p.durationSeconds = 0
	}
	p.brightness = clampPercent(k.BrightnessPercent)
	if k.ColorSet {
		p.color = k.Color
		p.colorSet = true
	}
}

func (p *crossFadePattern) Reset(_ strip.Strip, now time.Time) {
	p.colsUp = false
	p.phaseStart = now
}

func (p *crossFadePattern) phaseDuration() time.Duration {
	s := p.durationSeconds
	if s <= 0 {
		s = 1
	}
	return time.Duration(s) * time.Second
}

func (p *crossFadePattern) Update(s strip.Strip, now time.Time) {
	if !p.colorSet {
		// White until the user picks something.
		p.color = RGBW{R: 255, G: 255, B: 255}
		p.colorSet = true
	}
	rows, cols := s.Rows(), s.Cols()
	if rows == 0 {
		rows = 1
	}
	if cols == 0 {
		cols = s.Len()
	}
	if cols == 0 || s.Len() == 0 {
		return
	}

	dur := p.phaseDuration()
	elapsed := now.Sub(p.phaseStart)
	frac := float64(elapsed) / float64(dur)
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}

	c := scaleColor(p.color, p.brightness)
	total := s.Len()
	if p.colsUp {
		linesOn := int(frac * float64(cols))
		if linesOn > cols {
			linesOn = cols
		}
		for col := 0; col < cols; col++ {
			on := col < linesOn
			for row := 0; row < rows; row++ {
				paintCell(s, row, col, total, on, c)
			}
		}
	} else {
		linesOff := int(frac * float64(rows))
		if linesOff > rows {
			linesOff = rows
		}
		for row := 0; row < rows; row++ {
			on := row >= linesOff
			for col := 0; col < cols; col++ {
				paintCell(s, row, col, total, on, c)
			}
		}
	}

	if elapsed >= dur {
		p.phaseStart = now
		p.colsUp = !p.colsUp
	}
}

func paintCell(s strip.Strip, row, col, total int, on bool, c RGBW) {
	idx := s.IndexForRowCol(row, col)
	if idx >= total {
		return
	}
	if on {
		s.SetPixel(idx, c.R, c.G, c.B, c.W)
	} else {
		s.SetPixel(idx, 0, 0, 0, 0)
	}
}
