package pattern

import (
	"bytes"
	"strings"
	"time"

	"github.com/glowshed/stripctl/internal/strip"
	"github.com/glowshed/stripctl/internal/telemetry"
)

func init() { Register("LIFE", func() Pattern { return newLifePattern() }) }

// Seed modes selected by the start knob.
const (
	lifeModeRandom = "RANDOM"
	lifeModeSimple = "SIMPLE"
)

// stagnationGrace is how long a period-1 or period-2 board may repeat
// before it is reseeded.
const stagnationGrace = 10 * time.Second

// lifePattern runs Conway's Game of Life on the strip's row/col grid
// with toroidal wrap. RANDOM mode sows ~35% density from an LCG and
// reseeds itself when the board dies out, stalls on a short oscillation,
// or revisits an earlier state (caught by hashing every generation into
// a ring). SIMPLE mode sows a three-cell blinker and is left alone, as a
// visual self-test that the grid mapping and evolution are sound.
type lifePattern struct {
	speed      int
	brightness int
	base       RGBW
	startArg   string
	restart    bool

	rows, cols int
	cells      []uint8 // column-major, col*rows+row
	next       []uint8
	prev1      []uint8
	prev2      []uint8

	simple      bool
	initialSeed uint32
	generation  uint32
	lastStep    time.Time
	repeatSince time.Time
	reported    bool
	ring        historyRing

	reporter telemetry.Reporter
}

func newLifePattern() *lifePattern {
	return &lifePattern{
		speed:      50,
		brightness: 100,
		base:       RGBW{255, 255, 255, 0},
		restart:    true,
		reporter:   telemetry.Nop(),
	}
}

func (p *lifePattern) Name() string { return "LIFE" }

func (p *lifePattern) SetReporter(r telemetry.Reporter) {
	if r == nil {
		r = telemetry.Nop()
	}
	p.reporter = r
}

func (p *lifePattern) ApplyKnobs(k Knobs) {
	k = k.Clamp()
	p.speed = k.SpeedPercent
	p.brightness = k.BrightnessPercent
	if k.ColorSet && !k.Color.Zero() {
		p.base = k.Color
	}
	// Mode takes effect on the next Reset; changing the text mid-run
	// does not wipe the board.
	p.startArg = k.Start
	p.restart = k.Restart
}

func (p *lifePattern) Reset(s strip.Strip, now time.Time) {
	p.rows, p.cols = s.Rows(), s.Cols()
	total := p.rows * p.cols
	p.cells = make([]uint8, total)
	p.next = make([]uint8, total)
	p.prev1, p.prev2 = nil, nil

	p.simple = strings.EqualFold(strings.TrimSpace(p.startArg), lifeModeSimple)
	if p.simple && p.rows >= 1 && p.cols >= 5 {
		// Blinker: three cells across the middle row, clear of the edge.
		r := p.rows / 2
		p.cells[1*p.rows+r] = 1
		p.cells[2*p.rows+r] = 1
		p.cells[3*p.rows+r] = 1
		p.initialSeed = 0
	} else {
		p.sow(seedFromClock(now) ^ uint32(s.Pin())*2654435761)
	}

	p.generation = 0
	p.reported = false
	p.ring.reset()
	p.lastStep = now
	p.repeatSince = time.Time{}
	p.render(s)
}

func (p *lifePattern) Update(s strip.Strip, now time.Time) {
	if interval := lifeStepInterval(p.speed); interval > 0 {
		if now.Sub(p.lastStep) < interval {
			// Not due for a generation; repaint in case knobs changed.
			p.render(s)
			return
		}
		p.lastStep = now
	}

	rows, cols := s.Rows(), s.Cols()
	if rows == 0 || cols == 0 {
		return
	}
	total := rows * cols
	if len(p.cells) != total || p.rows != rows || p.cols != cols {
		// The strip was rebuilt with new geometry under this instance.
		p.rows, p.cols = rows, cols
		p.cells = make([]uint8, total)
		p.next = make([]uint8, total)
		p.prev1, p.prev2 = nil, nil
		p.generation = 0
		p.reported = false
		p.ring.reset()
		p.sow(seedFromClock(now) ^ uint32(s.Pin())*2654435761)
	}

	p.evolve()
	p.generation++

	if !p.simple && !anyAlive(p.next) {
		// Never leave an all-dead frame up, regardless of the restart
		// knob.
		p.reportCompletion(0)
		p.reseed(now)
		p.render(s)
		return
	}

	repeating := false
	var period uint32
	if !p.simple {
		if bytes.Equal(p.next, p.prev1) {
			repeating, period = true, 1
		} else if bytes.Equal(p.next, p.prev2) {
			repeating, period = true, 2
		}
		if repeating {
			p.reportCompletion(period)
			if p.repeatSince.IsZero() {
				p.repeatSince = now
			}
			if p.restart && now.Sub(p.repeatSince) >= stagnationGrace {
				p.reseed(now)
				p.render(s)
				return
			}
		} else {
			p.repeatSince = time.Time{}
		}
	}

	p.shiftHistory(total)

	// Long-period detection sits behind the short-period check so a
	// stalled board is governed by the stagnation grace alone.
	if !p.simple && !repeating {
		if cycle := p.ring.observe(hashCells(p.cells), p.generation); cycle > 0 {
			p.reporter.Event("life_cycle", map[string]any{
				"period":     cycle,
				"generation": p.generation,
			})
			p.reporter.Metric("life_cycle_period", float64(cycle), map[string]string{"category": "life"})
			p.reportCompletion(cycle)
			if p.restart {
				p.reseed(now)
			}
		}
	}

	p.render(s)
}

func (p *lifePattern) evolve() {
	for r := 0; r < p.rows; r++ {
		for c := 0; c < p.cols; c++ {
			n := p.liveNeighbors(r, c)
			idx := c*p.rows + r
			var alive uint8
			if p.cells[idx] != 0 {
				if n == 2 || n == 3 {
					alive = 1
				}
			} else if n == 3 {
				alive = 1
			}
			p.next[idx] = alive
		}
	}
}

func (p *lifePattern) liveNeighbors(row, col int) int {
	cnt := 0
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			r := (row + dr + p.rows) % p.rows
			c := (col + dc + p.cols) % p.cols
			if p.cells[c*p.rows+r] != 0 {
				cnt++
			}
		}
	}
	return cnt
}

// shiftHistory rotates the four generation buffers without copying:
// prev2 <- prev1 <- cells <- next, and the oldest buffer becomes the
// next scratch target.
func (p *lifePattern) shiftHistory(total int) {
	scratch := p.prev2
	p.prev2 = p.prev1
	p.prev1 = p.cells
	p.cells = p.next
	if len(scratch) != total {
		scratch = make([]uint8, total)
	}
	p.next = scratch
}

// sow fills the board from a 32-bit LCG at roughly 35% density.
func (p *lifePattern) sow(seed uint32) {
	p.initialSeed = seed
	x := seed
	if x == 0 {
		x = 0xA5A5A5A5
	}
	for i := range p.cells {
		x = x*1664525 + 1013904223
		if (x>>28)&0xF < 6 {
			p.cells[i] = 1
		} else {
			p.cells[i] = 0
		}
	}
	for i := range p.next {
		p.next[i] = 0
	}
}

func (p *lifePattern) reseed(now time.Time) {
	p.sow(seedFromClock(now) + 0x9E3779B9)
	p.prev1, p.prev2 = nil, nil
	p.repeatSince = time.Time{}
	p.ring.reset()
	p.generation = 0
	p.reported = false
}

// reportCompletion emits the one-shot run summary the first time a run
// goes steady; later steadiness in the same run stays quiet.
func (p *lifePattern) reportCompletion(period uint32) {
	if p.reported {
		return
	}
	p.reported = true
	mode := lifeModeRandom
	if p.simple {
		mode = lifeModeSimple
	}
	p.reporter.Event("life_complete", map[string]any{
		"generations": p.generation,
		"seed":        p.initialSeed,
		"mode":        mode,
		"period":      period,
	})
	p.reporter.Metric("life_generations_to_steady", float64(p.generation), map[string]string{"category": "life"})
}

func (p *lifePattern) render(s strip.Strip) {
	rows, cols := s.Rows(), s.Cols()
	if rows == 0 || cols == 0 {
		return
	}
	c := scaleColor(p.base, p.brightness)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			logical := col*rows + row
			if logical >= len(p.cells) {
				continue
			}
			idx := s.IndexForRowCol(row, col)
			if p.cells[logical] != 0 {
				s.SetPixel(idx, c.R, c.G, c.B, c.W)
			} else {
				s.SetPixel(idx, 0, 0, 0, 0)
			}
		}
	}
}

// lifeStepInterval maps speed 0..99 onto 800ms down to ~200ms per
// generation; at 100 the board advances every update.
func lifeStepInterval(speed int) time.Duration {
	if speed >= 100 {
		return 0
	}
	if speed < 0 {
		speed = 0
	}
	return time.Duration(800000-speed*6000) * time.Microsecond
}

func anyAlive(cells []uint8) bool {
	for _, c := range cells {
		if c != 0 {
			return true
		}
	}
	return false
}

func seedFromClock(now time.Time) uint32 {
	u := uint64(now.UnixMicro())
	return uint32(u ^ u>>32)
}
