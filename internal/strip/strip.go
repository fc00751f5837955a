// Package strip models addressable LED strips: logical RGBA pixel grids
// with chip-aware packing, dirty tracking and non-blocking transmit
// gating. Patterns and transitions only ever talk to the Strip interface;
// hardware specifics stay behind it.
package strip

import "time"

// DefaultMaxQuiescent is the forced-refresh cadence: a clean strip is
// still retransmitted this long after its last flush so glitched LEDs
// recover.
const DefaultMaxQuiescent = 10 * time.Second

// Strip is one addressable LED strip treated as a rows x cols grid
// collected column-major. All pixel values are logical 8-bit RGBW; chip
// specific ordering happens at flush time.
type Strip interface {
	Pin() int
	Len() int
	Chip() Chip
	Rows() int
	Cols() int

	// IndexForRowCol translates grid coordinates to a linear pixel index.
	// Out-of-range coordinates clamp to the last valid row/column and the
	// result clamps to Len()-1, so the mapping is total.
	IndexForRowCol(row, col int) int

	// SetPixel stores a pixel and reports whether the stored value
	// changed. Writes past the end are ignored.
	SetPixel(i int, r, g, b, w byte) bool
	// Pixel reads a pixel back; ok is false past the end.
	Pixel(i int) (r, g, b, w byte, ok bool)
	// Clear zeroes every pixel, dirtying the strip only if something was lit.
	Clear()

	// FlushIfDirty schedules a non-blocking transmit when the strip is
	// dirty or the last flush is older than maxQuiescent (<=0 selects
	// DefaultMaxQuiescent). Returns true when a frame was handed to
	// hardware.
	FlushIfDirty(now time.Time, maxQuiescent time.Duration) bool
	// Transmitting reports whether a previously flushed frame is still
	// believed to be on the wire.
	Transmitting() bool
	// CompleteTransmit is invoked by the hardware completion callback.
	CompleteTransmit(now time.Time)

	UsesDMA() bool

	// Optional power-enable pin; SetPowerEnabled is a no-op without one.
	HasEnablePin() bool
	SetPowerEnabled(on bool)
}

// grid is the pixel storage and geometry shared by Buffer and Device.
type grid struct {
	pin     int
	length  int
	chip    Chip
	rows    int
	cols    int
	layout  Layout
	segRows int

	pixels []byte // RGBA, 4 bytes per logical pixel
	dirty  bool
}

func newGrid(pin, length int, chip Chip, rows, cols int, layout Layout, segRows int) grid {
	if length < 0 {
		length = 0
	}
	if rows <= 0 {
		rows = 1
	}
	if cols <= 0 {
		cols = length
		if cols <= 0 {
			cols = 1
		}
	}
	return grid{
		pin:     pin,
		length:  length,
		chip:    chip,
		rows:    rows,
		cols:    cols,
		layout:  layout,
		segRows: segRows,
		pixels:  make([]byte, length*4),
	}
}

func (g *grid) Pin() int   { return g.pin }
func (g *grid) Len() int   { return g.length }
func (g *grid) Chip() Chip { return g.chip }
func (g *grid) Rows() int  { return g.rows }
func (g *grid) Cols() int  { return g.cols }

func (g *grid) IndexForRowCol(row, col int) int {
	if g.length == 0 {
		return 0
	}
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}
	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	idx := g.layout.chainIndex(g.rows, g.cols, g.segRows, row, col)
	if idx >= g.length {
		idx = g.length - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

func (g *grid) SetPixel(i int, r, gr, b, w byte) bool {
	if i < 0 || i >= g.length {
		return false
	}
	px := g.pixels[i*4 : i*4+4]
	changed := false
	if g.chip == Flipdot {
		// Dots are binary: any lit channel flips the dot fully on.
		var on byte
		if r|gr|b|w != 0 {
			on = 0xFF
		}
		r, gr, b, w = on, on, on, 0
	} else if !g.chip.HasWhite() {
		w = 0
	}
	if px[0] != r {
		px[0], changed = r, true
	}
	if px[1] != gr {
		px[1], changed = gr, true
	}
	if px[2] != b {
		px[2], changed = b, true
	}
	if px[3] != w {
		px[3], changed = w, true
	}
	if changed {
		g.dirty = true
	}
	return changed
}

func (g *grid) Pixel(i int) (r, gr, b, w byte, ok bool) {
	if i < 0 || i >= g.length {
		return 0, 0, 0, 0, false
	}
	px := g.pixels[i*4 : i*4+4]
	return px[0], px[1], px[2], px[3], true
}

func (g *grid) Clear() {
	for i := range g.pixels {
		if g.pixels[i] != 0 {
			g.pixels[i] = 0
			g.dirty = true
		}
	}
}

// CopyFrom overwrites the destination's pixels with the source's, up to
// the shorter length.
func CopyFrom(dst, src Strip) {
	n := dst.Len()
	if sn := src.Len(); sn < n {
		n = sn
	}
	for i := 0; i < n; i++ {
		if r, g, b, w, ok := src.Pixel(i); ok {
			dst.SetPixel(i, r, g, b, w)
		}
	}
}
