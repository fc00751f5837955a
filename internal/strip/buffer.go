package strip

import "time"

// Buffer is an in-memory Strip used for composition and tests: identical
// pixel and geometry semantics to a device strip, but it never transmits.
type Buffer struct {
	grid
}

// NewBuffer returns a Buffer matching the geometry of an existing strip,
// including its chain layout when the source lives in this package.
func NewBuffer(s Strip) *Buffer {
	switch src := s.(type) {
	case *Buffer:
		g := src.grid
		g.pixels = make([]byte, src.length*4)
		g.dirty = false
		return &Buffer{grid: g}
	case *Device:
		g := src.grid
		g.pixels = make([]byte, src.length*4)
		g.dirty = false
		return &Buffer{grid: g}
	default:
		return NewBufferDims(s.Pin(), s.Len(), s.Chip(), s.Rows(), s.Cols())
	}
}

// NewBufferDims builds a column-major Buffer with explicit properties.
func NewBufferDims(pin, length int, chip Chip, rows, cols int) *Buffer {
	return &Buffer{grid: newGrid(pin, length, chip, rows, cols, ColumnMajor, 0)}
}

// FlushIfDirty on a buffer only drops the dirty bit; nothing is sent.
func (b *Buffer) FlushIfDirty(time.Time, time.Duration) bool {
	b.dirty = false
	return false
}

func (b *Buffer) Transmitting() bool         { return false }
func (b *Buffer) CompleteTransmit(time.Time) {}
func (b *Buffer) UsesDMA() bool              { return false }
func (b *Buffer) HasEnablePin() bool         { return false }
func (b *Buffer) SetPowerEnabled(bool)       {}

// Dirty reports whether any pixel changed since the last FlushIfDirty.
func (b *Buffer) Dirty() bool { return b.dirty }
