package pattern

import (
	"time"

	"github.com/glowshed/stripctl/internal/strip"
)

func init() { Register("POSITION", func() Pattern { return &positionPattern{} }) }

// positionPattern is an installer diagnostic: the R knob picks a row and
// the G knob a column, and only that pixel lights, full white. Walking
// the knobs verifies the physical layout mapping one LED at a time.
type positionPattern struct {
	row, col int
}

func (p *positionPattern) Name() string { return "POSITION" }

func (p *positionPattern) ApplyKnobs(k Knobs) {
	p.row = int(k.Color.R)
	p.col = int(k.Color.G)
}

func (p *positionPattern) Reset(strip.Strip, time.Time) {}

func (p *positionPattern) Update(s strip.Strip, _ time.Time) {
	rows, cols := s.Rows(), s.Cols()
	if rows == 0 || cols == 0 {
		return
	}
	row, col := p.row, p.col
	if row >= rows {
		row = rows - 1
	}
	if col >= cols {
		col = cols - 1
	}
	target := s.IndexForRowCol(row, col)
	for i := 0; i < s.Len(); i++ {
		if i == target {
			s.SetPixel(i, 255, 255, 255, 255)
		} else {
			s.SetPixel(i, 0, 0, 0, 0)
		}
	}
}
