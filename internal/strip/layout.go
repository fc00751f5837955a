package strip

import (
	"strings"

	"github.com/pkg/errors"
)

// Layout describes how the physical LED chain snakes through the logical
// rows x cols grid. The zero value is ColumnMajor, the collection order
// the rest of the system assumes: index = col*rows + row.
type Layout uint8

const (
	ColumnMajor Layout = iota
	RowMajor
	// SerpentineRow alternates direction every row: even rows run
	// left-to-right, odd rows right-to-left.
	SerpentineRow
	// SerpentineColumn runs column-major inside vertical segments of
	// SegmentRows height; segment rows alternate direction, and column
	// orientation flips so the chain never jumps across the panel.
	SerpentineColumn
	// FlipdotGrid arranges 8x8 boxes row-major across the surface; inside
	// each box the chain runs right-to-left, bottom-to-top.
	FlipdotGrid
)

func ParseLayout(s string) (Layout, error) {
	switch strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")) {
	case "", "COLUMN_MAJOR":
		return ColumnMajor, nil
	case "ROW_MAJOR":
		return RowMajor, nil
	case "SERPENTINE_ROW":
		return SerpentineRow, nil
	case "SERPENTINE_COLUMN":
		return SerpentineColumn, nil
	case "FLIPDOT_GRID":
		return FlipdotGrid, nil
	}
	return ColumnMajor, errors.Errorf("unknown layout %q", s)
}

func (l Layout) String() string {
	switch l {
	case RowMajor:
		return "ROW_MAJOR"
	case SerpentineRow:
		return "SERPENTINE_ROW"
	case SerpentineColumn:
		return "SERPENTINE_COLUMN"
	case FlipdotGrid:
		return "FLIPDOT_GRID"
	default:
		return "COLUMN_MAJOR"
	}
}

// chainIndex maps clamped grid coordinates to the position of that pixel
// along the physical chain. Inputs must already satisfy row < rows and
// col < cols.
func (l Layout) chainIndex(rows, cols, segRows, row, col int) int {
	switch l {
	case RowMajor:
		return row*cols + col
	case SerpentineRow:
		if row%2 == 1 {
			col = cols - 1 - col
		}
		return row*cols + col
	case SerpentineColumn:
		seg := segRows
		if seg <= 0 || seg > rows {
			seg = rows
		}
		segRow := row / seg
		rowIn := row % seg
		colEff := col
		if segRow%2 == 1 {
			colEff = cols - 1 - col
		}
		// Column orientation alternates per column and per segment row so
		// adjacent columns chain end-to-end.
		rIn := rowIn
		if colEff%2 != segRow%2 {
			rIn = seg - 1 - rowIn
		}
		return (segRow*cols+colEff)*seg + rIn
	case FlipdotGrid:
		boxCols := cols / 8
		if boxCols == 0 {
			boxCols = 1
		}
		br, bc := row/8, col/8
		rb, cb := row%8, col%8
		s := (7-cb)*8 + (7 - rb)
		return (br*boxCols+bc)*64 + s
	default:
		return col*rows + row
	}
}
