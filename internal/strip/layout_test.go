package strip

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLayout(t *testing.T) {
	cases := []struct {
		in   string
		want Layout
	}{
		{"", ColumnMajor},
		{"column_major", ColumnMajor},
		{"ROW_MAJOR", RowMajor},
		{"serpentine-row", SerpentineRow},
		{"Serpentine_Column", SerpentineColumn},
		{"flipdot_grid", FlipdotGrid},
	}
	for _, tc := range cases {
		got, err := ParseLayout(tc.in)
		if err != nil {
			t.Fatalf("ParseLayout(%q): %v", tc.in, err)
		}
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}

	_, err := ParseLayout("spiral")
	assert.Error(t, err)
}

func TestChainIndexBasicOrders(t *testing.T) {
	// 3 rows x 4 cols.
	assert.Equal(t, 7, ColumnMajor.chainIndex(3, 4, 0, 1, 2))
	assert.Equal(t, 6, RowMajor.chainIndex(3, 4, 0, 1, 2))

	// Odd rows run right to left.
	assert.Equal(t, 3, SerpentineRow.chainIndex(3, 4, 0, 0, 3))
	assert.Equal(t, 4, SerpentineRow.chainIndex(3, 4, 0, 1, 3))
	assert.Equal(t, 7, SerpentineRow.chainIndex(3, 4, 0, 1, 0))
	assert.Equal(t, 9, SerpentineRow.chainIndex(3, 4, 0, 2, 1))
}

func TestChainIndexSerpentineColumn(t *testing.T) {
	// 16 rows x 4 cols in two 8-row segments.
	const rows, cols, seg = 16, 4, 8

	// First column of the first segment runs top down.
	assert.Equal(t, 0, SerpentineColumn.chainIndex(rows, cols, seg, 0, 0))
	assert.Equal(t, 7, SerpentineColumn.chainIndex(rows, cols, seg, 7, 0))
	// The next column turns around and runs bottom up, so the chain
	// continues without a jump.
	assert.Equal(t, 8, SerpentineColumn.chainIndex(rows, cols, seg, 7, 1))
	assert.Equal(t, 15, SerpentineColumn.chainIndex(rows, cols, seg, 0, 1))
	// The second segment row mirrors column order.
	assert.Equal(t, 56, SerpentineColumn.chainIndex(rows, cols, seg, 8, 0))
}

func TestChainIndexFlipdotGrid(t *testing.T) {
	// One row of two 8x8 boxes.
	assert.Equal(t, 63, FlipdotGrid.chainIndex(8, 16, 0, 0, 0))
	assert.Equal(t, 0, FlipdotGrid.chainIndex(8, 16, 0, 7, 7))
	assert.Equal(t, 127, FlipdotGrid.chainIndex(8, 16, 0, 0, 8))
	assert.Equal(t, 108, FlipdotGrid.chainIndex(8, 16, 0, 3, 10))
}

func TestChainIndexBijective(t *testing.T) {
	grids := []struct {
		name    string
		layout  Layout
		rows    int
		cols    int
		segRows int
	}{
		{"column_major", ColumnMajor, 8, 32, 0},
		{"row_major", RowMajor, 8, 32, 0},
		{"serpentine_row", SerpentineRow, 8, 32, 0},
		{"serpentine_column", SerpentineColumn, 16, 4, 8},
		{"serpentine_column_whole", SerpentineColumn, 16, 4, 0},
		{"flipdot_grid", FlipdotGrid, 16, 16, 0},
	}
	for _, g := range grids {
		t.Run(g.name, func(t *testing.T) {
			n := g.rows * g.cols
			seen := make([]bool, n)
			for row := 0; row < g.rows; row++ {
				for col := 0; col < g.cols; col++ {
					idx := g.layout.chainIndex(g.rows, g.cols, g.segRows, row, col)
					if idx < 0 || idx >= n {
						t.Fatalf("(%d,%d) maps to %d, outside [0,%d)", row, col, idx, n)
					}
					if seen[idx] {
						t.Fatalf("(%d,%d) maps to %d, already taken", row, col, idx)
					}
					seen[idx] = true
				}
			}
		})
	}
}
