// Package font renders a 6x6 pixel typeface into LED grids. Every glyph
// sits inside an 8x8 cell with a one pixel margin, so text advances by
// eight columns per character. Pattern rows use '*' for a full pixel and
// '-' for a quarter intensity pixel.
package font

import "github.com/glowshed/stripctl/internal/strip"

// CellWidth is the horizontal advance per character.
const CellWidth = 8

type glyph [6]string

var glyphs = map[rune]glyph{
	'0': {"-****-", "**--**", "**--**", "**--**", "**--**", "-****-"},
	'1': {" -**", " ***", " -**", "  **", "  **-", " ****"},
	'2': {"-****-", "*- -**", "  -**-", " -**-", " -**-*", "******"},
	'3': {"-****-", "**--**", "   **-", "   -**", "**--**", "-****-"},
	'4': {" -***", " -*-**", " *--**-", "******", "  -**-", "  ****"},
	'5': {"******", "**-", "*****-", "   -**", "**--**", "-****-"},
	'6': {"-***", "-**-", "**-", "*****-", "**--**", "-****-"},
	'7': {"******", "*- -**", "   -**", "  -**-", "  **-", "  **"},
	'8': {"-****-", "**--**", "-****-", "**--**", "**--**", "-****-"},
	'9': {"-****-", "**--**", "-*****", "   -**", "  -**-", " -***-"},

	'A': {" -**-", "-****-", "**--**", "******", "**--**", "**  **"},
	'B': {"*****-", "-**-**", " ****-", " ** **", "-** **", "*****-"},
	'C': {"-****-", "**- -*", "**", "**", "**- -*", "-****-"},
	'D': {"****-", "**-**-", "** -**", "** -**", "**-**-", "****-"},
	'E': {"-*****", "**---*", " ****-", " **--", "**- **", "*****-"},
	'F': {"*****-", "**--**", " **-", " ****", " **-", " *-"},
	'G': {"-****-", "**--**", "**", "** ***", "**--**", "-***-*"},
	'H': {"**  **", "**--**", "******", "**--**", "**  **", "**  **"},
	'I': {" ****", " -**-", "  **", "  **", " -**-", " ****"},
	'J': {" ****", " -**-", "   **", "** **", "**-**", "-***-"},
	'K': {"***-**", "-****-", "***-", "****-", "-**-**", "*** **"},
	'L': {" ****", " -**-", "  **", "  **", " -**--*", " ******"},
	'M': {" **-**", " **-**", " *-*-*", " *- -*", " *- -*", " *   *"},
	'N': {"**  **", "**- **", "***-**", "**-***", "** -**", "**  **"},
	'O': {"-****-", "**--**", "**  **", "**  **", "**--**", "-****-"},
	'P': {"*****-", "-**-**", " ****-", " **-", "-**-", " ****"},
	'Q': {"-****-", "**--**", "** -**", "**-***", "-****-", " -**"},
	'R': {"****-", "-*--*-", " *--*-", " ***-", "-*-**-", "**--**"},
	'S': {"-****-", "**--**", " -***-", "  -**", "**--**", "-****-"},
	'T': {"******", "*-**-*", "  **", "  **", " -**-", " ****"},
	'U': {"**  **", "**  **", "**  **", "**  **", "**--**", "-****-"},
	'V': {"**  **", "**  **", "**  **", "**--**", " -****-", " -**-"},
	'W': {"*   *", "*- -*", "*- -*", "*-*-*", "**-**", "-*-*-"},
	'X': {"**--**", "-****-", " -**-", " -**-", "-****-", "**--**"},
	'Y': {"**  **", "**--**", " -****-", " -**-", " -**-", " ****"},
	'Z': {"******", "*- -**", "  -**", " -**-", " -**--*", "******"},
	'Æ': {"-*****", "**-**-", "******", "**-**-", "** **-", "** ***"},
	'Ø': {"-***-*", "*--**-", "*-**-*", "*-**-*", "-**--*", "*-***-"},
	'Å': {"  **", "  --", "-****-", "**--**", "******", "**--**"},

	'a': {" ***-", " --**", "-****", "**-**-", "-**-**", ""},
	'b': {"***", " -**-", " ****-", " ** **", "-**-**", "**-**-"},
	'c': {" -****-", " **--**", " ** ---", " **--**", " -****-", ""},
	'd': {"   ***", "   -**", "-*****", "**--**", "**  **", "-***-*"},
	'e': {" -****-", " ** -**", " ******", " **-", " -****-", ""},
	'f': {" -***-", " -**--*", " ****", " -**-", "  **", " ****"},
	'g': {" -**-**", " ** **-", " -****", "  -**", " ****-", ""},
	'h': {"***", " -**-", " ****-", " **-**", "-** **", "*** **"},
	'i': {"  **", "  --", " ***", " -**", " -**-", " ****"},
	'j': {"   **", "   --", "  ***", "  -**", " **-**", " -***-"},
	'k': {"***", " -**", " **-**", " ****-", " -**-**", " *** **"},
	'l': {" ***", " -**", "  **", "  **", " -**-", " ****"},
	'm': {" **-**-", " -*****", " *-*-*", " *-*-*", " *-*-*", ""},
	'n': {" **-**-", " -*****", " **-**", " ** **", " ** **", ""},
	'o': {" -****-", " **--**", " **  **", " **--**", " -****-", ""},
	'p': {" **-**-", " -**--*", " ****", " -**-", " ****", ""},
	'q': {" -**-**", " *--**-", " -****", "  -**", "  ****", ""},
	'r': {" **-**-", " -*****", " **--*", " -**-", " ****", ""},
	's': {" -*****", " **-", " -****-", "   -**", " *****-", ""},
	't': {"  -*", " -**-", " ****", " -**-", " **-*", " -**-"},
	'u': {" ** **", " ** **", " ** **", " **-**-", " -**-**", ""},
	'v': {" **  **", " **  **", " **--**", " -****-", " -**-", ""},
	'w': {" *   *", " *- -*", " *-*-*", " *-*-*", " -*-*-", ""},
	'x': {" **--**", " -****-", "  -**-", " -****-", " **--**", ""},
	'y': {" **  **", " **--**", " -****-", "  -*", " *****-", ""},
	'z': {" ******", " *--**-", "  -**-", " -**--*", " ******", ""},
	'æ': {" ****-", " -*-*", " -***-", " *-*-", " -****", ""},
	'ø': {" -***-*", " *--**-", " *-**-*", " -**--*", " *-***-", ""},
	'å': {"  -**-", "  ***-", "  --**", " -****", " **-**-", " -**-**"},

	'.':  {"", "", " **-", " -**", "", ""},
	':':  {" **-", " -**", "", "", " **-", " -**"},
	';':  {" **-", " -**", "  -*", " *-", "", ""},
	',':  {"", "", " -*", " *-", "", ""},
	'\'': {" -*", " *-", "", "", "", ""},
	'"':  {" -* -*", " *- *-", "", "", "", ""},
	'*':  {" * *", "  *", " * *", "", "", ""},
	'+':  {"   *", "   *", " *****", "   *", "   *", ""},
	'!':  {" **", " -**-", " -**-", " **", "  --", " **"},
	'?':  {" -****-", " **--**", "  -**-", " **-", "  --", "  **"},
	'-':  {"", "", " -****-", "", "", ""},
	'=':  {" -****-", "", " -****-", "", "", ""},
	'_':  {"", "", "", "", " -****-", ""},
	'/':  {"   *", "  *-", "  *-", "  *-", "  *-", "  *-"},
	'(':  {"  -***", "  **-", "  **-", "  **-", "  **-", "  -***"},
	')':  {"***-", " -**", " -**", " -**", " -**", "***-"},
	'[':  {" ****", " **", " **", " **", " **", " ****"},
	']':  {" ****", "   **", "   **", "   **", "   **", " ****"},
	'<':  {"   *-", "  *-", " *-", "  *-", "   *-", ""},
	'>':  {" -*", " -*", "  -*", " -*", " -*", ""},
	'&':  {"  **", " ** *", "  **  *", "  **-*", "*  **", " ** **"},
	'|':  {"   *", "   *", "   *", "   *", "   *", "   *"},
	'\\': {"  **", "  -**", "   -**", "    -**", "     -**", ""},
	'→':  {"  -*-", "   -*-", " ******", "   -*-", "  -*-", ""},
}

func putPixel(s strip.Strip, row, col int, r, g, b, w byte) {
	if row < 0 || col < 0 || row >= s.Rows() || col >= s.Cols() {
		return
	}
	s.SetPixel(s.IndexForRowCol(row, col), r, g, b, w)
}

// DrawGlyph draws one character with the top-left corner of its cell at
// (top, left). Coordinates may be negative or past the edge; off-grid
// pixels clip, so partially visible glyphs render their visible part.
func DrawGlyph(s strip.Strip, ch rune, top, left int, r, g, b, w byte) {
	g6, ok := glyphs[ch]
	if !ok {
		return
	}
	for i, line := range g6 {
		for j, c := range line {
			switch c {
			case '*':
				putPixel(s, top+1+i, left+1+j, r, g, b, w)
			case '-':
				putPixel(s, top+1+i, left+1+j, r/4, g/4, b/4, w/4)
			}
		}
	}
}

// DrawText draws a string left to right from (top, left), one cell per
// rune, and returns the column just past the rendered text.
func DrawText(s strip.Strip, text string, top, left int, r, g, b, w byte) int {
	x := left
	for _, ch := range text {
		DrawGlyph(s, ch, top, x, r, g, b, w)
		x += CellWidth
	}
	return x
}

// DrawDigit draws a single 0..9 digit, anything else renders as ':'.
func DrawDigit(s strip.Strip, digit, top, left int, r, g, b, w byte) {
	ch := ':'
	if digit >= 0 && digit <= 9 {
		ch = rune('0' + digit)
	}
	DrawGlyph(s, ch, top, left, r, g, b, w)
}
