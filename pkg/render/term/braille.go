// Package term draws frames in a terminal using Unicode braille cells.
//
// Each cell is a 2x4 dot grid, so a cols x rows canvas has cols*2 by rows*4
// addressable dots. Markers are scaled from frame coordinates onto that
// grid; markers outside the frame are dropped.
package term

import (
	"math"
	"strings"

	"github.com/matzehuels/fieldviz/pkg/render"
)

// Braille dot positions (col, row) → bit offset:
//
//	(0,0)=0  (1,0)=3
//	(0,1)=1  (1,1)=4
//	(0,2)=2  (1,2)=5
//	(0,3)=6  (1,3)=7
var brailleBits = [2][4]uint{
	{0, 1, 2, 6},
	{3, 4, 5, 7},
}

// Canvas is a grid of braille cells.
type Canvas struct {
	cols, rows int
	cells      []uint8
}

// NewCanvas returns a blank canvas of cols x rows cells. Sizes below one are
// clamped to one.
func NewCanvas(cols, rows int) *Canvas {
	cols, rows = max(cols, 1), max(rows, 1)
	return &Canvas{cols: cols, rows: rows, cells: make([]uint8, cols*rows)}
}

// Size returns the canvas size in dots.
func (c *Canvas) Size() (w, h int) { return c.cols * 2, c.rows * 4 }

// Set turns on the dot at (x, y). Out-of-range dots are ignored.
func (c *Canvas) Set(x, y int) {
	w, h := c.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	c.cells[(y/4)*c.cols+x/2] |= 1 << brailleBits[x%2][y%4]
}

// IsSet reports whether the dot at (x, y) is on.
func (c *Canvas) IsSet(x, y int) bool {
	w, h := c.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return false
	}
	return c.cells[(y/4)*c.cols+x/2]&(1<<brailleBits[x%2][y%4]) != 0
}

// Clear turns every dot off.
func (c *Canvas) Clear() { clear(c.cells) }

// String renders the canvas as rows of braille runes joined by newlines.
func (c *Canvas) String() string {
	var b strings.Builder
	for row := range c.rows {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := range c.cols {
			b.WriteRune(rune(0x2800 + int(c.cells[row*c.cols+col])))
		}
	}
	return b.String()
}

// Plot clears the canvas and draws the frame's markers, scaled so the full
// frame fits the dot grid. With axis set it also draws the marker axis as a
// dotted line.
func (c *Canvas) Plot(f render.Frame, axis bool) {
	c.Clear()
	if f.Width <= 0 || f.Height <= 0 {
		return
	}

	w, h := c.Size()
	sx := float64(w-1) / float64(f.Width)
	sy := float64(h-1) / float64(f.Height)

	if axis && len(f.Markers) > 0 && finite(f.Markers[0].Y) {
		y := int(math.Round(f.Markers[0].Y * sy))
		for x := 0; x < w; x += 2 {
			c.Set(x, y)
		}
	}

	for _, m := range f.Visible() {
		c.Set(int(math.Round(m.X*sx)), int(math.Round(m.Y*sy)))
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
