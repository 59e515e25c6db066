package viz

import (
	"math"
	"strings"
)

const brailleBlank = 0x2800

// dotBits maps a sub-cell (row, col) to its braille dot bit. Each terminal
// cell holds a 2x4 block of dots.
var dotBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille dot matrix used to draw the arena. Coordinates are
// in dots: (Cols*2) x (Rows*4).
type Canvas struct {
	Cols, Rows int
	cells      [][]uint8
}

func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{Cols: cols, Rows: rows, cells: make([][]uint8, rows)}
	for i := range c.cells {
		c.cells[i] = make([]uint8, cols)
	}
	return c
}

// Dots returns the drawable size in dots.
func (c *Canvas) Dots() (int, int) { return c.Cols * 2, c.Rows * 4 }

func (c *Canvas) cell(x, y int) (*uint8, uint8, bool) {
	if x < 0 || y < 0 || x >= c.Cols*2 || y >= c.Rows*4 {
		return nil, 0, false
	}
	return &c.cells[y/4][x/2], dotBits[y%4][x%2], true
}

// Plot lights one dot. Dots outside the canvas are ignored.
func (c *Canvas) Plot(x, y int) {
	if cell, bit, ok := c.cell(x, y); ok {
		*cell |= bit
	}
}

// Lit reports whether the dot at (x, y) is on.
func (c *Canvas) Lit(x, y int) bool {
	cell, bit, ok := c.cell(x, y)
	return ok && *cell&bit != 0
}

func (c *Canvas) Reset() {
	for _, row := range c.cells {
		clear(row)
	}
}

// Project maps a point of a w x h arena onto dot coordinates.
func (c *Canvas) Project(x, y, w, h float64) (int, int) {
	dw, dh := c.Dots()
	return int(math.Floor(x * float64(dw) / w)), int(math.Floor(y * float64(dh) / h))
}

// Segment draws a straight run of dots from (x0, y0) to (x1, y1).
func (c *Canvas) Segment(x0, y0, x1, y1 int) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	e := dx + dy
	for {
		c.Plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// Disc fills a disc of dot radius r centred on (cx, cy).
func (c *Canvas) Disc(cx, cy, r int) {
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			if x*x+y*y <= r*r {
				c.Plot(cx+x, cy+y)
			}
		}
	}
}

// Frame outlines the canvas edge.
func (c *Canvas) Frame() {
	w, h := c.Dots()
	w, h = w-1, h-1
	c.Segment(0, 0, w, 0)
	c.Segment(w, 0, w, h)
	c.Segment(w, h, 0, h)
	c.Segment(0, h, 0, 0)
}

func (c *Canvas) String() string {
	var b strings.Builder
	b.Grow(c.Rows * (c.Cols*3 + 1))
	for _, row := range c.cells {
		for _, bits := range row {
			b.WriteRune(rune(brailleBlank + int(bits)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
