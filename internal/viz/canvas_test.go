package viz

import (
	"strings"
	"testing"
)

func TestCanvasPlot(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Plot(0, 0)
	c.Plot(3, 3)

	if got := c.String(); got != "⠁⢀\n" {
		t.Errorf("String() = %q", got)
	}
	if !c.Lit(0, 0) || !c.Lit(3, 3) || c.Lit(1, 0) {
		t.Error("Lit disagrees with plotted dots")
	}

	// out of range dots are ignored
	c.Plot(-1, 0)
	c.Plot(100, 100)
	c.Reset()
	if strings.Trim(c.String(), "⠀\n") != "" {
		t.Error("reset left dots behind")
	}
}

func TestCanvasProject(t *testing.T) {
	c := NewCanvas(10, 5)
	tests := []struct {
		x, y   float64
		px, py int
	}{
		{0, 0, 0, 0},
		{290, 160, 10, 10},
		{579, 319, 19, 19},
	}
	for _, tt := range tests {
		px, py := c.Project(tt.x, tt.y, 580, 320)
		if px != tt.px || py != tt.py {
			t.Errorf("Project(%v, %v) = (%d, %d), want (%d, %d)", tt.x, tt.y, px, py, tt.px, tt.py)
		}
	}
}

func count(c *Canvas) int {
	w, h := c.Dots()
	n := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if c.Lit(x, y) {
				n++
			}
		}
	}
	return n
}

func TestCanvasDisc(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Disc(3, 3, 1)
	if n := count(c); n != 5 {
		t.Errorf("disc of radius 1 lit %d dots, want 5", n)
	}

	c.Reset()
	c.Disc(3, 3, 0)
	if n := count(c); n != 1 || !c.Lit(3, 3) {
		t.Errorf("disc of radius 0 lit %d dots, want only the centre", n)
	}
}

func TestCanvasSegment(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
		want           int
	}{
		{"horizontal", 0, 2, 7, 2, 8},
		{"vertical", 1, 0, 1, 7, 8},
		{"diagonal", 0, 0, 5, 5, 6},
		{"reversed", 7, 7, 0, 0, 8},
		{"point", 4, 4, 4, 4, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCanvas(4, 2)
			c.Segment(tt.x0, tt.y0, tt.x1, tt.y1)
			if n := count(c); n != tt.want {
				t.Errorf("lit %d dots, want %d", n, tt.want)
			}
			if !c.Lit(tt.x0, tt.y0) || !c.Lit(tt.x1, tt.y1) {
				t.Error("end points not lit")
			}
		})
	}
}

func TestCanvasFrame(t *testing.T) {
	c := NewCanvas(3, 2)
	c.Frame()
	// 6x8 dots: perimeter minus the four shared corners
	if n := count(c); n != 2*6+2*8-4 {
		t.Errorf("frame lit %d dots, want %d", n, 2*6+2*8-4)
	}
}
