package main

import (
	"math"

	"dive-server/config"
	game "dive-server/src"

	"github.com/gdamore/tcell/v2"
)

// One terminal cell stands for a cellW x cellH block of game pixels. Cells
// are roughly twice as tall as wide, so this keeps shapes in proportion.
const (
	cellW = 6.0
	cellH = 12.0
)

// Canvas rasterises game drawing calls onto terminal cells. Shapes are kept
// in a colour buffer until Show paints it as cell backgrounds.
type Canvas struct {
	screen tcell.Screen
	cols   int
	rows   int
	cells  []config.Color

	// Overlay draws on top of the game after every frame.
	Overlay func(c *Canvas)
}

func NewCanvas(screen tcell.Screen) *Canvas {
	c := &Canvas{screen: screen}
	c.Sync()
	return c
}

// Sync picks up the current screen size.
func (c *Canvas) Sync() {
	c.cols, c.rows = c.screen.Size()
	c.cells = make([]config.Color, c.cols*c.rows)
}

// View is the game viewport covering the whole screen.
func (c *Canvas) View() game.Size {
	return game.Size{Width: float64(c.cols) * cellW, Height: float64(c.rows) * cellH}
}

func (c *Canvas) blend(col, row int, src config.Color) {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return
	}
	i := row*c.cols + col
	if src.A == 255 {
		c.cells[i] = src
		return
	}
	dst := c.cells[i]
	a := float64(src.A) / 255
	mix := func(s, d uint8) uint8 { return uint8(math.Round(float64(s)*a + float64(d)*(1-a))) }
	c.cells[i] = config.Color{R: mix(src.R, dst.R), G: mix(src.G, dst.G), B: mix(src.B, dst.B), A: 255}
}

func lerpColor(a, b config.Color, t float64) config.Color {
	mix := func(x, y uint8) uint8 { return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t)) }
	return config.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

func (c *Canvas) FillGradient(stops []game.GradientStop) {
	if len(stops) == 0 {
		return
	}
	for row := 0; row < c.rows; row++ {
		t := (float64(row) + 0.5) / float64(c.rows)
		col := stops[len(stops)-1].Color
		for i := 1; i < len(stops); i++ {
			if t <= stops[i].Offset {
				span := stops[i].Offset - stops[i-1].Offset
				f := 0.0
				if span > 0 {
					f = (t - stops[i-1].Offset) / span
				}
				col = lerpColor(stops[i-1].Color, stops[i].Color, f)
				break
			}
		}
		for x := 0; x < c.cols; x++ {
			c.cells[row*c.cols+x] = col
		}
	}
}

// FillRect fills every cell the rectangle touches.
func (c *Canvas) FillRect(r game.Rect, col config.Color) {
	if r.Width <= 0 || r.Height <= 0 {
		return
	}
	x0 := int(math.Floor(r.X / cellW))
	x1 := int(math.Ceil((r.X+r.Width)/cellW)) - 1
	y0 := int(math.Floor(r.Y / cellH))
	y1 := int(math.Ceil((r.Y+r.Height)/cellH)) - 1
	for row := y0; row <= y1; row++ {
		for x := x0; x <= x1; x++ {
			c.blend(x, row, col)
		}
	}
}

// fillWhere fills cells whose centre satisfies inside within the bounding
// box. A shape smaller than a cell still marks the cell holding its centre.
func (c *Canvas) fillWhere(minX, minY, maxX, maxY float64, col config.Color, inside func(p game.Point) bool) {
	hit := false
	for row := int(math.Floor(minY / cellH)); row <= int(math.Floor(maxY/cellH)); row++ {
		for x := int(math.Floor(minX / cellW)); x <= int(math.Floor(maxX/cellW)); x++ {
			if inside(game.Point{X: (float64(x) + 0.5) * cellW, Y: (float64(row) + 0.5) * cellH}) {
				c.blend(x, row, col)
				hit = true
			}
		}
	}
	if !hit {
		c.blend(int(math.Floor((minX+maxX)/2/cellW)), int(math.Floor((minY+maxY)/2/cellH)), col)
	}
}

func (c *Canvas) FillCircle(center game.Point, radius float64, col config.Color) {
	if radius <= 0 {
		return
	}
	c.fillWhere(center.X-radius, center.Y-radius, center.X+radius, center.Y+radius, col, func(p game.Point) bool {
		dx, dy := p.X-center.X, p.Y-center.Y
		return dx*dx+dy*dy <= radius*radius
	})
}

func (c *Canvas) FillPolygon(points []game.Point, col config.Color) {
	if len(points) < 3 {
		return
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	c.fillWhere(minX, minY, maxX, maxY, col, func(p game.Point) bool {
		return insidePolygon(points, p)
	})
}

// insidePolygon is the even-odd ray casting test.
func insidePolygon(poly []game.Point, p game.Point) bool {
	in := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) && p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
	}
	return in
}

func tcellColor(c config.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// Show paints the buffer, runs the overlay and flushes the screen.
func (c *Canvas) Show() {
	for row := 0; row < c.rows; row++ {
		for x := 0; x < c.cols; x++ {
			style := tcell.StyleDefault.Background(tcellColor(c.cells[row*c.cols+x]))
			c.screen.SetContent(x, row, ' ', nil, style)
		}
	}
	if c.Overlay != nil {
		c.Overlay(c)
	}
	c.screen.Show()
}

// Text writes text at cell (x, y) keeping the game colour behind it.
func (c *Canvas) Text(x, y int, text string, fg tcell.Color) {
	for _, r := range text {
		if x >= 0 && y >= 0 && x < c.cols && y < c.rows {
			bg := tcellColor(c.cells[y*c.cols+x])
			c.screen.SetContent(x, y, r, nil, tcell.StyleDefault.Foreground(fg).Background(bg).Bold(true))
		}
		x++
	}
}

// drawText writes text on a plain screen.
func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
