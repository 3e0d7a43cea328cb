package game

import (
	"math"

	"dive-server/config"
)

// GradientStop is one colour stop of a vertical background gradient.
// Offset runs from 0 at the top to 1 at the bottom.
type GradientStop struct {
	Offset float64
	Color  config.Color
}

// Canvas is the drawing surface the render layer targets. Coordinates are
// viewport pixels; implementations decide how to rasterise them.
type Canvas interface {
	FillGradient(stops []GradientStop)
	FillRect(r Rect, c config.Color)
	FillCircle(center Point, radius float64, c config.Color)
	FillPolygon(points []Point, c config.Color)
}

var backgroundStops = []GradientStop{
	{Offset: 0, Color: config.SurfaceBlue},
	{Offset: 0.45, Color: config.MidwaterBlue},
	{Offset: 1, Color: config.ShallowCyan},
}

// Renderer draws a session. It only reads session state.
type Renderer struct{}

// Draw paints background, bubbles, visible obstacles and the diver.
func (Renderer) Draw(c Canvas, s *Session) {
	c.FillGradient(backgroundStops)
	for _, b := range s.Bubbles {
		col := config.BubbleWhite
		col.A = uint8(clamp(b.Alpha, 0, 1) * 255)
		c.FillCircle(Point{X: b.X, Y: b.Y}, b.Radius, col)
	}

	for _, o := range s.Field.Obstacles {
		if !inView(o, s.Camera.Offset, s.view) {
			continue
		}
		drawObstacle(c, o.Kind, o.ScreenRect(s.Camera.Offset), s.Elapsed)
	}

	if s.PlayerVisible() {
		drawDiver(c, s.Player, s.preset, s.Elapsed)
	}
}

func drawObstacle(c Canvas, kind Kind, r Rect, t float64) {
	switch kind {
	case KindRock:
		drawRock(c, r)
	case KindCoral:
		drawCoral(c, r)
	case KindSeaweed:
		drawSeaweed(c, r, t)
	case KindJellyfish:
		drawJellyfish(c, r, t)
	case KindPotion:
		drawPotion(c, r, t)
	}
}

// sub returns the rectangle at fractional offsets inside r.
func sub(r Rect, fx, fy, fw, fh float64) Rect {
	return Rect{X: r.X + r.Width*fx, Y: r.Y + r.Height*fy, Width: r.Width * fw, Height: r.Height * fh}
}

func at(r Rect, fx, fy float64) Point {
	return Point{X: r.X + r.Width*fx, Y: r.Y + r.Height*fy}
}

func drawRock(c Canvas, r Rect) {
	c.FillPolygon([]Point{
		at(r, 0, 1),
		at(r, 0.08, 0.5),
		at(r, 0.35, 0.08),
		at(r, 0.7, 0.18),
		at(r, 0.95, 0.6),
		at(r, 0.78, 1),
	}, config.RockGray)
	c.FillRect(sub(r, 0.28, 0.45, 0.18, 0.12), config.RockLight)
}

func drawCoral(c Canvas, r Rect) {
	c.FillRect(sub(r, 0.42, 0.25, 0.16, 0.75), config.CoralRed)
	c.FillRect(sub(r, 0.18, 0.45, 0.16, 0.55), config.CoralRed)
	c.FillRect(sub(r, 0.66, 0.4, 0.16, 0.6), config.CoralRed)
	c.FillRect(sub(r, 0.12, 0.32, 0.2, 0.18), config.CoralRed)
	c.FillRect(sub(r, 0.68, 0.28, 0.2, 0.18), config.CoralRed)
}

func drawSeaweed(c Canvas, r Rect, t float64) {
	sway := math.Sin(t*2.2) * 0.03
	for i := 0; i < 3; i++ {
		fx := 0.25 + float64(i)*0.12*1.6
		c.FillRect(sub(r, fx, 0.18, 0.12, 0.82), config.SeaweedGreen)
		c.FillRect(sub(r, fx-0.024+sway, 0.05, 0.096, 0.2), config.SeaweedGreen)
	}
}

func drawJellyfish(c Canvas, r Rect, t float64) {
	pulse := 1 + math.Sin(t*3)*0.04
	c.FillCircle(at(r, 0.5, 0.45), r.Width*0.4*pulse, config.JellyPink)
	c.FillRect(sub(r, 0.1, 0.45, 0.8, 0.15), config.JellyPink)
	for i := 0; i < 4; i++ {
		fx := 0.22 + float64(i)*0.18
		c.FillRect(sub(r, fx-0.025, 0.6, 0.05, 0.35), config.JellyShade)
	}
}

func drawPotion(c Canvas, r Rect, t float64) {
	bob := math.Sin(t*4) * 0.04
	c.FillRect(sub(r, 0.35, 0.0+bob, 0.3, 0.2), config.PotionGlass)
	c.FillCircle(at(r, 0.5, 0.62+bob), r.Width*0.45, config.PotionGlass)
	c.FillCircle(at(r, 0.5, 0.66+bob), r.Width*0.36, config.PotionRed)
}

// mirror flips a sprite-local rectangle for a diver facing left.
func mirror(box, r Rect, facing int) Rect {
	if facing >= 0 {
		return r
	}
	r.X = box.X + box.Width - (r.X - box.X) - r.Width
	return r
}

func mirrorPoint(box Rect, p Point, facing int) Point {
	if facing >= 0 {
		return p
	}
	p.X = box.X + box.Width - (p.X - box.X)
	return p
}

// drawDiver draws the head-down diver. Fin length tells the presets apart.
func drawDiver(c Canvas, p Player, preset config.CharacterPreset, t float64) {
	box := Rect{X: p.X, Y: p.ScreenY, Width: p.Width, Height: p.Height}
	intensity := 0.45
	if p.Moving {
		intensity = 1
	}
	kick := math.Sin(t*8.2) * 0.06 * intensity
	swing := math.Cos(t*8.2) * 0.04 * intensity
	fill := func(r Rect, col config.Color) { c.FillRect(mirror(box, r, p.Facing), col) }

	// fins
	finH := preset.FinLength
	finY := 0.02 + math.Sin(t*9)*0.02 + kick*0.25
	for _, fx := range []float64{0.14, 0.64} {
		poly := []Point{
			at(box, fx, finY),
			at(box, fx+0.22, finY),
			at(box, fx+0.22*0.82, finY+finH),
			at(box, fx+0.22*0.18, finY+finH),
		}
		for i := range poly {
			poly[i] = mirrorPoint(box, poly[i], p.Facing)
		}
		c.FillPolygon(poly, preset.FinColor)
		fill(sub(box, fx+0.044, finY+finH*0.18, 0.132, finH*0.12), preset.FinShade)
	}

	// legs
	fill(sub(box, 0.24, 0.22, 0.16, 0.11), config.SuitShade)
	fill(sub(box, 0.6, 0.22, 0.16, 0.11), config.SuitShade)
	fill(sub(box, 0.24, 0.33+kick, 0.16, 0.1), config.SuitShade)
	fill(sub(box, 0.6, 0.33-kick, 0.16, 0.1), config.SuitShade)

	// tank and torso
	fill(sub(box, 0.34, 0.26, 0.3, 0.28), config.TankYellow)
	fill(sub(box, 0.2, 0.33, 0.6, 0.34), config.SuitBase)
	fill(sub(box, 0.32, 0.42, 0.36, 0.03), config.SuitLight)

	// arms
	fill(sub(box, 0.1, 0.4+swing, 0.14, 0.21), config.SuitShade)
	fill(sub(box, 0.76, 0.4-swing, 0.14, 0.21), config.SuitShade)

	// head, beard and mask
	c.FillCircle(mirrorPoint(box, at(box, 0.5, 0.79), p.Facing), box.Width*0.2, config.SkinTone)
	fill(sub(box, 0.3, 0.84, 0.4, 0.06), config.Beard)
	fill(sub(box, 0.29, 0.69, 0.42, 0.13), config.MaskYellow)
	fill(sub(box, 0.32, 0.71, 0.36, 0.08), config.Visor)
}
