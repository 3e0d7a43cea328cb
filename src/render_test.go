package game

import (
	"testing"

	"dive-server/config"
)

type op struct {
	name  string
	color config.Color
	rect  Rect
}

// recordingCanvas keeps every draw call in order.
type recordingCanvas struct {
	ops []op
}

func (c *recordingCanvas) FillGradient(stops []GradientStop) {
	c.ops = append(c.ops, op{name: "gradient"})
}

func (c *recordingCanvas) FillRect(r Rect, col config.Color) {
	c.ops = append(c.ops, op{name: "rect", color: col, rect: r})
}

func (c *recordingCanvas) FillCircle(center Point, radius float64, col config.Color) {
	c.ops = append(c.ops, op{name: "circle", color: col})
}

func (c *recordingCanvas) FillPolygon(points []Point, col config.Color) {
	c.ops = append(c.ops, op{name: "polygon", color: col})
}

func (c *recordingCanvas) count(col config.Color) int {
	n := 0
	for _, o := range c.ops {
		if o.color == col {
			n++
		}
	}
	return n
}

func TestDrawOrderAndKinds(t *testing.T) {
	s := newTestSession(t, config.DefaultLongfin)
	s.Field.Obstacles = []Obstacle{
		{ID: 1, Kind: KindRock, X: 20, WorldY: 300, Width: 60, Height: 40},
		{ID: 2, Kind: KindCoral, X: 100, WorldY: 400, Width: 60, Height: 60},
		{ID: 3, Kind: KindPotion, X: 200, WorldY: 500, Width: 30, Height: 40},
		{ID: 4, Kind: KindRock, X: 20, WorldY: 5000, Width: 60, Height: 40}, // off screen
	}

	var c recordingCanvas
	Renderer{}.Draw(&c, s)
	if len(c.ops) == 0 || c.ops[0].name != "gradient" {
		t.Fatal("background is not drawn first")
	}
	if c.count(config.RockGray) != 1 {
		t.Fatalf("rock drawn %d times, want 1", c.count(config.RockGray))
	}
	if c.count(config.CoralRed) == 0 || c.count(config.PotionRed) == 0 {
		t.Fatal("coral or potion missing")
	}
	if c.count(config.SkinTone) != 1 {
		t.Fatal("diver missing")
	}
	if c.count(config.DefaultLongfin.FinColor) != 2 {
		t.Fatalf("fins drawn %d times, want 2", c.count(config.DefaultLongfin.FinColor))
	}
}

func TestDiverHiddenOnBlinkOffPhase(t *testing.T) {
	s := newTestSession(t, config.DefaultShortfin)
	s.Lives.FlashUntil = 1

	s.Elapsed = 0.06
	var hidden recordingCanvas
	Renderer{}.Draw(&hidden, s)
	if hidden.count(config.SkinTone) != 0 {
		t.Fatal("diver drawn on the off phase")
	}

	s.Elapsed = 0.02
	var shown recordingCanvas
	Renderer{}.Draw(&shown, s)
	if shown.count(config.SkinTone) != 1 {
		t.Fatal("diver hidden on the on phase")
	}

	s.Elapsed = 1.06
	var after recordingCanvas
	Renderer{}.Draw(&after, s)
	if after.count(config.SkinTone) != 1 {
		t.Fatal("diver hidden after the flash window")
	}
}

func TestMirrorFlipsInsideBox(t *testing.T) {
	box := Rect{X: 100, Y: 0, Width: 40, Height: 60}
	r := Rect{X: 104, Y: 10, Width: 8, Height: 8}
	if got := mirror(box, r, 1); got != r {
		t.Fatalf("facing right changed rect: %+v", got)
	}
	got := mirror(box, r, -1)
	if got.X != 128 || got.Y != r.Y || got.Width != r.Width {
		t.Fatalf("mirrored = %+v", got)
	}
}
