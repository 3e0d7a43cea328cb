package game

import "testing"

func TestMoveClampsAndKeepsFacing(t *testing.T) {
	var p Player
	p.fit(testView)
	p.X = 10
	p.Facing = 1

	p.Move(-1, 240, 0, 1, testView)
	if p.X != 0 {
		t.Fatalf("x = %v, want clamped to 0", p.X)
	}
	if p.Facing != -1 || !p.Moving {
		t.Fatalf("facing=%d moving=%v", p.Facing, p.Moving)
	}

	p.Move(0, 240, 0, 0.1, testView)
	if p.Facing != -1 {
		t.Fatal("facing changed without input")
	}
	if p.Moving {
		t.Fatal("moving without input")
	}

	p.Move(5, 240, 0, 10, testView)
	if p.X != testView.Width-p.Width {
		t.Fatalf("x = %v, want clamped to %v", p.X, testView.Width-p.Width)
	}
}

func TestWorldYNeverDecreases(t *testing.T) {
	var p Player
	p.fit(testView)
	last := p.WorldY
	for _, dt := range []float64{0.016, 0, 0.05, -0.2, 0.033} {
		p.Move(0, 240, 140, dt, testView)
		if p.WorldY < last {
			t.Fatalf("worldY went back from %v to %v", last, p.WorldY)
		}
		last = p.WorldY
	}
}

func TestCameraPinsOnceAndStaysPinned(t *testing.T) {
	const targetY = 224.0
	p := Player{WorldY: 115}
	var c Camera

	c.Follow(&p, targetY)
	if c.Pinned || p.ScreenY != 115 {
		t.Fatalf("pinned early: %+v screenY=%v", c, p.ScreenY)
	}

	lastOffset := 0.0
	for i := 0; i < 200; i++ {
		p.WorldY += 3.7
		c.Follow(&p, targetY)
		if c.Offset < lastOffset {
			t.Fatalf("camera scrolled backward: %v < %v", c.Offset, lastOffset)
		}
		lastOffset = c.Offset
		if p.WorldY >= targetY {
			if !c.Pinned {
				t.Fatalf("not pinned at worldY %v", p.WorldY)
			}
			if p.ScreenY != targetY {
				t.Fatalf("step %d: screenY = %v, want %v", i, p.ScreenY, targetY)
			}
			if c.Offset != p.WorldY-targetY {
				t.Fatalf("offset = %v, want %v", c.Offset, p.WorldY-targetY)
			}
		} else if p.ScreenY != p.WorldY {
			t.Fatalf("unpinned screenY = %v, want %v", p.ScreenY, p.WorldY)
		}
	}
}

func TestCameraOffsetHoldsOnSmallerTarget(t *testing.T) {
	p := Player{WorldY: 500}
	c := Camera{}
	c.Follow(&p, 224)
	before := c.Offset

	// A taller viewport moves the target line down.
	c.Follow(&p, 300)
	if c.Offset != before {
		t.Fatalf("offset moved from %v to %v", before, c.Offset)
	}
	if p.ScreenY != p.WorldY-before {
		t.Fatalf("screenY = %v", p.ScreenY)
	}
}
