package game

import "math"

// Bubble is ambient background decoration. It never collides.
type Bubble struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Speed  float64 `json:"-"`
	Drift  float64 `json:"-"`
	Alpha  float64 `json:"alpha"`
}

// bubbleCount scales with the viewport area.
func bubbleCount(view Size) int {
	density := math.Round(view.Width * view.Height / 12000)
	return int(clamp(density, 14, 32))
}

func newBubble(view Size, rng Rand) Bubble {
	return Bubble{
		X:      randomInRange(rng, 0, view.Width),
		Y:      randomInRange(rng, 0, view.Height),
		Radius: randomInRange(rng, view.Width*0.006, view.Width*0.02),
		Speed:  randomInRange(rng, view.Height*0.03, view.Height*0.08),
		Drift:  randomInRange(rng, -view.Width*0.02, view.Width*0.02),
		Alpha:  randomInRange(rng, 0.15, 0.35),
	}
}

func newBubbles(view Size, rng Rand) []Bubble {
	n := bubbleCount(view)
	bubbles := make([]Bubble, n)
	for i := range bubbles {
		bubbles[i] = newBubble(view, rng)
	}
	return bubbles
}

// updateBubbles rises and drifts every bubble, wrapping horizontally and
// respawning below the viewport once a bubble leaves the top.
func updateBubbles(bubbles []Bubble, view Size, dt float64, rng Rand) {
	for i := range bubbles {
		b := &bubbles[i]
		b.Y -= b.Speed * dt
		b.X += b.Drift * dt

		if b.X < -b.Radius {
			b.X = view.Width + b.Radius
		}
		if b.X > view.Width+b.Radius {
			b.X = -b.Radius
		}

		if b.Y+b.Radius < -20 {
			reset := newBubble(view, rng)
			reset.Y = view.Height + randomInRange(rng, 20, math.Max(20, view.Height*0.3))
			*b = reset
		}
	}
}
