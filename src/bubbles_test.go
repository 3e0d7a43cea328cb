package game

import (
	"math/rand"
	"testing"
)

func TestBubbleCount(t *testing.T) {
	cases := []struct {
		view Size
		want int
	}{
		{Size{Width: 100, Height: 100}, 14},
		{Size{Width: 360, Height: 640}, 19},
		{Size{Width: 2000, Height: 2000}, 32},
	}
	for _, tc := range cases {
		if got := bubbleCount(tc.view); got != tc.want {
			t.Errorf("bubbleCount(%v) = %d, want %d", tc.view, got, tc.want)
		}
	}
}

func TestBubblesRiseAndRespawnBelow(t *testing.T) {
	view := Size{Width: 360, Height: 640}
	rng := rand.New(rand.NewSource(3))
	bubbles := []Bubble{
		{X: 100, Y: 300, Radius: 4, Speed: 50},
		{X: 100, Y: -30, Radius: 4, Speed: 50},
		{X: 370, Y: 300, Radius: 4, Drift: 100},
	}
	updateBubbles(bubbles, view, 0.1, rng)

	if bubbles[0].Y != 295 {
		t.Fatalf("rising bubble y = %v", bubbles[0].Y)
	}
	if bubbles[1].Y < view.Height+20 {
		t.Fatalf("respawned bubble y = %v, want below the viewport", bubbles[1].Y)
	}
	if bubbles[2].X != -4 {
		t.Fatalf("wrapped bubble x = %v", bubbles[2].X)
	}
}
