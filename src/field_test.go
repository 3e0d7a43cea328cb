package game

import (
	"math"
	"math/rand"
	"testing"
)

var testView = Size{Width: 360, Height: 640}

func TestSpawnNeverOverlaps(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	var f Field
	placed := 0
	for i := 0; i < 60; i++ {
		if f.Spawn("", 200, testView, rng) {
			placed++
		}
	}
	if placed == 0 {
		t.Fatal("nothing was placed")
	}
	if placed != len(f.Obstacles) {
		t.Fatalf("placed %d but field holds %d", placed, len(f.Obstacles))
	}

	margin := math.Max(minOverlapMargin, testView.Width*overlapRatio)
	for i, a := range f.Obstacles {
		for j, b := range f.Obstacles {
			if i != j && checkAABBCollisionWithMargin(a.WorldRect(), b.WorldRect(), margin) {
				t.Fatalf("obstacles %d and %d overlap: %+v %+v", a.ID, b.ID, a, b)
			}
		}
	}
}

func TestSpawnPlacementBand(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 20; i++ {
		var f Field
		const playerY = 1000.0
		if !f.Spawn(KindCoral, playerY, testView, rng) {
			t.Fatal("spawn into an empty field failed")
		}
		o := f.Obstacles[0]
		minY := playerY + testView.Height*(1+spawnBandMin)
		maxY := playerY + testView.Height*(1+spawnBandMax)
		if o.WorldY < minY || o.WorldY > maxY {
			t.Fatalf("worldY %v outside [%v, %v]", o.WorldY, minY, maxY)
		}
		if o.X < edgePadding || o.X+o.Width > testView.Width-edgePadding+1e-9 {
			t.Fatalf("x %v (w %v) outside padded viewport", o.X, o.Width)
		}
		if o.Kind != KindCoral {
			t.Fatalf("kind = %v", o.Kind)
		}
	}
}

func blocker() Obstacle {
	return Obstacle{ID: 99, Kind: KindRock, X: -1000, WorldY: -1e6, Width: 1e5, Height: 1e7}
}

func TestSpawnGivesUpOnContention(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	f := Field{Obstacles: []Obstacle{blocker()}}
	if f.Spawn("", 0, testView, rng) {
		t.Fatal("spawn succeeded in a full field")
	}
	if len(f.Obstacles) != 1 {
		t.Fatalf("field changed: %d obstacles", len(f.Obstacles))
	}
}

func TestPrune(t *testing.T) {
	f := Field{Obstacles: []Obstacle{
		{ID: 1, WorldY: 100, Height: 50}, // bottom at -350 on screen
		{ID: 2, WorldY: 400, Height: 50}, // bottom at -50
		{ID: 3, WorldY: 900, Height: 50},
	}}
	f.Prune(500)
	if len(f.Obstacles) != 2 || f.Obstacles[0].ID != 2 || f.Obstacles[1].ID != 3 {
		t.Fatalf("after prune: %+v", f.Obstacles)
	}
}

func TestMilestoneRetriesUntilPlaced(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	milestones := []float64{5, 15}
	f := Field{Obstacles: []Obstacle{blocker()}}

	f.checkMilestones(4.9, milestones, 0, testView, rng)
	if f.Milestone() != 0 {
		t.Fatal("milestone crossed early")
	}
	f.checkMilestones(6, milestones, 0, testView, rng)
	if f.Milestone() != 0 {
		t.Fatal("milestone advanced although the potion could not be placed")
	}

	f.Obstacles = nil
	f.checkMilestones(6, milestones, 0, testView, rng)
	if f.Milestone() != 1 {
		t.Fatalf("milestone = %d, want 1", f.Milestone())
	}
	if len(f.Obstacles) != 1 || f.Obstacles[0].Kind != KindPotion {
		t.Fatalf("expected a single potion, got %+v", f.Obstacles)
	}

	f.checkMilestones(6.5, milestones, 0, testView, rng)
	if f.Milestone() != 1 {
		t.Fatal("same milestone produced a second potion")
	}
}
