package game

import "math"

const (
	placementAttempts = 8
	edgePadding       = 12.0
	pruneMargin       = 80.0
	minOverlapMargin  = 8.0
	overlapRatio      = 0.04
	spawnBandMin      = 0.2
	spawnBandMax      = 0.6
	sizeJitterMin     = 0.85
	sizeJitterMax     = 1.15
)

// Field holds the live obstacles in world coordinates.
type Field struct {
	Obstacles []Obstacle `json:"obstacles"`
	nextID    int
	// milestone counts the milestones already turned into potions.
	milestone int
}

func (f *Field) reset() {
	f.Obstacles = f.Obstacles[:0]
	f.nextID = 0
	f.milestone = 0
}

// obstacleSize is the kind's base size scaled by a small random jitter.
func obstacleSize(kind Kind, view Size, rng Rand) (w, h float64) {
	spec := kind.spec()
	scale := randomInRange(rng, sizeJitterMin, sizeJitterMax)
	return view.Width * spec.width * scale, view.Width * spec.height * scale
}

// Spawn tries to place one obstacle in the band below the viewport. An empty
// kind picks a random hazard. It reports false, placing nothing, when every
// attempt overlapped an existing obstacle.
func (f *Field) Spawn(kind Kind, playerWorldY float64, view Size, rng Rand) bool {
	if kind == "" {
		kind = Hazards[rng.Intn(len(Hazards))]
	}
	w, h := obstacleSize(kind, view, rng)
	margin := math.Max(minOverlapMargin, view.Width*overlapRatio)
	maxX := math.Max(edgePadding, view.Width-w-edgePadding)

	for attempt := 0; attempt < placementAttempts; attempt++ {
		x := randomInRange(rng, edgePadding, maxX)
		worldY := playerWorldY + view.Height + randomInRange(rng, view.Height*spawnBandMin, view.Height*spawnBandMax)
		candidate := Rect{X: x, Y: worldY, Width: w, Height: h}

		if f.overlaps(candidate, margin) {
			continue
		}
		f.nextID++
		f.Obstacles = append(f.Obstacles, Obstacle{
			ID:     f.nextID,
			Kind:   kind,
			X:      x,
			WorldY: worldY,
			Width:  w,
			Height: h,
		})
		return true
	}
	return false
}

func (f *Field) overlaps(candidate Rect, margin float64) bool {
	for _, o := range f.Obstacles {
		if checkAABBCollisionWithMargin(candidate, o.WorldRect(), margin) {
			return true
		}
	}
	return false
}

// Prune drops obstacles that scrolled more than pruneMargin above the camera.
func (f *Field) Prune(cameraY float64) {
	kept := f.Obstacles[:0]
	for _, o := range f.Obstacles {
		if o.WorldY-cameraY+o.Height > -pruneMargin {
			kept = append(kept, o)
		}
	}
	f.Obstacles = kept
}

// checkMilestones forces one potion per crossed milestone. A failed placement
// leaves the milestone pending so the next step retries it.
func (f *Field) checkMilestones(depth float64, milestones []float64, playerWorldY float64, view Size, rng Rand) {
	if f.milestone >= len(milestones) || depth < milestones[f.milestone] {
		return
	}
	if f.Spawn(KindPotion, playerWorldY, view, rng) {
		f.milestone++
	}
}

// Milestone returns how many milestones have produced a potion.
func (f *Field) Milestone() int { return f.milestone }

func (f *Field) removeAt(i int) {
	f.Obstacles = append(f.Obstacles[:i], f.Obstacles[i+1:]...)
}
