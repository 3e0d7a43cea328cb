package game

// Player is the diver. X and ScreenY are screen space, WorldY only grows.
type Player struct {
	X       float64 `json:"x"`
	ScreenY float64 `json:"y"`
	WorldY  float64 `json:"worldY"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Facing  int     `json:"facing"`
	Moving  bool    `json:"moving"`
}

// fit recomputes the sprite size from the viewport and keeps X on screen.
func (p *Player) fit(view Size) {
	p.Width = view.Width * 0.11
	p.Height = p.Width * 1.5
	p.X = clamp(p.X, 0, view.Width-p.Width)
}

// Move applies horizontal input and automatic descent for one step.
// Facing holds its last non-zero direction.
func (p *Player) Move(direction int, speed, descent, dt float64, view Size) {
	if direction > 0 {
		direction = 1
	} else if direction < 0 {
		direction = -1
	}
	if direction != 0 {
		p.Facing = direction
	}
	p.Moving = direction != 0
	p.X = clamp(p.X+float64(direction)*speed*dt, 0, view.Width-p.Width)
	if dt > 0 {
		p.WorldY += descent * dt
	}
}

// Camera converts world Y to screen Y. It starts at 0 and, once the diver
// reaches the target line, follows so the diver stays pinned there.
type Camera struct {
	Offset float64 `json:"offset"`
	Pinned bool    `json:"pinned"`
}

// Follow updates the camera and the player's screen Y. The offset never
// decreases, so the world never scrolls backward.
func (c *Camera) Follow(p *Player, targetY float64) {
	screenY := p.WorldY - c.Offset
	if !c.Pinned && screenY < targetY {
		p.ScreenY = screenY
		return
	}
	c.Pinned = true
	want := p.WorldY - targetY
	if want >= c.Offset {
		c.Offset = want
		p.ScreenY = targetY
		return
	}
	p.ScreenY = p.WorldY - c.Offset
}
