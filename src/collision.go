package game

// checkAABBCollision checks for collision between two axis-aligned bounding boxes.
func checkAABBCollision(a, b Rect) bool {
	// Check for overlap on X axis
	if a.X < b.X+b.Width && a.X+a.Width > b.X {
		// Check for overlap on Y axis
		if a.Y < b.Y+b.Height && a.Y+a.Height > b.Y {
			return true
		}
	}
	return false
}

// checkAABBCollisionWithMargin treats both boxes as if they were margin larger
// on their right and bottom edges, which keeps placed obstacles apart.
func checkAABBCollisionWithMargin(a, b Rect, margin float64) bool {
	return a.X < b.X+b.Width+margin &&
		a.X+a.Width+margin > b.X &&
		a.Y < b.Y+b.Height+margin &&
		a.Y+a.Height+margin > b.Y
}

// playerHitbox is smaller than the sprite: the fins and arms do not count.
func playerHitbox(p Player) Rect {
	marginX := p.Width * 0.22
	marginY := p.Height * 0.2
	return Rect{
		X:      p.X + marginX*0.5,
		Y:      p.ScreenY + marginY*0.4,
		Width:  p.Width - marginX,
		Height: p.Height - marginY,
	}
}

// obstacleHitbox shrinks the sprite rectangle by the kind's shrink fraction.
func obstacleHitbox(o Obstacle, screenY float64) Rect {
	shrink := o.Kind.spec().shrink
	marginX := o.Width * shrink
	marginY := o.Height * shrink
	return Rect{
		X:      o.X + marginX*0.5,
		Y:      screenY + marginY*0.5,
		Width:  o.Width - marginX,
		Height: o.Height - marginY,
	}
}

// inView reports whether an obstacle's screen rectangle is within the viewport
// extended by pruneMargin above and below.
func inView(o Obstacle, cameraY float64, view Size) bool {
	screenY := o.WorldY - cameraY
	return screenY <= view.Height+pruneMargin && screenY+o.Height >= -pruneMargin
}

// handleCollisions runs the collision and life system for one step.
// Potions are consumed and the scan continues. Hazards are ignored while the
// invincibility window is open; otherwise the first one hit ends the scan.
func (s *Session) handleCollisions() {
	hitbox := playerHitbox(s.Player)
	now := s.Elapsed

	for i := 0; i < len(s.Field.Obstacles); i++ {
		obstacle := s.Field.Obstacles[i]
		if !inView(obstacle, s.Camera.Offset, s.view) {
			continue
		}
		if !checkAABBCollision(hitbox, obstacleHitbox(obstacle, obstacle.WorldY-s.Camera.Offset)) {
			continue
		}

		if obstacle.Kind.IsRecovery() {
			s.Lives.Gain()
			s.Field.removeAt(i)
			i--
			s.emit(EventLifeGained)
			continue
		}

		if !s.Lives.Damage(now, s.tuning.InvincibleSeconds, s.tuning.FlashSeconds) {
			continue
		}
		s.emit(EventLifeLost)
		if s.Lives.Count == 0 {
			s.finish()
		}
		break
	}
}
