package game

import (
	"dive-server/config"
)

// Session is one descent, from Start to the terminal state. It is owned by a
// single goroutine; nothing in it is safe for concurrent use.
type Session struct {
	tuning config.Tuning
	preset config.CharacterPreset
	rng    Rand
	view   Size

	startY  float64
	targetY float64

	Player  Player
	Camera  Camera
	Lives   Lives
	Field   Field
	Spawner Spawner
	Bubbles []Bubble

	// Elapsed is the sum of every step delta since Start, in seconds.
	Elapsed float64

	state      State
	finalDepth float64
	events     []Event
}

// NewSession returns an idle session sized to the base viewport.
func NewSession(tuning config.Tuning, rng Rand) *Session {
	s := &Session{tuning: tuning, rng: rng}
	s.Player.Facing = 1
	s.Resize(Size{Width: config.BaseWidth, Height: config.BaseHeight})
	return s
}

// Start resets all per-session state and enters the running state.
func (s *Session) Start(preset config.CharacterPreset) {
	s.preset = preset
	s.state = StateRunning
	s.Elapsed = 0
	s.finalDepth = 0
	s.events = s.events[:0]

	s.Field.reset()
	s.Lives = newLives(s.tuning.StartLives)
	s.Camera = Camera{}
	s.Bubbles = newBubbles(s.view, s.rng)

	s.Player.fit(s.view)
	s.Player.X = s.view.Width*0.5 - s.Player.Width*0.5
	s.Player.WorldY = s.startY
	s.Player.ScreenY = s.startY
	s.Player.Facing = 1
	s.Player.Moving = false

	s.Spawner = Spawner{Interval: SpawnInterval(0, 0, preset, s.tuning, s.rng)}
}

// Resize recomputes every viewport-relative quantity. A running session keeps
// the diver's world position and re-derives its screen position.
func (s *Session) Resize(view Size) {
	if view.Width <= 0 || view.Height <= 0 {
		return
	}
	s.view = view
	s.Player.fit(view)
	s.startY = view.Height * s.tuning.StartScreenRatio
	s.targetY = view.Height * s.tuning.TargetScreenRatio
	s.Bubbles = newBubbles(view, s.rng)

	if s.state == StateRunning {
		s.Camera.Follow(&s.Player, s.targetY)
		return
	}
	s.Player.WorldY = s.startY
	s.Player.ScreenY = s.startY
}

// Update advances the session by dt seconds with the given input direction and
// returns the events the step produced. It does nothing unless running.
func (s *Session) Update(dt float64, direction int) []Event {
	s.events = s.events[:0]
	if s.state != StateRunning || dt < 0 {
		return nil
	}
	s.Elapsed += dt
	depth := s.Depth()

	// Difficulty model and obstacle field
	if s.Spawner.tick(dt) {
		s.Spawner.Interval = SpawnInterval(depth, s.Elapsed, s.preset, s.tuning, s.rng)
		s.Field.Spawn("", s.Player.WorldY, s.view, s.rng)
	}
	s.Field.checkMilestones(depth, s.tuning.Milestones, s.Player.WorldY, s.view, s.rng)

	// Player kinematics
	descent := s.preset.DepthRate * s.tuning.PixelsPerMeter
	s.Player.Move(direction, s.preset.PlayerSpeed, descent, dt, s.view)
	s.Camera.Follow(&s.Player, s.targetY)
	s.Field.Prune(s.Camera.Offset)
	updateBubbles(s.Bubbles, s.view, dt, s.rng)

	// Collision and lives
	s.handleCollisions()

	return s.events
}

func (s *Session) emit(kind EventKind) {
	s.events = append(s.events, Event{
		Kind:  kind,
		Lives: s.Lives.Count,
		Depth: s.Depth(),
		At:    s.Elapsed,
	})
}

// finish freezes the run at the current depth.
func (s *Session) finish() {
	s.finalDepth = s.Depth()
	s.state = StateTerminal
	s.emit(EventGameOver)
}

// Depth is the preset's descent rate times elapsed time. After the run ends
// it stays at the depth of the fatal step.
func (s *Session) Depth() float64 {
	if s.state == StateTerminal {
		return s.finalDepth
	}
	return s.preset.DepthRate * s.Elapsed
}

func (s *Session) State() State                   { return s.state }
func (s *Session) Preset() config.CharacterPreset { return s.preset }
func (s *Session) View() Size                     { return s.view }
func (s *Session) TargetY() float64               { return s.targetY }
func (s *Session) Tuning() config.Tuning          { return s.tuning }

func (s *Session) HUD() HUD {
	return HUD{Depth: s.Depth(), Lives: s.Lives.Count}
}

// Result is the run's outcome; only meaningful once terminal.
func (s *Session) Result() Result {
	return Result{Depth: s.Depth(), Character: s.preset.ID}
}

// Visible returns the obstacles whose screen rectangle is near the viewport.
func (s *Session) Visible() []Obstacle {
	visible := make([]Obstacle, 0, len(s.Field.Obstacles))
	for _, o := range s.Field.Obstacles {
		if inView(o, s.Camera.Offset, s.view) {
			visible = append(visible, o)
		}
	}
	return visible
}

// PlayerVisible is the blink rule: hidden on the off phase of the flash window.
func (s *Session) PlayerVisible() bool {
	if !s.Lives.Flashing(s.Elapsed) {
		return true
	}
	return blinkVisible(s.Elapsed, s.tuning.BlinkHz)
}
