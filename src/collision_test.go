package game

import (
	"math"
	"math/rand"
	"testing"

	"dive-server/config"
)

func newTestSession(t *testing.T, preset config.CharacterPreset) *Session {
	t.Helper()
	s := NewSession(config.Default(), rand.New(rand.NewSource(42)))
	s.Start(preset)
	return s
}

// cover returns an obstacle of kind whose rectangle wraps the diver.
func cover(s *Session, id int, kind Kind) Obstacle {
	return Obstacle{
		ID:     id,
		Kind:   kind,
		X:      0,
		WorldY: s.Player.WorldY - 50,
		Width:  s.view.Width,
		Height: 300,
	}
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, 0, len(events))
	for _, e := range events {
		out = append(out, e.Kind)
	}
	return out
}

func TestAABB(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	if !checkAABBCollision(a, Rect{X: 9, Y: 9, Width: 5, Height: 5}) {
		t.Fatal("overlapping boxes reported apart")
	}
	if checkAABBCollision(a, Rect{X: 10, Y: 0, Width: 5, Height: 5}) {
		t.Fatal("touching boxes reported overlapping")
	}
	if !checkAABBCollisionWithMargin(a, Rect{X: 12, Y: 0, Width: 5, Height: 5}, 4) {
		t.Fatal("margin ignored")
	}
}

func TestHitboxesAreInset(t *testing.T) {
	p := Player{X: 100, ScreenY: 200, Width: 40, Height: 60}
	hb := playerHitbox(p)
	if hb.Width >= p.Width || hb.Height >= p.Height || hb.X <= p.X || hb.Y <= p.ScreenY {
		t.Fatalf("player hitbox not inset: %+v", hb)
	}
	o := Obstacle{Kind: KindSeaweed, X: 0, Width: 100, Height: 100}
	ob := obstacleHitbox(o, 0)
	if math.Abs(ob.Width-72) > 1e-9 || math.Abs(ob.X-14) > 1e-9 {
		t.Fatalf("seaweed hitbox = %+v", ob)
	}
}

func TestHitThenIgnoredInsideWindow(t *testing.T) {
	s := newTestSession(t, config.DefaultShortfin)
	s.Field.Obstacles = []Obstacle{cover(s, 1, KindRock)}

	events := s.Update(0.016, 0)
	if got := kinds(events); len(got) != 1 || got[0] != EventLifeLost {
		t.Fatalf("events = %v", got)
	}
	if s.Lives.Count != 1 {
		t.Fatalf("lives = %d, want 1", s.Lives.Count)
	}
	if events[0].Lives != 1 {
		t.Fatalf("event lives = %d", events[0].Lives)
	}

	events = s.Update(0.1, 0)
	if len(events) != 0 || s.Lives.Count != 1 {
		t.Fatalf("hit inside invincibility window counted: lives=%d events=%v", s.Lives.Count, kinds(events))
	}
	if s.State() != StateRunning {
		t.Fatalf("state = %v", s.State())
	}
}

func TestFatalHitFreezesDepth(t *testing.T) {
	s := newTestSession(t, config.DefaultShortfin)
	s.Field.Obstacles = []Obstacle{cover(s, 1, KindRock)}

	s.Update(0.016, 0)
	events := s.Update(0.8, 0)
	if got := kinds(events); len(got) != 2 || got[0] != EventLifeLost || got[1] != EventGameOver {
		t.Fatalf("events = %v", got)
	}
	if s.State() != StateTerminal {
		t.Fatalf("state = %v", s.State())
	}
	elapsed := 0.016
	elapsed += 0.8
	want := config.DefaultShortfin.DepthRate * elapsed
	if s.Depth() != want {
		t.Fatalf("depth = %v, want %v", s.Depth(), want)
	}
	if events[1].Depth != want {
		t.Fatalf("game over depth = %v, want %v", events[1].Depth, want)
	}

	if got := s.Update(1, 0); got != nil {
		t.Fatalf("terminal session produced events: %v", got)
	}
	if s.Depth() != want || s.Result().Depth != want {
		t.Fatalf("depth moved after game over: %v", s.Depth())
	}
	if s.Result().Character != config.Shortfin {
		t.Fatalf("result character = %q", s.Result().Character)
	}
}

func TestPotionIsConsumedBeforeHazard(t *testing.T) {
	s := newTestSession(t, config.DefaultLongfin)
	s.Field.Obstacles = []Obstacle{cover(s, 1, KindPotion), cover(s, 2, KindRock)}

	events := s.Update(0.01, 0)
	if got := kinds(events); len(got) != 2 || got[0] != EventLifeGained || got[1] != EventLifeLost {
		t.Fatalf("events = %v", got)
	}
	if s.Lives.Count != 2 {
		t.Fatalf("lives = %d, want 2", s.Lives.Count)
	}
	for _, o := range s.Field.Obstacles {
		if o.Kind == KindPotion {
			t.Fatal("potion not removed")
		}
	}
}

func TestPotionCollectedWhileInvincible(t *testing.T) {
	s := newTestSession(t, config.DefaultLongfin)
	s.Lives.InvincibleUntil = 10
	s.Field.Obstacles = []Obstacle{cover(s, 1, KindRock), cover(s, 2, KindPotion)}

	events := s.Update(0.01, 0)
	if got := kinds(events); len(got) != 1 || got[0] != EventLifeGained {
		t.Fatalf("events = %v", got)
	}
	if s.Lives.Count != 3 {
		t.Fatalf("lives = %d, want 3", s.Lives.Count)
	}
}

func TestOnlyOneDamagePerStep(t *testing.T) {
	s := newTestSession(t, config.DefaultLongfin)
	s.Field.Obstacles = []Obstacle{cover(s, 1, KindRock), cover(s, 2, KindCoral), cover(s, 3, KindJellyfish)}
	s.Update(0.01, 0)
	if s.Lives.Count != 1 {
		t.Fatalf("lives = %d, want 1", s.Lives.Count)
	}
}

func TestHazardInsideWindowKeepsWindow(t *testing.T) {
	s := newTestSession(t, config.DefaultShortfin)
	s.Lives.InvincibleUntil = 5
	s.Lives.FlashUntil = 4
	s.Field.Obstacles = []Obstacle{cover(s, 1, KindRock), cover(s, 2, KindPotion)}

	events := s.Update(0.01, 0)
	if got := kinds(events); len(got) != 1 || got[0] != EventLifeGained {
		t.Fatalf("events = %v", got)
	}
	if s.Lives.Count != 3 {
		t.Fatalf("lives = %d, want 3", s.Lives.Count)
	}
	if s.Lives.InvincibleUntil != 5 || s.Lives.FlashUntil != 4 {
		t.Fatalf("windows moved: %+v", s.Lives)
	}
}

func TestLifeArithmetic(t *testing.T) {
	l := newLives(2)
	l.Gain()
	l.Gain()
	if l.Count != 4 {
		t.Fatalf("count = %d", l.Count)
	}
	if !l.Damage(1, 0.8, 0.8) || l.Count != 3 {
		t.Fatalf("first damage: count = %d", l.Count)
	}
	if l.Damage(1.5, 0.8, 0.8) {
		t.Fatal("damage inside the window")
	}
	if !l.Invincible(1.79) || l.Invincible(1.81) {
		t.Fatal("window bounds wrong")
	}

	zero := newLives(0)
	zero.Damage(0, 0, 0)
	if zero.Count != 0 {
		t.Fatalf("count went negative: %d", zero.Count)
	}
}

func TestBlinkPhase(t *testing.T) {
	if !blinkVisible(0.02, 10) {
		t.Fatal("hidden on the on phase")
	}
	if blinkVisible(0.06, 10) {
		t.Fatal("visible on the off phase")
	}
	if !blinkVisible(0.06, 0) {
		t.Fatal("zero frequency should never hide")
	}
}
