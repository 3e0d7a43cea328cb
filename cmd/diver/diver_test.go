package main

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"dive-server/config"
	game "dive-server/src"
	"dive-server/src/client"
	"dive-server/src/store"

	"github.com/gdamore/tcell/v2"
)

func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	screen.SetSize(60, 40)
	t.Cleanup(screen.Fini)
	return screen
}

func bgAt(s tcell.Screen, x, y int) tcell.Color {
	_, _, style, _ := s.GetContent(x, y)
	_, bg, _ := style.Decompose()
	return bg
}

func TestCanvasFillRectCoversTouchedCells(t *testing.T) {
	screen := newSimScreen(t)
	c := NewCanvas(screen)
	red := config.Color{R: 255, A: 255}

	c.FillRect(game.Rect{X: 0, Y: 0, Width: cellW * 2, Height: cellH}, red)
	c.Show()

	want := tcell.NewRGBColor(255, 0, 0)
	if bgAt(screen, 0, 0) != want || bgAt(screen, 1, 0) != want {
		t.Fatal("rect cells not painted")
	}
	if bgAt(screen, 2, 0) == want || bgAt(screen, 0, 1) == want {
		t.Fatal("paint leaked outside the rect")
	}
}

func TestCanvasBlendsAlpha(t *testing.T) {
	screen := newSimScreen(t)
	c := NewCanvas(screen)
	c.FillRect(game.Rect{Width: cellW, Height: cellH}, config.Color{R: 200, A: 255})
	c.FillRect(game.Rect{Width: cellW, Height: cellH}, config.Color{B: 200, A: 128})

	got := c.cells[0]
	if got.R < 95 || got.R > 105 || got.B < 95 || got.B > 105 {
		t.Fatalf("blend = %+v", got)
	}
}

func TestCanvasTinyShapesStillShow(t *testing.T) {
	screen := newSimScreen(t)
	c := NewCanvas(screen)
	white := config.Color{R: 255, G: 255, B: 255, A: 255}
	c.FillCircle(game.Point{X: cellW*3 + 1, Y: cellH*2 + 1}, 0.5, white)
	if c.cells[2*c.cols+3] != white {
		t.Fatal("sub-cell circle was dropped")
	}
}

func TestInsidePolygon(t *testing.T) {
	square := []game.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	if !insidePolygon(square, game.Point{X: 5, Y: 5}) {
		t.Fatal("centre reported outside")
	}
	if insidePolygon(square, game.Point{X: 15, Y: 5}) {
		t.Fatal("outside point reported inside")
	}
}

// fakeTransport stores submissions in memory unless offline.
type fakeTransport struct {
	mu      sync.Mutex
	offline bool
	mem     *store.Memory
}

var errOffline = errors.New("offline")

func (f *fakeTransport) Submit(ctx context.Context, sub store.Submission) (store.Score, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.offline {
		return store.Score{}, errOffline
	}
	return f.mem.Insert(ctx, sub)
}

func (f *fakeTransport) Leaderboard(ctx context.Context, limit int) ([]store.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.offline {
		return nil, errOffline
	}
	return f.mem.Top(ctx, limit)
}

func newTestApp(t *testing.T, offline bool) *App {
	t.Helper()
	tr := &fakeTransport{offline: offline, mem: store.NewMemory()}
	q, err := client.NewQueue(&client.MemoryStorage{}, tr)
	if err != nil {
		t.Fatalf("NewQueue: %v", err)
	}
	return NewApp(newSimScreen(t), config.Default(), tr, q, NewSound(false))
}

func typeText(a *App, s string) {
	for _, r := range s {
		a.handleKey(tcell.KeyRune, r)
	}
}

func TestRegistrationRequiresConsent(t *testing.T) {
	a := newTestApp(t, false)
	typeText(a, "  Mina  ")
	a.handleKey(tcell.KeyTab, 0)
	typeText(a, "010 1234-5678")
	a.handleKey(tcell.KeyTab, 0)

	a.handleKey(tcell.KeyEnter, 0)
	if a.mode != modeRegister || a.form.message != game.ErrConsentRequired.Error() {
		t.Fatalf("mode = %v message = %q", a.mode, a.form.message)
	}

	a.handleKey(tcell.KeyRune, ' ')
	a.handleKey(tcell.KeyEnter, 0)
	if a.mode != modeSelect {
		t.Fatalf("mode = %v message = %q", a.mode, a.form.message)
	}
	if a.player.Name != "Mina" || a.player.Phone != "0101234-5678" {
		t.Fatalf("player = %+v", a.player)
	}
}

func TestPrefillSkipsToDive(t *testing.T) {
	a := newTestApp(t, false)
	a.Prefill(game.Registration{Name: "Jun", Phone: "010", Consent: true}, "longfin")
	if a.mode != modePlay || a.loop.Session.Preset().ID != "longfin" {
		t.Fatalf("mode = %v", a.mode)
	}
}

func TestKeyHoldReleases(t *testing.T) {
	a := newTestApp(t, false)
	clock := time.Unix(0, 0)
	a.now = func() time.Time { return clock }
	a.Prefill(game.Registration{Name: "Jun", Phone: "010", Consent: true}, "shortfin")

	a.handleKey(tcell.KeyLeft, 0)
	a.tick(0.016)
	if a.loop.Direction() != -1 {
		t.Fatalf("direction = %d while held", a.loop.Direction())
	}
	clock = clock.Add(holdFor + time.Millisecond)
	a.tick(0.016)
	if a.loop.Direction() != 0 {
		t.Fatalf("direction = %d after release", a.loop.Direction())
	}
}

// dive starts a run and kills the diver on the next frame.
func dive(t *testing.T, a *App) {
	t.Helper()
	a.Prefill(game.Registration{Name: "Mina", Phone: "010-1", Consent: true}, "shortfin")
	s := a.loop.Session
	s.Lives.Count = 1
	s.Field.Obstacles = append(s.Field.Obstacles, game.Obstacle{
		ID: 999, Kind: game.KindRock, WorldY: s.Player.WorldY - 50, Width: s.View().Width, Height: 300,
	})
	a.tick(0.016)
	if a.mode != modeResult {
		t.Fatalf("mode = %v after fatal hit", a.mode)
	}
	for i := 0; i < 2; i++ {
		select {
		case fn := <-a.async:
			fn()
		case <-time.After(2 * time.Second):
			t.Fatal("background work never reported back")
		}
	}
}

func TestFinishedDiveIsSubmitted(t *testing.T) {
	a := newTestApp(t, false)
	dive(t, a)
	if a.status != "Score saved" {
		t.Fatalf("status = %q", a.status)
	}
	if len(a.board) != 1 || a.board[0].Name != "Mina" || a.board[0].Depth != store.RoundDepth(a.result.Depth) {
		t.Fatalf("board = %+v result = %+v", a.board, a.result)
	}
	a.draw()
}

func TestOfflineDiveIsQueued(t *testing.T) {
	a := newTestApp(t, true)
	dive(t, a)
	if a.queue.Len() != 1 {
		t.Fatalf("queue len = %d", a.queue.Len())
	}
	if a.boardMsg != "Leaderboard unavailable" || a.board != nil {
		t.Fatalf("board = %+v msg = %q", a.board, a.boardMsg)
	}

	a.handleKey(tcell.KeyRune, 'r')
	if a.mode != modePlay {
		t.Fatalf("retry mode = %v", a.mode)
	}
}
