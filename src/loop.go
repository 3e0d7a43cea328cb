package game

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"dive-server/config"
)

// ErrTicksClosed is returned by Run when the tick source closes mid-session.
var ErrTicksClosed = errors.New("tick source closed")

// TickSource delivers frame deltas in seconds.
type TickSource interface {
	Ticks() <-chan float64
	Stop()
}

// Ticker is a TickSource backed by time.Ticker.
type Ticker struct {
	ticker *time.Ticker
	ticks  chan float64
	done   chan struct{}
	once   atomic.Bool
}

// NewTicker starts a ticker at fps frames per second.
func NewTicker(fps int) *Ticker {
	if fps <= 0 {
		fps = 60
	}
	t := &Ticker{
		ticker: time.NewTicker(time.Second / time.Duration(fps)),
		ticks:  make(chan float64, 1),
		done:   make(chan struct{}),
	}
	go t.run()
	return t
}

func (t *Ticker) run() {
	last := time.Now()
	for {
		select {
		case now := <-t.ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			select {
			case t.ticks <- dt:
			default:
				// The loop is behind; the next delta covers the gap.
			}
		case <-t.done:
			return
		}
	}
}

func (t *Ticker) Ticks() <-chan float64 { return t.ticks }

func (t *Ticker) Stop() {
	if t.once.CompareAndSwap(false, true) {
		t.ticker.Stop()
		close(t.done)
	}
}

// Loop orchestrates one session per run: input, stepping, rendering and HUD
// publication. Only SetDirection and Resize may be called from other
// goroutines.
type Loop struct {
	Session  *Session
	Renderer Renderer
	Canvas   Canvas

	// OnHUD is called after every step. OnEvent is called for every event.
	OnHUD   func(HUD)
	OnEvent func(Event)

	direction atomic.Int32
	view      atomic.Pointer[Size]
}

// NewLoop wires a session to an optional canvas.
func NewLoop(session *Session, canvas Canvas) *Loop {
	return &Loop{Session: session, Canvas: canvas}
}

// SetDirection sets the horizontal input: -1 left, 1 right, 0 none.
func (l *Loop) SetDirection(direction int) {
	l.direction.Store(int32(direction))
}

func (l *Loop) Direction() int {
	return int(l.direction.Load())
}

// Resize queues a viewport change; it is applied at the top of the next step.
func (l *Loop) Resize(view Size) {
	l.view.Store(&view)
}

// Start resets the session with the chosen preset and clears input.
func (l *Loop) Start(preset config.CharacterPreset) {
	l.direction.Store(0)
	if view := l.view.Swap(nil); view != nil {
		l.Session.Resize(*view)
	}
	l.Session.Start(preset)
}

// Step runs one frame. dt is clamped to config.MaxFrameDelta.
func (l *Loop) Step(dt float64) []Event {
	if view := l.view.Swap(nil); view != nil {
		l.Session.Resize(*view)
	}
	if dt > config.MaxFrameDelta {
		dt = config.MaxFrameDelta
	}
	events := l.Session.Update(dt, l.Direction())

	if l.Canvas != nil {
		l.Renderer.Draw(l.Canvas, l.Session)
		if shower, ok := l.Canvas.(interface{ Show() }); ok {
			shower.Show()
		}
	}
	if l.OnEvent != nil {
		for _, e := range events {
			l.OnEvent(e)
		}
	}
	if l.OnHUD != nil {
		l.OnHUD(l.Session.HUD())
	}
	return events
}

// Run steps the session on every tick until it becomes terminal or ctx is
// cancelled. The session must already be started.
func (l *Loop) Run(ctx context.Context, src TickSource) (Result, error) {
	defer src.Stop()
	for l.Session.State() == StateRunning {
		select {
		case <-ctx.Done():
			return l.Session.Result(), ctx.Err()
		case dt, ok := <-src.Ticks():
			if !ok {
				return l.Session.Result(), ErrTicksClosed
			}
			l.Step(dt)
		}
	}
	return l.Session.Result(), nil
}
