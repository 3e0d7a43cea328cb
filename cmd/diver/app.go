package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"dive-server/config"
	game "dive-server/src"
	"dive-server/src/client"
	"dive-server/src/store"

	"github.com/gdamore/tcell/v2"
)

type mode int

const (
	modeRegister mode = iota
	modeSelect
	modePlay
	modeResult
)

// holdFor is how long a key press keeps the diver moving. Terminals only
// report presses, so held keys arrive as auto-repeat presses.
const holdFor = 180 * time.Millisecond

// form is the registration screen state.
type form struct {
	name    string
	phone   string
	consent bool
	focus   int
	message string
}

// App is the terminal client. Every field is owned by the goroutine
// running Run; background work reports back through async.
type App struct {
	screen    tcell.Screen
	canvas    *Canvas
	tuning    config.Tuning
	transport client.Transport
	queue     *client.Queue
	sound     *Sound
	rng       *rand.Rand
	now       func() time.Time
	fps       int

	mode    mode
	form    form
	player  game.Registration
	presets []config.CharacterPreset
	choice  int

	loop      *game.Loop
	hud       game.HUD
	holdUntil time.Time

	result   game.Result
	status   string
	board    []store.Entry
	boardMsg string

	async chan func()
	quit  bool
}

func NewApp(screen tcell.Screen, tuning config.Tuning, transport client.Transport, queue *client.Queue, sound *Sound) *App {
	a := &App{
		screen:    screen,
		canvas:    NewCanvas(screen),
		tuning:    tuning,
		transport: transport,
		queue:     queue,
		sound:     sound,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		now:       time.Now,
		fps:       60,
		presets:   []config.CharacterPreset{tuning.Shortfin, tuning.Longfin},
		async:     make(chan func(), 16),
	}
	a.canvas.Overlay = a.drawHUD
	return a
}

// Prefill fills the registration form and skips it when it already
// validates. A known character skips the selection screen too.
func (a *App) Prefill(reg game.Registration, character string) {
	a.form.name, a.form.phone, a.form.consent = reg.Name, reg.Phone, reg.Consent
	if reg.Name == "" && reg.Phone == "" {
		return
	}
	valid, err := reg.Validate()
	if err != nil {
		a.form.message = err.Error()
		return
	}
	a.player = valid
	a.mode = modeSelect
	for i, p := range a.presets {
		if p.ID == character {
			a.choice = i
			a.startRun()
			return
		}
	}
}

// post hands fn to the UI goroutine.
func (a *App) post(fn func()) {
	a.async <- fn
}

// Run drives the UI until the player quits or ctx ends.
func (a *App) Run(ctx context.Context) {
	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	ticks := game.NewTicker(a.fps)
	defer ticks.Stop()

	a.flushPending(ctx)
	a.draw()
	for !a.quit {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			a.handleEvent(ev)
			if a.mode != modePlay {
				a.draw()
			}
		case dt := <-ticks.Ticks():
			a.tick(dt)
		case fn := <-a.async:
			fn()
			if a.mode != modePlay {
				a.draw()
			}
		}
	}
}

// flushPending retries scores left over from earlier runs.
func (a *App) flushPending(ctx context.Context) {
	if a.queue.Len() == 0 {
		return
	}
	go func() {
		sent, err := a.queue.Flush(ctx)
		left := a.queue.Len()
		a.post(func() {
			switch {
			case err != nil && sent == 0:
				a.form.message = fmt.Sprintf("%d saved scores still waiting for the server", left)
			case sent > 0:
				a.form.message = fmt.Sprintf("Sent %d saved scores", sent)
			}
		})
	}()
}

func (a *App) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
		a.canvas.Sync()
		if a.loop != nil {
			a.loop.Resize(a.canvas.View())
		}
	case *tcell.EventKey:
		a.handleKey(ev.Key(), ev.Rune())
	}
}

func (a *App) handleKey(key tcell.Key, r rune) {
	if key == tcell.KeyCtrlC {
		a.quit = true
		return
	}
	switch a.mode {
	case modeRegister:
		a.registerKey(key, r)
	case modeSelect:
		a.selectKey(key, r)
	case modePlay:
		a.playKey(key, r)
	case modeResult:
		a.resultKey(key, r)
	}
}

func (a *App) registerKey(key tcell.Key, r rune) {
	f := &a.form
	switch key {
	case tcell.KeyEscape:
		a.quit = true
	case tcell.KeyTab, tcell.KeyDown:
		f.focus = (f.focus + 1) % 3
	case tcell.KeyBacktab, tcell.KeyUp:
		f.focus = (f.focus + 2) % 3
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		switch f.focus {
		case 0:
			f.name = dropLast(f.name)
		case 1:
			f.phone = dropLast(f.phone)
		}
	case tcell.KeyEnter:
		if f.focus < 2 {
			f.focus++
			return
		}
		a.submitForm()
	case tcell.KeyRune:
		switch f.focus {
		case 0:
			f.name += string(r)
		case 1:
			f.phone += string(r)
		case 2:
			if r == ' ' || r == 'y' || r == 'Y' {
				f.consent = !f.consent
			}
		}
	}
}

func dropLast(s string) string {
	rs := []rune(s)
	if len(rs) == 0 {
		return s
	}
	return string(rs[:len(rs)-1])
}

func (a *App) submitForm() {
	reg, err := game.Registration{Name: a.form.name, Phone: a.form.phone, Consent: a.form.consent}.Validate()
	if err != nil {
		a.form.message = err.Error()
		return
	}
	a.form.name, a.form.phone, a.form.message = reg.Name, reg.Phone, ""
	a.player = reg
	a.mode = modeSelect
}

func (a *App) selectKey(key tcell.Key, r rune) {
	switch {
	case key == tcell.KeyEscape:
		a.mode = modeRegister
	case key == tcell.KeyLeft || r == 'h' || r == '1':
		a.choice = 0
	case key == tcell.KeyRight || r == 'l' || r == '2':
		a.choice = 1
	case key == tcell.KeyEnter || r == ' ':
		a.startRun()
	}
}

func (a *App) startRun() {
	session := game.NewSession(a.tuning, a.rng)
	a.loop = game.NewLoop(session, a.canvas)
	a.loop.OnHUD = func(h game.HUD) { a.hud = h }
	a.loop.OnEvent = a.sound.Play
	a.canvas.Sync()
	a.loop.Resize(a.canvas.View())
	a.loop.Start(a.presets[a.choice])
	a.hud = session.HUD()
	a.holdUntil = time.Time{}
	a.mode = modePlay
}

func (a *App) playKey(key tcell.Key, r rune) {
	switch {
	case key == tcell.KeyEscape:
		a.loop = nil
		a.mode = modeSelect
	case key == tcell.KeyLeft || r == 'h' || r == 'a':
		a.loop.SetDirection(-1)
		a.holdUntil = a.now().Add(holdFor)
	case key == tcell.KeyRight || r == 'l' || r == 'd':
		a.loop.SetDirection(1)
		a.holdUntil = a.now().Add(holdFor)
	case key == tcell.KeyDown || r == ' ' || r == 'j':
		a.loop.SetDirection(0)
	}
}

// tick advances a running dive by dt seconds.
func (a *App) tick(dt float64) {
	if a.mode != modePlay || a.loop == nil {
		return
	}
	if a.loop.Direction() != 0 && a.now().After(a.holdUntil) {
		a.loop.SetDirection(0)
	}
	a.loop.Step(dt)
	if a.loop.Session.State() == game.StateTerminal {
		a.finish()
	}
}

// finish records the run in the background and shows the result screen.
func (a *App) finish() {
	a.result = a.loop.Session.Result()
	a.mode = modeResult
	a.status = "Submitting score..."
	a.board, a.boardMsg = nil, "Loading leaderboard..."

	sub := a.player.Submission(a.result)
	go func() {
		err := a.queue.Enqueue(context.Background(), sub)
		pending := a.queue.Len()
		if err != nil {
			log.Printf("Score submission failed: %v", err)
		}
		a.post(func() {
			switch {
			case err == nil:
				a.status = "Score saved"
			case errors.Is(err, client.ErrFlushing):
				a.status = "Score queued behind earlier ones"
			default:
				a.status = fmt.Sprintf("Offline: score saved for later (%d pending)", pending)
			}
		})
		a.loadLeaderboard()
	}()
}

func (a *App) loadLeaderboard() {
	ctx, cancel := context.WithTimeout(context.Background(), client.SubmitTimeout)
	defer cancel()
	entries, err := a.transport.Leaderboard(ctx, store.DefaultLimit)
	a.post(func() { a.setBoard(entries, err) })
}

func (a *App) setBoard(entries []store.Entry, err error) {
	if err != nil {
		log.Printf("Leaderboard fetch failed: %v", err)
		a.board, a.boardMsg = nil, "Leaderboard unavailable"
		return
	}
	a.board, a.boardMsg = entries, ""
	if len(entries) == 0 {
		a.boardMsg = "No scores yet"
	}
}

// follow applies live leaderboard pushes until the feed closes.
func (a *App) follow(feed *client.Feed) {
	for {
		entries, err := feed.Next()
		if err != nil {
			log.Printf("Leaderboard feed closed: %v", err)
			return
		}
		a.post(func() { a.setBoard(entries, nil) })
	}
}

func (a *App) resultKey(key tcell.Key, r rune) {
	switch {
	case key == tcell.KeyEscape || r == 'q':
		a.quit = true
	case r == 'r' || key == tcell.KeyEnter:
		a.startRun()
	case r == 'm':
		a.loop = nil
		a.mode = modeSelect
	}
}

func (a *App) drawHUD(c *Canvas) {
	lives := strings.Repeat("♥", a.hud.Lives)
	if a.hud.Lives > 5 {
		lives = fmt.Sprintf("♥x%d", a.hud.Lives)
	}
	c.Text(1, 0, fmt.Sprintf("%.1f m", a.hud.Depth), tcell.ColorWhite)
	c.Text(c.cols-len([]rune(lives))-1, 0, lives, tcell.ColorRed)
}

var (
	titleStyle = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	textStyle  = tcell.StyleDefault
	focusStyle = tcell.StyleDefault.Reverse(true)
	warnStyle  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

// draw paints the menu screens. Play frames are shown by the loop.
func (a *App) draw() {
	if a.mode == modePlay {
		return
	}
	a.screen.Clear()
	switch a.mode {
	case modeRegister:
		a.drawRegister()
	case modeSelect:
		a.drawSelect()
	case modeResult:
		a.drawResult()
	}
	a.screen.Show()
}

func (a *App) drawRegister() {
	f := a.form
	drawText(a.screen, 2, 1, "FREEDIVE", titleStyle)
	consent := "[ ] I agree to be contacted about prizes"
	if f.consent {
		consent = "[x] I agree to be contacted about prizes"
	}
	rows := []string{"Name:  " + f.name, "Phone: " + f.phone, consent}
	for i, row := range rows {
		style := textStyle
		if i == f.focus {
			style = focusStyle
		}
		drawText(a.screen, 2, 3+i*2, row, style)
	}
	if f.message != "" {
		drawText(a.screen, 2, 10, f.message, warnStyle)
	}
	drawText(a.screen, 2, 12, "Tab: next field  Space: toggle  Enter: continue  Esc: quit", textStyle)
}

func (a *App) drawSelect() {
	drawText(a.screen, 2, 1, "Choose your diver, "+a.player.Name, titleStyle)
	for i, p := range a.presets {
		style := textStyle
		if i == a.choice {
			style = focusStyle
		}
		line := fmt.Sprintf("%d  %-9s %-9s %.1f m/s", i+1, p.Label, p.Level, p.DepthRate)
		drawText(a.screen, 2, 3+i, line, style)
	}
	drawText(a.screen, 2, 6, "Left/Right: choose  Enter: dive  Esc: back", textStyle)
	drawText(a.screen, 2, 7, "In the water: Left/Right or h/l to swim", textStyle)
}

func (a *App) drawResult() {
	drawText(a.screen, 2, 1, fmt.Sprintf("You reached %.2f m", a.result.Depth), titleStyle)
	drawText(a.screen, 2, 2, a.status, warnStyle)
	drawText(a.screen, 2, 4, "LEADERBOARD", titleStyle)
	if a.boardMsg != "" {
		drawText(a.screen, 2, 5, a.boardMsg, textStyle)
	}
	for i, e := range a.board {
		drawText(a.screen, 2, 5+i, fmt.Sprintf("%2d. %-20s %8.2f m", i+1, e.Name, e.Depth), textStyle)
	}
	drawText(a.screen, 2, 6+store.DefaultLimit, "r: dive again  m: choose diver  q: quit", textStyle)
}
