package game

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"sync"
	"time"

	"dive-server/config"
	"dive-server/src/store"

	"github.com/gorilla/websocket"
)

// GameServer runs server-authoritative dives for websocket clients. All
// sessions are stepped by one loop goroutine under mu.
type GameServer struct {
	mu         sync.Mutex
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	// done is closed once the client listener has stopped.
	done chan struct{}

	tuning config.Tuning
	store  store.Store
	fps    int

	// OnScore is called after a dive is recorded.
	OnScore func(store.Score)

	startedAt      time.Time
	gamesStarted   int64
	gamesFinished  int64
	scoresRecorded int64
	recordFailures int64
}

// Client is one websocket connection and at most one dive.
type Client struct {
	conn   *websocket.Conn
	id     string
	send   chan []byte
	loop   *Loop
	player Registration
	rng    *rand.Rand
	// closed is set under mu once send has been closed.
	closed bool
}

type message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type startPayload struct {
	Registration
	Character string  `json:"character"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
}

type inputPayload struct {
	Direction int `json:"direction"`
}

type resizePayload struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type framePayload struct {
	HUD           HUD        `json:"hud"`
	State         string     `json:"state"`
	Elapsed       float64    `json:"elapsed"`
	Camera        Camera     `json:"camera"`
	Player        Player     `json:"player"`
	PlayerVisible bool       `json:"playerVisible"`
	Obstacles     []Obstacle `json:"obstacles"`
	Bubbles       []Bubble   `json:"bubbles"`
}

type gameOverPayload struct {
	Depth     float64 `json:"depth"`
	Character string  `json:"character"`
	Stored    bool    `json:"stored"`
	ID        string  `json:"id,omitempty"`
	Message   string  `json:"message,omitempty"`
}

// NewGameServer creates a game server recording finished dives to st.
func NewGameServer(tuning config.Tuning, st store.Store, fps int) *GameServer {
	if fps <= 0 {
		fps = 30
	}
	return &GameServer{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		tuning:     tuning,
		store:      st,
		fps:        fps,
		startedAt:  time.Now(),
	}
}

// Run starts the client registry and the game loop. Both stop with ctx.
func (s *GameServer) Run(ctx context.Context) {
	s.run(ctx, NewTicker(s.fps))
}

func (s *GameServer) run(ctx context.Context, src TickSource) {
	go s.listenForClients(ctx)
	go s.gameLoop(ctx, src)
}

func (s *GameServer) listenForClients(ctx context.Context) {
	log.Println("Starting client listener...")
	for {
		select {
		case client := <-s.register:
			s.mu.Lock()
			s.clients[client.id] = client
			s.mu.Unlock()
		case client := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.clients[client.id]; ok {
				delete(s.clients, client.id)
				client.closed = true
				close(client.send)
			}
			s.mu.Unlock()
		case <-ctx.Done():
			s.closeClients()
			return
		}
	}
}

// closeClients drops every client and closes its send channel, which makes
// the write pump send a close frame.
func (s *GameServer) closeClients() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, client := range s.clients {
		delete(s.clients, id)
		client.closed = true
		close(client.send)
	}
	close(s.done)
}

// finished is a dive that ended during a tick and still has to be recorded.
type finished struct {
	client *Client
	player Registration
	result Result
}

func (s *GameServer) gameLoop(ctx context.Context, src TickSource) {
	defer src.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case dt, ok := <-src.Ticks():
			if !ok {
				return
			}
			for _, f := range s.tick(dt) {
				go s.record(ctx, f)
			}
		}
	}
}

// tick steps every running dive once and sends its frame and events.
func (s *GameServer) tick(dt float64) []finished {
	s.mu.Lock()
	defer s.mu.Unlock()

	var done []finished
	for _, client := range s.clients {
		if client.loop == nil || client.loop.Session.State() != StateRunning {
			continue
		}
		events := client.loop.Step(dt)
		for _, e := range events {
			s.sendLocked(client, "event", e)
		}
		s.sendLocked(client, "frame", frameOf(client.loop.Session))

		if client.loop.Session.State() == StateTerminal {
			s.gamesFinished++
			done = append(done, finished{client: client, player: client.player, result: client.loop.Session.Result()})
		}
	}
	return done
}

func frameOf(session *Session) framePayload {
	return framePayload{
		HUD:           session.HUD(),
		State:         session.State().String(),
		Elapsed:       session.Elapsed,
		Camera:        session.Camera,
		Player:        session.Player,
		PlayerVisible: session.PlayerVisible(),
		Obstacles:     session.Visible(),
		Bubbles:       session.Bubbles,
	}
}

// record stores a finished dive and tells the client how it went.
func (s *GameServer) record(ctx context.Context, f finished) {
	payload := gameOverPayload{Depth: f.result.Depth, Character: f.result.Character}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	score, err := s.store.Insert(ctx, f.player.Submission(f.result))
	if err != nil {
		log.Printf("Error recording dive for client %s: %v", f.client.id, err)
		payload.Message = err.Error()
	} else {
		payload.Stored = true
		payload.ID = score.ID
		payload.Depth = score.Depth
	}

	s.mu.Lock()
	if err != nil {
		s.recordFailures++
	} else {
		s.scoresRecorded++
	}
	s.sendLocked(f.client, "game_over", payload)
	s.mu.Unlock()

	if err == nil {
		if s.OnScore != nil {
			s.OnScore(score)
		}
		s.BroadcastLeaderboard(context.Background())
	}
}

// BroadcastLeaderboard pushes the current top entries to every client.
func (s *GameServer) BroadcastLeaderboard(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	entries, err := s.store.Top(ctx, store.DefaultLimit)
	if err != nil {
		log.Printf("Error loading leaderboard for broadcast: %v", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, client := range s.clients {
		s.sendLocked(client, "leaderboard", map[string]interface{}{"data": entries})
	}
}

// start begins a new dive for client. It replaces any dive in progress.
func (s *GameServer) start(client *Client, p startPayload) error {
	reg, err := p.Registration.Validate()
	if err != nil {
		return err
	}
	preset, ok := s.tuning.Preset(p.Character)
	if !ok {
		return store.ErrCharacterInvalid
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session := NewSession(s.tuning, client.rng)
	loop := NewLoop(session, nil)
	if p.Width > 0 && p.Height > 0 {
		loop.Resize(Size{Width: p.Width, Height: p.Height})
	}
	loop.Start(preset)

	client.loop = loop
	client.player = reg
	s.gamesStarted++
	s.sendLocked(client, "init", map[string]interface{}{
		"character": preset,
		"view":      session.View(),
		"targetY":   session.TargetY(),
		"lives":     session.Lives.Count,
		"fps":       s.fps,
	})
	return nil
}

// sendLocked queues a message for client. The caller holds mu.
func (s *GameServer) sendLocked(client *Client, kind string, payload interface{}) {
	if client.closed {
		return
	}
	msg, err := json.Marshal(map[string]interface{}{"type": kind, "payload": payload})
	if err != nil {
		log.Printf("Error marshaling %s message: %v", kind, err)
		return
	}
	select {
	case client.send <- msg:
	default:
		log.Printf("Client %s message channel is full.", client.id)
	}
}

// Stats is a snapshot for the metrics endpoint.
type Stats struct {
	ConnectedClients int     `json:"connected_clients"`
	ActiveSessions   int     `json:"active_sessions"`
	GamesStarted     int64   `json:"games_started"`
	GamesFinished    int64   `json:"games_finished"`
	ScoresRecorded   int64   `json:"scores_recorded"`
	RecordFailures   int64   `json:"record_failures"`
	UptimeSeconds    float64 `json:"uptime_seconds"`
	FPS              int     `json:"fps"`
}

// Stats returns the current counters.
func (s *GameServer) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	active := 0
	for _, client := range s.clients {
		if client.loop != nil && client.loop.Session.State() == StateRunning {
			active++
		}
	}
	return Stats{
		ConnectedClients: len(s.clients),
		ActiveSessions:   active,
		GamesStarted:     s.gamesStarted,
		GamesFinished:    s.gamesFinished,
		ScoresRecorded:   s.scoresRecorded,
		RecordFailures:   s.recordFailures,
		UptimeSeconds:    time.Since(s.startedAt).Seconds(),
		FPS:              s.fps,
	}
}
