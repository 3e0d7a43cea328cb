package game

import "math"

// 1. Data Structures & Interfaces

// Rand is the randomness a session draws from. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Kind tags an obstacle. Hazards damage the diver, KindPotion restores a life.
type Kind string

const (
	KindRock      Kind = "rock"
	KindCoral     Kind = "coral"
	KindSeaweed   Kind = "seaweed"
	KindJellyfish Kind = "jellyfish"
	KindPotion    Kind = "potion"
)

// Hazards is the closed set a random spawn picks from.
var Hazards = []Kind{KindRock, KindCoral, KindSeaweed, KindJellyfish}

// kindSpec sizes are fractions of the viewport width. shrink is the fraction
// of the sprite that is not part of the hitbox.
type kindSpec struct {
	width, height, shrink float64
}

var kindSpecs = map[Kind]kindSpec{
	KindRock:      {width: 0.18, height: 0.12, shrink: 0.18},
	KindCoral:     {width: 0.16, height: 0.20, shrink: 0.20},
	KindSeaweed:   {width: 0.14, height: 0.28, shrink: 0.28},
	KindJellyfish: {width: 0.16, height: 0.20, shrink: 0.22},
	KindPotion:    {width: 0.09, height: 0.12, shrink: 0.10},
}

func (k Kind) spec() kindSpec {
	if s, ok := kindSpecs[k]; ok {
		return s
	}
	return kindSpec{width: 0.16, height: 0.14, shrink: 0.2}
}

// IsRecovery reports whether touching the obstacle restores a life.
func (k Kind) IsRecovery() bool { return k == KindPotion }

type Obstacle struct {
	ID     int     `json:"id"`
	Kind   Kind    `json:"kind"`
	X      float64 `json:"x"`
	WorldY float64 `json:"worldY"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (o Obstacle) WorldRect() Rect {
	return Rect{X: o.X, Y: o.WorldY, Width: o.Width, Height: o.Height}
}

func (o Obstacle) ScreenRect(cameraY float64) Rect {
	return Rect{X: o.X, Y: o.WorldY - cameraY, Width: o.Width, Height: o.Height}
}

type State int

const (
	StateIdle State = iota
	StateRunning
	StateTerminal
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateTerminal:
		return "terminal"
	}
	return "unknown"
}

type EventKind string

const (
	EventLifeGained EventKind = "life_gained"
	EventLifeLost   EventKind = "life_lost"
	EventGameOver   EventKind = "game_over"
)

// Event is a side effect produced by a step. At is session time in seconds.
type Event struct {
	Kind  EventKind `json:"kind"`
	Lives int       `json:"lives"`
	Depth float64   `json:"depth"`
	At    float64   `json:"at"`
}

// HUD is what the loop publishes after every step.
type HUD struct {
	Depth float64 `json:"depth"`
	Lives int     `json:"lives"`
}

// Result is handed to score submission when a run ends.
type Result struct {
	Depth     float64 `json:"depth"`
	Character string  `json:"character"`
}

// 2. Helpers

func clamp(value, min, max float64) float64 {
	return math.Min(math.Max(value, min), max)
}

func lerp(start, end, t float64) float64 {
	return start + (end-start)*t
}

func randomInRange(rng Rand, min, max float64) float64 {
	return rng.Float64()*(max-min) + min
}
