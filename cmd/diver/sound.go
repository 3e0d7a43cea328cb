package main

import (
	"log"
	"time"

	game "dive-server/src"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Sound plays short tones for life events. A Sound that failed to open the
// speaker stays silent.
type Sound struct {
	enabled bool
}

// NewSound opens the speaker. Failure is logged and the game runs muted.
func NewSound(enabled bool) *Sound {
	if !enabled {
		return &Sound{}
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		// Non-fatal, the game runs without sound
		log.Printf("Audio initialization failed: %v", err)
		return &Sound{}
	}
	return &Sound{enabled: true}
}

func tone(freq float64, d time.Duration) beep.Streamer {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return beep.StreamerFunc(func([][2]float64) (int, bool) { return 0, false })
	}
	return beep.Take(sampleRate.N(d), sine)
}

// toneFor returns the cue for an event kind.
func toneFor(kind game.EventKind) beep.Streamer {
	switch kind {
	case game.EventLifeGained:
		return beep.Seq(tone(660, 60*time.Millisecond), tone(990, 90*time.Millisecond))
	case game.EventLifeLost:
		return tone(220, 120*time.Millisecond)
	case game.EventGameOver:
		return beep.Seq(tone(330, 150*time.Millisecond), tone(165, 350*time.Millisecond))
	}
	return nil
}

// Play queues the cue for e.
func (s *Sound) Play(e game.Event) {
	if !s.enabled {
		return
	}
	if st := toneFor(e.Kind); st != nil {
		speaker.Play(st)
	}
}

func (s *Sound) Close() {
	if s.enabled {
		speaker.Close()
	}
}
