package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Tuning holds the numbers a game session reads. Default returns the shipped
// values; Load layers a TOML file on top of them.
type Tuning struct {
	PixelsPerMeter    float64 `toml:"pixels_per_meter"`
	StartScreenRatio  float64 `toml:"start_screen_ratio"`
	TargetScreenRatio float64 `toml:"target_screen_ratio"`

	StartLives        int     `toml:"start_lives"`
	InvincibleSeconds float64 `toml:"invincible_seconds"`
	FlashSeconds      float64 `toml:"flash_seconds"`
	BlinkHz           float64 `toml:"blink_hz"`

	ProgressExponent float64 `toml:"progress_exponent"`
	DepthWeight      float64 `toml:"depth_weight"`
	TimeWeight       float64 `toml:"time_weight"`
	LateSpike        Boost   `toml:"late_spike"`

	// Milestones are ascending depths that each force one potion spawn.
	Milestones []float64 `toml:"milestones"`

	Shortfin CharacterPreset `toml:"shortfin"`
	Longfin  CharacterPreset `toml:"longfin"`
}

// Default returns the shipped tuning.
func Default() Tuning {
	return Tuning{
		PixelsPerMeter:    280,
		StartScreenRatio:  0.18,
		TargetScreenRatio: 0.35,
		StartLives:        2,
		InvincibleSeconds: 0.8,
		FlashSeconds:      0.8,
		BlinkHz:           10,
		ProgressExponent:  0.7,
		DepthWeight:       0.65,
		TimeWeight:        0.35,
		LateSpike:         Boost{Depth: 100, Modifier: Modifier{SpawnFactor: 0.85, ScaleFactor: 0.9}},
		Milestones:        []float64{5, 15, 30, 50, 80},
		Shortfin:          DefaultShortfin,
		Longfin:           DefaultLongfin,
	}
}

// Load reads a TOML file over the defaults. An empty path returns the defaults.
func Load(path string) (Tuning, error) {
	t := Default()
	if path == "" {
		return t, nil
	}
	if _, err := os.Stat(path); err != nil {
		return t, fmt.Errorf("tuning file: %w", err)
	}
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return t, fmt.Errorf("decode tuning %s: %w", path, err)
	}
	// ids are not part of the file format
	t.Shortfin.ID = Shortfin
	t.Longfin.ID = Longfin
	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

// Validate rejects tunings that would break the session invariants.
func (t Tuning) Validate() error {
	if t.StartLives <= 0 {
		return fmt.Errorf("start_lives must be positive, got %d", t.StartLives)
	}
	if t.TargetScreenRatio <= 0 || t.TargetScreenRatio >= 1 {
		return fmt.Errorf("target_screen_ratio must be in (0,1), got %v", t.TargetScreenRatio)
	}
	if t.StartScreenRatio < 0 || t.StartScreenRatio > t.TargetScreenRatio {
		return fmt.Errorf("start_screen_ratio must be in [0,target], got %v", t.StartScreenRatio)
	}
	if t.InvincibleSeconds < 0 || t.FlashSeconds < 0 {
		return fmt.Errorf("invincible_seconds and flash_seconds must not be negative")
	}
	if t.ProgressExponent <= 0 {
		return fmt.Errorf("progress_exponent must be positive, got %v", t.ProgressExponent)
	}
	if err := t.LateSpike.Modifier.validate(); err != nil {
		return fmt.Errorf("late_spike: %w", err)
	}
	for i := 1; i < len(t.Milestones); i++ {
		if t.Milestones[i] <= t.Milestones[i-1] {
			return fmt.Errorf("milestones must be ascending at index %d", i)
		}
	}
	for _, p := range []CharacterPreset{t.Shortfin, t.Longfin} {
		if p.DepthRate <= 0 || p.SpawnMin <= 0 || p.SpawnMax <= 0 {
			return fmt.Errorf("preset %s: depth_rate and spawn bounds must be positive", p.ID)
		}
		if err := p.Boost.Modifier.validate(); err != nil {
			return fmt.Errorf("preset %s boost: %w", p.ID, err)
		}
	}
	return nil
}

// validate rejects factors that would collapse the spawn interval.
func (m Modifier) validate() error {
	if m.SpawnFactor <= 0 || m.ScaleFactor <= 0 {
		return fmt.Errorf("spawn_factor and scale_factor must be positive, got %v and %v", m.SpawnFactor, m.ScaleFactor)
	}
	return nil
}

// Preset looks up a character preset by id.
func (t Tuning) Preset(id string) (CharacterPreset, bool) {
	switch id {
	case Shortfin:
		return t.Shortfin, true
	case Longfin:
		return t.Longfin, true
	}
	return CharacterPreset{}, false
}

// Save writes the tuning as TOML, used to bootstrap an override file.
func (t Tuning) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(t)
}
