package game

import (
	"math"

	"dive-server/config"
)

// EffectivePreset layers the character boost and the late spike onto preset
// once depth has crossed their thresholds. The two stack.
func EffectivePreset(depth float64, preset config.CharacterPreset, tuning config.Tuning) config.CharacterPreset {
	if preset.Boost.Depth > 0 && depth >= preset.Boost.Depth {
		preset = preset.Apply(preset.Boost.Modifier)
	}
	if tuning.LateSpike.Depth > 0 && depth >= tuning.LateSpike.Depth {
		preset = preset.Apply(tuning.LateSpike.Modifier)
	}
	return preset
}

// Difficulty blends depth and time progress into [0,1]. Each progress ratio is
// clamped then raised to a sub-linear exponent so the early game ramps fastest.
func Difficulty(depth, elapsed float64, preset config.CharacterPreset, tuning config.Tuning) float64 {
	depthProgress := progress(depth, preset.DepthScale, tuning.ProgressExponent)
	timeProgress := progress(elapsed, preset.TimeScale, tuning.ProgressExponent)
	total := tuning.DepthWeight + tuning.TimeWeight
	if total <= 0 {
		return 0
	}
	d := (tuning.DepthWeight*depthProgress + tuning.TimeWeight*timeProgress) / total
	return clamp(d, 0, 1)
}

func progress(value, scale, exponent float64) float64 {
	if scale <= 0 {
		return 1
	}
	ratio := clamp(value/scale, 0, 1)
	return math.Pow(ratio, exponent)
}

// SpawnInterval returns the seconds until the next obstacle spawn.
func SpawnInterval(depth, elapsed float64, preset config.CharacterPreset, tuning config.Tuning, rng Rand) float64 {
	p := EffectivePreset(depth, preset, tuning)
	d := Difficulty(depth, elapsed, p, tuning)

	minInterval := lerp(p.SpawnMin, p.SpawnMin*p.MinScale, d)
	maxInterval := lerp(p.SpawnMax, p.SpawnMax*p.MaxScale, d)
	safeMin := math.Min(minInterval, maxInterval)
	safeMax := math.Max(minInterval, maxInterval)
	return randomInRange(rng, safeMin, safeMax)
}

// Spawner is the difficulty countdown. Interval is recomputed every time the
// timer elapses.
type Spawner struct {
	Interval float64 `json:"interval"`
	Timer    float64 `json:"timer"`
}

// tick advances the countdown and reports whether a spawn is due.
func (sp *Spawner) tick(dt float64) bool {
	sp.Timer += dt
	if sp.Timer < sp.Interval {
		return false
	}
	sp.Timer = 0
	return true
}
