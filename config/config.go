package config

// Character IDs accepted by the game and the score store.
const (
	Shortfin = "shortfin"
	Longfin  = "longfin"
)

// Characters lists every playable character.
var Characters = []string{Shortfin, Longfin}

// Viewport defaults, in CSS-like pixels. The game rescales everything from the
// viewport it is given, these only seed a session before the first resize.
const (
	BaseWidth  = 360.0
	BaseHeight = 640.0
)

// MaxFrameDelta caps a single step so a stalled frame timer cannot teleport the diver.
const MaxFrameDelta = 0.05

// Color represents a simplified RGBA representation.
// Renderers interpret these values.
type Color struct {
	R, G, B, A uint8
}

// Predefined Colors
var (
	SurfaceBlue  = Color{15, 63, 115, 255}
	MidwaterBlue = Color{31, 120, 181, 255}
	ShallowCyan  = Color{60, 193, 216, 255}
	BubbleWhite  = Color{235, 250, 255, 80}
	RockGray     = Color{95, 109, 120, 255}
	RockLight    = Color{120, 135, 146, 255}
	CoralRed     = Color{228, 87, 46, 255}
	SeaweedGreen = Color{47, 163, 122, 255}
	JellyPink    = Color{213, 106, 160, 255}
	JellyShade   = Color{196, 88, 144, 255}
	PotionRed    = Color{232, 64, 87, 255}
	PotionGlass  = Color{200, 240, 255, 255}
	SuitBase     = Color{29, 63, 122, 255}
	SuitShade    = Color{17, 42, 82, 255}
	SuitLight    = Color{47, 111, 214, 255}
	TankYellow   = Color{255, 204, 77, 255}
	MaskYellow   = Color{255, 212, 90, 255}
	Visor        = Color{127, 217, 255, 255}
	SkinTone     = Color{243, 201, 163, 255}
	Beard        = Color{59, 43, 37, 255}
)

// Modifier scales a preset's spawn bounds and tightening factors.
// Values below 1 make the game harsher.
type Modifier struct {
	SpawnFactor float64 `toml:"spawn_factor"`
	ScaleFactor float64 `toml:"scale_factor"`
}

// Boost is a depth-triggered modifier.
type Boost struct {
	Depth    float64  `toml:"depth"`
	Modifier Modifier `toml:"modifier"`
}

// CharacterPreset carries every tunable that differs between characters.
// Presets are values; a session copies the one it was started with.
type CharacterPreset struct {
	ID          string  `toml:"-"`
	Label       string  `toml:"label"`
	Level       string  `toml:"level"`
	DepthRate   float64 `toml:"depth_rate"`   // meters per second
	PlayerSpeed float64 `toml:"player_speed"` // pixels per second
	SpawnMin    float64 `toml:"spawn_min"`    // seconds
	SpawnMax    float64 `toml:"spawn_max"`    // seconds
	MinScale    float64 `toml:"min_scale"`
	MaxScale    float64 `toml:"max_scale"`
	DepthScale  float64 `toml:"depth_scale"` // meters until depth progress saturates
	TimeScale   float64 `toml:"time_scale"`  // seconds until time progress saturates
	Boost       Boost   `toml:"boost"`
	FinLength   float64 `toml:"fin_length"` // fraction of sprite height
	FinColor    Color   `toml:"-"`
	FinShade    Color   `toml:"-"`
}

// Apply returns a copy of the preset with m layered on.
func (p CharacterPreset) Apply(m Modifier) CharacterPreset {
	p.SpawnMin *= m.SpawnFactor
	p.SpawnMax *= m.SpawnFactor
	p.MinScale *= m.ScaleFactor
	p.MaxScale *= m.ScaleFactor
	return p
}

// SpawnRange returns the outermost spawn intervals the preset can produce.
func (p CharacterPreset) SpawnRange() (lo, hi float64) {
	ends := [4]float64{p.SpawnMin, p.SpawnMax, p.SpawnMin * p.MinScale, p.SpawnMax * p.MaxScale}
	lo, hi = ends[0], ends[0]
	for _, v := range ends[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// DefaultShortfin is the beginner diver: slow descent, generous spawn gaps.
var DefaultShortfin = CharacterPreset{
	ID:          Shortfin,
	Label:       "Shortfin",
	Level:       "beginner",
	DepthRate:   0.5,
	PlayerSpeed: 240,
	SpawnMin:    0.8,
	SpawnMax:    1.3,
	MinScale:    0.5,
	MaxScale:    0.6,
	DepthScale:  60,
	TimeScale:   120,
	Boost:       Boost{Depth: 50, Modifier: Modifier{SpawnFactor: 0.9, ScaleFactor: 0.9}},
	FinLength:   0.1,
	FinColor:    Color{226, 77, 58, 255},
	FinShade:    Color{193, 58, 44, 255},
}

// DefaultLongfin is the expert diver: twice the descent rate and a tighter field.
var DefaultLongfin = CharacterPreset{
	ID:          Longfin,
	Label:       "Longfin",
	Level:       "expert",
	DepthRate:   1.0,
	PlayerSpeed: 260,
	SpawnMin:    0.65,
	SpawnMax:    1.1,
	MinScale:    0.5,
	MaxScale:    0.6,
	DepthScale:  80,
	TimeScale:   90,
	Boost:       Boost{Depth: 30, Modifier: Modifier{SpawnFactor: 0.8, ScaleFactor: 0.85}},
	FinLength:   0.32,
	FinColor:    Color{240, 109, 47, 255},
	FinShade:    Color{196, 81, 31, 255},
}
