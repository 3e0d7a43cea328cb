package game

import "math"

// Lives is the diver's life counter and damage windows, in session seconds.
// Count has no upper bound: every potion adds one.
type Lives struct {
	Count           int     `json:"count"`
	InvincibleUntil float64 `json:"invincibleUntil"`
	FlashUntil      float64 `json:"flashUntil"`
}

func newLives(start int) Lives {
	return Lives{Count: start}
}

// Invincible reports whether hazard contact is ignored at now.
func (l Lives) Invincible(now float64) bool {
	return now < l.InvincibleUntil
}

// Flashing reports whether the hit blink is active at now.
func (l Lives) Flashing(now float64) bool {
	return now < l.FlashUntil
}

func (l *Lives) Gain() {
	l.Count++
}

// Damage takes one life unless the invincibility window is open and reports
// whether it did. It opens fresh invincibility and flash windows from now.
func (l *Lives) Damage(now, invincible, flash float64) bool {
	if l.Invincible(now) {
		return false
	}
	if l.Count > 0 {
		l.Count--
	}
	l.InvincibleUntil = now + invincible
	l.FlashUntil = now + flash
	return true
}

// blinkVisible is the blink phase: visible for the first half of each period.
func blinkVisible(now, hz float64) bool {
	if hz <= 0 {
		return true
	}
	return math.Mod(now*hz, 1) < 0.5
}
