// Package models defines deferred side-effect values returned from a turn.
package models

import "time"

// EffectType identifies the kind of deferred effect.
type EffectType string

const (
	// EffectNavigate asks the host UI to navigate to a URL after a delay.
	EffectNavigate EffectType = "navigate"
)

// Effect is a side effect the dialogue engine wants the host environment to
// execute. Effects are values, not timers: the UI (or a test harness) decides
// how and when to run them.
type Effect struct {
	Type    EffectType `json:"type"`
	URL     string     `json:"url,omitempty"`
	DelayMS int64      `json:"delay_ms,omitempty"`
}

// NavigateAfter builds a deferred navigation effect.
func NavigateAfter(delay time.Duration, url string) Effect {
	return Effect{
		Type:    EffectNavigate,
		URL:     url,
		DelayMS: delay.Milliseconds(),
	}
}
