package ui

import (
	"time"

	"github.com/spacebird/cosmicflight/internal/space"
)

// heldKeys approximates key-held state from press events. Terminals report
// presses and auto-repeats but no releases. A first press counts as held for
// the repeat delay so the key stays down until auto-repeat starts; after a
// repeat arrives the key is released one window after its last event.
type heldKeys struct {
	window time.Duration
	delay  time.Duration
	last   map[string]keyPress
}

type keyPress struct {
	at        time.Time
	repeating bool
}

func newHeldKeys(window, delay time.Duration) *heldKeys {
	return &heldKeys{window: window, delay: max(delay, window), last: make(map[string]keyPress)}
}

func (h *heldKeys) limit(p keyPress) time.Duration {
	if p.repeating {
		return h.window
	}
	return h.delay
}

func (h *heldKeys) press(k string, now time.Time) {
	prev, ok := h.last[k]
	repeating := ok && now.Sub(prev.at) <= h.limit(prev)
	h.last[k] = keyPress{at: now, repeating: repeating}
}

// snapshot returns the keys held at now and forgets expired ones.
func (h *heldKeys) snapshot(now time.Time) space.Keys {
	held := make(space.Keys, len(h.last))
	for k, p := range h.last {
		if now.Sub(p.at) > h.limit(p) {
			delete(h.last, k)
			continue
		}
		held[k] = true
	}
	return held
}
