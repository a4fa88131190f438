package conversation

import (
	"strings"
	"sync"
)

// DefaultRepeatThreshold is how many consecutive identical questions the
// spirit tolerates before losing patience.
const DefaultRepeatThreshold = 3

// RepeatTracker detects when one session keeps asking the same question.
// Only the most recent question per session is tracked, not a full frequency
// table: a different question resets the counter.
//
// Callers are expected to serialize requests per session (the routing layer
// already does); the mutex only guards the map across different sessions.
type RepeatTracker struct {
	mu             sync.Mutex
	entries        map[string]*repeatEntry
	threshold      int
	resetOnAnnoyed bool
}

type repeatEntry struct {
	key   string
	count int
}

func NewRepeatTracker(threshold int, resetOnAnnoyed bool) *RepeatTracker {
	if threshold <= 0 {
		threshold = DefaultRepeatThreshold
	}
	return &RepeatTracker{
		entries:        make(map[string]*repeatEntry),
		threshold:      threshold,
		resetOnAnnoyed: resetOnAnnoyed,
	}
}

// Observe registers a question and reports whether the reply should use the
// annoyed prompt path. The threshold-reaching ask itself is answered normally;
// the ask after it triggers the outburst.
func (t *RepeatTracker) Observe(sessionID, question string) bool {
	key := normalizeQuestion(question)

	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[sessionID]
	if !ok || e.key != key {
		t.entries[sessionID] = &repeatEntry{key: key, count: 1}
		return false
	}

	annoyed := e.count >= t.threshold
	e.count++
	if annoyed && t.resetOnAnnoyed {
		e.count = 1
	}
	return annoyed
}

// Forget drops all tracked state for a session. Called when the session ends.
func (t *RepeatTracker) Forget(sessionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, sessionID)
}

func normalizeQuestion(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}
