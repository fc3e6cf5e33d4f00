package agent

import "sort"

// AttemptTracker counts consecutive failed completions per topic key.
// It is not safe for concurrent use; the Orchestrator serialises access.
type AttemptTracker struct {
	counts map[string]int
}

// NewAttemptTracker creates an empty tracker.
func NewAttemptTracker() *AttemptTracker {
	return &AttemptTracker{counts: make(map[string]int)}
}

// Get returns the failure count for key, 0 when untracked.
func (t *AttemptTracker) Get(key string) int {
	return t.counts[key]
}

// Increment records one more failure for key and returns the new count.
func (t *AttemptTracker) Increment(key string) int {
	t.counts[key]++
	return t.counts[key]
}

// Reset forgets key entirely.
func (t *AttemptTracker) Reset(key string) {
	delete(t.counts, key)
}

// Clear forgets every key.
func (t *AttemptTracker) Clear() {
	clear(t.counts)
}

// Len returns the number of tracked keys.
func (t *AttemptTracker) Len() int {
	return len(t.counts)
}

// Keys returns the tracked keys in sorted order.
func (t *AttemptTracker) Keys() []string {
	keys := make([]string, 0, len(t.counts))
	for k := range t.counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
