package agent

// Window bounds.
const (
	// WindowCapacity is the longest the window may grow before pruning.
	WindowCapacity = 10
	// WindowRetain is the number of most recent turns kept after pruning.
	WindowRetain = 8
)

// Window is the bounded recent-turn history sent with every completion.
// It never holds the per-call system turn. Not safe for concurrent use.
type Window struct {
	turns []Turn
}

// NewWindow creates an empty conversation window.
func NewWindow() *Window {
	return &Window{}
}

// Append adds a turn to the end of the window and enforces capacity.
func (w *Window) Append(turn Turn) {
	w.turns = append(w.turns, turn)
	w.EnforceCapacity()
}

// AppendPair adds a user/assistant exchange and enforces capacity once,
// after both turns are in place, so pruning never splits the pair.
func (w *Window) AppendPair(user, assistant Turn) {
	w.turns = append(w.turns, user, assistant)
	w.EnforceCapacity()
}

// EnforceCapacity keeps only the last WindowRetain turns once the window
// exceeds WindowCapacity.
func (w *Window) EnforceCapacity() {
	if len(w.turns) <= WindowCapacity {
		return
	}
	kept := make([]Turn, WindowRetain)
	copy(kept, w.turns[len(w.turns)-WindowRetain:])
	w.turns = kept
}

// Snapshot returns a copy of the turns in order.
func (w *Window) Snapshot() []Turn {
	out := make([]Turn, len(w.turns))
	copy(out, w.turns)
	return out
}

// Len returns the number of turns held.
func (w *Window) Len() int {
	return len(w.turns)
}

// Clear empties the window.
func (w *Window) Clear() {
	w.turns = nil
}
