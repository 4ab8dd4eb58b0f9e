// package memory holds the bounded conversation window used to build
// generation prompts.
package memory

import (
	"strings"
	"sync"
	"time"
)

// DefaultWindowSize is the number of turns retained when no capacity is given.
const DefaultWindowSize = 3

// Turn is one completed user/assistant exchange.
type Turn struct {
	User      string
	Assistant string
	CreatedAt time.Time
}

// Window is a fixed-capacity FIFO of completed turns. When full, recording a
// new turn evicts the oldest. Safe for concurrent use.
type Window struct {
	mu       sync.RWMutex
	turns    []Turn
	capacity int
}

// NewWindow creates a window retaining the last capacity turns. Non-positive
// capacity falls back to [DefaultWindowSize].
func NewWindow(capacity int) *Window {
	if capacity <= 0 {
		capacity = DefaultWindowSize
	}

	return &Window{
		turns:    make([]Turn, 0, capacity),
		capacity: capacity,
	}
}

// Record appends a completed turn, evicting the oldest when the window is at
// capacity. A turn is recorded whole; user and assistant halves are never
// split across evictions.
func (w *Window) Record(user, assistant string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.turns) == w.capacity {
		copy(w.turns, w.turns[1:])
		w.turns = w.turns[:len(w.turns)-1]
	}

	w.turns = append(w.turns, Turn{User: user, Assistant: assistant, CreatedAt: time.Now().UTC()})
}

// Context renders the retained turns oldest-first as prompt history. Each
// turn contributes a "User:" line and an "Assistant:" line. Empty window
// yields an empty string.
func (w *Window) Context() string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var b strings.Builder
	for _, turn := range w.turns {
		b.WriteString("User: ")
		b.WriteString(turn.User)
		b.WriteString("\n")
		b.WriteString("Assistant: ")
		b.WriteString(turn.Assistant)
		b.WriteString("\n")
	}

	return b.String()
}

// Turns returns a copy of the retained turns, oldest first.
func (w *Window) Turns() []Turn {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]Turn, len(w.turns))
	copy(out, w.turns)
	return out
}

// Len reports the number of retained turns.
func (w *Window) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return len(w.turns)
}

// Reset discards all retained turns. Capacity is unchanged.
func (w *Window) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.turns = w.turns[:0]
}
