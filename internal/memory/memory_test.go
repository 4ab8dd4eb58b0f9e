package memory

import (
	"fmt"
	"strings"
	"sync"
	"testing"
)

func TestWindow(t *testing.T) {
	t.Run("Default Capacity", func(t *testing.T) {
		w := NewWindow(0)
		for i := 0; i < 5; i++ {
			w.Record(fmt.Sprintf("u%d", i), fmt.Sprintf("a%d", i))
		}

		if w.Len() != DefaultWindowSize {
			t.Errorf("expected %d turns, got %d", DefaultWindowSize, w.Len())
		}
	})

	t.Run("Empty Context", func(t *testing.T) {
		w := NewWindow(3)
		if got := w.Context(); got != "" {
			t.Errorf("expected empty context, got %q", got)
		}
	})

	t.Run("Context Ordering", func(t *testing.T) {
		w := NewWindow(3)
		w.Record("first question", "first answer")
		w.Record("second question", "second answer")

		want := "User: first question\nAssistant: first answer\nUser: second question\nAssistant: second answer\n"
		if got := w.Context(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})

	t.Run("FIFO Eviction", func(t *testing.T) {
		w := NewWindow(3)
		for i := 1; i <= 4; i++ {
			w.Record(fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
		}

		if w.Len() != 3 {
			t.Fatalf("expected 3 turns, got %d", w.Len())
		}

		context := w.Context()
		if strings.Contains(context, "q1") {
			t.Error("oldest turn should have been evicted")
		}

		turns := w.Turns()
		if turns[0].User != "q2" || turns[2].User != "q4" {
			t.Errorf("unexpected turn order: %v", turns)
		}
	})

	t.Run("Turns Evicted Whole", func(t *testing.T) {
		w := NewWindow(2)
		w.Record("q1", "a1")
		w.Record("q2", "a2")
		w.Record("q3", "a3")

		context := w.Context()
		if strings.Contains(context, "a1") {
			t.Error("assistant half of evicted turn should be gone")
		}
		if !strings.Contains(context, "User: q2\nAssistant: a2\n") {
			t.Errorf("expected intact q2 turn in %q", context)
		}
	})

	t.Run("Reset", func(t *testing.T) {
		w := NewWindow(3)
		w.Record("q1", "a1")
		w.Reset()

		if w.Len() != 0 {
			t.Errorf("expected empty window after reset, got %d turns", w.Len())
		}

		w.Record("q2", "a2")
		if w.Len() != 1 {
			t.Errorf("window should accept turns after reset, got %d", w.Len())
		}
	})

	t.Run("Concurrent Access", func(t *testing.T) {
		w := NewWindow(3)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(2)
			go func(n int) {
				defer wg.Done()
				w.Record(fmt.Sprintf("q%d", n), fmt.Sprintf("a%d", n))
			}(i)
			go func() {
				defer wg.Done()
				_ = w.Context()
			}()
		}
		wg.Wait()

		if w.Len() != 3 {
			t.Errorf("expected 3 turns after concurrent writes, got %d", w.Len())
		}
	})
}
