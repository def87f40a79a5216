package rewind

import "testing"

func TestPushRespectsFrequency(t *testing.T) {
	r := New(10, 5)
	r.Push(0, []byte("a"))
	r.Push(1, []byte("b")) // too soon, dropped
	r.Push(5, []byte("c"))
	if r.Len() != 2 {
		t.Fatalf("expected 2 captures, got %d", r.Len())
	}
}

func TestOldestEntryIsOverwrittenPastCapacity(t *testing.T) {
	r := New(2, 1)
	r.Push(0, []byte("a"))
	r.Push(1, []byte("b"))
	r.Push(2, []byte("c"))
	r.Push(3, []byte("d"))
	oldest, ok := r.Oldest()
	if !ok {
		t.Fatalf("expected an oldest entry")
	}
	if oldest.Frame < 2 {
		t.Fatalf("expected earliest frames to have been forgotten, oldest is frame %d", oldest.Frame)
	}
}

func TestNearestReturnsEntryAtOrBeforeFrame(t *testing.T) {
	r := New(10, 1)
	r.Push(0, []byte("a"))
	r.Push(10, []byte("b"))
	r.Push(20, []byte("c"))

	e, ok := r.Nearest(15)
	if !ok || e.Frame != 10 {
		t.Fatalf("expected nearest-at-or-before(15) to be frame 10, got %+v ok=%v", e, ok)
	}
}

func TestClearResetsHistory(t *testing.T) {
	r := New(5, 1)
	r.Push(0, []byte("a"))
	r.Clear()
	if r.Len() != 0 {
		t.Fatalf("expected history cleared")
	}
}
