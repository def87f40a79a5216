package emucollab_test

import (
	"testing"

	"github.com/bsvec/virtualc64/emucollab"
)

func TestRingQueueDropsOldest(t *testing.T) {
	q := emucollab.NewRingQueue(4)
	for i := 0; i < 6; i++ {
		q.Put(emucollab.Message{Type: emucollab.MsgVSync, Data: i})
	}
	if q.Dropped() != 2 {
		t.Fatalf("expected 2 dropped messages, got %d", q.Dropped())
	}
	got := q.Drain()
	if len(got) != 4 {
		t.Fatalf("expected 4 queued messages, got %d", len(got))
	}
	for i, m := range got {
		if m.Data != i+2 {
			t.Errorf("entry %d = %d, want %d", i, m.Data, i+2)
		}
	}
	if q.Len() != 0 {
		t.Fatalf("expected queue drained, got len %d", q.Len())
	}
}
