package diagnostics

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
)

func TestServeCountersReportsCurrentValues(t *testing.T) {
	d := New(":0", ":0")
	d.Counters.Cycles.Store(123)
	d.Counters.BadLines.Store(4)
	d.Counters.IRQs.Store(5)
	d.Counters.NMIs.Store(1)
	d.Counters.SpriteDMA.Store(2)

	req := httptest.NewRequest("GET", "/diagnostics/counters", nil)
	rec := httptest.NewRecorder()
	d.serveCounters(rec, req)

	var got snapshot
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := snapshot{Cycles: 123, BadLines: 4, IRQs: 5, NMIs: 1, SpriteDMA: 2}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestServeCountersContentType(t *testing.T) {
	d := New(":0", ":0")
	req := httptest.NewRequest("GET", "/diagnostics/counters", nil)
	rec := httptest.NewRecorder()
	d.serveCounters(rec, req)

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected application/json, got %q", ct)
	}
}
