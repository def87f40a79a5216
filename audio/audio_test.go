package audio

import (
	"os"
	"testing"
)

func TestSinkWriteAccumulatesSamples(t *testing.T) {
	s := NewSink()
	s.Write([]int16{1, 2, 3, 4})
	if got := s.Len(); got != 4 {
		t.Fatalf("expected 4 samples, got %d", got)
	}
}

func TestSinkResetClearsSamples(t *testing.T) {
	s := NewSink()
	s.Write([]int16{1, 2})
	s.Reset()
	if got := s.Len(); got != 0 {
		t.Fatalf("expected 0 samples after Reset, got %d", got)
	}
}

func TestSinkFlushWritesWAVAndResets(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "sink-*.wav")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	defer f.Close()

	s := NewSink()
	s.Write([]int16{100, -100, 200, -200})
	if err := s.Flush(f); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if got := s.Len(); got != 0 {
		t.Fatalf("expected Flush to reset the recording, got %d samples left", got)
	}

	info, err := f.Stat()
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("expected a non-empty WAV file")
	}
}
