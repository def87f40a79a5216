package busclock_test

import "testing"

import "github.com/bsvec/virtualc64/busclock"

func TestCyclesPerFrame(t *testing.T) {
	tests := []struct {
		std  busclock.Standard
		want int
	}{
		{busclock.PAL, 63 * 312},
		{busclock.NTSC, 65 * 262},
	}
	for _, tt := range tests {
		g := busclock.GeometryFor(tt.std)
		if got := g.CyclesPerFrame(); got != tt.want {
			t.Errorf("CyclesPerFrame(%v) = %d, want %d", tt.std, got, tt.want)
		}
	}
}

func TestAdvanceCycleWrapsFrame(t *testing.T) {
	c := busclock.NewClock(busclock.PAL)
	g := c.Geometry()

	total := g.CyclesPerFrame()
	sawEnd := 0
	for i := 0; i < total; i++ {
		if c.AdvanceCycle() {
			sawEnd++
		}
	}
	if sawEnd != 1 {
		t.Fatalf("expected exactly one end-of-frame signal in %d cycles, got %d", total, sawEnd)
	}
	if c.Frame != 1 {
		t.Fatalf("expected frame counter 1, got %d", c.Frame)
	}
	if c.Line != 0 || c.LineCycle != 1 {
		t.Fatalf("expected clock back at line 0 cycle 1, got line=%d cycle=%d", c.Line, c.LineCycle)
	}
}
