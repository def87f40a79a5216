package cia

import (
	"testing"

	"github.com/bsvec/virtualc64/snapshot"
)

func TestSnapshotRoundTripPreservesTimerState(t *testing.T) {
	cpu := &fakeCPU{}
	c := NewCIA1(cpu, nil, nil)
	c.imr = 0x01
	c.latchA = 1234
	c.counterA = 1234
	c.cra = 0x11
	c.sdr = 0xAB

	blob := snapshot.Save([]snapshot.Component{c}, nil)

	restored := NewCIA1(&fakeCPU{}, nil, nil)
	if err := snapshot.Load(blob, []snapshot.Component{restored}); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if restored.counterA != 1234 || restored.latchA != 1234 {
		t.Fatalf("expected timer A state to round-trip, got counterA=%d latchA=%d", restored.counterA, restored.latchA)
	}
	if restored.cra != 0x11 {
		t.Fatalf("expected CRA to round-trip, got %#x", restored.cra)
	}
	if restored.sdr != 0xAB {
		t.Fatalf("expected SDR to round-trip, got %#x", restored.sdr)
	}
}
