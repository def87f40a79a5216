package via

import (
	"testing"

	"github.com/bsvec/virtualc64/snapshot"
)

func TestSnapshotRoundTripPreservesTimerAndShiftState(t *testing.T) {
	v := NewVIA2(newStubDriveCPU(), &stubFloppy{})
	v.Poke(RegACR, 0x1C) // ACR[4:2] = 7: shift-out under external clock
	v.Poke(RegPCR, 0x0E)
	v.Poke(RegT1Lo, 0x34)
	v.Poke(RegT1Hi, 0x12) // latches and loads t1=0x1234
	v.Poke(RegSR, 0xA5)

	blob := snapshot.Save([]snapshot.Component{v}, nil)

	restored := NewVIA2(newStubDriveCPU(), &stubFloppy{})
	if err := snapshot.Load(blob, []snapshot.Component{restored}); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if restored.t1 != 0x1234 {
		t.Fatalf("expected t1 to round-trip as 0x1234, got %#x", restored.t1)
	}
	if restored.acr != 0x1C {
		t.Fatalf("expected ACR to round-trip, got %#x", restored.acr)
	}
	if restored.pcr != 0x0E {
		t.Fatalf("expected PCR to round-trip, got %#x", restored.pcr)
	}
	if restored.sr != 0xA5 {
		t.Fatalf("expected SR to round-trip, got %#x", restored.sr)
	}
}

func TestSnapshotNames(t *testing.T) {
	via1 := NewVIA1(newStubDriveCPU(), nil)
	via2 := NewVIA2(newStubDriveCPU(), &stubFloppy{})
	if got := via1.Name(); got != "via1" {
		t.Fatalf("expected via1, got %q", got)
	}
	if got := via2.Name(); got != "via2" {
		t.Fatalf("expected via2, got %q", got)
	}
}
