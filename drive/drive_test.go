package drive

import (
	"testing"

	"github.com/bsvec/virtualc64/drive/disk"
)

type stubCPU struct {
	overflows int
	irq       map[int]bool
}

func newStubCPU() *stubCPU { return &stubCPU{irq: map[int]bool{}} }

func (s *stubCPU) ExecuteCycle() bool              { return true }
func (s *stubCPU) PullDownIRQLine(source int)      { s.irq[source] = true }
func (s *stubCPU) ReleaseIRQLine(source int)       { s.irq[source] = false }
func (s *stubCPU) SetOverflow()                    { s.overflows++ }

type stubIEC struct{}

func (stubIEC) ClockLine() bool                 { return true }
func (stubIEC) DataLine() bool                  { return true }
func (stubIEC) AtnLine() bool                   { return true }
func (stubIEC) UpdateDevicePins(orb, ddrb uint8) {}

func TestResetParksAtHalftrack41(t *testing.T) {
	d := New(Device8, newStubCPU(), nil, stubIEC{})
	if d.Halftrack() != 41 {
		t.Fatalf("expected reset half-track 41, got %d", d.Halftrack())
	}
}

func TestMoveHeadUpAndDownViaVIA2PortB(t *testing.T) {
	cpu := newStubCPU()
	d := New(Device8, cpu, nil, stubIEC{})
	blank := disk.NewBlank()
	d.InsertDisk(blank)

	start := d.Halftrack()
	d.VIA2().Poke(0x00, 0x00)
	d.VIA2().Poke(0x00, 0x01) // step up
	if d.Halftrack() != start+1 {
		t.Fatalf("expected half-track %d after step up, got %d", start+1, d.Halftrack())
	}

	d.VIA2().Poke(0x00, 0x00) // step down
	if d.Halftrack() != start {
		t.Fatalf("expected half-track %d after step down, got %d", start, d.Halftrack())
	}
}

func TestInsertEjectDisk(t *testing.T) {
	d := New(Device9, newStubCPU(), nil, stubIEC{})
	if d.DiskInserted() {
		t.Fatalf("expected no disk inserted initially")
	}
	d.InsertDisk(disk.NewBlank())
	if !d.DiskInserted() {
		t.Fatalf("expected disk inserted after InsertDisk")
	}
	d.EjectDisk()
	if d.DiskInserted() {
		t.Fatalf("expected no disk inserted after EjectDisk")
	}
}

func TestBusByNumber(t *testing.T) {
	d8 := New(Device8, newStubCPU(), nil, stubIEC{})
	bus := &Bus{Drives: [2]*Drive{d8, nil}}
	if bus.ByNumber(Device8) != d8 {
		t.Fatalf("expected device 8 to resolve to d8")
	}
	if bus.ByNumber(Device9) != nil {
		t.Fatalf("expected device 9 to be unattached")
	}
}
