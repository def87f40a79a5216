package via

import "testing"

type stubDriveCPU struct {
	irqLines map[int]bool
}

func newStubDriveCPU() *stubDriveCPU {
	return &stubDriveCPU{irqLines: map[int]bool{}}
}

func (s *stubDriveCPU) SetOverflow()                       {}
func (s *stubDriveCPU) PullDownIRQLine(source int)         { s.irqLines[source] = true }
func (s *stubDriveCPU) ReleaseIRQLine(source int)          { s.irqLines[source] = false }

type stubFloppy struct {
	up, down, motorOn, ledOn int
	writeProtected, sync     bool
}

func (f *stubFloppy) MoveHeadUp()        { f.up++ }
func (f *stubFloppy) MoveHeadDown()      { f.down++ }
func (f *stubFloppy) StartRotating()     { f.motorOn++ }
func (f *stubFloppy) StopRotating()      {}
func (f *stubFloppy) ActivateRedLED()    { f.ledOn++ }
func (f *stubFloppy) DeactivateRedLED()  {}
func (f *stubFloppy) WriteProtected() bool { return f.writeProtected }
func (f *stubFloppy) SyncMark() bool       { return f.sync }

func TestTimer1Underflow(t *testing.T) {
	cpu := newStubDriveCPU()
	v := NewVIA2(cpu, &stubFloppy{})
	v.Poke(RegIER, 0x80|0x40) // enable T1 interrupt
	v.Poke(RegT1Lo, 0x02)
	v.Poke(RegT1Hi, 0x00) // latches and loads t1=2

	// t1 reads 2, 1, 0 at the start of the first three cycles; the
	// underflow happens on the third.
	for i := 0; i < 3; i++ {
		v.ExecuteOneCycle()
	}
	if v.IFR()&ifrT1 == 0 {
		t.Fatalf("expected T1 interrupt flag set after underflow, ifr=%02x", v.IFR())
	}
	if !cpu.irqLines[IRQSourceVIA2] {
		t.Fatalf("expected IRQ line pulled after T1 underflow with IER set")
	}
}

func TestStepperMotorSequence(t *testing.T) {
	cpu := newStubDriveCPU()
	fl := &stubFloppy{}
	v := NewVIA2(cpu, fl)

	v.Poke(RegORB, 0x00)
	v.Poke(RegORB, 0x01) // (0+1)&3 == 1: step up
	if fl.up != 1 {
		t.Fatalf("expected one head-up step, got %d", fl.up)
	}

	v.Poke(RegORB, 0x00) // (1-1)&3 == 0: step down
	if fl.down != 1 {
		t.Fatalf("expected one head-down step, got %d", fl.down)
	}
}

func TestWriteProtectAndSyncSenseBits(t *testing.T) {
	cpu := newStubDriveCPU()
	fl := &stubFloppy{writeProtected: true, sync: true}
	v := NewVIA2(cpu, fl)

	got := v.Peek(RegORB)
	if got&0x10 != 0 {
		t.Fatalf("expected write-protect bit clear when protected, got %02x", got)
	}
	if got&0x80 != 0 {
		t.Fatalf("expected SYNC bit clear when sync mark active, got %02x", got)
	}
}

func TestCA1EdgeSetsIFR(t *testing.T) {
	cpu := newStubDriveCPU()
	v := NewVIA1(cpu, nil)
	v.Poke(RegIER, 0x80|ifrCA1)
	v.Poke(RegPCR, 0x00) // negative edge selected

	v.SetCA1(true)
	v.SetCA1(false) // falling edge
	if v.IFR()&ifrCA1 == 0 {
		t.Fatalf("expected CA1 interrupt flag set on falling edge")
	}
}
