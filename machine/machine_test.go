package machine

import (
	"testing"

	"github.com/bsvec/virtualc64/busclock"
	"github.com/bsvec/virtualc64/chips/cia"
	"github.com/bsvec/virtualc64/chips/vic"
	"github.com/bsvec/virtualc64/emucollab"
)

// fakeHostCPU is a minimal emucollab.CPU stub that always succeeds and
// records BA transitions, enough to drive the arena through a frame.
type fakeHostCPU struct {
	cycles int
	balow  bool
}

func (f *fakeHostCPU) ExecuteCycle() bool          { f.cycles++; return true }
func (f *fakeHostCPU) PullDownIRQLine(source int)  {}
func (f *fakeHostCPU) ReleaseIRQLine(source int)   {}
func (f *fakeHostCPU) PullDownNMILine(source int)  {}
func (f *fakeHostCPU) ReleaseNMILine(source int)   {}
func (f *fakeHostCPU) SetOverflow()                {}
func (f *fakeHostCPU) SetBALow(low bool)           { f.balow = low }

func newTestMachine(t *testing.T) (*Machine, *fakeHostCPU) {
	t.Helper()
	cpu := &fakeHostCPU{}
	m := New(Config{
		Standard:    busclock.PAL,
		VICRevision: vic.PAL6569,
		CIARevision: cia.MOS6526,
		CPU:         cpu,
	})
	m.AttachMemory(NewMemory())
	m.SetWarp(true)
	return m, cpu
}

// TestCyclesPerFrameProducesOneVSync exercises spec §8 testable property 1:
// advancing exactly cycles_per_frame cycles produces one VSYNC message.
func TestCyclesPerFrameProducesOneVSync(t *testing.T) {
	m, cpu := newTestMachine(t)

	geom := busclock.GeometryFor(busclock.PAL)
	want := geom.CyclesPerFrame()
	if want != geom.CyclesPerLine*geom.RasterLines {
		t.Fatalf("geometry invariant broken: %d != %d*%d", want, geom.CyclesPerLine, geom.RasterLines)
	}

	if !m.RunFrame() {
		t.Fatalf("RunFrame reported CPU error")
	}

	if cpu.cycles != want {
		t.Fatalf("expected %d CPU cycles for one frame, got %d", want, cpu.cycles)
	}

	vsyncs := 0
	for _, msg := range m.Drain() {
		if msg.Type == emucollab.MsgVSync {
			vsyncs++
		}
	}
	if vsyncs != 1 {
		t.Fatalf("expected exactly one VSYNC message after a frame, got %d", vsyncs)
	}
}

// TestSuspendResumeRoundTrip exercises spec §5's cooperative cancellation
// bookkeeping: after a matching Suspend and Resume, RunFrame still runs a
// full frame.
func TestSuspendResumeRoundTrip(t *testing.T) {
	m, _ := newTestMachine(t)
	m.Suspend()
	m.Resume()
	if !m.RunFrame() {
		t.Fatalf("RunFrame reported CPU error after suspend/resume")
	}
}

// TestSnapshotRoundTrip exercises spec §8 testable property 12's shape: a
// save/load cycle must not error and must leave the arena able to keep
// running.
func TestSnapshotRoundTrip(t *testing.T) {
	m, _ := newTestMachine(t)
	m.RunFrame()

	blob := m.Save(nil)
	if err := m.Load(blob); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !m.RunFrame() {
		t.Fatalf("RunFrame reported CPU error after snapshot round trip")
	}
}

// TestRewindCapturesAndRestores exercises the optional rewind history: a
// capture taken every frame should let RewindTo jump back to an earlier
// frame's state.
func TestRewindCapturesAndRestores(t *testing.T) {
	cpu := &fakeHostCPU{}
	m := New(Config{
		Standard:        busclock.PAL,
		VICRevision:     vic.PAL6569,
		CIARevision:     cia.MOS6526,
		CPU:             cpu,
		RewindCapacity:  8,
		RewindFrequency: 1,
	})
	m.AttachMemory(NewMemory())
	m.SetWarp(true)

	for i := 0; i < 3; i++ {
		if !m.RunFrame() {
			t.Fatalf("RunFrame reported CPU error on frame %d", i)
		}
	}

	// Each capture is labelled with the frame the clock has just advanced
	// to, so three frames leave captures for frames 1, 2 and 3.
	ok, err := m.RewindTo(1)
	if err != nil {
		t.Fatalf("RewindTo: %v", err)
	}
	if !ok {
		t.Fatalf("expected RewindTo to find a captured frame")
	}
}

// TestRewindDisabledByDefault confirms a zero RewindCapacity leaves rewind
// off, matching Config's documented zero value.
func TestRewindDisabledByDefault(t *testing.T) {
	m, _ := newTestMachine(t)
	ok, err := m.RewindTo(0)
	if err != nil {
		t.Fatalf("RewindTo: %v", err)
	}
	if ok {
		t.Fatalf("expected RewindTo to report false with no rewind history configured")
	}
}
