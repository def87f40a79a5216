// Package machine implements the clock and bus arbiter of spec §4.1: the
// single owner of every chip instance (the "arena"), advancing them one
// system cycle at a time in the fixed per-cycle order of spec §5 (VIC,
// CIA1, CIA2, IEC bus update, CPU, drives, datasette). Grounded on the
// teacher's hardware/vcs.go videoCycle phase-ordered stepping, generalized
// from "TIA, RIOT, CPU" to "VIC, two CIAs, CPU, up to two drives".
package machine

import (
	"sync"

	"github.com/bsvec/virtualc64/busclock"
	"github.com/bsvec/virtualc64/busio"
	"github.com/bsvec/virtualc64/chips/cia"
	"github.com/bsvec/virtualc64/chips/vic"
	"github.com/bsvec/virtualc64/drive"
	"github.com/bsvec/virtualc64/emucollab"
	"github.com/bsvec/virtualc64/logger"
	"github.com/bsvec/virtualc64/machine/limiter"
	"github.com/bsvec/virtualc64/rewind"
	"github.com/bsvec/virtualc64/snapshot"
)

// Config bundles the host-supplied collaborators and chip revisions needed
// to build a Machine, per spec §1 "external collaborators through the
// interfaces of §6" and §6 "Control surface". Audio, Expansion, Datasette,
// LightPen, Keyboard and Queue may all be left nil; Machine degrades
// gracefully (SID reads as silence, no cartridge mapped, no datasette
// sensed, no light pen edges, no keyboard matrix, a private RingQueue).
type Config struct {
	Standard    busclock.Standard
	VICRevision vic.Revision
	CIARevision cia.Revision

	CPU       emucollab.CPU
	Audio     emucollab.AudioSource
	Expansion emucollab.ExpansionPort
	Datasette emucollab.Datasette
	LightPen  emucollab.LightPen
	Keyboard  cia.KeyboardJoystick
	Queue     emucollab.MessageQueue

	// RewindCapacity, when non-zero, enables a rewind history holding up to
	// this many captures, taken every
	// RewindFrequency frames (at least 1).
	RewindCapacity  int
	RewindFrequency uint64
}

// Machine is the arena: the single owner of every chip instance and the
// bus arbiter that advances them one system cycle at a time (spec §4.1, §9
// "arena+indices" design note). No chip holds a back-pointer to Machine or
// to a sibling chip; where one genuinely needs to reach another it does so
// through a small adapter built here (iecadapters.go) or through Memory's
// memDevice hooks.
type Machine struct {
	cfg Config

	clock *busclock.Clock
	limit *limiter.Limiter
	mem   *Memory

	vic  *vic.VIC
	cia1 *cia.CIA
	cia2 *cia.CIA

	iec    *busio.IEC
	ciaIEC *ciaIECAdapter

	drives    [2]*drive.Drive
	driveIECs [2]*driveIECAdapter

	queue *emucollab.RingQueue
	userQ emucollab.MessageQueue

	rw *rewind.Rewind

	warp bool

	mu        sync.Mutex
	cond      *sync.Cond
	suspendCt int
	st        state
}

// New builds a Machine from cfg, constructing VIC, CIA1, CIA2 and the IEC
// bus and wiring them together the way a real C64 logic board does (spec
// §6 memory map, §4.6 IEC wiring). The caller still owns CPU construction
// and memory bank wiring: call AttachMemory to finish hookup once the host
// CPU's bus.CPUBus is ready.
func New(cfg Config) *Machine {
	m := &Machine{cfg: cfg}
	m.clock = busclock.NewClock(cfg.Standard)
	m.limit = limiter.New(float32(busclock.GeometryFor(cfg.Standard).RefreshHz))

	if cfg.Queue != nil {
		m.userQ = cfg.Queue
	} else {
		m.queue = emucollab.NewRingQueue(64)
	}

	m.iec = busio.NewIEC()
	m.ciaIEC = newCIAIECAdapter(m.iec)
	m.iec.AddDevice(m.ciaIEC)

	m.cia1 = cia.NewCIA1(cfg.CPU, cfg.Keyboard, nil)
	_ = m.cia1.Configure(cfg.CIARevision)
	// CIA2 needs a MemoryBankSelector, which only exists once AttachMemory
	// supplies the host Memory; it is constructed there instead of here.

	if cfg.RewindCapacity > 0 {
		m.rw = rewind.New(cfg.RewindCapacity, cfg.RewindFrequency)
	}

	m.cond = sync.NewCond(&m.mu)
	logger.Logf("machine", "new arena: standard %d, VIC rev %s, CIA rev %s", cfg.Standard, cfg.VICRevision, cfg.CIARevision)
	return m
}

// AttachMemory wires the host's 64KiB address space into the arena: VIC's
// banked memory view, the VIC-bank selector CIA2 derives from port A, and
// the VIC/CIA register decode memsel's Read/Write routes through.
func (m *Machine) AttachMemory(mem *Memory) {
	m.mem = mem
	m.vic = vic.New(m.cfg.VICRevision, vicMemoryView{m: mem}, m.cfg.CPU, m.cfg.LightPen, vicQueueAdapter{m}, m.cfg.Expansion)
	mem.vic = &memDevice{
		Peek: func(addr uint16) uint8 { return m.vic.Peek(uint8(addr)) },
		Poke: func(addr uint16, value uint8) { m.vic.Poke(uint8(addr), value) },
	}
	mem.cia1 = &memDevice{Peek: m.cia1.Peek, Poke: m.cia1.Poke}
	mem.SetExpansionPort(m.cfg.Expansion)

	// CIA2 port A bits 0-1 select the VIC bank (spec §6); construction is
	// deferred to here (rather than New) because it needs mem as its
	// MemoryBankSelector.
	m.cia2 = cia.NewCIA2(m.cfg.CPU, m.ciaIEC, mem)
	_ = m.cia2.Configure(m.cfg.CIARevision)
	mem.cia2 = &memDevice{Peek: m.cia2.Peek, Poke: m.cia2.Poke}
}

// vicQueueAdapter narrows emucollab.MessageQueue down to vic.MessageQueue's
// (msgType int, data int) shape.
type vicQueueAdapter struct{ m *Machine }

func (a vicQueueAdapter) Put(msgType int, data int) {
	a.m.post(emucollab.Message{Type: emucollab.MessageType(msgType), Data: data})
}

func (m *Machine) post(msg emucollab.Message) {
	if m.userQ != nil {
		m.userQ.Put(msg)
		return
	}
	m.queue.Put(msg)
}

// Drain returns every message queued since the last call, for a host that
// did not supply its own Config.Queue.
func (m *Machine) Drain() []emucollab.Message {
	if m.queue == nil {
		return nil
	}
	return m.queue.Drain()
}

// AttachDrive installs a VC1541 at the given device number (8 or 9, spec's
// Non-goal cap of two drives), wired to the shared IEC bus.
func (m *Machine) AttachDrive(slot int, cpu emucollab.DriveCPU) *drive.Drive {
	number := drive.Device8
	if slot == 1 {
		number = drive.Device9
	}
	adapter := newDriveIECAdapter(m.iec)
	m.driveIECs[slot] = adapter
	m.iec.AddDevice(adapter)
	d := drive.New(number, cpu, queueOrNil(m), adapter)
	m.drives[slot] = d
	logger.Logf("machine", "attached drive at slot %d (device %d)", slot, number)
	return d
}

func queueOrNil(m *Machine) emucollab.MessageQueue {
	if m.userQ != nil {
		return m.userQ
	}
	return m.queue
}

// VIC, CIA1, CIA2, IEC, Clock and Drive expose the constructed chips for
// tests, diagnostics and the snapshot/rewind wiring.
func (m *Machine) VIC() *vic.VIC                { return m.vic }
func (m *Machine) CIA1() *cia.CIA               { return m.cia1 }
func (m *Machine) CIA2() *cia.CIA               { return m.cia2 }
func (m *Machine) IEC() *busio.IEC              { return m.iec }
func (m *Machine) Clock() *busclock.Clock       { return m.clock }
func (m *Machine) Drive(slot int) *drive.Drive  { return m.drives[slot] }
func (m *Machine) Memory() *Memory              { return m.mem }

// SetWarp toggles warp-mode pacing (spec §9 "Warp-mode pacing"): when true,
// RunFrame never blocks on the limiter.
func (m *Machine) SetWarp(on bool) {
	m.warp = on
	m.limit.Active = !on
}

// Warp reports the current warp-mode state.
func (m *Machine) Warp() bool { return m.warp }

// ExecuteOneCycle advances the global cycle by one, per spec §4.1: phi1
// (VIC, then each CIA unless asleep, then the IEC bus if dirty) followed
// by phi2 (host CPU, then each attached drive, then the datasette). It
// returns false if the host CPU reported a breakpoint or fatal decode
// error, matching spec §4.1's "returns a status indicating whether the
// guest CPU hit an error/breakpoint".
func (m *Machine) ExecuteOneCycle() bool {
	cycle := m.clock.Cycle

	// phi1: VIC owns the bus.
	m.vic.ExecuteOneCycle()

	for _, c := range [2]*cia.CIA{m.cia1, m.cia2} {
		if asleep, _ := c.Asleep(cycle); asleep {
			c.SkipCycle()
			continue
		}
		c.ExecuteOneCycle(cycle)
	}

	m.iec.Recompute()

	// phi2: CPU owns the bus.
	ok := m.cfg.CPU.ExecuteCycle()

	for _, d := range m.drives {
		if d != nil {
			d.AdvanceCycle()
		}
	}
	if m.cfg.Datasette != nil {
		m.cfg.Datasette.AdvanceCycle()
	}

	if m.clock.AdvanceCycle() {
		m.endOfFrame()
	}

	return ok
}

// endOfFrame implements spec §4.1's "Frame boundary": TOD ticks, audio
// catches up, and (unless warp mode) the limiter paces to the next
// deadline.
func (m *Machine) endOfFrame() {
	m.cia1.IncrementTOD()
	m.cia2.IncrementTOD()
	if m.cfg.Audio != nil {
		m.cfg.Audio.CatchUp(m.clock.Cycle)
	}
	if m.rw != nil {
		m.rw.Push(m.clock.Frame, m.Save(nil))
	}
	m.limit.CheckFrame()
	m.limit.MeasureActual()
}

// RewindTo restores the nearest captured state at or before frame, when a
// rewind history was enabled via Config.RewindCapacity. It reports false if
// no rewind history is configured or nothing has been captured yet.
func (m *Machine) RewindTo(frame uint64) (bool, error) {
	if m.rw == nil {
		return false, nil
	}
	entry, ok := m.rw.Nearest(frame)
	if !ok {
		return false, nil
	}
	if err := m.Load(entry.Blob); err != nil {
		return false, err
	}
	logger.Logf("machine", "rewound to frame %d (requested %d)", entry.Frame, frame)
	return true, nil
}

// RunFrame executes cycles until one full frame has elapsed (spec §8
// testable property 1: "advancing exactly cycles_per_frame cycles produces
// one VSYNC message"), cooperatively checking for a pending Suspend at
// every cycle boundary (spec §5).
func (m *Machine) RunFrame() bool {
	startFrame := m.clock.Frame
	for m.clock.Frame == startFrame {
		if m.waitIfSuspended() == stateEnding {
			return true
		}
		if !m.ExecuteOneCycle() {
			return false
		}
	}
	return true
}

// waitIfSuspended blocks while the governing state is stateSuspended and
// returns the state once it changes, per the teacher's debugger/govern
// pattern of checking state at a cycle boundary rather than mid-cycle.
func (m *Machine) waitIfSuspended() state {
	m.mu.Lock()
	defer m.mu.Unlock()
	for m.st == stateSuspended {
		m.cond.Wait()
	}
	return m.st
}

// Suspend pauses the frame loop at the next cycle boundary (spec §5): a
// counting request so nested Suspend/Resume pairs from multiple callers
// compose correctly. The emulator is safe to inspect and mutate (register
// writes, disk insertion, snapshot load) once Suspend returns control to
// the caller and RunFrame is blocked in waitIfSuspended.
func (m *Machine) Suspend() {
	m.mu.Lock()
	m.suspendCt++
	if m.st == stateRunning {
		m.st = stateSuspended
	}
	m.mu.Unlock()
}

// Resume decrements the suspend counter and restarts the loop once it
// reaches zero.
func (m *Machine) Resume() {
	m.mu.Lock()
	if m.suspendCt > 0 {
		m.suspendCt--
	}
	if m.suspendCt == 0 && m.st == stateSuspended {
		m.st = stateRunning
		m.cond.Broadcast()
	}
	m.mu.Unlock()
}

// Stop ends the frame loop permanently (e.g. on host shutdown); unlike
// Suspend this is not resumable.
func (m *Machine) Stop() {
	m.mu.Lock()
	m.st = stateEnding
	m.cond.Broadcast()
	m.mu.Unlock()
}

// Reset restores power-on state across every owned chip. The drive is
// reset independently (spec §3 "the drive is reset at a different logical
// time than the host"); callers reset attached drives themselves via
// Drive(slot).Reset().
func (m *Machine) Reset() {
	m.clock.Reset()
	m.vic.Reset()
	m.cia1.Reset()
	m.cia2.Reset()
	logger.Log("machine", "reset")
}

// Components returns every snapshot.Component this arena owns, in the
// fixed order spec §4.7 requires ("serialised in a fixed order (no
// reflection)"): clock, memory, VIC, CIA1, CIA2, then each attached
// drive's VIAs and drive state.
func (m *Machine) Components() []snapshot.Component {
	comps := []snapshot.Component{m.clock, m.mem, m.vic, m.cia1, m.cia2}
	for _, d := range m.drives {
		if d != nil {
			comps = append(comps, d.VIA1(), d.VIA2(), d)
		}
	}
	return comps
}

// Save captures the current state as a snapshot blob (spec §4.7, §6).
func (m *Machine) Save(screenshot []byte) []byte {
	return snapshot.Save(m.Components(), screenshot)
}

// Load restores state from a snapshot blob captured by Save. Per spec §7,
// the caller must Suspend the machine first; Load validates the header
// before mutating any component and rolls every component back if a record
// fails to restore, so a failed Load leaves the previous state in place.
func (m *Machine) Load(blob []byte) error {
	return snapshot.Load(blob, m.Components())
}
