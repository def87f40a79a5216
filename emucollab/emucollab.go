// Package emucollab defines the interfaces this core expects its external
// collaborators to implement: the host and drive CPU cores, the SID audio
// source, the cartridge expansion port, the datasette, the light pen, and
// the host message queue. None of these are implemented here (spec §1 lists
// them as out of scope); this package exists so the in-scope components can
// be written, compiled, and tested against a stable contract.
package emucollab

// CPU is the host 6510 (or a drive's 6502) core. The arena advances it one
// cycle at a time from within ExecuteOneCycle; it is never called
// concurrently with chip state mutation.
type CPU interface {
	// ExecuteCycle runs one clock cycle of CPU activity and reports whether
	// the CPU hit a breakpoint or fatal decode error.
	ExecuteCycle() (ok bool)

	// PullDownIRQLine and ReleaseIRQLine implement the "lowest priority OR"
	// interrupt aggregation of spec §9: every source calls one of these with
	// its own identity; the CPU ORs all currently-pulled sources together.
	PullDownIRQLine(source int)
	ReleaseIRQLine(source int)

	PullDownNMILine(source int)
	ReleaseNMILine(source int)

	// SetOverflow is asserted by VIA2's byte-ready signal (spec §4.4).
	SetOverflow()

	// SetBALow raises or lowers the BA ("bus available") line VIC pulls to
	// request the bus in phi2 (spec §4.1 "BA/AEC stall contract"); the CPU
	// observes three consecutive low cycles before it must yield.
	SetBALow(low bool)
}

// DriveCPU is the second 6502 inside the VC1541, advanced independently of
// the host CPU at the drive's own (slightly different) clock rate.
type DriveCPU interface {
	ExecuteCycle() (ok bool)
	PullDownIRQLine(source int)
	ReleaseIRQLine(source int)

	// SetOverflow is asserted by VIA2's byte-ready signal (spec §4.4), the
	// drive's own 6502 overflow flag rather than the host's.
	SetOverflow()
}

// AudioSource is the SID synthesiser. Out of scope to implement (spec §1);
// this core only needs to know how to ask it to catch up to the current
// cycle at the frame boundary (spec §4.1).
type AudioSource interface {
	CatchUp(cycle uint64)
}

// ExpansionPort is the cartridge contract named (but not detailed) by
// spec §1/§4.3, shaped after original_source/C64/ExpansionPort.h.
type ExpansionPort interface {
	PeekROML(addr uint16) (value uint8, mapped bool)
	PeekROMH(addr uint16) (value uint8, mapped bool)
	PeekIO1(addr uint16) (value uint8, mapped bool)
	PeekIO2(addr uint16) (value uint8, mapped bool)

	// GameLine and ExromLine report the cartridge's control lines. Both
	// high (true) means no cartridge / Ultimax inactive.
	GameLine() bool
	ExromLine() bool
}

// Datasette is the tape collaborator named in spec §4.1 ("the tape
// datasette advances") but never detailed further; out of scope to
// implement, since no tape file format is in this core's scope.
type Datasette interface {
	AdvanceCycle()
	Sense() bool
}

// LightPen reports edge transitions on the light pen input, consumed by
// chips/vic's lightpen latch logic.
type LightPen interface {
	// Triggered reports whether a falling edge has occurred since the last
	// call and, if so, the raster coordinate at which it occurred.
	Triggered() (x, y int, ok bool)
}

// MessageType identifies the kind of message placed on a MessageQueue.
type MessageType int

const (
	MsgReadyToRun MessageType = iota
	MsgPALSwitch
	MsgNTSCSwitch
	MsgDiskInserted
	MsgDiskEjected
	MsgHeadMoved
	MsgMotorOn
	MsgMotorOff
	MsgWriteProtect
	MsgVSync
)

// Interrupt source identifiers passed to CPU.PullDownIRQLine/ReleaseIRQLine
// and PullDownNMILine/ReleaseNMILine, so the host CPU can OR together
// multiple chips pulling the same shared line without losing track of which
// ones are currently asserting it (spec §9 "lowest priority OR").
const (
	IRQSourceCIA1 = iota
	IRQSourceVIC
)

const (
	NMISourceCIA2 = iota
	NMISourceRestoreKey
)

// Message is one entry on the bounded message queue of spec §5.
type Message struct {
	Type MessageType
	Data int
}

// MessageQueue is a bounded (capacity 64, spec §5) ring buffer to the host
// GUI. On overflow the oldest message is dropped.
type MessageQueue interface {
	Put(msg Message)
}
