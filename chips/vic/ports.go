package vic

// Memory is the 64KiB address space as VIC-II sees it through its own bank
// (bits 0-1 of CIA2 PRA select which 16KiB bank VIC reads, spec §4.6):
// plain RAM everywhere except where character ROM or Ultimax cartridge ROM
// is banked in. The arena supplies this view; VIC never touches the CPU's
// processor-port banking directly.
type Memory interface {
	VICPeek(addr uint16) uint8
}

// CPU is the small slice of the host CPU contract chips/vic needs: the
// interrupt line and the BA ("bus available") stall signal.
type CPU interface {
	PullDownIRQLine(source int)
	ReleaseIRQLine(source int)

	// SetBALow raises or lowers the BA line; the CPU observes three low
	// cycles before a stall completes (spec §4.1 "BA/AEC stall contract").
	SetBALow(low bool)
}

// LightPen reports the falling-edge trigger used to latch $D013/$D014.
type LightPen interface {
	Triggered() (x, y int, ok bool)
}

// MessageQueue is the subset of emucollab.MessageQueue VIC needs to report
// PAL/NTSC switches (spec §3.1 "Message queue").
type MessageQueue interface {
	Put(msgType int, data int)
}

// ExpansionPort is consulted for Ultimax-mode memory source decisions
// (SPEC_FULL.md §4.3 "Ultimax-mode memory source table").
type ExpansionPort interface {
	PeekROMH(addr uint16) (value uint8, mapped bool)
	GameLine() bool
	ExromLine() bool
}

// memSrc identifies where a VIC c/g-access should be satisfied from,
// grounded on VICII.h's `MemoryType memSrc[16]` table (SPEC_FULL.md §4.3).
type memSrc int

const (
	srcRAM memSrc = iota
	srcCharROM
	srcUltimaxROMH
)
