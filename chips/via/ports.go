package via

// Kind distinguishes VIA1 (drive-side serial IEC interface, ATN handshake)
// from VIA2 (parallel head data, stepper/motor/LED, SYNC/write-protect
// sense), per spec §4.5.
type Kind int

const (
	Kind1 Kind = iota
	Kind2
)

// IECLine is VIA1's collaborator: port B bits 0-3 drive/sense the serial
// bus (DATA in/out, CLOCK in/out), port B bit 7 carries ATN in, mirroring
// original_source/C64/VIA6522.cpp's VIA1::peek(0x0)/poke(0x0).
type IECLine interface {
	ClockLine() bool
	DataLine() bool
	AtnLine() bool
	UpdateDevicePins(orb, ddrb uint8)
}

// Floppy is VIA2's collaborator: the stepper motor, spindle motor, LED,
// write-protect sense and SYNC-mark sense exposed by the drive and disk
// model, mirroring original_source/C64/VIA6522.cpp's VIA2::poke(0x0)/peek(0x0).
type Floppy interface {
	MoveHeadUp()
	MoveHeadDown()
	StartRotating()
	StopRotating()
	ActivateRedLED()
	DeactivateRedLED()
	WriteProtected() bool
	SyncMark() bool
}

// DriveCPU receives the byte-ready (SetOverflow) and IRQ signals a VIA
// raises toward the drive's own 6502, per emucollab.DriveCPU.
type DriveCPU interface {
	SetOverflow()
	PullDownIRQLine(source int)
	ReleaseIRQLine(source int)
}

// IRQ sources local to the drive's two VIAs, passed to DriveCPU.
const (
	IRQSourceVIA1 = iota
	IRQSourceVIA2
	IRQSourceATN
)
