package machine

import "github.com/bsvec/virtualc64/busio"

// ciaIECAdapter bridges CIA2's cia.IECLine contract onto the shared
// busio.IEC bus. CIA2 port A bits 3-5 are wired to the IEC bus through
// inverting buffers on the real board (original_source/C64/CIA.cpp:
// "Bits 3 to 5 of PA are connected to the IEC bus"), so a latched bit of 1
// on an output-enabled pin pulls the corresponding line low.
type ciaIECAdapter struct {
	bus *busio.IEC

	latch, ddr uint8
}

const (
	ciaPinATN  = 1 << 3
	ciaPinCLK  = 1 << 4
	ciaPinDATA = 1 << 5
)

func newCIAIECAdapter(bus *busio.IEC) *ciaIECAdapter {
	return &ciaIECAdapter{bus: bus}
}

func (a *ciaIECAdapter) ClockLine() bool { return a.bus.ClockLine() }
func (a *ciaIECAdapter) DataLine() bool  { return a.bus.DataLine() }

// UpdateCIAPins is called by CIA2 whenever port A (or its data direction
// register) changes, per cia.IECLine.
func (a *ciaIECAdapter) UpdateCIAPins(latch, ddr uint8) {
	a.latch, a.ddr = latch, ddr
	a.bus.MarkDirty()
}

func (a *ciaIECAdapter) drives(pin uint8) bool {
	return a.ddr&pin != 0 && a.latch&pin != 0
}

func (a *ciaIECAdapter) DrivesATN() bool  { return a.drives(ciaPinATN) }
func (a *ciaIECAdapter) DrivesCLK() bool  { return a.drives(ciaPinCLK) }
func (a *ciaIECAdapter) DrivesDATA() bool { return a.drives(ciaPinDATA) }

// driveIECAdapter bridges a VC1541's via.IECLine contract onto the shared
// bus. VIA1 port B bits 1/3 are DATA OUT/CLK OUT (original_source/C64/
// VIA6522.cpp's VIA1::peek(0x0) comment block); the drive never drives ATN.
type driveIECAdapter struct {
	bus *busio.IEC

	orb, ddrb uint8
}

const (
	viaPinDataOut = 1 << 1
	viaPinClkOut  = 1 << 3
)

func newDriveIECAdapter(bus *busio.IEC) *driveIECAdapter {
	return &driveIECAdapter{bus: bus}
}

func (a *driveIECAdapter) ClockLine() bool { return a.bus.ClockLine() }
func (a *driveIECAdapter) DataLine() bool  { return a.bus.DataLine() }
func (a *driveIECAdapter) AtnLine() bool   { return a.bus.AtnLine() }

// UpdateDevicePins is called by VIA1 whenever port B (or its data
// direction register) changes, per via.IECLine.
func (a *driveIECAdapter) UpdateDevicePins(orb, ddrb uint8) {
	a.orb, a.ddrb = orb, ddrb
	a.bus.MarkDirty()
}

func (a *driveIECAdapter) drives(pin uint8) bool {
	return a.ddrb&pin != 0 && a.orb&pin != 0
}

func (a *driveIECAdapter) DrivesATN() bool  { return false }
func (a *driveIECAdapter) DrivesCLK() bool  { return a.drives(viaPinClkOut) }
func (a *driveIECAdapter) DrivesDATA() bool { return a.drives(viaPinDataOut) }
