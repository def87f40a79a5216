package cia

// KeyboardJoystick is CIA1's collaborator for data ports A/B: the keyboard
// matrix scan and the two digital joysticks, combined the way the real
// hardware ANDs them onto the same eight lines (original_source/C64/
// CIA.cpp::CIA1::peekDataPortA/B).
type KeyboardJoystick interface {
	// ColumnValues returns the AND of every keyboard column whose row line
	// in rows is pulled low.
	ColumnValues(rows uint8) uint8
	// RowValues returns the AND of every keyboard row whose column line in
	// columns is pulled low.
	RowValues(columns uint8) uint8
	JoystickA() uint8
	JoystickB() uint8
}

// LightPenNotifier receives an edge on CIA1 port B bit 4, the C64's wiring
// of the light pen trigger line.
type LightPenNotifier interface {
	TriggerLightPenInterrupt()
}

// IECLine is CIA2's collaborator for the serial bus: port A bits 6/7 read
// the open-collector CLOCK/DATA lines, and writes to port A (or its data
// direction register) drive them back out.
type IECLine interface {
	ClockLine() bool
	DataLine() bool
	UpdateCIAPins(latch, ddr uint8)
}

// MemoryBankSelector receives the VIC-II bank selection CIA2 derives from
// port A bits 0-1 (original_source/C64/CIA.cpp::CIA2::pokeDataPortA).
type MemoryBankSelector interface {
	SetMemoryBankAddr(addr uint16)
}
