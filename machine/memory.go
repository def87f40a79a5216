package machine

import (
	"github.com/bsvec/virtualc64/bus"
	"github.com/bsvec/virtualc64/emucollab"
)

// Memory is the host 64KiB address space: flat RAM plus the ROM/IO overlay
// selected by the $0001 processor port (spec §6 "Memory map (CPU)"). It
// implements bus.CPUBus for the host CPU collaborator and, through
// vicMemoryView, the 16KiB banked view chips/vic expects. Callers build a
// Memory, hand it to their own CPU implementation as a bus.CPUBus, and pass
// the same Memory to Machine.AttachMemory.
type Memory struct {
	ram      [65536]byte
	colorRAM [1024]byte

	basicROM  []byte // 8KiB, may be nil
	kernalROM []byte // 8KiB, may be nil
	charROM   []byte // 4KiB, may be nil

	ddr  uint8 // direction register at $0000
	port uint8 // latched value at $0001
	bank uint16

	vic       *memDevice
	cia1      *memDevice
	cia2      *memDevice
	expansion emucollab.ExpansionPort
}

// memDevice is the minimal subset of bus.ChipBus-adjacent behaviour the
// arbiter needs from VIC/CIA: the register Peek/Poke closures that
// AttachMemory installs, so Memory never holds the chip types itself.
type memDevice struct {
	Peek func(addr uint16) uint8
	Poke func(addr uint16, value uint8)
}

func NewMemory() *Memory {
	m := &Memory{ddr: 0x2F, port: 0x37}
	return m
}

// SetBasicROM, SetKernalROM and SetCharROM install the fixed ROM images;
// spec.md's Non-goals place ROM image provenance out of scope, so these are
// simple setters the host application calls after loading whatever ROM
// bytes it has rights to distribute.
func (m *Memory) SetBasicROM(rom []byte)  { m.basicROM = rom }
func (m *Memory) SetKernalROM(rom []byte) { m.kernalROM = rom }
func (m *Memory) SetCharROM(rom []byte)   { m.charROM = rom }

// SetExpansionPort attaches a cartridge; nil detaches it.
func (m *Memory) SetExpansionPort(e emucollab.ExpansionPort) { m.expansion = e }

func (m *Memory) loram() bool  { return m.port&bus.LORAM != 0 }
func (m *Memory) hiram() bool  { return m.port&bus.HIRAM != 0 }
func (m *Memory) charen() bool { return m.port&bus.CHAREN != 0 }

// Read implements bus.CPUBus.
func (m *Memory) Read(addr uint16) uint8 {
	switch addr {
	case 0x0000:
		return m.ddr
	case 0x0001:
		return m.port
	}

	switch {
	case addr >= bus.BasicBase && addr <= bus.BasicEnd && m.loram() && m.hiram() && m.basicROM != nil:
		return m.basicROM[addr-bus.BasicBase]
	case addr >= bus.KernalBase && addr <= bus.KernalEnd && m.hiram() && m.kernalROM != nil:
		return m.kernalROM[addr-bus.KernalBase]
	case addr >= bus.VICBase && addr <= 0xDFFF && m.charen() && (m.loram() || m.hiram()):
		return m.readIO(addr)
	case addr >= bus.CharROMLo && addr <= bus.CharROMHi && !m.charen() && (m.loram() || m.hiram()) && m.charROM != nil:
		return m.charROM[addr-bus.CharROMLo]
	}
	return m.ram[addr]
}

func (m *Memory) readIO(addr uint16) uint8 {
	switch {
	case addr >= bus.VICBase && addr <= bus.VICEnd:
		if m.vic != nil {
			return m.vic.Peek((addr - bus.VICBase) % bus.VICMirror)
		}
	case addr >= bus.SIDBase && addr <= bus.SIDEnd:
		return 0xFF // SID is out of scope (emucollab.AudioSource has no Peek contract)
	case addr >= bus.ColorRAMBase && addr <= bus.ColorRAMEnd:
		return m.colorRAM[addr-bus.ColorRAMBase] & 0x0F
	case addr >= bus.CIA1Base && addr <= bus.CIA1End:
		if m.cia1 != nil {
			return m.cia1.Peek((addr - bus.CIA1Base) & 0x0F)
		}
	case addr >= bus.CIA2Base && addr <= bus.CIA2End:
		if m.cia2 != nil {
			return m.cia2.Peek((addr - bus.CIA2Base) & 0x0F)
		}
	case addr >= bus.CartIO1Base && addr <= bus.CartIO1End:
		if m.expansion != nil {
			if v, ok := m.expansion.PeekIO1(addr); ok {
				return v
			}
		}
	case addr >= bus.CartIO2Base && addr <= bus.CartIO2End:
		if m.expansion != nil {
			if v, ok := m.expansion.PeekIO2(addr); ok {
				return v
			}
		}
	}
	return 0xFF
}

// Write implements bus.CPUBus.
func (m *Memory) Write(addr uint16, value uint8) {
	switch addr {
	case 0x0000:
		m.ddr = value
		return
	case 0x0001:
		m.port = (m.port &^ m.ddr) | (value & m.ddr)
		return
	}

	if addr >= bus.VICBase && addr <= 0xDFFF && m.charen() && (m.loram() || m.hiram()) {
		m.writeIO(addr, value)
		return
	}
	m.ram[addr] = value
}

func (m *Memory) writeIO(addr uint16, value uint8) {
	switch {
	case addr >= bus.VICBase && addr <= bus.VICEnd:
		if m.vic != nil {
			m.vic.Poke((addr-bus.VICBase)%bus.VICMirror, value)
		}
	case addr >= bus.ColorRAMBase && addr <= bus.ColorRAMEnd:
		m.colorRAM[addr-bus.ColorRAMBase] = value & 0x0F
	case addr >= bus.CIA1Base && addr <= bus.CIA1End:
		if m.cia1 != nil {
			m.cia1.Poke((addr-bus.CIA1Base)&0x0F, value)
		}
	case addr >= bus.CIA2Base && addr <= bus.CIA2End:
		if m.cia2 != nil {
			m.cia2.Poke((addr-bus.CIA2Base)&0x0F, value)
		}
	}
}

// Peek and Poke are the debugger-safe equivalents; this core has no
// side-effecting Read path of its own (unlike the CIA ICR race), so they
// delegate straight through.
func (m *Memory) Peek(addr uint16) uint8        { return m.Read(addr) }
func (m *Memory) Poke(addr uint16, value uint8) { m.Write(addr, value) }

// SetMemoryBankAddr implements cia.MemoryBankSelector.
func (m *Memory) SetMemoryBankAddr(addr uint16) { m.bank = addr }

// vicMemoryView adapts memory to the 16KiB banked window chips/vic expects
// (vic.Memory), including the character ROM shadow visible at bank-relative
// $1000-$1FFF in banks 0 and 2 on real hardware.
type vicMemoryView struct{ m *Memory }

func (v vicMemoryView) VICPeek(addr uint16) uint8 {
	full := v.m.bank + (addr & 0x3FFF)
	if v.m.charROM != nil && full&0x7000 == 0x1000 {
		return v.m.charROM[full&0x0FFF]
	}
	return v.m.ram[full]
}
