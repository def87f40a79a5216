// Package cia implements the MOS 6526 Complex Interface Adapter: the pair
// of chips that give the C64 its timers, TOD clock, serial shift register
// and parallel I/O ports. Two instances exist in a real machine (CIA1 for
// the keyboard/joystick/IRQ, CIA2 for the serial bus/VIC banking/NMI); both
// are modeled by the same CIA type, parameterized by Kind.
package cia

import (
	"github.com/bsvec/virtualc64/bus"
	"github.com/bsvec/virtualc64/emucollab"
)

// Kind distinguishes CIA1 (keyboard/joystick, drives the host IRQ line)
// from CIA2 (IEC/VIC bank, drives the host NMI line).
type Kind int

const (
	Kind1 Kind = iota
	Kind2
)

// CIA is the MOS 6526, generalized over Kind the way the teacher
// generalizes a single VIA implementation over two drive sockets.
type CIA struct {
	kind     Kind
	revision Revision
	cpu      emucollab.CPU
	tod      *TOD

	pipeline Pipeline

	counterA, latchA uint16
	counterB, latchB uint16

	cra, crb uint8
	icr, imr uint8

	pb67TimerMode uint8
	pb67TimerOut  uint8
	pb67Toggle    uint8

	paLatch, pbLatch uint8
	ddrA, ddrB       uint8
	pa, pb           uint8

	sdr        uint8
	serCounter uint8

	cnt         bool
	intAsserted bool
	tiredness   int

	// wakeUpCycle and idleCycles implement the sleep/wake idle-skip
	// contract of spec §4.2: the arena may stop calling ExecuteOneCycle
	// once Asleep reports true, accumulating skipped cycles via SkipCycle
	// instead; WakeUp then folds all of them into the running timers in a
	// single step, exactly as original_source/C64/CIA.cpp::wakeUp does.
	wakeUpCycle uint64
	idleCycles  uint64

	keyboard KeyboardJoystick
	lightPen LightPenNotifier
	iec      IECLine
	bank     MemoryBankSelector
}

// NewCIA1 creates the keyboard/joystick CIA. keyboard and lightPen may be
// nil in contexts (such as unit tests) that never touch ports A/B.
func NewCIA1(cpu emucollab.CPU, keyboard KeyboardJoystick, lightPen LightPenNotifier) *CIA {
	c := &CIA{kind: Kind1, cpu: cpu, tod: newTOD(), keyboard: keyboard, lightPen: lightPen}
	c.Reset()
	return c
}

// NewCIA2 creates the serial-bus/VIC-bank CIA.
func NewCIA2(cpu emucollab.CPU, iec IECLine, bank MemoryBankSelector) *CIA {
	c := &CIA{kind: Kind2, cpu: cpu, tod: newTOD(), iec: iec, bank: bank}
	c.Reset()
	return c
}

// Reset restores power-on state (original_source/C64/CIA.cpp::CIA::reset).
func (c *CIA) Reset() {
	c.pipeline = Pipeline{}
	c.counterA, c.latchA = 0, 0xFFFF
	c.counterB, c.latchB = 0, 0xFFFF
	c.cra, c.crb = 0, 0
	c.icr, c.imr = 0, 0
	c.pb67TimerMode, c.pb67TimerOut, c.pb67Toggle = 0, 0, 0
	c.paLatch, c.pbLatch = 0, 0
	c.ddrA, c.ddrB = 0, 0
	c.pa, c.pb = 0xFF, 0xFF
	c.sdr, c.serCounter = 0, 0
	c.cnt = true
	c.intAsserted = false
	c.tiredness = 0
	c.wakeUpCycle = 0
	c.idleCycles = 0
	c.tod.reset()
}

// SetCNT drives the CNT input pin, used for externally-clocked timer modes
// and the serial shift register's handshake with the drive-side hardware.
func (c *CIA) SetCNT(level bool) { c.cnt = level }

func (c *CIA) pullDownInterrupt() {
	c.intAsserted = true
	if c.kind == Kind1 {
		c.cpu.PullDownIRQLine(emucollab.IRQSourceCIA1)
	} else {
		c.cpu.PullDownNMILine(emucollab.NMISourceCIA2)
	}
}

func (c *CIA) releaseInterrupt() {
	c.intAsserted = false
	if c.kind == Kind1 {
		c.cpu.ReleaseIRQLine(emucollab.IRQSourceCIA1)
	} else {
		c.cpu.ReleaseNMILine(emucollab.NMISourceCIA2)
	}
}

// TriggerFallingEdgeOnFlagPin is wired to the drive's byte-ready signal
// (CIA2) or a cassette read pulse (CIA1).
func (c *CIA) TriggerFallingEdgeOnFlagPin() {
	c.icr |= 0x10
	if c.imr&0x10 != 0 {
		c.intAsserted = false
		c.icr |= 0x80
		c.pullDownInterrupt()
	}
}

// TriggerRisingEdgeOnFlagPin exists for symmetry with the falling-edge
// handler; the real 6526 ignores rising edges on FLAG entirely.
func (c *CIA) TriggerRisingEdgeOnFlagPin() {}

func (c *CIA) updatePB() {
	c.pb = ((c.pbLatch | ^c.ddrB) &^ c.pb67TimerMode) | (c.pb67TimerOut & c.pb67TimerMode)
}

// Peek reads a CIA register, matching original_source/C64/CIA.cpp::peek.
func (c *CIA) Peek(addr uint16) uint8 {
	c.WakeUp()

	switch bus.CIARegister(addr & 0x0F) {
	case bus.PRA:
		return c.peekDataPortA()
	case bus.PRB:
		return c.peekDataPortB()
	case bus.DDRA:
		return c.ddrA
	case bus.DDRB:
		return c.ddrB
	case bus.TALo:
		return uint8(c.counterA)
	case bus.TAHi:
		return uint8(c.counterA >> 8)
	case bus.TBLo:
		return uint8(c.counterB)
	case bus.TBHi:
		return uint8(c.counterB >> 8)
	case bus.TODTenths:
		v := c.tod.GetTenths()
		c.tod.ReadTenths()
		return v
	case bus.TODSeconds:
		return c.tod.GetSeconds()
	case bus.TODMinutes:
		return c.tod.GetMinutes()
	case bus.TODHours:
		return c.tod.GetHours()
	case bus.SDR:
		return c.sdr
	case bus.ICR:
		result := c.icr
		if c.intAsserted {
			c.intAsserted = false
			c.releaseInterrupt()
		}
		c.pipeline.ClearDelay(Interrupt0 | Interrupt1)
		c.icr &= 0x80
		c.pipeline.SetDelay(ClearIcr0 | ReadIcr0)
		return result
	case bus.CRA:
		return c.cra &^ 0x10
	case bus.CRB:
		return c.crb &^ 0x10
	}
	return 0
}

func (c *CIA) peekDataPortA() uint8 {
	if c.kind == Kind1 {
		result := c.pa
		if c.keyboard != nil {
			rows := c.pb & c.keyboard.JoystickA()
			columnBits := c.keyboard.ColumnValues(rows)
			result &= c.keyboard.JoystickB()
			result &= columnBits
		}
		return result
	}
	result := c.pa & 0x3F
	if c.iec != nil {
		if c.iec.ClockLine() {
			result |= 0x40
		}
		if c.iec.DataLine() {
			result |= 0x80
		}
	}
	return result
}

func (c *CIA) peekDataPortB() uint8 {
	if c.kind == Kind1 {
		result := c.pb
		if c.keyboard != nil {
			columns := c.pa & c.keyboard.JoystickB()
			rowBits := c.keyboard.RowValues(columns)
			result &= c.keyboard.JoystickA()
			result &= rowBits
		}
		return result
	}
	return c.pb
}

// Poke writes a CIA register, matching original_source/C64/CIA.cpp::poke.
func (c *CIA) Poke(addr uint16, value uint8) {
	c.WakeUp()

	switch bus.CIARegister(addr & 0x0F) {
	case bus.PRA:
		c.pokeDataPortA(value)
	case bus.PRB:
		c.pokeDataPortB(value)
	case bus.DDRA:
		c.pokeDataDirectionA(value)
	case bus.DDRB:
		c.pokeDataDirectionB(value)
	case bus.TALo:
		c.latchA = (c.latchA & 0xFF00) | uint16(value)
		if c.pipeline.Has(LoadA2) {
			c.counterA = (c.counterA & 0xFF00) | uint16(value)
		}
	case bus.TAHi:
		c.latchA = (uint16(value) << 8) | (c.latchA & 0x00FF)
		if c.pipeline.Has(LoadA2) {
			c.counterA = (uint16(value) << 8) | (c.counterA & 0x00FF)
		}
		if c.cra&0x01 == 0 {
			c.pipeline.SetDelay(LoadA0)
		}
	case bus.TBLo:
		c.latchB = (c.latchB & 0xFF00) | uint16(value)
		if c.pipeline.Has(LoadB2) {
			c.counterB = (c.counterB & 0xFF00) | uint16(value)
		}
	case bus.TBHi:
		c.latchB = (uint16(value) << 8) | (c.latchB & 0x00FF)
		if c.pipeline.Has(LoadB2) {
			c.counterB = (uint16(value) << 8) | (c.counterB & 0x00FF)
		}
		if c.crb&0x01 == 0 {
			c.pipeline.SetDelay(LoadB0)
		}
	case bus.TODTenths:
		if c.crb&0x80 != 0 {
			c.tod.SetAlarmTenths(value)
		} else {
			c.tod.SetTenths(value)
		}
		c.checkTODInterrupt()
	case bus.TODSeconds:
		if c.crb&0x80 != 0 {
			c.tod.SetAlarmSeconds(value)
		} else {
			c.tod.SetSeconds(value)
		}
		c.checkTODInterrupt()
	case bus.TODMinutes:
		if c.crb&0x80 != 0 {
			c.tod.SetAlarmMinutes(value)
		} else {
			c.tod.SetMinutes(value)
		}
		c.checkTODInterrupt()
	case bus.TODHours:
		if c.crb&0x80 != 0 {
			c.tod.SetAlarmHours(value)
		} else {
			c.tod.SetHours(value)
		}
		c.checkTODInterrupt()
	case bus.SDR:
		c.sdr = value
		c.pipeline.SetDelay(SerLoad0)
		c.pipeline.SetFeed(SerLoad0)
	case bus.ICR:
		c.pokeICR(value)
	case bus.CRA:
		c.pokeCRA(value)
	case bus.CRB:
		c.pokeCRB(value)
	}
}

func (c *CIA) pokeDataPortA(value uint8) {
	c.paLatch = value
	c.pa = c.paLatch | ^c.ddrA
	if c.kind == Kind2 {
		c.applyCIA2PortA()
	}
}

func (c *CIA) pokeDataPortB(value uint8) {
	pbOld := c.pb
	c.pbLatch = value
	c.updatePB()
	if c.kind == Kind1 && (pbOld&0x10) != (c.pb&0x10) && c.lightPen != nil {
		c.lightPen.TriggerLightPenInterrupt()
	}
}

func (c *CIA) pokeDataDirectionA(value uint8) {
	c.ddrA = value
	c.pa = c.paLatch | ^c.ddrA
	if c.kind == Kind2 {
		c.applyCIA2PortA()
	}
}

func (c *CIA) pokeDataDirectionB(value uint8) {
	pbOld := c.pb
	c.ddrB = value
	c.updatePB()
	if c.kind == Kind1 && (pbOld&0x10) != (c.pb&0x10) && c.lightPen != nil {
		c.lightPen.TriggerLightPenInterrupt()
	}
}

func (c *CIA) applyCIA2PortA() {
	if c.bank != nil {
		c.bank.SetMemoryBankAddr(uint16(^c.pa&0x03) << 14)
	}
	if c.iec != nil {
		c.iec.UpdateCIAPins(c.paLatch, c.ddrA)
	}
}

func (c *CIA) checkTODInterrupt() {
	if c.tod.Alarming() {
		c.pipeline.SetDelay(TODInt0)
	}
}

func (c *CIA) pokeICR(value uint8) {
	if value&0x80 != 0 {
		c.imr |= value & 0x1F
	} else {
		c.imr &^= value & 0x1F
	}

	if c.imr&c.icr&0x1F != 0 && !c.intAsserted {
		c.pipeline.SetDelay(Interrupt0 | SetIcr0)
	} else if c.pipeline.Has(ClearIcr2) {
		c.pipeline.ClearDelay(Interrupt1 | SetIcr1)
	}
}

func (c *CIA) pokeCRA(value uint8) {
	if value&0x01 != 0 {
		c.pipeline.SetDelay(CountA1 | CountA0)
		c.pipeline.SetFeed(CountA0)
		if c.cra&0x01 == 0 {
			c.pb67Toggle |= 0x40
		}
	} else {
		c.pipeline.ClearDelay(CountA1 | CountA0)
		c.pipeline.ClearFeed(CountA0)
	}

	if value&0x02 != 0 {
		c.pb67TimerMode |= 0x40
		if value&0x04 == 0 {
			if c.pipeline.Has(PB7Low1) {
				c.pb67TimerOut |= 0x40
			} else {
				c.pb67TimerOut &^= 0x40
			}
		} else {
			c.pb67TimerOut = (c.pb67TimerOut &^ 0x40) | (c.pb67Toggle & 0x40)
		}
	} else {
		c.pb67TimerMode &^= 0x40
	}

	if value&0x08 != 0 {
		c.pipeline.SetFeed(OneShotA0)
	} else {
		c.pipeline.ClearFeed(OneShotA0)
	}

	if value&0x10 != 0 {
		c.pipeline.SetDelay(LoadA0)
	}

	if value&0x20 != 0 {
		c.pipeline.ClearDelay(CountA1 | CountA0)
		c.pipeline.ClearFeed(CountA0)
	}

	if (value^c.cra)&0x40 != 0 {
		c.pipeline.ClearDelay(SerLoad0 | SerLoad1)
		c.pipeline.ClearFeed(SerLoad0)
		c.serCounter = 0
		c.pipeline.ClearDelay(SerClk0 | SerClk1 | SerClk2)
		c.pipeline.ClearFeed(SerClk0)
	}

	// The 8521's TOD divider runs off a fixed internal oscillator and
	// ignores the 50/60Hz selector bit entirely.
	if c.revision != MOS8521 {
		if value&0x80 != 0 {
			c.tod.SetHz(5)
		} else {
			c.tod.SetHz(6)
		}
	}

	c.updatePB()
	c.cra = value
}

func (c *CIA) pokeCRB(value uint8) {
	if value&0x01 != 0 {
		c.pipeline.SetDelay(CountB1 | CountB0)
		c.pipeline.SetFeed(CountB0)
		if c.crb&0x01 == 0 {
			c.pb67Toggle |= 0x80
		}
	} else {
		c.pipeline.ClearDelay(CountB1 | CountB0)
		c.pipeline.ClearFeed(CountB0)
	}

	if value&0x02 != 0 {
		c.pb67TimerMode |= 0x80
		if value&0x04 == 0 {
			if c.pipeline.Has(PB7Low1) {
				c.pb67TimerOut |= 0x80
			} else {
				c.pb67TimerOut &^= 0x80
			}
		} else {
			c.pb67TimerOut = (c.pb67TimerOut &^ 0x80) | (c.pb67Toggle & 0x80)
		}
	} else {
		c.pb67TimerMode &^= 0x80
	}

	if value&0x08 != 0 {
		c.pipeline.SetFeed(OneShotB0)
	} else {
		c.pipeline.ClearFeed(OneShotB0)
	}

	if value&0x10 != 0 {
		c.pipeline.SetDelay(LoadB0)
	}

	if value&0x60 != 0 {
		c.pipeline.ClearDelay(CountB1 | CountB0)
		c.pipeline.ClearFeed(CountB0)
	}

	c.updatePB()
	c.crb = value
}

func (c *CIA) reloadTimerA() {
	c.counterA = c.latchA
	c.pipeline.ClearDelay(LoadA1)
}

func (c *CIA) reloadTimerB() {
	c.counterB = c.latchB
	c.pipeline.ClearDelay(LoadB1)
}

// IncrementTOD advances the TOD clock by one tick (called by the 50/60Hz
// line-frequency tap, not by the cycle clock).
func (c *CIA) IncrementTOD() {
	c.WakeUp()
	c.tod.Increment()
	c.checkTODInterrupt()
}

// ExecuteOneCycle runs exactly one Phi2 cycle of CIA logic, following
// original_source/C64/CIA.cpp::executeOneCycle (spec §4.2, §8 testable
// property 2 "CIA underflow law").
func (c *CIA) ExecuteOneCycle(cycle uint64) {
	c.WakeUp()

	oldDelay, oldFeed := c.pipeline.Raw()

	// Timer A: decrement, detect underflow, reload.
	if c.pipeline.Has(CountA3) {
		c.counterA--
	}
	timerAOutput := c.counterA == 0 && c.pipeline.Has(CountA2)
	if timerAOutput {
		if c.pipeline.HasFeedOrDelay(OneShotA0) {
			c.cra &^= 0x01
			c.pipeline.ClearDelay(CountA2 | CountA1 | CountA0)
			c.pipeline.ClearFeed(CountA0)
		}
		if (c.crb&0x61) == 0x41 || ((c.crb&0x61) == 0x61 && c.cnt) {
			c.pipeline.SetDelay(CountB1)
		}
		c.pipeline.SetDelay(LoadA1)
	}
	if c.pipeline.Has(LoadA1) {
		c.reloadTimerA()
	}

	// Timer B: decrement, detect underflow, reload.
	if c.pipeline.Has(CountB3) {
		c.counterB--
	}
	timerBOutput := c.counterB == 0 && c.pipeline.Has(CountB2)
	if timerBOutput {
		if c.pipeline.HasFeedOrDelay(OneShotB0) {
			c.crb &^= 0x01
			c.pipeline.ClearDelay(CountB2 | CountB1 | CountB0)
			c.pipeline.ClearFeed(CountB0)
		}
		c.pipeline.SetDelay(LoadB1)
	}
	if c.pipeline.Has(LoadB1) {
		c.reloadTimerB()
	}

	// Serial shift register clocked from timer A underflow in output mode.
	if timerAOutput && c.cra&0x40 != 0 {
		if c.serCounter != 0 {
			c.pipeline.ToggleFeed(SerClk0)
		} else if c.pipeline.Has(SerLoad1) {
			c.pipeline.ClearDelay(SerLoad1 | SerLoad0)
			c.pipeline.ClearFeed(SerLoad0)
			c.serCounter = 8
			c.pipeline.ToggleFeed(SerClk0)
		}
	}
	if c.serCounter != 0 {
		switch {
		case c.pipeline.Has(SerClk1) && !c.pipeline.Has(SerClk2):
			if c.serCounter == 1 {
				c.pipeline.SetDelay(SerInt0)
			}
		case c.pipeline.Has(SerClk2) && !c.pipeline.Has(SerClk1):
			c.serCounter--
		}
	}

	// Timer output onto PB6/PB7.
	if timerAOutput {
		c.pb67Toggle ^= 0x40
		if c.cra&0x02 != 0 {
			if c.cra&0x04 == 0 {
				c.pb67TimerOut |= 0x40
				c.pipeline.SetDelay(PB6Low0)
				c.pipeline.ClearDelay(PB6Low1)
			} else {
				c.pb67TimerOut ^= 0x40
			}
		}
	}
	if timerBOutput {
		c.pb67Toggle ^= 0x80
		if c.crb&0x02 != 0 {
			if c.crb&0x04 == 0 {
				c.pb67TimerOut |= 0x80
				c.pipeline.SetDelay(PB7Low0)
				c.pipeline.ClearDelay(PB7Low1)
			} else {
				c.pb67TimerOut ^= 0x80
			}
		}
	}
	if c.pipeline.Has(PB6Low1) {
		c.pb67TimerOut &^= 0x40
	}
	if c.pipeline.Has(PB7Low1) {
		c.pb67TimerOut &^= 0x80
	}
	c.updatePB()

	// Interrupt logic, including the documented ICR read/write race
	// conditions (spec §8 testable property 3, "dd0dtest case 11").
	if timerAOutput {
		c.icr |= 0x01
	}
	if timerBOutput && !c.pipeline.Has(ReadIcr0) {
		c.icr |= 0x02
	}
	if (timerAOutput && c.imr&0x01 != 0) || (timerBOutput && c.imr&0x02 != 0) {
		c.pipeline.SetDelay(Interrupt0)
		c.pipeline.SetDelay(SetIcr0)
	}
	if c.pipeline.Has(TODInt0) {
		c.icr |= 0x04
		if c.imr&0x04 != 0 {
			c.pipeline.SetDelay(Interrupt0)
			c.pipeline.SetDelay(SetIcr0)
		}
	}
	if c.pipeline.Has(SerInt2) {
		c.icr |= 0x08
		if c.imr&0x08 != 0 {
			c.pipeline.SetDelay(Interrupt0)
			c.pipeline.SetDelay(SetIcr0)
		}
	}
	if c.pipeline.Any(ClearIcr1 | SetIcr1 | Interrupt1) {
		if c.pipeline.Has(ClearIcr1) {
			c.icr &= 0x7F
		}
		if c.pipeline.Has(SetIcr1) {
			c.icr |= 0x80
		}
		if c.pipeline.Has(Interrupt1) {
			c.pullDownInterrupt()
		}
	}

	c.pipeline.Advance()

	if d, f := c.pipeline.Raw(); d == oldDelay && f == oldFeed {
		c.tiredness++
		if c.tiredness > 8 {
			c.Sleep(cycle)
			c.tiredness = 0
		}
	} else {
		c.tiredness = 0
	}
}

// Sleep computes how many cycles this CIA can be skipped for, based on the
// running timers' remaining counts (spec §4.2 "Idle / wake").
func (c *CIA) Sleep(cycle uint64) {
	const never = ^uint64(0)

	// counterA/B <= 2 forces an immediate wake (sleep = 0) so the chip
	// never sleeps through an imminent underflow, matching
	// original_source/C64/CIA.cpp::sleep()'s
	// "(counter > 2) ? cycle+counter-1 : 0".
	var sleepA, sleepB uint64
	if c.counterA > 2 {
		sleepA = cycle + uint64(c.counterA) - 1
	}
	if c.counterB > 2 {
		sleepB = cycle + uint64(c.counterB) - 1
	}
	if !c.pipeline.FeedHas(CountA0) {
		sleepA = never
	}
	if !c.pipeline.FeedHas(CountB0) {
		sleepB = never
	}

	wake := sleepA
	if sleepB < wake {
		wake = sleepB
	}
	c.wakeUpCycle = wake
}

// SkipCycle is called by the arena instead of ExecuteOneCycle while this
// CIA reports itself Asleep; it accumulates the missed cycle so the next
// WakeUp can fold it into the running timers in one step.
func (c *CIA) SkipCycle() { c.idleCycles++ }

// WakeUp folds any cycles accumulated via SkipCycle into the running
// timers. Called at the top of Peek, Poke and ExecuteOneCycle; a no-op
// when nothing was skipped, matching original_source/C64/CIA.cpp::wakeUp.
func (c *CIA) WakeUp() {
	if c.idleCycles == 0 {
		return
	}
	if c.pipeline.FeedHas(CountA0) {
		c.counterA -= uint16(c.idleCycles)
	}
	if c.pipeline.FeedHas(CountB0) {
		c.counterB -= uint16(c.idleCycles)
	}
	c.idleCycles = 0
	c.wakeUpCycle = 0
}

// Asleep reports whether this CIA can be skipped at the given cycle instead
// of stepped, and until which cycle.
func (c *CIA) Asleep(cycle uint64) (asleep bool, until uint64) {
	return c.wakeUpCycle != 0 && cycle < c.wakeUpCycle, c.wakeUpCycle
}

// CounterA, CounterB, IMR and ICR expose read-only state for diagnostics
// and snapshotting.
func (c *CIA) CounterA() uint16        { return c.counterA }
func (c *CIA) CounterB() uint16        { return c.counterB }
func (c *CIA) IMR() uint8              { return c.imr }
func (c *CIA) ICR() uint8              { return c.icr }
func (c *CIA) InterruptAsserted() bool { return c.intAsserted }
func (c *CIA) TOD() *TOD               { return c.tod }
