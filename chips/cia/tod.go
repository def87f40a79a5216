package cia

import "github.com/bsvec/virtualc64/snapshot"

// TOD is the CIA's BCD time-of-day clock: tenths/seconds/minutes/hours plus
// AM/PM, with a latched alarm time. It ticks externally at 50 or 60 Hz as
// selected by CRA bit 7 (spec §3, §4.2).
type TOD struct {
	tenths  uint8
	seconds uint8 // BCD
	minutes uint8 // BCD
	hours   uint8 // BCD, bit 7 = PM

	alarmTenths  uint8
	alarmSeconds uint8
	alarmMinutes uint8
	alarmHours   uint8

	// latch holds a frozen read snapshot: reading TOD hours latches the
	// whole clock until tenths is next read, per the real 6526 (the 1541's
	// emulated clock must not change mid-multi-byte-read).
	latched      bool
	latchTenths  uint8
	latchSeconds uint8
	latchMinutes uint8
	latchHours   uint8
	hz           int // 5 = 50Hz, 6 = 60Hz
	tickAccum    int
}

func (t *TOD) serializeState(w *snapshot.Writer) {
	w.WriteU8(t.tenths)
	w.WriteU8(t.seconds)
	w.WriteU8(t.minutes)
	w.WriteU8(t.hours)
	w.WriteU8(t.alarmTenths)
	w.WriteU8(t.alarmSeconds)
	w.WriteU8(t.alarmMinutes)
	w.WriteU8(t.alarmHours)
	w.WriteBool(t.latched)
	w.WriteU8(t.latchTenths)
	w.WriteU8(t.latchSeconds)
	w.WriteU8(t.latchMinutes)
	w.WriteU8(t.latchHours)
	w.WriteU8(uint8(t.hz))
}

func (t *TOD) deserializeState(r *snapshot.Reader) error {
	var err error
	chk := func(e error) {
		if e != nil && err == nil {
			err = e
		}
	}
	u8 := func() uint8 { v, e := r.ReadU8(); chk(e); return v }
	b := func() bool { v, e := r.ReadBool(); chk(e); return v }

	t.tenths = u8()
	t.seconds = u8()
	t.minutes = u8()
	t.hours = u8()
	t.alarmTenths = u8()
	t.alarmSeconds = u8()
	t.alarmMinutes = u8()
	t.alarmHours = u8()
	t.latched = b()
	t.latchTenths = u8()
	t.latchSeconds = u8()
	t.latchMinutes = u8()
	t.latchHours = u8()
	t.hz = int(u8())
	return err
}

func newTOD() *TOD {
	return &TOD{hz: 6}
}

func (t *TOD) reset() {
	*t = TOD{hz: 6}
}

// SetHz selects the external tick rate matching CRA bit 7.
func (t *TOD) SetHz(hz int) { t.hz = hz }

// bcdIncrement adds 1 to a two-digit BCD value, wrapping to 0 at max+1.
func bcdIncrement(v, max uint8) (uint8, bool) {
	lo := v & 0x0F
	hi := v >> 4
	lo++
	if lo > 9 {
		lo = 0
		hi++
	}
	v = (hi << 4) | lo
	if v > max {
		return 0, true
	}
	return v, false
}

// Increment advances the clock by one tick (one call per tenth-of-a-second
// pulse). Spec §8 testable property 5: writing 59:59:59.9 then ticking 10
// times at 10Hz yields 00:00:00.0 and flips AM/PM at the 12-hour boundary.
func (t *TOD) Increment() {
	var carry bool
	t.tenths, carry = bcdIncrement(t.tenths, 0x09)
	if !carry {
		return
	}

	t.seconds, carry = bcdIncrement(t.seconds, 0x59)
	if !carry {
		return
	}

	t.minutes, carry = bcdIncrement(t.minutes, 0x59)
	if !carry {
		return
	}

	// Hours: BCD 1-12 with bit 7 as PM. 12:59:59.9 -> 1:00:00.0, and the
	// wrap from 12 back to 1 is the once-per-12-hours AM/PM flip.
	hourVal := t.hours & 0x1F
	pm := t.hours & 0x80
	hourVal, carry = bcdIncrement(hourVal, 0x12)
	if carry || hourVal == 0 {
		hourVal = 0x01
		pm ^= 0x80
	}
	t.hours = hourVal | pm
}

// Alarming reports whether the current time matches the alarm.
func (t *TOD) Alarming() bool {
	return t.tenths == t.alarmTenths &&
		t.seconds == t.alarmSeconds &&
		t.minutes == t.alarmMinutes &&
		t.hours == t.alarmHours
}

func (t *TOD) GetTenths() uint8 {
	if t.latched {
		return t.latchTenths
	}
	return t.tenths
}

func (t *TOD) GetSeconds() uint8 {
	if t.latched {
		return t.latchSeconds
	}
	return t.seconds
}

func (t *TOD) GetMinutes() uint8 {
	if t.latched {
		return t.latchMinutes
	}
	return t.minutes
}

// GetHours latches the clock (hours/min/sec/tenths freeze for subsequent
// reads until tenths is read).
func (t *TOD) GetHours() uint8 {
	if !t.latched {
		t.latched = true
		t.latchTenths = t.tenths
		t.latchSeconds = t.seconds
		t.latchMinutes = t.minutes
		t.latchHours = t.hours
	}
	return t.latchHours
}

// ReadTenths is called after GetTenths to release any latch, matching the
// real chip's "reading tenths unfreezes the registers" behaviour.
func (t *TOD) ReadTenths() { t.latched = false }

func (t *TOD) SetTenths(v uint8)  { t.tenths = v & 0x0F }
func (t *TOD) SetSeconds(v uint8) { t.seconds = v & 0x7F }
func (t *TOD) SetMinutes(v uint8) { t.minutes = v & 0x7F }

// SetHours applies the documented 12pm/12am XOR quirk: a written hour of 12
// has its AM/PM bit 7 flipped before it is stored, so 0x12 stores 0x92 and
// 0x92 stores 0x12 (spec §4.2 "Writes to hours with value 0x12 XOR bit 7").
func (t *TOD) SetHours(v uint8) {
	if v&0x1F == 0x12 {
		v ^= 0x80
	}
	t.hours = v & 0x9F
}

func (t *TOD) SetAlarmTenths(v uint8)  { t.alarmTenths = v & 0x0F }
func (t *TOD) SetAlarmSeconds(v uint8) { t.alarmSeconds = v & 0x7F }
func (t *TOD) SetAlarmMinutes(v uint8) { t.alarmMinutes = v & 0x7F }
func (t *TOD) SetAlarmHours(v uint8) {
	if v&0x1F == 0x12 {
		v ^= 0x80
	}
	t.alarmHours = v & 0x9F
}
