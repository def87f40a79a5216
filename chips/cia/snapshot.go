package cia

import (
	"fmt"

	"github.com/bsvec/virtualc64/snapshot"
)

// Name, Tag, SerializeState and DeserializeState make CIA a
// snapshot.Component (spec §4.7): every field that survives a reset
// (everything except the pin defaults Reset() re-establishes) is tagged
// KeepOnReset, matching the record-tagging scheme of spec §3.
func (c *CIA) Name() string {
	if c.kind == Kind1 {
		return "cia1"
	}
	return "cia2"
}

func (c *CIA) Tag() snapshot.Tag { return snapshot.KeepOnReset }

func (c *CIA) SerializeState(w *snapshot.Writer) {
	w.WriteU16(c.counterA)
	w.WriteU16(c.latchA)
	w.WriteU16(c.counterB)
	w.WriteU16(c.latchB)
	w.WriteU8(c.cra)
	w.WriteU8(c.crb)
	w.WriteU8(c.icr)
	w.WriteU8(c.imr)
	w.WriteU8(c.pb67TimerMode)
	w.WriteU8(c.pb67TimerOut)
	w.WriteU8(c.pb67Toggle)
	w.WriteU8(c.paLatch)
	w.WriteU8(c.pbLatch)
	w.WriteU8(c.ddrA)
	w.WriteU8(c.ddrB)
	w.WriteU8(c.pa)
	w.WriteU8(c.pb)
	w.WriteU8(c.sdr)
	w.WriteU8(c.serCounter)
	w.WriteBool(c.cnt)
	w.WriteBool(c.intAsserted)
	delay, feed := c.pipeline.Raw()
	w.WriteU64(delay)
	w.WriteU64(feed)
	c.tod.serializeState(w)
}

func (c *CIA) DeserializeState(r *snapshot.Reader) error {
	var err error
	readErr := func(e error) {
		if e != nil && err == nil {
			err = e
		}
	}

	u16 := func() uint16 { v, e := r.ReadU16(); readErr(e); return v }
	u8 := func() uint8 { v, e := r.ReadU8(); readErr(e); return v }
	u64 := func() uint64 { v, e := r.ReadU64(); readErr(e); return v }
	b := func() bool { v, e := r.ReadBool(); readErr(e); return v }

	c.counterA = u16()
	c.latchA = u16()
	c.counterB = u16()
	c.latchB = u16()
	c.cra = u8()
	c.crb = u8()
	c.icr = u8()
	c.imr = u8()
	c.pb67TimerMode = u8()
	c.pb67TimerOut = u8()
	c.pb67Toggle = u8()
	c.paLatch = u8()
	c.pbLatch = u8()
	c.ddrA = u8()
	c.ddrB = u8()
	c.pa = u8()
	c.pb = u8()
	c.sdr = u8()
	c.serCounter = u8()
	c.cnt = b()
	c.intAsserted = b()
	delay := u64()
	feed := u64()
	if err != nil {
		return fmt.Errorf("cia: %w", err)
	}
	c.pipeline.SetRaw(delay, feed)
	return c.tod.deserializeState(r)
}
