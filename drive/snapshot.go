package drive

import (
	"fmt"

	"github.com/bsvec/virtualc64/drive/disk"
	"github.com/bsvec/virtualc64/snapshot"
)

// Name, Tag, SerializeState, DeserializeState make Drive a
// snapshot.Component. The mounted disk image itself is not part of the
// snapshot (spec's Non-goals place disk-image file formats out of scope;
// the GUI re-attaches the same image after a load), only the head/motor
// state that a running session has accumulated.
func (d *Drive) Name() string      { return fmt.Sprintf("drive%d", d.number) }
func (d *Drive) Tag() snapshot.Tag { return snapshot.KeepOnReset }

func (d *Drive) SerializeState(w *snapshot.Writer) {
	w.WriteU8(uint8(d.halftrack))
	w.WriteU16(uint16(d.bitoffset))
	w.WriteU8(uint8(d.zone))
	w.WriteU16(d.readShiftReg)
	w.WriteU8(d.writeShiftReg)
	w.WriteBool(d.sync)
	w.WriteU8(d.byteReadyCtr)
	w.WriteBool(d.rotating)
	w.WriteBool(d.redLED)
	w.WriteBool(d.writeProtected)
	w.WriteBool(d.diskInserted)
}

func (d *Drive) DeserializeState(r *snapshot.Reader) error {
	var err error
	chk := func(e error) {
		if e != nil && err == nil {
			err = e
		}
	}
	u8 := func() uint8 { v, e := r.ReadU8(); chk(e); return v }
	u16 := func() uint16 { v, e := r.ReadU16(); chk(e); return v }
	b := func() bool { v, e := r.ReadBool(); chk(e); return v }

	d.halftrack = int(u8())
	d.bitoffset = int(u16())
	d.zone = disk.Zone(u8())
	d.readShiftReg = u16()
	d.writeShiftReg = u8()
	d.sync = b()
	d.byteReadyCtr = u8()
	d.rotating = b()
	d.redLED = b()
	d.writeProtected = b()
	d.diskInserted = b()

	if err != nil {
		return fmt.Errorf("drive: %w", err)
	}
	return nil
}
