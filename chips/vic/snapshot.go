package vic

import (
	"fmt"

	"github.com/bsvec/virtualc64/snapshot"
)

// Name, Tag, SerializeState, DeserializeState make VIC a snapshot.Component
// (spec §4.7). Only the register file and raster/sprite position state
// need to survive a snapshot round trip for invariant 6 of spec §3
// ("every entity produces byte-identical subsequent frames"); the
// screen buffers themselves are presentation state, not simulation state,
// and are rebuilt by the next frame regardless.
func (v *VIC) Name() string      { return "vic" }
func (v *VIC) Tag() snapshot.Tag { return snapshot.KeepOnReset }

func (v *VIC) SerializeState(w *snapshot.Writer) {
	w.WriteU8(uint8(v.revision))
	for i := 0; i < 8; i++ {
		w.WriteU16(v.reg.spriteX[i])
		w.WriteU8(v.reg.spriteY[i])
		w.WriteU8(v.reg.spriteCol[i])
	}
	w.WriteU8(v.reg.cr1)
	w.WriteU8(v.reg.rasterCmp)
	w.WriteU8(v.reg.spriteEn)
	w.WriteU8(v.reg.cr2)
	w.WriteU8(v.reg.spriteYE)
	w.WriteU8(v.reg.memPtr)
	w.WriteU8(v.reg.imr)
	w.WriteU8(v.reg.spriteDP)
	w.WriteU8(v.reg.spriteMC)
	w.WriteU8(v.reg.spriteXE)
	w.WriteU8(v.reg.ec)
	for i := 0; i < 4; i++ {
		w.WriteU8(v.reg.bc[i])
	}
	w.WriteU8(v.reg.mm0)
	w.WriteU8(v.reg.mm1)

	w.WriteU8(v.irr)
	w.WriteU16(uint16(v.xCounter))
	w.WriteU32(v.yCounter)
	w.WriteU16(v.vc)
	w.WriteU16(v.vcBase)
	w.WriteU8(v.rc)
	w.WriteU8(v.vmli)
	w.WriteBool(v.badLine)
	w.WriteBool(v.denWasSetInRasterline30)
	w.WriteBool(v.displayState)
	w.WriteU8(uint8(v.lineCycle))
	w.WriteU32(uint32(v.rasterLine))
	w.WriteU64(v.frame)
}

func (v *VIC) DeserializeState(r *snapshot.Reader) error {
	var err error
	chk := func(e error) {
		if e != nil && err == nil {
			err = e
		}
	}
	u8 := func() uint8 { x, e := r.ReadU8(); chk(e); return x }
	u16 := func() uint16 { x, e := r.ReadU16(); chk(e); return x }
	u32 := func() uint32 { x, e := r.ReadU32(); chk(e); return x }
	u64 := func() uint64 { x, e := r.ReadU64(); chk(e); return x }
	b := func() bool { x, e := r.ReadBool(); chk(e); return x }

	v.revision = Revision(u8())
	for i := 0; i < 8; i++ {
		v.reg.spriteX[i] = u16()
		v.reg.spriteY[i] = u8()
		v.reg.spriteCol[i] = u8()
	}
	v.reg.cr1 = u8()
	v.reg.rasterCmp = u8()
	v.reg.spriteEn = u8()
	v.reg.cr2 = u8()
	v.reg.spriteYE = u8()
	v.reg.memPtr = u8()
	v.reg.imr = u8()
	v.reg.spriteDP = u8()
	v.reg.spriteMC = u8()
	v.reg.spriteXE = u8()
	v.reg.ec = u8()
	for i := 0; i < 4; i++ {
		v.reg.bc[i] = u8()
	}
	v.reg.mm0 = u8()
	v.reg.mm1 = u8()

	v.irr = u8()
	v.xCounter = u16()
	v.yCounter = u32()
	v.vc = u16()
	v.vcBase = u16()
	v.rc = u8()
	v.vmli = u8()
	v.badLine = b()
	v.denWasSetInRasterline30 = b()
	v.displayState = b()
	v.lineCycle = int(u8())
	v.rasterLine = int(u32())
	v.frame = u64()

	if err != nil {
		return fmt.Errorf("vic: %w", err)
	}
	v.buildRasterTable()
	return nil
}
