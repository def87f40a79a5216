// Package vic implements the VIC-II video controller: the per-cycle raster
// engine that drives memory fetches, bad-line stalls, sprite DMA, the
// border flip-flops and the graphics/sprite shift registers that together
// produce one pixel row at a time. Grounded on spec §4.3 and cross-checked
// against original_source/Emulator/VICII/VICII.h; structurally modeled on
// the teacher's hardware/tia package (one file per concern, a raster
// dispatch table driving everything else).
package vic

import "github.com/bsvec/virtualc64/emucollab"

// VIC is one VIC-II chip instance.
type VIC struct {
	revision Revision
	mem      Memory
	cpu      CPU
	lightPen LightPen
	queue    MessageQueue
	expport  ExpansionPort

	reg registers

	irr uint8 // interrupt request register, spec §4.3 "IRQ aggregation"
	// imr lives in reg.imr

	refreshCounter uint8
	xCounter       uint16
	yCounter       uint32

	vc, vcBase uint16
	rc         uint8
	vmli       uint8

	videoMatrix [40]uint8
	colorLine   [40]uint8

	badLine                bool
	denWasSetInRasterline30 bool
	displayState           bool
	vblank                 bool

	mainFF     frameFlipFlop
	verticalFF frameFlipFlop

	baLine ringU16

	spriteSpriteCollision     uint8
	spriteBackgroundCollision uint8

	sprites [8]sprite

	gfx graphicsUnit

	xCounterAtCycleStart uint16
	lineCycle            int // 1-based raster cycle, per spec §3

	// rasterLine wraps around at revision.rasterLines(); yCounter shadows
	// this for register purposes and the bad-line formula, which spec §4.3
	// defines in terms of a 0x30..0xF7 range independent of PAL/NTSC total.
	rasterLine int
	frame      uint64

	lightPenIRQOccurredThisFrame bool

	table rasterTable

	screenBuffer [2][]uint32
	currentBuf   int
	pixelBuffer  []uint32 // points into screenBuffer[currentBuf] at the row being written

	memSrc [16]memSrc
}

// New constructs a VIC-II at the given revision. mem is the 16KiB bank
// view; cpu, lightPen, queue and expport may be stubs in tests.
func New(rev Revision, mem Memory, cpu CPU, lightPen LightPen, queue MessageQueue, expport ExpansionPort) *VIC {
	v := &VIC{mem: mem, cpu: cpu, lightPen: lightPen, queue: queue, expport: expport}
	_ = v.Configure(rev)
	v.screenBuffer[0] = make([]uint32, 403*284)
	v.screenBuffer[1] = make([]uint32, 403*284)
	v.Reset()
	return v
}

// Reset restores power-on state: sprites idle, frame flip-flops set (so the
// display starts inside the border), raster position at line 0 cycle 1.
func (v *VIC) Reset() {
	v.reg = registers{}
	v.irr = 0
	v.refreshCounter = 0xFF
	v.xCounter = 0
	v.yCounter = 0
	v.vc, v.vcBase = 0, 0
	v.rc = 0
	v.vmli = 0
	v.badLine = false
	v.denWasSetInRasterline30 = false
	v.displayState = false
	v.vblank = false
	v.mainFF = frameFlipFlop{current: true, delayed: true}
	v.verticalFF = frameFlipFlop{current: true, delayed: true}
	v.baLine = ringU16{}
	v.spriteSpriteCollision = 0
	v.spriteBackgroundCollision = 0
	for i := range v.sprites {
		v.sprites[i] = sprite{}
	}
	v.gfx = graphicsUnit{}
	v.lineCycle = 1
	v.rasterLine = 0
	v.lightPenIRQOccurredThisFrame = false
	v.currentBuf = 0
	v.pixelBuffer = v.screenBuffer[0]
}

// FrontBuffer returns the stable (not currently being written) pixel
// buffer, for the GUI reader (spec §5 "single-writer/single-reader").
func (v *VIC) FrontBuffer() []uint32 {
	return v.screenBuffer[1-v.currentBuf]
}

func (v *VIC) syncIRQLine() {
	if v.irr&v.reg.imr&0x0F != 0 {
		v.irr |= 0x80
		v.cpu.PullDownIRQLine(emucollab.IRQSourceVIC)
	} else {
		v.irr &^= 0x80
		v.cpu.ReleaseIRQLine(emucollab.IRQSourceVIC)
	}
}

// RasterLine, LineCycle, Frame expose position for diagnostics and tests.
func (v *VIC) RasterLine() int { return v.rasterLine }
func (v *VIC) LineCycle() int  { return v.lineCycle }
func (v *VIC) Frame() uint64   { return v.frame }
func (v *VIC) BadLine() bool   { return v.badLine }
