// Package drive implements the VC1541 floppy drive controller: the
// bit/byte-ready state machine that reads and writes the GCR disk model
// through the stepper-controlled read/write head, synchronized with the
// two VIA 6522 chips and the host by way of the IEC bus. Grounded on
// original_source/C64/VC1541.cpp (spec §4.4).
package drive

import (
	"github.com/bsvec/virtualc64/chips/via"
	"github.com/bsvec/virtualc64/drive/disk"
	"github.com/bsvec/virtualc64/emucollab"
)

// Number is a drive's IEC device number; spec.md's Non-goals cap
// configurations at two drives (device 8 and 9), per SPEC_FULL.md §3.1
// "Two-drive topology".
type Number int

const (
	Device8 Number = 8
	Device9 Number = 9
)

// Drive is one VC1541: a second 6502, two VIAs, and the GCR read/write
// head riding over a Disk.
type Drive struct {
	number Number
	cpu    emucollab.DriveCPU
	queue  emucollab.MessageQueue

	via1 *via.VIA
	via2 *via.VIA

	disk           *disk.Disk
	diskInserted   bool
	writeProtected bool

	halftrack int
	bitoffset int
	zone      disk.Zone

	readShiftReg  uint16
	writeShiftReg uint8
	sync          bool
	byteReadyCtr  uint8
	bitReadyTimer float64

	rotating bool
	redLED   bool

	fractional float64 // accumulated fractional host cycles (spec §4.1)
	driveHz    float64 // drive clock relative to host, ~1.0 but not exact
}

// New creates a VC1541 attached at the given device number. iec and cpu are
// supplied by the arena; queue may be nil in tests.
func New(number Number, cpu emucollab.DriveCPU, queue emucollab.MessageQueue, iec IECAdapter) *Drive {
	d := &Drive{number: number, cpu: cpu, queue: queue, driveHz: 1.0}
	d.via1 = via.NewVIA1(cpuAdapter{cpu}, iec)
	d.via2 = via.NewVIA2(cpuAdapter{cpu}, floppyAdapter{d})
	d.Reset()
	return d
}

// IECAdapter is the IEC-bus collaborator VIA1 needs; drive.go itself stays
// agnostic of the bus's internals the way original_source keeps VC1541
// only holding a pointer to IEC, not implementing it.
type IECAdapter = via.IECLine

type cpuAdapter struct{ cpu emucollab.DriveCPU }

func (a cpuAdapter) SetOverflow()               { a.cpu.SetOverflow() }
func (a cpuAdapter) PullDownIRQLine(source int) { a.cpu.PullDownIRQLine(source) }
func (a cpuAdapter) ReleaseIRQLine(source int)  { a.cpu.ReleaseIRQLine(source) }

type floppyAdapter struct{ d *Drive }

func (f floppyAdapter) MoveHeadUp()         { f.d.moveHeadUp() }
func (f floppyAdapter) MoveHeadDown()       { f.d.moveHeadDown() }
func (f floppyAdapter) StartRotating()      { f.d.setRotating(true) }
func (f floppyAdapter) StopRotating()       { f.d.setRotating(false) }
func (f floppyAdapter) ActivateRedLED()     { f.d.setRedLED(true) }
func (f floppyAdapter) DeactivateRedLED()   { f.d.setRedLED(false) }
func (f floppyAdapter) WriteProtected() bool { return f.d.writeProtected }
func (f floppyAdapter) SyncMark() bool       { return f.d.sync }

// Reset restores power-on head position (halftrack 41, the real 1541's
// reset position) per original_source/C64/VC1541.cpp::resetDrive.
func (d *Drive) Reset() {
	d.via1.Reset()
	d.via2.Reset()
	d.rotating = false
	d.redLED = false
	d.bitReadyTimer = 0
	d.byteReadyCtr = 0
	d.halftrack = 41
	d.bitoffset = 0
	d.zone = disk.ZoneForTrack((d.halftrack + 1) / 2)
	d.readShiftReg = 0
	d.writeShiftReg = 0
	d.sync = false
	d.fractional = 0
}

// VIA1, VIA2 expose the two drive-side chips for bus wiring and tests.
func (d *Drive) VIA1() *via.VIA { return d.via1 }
func (d *Drive) VIA2() *via.VIA { return d.via2 }

func (d *Drive) readMode() bool  { return d.via2.PCR()&0x20 == 0 }
func (d *Drive) writeMode() bool { return !d.readMode() }

// AdvanceCycle runs one host-phi2-equivalent drive cycle, accumulating the
// fractional difference between drive and host clock rates (spec §4.1
// "the drive integrator accumulates fractional cycles") and stepping the
// bit-ready timer the corresponding whole number of times.
func (d *Drive) AdvanceCycle() {
	d.via1.ExecuteOneCycle()
	d.via2.ExecuteOneCycle()

	d.fractional += d.driveHz
	for d.fractional >= 1.0 {
		d.fractional -= 1.0
		d.tickBitReady()
	}
}

func (d *Drive) tickBitReady() {
	if !d.rotating {
		return
	}
	d.bitReadyTimer -= 1.0
	if d.bitReadyTimer > 0 {
		return
	}
	d.executeBitReady()
	d.bitReadyTimer += disk.CyclesPerBit[d.zone]
}

// executeBitReady shifts one bit through the read/write head, matching
// original_source/C64/VC1541.cpp::executeBitReady verbatim (spec §4.4
// "Bit clock").
func (d *Drive) executeBitReady() {
	d.readShiftReg <<= 1

	if d.readMode() {
		if d.disk != nil && d.readBitFromHead() {
			d.readShiftReg |= 1
		}
		if d.readShiftReg&0x3FF == 0x3FF {
			d.sync = true
		} else {
			if d.sync {
				d.byteReadyCtr = 0
			}
			d.sync = false
		}
	} else {
		d.writeBitToHead(d.writeShiftReg&0x80 != 0)
		d.sync = false
	}
	d.writeShiftReg <<= 1

	d.rotateBitoffset()

	d.byteReadyCtr++
	if d.byteReadyCtr == 8 {
		d.byteReadyCtr = 0
		d.executeByteReady()
	}
}

func (d *Drive) readBitFromHead() bool {
	return d.disk.ReadBit(d.halftrack, d.bitoffset)
}

func (d *Drive) writeBitToHead(bit bool) {
	if d.disk != nil && !d.writeProtected {
		d.disk.WriteBit(d.halftrack, d.bitoffset, bit)
	}
}

func (d *Drive) rotateBitoffset() {
	length := 1
	if d.disk != nil {
		length = d.disk.Length(d.halftrack)
		if length == 0 {
			length = 1
		}
	}
	d.bitoffset = (d.bitoffset + 1) % length
}

// executeByteReady matches original_source/C64/VC1541.cpp::executeByteReady:
// in read mode (and not mid-SYNC) it latches the completed byte into VIA2's
// IRA, gated by CA2 (spec §4.4 "If CA2 on VIA2 is low, byte-ready is
// suppressed"); in write mode it reloads the write shift register from
// VIA2's ORA.
func (d *Drive) executeByteReady() {
	if d.readMode() && !d.sync {
		d.byteReady(uint8(d.readShiftReg))
	}
	if d.writeMode() {
		d.writeShiftReg = d.via2.ORA()
		d.signalByteReady()
	}
}

func (d *Drive) byteReady(b uint8) {
	if d.via2.CA2() {
		d.via2.SetIRA(b)
		d.signalByteReady()
	}
}

func (d *Drive) signalByteReady() {
	if d.via2.OverflowEnabled() {
		d.cpu.SetOverflow()
	}
}

// moveHeadUp/moveHeadDown rescale bitoffset by the ratio of new/old track
// length and byte-align it, per spec §4.4 "Head step motor".
func (d *Drive) moveHeadUp() {
	if d.halftrack < disk.MaxHalftrack {
		d.rescaleBitoffset(d.halftrack + 1)
		d.halftrack++
		d.zone = disk.ZoneForTrack((d.halftrack + 1) / 2)
		d.byteReadyCtr = 0
	}
	d.notifyHeadMoved()
}

func (d *Drive) moveHeadDown() {
	if d.halftrack > 1 {
		d.rescaleBitoffset(d.halftrack - 1)
		d.halftrack--
		d.zone = disk.ZoneForTrack((d.halftrack + 1) / 2)
		d.byteReadyCtr = 0
	}
	d.notifyHeadMoved()
}

func (d *Drive) rescaleBitoffset(newHalftrack int) {
	if d.disk == nil {
		return
	}
	oldLen := d.disk.Length(d.halftrack)
	newLen := d.disk.Length(newHalftrack)
	if oldLen == 0 || newLen == 0 {
		d.bitoffset = 0
		return
	}
	position := float64(d.bitoffset) / float64(oldLen)
	d.bitoffset = int(position*float64(newLen)) &^ 7
}

func (d *Drive) notifyHeadMoved() {
	d.put(emucollab.MsgHeadMoved, d.halftrack)
}

func (d *Drive) setRotating(on bool) {
	if d.rotating == on {
		return
	}
	d.rotating = on
	if on {
		d.put(emucollab.MsgMotorOn, 0)
	} else {
		d.put(emucollab.MsgMotorOff, 0)
	}
}

func (d *Drive) setRedLED(on bool) { d.redLED = on }

func (d *Drive) put(t emucollab.MessageType, data int) {
	if d.queue != nil {
		d.queue.Put(emucollab.Message{Type: t, Data: data})
	}
}

// InsertDisk ejects any mounted disk, mounts image with write protection
// cleared (VIA2 PB4 reads 1) and posts MsgDiskInserted. The write-protect
// sense is not pulsed over time to signal the change.
func (d *Drive) InsertDisk(image *disk.Disk) {
	d.EjectDisk()
	d.disk = image
	d.diskInserted = true
	d.writeProtected = false
	d.put(emucollab.MsgDiskInserted, int(d.number))
}

// EjectDisk unmounts the current disk, leaves write protection cleared and
// posts MsgDiskEjected. The write-protect flag is set and cleared within the
// same call, so no cycle sees a pulse on the sense bit.
func (d *Drive) EjectDisk() {
	if !d.diskInserted {
		return
	}
	d.writeProtected = true
	d.disk = nil
	d.diskInserted = false
	d.writeProtected = false
	d.put(emucollab.MsgDiskEjected, int(d.number))
}

// SetWriteProtection sets the disk's write-protect sense bit directly
// (used by tests and the snapshot engine).
func (d *Drive) SetWriteProtection(protected bool) {
	d.writeProtected = protected
	d.put(emucollab.MsgWriteProtect, boolToInt(protected))
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Halftrack, Bitoffset, DiskInserted expose head state for diagnostics and
// snapshotting.
func (d *Drive) Halftrack() int      { return d.halftrack }
func (d *Drive) Bitoffset() int      { return d.bitoffset }
func (d *Drive) DiskInserted() bool  { return d.diskInserted }
func (d *Drive) Rotating() bool      { return d.rotating }
func (d *Drive) RedLED() bool        { return d.redLED }
func (d *Drive) Sync() bool          { return d.sync }
func (d *Drive) Number() Number      { return d.number }

// Bus models the two-drive topology capped by spec.md's Non-goals (device
// 8 and 9), per SPEC_FULL.md §3.1.
type Bus struct {
	Drives [2]*Drive
}

// ByNumber returns the drive at the given IEC device number, or nil.
func (b *Bus) ByNumber(n Number) *Drive {
	for _, d := range b.Drives {
		if d != nil && d.number == n {
			return d
		}
	}
	return nil
}
