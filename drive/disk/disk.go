// Package disk implements the VC1541's in-memory GCR disk model: 84
// half-tracks of raw, bit-addressable magnetic flux, encoded/decoded from
// D64 sector images. Grounded on original_source/C64/VC1541.cpp's
// disk/read-head fields and Emulator/FileFormats/G64File.h's per-halftrack
// bit-stream layout (spec §3 "Disk (VC1541)", §4.4).
package disk

import "github.com/bsvec/virtualc64/cerr"

// MaxHalftrack is the highest addressable half-track; the drive normally
// only parks on odd half-tracks (full tracks), but can be stepped onto
// even ones too (spec GLOSSARY "Half-track").
const MaxHalftrack = 84

// Zone identifies one of the four speed zones the 1541's bit clock is
// switched between, fastest/densest (zone 0, outer) to slowest/sparsest
// (zone 3, inner), per spec §3/§4.4.
type Zone int

const (
	Zone0 Zone = iota
	Zone1
	Zone2
	Zone3
)

// CyclesPerBit is the nominal host-cycle duration of one bit cell in each
// zone, approximated per spec §4.4 ("4, 3.25, 3.5, 3.75 µs approx").
var CyclesPerBit = [4]float64{4.0, 3.25, 3.5, 3.75}

// nominalBitLength is the blank (unencoded) half-track bit-stream length
// per zone, used for half-tracks that carry no GCR-encoded sector content
// (e.g. a freshly formatted or out-of-range-for-D64 half-track). Encoded
// full tracks get their length from the actual GCR byte count instead (see
// gcr.go), which is why this table's values fall within spec §3's
// documented 6250-7928 bit range without needing to be bit-exact to real
// 1541 timing.
var nominalBitLength = [4]int{7928, 7298, 6875, 6250}

// track converts a half-track number (1..84) to its 1-based logical track
// number (1..42).
func track(halftrack int) int { return (halftrack + 1) / 2 }

// ZoneForTrack returns the speed zone a 1-based track number falls into,
// using the standard 1541 zone boundaries (17/24/30/35).
func ZoneForTrack(t int) Zone {
	switch {
	case t <= 17:
		return Zone0
	case t <= 24:
		return Zone1
	case t <= 30:
		return Zone2
	default:
		return Zone3
	}
}

// halftrackBits is one half-track's raw bit stream, packed MSB-first.
type halftrackBits struct {
	bits   []byte
	length int // number of valid bits
}

func newBlankHalftrack(zone Zone) halftrackBits {
	length := nominalBitLength[zone]
	return halftrackBits{bits: make([]byte, (length+7)/8), length: length}
}

func (h *halftrackBits) get(offset int) bool {
	return h.bits[offset/8]&(0x80>>uint(offset%8)) != 0
}

func (h *halftrackBits) set(offset int, bit bool) {
	mask := byte(0x80 >> uint(offset%8))
	if bit {
		h.bits[offset/8] |= mask
	} else {
		h.bits[offset/8] &^= mask
	}
}

// Disk is the 84 half-track GCR bit-stream model (spec §3 "Disk (VC1541)").
type Disk struct {
	halftracks [MaxHalftrack + 1]halftrackBits // 1-indexed; index 0 unused
}

// NewBlank creates a disk with every half-track formatted to its zone's
// nominal blank length, containing no encoded sector content.
func NewBlank() *Disk {
	d := &Disk{}
	for ht := 1; ht <= MaxHalftrack; ht++ {
		d.halftracks[ht] = newBlankHalftrack(ZoneForTrack(track(ht)))
	}
	return d
}

// Length returns the bit-stream length of a half-track, per spec §3
// invariant 4 ("0 ≤ bitoffset < disk.length[halftrack] always").
func (d *Disk) Length(halftrack int) int {
	if halftrack < 1 || halftrack > MaxHalftrack {
		return 0
	}
	return d.halftracks[halftrack].length
}

// ReadBit returns the bit at (halftrack, bitoffset), wrapping bitoffset
// modulo the half-track length (spec §3 invariant 4, "seek wraps modulo
// track length").
func (d *Disk) ReadBit(halftrack, bitoffset int) bool {
	h := &d.halftracks[halftrack]
	if h.length == 0 {
		return false
	}
	return h.get(((bitoffset % h.length) + h.length) % h.length)
}

// WriteBit writes the bit at (halftrack, bitoffset), same wrapping rule as
// ReadBit.
func (d *Disk) WriteBit(halftrack, bitoffset int, bit bool) {
	h := &d.halftracks[halftrack]
	if h.length == 0 {
		return
	}
	h.set(((bitoffset%h.length)+h.length)%h.length, bit)
}

// IsValidPosition reports whether (halftrack, bitoffset) is a legal head
// position (spec §3 invariant 4).
func (d *Disk) IsValidPosition(halftrack, bitoffset int) bool {
	if halftrack < 1 || halftrack > MaxHalftrack {
		return false
	}
	length := d.halftracks[halftrack].length
	return bitoffset >= 0 && (length == 0 || bitoffset < length)
}

// setTrackBytes replaces a full track's (odd half-track's) bit stream with
// the given GCR byte sequence, used by EncodeD64. The even half-track
// straddling the same physical track keeps its nominal blank content,
// mirroring the real drive's inability to read meaningfully from a
// half-stepped head position over a D64-sourced disk.
func (d *Disk) setTrackBytes(halftrack int, gcrBytes []byte) error {
	if halftrack < 1 || halftrack > MaxHalftrack {
		return cerr.New(cerr.InvariantViolation, "disk: half-track %d out of range", halftrack)
	}
	bits := len(gcrBytes) * 8
	h := halftrackBits{bits: make([]byte, len(gcrBytes)), length: bits}
	copy(h.bits, gcrBytes)
	d.halftracks[halftrack] = h
	return nil
}

// trackBytes returns a full track's encoded bit stream as bytes, used by
// DecodeD64. Requires the track to have been written as a whole number of
// bytes (true for anything EncodeD64 produced).
func (d *Disk) trackBytes(halftrack int) []byte {
	h := &d.halftracks[halftrack]
	out := make([]byte, len(h.bits))
	copy(out, h.bits)
	return out
}
