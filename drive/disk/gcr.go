package disk

import "github.com/bsvec/virtualc64/cerr"

// sectorsPerTrack is the standard 35-track 1541 sector layout (683 sectors
// total, no error-info bytes), per spec §6 "Disk image formats".
var sectorsPerTrack = [36]int{
	0, // unused track 0
	21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, // 1-17
	19, 19, 19, 19, 19, 19, 19, // 18-24
	18, 18, 18, 18, 18, 18, // 25-30
	17, 17, 17, 17, 17, // 31-35
}

const (
	d64Tracks     = 35
	d64SectorSize = 256
)

func d64TotalSectors() int {
	n := 0
	for t := 1; t <= d64Tracks; t++ {
		n += sectorsPerTrack[t]
	}
	return n
}

// gcrNibble is the standard Commodore 4-in/5-out GCR code table, indexed
// by the 4-bit data nibble, producing the 5-bit code stored in the low
// bits of the returned byte.
var gcrNibble = [16]byte{
	0x0a, 0x0b, 0x12, 0x13, 0x0e, 0x0f, 0x16, 0x17,
	0x09, 0x19, 0x1a, 0x1b, 0x0d, 0x1d, 0x1e, 0x15,
}

var gcrNibbleInverse = buildGCRInverse()

func buildGCRInverse() map[byte]byte {
	m := make(map[byte]byte, 16)
	for nibble, code := range gcrNibble {
		m[code] = byte(nibble)
	}
	return m
}

// gcrEncodeBlock converts a byte slice whose length is a multiple of 4
// into 4-to-5 GCR-coded bytes (len*5/4 bytes out), the group-code scheme
// used by every 1541 header and data block.
func gcrEncodeBlock(data []byte) []byte {
	out := make([]byte, 0, len(data)*5/4)
	var bitbuf uint64
	var nbits int

	flush := func() {
		for nbits >= 8 {
			nbits -= 8
			out = append(out, byte(bitbuf>>uint(nbits)))
		}
	}

	for _, b := range data {
		hi := gcrNibble[b>>4]
		lo := gcrNibble[b&0x0F]
		bitbuf = (bitbuf << 5) | uint64(hi)
		nbits += 5
		flush()
		bitbuf = (bitbuf << 5) | uint64(lo)
		nbits += 5
		flush()
	}
	if nbits > 0 {
		out = append(out, byte(bitbuf<<uint(8-nbits)))
	}
	return out
}

// gcrDecodeBlock is the inverse of gcrEncodeBlock: given nOut data bytes
// worth of GCR-coded input, recovers the original bytes.
func gcrDecodeBlock(gcr []byte, nOut int) ([]byte, error) {
	out := make([]byte, 0, nOut)
	var bitbuf uint64
	var nbits int
	nibbles := make([]byte, 0, nOut*2)

	for _, b := range gcr {
		bitbuf = (bitbuf << 8) | uint64(b)
		nbits += 8
		for nbits >= 5 && len(nibbles) < nOut*2 {
			nbits -= 5
			code := byte((bitbuf >> uint(nbits)) & 0x1F)
			nibble, ok := gcrNibbleInverse[code]
			if !ok {
				return nil, cerr.New(cerr.FormatError, "disk: invalid GCR code %05b", code)
			}
			nibbles = append(nibbles, nibble)
		}
	}
	for i := 0; i+1 < len(nibbles); i += 2 {
		out = append(out, nibbles[i]<<4|nibbles[i+1])
	}
	return out, nil
}

func checksum(bytes ...byte) byte {
	var c byte
	for _, b := range bytes {
		c ^= b
	}
	return c
}

const (
	syncBytes    = 5
	headerGapLen = 9
	dataGapLen   = 8 // trailing gap after the last sector on a track
)

// EncodeD64 transcodes a raw 35-track, 683-sector D64 sector image into the
// disk's GCR half-track bit streams (spec §8 testable property 10), using
// the real 1541 block layout: SYNC, header block (GCR-coded track/sector/
// id), gap, SYNC, data block (GCR-coded 256 data bytes + checksum), gap.
// Only odd half-tracks (the 35 physical tracks) are written; even
// half-tracks keep their blank nominal content.
func EncodeD64(d64 []byte, id1, id2 byte) (*Disk, error) {
	want := d64TotalSectors() * d64SectorSize
	if len(d64) != want {
		return nil, cerr.New(cerr.FileError, "disk: D64 image is %d bytes, want %d", len(d64), want)
	}

	d := NewBlank()
	offset := 0
	for t := 1; t <= d64Tracks; t++ {
		n := sectorsPerTrack[t]
		var track []byte
		for s := 0; s < n; s++ {
			sector := d64[offset : offset+d64SectorSize]
			offset += d64SectorSize

			header := []byte{0x08, checksum(byte(s), byte(t), id2, id1), byte(s), byte(t), id2, id1, 0x0F, 0x0F}
			track = append(track, syncMark()...)
			track = append(track, gcrEncodeBlock(header)...)
			track = append(track, gapBytes(headerGapLen)...)

			data := make([]byte, 0, d64SectorSize+4)
			data = append(data, 0x07)
			data = append(data, sector...)
			data = append(data, checksum(sector...), 0x00, 0x00)
			track = append(track, syncMark()...)
			track = append(track, gcrEncodeBlock(data)...)
			track = append(track, gapBytes(dataGapLen)...)
		}
		if err := d.setTrackBytes(t*2-1, track); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func syncMark() []byte { return []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF}[:syncBytes] }

func gapBytes(n int) []byte {
	g := make([]byte, n)
	for i := range g {
		g[i] = 0x55
	}
	return g
}

// DecodeD64 recovers a raw D64 sector image from a disk's GCR-encoded
// tracks, the inverse of EncodeD64 (spec §8 testable property 10: "D64 →
// GCR encode → GCR decode → D64 is the identity on valid images").
func DecodeD64(d *Disk) ([]byte, error) {
	out := make([]byte, 0, d64TotalSectors()*d64SectorSize)

	for t := 1; t <= d64Tracks; t++ {
		n := sectorsPerTrack[t]
		track := d.trackBytes(t*2 - 1)

		sectors := make([][]byte, n)
		pos := 0
		for s := 0; s < n; s++ {
			pos = skipSync(track, pos)
			headerGCR, next := sliceGCR(track, pos, 8)
			header, err := gcrDecodeBlock(headerGCR, 8)
			if err != nil {
				return nil, err
			}
			pos = next + headerGapLen

			pos = skipSync(track, pos)
			dataGCR, next2 := sliceGCR(track, pos, d64SectorSize+4)
			data, err := gcrDecodeBlock(dataGCR, d64SectorSize+4)
			if err != nil {
				return nil, err
			}
			pos = next2 + dataGapLen

			sectorNum := int(header[2])
			if sectorNum < 0 || sectorNum >= n {
				return nil, cerr.New(cerr.FormatError, "disk: decoded sector number %d out of range", sectorNum)
			}
			sectors[sectorNum] = append([]byte(nil), data[1:1+d64SectorSize]...)
		}
		for s := 0; s < n; s++ {
			if sectors[s] == nil {
				return nil, cerr.New(cerr.FormatError, "disk: track %d sector %d missing from GCR stream", t, s)
			}
			out = append(out, sectors[s]...)
		}
	}
	return out, nil
}

func skipSync(track []byte, pos int) int {
	for pos < len(track) && track[pos] == 0xFF {
		pos++
	}
	return pos
}

func sliceGCR(track []byte, pos, nOut int) ([]byte, int) {
	gcrLen := nOut * 5 / 4
	end := pos + gcrLen
	if end > len(track) {
		end = len(track)
	}
	return track[pos:end], end
}
