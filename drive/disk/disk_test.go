package disk

import "testing"

func TestBitoffsetWrapsModuloTrackLength(t *testing.T) {
	d := NewBlank()
	length := d.Length(1)
	if length == 0 {
		t.Fatalf("expected nonzero length for half-track 1")
	}

	d.WriteBit(1, 0, true)
	if !d.ReadBit(1, length) {
		t.Fatalf("expected bitoffset %d to wrap to 0", length)
	}
}

func TestIsValidPositionRejectsOutOfRangeHalftrack(t *testing.T) {
	d := NewBlank()
	if d.IsValidPosition(0, 0) {
		t.Fatalf("half-track 0 should be invalid")
	}
	if d.IsValidPosition(MaxHalftrack+1, 0) {
		t.Fatalf("half-track %d should be invalid", MaxHalftrack+1)
	}
	if !d.IsValidPosition(1, 0) {
		t.Fatalf("half-track 1 offset 0 should be valid")
	}
}

func TestZoneForTrackBoundaries(t *testing.T) {
	cases := map[int]Zone{1: Zone0, 17: Zone0, 18: Zone1, 24: Zone1, 25: Zone2, 30: Zone2, 31: Zone3, 35: Zone3}
	for track, want := range cases {
		if got := ZoneForTrack(track); got != want {
			t.Errorf("track %d: got zone %d, want %d", track, got, want)
		}
	}
}

func TestD64RoundTripIsIdentity(t *testing.T) {
	total := d64TotalSectors() * d64SectorSize
	image := make([]byte, total)
	for i := range image {
		image[i] = byte(i * 7 % 251)
	}

	d, err := EncodeD64(image, 0x32, 0x41) // "2A" disk id
	if err != nil {
		t.Fatalf("EncodeD64: %v", err)
	}
	decoded, err := DecodeD64(d)
	if err != nil {
		t.Fatalf("DecodeD64: %v", err)
	}
	if len(decoded) != len(image) {
		t.Fatalf("decoded length %d, want %d", len(decoded), len(image))
	}
	for i := range image {
		if decoded[i] != image[i] {
			t.Fatalf("byte %d: got %02x, want %02x", i, decoded[i], image[i])
		}
	}
}

func TestEncodeD64RejectsWrongSize(t *testing.T) {
	if _, err := EncodeD64(make([]byte, 10), 0, 0); err == nil {
		t.Fatalf("expected error for undersized image")
	}
}
