// Package snapshot implements the versioned state-capture format of spec
// §4.7 and §6: a fixed-order, no-reflection record stream behind a
// magic+version+timestamp header, restorable atomically. The teacher
// (hardware/snapshot.go) captures state as deep-copied Go structs rather
// than a byte format; this module's `Serializable` record stream is
// hand-rolled on encoding/binary because spec §6 requires an actual
// versioned byte blob ("signature 0x56 0x43 0x36 0x34, versioned body;
// must round-trip") rather than an in-process object graph — no
// serialization library appears in the teacher's or the pack's go.mod, so
// encoding/binary is used directly (see DESIGN.md).
package snapshot

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/bsvec/virtualc64/cerr"
)

// Magic is the four-byte snapshot signature, spec §6 "signature 0x56 0x43
// 0x36 0x34" ("VC64" in ASCII).
var Magic = [4]byte{0x56, 0x43, 0x36, 0x34}

// Version is major.minor.subminor, spec §4.7. Version mismatch rules:
// minor is backward compatible, major blocks load.
type Version struct {
	Major, Minor, Subminor uint8
}

const CurrentMajor = 1

// CurrentVersion is embedded in every snapshot this core writes.
var CurrentVersion = Version{Major: CurrentMajor, Minor: 0, Subminor: 0}

// Tag classifies a record as surviving a reset or not, spec §3 "an
// append-only stream of typed state records flagged CLEAR_ON_RESET or
// KEEP_ON_RESET".
type Tag uint8

const (
	ClearOnReset Tag = iota
	KeepOnReset
)

// Component is implemented by every piece of state the snapshot engine
// walks, in the fixed order the arena registers them (spec §4.7 "serialised
// in a fixed order (no reflection)").
type Component interface {
	Name() string
	Tag() Tag
	SerializeState(w *Writer)
	DeserializeState(r *Reader) error
}

// Header precedes the record stream.
type Header struct {
	Version    Version
	Timestamp  int64
	Screenshot []byte
}

// Save writes the header followed by every component's state, in order,
// into one byte blob.
func Save(components []Component, screenshot []byte) []byte {
	var buf bytes.Buffer
	buf.Write(Magic[:])
	buf.WriteByte(CurrentVersion.Major)
	buf.WriteByte(CurrentVersion.Minor)
	buf.WriteByte(CurrentVersion.Subminor)

	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(time.Now().UnixNano()))
	buf.Write(ts[:])

	var sl [4]byte
	binary.BigEndian.PutUint32(sl[:], uint32(len(screenshot)))
	buf.Write(sl[:])
	buf.Write(screenshot)

	w := &Writer{buf: &buf}
	for _, c := range components {
		w.WriteU8(uint8(c.Tag()))
		c.SerializeState(w)
	}
	return buf.Bytes()
}

// Load parses a snapshot blob and restores every component, validating the
// header first (spec §7 "Snapshot load ... must suspend the core, validate
// the entire payload, then commit atomically"). No component is mutated if
// the header fails validation; if a component record fails to restore,
// every component is rolled back to the state it had before the call.
func Load(blob []byte, components []Component) (err error) {
	if len(blob) < 4+3+8+4 {
		return cerr.New(cerr.FormatError, "snapshot: truncated header")
	}
	var magic [4]byte
	copy(magic[:], blob[:4])
	if magic != Magic {
		return cerr.New(cerr.FormatError, "snapshot: bad magic %x", magic)
	}
	major, minor := blob[4], blob[5]
	if major != CurrentVersion.Major {
		return cerr.New(cerr.FormatError, "snapshot: major version %d incompatible with %d", major, CurrentVersion.Major)
	}
	_ = minor // minor is backward compatible: older-minor files still load

	screenLen := binary.BigEndian.Uint32(blob[15:19])
	pos := 19 + int(screenLen)
	if pos > len(blob) {
		return cerr.New(cerr.FormatError, "snapshot: truncated screenshot")
	}

	backup := Save(components, nil)
	defer func() {
		if err != nil {
			br := &Reader{buf: bytes.NewReader(backup[19:])}
			for _, c := range components {
				_, _ = br.ReadU8()
				_ = c.DeserializeState(br)
			}
		}
	}()

	r := &Reader{buf: bytes.NewReader(blob[pos:])}
	for _, c := range components {
		tag, err := r.ReadU8()
		if err != nil {
			return cerr.Wrap(cerr.FormatError, fmt.Errorf("snapshot: reading tag for %s: %w", c.Name(), err))
		}
		if Tag(tag) != c.Tag() {
			return cerr.New(cerr.FormatError, "snapshot: component order mismatch at %s", c.Name())
		}
		if err := c.DeserializeState(r); err != nil {
			return cerr.Wrap(cerr.FormatError, fmt.Errorf("snapshot: restoring %s: %w", c.Name(), err))
		}
	}
	return nil
}
