package snapshot

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Writer accumulates a component's fields in the fixed order its
// SerializeState method writes them.
type Writer struct {
	buf *bytes.Buffer
}

func (w *Writer) WriteU8(v uint8)   { w.buf.WriteByte(v) }
func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

func (w *Writer) WriteU16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

func (w *Writer) WriteU32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *Writer) WriteU64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

func (w *Writer) WriteBytes(v []byte) {
	w.WriteU32(uint32(len(v)))
	w.buf.Write(v)
}

// Reader parses a component's fields back out in the same fixed order.
type Reader struct {
	buf *bytes.Reader
}

func (r *Reader) ReadU8() (uint8, error) {
	return r.buf.ReadByte()
}

func (r *Reader) ReadBool() (bool, error) {
	b, err := r.buf.ReadByte()
	return b != 0, err
}

func (r *Reader) ReadU16() (uint16, error) {
	var b [2]byte
	if _, err := readFull(r.buf, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b[:]), nil
}

func (r *Reader) ReadU32() (uint32, error) {
	var b [4]byte
	if _, err := readFull(r.buf, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

func (r *Reader) ReadU64() (uint64, error) {
	var b [8]byte
	if _, err := readFull(r.buf, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b[:]), nil
}

func (r *Reader) ReadBytes() ([]byte, error) {
	n, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	if _, err := readFull(r.buf, out); err != nil {
		return nil, err
	}
	return out, nil
}

func readFull(r *bytes.Reader, out []byte) (int, error) {
	n, err := r.Read(out)
	if err != nil {
		return n, err
	}
	if n != len(out) {
		return n, fmt.Errorf("snapshot: short read (%d of %d bytes)", n, len(out))
	}
	return n, nil
}
