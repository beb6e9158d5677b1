// Package bytestream implements the bidirectional, non-owning cursor that
// every protocol unit parser and encoder in pktcraft is built on: bounded
// big-endian/little-endian reads over a borrowed byte slice, raw copies,
// skips, and an explicit under-run signal instead of a panic.
//
// A Reader and a Writer are both single-threaded, non-owning views over a
// caller-provided slice; neither allocates on the read/write path.
package bytestream

import (
	"encoding/binary"

	"github.com/veyra-net/pktcraft/perr"
)

// Reader is a forward-only cursor over a borrowed byte slice.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps buf for sequential reading. buf is borrowed, not copied.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// CanRead reports whether n more bytes can be read without under-running
// the buffer.
func (r *Reader) CanRead(n int) bool {
	return n >= 0 && r.pos+n <= len(r.buf)
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.pos
}

// Pointer returns the unread tail of the buffer without advancing the
// cursor.
func (r *Reader) Pointer() []byte {
	return r.buf[r.pos:]
}

// Pos returns the current read offset from the start of the buffer.
func (r *Reader) Pos() int { return r.pos }

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int) error {
	if !r.CanRead(n) {
		return perr.ErrBufferTooShort
	}
	r.pos += n
	return nil
}

// ReadBytes copies the next n bytes into a new slice and advances the
// cursor.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if !r.CanRead(n) {
		return nil, perr.ErrBufferTooShort
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}

// ReadByte reads a single byte.
func (r *Reader) ReadByte() (byte, error) {
	if !r.CanRead(1) {
		return 0, perr.ErrBufferTooShort
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

// ReadUint16BE reads a 2-byte big-endian unsigned integer.
func (r *Reader) ReadUint16BE() (uint16, error) {
	if !r.CanRead(2) {
		return 0, perr.ErrBufferTooShort
	}
	v := binary.BigEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v, nil
}

// ReadUint32BE reads a 4-byte big-endian unsigned integer.
func (r *Reader) ReadUint32BE() (uint32, error) {
	if !r.CanRead(4) {
		return 0, perr.ErrBufferTooShort
	}
	v := binary.BigEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

// ReadUint64BE reads an 8-byte big-endian unsigned integer.
func (r *Reader) ReadUint64BE() (uint64, error) {
	if !r.CanRead(8) {
		return 0, perr.ErrBufferTooShort
	}
	v := binary.BigEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return v, nil
}

// ReadUint16LE reads a 2-byte little-endian unsigned integer.
func (r *Reader) ReadUint16LE() (uint16, error) {
	if !r.CanRead(2) {
		return 0, perr.ErrBufferTooShort
	}
	v := binary.LittleEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v, nil
}

// ReadUint32LE reads a 4-byte little-endian unsigned integer.
func (r *Reader) ReadUint32LE() (uint32, error) {
	if !r.CanRead(4) {
		return 0, perr.ErrBufferTooShort
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

// ReadUint64LE reads an 8-byte little-endian unsigned integer.
func (r *Reader) ReadUint64LE() (uint64, error) {
	if !r.CanRead(8) {
		return 0, perr.ErrBufferTooShort
	}
	v := binary.LittleEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return v, nil
}

// Writer is a forward-only cursor over a borrowed, pre-sized byte slice.
// It never grows the underlying buffer; the caller is expected to have
// sized it via the unit's HeaderSize/Len contract beforehand.
type Writer struct {
	buf []byte
	pos int
}

// NewWriter wraps buf for sequential writing. buf is borrowed, not copied.
func NewWriter(buf []byte) *Writer {
	return &Writer{buf: buf}
}

// Pos returns the current write offset from the start of the buffer.
func (w *Writer) Pos() int { return w.pos }

// WriteByte writes a single byte.
func (w *Writer) WriteByte(b byte) {
	w.buf[w.pos] = b
	w.pos++
}

// WriteBytes copies b verbatim.
func (w *Writer) WriteBytes(b []byte) {
	n := copy(w.buf[w.pos:], b)
	w.pos += n
}

// WriteUint16BE writes a 2-byte big-endian unsigned integer.
func (w *Writer) WriteUint16BE(v uint16) {
	binary.BigEndian.PutUint16(w.buf[w.pos:], v)
	w.pos += 2
}

// WriteUint32BE writes a 4-byte big-endian unsigned integer.
func (w *Writer) WriteUint32BE(v uint32) {
	binary.BigEndian.PutUint32(w.buf[w.pos:], v)
	w.pos += 4
}

// WriteUint64BE writes an 8-byte big-endian unsigned integer.
func (w *Writer) WriteUint64BE(v uint64) {
	binary.BigEndian.PutUint64(w.buf[w.pos:], v)
	w.pos += 8
}

// WriteUint16LE writes a 2-byte little-endian unsigned integer.
func (w *Writer) WriteUint16LE(v uint16) {
	binary.LittleEndian.PutUint16(w.buf[w.pos:], v)
	w.pos += 2
}

// WriteUint32LE writes a 4-byte little-endian unsigned integer.
func (w *Writer) WriteUint32LE(v uint32) {
	binary.LittleEndian.PutUint32(w.buf[w.pos:], v)
	w.pos += 4
}

// WriteUint64LE writes an 8-byte little-endian unsigned integer.
func (w *Writer) WriteUint64LE(v uint64) {
	binary.LittleEndian.PutUint64(w.buf[w.pos:], v)
	w.pos += 8
}
