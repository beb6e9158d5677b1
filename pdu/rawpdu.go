package pdu

import "bytes"

// RawPDU wraps an opaque payload that no registered decoder claimed. It
// is always the innermost unit in a chain (spec.md §3: "a PU whose
// identity is RawPDU has no inner").
type RawPDU struct {
	data []byte
}

// NewRawPDU copies data into a new RawPDU.
func NewRawPDU(data []byte) *RawPDU {
	cp := make([]byte, len(data))
	copy(cp, data)
	return &RawPDU{data: cp}
}

// Payload returns the wrapped bytes.
func (r *RawPDU) Payload() []byte { return r.data }

// PDUType implements PDU.
func (r *RawPDU) PDUType() Type { return TypeRawPDU }

// HeaderSize implements PDU.
func (r *RawPDU) HeaderSize() uint32 { return uint32(len(r.data)) }

// SerializeInto implements PDU.
func (r *RawPDU) SerializeInto(buf []byte, _ PDU) error {
	copy(buf, r.data)
	return nil
}

// MatchesResponse implements PDU: a raw payload matches only a
// byte-identical reply, the most conservative contract available for an
// unstructured blob.
func (r *RawPDU) MatchesResponse(data []byte) bool {
	return bytes.Equal(r.data, data)
}

// Inner implements PDU: RawPDU never owns an inner unit.
func (r *RawPDU) Inner() PDU { return nil }

// SetInner implements PDU as a no-op; RawPDU is always innermost.
func (r *RawPDU) SetInner(PDU) {}
