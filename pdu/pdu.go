// Package pdu defines the polymorphic contract every protocol layer in
// pktcraft implements — the "protocol unit" (PU) abstraction described in
// spec.md §3–§4.1 — along with the process-wide dispatch registries and
// the RawPDU fallback that make heterogeneous PU chains possible without a
// v-table: dispatch is a tagged-sum switch on Type, never inheritance.
package pdu

// Type tags the concrete kind of a protocol unit. It is compared with a
// plain switch by every dispatcher in the module instead of relying on
// dynamic-dispatch identity, per spec.md §9 ("Re-express as a tagged sum
// over protocol kinds ... dispatch by match on the tag, not by v-table").
type Type uint16

const (
	// TypeRawPDU marks an opaque payload with no further structure — the
	// universal fallback when no decoder claims a buffer.
	TypeRawPDU Type = iota
	TypeIPv6
	TypeDNS
	TypeDot11
	TypeDot11Beacon
	TypeDot11AssocRequest
	TypeDot11AssocResponse
	TypeDot11Disassoc
	TypeDot11QoSData
	TypeSNAP
	// Peer protocol units named in spec.md §1 as out of scope for this
	// core but sharing its contract; their Type tags are reserved here
	// so a caller-supplied decoder can plug into the same registries
	// without a tag collision.
	TypeEthernet
	TypeARP
	TypeTCP
	TypeUDP
	TypeICMP
	TypeICMPv6
	TypeRadiotap
)

// PDU is the contract every protocol unit implements: parse into a Go
// value ahead of time (constructors, not this interface, do the parsing —
// see spec.md §4.1's "parse(bytes) -> Unit | MalformedPacket"), report
// its own serialized size, serialize into a pre-sized buffer, expose its
// tagged identity, and own a singly linked inner payload.
type PDU interface {
	// PDUType returns the tagged identity of this unit.
	PDUType() Type

	// HeaderSize returns the exact number of bytes this unit will
	// contribute to serialization, excluding its inner PDU.
	HeaderSize() uint32

	// SerializeInto writes exactly HeaderSize() bytes to buf[0:HeaderSize()].
	// It must not touch the inner PDU's bytes; the caller (Serialize, in
	// this package) arranges for the inner PDU to be serialized into
	// buf[HeaderSize():]. parent is the unit that owns this one in the
	// chain, or nil at the top; it exists so a child can read parent
	// fields (e.g. a pseudo-header) without owning a back-pointer.
	SerializeInto(buf []byte, parent PDU) error

	// MatchesResponse decides whether data, read starting at this unit's
	// layer, could be the reply to the instance holding the call.
	MatchesResponse(data []byte) bool

	// Inner returns the owned inner PDU, or nil if this is the innermost
	// unit in the chain.
	Inner() PDU

	// SetInner replaces the owned inner PDU, dropping the previous one.
	SetInner(inner PDU)
}

// Chain links units in order and returns the head. Each unit but the last
// has its inner PDU set to the next one; this is the "chaining operator"
// glue component from spec.md §2 item 10, standing in for the source
// library's PDU / PDU concatenation operator, which Go has no analogue
// for.
func Chain(units ...PDU) PDU {
	if len(units) == 0 {
		return nil
	}
	for i := 0; i < len(units)-1; i++ {
		units[i].SetInner(units[i+1])
	}
	return units[0]
}

// Len returns the total serialized size of the chain rooted at top.
func Len(top PDU) uint32 {
	var total uint32
	for cur := top; cur != nil; cur = cur.Inner() {
		total += cur.HeaderSize()
	}
	return total
}

// Serialize walks the chain rooted at top and writes it to a single
// freshly allocated buffer sized to Len(top). Each unit's SerializeInto
// is called with the previous unit as parent, giving it a chance to peek
// at outer fields (e.g. for a pseudo-header checksum) without holding an
// owning back-pointer.
func Serialize(top PDU) ([]byte, error) {
	buf := make([]byte, Len(top))
	offset := uint32(0)
	var parent PDU
	for cur := top; cur != nil; cur = cur.Inner() {
		n := cur.HeaderSize()
		if err := cur.SerializeInto(buf[offset:offset+n], parent); err != nil {
			return nil, err
		}
		parent = cur
		offset += n
	}
	return buf, nil
}

// Find returns the first unit in the chain rooted at top whose PDUType
// equals t, or nil if none matches.
func Find(top PDU, t Type) PDU {
	for cur := top; cur != nil; cur = cur.Inner() {
		if cur.PDUType() == t {
			return cur
		}
	}
	return nil
}
