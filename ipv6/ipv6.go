// Package ipv6 implements the IPv6 protocol unit: the 40-byte fixed
// header, the chained extension headers that may follow it, and the
// dispatch of whatever inner unit the chain terminates in (spec.md
// §4.2). It is grounded on the parse/serialize/matches_response
// algorithm in the source library's ipv6.cpp.
package ipv6

import (
	"fmt"

	"github.com/veyra-net/pktcraft/addr"
	"github.com/veyra-net/pktcraft/bytestream"
	"github.com/veyra-net/pktcraft/pdu"
	"github.com/veyra-net/pktcraft/perr"
)

const fixedHeaderSize = 40

// PDU is the IPv6 protocol unit.
type PDU struct {
	version      uint8
	trafficClass uint8
	flowLabel    uint32 // low 20 bits significant
	nextHeader   uint8  // discriminator of the first extension header, or of inner if none
	hopLimit     uint8
	src          addr.IPv6
	dst          addr.IPv6
	extHeaders   []ExtHeader
	inner        pdu.PDU
}

// New returns an IPv6 unit with sane defaults (version 6, hop limit 64)
// and no extension headers or inner unit.
func New(src, dst addr.IPv6) *PDU {
	return &PDU{version: 6, hopLimit: 64, src: src, dst: dst}
}

// Parse decodes an IPv6 datagram from data: the fixed 40-byte header,
// followed by zero or more chained extension headers, followed by
// whatever inner unit the final discriminator resolves to.
func Parse(data []byte) (*PDU, error) {
	r := bytestream.NewReader(data)

	b0, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("ipv6: %w", err)
	}
	b1, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("ipv6: %w", err)
	}
	b2, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("ipv6: %w", err)
	}
	b3, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("ipv6: %w", err)
	}

	p := &PDU{}
	p.version = b0 >> 4
	p.trafficClass = (b0&0x0f)<<4 | b1>>4
	p.flowLabel = (uint32(b1&0x0f) << 16) | (uint32(b2) << 8) | uint32(b3)

	if _, err := r.ReadUint16BE(); err != nil { // payload_length, recomputed on serialize
		return nil, fmt.Errorf("ipv6: %w", err)
	}
	nextHeader, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("ipv6: %w", err)
	}
	p.nextHeader = nextHeader

	hopLimit, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("ipv6: %w", err)
	}
	p.hopLimit = hopLimit

	srcBytes, err := r.ReadBytes(16)
	if err != nil {
		return nil, fmt.Errorf("ipv6: %w", err)
	}
	p.src = addr.IPv6FromBytes(srcBytes)

	dstBytes, err := r.ReadBytes(16)
	if err != nil {
		return nil, fmt.Errorf("ipv6: %w", err)
	}
	p.dst = addr.IPv6FromBytes(dstBytes)

	cur := p.nextHeader
	// NoNextHeader ends the chain: nothing follows it to read.
	for IsExtensionHeader(cur) && cur != NoNextHeader {
		if !r.CanRead(2) {
			return nil, fmt.Errorf("ipv6: %w: truncated extension header", perr.ErrMalformedPacket)
		}
		optByte, _ := r.ReadByte()
		lengthOctets, _ := r.ReadByte()
		payloadSize := (int(lengthOctets)+1)*8 - 2
		payload, err := r.ReadBytes(payloadSize)
		if err != nil {
			return nil, fmt.Errorf("ipv6: %w: truncated extension header payload", perr.ErrMalformedPacket)
		}
		p.extHeaders = append(p.extHeaders, ExtHeader{Type: cur, Option: optByte, Payload: payload})
		cur = optByte
	}

	if r.Remaining() > 0 {
		inner, err := pdu.ResolveInner(pdu.Dispatch, pdu.IPv6Ext, cur, r.Pointer())
		if err != nil {
			return nil, fmt.Errorf("ipv6: %w", err)
		}
		p.inner = inner
	}

	return p, nil
}

// Version returns the IP version field (always 6 for a well-formed unit).
func (p *PDU) Version() uint8 { return p.version }

// TrafficClass returns the 8-bit traffic class field.
func (p *PDU) TrafficClass() uint8 { return p.trafficClass }

// SetTrafficClass sets the 8-bit traffic class field.
func (p *PDU) SetTrafficClass(v uint8) { p.trafficClass = v }

// FlowLabel returns the 20-bit flow label.
func (p *PDU) FlowLabel() uint32 { return p.flowLabel & 0xfffff }

// SetFlowLabel sets the 20-bit flow label, discarding any bits above bit 19.
func (p *PDU) SetFlowLabel(v uint32) { p.flowLabel = v & 0xfffff }

// HopLimit returns the hop limit field.
func (p *PDU) HopLimit() uint8 { return p.hopLimit }

// SetHopLimit sets the hop limit field.
func (p *PDU) SetHopLimit(v uint8) { p.hopLimit = v }

// Src returns the source address.
func (p *PDU) Src() addr.IPv6 { return p.src }

// SetSrc sets the source address.
func (p *PDU) SetSrc(a addr.IPv6) { p.src = a }

// Dst returns the destination address.
func (p *PDU) Dst() addr.IPv6 { return p.dst }

// SetDst sets the destination address.
func (p *PDU) SetDst(a addr.IPv6) { p.dst = a }

// ExtHeaders returns the chained extension headers in wire order.
func (p *PDU) ExtHeaders() []ExtHeader { return p.extHeaders }

// AddExtHeader appends an extension header of the given type to the
// chain, wiring up the preceding link (the fixed header's next_header
// field, or the previous extension header's Option) to point at it.
// SerializeInto separately rewrites only the last link's Option to match
// the inner unit's resolved discriminator.
func (p *PDU) AddExtHeader(typ uint8, h ExtHeader) {
	h.Type = typ
	if n := len(p.extHeaders); n > 0 {
		p.extHeaders[n-1].Option = typ
	} else {
		p.nextHeader = typ
	}
	p.extHeaders = append(p.extHeaders, h)
}

// ExtensionHeader returns the first extension header in the chain whose
// own Type equals id, and whether one was found.
func (p *PDU) ExtensionHeader(id uint8) (ExtHeader, bool) {
	for _, h := range p.extHeaders {
		if h.Type == id {
			return h, true
		}
	}
	return ExtHeader{}, false
}

// PDUType implements pdu.PDU.
func (p *PDU) PDUType() pdu.Type { return pdu.TypeIPv6 }

// HeaderSize implements pdu.PDU: the fixed 40-byte header plus every
// chained extension header's on-wire size.
func (p *PDU) HeaderSize() uint32 {
	total := uint32(fixedHeaderSize)
	for _, h := range p.extHeaders {
		total += h.wireSize()
	}
	return total
}

// Inner implements pdu.PDU.
func (p *PDU) Inner() pdu.PDU { return p.inner }

// SetInner implements pdu.PDU.
func (p *PDU) SetInner(inner pdu.PDU) { p.inner = inner }

// setLastNextHeader rewrites the discriminator that announces the inner
// unit's type: the last extension header's Option field if any exist,
// otherwise the fixed header's own next_header slot. Ported from
// set_last_next_header in the source library.
func (p *PDU) setLastNextHeader(disc uint8) {
	if n := len(p.extHeaders); n > 0 {
		p.extHeaders[n-1].Option = disc
		return
	}
	p.nextHeader = disc
}

// SerializeInto implements pdu.PDU. It recomputes the payload_length
// field from the chain's actual size and rewrites the discriminator of
// whatever the inner unit resolves to, exactly as the source library's
// write_serialization does.
func (p *PDU) SerializeInto(buf []byte, _ pdu.PDU) error {
	if p.inner != nil {
		disc, ok := pdu.DiscriminatorFor(p.inner)
		if !ok {
			return fmt.Errorf("ipv6: %w: no discriminator registered for inner unit", perr.ErrUnknownPDU)
		}
		p.setLastNextHeader(disc)
	} else if len(p.extHeaders) == 0 {
		p.setLastNextHeader(NoNextHeader)
	}

	w := bytestream.NewWriter(buf)

	version := p.version
	if version == 0 {
		version = 6
	}
	w.WriteByte(version<<4 | p.trafficClass>>4)
	w.WriteByte(p.trafficClass<<4 | byte(p.flowLabel>>16)&0x0f)
	w.WriteByte(byte(p.flowLabel >> 8))
	w.WriteByte(byte(p.flowLabel))

	payloadLength := uint16(0)
	for _, h := range p.extHeaders {
		payloadLength += uint16(h.wireSize())
	}
	if p.inner != nil {
		payloadLength += uint16(pdu.Len(p.inner))
	}
	w.WriteUint16BE(payloadLength)

	w.WriteByte(p.nextHeader)
	w.WriteByte(p.hopLimit)
	w.WriteBytes(p.src.Bytes())
	w.WriteBytes(p.dst.Bytes())

	for _, h := range p.extHeaders {
		w.WriteByte(h.Option)
		w.WriteByte(h.lengthOctets())
		w.WriteBytes(h.Payload)
	}

	return nil
}

// MatchesResponse implements pdu.PDU. Addresses must match in reverse
// (src<->dst), with link-local multicast destinations treated as a
// wildcard match against any unicast reply, and the discriminator chase
// walks past any extension headers before delegating to the inner unit,
// mirroring the source library's matches_response.
func (p *PDU) MatchesResponse(data []byte) bool {
	other, err := Parse(data)
	if err != nil {
		return false
	}

	if p.src != other.dst {
		return false
	}
	if p.dst != other.src {
		if !p.dst.IsLinkLocalMulticast() {
			return false
		}
	}

	if p.inner == nil {
		return other.inner == nil
	}
	if other.inner == nil {
		return false
	}
	return p.inner.MatchesResponse(mustSerializeInner(other))
}

func mustSerializeInner(p *PDU) []byte {
	out, err := pdu.Serialize(p.inner)
	if err != nil {
		return nil
	}
	return out
}
