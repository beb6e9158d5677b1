// Package dns implements the DNS protocol unit: the fixed 12-byte header,
// its packed flag bits, and the variable-length records region holding
// the question, answer, authority and additional sections with their
// compressed domain names (spec.md §4.3). It is grounded on the
// parse/serialize/matches_response algorithm in the source library's
// dns.cpp.
package dns

import (
	"encoding/binary"
	"fmt"

	"github.com/veyra-net/pktcraft/bytestream"
	"github.com/veyra-net/pktcraft/pdu"
	"github.com/veyra-net/pktcraft/perr"
)

const fixedHeaderSize = 12

// PDU is the DNS protocol unit.
type PDU struct {
	id     uint16
	qr     uint8
	opcode uint8
	aa     uint8
	tc     uint8
	rd     uint8
	ra     uint8
	z      uint8
	ad     uint8
	cd     uint8
	rcode  uint8

	questionsCount   uint16
	answersCount     uint16
	authorityCount   uint16
	additionalCount  uint16

	// recordsData holds every section's wire bytes back to back, in the
	// order questions, answers, authority, additional. The three idx
	// fields mark the start of each section after the first.
	recordsData  []byte
	answersIdx   uint32
	authorityIdx uint32
	additionalIdx uint32

	inner pdu.PDU
}

// New returns an empty DNS message with no records.
func New() *PDU {
	return &PDU{}
}

// Parse decodes a DNS message from data: the fixed header, then the
// records region, whose section boundaries are located by walking past
// each section's records without fully decoding them.
func Parse(data []byte) (*PDU, error) {
	r := bytestream.NewReader(data)

	id, err := r.ReadUint16BE()
	if err != nil {
		return nil, fmt.Errorf("dns: %w", err)
	}
	flags1, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("dns: %w", err)
	}
	flags2, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("dns: %w", err)
	}
	qdcount, err := r.ReadUint16BE()
	if err != nil {
		return nil, fmt.Errorf("dns: %w", err)
	}
	ancount, err := r.ReadUint16BE()
	if err != nil {
		return nil, fmt.Errorf("dns: %w", err)
	}
	nscount, err := r.ReadUint16BE()
	if err != nil {
		return nil, fmt.Errorf("dns: %w", err)
	}
	arcount, err := r.ReadUint16BE()
	if err != nil {
		return nil, fmt.Errorf("dns: %w", err)
	}

	p := &PDU{
		id:              id,
		qr:              flags1 >> 7,
		opcode:          (flags1 >> 3) & 0x0f,
		aa:              (flags1 >> 2) & 0x01,
		tc:              (flags1 >> 1) & 0x01,
		rd:              flags1 & 0x01,
		ra:              flags2 >> 7,
		z:               (flags2 >> 6) & 0x01,
		ad:              (flags2 >> 5) & 0x01,
		cd:              (flags2 >> 4) & 0x01,
		rcode:           flags2 & 0x0f,
		questionsCount:  qdcount,
		answersCount:    ancount,
		authorityCount:  nscount,
		additionalCount: arcount,
	}

	p.recordsData = append([]byte(nil), r.Pointer()...)
	if len(p.recordsData) > 0 {
		rr := bytestream.NewReader(p.recordsData)
		for i := 0; i < int(qdcount); i++ {
			if err := skipToDnameEnd(rr); err != nil {
				return nil, fmt.Errorf("dns: %w", perr.ErrMalformedPacket)
			}
			if err := rr.Skip(4); err != nil {
				return nil, fmt.Errorf("dns: %w", perr.ErrMalformedPacket)
			}
		}
		p.answersIdx = uint32(rr.Pos())
		if err := skipToSectionEnd(rr, uint32(ancount)); err != nil {
			return nil, err
		}
		p.authorityIdx = uint32(rr.Pos())
		if err := skipToSectionEnd(rr, uint32(nscount)); err != nil {
			return nil, err
		}
		p.additionalIdx = uint32(rr.Pos())
	}

	return p, nil
}

// skipToDnameEnd advances r past one domain name occurrence — labels
// until a zero byte, or until a compression pointer's second byte —
// without resolving pointers, exactly enough to locate a record's
// following fixed fields.
func skipToDnameEnd(r *bytestream.Reader) error {
	for {
		v, err := r.ReadByte()
		if err != nil {
			return err
		}
		if v == 0 {
			return nil
		}
		if v&0xc0 != 0 {
			return r.Skip(1)
		}
		if err := r.Skip(int(v)); err != nil {
			return err
		}
	}
}

// skipToSectionEnd advances r past numRecords resource records.
func skipToSectionEnd(r *bytestream.Reader, numRecords uint32) error {
	for i := uint32(0); i < numRecords; i++ {
		if err := skipToDnameEnd(r); err != nil {
			return fmt.Errorf("dns: %w", perr.ErrMalformedPacket)
		}
		if err := r.Skip(2 + 2 + 4); err != nil {
			return fmt.Errorf("dns: %w", perr.ErrMalformedPacket)
		}
		dataSize, err := r.ReadUint16BE()
		if err != nil {
			return fmt.Errorf("dns: %w", perr.ErrMalformedPacket)
		}
		if !r.CanRead(int(dataSize)) {
			return fmt.Errorf("dns: %w", perr.ErrMalformedPacket)
		}
		if err := r.Skip(int(dataSize)); err != nil {
			return fmt.Errorf("dns: %w", perr.ErrMalformedPacket)
		}
	}
	return nil
}

// ID returns the transaction id.
func (p *PDU) ID() uint16 { return p.id }

// SetID sets the transaction id.
func (p *PDU) SetID(id uint16) { p.id = id }

// QR returns whether this message is a query or a response.
func (p *PDU) QR() QR { return QR(p.qr) }

// SetQR sets the query/response bit.
func (p *PDU) SetQR(v QR) { p.qr = uint8(v) }

// Opcode returns the 4-bit opcode field.
func (p *PDU) Opcode() uint8 { return p.opcode }

// SetOpcode sets the 4-bit opcode field, discarding bits above bit 3.
func (p *PDU) SetOpcode(v uint8) { p.opcode = v & 0x0f }

// AuthoritativeAnswer reports the AA bit.
func (p *PDU) AuthoritativeAnswer() bool { return p.aa != 0 }

// SetAuthoritativeAnswer sets the AA bit.
func (p *PDU) SetAuthoritativeAnswer(v bool) { p.aa = boolBit(v) }

// Truncated reports the TC bit.
func (p *PDU) Truncated() bool { return p.tc != 0 }

// SetTruncated sets the TC bit.
func (p *PDU) SetTruncated(v bool) { p.tc = boolBit(v) }

// RecursionDesired reports the RD bit.
func (p *PDU) RecursionDesired() bool { return p.rd != 0 }

// SetRecursionDesired sets the RD bit.
func (p *PDU) SetRecursionDesired(v bool) { p.rd = boolBit(v) }

// RecursionAvailable reports the RA bit.
func (p *PDU) RecursionAvailable() bool { return p.ra != 0 }

// SetRecursionAvailable sets the RA bit.
func (p *PDU) SetRecursionAvailable(v bool) { p.ra = boolBit(v) }

// Z returns the single reserved bit.
func (p *PDU) Z() bool { return p.z != 0 }

// SetZ sets the reserved bit.
func (p *PDU) SetZ(v bool) { p.z = boolBit(v) }

// AuthenticatedData reports the AD bit.
func (p *PDU) AuthenticatedData() bool { return p.ad != 0 }

// SetAuthenticatedData sets the AD bit.
func (p *PDU) SetAuthenticatedData(v bool) { p.ad = boolBit(v) }

// CheckingDisabled reports the CD bit.
func (p *PDU) CheckingDisabled() bool { return p.cd != 0 }

// SetCheckingDisabled sets the CD bit.
func (p *PDU) SetCheckingDisabled(v bool) { p.cd = boolBit(v) }

// RCode returns the 4-bit response code.
func (p *PDU) RCode() uint8 { return p.rcode }

// SetRCode sets the 4-bit response code, discarding bits above bit 3.
func (p *PDU) SetRCode(v uint8) { p.rcode = v & 0x0f }

// QuestionsCount, AnswersCount, AuthorityCount and AdditionalCount return
// the header's section-size fields.
func (p *PDU) QuestionsCount() uint16  { return p.questionsCount }
func (p *PDU) AnswersCount() uint16    { return p.answersCount }
func (p *PDU) AuthorityCount() uint16  { return p.authorityCount }
func (p *PDU) AdditionalCount() uint16 { return p.additionalCount }

func boolBit(v bool) uint8 {
	if v {
		return 1
	}
	return 0
}

// PDUType implements pdu.PDU.
func (p *PDU) PDUType() pdu.Type { return pdu.TypeDNS }

// HeaderSize implements pdu.PDU: the fixed 12-byte header plus the whole
// records region.
func (p *PDU) HeaderSize() uint32 {
	return fixedHeaderSize + uint32(len(p.recordsData))
}

// Inner implements pdu.PDU. A DNS message is ordinarily the innermost
// unit of a chain; this exists only for interface uniformity.
func (p *PDU) Inner() pdu.PDU { return p.inner }

// SetInner implements pdu.PDU.
func (p *PDU) SetInner(inner pdu.PDU) { p.inner = inner }

// SerializeInto implements pdu.PDU: the packed header followed by the
// records region verbatim, since every mutator keeps that region fully
// wire-ready as it edits it.
func (p *PDU) SerializeInto(buf []byte, _ pdu.PDU) error {
	w := bytestream.NewWriter(buf)
	w.WriteUint16BE(p.id)
	w.WriteByte(p.qr<<7 | p.opcode<<3 | p.aa<<2 | p.tc<<1 | p.rd)
	w.WriteByte(p.ra<<7 | p.z<<6 | p.ad<<5 | p.cd<<4 | p.rcode)
	w.WriteUint16BE(p.questionsCount)
	w.WriteUint16BE(p.answersCount)
	w.WriteUint16BE(p.authorityCount)
	w.WriteUint16BE(p.additionalCount)
	w.WriteBytes(p.recordsData)
	return nil
}

// MatchesResponse implements pdu.PDU. It compares only the raw
// transaction id, with no QR-bit check — the same shallow comparison the
// source library performs (spec.md §9's Open Question on DNS response
// matching resolves in favor of preserving this narrow behavior).
func (p *PDU) MatchesResponse(data []byte) bool {
	if len(data) < 2 {
		return false
	}
	return binary.BigEndian.Uint16(data[:2]) == p.id
}
