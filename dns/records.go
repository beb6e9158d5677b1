package dns

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/veyra-net/pktcraft/addr"
	"github.com/veyra-net/pktcraft/bytestream"
	"github.com/veyra-net/pktcraft/perr"
)

// maxNamePointerJumps bounds the number of compression-pointer hops
// composeName will follow before giving up. The source library has no
// such bound and can be driven into an unbounded loop by a crafted
// pointer cycle; this cap is a deliberate hardening of that edge case.
const maxNamePointerJumps = 128

// maxNameLength is the decoded name length cap, including separating
// dots, matching the 255-byte limit enforced by compose_name.
const maxNameLength = 255

// encodeDomainName renders name as a sequence of {length, label} pairs
// terminated by a zero byte, uncompressed. Ported from
// DNS::encode_domain_name.
func encodeDomainName(name string) []byte {
	if name == "" {
		return []byte{0}
	}
	labels := strings.Split(name, ".")
	out := make([]byte, 0, len(name)+2)
	for _, l := range labels {
		out = append(out, byte(len(l)))
		out = append(out, l...)
	}
	out = append(out, 0)
	return out
}

// composeName decodes the domain name starting at records[ptr], following
// compression pointers as needed. It returns the decoded name and the
// number of bytes consumed from ptr to the end of the name's own
// representation (i.e. up to and including a pointer's second byte, or
// the terminating zero byte) — not counting bytes visited only by
// following a pointer elsewhere in the buffer. Ported from
// DNS::compose_name.
func composeName(records []byte, ptr int) (string, int, error) {
	start := ptr
	end := -1
	var out []byte
	jumps := 0

	for {
		if ptr >= len(records) {
			return "", 0, fmt.Errorf("dns: %w", perr.ErrMalformedPacket)
		}
		b := records[ptr]
		if b == 0 {
			ptr++
			break
		}
		if b&0xc0 != 0 {
			jumps++
			if jumps > maxNamePointerJumps {
				return "", 0, fmt.Errorf("dns: %w: too many compression pointer hops", perr.ErrMalformedPacket)
			}
			if ptr+2 > len(records) {
				return "", 0, fmt.Errorf("dns: %w", perr.ErrMalformedPacket)
			}
			idx := int(binary.BigEndian.Uint16(records[ptr:ptr+2])) & 0x3fff
			if end == -1 {
				end = ptr + 2
			}
			if idx < fixedHeaderSize {
				return "", 0, fmt.Errorf("dns: %w: pointer targets the fixed header", perr.ErrMalformedPacket)
			}
			target := idx - fixedHeaderSize
			if target >= len(records) {
				return "", 0, fmt.Errorf("dns: %w: pointer target out of range", perr.ErrMalformedPacket)
			}
			ptr = target
			continue
		}
		size := int(b)
		ptr++
		if ptr+size > len(records) || len(out)+size+1 > maxNameLength {
			return "", 0, fmt.Errorf("dns: %w", perr.ErrMalformedPacket)
		}
		if len(out) > 0 {
			out = append(out, '.')
		}
		out = append(out, records[ptr:ptr+size]...)
		ptr += size
	}

	if end == -1 {
		end = ptr
	}
	return string(out), end - start, nil
}

// updateDNameOffsets rewrites the compression pointer, if any, in the
// domain name occurrence starting at data[pos], shifting its target by
// offset when the target is strictly greater than threshold. It returns
// the position immediately following this dname occurrence. This departs
// from update_dname's literal C++ behavior, which returns a position
// still pointing at the terminating zero byte for inline (non-pointer)
// names — an off-by-one that would misalign every field read after it;
// here the terminator is consumed like any other label boundary.
func updateDNameOffsets(data []byte, pos int, threshold, offset uint32) int {
	for {
		b := data[pos]
		if b == 0 {
			return pos + 1
		}
		if b&0xc0 != 0 {
			idx := binary.BigEndian.Uint16(data[pos : pos+2])
			target := uint32(idx & 0x3fff)
			if target > threshold {
				newTarget := (target + offset) | 0xc000
				binary.BigEndian.PutUint16(data[pos:pos+2], uint16(newTarget))
			}
			return pos + 2
		}
		pos += int(b) + 1
	}
}

// updateRecords rewrites the compression pointers of every domain name
// in numRecords records starting at *sectionStart, then shifts
// *sectionStart itself by offset. Ported from DNS::update_records.
func updateRecords(data []byte, sectionStart *uint32, numRecords, threshold, offset uint32) error {
	if *sectionStart < uint32(len(data)) {
		pos := int(*sectionStart)
		for i := uint32(0); i < numRecords; i++ {
			pos = updateDNameOffsets(data, pos, threshold, offset)
			if pos+2+2+4+2 > len(data) {
				return fmt.Errorf("dns: %w", perr.ErrMalformedPacket)
			}
			typ := QueryType(binary.BigEndian.Uint16(data[pos : pos+2]))
			pos += 2 + 2 + 4
			size := binary.BigEndian.Uint16(data[pos : pos+2])
			pos += 2
			if typ == TypeMX {
				pos += 2
				size -= 2
			}
			if containsDName(typ) {
				updateDNameOffsets(data, pos, threshold, offset)
			}
			pos += int(size)
		}
	}
	*sectionStart += offset
	return nil
}

func insertAt(data []byte, pos int, ins []byte) []byte {
	out := make([]byte, 0, len(data)+len(ins))
	out = append(out, data[:pos]...)
	out = append(out, ins...)
	out = append(out, data[pos:]...)
	return out
}

// AddQuestion appends a question to the message, shifting every
// domain-name compression pointer in later sections that pointed past
// the insertion point (spec.md §4.3's insertion-shift rule). Ported from
// DNS::add_query.
func (p *PDU) AddQuestion(q Question) error {
	encoded := encodeDomainName(q.Name)
	buf := make([]byte, len(encoded)+4)
	copy(buf, encoded)
	binary.BigEndian.PutUint16(buf[len(encoded):], uint16(q.Type))
	binary.BigEndian.PutUint16(buf[len(encoded)+2:], uint16(q.Class))

	offset := uint32(len(buf))
	threshold := p.answersIdx

	if err := updateRecords(p.recordsData, &p.answersIdx, uint32(p.answersCount), threshold, offset); err != nil {
		return err
	}
	if err := updateRecords(p.recordsData, &p.authorityIdx, uint32(p.authorityCount), threshold, offset); err != nil {
		return err
	}
	if err := updateRecords(p.recordsData, &p.additionalIdx, uint32(p.additionalCount), threshold, offset); err != nil {
		return err
	}

	p.recordsData = insertAt(p.recordsData, int(threshold), buf)
	p.questionsCount++
	return nil
}

type sectionRef struct {
	idx   *uint32
	count uint32
}

// addRecord builds resource's wire form and inserts it at the start of
// the first section in sections (or at the end of recordsData if
// sections is empty), rewriting compression pointers in every listed
// section along the way. Ported from DNS::add_record.
func (p *PDU) addRecord(resource Resource, sections []sectionRef) error {
	dnameBuf := encodeDomainName(resource.Name)

	var embeddedName []byte
	dataSize := len(resource.Data)
	switch resource.Type {
	case TypeA:
		if len(resource.Data) != 4 {
			return fmt.Errorf("dns: %w: A record data must be 4 bytes", perr.ErrMalformedPacket)
		}
		dataSize = 4
	case TypeAAAA:
		if len(resource.Data) != 16 {
			return fmt.Errorf("dns: %w: AAAA record data must be 16 bytes", perr.ErrMalformedPacket)
		}
		dataSize = 16
	default:
		if containsDName(resource.Type) {
			embeddedName = encodeDomainName(string(resource.Data))
			dataSize = len(embeddedName)
		}
	}

	recordLen := len(dnameBuf) + 2 + 2 + 4 + 2 + dataSize
	if resource.Type == TypeMX {
		recordLen += 2
	}

	var threshold uint32
	if len(sections) == 0 {
		threshold = uint32(len(p.recordsData))
	} else {
		threshold = *sections[0].idx
	}
	for _, s := range sections {
		if err := updateRecords(p.recordsData, s.idx, s.count, threshold, uint32(recordLen)); err != nil {
			return err
		}
	}

	rec := make([]byte, recordLen)
	w := bytestream.NewWriter(rec)
	w.WriteBytes(dnameBuf)
	w.WriteUint16BE(uint16(resource.Type))
	w.WriteUint16BE(uint16(resource.Class))
	w.WriteUint32BE(resource.TTL)
	rdlength := uint16(dataSize)
	if resource.Type == TypeMX {
		rdlength += 2
	}
	w.WriteUint16BE(rdlength)
	if resource.Type == TypeMX {
		w.WriteUint16BE(0) // preference; always 0, since Data holds only the exchange name
	}
	switch {
	case resource.Type == TypeA, resource.Type == TypeAAAA:
		w.WriteBytes(resource.Data)
	case embeddedName != nil:
		w.WriteBytes(embeddedName)
	default:
		w.WriteBytes(resource.Data)
	}

	p.recordsData = insertAt(p.recordsData, int(threshold), rec)
	return nil
}

// AddAnswer appends a resource record to the answer section.
func (p *PDU) AddAnswer(r Resource) error {
	sections := []sectionRef{
		{&p.authorityIdx, uint32(p.authorityCount)},
		{&p.additionalIdx, uint32(p.additionalCount)},
	}
	if err := p.addRecord(r, sections); err != nil {
		return err
	}
	p.answersCount++
	return nil
}

// AddAuthority appends a resource record to the authority section.
func (p *PDU) AddAuthority(r Resource) error {
	sections := []sectionRef{
		{&p.additionalIdx, uint32(p.additionalCount)},
	}
	if err := p.addRecord(r, sections); err != nil {
		return err
	}
	p.authorityCount++
	return nil
}

// AddAdditional appends a resource record to the additional section.
func (p *PDU) AddAdditional(r Resource) error {
	if err := p.addRecord(r, nil); err != nil {
		return err
	}
	p.additionalCount++
	return nil
}

// Questions decodes the question section.
func (p *PDU) Questions() ([]Question, error) {
	var out []Question
	pos := 0
	for pos < int(p.answersIdx) {
		name, consumed, err := composeName(p.recordsData, pos)
		if err != nil {
			return nil, err
		}
		pos += consumed
		if pos+4 > int(p.answersIdx) {
			return nil, fmt.Errorf("dns: %w", perr.ErrMalformedPacket)
		}
		typ := binary.BigEndian.Uint16(p.recordsData[pos : pos+2])
		cls := binary.BigEndian.Uint16(p.recordsData[pos+2 : pos+4])
		pos += 4
		out = append(out, Question{Name: name, Type: QueryType(typ), Class: QueryClass(cls)})
	}
	return out, nil
}

// Answers decodes the answer section.
func (p *PDU) Answers() ([]DecodedResource, error) {
	if p.answersIdx >= uint32(len(p.recordsData)) {
		return nil, nil
	}
	return p.convertRecords(int(p.answersIdx), int(p.authorityIdx))
}

// Authority decodes the authority section.
func (p *PDU) Authority() ([]DecodedResource, error) {
	if p.authorityIdx >= uint32(len(p.recordsData)) {
		return nil, nil
	}
	return p.convertRecords(int(p.authorityIdx), int(p.additionalIdx))
}

// Additional decodes the additional section.
func (p *PDU) Additional() ([]DecodedResource, error) {
	if p.additionalIdx >= uint32(len(p.recordsData)) {
		return nil, nil
	}
	return p.convertRecords(int(p.additionalIdx), len(p.recordsData))
}

// convertRecords decodes every resource record in records[start:end],
// rendering each record's data field into human-readable text. Ported
// from DNS::convert_records.
func (p *PDU) convertRecords(start, end int) ([]DecodedResource, error) {
	var out []DecodedResource
	pos := start
	for pos < end {
		name, consumed, err := composeName(p.recordsData, pos)
		if err != nil {
			return nil, err
		}
		pos += consumed
		if pos+2+2+4+2 > end {
			return nil, fmt.Errorf("dns: %w", perr.ErrMalformedPacket)
		}
		typ := QueryType(binary.BigEndian.Uint16(p.recordsData[pos : pos+2]))
		cls := QueryClass(binary.BigEndian.Uint16(p.recordsData[pos+2 : pos+4]))
		ttl := binary.BigEndian.Uint32(p.recordsData[pos+4 : pos+8])
		dataSize := binary.BigEndian.Uint16(p.recordsData[pos+8 : pos+10])
		pos += 10
		if typ == TypeMX {
			pos += 2
			dataSize -= 2
		}
		if pos+int(dataSize) > len(p.recordsData) {
			return nil, fmt.Errorf("dns: %w", perr.ErrMalformedPacket)
		}

		var text string
		switch typ {
		case TypeAAAA:
			text = addr.IPv6FromBytes(p.recordsData[pos : pos+16]).String()
		case TypeA:
			text = addr.IPv4FromBytes(p.recordsData[pos : pos+4]).String()
		case TypeNS, TypeCNAME, TypeDNAME, TypePTR, TypeMX:
			nm, _, err := composeName(p.recordsData, pos)
			if err != nil {
				return nil, err
			}
			text = nm
		default:
			text = string(p.recordsData[pos : pos+int(dataSize)])
		}
		pos += int(dataSize)

		out = append(out, DecodedResource{Name: name, Type: typ, Class: cls, TTL: ttl, Data: text})
	}
	return out, nil
}
