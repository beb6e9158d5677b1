package dot11

import (
	"fmt"

	"github.com/veyra-net/pktcraft/bytestream"
	"github.com/veyra-net/pktcraft/pdu"
)

// snapHeaderSize is the fixed 802.2 LLC/SNAP header: DSAP, SSAP,
// control, a 3-byte organization code, and a 2-byte embedded protocol
// (ethertype) field.
const snapHeaderSize = 8

// SNAP wraps an 802.11 data frame's LLC/SNAP encapsulation, the shape
// IEEE802_11's constructor hands data-subtype payloads off to.
type SNAP struct {
	dsap    uint8
	ssap    uint8
	control uint8
	orgCode [3]byte
	ethType uint16
	inner   pdu.PDU
}

// NewSNAP returns a SNAP header wrapping an inner protocol identified by
// its EtherType.
func NewSNAP(ethType uint16) *SNAP {
	return &SNAP{dsap: 0xaa, ssap: 0xaa, control: 0x03, ethType: ethType}
}

// ParseSNAP decodes an LLC/SNAP header. It does not consult any dispatch
// registry for the encapsulated protocol: any bytes after the header are
// wrapped as a RawPDU, whatever the EtherType.
func ParseSNAP(data []byte) (pdu.PDU, error) {
	r := bytestream.NewReader(data)
	s := &SNAP{}
	var err error
	if s.dsap, err = r.ReadByte(); err != nil {
		return nil, fmt.Errorf("dot11: snap: %w", err)
	}
	if s.ssap, err = r.ReadByte(); err != nil {
		return nil, fmt.Errorf("dot11: snap: %w", err)
	}
	if s.control, err = r.ReadByte(); err != nil {
		return nil, fmt.Errorf("dot11: snap: %w", err)
	}
	org, err := r.ReadBytes(3)
	if err != nil {
		return nil, fmt.Errorf("dot11: snap: %w", err)
	}
	copy(s.orgCode[:], org)
	if s.ethType, err = r.ReadUint16BE(); err != nil {
		return nil, fmt.Errorf("dot11: snap: %w", err)
	}
	if r.Remaining() > 0 {
		s.inner = pdu.NewRawPDU(r.Pointer())
	}
	return s, nil
}

// DSAP, SSAP, Control and EtherType expose the fixed header fields.
func (s *SNAP) DSAP() uint8      { return s.dsap }
func (s *SNAP) SSAP() uint8      { return s.ssap }
func (s *SNAP) Control() uint8   { return s.control }
func (s *SNAP) EtherType() uint16 { return s.ethType }

// PDUType implements pdu.PDU.
func (s *SNAP) PDUType() pdu.Type { return pdu.TypeSNAP }

// HeaderSize implements pdu.PDU.
func (s *SNAP) HeaderSize() uint32 { return snapHeaderSize }

// Inner implements pdu.PDU.
func (s *SNAP) Inner() pdu.PDU { return s.inner }

// SetInner implements pdu.PDU.
func (s *SNAP) SetInner(inner pdu.PDU) { s.inner = inner }

// SerializeInto implements pdu.PDU.
func (s *SNAP) SerializeInto(buf []byte, _ pdu.PDU) error {
	w := bytestream.NewWriter(buf)
	w.WriteByte(s.dsap)
	w.WriteByte(s.ssap)
	w.WriteByte(s.control)
	w.WriteBytes(s.orgCode[:])
	w.WriteUint16BE(s.ethType)
	return nil
}

// MatchesResponse implements pdu.PDU: the encapsulated EtherType must
// agree, and the inner unit (if any) must match in turn.
func (s *SNAP) MatchesResponse(data []byte) bool {
	other, err := ParseSNAP(data)
	if err != nil {
		return false
	}
	o := other.(*SNAP)
	if s.ethType != o.ethType {
		return false
	}
	if s.inner == nil {
		return o.inner == nil
	}
	if o.inner == nil {
		return false
	}
	innerBytes, err := pdu.Serialize(o.inner)
	if err != nil {
		return false
	}
	return s.inner.MatchesResponse(innerBytes)
}

func init() {
	_ = pdu.RegisterPDU(snapDiscriminator, pdu.TypeSNAP, ParseSNAP)
}
