// Package dot11 implements the IEEE 802.11 protocol unit family: the
// base MAC frame with its bit-packed frame-control field and optional
// fourth address, the tagged-parameter list carried by management
// frames, and the Beacon frame body (spec.md §4.4). It is grounded on
// the base-frame parse/serialize and ManagementFrame/Beacon logic in the
// source library's ieee802-11.cpp.
package dot11

import (
	"fmt"

	"github.com/veyra-net/pktcraft/addr"
	"github.com/veyra-net/pktcraft/bytestream"
	"github.com/veyra-net/pktcraft/pdu"
	"github.com/veyra-net/pktcraft/perr"
)

// Frame type field values.
const (
	TypeManagement uint8 = 0
	TypeControl    uint8 = 1
	TypeData       uint8 = 2
)

// Management frame subtype values used by this package.
const (
	SubtypeAssocRequest   uint8 = 0
	SubtypeAssocResponse  uint8 = 1
	SubtypeDisassociation uint8 = 10
	SubtypeBeacon         uint8 = 8
)

const fixedHeaderSize = 24 // frame control(2) + duration(2) + addr1-3(6*3) + seq control(2)

// snapDiscriminator is a private dispatch key reserved for SNAP-wrapped
// 802.11 data payloads; no public protocol number governs this hop, so
// it never collides with a real next-header/next-protocol space.
const snapDiscriminator uint8 = 0xff

// frame holds the fields common to every concrete 802.11 unit in this
// package (the base frame and every management-frame subtype): the
// fixed header, the optional fourth address, and the tagged parameter
// list. Of the PDU methods it implements only Inner and SetInner — PDUType, HeaderSize,
// SerializeInto and MatchesResponse differ enough between the base frame
// and a frame with its own fixed body (Beacon) that each concrete type
// defines them directly, the way the source library's ManagementFrame
// and IEEE802_11_Beacon each carry their own header_size/write_serialization
// on top of the shared IEEE802_11 base.
type frame struct {
	protocolVersion uint8
	frameType       uint8
	subtype         uint8

	toDS, fromDS, moreFrag, retry, powerMgmt, moreData, wep, order bool

	durationID uint16
	addr1      addr.MAC
	addr2      addr.MAC
	addr3      addr.MAC
	addr4      addr.MAC
	hasAddr4   bool

	fragNumber uint8
	seqNumber  uint16

	options []TaggedOption

	inner pdu.PDU
}

// TaggedOption is one {tag, length, value} entry from a management
// frame's variable parameter list.
type TaggedOption struct {
	Tag   uint8
	Value []byte
}

func (o TaggedOption) wireSize() uint32 { return uint32(len(o.Value)) + 2 }

// Tagged parameter tag values used by the option builders below.
const (
	TagSSID              uint8 = 0
	TagSupportedRates    uint8 = 1
	TagDSSet             uint8 = 3
	TagEDCAParameterSet  uint8 = 12
	TagPowerCapability   uint8 = 33
	TagSupportedChannels uint8 = 36
	TagQoSCapability     uint8 = 46
	TagRSN               uint8 = 48
	TagExtSupportedRates uint8 = 50
)

// parseFixedHeader decodes the 24-byte fixed header, the optional
// fourth address, and returns the reader positioned just past them.
func parseFixedHeader(data []byte) (frame, *bytestream.Reader, error) {
	r := bytestream.NewReader(data)
	var f frame

	fc0, err := r.ReadByte()
	if err != nil {
		return f, nil, fmt.Errorf("dot11: %w", err)
	}
	fc1, err := r.ReadByte()
	if err != nil {
		return f, nil, fmt.Errorf("dot11: %w", err)
	}
	f.protocolVersion = fc0 & 0x03
	f.frameType = (fc0 >> 2) & 0x03
	f.subtype = (fc0 >> 4) & 0x0f
	f.toDS = fc1&0x01 != 0
	f.fromDS = fc1&0x02 != 0
	f.moreFrag = fc1&0x04 != 0
	f.retry = fc1&0x08 != 0
	f.powerMgmt = fc1&0x10 != 0
	f.moreData = fc1&0x20 != 0
	f.wep = fc1&0x40 != 0
	f.order = fc1&0x80 != 0

	durationID, err := r.ReadUint16LE()
	if err != nil {
		return f, nil, fmt.Errorf("dot11: %w", err)
	}
	f.durationID = durationID

	a1, err := r.ReadBytes(6)
	if err != nil {
		return f, nil, fmt.Errorf("dot11: %w", err)
	}
	f.addr1 = addr.MACFromBytes(a1)
	a2, err := r.ReadBytes(6)
	if err != nil {
		return f, nil, fmt.Errorf("dot11: %w", err)
	}
	f.addr2 = addr.MACFromBytes(a2)
	a3, err := r.ReadBytes(6)
	if err != nil {
		return f, nil, fmt.Errorf("dot11: %w", err)
	}
	f.addr3 = addr.MACFromBytes(a3)

	seqControl, err := r.ReadUint16LE()
	if err != nil {
		return f, nil, fmt.Errorf("dot11: %w", err)
	}
	f.fragNumber = uint8(seqControl & 0x0f)
	f.seqNumber = seqControl >> 4

	if f.toDS && f.fromDS {
		a4, err := r.ReadBytes(6)
		if err != nil {
			return f, nil, fmt.Errorf("dot11: %w", err)
		}
		f.addr4 = addr.MACFromBytes(a4)
		f.hasAddr4 = true
	}

	return f, r, nil
}

// fixedHeaderWireSize returns the size of the fixed header plus the
// optional fourth address.
func (f *frame) fixedHeaderWireSize() uint32 {
	sz := uint32(fixedHeaderSize)
	if f.toDS && f.fromDS {
		sz += 6
	}
	return sz
}

// optionsWireSize returns the total size of the tagged parameter list.
func (f *frame) optionsWireSize() uint32 {
	var sz uint32
	for _, o := range f.options {
		sz += o.wireSize()
	}
	return sz
}

// serializeFixedHeader writes the fixed header, the optional fourth
// address, and returns the writer positioned just past them.
func (f *frame) serializeFixedHeader(buf []byte) *bytestream.Writer {
	w := bytestream.NewWriter(buf)

	fc0 := f.protocolVersion&0x03 | (f.frameType&0x03)<<2 | (f.subtype&0x0f)<<4
	var fc1 uint8
	if f.toDS {
		fc1 |= 0x01
	}
	if f.fromDS {
		fc1 |= 0x02
	}
	if f.moreFrag {
		fc1 |= 0x04
	}
	if f.retry {
		fc1 |= 0x08
	}
	if f.powerMgmt {
		fc1 |= 0x10
	}
	if f.moreData {
		fc1 |= 0x20
	}
	if f.wep {
		fc1 |= 0x40
	}
	if f.order {
		fc1 |= 0x80
	}
	w.WriteByte(fc0)
	w.WriteByte(fc1)
	w.WriteUint16LE(f.durationID)
	w.WriteBytes(f.addr1.Bytes())
	w.WriteBytes(f.addr2.Bytes())
	w.WriteBytes(f.addr3.Bytes())
	w.WriteUint16LE(uint16(f.fragNumber&0x0f) | f.seqNumber<<4)

	if f.toDS && f.fromDS {
		w.WriteBytes(f.addr4.Bytes())
	}
	return w
}

// serializeOptions writes the tagged parameter list.
func (f *frame) serializeOptions(w *bytestream.Writer) error {
	for _, o := range f.options {
		if len(o.Value) > 255 {
			return fmt.Errorf("dot11: %w: tagged option value too long", perr.ErrMalformedPacket)
		}
		w.WriteByte(o.Tag)
		w.WriteByte(uint8(len(o.Value)))
		w.WriteBytes(o.Value)
	}
	return nil
}

// parseTaggedParameters decodes a {tag, length, value} list, stopping
// silently at the first entry whose declared length would overrun the
// buffer — a malformed tail is dropped rather than rejected, mirroring
// parse_tagged_parameters's early return.
func parseTaggedParameters(r *bytestream.Reader) []TaggedOption {
	var out []TaggedOption
	for r.CanRead(2) {
		tag, _ := r.ReadByte()
		length, _ := r.ReadByte()
		if !r.CanRead(int(length)) {
			return out
		}
		value, _ := r.ReadBytes(int(length))
		out = append(out, TaggedOption{Tag: tag, Value: value})
	}
	return out
}

// ProtocolVersion, FrameType and Subtype expose the frame-control
// sub-fields.
func (f *frame) ProtocolVersion() uint8 { return f.protocolVersion }
func (f *frame) FrameType() uint8       { return f.frameType }
func (f *frame) Subtype() uint8         { return f.subtype }
func (f *frame) SetFrameType(t uint8)   { f.frameType = t & 0x03 }
func (f *frame) SetSubtype(s uint8)     { f.subtype = s & 0x0f }

// ToDS, FromDS and the remaining flag accessors expose frame-control bits.
func (f *frame) ToDS() bool         { return f.toDS }
func (f *frame) SetToDS(v bool)     { f.toDS = v }
func (f *frame) FromDS() bool       { return f.fromDS }
func (f *frame) SetFromDS(v bool)   { f.fromDS = v }
func (f *frame) MoreFrag() bool     { return f.moreFrag }
func (f *frame) SetMoreFrag(v bool) { f.moreFrag = v }
func (f *frame) Retry() bool        { return f.retry }
func (f *frame) SetRetry(v bool)    { f.retry = v }
func (f *frame) PowerMgmt() bool    { return f.powerMgmt }
func (f *frame) SetPowerMgmt(v bool) { f.powerMgmt = v }
func (f *frame) WEP() bool          { return f.wep }
func (f *frame) SetWEP(v bool)      { f.wep = v }

// DurationID, Addr1-3, FragNumber and SeqNumber expose the remaining
// fixed-header fields.
func (f *frame) DurationID() uint16     { return f.durationID }
func (f *frame) SetDurationID(v uint16) { f.durationID = v }
func (f *frame) Addr1() addr.MAC        { return f.addr1 }
func (f *frame) SetAddr1(a addr.MAC)    { f.addr1 = a }
func (f *frame) Addr2() addr.MAC        { return f.addr2 }
func (f *frame) SetAddr2(a addr.MAC)    { f.addr2 = a }
func (f *frame) Addr3() addr.MAC        { return f.addr3 }
func (f *frame) SetAddr3(a addr.MAC)    { f.addr3 = a }

// Addr4 returns the fourth address and whether it is present. It is
// present iff both to-DS and from-DS are set.
func (f *frame) Addr4() (addr.MAC, bool) { return f.addr4, f.hasAddr4 }

// SetAddr4 sets the fourth address and marks it present; the caller is
// responsible for also setting ToDS and FromDS.
func (f *frame) SetAddr4(a addr.MAC) {
	f.addr4 = a
	f.hasAddr4 = true
}

func (f *frame) FragNumber() uint8    { return f.fragNumber }
func (f *frame) SetFragNumber(v uint8) { f.fragNumber = v & 0x0f }
func (f *frame) SeqNumber() uint16    { return f.seqNumber }
func (f *frame) SetSeqNumber(v uint16) { f.seqNumber = v & 0x0fff }

// Options returns the tagged parameter list in wire order.
func (f *frame) Options() []TaggedOption { return f.options }

// AddTaggedOption appends a {tag, length, value} entry, ported from
// IEEE802_11::add_tagged_option.
func (f *frame) AddTaggedOption(tag uint8, value []byte) {
	f.options = append(f.options, TaggedOption{Tag: tag, Value: append([]byte(nil), value...)})
}

// LookupOption returns the first tagged option with the given tag.
func (f *frame) LookupOption(tag uint8) (TaggedOption, bool) {
	for _, o := range f.options {
		if o.Tag == tag {
			return o, true
		}
	}
	return TaggedOption{}, false
}

// SSID sets the SSID tagged option, ported from ManagementFrame::ssid.
func (f *frame) SSID(ssid string) { f.AddTaggedOption(TagSSID, []byte(ssid)) }

// SupportedRates encodes rates as 500 kbit/s units with the basic-rate
// high bit set, ported from ManagementFrame::supported_rates.
func (f *frame) SupportedRates(ratesMbps []float64) {
	f.AddTaggedOption(TagSupportedRates, encodeRates(ratesMbps))
}

// ExtendedSupportedRates is the overflow rate list for more than 8
// entries, carried in its own tagged option.
func (f *frame) ExtendedSupportedRates(ratesMbps []float64) {
	f.AddTaggedOption(TagExtSupportedRates, encodeRates(ratesMbps))
}

func encodeRates(ratesMbps []float64) []byte {
	out := make([]byte, len(ratesMbps))
	for i, r := range ratesMbps {
		units := r / 0.5
		left := uint8(units)
		if units-float64(left) > 0 {
			left++
		}
		out[i] = 0x80 | left
	}
	return out
}

// Channel sets the DS Parameter Set tagged option to the given channel
// number, ported from ManagementFrame::channel.
func (f *frame) Channel(ch uint8) { f.AddTaggedOption(TagDSSet, []byte{ch}) }

// QoSCapability sets the QoS Capability tagged option.
func (f *frame) QoSCapability(v uint8) { f.AddTaggedOption(TagQoSCapability, []byte{v}) }

// PowerCapability sets the Power Capability tagged option.
func (f *frame) PowerCapability(minPower, maxPower uint8) {
	f.AddTaggedOption(TagPowerCapability, []byte{minPower, maxPower})
}

// SupportedChannels sets the Supported Channels tagged option from a
// list of {first channel, number of channels} pairs.
func (f *frame) SupportedChannels(pairs [][2]uint8) {
	out := make([]byte, 0, len(pairs)*2)
	for _, p := range pairs {
		out = append(out, p[0], p[1])
	}
	f.AddTaggedOption(TagSupportedChannels, out)
}

// EDCAParameterSet sets the EDCA Parameter Set tagged option from the
// four access-category parameter records, ported from
// ManagementFrame::edca_parameter_set.
func (f *frame) EDCAParameterSet(acBE, acBK, acVI, acVO uint32) {
	buf := make([]byte, 17)
	putLE32 := func(off int, v uint32) {
		buf[off] = byte(v)
		buf[off+1] = byte(v >> 8)
		buf[off+2] = byte(v >> 16)
		buf[off+3] = byte(v >> 24)
	}
	putLE32(1, acBE)
	putLE32(5, acBK)
	putLE32(9, acVI)
	putLE32(13, acVO)
	f.AddTaggedOption(TagEDCAParameterSet, buf)
}

// RSNInformation describes an RSN Information Element, ported from the
// RSNInformation structure referenced by ManagementFrame::rsn_information.
type RSNInformation struct {
	Version          uint16
	GroupSuite       uint32
	PairwiseCiphers  []uint32
	AKMSuites        []uint32
	Capabilities     uint16
}

// serialize renders the RSN element body, matching RSNInformation::serialize's
// {version, group cipher, pairwise count+list, AKM count+list, capabilities}
// layout.
func (r RSNInformation) serialize() []byte {
	size := 2 + 4 + 2 + 4*len(r.PairwiseCiphers) + 2 + 4*len(r.AKMSuites) + 2
	out := make([]byte, size)
	w := bytestream.NewWriter(out)
	w.WriteUint16LE(r.Version)
	w.WriteUint32LE(r.GroupSuite)
	w.WriteUint16LE(uint16(len(r.PairwiseCiphers)))
	for _, c := range r.PairwiseCiphers {
		w.WriteUint32LE(c)
	}
	w.WriteUint16LE(uint16(len(r.AKMSuites)))
	for _, a := range r.AKMSuites {
		w.WriteUint32LE(a)
	}
	w.WriteUint16LE(r.Capabilities)
	return out
}

// parseRSNInformation decodes an RSN Information Element, the inverse of
// serialize.
func parseRSNInformation(value []byte) (RSNInformation, bool) {
	if len(value) < 2+4+2 {
		return RSNInformation{}, false
	}
	r := bytestream.NewReader(value)
	var out RSNInformation
	v, _ := r.ReadUint16LE()
	out.Version = v
	g, _ := r.ReadUint32LE()
	out.GroupSuite = g
	count, err := r.ReadUint16LE()
	if err != nil {
		return RSNInformation{}, false
	}
	for i := 0; i < int(count); i++ {
		c, err := r.ReadUint32LE()
		if err != nil {
			return RSNInformation{}, false
		}
		out.PairwiseCiphers = append(out.PairwiseCiphers, c)
	}
	akmCount, err := r.ReadUint16LE()
	if err != nil {
		return RSNInformation{}, false
	}
	for i := 0; i < int(akmCount); i++ {
		a, err := r.ReadUint32LE()
		if err != nil {
			return RSNInformation{}, false
		}
		out.AKMSuites = append(out.AKMSuites, a)
	}
	if r.CanRead(2) {
		capBits, _ := r.ReadUint16LE()
		out.Capabilities = capBits
	}
	return out, true
}

// SetRSNInformation sets the RSN tagged option, ported from
// ManagementFrame::rsn_information.
func (f *frame) SetRSNInformation(info RSNInformation) {
	f.AddTaggedOption(TagRSN, info.serialize())
}

// RSNInformation returns the decoded RSN tagged option, if present.
func (f *frame) RSNInformation() (RSNInformation, bool) {
	opt, ok := f.LookupOption(TagRSN)
	if !ok {
		return RSNInformation{}, false
	}
	return parseRSNInformation(opt.Value)
}

// Inner returns the owned inner PDU.
func (f *frame) Inner() pdu.PDU { return f.inner }

// SetInner replaces the owned inner PDU.
func (f *frame) SetInner(inner pdu.PDU) { f.inner = inner }

// PDU is the generic IEEE 802.11 base frame: no fixed body beyond the
// header, used for control frames and any management subtype that this
// core does not model with its own body type.
type PDU struct {
	frame
}

// New returns an 802.11 base frame with no options set.
func New() *PDU {
	return &PDU{}
}

// Parse decodes an 802.11 frame's fixed header, its optional address 4,
// and — for data subtypes below 4 — hands the remaining bytes off to the
// registered SNAP dispatch, exactly as IEEE802_11::IEEE802_11(buffer,
// total_sz) does for the base (non-management) frame shape.
func Parse(data []byte) (*PDU, error) {
	f, r, err := parseFixedHeader(data)
	if err != nil {
		return nil, err
	}
	p := &PDU{frame: f}
	if p.frameType == TypeData && p.subtype < 4 {
		inner, err := pdu.ResolveInner(pdu.Dispatch, nil, snapDiscriminator, r.Pointer())
		if err != nil {
			return nil, fmt.Errorf("dot11: %w", err)
		}
		p.inner = inner
	}
	return p, nil
}

// PDUType implements pdu.PDU.
func (p *PDU) PDUType() pdu.Type { return pdu.TypeDot11 }

// HeaderSize implements pdu.PDU.
func (p *PDU) HeaderSize() uint32 {
	return p.fixedHeaderWireSize() + p.optionsWireSize()
}

// SerializeInto implements pdu.PDU.
func (p *PDU) SerializeInto(buf []byte, _ pdu.PDU) error {
	w := p.serializeFixedHeader(buf)
	return p.serializeOptions(w)
}

// MatchesResponse implements pdu.PDU. 802.11 management exchanges do not
// carry a request/response correlation id in this core, so the reply's
// header fields are not compared: a frame with an inner unit matches when
// that inner unit matches the reply's inner unit, and a frame without one
// matches any parseable reply that has no inner unit either.
func (p *PDU) MatchesResponse(data []byte) bool {
	other, err := Parse(data)
	if err != nil {
		return false
	}
	if p.inner == nil {
		return other.inner == nil
	}
	if other.inner == nil {
		return false
	}
	innerBytes, err := pdu.Serialize(other.inner)
	if err != nil {
		return false
	}
	return p.inner.MatchesResponse(innerBytes)
}

// FromBytes inspects the frame-control field's type and subtype to pick
// the right concrete unit — Beacon, AssocRequest, AssocResponse or
// Disassociation for those management subtypes, QoSData for data subtypes
// 8 and above, otherwise the generic base frame — ported from
// IEEE802_11::from_bytes.
// This dispatch is keyed on the 802.11 type/subtype pair, a different
// numeric space than the general next-protocol dispatch registry, so it
// is resolved directly rather than through pdu.Dispatch.
func FromBytes(data []byte) (pdu.PDU, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("dot11: %w", perr.ErrBufferTooShort)
	}
	frameType := (data[0] >> 2) & 0x03
	subtype := (data[0] >> 4) & 0x0f
	if frameType == TypeManagement {
		switch subtype {
		case SubtypeBeacon:
			return ParseBeacon(data)
		case SubtypeAssocRequest:
			return ParseAssocRequest(data)
		case SubtypeAssocResponse:
			return ParseAssocResponse(data)
		case SubtypeDisassociation:
			return ParseDisassociation(data)
		}
	}
	if frameType == TypeData && subtype >= 8 {
		return ParseQoSData(data)
	}
	return Parse(data)
}
