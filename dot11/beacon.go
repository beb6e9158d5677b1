package dot11

import (
	"fmt"

	"github.com/veyra-net/pktcraft/addr"
	"github.com/veyra-net/pktcraft/bytestream"
	"github.com/veyra-net/pktcraft/pdu"
)

const beaconBodySize = 8 + 2 + 2 // timestamp + interval + capability

// Beacon is a management frame of subtype Beacon: the 802.11 fixed
// header, a fixed body of {timestamp, beacon interval, capability info},
// and a tagged parameter list. Ported from IEEE802_11_Beacon.
type Beacon struct {
	frame
	timestamp    uint64
	interval     uint16
	capabilities uint16
}

// NewBeacon returns a Beacon frame addressed from src to dst.
func NewBeacon(dst, src addr.MAC) *Beacon {
	b := &Beacon{}
	b.frameType = TypeManagement
	b.subtype = SubtypeBeacon
	b.addr1 = dst
	b.addr2 = src
	b.addr3 = src
	return b
}

// ParseBeacon decodes a Beacon frame: the shared fixed header, the
// beacon-specific fixed body, then the tagged parameter list. Ported
// from IEEE802_11_Beacon(buffer, total_sz).
func ParseBeacon(data []byte) (*Beacon, error) {
	f, r, err := parseFixedHeader(data)
	if err != nil {
		return nil, err
	}
	b := &Beacon{frame: f}

	ts, err := r.ReadUint64LE()
	if err != nil {
		return nil, fmt.Errorf("dot11: beacon: %w", err)
	}
	b.timestamp = ts
	interval, err := r.ReadUint16LE()
	if err != nil {
		return nil, fmt.Errorf("dot11: beacon: %w", err)
	}
	b.interval = interval
	caps, err := r.ReadUint16LE()
	if err != nil {
		return nil, fmt.Errorf("dot11: beacon: %w", err)
	}
	b.capabilities = caps

	b.options = parseTaggedParameters(r)
	return b, nil
}

// Timestamp, Interval and Capabilities expose the beacon body fields.
func (b *Beacon) Timestamp() uint64      { return b.timestamp }
func (b *Beacon) SetTimestamp(v uint64)  { b.timestamp = v }
func (b *Beacon) Interval() uint16       { return b.interval }
func (b *Beacon) SetInterval(v uint16)   { b.interval = v }
func (b *Beacon) Capabilities() uint16   { return b.capabilities }
func (b *Beacon) SetCapabilities(v uint16) { b.capabilities = v }

// ESSID returns the decoded SSID tagged option, ported from
// IEEE802_11_Beacon::essid.
func (b *Beacon) ESSID() (string, bool) {
	opt, ok := b.LookupOption(TagSSID)
	if !ok {
		return "", false
	}
	return string(opt.Value), true
}

// SupportedRatesMbps decodes the Supported Rates tagged option back into
// megabits-per-second values, stripping the basic-rate high bit.
func (b *Beacon) SupportedRatesMbps() ([]float64, bool) {
	opt, ok := b.LookupOption(TagSupportedRates)
	if !ok {
		return nil, false
	}
	return decodeRates(opt.Value), true
}

func decodeRates(raw []byte) []float64 {
	out := make([]float64, len(raw))
	for i, b := range raw {
		out[i] = float64(b&0x7f) * 0.5
	}
	return out
}

// PDUType implements pdu.PDU.
func (b *Beacon) PDUType() pdu.Type { return pdu.TypeDot11Beacon }

// HeaderSize implements pdu.PDU.
func (b *Beacon) HeaderSize() uint32 {
	return b.fixedHeaderWireSize() + beaconBodySize + b.optionsWireSize()
}

// SerializeInto implements pdu.PDU.
func (b *Beacon) SerializeInto(buf []byte, _ pdu.PDU) error {
	fixedSize := b.fixedHeaderWireSize()
	b.serializeFixedHeader(buf[:fixedSize])

	w := bytestream.NewWriter(buf[fixedSize:])
	w.WriteUint64LE(b.timestamp)
	w.WriteUint16LE(b.interval)
	w.WriteUint16LE(b.capabilities)
	return b.serializeOptions(w)
}

// MatchesResponse implements pdu.PDU. A beacon carries no
// request/response correlation; two beacons match only if byte-identical
// once serialized.
func (b *Beacon) MatchesResponse(data []byte) bool {
	other, err := ParseBeacon(data)
	if err != nil {
		return false
	}
	ours, err1 := pdu.Serialize(b)
	theirs, err2 := pdu.Serialize(other)
	if err1 != nil || err2 != nil {
		return false
	}
	return string(ours) == string(theirs)
}

