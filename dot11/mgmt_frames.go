package dot11

import (
	"fmt"

	"github.com/veyra-net/pktcraft/bytestream"
	"github.com/veyra-net/pktcraft/pdu"
)

// AssocRequest is a management frame of subtype Association Request: the
// fixed header, a {capability info, listen interval} body, and a tagged
// parameter list.
type AssocRequest struct {
	frame
	capabilities   uint16
	listenInterval uint16
}

// NewAssocRequest returns an Association Request frame.
func NewAssocRequest() *AssocRequest {
	a := &AssocRequest{}
	a.frameType = TypeManagement
	a.subtype = SubtypeAssocRequest
	return a
}

// ParseAssocRequest decodes an Association Request frame.
func ParseAssocRequest(data []byte) (*AssocRequest, error) {
	f, r, err := parseFixedHeader(data)
	if err != nil {
		return nil, err
	}
	a := &AssocRequest{frame: f}
	caps, err := r.ReadUint16LE()
	if err != nil {
		return nil, fmt.Errorf("dot11: assoc-request: %w", err)
	}
	a.capabilities = caps
	interval, err := r.ReadUint16LE()
	if err != nil {
		return nil, fmt.Errorf("dot11: assoc-request: %w", err)
	}
	a.listenInterval = interval
	a.options = parseTaggedParameters(r)
	return a, nil
}

func (a *AssocRequest) Capabilities() uint16      { return a.capabilities }
func (a *AssocRequest) SetCapabilities(v uint16)  { a.capabilities = v }
func (a *AssocRequest) ListenInterval() uint16    { return a.listenInterval }
func (a *AssocRequest) SetListenInterval(v uint16) { a.listenInterval = v }

// PDUType implements pdu.PDU.
func (a *AssocRequest) PDUType() pdu.Type { return pdu.TypeDot11AssocRequest }

// HeaderSize implements pdu.PDU.
func (a *AssocRequest) HeaderSize() uint32 {
	return a.fixedHeaderWireSize() + 4 + a.optionsWireSize()
}

// SerializeInto implements pdu.PDU.
func (a *AssocRequest) SerializeInto(buf []byte, _ pdu.PDU) error {
	fixedSize := a.fixedHeaderWireSize()
	a.serializeFixedHeader(buf[:fixedSize])
	w := bytestream.NewWriter(buf[fixedSize:])
	w.WriteUint16LE(a.capabilities)
	w.WriteUint16LE(a.listenInterval)
	return a.serializeOptions(w)
}

// MatchesResponse implements pdu.PDU: an association request matches an
// AssocResponse addressed back to the same station.
func (a *AssocRequest) MatchesResponse(data []byte) bool {
	resp, err := ParseAssocResponse(data)
	if err != nil {
		return false
	}
	if resp.frameType != TypeManagement || resp.subtype != SubtypeAssocResponse {
		return false
	}
	return resp.addr1 == a.addr2
}

// AssocResponse is a management frame of subtype Association Response.
type AssocResponse struct {
	frame
	capabilities  uint16
	statusCode    uint16
	associationID uint16
}

// NewAssocResponse returns an Association Response frame.
func NewAssocResponse() *AssocResponse {
	a := &AssocResponse{}
	a.frameType = TypeManagement
	a.subtype = SubtypeAssocResponse
	return a
}

// ParseAssocResponse decodes an Association Response frame.
func ParseAssocResponse(data []byte) (*AssocResponse, error) {
	f, r, err := parseFixedHeader(data)
	if err != nil {
		return nil, err
	}
	a := &AssocResponse{frame: f}
	caps, err := r.ReadUint16LE()
	if err != nil {
		return nil, fmt.Errorf("dot11: assoc-response: %w", err)
	}
	a.capabilities = caps
	status, err := r.ReadUint16LE()
	if err != nil {
		return nil, fmt.Errorf("dot11: assoc-response: %w", err)
	}
	a.statusCode = status
	aid, err := r.ReadUint16LE()
	if err != nil {
		return nil, fmt.Errorf("dot11: assoc-response: %w", err)
	}
	a.associationID = aid
	a.options = parseTaggedParameters(r)
	return a, nil
}

func (a *AssocResponse) Capabilities() uint16     { return a.capabilities }
func (a *AssocResponse) SetCapabilities(v uint16) { a.capabilities = v }
func (a *AssocResponse) StatusCode() uint16       { return a.statusCode }
func (a *AssocResponse) SetStatusCode(v uint16)   { a.statusCode = v }
func (a *AssocResponse) AssociationID() uint16    { return a.associationID }
func (a *AssocResponse) SetAssociationID(v uint16) { a.associationID = v }

// PDUType implements pdu.PDU.
func (a *AssocResponse) PDUType() pdu.Type { return pdu.TypeDot11AssocResponse }

// HeaderSize implements pdu.PDU.
func (a *AssocResponse) HeaderSize() uint32 {
	return a.fixedHeaderWireSize() + 6 + a.optionsWireSize()
}

// SerializeInto implements pdu.PDU.
func (a *AssocResponse) SerializeInto(buf []byte, _ pdu.PDU) error {
	fixedSize := a.fixedHeaderWireSize()
	a.serializeFixedHeader(buf[:fixedSize])
	w := bytestream.NewWriter(buf[fixedSize:])
	w.WriteUint16LE(a.capabilities)
	w.WriteUint16LE(a.statusCode)
	w.WriteUint16LE(a.associationID)
	return a.serializeOptions(w)
}

// MatchesResponse implements pdu.PDU: an association response has no
// further reply to correlate against in this core.
func (a *AssocResponse) MatchesResponse([]byte) bool { return false }

// Disassociation is a management frame of subtype Disassociation: the
// fixed header plus a single reason-code field.
type Disassociation struct {
	frame
	reasonCode uint16
}

// NewDisassociation returns a Disassociation frame with the given reason.
func NewDisassociation(reason uint16) *Disassociation {
	d := &Disassociation{reasonCode: reason}
	d.frameType = TypeManagement
	d.subtype = SubtypeDisassociation
	return d
}

// ParseDisassociation decodes a Disassociation frame.
func ParseDisassociation(data []byte) (*Disassociation, error) {
	f, r, err := parseFixedHeader(data)
	if err != nil {
		return nil, err
	}
	d := &Disassociation{frame: f}
	reason, err := r.ReadUint16LE()
	if err != nil {
		return nil, fmt.Errorf("dot11: disassociation: %w", err)
	}
	d.reasonCode = reason
	return d, nil
}

func (d *Disassociation) ReasonCode() uint16     { return d.reasonCode }
func (d *Disassociation) SetReasonCode(v uint16) { d.reasonCode = v }

// PDUType implements pdu.PDU.
func (d *Disassociation) PDUType() pdu.Type { return pdu.TypeDot11Disassoc }

// HeaderSize implements pdu.PDU.
func (d *Disassociation) HeaderSize() uint32 { return d.fixedHeaderWireSize() + 2 }

// SerializeInto implements pdu.PDU.
func (d *Disassociation) SerializeInto(buf []byte, _ pdu.PDU) error {
	fixedSize := d.fixedHeaderWireSize()
	d.serializeFixedHeader(buf[:fixedSize])
	w := bytestream.NewWriter(buf[fixedSize:])
	w.WriteUint16LE(d.reasonCode)
	return nil
}

// MatchesResponse implements pdu.PDU: disassociation is a one-way
// notification with no reply to correlate against.
func (d *Disassociation) MatchesResponse([]byte) bool { return false }

// QoSData is a data frame of a QoS subtype (8-15): the base data-frame
// header, a 2-byte QoS Control field inserted before the payload, and
// the SNAP-wrapped inner unit.
type QoSData struct {
	frame
	qosControl uint16
}

// NewQoSData returns a QoS data frame wrapping inner.
func NewQoSData(inner pdu.PDU) *QoSData {
	q := &QoSData{}
	q.frameType = TypeData
	q.subtype = 8
	q.inner = inner
	return q
}

// QoSControl returns the QoS Control field.
func (q *QoSData) QoSControl() uint16     { return q.qosControl }
func (q *QoSData) SetQoSControl(v uint16) { q.qosControl = v }

// ParseQoSData decodes a QoS data frame.
func ParseQoSData(data []byte) (*QoSData, error) {
	f, r, err := parseFixedHeader(data)
	if err != nil {
		return nil, err
	}
	q := &QoSData{frame: f}
	qc, err := r.ReadUint16LE()
	if err != nil {
		return nil, fmt.Errorf("dot11: qos-data: %w", err)
	}
	q.qosControl = qc
	if r.Remaining() > 0 {
		inner, err := pdu.ResolveInner(pdu.Dispatch, nil, snapDiscriminator, r.Pointer())
		if err != nil {
			return nil, fmt.Errorf("dot11: qos-data: %w", err)
		}
		q.inner = inner
	}
	return q, nil
}

// PDUType implements pdu.PDU.
func (q *QoSData) PDUType() pdu.Type { return pdu.TypeDot11QoSData }

// HeaderSize implements pdu.PDU.
func (q *QoSData) HeaderSize() uint32 { return q.fixedHeaderWireSize() + 2 }

// SerializeInto implements pdu.PDU.
func (q *QoSData) SerializeInto(buf []byte, _ pdu.PDU) error {
	fixedSize := q.fixedHeaderWireSize()
	q.serializeFixedHeader(buf[:fixedSize])
	w := bytestream.NewWriter(buf[fixedSize:])
	w.WriteUint16LE(q.qosControl)
	return nil
}

// MatchesResponse implements pdu.PDU: correlation, if any, is delegated
// to the encapsulated inner unit.
func (q *QoSData) MatchesResponse(data []byte) bool {
	other, err := ParseQoSData(data)
	if err != nil {
		return false
	}
	if q.inner == nil {
		return other.inner == nil
	}
	if other.inner == nil {
		return false
	}
	innerBytes, err := pdu.Serialize(other.inner)
	if err != nil {
		return false
	}
	return q.inner.MatchesResponse(innerBytes)
}
