package ipv6

// Extension header discriminators, from spec.md §4.2. DestinationOptions
// and DestinationRoutingOptions share the wire value 60 — the "Destination
// Options" header type is reused both before a Routing header (source
// routing options) and at the true destination, and the source library
// keeps two names for the same numeric id for that reason.
const (
	HopByHop                  uint8 = 0
	Routing                   uint8 = 43
	Fragment                  uint8 = 44
	SecurityEncapsulation     uint8 = 50
	Authentication            uint8 = 51
	NoNextHeader              uint8 = 59
	DestinationOptions        uint8 = 60
	DestinationRoutingOptions uint8 = 60
	Mobility                  uint8 = 135
)

var extensionHeaderIDs = map[uint8]bool{
	HopByHop:              true,
	Routing:               true,
	Fragment:              true,
	SecurityEncapsulation: true,
	Authentication:        true,
	NoNextHeader:          true,
	DestinationOptions:    true,
	Mobility:              true,
}

// IsExtensionHeader reports whether id names one of the chained
// extension-header types rather than a terminal inner protocol.
func IsExtensionHeader(id uint8) bool {
	return extensionHeaderIDs[id]
}

// ExtHeader is one link in the extension-header chain. Type is this
// header's own protocol identifier, carried not in its own bytes but in
// whichever slot points at it (the fixed header's next_header field, or
// the previous extension header's Option). Option is the on-wire
// discriminator announcing the type of whatever immediately follows this
// header — another extension header, or the inner PDU (spec.md §4.2).
// Payload is the extension header's body, excluding its own 2-byte
// {option, length} control bytes.
type ExtHeader struct {
	Type    uint8
	Option  uint8
	Payload []byte
}

// wireSize is the total on-wire size of this extension header, including
// its 2 control bytes.
func (e ExtHeader) wireSize() uint32 {
	return uint32(len(e.Payload)) + 2
}

// lengthOctets encodes (total_ext_bytes/8) - 1, the on-wire length field.
// The invariant maintained by every mutator in this package is that
// wireSize() is always a multiple of 8, so this division is exact.
func (e ExtHeader) lengthOctets() uint8 {
	return uint8(e.wireSize()/8 - 1)
}
