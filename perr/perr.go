// Package perr defines the sentinel errors surfaced by pktcraft's parsers
// and field encoders.
package perr

import "errors"

var (
	// ErrMalformedPacket is returned when a length field exceeds buffer
	// bounds, a DNS compression pointer targets an invalid offset, a
	// decoded domain name would exceed 255 bytes, or a fixed-size header
	// cannot be read in full.
	ErrMalformedPacket = errors.New("pktcraft: malformed packet")

	// ErrInvalidInterface is returned by the interface-resolution
	// collaborator (see package iface) when a named interface cannot be
	// resolved. It is declared here, rather than in iface, because the
	// send path needs to propagate it alongside ErrMalformedPacket.
	ErrInvalidInterface = errors.New("pktcraft: invalid interface")

	// ErrBufferTooShort is returned by ByteStream reads that would run
	// past the end of the underlying buffer.
	ErrBufferTooShort = errors.New("pktcraft: buffer too short")

	// ErrUnknownPDU is returned when a unit is serialized over an inner
	// unit whose type has no discriminator in either the protocol dispatch
	// table or a scoped allocator registry (IPv6's SerializeInto). The
	// registry lookups themselves report a miss with a false result, and
	// PU parsers never return it; they fall back to RawPDU instead, per
	// the fallback policy in spec.md §4.1 and §7.
	ErrUnknownPDU = errors.New("pktcraft: no decoder registered for discriminator")

	// ErrConflictingRegistration is returned by Register/RegisterIPv6Ext
	// when the same key is registered again with a different PDU Type.
	// Re-registering the same key with the same Type is idempotent and
	// does not error (spec.md §5).
	ErrConflictingRegistration = errors.New("pktcraft: conflicting registration for discriminator")
)
