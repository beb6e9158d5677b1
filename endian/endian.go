// Package endian provides the byte-swap primitives used to move 16/32/64-bit
// integer fields between host representation and the wire.
//
// IPv6 and DNS fields are network byte order (big-endian); IEEE 802.11
// multi-byte fields are little-endian per the standard. Nothing here reads
// or writes memory directly — every conversion is byte-oriented so it is
// correct regardless of the host's native endianness, the idiomatic Go
// replacement for the source library's compile-time host-endianness switch.
package endian

import "encoding/binary"

// BE holds the big-endian codec used by IPv6 and DNS.
var BE = binary.BigEndian

// LE holds the little-endian codec used by IEEE 802.11.
var LE = binary.LittleEndian

// HostToBE16 returns v encoded as a 2-byte big-endian value.
func HostToBE16(v uint16) [2]byte {
	var b [2]byte
	BE.PutUint16(b[:], v)
	return b
}

// HostToBE32 returns v encoded as a 4-byte big-endian value.
func HostToBE32(v uint32) [4]byte {
	var b [4]byte
	BE.PutUint32(b[:], v)
	return b
}

// BEToHost16 decodes a 2-byte big-endian value.
func BEToHost16(b []byte) uint16 { return BE.Uint16(b) }

// BEToHost32 decodes a 4-byte big-endian value.
func BEToHost32(b []byte) uint32 { return BE.Uint32(b) }

// BEToHost64 decodes an 8-byte big-endian value.
func BEToHost64(b []byte) uint64 { return BE.Uint64(b) }
