// Package addr defines the fixed-width address value types shared by every
// protocol unit: MAC-48, IPv4 and IPv6. Each is a plain byte array so it
// serializes into a PU's fixed header with a single copy, has no hidden
// allocation, and compares with ==.
package addr

import (
	"fmt"
	"net"
)

// MAC is a 48-bit hardware address.
type MAC [6]byte

// ParseMAC parses a colon- or hyphen-separated hardware address.
func ParseMAC(s string) (MAC, error) {
	hw, err := net.ParseMAC(s)
	if err != nil || len(hw) != 6 {
		return MAC{}, fmt.Errorf("addr: invalid MAC %q", s)
	}
	var m MAC
	copy(m[:], hw)
	return m, nil
}

// MACFromBytes copies a 6-byte slice into a MAC. It panics if b is shorter
// than 6 bytes; callers that read from an untrusted buffer must bounds
// check first, exactly as with any other fixed-header field.
func MACFromBytes(b []byte) MAC {
	var m MAC
	copy(m[:], b[:6])
	return m
}

func (m MAC) String() string {
	return net.HardwareAddr(m[:]).String()
}

// IsBroadcast reports whether m is ff:ff:ff:ff:ff:ff.
func (m MAC) IsBroadcast() bool {
	return m == MAC{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
}

// IsMulticast reports whether the group bit (least significant bit of the
// first octet) is set.
func (m MAC) IsMulticast() bool {
	return m[0]&0x01 != 0
}

// Bytes returns the address as a slice; the slice aliases m's backing
// array only when m is addressable, so callers that need a stable copy
// should not rely on aliasing.
func (m MAC) Bytes() []byte { return m[:] }

// IPv4 is a 32-bit IPv4 address stored in network byte order.
type IPv4 [4]byte

// ParseIPv4 parses a dotted-quad string.
func ParseIPv4(s string) (IPv4, error) {
	ip := net.ParseIP(s)
	if ip == nil {
		return IPv4{}, fmt.Errorf("addr: invalid IPv4 %q", s)
	}
	v4 := ip.To4()
	if v4 == nil {
		return IPv4{}, fmt.Errorf("addr: %q is not an IPv4 address", s)
	}
	var out IPv4
	copy(out[:], v4)
	return out, nil
}

// IPv4FromBytes copies a 4-byte slice into an IPv4 value.
func IPv4FromBytes(b []byte) IPv4 {
	var v IPv4
	copy(v[:], b[:4])
	return v
}

func (a IPv4) String() string {
	return net.IP(a[:]).String()
}

// IsLoopback reports whether a is in 127.0.0.0/8.
func (a IPv4) IsLoopback() bool { return a[0] == 127 }

// IsMulticast reports whether a is in 224.0.0.0/4.
func (a IPv4) IsMulticast() bool { return a[0]&0xf0 == 0xe0 }

// Bytes returns the address as a slice.
func (a IPv4) Bytes() []byte { return a[:] }

// IPv6 is a 128-bit IPv6 address.
type IPv6 [16]byte

// ParseIPv6 parses a textual IPv6 address (including the "::" shorthand).
func ParseIPv6(s string) (IPv6, error) {
	ip := net.ParseIP(s)
	if ip == nil {
		return IPv6{}, fmt.Errorf("addr: invalid IPv6 %q", s)
	}
	v6 := ip.To16()
	if v6 == nil || ip.To4() != nil {
		return IPv6{}, fmt.Errorf("addr: %q is not an IPv6 address", s)
	}
	var out IPv6
	copy(out[:], v6)
	return out, nil
}

// IPv6FromBytes copies a 16-byte slice into an IPv6 value.
func IPv6FromBytes(b []byte) IPv6 {
	var v IPv6
	copy(v[:], b[:16])
	return v
}

func (a IPv6) String() string {
	return net.IP(a[:]).String()
}

// IsLoopback reports whether a is ::1.
func (a IPv6) IsLoopback() bool {
	return a == IPv6{15: 1}
}

// IsMulticast reports whether a is in ff00::/8.
func (a IPv6) IsMulticast() bool { return a[0] == 0xff }

// IsLinkLocalMulticast reports whether a is in the ff02::/16 range, the
// narrower multicast check that IPv6.MatchesResponse relies on (spec.md
// §9 "Open questions": wider ff0x::/8 multicast is intentionally not
// treated as symmetric here, matching the source library's behavior).
func (a IPv6) IsLinkLocalMulticast() bool {
	return a[0] == 0xff && a[1] == 0x02
}

// Bytes returns the address as a slice.
func (a IPv6) Bytes() []byte { return a[:] }
