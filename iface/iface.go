// Package iface declares the collaborator interfaces a packet-crafting
// caller plugs in to actually put bytes on a wire: sending frames/packets
// and resolving a named network interface's addressing. Neither has an
// implementation in this module — OS-specific socket binding and packet
// capture are explicitly out of scope, per spec.md §1 and §6 — but the
// shapes are ported from original_source/network_interface.cpp and the
// PacketSender contract in spec.md §6 so a caller's own implementation
// can plug straight into ipv6.PDU.MatchesResponse-adjacent send paths.
package iface

import (
	"net"

	"github.com/veyra-net/pktcraft/pdu"
	"github.com/veyra-net/pktcraft/perr"
)

// ErrInvalidInterface is raised by a Resolver when the named interface
// does not exist or has no usable address, per spec.md §7.
var ErrInvalidInterface = perr.ErrInvalidInterface

// SocketKind selects the OS socket family/protocol a Sender should use
// for a layer-3 send, mirroring PacketSender::send_l3's socket_kind enum.
type SocketKind int

const (
	SocketIPv4 SocketKind = iota
	SocketIPv6
	SocketICMP
	SocketICMPv6
)

// Sender is the collaborator that actually transmits a serialized PU
// chain. SendL2 addresses a link-layer frame at a device index; SendL3
// hands a packet to the OS with a destination address and socket kind,
// exactly as PacketSender::send_l2/send_l3 do in the original.
type Sender interface {
	SendL2(frame []byte, ifIndex int, dst net.HardwareAddr) error
	SendL3(packet []byte, dst net.IP, kind SocketKind) error
}

// SocketKindFor picks the socket kind an IPv6 send should use: an ICMPv6
// inner unit routes over the ICMPv6 socket, anything else over the plain
// IPv6 socket, mirroring IPv6::send's inner-type switch.
func SocketKindFor(inner pdu.PDU) SocketKind {
	if inner != nil && inner.PDUType() == pdu.TypeICMPv6 {
		return SocketICMPv6
	}
	return SocketIPv6
}

// Info describes one resolved network interface: its kernel index,
// hardware address, IPv4 address/netmask/broadcast, and up/down state.
// Ported field-for-field from NetworkInterface::Info in the original.
type Info struct {
	Index     int
	Name      string
	HWAddr    net.HardwareAddr
	IPv4Addr  net.IP
	Netmask   net.IP
	Broadcast net.IP
	Up        bool
}

// Resolver looks up interface addressing information by name, and picks
// the interface whose IPv4 subnet best matches a destination address —
// the longest-prefix-match lookup original_source/network_interface.cpp
// performs before a send.
type Resolver interface {
	InterfaceInfo(name string) (Info, error)
	InterfaceForDestination(dst net.IP) (Info, error)
}
