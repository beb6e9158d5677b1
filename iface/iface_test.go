package iface

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/veyra-net/pktcraft/pdu"
)

type stubICMPv6 struct{ pdu.PDU }

func (stubICMPv6) PDUType() pdu.Type       { return pdu.TypeICMPv6 }
func (stubICMPv6) HeaderSize() uint32      { return 0 }
func (stubICMPv6) SerializeInto([]byte, pdu.PDU) error { return nil }
func (stubICMPv6) MatchesResponse([]byte) bool         { return false }
func (stubICMPv6) Inner() pdu.PDU                      { return nil }
func (stubICMPv6) SetInner(pdu.PDU)                    {}

func TestSocketKindForPicksICMPv6ForICMPv6Inner(t *testing.T) {
	assert.Equal(t, SocketICMPv6, SocketKindFor(stubICMPv6{}))
}

func TestSocketKindForDefaultsToIPv6(t *testing.T) {
	assert.Equal(t, SocketIPv6, SocketKindFor(nil))
}
