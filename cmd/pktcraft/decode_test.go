package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veyra-net/pktcraft/addr"
	"github.com/veyra-net/pktcraft/ipv6"
	"github.com/veyra-net/pktcraft/pdu"
)

func TestDecodeTopIPv6(t *testing.T) {
	src := addr.IPv6FromBytes(make([]byte, 16))
	dst := addr.IPv6FromBytes(make([]byte, 16))
	p := ipv6.New(src, dst)

	out, err := pdu.Serialize(p)
	require.NoError(t, err)

	top, err := decodeTop("ipv6", out)
	require.NoError(t, err)
	assert.Equal(t, pdu.TypeIPv6, top.PDUType())
}

func TestDecodeTopUnknownUnit(t *testing.T) {
	_, err := decodeTop("bogus", []byte{})
	assert.Error(t, err)
}

func TestPrintChainRendersEachUnit(t *testing.T) {
	src := addr.IPv6FromBytes(make([]byte, 16))
	dst := addr.IPv6FromBytes(make([]byte, 16))
	p := ipv6.New(src, dst)

	var buf bytes.Buffer
	printChain(&buf, p)
	assert.Contains(t, buf.String(), "IPv6")
}
