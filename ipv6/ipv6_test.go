package ipv6

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veyra-net/pktcraft/addr"
	"github.com/veyra-net/pktcraft/pdu"
)

var (
	testSrc = addr.IPv6FromBytes([]byte{
		0x20, 0x01, 0x0d, 0xb8, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1,
	})
	testDst = addr.IPv6FromBytes([]byte{
		0x20, 0x01, 0x0d, 0xb8, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 2,
	})
)

func TestParseSerializeEmptyPayloadRoundTrip(t *testing.T) {
	p := New(testSrc, testDst)
	p.SetHopLimit(64)

	out, err := pdu.Serialize(p)
	require.NoError(t, err)
	require.Len(t, out, fixedHeaderSize)
	assert.Equal(t, NoNextHeader, out[6])

	got, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, uint8(6), got.Version())
	assert.Equal(t, testSrc, got.Src())
	assert.Equal(t, testDst, got.Dst())
	assert.Equal(t, uint8(64), got.HopLimit())
	assert.Nil(t, got.Inner())
}

// rawInner is a minimal registered PDU used to exercise IPv6's inner
// dispatch without pulling in a real transport-layer unit.
type rawInner struct {
	data []byte
}

func (r *rawInner) PDUType() pdu.Type      { return pdu.TypeTCP }
func (r *rawInner) HeaderSize() uint32     { return uint32(len(r.data)) }
func (r *rawInner) Inner() pdu.PDU         { return nil }
func (r *rawInner) SetInner(pdu.PDU)       {}
func (r *rawInner) MatchesResponse([]byte) bool { return true }
func (r *rawInner) SerializeInto(buf []byte, _ pdu.PDU) error {
	copy(buf, r.data)
	return nil
}

const rawInnerDiscriminator uint8 = 6 // TCP's IANA next-header number

func init() {
	_ = pdu.RegisterPDU(rawInnerDiscriminator, pdu.TypeTCP, func(data []byte) (pdu.PDU, error) {
		return &rawInner{data: append([]byte(nil), data...)}, nil
	})
}

func TestHopByHopThenInnerUnitChain(t *testing.T) {
	p := New(testSrc, testDst)
	p.AddExtHeader(HopByHop, ExtHeader{Payload: make([]byte, 6)}) // 8 bytes total, Option rewritten on serialize
	p.SetInner(&rawInner{data: []byte{0xde, 0xad, 0xbe, 0xef}})

	out, err := pdu.Serialize(p)
	require.NoError(t, err)
	require.Len(t, out, fixedHeaderSize+8+4)

	assert.Equal(t, HopByHop, out[6], "fixed header must point at the first extension header")
	assert.Equal(t, rawInnerDiscriminator, out[fixedHeaderSize], "last extension header option must be rewritten to the inner discriminator")

	got, err := Parse(out)
	require.NoError(t, err)
	require.Len(t, got.ExtHeaders(), 1)
	eh, ok := got.ExtensionHeader(HopByHop)
	require.True(t, ok)
	assert.Len(t, eh.Payload, 6)
	require.NotNil(t, got.Inner())
	assert.Equal(t, pdu.TypeTCP, got.Inner().PDUType())
}

func TestPayloadLengthRecomputedOnSerialize(t *testing.T) {
	p := New(testSrc, testDst)
	p.SetInner(&rawInner{data: []byte{1, 2, 3, 4, 5}})

	out, err := pdu.Serialize(p)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 5}, out[4:6])
}

func TestFlowLabelMasksTo20Bits(t *testing.T) {
	p := New(testSrc, testDst)
	p.SetFlowLabel(0xffffffff)
	assert.Equal(t, uint32(0xfffff), p.FlowLabel())
}

func TestExtensionHeaderLookupMiss(t *testing.T) {
	p := New(testSrc, testDst)
	_, ok := p.ExtensionHeader(Routing)
	assert.False(t, ok)
}
