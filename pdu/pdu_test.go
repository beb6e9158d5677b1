package pdu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedPDU is a minimal PDU used to test the chaining/serialization glue
// without pulling in a real protocol unit.
type fixedPDU struct {
	typ   Type
	bytes []byte
	inner PDU
}

func (f *fixedPDU) PDUType() Type        { return f.typ }
func (f *fixedPDU) HeaderSize() uint32   { return uint32(len(f.bytes)) }
func (f *fixedPDU) Inner() PDU           { return f.inner }
func (f *fixedPDU) SetInner(inner PDU)   { f.inner = inner }
func (f *fixedPDU) MatchesResponse([]byte) bool { return false }
func (f *fixedPDU) SerializeInto(buf []byte, _ PDU) error {
	copy(buf, f.bytes)
	return nil
}

func TestChainLinksInnerUnits(t *testing.T) {
	a := &fixedPDU{typ: TypeIPv6, bytes: []byte{1, 2}}
	b := &fixedPDU{typ: TypeDNS, bytes: []byte{3, 4, 5}}

	head := Chain(a, b)

	assert.Same(t, a, head)
	assert.Same(t, b, a.Inner())
	assert.Nil(t, b.Inner())
}

func TestLenSumsWholeChain(t *testing.T) {
	a := &fixedPDU{typ: TypeIPv6, bytes: []byte{1, 2}}
	b := &fixedPDU{typ: TypeDNS, bytes: []byte{3, 4, 5}}
	Chain(a, b)

	assert.Equal(t, uint32(5), Len(a))
}

func TestSerializeWritesEachUnitAtItsOffset(t *testing.T) {
	a := &fixedPDU{typ: TypeIPv6, bytes: []byte{0xaa, 0xbb}}
	b := &fixedPDU{typ: TypeDNS, bytes: []byte{0x01, 0x02, 0x03}}
	Chain(a, b)

	out, err := Serialize(a)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xaa, 0xbb, 0x01, 0x02, 0x03}, out)
}

func TestFindLocatesUnitByType(t *testing.T) {
	a := &fixedPDU{typ: TypeIPv6, bytes: []byte{1}}
	b := &fixedPDU{typ: TypeDNS, bytes: []byte{2}}
	Chain(a, b)

	assert.Same(t, b, Find(a, TypeDNS))
	assert.Nil(t, Find(a, TypeDot11))
}

func TestRawPDUHasNoInner(t *testing.T) {
	r := NewRawPDU([]byte{1, 2, 3})
	assert.Equal(t, TypeRawPDU, r.PDUType())
	assert.Nil(t, r.Inner())
	r.SetInner(NewRawPDU([]byte{9}))
	assert.Nil(t, r.Inner(), "SetInner on RawPDU must remain a no-op")
}

func TestRawPDUMatchesResponseRequiresByteEquality(t *testing.T) {
	r := NewRawPDU([]byte{1, 2, 3})
	assert.True(t, r.MatchesResponse([]byte{1, 2, 3}))
	assert.False(t, r.MatchesResponse([]byte{1, 2, 4}))
}
