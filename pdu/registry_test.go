package pdu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoCtor(data []byte) (PDU, error) { return NewRawPDU(data), nil }

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(6, TypeTCP, echoCtor))

	ctor, ok := r.Lookup(6)
	require.True(t, ok)
	require.NotNil(t, ctor)

	id, ok := r.IDFor(TypeTCP)
	assert.True(t, ok)
	assert.Equal(t, uint8(6), id)
}

func TestRegistryIdempotentReregistration(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(6, TypeTCP, echoCtor))
	// Same id + same type again must not error.
	assert.NoError(t, r.Register(6, TypeTCP, echoCtor))
}

func TestRegistryConflictingRegistrationRejected(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(6, TypeTCP, echoCtor))
	err := r.Register(6, TypeUDP, echoCtor)
	assert.Error(t, err)
}

func TestDiscriminatorForFallsBackToIPv6Ext(t *testing.T) {
	dispatch := NewRegistry()
	ext := NewRegistry()
	require.NoError(t, ext.Register(60, TypeICMPv6, echoCtor))

	oldDispatch, oldExt := Dispatch, IPv6Ext
	Dispatch, IPv6Ext = dispatch, ext
	defer func() { Dispatch, IPv6Ext = oldDispatch, oldExt }()

	inner, _ := echoCtor(nil)
	rawWithType := &typedRaw{RawPDU: inner.(*RawPDU), typ: TypeICMPv6}
	id, ok := DiscriminatorFor(rawWithType)
	require.True(t, ok)
	assert.Equal(t, uint8(60), id)
}

// typedRaw lets the test assert a specific PDUType without a full unit.
type typedRaw struct {
	*RawPDU
	typ Type
}

func (t *typedRaw) PDUType() Type { return t.typ }

func TestResolveInnerFallsBackToRawPDU(t *testing.T) {
	dispatch := NewRegistry()
	got, err := ResolveInner(dispatch, nil, 253, []byte{1, 2, 3})
	require.NoError(t, err)
	raw, ok := got.(*RawPDU)
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, raw.Payload())
}
