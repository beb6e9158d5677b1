package dns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/dns/dnsmessage"

	"github.com/veyra-net/pktcraft/pdu"
)

// TestParseMatchesXNetDNSMessage cross-validates our header/question
// decoding against golang.org/x/net/dns/dnsmessage, an independent
// implementation already a direct teacher dependency (transitively, via
// golang.org/x/net): it builds one message with dnsmessage and checks
// that our own Parse reports the same field values.
func TestParseMatchesXNetDNSMessage(t *testing.T) {
	msg := dnsmessage.Message{
		Header: dnsmessage.Header{
			ID:                 0x2233,
			Response:           false,
			RecursionDesired:   true,
			RecursionAvailable: false,
		},
		Questions: []dnsmessage.Question{
			{
				Name:  dnsmessage.MustNewName("example.com."),
				Type:  dnsmessage.TypeA,
				Class: dnsmessage.ClassINET,
			},
		},
	}
	wire, err := msg.Pack()
	require.NoError(t, err)

	got, err := Parse(wire)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x2233), got.ID())
	assert.True(t, got.RecursionDesired())
	assert.False(t, got.RecursionAvailable())
	assert.Equal(t, uint16(1), got.QuestionsCount())

	qs, err := got.Questions()
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "example.com", qs[0].Name)
	assert.Equal(t, TypeA, qs[0].Type)
	assert.Equal(t, ClassIN, qs[0].Class)
}

// TestOurMessageParsesUnderXNet checks the reverse direction: a message
// built with AddQuestion/AddAnswer decodes cleanly under dnsmessage too,
// confirming our serialization is wire-compatible with an independent
// decoder.
func TestOurMessageParsesUnderXNet(t *testing.T) {
	m := New()
	m.SetID(0x7788)
	require.NoError(t, m.AddQuestion(Question{Name: "example.com", Type: TypeA, Class: ClassIN}))
	require.NoError(t, m.AddAnswer(Resource{
		Name: "example.com", Type: TypeA, Class: ClassIN, TTL: 120,
		Data: []byte{10, 0, 0, 1},
	}))

	wire, err := pdu.Serialize(m)
	require.NoError(t, err)

	var parsed dnsmessage.Parser
	hdr, err := parsed.Start(wire)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x7788), hdr.ID)

	q, err := parsed.Question()
	require.NoError(t, err)
	assert.Equal(t, "example.com.", q.Name.String())

	require.NoError(t, parsed.SkipAllQuestions())
	ans, err := parsed.AnswerHeader()
	require.NoError(t, err)
	assert.Equal(t, "example.com.", ans.Name.String())
}
