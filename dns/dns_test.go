package dns

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veyra-net/pktcraft/pdu"
)

func packHeader(id uint16, qd, an, ns, ar uint16) []byte {
	h := make([]byte, fixedHeaderSize)
	binary.BigEndian.PutUint16(h[0:], id)
	binary.BigEndian.PutUint16(h[4:], qd)
	binary.BigEndian.PutUint16(h[6:], an)
	binary.BigEndian.PutUint16(h[8:], ns)
	binary.BigEndian.PutUint16(h[10:], ar)
	return h
}

func TestAddQuestionSerializeParseRoundTrip(t *testing.T) {
	msg := New()
	msg.SetID(0x1234)
	msg.SetRecursionDesired(true)
	require.NoError(t, msg.AddQuestion(Question{Name: "example.com", Type: TypeA, Class: ClassIN}))

	out, err := pdu.Serialize(msg)
	require.NoError(t, err)

	got, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), got.ID())
	assert.True(t, got.RecursionDesired())
	assert.Equal(t, uint16(1), got.QuestionsCount())

	qs, err := got.Questions()
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "example.com", qs[0].Name)
	assert.Equal(t, TypeA, qs[0].Type)
	assert.Equal(t, ClassIN, qs[0].Class)
}

func TestAddAnswerARecordRoundTrip(t *testing.T) {
	msg := New()
	require.NoError(t, msg.AddQuestion(Question{Name: "example.com", Type: TypeA, Class: ClassIN}))
	require.NoError(t, msg.AddAnswer(Resource{
		Name: "example.com", Type: TypeA, Class: ClassIN, TTL: 300,
		Data: []byte{93, 184, 216, 34},
	}))

	out, err := pdu.Serialize(msg)
	require.NoError(t, err)

	got, err := Parse(out)
	require.NoError(t, err)
	answers, err := got.Answers()
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.Equal(t, "93.184.216.34", answers[0].Data)
	assert.Equal(t, uint32(300), answers[0].TTL)
}

func TestAddAnswerCNAMEEmbeddedName(t *testing.T) {
	msg := New()
	require.NoError(t, msg.AddQuestion(Question{Name: "www.example.com", Type: TypeCNAME, Class: ClassIN}))
	require.NoError(t, msg.AddAnswer(Resource{
		Name: "www.example.com", Type: TypeCNAME, Class: ClassIN, TTL: 60,
		Data: []byte("example.com"),
	}))

	out, err := pdu.Serialize(msg)
	require.NoError(t, err)

	got, err := Parse(out)
	require.NoError(t, err)
	answers, err := got.Answers()
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.Equal(t, "example.com", answers[0].Data)
}

// TestPointerBelowThresholdUntouchedOnInsertion builds a wire message by
// hand with an answer whose domain name is a compression pointer back
// into the question section, then inserts a second question and checks
// the insertion-shift rule: a pointer target at or below the insertion
// threshold is left byte-for-byte alone.
func TestPointerBelowThresholdUntouchedOnInsertion(t *testing.T) {
	question := encodeDomainName("example.com")
	question = append(question, 0, 1, 0, 1) // type A, class IN
	require.Len(t, question, 17)

	answer := []byte{0xc0, 0x0c} // pointer to offset 12: start of the question name
	answer = append(answer, 0, 1, 0, 1) // type A, class IN
	answer = append(answer, 0, 0, 1, 44) // ttl
	answer = append(answer, 0, 4) // rdlength
	answer = append(answer, 93, 184, 216, 34)

	records := append(append([]byte{}, question...), answer...)
	header := packHeader(0xaaaa, 1, 1, 0, 0)
	raw := append(header, records...)

	msg, err := Parse(raw)
	require.NoError(t, err)
	require.Equal(t, uint32(17), msg.answersIdx)

	oldPointerBytes := append([]byte{}, msg.recordsData[17:19]...)

	require.NoError(t, msg.AddQuestion(Question{Name: "other.example", Type: TypeA, Class: ClassIN}))

	newAnswerStart := int(msg.answersIdx)
	assert.Equal(t, oldPointerBytes, msg.recordsData[newAnswerStart:newAnswerStart+2],
		"pointer target below the insertion threshold must not be rewritten")

	qs, err := msg.Questions()
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, "example.com", qs[0].Name)
	assert.Equal(t, "other.example", qs[1].Name)

	answers, err := msg.Answers()
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.Equal(t, "93.184.216.34", answers[0].Data)
}

func TestMatchesResponseComparesRawID(t *testing.T) {
	msg := New()
	msg.SetID(0x5566)
	msg.SetQR(Query)

	reply := New()
	reply.SetID(0x5566)
	reply.SetQR(Response)
	replyBytes, err := pdu.Serialize(reply)
	require.NoError(t, err)

	assert.True(t, msg.MatchesResponse(replyBytes))

	mismatched := New()
	mismatched.SetID(0x1111)
	mismatchedBytes, err := pdu.Serialize(mismatched)
	require.NoError(t, err)
	assert.False(t, msg.MatchesResponse(mismatchedBytes))
}

func TestPDUTypeIsDNS(t *testing.T) {
	assert.Equal(t, pdu.TypeDNS, New().PDUType())
}
