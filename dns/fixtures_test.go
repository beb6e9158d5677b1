package dns

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/veyra-net/pktcraft/pdu"
)

type questionFixture struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type"`
	Class string `yaml:"class"`
}

type messageFixture struct {
	Name              string            `yaml:"name"`
	ID                uint16            `yaml:"id"`
	RecursionDesired  bool              `yaml:"recursion_desired"`
	Questions         []questionFixture `yaml:"questions"`
}

type fixtureFile struct {
	Cases []messageFixture `yaml:"cases"`
}

func typeFromName(name string) QueryType {
	switch name {
	case "A":
		return TypeA
	case "AAAA":
		return TypeAAAA
	case "NS":
		return TypeNS
	case "CNAME":
		return TypeCNAME
	case "MX":
		return TypeMX
	case "TXT":
		return TypeTXT
	case "SOA":
		return TypeSOA
	case "PTR":
		return TypePTR
	case "DNAME":
		return TypeDNAME
	default:
		return 0
	}
}

func classFromName(name string) QueryClass {
	switch name {
	case "CH":
		return ClassCH
	case "HS":
		return ClassHS
	case "ANY":
		return ClassANY
	default:
		return ClassIN
	}
}

// TestFixturesRoundTrip loads testdata/dns_questions.yaml — the same
// yaml.v3-decoded shape the teacher's config loader uses for its own
// settings files — builds a message per case, and checks every question
// survives a serialize/parse round trip.
func TestFixturesRoundTrip(t *testing.T) {
	raw, err := os.ReadFile("../testdata/dns_questions.yaml")
	require.NoError(t, err)

	var file fixtureFile
	require.NoError(t, yaml.Unmarshal(raw, &file))
	require.NotEmpty(t, file.Cases)

	for _, c := range file.Cases {
		c := c
		t.Run(c.Name, func(t *testing.T) {
			msg := New()
			msg.SetID(c.ID)
			msg.SetRecursionDesired(c.RecursionDesired)
			for _, q := range c.Questions {
				require.NoError(t, msg.AddQuestion(Question{
					Name:  q.Name,
					Type:  typeFromName(q.Type),
					Class: classFromName(q.Class),
				}))
			}

			out, err := pdu.Serialize(msg)
			require.NoError(t, err)

			got, err := Parse(out)
			require.NoError(t, err)
			assert.Equal(t, c.ID, got.ID())
			assert.Equal(t, c.RecursionDesired, got.RecursionDesired())

			qs, err := got.Questions()
			require.NoError(t, err)
			require.Len(t, qs, len(c.Questions))
			for i, q := range c.Questions {
				assert.Equal(t, q.Name, qs[i].Name)
				assert.Equal(t, typeFromName(q.Type), qs[i].Type)
				assert.Equal(t, classFromName(q.Class), qs[i].Class)
			}
		})
	}
}
