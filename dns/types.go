package dns

// QueryType is the RR type code carried by a question or resource record.
type QueryType uint16

// Resource record types this package understands well enough to encode
// their data specially (addresses, embedded domain names). Any other
// type is carried as an opaque byte blob.
const (
	TypeA     QueryType = 1
	TypeNS    QueryType = 2
	TypeCNAME QueryType = 5
	TypeSOA   QueryType = 6
	TypePTR   QueryType = 12
	TypeMX    QueryType = 15
	TypeTXT   QueryType = 16
	TypeAAAA  QueryType = 28
	TypeDNAME QueryType = 39
)

// QueryClass is the RR class code, almost always ClassIN in practice.
type QueryClass uint16

const (
	ClassIN  QueryClass = 1
	ClassCH  QueryClass = 3
	ClassHS  QueryClass = 4
	ClassANY QueryClass = 255
)

// QR distinguishes a query from a response in the header's QR bit.
type QR uint8

const (
	Query    QR = 0
	Response QR = 1
)

// containsDName reports whether a record of this type carries an
// embedded, independently compressible domain name as its data (spec.md
// §4.3, ported from DNS::contains_dname).
func containsDName(t QueryType) bool {
	return t == TypeMX || t == TypeCNAME || t == TypePTR || t == TypeNS
}

// Question is one entry in the header's question section.
type Question struct {
	Name  string
	Type  QueryType
	Class QueryClass
}

// Resource is one entry in the answer, authority or additional section.
// Data holds the record's raw rdata, except for record types in
// containsDName, where Data holds the domain name's ASCII text — callers
// building a CNAME/MX/PTR/NS record pass the target name as Data.
type Resource struct {
	Name  string
	Type  QueryType
	Class QueryClass
	TTL   uint32
	Data  []byte
}

// DecodedResource is a resource record as read back out of a message,
// with its data already rendered into a human-readable form: a dotted
// IPv4 address, an IPv6 address, a domain name, or (for anything else)
// the raw rdata bytes reinterpreted as text.
type DecodedResource struct {
	Name  string
	Type  QueryType
	Class QueryClass
	TTL   uint32
	Data  string
}
