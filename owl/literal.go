package owl

import (
	"strconv"
)

// RDFSLiteralIRI is the top datatype that every literal belongs to.
const RDFSLiteralIRI = "http://www.w3.org/2000/01/rdf-schema#Literal"

// Well-known XSD datatype IRIs.
const (
	XSDString  = "http://www.w3.org/2001/XMLSchema#string"
	XSDInteger = "http://www.w3.org/2001/XMLSchema#integer"
	XSDDouble  = "http://www.w3.org/2001/XMLSchema#double"
	XSDBoolean = "http://www.w3.org/2001/XMLSchema#boolean"
)

// Literal is a typed data value: a lexical form plus a datatype IRI.
// Literals are value objects compared by lexical form and datatype.
type Literal struct {
	Lexical  string
	Datatype string
}

// StringLiteral creates an xsd:string literal.
func StringLiteral(s string) Literal {
	return Literal{Lexical: s, Datatype: XSDString}
}

// IntLiteral creates an xsd:integer literal.
func IntLiteral(v int64) Literal {
	return Literal{Lexical: strconv.FormatInt(v, 10), Datatype: XSDInteger}
}

// DoubleLiteral creates an xsd:double literal.
func DoubleLiteral(v float64) Literal {
	return Literal{Lexical: strconv.FormatFloat(v, 'g', -1, 64), Datatype: XSDDouble}
}

// BoolLiteral creates an xsd:boolean literal.
func BoolLiteral(v bool) Literal {
	return Literal{Lexical: strconv.FormatBool(v), Datatype: XSDBoolean}
}

// Float returns the numeric value of the literal. The second return is
// false when the lexical form does not parse as a number.
func (l Literal) Float() (float64, bool) {
	v, err := strconv.ParseFloat(l.Lexical, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// IsNumeric reports whether the lexical form parses as a number.
func (l Literal) IsNumeric() bool {
	_, ok := l.Float()
	return ok
}

// String returns the lexical form of the literal.
func (l Literal) String() string {
	return l.Lexical
}
