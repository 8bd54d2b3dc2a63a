package reasoner

import (
	"regexp"

	"github.com/dice-group/owlgo/logger"
	"github.com/dice-group/owlgo/owl"
)

// LiteralInRange reports whether the literal satisfies the data range.
// Range membership is decided per literal, in process; the knowledge
// source is never consulted.
func LiteralInRange(l owl.Literal, dr owl.DataRange) bool {
	switch r := dr.(type) {
	case owl.Datatype:
		return r.IRI == owl.RDFSLiteralIRI || r.IRI == l.Datatype

	case owl.DataOneOf:
		for _, candidate := range r.Literals {
			if candidate == l {
				return true
			}
		}
		return false

	case owl.DataComplementOf:
		return !LiteralInRange(l, r.Operand)

	case owl.DataIntersectionOf:
		for _, op := range r.Operands {
			if !LiteralInRange(l, op) {
				return false
			}
		}
		return true

	case owl.DataUnionOf:
		for _, op := range r.Operands {
			if LiteralInRange(l, op) {
				return true
			}
		}
		return false

	case owl.DatatypeRestriction:
		if !LiteralInRange(l, r.Datatype) {
			return false
		}
		for _, facet := range r.Facets {
			if !satisfiesFacet(l, facet) {
				return false
			}
		}
		return true

	default:
		return false
	}
}

// satisfiesFacet checks a single constraining facet against the literal.
// Numeric facets over non-numeric literals fail the facet rather than
// erroring, matching per-literal closed-world evaluation.
func satisfiesFacet(l owl.Literal, facet owl.FacetRestriction) bool {
	switch facet.Facet {
	case owl.FacetMinInclusive, owl.FacetMinExclusive, owl.FacetMaxInclusive, owl.FacetMaxExclusive:
		value, ok := l.Float()
		if !ok {
			return false
		}
		bound, ok := facet.Value.Float()
		if !ok {
			return false
		}
		switch facet.Facet {
		case owl.FacetMinInclusive:
			return value >= bound
		case owl.FacetMinExclusive:
			return value > bound
		case owl.FacetMaxInclusive:
			return value <= bound
		default:
			return value < bound
		}

	case owl.FacetLength, owl.FacetMinLength, owl.FacetMaxLength:
		bound, ok := facet.Value.Float()
		if !ok {
			return false
		}
		n := len([]rune(l.Lexical))
		switch facet.Facet {
		case owl.FacetLength:
			return n == int(bound)
		case owl.FacetMinLength:
			return n >= int(bound)
		default:
			return n <= int(bound)
		}

	case owl.FacetPattern:
		re, err := regexp.Compile(facet.Value.Lexical)
		if err != nil {
			logger.Warnw("invalid pattern facet",
				"pattern", facet.Value.Lexical,
				"error", err)
			return false
		}
		return re.MatchString(l.Lexical)

	default:
		return false
	}
}

// countInRange counts how many of the literals fall inside the range.
func countInRange(values []owl.Literal, dr owl.DataRange) int {
	n := 0
	for _, v := range values {
		if LiteralInRange(v, dr) {
			n++
		}
	}
	return n
}
