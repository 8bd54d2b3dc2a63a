package owl

// DataRange is the closed interface over data-range node kinds.
type DataRange interface {
	isDataRange()
}

// Datatype refers to a datatype by IRI, e.g. xsd:integer.
type Datatype struct {
	IRI string
}

// DataOneOf enumerates exactly the given literals.
type DataOneOf struct {
	Literals []Literal
}

// DataComplementOf is the complement of a data range relative to the
// literal universe of the knowledge source.
type DataComplementOf struct {
	Operand DataRange
}

// DataIntersectionOf is the intersection of data ranges.
type DataIntersectionOf struct {
	Operands []DataRange
}

// DataUnionOf is the union of data ranges.
type DataUnionOf struct {
	Operands []DataRange
}

// Facet identifies a constraining facet on a datatype restriction.
type Facet string

// Constraining facets supported by faceted datatype restrictions.
const (
	FacetMinInclusive Facet = "minInclusive"
	FacetMinExclusive Facet = "minExclusive"
	FacetMaxInclusive Facet = "maxInclusive"
	FacetMaxExclusive Facet = "maxExclusive"
	FacetLength       Facet = "length"
	FacetMinLength    Facet = "minLength"
	FacetMaxLength    Facet = "maxLength"
	FacetPattern      Facet = "pattern"
)

// FacetRestriction pairs a facet with its constraining value.
type FacetRestriction struct {
	Facet Facet
	Value Literal
}

// DatatypeRestriction restricts a datatype with one or more facets,
// e.g. xsd:integer[minInclusive 18, maxExclusive 65].
type DatatypeRestriction struct {
	Datatype Datatype
	Facets   []FacetRestriction
}

func (Datatype) isDataRange()            {}
func (DataOneOf) isDataRange()           {}
func (DataComplementOf) isDataRange()    {}
func (DataIntersectionOf) isDataRange()  {}
func (DataUnionOf) isDataRange()         {}
func (DatatypeRestriction) isDataRange() {}
