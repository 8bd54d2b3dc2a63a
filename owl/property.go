package owl

// ObjectProperty is an object property expression: a property IRI plus an
// inverse flag. An inverse property flips subject and object roles at query
// time. Properties are immutable after construction.
type ObjectProperty struct {
	IRI      string
	inverted bool
}

// NewObjectProperty creates a (forward) object property from an IRI.
func NewObjectProperty(iri string) ObjectProperty {
	return ObjectProperty{IRI: iri}
}

// Inverse returns the inverse of this property expression.
// The inverse of an inverse is the original forward property.
func (p ObjectProperty) Inverse() ObjectProperty {
	return ObjectProperty{IRI: p.IRI, inverted: !p.inverted}
}

// IsInverse reports whether subject and object roles are flipped.
func (p ObjectProperty) IsInverse() bool {
	return p.inverted
}

// Named returns the underlying forward property.
func (p ObjectProperty) Named() ObjectProperty {
	return ObjectProperty{IRI: p.IRI}
}

// String renders the property expression.
func (p ObjectProperty) String() string {
	if p.inverted {
		return "inverse(" + p.IRI + ")"
	}
	return p.IRI
}

// DataProperty is a data property identified by IRI. Data properties relate
// individuals to literals and have no inverse form.
type DataProperty struct {
	IRI string
}

// NewDataProperty creates a data property from an IRI.
func NewDataProperty(iri string) DataProperty {
	return DataProperty{IRI: iri}
}

// String returns the IRI of the property.
func (p DataProperty) String() string {
	return p.IRI
}
