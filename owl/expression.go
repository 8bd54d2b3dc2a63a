// Package owl defines the class-expression model: an immutable tree of
// boolean, restriction and nominal operators over named classes, properties,
// individuals and literals. The model is a closed set of node kinds; the
// evaluator in package reasoner dispatches exhaustively over them.
package owl

// Well-known class IRIs.
const (
	ThingIRI   = "http://www.w3.org/2002/07/owl#Thing"
	NothingIRI = "http://www.w3.org/2002/07/owl#Nothing"
)

// ClassExpression is the closed interface implemented by every class
// expression node kind. Only types in this package satisfy it.
type ClassExpression interface {
	isClassExpression()
}

// NamedClass refers to a class by IRI.
type NamedClass struct {
	IRI string
}

// NewNamedClass refers to the class with the given IRI.
func NewNamedClass(iri string) NamedClass {
	return NamedClass{IRI: iri}
}

// Thing is the universal class owl:Thing.
var Thing = NamedClass{IRI: ThingIRI}

// Nothing is the empty class owl:Nothing.
var Nothing = NamedClass{IRI: NothingIRI}

// IsThing reports whether this is owl:Thing.
func (c NamedClass) IsThing() bool { return c.IRI == ThingIRI }

// IsNothing reports whether this is owl:Nothing.
func (c NamedClass) IsNothing() bool { return c.IRI == NothingIRI }

// Complement is the class of individuals not in the operand.
// Complement(Complement(x)) is not collapsed at construction; the evaluator
// guarantees double negation semantically.
type Complement struct {
	Operand ClassExpression
}

// Intersection is the class of individuals in every operand.
// Operands are semantically a set but kept ordered for determinism.
type Intersection struct {
	Operands []ClassExpression
}

// Union is the class of individuals in at least one operand.
type Union struct {
	Operands []ClassExpression
}

// SomeValuesFrom is the existential restriction ∃r.C: individuals with at
// least one r-successor in C.
type SomeValuesFrom struct {
	Property ObjectProperty
	Filler   ClassExpression
}

// AllValuesFrom is the universal restriction ∀r.C: individuals whose every
// r-successor is in C. Individuals with no r-successor satisfy it vacuously.
type AllValuesFrom struct {
	Property ObjectProperty
	Filler   ClassExpression
}

// HasValue is the restriction ∃r.{a} for a single individual a.
type HasValue struct {
	Property ObjectProperty
	Value    Individual
}

// OneOf is the nominal class enumerating exactly the given individuals.
type OneOf struct {
	Individuals []Individual
}

// MinCardinality is ≥n r.C: individuals with at least n r-successors in C.
type MinCardinality struct {
	N        int
	Property ObjectProperty
	Filler   ClassExpression
}

// MaxCardinality is ≤n r.C: individuals with at most n r-successors in C.
type MaxCardinality struct {
	N        int
	Property ObjectProperty
	Filler   ClassExpression
}

// ExactCardinality is =n r.C, equivalent to ≥n r.C ⊓ ≤n r.C.
type ExactCardinality struct {
	N        int
	Property ObjectProperty
	Filler   ClassExpression
}

// DataSomeValuesFrom is ∃p.R over a data property and a data range.
type DataSomeValuesFrom struct {
	Property DataProperty
	Range    DataRange
}

// DataAllValuesFrom is ∀p.R over a data property and a data range.
type DataAllValuesFrom struct {
	Property DataProperty
	Range    DataRange
}

// DataHasValue is ∃p.{l} for a single literal l.
type DataHasValue struct {
	Property DataProperty
	Value    Literal
}

// DataMinCardinality is ≥n p.R over a data property.
type DataMinCardinality struct {
	N        int
	Property DataProperty
	Range    DataRange
}

// DataMaxCardinality is ≤n p.R over a data property.
type DataMaxCardinality struct {
	N        int
	Property DataProperty
	Range    DataRange
}

// DataExactCardinality is =n p.R over a data property.
type DataExactCardinality struct {
	N        int
	Property DataProperty
	Range    DataRange
}

func (NamedClass) isClassExpression()           {}
func (Complement) isClassExpression()           {}
func (Intersection) isClassExpression()         {}
func (Union) isClassExpression()                {}
func (SomeValuesFrom) isClassExpression()       {}
func (AllValuesFrom) isClassExpression()        {}
func (HasValue) isClassExpression()             {}
func (OneOf) isClassExpression()                {}
func (MinCardinality) isClassExpression()       {}
func (MaxCardinality) isClassExpression()       {}
func (ExactCardinality) isClassExpression()     {}
func (DataSomeValuesFrom) isClassExpression()   {}
func (DataAllValuesFrom) isClassExpression()    {}
func (DataHasValue) isClassExpression()         {}
func (DataMinCardinality) isClassExpression()   {}
func (DataMaxCardinality) isClassExpression()   {}
func (DataExactCardinality) isClassExpression() {}

// NewIntersection builds an intersection. Panics if no operands are given:
// n-ary boolean expressions require at least one operand.
func NewIntersection(operands ...ClassExpression) Intersection {
	if len(operands) == 0 {
		panic("owl: intersection requires at least one operand")
	}
	return Intersection{Operands: operands}
}

// NewUnion builds a union. Panics if no operands are given.
func NewUnion(operands ...ClassExpression) Union {
	if len(operands) == 0 {
		panic("owl: union requires at least one operand")
	}
	return Union{Operands: operands}
}

// NewMinCardinality builds ≥n r.C. Panics on negative n.
func NewMinCardinality(n int, p ObjectProperty, filler ClassExpression) MinCardinality {
	mustNonNegative(n)
	return MinCardinality{N: n, Property: p, Filler: filler}
}

// NewMaxCardinality builds ≤n r.C. Panics on negative n.
func NewMaxCardinality(n int, p ObjectProperty, filler ClassExpression) MaxCardinality {
	mustNonNegative(n)
	return MaxCardinality{N: n, Property: p, Filler: filler}
}

// NewExactCardinality builds =n r.C. Panics on negative n.
func NewExactCardinality(n int, p ObjectProperty, filler ClassExpression) ExactCardinality {
	mustNonNegative(n)
	return ExactCardinality{N: n, Property: p, Filler: filler}
}

func mustNonNegative(n int) {
	if n < 0 {
		panic("owl: cardinality must be non-negative")
	}
}
