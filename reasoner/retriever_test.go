package reasoner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dice-group/owlgo/kb"
	"github.com/dice-group/owlgo/owl"
)

const ns = "http://example.org/"

func ind(name string) owl.Individual {
	return owl.NewIndividual(ns + name)
}

func cls(name string) owl.NamedClass {
	return owl.NewNamedClass(ns + name)
}

func prop(name string) owl.ObjectProperty {
	return owl.NewObjectProperty(ns + name)
}

// countingSource wraps a MemStore and counts leaf queries so tests can
// assert batching and memoization behavior.
type countingSource struct {
	*kb.MemStore
	classCalls    int
	relationCalls int
	dataCalls     int
	universeCalls int
}

func (s *countingSource) Individuals() owl.IndividualSet {
	s.universeCalls++
	return s.MemStore.Individuals()
}

func (s *countingSource) InstancesOf(class owl.NamedClass, direct bool) owl.IndividualSet {
	s.classCalls++
	return s.MemStore.InstancesOf(class, direct)
}

func (s *countingSource) ObjectPropertyRelations(property owl.ObjectProperty, direct bool) map[owl.Individual]owl.IndividualSet {
	s.relationCalls++
	return s.MemStore.ObjectPropertyRelations(property, direct)
}

func (s *countingSource) DataPropertyRelations(property owl.DataProperty) map[owl.Individual][]owl.Literal {
	s.dataCalls++
	return s.MemStore.DataPropertyRelations(property)
}

// newTestSource builds the reference fixture: universe {a, b, c},
// r = {(a, b), (b, c)}, A = {b, c}.
func newTestSource(t *testing.T) *countingSource {
	t.Helper()
	store := kb.NewMemStore()
	store.AddIndividual(ind("a"))
	store.AddClassAssertion(cls("A"), ind("b"))
	store.AddClassAssertion(cls("A"), ind("c"))
	store.AddObjectAssertion(ind("a"), prop("r"), ind("b"))
	store.AddObjectAssertion(ind("b"), prop("r"), ind("c"))
	return &countingSource{MemStore: store}
}

func retrieve(t *testing.T, r *Retriever, expr owl.ClassExpression) owl.IndividualSet {
	t.Helper()
	out, err := r.Instances(context.Background(), expr)
	require.NoError(t, err)
	return out
}

func assertMembers(t *testing.T, got owl.IndividualSet, names ...string) {
	t.Helper()
	want := make([]string, len(names))
	for i, n := range names {
		want[i] = ns + n
	}
	assert.ElementsMatch(t, want, got.SortedIRIs())
}

func TestInstances_NamedClass(t *testing.T) {
	r := New(newTestSource(t))

	assertMembers(t, retrieve(t, r, cls("A")), "b", "c")
	assertMembers(t, retrieve(t, r, owl.Thing), "a", "b", "c")
	assertMembers(t, retrieve(t, r, owl.Nothing))
	assertMembers(t, retrieve(t, r, cls("Unknown")))
}

func TestInstances_Complement(t *testing.T) {
	r := New(newTestSource(t))

	assertMembers(t, retrieve(t, r, owl.Complement{Operand: cls("A")}), "a")

	// Double negation restores the original extension.
	double := owl.Complement{Operand: owl.Complement{Operand: cls("A")}}
	assertMembers(t, retrieve(t, r, double), "b", "c")

	assertMembers(t, retrieve(t, r, owl.Complement{Operand: owl.Thing}))
	assertMembers(t, retrieve(t, r, owl.Complement{Operand: owl.Nothing}), "a", "b", "c")
}

func TestInstances_ExistentialRestriction(t *testing.T) {
	r := New(newTestSource(t))

	assertMembers(t, retrieve(t, r, owl.SomeValuesFrom{Property: prop("r"), Filler: cls("A")}), "a", "b")

	// No individual has an r-successor outside A.
	assertMembers(t, retrieve(t, r, owl.SomeValuesFrom{
		Property: prop("r"),
		Filler:   owl.Complement{Operand: cls("A")},
	}))

	// Empty filler short-circuits to the empty set.
	assertMembers(t, retrieve(t, r, owl.SomeValuesFrom{Property: prop("r"), Filler: owl.Nothing}))
}

func TestInstances_UniversalRestriction(t *testing.T) {
	r := New(newTestSource(t))

	// Every r-successor is in A, and c satisfies the restriction vacuously.
	assertMembers(t, retrieve(t, r, owl.AllValuesFrom{Property: prop("r"), Filler: cls("A")}), "a", "b", "c")

	// ∀r.⊥ holds exactly for individuals with no r-successor.
	assertMembers(t, retrieve(t, r, owl.AllValuesFrom{Property: prop("r"), Filler: owl.Nothing}), "c")
}

func TestInstances_BooleanOperators(t *testing.T) {
	r := New(newTestSource(t))
	someRA := owl.SomeValuesFrom{Property: prop("r"), Filler: cls("A")}

	assertMembers(t, retrieve(t, r, owl.NewIntersection(cls("A"), someRA)), "b")
	assertMembers(t, retrieve(t, r, owl.NewUnion(cls("A"), someRA)), "a", "b", "c")

	// De Morgan: ¬(A ⊓ B) = ¬A ⊔ ¬B.
	left := retrieve(t, r, owl.Complement{Operand: owl.NewIntersection(cls("A"), someRA)})
	right := retrieve(t, r, owl.NewUnion(
		owl.Complement{Operand: cls("A")},
		owl.Complement{Operand: someRA},
	))
	assert.True(t, left.Equal(right))
}

func TestInstances_HasValue(t *testing.T) {
	r := New(newTestSource(t))

	assertMembers(t, retrieve(t, r, owl.HasValue{Property: prop("r"), Value: ind("b")}), "a")
	assertMembers(t, retrieve(t, r, owl.HasValue{Property: prop("r"), Value: ind("a")}))
}

func TestInstances_OneOf(t *testing.T) {
	source := newTestSource(t)
	r := New(source)

	before := source.classCalls + source.relationCalls + source.dataCalls + source.universeCalls
	out := retrieve(t, r, owl.OneOf{Individuals: []owl.Individual{ind("a"), ind("zed")}})
	after := source.classCalls + source.relationCalls + source.dataCalls + source.universeCalls

	// Nominals enumerate their members verbatim without consulting the
	// source, even for individuals outside the universe.
	assertMembers(t, out, "a", "zed")
	assert.Equal(t, before, after, "OneOf must not touch the source")
}

func TestInstances_Cardinalities(t *testing.T) {
	r := New(newTestSource(t))

	assertMembers(t, retrieve(t, r, owl.NewMinCardinality(0, prop("r"), owl.Thing)), "a", "b", "c")
	assertMembers(t, retrieve(t, r, owl.NewMinCardinality(1, prop("r"), owl.Thing)), "a", "b")
	assertMembers(t, retrieve(t, r, owl.NewMinCardinality(2, prop("r"), owl.Thing)))

	assertMembers(t, retrieve(t, r, owl.NewMaxCardinality(0, prop("r"), owl.Thing)), "c")
	assertMembers(t, retrieve(t, r, owl.NewMaxCardinality(1, prop("r"), owl.Thing)), "a", "b", "c")

	assertMembers(t, retrieve(t, r, owl.NewExactCardinality(1, prop("r"), owl.Thing)), "a", "b")
	assertMembers(t, retrieve(t, r, owl.NewExactCardinality(0, prop("r"), owl.Thing)), "c")
}

func TestInstances_InverseProperty(t *testing.T) {
	r := New(newTestSource(t))
	inverse := prop("r").Inverse()

	assertMembers(t, retrieve(t, r, owl.SomeValuesFrom{Property: inverse, Filler: owl.Thing}), "b", "c")
	assertMembers(t, retrieve(t, r, owl.HasValue{Property: inverse, Value: ind("a")}), "b")
}

func TestInstances_SubClassClosure(t *testing.T) {
	source := newTestSource(t)
	source.AddSubClassOf(cls("B"), cls("A"))
	source.AddClassAssertion(cls("B"), ind("a"))

	r := New(source)
	assertMembers(t, retrieve(t, r, cls("A")), "a", "b", "c")

	direct := New(source, WithDirectInstances())
	assertMembers(t, retrieve(t, direct, cls("A")), "b", "c")
}

func TestInstances_DirectFlagIgnoredForProperties(t *testing.T) {
	// Subproperty edges are always merged into property retrieval, even
	// when direct class membership was requested.
	source := newTestSource(t)
	source.AddSubPropertyOf(prop("s"), prop("r"))
	source.AddObjectAssertion(ind("c"), prop("s"), ind("a"))

	r := New(source, WithDirectInstances())
	assertMembers(t, retrieve(t, r, owl.SomeValuesFrom{Property: prop("r"), Filler: owl.Thing}), "a", "b", "c")
}

func TestInstances_Memoization(t *testing.T) {
	source := newTestSource(t)
	r := New(source)
	someRA := owl.SomeValuesFrom{Property: prop("r"), Filler: cls("A")}

	retrieve(t, r, someRA)
	retrieve(t, r, someRA)
	retrieve(t, r, owl.NewMinCardinality(1, prop("r"), cls("A")))

	assert.Equal(t, 1, source.relationCalls, "relation map must be fetched once per version")
	assert.Equal(t, 1, source.classCalls, "class extension must be fetched once per version")
}

func TestInstances_InverseCachedSeparately(t *testing.T) {
	source := newTestSource(t)
	r := New(source)

	retrieve(t, r, owl.SomeValuesFrom{Property: prop("r"), Filler: owl.Thing})
	retrieve(t, r, owl.SomeValuesFrom{Property: prop("r").Inverse(), Filler: owl.Thing})
	retrieve(t, r, owl.SomeValuesFrom{Property: prop("r"), Filler: owl.Thing})

	assert.Equal(t, 2, source.relationCalls, "forward and inverse direction are distinct cache entries")
}

func TestInstances_CacheInvalidationOnVersionChange(t *testing.T) {
	source := newTestSource(t)
	r := New(source)

	assertMembers(t, retrieve(t, r, cls("A")), "b", "c")

	source.AddClassAssertion(cls("A"), ind("a"))
	assertMembers(t, retrieve(t, r, cls("A")), "a", "b", "c")
	assert.Equal(t, 2, source.classCalls)
}

func TestInstances_WithoutCache(t *testing.T) {
	source := newTestSource(t)
	r := New(source, WithoutCache())
	someRA := owl.SomeValuesFrom{Property: prop("r"), Filler: cls("A")}

	retrieve(t, r, someRA)
	retrieve(t, r, someRA)

	assert.Equal(t, 2, source.relationCalls, "disabled cache queries the source every time")
}

func TestInstances_ContextCanceled(t *testing.T) {
	r := New(newTestSource(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Instances(ctx, cls("A"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInstances_DataRestrictions(t *testing.T) {
	source := newTestSource(t)
	age := owl.NewDataProperty(ns + "age")
	source.AddDataAssertion(ind("a"), age, owl.IntLiteral(30))
	source.AddDataAssertion(ind("b"), age, owl.IntLiteral(12))
	source.AddDataAssertion(ind("b"), age, owl.IntLiteral(45))
	r := New(source)

	adults := owl.DatatypeRestriction{
		Datatype: owl.Datatype{IRI: owl.XSDInteger},
		Facets: []owl.FacetRestriction{
			{Facet: owl.FacetMinInclusive, Value: owl.IntLiteral(18)},
		},
	}

	assertMembers(t, retrieve(t, r, owl.DataSomeValuesFrom{Property: age, Range: adults}), "a", "b")

	// b carries the counterexample 12; c has no values and passes vacuously.
	assertMembers(t, retrieve(t, r, owl.DataAllValuesFrom{Property: age, Range: adults}), "a", "c")

	assertMembers(t, retrieve(t, r, owl.DataHasValue{Property: age, Value: owl.IntLiteral(30)}), "a")

	anyLiteral := owl.Datatype{IRI: owl.RDFSLiteralIRI}
	assertMembers(t, retrieve(t, r, owl.DataMinCardinality{N: 0, Property: age, Range: anyLiteral}), "a", "b", "c")
	assertMembers(t, retrieve(t, r, owl.DataMinCardinality{N: 2, Property: age, Range: anyLiteral}), "b")
	assertMembers(t, retrieve(t, r, owl.DataMaxCardinality{N: 1, Property: age, Range: anyLiteral}), "a", "c")
	assertMembers(t, retrieve(t, r, owl.DataExactCardinality{N: 2, Property: age, Range: anyLiteral}), "b")

	// Zero exact cardinality includes subjects with no values at all.
	assertMembers(t, retrieve(t, r, owl.DataExactCardinality{N: 0, Property: age, Range: anyLiteral}), "c")
}
