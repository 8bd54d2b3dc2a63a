package kb

import (
	"testing"

	"github.com/stretchr/testify/assert"

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

func TestMemStore_VersionChangesOnEveryMutation(t *testing.T) {
	store := NewMemStore()
	seen := map[string]bool{store.Version(): true}

	mutations := []func(){
		func() { store.AddIndividual(ind("a")) },
		func() { store.AddClassAssertion(cls("A"), ind("a")) },
		func() { store.AddSubClassOf(cls("B"), cls("A")) },
		func() { store.AddObjectAssertion(ind("a"), prop("r"), ind("b")) },
		func() { store.AddSubPropertyOf(prop("s"), prop("r")) },
		func() { store.AddDataAssertion(ind("a"), owl.NewDataProperty(ns+"p"), owl.IntLiteral(1)) },
	}
	for _, mutate := range mutations {
		mutate()
		v := store.Version()
		assert.False(t, seen[v], "each mutation must mint a fresh version token")
		seen[v] = true
	}
}

func TestMemStore_AssertionsRegisterIndividuals(t *testing.T) {
	store := NewMemStore()
	store.AddClassAssertion(cls("A"), ind("a"))
	store.AddObjectAssertion(ind("b"), prop("r"), ind("c"))
	store.AddDataAssertion(ind("d"), owl.NewDataProperty(ns+"p"), owl.StringLiteral("x"))

	universe := store.Individuals()
	assert.Equal(t, 4, universe.Len())
	for _, name := range []string{"a", "b", "c", "d"} {
		assert.True(t, universe.Contains(ind(name)), name)
	}
}

func TestMemStore_InstancesOfSubClassClosure(t *testing.T) {
	store := NewMemStore()
	store.AddClassAssertion(cls("A"), ind("a"))
	store.AddClassAssertion(cls("B"), ind("b"))
	store.AddClassAssertion(cls("C"), ind("c"))
	store.AddSubClassOf(cls("B"), cls("A"))
	store.AddSubClassOf(cls("C"), cls("B"))

	all := store.InstancesOf(cls("A"), false)
	assert.ElementsMatch(t, []string{ns + "a", ns + "b", ns + "c"}, all.SortedIRIs())

	direct := store.InstancesOf(cls("A"), true)
	assert.ElementsMatch(t, []string{ns + "a"}, direct.SortedIRIs())
}

func TestMemStore_InstancesOfCyclicHierarchy(t *testing.T) {
	store := NewMemStore()
	store.AddClassAssertion(cls("A"), ind("a"))
	store.AddClassAssertion(cls("B"), ind("b"))
	store.AddSubClassOf(cls("B"), cls("A"))
	store.AddSubClassOf(cls("A"), cls("B"))

	// A cycle in loaded data must not hang the closure.
	all := store.InstancesOf(cls("A"), false)
	assert.ElementsMatch(t, []string{ns + "a", ns + "b"}, all.SortedIRIs())
}

func TestMemStore_ObjectPropertyValues(t *testing.T) {
	store := NewMemStore()
	store.AddObjectAssertion(ind("a"), prop("r"), ind("b"))
	store.AddObjectAssertion(ind("a"), prop("r"), ind("c"))

	values := store.ObjectPropertyValues(ind("a"), prop("r"), false)
	assert.ElementsMatch(t, []string{ns + "b", ns + "c"}, values.SortedIRIs())

	// Inverse direction flips subject and object.
	inverse := store.ObjectPropertyValues(ind("b"), prop("r").Inverse(), false)
	assert.ElementsMatch(t, []string{ns + "a"}, inverse.SortedIRIs())

	assert.Equal(t, 0, store.ObjectPropertyValues(ind("b"), prop("r"), false).Len())
}

func TestMemStore_ObjectPropertyRelationsMergesSubProperties(t *testing.T) {
	store := NewMemStore()
	store.AddObjectAssertion(ind("a"), prop("r"), ind("b"))
	store.AddObjectAssertion(ind("c"), prop("s"), ind("d"))
	store.AddSubPropertyOf(prop("s"), prop("r"))

	relations := store.ObjectPropertyRelations(prop("r"), false)
	assert.Len(t, relations, 2)
	assert.True(t, relations[ind("a")].Contains(ind("b")))
	assert.True(t, relations[ind("c")].Contains(ind("d")))

	direct := store.ObjectPropertyRelations(prop("r"), true)
	assert.Len(t, direct, 1)

	inverted := store.ObjectPropertyRelations(prop("r").Inverse(), false)
	assert.True(t, inverted[ind("b")].Contains(ind("a")))
	assert.True(t, inverted[ind("d")].Contains(ind("c")))
}

func TestMemStore_DataPropertyRelations(t *testing.T) {
	store := NewMemStore()
	age := owl.NewDataProperty(ns + "age")
	store.AddDataAssertion(ind("a"), age, owl.IntLiteral(30))
	store.AddDataAssertion(ind("a"), age, owl.IntLiteral(31))

	values := store.DataPropertyValues(ind("a"), age)
	assert.Len(t, values, 2)

	relations := store.DataPropertyRelations(age)
	assert.Len(t, relations, 1)
	assert.Len(t, relations[ind("a")], 2)

	// Returned slices are copies; mutating them must not leak into the store.
	values[0] = owl.IntLiteral(99)
	assert.Equal(t, owl.IntLiteral(30), store.DataPropertyValues(ind("a"), age)[0])
}
