// Package kb defines the knowledge-source boundary consumed by the
// reasoner, plus an in-memory fact store implementing it. A Source exposes
// ground facts only; all class-expression semantics live in the evaluator.
package kb

import (
	"github.com/dice-group/owlgo/owl"
)

// Source is the fact-store adapter queried at expression leaves.
//
// Implementations must answer from explicit ground relations under the
// closed-world assumption: absence of a fact means the fact does not hold.
// Version returns an opaque token that changes whenever the underlying
// facts change; callers compare tokens to decide cache validity.
type Source interface {
	// Version returns the current version token of the source.
	Version() string

	// Individuals returns every individual in the signature (the universe).
	Individuals() owl.IndividualSet

	// InstancesOf returns the individuals typed with the named class.
	// When direct is false the class's transitive subclasses are included.
	InstancesOf(class owl.NamedClass, direct bool) owl.IndividualSet

	// ObjectPropertyValues returns the individuals related to subject via
	// the property expression. Inverse properties flip the traversal
	// direction. When direct is false, asserted subproperties are merged.
	ObjectPropertyValues(subject owl.Individual, property owl.ObjectProperty, direct bool) owl.IndividualSet

	// ObjectPropertyRelations returns the complete subject-to-objects map
	// for the property expression in one scan. This is the batched form the
	// evaluator uses for existential and cardinality restrictions.
	ObjectPropertyRelations(property owl.ObjectProperty, direct bool) map[owl.Individual]owl.IndividualSet

	// DataPropertyValues returns the literal values asserted for the
	// subject under the data property.
	DataPropertyValues(subject owl.Individual, property owl.DataProperty) []owl.Literal

	// DataPropertyRelations returns the complete subject-to-literals map
	// for the data property in one scan.
	DataPropertyRelations(property owl.DataProperty) map[owl.Individual][]owl.Literal
}
