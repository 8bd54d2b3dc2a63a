package owl

import (
	"sort"
	"strings"
)

// Individual is a named individual identified by its IRI.
// Individuals are value objects: two individuals with the same IRI are the
// same individual regardless of where the values were constructed.
type Individual struct {
	IRI string
}

// NewIndividual creates a named individual from an IRI string.
func NewIndividual(iri string) Individual {
	return Individual{IRI: iri}
}

// String returns the IRI of the individual.
func (i Individual) String() string {
	return i.IRI
}

// ValidIRI reports whether s is acceptable as an entity identifier.
// Embedding oracles can emit free-form strings for entity slots, so
// consumers use this to filter out garbage before building individuals.
func ValidIRI(s string) bool {
	if s == "" {
		return false
	}
	if strings.ContainsAny(s, " \t\n\r<>\"{}|\\^`") {
		return false
	}
	return true
}

// IndividualSet is a set of named individuals with value semantics.
type IndividualSet map[Individual]struct{}

// NewIndividualSet builds a set from the given members.
func NewIndividualSet(members ...Individual) IndividualSet {
	s := make(IndividualSet, len(members))
	for _, m := range members {
		s[m] = struct{}{}
	}
	return s
}

// Add inserts an individual into the set.
func (s IndividualSet) Add(i Individual) {
	s[i] = struct{}{}
}

// Contains reports whether the individual is a member of the set.
func (s IndividualSet) Contains(i Individual) bool {
	_, ok := s[i]
	return ok
}

// Len returns the number of members.
func (s IndividualSet) Len() int {
	return len(s)
}

// Clone returns an independent copy of the set.
func (s IndividualSet) Clone() IndividualSet {
	out := make(IndividualSet, len(s))
	for i := range s {
		out[i] = struct{}{}
	}
	return out
}

// Union returns a new set containing members of either set.
func (s IndividualSet) Union(other IndividualSet) IndividualSet {
	out := s.Clone()
	for i := range other {
		out[i] = struct{}{}
	}
	return out
}

// Intersect returns a new set containing members of both sets.
func (s IndividualSet) Intersect(other IndividualSet) IndividualSet {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	out := make(IndividualSet)
	for i := range small {
		if _, ok := large[i]; ok {
			out[i] = struct{}{}
		}
	}
	return out
}

// Difference returns a new set containing members of s not in other.
func (s IndividualSet) Difference(other IndividualSet) IndividualSet {
	out := make(IndividualSet)
	for i := range s {
		if _, ok := other[i]; !ok {
			out[i] = struct{}{}
		}
	}
	return out
}

// Equal reports whether both sets have exactly the same members.
func (s IndividualSet) Equal(other IndividualSet) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if _, ok := other[i]; !ok {
			return false
		}
	}
	return true
}

// SortedIRIs returns the member IRIs in lexical order, for deterministic
// output and test assertions.
func (s IndividualSet) SortedIRIs() []string {
	out := make([]string, 0, len(s))
	for i := range s {
		out = append(out, i.IRI)
	}
	sort.Strings(out)
	return out
}
