package kb

import (
	"sync"

	"github.com/google/uuid"

	"github.com/dice-group/owlgo/owl"
)

// MemStore is an in-memory fact store. Every mutation replaces the version
// token, which invalidates any reasoner caches built against the store.
type MemStore struct {
	mu sync.RWMutex

	version     string
	individuals owl.IndividualSet

	// classIRI -> directly asserted members
	classAssertions map[string]owl.IndividualSet
	// parent classIRI -> direct child classIRIs
	subClasses map[string][]string

	// propertyIRI -> subject -> objects (forward direction only; the
	// inverse direction is derived by scanning)
	objectAssertions map[string]map[owl.Individual]owl.IndividualSet
	// parent propertyIRI -> direct child propertyIRIs
	subProperties map[string][]string

	// data propertyIRI -> subject -> literals
	dataAssertions map[string]map[owl.Individual][]owl.Literal
}

// NewMemStore creates an empty fact store with a fresh version token.
func NewMemStore() *MemStore {
	return &MemStore{
		version:          uuid.NewString(),
		individuals:      owl.NewIndividualSet(),
		classAssertions:  make(map[string]owl.IndividualSet),
		subClasses:       make(map[string][]string),
		objectAssertions: make(map[string]map[owl.Individual]owl.IndividualSet),
		subProperties:    make(map[string][]string),
		dataAssertions:   make(map[string]map[owl.Individual][]owl.Literal),
	}
}

// Version returns the current version token.
func (s *MemStore) Version() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// touch replaces the version token. Callers must hold the write lock.
func (s *MemStore) touch() {
	s.version = uuid.NewString()
}

// AddIndividual registers an individual in the signature.
func (s *MemStore) AddIndividual(i owl.Individual) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.individuals.Add(i)
	s.touch()
}

// AddClassAssertion asserts that the individual is a direct member of the
// class, registering the individual as a side effect.
func (s *MemStore) AddClassAssertion(class owl.NamedClass, i owl.Individual) {
	s.mu.Lock()
	defer s.mu.Unlock()
	members, ok := s.classAssertions[class.IRI]
	if !ok {
		members = owl.NewIndividualSet()
		s.classAssertions[class.IRI] = members
	}
	members.Add(i)
	s.individuals.Add(i)
	s.touch()
}

// AddSubClassOf records that child is a direct subclass of parent.
func (s *MemStore) AddSubClassOf(child, parent owl.NamedClass) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subClasses[parent.IRI] = append(s.subClasses[parent.IRI], child.IRI)
	s.touch()
}

// AddObjectAssertion asserts (subject, property, object), registering both
// individuals as a side effect. The property must be a forward property.
func (s *MemStore) AddObjectAssertion(subject owl.Individual, property owl.ObjectProperty, object owl.Individual) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bySubject, ok := s.objectAssertions[property.IRI]
	if !ok {
		bySubject = make(map[owl.Individual]owl.IndividualSet)
		s.objectAssertions[property.IRI] = bySubject
	}
	objects, ok := bySubject[subject]
	if !ok {
		objects = owl.NewIndividualSet()
		bySubject[subject] = objects
	}
	objects.Add(object)
	s.individuals.Add(subject)
	s.individuals.Add(object)
	s.touch()
}

// AddSubPropertyOf records that child is a direct subproperty of parent.
func (s *MemStore) AddSubPropertyOf(child, parent owl.ObjectProperty) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subProperties[parent.IRI] = append(s.subProperties[parent.IRI], child.IRI)
	s.touch()
}

// AddDataAssertion asserts (subject, property, literal), registering the
// subject as a side effect.
func (s *MemStore) AddDataAssertion(subject owl.Individual, property owl.DataProperty, value owl.Literal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bySubject, ok := s.dataAssertions[property.IRI]
	if !ok {
		bySubject = make(map[owl.Individual][]owl.Literal)
		s.dataAssertions[property.IRI] = bySubject
	}
	bySubject[subject] = append(bySubject[subject], value)
	s.individuals.Add(subject)
	s.touch()
}

// Individuals returns a copy of the universe.
func (s *MemStore) Individuals() owl.IndividualSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.individuals.Clone()
}

// InstancesOf returns the members of the named class. With direct=false the
// members of all transitive subclasses are merged in.
func (s *MemStore) InstancesOf(class owl.NamedClass, direct bool) owl.IndividualSet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := owl.NewIndividualSet()
	for i := range s.classAssertions[class.IRI] {
		out.Add(i)
	}
	if direct {
		return out
	}

	// Transitive subclass closure with a visited set; asserted hierarchies
	// should be acyclic but loaded data is not trusted to be.
	visited := map[string]bool{class.IRI: true}
	stack := append([]string(nil), s.subClasses[class.IRI]...)
	for len(stack) > 0 {
		iri := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[iri] {
			continue
		}
		visited[iri] = true
		for i := range s.classAssertions[iri] {
			out.Add(i)
		}
		stack = append(stack, s.subClasses[iri]...)
	}
	return out
}

// ObjectPropertyValues returns individuals related to subject under the
// property expression.
func (s *MemStore) ObjectPropertyValues(subject owl.Individual, property owl.ObjectProperty, direct bool) owl.IndividualSet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := owl.NewIndividualSet()
	for _, iri := range s.propertyClosure(property.IRI, direct) {
		if property.IsInverse() {
			for subj, objects := range s.objectAssertions[iri] {
				if objects.Contains(subject) {
					out.Add(subj)
				}
			}
		} else {
			for o := range s.objectAssertions[iri][subject] {
				out.Add(o)
			}
		}
	}
	return out
}

// ObjectPropertyRelations returns the full subject-to-objects map for the
// property expression in a single scan.
func (s *MemStore) ObjectPropertyRelations(property owl.ObjectProperty, direct bool) map[owl.Individual]owl.IndividualSet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[owl.Individual]owl.IndividualSet)
	add := func(subj, obj owl.Individual) {
		objects, ok := out[subj]
		if !ok {
			objects = owl.NewIndividualSet()
			out[subj] = objects
		}
		objects.Add(obj)
	}
	for _, iri := range s.propertyClosure(property.IRI, direct) {
		for subj, objects := range s.objectAssertions[iri] {
			for obj := range objects {
				if property.IsInverse() {
					add(obj, subj)
				} else {
					add(subj, obj)
				}
			}
		}
	}
	return out
}

// propertyClosure returns the property IRI plus, when direct is false, all
// transitive subproperty IRIs. Callers must hold at least the read lock.
func (s *MemStore) propertyClosure(iri string, direct bool) []string {
	if direct {
		return []string{iri}
	}
	visited := map[string]bool{iri: true}
	closure := []string{iri}
	stack := append([]string(nil), s.subProperties[iri]...)
	for len(stack) > 0 {
		next := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[next] {
			continue
		}
		visited[next] = true
		closure = append(closure, next)
		stack = append(stack, s.subProperties[next]...)
	}
	return closure
}

// DataPropertyValues returns literals asserted for subject under the data
// property.
func (s *MemStore) DataPropertyValues(subject owl.Individual, property owl.DataProperty) []owl.Literal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	values := s.dataAssertions[property.IRI][subject]
	out := make([]owl.Literal, len(values))
	copy(out, values)
	return out
}

// DataPropertyRelations returns the full subject-to-literals map for the
// data property.
func (s *MemStore) DataPropertyRelations(property owl.DataProperty) map[owl.Individual][]owl.Literal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[owl.Individual][]owl.Literal, len(s.dataAssertions[property.IRI]))
	for subj, values := range s.dataAssertions[property.IRI] {
		copied := make([]owl.Literal, len(values))
		copy(copied, values)
		out[subj] = copied
	}
	return out
}
