// Package storage provides SQLite persistence for knowledge-base facts.
// Facts are written row-per-assertion and loaded wholesale into an
// in-memory store for querying; SQLite is the durability layer, not the
// query engine.
package storage

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/dice-group/owlgo/errors"
	"github.com/dice-group/owlgo/kb"
	"github.com/dice-group/owlgo/owl"
)

// Query constants
const (
	individualInsertQuery = `
		INSERT OR IGNORE INTO individuals (iri) VALUES (?)`

	classAssertionInsertQuery = `
		INSERT OR IGNORE INTO class_assertions (class_iri, individual_iri) VALUES (?, ?)`

	subClassInsertQuery = `
		INSERT OR IGNORE INTO subclass_of (child_iri, parent_iri) VALUES (?, ?)`

	objectAssertionInsertQuery = `
		INSERT OR IGNORE INTO object_assertions (subject_iri, property_iri, object_iri) VALUES (?, ?, ?)`

	subPropertyInsertQuery = `
		INSERT OR IGNORE INTO subproperty_of (child_iri, parent_iri) VALUES (?, ?)`

	dataAssertionInsertQuery = `
		INSERT OR IGNORE INTO data_assertions (subject_iri, property_iri, lexical, datatype) VALUES (?, ?, ?, ?)`
)

// TripleStore persists ground facts in SQLite.
type TripleStore struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// NewTripleStore creates a store over an opened, migrated database.
func NewTripleStore(db *sql.DB, logger *zap.SugaredLogger) *TripleStore {
	return &TripleStore{db: db, logger: logger}
}

// SaveIndividual records an individual in the signature.
func (s *TripleStore) SaveIndividual(ctx context.Context, i owl.Individual) error {
	if !owl.ValidIRI(i.IRI) {
		return errors.Wrapf(errors.ErrInvalidInput, "individual IRI %q", i.IRI)
	}
	if _, err := s.db.ExecContext(ctx, individualInsertQuery, i.IRI); err != nil {
		return errors.Wrapf(err, "save individual %s", i.IRI)
	}
	return nil
}

// SaveClassAssertion records that the individual is a direct member of the
// class. The individual is added to the signature as a side effect.
func (s *TripleStore) SaveClassAssertion(ctx context.Context, class owl.NamedClass, i owl.Individual) error {
	if err := s.SaveIndividual(ctx, i); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, classAssertionInsertQuery, class.IRI, i.IRI); err != nil {
		return errors.Wrapf(err, "save class assertion %s(%s)", class.IRI, i.IRI)
	}
	return nil
}

// SaveSubClassOf records a direct subclass axiom.
func (s *TripleStore) SaveSubClassOf(ctx context.Context, child, parent owl.NamedClass) error {
	if _, err := s.db.ExecContext(ctx, subClassInsertQuery, child.IRI, parent.IRI); err != nil {
		return errors.Wrapf(err, "save subclass axiom %s < %s", child.IRI, parent.IRI)
	}
	return nil
}

// SaveObjectAssertion records (subject, property, object). The property
// must be a forward property; inverse traversal is derived at query time.
func (s *TripleStore) SaveObjectAssertion(ctx context.Context, subject owl.Individual, property owl.ObjectProperty, object owl.Individual) error {
	if property.IsInverse() {
		return errors.Wrap(errors.ErrInvalidInput, "object assertions are stored in the forward direction")
	}
	if err := s.SaveIndividual(ctx, subject); err != nil {
		return err
	}
	if err := s.SaveIndividual(ctx, object); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, objectAssertionInsertQuery, subject.IRI, property.IRI, object.IRI); err != nil {
		return errors.Wrapf(err, "save object assertion %s %s %s", subject.IRI, property.IRI, object.IRI)
	}
	return nil
}

// SaveSubPropertyOf records a direct subproperty axiom.
func (s *TripleStore) SaveSubPropertyOf(ctx context.Context, child, parent owl.ObjectProperty) error {
	if _, err := s.db.ExecContext(ctx, subPropertyInsertQuery, child.IRI, parent.IRI); err != nil {
		return errors.Wrapf(err, "save subproperty axiom %s < %s", child.IRI, parent.IRI)
	}
	return nil
}

// SaveDataAssertion records (subject, property, literal).
func (s *TripleStore) SaveDataAssertion(ctx context.Context, subject owl.Individual, property owl.DataProperty, value owl.Literal) error {
	if err := s.SaveIndividual(ctx, subject); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, dataAssertionInsertQuery, subject.IRI, property.IRI, value.Lexical, value.Datatype); err != nil {
		return errors.Wrapf(err, "save data assertion %s %s %q", subject.IRI, property.IRI, value.Lexical)
	}
	return nil
}

// Load reads every persisted fact into a fresh in-memory store. The
// returned store carries its own version token, so a reload after external
// writes invalidates reasoner caches automatically.
func (s *TripleStore) Load(ctx context.Context) (*kb.MemStore, error) {
	store := kb.NewMemStore()

	if err := s.loadIndividuals(ctx, store); err != nil {
		return nil, err
	}
	if err := s.loadClassAssertions(ctx, store); err != nil {
		return nil, err
	}
	if err := s.loadSubClasses(ctx, store); err != nil {
		return nil, err
	}
	if err := s.loadObjectAssertions(ctx, store); err != nil {
		return nil, err
	}
	if err := s.loadSubProperties(ctx, store); err != nil {
		return nil, err
	}
	if err := s.loadDataAssertions(ctx, store); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Infow("Knowledge base loaded",
			"individuals", store.Individuals().Len(),
		)
	}
	return store, nil
}

func (s *TripleStore) loadIndividuals(ctx context.Context, store *kb.MemStore) error {
	rows, err := s.db.QueryContext(ctx, "SELECT iri FROM individuals")
	if err != nil {
		return errors.Wrap(err, "query individuals")
	}
	defer rows.Close()

	for rows.Next() {
		var iri string
		if err := rows.Scan(&iri); err != nil {
			return errors.Wrap(err, "scan individual")
		}
		store.AddIndividual(owl.NewIndividual(iri))
	}
	return errors.Wrap(rows.Err(), "iterate individuals")
}

func (s *TripleStore) loadClassAssertions(ctx context.Context, store *kb.MemStore) error {
	rows, err := s.db.QueryContext(ctx, "SELECT class_iri, individual_iri FROM class_assertions")
	if err != nil {
		return errors.Wrap(err, "query class assertions")
	}
	defer rows.Close()

	for rows.Next() {
		var class, individual string
		if err := rows.Scan(&class, &individual); err != nil {
			return errors.Wrap(err, "scan class assertion")
		}
		store.AddClassAssertion(owl.NewNamedClass(class), owl.NewIndividual(individual))
	}
	return errors.Wrap(rows.Err(), "iterate class assertions")
}

func (s *TripleStore) loadSubClasses(ctx context.Context, store *kb.MemStore) error {
	rows, err := s.db.QueryContext(ctx, "SELECT child_iri, parent_iri FROM subclass_of")
	if err != nil {
		return errors.Wrap(err, "query subclass axioms")
	}
	defer rows.Close()

	for rows.Next() {
		var child, parent string
		if err := rows.Scan(&child, &parent); err != nil {
			return errors.Wrap(err, "scan subclass axiom")
		}
		store.AddSubClassOf(owl.NewNamedClass(child), owl.NewNamedClass(parent))
	}
	return errors.Wrap(rows.Err(), "iterate subclass axioms")
}

func (s *TripleStore) loadObjectAssertions(ctx context.Context, store *kb.MemStore) error {
	rows, err := s.db.QueryContext(ctx, "SELECT subject_iri, property_iri, object_iri FROM object_assertions")
	if err != nil {
		return errors.Wrap(err, "query object assertions")
	}
	defer rows.Close()

	for rows.Next() {
		var subject, property, object string
		if err := rows.Scan(&subject, &property, &object); err != nil {
			return errors.Wrap(err, "scan object assertion")
		}
		store.AddObjectAssertion(owl.NewIndividual(subject), owl.NewObjectProperty(property), owl.NewIndividual(object))
	}
	return errors.Wrap(rows.Err(), "iterate object assertions")
}

func (s *TripleStore) loadSubProperties(ctx context.Context, store *kb.MemStore) error {
	rows, err := s.db.QueryContext(ctx, "SELECT child_iri, parent_iri FROM subproperty_of")
	if err != nil {
		return errors.Wrap(err, "query subproperty axioms")
	}
	defer rows.Close()

	for rows.Next() {
		var child, parent string
		if err := rows.Scan(&child, &parent); err != nil {
			return errors.Wrap(err, "scan subproperty axiom")
		}
		store.AddSubPropertyOf(owl.NewObjectProperty(child), owl.NewObjectProperty(parent))
	}
	return errors.Wrap(rows.Err(), "iterate subproperty axioms")
}

func (s *TripleStore) loadDataAssertions(ctx context.Context, store *kb.MemStore) error {
	rows, err := s.db.QueryContext(ctx, "SELECT subject_iri, property_iri, lexical, datatype FROM data_assertions")
	if err != nil {
		return errors.Wrap(err, "query data assertions")
	}
	defer rows.Close()

	for rows.Next() {
		var subject, property, lexical, datatype string
		if err := rows.Scan(&subject, &property, &lexical, &datatype); err != nil {
			return errors.Wrap(err, "scan data assertion")
		}
		store.AddDataAssertion(owl.NewIndividual(subject), owl.DataProperty{IRI: property}, owl.Literal{Lexical: lexical, Datatype: datatype})
	}
	return errors.Wrap(rows.Err(), "iterate data assertions")
}
