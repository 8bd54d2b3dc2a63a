package storage

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dice-group/owlgo/errors"
	"github.com/dice-group/owlgo/owl"
)

const ns = "http://example.org/"

func newMockStore(t *testing.T) (*TripleStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewTripleStore(db, zap.NewNop().Sugar()), mock
}

func TestTripleStore_SaveClassAssertion(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT OR IGNORE INTO individuals").
		WithArgs(ns + "a").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT OR IGNORE INTO class_assertions").
		WithArgs(ns+"A", ns+"a").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := store.SaveClassAssertion(context.Background(),
		owl.NewNamedClass(ns+"A"), owl.NewIndividual(ns+"a"))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTripleStore_SaveObjectAssertion(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT OR IGNORE INTO individuals").
		WithArgs(ns + "a").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT OR IGNORE INTO individuals").
		WithArgs(ns + "b").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT OR IGNORE INTO object_assertions").
		WithArgs(ns+"a", ns+"r", ns+"b").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := store.SaveObjectAssertion(context.Background(),
		owl.NewIndividual(ns+"a"), owl.NewObjectProperty(ns+"r"), owl.NewIndividual(ns+"b"))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTripleStore_SaveObjectAssertionRejectsInverse(t *testing.T) {
	store, _ := newMockStore(t)

	err := store.SaveObjectAssertion(context.Background(),
		owl.NewIndividual(ns+"a"),
		owl.NewObjectProperty(ns+"r").Inverse(),
		owl.NewIndividual(ns+"b"))
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestTripleStore_SaveIndividualRejectsMalformedIRI(t *testing.T) {
	store, _ := newMockStore(t)

	err := store.SaveIndividual(context.Background(), owl.Individual{IRI: "not a valid iri"})
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestTripleStore_Load(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT iri FROM individuals").
		WillReturnRows(sqlmock.NewRows([]string{"iri"}).
			AddRow(ns + "a").
			AddRow(ns + "b"))
	mock.ExpectQuery("SELECT class_iri, individual_iri FROM class_assertions").
		WillReturnRows(sqlmock.NewRows([]string{"class_iri", "individual_iri"}).
			AddRow(ns+"A", ns+"b"))
	mock.ExpectQuery("SELECT child_iri, parent_iri FROM subclass_of").
		WillReturnRows(sqlmock.NewRows([]string{"child_iri", "parent_iri"}).
			AddRow(ns+"B", ns+"A"))
	mock.ExpectQuery("SELECT subject_iri, property_iri, object_iri FROM object_assertions").
		WillReturnRows(sqlmock.NewRows([]string{"subject_iri", "property_iri", "object_iri"}).
			AddRow(ns+"a", ns+"r", ns+"b"))
	mock.ExpectQuery("SELECT child_iri, parent_iri FROM subproperty_of").
		WillReturnRows(sqlmock.NewRows([]string{"child_iri", "parent_iri"}))
	mock.ExpectQuery("SELECT subject_iri, property_iri, lexical, datatype FROM data_assertions").
		WillReturnRows(sqlmock.NewRows([]string{"subject_iri", "property_iri", "lexical", "datatype"}).
			AddRow(ns+"a", ns+"age", "30", owl.XSDInteger))

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, 2, loaded.Individuals().Len())
	assert.True(t, loaded.InstancesOf(owl.NewNamedClass(ns+"A"), false).Contains(owl.NewIndividual(ns+"b")))
	assert.True(t, loaded.ObjectPropertyValues(
		owl.NewIndividual(ns+"a"), owl.NewObjectProperty(ns+"r"), false).Contains(owl.NewIndividual(ns+"b")))
	assert.Equal(t,
		[]owl.Literal{{Lexical: "30", Datatype: owl.XSDInteger}},
		loaded.DataPropertyValues(owl.NewIndividual(ns+"a"), owl.NewDataProperty(ns+"age")))
	assert.NotEmpty(t, loaded.Version())
}

func TestTripleStore_LoadPropagatesQueryErrors(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT iri FROM individuals").
		WillReturnError(errors.New("disk I/O error"))

	_, err := store.Load(context.Background())
	assert.Error(t, err)
}
