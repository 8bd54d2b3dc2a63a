package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dice-group/owlgo/errors"
	"github.com/dice-group/owlgo/owl"
)

const ns = "http://example.org/"

func parse(t *testing.T, doc string) owl.ClassExpression {
	t.Helper()
	expr, err := ParseClassExpression([]byte(doc))
	require.NoError(t, err)
	return expr
}

func TestParseClassExpression_NamedClass(t *testing.T) {
	expr := parse(t, "class: "+ns+"Person")
	assert.Equal(t, owl.NewNamedClass(ns+"Person"), expr)
}

func TestParseClassExpression_NestedBooleans(t *testing.T) {
	expr := parse(t, `
and:
  - class: `+ns+`Person
  - complement:
      class: `+ns+`Robot
  - or:
      - class: `+ns+`Adult
      - oneOf:
          - `+ns+`alice
`)
	intersection, ok := expr.(owl.Intersection)
	require.True(t, ok)
	require.Len(t, intersection.Operands, 3)
	assert.Equal(t, owl.NewNamedClass(ns+"Person"), intersection.Operands[0])
	assert.Equal(t, owl.Complement{Operand: owl.NewNamedClass(ns + "Robot")}, intersection.Operands[1])

	union, ok := intersection.Operands[2].(owl.Union)
	require.True(t, ok)
	assert.Equal(t, owl.OneOf{Individuals: []owl.Individual{owl.NewIndividual(ns + "alice")}}, union.Operands[1])
}

func TestParseClassExpression_Restrictions(t *testing.T) {
	expr := parse(t, `
some:
  property: `+ns+`knows
  inverse: true
  filler:
    class: `+ns+`Engineer
`)
	some, ok := expr.(owl.SomeValuesFrom)
	require.True(t, ok)
	assert.True(t, some.Property.IsInverse())
	assert.Equal(t, ns+"knows", some.Property.IRI)
	assert.Equal(t, owl.NewNamedClass(ns+"Engineer"), some.Filler)

	expr = parse(t, `
only:
  property: `+ns+`knows
  filler:
    class: `+ns+`Person
`)
	assert.IsType(t, owl.AllValuesFrom{}, expr)

	expr = parse(t, `
hasValue:
  property: `+ns+`knows
  value: `+ns+`bob
`)
	assert.Equal(t, owl.HasValue{
		Property: owl.NewObjectProperty(ns + "knows"),
		Value:    owl.NewIndividual(ns + "bob"),
	}, expr)
}

func TestParseClassExpression_CardinalityDefaultsFillerToThing(t *testing.T) {
	expr := parse(t, `
min:
  property: `+ns+`knows
  n: 2
`)
	assert.Equal(t, owl.NewMinCardinality(2, owl.NewObjectProperty(ns+"knows"), owl.Thing), expr)

	expr = parse(t, `
max:
  property: `+ns+`knows
  n: 1
  filler:
    class: `+ns+`Person
`)
	assert.Equal(t, owl.NewMaxCardinality(1, owl.NewObjectProperty(ns+"knows"), owl.NewNamedClass(ns+"Person")), expr)
}

func TestParseClassExpression_DataRestrictions(t *testing.T) {
	expr := parse(t, `
dataSome:
  property: `+ns+`age
  range:
    restriction:
      datatype: `+owl.XSDInteger+`
      facets:
        - facet: minInclusive
          value: {value: "18", datatype: `+owl.XSDInteger+`}
`)
	dataSome, ok := expr.(owl.DataSomeValuesFrom)
	require.True(t, ok)
	restriction, ok := dataSome.Range.(owl.DatatypeRestriction)
	require.True(t, ok)
	require.Len(t, restriction.Facets, 1)
	assert.Equal(t, owl.FacetMinInclusive, restriction.Facets[0].Facet)
	assert.Equal(t, owl.IntLiteral(18), restriction.Facets[0].Value)

	// Unqualified literal values default to xsd:string; data cardinality
	// without a range defaults to rdfs:Literal.
	expr = parse(t, `
dataHasValue:
  property: `+ns+`name
  value: {value: Alice}
`)
	assert.Equal(t, owl.DataHasValue{
		Property: owl.NewDataProperty(ns + "name"),
		Value:    owl.StringLiteral("Alice"),
	}, expr)

	expr = parse(t, `
dataMin:
  property: `+ns+`age
  n: 1
`)
	assert.Equal(t, owl.DataMinCardinality{
		N:        1,
		Property: owl.NewDataProperty(ns + "age"),
		Range:    owl.Datatype{IRI: owl.RDFSLiteralIRI},
	}, expr)
}

func TestParseClassExpression_InvalidDocuments(t *testing.T) {
	cases := map[string]string{
		"no operator":        "{}",
		"two operators":      "{class: " + ns + "A, oneOf: [" + ns + "a]}",
		"missing property":   "some: {filler: {class: " + ns + "A}}",
		"missing filler":     "some: {property: " + ns + "r}",
		"negative n":         "min: {property: " + ns + "r, n: -1}",
		"malformed iri":      "oneOf: ['not a valid iri']",
		"empty range node":   "dataSome: {property: " + ns + "age, range: {}}",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseClassExpression([]byte(doc))
			assert.ErrorIs(t, err, errors.ErrInvalidInput)
		})
	}
}

func TestParseClassExpression_NotYAML(t *testing.T) {
	_, err := ParseClassExpression([]byte(":::"))
	assert.Error(t, err)
}
