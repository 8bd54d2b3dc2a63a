// Package parser decodes class expressions from YAML documents. The
// format is a recursive tree with exactly one operator key per node, so a
// query file reads like the expression it denotes:
//
//	and:
//	  - class: http://example.org/Person
//	  - some:
//	      property: http://example.org/knows
//	      filler:
//	        complement:
//	          class: http://example.org/Robot
package parser

import (
	"gopkg.in/yaml.v3"

	"github.com/dice-group/owlgo/errors"
	"github.com/dice-group/owlgo/owl"
)

// ParseClassExpression decodes a single class expression from YAML.
func ParseClassExpression(data []byte) (owl.ClassExpression, error) {
	var node exprNode
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, errors.Wrap(err, "unmarshal expression")
	}
	return node.toExpression()
}

// exprNode is the YAML shape of a class expression. Exactly one operator
// field must be set per node.
type exprNode struct {
	Class      string       `yaml:"class,omitempty"`
	Complement *exprNode    `yaml:"complement,omitempty"`
	And        []exprNode   `yaml:"and,omitempty"`
	Or         []exprNode   `yaml:"or,omitempty"`
	Some       *objRestrict `yaml:"some,omitempty"`
	Only       *objRestrict `yaml:"only,omitempty"`
	HasValue   *objValue    `yaml:"hasValue,omitempty"`
	OneOf      []string     `yaml:"oneOf,omitempty"`
	Min        *objCard     `yaml:"min,omitempty"`
	Max        *objCard     `yaml:"max,omitempty"`
	Exact      *objCard     `yaml:"exact,omitempty"`

	DataSome     *dataRestrict `yaml:"dataSome,omitempty"`
	DataOnly     *dataRestrict `yaml:"dataOnly,omitempty"`
	DataHasValue *dataValue    `yaml:"dataHasValue,omitempty"`
	DataMin      *dataCard     `yaml:"dataMin,omitempty"`
	DataMax      *dataCard     `yaml:"dataMax,omitempty"`
	DataExact    *dataCard     `yaml:"dataExact,omitempty"`
}

type propertyNode struct {
	Property string `yaml:"property"`
	Inverse  bool   `yaml:"inverse,omitempty"`
}

func (p propertyNode) toProperty() (owl.ObjectProperty, error) {
	if p.Property == "" {
		return owl.ObjectProperty{}, errors.Wrap(errors.ErrInvalidInput, "restriction is missing a property IRI")
	}
	prop := owl.NewObjectProperty(p.Property)
	if p.Inverse {
		prop = prop.Inverse()
	}
	return prop, nil
}

type objRestrict struct {
	propertyNode `yaml:",inline"`
	Filler       *exprNode `yaml:"filler"`
}

type objValue struct {
	propertyNode `yaml:",inline"`
	Value        string `yaml:"value"`
}

type objCard struct {
	propertyNode `yaml:",inline"`
	N            int       `yaml:"n"`
	Filler       *exprNode `yaml:"filler,omitempty"`
}

type dataRestrict struct {
	Property string     `yaml:"property"`
	Range    *rangeNode `yaml:"range"`
}

type dataValue struct {
	Property string      `yaml:"property"`
	Value    literalNode `yaml:"value"`
}

type dataCard struct {
	Property string     `yaml:"property"`
	N        int        `yaml:"n"`
	Range    *rangeNode `yaml:"range,omitempty"`
}

type literalNode struct {
	Value    string `yaml:"value"`
	Datatype string `yaml:"datatype,omitempty"`
}

func (l literalNode) toLiteral() owl.Literal {
	datatype := l.Datatype
	if datatype == "" {
		datatype = owl.XSDString
	}
	return owl.Literal{Lexical: l.Value, Datatype: datatype}
}

// rangeNode is the YAML shape of a data range, one operator key per node.
type rangeNode struct {
	Datatype    string           `yaml:"datatype,omitempty"`
	OneOf       []literalNode    `yaml:"oneOf,omitempty"`
	Complement  *rangeNode       `yaml:"complement,omitempty"`
	And         []rangeNode      `yaml:"and,omitempty"`
	Or          []rangeNode      `yaml:"or,omitempty"`
	Restriction *restrictionNode `yaml:"restriction,omitempty"`
}

type restrictionNode struct {
	Datatype string      `yaml:"datatype"`
	Facets   []facetNode `yaml:"facets"`
}

type facetNode struct {
	Facet string      `yaml:"facet"`
	Value literalNode `yaml:"value"`
}

func (n *exprNode) toExpression() (owl.ClassExpression, error) {
	set := 0
	var build func() (owl.ClassExpression, error)

	pick := func(f func() (owl.ClassExpression, error)) {
		set++
		build = f
	}

	if n.Class != "" {
		pick(func() (owl.ClassExpression, error) {
			return owl.NewNamedClass(n.Class), nil
		})
	}
	if n.Complement != nil {
		pick(func() (owl.ClassExpression, error) {
			inner, err := n.Complement.toExpression()
			if err != nil {
				return nil, err
			}
			return owl.Complement{Operand: inner}, nil
		})
	}
	if len(n.And) > 0 {
		pick(func() (owl.ClassExpression, error) {
			operands, err := toExpressions(n.And)
			if err != nil {
				return nil, err
			}
			return owl.NewIntersection(operands...), nil
		})
	}
	if len(n.Or) > 0 {
		pick(func() (owl.ClassExpression, error) {
			operands, err := toExpressions(n.Or)
			if err != nil {
				return nil, err
			}
			return owl.NewUnion(operands...), nil
		})
	}
	if n.Some != nil {
		pick(func() (owl.ClassExpression, error) {
			prop, filler, err := n.Some.parts()
			if err != nil {
				return nil, err
			}
			return owl.SomeValuesFrom{Property: prop, Filler: filler}, nil
		})
	}
	if n.Only != nil {
		pick(func() (owl.ClassExpression, error) {
			prop, filler, err := n.Only.parts()
			if err != nil {
				return nil, err
			}
			return owl.AllValuesFrom{Property: prop, Filler: filler}, nil
		})
	}
	if n.HasValue != nil {
		pick(func() (owl.ClassExpression, error) {
			prop, err := n.HasValue.toProperty()
			if err != nil {
				return nil, err
			}
			if !owl.ValidIRI(n.HasValue.Value) {
				return nil, errors.Wrapf(errors.ErrInvalidInput, "hasValue individual %q", n.HasValue.Value)
			}
			return owl.HasValue{Property: prop, Value: owl.NewIndividual(n.HasValue.Value)}, nil
		})
	}
	if len(n.OneOf) > 0 {
		pick(func() (owl.ClassExpression, error) {
			individuals := make([]owl.Individual, 0, len(n.OneOf))
			for _, iri := range n.OneOf {
				if !owl.ValidIRI(iri) {
					return nil, errors.Wrapf(errors.ErrInvalidInput, "oneOf individual %q", iri)
				}
				individuals = append(individuals, owl.NewIndividual(iri))
			}
			return owl.OneOf{Individuals: individuals}, nil
		})
	}
	if n.Min != nil {
		pick(func() (owl.ClassExpression, error) {
			prop, filler, nn, err := n.Min.parts()
			if err != nil {
				return nil, err
			}
			return owl.NewMinCardinality(nn, prop, filler), nil
		})
	}
	if n.Max != nil {
		pick(func() (owl.ClassExpression, error) {
			prop, filler, nn, err := n.Max.parts()
			if err != nil {
				return nil, err
			}
			return owl.NewMaxCardinality(nn, prop, filler), nil
		})
	}
	if n.Exact != nil {
		pick(func() (owl.ClassExpression, error) {
			prop, filler, nn, err := n.Exact.parts()
			if err != nil {
				return nil, err
			}
			return owl.NewExactCardinality(nn, prop, filler), nil
		})
	}
	if n.DataSome != nil {
		pick(func() (owl.ClassExpression, error) {
			prop, rng, err := n.DataSome.parts()
			if err != nil {
				return nil, err
			}
			return owl.DataSomeValuesFrom{Property: prop, Range: rng}, nil
		})
	}
	if n.DataOnly != nil {
		pick(func() (owl.ClassExpression, error) {
			prop, rng, err := n.DataOnly.parts()
			if err != nil {
				return nil, err
			}
			return owl.DataAllValuesFrom{Property: prop, Range: rng}, nil
		})
	}
	if n.DataHasValue != nil {
		pick(func() (owl.ClassExpression, error) {
			if n.DataHasValue.Property == "" {
				return nil, errors.Wrap(errors.ErrInvalidInput, "dataHasValue is missing a property IRI")
			}
			return owl.DataHasValue{
				Property: owl.NewDataProperty(n.DataHasValue.Property),
				Value:    n.DataHasValue.Value.toLiteral(),
			}, nil
		})
	}
	if n.DataMin != nil {
		pick(func() (owl.ClassExpression, error) {
			prop, rng, nn, err := n.DataMin.parts()
			if err != nil {
				return nil, err
			}
			return owl.DataMinCardinality{N: nn, Property: prop, Range: rng}, nil
		})
	}
	if n.DataMax != nil {
		pick(func() (owl.ClassExpression, error) {
			prop, rng, nn, err := n.DataMax.parts()
			if err != nil {
				return nil, err
			}
			return owl.DataMaxCardinality{N: nn, Property: prop, Range: rng}, nil
		})
	}
	if n.DataExact != nil {
		pick(func() (owl.ClassExpression, error) {
			prop, rng, nn, err := n.DataExact.parts()
			if err != nil {
				return nil, err
			}
			return owl.DataExactCardinality{N: nn, Property: prop, Range: rng}, nil
		})
	}

	if set == 0 {
		return nil, errors.Wrap(errors.ErrInvalidInput, "expression node has no operator key")
	}
	if set > 1 {
		return nil, errors.Wrap(errors.ErrInvalidInput, "expression node has more than one operator key")
	}
	return build()
}

func toExpressions(nodes []exprNode) ([]owl.ClassExpression, error) {
	out := make([]owl.ClassExpression, 0, len(nodes))
	for i := range nodes {
		expr, err := nodes[i].toExpression()
		if err != nil {
			return nil, err
		}
		out = append(out, expr)
	}
	return out, nil
}

func (r *objRestrict) parts() (owl.ObjectProperty, owl.ClassExpression, error) {
	prop, err := r.toProperty()
	if err != nil {
		return owl.ObjectProperty{}, nil, err
	}
	if r.Filler == nil {
		return owl.ObjectProperty{}, nil, errors.Wrap(errors.ErrInvalidInput, "restriction is missing a filler")
	}
	filler, err := r.Filler.toExpression()
	if err != nil {
		return owl.ObjectProperty{}, nil, err
	}
	return prop, filler, nil
}

// parts resolves a cardinality node. A missing filler defaults to owl:Thing,
// so "min: {property: r, n: 2}" reads as at least two r-successors of any kind.
func (c *objCard) parts() (owl.ObjectProperty, owl.ClassExpression, int, error) {
	prop, err := c.toProperty()
	if err != nil {
		return owl.ObjectProperty{}, nil, 0, err
	}
	if c.N < 0 {
		return owl.ObjectProperty{}, nil, 0, errors.Wrapf(errors.ErrInvalidInput, "cardinality %d", c.N)
	}
	var filler owl.ClassExpression = owl.Thing
	if c.Filler != nil {
		filler, err = c.Filler.toExpression()
		if err != nil {
			return owl.ObjectProperty{}, nil, 0, err
		}
	}
	return prop, filler, c.N, nil
}

func (r *dataRestrict) parts() (owl.DataProperty, owl.DataRange, error) {
	if r.Property == "" {
		return owl.DataProperty{}, nil, errors.Wrap(errors.ErrInvalidInput, "data restriction is missing a property IRI")
	}
	if r.Range == nil {
		return owl.DataProperty{}, nil, errors.Wrap(errors.ErrInvalidInput, "data restriction is missing a range")
	}
	rng, err := r.Range.toRange()
	if err != nil {
		return owl.DataProperty{}, nil, err
	}
	return owl.NewDataProperty(r.Property), rng, nil
}

// parts resolves a data cardinality node. A missing range defaults to
// rdfs:Literal, matching every literal.
func (c *dataCard) parts() (owl.DataProperty, owl.DataRange, int, error) {
	if c.Property == "" {
		return owl.DataProperty{}, nil, 0, errors.Wrap(errors.ErrInvalidInput, "data restriction is missing a property IRI")
	}
	if c.N < 0 {
		return owl.DataProperty{}, nil, 0, errors.Wrapf(errors.ErrInvalidInput, "cardinality %d", c.N)
	}
	var rng owl.DataRange = owl.Datatype{IRI: owl.RDFSLiteralIRI}
	if c.Range != nil {
		var err error
		rng, err = c.Range.toRange()
		if err != nil {
			return owl.DataProperty{}, nil, 0, err
		}
	}
	return owl.NewDataProperty(c.Property), rng, c.N, nil
}

func (r *rangeNode) toRange() (owl.DataRange, error) {
	set := 0
	var out owl.DataRange
	var err error

	if r.Datatype != "" {
		set++
		out = owl.Datatype{IRI: r.Datatype}
	}
	if len(r.OneOf) > 0 {
		set++
		literals := make([]owl.Literal, 0, len(r.OneOf))
		for _, l := range r.OneOf {
			literals = append(literals, l.toLiteral())
		}
		out = owl.DataOneOf{Literals: literals}
	}
	if r.Complement != nil {
		set++
		var inner owl.DataRange
		inner, err = r.Complement.toRange()
		if err == nil {
			out = owl.DataComplementOf{Operand: inner}
		}
	}
	if len(r.And) > 0 {
		set++
		var operands []owl.DataRange
		operands, err = toRanges(r.And)
		if err == nil {
			out = owl.DataIntersectionOf{Operands: operands}
		}
	}
	if len(r.Or) > 0 {
		set++
		var operands []owl.DataRange
		operands, err = toRanges(r.Or)
		if err == nil {
			out = owl.DataUnionOf{Operands: operands}
		}
	}
	if r.Restriction != nil {
		set++
		facets := make([]owl.FacetRestriction, 0, len(r.Restriction.Facets))
		for _, f := range r.Restriction.Facets {
			facets = append(facets, owl.FacetRestriction{
				Facet: owl.Facet(f.Facet),
				Value: f.Value.toLiteral(),
			})
		}
		out = owl.DatatypeRestriction{
			Datatype: owl.Datatype{IRI: r.Restriction.Datatype},
			Facets:   facets,
		}
	}

	if err != nil {
		return nil, err
	}
	if set == 0 {
		return nil, errors.Wrap(errors.ErrInvalidInput, "data range node has no operator key")
	}
	if set > 1 {
		return nil, errors.Wrap(errors.ErrInvalidInput, "data range node has more than one operator key")
	}
	return out, nil
}

func toRanges(nodes []rangeNode) ([]owl.DataRange, error) {
	out := make([]owl.DataRange, 0, len(nodes))
	for i := range nodes {
		rng, err := nodes[i].toRange()
		if err != nil {
			return nil, err
		}
		out = append(out, rng)
	}
	return out, nil
}
