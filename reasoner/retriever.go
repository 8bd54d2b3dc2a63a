// Package reasoner implements instance retrieval for class expressions: a
// recursive evaluator that maps every expression node kind to a set
// operation over a knowledge source, with memoization keyed off the
// source's version token and a bounded-time execution guard.
//
// Negation is deliberately closed-world: the complement of a class is taken
// relative to the universe of known individuals, not under open-world
// entailment. Universal restrictions are derived from existential ones
// (∀r.C ≡ ¬∃r.¬C) so both quantifiers share the same closed-world rule.
package reasoner

import (
	"context"

	"go.uber.org/zap"

	"github.com/dice-group/owlgo/errors"
	"github.com/dice-group/owlgo/kb"
	"github.com/dice-group/owlgo/logger"
	"github.com/dice-group/owlgo/owl"
)

// Retriever evaluates class expressions against a fact-store source.
// Each Retriever owns its caches exclusively; concurrent Retrievers over
// the same source do not share cache state.
type Retriever struct {
	source kb.Source
	cache  *sourceCache // nil when caching is disabled
	direct bool
	logger *zap.SugaredLogger
}

// Option configures a Retriever.
type Option func(*Retriever)

// WithoutCache disables memoization; every leaf evaluation queries the
// source directly.
func WithoutCache() Option {
	return func(r *Retriever) { r.cache = nil }
}

// WithDirectInstances requests direct class membership at NamedClass
// leaves (no subclass closure). Restriction fillers and complements still
// evaluate with non-direct semantics; see the Instances doc comment.
func WithDirectInstances() Option {
	return func(r *Retriever) { r.direct = true }
}

// WithLogger replaces the component logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(r *Retriever) { r.logger = l }
}

// New creates a Retriever over the given source with caching enabled.
func New(source kb.Source, opts ...Option) *Retriever {
	r := &Retriever{
		source: source,
		cache:  newSourceCache(),
		logger: logger.ComponentLogger("reasoner.retriever"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Instances returns exactly the individuals satisfying expr.
//
// The direct flag set by WithDirectInstances is honored only at NamedClass
// leaves; every other node kind evaluates with non-direct semantics. This
// mirrors the historical behavior of the structural reasoner and is pinned
// by tests rather than silently changed.
func (r *Retriever) Instances(ctx context.Context, expr owl.ClassExpression) (owl.IndividualSet, error) {
	r.syncCache()
	return r.eval(ctx, expr)
}

// syncCache validates the cache against the source's current version
// token, dropping all entries when the token changed.
func (r *Retriever) syncCache() {
	if r.cache == nil {
		return
	}
	if r.cache.sync(r.source.Version()) {
		r.logger.Debugw("source version changed, caches dropped",
			"version", r.cache.version)
	}
}

func (r *Retriever) eval(ctx context.Context, expr owl.ClassExpression) (owl.IndividualSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch e := expr.(type) {
	case owl.NamedClass:
		switch {
		case e.IsThing():
			return r.universe().Clone(), nil
		case e.IsNothing():
			return owl.NewIndividualSet(), nil
		default:
			return r.namedClass(e).Clone(), nil
		}

	case owl.Complement:
		inner, err := r.eval(ctx, e.Operand)
		if err != nil {
			return nil, err
		}
		return r.universe().Difference(inner), nil

	case owl.Intersection:
		result, err := r.eval(ctx, e.Operands[0])
		if err != nil {
			return nil, err
		}
		for _, op := range e.Operands[1:] {
			next, err := r.eval(ctx, op)
			if err != nil {
				return nil, err
			}
			result = result.Intersect(next)
		}
		return result, nil

	case owl.Union:
		result, err := r.eval(ctx, e.Operands[0])
		if err != nil {
			return nil, err
		}
		for _, op := range e.Operands[1:] {
			next, err := r.eval(ctx, op)
			if err != nil {
				return nil, err
			}
			result = result.Union(next)
		}
		return result, nil

	case owl.SomeValuesFrom:
		counts, err := r.successorCounts(ctx, e.Property, e.Filler)
		if err != nil {
			return nil, err
		}
		out := owl.NewIndividualSet()
		for subj := range counts {
			out.Add(subj)
		}
		return out, nil

	case owl.AllValuesFrom:
		// Derived, not primitive: ∀r.C ≡ ¬∃r.¬C. Individuals with no
		// r-successor satisfy the restriction vacuously.
		return r.eval(ctx, owl.Complement{
			Operand: owl.SomeValuesFrom{
				Property: e.Property,
				Filler:   owl.Complement{Operand: e.Filler},
			},
		})

	case owl.HasValue:
		return r.eval(ctx, owl.SomeValuesFrom{
			Property: e.Property,
			Filler:   owl.OneOf{Individuals: []owl.Individual{e.Value}},
		})

	case owl.OneOf:
		// The only node kind that never consults the source.
		return owl.NewIndividualSet(e.Individuals...), nil

	case owl.MinCardinality:
		if e.N == 0 {
			return r.universe().Clone(), nil
		}
		counts, err := r.successorCounts(ctx, e.Property, e.Filler)
		if err != nil {
			return nil, err
		}
		out := owl.NewIndividualSet()
		for subj, n := range counts {
			if n >= e.N {
				out.Add(subj)
			}
		}
		return out, nil

	case owl.MaxCardinality:
		counts, err := r.successorCounts(ctx, e.Property, e.Filler)
		if err != nil {
			return nil, err
		}
		// Individuals absent from the counts have zero matching
		// successors and always satisfy a max restriction.
		out := owl.NewIndividualSet()
		for subj := range r.universe() {
			if counts[subj] <= e.N {
				out.Add(subj)
			}
		}
		return out, nil

	case owl.ExactCardinality:
		counts, err := r.successorCounts(ctx, e.Property, e.Filler)
		if err != nil {
			return nil, err
		}
		out := owl.NewIndividualSet()
		for subj := range r.universe() {
			if counts[subj] == e.N {
				out.Add(subj)
			}
		}
		return out, nil

	case owl.DataSomeValuesFrom:
		return r.dataMatches(e.Property, func(values []owl.Literal) bool {
			return countInRange(values, e.Range) >= 1
		}), nil

	case owl.DataAllValuesFrom:
		// Same closed-world rule as the object side: exclude exactly the
		// subjects with a counterexample literal.
		violating := r.dataMatches(e.Property, func(values []owl.Literal) bool {
			for _, v := range values {
				if !LiteralInRange(v, e.Range) {
					return true
				}
			}
			return false
		})
		return r.universe().Difference(violating), nil

	case owl.DataHasValue:
		return r.eval(ctx, owl.DataSomeValuesFrom{
			Property: e.Property,
			Range:    owl.DataOneOf{Literals: []owl.Literal{e.Value}},
		})

	case owl.DataMinCardinality:
		if e.N == 0 {
			return r.universe().Clone(), nil
		}
		return r.dataMatches(e.Property, func(values []owl.Literal) bool {
			return countInRange(values, e.Range) >= e.N
		}), nil

	case owl.DataMaxCardinality:
		over := r.dataMatches(e.Property, func(values []owl.Literal) bool {
			return countInRange(values, e.Range) > e.N
		})
		return r.universe().Difference(over), nil

	case owl.DataExactCardinality:
		exact := r.dataMatches(e.Property, func(values []owl.Literal) bool {
			return countInRange(values, e.Range) == e.N
		})
		if e.N == 0 {
			// Subjects with no values for the property count as zero.
			noValues := r.universe().Difference(r.dataSubjects(e.Property))
			return exact.Union(noValues), nil
		}
		return exact, nil

	default:
		return nil, errors.Wrapf(ErrUnsupportedExpression, "%T", expr)
	}
}

// successorCounts evaluates the filler once and retrieves the property
// relation in one batched query, then counts matching successors per
// subject. Cost is O(|relations retrieved|); subjects with no matching
// successor are absent from the result.
func (r *Retriever) successorCounts(ctx context.Context, property owl.ObjectProperty, filler owl.ClassExpression) (map[owl.Individual]int, error) {
	fillerSet, err := r.eval(ctx, filler)
	if err != nil {
		return nil, err
	}

	counts := make(map[owl.Individual]int)
	if fillerSet.Len() == 0 {
		return counts, nil
	}
	for subj, objects := range r.relations(property) {
		n := objects.Intersect(fillerSet).Len()
		if n > 0 {
			counts[subj] = n
		}
	}
	return counts, nil
}

// dataMatches returns the subjects whose literal values satisfy the
// predicate, from one batched data-relation retrieval.
func (r *Retriever) dataMatches(property owl.DataProperty, match func([]owl.Literal) bool) owl.IndividualSet {
	out := owl.NewIndividualSet()
	for subj, values := range r.dataRelations(property) {
		if match(values) {
			out.Add(subj)
		}
	}
	return out
}

// dataSubjects returns every subject with at least one value for the data
// property.
func (r *Retriever) dataSubjects(property owl.DataProperty) owl.IndividualSet {
	out := owl.NewIndividualSet()
	for subj := range r.dataRelations(property) {
		out.Add(subj)
	}
	return out
}

func (r *Retriever) universe() owl.IndividualSet {
	if r.cache == nil {
		return r.source.Individuals()
	}
	if r.cache.universe == nil {
		r.cache.universe = r.source.Individuals()
	}
	return r.cache.universe
}

func (r *Retriever) namedClass(class owl.NamedClass) owl.IndividualSet {
	if r.cache == nil {
		return r.source.InstancesOf(class, r.direct)
	}
	key := classKey{iri: class.IRI, direct: r.direct}
	if cached, ok := r.cache.classes[key]; ok {
		return cached
	}
	members := r.source.InstancesOf(class, r.direct)
	r.cache.classes[key] = members
	return members
}

// relations returns the subject-to-objects map for the property, built by
// one full scan and memoized. The inverse direction is cached under its
// own key because traversal direction differs.
func (r *Retriever) relations(property owl.ObjectProperty) map[owl.Individual]owl.IndividualSet {
	if r.cache == nil {
		return r.source.ObjectPropertyRelations(property, false)
	}
	key := relationKey{iri: property.IRI, inverse: property.IsInverse(), direct: false}
	if cached, ok := r.cache.relations[key]; ok {
		return cached
	}
	relations := r.source.ObjectPropertyRelations(property, false)
	r.cache.relations[key] = relations
	r.logger.Debugw("property relation map cached",
		"property", property.String(),
		"subjects", len(relations))
	return relations
}

func (r *Retriever) dataRelations(property owl.DataProperty) map[owl.Individual][]owl.Literal {
	if r.cache == nil {
		return r.source.DataPropertyRelations(property)
	}
	if cached, ok := r.cache.data[property.IRI]; ok {
		return cached
	}
	relations := r.source.DataPropertyRelations(property)
	r.cache.data[property.IRI] = relations
	return relations
}
