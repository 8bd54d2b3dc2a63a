package neural

import (
	"context"

	"go.uber.org/zap"

	"github.com/dice-group/owlgo/errors"
	"github.com/dice-group/owlgo/logger"
	"github.com/dice-group/owlgo/owl"
	"github.com/dice-group/owlgo/reasoner"
)

// Retriever evaluates class expressions against an embedding oracle. It
// implements the same node algebra as the fact-store retriever, with leaf
// queries replaced by batched link predictions.
//
// Capability limits relative to the fact-store backend: data-range nodes
// are unsupported, and subsumption queries accept named classes only.
type Retriever struct {
	oracle Oracle
	logger *zap.SugaredLogger

	// class signature, fetched lazily and kept for the Retriever lifetime
	classSignature map[string]bool
}

// Option configures a neural Retriever.
type Option func(*Retriever)

// WithLogger replaces the component logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(r *Retriever) { r.logger = l }
}

// New creates a Retriever over the given oracle.
func New(oracle Oracle, opts ...Option) *Retriever {
	r := &Retriever{
		oracle: oracle,
		logger: logger.ComponentLogger("reasoner.neural"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Instances returns the individuals the oracle predicts to satisfy expr.
func (r *Retriever) Instances(ctx context.Context, expr owl.ClassExpression) (owl.IndividualSet, error) {
	switch e := expr.(type) {
	case owl.NamedClass:
		switch {
		case e.IsThing():
			return r.universe(ctx)
		case e.IsNothing():
			return owl.NewIndividualSet(), nil
		default:
			return r.classInstances(ctx, e)
		}

	case owl.Complement:
		inner, err := r.Instances(ctx, e.Operand)
		if err != nil {
			return nil, err
		}
		universe, err := r.universe(ctx)
		if err != nil {
			return nil, err
		}
		return universe.Difference(inner), nil

	case owl.Intersection:
		result, err := r.Instances(ctx, e.Operands[0])
		if err != nil {
			return nil, err
		}
		for _, op := range e.Operands[1:] {
			next, err := r.Instances(ctx, op)
			if err != nil {
				return nil, err
			}
			result = result.Intersect(next)
		}
		return result, nil

	case owl.Union:
		result, err := r.Instances(ctx, e.Operands[0])
		if err != nil {
			return nil, err
		}
		for _, op := range e.Operands[1:] {
			next, err := r.Instances(ctx, op)
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
		// ∀r.C ≡ ¬∃r.¬C, sharing the closed-world rule with ∃.
		return r.Instances(ctx, owl.Complement{
			Operand: owl.SomeValuesFrom{
				Property: e.Property,
				Filler:   owl.Complement{Operand: e.Filler},
			},
		})

	case owl.HasValue:
		return r.Instances(ctx, owl.SomeValuesFrom{
			Property: e.Property,
			Filler:   owl.OneOf{Individuals: []owl.Individual{e.Value}},
		})

	case owl.OneOf:
		return owl.NewIndividualSet(e.Individuals...), nil

	case owl.MinCardinality:
		if e.N == 0 {
			return r.universe(ctx)
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
		universe, err := r.universe(ctx)
		if err != nil {
			return nil, err
		}
		out := owl.NewIndividualSet()
		for subj := range universe {
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
		universe, err := r.universe(ctx)
		if err != nil {
			return nil, err
		}
		out := owl.NewIndividualSet()
		for subj := range universe {
			if counts[subj] == e.N {
				out.Add(subj)
			}
		}
		return out, nil

	default:
		return nil, errors.Wrapf(reasoner.ErrUnsupportedExpression, "%T in embedding-oracle backend", expr)
	}
}

// classInstances retrieves predicted members of a named class and of its
// predicted subclasses, in one batched type prediction.
func (r *Retriever) classInstances(ctx context.Context, class owl.NamedClass) (owl.IndividualSet, error) {
	subclasses, err := r.SubClasses(ctx, class, false)
	if err != nil {
		return nil, err
	}
	classIRIs := []string{class.IRI}
	for _, c := range subclasses {
		classIRIs = append(classIRIs, c.IRI)
	}

	predictions, err := r.oracle.Predict(ctx, nil, TypeIRI, classIRIs)
	if err != nil {
		return nil, err
	}
	return r.collect(predictions), nil
}

// SubClasses returns the named classes predicted to be subclasses of the
// given class, direct or transitive. The transitive closure is a
// depth-first traversal guarded by a visited set: predicted subClassOf
// edges may be cyclic or inconsistent, unlike a verified hierarchy.
func (r *Retriever) SubClasses(ctx context.Context, class owl.NamedClass, direct bool) ([]owl.NamedClass, error) {
	signature, err := r.classes(ctx)
	if err != nil {
		return nil, err
	}

	var out []owl.NamedClass
	visited := map[string]bool{class.IRI: true}
	var walk func(iri string) error
	walk = func(iri string) error {
		predictions, err := r.oracle.Predict(ctx, nil, SubClassOfIRI, []string{iri})
		if err != nil {
			return err
		}
		for _, p := range predictions {
			if visited[p.Entity] || !signature[p.Entity] {
				continue
			}
			visited[p.Entity] = true
			out = append(out, owl.NamedClass{IRI: p.Entity})
			if !direct {
				if err := walk(p.Entity); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := walk(class.IRI); err != nil {
		return nil, err
	}
	return out, nil
}

// SuperClasses returns the named classes predicted to subsume the given
// expression. Only named classes are accepted in this backend; complex
// expressions are a capability error.
func (r *Retriever) SuperClasses(ctx context.Context, expr owl.ClassExpression, direct bool) ([]owl.NamedClass, error) {
	class, ok := expr.(owl.NamedClass)
	if !ok {
		return nil, errors.Wrapf(reasoner.ErrUnsupportedExpression,
			"subsumption over %T: only named classes are supported", expr)
	}

	var out []owl.NamedClass
	visited := map[string]bool{class.IRI: true}
	var walk func(iri string) error
	walk = func(iri string) error {
		predictions, err := r.oracle.Predict(ctx, []string{iri}, SubClassOfIRI, nil)
		if err != nil {
			return err
		}
		for _, p := range predictions {
			if visited[p.Entity] {
				continue
			}
			visited[p.Entity] = true
			out = append(out, owl.NamedClass{IRI: p.Entity})
			if !direct {
				if err := walk(p.Entity); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := walk(class.IRI); err != nil {
		return nil, err
	}
	return out, nil
}

// Types returns the named classes the individual is predicted to belong to.
func (r *Retriever) Types(ctx context.Context, individual owl.Individual) ([]owl.NamedClass, error) {
	predictions, err := r.oracle.Predict(ctx, []string{individual.IRI}, TypeIRI, nil)
	if err != nil {
		return nil, err
	}
	out := make([]owl.NamedClass, 0, len(predictions))
	for _, p := range predictions {
		if !owl.ValidIRI(p.Entity) {
			r.logger.Warnw("dropping malformed entity identifier from oracle",
				"entity", p.Entity)
			continue
		}
		out = append(out, owl.NamedClass{IRI: p.Entity})
	}
	return out, nil
}

// successorCounts evaluates the filler once, then issues one batched
// prediction for subjects related to any filler member, counting one per
// matched (subject, filler) pair. Inverse properties swap the bound and
// unbound slots.
func (r *Retriever) successorCounts(ctx context.Context, property owl.ObjectProperty, filler owl.ClassExpression) (map[owl.Individual]int, error) {
	fillerSet, err := r.Instances(ctx, filler)
	if err != nil {
		return nil, err
	}

	counts := make(map[owl.Individual]int)
	if fillerSet.Len() == 0 {
		return counts, nil
	}

	bound := fillerSet.SortedIRIs()
	var predictions []Prediction
	if property.IsInverse() {
		predictions, err = r.oracle.Predict(ctx, bound, property.IRI, nil)
	} else {
		predictions, err = r.oracle.Predict(ctx, nil, property.IRI, bound)
	}
	if err != nil {
		return nil, err
	}

	for _, p := range predictions {
		if !owl.ValidIRI(p.Entity) {
			// Noisy learned output: drop the candidate, keep evaluating.
			r.logger.Warnw("dropping malformed entity identifier from oracle",
				"entity", p.Entity,
				"relation", property.IRI)
			continue
		}
		counts[owl.NewIndividual(p.Entity)]++
	}
	return counts, nil
}

// collect turns predictions into an individual set, dropping malformed
// identifiers.
func (r *Retriever) collect(predictions []Prediction) owl.IndividualSet {
	out := owl.NewIndividualSet()
	for _, p := range predictions {
		if !owl.ValidIRI(p.Entity) {
			r.logger.Warnw("dropping malformed entity identifier from oracle",
				"entity", p.Entity)
			continue
		}
		out.Add(owl.NewIndividual(p.Entity))
	}
	return out
}

func (r *Retriever) universe(ctx context.Context) (owl.IndividualSet, error) {
	individuals, err := r.oracle.Individuals(ctx)
	if err != nil {
		return nil, err
	}
	out := owl.NewIndividualSet()
	for _, iri := range individuals {
		out.Add(owl.NewIndividual(iri))
	}
	return out, nil
}

func (r *Retriever) classes(ctx context.Context) (map[string]bool, error) {
	if r.classSignature != nil {
		return r.classSignature, nil
	}
	classes, err := r.oracle.Classes(ctx)
	if err != nil {
		return nil, err
	}
	r.classSignature = make(map[string]bool, len(classes))
	for _, iri := range classes {
		r.classSignature[iri] = true
	}
	return r.classSignature, nil
}
