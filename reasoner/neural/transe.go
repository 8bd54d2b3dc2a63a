package neural

import (
	"context"
	"math"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/dice-group/owlgo/errors"
	"github.com/dice-group/owlgo/logger"
)

// TransEOracle scores triples with translation embeddings: a triple
// (h, r, t) is plausible when h + r is close to t in the embedding space.
// The raw distance d is mapped to a score 1/(1+d) in (0, 1], and only
// candidates scoring at or above gamma are returned. Gamma lives here, in
// the oracle; the retriever never sees it.
type TransEOracle struct {
	mu sync.RWMutex

	gamma     float64
	dimension int

	entities  map[string][]float32
	relations map[string][]float32
	classes   map[string]bool

	logger *zap.SugaredLogger
}

// NewTransEOracle creates an empty oracle with the given score threshold
// and embedding dimensionality.
func NewTransEOracle(gamma float64, dimension int) *TransEOracle {
	return &TransEOracle{
		gamma:     gamma,
		dimension: dimension,
		entities:  make(map[string][]float32),
		relations: make(map[string][]float32),
		classes:   make(map[string]bool),
		logger:    logger.ComponentLogger("reasoner.neural.transe"),
	}
}

// Gamma returns the score threshold.
func (o *TransEOracle) Gamma() float64 {
	return o.gamma
}

// Dimension returns the embedding dimensionality.
func (o *TransEOracle) Dimension() int {
	return o.dimension
}

// AddIndividual registers an individual entity with its embedding.
func (o *TransEOracle) AddIndividual(iri string, embedding []float32) error {
	return o.addEntity(iri, embedding, false)
}

// AddClass registers a class entity with its embedding.
func (o *TransEOracle) AddClass(iri string, embedding []float32) error {
	return o.addEntity(iri, embedding, true)
}

func (o *TransEOracle) addEntity(iri string, embedding []float32, isClass bool) error {
	if len(embedding) != o.dimension {
		return errors.Newf("embedding for %s has dimension %d, want %d", iri, len(embedding), o.dimension)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.entities[iri] = embedding
	if isClass {
		o.classes[iri] = true
	}
	return nil
}

// AddRelation registers a relation with its embedding.
func (o *TransEOracle) AddRelation(iri string, embedding []float32) error {
	if len(embedding) != o.dimension {
		return errors.Newf("embedding for %s has dimension %d, want %d", iri, len(embedding), o.dimension)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.relations[iri] = embedding
	return nil
}

// Predict implements the Oracle contract. An unknown or unembedded
// relation yields an empty result rather than an error.
func (o *TransEOracle) Predict(ctx context.Context, heads []string, relation string, tails []string) ([]Prediction, error) {
	if (len(heads) == 0) == (len(tails) == 0) {
		return nil, errors.Newf("predict: exactly one of heads/tails must be unbound (heads=%d tails=%d)", len(heads), len(tails))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	o.mu.RLock()
	defer o.mu.RUnlock()

	rel, ok := o.relations[relation]
	if !ok {
		o.logger.Debugw("relation not embedded, predicting nothing", "relation", relation)
		return nil, nil
	}

	bound := tails
	tailBound := true
	if len(heads) > 0 {
		bound = heads
		tailBound = false
	}

	var out []Prediction
	for candidate, candidateVec := range o.entities {
		for _, b := range bound {
			boundVec, ok := o.entities[b]
			if !ok {
				continue
			}
			var score float64
			if tailBound {
				// candidate is the head slot
				score = o.score(candidateVec, rel, boundVec)
			} else {
				score = o.score(boundVec, rel, candidateVec)
			}
			if score >= o.gamma {
				out = append(out, Prediction{Entity: candidate, Score: score})
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out, nil
}

// score maps the translation distance ||h + r - t|| to (0, 1].
func (o *TransEOracle) score(head, relation, tail []float32) float64 {
	var sum float64
	for i := 0; i < o.dimension; i++ {
		d := float64(head[i]) + float64(relation[i]) - float64(tail[i])
		sum += d * d
	}
	return 1.0 / (1.0 + math.Sqrt(sum))
}

// Individuals returns every non-class entity in the signature.
func (o *TransEOracle) Individuals(ctx context.Context) ([]string, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]string, 0, len(o.entities))
	for iri := range o.entities {
		if !o.classes[iri] {
			out = append(out, iri)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Classes returns every class entity in the signature.
func (o *TransEOracle) Classes(ctx context.Context) ([]string, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]string, 0, len(o.classes))
	for iri := range o.classes {
		out = append(out, iri)
	}
	sort.Strings(out)
	return out, nil
}
