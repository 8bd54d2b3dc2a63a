// Package neural implements instance retrieval over a probabilistic
// embedding oracle: leaf queries become link predictions scored against a
// learned model instead of lookups in an exact fact store.
package neural

import (
	"context"
)

// Well-known relation IRIs the neural retriever queries the oracle with.
const (
	TypeIRI       = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	SubClassOfIRI = "http://www.w3.org/2000/01/rdf-schema#subClassOf"
)

// Prediction is one scored entity returned by the oracle.
type Prediction struct {
	Entity string
	Score  float64
}

// Oracle is the embedding-oracle boundary.
//
// Predict answers a link-prediction query: exactly one of heads/tails must
// be empty, and that slot is the query target. The other slot may carry
// one or several bound values; when several are bound, an entity appears
// once per bound value it matches, so callers can count matches.
// Thresholding (the gamma cutoff) is internal to the oracle. An unknown
// relation yields an empty result, not an error.
type Oracle interface {
	Predict(ctx context.Context, heads []string, relation string, tails []string) ([]Prediction, error)

	// Individuals returns every individual entity known to the oracle.
	Individuals(ctx context.Context) ([]string, error)

	// Classes returns every class entity known to the oracle.
	Classes(ctx context.Context) ([]string, error)
}
