package reasoner

import (
	"github.com/dice-group/owlgo/owl"
)

// classKey identifies a cached class extension.
type classKey struct {
	iri    string
	direct bool
}

// relationKey identifies a cached property relation map. The inverse
// direction is cached separately from the forward direction because the
// traversal direction differs.
type relationKey struct {
	iri     string
	inverse bool
	direct  bool
}

// sourceCache memoizes class extensions and property relation maps against
// one version token of the knowledge source. It is owned exclusively by a
// single Retriever and is never shared.
//
// Invalidation is wholesale: when the source version changes, every cached
// entry is dropped and the cache refills lazily. Cached values are
// idempotent (recomputing an extension yields the same set), so a stale
// writer racing a rebuild is harmless: last writer wins.
type sourceCache struct {
	version   string
	universe  owl.IndividualSet
	classes   map[classKey]owl.IndividualSet
	relations map[relationKey]map[owl.Individual]owl.IndividualSet
	data      map[string]map[owl.Individual][]owl.Literal
}

func newSourceCache() *sourceCache {
	return &sourceCache{
		classes:   make(map[classKey]owl.IndividualSet),
		relations: make(map[relationKey]map[owl.Individual]owl.IndividualSet),
		data:      make(map[string]map[owl.Individual][]owl.Literal),
	}
}

// sync compares the cache's version token with the source's current token
// and drops everything on mismatch. Returns true when the cache was
// invalidated.
func (c *sourceCache) sync(version string) bool {
	if c.version == version {
		return false
	}
	c.version = version
	c.universe = nil
	c.classes = make(map[classKey]owl.IndividualSet)
	c.relations = make(map[relationKey]map[owl.Individual]owl.IndividualSet)
	c.data = make(map[string]map[owl.Individual][]owl.Literal)
	return true
}
