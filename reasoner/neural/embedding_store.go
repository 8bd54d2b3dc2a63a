package neural

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"

	vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/dice-group/owlgo/errors"
)

func init() {
	// Register the sqlite-vec extension with the mattn/go-sqlite3 driver.
	// vec.Auto() registers it as an auto-loadable extension. The driver is
	// imported here as well so the package links a sqlite3 implementation
	// even when built without the db package.
	vec.Auto()
}

// Embedding kinds as stored in the embeddings table.
const (
	KindIndividual = "individual"
	KindClass      = "class"
	KindRelation   = "relation"
)

const (
	embeddingUpsertQuery = `
		INSERT INTO embeddings (iri, kind, embedding, dimensions, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(iri, kind) DO UPDATE SET
			embedding = excluded.embedding,
			dimensions = excluded.dimensions,
			updated_at = excluded.updated_at`

	embeddingSelectAllQuery = `
		SELECT iri, kind, embedding, dimensions FROM embeddings`

	embeddingSelectOneQuery = `
		SELECT embedding FROM embeddings WHERE iri = ? AND kind = ?`
)

// Neighbor is a nearest-neighbour search hit.
type Neighbor struct {
	IRI      string
	Distance float64
}

// EmbeddingStore persists trained knowledge-graph embeddings in SQLite.
// Vectors live in the embeddings table as little-endian FLOAT32_BLOB data
// and are mirrored into a vec0 virtual table for similarity search.
type EmbeddingStore struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// NewEmbeddingStore creates a store over an opened, migrated database and
// ensures the vec0 virtual table exists. Virtual tables are created here
// rather than in a migration because they cannot run inside a transaction.
func NewEmbeddingStore(db *sql.DB, dimension int, logger *zap.SugaredLogger) (*EmbeddingStore, error) {
	if dimension <= 0 {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "embedding dimension %d", dimension)
	}
	ddl := fmt.Sprintf("CREATE VIRTUAL TABLE IF NOT EXISTS vec_embeddings USING vec0(iri TEXT, embedding FLOAT[%d])", dimension)
	if _, err := db.Exec(ddl); err != nil {
		return nil, errors.Wrap(err, "create vec_embeddings virtual table")
	}
	return &EmbeddingStore{db: db, logger: logger}, nil
}

// Save stores one embedding, replacing any previous vector for the same
// IRI and kind.
func (s *EmbeddingStore) Save(ctx context.Context, iri, kind string, embedding []float32) error {
	if len(embedding) == 0 {
		return errors.Wrapf(errors.ErrInvalidInput, "empty embedding for %s", iri)
	}
	blob := SerializeFloat32(embedding)

	if _, err := s.db.ExecContext(ctx, embeddingUpsertQuery, iri, kind, blob, len(embedding)); err != nil {
		return errors.Wrapf(err, "save embedding for %s (%s)", iri, kind)
	}

	// Virtual tables don't support UPSERT, so we delete then insert.
	_, _ = s.db.ExecContext(ctx, "DELETE FROM vec_embeddings WHERE iri = ?", iri)
	if _, err := s.db.ExecContext(ctx, "INSERT INTO vec_embeddings (iri, embedding) VALUES (?, ?)", iri, blob); err != nil {
		return errors.Wrapf(err, "save embedding for %s to vec_embeddings table", iri)
	}

	if s.logger != nil {
		s.logger.Debugw("saved embedding",
			"iri", iri,
			"kind", kind,
			"dimensions", len(embedding))
	}
	return nil
}

// Vector loads the stored embedding for one IRI and kind. A missing row is
// reported as errors.ErrNotFound.
func (s *EmbeddingStore) Vector(ctx context.Context, iri, kind string) ([]float32, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, embeddingSelectOneQuery, iri, kind).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewNotFoundError("embedding for %s (%s)", iri, kind)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load embedding for %s (%s)", iri, kind)
	}
	return DeserializeFloat32(blob)
}

// NearestTo returns the k entities whose vectors are closest to the stored
// embedding of the given IRI.
func (s *EmbeddingStore) NearestTo(ctx context.Context, iri, kind string, k int) ([]Neighbor, error) {
	query, err := s.Vector(ctx, iri, kind)
	if err != nil {
		return nil, err
	}
	return s.Nearest(ctx, query, k)
}

// Nearest returns the k entities whose vectors are closest to the query
// vector by L2 distance.
func (s *EmbeddingStore) Nearest(ctx context.Context, query []float32, k int) ([]Neighbor, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT iri, vec_distance_L2(embedding, ?) AS distance
		FROM vec_embeddings
		ORDER BY distance
		LIMIT ?`, SerializeFloat32(query), k)
	if err != nil {
		return nil, errors.Wrap(err, "nearest-neighbour query")
	}
	defer rows.Close()

	var out []Neighbor
	for rows.Next() {
		var n Neighbor
		if err := rows.Scan(&n.IRI, &n.Distance); err != nil {
			return nil, errors.Wrap(err, "scan neighbour")
		}
		out = append(out, n)
	}
	return out, errors.Wrap(rows.Err(), "iterate neighbours")
}

// LoadOracle builds a translation-embedding oracle from every stored
// vector. Rows whose dimensionality disagrees with the majority are logged
// and skipped rather than failing the load.
func (s *EmbeddingStore) LoadOracle(ctx context.Context, gamma float64, dimension int) (*TransEOracle, error) {
	oracle := NewTransEOracle(gamma, dimension)

	rows, err := s.db.QueryContext(ctx, embeddingSelectAllQuery)
	if err != nil {
		return nil, errors.Wrap(err, "query embeddings")
	}
	defer rows.Close()

	loaded := 0
	for rows.Next() {
		var iri, kind string
		var blob []byte
		var dims int
		if err := rows.Scan(&iri, &kind, &blob, &dims); err != nil {
			return nil, errors.Wrap(err, "scan embedding")
		}

		embedding, err := DeserializeFloat32(blob)
		if err != nil {
			return nil, errors.Wrapf(err, "decode embedding for %s", iri)
		}

		switch kind {
		case KindClass:
			err = oracle.AddClass(iri, embedding)
		case KindRelation:
			err = oracle.AddRelation(iri, embedding)
		default:
			err = oracle.AddIndividual(iri, embedding)
		}
		if err != nil {
			if s.logger != nil {
				s.logger.Warnw("skipping embedding with unexpected dimensionality",
					"iri", iri,
					"kind", kind,
					"dimensions", dims,
					"error", err)
			}
			continue
		}
		loaded++
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate embeddings")
	}

	if s.logger != nil {
		s.logger.Infow("Embedding oracle loaded",
			"embeddings", loaded,
			"gamma", gamma,
			"dimensions", dimension)
	}
	return oracle, nil
}

// SerializeFloat32 encodes a vector as a little-endian FLOAT32_BLOB, the
// format sqlite-vec expects.
func SerializeFloat32(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// DeserializeFloat32 decodes a little-endian FLOAT32_BLOB.
func DeserializeFloat32(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, errors.Newf("malformed FLOAT32_BLOB of %d bytes", len(blob))
	}
	out := make([]float32, len(blob)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return out, nil
}
