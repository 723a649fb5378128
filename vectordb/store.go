package vectordb

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"doc-assistant/database"
)

const defaultTopK = 4

// ErrNoChunks reports an Add call with an empty batch.
var ErrNoChunks = errors.New("no chunks provided")

type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Store is the process-wide vector index over the chunk collection.
// Searches are read-only and safe to run concurrently; Add and Reset
// are serialized against each other.
type Store struct {
	pool      *pgxpool.Pool
	embedder  Embedder
	model     string
	dimension int
	logger    *log.Logger

	mu sync.Mutex // single-writer discipline for Add/Reset
}

func NewStore(pool *pgxpool.Pool, embedder Embedder, model string, dimension int, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}

	return &Store{
		pool:      pool,
		embedder:  embedder,
		model:     model,
		dimension: dimension,
		logger:    logger,
	}
}

// Add embeds every chunk text and inserts the batch in one transaction,
// so a failure never leaves a partial write behind. Re-adding an id
// replaces the stored row.
func (s *Store) Add(ctx context.Context, chunks []Chunk) (err error) {
	if len(chunks) == 0 {
		return ErrNoChunks
	}
	if s.embedder == nil {
		return fmt.Errorf("embedder is not configured")
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	s.logger.Printf("generating embeddings for %d chunks", len(texts))
	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("generate embeddings: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedding count mismatch: have %d chunks, %d embeddings", len(chunks), len(vectors))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				s.logger.Printf("rollback error: %v", rbErr)
			}
		}
	}()

	insert := fmt.Sprintf(`
		INSERT INTO %s (id, source, ordinal, content, embedding, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE
		SET source = EXCLUDED.source,
		    ordinal = EXCLUDED.ordinal,
		    content = EXCLUDED.content,
		    embedding = EXCLUDED.embedding,
		    updated_at = NOW()
	`, database.ChunkTable)

	for i, chunk := range chunks {
		vec := pgvector.NewVector(vectors[i])
		if _, err = tx.Exec(ctx, insert, chunk.ID, chunk.Source, chunk.Ordinal, chunk.Text, vec); err != nil {
			return fmt.Errorf("insert chunk %s: %w", chunk.ID, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	s.logger.Printf("added %d chunks to %s", len(chunks), database.ChunkTable)
	return nil
}

// Search embeds the query once and returns the nearest chunks by cosine
// distance, with similarity = 1 - distance. An empty index yields an
// empty slice, not an error.
func (s *Store) Search(ctx context.Context, query string, topK int) ([]SearchResult, error) {
	if s.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if s.embedder == nil {
		return nil, fmt.Errorf("embedder is not configured")
	}
	if topK <= 0 {
		topK = defaultTopK
	}

	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embedder returned no vectors")
	}

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	probes := topK * 10
	if probes < 10 {
		probes = 10
	}
	if _, err := conn.Exec(ctx, fmt.Sprintf("SET ivfflat.probes = %d", probes)); err != nil {
		return nil, fmt.Errorf("set ivfflat probes: %w", err)
	}

	rows, err := conn.Query(ctx, fmt.Sprintf(`
		SELECT id, source, ordinal, content, (embedding <=> $1::vector) AS distance
		FROM %s
		ORDER BY embedding <=> $1::vector
		LIMIT $2
	`, database.ChunkTable), pgvector.NewVector(vectors[0]), topK)
	if err != nil {
		return nil, fmt.Errorf("query similar chunks: %w", err)
	}
	defer rows.Close()

	results := make([]SearchResult, 0)
	for rows.Next() {
		var item SearchResult
		if scanErr := rows.Scan(&item.ID, &item.Source, &item.Ordinal, &item.Text, &item.Distance); scanErr != nil {
			return nil, fmt.Errorf("scan search result: %w", scanErr)
		}
		item.Similarity = 1 - item.Distance
		results = append(results, item)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return results, nil
}

func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var count int64
	if err := s.pool.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", database.ChunkTable)).Scan(&count); err != nil {
		return Stats{}, fmt.Errorf("count chunks: %w", err)
	}

	return Stats{
		TotalDocuments: count,
		Collection:     database.ChunkTable,
		EmbeddingModel: s.model,
	}, nil
}

// Reset drops and recreates the chunk collection, losing all data.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := database.DropChunkTable(ctx, s.pool); err != nil {
		return err
	}
	if err := database.EnsureSchema(ctx, s.pool, s.dimension); err != nil {
		return fmt.Errorf("recreate chunk table: %w", err)
	}

	s.logger.Printf("reset %s collection", database.ChunkTable)
	return nil
}
