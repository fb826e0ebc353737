package ranking

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/kailas-cloud/marketsearch/internal/db"
	"github.com/kailas-cloud/marketsearch/internal/db/postgres"
	"github.com/kailas-cloud/marketsearch/internal/domain"
	"github.com/kailas-cloud/marketsearch/internal/domain/search/rank"
	"github.com/kailas-cloud/marketsearch/internal/domain/search/result"
)

const hybridSearchSQL = `
SELECT id, store_id, title, description, price, image_url,
       category_id, category_name, stock_quantity, is_active,
       store_name, university_id, university_short_code, score
FROM hybrid_search($1, $2, $3, $4, $5)`

// querier is the consumer interface over pgxpool.Pool.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repo implements usecase/search.Ranker on top of the hybrid_search stored function.
type Repo struct {
	q querier
}

// New creates a ranking repository.
func New(q querier) *Repo {
	return &Repo{q: q}
}

// Rank calls hybrid_search and returns rows in the function's order.
// A missing embedding is sent as SQL NULL.
func (r *Repo) Rank(ctx context.Context, _ domain.RequestContext, req rank.Request) ([]result.Result, error) {
	var embedding any
	if req.HasEmbedding() {
		embedding = pgvector.NewVector(req.Embedding)
	}

	rows, err := r.q.Query(ctx, hybridSearchSQL,
		req.Text, embedding, req.MatchCount, req.FullTextWeight, req.SemanticWeight,
	)
	if err != nil {
		return nil, classify(err)
	}

	ranked, err := pgx.CollectRows(rows, scanRanked)
	if err != nil {
		return nil, classify(err)
	}

	out := make([]result.Result, len(ranked))
	for i := range ranked {
		out[i] = ranked[i].toDomain()
	}
	return out, nil
}

func scanRanked(row pgx.CollectableRow) (rankedRow, error) {
	var r rankedRow
	err := row.Scan(
		&r.ID, &r.StoreID, &r.Title, &r.Description, &r.Price, &r.ImageURL,
		&r.CategoryID, &r.CategoryName, &r.StockQuantity, &r.IsActive,
		&r.StoreName, &r.UniversityID, &r.UniversityShortCode, &r.Score,
	)
	return r, err
}

func classify(err error) error {
	wrapped := &db.Error{Op: db.OpHybridSearch, Err: err}
	if postgres.IsRateLimited(err) {
		return fmt.Errorf("%w: %w", domain.ErrRateLimited, wrapped)
	}
	return fmt.Errorf("%w: %w", domain.ErrRankingFailed, wrapped)
}
