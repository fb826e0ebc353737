package product

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kailas-cloud/marketsearch/internal/db"
	"github.com/kailas-cloud/marketsearch/internal/domain"
	"github.com/kailas-cloud/marketsearch/internal/domain/recommendation"
)

// Title lookup for autocomplete. The pattern arrives escaped with '\'.
const titleLookupSQL = `
SELECT p.id, p.title, c.name, p.image_url, p.price
FROM products p
LEFT JOIN categories c ON c.id = p.category_id
WHERE p.title ILIKE $1 ESCAPE '\'
  AND p.is_active
  AND p.stock_quantity > 0
LIMIT $2`

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repo implements usecase/recommendation.Lookup over the products table.
type Repo struct {
	q querier
}

// New creates a product repository.
func New(q querier) *Repo {
	return &Repo{q: q}
}

// FindByTitle returns active, in-stock products whose title matches likePattern.
func (r *Repo) FindByTitle(
	ctx context.Context, _ domain.RequestContext, likePattern string, limit int,
) ([]recommendation.Recommendation, error) {
	rows, err := r.q.Query(ctx, titleLookupSQL, likePattern, limit)
	if err != nil {
		return nil, &db.Error{Op: db.OpTitleLookup, Err: err}
	}

	recs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (recommendation.Recommendation, error) {
		var (
			rec      recommendation.Recommendation
			imageURL *string
		)
		if err := row.Scan(&rec.ID, &rec.Title, &rec.CategoryName, &imageURL, &rec.Price); err != nil {
			return rec, fmt.Errorf("scan: %w", err)
		}
		if imageURL != nil {
			rec.ImageURL = *imageURL
		}
		return rec, nil
	})
	if err != nil {
		return nil, &db.Error{Op: db.OpTitleLookup, Err: err}
	}
	return recs, nil
}
