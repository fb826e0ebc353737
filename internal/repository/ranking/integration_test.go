package ranking

import (
	"context"
	"testing"

	"github.com/kailas-cloud/marketsearch/internal/domain"
	"github.com/kailas-cloud/marketsearch/internal/domain/search/rank"
	"github.com/kailas-cloud/marketsearch/internal/repository/pgtest"
)

func TestIntegration_HybridSearch(t *testing.T) {
	pool := pgtest.StartPostgres(t)
	repo := New(pool)
	ctx := context.Background()

	t.Run("text only", func(t *testing.T) {
		got, err := repo.Rank(ctx, domain.RequestContext{}, rank.NewRequest("shawarma", nil, 10, 0.5, 0.5))
		if err != nil {
			t.Fatalf("rank: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 shawarma products, got %d: %+v", len(got), got)
		}
		for _, r := range got {
			if r.UniversityID != "uni-1" || r.CategoryName != "Food" {
				t.Errorf("unexpected joined columns: %+v", r)
			}
		}
	})

	t.Run("hybrid ranks nearest vector first", func(t *testing.T) {
		got, err := repo.Rank(ctx, domain.RequestContext{}, rank.NewRequest("butter", []float32{0, 1, 0}, 10, 0.1, 1.0))
		if err != nil {
			t.Fatalf("rank: %v", err)
		}
		if len(got) == 0 || got[0].ID != "p-3" {
			t.Fatalf("expected p-3 first, got %+v", got)
		}
	})

	t.Run("inactive products excluded", func(t *testing.T) {
		got, err := repo.Rank(ctx, domain.RequestContext{}, rank.NewRequest("rice cooker", nil, 10, 1, 0))
		if err != nil {
			t.Fatalf("rank: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected no active matches, got %+v", got)
		}
	})

	t.Run("match count caps rows", func(t *testing.T) {
		got, err := repo.Rank(ctx, domain.RequestContext{}, rank.NewRequest("shea butter", nil, 1, 1, 0))
		if err != nil {
			t.Fatalf("rank: %v", err)
		}
		if len(got) != 1 {
			t.Errorf("expected 1 row, got %d", len(got))
		}
	})
}
