package marketsearch

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func testItems() []CatalogItem {
	return []CatalogItem{
		{
			ID: "p-1", StoreID: "s-1", Title: "Chicken shawarma wrap", Description: "Spicy shawarma",
			Price: 2500, CategoryID: "cat-food", CategoryName: "Food", StockQuantity: 10, IsActive: true,
			UniversityID: "uni-1", UniversityShortCode: "UNILAG", Embedding: []float32{1, 0, 0},
		},
		{
			ID: "p-2", StoreID: "s-2", Title: "Shea butter", Description: "Raw shea butter",
			Price: 1500, CategoryID: "cat-beauty", CategoryName: "Beauty", StockQuantity: 5, IsActive: true,
			UniversityID: "uni-2", UniversityShortCode: "OAU", Embedding: []float32{0, 1, 0},
		},
		{
			ID: "p-3", StoreID: "s-2", Title: "Shea butter jumbo", Description: "Shea butter tub",
			Price: 6000, CategoryID: "cat-beauty", CategoryName: "Beauty", StockQuantity: 0, IsActive: true,
			UniversityID: "uni-2", UniversityShortCode: "OAU", Embedding: []float32{0, 1, 0},
		},
		{
			ID: "p-4", StoreID: "s-3", Title: "Rice cooker", Description: "Old shea-free rice cooker",
			Price: 9000, CategoryID: "cat-home", CategoryName: "Home", StockQuantity: 3, IsActive: false,
			UniversityID: "uni-1", UniversityShortCode: "UNILAG",
		},
	}
}

func newTestClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	c, err := New(context.Background(), append([]Option{WithCatalog(testItems())}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

type stubEmbedder struct {
	vec   []float32
	err   error
	calls int
}

func (s *stubEmbedder) Embed(context.Context, string) ([]float32, error) {
	s.calls++
	return s.vec, s.err
}

func TestNew_NoSource(t *testing.T) {
	if _, err := New(context.Background()); err == nil {
		t.Fatal("expected error without a catalog source")
	}
}

func TestNew_TwoSources(t *testing.T) {
	_, err := New(context.Background(), WithCatalog(testItems()), WithCatalogFile("catalog.yaml"))
	if err == nil {
		t.Fatal("expected error with two catalog sources")
	}
}

func TestNew_CatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	seed := []byte("products:\n  - id: p-9\n    title: Snake case mug\n    price: 800\n    stock_quantity: 2\n    is_active: true\n")
	if err := os.WriteFile(path, seed, 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := New(context.Background(), WithCatalogFile(path))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	resp, err := c.Search(context.Background(), SearchParams{Query: "mug"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Products) != 1 || resp.Products[0].ID != "p-9" {
		t.Errorf("products: got %+v", resp.Products)
	}
}

func TestNew_CatalogFileMissing(t *testing.T) {
	if _, err := New(context.Background(), WithCatalogFile(filepath.Join(t.TempDir(), "nope.yaml"))); err == nil {
		t.Fatal("expected error for missing seed file")
	}
}

func TestNew_InvalidDSN(t *testing.T) {
	if _, err := New(context.Background(), WithPostgres("postgres://%zz")); err == nil {
		t.Fatal("expected error for malformed dsn")
	}
}

func TestSearch_TextOnly(t *testing.T) {
	c := newTestClient(t)

	resp, err := c.Search(context.Background(), SearchParams{Query: "  shea butter ", Limit: 10})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Query != "shea butter" {
		t.Errorf("query: got %q", resp.Query)
	}
	if len(resp.Products) == 0 {
		t.Fatal("expected shea butter hits")
	}
	for _, p := range resp.Products {
		if p.ID == "p-4" {
			t.Error("inactive product must not be ranked")
		}
	}
	if resp.Pagination.Page != 1 || resp.Pagination.Limit != 10 {
		t.Errorf("pagination: got %+v", resp.Pagination)
	}
}

func TestSearch_HugePageIsEmpty(t *testing.T) {
	c := newTestClient(t)

	resp, err := c.Search(context.Background(), SearchParams{Query: "shea butter", Page: math.MaxInt, Limit: 100})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Products) != 0 {
		t.Errorf("expected empty page, got %d products", len(resp.Products))
	}
	if resp.Pagination.Page != math.MaxInt || resp.Pagination.Total == 0 || resp.Pagination.TotalPages != 1 {
		t.Errorf("pagination: got %+v", resp.Pagination)
	}
}

func TestSearch_EmptyQueryShortCircuits(t *testing.T) {
	emb := &stubEmbedder{vec: []float32{1, 0, 0}}
	c := newTestClient(t, WithEmbedder(emb))

	resp, err := c.Search(context.Background(), SearchParams{Query: "   "})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Products == nil || len(resp.Products) != 0 {
		t.Errorf("products: got %v, want empty non-nil", resp.Products)
	}
	if resp.Pagination.Total != 0 || resp.Pagination.TotalPages != 0 {
		t.Errorf("pagination: got %+v", resp.Pagination)
	}
	if emb.calls != 0 {
		t.Errorf("embedder called %d times for empty query", emb.calls)
	}
}

func TestSearch_PriceFilter(t *testing.T) {
	c := newTestClient(t)
	maxPrice := 2000.0

	resp, err := c.Search(context.Background(), SearchParams{Query: "shea", MaxPrice: &maxPrice})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, p := range resp.Products {
		if p.Price > maxPrice {
			t.Errorf("product %s price %v exceeds %v", p.ID, p.Price, maxPrice)
		}
	}
}

func TestSearch_EmbedderFailureDegrades(t *testing.T) {
	emb := &stubEmbedder{err: errors.New("provider down")}
	c := newTestClient(t, WithEmbedder(emb))

	resp, err := c.Search(context.Background(), SearchParams{Query: "shawarma"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if emb.calls == 0 {
		t.Error("embedder not called")
	}
	if len(resp.Products) != 1 || resp.Products[0].ID != "p-1" {
		t.Errorf("products: got %+v", resp.Products)
	}
}

func TestSearch_SemanticSignal(t *testing.T) {
	emb := &stubEmbedder{vec: []float32{0, 1, 0}}
	c := newTestClient(t, WithEmbedder(emb))
	ft, sem := 0.0, 1.0

	resp, err := c.Search(context.Background(), SearchParams{
		Query: "moisturiser", FullTextWeight: &ft, SemanticWeight: &sem,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	// p-2 and p-3 tie on cosine 1 and keep catalog order.
	if len(resp.Products) != 2 || resp.Products[0].ID != "p-2" || resp.Products[1].ID != "p-3" {
		t.Errorf("products: got %+v", resp.Products)
	}
}

func TestRecommend_SkipsOutOfStock(t *testing.T) {
	c := newTestClient(t)

	recs, err := c.Recommend(context.Background(), "SHEA", 0)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(recs) != 1 || recs[0].ID != "p-2" {
		t.Errorf("recs: got %+v", recs)
	}
	if recs[0].CategoryName == nil || *recs[0].CategoryName != "Beauty" {
		t.Errorf("category: got %v", recs[0].CategoryName)
	}
}

func TestRecommend_TooShort(t *testing.T) {
	c := newTestClient(t)

	recs, err := c.Recommend(context.Background(), "s", 5)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if recs == nil || len(recs) != 0 {
		t.Errorf("recs: got %v, want empty", recs)
	}
}

func TestPing(t *testing.T) {
	c := newTestClient(t)
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Ping(ctx); err == nil {
		t.Error("expected error for canceled context")
	}
}

func TestClose_Idempotent(t *testing.T) {
	closed := 0
	c := &Client{closers: []func(){func() { closed++ }}}
	c.Close()
	c.Close()
	if closed != 1 {
		t.Errorf("closers ran %d times, want 1", closed)
	}
}

func TestWithPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := newTestClient(t, WithPrometheus(reg))

	if _, err := c.Search(context.Background(), SearchParams{Query: "shea"}); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if _, err := c.Recommend(context.Background(), "sh", 3); err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if got := testutil.ToFloat64(c.obs.metrics.operations.WithLabelValues("search", "ok")); got != 1 {
		t.Errorf("search ok: got %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.obs.metrics.operations.WithLabelValues("recommend", "ok")); got != 1 {
		t.Errorf("recommend ok: got %v, want 1", got)
	}

	// A second client on the same registry reuses the collectors.
	c2 := newTestClient(t, WithPrometheus(reg))
	if c2.obs.metrics.operations != c.obs.metrics.operations {
		t.Error("expected collectors to be reused")
	}
}

func TestSearchParams_ToQuery(t *testing.T) {
	minPrice, ft := 100.5, 0.25
	q := SearchParams{
		Query: "mug", CategoryID: "cat-1", MinPrice: &minPrice, Page: 3, Limit: 500, FullTextWeight: &ft,
	}.toQuery()

	if q.Page() != 3 {
		t.Errorf("page: got %d", q.Page())
	}
	if q.Limit() != 100 {
		t.Errorf("limit: got %d, want clamped 100", q.Limit())
	}
	if q.MinPrice() == nil || *q.MinPrice() != 100.5 {
		t.Errorf("minPrice: got %v", q.MinPrice())
	}
	if q.MaxPrice() != nil {
		t.Errorf("maxPrice: got %v, want nil", *q.MaxPrice())
	}
	if q.FullTextWeight() != 0.25 || q.SemanticWeight() != 0.5 {
		t.Errorf("weights: got %v/%v", q.FullTextWeight(), q.SemanticWeight())
	}

	defaults := SearchParams{Query: "mug"}.toQuery()
	if defaults.Page() != 1 || defaults.Limit() != 20 {
		t.Errorf("defaults: got page %d limit %d", defaults.Page(), defaults.Limit())
	}
}
