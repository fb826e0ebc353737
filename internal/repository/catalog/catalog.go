// Package catalog is an in-process product catalog loaded from a YAML seed file.
// It backs the memory driver: a local text + cosine ranker and a LIKE title lookup.
package catalog

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/marketsearch/internal/domain/recommendation"
	"github.com/kailas-cloud/marketsearch/internal/domain/search/result"
)

// Item is one catalog product as written in the seed file.
type Item struct {
	ID                  string    `yaml:"id"`
	StoreID             string    `yaml:"store_id"`
	Title               string    `yaml:"title"`
	Description         string    `yaml:"description"`
	Price               float64   `yaml:"price"`
	ImageURL            string    `yaml:"image_url"`
	CategoryID          string    `yaml:"category_id"`
	CategoryName        string    `yaml:"category_name"`
	StockQuantity       int       `yaml:"stock_quantity"`
	IsActive            bool      `yaml:"is_active"`
	StoreName           string    `yaml:"store_name"`
	UniversityID        string    `yaml:"university_id"`
	UniversityShortCode string    `yaml:"university_short_code"`
	Embedding           []float32 `yaml:"embedding"`
}

type seedFile struct {
	Products []Item `yaml:"products"`
}

// Catalog is immutable after construction and safe for concurrent use.
type Catalog struct {
	items  []Item
	tokens []docTokens
}

// New builds a catalog over items, keeping their order.
func New(items []Item) *Catalog {
	c := &Catalog{
		items:  make([]Item, len(items)),
		tokens: make([]docTokens, len(items)),
	}
	copy(c.items, items)
	for i := range c.items {
		c.tokens[i] = tokenizeDoc(c.items[i].Title, c.items[i].Description)
	}
	return c
}

// Load reads a YAML seed file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes seed YAML.
func Parse(data []byte) (*Catalog, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	seen := make(map[string]struct{}, len(f.Products))
	for i, it := range f.Products {
		if it.ID == "" {
			return nil, fmt.Errorf("product %d: id is required", i)
		}
		if _, dup := seen[it.ID]; dup {
			return nil, fmt.Errorf("product %s: duplicate id", it.ID)
		}
		seen[it.ID] = struct{}{}
	}
	return New(f.Products), nil
}

// Len returns the number of products.
func (c *Catalog) Len() int { return len(c.items) }

// Ping always succeeds; it lets the catalog stand in for a database in health checks.
func (c *Catalog) Ping(ctx context.Context) error { return ctx.Err() }

func (it *Item) toResult(score float64) result.Result {
	return result.Result{
		ID:                  it.ID,
		StoreID:             it.StoreID,
		Title:               it.Title,
		Description:         it.Description,
		Price:               it.Price,
		ImageURL:            it.ImageURL,
		CategoryID:          it.CategoryID,
		CategoryName:        it.CategoryName,
		StockQuantity:       it.StockQuantity,
		IsActive:            it.IsActive,
		StoreName:           it.StoreName,
		UniversityID:        it.UniversityID,
		UniversityShortCode: it.UniversityShortCode,
		Score:               score,
	}
}

func (it *Item) toRecommendation() recommendation.Recommendation {
	rec := recommendation.Recommendation{
		ID:       it.ID,
		Title:    it.Title,
		ImageURL: it.ImageURL,
		Price:    it.Price,
	}
	if it.CategoryName != "" {
		name := it.CategoryName
		rec.CategoryName = &name
	}
	return rec
}
