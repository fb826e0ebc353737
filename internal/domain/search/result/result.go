package result

// Result is one candidate product returned by the ranking backend.
// Score ordering belongs to the backend; callers must not re-sort.
type Result struct {
	ID                  string
	StoreID             string
	Title               string
	Description         string
	Price               float64
	ImageURL            string
	CategoryID          string
	CategoryName        string
	StockQuantity       int
	IsActive            bool
	StoreName           string
	UniversityID        string
	UniversityShortCode string
	Score               float64
}
