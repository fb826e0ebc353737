package db

// Op constants name the failing backend operation for error context.
const (
	OpPing         = "PING"
	OpIncr         = "INCR"
	OpExpire       = "EXPIRE"
	OpHybridSearch = "hybrid_search"
	OpTitleLookup  = "title_lookup"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
