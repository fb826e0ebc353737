package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsRateLimited(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"too many connections", &pgconn.PgError{Code: "53300"}, true},
		{"configuration limit", &pgconn.PgError{Code: "53400"}, true},
		{"wrapped pg error", fmt.Errorf("query: %w", &pgconn.PgError{Code: "53300"}), true},
		{"undefined function", &pgconn.PgError{Code: "42883", Message: "function hybrid_search does not exist"}, false},
		{"message rate limit", errors.New("upstream: Rate limit exceeded"), true},
		{"message too many requests", errors.New("429 Too Many Requests"), true},
		{"plain failure", errors.New("connection reset by peer"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRateLimited(tt.err); got != tt.want {
				t.Errorf("IsRateLimited(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestNewPool_Validation(t *testing.T) {
	if _, err := NewPool(t.Context(), Config{}); err == nil {
		t.Error("expected error for empty dsn")
	}
	if _, err := NewPool(t.Context(), Config{DSN: "postgres://%zz"}); err == nil {
		t.Error("expected error for malformed dsn")
	}
}
