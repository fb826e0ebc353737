package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes Postgres and poolers use when refusing work under load.
const (
	codeTooManyConnections         = "53300"
	codeConfigurationLimitExceeded = "53400"
)

var rateLimitMarkers = []string{"rate limit", "too many requests"}

// IsRateLimited reports whether err signals throttling rather than a query failure.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeTooManyConnections, codeConfigurationLimitExceeded:
			return true
		}
	}
	msg := strings.ToLower(err.Error())
	for _, m := range rateLimitMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
