package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// RequestContext carries the per-request caller identity explicitly through every
// usecase and repository call. It is built once by the transport layer and never mutated.
type RequestContext struct {
	// RequestID correlates log lines of one request.
	RequestID string
	// ClientIP is the caller address used as the rate limit key.
	ClientIP string
	// UserToken is the end-user bearer token forwarded by the marketplace frontend.
	// Empty for anonymous callers and in-process SDK callers.
	UserToken string
}

// RateLimitKey returns the identity used for throttling: a digest of the user token
// when present, the client address otherwise. The raw token never reaches the store.
func (rc RequestContext) RateLimitKey() string {
	if rc.UserToken != "" {
		h := sha256.Sum256([]byte(rc.UserToken))
		return "user:" + hex.EncodeToString(h[:8])
	}
	if rc.ClientIP != "" {
		return "ip:" + rc.ClientIP
	}
	return "anonymous"
}
