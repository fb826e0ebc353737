package chi

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/marketsearch/internal/domain"
	logpkg "github.com/kailas-cloud/marketsearch/internal/logger"
)

// UserTokenHeader carries the end-user bearer token forwarded by the marketplace frontend.
const UserTokenHeader = "X-User-Token"

const recommendationsPath = "/api/v1/recommendations"

type requestContextKey struct{}

// JSONRecoverer recovers panics and answers with the failure envelope of the
// endpoint that panicked.
func JSONRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}
					logpkg.FromContextOr(r.Context(), logger).Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					writeJSON(w, http.StatusInternalServerError, panicEnvelope(r))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func panicEnvelope(r *http.Request) any {
	if strings.HasPrefix(r.URL.Path, recommendationsPath) {
		return failedRecommendations(msgRecommendFailed)
	}
	return failedSearch(msgSearchUnexpected)
}

// WideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func WideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi RequestID runs first
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}

// RequestContextMiddleware builds the domain.RequestContext once per request.
// Mount it after chi's RequestID and RealIP.
func RequestContextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc := domain.RequestContext{
			RequestID: chiMiddleware.GetReqID(r.Context()),
			ClientIP:  clientIP(r.RemoteAddr),
			UserToken: r.Header.Get(UserTokenHeader),
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestContextKey{}, rc)))
	})
}

// RequestContextFrom returns the request context stored by RequestContextMiddleware,
// or an anonymous one.
func RequestContextFrom(ctx context.Context) domain.RequestContext {
	if rc, ok := ctx.Value(requestContextKey{}).(domain.RequestContext); ok {
		return rc
	}
	return domain.RequestContext{RequestID: chiMiddleware.GetReqID(ctx)}
}

// clientIP strips the port from RemoteAddr. RealIP may already have replaced it with a bare address.
func clientIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}

// MaxBodyBytes caps request bodies; form parsing then fails and fields read as empty.
func MaxBodyBytes(n int64) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if n > 0 && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}
