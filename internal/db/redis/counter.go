package redis

import (
	"context"
	"time"

	"github.com/kailas-cloud/marketsearch/internal/db"
)

// IncrWithExpire pipelines INCR and EXPIRE NX so the window starts on the first hit
// and later hits never extend it.
func (s *Store) IncrWithExpire(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	secs := int64((ttl + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	res := s.client.DoMulti(ctx,
		s.b().Incr().Key(key).Build(),
		s.b().Expire().Key(key).Seconds(secs).Nx().Build(),
	)

	n, err := res[0].AsInt64()
	if err != nil {
		return 0, &db.Error{Op: db.OpIncr, Err: err}
	}
	if err := res[1].Error(); err != nil {
		return 0, &db.Error{Op: db.OpExpire, Err: err}
	}
	return n, nil
}
