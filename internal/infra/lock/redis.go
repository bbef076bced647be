package lock

import (
	"context"
	"log/slog"
	"time"

	"tablebook/internal/pkg/config"
	"tablebook/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, func(), error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, errs.Wrap(err, "failed to connect to redis")
	}

	cleanup := func() {
		_ = client.Close()
	}

	return client, cleanup, nil
}

// releaseScript deletes the lease only when it still carries our token,
// so an expired lease re-acquired by someone else is never released
// out from under them.
var releaseScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// Locker hands out short TTL leases keyed by contended resource. The
// lease only narrows races to a friendly error before a transaction
// opens; the database constraints remain the authority.
type Locker struct {
	client *redis.Client
}

func NewLocker(client *redis.Client) *Locker {
	return &Locker{client: client}
}

func (l *Locker) TryAcquire(ctx context.Context, key string, ttl time.Duration) (release func(), acquired bool, err error) {
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, errs.Wrap(err, "failed to acquire lease")
	}
	if !ok {
		return nil, false, nil
	}

	release = func() {
		// Release runs on the request path after commit; a failed delete
		// just leaves the lease to expire.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil && err != redis.Nil {
			slog.Warn("failed to release lease", "key", key, "error", err.Error())
		}
	}

	return release, true, nil
}
