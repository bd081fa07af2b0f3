package store

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/FredworkLemmas/ozwald-sub000/internal/catalog"
)

// Client is a thin wrapper over a valkey-go connection, scoped to the two
// documents the core cares about: the desired-state list and the footprint
// queue. It owns the non-blocking lock discipline shared by both (§4.2,
// §4.3).
type Client struct {
	rdb valkey.Client
}

// NewClient dials the cache backend named by a provisioner's ProvisionerCacheParams.
func NewClient(params catalog.ProvisionerCacheParams) (*Client, error) {
	addr := fmt.Sprintf("%s:%d", params.Host, params.Port)
	opt := valkey.ClientOption{
		InitAddress: []string{addr},
		SelectDB:    params.DB,
	}
	if params.Password != "" {
		opt.Password = params.Password
	}

	rdb, err := valkey.NewClient(opt)
	if err != nil {
		return nil, fmt.Errorf("connect to cache at %s: %w", addr, err)
	}

	return &Client{rdb: rdb}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() {
	c.rdb.Close()
}

const lockTTL = 1 * time.Second

// withLock acquires a non-blocking lock on lockKey, runs fn, and always
// attempts to release the lock afterward. It returns WriteCollision if the
// lock is already held, and LockError for any other lock-subsystem fault.
func (c *Client) withLock(ctx context.Context, lockKey string, fn func(ctx context.Context) error) error {
	lockCtx, cancel := context.WithTimeout(ctx, lockTTL)
	defer cancel()

	token := newLockToken()
	setCmd := c.rdb.B().Set().Key(lockKey).Value(token).Nx().Px(lockTTL.Milliseconds()).Build()
	resp := c.rdb.Do(lockCtx, setCmd)
	if err := resp.Error(); err != nil {
		if valkey.IsValkeyNil(err) {
			return &WriteCollision{LockKey: lockKey}
		}
		return &LockError{LockKey: lockKey, Cause: err}
	}

	defer c.releaseLock(context.Background(), lockKey, token)

	return fn(ctx)
}

// releaseLock deletes the lock key only if it still holds our token, via a
// small Lua script, matching the compare-then-delete semantics of a
// redis-py distributed lock's release().
func (c *Client) releaseLock(ctx context.Context, lockKey, token string) {
	const script = `if redis.call("GET", KEYS[1]) == ARGV[1] then return redis.call("DEL", KEYS[1]) else return 0 end`
	cmd := c.rdb.B().Eval().Script(script).Numkeys(1).Key(lockKey).Arg(token).Build()
	c.rdb.Do(ctx, cmd)
}

var lockTokenSeq uint64

// newLockToken produces a per-acquisition token used to distinguish this
// holder's lock from a future holder's after expiry. It does not need to be
// cryptographically random, only unique per process lifetime.
func newLockToken() string {
	lockTokenSeq++
	return fmt.Sprintf("%d-%d", time.Now().UnixNano(), lockTokenSeq)
}
