package store

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"
)

const runnerLogsTTL = 48 * time.Hour

func runnerLogsKey(containerName string) string {
	return "runner_logs:" + containerName
}

// AppendRunnerLogLine pushes one log line onto the per-container list (§6.2),
// resetting its 48-hour TTL on every write.
func (c *Client) AppendRunnerLogLine(ctx context.Context, containerName, line string) error {
	key := runnerLogsKey(containerName)
	pushCmd := c.rdb.B().Rpush().Key(key).Element(line).Build()
	if err := c.rdb.Do(ctx, pushCmd).Error(); err != nil {
		return fmt.Errorf("append log line to %s: %w", key, err)
	}
	expireCmd := c.rdb.B().Expire().Key(key).Seconds(int64(runnerLogsTTL.Seconds())).Build()
	return c.rdb.Do(ctx, expireCmd).Error()
}

// RunnerLogLines returns up to `last` most recent log lines for a container,
// or the first `top` lines if top > 0, matching the /services/logs/{service}
// query parameters (§6.3).
func (c *Client) RunnerLogLines(ctx context.Context, containerName string, top, last int) ([]string, error) {
	key := runnerLogsKey(containerName)

	var start, stop int64
	switch {
	case top > 0:
		start, stop = 0, int64(top-1)
	case last > 0:
		start, stop = -int64(last), -1
	default:
		start, stop = 0, -1
	}

	cmd := c.rdb.B().Lrange().Key(key).Start(start).Stop(stop).Build()
	lines, err := c.rdb.Do(ctx, cmd).AsStrSlice()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("read logs for %s: %w", key, err)
	}
	return lines, nil
}
