package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/FredworkLemmas/ozwald-sub000/internal/model"
)

const (
	activeServicesKey     = "active_services"
	activeServicesLockKey = "active_services:lock"
)

// GetInstances reads the desired-state list (§4.2). An absent key returns an
// empty list, not an error.
func (c *Client) GetInstances(ctx context.Context) ([]model.Instance, error) {
	cmd := c.rdb.B().Get().Key(activeServicesKey).Build()
	raw, err := c.rdb.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return []model.Instance{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", activeServicesKey, err)
	}

	var instances []model.Instance
	if err := json.Unmarshal([]byte(raw), &instances); err != nil {
		return nil, fmt.Errorf("decode %s: %w", activeServicesKey, err)
	}
	return instances, nil
}

// SetInstances serializes and writes the desired-state list under a
// non-blocking write lock (§4.2). Callers that must persist a computed
// update should wrap this in WithRetry.
func (c *Client) SetInstances(ctx context.Context, instances []model.Instance) error {
	if instances == nil {
		instances = []model.Instance{}
	}
	data, err := json.Marshal(instances)
	if err != nil {
		return fmt.Errorf("encode %s: %w", activeServicesKey, err)
	}

	return c.withLock(ctx, activeServicesLockKey, func(ctx context.Context) error {
		cmd := c.rdb.B().Set().Key(activeServicesKey).Value(string(data)).Build()
		return c.rdb.Do(ctx, cmd).Error()
	})
}
