package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/FredworkLemmas/ozwald-sub000/internal/model"
)

const (
	footprintRequestsKey     = "footprint_requests"
	footprintRequestsLockKey = "footprint_requests:lock"
)

// GetAllFootprintRequests reads the full footprint queue (§4.3). An absent
// key returns an empty list.
func (c *Client) GetAllFootprintRequests(ctx context.Context) ([]model.FootprintRequest, error) {
	cmd := c.rdb.B().Get().Key(footprintRequestsKey).Build()
	raw, err := c.rdb.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return []model.FootprintRequest{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", footprintRequestsKey, err)
	}

	var requests []model.FootprintRequest
	if err := json.Unmarshal([]byte(raw), &requests); err != nil {
		return nil, fmt.Errorf("decode %s: %w", footprintRequestsKey, err)
	}
	return requests, nil
}

// SetAllFootprintRequests overwrites the footprint queue under the queue's
// own lock key.
func (c *Client) SetAllFootprintRequests(ctx context.Context, requests []model.FootprintRequest) error {
	if requests == nil {
		requests = []model.FootprintRequest{}
	}
	data, err := json.Marshal(requests)
	if err != nil {
		return fmt.Errorf("encode %s: %w", footprintRequestsKey, err)
	}

	return c.withLock(ctx, footprintRequestsLockKey, func(ctx context.Context) error {
		cmd := c.rdb.B().Set().Key(footprintRequestsKey).Value(string(data)).Build()
		return c.rdb.Do(ctx, cmd).Error()
	})
}

// AppendFootprintRequest adds a new request to the queue, read-modify-write
// under lock so the append is not lost to a concurrent writer.
func (c *Client) AppendFootprintRequest(ctx context.Context, request model.FootprintRequest) error {
	return c.withLock(ctx, footprintRequestsLockKey, func(ctx context.Context) error {
		requests, err := c.getAllFootprintRequestsNoLock(ctx)
		if err != nil {
			return err
		}
		requests = append(requests, request)
		return c.setAllFootprintRequestsNoLock(ctx, requests)
	})
}

// UpdateFootprintRequestByID replaces the request matching requestID in
// place. It returns a *NotFoundError if no entry matches (§4.3).
func (c *Client) UpdateFootprintRequestByID(ctx context.Context, requestID string, updated model.FootprintRequest) error {
	return c.withLock(ctx, footprintRequestsLockKey, func(ctx context.Context) error {
		requests, err := c.getAllFootprintRequestsNoLock(ctx)
		if err != nil {
			return err
		}

		found := false
		for i := range requests {
			if requests[i].RequestID == requestID {
				requests[i] = updated
				found = true
				break
			}
		}
		if !found {
			return &NotFoundError{Kind: "footprint request", ID: requestID}
		}

		return c.setAllFootprintRequestsNoLock(ctx, requests)
	})
}

// RemoveFootprintRequestByID deletes the request matching requestID, if
// present; removing an unknown ID is a no-op (the footprinter calls this
// unconditionally after completing or aborting a job).
func (c *Client) RemoveFootprintRequestByID(ctx context.Context, requestID string) error {
	return c.withLock(ctx, footprintRequestsLockKey, func(ctx context.Context) error {
		requests, err := c.getAllFootprintRequestsNoLock(ctx)
		if err != nil {
			return err
		}

		kept := requests[:0]
		for _, r := range requests {
			if r.RequestID != requestID {
				kept = append(kept, r)
			}
		}
		return c.setAllFootprintRequestsNoLock(ctx, kept)
	})
}

func (c *Client) getAllFootprintRequestsNoLock(ctx context.Context) ([]model.FootprintRequest, error) {
	cmd := c.rdb.B().Get().Key(footprintRequestsKey).Build()
	raw, err := c.rdb.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return []model.FootprintRequest{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", footprintRequestsKey, err)
	}
	var requests []model.FootprintRequest
	if err := json.Unmarshal([]byte(raw), &requests); err != nil {
		return nil, fmt.Errorf("decode %s: %w", footprintRequestsKey, err)
	}
	return requests, nil
}

func (c *Client) setAllFootprintRequestsNoLock(ctx context.Context, requests []model.FootprintRequest) error {
	if requests == nil {
		requests = []model.FootprintRequest{}
	}
	data, err := json.Marshal(requests)
	if err != nil {
		return fmt.Errorf("encode %s: %w", footprintRequestsKey, err)
	}
	cmd := c.rdb.B().Set().Key(footprintRequestsKey).Value(string(data)).Build()
	return c.rdb.Do(ctx, cmd).Error()
}
