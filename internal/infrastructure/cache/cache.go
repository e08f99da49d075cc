// Package cache provides the report cache implementations: a Redis-backed
// cache with generation-counter invalidation and a noop fallback used when
// no Redis address is configured.
package cache

import (
	"context"
	"time"
)

// NoopReportCache never hits; every report is recomputed from the stores.
type NoopReportCache struct{}

// NewNoopReportCache returns a cache that never stores anything.
func NewNoopReportCache() NoopReportCache {
	return NoopReportCache{}
}

func (NoopReportCache) Get(_ context.Context, _ string) ([]byte, bool, error) {
	return nil, false, nil
}

func (NoopReportCache) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error {
	return nil
}

func (NoopReportCache) Invalidate(_ context.Context) error {
	return nil
}
