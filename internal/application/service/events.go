package service

import "context"

// EventPublisher notifies downstream consumers that a handle's persisted
// record changed. Best-effort: aggregation does not fail on publish errors.
type EventPublisher interface {
	PublishProfileAggregated(ctx context.Context, handle string) error
}
