// Package events publishes job change notifications to Redis pub/sub for
// the Gateway SSE forwarder.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Channel is the Redis channel every job change is published on.
const Channel = "EVENT_JOB_CHANGED"

// JobChanged is the JSON payload published on Channel.
type JobChanged struct {
	EventID string `json:"eventId"`
	Type    string `json:"type"`
	JobID   int    `json:"jobId"`
	At      string `json:"at"`
}

// Publisher implements jobs.Notifier on top of a Redis client.
type Publisher struct {
	rdb *redis.Client
	now func() time.Time
}

// NewPublisher returns a Publisher writing to rdb.
func NewPublisher(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb, now: time.Now}
}

// Notify publishes one JobChanged event.
func (p *Publisher) Notify(ctx context.Context, eventType string, jobID int) error {
	payload, err := json.Marshal(newJobChanged(eventType, jobID, p.now()))
	if err != nil {
		return fmt.Errorf("marshal %s: %w", eventType, err)
	}
	if err := p.rdb.Publish(ctx, Channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	return nil
}

func newJobChanged(eventType string, jobID int, at time.Time) JobChanged {
	return JobChanged{
		EventID: uuid.NewString(),
		Type:    eventType,
		JobID:   jobID,
		At:      at.UTC().Format(time.RFC3339),
	}
}
