package jobs_test

import (
	"context"
	"fmt"
	"sync"
)

// recorder is a jobs.Notifier that remembers every event.
type recorder struct {
	mu     sync.Mutex
	events []string
	err    error
}

func (r *recorder) Notify(_ context.Context, eventType string, jobID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, fmt.Sprintf("%s:%d", eventType, jobID))
	return r.err
}
