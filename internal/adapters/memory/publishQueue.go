package memory

import (
	"context"
	"sort"
	"sync"
	"time"
)

// PublishQueueMemory is the single-process publish schedule used when Redis is not configured.
type PublishQueueMemory struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

func NewPublishQueueMemory() *PublishQueueMemory {
	return &PublishQueueMemory{entries: make(map[string]time.Time)}
}

func (q *PublishQueueMemory) Schedule(ctx context.Context, postID string, at time.Time) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries[postID] = at
	return nil
}

func (q *PublishQueueMemory) Due(ctx context.Context, now time.Time, limit int64) ([]string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var due []string
	for id, at := range q.entries {
		if !at.After(now) {
			due = append(due, id)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		ai, aj := q.entries[due[i]], q.entries[due[j]]
		if ai.Equal(aj) {
			return due[i] < due[j]
		}
		return ai.Before(aj)
	})
	if limit > 0 && int64(len(due)) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (q *PublishQueueMemory) Remove(ctx context.Context, postID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.entries, postID)
	return nil
}
