package telemetry

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Repository is the append-only activity log behind /api/stats.
type Repository interface {
	RecordEvent(ctx context.Context, eventType EventType, metadata EventMetadata) error
	GetEvents(ctx context.Context, since time.Time, eventTypes []EventType) ([]Event, error)
	Clear(ctx context.Context) error
}

type MemoryRepository struct {
	mu     sync.RWMutex
	events []Event
	nextID int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		events: make([]Event, 0),
		nextID: 1,
	}
}

func (r *MemoryRepository) RecordEvent(ctx context.Context, eventType EventType, metadata EventMetadata) error {
	_ = ctx

	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, Event{
		ID:        r.nextID,
		Type:      eventType,
		Timestamp: time.Now(),
		Metadata:  string(metadataJSON),
	})
	r.nextID++

	return nil
}

// GetEvents returns events at or after since; an empty eventTypes slice
// means no type filter.
func (r *MemoryRepository) GetEvents(ctx context.Context, since time.Time, eventTypes []EventType) ([]Event, error) {
	_ = ctx

	typeFilter := make(map[EventType]bool, len(eventTypes))
	for _, t := range eventTypes {
		typeFilter[t] = true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Event, 0)
	for _, event := range r.events {
		if event.Timestamp.Before(since) {
			continue
		}
		if len(eventTypes) > 0 && !typeFilter[event.Type] {
			continue
		}
		result = append(result, event)
	}

	return result, nil
}

func (r *MemoryRepository) Clear(ctx context.Context) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = make([]Event, 0)
	r.nextID = 1

	return nil
}
