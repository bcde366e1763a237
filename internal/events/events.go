// Package events publishes build lifecycle notifications.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Type identifies a build event.
type Type string

const (
	BuildCompleted Type = "build.completed"
	BuildFailed    Type = "build.failed"
)

// Event describes the outcome of one build.
type Event struct {
	ID            string    `json:"id"`
	Type          Type      `json:"type"`
	BuildID       string    `json:"build_id"`
	Timestamp     time.Time `json:"timestamp"`
	DurationMS    int64     `json:"duration_ms"`
	Pages         int       `json:"pages"`
	SearchEntries int       `json:"search_entries"`
	BlogPosts     int       `json:"blog_posts"`
	Plugins       int       `json:"plugins"`
	Error         string    `json:"error,omitempty"`
}

// New returns an event of type t for buildID with a fresh ID and timestamp.
func New(t Type, buildID string) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      t,
		BuildID:   buildID,
		Timestamp: time.Now().UTC(),
	}
}

// Publisher delivers build events.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
func (NoopPublisher) Close() error                         { return nil }

// MemoryPublisher keeps published events in memory.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (m *MemoryPublisher) Publish(_ context.Context, e Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

func (m *MemoryPublisher) Close() error { return nil }

// Events returns a copy of everything published so far.
func (m *MemoryPublisher) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events...)
}
