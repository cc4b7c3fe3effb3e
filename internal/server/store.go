package server

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/kestrelhq/sharecard/pkg/card"
	"github.com/kestrelhq/sharecard/pkg/errors"
)

// Activity is the service-side record a share card is built from.
type Activity struct {
	ID            string         `json:"id" bson:"_id"`
	Title         string         `json:"title" bson:"title"`
	Category      string         `json:"category" bson:"category"`
	CreatorName   string         `json:"creator_name,omitempty" bson:"creator_name,omitempty"`
	CreatorHandle string         `json:"creator_handle,omitempty" bson:"creator_handle,omitempty"`
	PlanSummary   string         `json:"plan_summary,omitempty" bson:"plan_summary,omitempty"`
	Tasks         []card.Task    `json:"tasks" bson:"tasks"`
	ShareCounts   map[string]int `json:"share_counts,omitempty" bson:"share_counts,omitempty"`
}

// Store persists activities and their share counters.
type Store interface {
	// CreateActivity stores a new activity. An empty ID gets one assigned.
	CreateActivity(ctx context.Context, a Activity) (Activity, error)

	// GetActivity fetches an activity, or an ACTIVITY_NOT_FOUND error.
	GetActivity(ctx context.Context, id string) (Activity, error)

	// ListTasks returns an activity's task list.
	ListTasks(ctx context.Context, id string) ([]card.Task, error)

	// RecordShare increments the share counter for a platform or pack id.
	// count <= 0 counts as one share.
	RecordShare(ctx context.Context, id, platform string, count int) error

	// Close releases store resources.
	Close(ctx context.Context) error
}

func newActivityID() string { return uuid.NewString() }

// MemoryStore is an in-process Store for tests and single-binary setups.
type MemoryStore struct {
	mu         sync.RWMutex
	activities map[string]Activity
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{activities: map[string]Activity{}}
}

func (s *MemoryStore) CreateActivity(_ context.Context, a Activity) (Activity, error) {
	if a.ID == "" {
		a.ID = newActivityID()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activities[a.ID] = a
	return a, nil
}

func (s *MemoryStore) GetActivity(_ context.Context, id string) (Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.activities[id]
	if !ok {
		return Activity{}, errors.New(errors.ErrCodeActivityNotFound, "activity %q not found", id)
	}
	return a, nil
}

func (s *MemoryStore) ListTasks(ctx context.Context, id string) ([]card.Task, error) {
	a, err := s.GetActivity(ctx, id)
	if err != nil {
		return nil, err
	}
	return a.Tasks, nil
}

func (s *MemoryStore) RecordShare(_ context.Context, id, platform string, count int) error {
	if count <= 0 {
		count = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.activities[id]
	if !ok {
		return errors.New(errors.ErrCodeActivityNotFound, "activity %q not found", id)
	}
	if a.ShareCounts == nil {
		a.ShareCounts = map[string]int{}
	}
	a.ShareCounts[platform] += count
	s.activities[id] = a
	return nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }
