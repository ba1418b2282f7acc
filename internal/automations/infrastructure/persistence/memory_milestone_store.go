package persistence

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryMilestoneStore is an in-process milestone store. Markers are lost on
// restart; used when no Redis is configured, and in tests.
type MemoryMilestoneStore struct {
	mu    sync.Mutex
	fired map[string]struct{}
}

// NewMemoryMilestoneStore creates an empty in-memory milestone store.
func NewMemoryMilestoneStore() *MemoryMilestoneStore {
	return &MemoryMilestoneStore{fired: make(map[string]struct{})}
}

func memoryMilestoneKey(ruleID uuid.UUID, platform string, milestone int64) string {
	return fmt.Sprintf("%s|%s|%d", ruleID, platform, milestone)
}

// HasFired reports whether the milestone already triggered.
func (s *MemoryMilestoneStore) HasFired(_ context.Context, ruleID uuid.UUID, platform string, milestone int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.fired[memoryMilestoneKey(ruleID, platform, milestone)]
	return ok, nil
}

// MarkFired records that the milestone triggered.
func (s *MemoryMilestoneStore) MarkFired(_ context.Context, ruleID uuid.UUID, platform string, milestone int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fired[memoryMilestoneKey(ruleID, platform, milestone)] = struct{}{}
	return nil
}
