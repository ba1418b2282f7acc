package persistence

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisMilestoneStore tracks fired follower milestones in a Redis set per
// rule and platform, so the marker survives engine restarts.
type RedisMilestoneStore struct {
	client *redis.Client
}

// NewRedisMilestoneStore creates a new Redis milestone store.
func NewRedisMilestoneStore(client *redis.Client) *RedisMilestoneStore {
	return &RedisMilestoneStore{client: client}
}

func milestoneKey(ruleID uuid.UUID, platform string) string {
	return fmt.Sprintf("automation:rule:%s:milestones:%s", ruleID, platform)
}

// HasFired reports whether the milestone already triggered.
func (s *RedisMilestoneStore) HasFired(ctx context.Context, ruleID uuid.UUID, platform string, milestone int64) (bool, error) {
	return s.client.SIsMember(ctx, milestoneKey(ruleID, platform), strconv.FormatInt(milestone, 10)).Result()
}

// MarkFired records that the milestone triggered.
func (s *RedisMilestoneStore) MarkFired(ctx context.Context, ruleID uuid.UUID, platform string, milestone int64) error {
	return s.client.SAdd(ctx, milestoneKey(ruleID, platform), strconv.FormatInt(milestone, 10)).Err()
}
