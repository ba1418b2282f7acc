package trigger

import (
	"context"
	"time"

	"github.com/postpulse/postpulse/internal/automations/domain"
	"github.com/postpulse/postpulse/internal/content"
)

// Signal sources supply the externally measured values that non-time
// triggers compare against their thresholds. Implementations should honor
// context cancellation; the registry bounds every lookup with a timeout.

// EngagementSource reads recent content performance.
type EngagementSource interface {
	RecentPerformance(ctx context.Context, window time.Duration) ([]content.PerformanceSample, error)
}

// TrendSource reads trending topics per platform.
type TrendSource interface {
	TrendingTopics(ctx context.Context, platforms []string) ([]content.TrendingTopic, error)
}

// FollowerSource reads current follower counts per platform.
type FollowerSource interface {
	FollowerCounts(ctx context.Context, platforms []string) (map[string]int64, error)
}

// ScalarSource reads a single measured value, used by the competitor
// activity and content performance triggers.
type ScalarSource interface {
	Value(ctx context.Context) (float64, error)
}

// EngagementEvaluator fires engagement_based rules when any recently
// published item's engagement rate exceeds the configured threshold.
type EngagementEvaluator struct {
	source EngagementSource
}

// NewEngagementEvaluator creates an engagement-based trigger evaluator.
func NewEngagementEvaluator(source EngagementSource) *EngagementEvaluator {
	return &EngagementEvaluator{source: source}
}

// TriggerType returns the trigger type this evaluator handles.
func (e *EngagementEvaluator) TriggerType() domain.TriggerType {
	return domain.TriggerEngagementBased
}

// ShouldFire queries recent performance within the rule's window.
func (e *EngagementEvaluator) ShouldFire(ctx context.Context, rule *domain.AutomationRule, _ time.Time) (bool, error) {
	cond, err := domain.ParseEngagementConditions(rule.TriggerConditions)
	if err != nil {
		return false, err
	}

	samples, err := e.source.RecentPerformance(ctx, cond.Window())
	if err != nil {
		return false, err
	}

	for _, sample := range samples {
		if sample.EngagementRate > cond.EngagementRateThreshold {
			return true, nil
		}
	}
	return false, nil
}

// TrendingEvaluator fires trending_topic rules when a qualifying topic is
// reported for one of the rule's platforms.
type TrendingEvaluator struct {
	source TrendSource
}

// NewTrendingEvaluator creates a trending-topic trigger evaluator.
func NewTrendingEvaluator(source TrendSource) *TrendingEvaluator {
	return &TrendingEvaluator{source: source}
}

// TriggerType returns the trigger type this evaluator handles.
func (e *TrendingEvaluator) TriggerType() domain.TriggerType {
	return domain.TriggerTrendingTopic
}

// ShouldFire checks trend signals against the engagement and relevance
// thresholds.
func (e *TrendingEvaluator) ShouldFire(ctx context.Context, rule *domain.AutomationRule, _ time.Time) (bool, error) {
	cond, err := domain.ParseTrendingConditions(rule.TriggerConditions)
	if err != nil {
		return false, err
	}

	topics, err := e.source.TrendingTopics(ctx, cond.Platforms)
	if err != nil {
		return false, err
	}

	for _, topic := range topics {
		if topic.EngagementScore >= cond.EngagementThreshold && topic.RelevanceScore >= cond.RelevanceScore {
			return true, nil
		}
	}
	return false, nil
}

// Crossing is a follower milestone reached on a platform that has not fired
// yet for the rule.
type Crossing struct {
	Platform  string
	Milestone int64
}

// MilestoneTracker pairs a follower source with the fired-milestone store.
// The evaluator reads through it; the engine marks crossings fired after an
// execution attempt so each milestone triggers at most once.
type MilestoneTracker struct {
	source FollowerSource
	store  domain.MilestoneStore
}

// NewMilestoneTracker creates a milestone tracker.
func NewMilestoneTracker(source FollowerSource, store domain.MilestoneStore) *MilestoneTracker {
	return &MilestoneTracker{source: source, store: store}
}

// Pending returns the milestones the rule's accounts have crossed that have
// not fired yet.
func (t *MilestoneTracker) Pending(ctx context.Context, rule *domain.AutomationRule) ([]Crossing, error) {
	cond, err := domain.ParseMilestoneConditions(rule.TriggerConditions)
	if err != nil {
		return nil, err
	}

	platforms := cond.Platforms
	if len(platforms) == 0 {
		platforms = []string{"all"}
	}

	counts, err := t.source.FollowerCounts(ctx, platforms)
	if err != nil {
		return nil, err
	}

	var pending []Crossing
	for platform, count := range counts {
		for _, milestone := range cond.Milestones {
			if count < milestone {
				break // milestones are sorted ascending
			}
			fired, err := t.store.HasFired(ctx, rule.ID, platform, milestone)
			if err != nil {
				return nil, err
			}
			if !fired {
				pending = append(pending, Crossing{Platform: platform, Milestone: milestone})
			}
		}
	}
	return pending, nil
}

// MarkFired records the crossings so they do not fire again.
func (t *MilestoneTracker) MarkFired(ctx context.Context, rule *domain.AutomationRule, crossings []Crossing) error {
	for _, c := range crossings {
		if err := t.store.MarkFired(ctx, rule.ID, c.Platform, c.Milestone); err != nil {
			return err
		}
	}
	return nil
}

// MilestoneEvaluator fires follower_milestone rules on unfired crossings.
type MilestoneEvaluator struct {
	tracker *MilestoneTracker
}

// NewMilestoneEvaluator creates a follower-milestone trigger evaluator.
func NewMilestoneEvaluator(tracker *MilestoneTracker) *MilestoneEvaluator {
	return &MilestoneEvaluator{tracker: tracker}
}

// TriggerType returns the trigger type this evaluator handles.
func (e *MilestoneEvaluator) TriggerType() domain.TriggerType {
	return domain.TriggerFollowerMilestone
}

// ShouldFire reports whether any milestone crossing is pending.
func (e *MilestoneEvaluator) ShouldFire(ctx context.Context, rule *domain.AutomationRule, _ time.Time) (bool, error) {
	pending, err := e.tracker.Pending(ctx, rule)
	if err != nil {
		return false, err
	}
	return len(pending) > 0, nil
}

// ThresholdEvaluator fires competitor_activity and content_performance rules
// when a measured scalar meets the rule's threshold. Both trigger types share
// the same shape: an external signal lookup compared against a threshold.
type ThresholdEvaluator struct {
	triggerType domain.TriggerType
	source      ScalarSource
}

// NewCompetitorEvaluator creates a competitor-activity trigger evaluator.
func NewCompetitorEvaluator(source ScalarSource) *ThresholdEvaluator {
	return &ThresholdEvaluator{triggerType: domain.TriggerCompetitorActivity, source: source}
}

// NewPerformanceEvaluator creates a content-performance trigger evaluator.
func NewPerformanceEvaluator(source ScalarSource) *ThresholdEvaluator {
	return &ThresholdEvaluator{triggerType: domain.TriggerContentPerformance, source: source}
}

// TriggerType returns the trigger type this evaluator handles.
func (e *ThresholdEvaluator) TriggerType() domain.TriggerType {
	return e.triggerType
}

// ShouldFire compares the measured value against the rule's threshold.
func (e *ThresholdEvaluator) ShouldFire(ctx context.Context, rule *domain.AutomationRule, _ time.Time) (bool, error) {
	cond, err := domain.ParseThresholdConditions(rule.TriggerConditions)
	if err != nil {
		return false, err
	}

	value, err := e.source.Value(ctx)
	if err != nil {
		return false, err
	}
	return value >= cond.Threshold, nil
}
